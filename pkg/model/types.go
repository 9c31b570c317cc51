package model

import "strings"

// HTTP methods the router distinguishes between.
const (
	MethodGet    = "GET"
	MethodHead   = "HEAD"
	MethodDelete = "DELETE"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodPatch  = "PATCH"
)

// Encoding types understood by the builder. Any other enctype is treated as a
// raw pass-through body.
const (
	EnctypeURLEncoded = "application/x-www-form-urlencoded"
	EnctypeMultipart  = "multipart/form-data"
	EnctypeTextPlain  = "text/plain"
)

// Browsing context keywords accepted as a form target.
const (
	TargetSelf   = "_self"
	TargetBlank  = "_blank"
	TargetParent = "_parent"
	TargetTop    = "_top"
)

// HeaderDeclaration pairs a header name with an interpolation template and the
// fields whose values feed the template. BoundFields holds the contained
// fields followed by any externally linked ones, without duplicates.
type HeaderDeclaration struct {
	ID          string
	Name        string
	Template    string
	BoundFields []string
}

// NewHeaderDeclaration trims its inputs and de-duplicates bound field names
// while keeping their first-seen order.
func NewHeaderDeclaration(id, name, template string, bound ...string) HeaderDeclaration {
	decl := HeaderDeclaration{
		ID:       strings.TrimSpace(id),
		Name:     strings.TrimSpace(name),
		Template: template,
	}
	seen := make(map[string]struct{}, len(bound))
	for _, field := range bound {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		decl.BoundFields = append(decl.BoundFields, field)
	}
	return decl
}

// Binds reports whether the named field feeds this declaration.
func (d HeaderDeclaration) Binds(field string) bool {
	for _, name := range d.BoundFields {
		if name == field {
			return true
		}
	}
	return false
}

// Participates reports whether the declaration names a header. Declarations
// without a header name are ignored by the aggregator and the router.
func (d HeaderDeclaration) Participates() bool {
	return strings.TrimSpace(d.Name) != ""
}

// Clone returns a copy that does not share the BoundFields array.
func (d HeaderDeclaration) Clone() HeaderDeclaration {
	d.BoundFields = append([]string(nil), d.BoundFields...)
	return d
}

// Form carries the form-level attributes plus its header declarations in
// declaration order.
type Form struct {
	Name         string
	Method       string
	Action       string
	Enctype      string
	Target       string
	NoValidate   bool
	Declarations []HeaderDeclaration
}

// Clone deep-copies the declaration list.
func (f Form) Clone() Form {
	if len(f.Declarations) > 0 {
		decls := make([]HeaderDeclaration, len(f.Declarations))
		for idx, decl := range f.Declarations {
			decls[idx] = decl.Clone()
		}
		f.Declarations = decls
	}
	return f
}

// SubmitterOverrides holds the formaction/formmethod/formenctype/
// formnovalidate/formtarget attributes of the control that triggered the
// submission. Nil fields fall through to the form-level value.
type SubmitterOverrides struct {
	Action     *string
	Method     *string
	Enctype    *string
	NoValidate *bool
	Target     *string
}

// Submitter describes the activated submit control. When Name is set its
// name/value pair is appended to the field snapshot.
type Submitter struct {
	Name      string
	Value     string
	Overrides SubmitterOverrides
}

// NoValidate reports whether the submitter carries formnovalidate.
func (s *Submitter) NoValidate() bool {
	if s == nil || s.Overrides.NoValidate == nil {
		return false
	}
	return *s.Overrides.NoValidate
}

// String returns a pointer to value, for building SubmitterOverrides literals.
func String(value string) *string {
	return &value
}

// Bool returns a pointer to value.
func Bool(value bool) *bool {
	return &value
}
