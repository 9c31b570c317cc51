package openapi

import (
	"errors"
	"sort"
)

// Source identifies where an OpenAPI document originated so loaders can read
// files, fs.FS entries or URLs behind one contract.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Document wraps the raw OpenAPI payload and its origin. Callers never see
// kin-openapi types.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the OpenAPI payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Parameter locations.
const (
	InQuery  = "query"
	InHeader = "header"
	InPath   = "path"
	InCookie = "cookie"
)

// Extension keys that shape header parameters. x-header-template replaces the
// default `{name}` template and x-header-fields lists the form fields feeding
// it.
const (
	HeaderTemplateExtension = "x-header-template"
	HeaderFieldsExtension   = "x-header-fields"
)

// Operation is the subset of an OpenAPI operation needed to describe a form.
type Operation struct {
	ID          string
	Method      string
	Path        string
	BaseURL     string
	Summary     string
	Description string
	Parameters  []Parameter
	Body        *RequestBody
}

// Parameter is a single operation parameter.
type Parameter struct {
	Name           string
	In             string
	Required       bool
	Description    string
	Schema         Schema
	HeaderTemplate string
	HeaderFields   []string
}

// RequestBody is the form-compatible request body of an operation.
type RequestBody struct {
	MediaType string
	Required  bool
	Schema    Schema
}

// Schema carries the constraints that map onto form controls.
type Schema struct {
	Type       string
	Format     string
	Enum       []string
	Default    string
	Pattern    string
	MinLength  int
	MaxLength  int
	Required   []string
	Properties map[string]Schema
}

// PropertyNames returns the property names in sorted order.
func (s Schema) PropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRequired reports whether the named property is required.
func (s Schema) IsRequired(name string) bool {
	for _, candidate := range s.Required {
		if candidate == name {
			return true
		}
	}
	return false
}
