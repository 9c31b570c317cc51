package formspec

import (
	"strings"

	"github.com/steveAllen0112/http-aware-forms/pkg/model"
)

// FormSpec is the static description of an HTTP-aware form.
type FormSpec struct {
	Name       string          `json:"name" yaml:"name"`
	Method     string          `json:"method,omitempty" yaml:"method,omitempty"`
	Action     string          `json:"action,omitempty" yaml:"action,omitempty"`
	Enctype    string          `json:"enctype,omitempty" yaml:"enctype,omitempty"`
	Target     string          `json:"target,omitempty" yaml:"target,omitempty"`
	NoValidate bool            `json:"novalidate,omitempty" yaml:"novalidate,omitempty"`
	Headers    []HeaderSpec    `json:"headers,omitempty" yaml:"headers,omitempty"`
	Fields     []FieldSpec     `json:"fields,omitempty" yaml:"fields,omitempty"`
	Submitters []SubmitterSpec `json:"submitters,omitempty" yaml:"submitters,omitempty"`
	Source     string          `json:"-" yaml:"-"`
}

// HeaderSpec declares a header. Fields lists the names of the fields the
// declaration contains; fields elsewhere in the form join it through their
// Header link.
type HeaderSpec struct {
	ID       string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string   `json:"name" yaml:"name"`
	Template string   `json:"template" yaml:"template"`
	Fields   []string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// FieldSpec describes one form control.
type FieldSpec struct {
	Name      string   `json:"name" yaml:"name"`
	Type      string   `json:"type,omitempty" yaml:"type,omitempty"`
	Value     string   `json:"value,omitempty" yaml:"value,omitempty"`
	Label     string   `json:"label,omitempty" yaml:"label,omitempty"`
	Checked   bool     `json:"checked,omitempty" yaml:"checked,omitempty"`
	Options   []string `json:"options,omitempty" yaml:"options,omitempty"`
	Required  bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	MinLength int      `json:"minlength,omitempty" yaml:"minlength,omitempty"`
	MaxLength int      `json:"maxlength,omitempty" yaml:"maxlength,omitempty"`
	Header    string   `json:"header,omitempty" yaml:"header,omitempty"`
}

// Control types with dedicated handling.
const (
	TypeText     = "text"
	TypeHidden   = "hidden"
	TypePassword = "password"
	TypeNumber   = "number"
	TypeEmail    = "email"
	TypeURL      = "url"
	TypeCheckbox = "checkbox"
	TypeRadio    = "radio"
	TypeSelect   = "select"
	TypeTextarea = "textarea"
	TypeFile     = "file"
)

// Kind returns the normalised control type, defaulting to text.
func (f FieldSpec) Kind() string {
	kind := strings.ToLower(strings.TrimSpace(f.Type))
	if kind == "" {
		return TypeText
	}
	return kind
}

// Checkable reports whether the control only submits when checked.
func (f FieldSpec) Checkable() bool {
	kind := f.Kind()
	return kind == TypeCheckbox || kind == TypeRadio
}

// DisplayLabel returns the label, falling back to the field name.
func (f FieldSpec) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Name
}

// SubmitterSpec describes a submit control and its overrides. Nil overrides
// are absent.
type SubmitterSpec struct {
	Name       string  `json:"name,omitempty" yaml:"name,omitempty"`
	Value      string  `json:"value,omitempty" yaml:"value,omitempty"`
	Label      string  `json:"label,omitempty" yaml:"label,omitempty"`
	Action     *string `json:"formaction,omitempty" yaml:"formaction,omitempty"`
	Method     *string `json:"formmethod,omitempty" yaml:"formmethod,omitempty"`
	Enctype    *string `json:"formenctype,omitempty" yaml:"formenctype,omitempty"`
	NoValidate *bool   `json:"formnovalidate,omitempty" yaml:"formnovalidate,omitempty"`
	Target     *string `json:"formtarget,omitempty" yaml:"formtarget,omitempty"`
}

// Submitter converts the spec into the model submitter.
func (s SubmitterSpec) Submitter() *model.Submitter {
	return &model.Submitter{
		Name:  strings.TrimSpace(s.Name),
		Value: s.Value,
		Overrides: model.SubmitterOverrides{
			Action:     cloneString(s.Action),
			Method:     cloneString(s.Method),
			Enctype:    cloneString(s.Enctype),
			NoValidate: cloneBool(s.NoValidate),
			Target:     cloneString(s.Target),
		},
	}
}

// DisplayLabel returns the label, falling back to the value then the name.
func (s SubmitterSpec) DisplayLabel() string {
	for _, candidate := range []string{s.Label, s.Value, s.Name} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return "Submit"
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
