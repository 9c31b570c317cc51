// Package markup renders form descriptions as annotated HTML built on pongo2
// templates.
package markup

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/steveAllen0112/http-aware-forms/pkg/formspec"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the bundled templates so callers can layer overrides on
// top of them.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTemplatesFS replaces the bundled templates. The filesystem must provide
// form.tpl and field.tpl.
func WithTemplatesFS(fsys fs.FS) Option {
	return func(r *Renderer) {
		if fsys != nil {
			r.templates = fsys
		}
	}
}

// WithDocument wraps the form in a standalone HTML document with the given
// title.
func WithDocument(title string) Option {
	return func(r *Renderer) {
		r.document = strings.TrimSpace(title)
		if r.document == "" {
			r.document = "Form"
		}
	}
}

// Renderer writes form descriptions as annotated HTML that ParseHTML reads
// back: header declarations become `<fieldset is="http-header">` elements
// holding their contained fields.
type Renderer struct {
	templates fs.FS
	document  string
	engine    *Engine
}

// New constructs a Renderer.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{templates: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	engine, err := NewEngine(r.templates, ".tpl")
	if err != nil {
		return nil, err
	}
	r.engine = engine
	return r, nil
}

// Render writes spec to w. Specs that do not compile are rejected.
func (r *Renderer) Render(w io.Writer, spec formspec.FormSpec) error {
	if _, err := formspec.Compile(spec); err != nil {
		return fmt.Errorf("markup: %w", err)
	}
	_, err := r.engine.RenderTemplate("form", r.view(spec), w)
	return err
}

// Render writes spec to w with a default Renderer.
func Render(w io.Writer, spec formspec.FormSpec, options ...Option) error {
	r, err := New(options...)
	if err != nil {
		return err
	}
	return r.Render(w, spec)
}

type attribute struct {
	name  string
	value string
	bare  bool
}

func (a attribute) context() map[string]any {
	return map[string]any{"name": a.name, "value": a.value, "bare": a.bare}
}

func attributes(list []attribute) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, a := range list {
		out = append(out, a.context())
	}
	return out
}

func (r *Renderer) view(spec formspec.FormSpec) pongo2.Context {
	fieldsByName := make(map[string][]formspec.FieldSpec)
	for _, field := range spec.Fields {
		fieldsByName[field.Name] = append(fieldsByName[field.Name], field)
	}

	placed := make(map[string]bool)
	headers := make([]map[string]any, 0, len(spec.Headers))
	for _, header := range spec.Headers {
		var contained []map[string]any
		for _, name := range header.Fields {
			if placed[name] {
				continue
			}
			for _, field := range fieldsByName[name] {
				if field.Header == "" {
					contained = append(contained, fieldView(field))
					placed[name] = true
				}
			}
		}
		var attrs []attribute
		if header.ID != "" {
			attrs = append(attrs, attribute{name: "id", value: header.ID})
		}
		attrs = append(attrs,
			attribute{name: "name", value: header.Name},
			attribute{name: "value", value: header.Template},
		)
		headers = append(headers, map[string]any{
			"attrs":  attributes(attrs),
			"fields": contained,
		})
	}

	var loose []map[string]any
	for _, field := range spec.Fields {
		if field.Header == "" && placed[field.Name] {
			continue
		}
		loose = append(loose, fieldView(field))
	}

	submitters := make([]map[string]any, 0, len(spec.Submitters))
	for _, sub := range spec.Submitters {
		submitters = append(submitters, submitterView(sub))
	}

	return pongo2.Context{
		"document":   r.document,
		"form":       attributes(formAttributes(spec)),
		"headers":    headers,
		"fields":     loose,
		"submitters": submitters,
	}
}

func formAttributes(spec formspec.FormSpec) []attribute {
	var attrs []attribute
	add := func(name, value string) {
		if value != "" {
			attrs = append(attrs, attribute{name: name, value: value})
		}
	}
	add("name", spec.Name)
	add("action", spec.Action)
	add("method", spec.Method)
	add("enctype", spec.Enctype)
	add("target", spec.Target)
	if spec.NoValidate {
		attrs = append(attrs, attribute{name: "novalidate", bare: true})
	}
	return attrs
}

func fieldView(field formspec.FieldSpec) map[string]any {
	kind := field.Kind()
	tag := "input"
	switch kind {
	case formspec.TypeSelect, formspec.TypeTextarea:
		tag = kind
	}

	var attrs []attribute
	add := func(name, value string) {
		if value != "" {
			attrs = append(attrs, attribute{name: name, value: value})
		}
	}
	flag := func(name string, set bool) {
		if set {
			attrs = append(attrs, attribute{name: name, bare: true})
		}
	}
	if tag == "input" {
		add("type", field.Type)
	}
	add("name", field.Name)
	if tag == "input" {
		add("value", field.Value)
		flag("checked", field.Checked)
	}
	add("aria-label", field.Label)
	flag("required", field.Required)
	add("pattern", field.Pattern)
	if field.MinLength > 0 {
		add("minlength", strconv.Itoa(field.MinLength))
	}
	if field.MaxLength > 0 {
		add("maxlength", strconv.Itoa(field.MaxLength))
	}
	add("header", field.Header)

	options := make([]map[string]any, 0, len(field.Options))
	selected := false
	for _, option := range field.Options {
		isSelected := !selected && option == field.Value
		selected = selected || isSelected
		options = append(options, map[string]any{"value": option, "selected": isSelected})
	}

	label := field.Label
	if kind == formspec.TypeHidden {
		label = ""
	}
	return map[string]any{
		"tag":     tag,
		"label":   label,
		"value":   field.Value,
		"attrs":   attributes(attrs),
		"options": options,
	}
}

func submitterView(sub formspec.SubmitterSpec) map[string]any {
	var attrs []attribute
	if sub.Name != "" {
		attrs = append(attrs, attribute{name: "name", value: sub.Name})
	}
	if sub.Value != "" {
		attrs = append(attrs, attribute{name: "value", value: sub.Value})
	}
	overrides := []struct {
		name  string
		value *string
	}{
		{"formaction", sub.Action},
		{"formmethod", sub.Method},
		{"formenctype", sub.Enctype},
		{"formtarget", sub.Target},
	}
	for _, o := range overrides {
		if o.value != nil {
			attrs = append(attrs, attribute{name: o.name, value: *o.value})
		}
	}
	if sub.NoValidate != nil && *sub.NoValidate {
		attrs = append(attrs, attribute{name: "formnovalidate", bare: true})
	}
	return map[string]any{
		"attrs": attributes(attrs),
		"label": sub.Label,
	}
}
