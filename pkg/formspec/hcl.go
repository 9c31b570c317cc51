package formspec

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// hclFile is the top-level structure of an HCL form description.
type hclFile struct {
	Forms []*hclForm `hcl:"form,block"`
}

type hclForm struct {
	Name       string          `hcl:"name,label"`
	Method     *string         `hcl:"method,optional"`
	Action     *string         `hcl:"action,optional"`
	Enctype    *string         `hcl:"enctype,optional"`
	Target     *string         `hcl:"target,optional"`
	NoValidate *bool           `hcl:"novalidate,optional"`
	Headers    []*hclHeader    `hcl:"header,block"`
	Fields     []*hclField     `hcl:"field,block"`
	Submitters []*hclSubmitter `hcl:"submitter,block"`
}

type hclHeader struct {
	ID       string   `hcl:"id,label"`
	Name     string   `hcl:"name"`
	Template string   `hcl:"template"`
	Fields   []string `hcl:"fields,optional"`
}

type hclField struct {
	Name      string   `hcl:"name,label"`
	Type      *string  `hcl:"type,optional"`
	Value     *string  `hcl:"value,optional"`
	Label     *string  `hcl:"label,optional"`
	Checked   *bool    `hcl:"checked,optional"`
	Options   []string `hcl:"options,optional"`
	Required  *bool    `hcl:"required,optional"`
	Pattern   *string  `hcl:"pattern,optional"`
	MinLength *int     `hcl:"minlength,optional"`
	MaxLength *int     `hcl:"maxlength,optional"`
	Header    *string  `hcl:"header,optional"`
}

type hclSubmitter struct {
	Name       string  `hcl:"name,label"`
	Value      *string `hcl:"value,optional"`
	Label      *string `hcl:"label,optional"`
	Action     *string `hcl:"formaction,optional"`
	Method     *string `hcl:"formmethod,optional"`
	Enctype    *string `hcl:"formenctype,optional"`
	NoValidate *bool   `hcl:"formnovalidate,optional"`
	Target     *string `hcl:"formtarget,optional"`
}

// ParseHCL decodes `form` blocks. Expressions may reference env.NAME, which
// resolves against env.
func ParseHCL(data []byte, filename string, env map[string]string) ([]FormSpec, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("formspec: parse HCL file %s: %w", filename, diags)
	}

	var parsed hclFile
	diags = gohcl.DecodeBody(file.Body, evalContext(env), &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("formspec: decode HCL file %s: %w", filename, diags)
	}

	forms := make([]FormSpec, 0, len(parsed.Forms))
	for _, raw := range parsed.Forms {
		forms = append(forms, raw.spec())
	}
	return forms, nil
}

func evalContext(env map[string]string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(env))
	for key, value := range env {
		vars[key] = cty.StringVal(value)
	}
	envVal := cty.EmptyObjectVal
	if len(vars) > 0 {
		envVal = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": envVal},
	}
}

func (f *hclForm) spec() FormSpec {
	spec := FormSpec{
		Name:       f.Name,
		Method:     deref(f.Method),
		Action:     deref(f.Action),
		Enctype:    deref(f.Enctype),
		Target:     deref(f.Target),
		NoValidate: f.NoValidate != nil && *f.NoValidate,
	}
	for _, h := range f.Headers {
		spec.Headers = append(spec.Headers, HeaderSpec{ID: h.ID, Name: h.Name, Template: h.Template, Fields: h.Fields})
	}
	for _, field := range f.Fields {
		spec.Fields = append(spec.Fields, FieldSpec{
			Name:      field.Name,
			Type:      deref(field.Type),
			Value:     deref(field.Value),
			Label:     deref(field.Label),
			Checked:   field.Checked != nil && *field.Checked,
			Options:   field.Options,
			Required:  field.Required != nil && *field.Required,
			Pattern:   deref(field.Pattern),
			MinLength: derefInt(field.MinLength),
			MaxLength: derefInt(field.MaxLength),
			Header:    deref(field.Header),
		})
	}
	for _, sub := range f.Submitters {
		spec.Submitters = append(spec.Submitters, SubmitterSpec{
			Name:       sub.Name,
			Value:      deref(sub.Value),
			Label:      deref(sub.Label),
			Action:     sub.Action,
			Method:     sub.Method,
			Enctype:    sub.Enctype,
			NoValidate: sub.NoValidate,
			Target:     sub.Target,
		})
	}
	return spec
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
