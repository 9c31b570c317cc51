package formspec

import (
	"fmt"
	"strings"

	"github.com/steveAllen0112/http-aware-forms/pkg/model"
)

// Compiled is a form description with its header bindings resolved.
type Compiled struct {
	Form       model.Form
	Fields     []FieldSpec
	Submitters []SubmitterSpec
}

// Submitter returns the submitter with the given name, or the first one when
// name is empty. It reports false when the form has no matching submitter.
func (c Compiled) Submitter(name string) (SubmitterSpec, bool) {
	name = strings.TrimSpace(name)
	for _, sub := range c.Submitters {
		if name == "" || strings.TrimSpace(sub.Name) == name {
			return sub, true
		}
	}
	return SubmitterSpec{}, false
}

// Compile resolves header bindings once: each declaration binds the fields it
// contains followed by every field linking to its id, in document order.
func Compile(spec FormSpec) (Compiled, error) {
	name := strings.TrimSpace(spec.Name)
	out := Compiled{
		Form: model.Form{
			Name:       name,
			Method:     strings.TrimSpace(spec.Method),
			Action:     strings.TrimSpace(spec.Action),
			Enctype:    strings.TrimSpace(spec.Enctype),
			Target:     strings.TrimSpace(spec.Target),
			NoValidate: spec.NoValidate,
		},
		Fields:     make([]FieldSpec, 0, len(spec.Fields)),
		Submitters: append([]SubmitterSpec(nil), spec.Submitters...),
	}

	ids := make(map[string]int, len(spec.Headers))
	for idx, header := range spec.Headers {
		if strings.TrimSpace(header.Name) == "" {
			return Compiled{}, fmt.Errorf("formspec: form %q header %d has no name", name, idx)
		}
		id := strings.TrimSpace(header.ID)
		if id == "" {
			continue
		}
		if _, exists := ids[id]; exists {
			return Compiled{}, fmt.Errorf("formspec: form %q declares header id %q twice", name, id)
		}
		ids[id] = idx
	}

	linked := make([][]string, len(spec.Headers))
	for idx, field := range spec.Fields {
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			return Compiled{}, fmt.Errorf("formspec: form %q field %d has no name", name, idx)
		}
		if link := strings.TrimSpace(field.Header); link != "" {
			target, ok := ids[link]
			if !ok {
				return Compiled{}, fmt.Errorf("formspec: form %q field %q links unknown header %q", name, field.Name, link)
			}
			linked[target] = append(linked[target], field.Name)
		}
		out.Fields = append(out.Fields, field)
	}

	for idx, header := range spec.Headers {
		bound := append(append([]string(nil), header.Fields...), linked[idx]...)
		out.Form.Declarations = append(out.Form.Declarations,
			model.NewHeaderDeclaration(header.ID, header.Name, header.Template, bound...))
	}
	return out, nil
}
