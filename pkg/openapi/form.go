package openapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/steveAllen0112/http-aware-forms/pkg/formspec"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
)

var (
	// ErrOperationNotFound is returned when the document has no such operation.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrUnresolvedPath is returned when a path parameter has neither a
	// default nor an enum to fill the static form action with.
	ErrUnresolvedPath = errors.New("openapi: path parameter has no default")
)

// FormFor parses doc and converts the operation with the given id.
func FormFor(ctx context.Context, parser Parser, doc Document, operationID string) (formspec.FormSpec, error) {
	if parser == nil {
		return formspec.FormSpec{}, errors.New("openapi: parser is nil")
	}
	operations, err := parser.Operations(ctx, doc)
	if err != nil {
		return formspec.FormSpec{}, err
	}
	op, ok := operations[strings.TrimSpace(operationID)]
	if !ok {
		return formspec.FormSpec{}, fmt.Errorf("%w: %q in %s", ErrOperationNotFound, operationID, doc.Location())
	}
	return FormFromOperation(op)
}

// FormFromOperation describes a form submitting op. Header parameters become
// header declarations: the template is x-header-template when present (fed by
// the x-header-fields fields), otherwise `{name}` fed by a field of the same
// name. Query parameters and form-encoded body properties become fields.
func FormFromOperation(op Operation) (formspec.FormSpec, error) {
	action, err := resolvePath(op)
	if err != nil {
		return formspec.FormSpec{}, err
	}
	spec := formspec.FormSpec{
		Name:   op.ID,
		Method: strings.ToUpper(op.Method),
		Action: joinURL(op.BaseURL, action),
	}

	seen := make(map[string]struct{})
	addField := func(field formspec.FieldSpec) {
		if _, ok := seen[field.Name]; ok {
			return
		}
		seen[field.Name] = struct{}{}
		spec.Fields = append(spec.Fields, field)
	}

	for _, param := range op.Parameters {
		switch param.In {
		case InHeader:
			header := formspec.HeaderSpec{
				ID:       strings.ToLower(param.Name),
				Name:     param.Name,
				Template: "{" + param.Name + "}",
				Fields:   []string{param.Name},
			}
			if param.HeaderTemplate != "" {
				header.Template = param.HeaderTemplate
				header.Fields = append([]string(nil), param.HeaderFields...)
			}
			spec.Headers = append(spec.Headers, header)
			for _, name := range header.Fields {
				field := fieldFromSchema(name, param.Schema, param.Required)
				if name != param.Name {
					field = formspec.FieldSpec{Name: name, Required: param.Required}
				}
				field.Label = labelFor(name, param.Description)
				addField(field)
			}
		case InQuery:
			field := fieldFromSchema(param.Name, param.Schema, param.Required)
			field.Label = labelFor(param.Name, param.Description)
			addField(field)
		}
	}

	if op.Body != nil {
		spec.Enctype = op.Body.MediaType
		for _, name := range op.Body.Schema.PropertyNames() {
			prop := op.Body.Schema.Properties[name]
			addField(fieldFromSchema(name, prop, op.Body.Required && op.Body.Schema.IsRequired(name)))
		}
	}

	label := strings.TrimSpace(op.Summary)
	if label == "" {
		label = op.ID
	}
	spec.Submitters = []formspec.SubmitterSpec{{Label: label}}
	return spec, nil
}

func fieldFromSchema(name string, schema Schema, required bool) formspec.FieldSpec {
	field := formspec.FieldSpec{
		Name:      name,
		Value:     schema.Default,
		Required:  required,
		Pattern:   schema.Pattern,
		MinLength: schema.MinLength,
		MaxLength: schema.MaxLength,
	}
	switch {
	case len(schema.Enum) > 0:
		field.Type = formspec.TypeSelect
		field.Options = append([]string(nil), schema.Enum...)
		if field.Value == "" && !required {
			field.Options = append([]string{""}, field.Options...)
		}
	case schema.Type == "integer" || schema.Type == "number":
		field.Type = formspec.TypeNumber
	case schema.Type == "boolean":
		field.Type = formspec.TypeCheckbox
		field.Checked, _ = strconv.ParseBool(schema.Default)
		field.Value = "true"
		field.Required = false
	case schema.Format == "binary":
		field.Type = formspec.TypeFile
	case schema.Format == "email":
		field.Type = formspec.TypeEmail
	case schema.Format == "uri" || schema.Format == "url":
		field.Type = formspec.TypeURL
	case schema.Format == "password":
		field.Type = formspec.TypePassword
	}
	return field
}

func resolvePath(op Operation) (string, error) {
	path := op.Path
	for _, param := range op.Parameters {
		if param.In != InPath {
			continue
		}
		value := param.Schema.Default
		if value == "" && len(param.Schema.Enum) > 0 {
			value = param.Schema.Enum[0]
		}
		if value == "" {
			return "", fmt.Errorf("%w: %s in %s %s", ErrUnresolvedPath, param.Name, op.Method, op.Path)
		}
		path = strings.ReplaceAll(path, "{"+param.Name+"}", value)
	}
	return path, nil
}

func joinURL(base, path string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return path
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

func labelFor(name, description string) string {
	if d := strings.TrimSpace(description); d != "" {
		return d
	}
	return name
}

// FormEnctype reports whether a request body media type can be produced by a
// form, returning the enctype to use.
func FormEnctype(mediaType string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case model.EnctypeURLEncoded:
		return model.EnctypeURLEncoded, true
	case model.EnctypeMultipart:
		return model.EnctypeMultipart, true
	case model.EnctypeTextPlain:
		return model.EnctypeTextPlain, true
	default:
		return "", false
	}
}
