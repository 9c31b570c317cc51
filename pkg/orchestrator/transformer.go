package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/steveAllen0112/http-aware-forms/pkg/formspec"
)

// Transformer mutates a form description before it is compiled.
// Implementations can rename fields, retarget the form or rewrite header
// templates.
type Transformer interface {
	Transform(ctx context.Context, spec *formspec.FormSpec) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, spec *formspec.FormSpec) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, spec *formspec.FormSpec) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, spec)
}

// PresetTransformer applies declarative overrides loaded from a JSON or YAML
// document. The document shape supports form attributes, header template
// patches keyed by declaration id and per-field patches:
//
//	action: https://staging.example.test/api/items
//	headers:
//	  range: {template: "pages={page,pad(3)}@{per}"}
//	fields:
//	  per: {value: "50", label: "Per page"}
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Action  *string                `yaml:"action"`
	Method  *string                `yaml:"method"`
	Enctype *string                `yaml:"enctype"`
	Target  *string                `yaml:"target"`
	Headers map[string]headerPatch `yaml:"headers"`
	Fields  map[string]fieldPatch  `yaml:"fields"`
}

type headerPatch struct {
	Name     string `yaml:"name"`
	Template string `yaml:"template"`
}

type fieldPatch struct {
	Label    string  `yaml:"label"`
	Value    *string `yaml:"value"`
	Required *bool   `yaml:"required"`
	Header   *string `yaml:"header"`
	Rename   string  `yaml:"rename"`
}

// NewPresetTransformer constructs a transformer from raw JSON or YAML bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	// JSON documents are valid YAML.
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a transformer document from the provided
// filesystem path.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied description.
func (t *PresetTransformer) Transform(ctx context.Context, spec *formspec.FormSpec) error {
	if spec == nil {
		return errors.New("preset transformer: form description is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := t.document
	setString(&spec.Action, doc.Action)
	setString(&spec.Method, doc.Method)
	setString(&spec.Enctype, doc.Enctype)
	setString(&spec.Target, doc.Target)

	for id, patch := range doc.Headers {
		header := findHeader(spec.Headers, id)
		if header == nil {
			return fmt.Errorf("preset transformer: header %q not found", id)
		}
		if patch.Name != "" {
			header.Name = patch.Name
		}
		if patch.Template != "" {
			header.Template = patch.Template
		}
	}

	for name, patch := range doc.Fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		matched := false
		for i := range spec.Fields {
			if spec.Fields[i].Name != name {
				continue
			}
			matched = true
			applyFieldPatch(&spec.Fields[i], patch)
		}
		if !matched {
			return fmt.Errorf("preset transformer: field %q not found", name)
		}
		if rename := strings.TrimSpace(patch.Rename); rename != "" {
			renameContained(spec.Headers, name, rename)
		}
	}
	return nil
}

func applyFieldPatch(field *formspec.FieldSpec, patch fieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Value != nil {
		field.Value = *patch.Value
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.Header != nil {
		field.Header = *patch.Header
	}
	if rename := strings.TrimSpace(patch.Rename); rename != "" {
		field.Name = rename
	}
}

// renameContained keeps header containment pointing at a renamed field.
func renameContained(headers []formspec.HeaderSpec, from, to string) {
	for i := range headers {
		for j, name := range headers[i].Fields {
			if name == from {
				headers[i].Fields[j] = to
			}
		}
	}
}

func findHeader(headers []formspec.HeaderSpec, id string) *formspec.HeaderSpec {
	for i := range headers {
		if headers[i].ID == id {
			return &headers[i]
		}
	}
	return nil
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}
