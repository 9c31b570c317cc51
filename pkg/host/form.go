package host

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/steveAllen0112/http-aware-forms/pkg/formspec"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
	"github.com/steveAllen0112/http-aware-forms/pkg/submit"
)

// ErrUnknownField is returned when a field name is not part of the form.
var ErrUnknownField = errors.New("host: unknown field")

type control struct {
	spec    formspec.FieldSpec
	value   string
	checked bool
	file    *model.File
}

// Form is the live state of a compiled form description: current control
// values plus the submit controls. It is safe for concurrent use.
type Form struct {
	compiled formspec.Compiled

	mu       sync.RWMutex
	controls []*control
}

// New builds a live form from a description.
func New(spec formspec.FormSpec) (*Form, error) {
	compiled, err := formspec.Compile(spec)
	if err != nil {
		return nil, err
	}
	return FromCompiled(compiled), nil
}

// FromCompiled builds a live form from an already compiled description.
func FromCompiled(compiled formspec.Compiled) *Form {
	f := &Form{compiled: compiled}
	for _, field := range compiled.Fields {
		value := field.Value
		if value == "" && field.Checkable() {
			value = "on"
		}
		f.controls = append(f.controls, &control{
			spec:    field,
			value:   value,
			checked: field.Checked,
		})
	}
	return f
}

// Model returns the form attributes and header declarations.
func (f *Form) Model() model.Form {
	return f.compiled.Form.Clone()
}

// Fields returns the field descriptions in document order.
func (f *Form) Fields() []formspec.FieldSpec {
	return append([]formspec.FieldSpec(nil), f.compiled.Fields...)
}

// Submitters returns the submit controls in document order.
func (f *Form) Submitters() []formspec.SubmitterSpec {
	return append([]formspec.SubmitterSpec(nil), f.compiled.Submitters...)
}

// Value returns the current value of the first submittable control named
// name. Unchecked checkables are skipped.
func (f *Form) Value(name string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, c := range f.controls {
		if c.spec.Name != name {
			continue
		}
		if c.spec.Checkable() {
			if c.checked {
				return c.value, true
			}
			continue
		}
		if c.file != nil {
			return c.file.Name, true
		}
		return c.value, true
	}
	return "", false
}

// Set assigns a text value. For checkboxes a value of "", "off", "false" or
// "0" unchecks the box and anything else checks it; for radio groups the
// button whose value matches is checked and the rest of the group cleared.
func (f *Form) Set(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	found := false
	for _, c := range f.controls {
		if c.spec.Name != name {
			continue
		}
		found = true
		switch c.spec.Kind() {
		case formspec.TypeCheckbox:
			c.checked = truthy(value)
		case formspec.TypeRadio:
			c.checked = c.value == value
		case formspec.TypeFile:
			return fmt.Errorf("host: field %q takes a file", name)
		default:
			c.value = value
			return nil
		}
	}
	if !found {
		return fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	return nil
}

// SetFile selects a file for a file control.
func (f *Form) SetFile(name string, file model.File) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.controls {
		if c.spec.Name != name {
			continue
		}
		if c.spec.Kind() != formspec.TypeFile {
			return fmt.Errorf("host: field %q is not a file input", name)
		}
		selected := file
		c.file = &selected
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownField, name)
}

// Snapshot captures the submittable entries in document order. Unchecked
// checkables are left out; a file control without a selection submits an
// empty file.
func (f *Form) Snapshot() model.Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	snapshot := make(model.Snapshot, 0, len(f.controls))
	for _, c := range f.controls {
		switch {
		case c.spec.Checkable():
			if c.checked {
				snapshot = append(snapshot, model.Text(c.spec.Name, c.value))
			}
		case c.spec.Kind() == formspec.TypeFile:
			file := model.File{ContentType: "application/octet-stream"}
			if c.file != nil {
				file = *c.file
			}
			snapshot = append(snapshot, model.FileEntry(c.spec.Name, file))
		default:
			snapshot = append(snapshot, model.Text(c.spec.Name, c.value))
		}
	}
	return snapshot
}

// Submitter resolves a submit control by name; an empty name selects the
// first one. A form without submit controls submits without a submitter.
func (f *Form) Submitter(name string) (*model.Submitter, error) {
	spec, ok := f.compiled.Submitter(name)
	if ok {
		return spec.Submitter(), nil
	}
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	return nil, fmt.Errorf("host: form %q has no submitter %q", f.compiled.Form.Name, name)
}

// Submission captures the controller input for the named submitter.
func (f *Form) Submission(submitter string) (submit.Submission, error) {
	sub, err := f.Submitter(submitter)
	if err != nil {
		return submit.Submission{}, err
	}
	return submit.Submission{
		Form:      f.Model(),
		Fields:    f.Snapshot(),
		Submitter: sub,
	}, nil
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "off", "false", "0", "no":
		return false
	default:
		return true
	}
}
