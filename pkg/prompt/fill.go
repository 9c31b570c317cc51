package prompt

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/steveAllen0112/http-aware-forms/internal/ctxlog"
	"github.com/steveAllen0112/http-aware-forms/pkg/formspec"
	"github.com/steveAllen0112/http-aware-forms/pkg/host"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
)

// FileReader loads the file selected for a file control.
type FileReader func(path string) (model.File, error)

// Option customises Fill.
type Option func(*filler)

type filler struct {
	readFile   FileReader
	skipHidden bool
}

// WithFileReader overrides how file control paths are read.
func WithFileReader(fn FileReader) Option {
	return func(f *filler) {
		if fn != nil {
			f.readFile = fn
		}
	}
}

// WithHiddenFields prompts for hidden controls too.
func WithHiddenFields() Option {
	return func(f *filler) {
		f.skipHidden = false
	}
}

// Fill prompts for every control of form in document order, using the current
// values as defaults, and writes the answers back. Radio buttons sharing a
// name are asked once as a single choice.
func Fill(ctx context.Context, driver Driver, form *host.Form, opts ...Option) error {
	if driver == nil {
		return errors.New("prompt: driver is nil")
	}
	if form == nil {
		return errors.New("prompt: form is nil")
	}
	f := &filler{readFile: ReadFile, skipHidden: true}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	logger := ctxlog.FromContext(ctx)
	fields := form.Fields()
	asked := make(map[string]struct{})
	for _, field := range fields {
		if f.skipHidden && field.Kind() == formspec.TypeHidden {
			continue
		}
		if field.Kind() == formspec.TypeRadio {
			if _, done := asked[field.Name]; done {
				continue
			}
			asked[field.Name] = struct{}{}
		}
		if err := f.ask(ctx, driver, form, fields, field); err != nil {
			return err
		}
		logger.Debug("prompt: field filled", "field", field.Name)
	}
	return nil
}

func (f *filler) ask(ctx context.Context, driver Driver, form *host.Form, fields []formspec.FieldSpec, field formspec.FieldSpec) error {
	current, _ := form.Value(field.Name)
	message := field.DisplayLabel()
	validate := func(value string) error {
		return host.CheckValue(field, value)
	}

	switch field.Kind() {
	case formspec.TypeCheckbox:
		checked, err := driver.Confirm(ctx, ConfirmConfig{Message: message, Default: current != ""})
		if err != nil {
			return err
		}
		value := ""
		if checked {
			value = "on"
		}
		return form.Set(field.Name, value)

	case formspec.TypeRadio:
		var options []string
		for _, candidate := range fields {
			if candidate.Name == field.Name && candidate.Kind() == formspec.TypeRadio {
				options = append(options, radioValue(candidate))
			}
		}
		index, err := driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: slices.Index(options, current)})
		if err != nil {
			return err
		}
		if index < 0 || index >= len(options) {
			return fmt.Errorf("prompt: no option selected for %q", field.Name)
		}
		return form.Set(field.Name, options[index])

	case formspec.TypeSelect:
		if len(field.Options) == 0 {
			break
		}
		index, err := driver.Select(ctx, SelectConfig{Message: message, Options: field.Options, DefaultIndex: slices.Index(field.Options, current)})
		if err != nil {
			return err
		}
		if index < 0 || index >= len(field.Options) {
			return fmt.Errorf("prompt: no option selected for %q", field.Name)
		}
		return form.Set(field.Name, field.Options[index])

	case formspec.TypeTextarea:
		value, err := driver.TextArea(ctx, TextAreaConfig{Message: message, Default: current})
		if err != nil {
			return err
		}
		return form.Set(field.Name, value)

	case formspec.TypePassword:
		value, err := driver.Password(ctx, InputConfig{Message: message, Default: current, Validator: validate})
		if err != nil {
			return err
		}
		return form.Set(field.Name, value)

	case formspec.TypeFile:
		path, err := driver.Input(ctx, InputConfig{Message: message, Help: "path of the file to upload, empty for none"})
		if err != nil {
			return err
		}
		if strings.TrimSpace(path) == "" {
			return nil
		}
		file, err := f.readFile(path)
		if err != nil {
			return fmt.Errorf("prompt: read %s: %w", path, err)
		}
		return form.SetFile(field.Name, file)
	}

	value, err := driver.Input(ctx, InputConfig{Message: message, Default: current, Validator: validate})
	if err != nil {
		return err
	}
	return form.Set(field.Name, value)
}

func radioValue(field formspec.FieldSpec) string {
	if field.Value == "" {
		return "on"
	}
	return field.Value
}

// ReadFile reads path from disk, guessing the content type from its
// extension.
func ReadFile(path string) (model.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.File{}, err
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return model.File{Name: filepath.Base(path), ContentType: contentType, Data: data}, nil
}
