// Package httpforms augments HTML-style form submission with HTTP awareness:
// forms declare request headers whose values are interpolated from field
// values, those fields are withheld from the query string or body, and the
// resulting request is sent and its response presented in a browsing context.
package httpforms

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/benbjohnson/clock"

	"github.com/steveAllen0112/http-aware-forms/pkg/format"
	"github.com/steveAllen0112/http-aware-forms/pkg/format/builtin"
	"github.com/steveAllen0112/http-aware-forms/pkg/formspec"
	"github.com/steveAllen0112/http-aware-forms/pkg/markup"
	pkgopenapi "github.com/steveAllen0112/http-aware-forms/pkg/openapi"
	"github.com/steveAllen0112/http-aware-forms/pkg/orchestrator"
	"github.com/steveAllen0112/http-aware-forms/pkg/request"
	"github.com/steveAllen0112/http-aware-forms/pkg/submit"
)

// Request aliases orchestrator.Request for callers using the root package.
type Request = orchestrator.Request

// Value aliases orchestrator.Value.
type Value = orchestrator.Value

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewController builds a submission controller.
func NewController(options ...submit.Option) *submit.Controller {
	return submit.New(options...)
}

// NewFormatters returns a formatter registry holding the built-in formatters
// (fixed, pad, upper, lower, iso8601, date, httpdate).
func NewFormatters(c clock.Clock) *format.Registry {
	registry := format.NewRegistry()
	var options []builtin.Option
	if c != nil {
		options = append(options, builtin.WithClock(c))
	}
	builtin.Register(registry, options...)
	return registry
}

// NewBuilder builds a request builder whose header templates can use the
// built-in formatters. Later options take precedence.
func NewBuilder(options ...request.Option) *request.Builder {
	defaults := []request.Option{request.WithFormatters(NewFormatters(nil))}
	return request.New(append(defaults, options...)...)
}

// LoadForm reads a description file and returns the form called name, or the
// only form in the file when name is empty. HCL files see the process
// environment as `env`.
func LoadForm(path, name string) (formspec.FormSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return formspec.FormSpec{}, fmt.Errorf("httpforms: read %s: %w", path, err)
	}
	forms, err := formspec.ParseFile(filepath.Base(path), data, formspec.Environ())
	if err != nil {
		return formspec.FormSpec{}, err
	}
	return pickForm(forms, path, name)
}

func pickForm(forms []formspec.FormSpec, source, name string) (formspec.FormSpec, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		if len(forms) != 1 {
			names := make([]string, 0, len(forms))
			for _, form := range forms {
				names = append(names, form.Name)
			}
			return formspec.FormSpec{}, fmt.Errorf("httpforms: %s holds %d forms %v; pick one by name", source, len(forms), names)
		}
		return forms[0], nil
	}
	for _, form := range forms {
		if form.Name == name {
			return form, nil
		}
	}
	return formspec.FormSpec{}, fmt.Errorf("httpforms: form %q not found in %s", name, source)
}

// FormFromOpenAPI loads the OpenAPI document at source and converts the
// operation into a form description.
func FormFromOpenAPI(ctx context.Context, source pkgopenapi.Source, operationID string, options ...pkgopenapi.LoaderOption) (formspec.FormSpec, error) {
	doc, err := NewLoader(options...).Load(ctx, source)
	if err != nil {
		return formspec.FormSpec{}, err
	}
	return pkgopenapi.FormFor(ctx, NewParser(), doc, operationID)
}

// Submit runs one submission through a default orchestrator configured with
// options.
func Submit(ctx context.Context, req Request, options ...orchestrator.Option) (submit.Outcome, error) {
	return orchestrator.New(options...).Submit(ctx, req)
}

// RenderHTML writes spec as annotated HTML that LoadForm reads back.
func RenderHTML(w io.Writer, spec formspec.FormSpec, options ...markup.Option) error {
	return markup.Render(w, spec, options...)
}
