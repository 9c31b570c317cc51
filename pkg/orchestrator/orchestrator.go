package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/benbjohnson/clock"

	internalLoader "github.com/steveAllen0112/http-aware-forms/internal/openapi/loader"
	internalParser "github.com/steveAllen0112/http-aware-forms/internal/openapi/parser"
	"github.com/steveAllen0112/http-aware-forms/pkg/browser"
	"github.com/steveAllen0112/http-aware-forms/pkg/format"
	"github.com/steveAllen0112/http-aware-forms/pkg/format/builtin"
	"github.com/steveAllen0112/http-aware-forms/pkg/formspec"
	"github.com/steveAllen0112/http-aware-forms/pkg/host"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
	pkgopenapi "github.com/steveAllen0112/http-aware-forms/pkg/openapi"
	"github.com/steveAllen0112/http-aware-forms/pkg/request"
	"github.com/steveAllen0112/http-aware-forms/pkg/submit"
	"github.com/steveAllen0112/http-aware-forms/pkg/transport"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom OpenAPI loader.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom OpenAPI parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithFormsFS supplies an fs.FS holding form descriptions addressable by
// Request.FormName.
func WithFormsFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.formsFS = fsys
	}
}

// WithFormatters injects the registry header templates resolve formatters
// against. By default the built-in formatters are registered.
func WithFormatters(registry *format.Registry) Option {
	return func(o *Orchestrator) {
		o.formatters = registry
	}
}

// WithTransport injects the transport used to send requests.
func WithTransport(t submit.Transport) Option {
	return func(o *Orchestrator) {
		o.transport = t
	}
}

// WithBrowser injects the browser navigated after each exchange.
func WithBrowser(b *browser.Browser) Option {
	return func(o *Orchestrator) {
		o.browser = b
	}
}

// WithClock overrides the clock used by date formatters and submit timings.
func WithClock(c clock.Clock) Option {
	return func(o *Orchestrator) {
		o.clock = c
	}
}

// WithFiller registers a Filler that edits the live form before submission.
func WithFiller(f Filler) Option {
	return func(o *Orchestrator) {
		o.filler = f
	}
}

// WithSchemaTransformer registers a Transformer that can mutate form
// descriptions before they are compiled.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithControllerOptions passes options (listeners, typically) through to every
// submit.Controller the orchestrator creates.
func WithControllerOptions(options ...submit.Option) Option {
	return func(o *Orchestrator) {
		o.controllerOptions = append(o.controllerOptions, options...)
	}
}

// Filler edits a live form, e.g. by prompting the user.
type Filler interface {
	Fill(ctx context.Context, form *host.Form) error
}

// FillerFunc adapts plain functions to the Filler interface.
type FillerFunc func(ctx context.Context, form *host.Form) error

// Fill executes the wrapped function when non-nil.
func (fn FillerFunc) Fill(ctx context.Context, form *host.Form) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// Orchestrator coordinates the pipeline from a form description to a
// submission outcome. It applies sensible defaults (kin-openapi parser, HTTP
// transport, an in-memory browser) while remaining open to dependency
// injection for advanced callers.
type Orchestrator struct {
	loader            pkgopenapi.Loader
	parser            pkgopenapi.Parser
	formsFS           fs.FS
	store             *formspec.Store
	formatters        *format.Registry
	transport         submit.Transport
	browser           *browser.Browser
	clock             clock.Clock
	filler            Filler
	transformer       Transformer
	controllerOptions []submit.Option
	initialiseErr     error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Value assigns a text value to a named control.
type Value struct {
	Name  string
	Value string
}

// Request describes the inputs of one submission. Exactly one description
// source is used, in order: Form, FormName, OperationID.
type Request struct {
	// Form is an inline description.
	Form *formspec.FormSpec

	// FormName selects a description from the forms filesystem.
	FormName string

	// Source identifies where the OpenAPI document lives. Optional when
	// Document is supplied.
	Source pkgopenapi.Source

	// Document allows callers to bypass the loader when they already have a
	// payload.
	Document *pkgopenapi.Document

	// OperationID selects which OpenAPI operation to turn into a form.
	OperationID string

	// DocumentURL is the location relative actions resolve against. When
	// empty the browser's current document is used.
	DocumentURL string

	// Values are applied in order before the filler runs.
	Values []Value

	// Files selects files for file controls.
	Files map[string]model.File

	// Submitter names the submit control; empty selects the first one.
	Submitter string
}

// Browser returns the browser navigated by submissions.
func (o *Orchestrator) Browser() *browser.Browser {
	return o.browser
}

// Forms returns the names of the descriptions in the forms filesystem.
func (o *Orchestrator) Forms() []string {
	if o.store == nil {
		return nil
	}
	return o.store.Names()
}

// Describe resolves the description the request names and applies the
// schema transformer.
func (o *Orchestrator) Describe(ctx context.Context, req Request) (formspec.FormSpec, error) {
	if ctx == nil {
		return formspec.FormSpec{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return formspec.FormSpec{}, err
	}
	if err := o.initialiseErr; err != nil {
		return formspec.FormSpec{}, err
	}

	spec, err := o.resolveSpec(ctx, req)
	if err != nil {
		return formspec.FormSpec{}, err
	}
	if err := o.applyTransformer(ctx, &spec); err != nil {
		return formspec.FormSpec{}, err
	}
	return spec, nil
}

// Prepare describes the form, compiles it into a live form and applies the
// request values and the filler.
func (o *Orchestrator) Prepare(ctx context.Context, req Request) (*host.Form, error) {
	spec, err := o.Describe(ctx, req)
	if err != nil {
		return nil, err
	}

	form, err := host.New(spec)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: compile form %q: %w", spec.Name, err)
	}
	for _, value := range req.Values {
		if err := form.Set(value.Name, value.Value); err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
	}
	for name, file := range req.Files {
		if err := form.SetFile(name, file); err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
	}
	if o.filler != nil {
		if err := o.filler.Fill(ctx, form); err != nil {
			return nil, fmt.Errorf("orchestrator: fill form: %w", err)
		}
	}
	return form, nil
}

// Build prepares the form and returns the request a submission would send,
// without validating or sending it.
func (o *Orchestrator) Build(ctx context.Context, req Request) (model.Request, error) {
	form, err := o.Prepare(ctx, req)
	if err != nil {
		return model.Request{}, err
	}
	sub, err := form.Submission(req.Submitter)
	if err != nil {
		return model.Request{}, fmt.Errorf("orchestrator: %w", err)
	}
	built, err := o.builderFor(req).Build(sub.Form, sub.Fields, sub.Submitter)
	if err != nil {
		return model.Request{}, fmt.Errorf("orchestrator: build request: %w", err)
	}
	return built, nil
}

// Submit prepares the form and runs one submission attempt through a
// controller validating against the live form and navigating the browser.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (submit.Outcome, error) {
	form, err := o.Prepare(ctx, req)
	if err != nil {
		return submit.Outcome{}, err
	}
	sub, err := form.Submission(req.Submitter)
	if err != nil {
		return submit.Outcome{}, fmt.Errorf("orchestrator: %w", err)
	}

	options := []submit.Option{
		submit.WithBuilder(o.builderFor(req)),
		submit.WithValidator(form),
		submit.WithTransport(o.transport),
		submit.WithNavigator(o.browser),
		submit.WithClock(o.clock),
	}
	controller := submit.New(append(options, o.controllerOptions...)...)
	return controller.Submit(ctx, sub)
}

func (o *Orchestrator) builderFor(req Request) *request.Builder {
	documentURL := strings.TrimSpace(req.DocumentURL)
	if documentURL == "" {
		if doc, ok := o.browser.Current().Document(); ok {
			documentURL = doc.URL
		}
	}
	return request.New(
		request.WithFormatters(o.formatters),
		request.WithDocumentURL(documentURL),
	)
}

func (o *Orchestrator) resolveSpec(ctx context.Context, req Request) (formspec.FormSpec, error) {
	switch {
	case req.Form != nil:
		return *req.Form, nil
	case strings.TrimSpace(req.FormName) != "":
		if o.store == nil {
			return formspec.FormSpec{}, fmt.Errorf("orchestrator: form %q requested but no forms filesystem is configured", req.FormName)
		}
		spec, ok := o.store.Form(req.FormName)
		if !ok {
			return formspec.FormSpec{}, fmt.Errorf("orchestrator: form %q not found", req.FormName)
		}
		return spec, nil
	case strings.TrimSpace(req.OperationID) != "":
		doc, err := o.resolveDocument(ctx, req)
		if err != nil {
			return formspec.FormSpec{}, err
		}
		spec, err := pkgopenapi.FormFor(ctx, o.parser, doc, req.OperationID)
		if err != nil {
			return formspec.FormSpec{}, fmt.Errorf("orchestrator: %w", err)
		}
		return spec, nil
	default:
		return formspec.FormSpec{}, errors.New("orchestrator: form, form name or operation id is required")
	}
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (pkgopenapi.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return pkgopenapi.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, spec *formspec.FormSpec) error {
	if o.transformer == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, spec); err != nil {
		return fmt.Errorf("orchestrator: transform form: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = internalLoader.New(pkgopenapi.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.formatters == nil {
		o.formatters = format.NewRegistry()
		builtin.Register(o.formatters, builtin.WithClock(o.clock))
	}
	if o.transport == nil {
		o.transport = transport.New()
	}
	if o.browser == nil {
		o.browser = browser.New(browser.WithFetcher(o.transport))
	}
	if o.formsFS != nil {
		store, err := formspec.LoadFS(o.formsFS)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load forms: %w", err)
			return
		}
		o.store = store
	}
}
