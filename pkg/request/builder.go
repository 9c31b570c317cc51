// Package request resolves the effective method, action, enctype and target
// of a submission and assembles the request descriptor. It performs no I/O.
package request

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/steveAllen0112/http-aware-forms/pkg/format"
	"github.com/steveAllen0112/http-aware-forms/pkg/headers"
	"github.com/steveAllen0112/http-aware-forms/pkg/interpolate"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
	"github.com/steveAllen0112/http-aware-forms/pkg/route"
)

// Builder turns a form, its field snapshot and the active submitter into a
// model.Request. A Builder holds no per-submission state and is safe for
// concurrent use.
type Builder struct {
	formatters  *format.Registry
	interp      *interpolate.Interpolator
	documentURL string
	base        *url.URL
	baseErr     error
	aggregator  *headers.Aggregator
}

// New constructs a Builder applying any provided options.
func New(options ...Option) *Builder {
	b := &Builder{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	if b.interp == nil {
		b.interp = interpolate.New(b.formatters)
	}
	b.aggregator = headers.New(b.interp)
	if strings.TrimSpace(b.documentURL) != "" {
		b.base, b.baseErr = url.Parse(strings.TrimSpace(b.documentURL))
	}
	return b
}

// Resolved holds the effective form attributes for one submission.
type Resolved struct {
	Method     string
	Action     string
	Enctype    string
	Target     string
	NoValidate bool
}

// Resolve applies the submitter overrides over the form attributes.
func (b *Builder) Resolve(form model.Form, submitter *model.Submitter) Resolved {
	var overrides model.SubmitterOverrides
	if submitter != nil {
		overrides = submitter.Overrides
	}

	method := firstNonEmpty(deref(overrides.Method), form.Method, model.MethodGet)
	action := form.Action
	if overrides.Action != nil {
		action = *overrides.Action
	}
	if strings.TrimSpace(action) == "" {
		action = b.documentURL
	}

	return Resolved{
		Method:     strings.ToUpper(method),
		Action:     strings.TrimSpace(action),
		Enctype:    strings.ToLower(firstNonEmpty(deref(overrides.Enctype), form.Enctype, model.EnctypeURLEncoded)),
		Target:     firstNonEmpty(deref(overrides.Target), form.Target, model.TargetSelf),
		NoValidate: form.NoValidate || submitter.NoValidate(),
	}
}

// Build produces the request descriptor. fields is the form's current field
// snapshot; the submitter's own name/value is appended to it here.
func (b *Builder) Build(form model.Form, fields model.Snapshot, submitter *model.Submitter) (model.Request, error) {
	resolved := b.Resolve(form, submitter)
	snapshot := fields.WithSubmitter(submitter)

	target, err := b.resolveAction(resolved.Action)
	if err != nil {
		return model.Request{}, err
	}

	req := model.Request{
		Method:  resolved.Method,
		Headers: b.aggregator.Aggregate(form.Declarations, snapshot),
		Target:  resolved.Target,
	}

	routed := route.Route(snapshot, form.Declarations, resolved.Method)
	switch routed.Target {
	case route.TargetQuery:
		target.RawQuery = EncodeURLEncoded(routed.Query)
		target.ForceQuery = false
	case route.TargetBody:
		req.Body = EncodeBody(resolved.Enctype, routed.Body)
	}
	req.URL = target.String()

	return req.Clone(), nil
}

func (b *Builder) resolveAction(action string) (*url.URL, error) {
	if b.baseErr != nil {
		return nil, fmt.Errorf("request: parse document url %q: %w", b.documentURL, b.baseErr)
	}
	parsed, err := url.Parse(action)
	if err != nil {
		return nil, fmt.Errorf("request: parse action %q: %w", action, err)
	}
	if b.base != nil {
		parsed = b.base.ResolveReference(parsed)
	}
	return parsed, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
