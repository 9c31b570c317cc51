package request

import (
	"github.com/steveAllen0112/http-aware-forms/pkg/format"
	"github.com/steveAllen0112/http-aware-forms/pkg/interpolate"
)

// Option customises the Builder.
type Option func(*Builder)

// WithFormatters injects the formatter registry used by header templates.
func WithFormatters(registry *format.Registry) Option {
	return func(b *Builder) {
		b.formatters = registry
	}
}

// WithInterpolator injects a pre-built interpolator. It takes precedence over
// WithFormatters.
func WithInterpolator(interp *interpolate.Interpolator) Option {
	return func(b *Builder) {
		b.interp = interp
	}
}

// WithDocumentURL sets the current document location. It is the action used
// when neither the submitter nor the form declares one, and the base relative
// actions resolve against.
func WithDocumentURL(raw string) Option {
	return func(b *Builder) {
		b.documentURL = raw
	}
}
