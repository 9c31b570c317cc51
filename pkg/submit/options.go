package submit

import (
	"github.com/benbjohnson/clock"

	"github.com/steveAllen0112/http-aware-forms/pkg/request"
)

// Option customises the Controller configuration.
type Option func(*Controller)

// WithBuilder injects the request builder. Defaults to request.New().
func WithBuilder(builder *request.Builder) Option {
	return func(c *Controller) {
		c.builder = builder
	}
}

// WithValidator injects the host constraint check. Without one every
// submission is considered valid.
func WithValidator(validator Validator) Option {
	return func(c *Controller) {
		c.validator = validator
	}
}

// WithTransport injects the network transport. Required.
func WithTransport(transport Transport) Option {
	return func(c *Controller) {
		c.transport = transport
	}
}

// WithNavigator injects the host navigator. Without one responses are
// reported in the Outcome only.
func WithNavigator(navigator Navigator) Option {
	return func(c *Controller) {
		c.navigator = navigator
	}
}

// WithClock overrides the clock used to time the exchange.
func WithClock(c clock.Clock) Option {
	return func(ctrl *Controller) {
		if c != nil {
			ctrl.clock = c
		}
	}
}

// OnSubmit registers submit listeners at construction time.
func OnSubmit(listeners ...SubmitListener) Option {
	return func(c *Controller) {
		for _, listener := range listeners {
			if listener != nil {
				c.submitListeners = append(c.submitListeners, listener)
			}
		}
	}
}

// OnError registers transport error listeners at construction time.
func OnError(listeners ...ErrorListener) Option {
	return func(c *Controller) {
		for _, listener := range listeners {
			if listener != nil {
				c.errorListeners = append(c.errorListeners, listener)
			}
		}
	}
}

// OnInvalid registers invalid-state reporters at construction time.
func OnInvalid(listeners ...InvalidListener) Option {
	return func(c *Controller) {
		for _, listener := range listeners {
			if listener != nil {
				c.invalidListeners = append(c.invalidListeners, listener)
			}
		}
	}
}
