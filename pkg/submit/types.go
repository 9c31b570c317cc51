package submit

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/steveAllen0112/http-aware-forms/pkg/model"
)

// Submission is the input of one attempt: the form, its current field
// snapshot (without the submitter) and the activated submit control.
type Submission struct {
	Form      model.Form
	Fields    model.Snapshot
	Submitter *model.Submitter
}

// Violation is one failed field constraint reported by a Validator.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string {
	if v.Field == "" {
		return v.Message
	}
	return v.Field + ": " + v.Message
}

// Validator runs the host's constraint check. An empty result means valid.
type Validator interface {
	Validate(ctx context.Context, sub Submission) []Violation
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(ctx context.Context, sub Submission) []Violation

// Validate calls fn.
func (fn ValidatorFunc) Validate(ctx context.Context, sub Submission) []Violation {
	return fn(ctx, sub)
}

// Decision is a submit listener's verdict.
type Decision int

const (
	Continue Decision = iota
	Cancel
)

// SubmitEvent is delivered to submit listeners before the request is sent.
// Request is a private copy; changing it does not alter what is sent.
type SubmitEvent struct {
	Request    model.Request
	Submission Submission
}

// SubmitListener inspects a pending request and may cancel it.
type SubmitListener func(ctx context.Context, event SubmitEvent) Decision

// ErrorEvent reports a transport failure.
type ErrorEvent struct {
	Request model.Request
	Err     error
}

// ErrorListener receives transport failures.
type ErrorListener func(ctx context.Context, event ErrorEvent)

// InvalidListener receives the violations of a failed constraint check, to
// report them to the user.
type InvalidListener func(ctx context.Context, violations []Violation)

// Response is the outcome of a completed exchange, whatever its status code.
type Response struct {
	StatusCode int
	URL        string
	Redirected bool
	Header     http.Header
	Body       []byte
}

// ContentType returns the media type of the response without parameters.
func (r Response) ContentType() string {
	raw := r.Header.Get("Content-Type")
	if raw == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.SplitN(raw, ";", 2)[0]))
	}
	return mediaType
}

// IsHTML reports whether the response carries an HTML document.
func (r Response) IsHTML() bool {
	return r.ContentType() == "text/html"
}

// Transport performs the network exchange for a request descriptor. It
// returns an error only for transport failures; HTTP error statuses are
// ordinary responses.
type Transport interface {
	Send(ctx context.Context, req model.Request) (Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req model.Request) (Response, error)

// Send calls fn.
func (fn TransportFunc) Send(ctx context.Context, req model.Request) (Response, error) {
	return fn(ctx, req)
}

// NavigationKind says how the target browsing context is updated.
type NavigationKind int

const (
	// NavigateReplace replaces the context's document with the response body
	// and pushes a history entry.
	NavigateReplace NavigationKind = iota
	// NavigateLocation points the context at the response URL.
	NavigateLocation
)

func (k NavigationKind) String() string {
	if k == NavigateLocation {
		return "location"
	}
	return "replace"
}

// Navigation instructs the host how to present a response.
type Navigation struct {
	Kind     NavigationKind
	Target   string
	URL      string
	Response Response
	// NoContent flags a 204 response: there is nothing to display.
	NoContent bool
}

// Navigator presents responses in browsing contexts.
type Navigator interface {
	Navigate(ctx context.Context, nav Navigation) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, nav Navigation) error

// Navigate calls fn.
func (fn NavigatorFunc) Navigate(ctx context.Context, nav Navigation) error {
	return fn(ctx, nav)
}

// TransportError wraps a failure raised by the transport.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("submit: transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Outcome summarises one attempt. State is the state the attempt ended in
// before returning to idle: StateInvalid, StateCancelled, StateNetworkError or
// StateNavigating for a completed exchange.
type Outcome struct {
	State      State
	Trace      []State
	Violations []Violation
	Request    *model.Request
	Response   *Response
	Navigation *Navigation
	Err        error
	Elapsed    time.Duration
}

// Completed reports whether the attempt reached navigation.
func (o Outcome) Completed() bool {
	return o.State == StateNavigating
}
