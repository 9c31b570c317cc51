package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"

	"github.com/steveAllen0112/http-aware-forms/internal/ctxlog"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
	"github.com/steveAllen0112/http-aware-forms/pkg/request"
)

// Controller runs the submission protocol: constraint check, request build,
// cancelable submit notification, network exchange and navigation. Each call
// to Submit is an independent attempt; overlapping attempts share nothing but
// the controller's read-only configuration.
type Controller struct {
	builder   *request.Builder
	validator Validator
	transport Transport
	navigator Navigator
	clock     clock.Clock

	mu               sync.RWMutex
	submitListeners  []SubmitListener
	errorListeners   []ErrorListener
	invalidListeners []InvalidListener

	attempts atomic.Uint64
	inFlight atomic.Int64
}

// New constructs a Controller applying any provided options.
func New(options ...Option) *Controller {
	c := &Controller{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.builder == nil {
		c.builder = request.New()
	}
	if c.clock == nil {
		c.clock = clock.New()
	}
	return c
}

// OnSubmit adds a submit listener. Listeners run in registration order and
// the first Cancel stops the attempt.
func (c *Controller) OnSubmit(listener SubmitListener) {
	if listener == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitListeners = append(c.submitListeners, listener)
}

// OnError adds a transport error listener.
func (c *Controller) OnError(listener ErrorListener) {
	if listener == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorListeners = append(c.errorListeners, listener)
}

// OnInvalid adds a reporter for failed constraint checks.
func (c *Controller) OnInvalid(listener InvalidListener) {
	if listener == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidListeners = append(c.invalidListeners, listener)
}

type listeners struct {
	submit  []SubmitListener
	errors  []ErrorListener
	invalid []InvalidListener
}

func (c *Controller) listeners() listeners {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return listeners{
		submit:  append([]SubmitListener(nil), c.submitListeners...),
		errors:  append([]ErrorListener(nil), c.errorListeners...),
		invalid: append([]InvalidListener(nil), c.invalidListeners...),
	}
}

type attempt struct {
	outcome Outcome
	logger  *slog.Logger
}

func (a *attempt) enter(state State) {
	a.outcome.State = state
	a.outcome.Trace = append(a.outcome.Trace, state)
	a.logger.Debug("submission state", "state", state.String())
}

// Submit runs one attempt. Invalid input, cancellation and transport failures
// are reported through the Outcome and the registered listeners, not as an
// error; the returned error covers misconfiguration, request build failures
// and navigation failures.
func (c *Controller) Submit(ctx context.Context, sub Submission) (Outcome, error) {
	if ctx == nil {
		return Outcome{}, errors.New("submit: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	if c.transport == nil {
		return Outcome{}, errors.New("submit: transport is required")
	}

	id := c.attempts.Add(1)
	logger := ctxlog.FromContext(ctx).With("form", sub.Form.Name, "attempt", id)
	if active := c.inFlight.Add(1); active > 1 {
		logger.Warn("overlapping submission", "in_flight", active)
	}
	defer c.inFlight.Add(-1)

	registered := c.listeners()
	run := &attempt{logger: logger}

	resolved := c.builder.Resolve(sub.Form, sub.Submitter)
	if !resolved.NoValidate && c.validator != nil {
		run.enter(StateValidating)
		if violations := c.validator.Validate(ctx, sub); len(violations) > 0 {
			run.enter(StateInvalid)
			run.outcome.Violations = violations
			logger.Info("submission blocked by constraint check", "violations", len(violations))
			for _, report := range registered.invalid {
				report(ctx, violations)
			}
			return run.outcome, nil
		}
		run.enter(StateValid)
	}

	run.enter(StateBuilding)
	req, err := c.builder.Build(sub.Form, sub.Fields, sub.Submitter)
	if err != nil {
		return run.outcome, fmt.Errorf("submit: build request: %w", err)
	}
	run.outcome.Request = &req

	run.enter(StateDispatching)
	event := SubmitEvent{Request: req.Clone(), Submission: sub}
	for _, listener := range registered.submit {
		event.Request = req.Clone()
		if listener(ctx, event) == Cancel {
			run.enter(StateCancelled)
			run.outcome.Request = nil
			logger.Info("submission cancelled by listener", "method", req.Method, "url", req.URL)
			return run.outcome, nil
		}
	}
	run.enter(StateApproved)

	run.enter(StateSending)
	logger.Debug("sending request", "method", req.Method, "url", req.URL, "headers", len(req.Headers))
	started := c.clock.Now()
	resp, err := c.transport.Send(ctx, req.Clone())
	run.outcome.Elapsed = c.clock.Since(started)
	if err != nil {
		run.enter(StateNetworkError)
		transportErr := &TransportError{Err: err}
		run.outcome.Err = transportErr
		logger.Error("submission transport failure", "method", req.Method, "url", req.URL, "error", err)
		for _, listener := range registered.errors {
			listener(ctx, ErrorEvent{Request: req.Clone(), Err: transportErr})
		}
		return run.outcome, nil
	}
	run.enter(StateResponded)
	run.outcome.Response = &resp
	logger.Info("submission responded", "status", resp.StatusCode, "url", resp.URL, "elapsed", run.outcome.Elapsed)

	run.enter(StateNavigating)
	nav := NavigationFor(req, resp)
	run.outcome.Navigation = &nav
	if nav.NoContent {
		logger.Warn("navigating a response without content", "status", resp.StatusCode, "url", resp.URL)
	}
	if c.navigator == nil {
		logger.Debug("no navigator configured", "target", nav.Target)
		return run.outcome, nil
	}
	if err := c.navigator.Navigate(ctx, nav); err != nil {
		return run.outcome, fmt.Errorf("submit: navigate %s: %w", nav.Target, err)
	}
	return run.outcome, nil
}

// NavigationFor decides how resp is presented: a direct (non-redirected) HTML
// response replaces the target's document, anything else navigates the target
// to the response URL.
func NavigationFor(req model.Request, resp Response) Navigation {
	nav := Navigation{
		Kind:      NavigateLocation,
		Target:    req.Target,
		URL:       resp.URL,
		Response:  resp,
		NoContent: resp.StatusCode == http.StatusNoContent,
	}
	if nav.Target == "" {
		nav.Target = model.TargetSelf
	}
	if nav.URL == "" {
		nav.URL = req.URL
	}
	if !resp.Redirected && resp.IsHTML() {
		nav.Kind = NavigateReplace
	}
	return nav
}
