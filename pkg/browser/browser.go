package browser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/steveAllen0112/http-aware-forms/internal/ctxlog"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
	"github.com/steveAllen0112/http-aware-forms/pkg/submit"
)

// MainContext names the browsing context a Browser starts with.
const MainContext = "main"

// ErrNoFetcher is returned when a location navigation needs a fetch but the
// browser has no transport.
var ErrNoFetcher = errors.New("browser: no fetcher configured")

// Browser is a headless set of browsing contexts that presents submission
// responses. It implements submit.Navigator.
type Browser struct {
	mu       sync.RWMutex
	contexts map[string]*Context
	current  string
	blanks   int
	fetcher  submit.Transport
}

var _ submit.Navigator = (*Browser)(nil)

// Option configures a Browser.
type Option func(*Browser)

// WithFetcher installs the transport used for location navigations. The
// browser issues plain GET requests through it.
func WithFetcher(fetcher submit.Transport) Option {
	return func(b *Browser) {
		b.fetcher = fetcher
	}
}

// New constructs a Browser with a single empty MainContext.
func New(opts ...Option) *Browser {
	b := &Browser{
		contexts: map[string]*Context{MainContext: newContext(MainContext)},
		current:  MainContext,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Current returns the active browsing context.
func (b *Browser) Current() *Context {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.contexts[b.current]
}

// Context looks up a browsing context by name.
func (b *Browser) Context(name string) (*Context, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.contexts[strings.TrimSpace(name)]
	return c, ok
}

// Names lists the open browsing contexts in sorted order.
func (b *Browser) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.contexts))
	for name := range b.contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Focus makes the named context the active one.
func (b *Browser) Focus(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	name = strings.TrimSpace(name)
	if _, ok := b.contexts[name]; !ok {
		return fmt.Errorf("browser: unknown context %q", name)
	}
	b.current = name
	return nil
}

// Resolve maps a form target onto a browsing context. `_self`, `_parent` and
// `_top` select the active context (there is no nesting), `_blank` opens a
// fresh context every time, any other name selects or creates the context
// with that name.
func (b *Browser) Resolve(target string) *Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	target = strings.TrimSpace(target)
	switch strings.ToLower(target) {
	case "", model.TargetSelf, model.TargetParent, model.TargetTop:
		return b.contexts[b.current]
	case model.TargetBlank:
		b.blanks++
		name := fmt.Sprintf("blank-%d", b.blanks)
		c := newContext(name)
		b.contexts[name] = c
		return c
	}
	if c, ok := b.contexts[target]; ok {
		return c
	}
	c := newContext(target)
	b.contexts[target] = c
	return c
}

// Open loads url into the active context.
func (b *Browser) Open(ctx context.Context, url string) (Document, error) {
	doc, err := b.fetch(ctx, url)
	if err != nil {
		return Document{}, err
	}
	b.Current().push(doc)
	return doc, nil
}

// Navigate presents a submission response in the navigation's target context.
// Replace navigations show the response body directly; location navigations
// load the response URL through the fetcher, falling back to the response
// itself when no fetcher is configured. A 204 is navigated the same way and
// the resulting document is flagged NoContent.
func (b *Browser) Navigate(ctx context.Context, nav submit.Navigation) error {
	logger := ctxlog.FromContext(ctx)
	target := b.Resolve(nav.Target)

	if nav.NoContent {
		logger.Warn("navigating a response without content", "context", target.Name(), "url", nav.URL)
	}

	if nav.Kind == submit.NavigateReplace {
		doc := DocumentFrom(nav.Response)
		doc.NoContent = nav.NoContent
		target.push(doc)
		logger.Debug("document replaced", "context", target.Name(), "url", nav.Response.URL)
		return nil
	}

	doc, err := b.fetch(ctx, nav.URL)
	if errors.Is(err, ErrNoFetcher) {
		doc, err = DocumentFrom(nav.Response), nil
		doc.URL = nav.URL
	}
	if err != nil {
		return err
	}
	doc.NoContent = nav.NoContent
	target.push(doc)
	logger.Debug("context navigated", "context", target.Name(), "url", doc.URL)
	return nil
}

func (b *Browser) fetch(ctx context.Context, url string) (Document, error) {
	if b.fetcher == nil {
		return Document{}, ErrNoFetcher
	}
	resp, err := b.fetcher.Send(ctx, model.Request{Method: model.MethodGet, URL: url, Target: model.TargetSelf})
	if err != nil {
		return Document{}, fmt.Errorf("browser: fetch %s: %w", url, err)
	}
	return DocumentFrom(resp), nil
}
