package format

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/steveAllen0112/http-aware-forms/pkg/model"
)

// Func transforms a raw field value into its header representation. Extra
// positional arguments come from the format spec, already trimmed.
type Func func(value any, args ...string) string

// Registry maps formatter names to their implementation. A new registry is
// empty; embedding applications register the formatters they need and inject
// the registry into the interpolator. A nil *Registry resolves every spec to
// plain stringification.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Func
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[string]Func)}
}

// Register installs fn under name. Names are trimmed; empty names and nil
// functions are ignored. Registering an existing name replaces it.
func (r *Registry) Register(name string, fn Func) {
	if r == nil || fn == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.formatters == nil {
		r.formatters = make(map[string]Func)
	}
	r.formatters[trimmed] = fn
}

// Lookup returns the formatter registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.formatters[strings.TrimSpace(name)]
	return fn, ok
}

// Names lists the registered formatter names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve turns a format spec into a ready-to-call function with the spec's
// arguments bound. An empty spec or an unknown formatter name resolves to
// plain stringification of the value.
func (r *Registry) Resolve(spec string) func(value any) string {
	parsed, ok := ParseSpec(spec)
	if !ok {
		return Stringify
	}
	fn, found := r.Lookup(parsed.Name)
	if !found {
		return Stringify
	}
	args := append([]string(nil), parsed.Args...)
	return func(value any) string {
		return fn(value, args...)
	}
}

// Apply resolves spec and applies it to value in one step.
func (r *Registry) Apply(spec string, value any) string {
	return r.Resolve(spec)(value)
}

// Stringify renders a value with no transform. Snapshot entries render as
// their text value or, for files, their filename.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case model.Entry:
		return v.String()
	case *model.File:
		if v == nil {
			return ""
		}
		return v.Name
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
