// Package headers evaluates header declarations against a field snapshot and
// merges the results into an ordered header list following the RFC 9110
// combining rules.
package headers

import (
	"strings"

	"github.com/steveAllen0112/http-aware-forms/pkg/interpolate"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
)

const (
	segmentSeparator   = ", "
	parameterSeparator = "; "
)

// Aggregator merges header declarations into request headers.
type Aggregator struct {
	interp *interpolate.Interpolator
}

// New constructs an Aggregator. A nil interpolator substitutes values without
// formatting.
func New(interp *interpolate.Interpolator) *Aggregator {
	if interp == nil {
		interp = interpolate.New(nil)
	}
	return &Aggregator{interp: interp}
}

type parameter struct {
	name  string
	value string
}

type entry struct {
	name     string
	segments []string
	params   []parameter
}

func (e *entry) setParam(name, value string) {
	for idx, existing := range e.params {
		if strings.EqualFold(existing.name, name) {
			e.params[idx].value = value
			return
		}
	}
	e.params = append(e.params, parameter{name: name, value: value})
}

func (e *entry) value() string {
	parts := make([]string, 0, len(e.segments))
	for _, segment := range e.segments {
		// Segments are always strings here, so a "0" is non-empty and kept.
		if segment == "" {
			continue
		}
		parts = append(parts, segment)
	}
	out := strings.Join(parts, segmentSeparator)
	for _, param := range e.params {
		if param.value == "" {
			continue
		}
		if out != "" {
			out += parameterSeparator
		}
		out += param.name + "=" + param.value
	}
	return out
}

// Aggregate evaluates declarations in order and returns one header per
// distinct (case-insensitive) name, ordered by first declaration. Combinable
// headers accumulate their segments; any other header is replaced by its
// latest declaration. Declared headers are emitted even when their value is
// empty. Bracket-targeted names (`Name[param]`) set a `; param=value`
// parameter on the base header instead of replacing it.
func (a *Aggregator) Aggregate(declarations []model.HeaderDeclaration, snapshot model.Snapshot) []model.Header {
	if len(declarations) == 0 {
		return nil
	}

	order := make([]string, 0, len(declarations))
	entries := make(map[string]*entry, len(declarations))

	for _, decl := range declarations {
		if !decl.Participates() {
			continue
		}
		base, param := SplitName(decl.Name)
		key := strings.ToLower(base)

		current, ok := entries[key]
		if !ok {
			current = &entry{name: base}
			entries[key] = current
			order = append(order, key)
		}

		value := a.interp.HeaderValue(decl.Template, snapshot.ValueMapFor(decl.BoundFields))

		switch {
		case param != "":
			current.setParam(param, value)
		case IsCombinable(key):
			current.segments = append(current.segments, value)
		default:
			current.segments = []string{value}
		}
	}

	if len(order) == 0 {
		return nil
	}
	out := make([]model.Header, 0, len(order))
	for _, key := range order {
		current := entries[key]
		out = append(out, model.Header{Name: current.name, Value: current.value()})
	}
	return out
}

// BoundNames returns the union of every participating declaration's bound
// fields that actually occur in the snapshot.
func BoundNames(declarations []model.HeaderDeclaration, snapshot model.Snapshot) map[string]struct{} {
	present := make(map[string]struct{}, len(snapshot))
	for _, field := range snapshot {
		present[field.Name] = struct{}{}
	}
	bound := make(map[string]struct{})
	for _, decl := range declarations {
		if !decl.Participates() {
			continue
		}
		for _, name := range decl.BoundFields {
			if _, ok := present[name]; ok {
				bound[name] = struct{}{}
			}
		}
	}
	return bound
}
