// Package route splits a field snapshot into header-bound fields, consumed by
// header declarations, and free fields, which travel in the query string or
// the body depending on the request method.
package route

import (
	"strings"

	"github.com/steveAllen0112/http-aware-forms/pkg/headers"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
)

// Target says where free fields go.
type Target int

const (
	TargetQuery Target = iota
	TargetBody
)

func (t Target) String() string {
	if t == TargetBody {
		return "body"
	}
	return "query"
}

// Result holds the routed free fields. Exactly one of Query and Body is
// populated, as selected by Target.
type Result struct {
	Target Target
	Query  model.Snapshot
	Body   model.Snapshot
}

// TargetFor reports where free fields travel for method. GET, HEAD and DELETE
// use the query string; every other method carries a body.
func TargetFor(method string) Target {
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case "", model.MethodGet, model.MethodHead, model.MethodDelete:
		return TargetQuery
	default:
		return TargetBody
	}
}

// Route partitions snapshot and routes its free fields for method. Query
// entries carry file fields as their filename; body entries keep file values
// as-is.
func Route(snapshot model.Snapshot, declarations []model.HeaderDeclaration, method string) Result {
	bound := headers.BoundNames(declarations, snapshot)
	target := TargetFor(method)
	result := Result{Target: target}

	for _, field := range snapshot {
		if _, consumed := bound[field.Name]; consumed {
			continue
		}
		if target == TargetQuery {
			result.Query = append(result.Query, model.Text(field.Name, field.String()))
			continue
		}
		result.Body = append(result.Body, field)
	}
	return result
}
