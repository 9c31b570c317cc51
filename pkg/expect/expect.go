package expect

import (
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"
)

// HeaderRule requires a header whose value fully matches Pattern.
type HeaderRule struct {
	Name    string
	Pattern *regexp.Regexp
	// Hint describes the expected shape in failure messages.
	Hint string
}

// Expectations is the set of checks a request must pass.
type Expectations struct {
	Headers []HeaderRule
	// ForbiddenParams must appear neither in the query string nor as
	// matrix parameters (`;name=`) in the path.
	ForbiddenParams []string
}

// Pagination expects view preferences in Prefer and page selection in Range,
// with none of the pagination state leaking into the URL.
func Pagination() Expectations {
	return Expectations{
		Headers: []HeaderRule{
			{Name: "Prefer", Pattern: regexp.MustCompile(`^view=[a-z-]+$`), Hint: "view=<value>"},
			{Name: "Range", Pattern: regexp.MustCompile(`^pages=\d+@\d+$`), Hint: "pages=N@M"},
		},
		ForbiddenParams: []string{"page", "per", "per_page", "view"},
	}
}

// Check returns one message per failed expectation; an empty result means
// the request passed.
func (e Expectations) Check(r *http.Request) []string {
	if r == nil {
		return []string{"MISSING: request"}
	}
	var failures []string
	for _, rule := range e.Headers {
		value := r.Header.Get(rule.Name)
		switch {
		case value == "":
			failures = append(failures, fmt.Sprintf("MISSING: %s header", rule.Name))
		case rule.Pattern != nil && !rule.Pattern.MatchString(value):
			failures = append(failures, fmt.Sprintf("INVALID FORMAT: %s=%q (expected: %s)", rule.Name, value, rule.Hint))
		}
	}

	target := r.URL.RequestURI()
	for _, param := range e.ForbiddenParams {
		if strings.Contains(r.URL.Path, ";"+param+"=") {
			failures = append(failures, fmt.Sprintf("LEAK: matrix param %q in path: %s", param, target))
		}
	}
	query := r.URL.Query()
	for _, param := range e.ForbiddenParams {
		if query.Has(param) {
			failures = append(failures, fmt.Sprintf("LEAK: query param %q in path: %s", param, target))
		}
	}
	return failures
}

// Mentions reports whether any failure concerns the named header.
func Mentions(failures []string, header string) bool {
	return slices.ContainsFunc(failures, func(failure string) bool {
		return strings.Contains(failure, " "+header+" ") || strings.Contains(failure, " "+header+"=")
	})
}
