package formspec

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/steveAllen0112/http-aware-forms/pkg/format"
	"github.com/steveAllen0112/http-aware-forms/pkg/headers"
	"github.com/steveAllen0112/http-aware-forms/pkg/interpolate"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
)

// Issue is one problem found by Lint.
type Issue struct {
	Form     string
	Location string
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s -> %s", i.Form, i.Location, i.Message)
}

var knownEnctypes = []string{model.EnctypeURLEncoded, model.EnctypeMultipart, model.EnctypeTextPlain}

// Lint reports problems that Compile accepts but that make a form misbehave:
// header names that are not HTTP tokens, placeholders no field feeds,
// withheld fields no template uses, unknown formatters and unsupported
// enctypes. A nil formatters registry skips the formatter check.
func Lint(spec FormSpec, formatters *format.Registry) []Issue {
	var issues []Issue
	report := func(location, msg string, args ...any) {
		issues = append(issues, Issue{Form: spec.Name, Location: location, Message: fmt.Sprintf(msg, args...)})
	}

	compiled, err := Compile(spec)
	if err != nil {
		report("form", "%v", err)
		return issues
	}

	checkAttrs := func(location, method, enctype string) {
		if method != "" && !httpguts.ValidHeaderFieldName(method) {
			report(location, "method %q is not an HTTP token", method)
		}
		if enctype != "" && !slices.Contains(knownEnctypes, strings.ToLower(strings.TrimSpace(enctype))) {
			report(location, "enctype %q is not supported (supported: %s)", enctype, strings.Join(knownEnctypes, ", "))
		}
	}
	checkAttrs("form", spec.Method, spec.Enctype)

	for _, decl := range compiled.Form.Declarations {
		location := "header " + decl.ID
		if decl.ID == "" {
			location = "header " + decl.Name
		}
		base, _ := headers.SplitName(decl.Name)
		if !httpguts.ValidHeaderFieldName(base) {
			report(location, "%q is not a valid header name", base)
		}

		used := make(map[string]struct{})
		for _, placeholder := range interpolate.Placeholders(decl.Template) {
			used[placeholder.Name] = struct{}{}
			if !decl.Binds(placeholder.Name) {
				report(location, "placeholder {%s} is not fed by a bound field and is sent literally", placeholder.Name)
			}
			if placeholder.Spec == "" || formatters == nil {
				continue
			}
			if parsed, ok := format.ParseSpec(placeholder.Spec); ok {
				if _, known := formatters.Lookup(parsed.Name); !known {
					report(location, "unknown formatter %q (registered: %s)", parsed.Name, strings.Join(formatters.Names(), ", "))
				}
			}
		}
		for _, field := range decl.BoundFields {
			if _, ok := used[field]; !ok {
				report(location, "field %q is withheld from the request but unused by the template", field)
			}
		}
	}

	for idx, submitter := range spec.Submitters {
		location := fmt.Sprintf("submitter %d", idx)
		if name := strings.TrimSpace(submitter.Name); name != "" {
			location = "submitter " + name
		}
		checkAttrs(location, deref(submitter.Method), deref(submitter.Enctype))
	}
	return issues
}
