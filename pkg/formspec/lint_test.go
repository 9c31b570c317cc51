package formspec_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/steveAllen0112/http-aware-forms/pkg/format"
	"github.com/steveAllen0112/http-aware-forms/pkg/formspec"
)

func TestLint(t *testing.T) {
	registry := format.NewRegistry()
	registry.Register("pad", func(value any, _ ...string) string { return format.Stringify(value) })

	method := "PO ST"
	spec := formspec.FormSpec{
		Name:    "broken",
		Enctype: "application/json",
		Headers: []formspec.HeaderSpec{
			{ID: "range", Name: "Range", Template: "pages={page,pad(3)}@{per,fixed(0)}", Fields: []string{"page"}},
			{ID: "bad", Name: "X Bad", Template: "{{literal}}", Fields: []string{"unused"}},
		},
		Fields:     []formspec.FieldSpec{{Name: "page"}, {Name: "unused"}, {Name: "per"}},
		Submitters: []formspec.SubmitterSpec{{Name: "go", Method: &method}},
	}

	var got []string
	for _, issue := range formspec.Lint(spec, registry) {
		got = append(got, issue.Location+": "+issue.Message)
	}
	want := []string{
		`form: enctype "application/json" is not supported (supported: application/x-www-form-urlencoded, multipart/form-data, text/plain)`,
		"header range: placeholder {per} is not fed by a bound field and is sent literally",
		`header range: unknown formatter "fixed" (registered: pad)`,
		`header bad: "X Bad" is not a valid header name`,
		`header bad: field "unused" is withheld from the request but unused by the template`,
		`submitter go: method "PO ST" is not an HTTP token`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestLint_CompileError(t *testing.T) {
	issues := formspec.Lint(formspec.FormSpec{Name: "f", Fields: []formspec.FieldSpec{{Name: "a", Header: "missing"}}}, nil)
	if len(issues) != 1 || !strings.Contains(issues[0].String(), "f: form -> ") {
		t.Fatalf("expected one compile issue, got %v", issues)
	}
}

func TestLint_Clean(t *testing.T) {
	spec := formspec.FormSpec{
		Name:    "ok",
		Headers: []formspec.HeaderSpec{{ID: "r", Name: "Content-Disposition[filename]", Template: "{name}", Fields: []string{"name"}}},
		Fields:  []formspec.FieldSpec{{Name: "name"}},
	}
	if issues := formspec.Lint(spec, nil); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}
