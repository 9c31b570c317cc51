package markup_test

import (
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/steveAllen0112/http-aware-forms/pkg/formspec"
	"github.com/steveAllen0112/http-aware-forms/pkg/markup"
	"github.com/steveAllen0112/http-aware-forms/pkg/testsupport"
)

func parseOne(t *testing.T, markup string) formspec.FormSpec {
	t.Helper()
	forms, err := formspec.ParseHTML(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if len(forms) != 1 {
		t.Fatalf("expected one form, got %d in:\n%s", len(forms), markup)
	}
	return forms[0]
}

func render(t *testing.T, spec formspec.FormSpec, options ...markup.Option) string {
	t.Helper()
	var out strings.Builder
	if err := markup.Render(&out, spec, options...); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return out.String()
}

func TestRender_RoundTripsExampleForm(t *testing.T) {
	want := testsupport.MustLoadForm(t, filepath.Join("..", "..", "forms", "pagination.html"), "pagination")

	got := parseOne(t, render(t, want))
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(formspec.FormSpec{}, "Source")); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_LinkedFieldsAndOverrides(t *testing.T) {
	get := "get"
	yes := true
	spec := formspec.FormSpec{
		Name:       "conditional",
		Action:     "https://api.example.test/items",
		Method:     "post",
		Enctype:    "text/plain",
		NoValidate: true,
		Headers: []formspec.HeaderSpec{
			{ID: "etag", Name: "If-None-Match", Template: `"{etag}"`},
		},
		Fields: []formspec.FieldSpec{
			{Name: "etag", Label: "ETag <weak>", Header: "etag"},
			{Name: "note", Type: formspec.TypeTextarea, Value: "a & b"},
			{Name: "token", Type: formspec.TypeHidden, Value: "t1"},
		},
		Submitters: []formspec.SubmitterSpec{
			{Name: "op", Value: "peek", Label: "Peek", Method: &get, NoValidate: &yes},
		},
	}

	out := render(t, spec)
	if !strings.Contains(out, `value="&quot;{etag}&quot;"`) {
		t.Fatalf("expected the template to be attribute-escaped:\n%s", out)
	}
	if diff := cmp.Diff(spec, parseOne(t, out)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_Document(t *testing.T) {
	spec := formspec.FormSpec{Name: "empty", Submitters: []formspec.SubmitterSpec{{Label: "Go"}}}

	out := render(t, spec, markup.WithDocument("Search"))
	if !strings.HasPrefix(out, "<!doctype html>") || !strings.Contains(out, "<title>Search</title>") {
		t.Fatalf("expected a standalone document:\n%s", out)
	}
	if strings.Contains(render(t, spec), "<html>") {
		t.Fatalf("fragments must not carry a document wrapper")
	}
}

func TestRender_RejectsInvalidSpec(t *testing.T) {
	spec := formspec.FormSpec{
		Name:   "broken",
		Fields: []formspec.FieldSpec{{Name: "q", Header: "missing"}},
	}
	var out strings.Builder
	if err := markup.Render(&out, spec); err == nil {
		t.Fatalf("expected an error for a link to an unknown header")
	}
}

func TestRender_TemplateOverride(t *testing.T) {
	files := fstest.MapFS{
		"form.tpl":  {Data: []byte(`{{ headers|length }} header(s){% for field in fields %} {% include "field.tpl" with field=field %}{% endfor %}`)},
		"field.tpl": {Data: []byte(`[{{ field.tag }}]`)},
	}
	spec := formspec.FormSpec{
		Name:    "custom",
		Headers: []formspec.HeaderSpec{{ID: "p", Name: "Prefer", Template: "view={view}"}},
		Fields:  []formspec.FieldSpec{{Name: "view", Type: formspec.TypeSelect, Options: []string{"list"}, Header: "p"}},
	}

	if got := render(t, spec, markup.WithTemplatesFS(files)); got != "1 header(s) [select]" {
		t.Fatalf("unexpected output %q", got)
	}
}
