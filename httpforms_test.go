package httpforms_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpforms "github.com/steveAllen0112/http-aware-forms"
	"github.com/steveAllen0112/http-aware-forms/pkg/expect"
	"github.com/steveAllen0112/http-aware-forms/pkg/formspec"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
	pkgopenapi "github.com/steveAllen0112/http-aware-forms/pkg/openapi"
	"github.com/steveAllen0112/http-aware-forms/pkg/orchestrator"
	"github.com/steveAllen0112/http-aware-forms/pkg/testsupport"
)

func TestExampleForms_PassValidator(t *testing.T) {
	server := testsupport.ExpectServer(t, expect.Pagination())

	outcome, err := httpforms.Submit(context.Background(), httpforms.Request{
		FormName:    "pagination",
		DocumentURL: server.URL + "/",
		Values:      []httpforms.Value{{Name: "view", Value: "kanban"}, {Name: "per", Value: "25"}},
	}, orchestrator.WithFormsFS(httpforms.ExampleFormsFS()))
	require.NoError(t, err)
	require.True(t, outcome.Completed(), "trace: %v", outcome.Trace)
	assert.Equal(t, http.StatusPartialContent, outcome.Response.StatusCode)

	prefer, _ := outcome.Request.Header("Prefer")
	rangeValue, _ := outcome.Request.Header("Range")
	assert.Equal(t, "view=kanban", prefer)
	assert.Equal(t, "pages=1@25", rangeValue)
}

func TestExampleForms_Names(t *testing.T) {
	orch := httpforms.NewOrchestrator(orchestrator.WithFormsFS(httpforms.ExampleFormsFS()))
	if diff := cmp.Diff([]string{"conditional", "pagination"}, orch.Forms()); diff != "" {
		t.Fatalf("forms mismatch (-want +got):\n%s", diff)
	}
}

func TestNewBuilder_BuiltinFormatters(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	orch := httpforms.NewOrchestrator(
		orchestrator.WithFormsFS(httpforms.ExampleFormsFS()),
		orchestrator.WithClock(mock),
	)
	req, err := orch.Build(context.Background(), httpforms.Request{
		FormName:    "conditional",
		DocumentURL: "https://app.example.test/",
		Values:      []httpforms.Value{{Name: "since", Value: "now"}, {Name: "etag", Value: "v7"}},
	})
	require.NoError(t, err)

	want := []model.Header{
		{Name: "If-Modified-Since", Value: "Fri, 01 Mar 2024 12:00:00 GMT"},
		{Name: "If-None-Match", Value: `"v7"`},
	}
	if diff := cmp.Diff(want, req.Headers); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "https://app.example.test/api/items", req.URL)

	form := model.Form{
		Name:   "f",
		Action: "https://example.test/",
		Declarations: []model.HeaderDeclaration{
			model.NewHeaderDeclaration("n", "X-Count", "{n,pad(4)}", "n"),
		},
	}
	built, err := httpforms.NewBuilder().Build(form, model.Snapshot{model.Text("n", "7")}, nil)
	require.NoError(t, err)
	value, _ := built.Header("X-Count")
	assert.Equal(t, "0007", value)
}

func TestLoadForm(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forms.yaml")
	doc := "forms:\n  - name: a\n    action: /a\n  - name: b\n    action: /b\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	form, err := httpforms.LoadForm(path, "b")
	require.NoError(t, err)
	assert.Equal(t, "/b", form.Action)

	_, err = httpforms.LoadForm(path, "")
	require.Error(t, err, "two forms and no name must be ambiguous")

	_, err = httpforms.LoadForm(path, "c")
	require.Error(t, err)
}

func TestFormFromOpenAPI(t *testing.T) {
	source := pkgopenapi.SourceFromFile(filepath.Join("internal", "openapi", "parser", "testdata", "items.yaml"))

	spec, err := httpforms.FormFromOpenAPI(context.Background(), source, "listItems")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.test/v1/items", spec.Action)

	ids := make([]string, 0, len(spec.Headers))
	for _, header := range spec.Headers {
		ids = append(ids, header.ID)
	}
	assert.Equal(t, []string{"prefer", "range"}, ids)

	_, err = formspec.Compile(spec)
	require.NoError(t, err)
}

func TestRenderHTML_LoadsBack(t *testing.T) {
	want, err := httpforms.LoadForm(filepath.Join("forms", "conditional.yaml"), "")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "conditional.html")
	out, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, httpforms.RenderHTML(out, want))
	require.NoError(t, out.Close())

	got, err := httpforms.LoadForm(path, "conditional")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(formspec.FormSpec{}, "Source")); diff != "" {
		t.Fatalf("rendered form mismatch (-want +got):\n%s", diff)
	}
}
