package parser

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/steveAllen0112/http-aware-forms/pkg/openapi"
	"github.com/steveAllen0112/http-aware-forms/pkg/testsupport"
)

func loadItems(t *testing.T) map[string]pkgopenapi.Operation {
	t.Helper()
	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "items.yaml"))
	ops, err := New(pkgopenapi.NewParserOptions()).Operations(context.Background(), doc)
	if err != nil {
		t.Fatalf("Operations: %v", err)
	}
	return ops
}

func TestOperations_HeaderParameters(t *testing.T) {
	ops := loadItems(t)
	list, ok := ops["listItems"]
	if !ok {
		t.Fatalf("listItems missing: %v", ops)
	}

	if list.Method != "GET" || list.Path != "/items" || list.BaseURL != "https://api.example.test/v1" {
		t.Fatalf("unexpected operation %+v", list)
	}

	want := []pkgopenapi.Parameter{
		{
			Name: "Prefer", In: "header",
			Schema:         pkgopenapi.Schema{Type: "string"},
			HeaderTemplate: "view={view}",
			HeaderFields:   []string{"view"},
		},
		{
			Name: "Range", In: "header", Required: true,
			Schema:         pkgopenapi.Schema{Type: "string"},
			HeaderTemplate: "pages={page}@{per}",
			HeaderFields:   []string{"page", "per"},
		},
		{Name: "q", In: "query", Schema: pkgopenapi.Schema{Type: "string", MaxLength: 40}},
		{Name: "sort", In: "query", Schema: pkgopenapi.Schema{Type: "string", Enum: []string{"name", "created"}, Default: "name"}},
	}
	if diff := cmp.Diff(want, list.Parameters); diff != "" {
		t.Fatalf("parameters mismatch (-want +got):\n%s", diff)
	}
	if list.Body != nil {
		t.Fatalf("GET operations carry no body")
	}
}

func TestOperations_FormBodyPreferred(t *testing.T) {
	ops := loadItems(t)
	replace := ops["replaceItem"]
	if replace.Body == nil {
		t.Fatalf("expected a form body")
	}
	if replace.Body.MediaType != "multipart/form-data" || !replace.Body.Required {
		t.Fatalf("unexpected body %+v", replace.Body)
	}
	if diff := cmp.Diff([]string{"archived", "count", "photo", "title"}, replace.Body.Schema.PropertyNames()); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}
	if got := replace.Body.Schema.Properties["count"].Default; got != "1" {
		t.Fatalf("count default = %q", got)
	}
	if !replace.Body.Schema.IsRequired("title") {
		t.Fatalf("title must be required")
	}
}

func TestOperations_RejectsEmptyPayload(t *testing.T) {
	_, err := New(pkgopenapi.NewParserOptions()).Operations(context.Background(), pkgopenapi.Document{})
	if err == nil {
		t.Fatalf("expected an error for an empty document")
	}
}
