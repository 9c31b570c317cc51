package formspec_test

import (
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/steveAllen0112/http-aware-forms/pkg/formspec"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
)

func loadTestdata(t *testing.T) *formspec.Store {
	t.Helper()
	t.Setenv("REPORTS_BASE", "https://reports.test")
	store, err := formspec.LoadFS(os.DirFS("testdata/forms"))
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	return store
}

func TestLoadFS_AllFormats(t *testing.T) {
	store := loadTestdata(t)
	want := []string{"pagination", "reports", "search", "upload"}
	if diff := cmp.Diff(want, store.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHTML_Pagination(t *testing.T) {
	store := loadTestdata(t)
	spec, ok := store.Form("pagination")
	if !ok {
		t.Fatalf("pagination form missing")
	}

	compiled, err := formspec.Compile(spec)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	wantDecls := []model.HeaderDeclaration{
		{ID: "range", Name: "Range", Template: "pages={page}@{per}", BoundFields: []string{"page", "per"}},
		{ID: "prefer", Name: "Prefer", Template: "view={view}", BoundFields: []string{"view"}},
	}
	if diff := cmp.Diff(wantDecls, compiled.Form.Declarations); diff != "" {
		t.Fatalf("declarations mismatch (-want +got):\n%s", diff)
	}
	if compiled.Form.Method != "get" || compiled.Form.Action != "/api/items" {
		t.Fatalf("unexpected form attributes %+v", compiled.Form)
	}

	var names []string
	for _, field := range compiled.Fields {
		names = append(names, field.Name)
	}
	if diff := cmp.Diff([]string{"page", "per", "view", "q", "archived"}, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	view := compiled.Fields[2]
	if view.Value != "cards" || len(view.Options) != 2 || view.Options[0] != "list" {
		t.Fatalf("select not parsed: %+v", view)
	}
	if !compiled.Fields[0].Required || compiled.Fields[3].MaxLength != 40 || compiled.Fields[3].Pattern != "[a-z ]*" {
		t.Fatalf("constraints not parsed: %+v", compiled.Fields)
	}
	if archived := compiled.Fields[4]; archived.Value != "on" || archived.Checked {
		t.Fatalf("checkbox not parsed: %+v", archived)
	}

	if len(compiled.Submitters) != 2 {
		t.Fatalf("expected 2 submitters, got %d", len(compiled.Submitters))
	}
	export, ok := compiled.Submitter("op")
	if !ok {
		t.Fatalf("export submitter missing")
	}
	sub := export.Submitter()
	if *sub.Overrides.Method != "post" || *sub.Overrides.Enctype != "text/plain" || !sub.NoValidate() || *sub.Overrides.Target != "_blank" {
		t.Fatalf("overrides not parsed: %+v", sub.Overrides)
	}
	if sub.Overrides.Action != nil {
		t.Fatalf("absent formaction must stay unset")
	}
	first, _ := compiled.Submitter("")
	if first.DisplayLabel() != "Apply" {
		t.Fatalf("default submitter label = %q", first.DisplayLabel())
	}
}

func TestParseYAML_Search(t *testing.T) {
	store := loadTestdata(t)
	spec, _ := store.Form("search")
	compiled, err := formspec.Compile(spec)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	wantDecls := []model.HeaderDeclaration{
		{ID: "prefer", Name: "Prefer", Template: "wait={timeout}", BoundFields: []string{"timeout"}},
		{Name: "Accept-Language", Template: "{lang}"},
	}
	if diff := cmp.Diff(wantDecls, compiled.Form.Declarations); diff != "" {
		t.Fatalf("declarations mismatch (-want +got):\n%s", diff)
	}
	if compiled.Fields[0].MinLength != 2 || !compiled.Fields[0].Required {
		t.Fatalf("constraints not parsed: %+v", compiled.Fields[0])
	}
}

func TestParseJSON_LinkedHeader(t *testing.T) {
	store := loadTestdata(t)
	spec, _ := store.Form("upload")
	compiled, err := formspec.Compile(spec)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if diff := cmp.Diff([]string{"note"}, compiled.Form.Declarations[0].BoundFields); diff != "" {
		t.Fatalf("bound fields mismatch (-want +got):\n%s", diff)
	}
	if compiled.Form.Enctype != model.EnctypeMultipart {
		t.Fatalf("enctype = %q", compiled.Form.Enctype)
	}
	send, _ := compiled.Submitter("send")
	if action := send.Submitter().Overrides.Action; action == nil || *action != "/files/bulk" {
		t.Fatalf("formaction not parsed: %v", action)
	}
}

func TestParseHCL_EnvAndOverrides(t *testing.T) {
	store := loadTestdata(t)
	spec, _ := store.Form("reports")
	if spec.Action != "https://reports.test/reports" {
		t.Fatalf("env not interpolated: %q", spec.Action)
	}
	compiled, err := formspec.Compile(spec)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []model.HeaderDeclaration{
		{ID: "ifmatch", Name: "If-Match", Template: `"{etag}"`, BoundFields: []string{"etag"}},
	}
	if diff := cmp.Diff(want, compiled.Form.Declarations); diff != "" {
		t.Fatalf("declarations mismatch (-want +got):\n%s", diff)
	}
	if compiled.Fields[1].MaxLength != 80 || !compiled.Fields[1].Required {
		t.Fatalf("field constraints not decoded: %+v", compiled.Fields[1])
	}
	save, _ := compiled.Submitter("save")
	if m := save.Submitter().Overrides.Method; m == nil || *m != "put" {
		t.Fatalf("formmethod not decoded: %v", m)
	}
}

func TestParseHCL_UnknownEnv(t *testing.T) {
	_, err := formspec.ParseHCL([]byte(`form "x" { action = env.MISSING }`), "x.hcl", map[string]string{"OTHER": "1"})
	if err == nil {
		t.Fatalf("expected an error for an undefined env variable")
	}
}

func TestLoadFS_DuplicateNames(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("name: dup\naction: /a\n")},
		"b.json": {Data: []byte(`{"name":"dup","action":"/b"}`)},
	}
	_, err := formspec.LoadFS(fsys)
	if err == nil || !strings.Contains(err.Error(), "duplicate form") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestLoadFS_UnnamedTakesFileName(t *testing.T) {
	fsys := fstest.MapFS{
		"nested/orders.html": {Data: []byte(`<form action="/orders"><input name="id"></form>`)},
		"notes.txt":          {Data: []byte("ignored")},
	}
	store, err := formspec.LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	spec, ok := store.Form("orders")
	if !ok {
		t.Fatalf("expected form named after its file, got %v", store.Names())
	}
	if spec.Source != "nested/orders.html" {
		t.Fatalf("source = %q", spec.Source)
	}
}

func TestParse_FormsList(t *testing.T) {
	forms, err := formspec.Parse([]byte("forms:\n  - name: a\n  - name: b\n"), "list.yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(forms) != 2 || forms[1].Name != "b" {
		t.Fatalf("unexpected forms %+v", forms)
	}
	if _, err := formspec.Parse([]byte("  \n"), "empty.yaml"); err == nil {
		t.Fatalf("expected an error for an empty file")
	}
}

func TestCompile_Errors(t *testing.T) {
	cases := map[string]formspec.FormSpec{
		"header without name": {Headers: []formspec.HeaderSpec{{Template: "x"}}},
		"duplicate header id": {Headers: []formspec.HeaderSpec{{ID: "h", Name: "A"}, {ID: "h", Name: "B"}}},
		"field without name":  {Fields: []formspec.FieldSpec{{Value: "x"}}},
		"unknown header link": {Fields: []formspec.FieldSpec{{Name: "a", Header: "missing"}}},
	}
	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := formspec.Compile(spec); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestCompile_ContainedThenLinked(t *testing.T) {
	spec := formspec.FormSpec{
		Headers: []formspec.HeaderSpec{{ID: "r", Name: "Range", Template: "{a}{b}{c}", Fields: []string{"b", "a"}}},
		Fields: []formspec.FieldSpec{
			{Name: "a"},
			{Name: "c", Header: "r"},
			{Name: "b"},
		},
	}
	compiled, err := formspec.Compile(spec)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, compiled.Form.Declarations[0].BoundFields); diff != "" {
		t.Fatalf("bound fields mismatch (-want +got):\n%s", diff)
	}
}
