package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewHeaderDeclaration_TrimsAndDeduplicates(t *testing.T) {
	decl := NewHeaderDeclaration(" range ", " Range ", "pages={page}@{per}", "page", " per ", "page", "")

	want := HeaderDeclaration{
		ID:          "range",
		Name:        "Range",
		Template:    "pages={page}@{per}",
		BoundFields: []string{"page", "per"},
	}
	if diff := cmp.Diff(want, decl); diff != "" {
		t.Fatalf("declaration mismatch (-want +got):\n%s", diff)
	}
	if !decl.Binds("per") || decl.Binds("view") {
		t.Fatalf("unexpected Binds result for %v", decl.BoundFields)
	}
}

func TestSnapshot_ValueMapForKeepsLastEntry(t *testing.T) {
	snapshot := Snapshot{
		Text("tag", "a"),
		Text("view", "list"),
		Text("tag", "b"),
		FileEntry("upload", File{Name: "report.pdf"}),
	}

	got := snapshot.ValueMapFor([]string{"tag", "upload", "missing"})
	want := ValueMap{
		"tag":    Text("tag", "b"),
		"upload": FileEntry("upload", File{Name: "report.pdf"}),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("value map mismatch (-want +got):\n%s", diff)
	}
	if got["upload"].String() != "report.pdf" {
		t.Fatalf("expected file entry to stringify to its filename, got %q", got["upload"].String())
	}
}

func TestSnapshot_WithSubmitterDoesNotAlias(t *testing.T) {
	base := make(Snapshot, 1, 4)
	base[0] = Text("q", "x")

	withButton := base.WithSubmitter(&Submitter{Name: "action", Value: "save"})
	withOther := base.WithSubmitter(&Submitter{Name: "action", Value: "delete"})

	if withButton[1].Value != "save" || withOther[1].Value != "delete" {
		t.Fatalf("submitter snapshots share backing storage: %v %v", withButton, withOther)
	}
	if len(base.WithSubmitter(&Submitter{Value: "unnamed"})) != 1 {
		t.Fatalf("unnamed submitter must not join the snapshot")
	}
}

func TestRequest_CloneAndHeaderLookup(t *testing.T) {
	req := Request{
		Method:  MethodGet,
		Headers: []Header{{Name: "Prefer", Value: "view=list"}},
	}
	clone := req.Clone()
	clone.Headers[0].Value = "changed"

	if value, ok := req.Header("prefer"); !ok || value != "view=list" {
		t.Fatalf("expected original header untouched, got %q (ok=%v)", value, ok)
	}
}
