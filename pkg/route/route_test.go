package route

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/steveAllen0112/http-aware-forms/pkg/model"
)

func fixture() (model.Snapshot, []model.HeaderDeclaration) {
	snapshot := model.Snapshot{
		model.Text("page", "1"),
		model.Text("per", "25"),
		model.Text("view", "list"),
		model.FileEntry("upload", model.File{Name: "report.pdf", Data: []byte("%PDF")}),
	}
	decls := []model.HeaderDeclaration{
		model.NewHeaderDeclaration("range", "Range", "pages={page}@{per}", "page", "per"),
		model.NewHeaderDeclaration("", "X-Page", "{page}", "page"),
	}
	return snapshot, decls
}

func TestRoute_QueryMethods(t *testing.T) {
	snapshot, decls := fixture()

	for _, method := range []string{"GET", "head", "DELETE", ""} {
		t.Run(method, func(t *testing.T) {
			got := Route(snapshot, decls, method)
			want := Result{
				Target: TargetQuery,
				Query: model.Snapshot{
					model.Text("view", "list"),
					model.Text("upload", "report.pdf"),
				},
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("route mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoute_BodyMethods(t *testing.T) {
	snapshot, decls := fixture()

	for _, method := range []string{"POST", "put", "PATCH", "OPTIONS"} {
		t.Run(method, func(t *testing.T) {
			got := Route(snapshot, decls, method)
			if got.Target != TargetBody || len(got.Query) != 0 {
				t.Fatalf("expected body routing, got %+v", got)
			}
			want := model.Snapshot{snapshot[2], snapshot[3]}
			if diff := cmp.Diff(want, got.Body); diff != "" {
				t.Fatalf("body mismatch (-want +got):\n%s", diff)
			}
			if !got.Body[1].IsFile() {
				t.Fatalf("file value must be preserved in the body")
			}
		})
	}
}

func TestRoute_NamelessDeclarationDoesNotConsume(t *testing.T) {
	snapshot := model.Snapshot{model.Text("view", "list")}
	decls := []model.HeaderDeclaration{model.NewHeaderDeclaration("", "", "{view}", "view")}

	got := Route(snapshot, decls, "GET")
	if diff := cmp.Diff(snapshot, got.Query); diff != "" {
		t.Fatalf("query mismatch (-want +got):\n%s", diff)
	}
}
