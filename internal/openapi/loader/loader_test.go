package loader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/steveAllen0112/http-aware-forms/internal/openapi/loader"
	pkgopenapi "github.com/steveAllen0112/http-aware-forms/pkg/openapi"
)

const document = "openapi: 3.0.3\ninfo: {title: t, version: '1'}\npaths: {}\n"

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := loader.New(pkgopenapi.NewLoaderOptions()).Load(context.Background(), pkgopenapi.SourceFromFile(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(doc.Raw()) != document || doc.Location() != path {
		t.Fatalf("unexpected document %q from %s", doc.Raw(), doc.Location())
	}
}

func TestLoad_FS(t *testing.T) {
	files := fstest.MapFS{"specs/api.yaml": {Data: []byte(document)}}
	l := loader.New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(files)))

	if _, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("specs/api.yaml")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestLoad_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openapi.yaml" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(document))
	}))
	defer server.Close()

	src, err := pkgopenapi.SourceFromURL(server.URL + "/openapi.yaml")
	if err != nil {
		t.Fatalf("SourceFromURL: %v", err)
	}

	if _, err := loader.New(pkgopenapi.NewLoaderOptions()).Load(context.Background(), src); err == nil {
		t.Fatalf("expected http loading to be disabled by default")
	}

	l := loader.New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPClient(server.Client())))
	doc, err := l.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(doc.Raw()) != document {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	missing, _ := pkgopenapi.SourceFromURL(server.URL + "/nope.yaml")
	if _, err := l.Load(context.Background(), missing); err == nil {
		t.Fatalf("expected an error for a 404")
	}
}

func TestLoad_HTTPFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(document))
	}))
	defer server.Close()

	src, err := pkgopenapi.SourceFromURL(server.URL + "/openapi.yaml")
	if err != nil {
		t.Fatalf("SourceFromURL: %v", err)
	}
	l := loader.New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPFallback(5 * time.Second)))
	doc, err := l.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(doc.Raw()) != document {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
}
