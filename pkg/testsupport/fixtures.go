package testsupport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/steveAllen0112/http-aware-forms/pkg/expect"
	"github.com/steveAllen0112/http-aware-forms/pkg/formspec"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
	pkgopenapi "github.com/steveAllen0112/http-aware-forms/pkg/openapi"
	"github.com/steveAllen0112/http-aware-forms/pkg/submit"
)

// LoadDocument reads a fixture and builds an openapi.Document using a file
// source.
func LoadDocument(t *testing.T, path string) pkgopenapi.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadDocumentFromPath(path string) (pkgopenapi.Document, error) {
	if path == "" {
		return pkgopenapi.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile(path), data)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// MustLoadForm reads a form description fixture and returns the form with the
// given name.
func MustLoadForm(t *testing.T, path, name string) formspec.FormSpec {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read form fixture: %v", err)
	}
	forms, err := formspec.ParseFile(filepath.Base(path), data, nil)
	if err != nil {
		t.Fatalf("parse form fixture: %v", err)
	}
	for _, form := range forms {
		if form.Name == name {
			return form
		}
	}
	t.Fatalf("form %q not found in %s", name, path)
	return formspec.FormSpec{}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// ExpectServer starts a server checking requests against exp and closes it
// when the test ends.
func ExpectServer(t *testing.T, exp expect.Expectations) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(expect.NewHandler(exp))
	t.Cleanup(server.Close)
	return server
}

// RecordingTransport answers every request with Response and records what was
// sent. It is safe for concurrent use.
type RecordingTransport struct {
	Response submit.Response
	Err      error

	mu   sync.Mutex
	sent []model.Request
}

var _ submit.Transport = (*RecordingTransport)(nil)

// Send records req and returns the canned response or error.
func (r *RecordingTransport) Send(ctx context.Context, req model.Request) (submit.Response, error) {
	if err := ctx.Err(); err != nil {
		return submit.Response{}, err
	}
	r.mu.Lock()
	r.sent = append(r.sent, req.Clone())
	r.mu.Unlock()
	if r.Err != nil {
		return submit.Response{}, r.Err
	}
	resp := r.Response
	if resp.URL == "" {
		resp.URL = req.URL
	}
	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusOK
	}
	return resp, nil
}

// Sent returns the recorded requests.
func (r *RecordingTransport) Sent() []model.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Request(nil), r.sent...)
}
