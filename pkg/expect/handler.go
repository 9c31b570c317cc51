package expect

import (
	"html/template"
	"log/slog"
	"net/http"
	"sort"

	"github.com/steveAllen0112/http-aware-forms/internal/ctxlog"
)

var pageTemplate = template.Must(template.New("result").Parse(`{{if .Passed}}<div class="pass">
[OK] REQUEST VALID<br>
Path: {{.Path}}<br>
{{range .Headers}}{{.Name}}: {{.Value}}<br>
{{end}}</div>
{{else}}<div class="fail">
[X] REQUEST INVALID<br>
{{range .Failures}}{{.}}<br>
{{end}}</div>
{{end}}`))

type headerLine struct {
	Name  string
	Value string
}

type page struct {
	Passed   bool
	Path     string
	Headers  []headerLine
	Failures []string
}

// Handler answers every request with the result of checking it.
type Handler struct {
	expect       Expectations
	logger       *slog.Logger
	contentRange string
}

// Option customises a Handler.
type Option func(*Handler)

// WithLogger sets the logger used for the per-request report. By default the
// logger attached to the request context is used.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithContentRange sets the Content-Range sent with every response.
func WithContentRange(value string) Option {
	return func(h *Handler) {
		h.contentRange = value
	}
}

// NewHandler builds a Handler checking requests against expect.
func NewHandler(expect Expectations, opts ...Option) *Handler {
	h := &Handler{expect: expect, contentRange: "pages 1-1/1@10"}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

var _ http.Handler = (*Handler)(nil)

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORS(w.Header())
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	failures := h.expect.Check(r)
	h.report(r, failures)

	status := http.StatusPartialContent
	if len(failures) > 0 {
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if h.contentRange != "" {
		w.Header().Set("Content-Range", h.contentRange)
	}
	w.WriteHeader(status)

	data := page{Passed: len(failures) == 0, Path: r.URL.RequestURI(), Failures: failures}
	for _, rule := range h.expect.Headers {
		data.Headers = append(data.Headers, headerLine{Name: rule.Name, Value: r.Header.Get(rule.Name)})
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		h.log(r).Error("expect: render response", "error", err)
	}
}

func (h *Handler) report(r *http.Request, failures []string) {
	logger := h.log(r)
	names := make([]string, 0, len(r.Header))
	for name := range r.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	attrs := []any{"method", r.Method, "target", r.URL.RequestURI()}
	for _, name := range names {
		attrs = append(attrs, slog.String("header."+name, r.Header.Get(name)))
	}
	for _, rule := range h.expect.Headers {
		attrs = append(attrs, slog.Bool("ok."+rule.Name, !Mentions(failures, rule.Name)))
	}
	if len(failures) == 0 {
		logger.Info("expect: PASS", attrs...)
		return
	}
	attrs = append(attrs, "failures", failures)
	logger.Warn("expect: FAIL", attrs...)
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	if h.logger != nil {
		return h.logger
	}
	return ctxlog.FromContext(r.Context())
}

func setCORS(header http.Header) {
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	header.Set("Access-Control-Allow-Headers", "*")
	header.Set("Access-Control-Expose-Headers", "Content-Range, Link")
}
