package markup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Engine renders named templates from a pongo2 template set, caching every
// compiled template.
type Engine struct {
	mu          sync.RWMutex
	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	extension   string
}

// NewEngine constructs an Engine loading templates from fsys. Names passed to
// RenderTemplate omit the extension.
func NewEngine(fsys fs.FS, extension string) (*Engine, error) {
	if fsys == nil {
		return nil, errors.New("markup: template filesystem is required")
	}
	extension = strings.TrimSpace(extension)
	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return &Engine{
		templateSet: pongo2.NewSet("httpforms", pongo2.NewFSLoader(fsys)),
		templates:   make(map[string]*pongo2.Template),
		extension:   extension,
	}, nil
}

// RenderTemplate executes the named template with data, copying the output to
// every writer in out.
func (e *Engine) RenderTemplate(name string, data pongo2.Context, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("markup: engine is nil")
	}
	path := name
	if e.extension != "" && !strings.HasSuffix(path, e.extension) {
		path += e.extension
	}
	tmpl, err := e.getTemplate(path)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(data, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("markup: execute template %q: %w", path, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (e *Engine) getTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("markup: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}
