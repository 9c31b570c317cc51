package openapi

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

type fileSource string

func (s fileSource) Location() string { return string(s) }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource(filepath.Clean(path))
}

type fsSource string

func (s fsSource) Location() string { return string(s) }
func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS returns a Source naming a document inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return fsSource(name)
}

type urlSource string

func (s urlSource) Location() string { return string(s) }
func (s urlSource) Kind() SourceKind { return SourceKindURL }

// SourceFromURL validates raw and returns a Source for an HTTP(S) document.
func SourceFromURL(raw string) (Source, error) {
	u, err := url.ParseRequestURI(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("openapi: invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("openapi: unsupported URL scheme %q", u.Scheme)
	}
	return urlSource(u.String()), nil
}

// SourceFor picks a URL source for http(s) locations and a file source for
// anything else.
func SourceFor(location string) (Source, error) {
	lower := strings.ToLower(strings.TrimSpace(location))
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return SourceFromURL(location)
	}
	if strings.TrimSpace(location) == "" {
		return nil, fmt.Errorf("openapi: empty document location")
	}
	return SourceFromFile(location), nil
}
