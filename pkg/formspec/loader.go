package formspec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store holds form descriptions keyed by form name.
type Store struct {
	forms map[string]FormSpec
}

// LoadFS walks fsys and loads every JSON, YAML, HCL and HTML form
// description. HCL files see the process environment as `env`. Unnamed forms
// take the file's base name; duplicate names are rejected.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]FormSpec)}
	if fsys == nil {
		return store, nil
	}
	env := Environ()

	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isFormFile(p) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("formspec: read %s: %w", p, err)
		}
		forms, err := ParseFile(p, data, env)
		if err != nil {
			return err
		}
		for _, form := range forms {
			if err := store.add(form); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// ParseFile decodes data according to the extension of name.
func ParseFile(name string, data []byte, env map[string]string) ([]FormSpec, error) {
	var (
		forms []FormSpec
		err   error
	)
	switch strings.ToLower(path.Ext(name)) {
	case ".hcl":
		forms, err = ParseHCL(data, name, env)
	case ".html", ".htm":
		forms, err = ParseHTML(bytes.NewReader(data))
	default:
		forms, err = Parse(data, name)
	}
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	for idx := range forms {
		forms[idx].Source = name
		if strings.TrimSpace(forms[idx].Name) != "" {
			continue
		}
		if len(forms) > 1 {
			return nil, fmt.Errorf("formspec: file %s defines several forms; form %d needs a name", name, idx)
		}
		forms[idx].Name = base
	}
	return forms, nil
}

func (s *Store) add(form FormSpec) error {
	name := strings.TrimSpace(form.Name)
	if existing, ok := s.forms[name]; ok {
		return fmt.Errorf("formspec: duplicate form %q (files %s and %s)", name, existing.Source, form.Source)
	}
	form.Name = name
	s.forms[name] = form
	return nil
}

// Form returns the description with the given name.
func (s *Store) Form(name string) (FormSpec, bool) {
	if s == nil {
		return FormSpec{}, false
	}
	form, ok := s.forms[strings.TrimSpace(name)]
	return form, ok
}

// Names lists the loaded form names in sorted order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.forms))
	for name := range s.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

type documentFile struct {
	Forms []FormSpec `json:"forms" yaml:"forms"`
}

// Parse decodes a JSON or YAML document holding either a single form or a
// `forms` list.
func Parse(data []byte, source string) ([]FormSpec, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("formspec: file %s is empty", source)
	}

	var doc documentFile
	var single FormSpec
	if err := json.Unmarshal(data, &doc); err == nil {
		if len(doc.Forms) > 0 {
			return doc.Forms, nil
		}
		if err := json.Unmarshal(data, &single); err == nil {
			return []FormSpec{single}, nil
		}
	}

	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Forms) > 0 {
		return doc.Forms, nil
	}
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("formspec: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return []FormSpec{single}, nil
}

// Environ returns the process environment as a map.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

func isFormFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml", ".hcl", ".html", ".htm":
		return true
	default:
		return false
	}
}
