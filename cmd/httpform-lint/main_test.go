package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ExampleFormsAreClean(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{filepath.Join("..", "..", "forms")}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "2 file(s) clean")
}

func TestRun_ReportsIssues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	doc := "name: bad\nheaders:\n  - id: r\n    name: Range\n    template: \"pages={page}@{per}\"\n    fields: [page]\nfields:\n  - name: page\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	var stdout, stderr bytes.Buffer
	code := run([]string{dir}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), path+": bad: header r -> placeholder {per} is not fed by a bound field")
}

func TestRun_MissingPath(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"does-not-exist"}, &stdout, &stderr))
}
