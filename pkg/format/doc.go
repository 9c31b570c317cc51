// Package format resolves the optional format spec of a template placeholder
// (`{value,fixed(2)}`) to a formatter function. The registry ships empty and
// is always passed explicitly to the code that needs it; ready-made
// formatters live in pkg/format/builtin.
package format
