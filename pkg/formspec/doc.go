// Package formspec loads static descriptions of HTTP-aware forms from JSON,
// YAML, HCL or HTML markup and compiles them into the model consumed by the
// request builder. Header bindings are resolved once at compile time so the
// builder never re-scans the form structure.
package formspec
