// Package openapi turns OpenAPI operations into form descriptions. Header
// parameters become header declarations, query parameters and form-encoded
// request body properties become fields. The loader and parser
// implementations live under internal/openapi so kin-openapi stays out of the
// public API; the root package wires them together.
package openapi
