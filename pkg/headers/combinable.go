package headers

import "strings"

// combinable lists the header fields whose repeated values RFC 9110 allows to
// be folded into one comma-separated list. Every other header keeps only the
// value of its last declaration.
var combinable = map[string]struct{}{
	"accept":            {},
	"accept-charset":    {},
	"accept-encoding":   {},
	"accept-language":   {},
	"cache-control":     {},
	"connection":        {},
	"content-encoding":  {},
	"expect":            {},
	"if-match":          {},
	"if-none-match":     {},
	"prefer":            {},
	"te":                {},
	"trailer":           {},
	"transfer-encoding": {},
	"upgrade":           {},
	"via":               {},
	"warning":           {},
	"link":              {},
}

// IsCombinable reports whether values for the header name are joined rather
// than replaced. The comparison is case-insensitive.
func IsCombinable(name string) bool {
	_, ok := combinable[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// SplitName separates a bracket-targeted declaration name such as
// `Content-Disposition[filename]` into its base header and parameter. Plain
// names return an empty parameter.
func SplitName(name string) (base, param string) {
	trimmed := strings.TrimSpace(name)
	open := strings.IndexByte(trimmed, '[')
	if open <= 0 || !strings.HasSuffix(trimmed, "]") {
		return trimmed, ""
	}
	inner := strings.TrimSpace(trimmed[open+1 : len(trimmed)-1])
	if inner == "" || strings.ContainsAny(inner, "[]") {
		return trimmed, ""
	}
	return strings.TrimSpace(trimmed[:open]), inner
}
