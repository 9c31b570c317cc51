package format

import "strings"

// Spec is a parsed format spec: `name` or `name(arg1,arg2,...)`.
type Spec struct {
	Name string
	Args []string
}

// ParseSpec parses a format spec. It reports false for an empty spec. A spec
// with an unbalanced argument list is treated as a bare name so it falls back
// to plain stringification instead of failing.
func ParseSpec(raw string) (Spec, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Spec{}, false
	}

	open := strings.IndexByte(trimmed, '(')
	if open < 0 || !strings.HasSuffix(trimmed, ")") {
		return Spec{Name: trimmed}, true
	}

	name := strings.TrimSpace(trimmed[:open])
	if name == "" {
		return Spec{}, false
	}
	inner := trimmed[open+1 : len(trimmed)-1]
	if strings.TrimSpace(inner) == "" {
		return Spec{Name: name}, true
	}

	parts := strings.Split(inner, ",")
	args := make([]string, len(parts))
	for idx, part := range parts {
		args[idx] = strings.TrimSpace(part)
	}
	return Spec{Name: name, Args: args}, true
}

// String renders the spec back into its textual form.
func (s Spec) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + "(" + strings.Join(s.Args, ",") + ")"
}
