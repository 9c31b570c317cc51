// Package interpolate substitutes `{name}` and `{name,formatSpec}`
// placeholders in header templates. `{{` and `}}` stand for literal braces.
// Placeholders whose name has no value are left in the output untouched.
package interpolate

import (
	"regexp"
	"strings"

	"github.com/steveAllen0112/http-aware-forms/pkg/format"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
)

var (
	placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_-]*)(?:,([^}]*))?\}`)
	bareAssignment     = regexp.MustCompile(`^[A-Za-z_-]+=\s*$`)
)

// Resolver applies a format spec to a raw value. *format.Registry satisfies
// it.
type Resolver interface {
	Apply(spec string, value any) string
}

// Interpolator substitutes placeholders using the injected formatter
// resolver. The zero value stringifies every value unchanged.
type Interpolator struct {
	formatters Resolver
}

// New constructs an Interpolator. A nil resolver disables formatting.
func New(formatters Resolver) *Interpolator {
	return &Interpolator{formatters: formatters}
}

// Interpolate replaces every placeholder of template whose name is present in
// values.
func (i *Interpolator) Interpolate(template string, values model.ValueMap) string {
	if template == "" {
		return ""
	}
	var b strings.Builder
	for _, seg := range segments(template) {
		if seg.escape {
			b.WriteString(seg.text)
			continue
		}
		b.WriteString(placeholderPattern.ReplaceAllStringFunc(seg.text, func(match string) string {
			groups := placeholderPattern.FindStringSubmatch(match)
			entry, ok := values[groups[1]]
			if !ok {
				return match
			}
			return i.apply(groups[2], rawValue(entry))
		}))
	}
	return b.String()
}

type segment struct {
	text   string
	escape bool
}

// segments splits template at escaped braces. A run of identical braces pairs
// up from the left, so an odd run ends with a single brace that stays part of
// the surrounding text. Placeholders never span an escape.
func segments(template string) []segment {
	var out []segment
	start := 0
	for pos := 0; pos < len(template); {
		c := template[pos]
		if (c == '{' || c == '}') && pos+1 < len(template) && template[pos+1] == c {
			if start < pos {
				out = append(out, segment{text: template[start:pos]})
			}
			out = append(out, segment{text: string(c), escape: true})
			pos += 2
			start = pos
			continue
		}
		pos++
	}
	if start < len(template) {
		out = append(out, segment{text: template[start:]})
	}
	return out
}

// Placeholder is one `{name}` or `{name,spec}` reference in a template.
type Placeholder struct {
	Name string
	Spec string
}

// Placeholders lists the references of template in order of appearance.
// Escaped braces are skipped.
func Placeholders(template string) []Placeholder {
	var out []Placeholder
	for _, seg := range segments(template) {
		if seg.escape {
			continue
		}
		for _, groups := range placeholderPattern.FindAllStringSubmatch(seg.text, -1) {
			out = append(out, Placeholder{Name: groups[1], Spec: strings.TrimSpace(groups[2])})
		}
	}
	return out
}

// HeaderValue interpolates template and applies the header suppression rule:
// a result that is only an unfilled `key=` assignment becomes empty.
func (i *Interpolator) HeaderValue(template string, values model.ValueMap) string {
	return Suppress(i.Interpolate(template, values))
}

// Suppress returns "" when value is a bare `key=` token followed only by
// whitespace, and value unchanged otherwise.
func Suppress(value string) string {
	if bareAssignment.MatchString(value) {
		return ""
	}
	return value
}

func (i *Interpolator) apply(spec string, value any) string {
	if i == nil || i.formatters == nil {
		return format.Stringify(value)
	}
	return i.formatters.Apply(spec, value)
}

func rawValue(entry model.Entry) any {
	if entry.File != nil {
		return entry.File
	}
	return entry.Value
}
