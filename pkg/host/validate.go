package host

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/steveAllen0112/http-aware-forms/pkg/formspec"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
	"github.com/steveAllen0112/http-aware-forms/pkg/submit"
)

// emailPattern is the valid e-mail address production used by browsers.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// numberPattern is the valid floating-point number production: no sign other
// than a leading minus, no hex, no NaN or Infinity.
var numberPattern = regexp.MustCompile(`^-?(?:[0-9]+(?:\.[0-9]+)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

var patternCache sync.Map

var _ submit.Validator = (*Form)(nil)

// Validate runs the constraint check over the submitted snapshot: required,
// pattern (whole value), minlength, maxlength and the email, number and url
// control types. Empty values only fail `required`.
func (f *Form) Validate(_ context.Context, sub submit.Submission) []submit.Violation {
	entries := make(map[string][]model.Entry, len(sub.Fields))
	for _, entry := range sub.Fields {
		entries[entry.Name] = append(entries[entry.Name], entry)
	}

	var violations []submit.Violation
	checked := make(map[string]struct{})
	for _, field := range f.compiled.Fields {
		if _, done := checked[field.Name]; done {
			continue
		}
		checked[field.Name] = struct{}{}
		violations = append(violations, checkField(field, entries[field.Name])...)
	}
	return violations
}

// CheckValue runs the constraint check for a single candidate value.
func CheckValue(field formspec.FieldSpec, value string) error {
	violations := checkField(field, []model.Entry{model.Text(field.Name, value)})
	if len(violations) == 0 {
		return nil
	}
	return errors.New(violations[0].Message)
}

func checkField(field formspec.FieldSpec, entries []model.Entry) []submit.Violation {
	var value string
	present := false
	for _, entry := range entries {
		if entry.String() != "" {
			value, present = entry.String(), true
			break
		}
	}

	if !present {
		if field.Required {
			return []submit.Violation{{Field: field.Name, Message: "value is required"}}
		}
		return nil
	}
	if field.Checkable() || field.Kind() == formspec.TypeFile {
		return nil
	}

	var out []submit.Violation
	fail := func(format string, args ...any) {
		out = append(out, submit.Violation{Field: field.Name, Message: fmt.Sprintf(format, args...)})
	}

	length := utf8.RuneCountInString(value)
	if field.MinLength > 0 && length < field.MinLength {
		fail("must be at least %d characters", field.MinLength)
	}
	if field.MaxLength > 0 && length > field.MaxLength {
		fail("must be at most %d characters", field.MaxLength)
	}
	if re := compilePattern(field.Pattern); re != nil && !re.MatchString(value) {
		fail("does not match the pattern %s", field.Pattern)
	}

	switch field.Kind() {
	case formspec.TypeEmail:
		if !emailPattern.MatchString(value) {
			fail("is not an e-mail address")
		}
	case formspec.TypeNumber:
		if !isNumber(strings.TrimSpace(value)) {
			fail("is not a number")
		}
	case formspec.TypeURL:
		if u, err := url.Parse(value); err != nil || !u.IsAbs() {
			fail("is not an absolute URL")
		}
	case formspec.TypeSelect:
		if len(field.Options) > 0 && !slices.Contains(field.Options, value) {
			fail("%q is not one of the options", value)
		}
	}
	return out
}

// compilePattern anchors the pattern to the whole value. Invalid patterns are
// ignored, the way browsers ignore them.
func compilePattern(pattern string) *regexp.Regexp {
	if pattern == "" {
		return nil
	}
	if cached, ok := patternCache.Load(pattern); ok {
		re, _ := cached.(*regexp.Regexp)
		return re
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		re = nil
	}
	patternCache.Store(pattern, re)
	return re
}

// isNumber reports whether value is a finite number in the syntax number
// controls accept.
func isNumber(value string) bool {
	if !numberPattern.MatchString(value) {
		return false
	}
	n, err := strconv.ParseFloat(value, 64)
	return err == nil && !math.IsInf(n, 0)
}
