// Package builtin provides a set of ready-made formatters (fixed decimals,
// padding, case folding and date rendering) that applications can install
// into their own format.Registry.
package builtin

import (
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/benbjohnson/clock"

	"github.com/steveAllen0112/http-aware-forms/pkg/format"
)

// Formatter names installed by Register.
const (
	NameFixed    = "fixed"
	NamePad      = "pad"
	NameUpper    = "upper"
	NameLower    = "lower"
	NameISO8601  = "iso8601"
	NameDate     = "date"
	NameHTTPDate = "httpdate"
)

// Option configures Register.
type Option func(*config)

type config struct {
	clock    clock.Clock
	location *time.Location
}

// WithClock sets the clock used to resolve the `now` keyword.
func WithClock(c clock.Clock) Option {
	return func(cfg *config) {
		if c != nil {
			cfg.clock = c
		}
	}
}

// WithLocation sets the zone dates without an offset are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(cfg *config) {
		if loc != nil {
			cfg.location = loc
		}
	}
}

// Register installs every built-in formatter into reg.
func Register(reg *format.Registry, options ...Option) {
	if reg == nil {
		return
	}
	cfg := &config{clock: clock.New(), location: time.UTC}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	reg.Register(NameFixed, Fixed)
	reg.Register(NamePad, Pad)
	reg.Register(NameUpper, Upper)
	reg.Register(NameLower, Lower)

	iso := dateFormatter(cfg, func(t time.Time) string { return t.Format(time.RFC3339) })
	reg.Register(NameISO8601, iso)
	reg.Register(NameDate, iso)
	reg.Register(NameHTTPDate, dateFormatter(cfg, func(t time.Time) string {
		return t.UTC().Format(http.TimeFormat)
	}))
}

// Fixed renders a numeric value with a fixed number of decimals (default 0).
// Non-numeric values are returned unchanged.
func Fixed(value any, args ...string) string {
	raw := strings.TrimSpace(format.Stringify(value))
	number, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return format.Stringify(value)
	}
	decimals := 0
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n >= 0 {
			decimals = n
		}
	}
	return strconv.FormatFloat(number, 'f', decimals, 64)
}

// MaxPadWidth bounds the width Pad accepts; wider requests leave the value
// unchanged.
const MaxPadWidth = 1024

// Pad left-pads the value to the given width using the pad character
// (default "0"). Values already at or beyond the width are unchanged, as are
// widths above MaxPadWidth.
func Pad(value any, args ...string) string {
	text := format.Stringify(value)
	if len(args) == 0 {
		return text
	}
	width, err := strconv.Atoi(args[0])
	if err != nil || width > MaxPadWidth {
		return text
	}
	pad := "0"
	if len(args) > 1 && args[1] != "" {
		pad = args[1]
	}
	missing := width - utf8.RuneCountInString(text)
	if missing <= 0 {
		return text
	}
	padRune, _ := utf8.DecodeRuneInString(pad)
	return strings.Repeat(string(padRune), missing) + text
}

// Upper upper-cases the value.
func Upper(value any, _ ...string) string {
	return strings.ToUpper(format.Stringify(value))
}

// Lower lower-cases the value.
func Lower(value any, _ ...string) string {
	return strings.ToLower(format.Stringify(value))
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	http.TimeFormat,
}

func dateFormatter(cfg *config, render func(time.Time) string) format.Func {
	return func(value any, _ ...string) string {
		if t, ok := value.(time.Time); ok {
			return render(t)
		}
		raw := strings.TrimSpace(format.Stringify(value))
		if t, ok := parseDate(cfg, raw); ok {
			return render(t)
		}
		return format.Stringify(value)
	}
}

func parseDate(cfg *config, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if strings.EqualFold(raw, "now") {
		return cfg.clock.Now().In(cfg.location), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, cfg.location); err == nil {
			return t, true
		}
	}
	if seconds, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(seconds, 0).In(cfg.location), true
	}
	return time.Time{}, false
}
