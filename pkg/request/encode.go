package request

import (
	"net/url"
	"strings"

	"github.com/steveAllen0112/http-aware-forms/pkg/model"
)

// EncodeBody encodes routed body fields for enctype. text/plain renders
// `name=value` lines joined by CRLF, application/x-www-form-urlencoded
// percent-encodes the pairs and drops file fields, and any other enctype
// passes the raw field set through untouched.
func EncodeBody(enctype string, fields model.Snapshot) model.Body {
	enctype = strings.ToLower(strings.TrimSpace(enctype))
	switch enctype {
	case model.EnctypeTextPlain:
		return model.Body{
			Kind:    model.BodyText,
			Enctype: enctype,
			Encoded: EncodeTextPlain(fields),
		}
	case model.EnctypeURLEncoded:
		textOnly := make(model.Snapshot, 0, len(fields))
		for _, field := range fields {
			if field.IsFile() {
				continue
			}
			textOnly = append(textOnly, field)
		}
		return model.Body{
			Kind:    model.BodyURLEncoded,
			Enctype: enctype,
			Encoded: EncodeURLEncoded(textOnly),
		}
	default:
		return model.Body{
			Kind:    model.BodyMultipart,
			Enctype: enctype,
			Entries: fields.Clone(),
		}
	}
}

// EncodeURLEncoded serialises the entries as application/x-www-form-urlencoded
// pairs in snapshot order. File entries contribute their filename.
func EncodeURLEncoded(fields model.Snapshot) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for idx, field := range fields {
		if idx > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(field.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(field.String()))
	}
	return b.String()
}

// EncodeTextPlain renders each entry as `name=value`, joined by CRLF.
func EncodeTextPlain(fields model.Snapshot) string {
	lines := make([]string, len(fields))
	for idx, field := range fields {
		lines[idx] = field.Name + "=" + field.String()
	}
	return strings.Join(lines, "\r\n")
}
