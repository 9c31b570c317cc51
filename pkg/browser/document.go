package browser

import (
	"html"
	"mime"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/steveAllen0112/http-aware-forms/pkg/submit"
)

// Document is the content currently shown in a browsing context.
type Document struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	// NoContent marks a document reached through a 204 response.
	NoContent bool
}

// DocumentFrom captures a response as a document.
func DocumentFrom(resp submit.Response) Document {
	return Document{
		URL:         resp.URL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.ContentType(),
		Body:        append([]byte(nil), resp.Body...),
	}
}

// IsHTML reports whether the document is an HTML page.
func (d Document) IsHTML() bool {
	mediaType, _, err := mime.ParseMediaType(d.ContentType)
	if err != nil {
		return strings.EqualFold(strings.TrimSpace(d.ContentType), "text/html")
	}
	return mediaType == "text/html"
}

// Text renders the document for a terminal: HTML is stripped of all markup,
// whitespace runs are collapsed, anything else is returned as is.
func (d Document) Text() string {
	if !d.IsHTML() {
		return string(d.Body)
	}
	stripped := textSanitizer().SanitizeBytes(d.Body)
	return strings.Join(strings.Fields(html.UnescapeString(string(stripped))), " ")
}

// SafeHTML returns the HTML body with scripts, handlers and unsafe URLs
// removed.
func (d Document) SafeHTML() string {
	if !d.IsHTML() {
		return html.EscapeString(string(d.Body))
	}
	return strings.TrimSpace(htmlSanitizer().Sanitize(string(d.Body)))
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy

	htmlPolicyOnce sync.Once
	htmlPolicy     *bluemonday.Policy
)

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AddSpaceWhenStrippingTag(true)
		textPolicy = policy
	})
	return textPolicy
}

func htmlSanitizer() *bluemonday.Policy {
	htmlPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowElements("form", "fieldset", "legend", "label", "input", "select", "option", "textarea", "button")
		policy.AllowAttrs("name", "value", "type", "placeholder", "required", "pattern",
			"minlength", "maxlength", "header").OnElements("input", "select", "textarea", "button")
		policy.AllowAttrs("method", "enctype", "target", "novalidate").OnElements("form")
		policy.AllowAttrs("is", "id", "name", "value").OnElements("fieldset")
		policy.AllowAttrs("formmethod", "formenctype", "formtarget", "formnovalidate").OnElements("button", "input")
		policy.AllowStandardURLs()
		policy.AllowAttrs("action").OnElements("form")
		policy.AllowAttrs("formaction").OnElements("button", "input")
		htmlPolicy = policy
	})
	return htmlPolicy
}
