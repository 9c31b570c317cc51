package model

import "strings"

// Header is one emitted request header.
type Header struct {
	Name  string
	Value string
}

// BodyKind identifies how a request body was encoded.
type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyURLEncoded
	BodyMultipart
	BodyText
)

func (k BodyKind) String() string {
	switch k {
	case BodyURLEncoded:
		return "urlencoded"
	case BodyMultipart:
		return "multipart"
	case BodyText:
		return "text"
	default:
		return "none"
	}
}

// Body is the routed request payload. Encoded holds the serialised form for
// urlencoded and text bodies; Entries holds the raw field set for pass-through
// (multipart) bodies. Enctype records the effective encoding type.
type Body struct {
	Kind    BodyKind
	Enctype string
	Encoded string
	Entries Snapshot
}

// Request is the fully resolved request descriptor produced by the builder and
// consumed by the transport. Target names the browsing context the response
// navigates.
type Request struct {
	Method  string
	URL     string
	Headers []Header
	Body    Body
	Target  string
}

// Clone returns a copy that shares no slices with r.
func (r Request) Clone() Request {
	r.Headers = append([]Header(nil), r.Headers...)
	r.Body.Entries = r.Body.Entries.Clone()
	return r
}

// Header looks up an emitted header case-insensitively.
func (r Request) Header(name string) (string, bool) {
	for _, header := range r.Headers {
		if strings.EqualFold(header.Name, name) {
			return header.Value, true
		}
	}
	return "", false
}
