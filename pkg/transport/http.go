package transport

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/http/httpguts"

	"github.com/steveAllen0112/http-aware-forms/internal/ctxlog"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
	"github.com/steveAllen0112/http-aware-forms/pkg/submit"
)

const defaultMaxBodyBytes = 10 << 20

var (
	ErrInvalidHeaderName  = errors.New("transport: invalid header name")
	ErrInvalidHeaderValue = errors.New("transport: invalid header value")
)

// HTTP sends request descriptors over net/http.
type HTTP struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

var _ submit.Transport = (*HTTP)(nil)

// Option configures the HTTP transport.
type Option func(*HTTP)

// WithClient injects the http.Client used for the exchange.
func WithClient(client *http.Client) Option {
	return func(t *HTTP) {
		if client != nil {
			t.client = client
		}
	}
}

// WithUserAgent sets a User-Agent for requests that do not declare one.
func WithUserAgent(agent string) Option {
	return func(t *HTTP) {
		t.userAgent = strings.TrimSpace(agent)
	}
}

// WithMaxBodyBytes caps how much of a response body is read.
func WithMaxBodyBytes(limit int64) Option {
	return func(t *HTTP) {
		if limit > 0 {
			t.maxBodyBytes = limit
		}
	}
}

// New constructs an HTTP transport. Without WithClient it uses
// http.DefaultClient.
func New(opts ...Option) *HTTP {
	t := &HTTP{
		client:       http.DefaultClient,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Send performs the exchange. Any status code is a response; only failures
// to build, send or read the exchange are errors.
func (t *HTTP) Send(ctx context.Context, req model.Request) (submit.Response, error) {
	httpReq, err := NewRequest(ctx, req)
	if err != nil {
		return submit.Response{}, err
	}
	if t.userAgent != "" && httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", t.userAgent)
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("http exchange", "method", httpReq.Method, "url", httpReq.URL.String())

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return submit.Response{}, errors.Wrapf(err, "transport: %s %s", httpReq.Method, req.URL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBodyBytes))
	if err != nil {
		return submit.Response{}, errors.Wrap(err, "transport: read response body")
	}

	out := submit.Response{
		StatusCode: resp.StatusCode,
		URL:        req.URL,
		Header:     resp.Header.Clone(),
		Body:       body,
	}
	if resp.Request != nil && resp.Request.URL != nil {
		out.URL = resp.Request.URL.String()
		// Request.Response is only set on requests created by following a redirect.
		out.Redirected = resp.Request.Response != nil
	}
	logger.Debug("http exchange complete", "status", resp.StatusCode, "redirected", out.Redirected, "bytes", len(body))
	return out, nil
}

// NewRequest converts a descriptor into an *http.Request, encoding the body
// and validating every header.
func NewRequest(ctx context.Context, req model.Request) (*http.Request, error) {
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = model.MethodGet
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, reader)
	if err != nil {
		return nil, errors.Wrap(err, "transport: new request")
	}

	for _, header := range req.Headers {
		if !httpguts.ValidHeaderFieldName(header.Name) {
			return nil, errors.Wrapf(ErrInvalidHeaderName, "%q", header.Name)
		}
		if !httpguts.ValidHeaderFieldValue(header.Value) {
			return nil, errors.Wrapf(ErrInvalidHeaderValue, "%s: %q", header.Name, header.Value)
		}
		if strings.EqualFold(header.Name, "Host") {
			httpReq.Host = header.Value
			continue
		}
		httpReq.Header.Set(header.Name, header.Value)
	}

	switch {
	case req.Body.Kind == model.BodyMultipart:
		httpReq.Header.Set("Content-Type", contentType)
	case contentType != "" && httpReq.Header.Get("Content-Type") == "":
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

func encodeBody(body model.Body) ([]byte, string, error) {
	switch body.Kind {
	case model.BodyURLEncoded:
		return []byte(body.Encoded), model.EnctypeURLEncoded, nil
	case model.BodyText:
		return []byte(body.Encoded), "text/plain;charset=UTF-8", nil
	case model.BodyMultipart:
		return encodeMultipart(body.Entries)
	default:
		return nil, "", nil
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeMultipart(entries model.Snapshot) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, entry := range entries {
		if !entry.IsFile() {
			if err := writer.WriteField(entry.Name, entry.Value); err != nil {
				return nil, "", errors.Wrapf(err, "transport: multipart field %q", entry.Name)
			}
			continue
		}
		contentType := entry.File.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			`form-data; name="`+quoteEscaper.Replace(entry.Name)+`"; filename="`+quoteEscaper.Replace(entry.File.Name)+`"`)
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", errors.Wrapf(err, "transport: multipart file %q", entry.Name)
		}
		if _, err := part.Write(entry.File.Data); err != nil {
			return nil, "", errors.Wrapf(err, "transport: multipart file %q", entry.Name)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", errors.Wrap(err, "transport: close multipart body")
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}
