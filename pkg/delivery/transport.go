package delivery

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"github.com/matzehuels/sigpad/pkg/errors"
	"github.com/matzehuels/sigpad/pkg/observability"
)

// Transport performs a single send of a payload. Implementations return an
// error wrapped with errors.Retryable for failures worth another attempt.
type Transport interface {
	Send(ctx context.Context, p *Payload) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, p *Payload) error

// Send calls f.
func (f TransportFunc) Send(ctx context.Context, p *Payload) error { return f(ctx, p) }

// HTTPTransport posts payloads as multipart/form-data.
type HTTPTransport struct {
	endpoint  string
	client    *http.Client
	userAgent string
}

// HTTPOption configures an HTTPTransport.
type HTTPOption func(*HTTPTransport)

// WithHTTPClient sets the client. The per-send timeout comes from the
// request context, so the client needs no Timeout of its own.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(t *HTTPTransport) { t.client = c }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(t *HTTPTransport) { t.userAgent = ua }
}

// NewHTTPTransport creates a transport for an absolute http(s) endpoint.
func NewHTTPTransport(endpoint string, opts ...HTTPOption) (*HTTPTransport, error) {
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "endpoint must be an absolute http(s) URL: %q", endpoint)
	}
	t := &HTTPTransport{
		endpoint: endpoint,
		client:   &http.Client{},
	}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

// Endpoint returns the target URL.
func (t *HTTPTransport) Endpoint() string {
	return t.endpoint
}

// Send posts p once. Responses with status 2xx succeed. Network errors,
// timeouts, 408, 429 and 5xx are retryable; other statuses are not.
func (t *HTTPTransport) Send(ctx context.Context, p *Payload) error {
	body, contentType, err := encodeMultipart(p)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode multipart payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "build request")
	}
	req.Header.Set("Content-Type", contentType)
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := t.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if stderrors.Is(err, context.DeadlineExceeded) {
			return errors.Retryable(errors.Wrap(errors.ErrCodeTimeout, err, "request timed out"))
		}
		return errors.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "request failed"))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	return statusError(resp.StatusCode)
}

func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusRequestTimeout:
		return errors.Retryable(errors.New(errors.ErrCodeTimeout, "server timed out (status %d)", code))
	case code == http.StatusTooManyRequests || code >= 500:
		return errors.Retryable(errors.New(errors.ErrCodeNetwork, "server error (status %d)", code))
	default:
		return errors.New(errors.ErrCodeNetwork, "submission rejected (status %d)", code)
	}
}

// encodeMultipart writes scalar fields, repeated multi-value fields, then
// file parts. Fields are emitted in sorted key order.
func encodeMultipart(p *Payload) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, k := range p.Fields.Keys() {
		for _, v := range p.Fields[k] {
			if err := w.WriteField(k, v); err != nil {
				return nil, "", fmt.Errorf("write field %q: %w", k, err)
			}
		}
	}
	for _, f := range p.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
		h.Set("Content-Type", f.MimeType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %q: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("write part %q: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var _ Transport = (*HTTPTransport)(nil)
