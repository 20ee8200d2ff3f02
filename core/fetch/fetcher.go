// Package fetch implements the Fetcher interface.
// It performs a single HTTP GET and surfaces the raw response bytes plus the
// declared content type; it never retries and never interprets the body.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gaurav-prasanna/sitehash/core"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "sitehash/1.0 (https://github.com/gaurav-prasanna/sitehash)"

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 32 << 20
)

// redirectStatusCodes are the statuses that mark a fetch as redirected.
var redirectStatusCodes = map[int]bool{
	http.StatusMovedPermanently:  true,
	http.StatusTemporaryRedirect: true,
	http.StatusPermanentRedirect: true,
}

// HTTPFetcher fetches resources via HTTP. It is safe for concurrent use;
// each Fetch tracks its own redirect state.
type HTTPFetcher struct {
	transport http.RoundTripper
	timeout   time.Duration
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithTransport overrides the HTTP transport, mainly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *HTTPFetcher) { f.transport = rt }
}

// New creates an HTTPFetcher with a sensible timeout.
func New(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		transport: http.DefaultTransport,
		timeout:   defaultTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the content of the given URL. A transport failure or a
// non-2xx status is returned as a *core.FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &core.FetchError{URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	// The client is per-call so redirect tracking needs no locking.
	redirected := false
	client := &http.Client{
		Transport: f.transport,
		Timeout:   f.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if req.Response != nil && redirectStatusCodes[req.Response.StatusCode] {
				redirected = true
			}
			return nil
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &core.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &core.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &core.FetchError{URL: url, Err: fmt.Errorf("reading response body: %w", err)}
	}

	contentType, charset := splitContentType(resp.Header.Get("Content-Type"))

	return &core.FetchResult{
		RawContent: core.RawContent{
			Bytes:       body,
			ContentType: contentType,
			Charset:     charset,
		},
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Redirected: redirected,
	}, nil
}

// splitContentType separates a Content-Type header value into its lowercased
// media type and charset parameter. A header the stdlib cannot parse is
// degraded to its pre-";" prefix rather than discarded.
func splitContentType(header string) (contentType, charset string) {
	if header == "" {
		return "", ""
	}
	mediaType, params, err := mime.ParseMediaType(header)
	if err != nil {
		mediaType = header
		if i := strings.Index(mediaType, ";"); i >= 0 {
			mediaType = mediaType[:i]
		}
		return strings.ToLower(strings.TrimSpace(mediaType)), ""
	}
	return strings.ToLower(mediaType), strings.ToLower(params["charset"])
}
