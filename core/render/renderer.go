// Package render defines the browser-execution collaborator contract.
// Page content is frequently produced by client-side script, so HTML is
// handed to a rendering engine and the serialized post-execution DOM comes
// back. The engine itself is external; this package only speaks its
// request/response contract and manages rendering sessions as a bounded,
// always-released resource.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/gaurav-prasanna/sitehash/core"
)

// Renderer executes the scripts embedded in an HTML document and returns
// the fully rendered DOM serialized as HTML.
type Renderer interface {
	Render(ctx context.Context, html string) (string, error)
}

// Static is a renderer with no script engine: it returns the markup
// unchanged, so digests reflect the pre-execution DOM. It is the default
// when no render service is configured.
type Static struct{}

// NewStatic creates a Static renderer.
func NewStatic() *Static {
	return &Static{}
}

// Render returns the input unchanged.
func (s *Static) Render(_ context.Context, html string) (string, error) {
	return html, nil
}

// Remote renders through a headless-browser render service: it POSTs the
// HTML to the service endpoint and reads back the settled, serialized DOM.
type Remote struct {
	endpoint string
	client   *http.Client
}

// NewRemote creates a Remote renderer for the given service endpoint.
func NewRemote(endpoint string) *Remote {
	return &Remote{
		endpoint: endpoint,
		client:   &http.Client{},
	}
}

// Render submits the HTML for rendering. A deadline hit is returned as a
// *core.RenderTimeoutError, anything else as a *core.RenderFailure.
func (r *Remote) Render(ctx context.Context, html string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, strings.NewReader(html))
	if err != nil {
		return "", &core.RenderFailure{Err: fmt.Errorf("creating render request: %w", err)}
	}
	req.Header.Set("Content-Type", "text/html; charset=utf-8")

	resp, err := r.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", &core.RenderTimeoutError{Err: err}
		}
		return "", &core.RenderFailure{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &core.RenderFailure{Err: fmt.Errorf("render service returned status %d", resp.StatusCode)}
	}

	rendered, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return "", &core.RenderTimeoutError{Err: err}
		}
		return "", &core.RenderFailure{Err: fmt.Errorf("reading rendered DOM: %w", err)}
	}
	return string(rendered), nil
}

// Pool bounds concurrent rendering sessions and applies a per-render
// timeout. A session is acquired before rendering and released on every
// path, including failures.
type Pool struct {
	inner   Renderer
	sem     *semaphore.Weighted
	timeout time.Duration
}

// DefaultSessions is the default number of concurrent rendering sessions.
const DefaultSessions = 4

// DefaultTimeout is the default per-render timeout.
const DefaultTimeout = 30 * time.Second

// NewPool wraps a renderer with a session bound and per-render timeout.
func NewPool(inner Renderer, sessions int64, timeout time.Duration) *Pool {
	if sessions <= 0 {
		sessions = DefaultSessions
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Pool{
		inner:   inner,
		sem:     semaphore.NewWeighted(sessions),
		timeout: timeout,
	}
}

// Render acquires a session, renders with the pool's timeout, and releases
// the session before returning.
func (p *Pool) Render(ctx context.Context, html string) (string, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		if isTimeout(err) {
			return "", &core.RenderTimeoutError{Err: err}
		}
		return "", &core.RenderFailure{Err: fmt.Errorf("acquiring render session: %w", err)}
	}
	defer p.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	rendered, err := p.inner.Render(ctx, html)
	if err != nil {
		var timeoutErr *core.RenderTimeoutError
		if errors.As(err, &timeoutErr) {
			return "", err
		}
		if isTimeout(err) || ctx.Err() == context.DeadlineExceeded {
			return "", &core.RenderTimeoutError{Err: err}
		}
		return "", err
	}
	return rendered, nil
}

// isTimeout reports whether err stems from a deadline, either the context's
// or the transport's.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
