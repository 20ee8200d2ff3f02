package render

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/sitehash/core"
)

func TestStatic(t *testing.T) {
	t.Parallel()

	out, err := NewStatic().Render(context.Background(), "<p>hi</p>")
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", out)
}

func TestRemote(t *testing.T) {
	t.Parallel()

	t.Run("posts markup and returns the rendered DOM", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, "<p>src</p>", string(body))
			_, _ = w.Write([]byte("<p>rendered</p>"))
		}))
		defer srv.Close()

		out, err := NewRemote(srv.URL).Render(context.Background(), "<p>src</p>")
		require.NoError(t, err)
		assert.Equal(t, "<p>rendered</p>", out)
	})

	t.Run("non-200 is a RenderFailure", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "engine busy", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := NewRemote(srv.URL).Render(context.Background(), "<p></p>")
		var failure *core.RenderFailure
		require.ErrorAs(t, err, &failure)
	})

	t.Run("deadline hit is a RenderTimeoutError", func(t *testing.T) {
		t.Parallel()

		started := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(started)
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := NewRemote(srv.URL).Render(ctx, "<p></p>")
		<-started
		var timeout *core.RenderTimeoutError
		require.ErrorAs(t, err, &timeout)
	})

	t.Run("unreachable endpoint is a RenderFailure", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := NewRemote(srv.URL).Render(context.Background(), "<p></p>")
		var failure *core.RenderFailure
		require.ErrorAs(t, err, &failure)
	})
}

// gatedRenderer blocks until released, recording its concurrency high-water
// mark.
type gatedRenderer struct {
	mu      sync.Mutex
	active  int32
	peak    int32
	release chan struct{}
}

func (r *gatedRenderer) Render(ctx context.Context, html string) (string, error) {
	n := atomic.AddInt32(&r.active, 1)
	defer atomic.AddInt32(&r.active, -1)

	r.mu.Lock()
	if n > r.peak {
		r.peak = n
	}
	r.mu.Unlock()

	select {
	case <-r.release:
		return html, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestPool(t *testing.T) {
	t.Parallel()

	t.Run("bounds concurrent sessions", func(t *testing.T) {
		t.Parallel()

		inner := &gatedRenderer{release: make(chan struct{})}
		pool := NewPool(inner, 2, time.Second)

		var wg sync.WaitGroup
		for i := 0; i < 6; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = pool.Render(context.Background(), "<p></p>")
			}()
		}

		// Let the goroutines contend, then release them all.
		time.Sleep(50 * time.Millisecond)
		close(inner.release)
		wg.Wait()

		inner.mu.Lock()
		peak := inner.peak
		inner.mu.Unlock()
		assert.LessOrEqual(t, peak, int32(2))
	})

	t.Run("timeout surfaces as RenderTimeoutError", func(t *testing.T) {
		t.Parallel()

		inner := &gatedRenderer{release: make(chan struct{})}
		pool := NewPool(inner, 1, 30*time.Millisecond)

		_, err := pool.Render(context.Background(), "<p></p>")
		var timeout *core.RenderTimeoutError
		require.ErrorAs(t, err, &timeout)
	})

	t.Run("sessions are released after failures", func(t *testing.T) {
		t.Parallel()

		inner := &gatedRenderer{release: make(chan struct{})}
		pool := NewPool(inner, 1, 20*time.Millisecond)

		// Exhaust and time out the single session twice; a leaked session
		// would make the second call hang on Acquire instead of timing out.
		for i := 0; i < 2; i++ {
			_, err := pool.Render(context.Background(), "<p></p>")
			require.Error(t, err)
		}
	})

	t.Run("passes through success", func(t *testing.T) {
		t.Parallel()

		pool := NewPool(NewStatic(), 1, time.Second)
		out, err := pool.Render(context.Background(), "<p>ok</p>")
		require.NoError(t, err)
		assert.Equal(t, "<p>ok</p>", out)
	})
}
