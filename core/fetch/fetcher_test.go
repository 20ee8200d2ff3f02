package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/sitehash/core"
)

func TestFetch(t *testing.T) {
	t.Parallel()

	t.Run("returns body and split content type", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "Text/HTML; charset=ISO-8859-1")
			_, _ = w.Write([]byte("<p>hi</p>"))
		}))
		defer srv.Close()

		got, err := New().Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, []byte("<p>hi</p>"), got.Bytes)
		assert.Equal(t, "text/html", got.ContentType)
		assert.Equal(t, "iso-8859-1", got.Charset)
		assert.Equal(t, http.StatusOK, got.StatusCode)
		assert.False(t, got.Redirected)
	})

	t.Run("missing content type is empty", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header()["Content-Type"] = nil
			_, _ = w.Write([]byte{0x00, 0x01})
		}))
		defer srv.Close()

		got, err := New().Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Empty(t, got.ContentType)
	})

	t.Run("non-2xx status is a FetchError", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := New().Fetch(context.Background(), srv.URL)
		var fetchErr *core.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	})

	t.Run("connection failure is a FetchError", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := New().Fetch(context.Background(), srv.URL)
		var fetchErr *core.FetchError
		require.ErrorAs(t, err, &fetchErr)
	})

	t.Run("permanent redirects are followed and flagged", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("moved here"))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		got, err := New().Fetch(context.Background(), srv.URL+"/old")
		require.NoError(t, err)
		assert.True(t, got.Redirected)
		assert.Equal(t, srv.URL+"/new", got.URL)
		assert.Equal(t, []byte("moved here"), got.Bytes)
	})

	t.Run("found redirect is not flagged as permanent", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusFound)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		got, err := New().Fetch(context.Background(), srv.URL+"/old")
		require.NoError(t, err)
		assert.False(t, got.Redirected)
	})

	t.Run("timeout option applies", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		_, err := New(WithTimeout(20 * time.Millisecond)).Fetch(context.Background(), srv.URL)
		var fetchErr *core.FetchError
		require.ErrorAs(t, err, &fetchErr)
	})
}

func TestSplitContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header      string
		contentType string
		charset     string
	}{
		{"", "", ""},
		{"text/html", "text/html", ""},
		{"text/html; charset=utf-8", "text/html", "utf-8"},
		{"Application/JSON; Charset=UTF-8", "application/json", "utf-8"},
		{"text/plain;charset=iso-8859-1;boundary=x", "text/plain", "iso-8859-1"},
		{"garbage/; ;", "garbage/", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.header, func(t *testing.T) {
			t.Parallel()

			contentType, charset := splitContentType(tt.header)
			assert.Equal(t, tt.contentType, contentType)
			assert.Equal(t, tt.charset, charset)
		})
	}
}
