package httpclient

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "::not a url"})
	assert.Error(t, err)
}

func TestNew_RetriesOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.Header.Get("X-Test"))
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, err := New(Options{
		BaseURL:   srv.URL + "/",
		Retries:   2,
		RetryWait: time.Millisecond,
		Headers:   map[string]string{"X-Test": "k"},
	})
	require.NoError(t, err)

	resp, err := c.R().Get("/ping")
	require.NoError(t, err)
	require.NoError(t, CheckResponse(resp))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestNew_NoRetryOnClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`bad input`))
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, Retries: 3, RetryWait: time.Millisecond})
	require.NoError(t, err)

	resp, err := c.R().Get("/x")
	require.NoError(t, err)

	err = CheckResponse(resp)
	var he *HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusBadRequest, he.StatusCode)
	assert.Equal(t, "bad input", he.Body)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
