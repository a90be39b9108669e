package pdftext

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labcold/catalog/internal/platform/logger"
)

func testClient(t *testing.T, srv *httptest.Server) *client {
	t.Helper()
	l, err := logger.New("test")
	require.NoError(t, err)
	return &client{
		log:        l,
		baseURL:    srv.URL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		maxRetries: 2,
	}
}

func TestExtractSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pages":[{"page_no":1,"text":"hello"}]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	res, err := c.Extract(context.Background(), []byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.Len(t, res.Pages, 1)
	assert.Equal(t, "hello", res.Pages[0].Text)
}

func TestExtractEmptyInputRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not be called")
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.Extract(context.Background(), nil)
	assert.Error(t, err)
}

func TestExtractRetriesOn503ThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pages":[{"page_no":1,"text":"ok"}]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	res, err := c.Extract(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "ok", res.Pages[0].Text)
}

func TestExtractPermanentFailureNotRetried(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.Extract(context.Background(), []byte("%PDF-1.4"))
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
