package generator

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
		model:      "test-model",
		httpClient: &http.Client{Timeout: 5 * time.Second},
		maxRetries: 1,
	}
}

func TestGenerateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"the answer is 26 cu ft"}`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	text, err := c.Generate(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, "the answer is 26 cu ft", text)
}

func TestGenerateEmptyTextIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":""}`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.Generate(context.Background(), "s", "u")
	assert.Error(t, err)
}

func TestGeneratePermanentFailureNotRetried(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.Generate(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
