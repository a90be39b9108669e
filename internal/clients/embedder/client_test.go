package embedder

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
		dim:        3,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		maxRetries: 2,
	}
}

func TestEmbedReturnsVectorsInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3],"index":1},{"embedding":[0.4,0.5,0.6],"index":0}]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	vecs, err := c.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{0.4, 0.5, 0.6}, vecs[0])
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vecs[1])
}

func TestEmbedEmptyInputReturnsEmpty(t *testing.T) {
	c := testClient(t, httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not be called")
	})))
	vecs, err := c.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vecs)
}

func TestEmbedMissingIndexIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3],"index":0}]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.Embed(context.Background(), []string{"a", "b"})
	assert.Error(t, err)
}

func TestEmbedPermanentFailureReturnsError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.Embed(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
