// Package embedder wraps the external text->vector provider used by
// internal/chunker (spec.md §4.9).
package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labcold/catalog/internal/pkg/httpx"
	"github.com/labcold/catalog/internal/platform/logger"
)

// Client embeds a batch of texts into fixed-dimension vectors.
type Client interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string      { return fmt.Sprintf("embedder http %d: %s", e.StatusCode, e.Body) }
func (e *httpError) HTTPStatusCode() int { return e.StatusCode }

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	dim        int
	httpClient *http.Client
	maxRetries int
}

// New builds a Client from EMBEDDER_BASE_URL / EMBEDDER_API_KEY /
// EMBEDDER_MODEL / EMBEDDER_DIM / EMBEDDER_TIMEOUT_SECONDS /
// EMBEDDER_MAX_RETRIES env vars.
func New(log *logger.Logger) (Client, error) {
	baseURL := strings.TrimSpace(os.Getenv("EMBEDDER_BASE_URL"))
	if baseURL == "" {
		return nil, fmt.Errorf("missing EMBEDDER_BASE_URL")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	apiKey := strings.TrimSpace(os.Getenv("EMBEDDER_API_KEY"))

	model := strings.TrimSpace(os.Getenv("EMBEDDER_MODEL"))
	if model == "" {
		model = "text-embedding-3-small"
	}

	dim := 1536
	if v := os.Getenv("EMBEDDER_DIM"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			dim = parsed
		}
	}

	timeoutSec := 20
	if v := os.Getenv("EMBEDDER_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 5
	if v := os.Getenv("EMBEDDER_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	return &client{
		log:        log.With("service", "EmbedderClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		dim:        dim,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

func (c *client) Dimension() int { return c.dim }

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed returns one vector per input text, in input order. A permanent
// provider failure (non-retryable, or retries exhausted) is returned as
// an error; the caller (internal/chunker) is responsible for degrading
// to embedding=null per spec.md §4.9 rather than failing the whole job.
func (c *client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	req := embedRequest{Model: c.model, Input: texts}
	backoff := 500 * time.Millisecond
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, req)
		if err == nil {
			var out embedResponse
			if uErr := json.Unmarshal(raw, &out); uErr != nil {
				return nil, fmt.Errorf("embedder: decode response: %w", uErr)
			}
			vecs := make([][]float32, len(texts))
			for _, d := range out.Data {
				if d.Index >= 0 && d.Index < len(vecs) {
					vecs[d.Index] = d.Embedding
				}
			}
			for i, v := range vecs {
				if v == nil {
					return nil, fmt.Errorf("embedder: response missing vector for index %d", i)
				}
			}
			return vecs, nil
		}
		lastErr = err

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return nil, err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 30*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)
		c.log.Warn("embedder request retrying", "attempt", attempt+1, "max_retries", c.maxRetries, "sleep", sleepFor.String(), "error", err.Error())
		time.Sleep(sleepFor)
		backoff *= 2
	}
	return nil, lastErr
}

func (c *client) doOnce(ctx context.Context, body embedRequest) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/embeddings", &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}
