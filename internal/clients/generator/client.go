// Package generator wraps the external text->text provider the Ask
// endpoint calls with an assembled retrieval context pack (spec.md §6,
// internal/retrieval).
package generator

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

// Client generates an answer from a system prompt plus a user prompt
// (the question plus the assembled context pack).
type Client interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string      { return fmt.Sprintf("generator http %d: %s", e.StatusCode, e.Body) }
func (e *httpError) HTTPStatusCode() int { return e.StatusCode }

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
}

// New builds a Client from GENERATOR_BASE_URL / GENERATOR_API_KEY /
// GENERATOR_MODEL / GENERATOR_TIMEOUT_SECONDS / GENERATOR_MAX_RETRIES.
func New(log *logger.Logger) (Client, error) {
	baseURL := strings.TrimSpace(os.Getenv("GENERATOR_BASE_URL"))
	if baseURL == "" {
		return nil, fmt.Errorf("missing GENERATOR_BASE_URL")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	apiKey := strings.TrimSpace(os.Getenv("GENERATOR_API_KEY"))

	model := strings.TrimSpace(os.Getenv("GENERATOR_MODEL"))
	if model == "" {
		model = "gpt-5.2"
	}

	timeoutSec := 60
	if v := os.Getenv("GENERATOR_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 2
	if v := os.Getenv("GENERATOR_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	return &client{
		log:        log.With("service", "GeneratorClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

type generateRequest struct {
	Model  string `json:"model"`
	System string `json:"system"`
	User   string `json:"user"`
}

type generateResponse struct {
	Text string `json:"text"`
}

func (c *client) Generate(ctx context.Context, system, user string) (string, error) {
	req := generateRequest{Model: c.model, System: system, User: user}
	backoff := 500 * time.Millisecond
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, req)
		if err == nil {
			var out generateResponse
			if uErr := json.Unmarshal(raw, &out); uErr != nil {
				return "", fmt.Errorf("generator: decode response: %w", uErr)
			}
			if strings.TrimSpace(out.Text) == "" {
				return "", fmt.Errorf("generator: empty response text")
			}
			return out.Text, nil
		}
		lastErr = err

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return "", err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 30*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)
		c.log.Warn("generator request retrying", "attempt", attempt+1, "max_retries", c.maxRetries, "sleep", sleepFor.String(), "error", err.Error())
		time.Sleep(sleepFor)
		backoff *= 2
	}
	return "", lastErr
}

func (c *client) doOnce(ctx context.Context, body generateRequest) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", &buf)
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
