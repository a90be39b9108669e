// Package pdftext wraps the external byte->text provider the Text
// Extractor (internal/extractor) calls for PDF input (spec.md §4.1).
package pdftext

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

// Page is one extracted page of a PDF.
type Page struct {
	PageNo int    `json:"page_no"`
	Text   string `json:"text"`
}

// Result is the provider's response for one document.
type Result struct {
	Pages []Page `json:"pages"`
}

// Client is the external PDF byte->text provider.
type Client interface {
	Extract(ctx context.Context, data []byte) (Result, error)
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string        { return fmt.Sprintf("pdftext http %d: %s", e.StatusCode, e.Body) }
func (e *httpError) HTTPStatusCode() int   { return e.StatusCode }

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

// New builds a Client from PDFTEXT_BASE_URL / PDFTEXT_API_KEY /
// PDFTEXT_TIMEOUT_SECONDS / PDFTEXT_MAX_RETRIES env vars, following the
// teacher's openai.NewClient env-driven construction.
func New(log *logger.Logger) (Client, error) {
	baseURL := strings.TrimSpace(os.Getenv("PDFTEXT_BASE_URL"))
	if baseURL == "" {
		return nil, fmt.Errorf("missing PDFTEXT_BASE_URL")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	apiKey := strings.TrimSpace(os.Getenv("PDFTEXT_API_KEY"))

	timeoutSec := 30
	if v := os.Getenv("PDFTEXT_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 3
	if v := os.Getenv("PDFTEXT_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	return &client{
		log:        log.With("service", "PDFTextClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

func (c *client) Extract(ctx context.Context, data []byte) (Result, error) {
	var out Result
	if len(data) == 0 {
		return out, fmt.Errorf("pdftext: empty input")
	}

	backoff := 500 * time.Millisecond
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, data)
		if err == nil {
			if uErr := json.Unmarshal(raw, &out); uErr != nil {
				return out, fmt.Errorf("pdftext: decode response: %w", uErr)
			}
			return out, nil
		}
		lastErr = err

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return out, err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 30*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)
		c.log.Warn("pdftext request retrying", "attempt", attempt+1, "max_retries", c.maxRetries, "sleep", sleepFor.String(), "error", err.Error())
		time.Sleep(sleepFor)
		backoff *= 2
	}
	return out, lastErr
}

func (c *client) doOnce(ctx context.Context, data []byte) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/extract", bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/pdf")
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
