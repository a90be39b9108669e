package services

import (
	"context"
	"testing"
	"time"

	"github.com/labcold/catalog/internal/platform/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func TestParseAPIKeys(t *testing.T) {
	log := newTestLogger(t)
	entries := ParseAPIKeys("abc123:product_manager:polarfreeze, def456:customer, :admin, ghi789:not_a_role", log)

	if len(entries) != 2 {
		t.Fatalf("expected 2 valid entries, got %d: %+v", len(entries), entries)
	}
	if e, ok := entries["abc123"]; !ok || e.Role != "product_manager" || e.BrandScope != "polarfreeze" {
		t.Fatalf("unexpected entry for abc123: %+v", e)
	}
	if e, ok := entries["def456"]; !ok || e.Role != "customer" || e.BrandScope != "" {
		t.Fatalf("unexpected entry for def456: %+v", e)
	}
	if _, ok := entries["ghi789"]; ok {
		t.Fatalf("expected entry naming unknown role to be dropped")
	}
}

func TestResolveAPIKey(t *testing.T) {
	log := newTestLogger(t)
	keys := ParseAPIKeys("abc123:product_manager:polarfreeze", log)
	auth := NewAuthService(log, keys, "secret")

	rd, err := auth.ResolveAPIKey(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rd.Role != "product_manager" || rd.BrandScope != "polarfreeze" {
		t.Fatalf("unexpected request data: %+v", rd)
	}
	if rd.CallerID == "abc123" {
		t.Fatalf("raw API key must not surface as CallerID: %+v", rd)
	}

	if _, err := auth.ResolveAPIKey(context.Background(), "unknown-key"); err == nil {
		t.Fatal("expected error for unrecognized API key")
	}
	if _, err := auth.ResolveAPIKey(context.Background(), ""); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestIssueAndResolveBearerToken(t *testing.T) {
	log := newTestLogger(t)
	auth := NewAuthService(log, map[string]apiKeyEntry{}, "secret")

	token, err := auth.IssueServiceToken("caller-1", "sales_engineer", "polarfreeze", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rd, err := auth.ResolveBearerToken(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve token: %v", err)
	}
	if rd.CallerID != "caller-1" || rd.Role != "sales_engineer" || rd.BrandScope != "polarfreeze" {
		t.Fatalf("unexpected request data: %+v", rd)
	}

	if _, err := auth.IssueServiceToken("caller-2", "not_a_role", "", time.Hour); err == nil {
		t.Fatal("expected error issuing token for unknown role")
	}
	if _, err := auth.ResolveBearerToken(context.Background(), "garbage"); err == nil {
		t.Fatal("expected error resolving malformed token")
	}
}
