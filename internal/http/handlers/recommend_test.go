package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRecommendRequiresUseCaseOrUseCaseText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := newTestLogger(t)
	h := NewRecommendHandler(nil, log)

	rec := httptest.NewRecorder()
	gctx, _ := gin.CreateTestContext(rec)
	gctx.Request = httptest.NewRequest(http.MethodPost, "/api/v1/recommend", strings.NewReader(`{"max_results": 5}`))
	gctx.Request.Header.Set("Content-Type", "application/json")

	h.Recommend(gctx)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when neither use_case nor use_case_text is set, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "use_case") {
		t.Fatalf("expected errMissingUseCase message in body, got %s", rec.Body.String())
	}
}

func TestRecommendRejectsMalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := newTestLogger(t)
	h := NewRecommendHandler(nil, log)

	rec := httptest.NewRecorder()
	gctx, _ := gin.CreateTestContext(rec)
	gctx.Request = httptest.NewRequest(http.MethodPost, "/api/v1/recommend", strings.NewReader(`{not valid json`))
	gctx.Request.Header.Set("Content-Type", "application/json")

	h.Recommend(gctx)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d: %s", rec.Code, rec.Body.String())
	}
}
