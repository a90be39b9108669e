package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/labcold/catalog/internal/domain/ingestion"
	"github.com/labcold/catalog/internal/platform/ctxutil"
)

func newConflictContext(t *testing.T, method, path string, body []byte, id string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req = req.WithContext(ctxutil.WithRequestData(req.Context(), &ctxutil.RequestData{CallerID: "key:test", Role: "product_manager"}))
	c.Request = req
	if id != "" {
		c.Params = gin.Params{{Key: "id", Value: id}}
	}
	return c, rec
}

func TestResolveConflictRejectsUnknownResolution(t *testing.T) {
	log := newTestLogger(t)
	repo := &fakeSpecConflictRepo{}
	h := NewConflictHandler(repo, log)

	id := uuid.New()
	body, _ := json.Marshal(resolveConflictBody{Resolution: "not_a_resolution"})
	c, rec := newConflictContext(t, http.MethodPost, "/api/v1/conflicts/"+id.String()+"/resolve", body, id.String())

	h.Resolve(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestResolveConflictRequiresResolvedValueForManualOverride(t *testing.T) {
	log := newTestLogger(t)
	repo := &fakeSpecConflictRepo{}
	h := NewConflictHandler(repo, log)

	id := uuid.New()
	body, _ := json.Marshal(resolveConflictBody{Resolution: string(ingestion.ConflictResolutionManualOverride)})
	c, rec := newConflictContext(t, http.MethodPost, "/api/v1/conflicts/"+id.String()+"/resolve", body, id.String())

	h.Resolve(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestResolveConflictSucceedsAndStampsResolver(t *testing.T) {
	log := newTestLogger(t)
	repo := &fakeSpecConflictRepo{}
	h := NewConflictHandler(repo, log)

	id := uuid.New()
	body, _ := json.Marshal(resolveConflictBody{Resolution: string(ingestion.ConflictResolutionAcceptNew)})
	c, rec := newConflictContext(t, http.MethodPost, "/api/v1/conflicts/"+id.String()+"/resolve", body, id.String())

	h.Resolve(c)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	if repo.lastResolve.by != "key:test" {
		t.Fatalf("expected resolver stamped from request context, got %q", repo.lastResolve.by)
	}
	if repo.lastResolve.resolution != ingestion.ConflictResolutionAcceptNew {
		t.Fatalf("unexpected resolution recorded: %v", repo.lastResolve.resolution)
	}
}

func TestResolveConflictReturns409WhenAlreadyResolved(t *testing.T) {
	log := newTestLogger(t)
	repo := &fakeSpecConflictRepo{
		resolveFn: func(id uuid.UUID, resolution ingestion.ConflictResolution, resolvedValue []byte, resolvedBy string) (bool, error) {
			return false, nil
		},
	}
	h := NewConflictHandler(repo, log)

	id := uuid.New()
	body, _ := json.Marshal(resolveConflictBody{Resolution: string(ingestion.ConflictResolutionDismissed)})
	c, rec := newConflictContext(t, http.MethodPost, "/api/v1/conflicts/"+id.String()+"/resolve", body, id.String())

	h.Resolve(c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusConflict)
	}
}
