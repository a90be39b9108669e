package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/labcold/catalog/internal/domain/catalog"
)

func TestEquivalentsWalksSymmetricEdgesAndStopsAtCycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := newTestLogger(t)

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	// a <-> b <-> c <-> a forms a cycle; BFS from a must visit b and c
	// exactly once each despite the cycle back to a.
	edges := map[uuid.UUID][]*catalog.ProductRelationship{
		a: {
			{SourceID: a, TargetID: b, Kind: catalog.RelationshipEquivalentTo},
			{SourceID: c, TargetID: a, Kind: catalog.RelationshipEquivalentTo},
		},
		b: {
			{SourceID: a, TargetID: b, Kind: catalog.RelationshipEquivalentTo},
			{SourceID: b, TargetID: c, Kind: catalog.RelationshipEquivalentTo},
		},
		c: {
			{SourceID: b, TargetID: c, Kind: catalog.RelationshipEquivalentTo},
			{SourceID: c, TargetID: a, Kind: catalog.RelationshipEquivalentTo},
		},
	}
	relationships := &fakeRelationshipRepo{edges: edges}
	products := &fakeProductRepo{byID: map[uuid.UUID]*catalog.Product{
		a: {ID: a}, b: {ID: b}, c: {ID: c},
	}}
	h := NewProductHandler(products, relationships, log)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+a.String()+"/equivalents", nil)
	rec := httptest.NewRecorder()
	gctx, _ := gin.CreateTestContext(rec)
	gctx.Request = req
	gctx.Params = gin.Params{{Key: "id", Value: a.String()}}

	h.Equivalents(gctx)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		Equivalents []*catalog.Product `json:"equivalents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out.Equivalents) != 2 {
		t.Fatalf("expected exactly b and c, got %d: %+v", len(out.Equivalents), out.Equivalents)
	}
	seen := map[uuid.UUID]bool{}
	for _, p := range out.Equivalents {
		if seen[p.ID] {
			t.Fatalf("product %s visited more than once", p.ID)
		}
		seen[p.ID] = true
	}
	if !seen[b] || !seen[c] {
		t.Fatalf("expected both b and c in equivalents, got %+v", out.Equivalents)
	}
}

func TestGetReturns404ForUnknownProduct(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := newTestLogger(t)
	h := NewProductHandler(&fakeProductRepo{byID: map[uuid.UUID]*catalog.Product{}}, &fakeRelationshipRepo{}, log)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id.String(), nil)
	rec := httptest.NewRecorder()
	gctx, _ := gin.CreateTestContext(rec)
	gctx.Request = req
	gctx.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Get(gctx)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusNotFound)
	}
}
