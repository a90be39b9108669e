package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/labcold/catalog/internal/data/repos/catalogrepo"
	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/domain/ingestion"
)

func TestStatsAggregatesCountsAcrossStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := newTestLogger(t)

	counts := map[catalog.ProductStatus]int64{
		catalog.ProductStatusDraft:         2,
		catalog.ProductStatusPendingReview: 1,
		catalog.ProductStatusActive:        10,
		catalog.ProductStatusDiscontinued:  0,
		catalog.ProductStatusDeprecated:    0,
	}
	products := &fakeProductRepo{
		filterFn: func(f catalogrepo.ProductFilter) ([]*catalog.Product, int64, error) {
			return nil, counts[f.Status], nil
		},
	}
	brands := &fakeBrandRepo{items: []*catalog.Brand{{}, {}}}
	families := &fakeFamilyRepo{items: []*catalog.Family{{}}}
	conflicts := &fakeSpecConflictRepo{pending: []*ingestion.SpecConflict{{}, {}, {}}}

	h := NewStatsHandler(products, brands, families, conflicts, log)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req

	h.Stats(c)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		TotalProducts    int64            `json:"total_products"`
		ProductsByStatus map[string]int64 `json:"products_by_status"`
		TotalBrands      int              `json:"total_brands"`
		TotalFamilies    int              `json:"total_families"`
		PendingConflicts int              `json:"pending_conflicts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.TotalProducts != 13 {
		t.Fatalf("unexpected total_products: got=%d want=13", out.TotalProducts)
	}
	if out.TotalBrands != 2 || out.TotalFamilies != 1 || out.PendingConflicts != 3 {
		t.Fatalf("unexpected aggregate counts: %+v", out)
	}
	if out.ProductsByStatus[string(catalog.ProductStatusActive)] != 10 {
		t.Fatalf("unexpected active count: %+v", out.ProductsByStatus)
	}
}
