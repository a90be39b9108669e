package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/labcold/catalog/internal/data/repos/catalogrepo"
	"github.com/labcold/catalog/internal/data/repos/ingestionrepo"
	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/http/response"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

// StatsHandler serves GET /api/v1/stats (spec.md §6): a coarse
// snapshot of catalog size and the conflict backlog, cheap enough to
// call on every dashboard refresh.
type StatsHandler struct {
	products  catalogrepo.ProductRepo
	brands    catalogrepo.BrandRepo
	families  catalogrepo.FamilyRepo
	conflicts ingestionrepo.SpecConflictRepo
	log       *logger.Logger
}

func NewStatsHandler(
	products catalogrepo.ProductRepo,
	brands catalogrepo.BrandRepo,
	families catalogrepo.FamilyRepo,
	conflicts ingestionrepo.SpecConflictRepo,
	baseLog *logger.Logger,
) *StatsHandler {
	return &StatsHandler{products: products, brands: brands, families: families, conflicts: conflicts, log: baseLog.With("handler", "StatsHandler")}
}

var statusesToCount = []catalog.ProductStatus{
	catalog.ProductStatusDraft,
	catalog.ProductStatusPendingReview,
	catalog.ProductStatusActive,
	catalog.ProductStatusDiscontinued,
	catalog.ProductStatusDeprecated,
}

func (h *StatsHandler) Stats(c *gin.Context) {
	dbc := dbctx.Context{Ctx: c.Request.Context()}

	byStatus := map[string]int64{}
	for _, status := range statusesToCount {
		_, total, err := h.products.Filter(dbc, catalogrepo.ProductFilter{Status: status, Limit: 1})
		if err != nil {
			response.RespondAPIErr(c, err)
			return
		}
		byStatus[string(status)] = total
	}

	brands, err := h.brands.List(dbc)
	if err != nil {
		response.RespondAPIErr(c, err)
		return
	}
	families, err := h.families.List(dbc)
	if err != nil {
		response.RespondAPIErr(c, err)
		return
	}
	pending, err := h.conflicts.ListPending(dbc, nil)
	if err != nil {
		response.RespondAPIErr(c, err)
		return
	}

	var totalProducts int64
	for _, n := range byStatus {
		totalProducts += n
	}

	response.RespondOK(c, gin.H{
		"total_products":      totalProducts,
		"products_by_status":  byStatus,
		"total_brands":        len(brands),
		"total_families":      len(families),
		"pending_conflicts":   len(pending),
	})
}
