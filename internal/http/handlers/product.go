package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/labcold/catalog/internal/data/repos/catalogrepo"
	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/http/response"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

// maxEquivalentsDepth bounds the equivalent_to traversal (spec.md §4
// "all equivalents of X" default depth 3, cycles detected explicitly).
const maxEquivalentsDepth = 3

// ProductHandler serves spec.md §6's GET /api/v1/products (list/filter),
// GET /api/v1/products/:id (fetch), and GET
// /api/v1/products/:id/equivalents.
type ProductHandler struct {
	products      catalogrepo.ProductRepo
	relationships catalogrepo.ProductRelationshipRepo
	log           *logger.Logger
}

func NewProductHandler(products catalogrepo.ProductRepo, relationships catalogrepo.ProductRelationshipRepo, baseLog *logger.Logger) *ProductHandler {
	return &ProductHandler{products: products, relationships: relationships, log: baseLog.With("handler", "ProductHandler")}
}

func (h *ProductHandler) List(c *gin.Context) {
	q := c.Request.URL.Query()
	filter := catalogrepo.ProductFilter{
		BrandCode:  q.Get("brand_code"),
		FamilyCode: q.Get("family_code"),
		DoorType:   q.Get("door_type"),
		FreeText:   q.Get("q"),
		Status:     catalog.ProductStatus(q.Get("status")),
	}
	if v := q.Get("capacity_min"); v != "" {
		filter.CapacityMin = parseFloatPtr(v)
	}
	if v := q.Get("capacity_max"); v != "" {
		filter.CapacityMax = parseFloatPtr(v)
	}
	if v := q.Get("temp_min"); v != "" {
		filter.TempRangeOverlapMin = parseFloatPtr(v)
	}
	if v := q.Get("temp_max"); v != "" {
		filter.TempRangeOverlapMax = parseFloatPtr(v)
	}
	if certs := q["certification"]; len(certs) > 0 {
		filter.CertificationsAll = certs
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	products, total, err := h.products.Filter(dbc, filter)
	if err != nil {
		response.RespondAPIErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"products": products, "total": total})
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	p, err := h.products.GetByID(dbc, id)
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	response.RespondOK(c, p)
}

// Equivalents walks the equivalent_to edge set breadth-first up to
// maxEquivalentsDepth, tracking visited ids so a symmetric cycle never
// loops (spec.md §4's bounded-depth, cycle-safe traversal requirement).
func (h *ProductHandler) Equivalents(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}

	visited := map[uuid.UUID]bool{id: true}
	frontier := []uuid.UUID{id}
	var equivalentIDs []uuid.UUID

	for depth := 0; depth < maxEquivalentsDepth && len(frontier) > 0; depth++ {
		var next []uuid.UUID
		for _, pid := range frontier {
			edges, err := h.relationships.ListBothDirections(dbc, pid, catalog.RelationshipEquivalentTo)
			if err != nil {
				response.RespondAPIErr(c, err)
				return
			}
			for _, e := range edges {
				other := e.TargetID
				if other == pid {
					other = e.SourceID
				}
				if visited[other] {
					continue
				}
				visited[other] = true
				equivalentIDs = append(equivalentIDs, other)
				next = append(next, other)
			}
		}
		frontier = next
	}

	products := make([]*catalog.Product, 0, len(equivalentIDs))
	for _, pid := range equivalentIDs {
		p, err := h.products.GetByID(dbc, pid)
		if err != nil {
			continue
		}
		products = append(products, p)
	}
	response.RespondOK(c, gin.H{"product_id": id, "equivalents": products})
}

func parseFloatPtr(s string) *float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
