package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/labcold/catalog/internal/http/response"
	"github.com/labcold/catalog/internal/platform/logger"
	"github.com/labcold/catalog/internal/recommend"
)

var errMissingUseCase = errors.New("one of use_case or use_case_text is required")

// RecommendHandler serves POST /api/v1/recommend (spec.md §6): a
// use_case/use_case_text plus explicit constraints, answered with a
// ranked product list.
type RecommendHandler struct {
	engine *recommend.Engine
	log    *logger.Logger
}

func NewRecommendHandler(engine *recommend.Engine, baseLog *logger.Logger) *RecommendHandler {
	return &RecommendHandler{engine: engine, log: baseLog.With("handler", "RecommendHandler")}
}

type recommendConstraintsBody struct {
	ProductType            string   `json:"product_type"`
	DoorType                string   `json:"door_type"`
	TempRangeMinC           *float64 `json:"temp_range_min_c"`
	TempRangeMaxC           *float64 `json:"temp_range_max_c"`
	MaxHeightIn             *float64 `json:"max_height_in"`
	CapacityMin             *float64 `json:"capacity_min"`
	CapacityMax             *float64 `json:"capacity_max"`
	CertificationsRequired  []string `json:"certifications_required"`
	BrandCode               string   `json:"brand_code"`
	FamilyCode              string   `json:"family_code"`
}

type recommendRequestBody struct {
	UseCase     string                   `json:"use_case"`
	UseCaseText string                   `json:"use_case_text"`
	Constraints recommendConstraintsBody `json:"constraints"`
	MaxResults  int                      `json:"max_results"`
}

func (h *RecommendHandler) Recommend(c *gin.Context) {
	var body recommendRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	if body.UseCase == "" && body.UseCaseText == "" {
		response.RespondError(c, http.StatusBadRequest, "validation_error",
			errMissingUseCase)
		return
	}

	req := recommend.Request{
		UseCase:     body.UseCase,
		UseCaseText: body.UseCaseText,
		MaxResults:  body.MaxResults,
		Constraints: recommend.Constraints{
			ProductType:            body.Constraints.ProductType,
			DoorType:               body.Constraints.DoorType,
			TempRangeMinC:          body.Constraints.TempRangeMinC,
			TempRangeMaxC:          body.Constraints.TempRangeMaxC,
			MaxHeightIn:            body.Constraints.MaxHeightIn,
			CapacityMin:            body.Constraints.CapacityMin,
			CapacityMax:            body.Constraints.CapacityMax,
			CertificationsRequired: body.Constraints.CertificationsRequired,
			BrandCode:              body.Constraints.BrandCode,
			FamilyCode:             body.Constraints.FamilyCode,
		},
	}

	resp, err := h.engine.Recommend(c.Request.Context(), req)
	if err != nil {
		h.log.Error("recommend failed", "error", err)
		response.RespondAPIErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"profile":    resp.Profile,
		"diagnostic": resp.Diagnostic,
		"products":   resp.Products,
		"alternates": resp.Alternates,
	})
}
