package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/labcold/catalog/internal/data/repos/ingestionrepo"
	"github.com/labcold/catalog/internal/domain/ingestion"
	"github.com/labcold/catalog/internal/http/response"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/ctxutil"
	"github.com/labcold/catalog/internal/platform/logger"
)

// ConflictHandler serves GET /api/v1/conflicts and POST
// /api/v1/conflicts/:id/resolve (spec.md §6): the queue of spec
// conflicts the Conflict Engine could not auto-resolve.
type ConflictHandler struct {
	conflicts ingestionrepo.SpecConflictRepo
	log       *logger.Logger
}

func NewConflictHandler(conflicts ingestionrepo.SpecConflictRepo, baseLog *logger.Logger) *ConflictHandler {
	return &ConflictHandler{conflicts: conflicts, log: baseLog.With("handler", "ConflictHandler")}
}

func (h *ConflictHandler) List(c *gin.Context) {
	var productID *uuid.UUID
	if v := c.Query("product_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation_error", err)
			return
		}
		productID = &id
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	pending, err := h.conflicts.ListPending(dbc, productID)
	if err != nil {
		response.RespondAPIErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"conflicts": pending})
}

type resolveConflictBody struct {
	Resolution    string `json:"resolution"`
	ResolvedValue any    `json:"resolved_value"`
}

var validResolutions = map[string]ingestion.ConflictResolution{
	string(ingestion.ConflictResolutionKeepExisting):   ingestion.ConflictResolutionKeepExisting,
	string(ingestion.ConflictResolutionAcceptNew):      ingestion.ConflictResolutionAcceptNew,
	string(ingestion.ConflictResolutionManualOverride):  ingestion.ConflictResolutionManualOverride,
	string(ingestion.ConflictResolutionDismissed):       ingestion.ConflictResolutionDismissed,
}

func (h *ConflictHandler) Resolve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	var body resolveConflictBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	resolution, ok := validResolutions[body.Resolution]
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "validation_error", errUnknownResolution)
		return
	}
	if resolution == ingestion.ConflictResolutionManualOverride && body.ResolvedValue == nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", errMissingResolvedValue)
		return
	}

	var resolvedValue []byte
	if body.ResolvedValue != nil {
		encoded, err := json.Marshal(body.ResolvedValue)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation_error", err)
			return
		}
		resolvedValue = encoded
	}

	resolvedBy := "unknown"
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		resolvedBy = rd.CallerID
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	found, err := h.conflicts.Resolve(dbc, id, resolution, resolvedValue, resolvedBy)
	if err != nil {
		response.RespondAPIErr(c, err)
		return
	}
	if !found {
		response.RespondError(c, http.StatusConflict, "conflict_pending", errAlreadyResolved)
		return
	}
	response.RespondOK(c, gin.H{"id": id, "resolution": resolution})
}

var (
	errUnknownResolution    = errors.New("resolution must be one of keep_existing, accept_new, manual_override, dismissed")
	errMissingResolvedValue = errors.New("manual_override requires resolved_value")
	errAlreadyResolved      = errors.New("conflict is not pending (already resolved, or does not exist)")
)
