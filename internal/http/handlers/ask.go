package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/labcold/catalog/internal/clients/generator"
	"github.com/labcold/catalog/internal/http/response"
	"github.com/labcold/catalog/internal/platform/logger"
	"github.com/labcold/catalog/internal/retrieval"
)

var errMissingQuery = errors.New("query is required")

// askSystemPrompt keeps the generator grounded strictly in the context
// pack's chunks rather than outside knowledge -- the retrieval engine's
// whole point is traceable provenance, so the model is told to cite
// only what it was given.
const askSystemPrompt = `You are a product-literature assistant for laboratory cold-storage equipment. Answer only from the provided context chunks. If the context does not contain the answer, say so rather than guessing. Keep answers concise.`

// AskHandler serves POST /api/v1/ask (spec.md §6): a retrieval
// context pack handed to the external generator, returned alongside
// its sources for traceability.
type AskHandler struct {
	retrieval *retrieval.Engine
	generator generator.Client
	log       *logger.Logger
}

func NewAskHandler(retrievalEngine *retrieval.Engine, gen generator.Client, baseLog *logger.Logger) *AskHandler {
	return &AskHandler{retrieval: retrievalEngine, generator: gen, log: baseLog.With("handler", "AskHandler")}
}

type askRequestBody struct {
	Query string `json:"query"`
}

func (h *AskHandler) Ask(c *gin.Context) {
	var body askRequestBody
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Query) == "" {
		response.RespondError(c, http.StatusBadRequest, "validation_error", errMissingQuery)
		return
	}

	pack, err := h.retrieval.Search(c.Request.Context(), body.Query)
	if err != nil {
		h.log.Error("retrieval search failed", "error", err)
		response.RespondAPIErr(c, err)
		return
	}

	answer, err := h.generator.Generate(c.Request.Context(), askSystemPrompt, buildAskUserPrompt(body.Query, pack))
	if err != nil {
		h.log.Error("generator call failed", "error", err)
		response.RespondAPIErr(c, err)
		return
	}

	response.RespondOK(c, gin.H{
		"answer":  answer,
		"sources": pack.Chunks,
		"intent":  pack.Intent,
		"filters": pack.Filters,
	})
}

func buildAskUserPrompt(query string, pack *retrieval.ContextPack) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nContext:\n", query)
	for i, chunk := range pack.Chunks {
		fmt.Fprintf(&b, "[%d] (doc=%s score=%.4f) %s\n", i+1, chunk.SourceDocID, chunk.Score, chunk.Content)
	}
	return b.String()
}
