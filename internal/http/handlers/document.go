package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/labcold/catalog/internal/http/response"
	"github.com/labcold/catalog/internal/orchestrator"
	"github.com/labcold/catalog/internal/platform/ctxutil"
	"github.com/labcold/catalog/internal/platform/logger"
)

var errNoFiles = errors.New(`no files were submitted under the "files" form field`)

// DocumentHandler serves POST /api/v1/documents (SPEC_FULL.md §7): a
// multipart batch of files run through the Ingestion Orchestrator in
// one IngestionJob.
type DocumentHandler struct {
	orch *orchestrator.Orchestrator
	log  *logger.Logger
}

func NewDocumentHandler(orch *orchestrator.Orchestrator, baseLog *logger.Logger) *DocumentHandler {
	return &DocumentHandler{orch: orch, log: baseLog.With("handler", "DocumentHandler")}
}

func (h *DocumentHandler) Ingest(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		response.RespondError(c, http.StatusBadRequest, "validation_error", errNoFiles)
		return
	}

	files := make([]orchestrator.FileInput, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation_error", err)
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation_error", err)
			return
		}
		files = append(files, orchestrator.FileInput{
			Filename: fh.Filename,
			Content:  content,
			MimeType: fh.Header.Get("Content-Type"),
		})
	}

	rd := ctxutil.GetRequestData(c.Request.Context())
	req := orchestrator.Request{Files: files}
	if rd != nil {
		req.CallerID = rd.CallerID
		req.CallerRole = rd.Role
	}

	job, stats, err := h.orch.Run(c.Request.Context(), req)
	if err != nil {
		h.log.Error("ingestion run failed", "error", err)
		response.RespondAPIErr(c, err)
		return
	}

	response.RespondOK(c, gin.H{
		"job_id":   job.ID,
		"accepted": stats.ProcessedFiles,
		"rejected": stats.FailedFiles,
		"stats":    stats,
	})
}
