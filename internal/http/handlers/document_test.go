package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// emptyMultipartBody builds a well-formed multipart/form-data body with
// an unrelated field and no "files" part, so MultipartForm parses
// cleanly and Ingest's own empty-file-list check is what's exercised.
func emptyMultipartBody(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("note", "no files attached"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestIngestRejectsNonMultipartRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := newTestLogger(t)
	h := NewDocumentHandler(nil, log)

	rec := httptest.NewRecorder()
	gctx, _ := gin.CreateTestContext(rec)
	gctx.Request = httptest.NewRequest(http.MethodPost, "/api/v1/documents", strings.NewReader("not multipart"))
	gctx.Request.Header.Set("Content-Type", "text/plain")

	h.Ingest(gctx)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestIngestRejectsEmptyFileList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := newTestLogger(t)
	h := NewDocumentHandler(nil, log)

	body, contentType := emptyMultipartBody(t)
	rec := httptest.NewRecorder()
	gctx, _ := gin.CreateTestContext(rec)
	gctx.Request = httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	gctx.Request.Header.Set("Content-Type", contentType)

	h.Ingest(gctx)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a multipart request with no \"files\" parts, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "no files were submitted") {
		t.Fatalf("expected errNoFiles message in body, got %s", rec.Body.String())
	}
}
