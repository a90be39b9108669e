// Package response is the single place HTTP handlers turn a result or
// an error into a JSON body, grounded on the teacher's
// internal/http/response package.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/labcold/catalog/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes status/code/err as an ErrorEnvelope.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// RespondAPIErr unwraps an *apierr.Error (spec.md §7's error taxonomy,
// already carrying its own status and code) and falls back to 500
// internal_error for anything else.
func RespondAPIErr(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		RespondError(c, ae.Status, ae.Code, ae)
		return
	}
	RespondError(c, http.StatusInternalServerError, "internal_error", err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
