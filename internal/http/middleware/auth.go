package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/labcold/catalog/internal/platform/ctxutil"
	"github.com/labcold/catalog/internal/platform/logger"
	"github.com/labcold/catalog/internal/services"
)

// AuthMiddleware resolves the caller identity spec.md §6 puts at the
// HTTP boundary: an X-API-Key header (preferred) or an Authorization:
// Bearer JWT (service-to-service), attached to the request context the
// way the teacher's AuthMiddleware attaches ctxutil.RequestData.
type AuthMiddleware struct {
	log  *logger.Logger
	auth services.AuthService
}

func NewAuthMiddleware(baseLog *logger.Logger, auth services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: baseLog.With("middleware", "AuthMiddleware"), auth: auth}
}

// RequireAuth rejects the request with 401 unless a valid API key or
// bearer token is presented, then attaches the resolved
// ctxutil.RequestData so every downstream handler and service can read
// (caller_id, role, brand_scope) without re-parsing credentials.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if apiKey := strings.TrimSpace(c.GetHeader("X-API-Key")); apiKey != "" {
			rd, err := am.auth.ResolveAPIKey(ctx, apiKey)
			if err != nil {
				am.abortUnauthorized(c, err)
				return
			}
			am.proceed(c, rd)
			return
		}

		if token := bearerToken(c); token != "" {
			rd, err := am.auth.ResolveBearerToken(ctx, token)
			if err != nil {
				am.abortUnauthorized(c, err)
				return
			}
			am.proceed(c, rd)
			return
		}

		am.abortUnauthorized(c, nil)
	}
}

// RequireRole enforces spec.md §6's "enforcement of role->operation is
// the adapter's job": RequireAuth must have already attached request
// data, or this aborts with 401 rather than treating it as forbidden.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil || rd.Role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid credentials", "code": "unauthorized"},
			})
			return
		}
		if !allowed[rd.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"message": "caller role insufficient for this operation", "code": "forbidden"},
			})
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) proceed(c *gin.Context, rd *ctxutil.RequestData) {
	ctx := ctxutil.WithRequestData(c.Request.Context(), rd)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

func (am *AuthMiddleware) abortUnauthorized(c *gin.Context, err error) {
	msg := "missing or invalid credentials"
	if err != nil {
		msg = err.Error()
		am.log.Debug("auth resolution failed", "error", err)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"message": msg, "code": "unauthorized"},
	})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
