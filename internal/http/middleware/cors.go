package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS builds the cross-origin policy from CORS_ORIGINS (comma-separated),
// following the teacher's internal/http/middleware.CORS but sourcing
// origins from config instead of a hardcoded localhost list.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "X-API-Key", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	})
}
