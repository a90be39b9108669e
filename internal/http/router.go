package http

import (
	"github.com/gin-gonic/gin"

	"github.com/labcold/catalog/internal/http/handlers"
	"github.com/labcold/catalog/internal/http/middleware"
)

// RouterConfig is one field per handler/middleware, all nil-checked
// before their routes are registered (teacher's RouterConfig pattern),
// so a partially-wired App (e.g. in a handler-focused test) still
// builds a valid router.
type RouterConfig struct {
	CORSOrigins []string

	AuthMiddleware *middleware.AuthMiddleware

	Health     *handlers.HealthHandler
	Documents  *handlers.DocumentHandler
	Products   *handlers.ProductHandler
	Recommend  *handlers.RecommendHandler
	Compare    *handlers.CompareHandler
	Ask        *handlers.AskHandler
	Conflicts  *handlers.ConflictHandler
	Stats      *handlers.StatsHandler
}

// roleCatalogReader is every role allowed to read the catalog surface
// (products, recommend, compare, ask) -- spec.md §6 names the role set
// but leaves role->operation mapping to the adapter.
var roleCatalogReader = []string{"customer", "sales_engineer", "product_manager", "admin"}

// roleCatalogOperator is the subset trusted to ingest documents and
// manage the conflict queue.
var roleCatalogOperator = []string{"product_manager", "admin"}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.AttachRequestContext())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	if cfg.Health != nil {
		r.GET("/healthz", cfg.Health.Healthz)
	}

	api := r.Group("/api/v1")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	if cfg.Documents != nil {
		api.POST("/documents", middleware.RequireRole(roleCatalogOperator...), cfg.Documents.Ingest)
	}
	if cfg.Products != nil {
		api.GET("/products", middleware.RequireRole(roleCatalogReader...), cfg.Products.List)
		api.GET("/products/:id", middleware.RequireRole(roleCatalogReader...), cfg.Products.Get)
		api.GET("/products/:id/equivalents", middleware.RequireRole(roleCatalogReader...), cfg.Products.Equivalents)
	}
	if cfg.Recommend != nil {
		api.POST("/recommend", middleware.RequireRole(roleCatalogReader...), cfg.Recommend.Recommend)
	}
	if cfg.Compare != nil {
		api.POST("/compare", middleware.RequireRole(roleCatalogReader...), cfg.Compare.Compare)
	}
	if cfg.Ask != nil {
		api.POST("/ask", middleware.RequireRole(roleCatalogReader...), cfg.Ask.Ask)
	}
	if cfg.Conflicts != nil {
		api.GET("/conflicts", middleware.RequireRole(roleCatalogOperator...), cfg.Conflicts.List)
		api.POST("/conflicts/:id/resolve", middleware.RequireRole(roleCatalogOperator...), cfg.Conflicts.Resolve)
	}
	if cfg.Stats != nil {
		api.GET("/stats", middleware.RequireRole(roleCatalogOperator...), cfg.Stats.Stats)
	}

	return r
}
