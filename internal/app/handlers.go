package app

import (
	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/http/handlers"
	"github.com/labcold/catalog/internal/platform/logger"
)

// Handlers is one field per HTTP handler, wired from Services+Repos
// (teacher's app.Handlers/wireHandlers composition).
type Handlers struct {
	Health    *handlers.HealthHandler
	Documents *handlers.DocumentHandler
	Products  *handlers.ProductHandler
	Recommend *handlers.RecommendHandler
	Compare   *handlers.CompareHandler
	Ask       *handlers.AskHandler
	Conflicts *handlers.ConflictHandler
	Stats     *handlers.StatsHandler
}

func wireHandlers(db *gorm.DB, repos Repos, svc Services, baseLog *logger.Logger) Handlers {
	return Handlers{
		Health:    handlers.NewHealthHandler(db),
		Documents: handlers.NewDocumentHandler(svc.Orchestrator, baseLog),
		Products:  handlers.NewProductHandler(repos.Products, repos.Relationships, baseLog),
		Recommend: handlers.NewRecommendHandler(svc.Recommend, baseLog),
		Compare:   handlers.NewCompareHandler(repos.Products, baseLog),
		Ask:       handlers.NewAskHandler(svc.Retrieval, svc.Generator, baseLog),
		Conflicts: handlers.NewConflictHandler(repos.Conflicts, baseLog),
		Stats:     handlers.NewStatsHandler(repos.Products, repos.Brands, repos.Families, repos.Conflicts, baseLog),
	}
}
