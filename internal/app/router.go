package app

import (
	httpapi "github.com/labcold/catalog/internal/http"
	"github.com/labcold/catalog/internal/http/middleware"
	"github.com/labcold/catalog/internal/platform/logger"
)

func wireRouter(cfg Config, h Handlers, svc Services, baseLog *logger.Logger) *httpapi.Server {
	authMW := middleware.NewAuthMiddleware(baseLog, svc.Auth)
	return httpapi.NewServer(httpapi.RouterConfig{
		CORSOrigins:    cfg.CORSOrigins,
		AuthMiddleware: authMW,
		Health:         h.Health,
		Documents:      h.Documents,
		Products:       h.Products,
		Recommend:      h.Recommend,
		Compare:        h.Compare,
		Ask:            h.Ask,
		Conflicts:      h.Conflicts,
		Stats:          h.Stats,
	})
}
