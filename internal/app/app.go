// Package app composes the catalog service: config, repos, core
// engines, HTTP handlers, and the router, grounded on the teacher's
// internal/app.App/New composition pattern.
package app

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	httpapi "github.com/labcold/catalog/internal/http"

	"github.com/labcold/catalog/internal/data/db"
	"github.com/labcold/catalog/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *httpapi.Server
	Cfg      Config
	Repos    Repos
	Services Services
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("loading environment variables")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := db.AutoMigrateAll(pg.DB()); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	repos := wireRepos(theDB, log)

	svc, err := wireServices(cfg, theDB, repos, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("wire services: %w", err)
	}

	h := wireHandlers(theDB, repos, svc, log)
	server := wireRouter(cfg, h, svc, log)

	return &App{
		Log:      log,
		DB:       theDB,
		Server:   server,
		Cfg:      cfg,
		Repos:    repos,
		Services: svc,
	}, nil
}

func (a *App) Run(addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
