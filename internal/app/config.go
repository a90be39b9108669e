package app

import (
	"runtime"
	"strings"
	"time"

	"github.com/labcold/catalog/internal/orchestrator"
	"github.com/labcold/catalog/internal/platform/envutil"
	"github.com/labcold/catalog/internal/platform/logger"
	"github.com/labcold/catalog/internal/retrieval"
	"github.com/labcold/catalog/internal/utils"
)

// Config is every environment-driven tunable the app needs to wire
// itself, loaded the way the teacher's app.LoadConfig loads JWT/token
// settings from utils.GetEnv/GetEnvAsInt.
type Config struct {
	Port string

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	APIKeysSpec string
	CORSOrigins []string

	Orchestrator orchestrator.Config
	Retrieval    retrieval.Config
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	apiKeysSpec := utils.GetEnv("API_KEYS", "", log)
	corsOrigins := utils.GetEnv("CORS_ORIGINS", "http://localhost:3000", log)

	cfg := Config{
		Port:           port,
		JWTSecretKey:   jwtSecretKey,
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,
		APIKeysSpec:    apiKeysSpec,
		CORSOrigins:    splitAndTrim(corsOrigins),
		Orchestrator:   orchestrator.DefaultConfig(runtime.NumCPU()),
		Retrieval:      retrieval.DefaultConfig(),
	}

	cfg.Orchestrator.Concurrency = envutil.Int("ORCHESTRATOR_CONCURRENCY", cfg.Orchestrator.Concurrency)
	cfg.Orchestrator.MinConfidence = envutil.Float("ORCHESTRATOR_MIN_CONFIDENCE", cfg.Orchestrator.MinConfidence)
	cfg.Orchestrator.AutoCreateProducts = envutil.Bool("ORCHESTRATOR_AUTO_CREATE_PRODUCTS", cfg.Orchestrator.AutoCreateProducts)
	cfg.Orchestrator.AutoAcceptNewerRevision = envutil.Bool("ORCHESTRATOR_AUTO_ACCEPT_NEWER_REVISION", cfg.Orchestrator.AutoAcceptNewerRevision)

	return cfg
}

func splitAndTrim(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
