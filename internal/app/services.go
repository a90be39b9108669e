package app

import (
	"fmt"

	"gorm.io/gorm"

	catalogstore "github.com/labcold/catalog/internal/catalog"
	"github.com/labcold/catalog/internal/chunker"
	"github.com/labcold/catalog/internal/clients/embedder"
	"github.com/labcold/catalog/internal/clients/generator"
	"github.com/labcold/catalog/internal/clients/pdftext"
	"github.com/labcold/catalog/internal/conflict"
	"github.com/labcold/catalog/internal/extractor"
	"github.com/labcold/catalog/internal/orchestrator"
	"github.com/labcold/catalog/internal/platform/logger"
	"github.com/labcold/catalog/internal/recommend"
	"github.com/labcold/catalog/internal/registry"
	"github.com/labcold/catalog/internal/retrieval"
	"github.com/labcold/catalog/internal/services"
)

// Services is every core/adapter component the handlers call into,
// wired once at startup (teacher's app.Services/wireServices
// composition, scaled to this domain's actual service set rather than
// the teacher's unrelated jobs-pipeline sprawl).
type Services struct {
	Auth         services.AuthService
	Registry     *registry.Registry
	Catalog      *catalogstore.Store
	Conflict     *conflict.Engine
	Orchestrator *orchestrator.Orchestrator
	Retrieval    *retrieval.Engine
	Recommend    *recommend.Engine

	PDFText   pdftext.Client
	Embedder  embedder.Client
	Generator generator.Client
}

func wireServices(cfg Config, db *gorm.DB, repos Repos, baseLog *logger.Logger) (Services, error) {
	pdfClient, err := pdftext.New(baseLog)
	if err != nil {
		return Services{}, fmt.Errorf("wire pdftext client: %w", err)
	}
	embedClient, err := embedder.New(baseLog)
	if err != nil {
		return Services{}, fmt.Errorf("wire embedder client: %w", err)
	}
	genClient, err := generator.New(baseLog)
	if err != nil {
		return Services{}, fmt.Errorf("wire generator client: %w", err)
	}

	vectorStore, err := wireVectorStore(baseLog)
	if err != nil {
		return Services{}, fmt.Errorf("wire external vector store: %w", err)
	}

	reg := registry.New(repos.SpecRegistry, baseLog)
	catalog := catalogstore.New(db, repos.Products, repos.Snapshots, repos.AuditLog, baseLog)
	conflictEngine := conflict.New(reg, repos.Equivalences, repos.Conflicts, baseLog)
	extract := extractor.New(pdfClient, baseLog)
	embed := chunker.New(embedClient, baseLog).WithVectorStore(vectorStore)

	orch := orchestrator.New(
		cfg.Orchestrator,
		repos.Documents,
		repos.Links,
		repos.Chunks,
		repos.Jobs,
		repos.Conflicts,
		repos.Brands,
		repos.Families,
		catalog,
		conflictEngine,
		reg,
		extract,
		embed,
		baseLog,
	)

	retrievalEngine := retrieval.New(repos.Chunks, repos.Documents, repos.Products, embedClient, reg, baseLog).
		WithConfig(cfg.Retrieval).
		WithVectorStore(vectorStore)
	recommendEngine := recommend.New(repos.Products, repos.Equivalences, baseLog)

	apiKeys := services.ParseAPIKeys(cfg.APIKeysSpec, baseLog)
	authService := services.NewAuthService(baseLog, apiKeys, cfg.JWTSecretKey)

	return Services{
		Auth:         authService,
		Registry:     reg,
		Catalog:      catalog,
		Conflict:     conflictEngine,
		Orchestrator: orch,
		Retrieval:    retrievalEngine,
		Recommend:    recommendEngine,
		PDFText:      pdfClient,
		Embedder:     embedClient,
		Generator:    genClient,
	}, nil
}
