package app

import (
	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/data/repos/catalogrepo"
	"github.com/labcold/catalog/internal/data/repos/ingestionrepo"
	"github.com/labcold/catalog/internal/platform/logger"
)

// Repos is one field per repository, wired once at startup and shared
// by every service (teacher's app.Repos/wireRepos composition).
type Repos struct {
	Brands        catalogrepo.BrandRepo
	Families      catalogrepo.FamilyRepo
	Products      catalogrepo.ProductRepo
	Relationships catalogrepo.ProductRelationshipRepo
	ModelPatterns catalogrepo.ModelPatternRepo
	Equivalences  catalogrepo.EquivalenceRuleRepo
	SpecRegistry  catalogrepo.SpecRegistryRepo
	Snapshots     catalogrepo.ProductVersionSnapshotRepo

	Documents     ingestionrepo.DocumentRepo
	Links         ingestionrepo.DocumentProductLinkRepo
	Chunks        ingestionrepo.ChunkRepo
	Jobs          ingestionrepo.IngestionJobRepo
	Conflicts     ingestionrepo.SpecConflictRepo
	AuditLog      ingestionrepo.AuditLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Brands:        catalogrepo.NewBrandRepo(db, log),
		Families:      catalogrepo.NewFamilyRepo(db, log),
		Products:      catalogrepo.NewProductRepo(db, log),
		Relationships: catalogrepo.NewProductRelationshipRepo(db, log),
		ModelPatterns: catalogrepo.NewModelPatternRepo(db, log),
		Equivalences:  catalogrepo.NewEquivalenceRuleRepo(db, log),
		SpecRegistry:  catalogrepo.NewSpecRegistryRepo(db, log),
		Snapshots:     catalogrepo.NewProductVersionSnapshotRepo(db, log),

		Documents: ingestionrepo.NewDocumentRepo(db, log),
		Links:     ingestionrepo.NewDocumentProductLinkRepo(db, log),
		Chunks:    ingestionrepo.NewChunkRepo(db, log),
		Jobs:      ingestionrepo.NewIngestionJobRepo(db, log),
		Conflicts: ingestionrepo.NewSpecConflictRepo(db, log),
		AuditLog:  ingestionrepo.NewAuditLogRepo(db, log),
	}
}
