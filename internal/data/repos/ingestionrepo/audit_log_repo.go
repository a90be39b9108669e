package ingestionrepo

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/domain/ingestion"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

// AuditLogRepo only ever appends; there is deliberately no Update or
// Delete method here, and the storage layer rejects those statements
// regardless (see internal/data/db/migrate.go's trigger).
type AuditLogRepo interface {
	Append(dbc dbctx.Context, entry *ingestion.AuditLogEntry) (*ingestion.AuditLogEntry, error)
	ListForEntity(dbc dbctx.Context, entityType string, entityID uuid.UUID) ([]*ingestion.AuditLogEntry, error)
}

type auditLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) AuditLogRepo {
	return &auditLogRepo{db: db, log: baseLog.With("repo", "AuditLogRepo")}
}

func (r *auditLogRepo) Append(dbc dbctx.Context, entry *ingestion.AuditLogEntry) (*ingestion.AuditLogEntry, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *auditLogRepo) ListForEntity(dbc dbctx.Context, entityType string, entityID uuid.UUID) ([]*ingestion.AuditLogEntry, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*ingestion.AuditLogEntry
	if err := txx.WithContext(dbc.Ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
