package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/domain/ingestion"
)

// AutoMigrateAll creates/updates every table the catalog owns, then applies
// the raw-SQL fixups gorm's tag-based migrator cannot express: generated
// tsvector columns, GIN indexes over jsonb/tsvector, and the audit log's
// append-only trigger.
func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// =========================
		// Taxonomy (static, curated)
		// =========================
		&catalog.Brand{},
		&catalog.Family{},

		// =========================
		// Spec registry + decoding tables
		// =========================
		&catalog.SpecRegistryEntry{},
		&catalog.ModelPattern{},
		&catalog.EquivalenceRule{},

		// =========================
		// Product catalog
		// =========================
		&catalog.Product{},
		&catalog.ProductVersionSnapshot{},
		&catalog.ProductRelationship{},

		// =========================
		// Ingestion: documents, provenance, chunks
		// =========================
		&ingestion.Document{},
		&ingestion.DocumentProductLink{},
		&ingestion.Chunk{},
		&ingestion.SpecConflict{},
		&ingestion.IngestionJob{},
		&ingestion.AuditLogEntry{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	if err := applyGeneratedColumns(db); err != nil {
		return fmt.Errorf("generated columns: %w", err)
	}
	if err := applyAuditImmutability(db); err != nil {
		return fmt.Errorf("audit log immutability: %w", err)
	}
	return nil
}

// applyGeneratedColumns backfills the full-text search vectors the data
// model requires: a generated column over (model_number, product_line,
// description) on product, and over content on chunk. AutoMigrate cannot
// express GENERATED ALWAYS AS, so these run as idempotent raw SQL.
func applyGeneratedColumns(db *gorm.DB) error {
	stmts := []string{
		`ALTER TABLE product DROP COLUMN IF EXISTS search_vector`,
		`ALTER TABLE product ADD COLUMN search_vector tsvector GENERATED ALWAYS AS (
			setweight(to_tsvector('english', coalesce(model_number, '')), 'A') ||
			setweight(to_tsvector('english', coalesce(product_line, '')), 'B') ||
			setweight(to_tsvector('english', coalesce(description, '')), 'C')
		) STORED`,
		`CREATE INDEX IF NOT EXISTS idx_product_search_vector ON product USING gin (search_vector)`,

		`ALTER TABLE chunk DROP COLUMN IF EXISTS content_tsv`,
		`ALTER TABLE chunk ADD COLUMN content_tsv tsvector GENERATED ALWAYS AS (
			to_tsvector('english', coalesce(content, ''))
		) STORED`,
		`CREATE INDEX IF NOT EXISTS idx_chunk_content_tsv ON chunk USING gin (content_tsv)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyAuditImmutability enforces at the storage layer that audit_log_entry
// rows, once written, can never be updated or deleted -- per spec, this
// must not be merely a convention in application code.
func applyAuditImmutability(db *gorm.DB) error {
	stmts := []string{
		`CREATE OR REPLACE FUNCTION reject_audit_log_mutation() RETURNS trigger AS $$
		BEGIN
			RAISE EXCEPTION 'audit_log_entry rows are append-only: % not permitted', TG_OP;
		END;
		$$ LANGUAGE plpgsql`,
		`DROP TRIGGER IF EXISTS trg_audit_log_entry_no_update ON audit_log_entry`,
		`CREATE TRIGGER trg_audit_log_entry_no_update
			BEFORE UPDATE OR DELETE ON audit_log_entry
			FOR EACH ROW EXECUTE FUNCTION reject_audit_log_mutation()`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
