// Package catalog implements the Catalog Store (spec.md §4.8): the
// transactional home for product upsert, version snapshotting, and
// append-only audit logging.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/data/repos/catalogrepo"
	"github.com/labcold/catalog/internal/data/repos/ingestionrepo"
	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/domain/ingestion"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
	"github.com/labcold/catalog/internal/specvalue"
)

// FixedColumns carries the denormalized-projection fields a mutation may
// update. A nil pointer (or empty string for the two string-typed
// columns) means "leave unchanged"; fixed columns are kept consistent
// with the corresponding Specs entry by the caller (the Ingestion
// Orchestrator), never invented independently here.
type FixedColumns struct {
	StorageCapacityCuft *float64
	TempRangeMinC       *float64
	TempRangeMaxC       *float64
	DoorCount           *int
	DoorType            string
	ShelfCount          *int
	Refrigerant         string
	VoltageV            *float64
	Amperage            *float64
	ProductWeightLbs    *float64
	ExtWidthIn          *float64
	ExtDepthIn          *float64
	ExtHeightIn         *float64
}

// Mutation describes one document's worth of accepted changes to a
// product, already filtered by the Conflict Engine to only the specs
// that should actually be written (ActionWrite/ActionOverwrite).
type Mutation struct {
	ModelNumber    string
	BrandID        uuid.UUID
	FamilyID       uuid.UUID
	ProductLine    string
	ControllerTier string
	Status         catalog.ProductStatus
	Fixed          FixedColumns
	SpecWrites     map[string]specvalue.Value
	Certifications []string
	Revision       string
	Description    string
	ChangeSummary  string
	ChangedBy      string
}

// Store is the Catalog Store component.
type Store struct {
	db           *gorm.DB
	productRepo  catalogrepo.ProductRepo
	snapshotRepo catalogrepo.ProductVersionSnapshotRepo
	auditRepo    ingestionrepo.AuditLogRepo
	log          *logger.Logger
}

func New(db *gorm.DB, productRepo catalogrepo.ProductRepo, snapshotRepo catalogrepo.ProductVersionSnapshotRepo, auditRepo ingestionrepo.AuditLogRepo, baseLog *logger.Logger) *Store {
	return &Store{db: db, productRepo: productRepo, snapshotRepo: snapshotRepo, auditRepo: auditRepo, log: baseLog.With("component", "catalog")}
}

// Upsert applies a Mutation within a single transaction: it locks the
// latest row for model_number (or creates version 1 if none exists),
// snapshots the pre-image when anything actually changes, increments
// version, and writes an audit entry -- all inside one commit, per
// spec.md §4.8/§5(c).
func (s *Store) Upsert(ctx context.Context, m Mutation, callerRole string) (product *catalog.Product, created bool, versionBumped bool, err error) {
	err = s.db.Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		existing, getErr := s.productRepo.GetLatestByModelNumberForUpdate(dbc, m.ModelNumber)
		if getErr != nil && !isNotFound(getErr) {
			return fmt.Errorf("catalog: lock latest: %w", getErr)
		}

		if existing == nil {
			p := &catalog.Product{
				ModelNumber:    m.ModelNumber,
				Version:        1,
				BrandID:        m.BrandID,
				FamilyID:       m.FamilyID,
				ProductLine:    m.ProductLine,
				ControllerTier: m.ControllerTier,
				Status:         firstNonEmptyStatus(m.Status, catalog.ProductStatusDraft),
				Revision:       m.Revision,
				Description:    m.Description,
			}
			applyFixed(p, m.Fixed)
			if err := encodeSpecs(p, m.SpecWrites); err != nil {
				return err
			}
			if err := encodeCertifications(p, m.Certifications); err != nil {
				return err
			}
			if _, err := s.productRepo.Create(dbc, p); err != nil {
				return fmt.Errorf("catalog: create: %w", err)
			}
			if err := s.audit(dbc, p.ID, "product.created", m, callerRole); err != nil {
				return err
			}
			product, created = p, true
			return nil
		}

		changed, err := s.mergeMutation(existing, m)
		if err != nil {
			return err
		}
		if !changed {
			product = existing
			return nil
		}

		preImage, err := json.Marshal(existing)
		if err != nil {
			return fmt.Errorf("catalog: marshal pre-image: %w", err)
		}
		snap := &catalog.ProductVersionSnapshot{
			ProductID:     existing.ID,
			Version:       existing.Version,
			Record:        preImage,
			ChangeSummary: m.ChangeSummary,
			ChangedBy:     m.ChangedBy,
		}
		if _, err := s.snapshotRepo.Create(dbc, snap); err != nil {
			return fmt.Errorf("catalog: snapshot: %w", err)
		}

		existing.Version++
		if err := s.productRepo.Save(dbc, existing); err != nil {
			return fmt.Errorf("catalog: save: %w", err)
		}
		if err := s.audit(dbc, existing.ID, "product.updated", m, callerRole); err != nil {
			return err
		}

		product, versionBumped = existing, true
		return nil
	})
	return product, created, versionBumped, err
}

// mergeMutation applies SpecWrites and any provided fixed columns onto
// existing in place; returns whether anything actually changed. Missing
// spec keys in the mutation are left untouched -- "missing never beats
// present" (Open Question decision #1) is enforced by the Conflict
// Engine upstream never emitting a write for a field it has no new value
// for; this merge just applies what it's given.
func (s *Store) mergeMutation(existing *catalog.Product, m Mutation) (bool, error) {
	changed := false

	specs, err := decodeSpecs(existing.Specs)
	if err != nil {
		return false, err
	}
	for name, v := range m.SpecWrites {
		if prior, ok := specs[name]; ok && specEqual(prior, v) {
			continue
		}
		specs[name] = v
		changed = true
	}
	if changed {
		if err := encodeSpecs(existing, specs); err != nil {
			return false, err
		}
	}

	if len(m.Certifications) > 0 {
		var prior []string
		if len(existing.Certifications) > 0 {
			_ = json.Unmarshal(existing.Certifications, &prior)
		}
		if !slices.Equal(prior, m.Certifications) {
			if err := encodeCertifications(existing, m.Certifications); err != nil {
				return false, err
			}
			changed = true
		}
	}

	if applyFixed(existing, m.Fixed) {
		changed = true
	}

	if m.ProductLine != "" && m.ProductLine != existing.ProductLine {
		existing.ProductLine = m.ProductLine
		changed = true
	}
	if m.ControllerTier != "" && m.ControllerTier != existing.ControllerTier {
		existing.ControllerTier = m.ControllerTier
		changed = true
	}
	if m.Revision != "" && m.Revision != existing.Revision {
		existing.Revision = m.Revision
		changed = true
	}
	if m.Description != "" && m.Description != existing.Description {
		existing.Description = m.Description
		changed = true
	}

	return changed, nil
}

func (s *Store) audit(dbc dbctx.Context, entityID uuid.UUID, action string, m Mutation, role string) error {
	detail, err := json.Marshal(map[string]any{"change_summary": m.ChangeSummary, "model_number": m.ModelNumber})
	if err != nil {
		return fmt.Errorf("catalog: marshal audit detail: %w", err)
	}
	entry := &ingestion.AuditLogEntry{
		EntityType: "product",
		EntityID:   entityID,
		Action:     action,
		CallerID:   m.ChangedBy,
		Role:       role,
		Detail:     detail,
	}
	if _, err := s.auditRepo.Append(dbc, entry); err != nil {
		return fmt.Errorf("catalog: audit: %w", err)
	}
	return nil
}

// GetByID, GetByModelNumber, and Filter are the Catalog Store's finder
// API (spec.md §4.8); they pass straight through to ProductRepo since no
// additional orchestration is needed for reads.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return s.productRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
}

func (s *Store) GetByModelNumber(ctx context.Context, modelNumber string) (*catalog.Product, error) {
	return s.productRepo.GetLatestByModelNumber(dbctx.Context{Ctx: ctx}, modelNumber)
}

func (s *Store) Filter(ctx context.Context, f catalogrepo.ProductFilter) ([]*catalog.Product, int64, error) {
	return s.productRepo.Filter(dbctx.Context{Ctx: ctx}, f)
}

func firstNonEmptyStatus(v, fallback catalog.ProductStatus) catalog.ProductStatus {
	if v == "" {
		return fallback
	}
	return v
}

func isNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}
