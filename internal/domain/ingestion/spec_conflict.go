package ingestion

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/labcold/catalog/internal/domain/catalog"
)

type ConflictSeverity string

const (
	ConflictSeverityLow      ConflictSeverity = "low"
	ConflictSeverityMedium   ConflictSeverity = "medium"
	ConflictSeverityHigh     ConflictSeverity = "high"
	ConflictSeverityCritical ConflictSeverity = "critical"
)

type ConflictResolution string

const (
	ConflictResolutionPending        ConflictResolution = "pending"
	ConflictResolutionKeepExisting   ConflictResolution = "keep_existing"
	ConflictResolutionAcceptNew      ConflictResolution = "accept_new"
	ConflictResolutionManualOverride ConflictResolution = "manual_override"
	ConflictResolutionDismissed      ConflictResolution = "dismissed"
)

// SpecConflict records a spec value that could not be auto-resolved
// between the existing product record and an incoming document. Lifecycle:
// pending -> {keep_existing|accept_new|manual_override|dismissed}, exactly once.
type SpecConflict struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProductID uuid.UUID        `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *catalog.Product `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID" json:"-"`

	SpecName string `gorm:"column:spec_name;not null;index" json:"spec_name"`

	ExistingValue datatypes.JSON `gorm:"type:jsonb;column:existing_value" json:"existing_value"`
	NewValue      datatypes.JSON `gorm:"type:jsonb;column:new_value" json:"new_value"`

	SourceDocID   uuid.UUID `gorm:"type:uuid;not null" json:"source_doc_id"`
	SourceDoc     *Document `gorm:"constraint:OnDelete:CASCADE;foreignKey:SourceDocID;references:ID" json:"-"`
	ExistingDocID *uuid.UUID `gorm:"type:uuid" json:"existing_doc_id,omitempty"`
	ExistingDoc   *Document  `gorm:"constraint:OnDelete:SET NULL;foreignKey:ExistingDocID;references:ID" json:"-"`

	Severity   ConflictSeverity   `gorm:"column:severity;not null;index" json:"severity"`
	Resolution ConflictResolution `gorm:"column:resolution;not null;default:pending;index" json:"resolution"`

	ResolvedValue datatypes.JSON `gorm:"type:jsonb;column:resolved_value" json:"resolved_value,omitempty"`
	ResolvedAt    *time.Time     `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	ResolvedBy    string         `gorm:"column:resolved_by" json:"resolved_by,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (SpecConflict) TableName() string { return "spec_conflict" }
