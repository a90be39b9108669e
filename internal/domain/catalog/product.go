package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductStatusDraft         ProductStatus = "draft"
	ProductStatusPendingReview ProductStatus = "pending_review"
	ProductStatusActive        ProductStatus = "active"
	ProductStatusDiscontinued  ProductStatus = "discontinued"
	ProductStatusDeprecated    ProductStatus = "deprecated"
)

// Product is the canonical catalog record for one equipment model at one
// revision. version increases monotonically per model_number; every
// increment snapshots the prior record into ProductVersionSnapshot before
// the mutation commits.
//
// Invariant: every key in Specs is a canonical_name present in the
// SpecRegistryEntry table. Invariant: any populated fixed column is kept
// consistent with the same field under Specs -- fixed columns are
// denormalized projections of specs entries, not an independent source.
type Product struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	ModelNumber string `gorm:"column:model_number;not null;uniqueIndex:idx_product_model_version,priority:1" json:"model_number"`
	Version     int    `gorm:"column:version;not null;default:1;uniqueIndex:idx_product_model_version,priority:2" json:"version"`

	BrandID  uuid.UUID `gorm:"type:uuid;not null;index" json:"brand_id"`
	Brand    *Brand    `gorm:"constraint:OnDelete:RESTRICT;foreignKey:BrandID;references:ID" json:"brand,omitempty"`
	FamilyID uuid.UUID `gorm:"type:uuid;not null;index" json:"family_id"`
	Family   *Family   `gorm:"constraint:OnDelete:RESTRICT;foreignKey:FamilyID;references:ID" json:"family,omitempty"`

	ProductLine    string        `gorm:"column:product_line;index" json:"product_line,omitempty"`
	ControllerTier string        `gorm:"column:controller_tier" json:"controller_tier,omitempty"`
	Status         ProductStatus `gorm:"column:status;not null;default:draft;index" json:"status"`

	// Fixed universal columns -- denormalized projections of Specs.
	StorageCapacityCuft *float64 `gorm:"column:storage_capacity_cuft" json:"storage_capacity_cuft,omitempty"`
	TempRangeMinC       *float64 `gorm:"column:temp_range_min_c" json:"temp_range_min_c,omitempty"`
	TempRangeMaxC       *float64 `gorm:"column:temp_range_max_c" json:"temp_range_max_c,omitempty"`
	DoorCount           *int     `gorm:"column:door_count" json:"door_count,omitempty"`
	DoorType            string   `gorm:"column:door_type" json:"door_type,omitempty"`
	ShelfCount          *int     `gorm:"column:shelf_count" json:"shelf_count,omitempty"`
	Refrigerant         string   `gorm:"column:refrigerant" json:"refrigerant,omitempty"`
	VoltageV            *float64 `gorm:"column:voltage_v" json:"voltage_v,omitempty"`
	Amperage            *float64 `gorm:"column:amperage" json:"amperage,omitempty"`
	ProductWeightLbs    *float64 `gorm:"column:product_weight_lbs" json:"product_weight_lbs,omitempty"`
	ExtWidthIn          *float64 `gorm:"column:ext_width_in" json:"ext_width_in,omitempty"`
	ExtDepthIn          *float64 `gorm:"column:ext_depth_in" json:"ext_depth_in,omitempty"`
	ExtHeightIn         *float64 `gorm:"column:ext_height_in" json:"ext_height_in,omitempty"`

	// Specs is a canonical_name -> tagged-variant value map. GIN-indexed.
	Specs datatypes.JSON `gorm:"type:jsonb;column:specs;default:'{}';index:idx_product_specs,type:gin" json:"specs"`
	// Certifications is a de-duplicated ordered list of certification codes. GIN-indexed.
	Certifications datatypes.JSON `gorm:"type:jsonb;column:certifications;default:'[]';index:idx_product_certifications,type:gin" json:"certifications"`

	Revision    string `gorm:"column:revision" json:"revision,omitempty"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`

	ReleasedAt      *time.Time `gorm:"column:released_at" json:"released_at,omitempty"`
	DiscontinuedAt  *time.Time `gorm:"column:discontinued_at" json:"discontinued_at,omitempty"`

	// SearchVector is a generated tsvector over (model_number, product_line, description);
	// maintained by a migration-time trigger/generated column, never written directly.
	SearchVector string `gorm:"column:search_vector;type:tsvector;->" json:"-"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Product) TableName() string { return "product" }

// ProductVersionSnapshot is an append-only, immutable pre-image of a
// Product record, written in the same transaction as the mutation that
// incremented its version.
type ProductVersionSnapshot struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID" json:"-"`

	Version       int            `gorm:"column:version;not null" json:"version"`
	Record        datatypes.JSON `gorm:"type:jsonb;column:record;not null" json:"record"`
	ChangeSummary string         `gorm:"column:change_summary" json:"change_summary,omitempty"`
	ChangedBy     string         `gorm:"column:changed_by" json:"changed_by,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (ProductVersionSnapshot) TableName() string { return "product_version_snapshot" }

type ProductRelationshipKind string

const (
	RelationshipSupersedes    ProductRelationshipKind = "supersedes"
	RelationshipEquivalentTo  ProductRelationshipKind = "equivalent_to"
	RelationshipCompatibleWith ProductRelationshipKind = "compatible_with"
	RelationshipAccessoryFor  ProductRelationshipKind = "accessory_for"
	RelationshipVariantOf     ProductRelationshipKind = "variant_of"
	RelationshipRebrandOf     ProductRelationshipKind = "rebrand_of"
)

// Symmetric reports whether k is a relationship kind where cycles (source
// -> target and target -> source both present) are permitted.
func (k ProductRelationshipKind) Symmetric() bool {
	return k == RelationshipEquivalentTo || k == RelationshipCompatibleWith
}

// ProductRelationship is a directed edge between two products.
type ProductRelationship struct {
	ID           uuid.UUID               `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SourceID     uuid.UUID               `gorm:"type:uuid;not null;index:idx_relationship_source" json:"source_id"`
	Source       *Product                `gorm:"constraint:OnDelete:CASCADE;foreignKey:SourceID;references:ID" json:"-"`
	TargetID     uuid.UUID               `gorm:"type:uuid;not null;index:idx_relationship_target" json:"target_id"`
	Target       *Product                `gorm:"constraint:OnDelete:CASCADE;foreignKey:TargetID;references:ID" json:"-"`
	Kind         ProductRelationshipKind `gorm:"column:kind;not null;index" json:"kind"`
	Confidence   float64                 `gorm:"column:confidence;not null;default:1" json:"confidence"`
	AutoDetected bool                    `gorm:"column:auto_detected;not null;default:false" json:"auto_detected"`
	Notes        string                  `gorm:"column:notes" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ProductRelationship) TableName() string { return "product_relationship" }
