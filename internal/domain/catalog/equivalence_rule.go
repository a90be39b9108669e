package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EquivalenceRule governs near-equivalent ranking and tolerance for a
// single family: which specs must match exactly, per-spec fractional
// tolerances, and a tiebreak ordering.
type EquivalenceRule struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FamilyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"family_id"`
	Family   *Family   `gorm:"constraint:OnDelete:CASCADE;foreignKey:FamilyID;references:ID" json:"-"`

	// RequiredMatch is a list of canonical spec names that must match exactly.
	RequiredMatch datatypes.JSON `gorm:"type:jsonb;column:required_match;default:'[]'" json:"required_match"`
	// ToleranceMap maps canonical spec name -> fractional tolerance override.
	ToleranceMap datatypes.JSON `gorm:"type:jsonb;column:tolerance_map;default:'{}'" json:"tolerance_map"`
	// PrioritySpecs is the tiebreak ordering for ranking near-equivalents.
	PrioritySpecs datatypes.JSON `gorm:"type:jsonb;column:priority_specs;default:'[]'" json:"priority_specs"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (EquivalenceRule) TableName() string { return "equivalence_rule" }

// ModelPattern is one row of the priority-ordered brand-model decoding
// table. The pattern table is the sole source of brand/model resolution.
type ModelPattern struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BrandID uuid.UUID `gorm:"type:uuid;not null;index" json:"brand_id"`
	Brand   *Brand    `gorm:"constraint:OnDelete:CASCADE;foreignKey:BrandID;references:ID" json:"-"`

	PatternRegex   string `gorm:"column:pattern_regex;type:text;not null" json:"pattern_regex"`
	FamilyCode     string `gorm:"column:family_code;not null" json:"family_code"`
	ProductLine    string `gorm:"column:product_line" json:"product_line,omitempty"`
	ControllerTier string `gorm:"column:controller_tier" json:"controller_tier,omitempty"`

	// FieldMap maps capture-group index (as string) -> canonical_name.
	FieldMap datatypes.JSON `gorm:"type:jsonb;column:field_map;default:'{}'" json:"field_map"`
	// ValueMap maps capture-group index (as string) -> {captured literal -> canonical enum value}.
	ValueMap datatypes.JSON `gorm:"type:jsonb;column:value_map;default:'{}'" json:"value_map"`

	Priority int  `gorm:"column:priority;not null;default:0;index" json:"priority"`
	IsActive bool `gorm:"column:is_active;not null;default:true;index" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ModelPattern) TableName() string { return "model_pattern" }
