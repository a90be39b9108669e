package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SpecDataType string

const (
	SpecDataTypeNumeric SpecDataType = "numeric"
	SpecDataTypeText    SpecDataType = "text"
	SpecDataTypeBoolean SpecDataType = "boolean"
	SpecDataTypeEnum    SpecDataType = "enum"
	SpecDataTypeRange   SpecDataType = "range"
	SpecDataTypeList    SpecDataType = "list"
)

type UnitSystem string

const (
	UnitSystemImperial UnitSystem = "imperial"
	UnitSystemMetric   UnitSystem = "metric"
	UnitSystemNone     UnitSystem = "none"
)

// SpecRegistryEntry is the source of truth for spec normalization: data
// type, unit, unit-conversion map, family scope, and filter/compare/search
// flags. canonical_name is the single write-key; synonyms only feed
// mapping and never rewrite existing product data.
type SpecRegistryEntry struct {
	ID             uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CanonicalName  string       `gorm:"column:canonical_name;uniqueIndex;not null" json:"canonical_name"`
	DisplayName    string       `gorm:"column:display_name;not null" json:"display_name"`
	DataType       SpecDataType `gorm:"column:data_type;not null" json:"data_type"`
	Unit           string       `gorm:"column:unit" json:"unit,omitempty"`
	UnitSystem     UnitSystem   `gorm:"column:unit_system;not null;default:none" json:"unit_system"`

	// FamilyScope is a set of family codes; an empty set matches every family.
	FamilyScope datatypes.JSON `gorm:"type:jsonb;column:family_scope;default:'[]'" json:"family_scope"`
	// Synonyms is a set of case-insensitive aliases resolved by the field mapper.
	Synonyms datatypes.JSON `gorm:"type:jsonb;column:synonyms;default:'[]'" json:"synonyms"`
	// UnitConversions maps an alternate-unit label to either a multiplicative
	// factor (number) or a named conversion function (string, e.g. "convert_f_to_c").
	UnitConversions datatypes.JSON `gorm:"type:jsonb;column:unit_conversions;default:'{}'" json:"unit_conversions"`
	// AllowedValues holds {values: [...]} for enums or {min, max} for numeric.
	AllowedValues datatypes.JSON `gorm:"type:jsonb;column:allowed_values;default:'{}'" json:"allowed_values"`

	IsFilterable   bool `gorm:"column:is_filterable;not null;default:false" json:"is_filterable"`
	IsComparable   bool `gorm:"column:is_comparable;not null;default:false" json:"is_comparable"`
	IsSearchable   bool `gorm:"column:is_searchable;not null;default:false" json:"is_searchable"`
	IsCritical     bool `gorm:"column:is_critical;not null;default:false" json:"is_critical"`
	SortOrder      int  `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	AutoDiscovered bool `gorm:"column:auto_discovered;not null;default:false" json:"auto_discovered"`
	Approved       bool `gorm:"column:approved;not null;default:true" json:"approved"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SpecRegistryEntry) TableName() string { return "spec_registry_entry" }
