package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Brand is a static, curated taxonomic axis for products.
type Brand struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code string    `gorm:"column:code;uniqueIndex;not null" json:"code"`
	Name string    `gorm:"column:name;not null" json:"name"`

	ParentOrg string `gorm:"column:parent_org" json:"parent_org,omitempty"`
	IsActive  bool   `gorm:"column:is_active;not null;default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Brand) TableName() string { return "brand" }

type FamilySuperCategory string

const (
	SuperCategoryRefrigerator FamilySuperCategory = "refrigerator"
	SuperCategoryFreezer      FamilySuperCategory = "freezer"
	SuperCategoryCryogenic    FamilySuperCategory = "cryogenic"
	SuperCategoryAccessory    FamilySuperCategory = "accessory"
)

// Family is a static, curated taxonomic axis for products.
type Family struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code          string              `gorm:"column:code;uniqueIndex;not null" json:"code"`
	SuperCategory FamilySuperCategory `gorm:"column:super_category;not null" json:"super_category"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Family) TableName() string { return "family" }
