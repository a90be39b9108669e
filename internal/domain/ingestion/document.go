package ingestion

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/labcold/catalog/internal/domain/catalog"
)

type DocType string

const (
	DocTypeProductDataSheet     DocType = "product_data_sheet"
	DocTypeCutSheet             DocType = "cut_sheet"
	DocTypeFeatureList          DocType = "feature_list"
	DocTypePerformanceDataSheet DocType = "performance_data_sheet"
	DocTypeDimensionalDrawing   DocType = "dimensional_drawing"
	DocTypeProductImage         DocType = "product_image"
	DocTypeSelectionGuide       DocType = "selection_guide"
	DocTypeInstallManual        DocType = "install_manual"
	DocTypeMarketing            DocType = "marketing"
	DocTypeCatalog              DocType = "catalog"
	DocTypeOther                DocType = "other"
)

type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "pending"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusProcessed  DocumentStatus = "processed"
	DocumentStatusFailed     DocumentStatus = "failed"
	DocumentStatusSuperseded DocumentStatus = "superseded"
	DocumentStatusQuarantined DocumentStatus = "quarantined"
)

// ProcessingLogEntry is one ordered entry in Document.ProcessingLog.
type ProcessingLogEntry struct {
	Stage     string    `json:"stage"`
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Document is one uploaded piece of product literature. checksum_sha256 is
// the idempotency key: a second upload of identical bytes is a no-op that
// returns the existing document.
type Document struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Filename string    `gorm:"column:filename;not null" json:"filename"`
	DocType  DocType   `gorm:"column:doc_type;not null;index" json:"doc_type"`
	MimeType string    `gorm:"column:mime_type;not null" json:"mime_type"`
	SourceURI string   `gorm:"column:source_uri" json:"source_uri,omitempty"`

	ChecksumSHA256 string `gorm:"column:checksum_sha256;uniqueIndex;not null" json:"checksum_sha256"`
	PageCount      int    `gorm:"column:page_count;not null;default:0" json:"page_count"`
	ExtractedText  string `gorm:"column:extracted_text;type:text" json:"extracted_text,omitempty"`
	FileSizeBytes  int64  `gorm:"column:file_size_bytes;not null;default:0" json:"file_size_bytes"`

	BrandID *uuid.UUID     `gorm:"type:uuid;index" json:"brand_id,omitempty"`
	Brand   *catalog.Brand `gorm:"constraint:OnDelete:SET NULL;foreignKey:BrandID;references:ID" json:"-"`

	Status DocumentStatus `gorm:"column:status;not null;default:pending;index" json:"status"`
	// ProcessingLog is an ordered []ProcessingLogEntry.
	ProcessingLog datatypes.JSON `gorm:"type:jsonb;column:processing_log;default:'[]'" json:"processing_log"`
	Revision      string         `gorm:"column:revision" json:"revision,omitempty"`

	UploadedByCallerID string `gorm:"column:uploaded_by_caller_id" json:"uploaded_by_caller_id,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Document) TableName() string { return "document" }

type DocumentRelevance string

const (
	RelevancePrimary   DocumentRelevance = "primary"
	RelevanceMentioned DocumentRelevance = "mentioned"
	RelevanceAccessory DocumentRelevance = "accessory"
	RelevanceRelated   DocumentRelevance = "related"
)

// DocumentProductLink is the provenance edge consulted by the Conflict
// Engine: which specs, extracted from which document, are attributed to
// which product.
type DocumentProductLink struct {
	DocumentID uuid.UUID       `gorm:"type:uuid;primaryKey" json:"document_id"`
	Document   *Document       `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"-"`
	ProductID  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"product_id"`
	Product    *catalog.Product `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID" json:"-"`

	Relevance DocumentRelevance `gorm:"column:relevance;not null;default:primary" json:"relevance"`
	// ExtractedSpecs is the canonical_name -> value map attributed to this
	// product from this document.
	ExtractedSpecs datatypes.JSON `gorm:"type:jsonb;column:extracted_specs;default:'{}'" json:"extracted_specs"`
	Confidence     float64        `gorm:"column:confidence;not null;default:1" json:"confidence"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (DocumentProductLink) TableName() string { return "document_product_link" }
