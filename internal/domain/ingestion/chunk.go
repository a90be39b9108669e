package ingestion

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChunkType string

const (
	ChunkTypeText            ChunkType = "text"
	ChunkTypeTable           ChunkType = "table"
	ChunkTypeSpecBlock       ChunkType = "spec_block"
	ChunkTypeHeader          ChunkType = "header"
	ChunkTypePerformanceData ChunkType = "performance_data"
	ChunkTypeDimensional     ChunkType = "dimensional"
	ChunkTypeDescription     ChunkType = "description"
)

// Chunk is a retrieval-unit slice of a document's text. (document_id,
// chunk_index) is unique and stable across re-indexing of the same bytes.
type Chunk struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chunk_document_index,priority:1" json:"document_id"`
	Document   *Document `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"-"`
	ChunkIndex int       `gorm:"column:chunk_index;not null;uniqueIndex:idx_chunk_document_index,priority:2" json:"chunk_index"`

	Content       string    `gorm:"column:content;type:text;not null" json:"content"`
	ChunkType     ChunkType `gorm:"column:chunk_type;not null;index" json:"chunk_type"`
	PageNumber    *int      `gorm:"column:page_number" json:"page_number,omitempty"`
	SectionTitle  string    `gorm:"column:section_title" json:"section_title,omitempty"`

	// ProductIDs is the set of product IDs this chunk is evidence for.
	ProductIDs datatypes.JSON `gorm:"type:jsonb;column:product_ids;default:'[]';index:idx_chunk_product_ids,type:gin" json:"product_ids"`
	// SpecNames is the set of canonical spec names this chunk mentions.
	SpecNames datatypes.JSON `gorm:"type:jsonb;column:spec_names;default:'[]'" json:"spec_names"`

	// Embedding is a fixed-dimension float32 vector, or null when the
	// embedding provider permanently failed on this chunk (degraded retrieval).
	Embedding  datatypes.JSON `gorm:"type:jsonb;column:embedding" json:"embedding,omitempty"`
	EmbedDim   int            `gorm:"column:embed_dim;not null;default:0" json:"embed_dim"`
	TokenCount int            `gorm:"column:token_count;not null;default:0" json:"token_count"`

	// ContentTSV is a generated tsvector over content for lexical search.
	ContentTSV string `gorm:"column:content_tsv;type:tsvector;->" json:"-"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Chunk) TableName() string { return "chunk" }
