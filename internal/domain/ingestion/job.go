package ingestion

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// IngestionJob aggregates the counters and status of one ingestion upload
// call, which may cover many files.
type IngestionJob struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Status JobStatus `gorm:"column:status;not null;default:queued;index" json:"status"`

	TotalFiles     int `gorm:"column:total_files;not null;default:0" json:"total_files"`
	AcceptedFiles  int `gorm:"column:accepted_files;not null;default:0" json:"accepted_files"`
	RejectedFiles  int `gorm:"column:rejected_files;not null;default:0" json:"rejected_files"`
	ProcessedFiles int `gorm:"column:processed_files;not null;default:0" json:"processed_files"`
	FailedFiles    int `gorm:"column:failed_files;not null;default:0" json:"failed_files"`
	NewProducts    int `gorm:"column:new_products;not null;default:0" json:"new_products"`
	UpdatedProducts int `gorm:"column:updated_products;not null;default:0" json:"updated_products"`
	NewConflicts   int `gorm:"column:new_conflicts;not null;default:0" json:"new_conflicts"`

	CallerID string `gorm:"column:caller_id" json:"caller_id,omitempty"`

	Metadata datatypes.JSON `gorm:"type:jsonb;column:metadata;default:'{}'" json:"metadata"`

	StartedAt   *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (IngestionJob) TableName() string { return "ingestion_job" }

// AuditLogEntry is append-only and immutable once written; the storage
// layer enforces this with a trigger that rejects UPDATE/DELETE (see
// internal/data/db/migrate.go).
type AuditLogEntry struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	EntityType string     `gorm:"column:entity_type;not null;index:idx_audit_entity" json:"entity_type"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_audit_entity" json:"entity_id"`
	Action     string     `gorm:"column:action;not null" json:"action"`

	CallerID string `gorm:"column:caller_id" json:"caller_id,omitempty"`
	Role     string `gorm:"column:role" json:"role,omitempty"`

	Detail datatypes.JSON `gorm:"type:jsonb;column:detail;default:'{}'" json:"detail"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (AuditLogEntry) TableName() string { return "audit_log_entry" }
