package models

import "time"

// Ingestion run statuses. A run is created pending (by the trigger API or a
// CLI), claimed to running by the sync service, and finished as completed or
// partially_failed.
const (
	RunStatusPending         = "pending"
	RunStatusRunning         = "running"
	RunStatusCompleted       = "completed"
	RunStatusPartiallyFailed = "partially_failed"
)

// Ingestion sources.
const (
	RunSourceAPI  = "api"
	RunSourceFile = "file"
)

type IngestionRun struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	RunID       string     `json:"run_id" gorm:"type:uuid;uniqueIndex;not null"`
	Label       string     `json:"label" gorm:"not null"`
	Source      string     `json:"source" gorm:"default:'api';not null"`
	WindowStart *time.Time `json:"window_start,omitempty"`
	WindowEnd   *time.Time `json:"window_end,omitempty"`
	Status      string     `json:"status" gorm:"default:'pending';not null;index"`
	Report      *string    `json:"report,omitempty" gorm:"type:jsonb"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (IngestionRun) TableName() string {
	return "ingestion_runs"
}
