package dto

import (
	"encoding/json"
	"time"

	"gameinsight/internal/http-api/models"
)

// TriggerRunRequest enqueues an ingestion run for a release window.
// Dates use the YYYY-MM-DD layout.
type TriggerRunRequest struct {
	Label       string `json:"label,omitempty"`
	WindowStart string `json:"window_start" binding:"required"`
	WindowEnd   string `json:"window_end" binding:"required"`
}

type RunResponse struct {
	RunID       string          `json:"run_id"`
	Label       string          `json:"label"`
	Source      string          `json:"source"`
	WindowStart *string         `json:"window_start,omitempty"`
	WindowEnd   *string         `json:"window_end,omitempty"`
	Status      string          `json:"status"`
	Report      json.RawMessage `json:"report,omitempty"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	FinishedAt  *time.Time      `json:"finished_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func FromRunToResponse(r models.IngestionRun) RunResponse {
	resp := RunResponse{
		RunID:       r.RunID,
		Label:       r.Label,
		Source:      r.Source,
		WindowStart: formatDate(r.WindowStart),
		WindowEnd:   formatDate(r.WindowEnd),
		Status:      r.Status,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		CreatedAt:   r.CreatedAt,
	}
	if r.Report != nil {
		resp.Report = json.RawMessage(*r.Report)
	}
	return resp
}
