package rawg

import (
	"encoding/json"
	"fmt"
	"time"
)

// RecordError is one recorded failure inside a unit of work.
type RecordError struct {
	Slug    string `json:"slug,omitempty"`
	Stage   string `json:"stage"` // fetch, normalize, upsert
	Message string `json:"message"`
}

// Report summarizes one finished unit of work. It is what the orchestrator
// hands back to callers and what gets serialized into the ingestion_runs row.
type Report struct {
	RunID           string        `json:"run_id"`
	Label           string        `json:"label"`
	Attempted       int           `json:"attempted"`
	Created         int           `json:"created"`
	Updated         int           `json:"updated"`
	Failed          int           `json:"failed"`
	Truncated       bool          `json:"truncated"`
	TruncatedAtPage int           `json:"truncated_at_page,omitempty"`
	Errors          []RecordError `json:"errors,omitempty"`
	Status          string        `json:"status"`
	StartedAt       time.Time     `json:"started_at"`
	FinishedAt      time.Time     `json:"finished_at"`
}

// JSON serializes the report for storage and logging.
func (r *Report) JSON() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}

func (r *Report) String() string {
	return fmt.Sprintf("%s [%s]: attempted=%d created=%d updated=%d failed=%d status=%s",
		r.Label, r.RunID, r.Attempted, r.Created, r.Updated, r.Failed, r.Status)
}
