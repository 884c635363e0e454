package rawg

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"gameinsight/internal/http-api/models"
	"gameinsight/internal/http-api/repository"
)

const (
	// Transient storage errors get a couple of short retries before the
	// record is counted as failed.
	upsertRetries    = 2
	upsertRetryDelay = 500 * time.Millisecond
)

// SyncConfig carries the upstream and concurrency settings for the sync
// service. BaseURL may be empty to use the public API.
type SyncConfig struct {
	BaseURL     string
	APIKey      string
	PageSize    int
	WorkerCount int
}

// SyncService drives ingestion: it walks the upstream catalog (or an export
// file) one unit of work at a time, normalizes each record, and merges it
// into storage. A failing record never aborts its unit; a failing fetch
// truncates the unit and marks the run partially failed.
type SyncService struct {
	walker      *Walker
	games       *repository.GameRepo
	runs        *repository.RunRepo
	notifier    *Notifier
	workerCount int
}

func NewSyncService(cfg SyncConfig, db *gorm.DB, notifier *Notifier) *SyncService {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	client := NewClient(cfg.BaseURL, cfg.APIKey, cfg.PageSize)
	return &SyncService{
		walker:      NewWalker(client),
		games:       repository.NewGameRepo(db),
		runs:        repository.NewRunRepo(db),
		notifier:    notifier,
		workerCount: cfg.WorkerCount,
	}
}

// RunUnit executes one unit of work to completion and returns its report.
// The report is also persisted on the unit's ingestion_runs row (created on
// the fly for ad-hoc units that were never enqueued).
func (s *SyncService) RunUnit(ctx context.Context, unit UnitOfWork) *Report {
	report := &Report{
		RunID:     unit.RunID,
		Label:     unit.Label,
		Status:    models.RunStatusCompleted,
		StartedAt: time.Now().UTC(),
	}
	log.Printf("[Sync] starting unit %s", unit.Label)

	visit := func(raw json.RawMessage) error {
		if err := ctx.Err(); err != nil {
			return &FetchError{Kind: FetchCanceled, Err: err}
		}
		s.processRecord(ctx, raw, report)
		return nil
	}

	var err error
	if unit.FilePath != "" {
		err = s.walkFile(unit.FilePath, visit)
	} else {
		err = s.walker.Walk(ctx, unit.Query, visit)
	}
	if err != nil {
		report.Truncated = true
		report.Status = models.RunStatusPartiallyFailed
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			report.TruncatedAtPage = fetchErr.Page
		}
		report.Errors = append(report.Errors, RecordError{Stage: "fetch", Message: err.Error()})
		log.Printf("[Sync] unit %s truncated: %v", unit.Label, err)
	}

	report.FinishedAt = time.Now().UTC()
	s.persistReport(unit, report)
	s.notifier.NotifyRunFinished(report)
	log.Printf("[Sync] finished unit %s", report)
	return report
}

// RunUnits runs several units through the worker pool and collects their
// reports. Units are independent, so order of completion does not matter.
func (s *SyncService) RunUnits(ctx context.Context, units []UnitOfWork) []*Report {
	pool := NewWorkerPool(s.workerCount)
	pool.Start()
	defer pool.Shutdown()

	var mu sync.Mutex
	reports := make([]*Report, 0, len(units))

	for _, unit := range units {
		u := unit
		pool.Submit(func(taskCtx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rep := s.RunUnit(ctx, u)
			mu.Lock()
			reports = append(reports, rep)
			mu.Unlock()
			return nil
		})
	}
	pool.Wait()
	return reports
}

func (s *SyncService) walkFile(path string, visit func(json.RawMessage) error) error {
	records, err := LoadRawRecords(path)
	if err != nil {
		return err
	}
	for _, raw := range records {
		if err := visit(raw); err != nil {
			return err
		}
	}
	return nil
}

func (s *SyncService) processRecord(ctx context.Context, raw json.RawMessage, report *Report) {
	report.Attempted++

	rec, err := Normalize(raw)
	if err != nil {
		report.Failed++
		report.Errors = append(report.Errors, RecordError{Stage: "normalize", Message: err.Error()})
		log.Printf("[Sync] skipping record in %s: %v", report.Label, err)
		return
	}

	outcome, err := s.upsertWithRetry(ctx, rec)
	if err != nil {
		report.Failed++
		report.Errors = append(report.Errors, RecordError{Slug: rec.Slug, Stage: "upsert", Message: err.Error()})
		log.Printf("[Sync] upsert failed for %s: %v", rec.Slug, err)
		return
	}

	if outcome == repository.UpsertCreated {
		report.Created++
		s.notifier.NotifyNewGame(rec.Slug, rec.Name)
	} else {
		report.Updated++
	}
}

func (s *SyncService) upsertWithRetry(ctx context.Context, rec *models.GameRecord) (repository.UpsertOutcome, error) {
	var outcome repository.UpsertOutcome
	var err error
	for attempt := 0; ; attempt++ {
		outcome, err = s.games.Upsert(ctx, rec)
		if err == nil {
			return outcome, nil
		}
		if attempt >= upsertRetries || !repository.IsRetryable(err) {
			return outcome, err
		}
		log.Printf("[Sync] retrying upsert for %s after transient error: %v", rec.Slug, err)
		select {
		case <-time.After(upsertRetryDelay * time.Duration(attempt+1)):
		case <-ctx.Done():
			return outcome, ctx.Err()
		}
	}
}

// persistReport writes the final report onto the unit's run row, creating the
// row first when the unit was started directly rather than claimed from the
// queue. Persistence failures are logged, not propagated: the report is still
// returned to the caller.
func (s *SyncService) persistReport(unit UnitOfWork, report *Report) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reportJSON, err := report.JSON()
	if err != nil {
		log.Printf("[Sync] could not serialize report for %s: %v", unit.Label, err)
		return
	}

	if _, err := s.runs.GetByRunID(ctx, unit.RunID); err != nil {
		run := &models.IngestionRun{
			RunID:     unit.RunID,
			Label:     unit.Label,
			Source:    unit.Source,
			Status:    models.RunStatusRunning,
			StartedAt: &report.StartedAt,
		}
		if !unit.Query.DatesStart.IsZero() {
			run.WindowStart = &unit.Query.DatesStart
			run.WindowEnd = &unit.Query.DatesEnd
		}
		if err := s.runs.Create(ctx, run); err != nil {
			log.Printf("[Sync] could not record run %s: %v", unit.Label, err)
			return
		}
	}
	if err := s.runs.Finish(ctx, unit.RunID, report.Status, reportJSON); err != nil {
		log.Printf("[Sync] could not finish run %s: %v", unit.Label, err)
	}
}
