package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gameinsight/internal/http-api/models"

	"gorm.io/gorm"
)

// RunRepo persists ingestion run state: pending runs waiting for the sync
// service, running claims, and finished runs with their serialized reports.
type RunRepo struct {
	db *gorm.DB
}

func NewRunRepo(db *gorm.DB) *RunRepo {
	return &RunRepo{db: db}
}

func (r *RunRepo) Create(ctx context.Context, run *models.IngestionRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("create ingestion run: %w", err)
	}
	return nil
}

// ClaimNextPending atomically claims the oldest pending run. The claim is an
// optimistic compare-and-set on the status column, so two sync workers never
// pick up the same run. Returns nil without error when nothing is pending.
func (r *RunRepo) ClaimNextPending(ctx context.Context) (*models.IngestionRun, error) {
	for {
		var run models.IngestionRun
		err := r.db.WithContext(ctx).
			Where("status = ?", models.RunStatusPending).
			Order("created_at asc").
			First(&run).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("find pending run: %w", err)
		}

		now := time.Now()
		res := r.db.WithContext(ctx).
			Model(&models.IngestionRun{}).
			Where("id = ? AND status = ?", run.ID, models.RunStatusPending).
			Updates(map[string]interface{}{
				"status":     models.RunStatusRunning,
				"started_at": now,
			})
		if res.Error != nil {
			return nil, fmt.Errorf("claim run %s: %w", run.RunID, res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost the race to another worker, try the next pending run
			continue
		}

		run.Status = models.RunStatusRunning
		run.StartedAt = &now
		return &run, nil
	}
}

// MarkRunning flips a run to running when execution starts outside the claim
// loop (direct CLI triggers).
func (r *RunRepo) MarkRunning(ctx context.Context, runID string) error {
	now := time.Now()
	err := r.db.WithContext(ctx).
		Model(&models.IngestionRun{}).
		Where("run_id = ?", runID).
		Updates(map[string]interface{}{
			"status":     models.RunStatusRunning,
			"started_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("mark run %s running: %w", runID, err)
	}
	return nil
}

// Finish records the terminal status and the serialized report.
func (r *RunRepo) Finish(ctx context.Context, runID, status, reportJSON string) error {
	now := time.Now()
	err := r.db.WithContext(ctx).
		Model(&models.IngestionRun{}).
		Where("run_id = ?", runID).
		Updates(map[string]interface{}{
			"status":      status,
			"report":      reportJSON,
			"finished_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	return nil
}

func (r *RunRepo) GetByRunID(ctx context.Context, runID string) (*models.IngestionRun, error) {
	var run models.IngestionRun
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *RunRepo) List(ctx context.Context, page, pageSize int) ([]models.IngestionRun, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.IngestionRun{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count runs: %w", err)
	}

	offset := (page - 1) * pageSize
	var list []models.IngestionRun
	if err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list runs: %w", err)
	}

	return list, total, nil
}
