package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"gameinsight/internal/http-api/models"
	"gameinsight/internal/http-api/repository"
)

var ErrInvalidWindow = errors.New("window_start must not be after window_end")

type IngestionService interface {
	// Trigger enqueues a pending run covering the given release window. The
	// background claim loop picks it up; the call returns immediately.
	Trigger(ctx context.Context, label string, windowStart, windowEnd time.Time) (*models.IngestionRun, error)
	ListRuns(ctx context.Context, page, pageSize int) ([]models.IngestionRun, int64, error)
	GetRun(ctx context.Context, runID string) (*models.IngestionRun, error)
}

type ingestionService struct {
	runs *repository.RunRepo
}

func NewIngestionService(runs *repository.RunRepo) IngestionService {
	return &ingestionService{runs: runs}
}

func (s *ingestionService) Trigger(ctx context.Context, label string, windowStart, windowEnd time.Time) (*models.IngestionRun, error) {
	if windowStart.After(windowEnd) {
		return nil, ErrInvalidWindow
	}
	if label == "" {
		label = "manual-" + windowStart.Format("2006-01-02")
	}

	run := &models.IngestionRun{
		RunID:       uuid.New().String(),
		Label:       label,
		Source:      models.RunSourceAPI,
		WindowStart: &windowStart,
		WindowEnd:   &windowEnd,
		Status:      models.RunStatusPending,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *ingestionService) ListRuns(ctx context.Context, page, pageSize int) ([]models.IngestionRun, int64, error) {
	return s.runs.List(ctx, page, pageSize)
}

func (s *ingestionService) GetRun(ctx context.Context, runID string) (*models.IngestionRun, error) {
	return s.runs.GetByRunID(ctx, runID)
}
