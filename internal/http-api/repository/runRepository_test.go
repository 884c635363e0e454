package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gameinsight/internal/http-api/models"
	"gameinsight/internal/http-api/repository"
)

func pendingRun(label string) *models.IngestionRun {
	start := time.Date(2014, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2014, 3, 31, 0, 0, 0, 0, time.UTC)
	return &models.IngestionRun{
		RunID:       uuid.New().String(),
		Label:       label,
		Source:      models.RunSourceAPI,
		WindowStart: &start,
		WindowEnd:   &end,
		Status:      models.RunStatusPending,
	}
}

func TestClaimNextPending_ClaimsOldestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewRunRepo(db)
	ctx := context.Background()

	first := pendingRun("first")
	require.NoError(t, repo.Create(ctx, first))
	time.Sleep(10 * time.Millisecond)
	second := pendingRun("second")
	require.NoError(t, repo.Create(ctx, second))

	claimed, err := repo.ClaimNextPending(ctx)
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, first.RunID, claimed.RunID)
	assert.Equal(t, models.RunStatusRunning, claimed.Status)
	assert.NotNil(t, claimed.StartedAt)

	// The claimed run is no longer visible to the next claim.
	next, err := repo.ClaimNextPending(ctx)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, second.RunID, next.RunID)

	none, err := repo.ClaimNextPending(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestFinish_AttachesReport(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewRunRepo(db)
	ctx := context.Background()

	run := pendingRun("finishing")
	require.NoError(t, repo.Create(ctx, run))

	reportJSON := `{"attempted": 10, "created": 9, "failed": 1}`
	require.NoError(t, repo.Finish(ctx, run.RunID, models.RunStatusCompleted, reportJSON))

	got, err := repo.GetByRunID(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, got.Status)
	require.NotNil(t, got.Report)
	assert.JSONEq(t, reportJSON, *got.Report)
	assert.NotNil(t, got.FinishedAt)
}

func TestListRuns_Paginates(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewRunRepo(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, pendingRun("run")))
	}

	page, total, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page, 2)

	last, _, err := repo.List(ctx, 3, 2)
	require.NoError(t, err)
	assert.Len(t, last, 1)
}
