package rawg

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"gameinsight/internal/http-api/models"
)

// UnitOfWork is one self-contained slice of the catalog to ingest: a release
// window, an updated-since window, or a pre-fetched export file. Units are
// independent so they can run concurrently or be retried in isolation.
type UnitOfWork struct {
	RunID    string
	Label    string
	Source   string
	Query    GameQuery
	FilePath string // non-empty: read records from a JSON export instead of the API
}

// MonthUnit covers all games released in one calendar month.
func MonthUnit(year int, month time.Month) UnitOfWork {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return UnitOfWork{
		RunID:  uuid.New().String(),
		Label:  fmt.Sprintf("backfill-%04d-%02d", year, month),
		Source: models.RunSourceAPI,
		Query:  GameQuery{DatesStart: start, DatesEnd: end},
	}
}

// YearUnit covers all games released in one calendar year. Useful for the
// sparse early years where a month-sized unit is mostly empty pages.
func YearUnit(year int) UnitOfWork {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return UnitOfWork{
		RunID:  uuid.New().String(),
		Label:  fmt.Sprintf("backfill-%04d", year),
		Source: models.RunSourceAPI,
		Query:  GameQuery{DatesStart: start, DatesEnd: end},
	}
}

// WeekUnit covers everything the upstream catalog touched in the last seven
// days, keyed on the updated timestamp rather than the release date.
func WeekUnit(now time.Time) UnitOfWork {
	end := now.UTC()
	start := end.AddDate(0, 0, -7)
	return UnitOfWork{
		RunID:  uuid.New().String(),
		Label:  fmt.Sprintf("weekly-%s", end.Format("2006-01-02")),
		Source: models.RunSourceAPI,
		Query:  GameQuery{UpdatedStart: start, UpdatedEnd: end},
	}
}

// FileUnit ingests a previously exported JSON array of raw game records.
func FileUnit(path string) UnitOfWork {
	return UnitOfWork{
		RunID:    uuid.New().String(),
		Label:    fmt.Sprintf("file-%s", time.Now().UTC().Format("2006-01-02")),
		Source:   models.RunSourceFile,
		FilePath: path,
	}
}

// UnitFromRun reconstructs the unit of work described by a persisted run row,
// so a pending run enqueued through the API can be claimed and executed later.
func UnitFromRun(run *models.IngestionRun) UnitOfWork {
	unit := UnitOfWork{
		RunID:  run.RunID,
		Label:  run.Label,
		Source: run.Source,
	}
	if run.WindowStart != nil && run.WindowEnd != nil {
		unit.Query = GameQuery{DatesStart: *run.WindowStart, DatesEnd: *run.WindowEnd}
	}
	return unit
}
