package rawg

import (
	"context"
	"log"
	"time"
)

// Monthly catch-up re-walks the current month's release window to pick up
// records the weekly delta missed.
const monthlyCatchUpInterval = 30 * 24 * time.Hour

// StartPollers launches the background ingestion loops: a weekly delta sync
// keyed on the upstream updated timestamp, a monthly catch-up over the
// current release window, and a claim loop that picks up runs enqueued as
// pending through the API. All stop when ctx is canceled.
func (s *SyncService) StartPollers(ctx context.Context, weeklyInterval, claimInterval time.Duration) {
	go s.weeklyLoop(ctx, weeklyInterval)
	go s.monthlyLoop(ctx)
	go s.claimLoop(ctx, claimInterval)
}

func (s *SyncService) weeklyLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Printf("[Sync] weekly delta poller started, interval %s", interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("[Sync] weekly delta poller stopped")
			return
		case <-ticker.C:
			s.RunUnit(ctx, WeekUnit(time.Now()))
		}
	}
}

func (s *SyncService) monthlyLoop(ctx context.Context) {
	ticker := time.NewTicker(monthlyCatchUpInterval)
	defer ticker.Stop()
	log.Printf("[Sync] monthly catch-up poller started, interval %s", monthlyCatchUpInterval)

	for {
		select {
		case <-ctx.Done():
			log.Println("[Sync] monthly catch-up poller stopped")
			return
		case <-ticker.C:
			now := time.Now().UTC()
			s.RunUnit(ctx, MonthUnit(now.Year(), now.Month()))
		}
	}
}

func (s *SyncService) claimLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Printf("[Sync] pending-run claim loop started, interval %s", interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("[Sync] pending-run claim loop stopped")
			return
		case <-ticker.C:
			s.drainPending(ctx)
		}
	}
}

// drainPending claims and runs every pending row currently in the queue.
// Claiming is a compare-and-set on the status column, so concurrent
// processes never execute the same run twice.
func (s *SyncService) drainPending(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		run, err := s.runs.ClaimNextPending(ctx)
		if err != nil {
			log.Printf("[Sync] claim failed: %v", err)
			return
		}
		if run == nil {
			return
		}
		log.Printf("[Sync] claimed pending run %s (%s)", run.Label, run.RunID)
		s.RunUnit(ctx, UnitFromRun(run))
	}
}

// BackfillUnits builds the month-sized (or year-sized, for the sparse early
// catalog) units covering the given inclusive year range. Years before 2000
// get one unit each; later years get one per month.
func BackfillUnits(startYear, endYear int) []UnitOfWork {
	var units []UnitOfWork
	for year := startYear; year <= endYear; year++ {
		if year < 2000 {
			units = append(units, YearUnit(year))
			continue
		}
		for month := time.January; month <= time.December; month++ {
			units = append(units, MonthUnit(year, month))
		}
	}
	return units
}
