package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/od-portal-api/internal/models"
)

// TimingRepository provides database access for period timings.
type TimingRepository struct {
	db *sqlx.DB
}

// NewTimingRepository creates a new instance of TimingRepository.
func NewTimingRepository(db *sqlx.DB) *TimingRepository {
	return &TimingRepository{db: db}
}

// ListByYear returns all period timings configured for a year.
func (r *TimingRepository) ListByYear(ctx context.Context, year int) ([]models.PeriodTiming, error) {
	const query = `SELECT year, period_number, start_time, end_time FROM year_period_timings WHERE year = $1 ORDER BY period_number ASC`
	var timings []models.PeriodTiming
	if err := r.db.SelectContext(ctx, &timings, query, year); err != nil {
		return nil, fmt.Errorf("list timings by year: %w", err)
	}
	return timings, nil
}

// CountByYearAndPeriods returns how many of the given period numbers have a
// timing row for the year. Used as an existence check when validating OD
// requests.
func (r *TimingRepository) CountByYearAndPeriods(ctx context.Context, year int, periods []int64) (int, error) {
	const query = `SELECT COUNT(*) FROM year_period_timings WHERE year = $1 AND period_number = ANY($2)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, year, pq.Int64Array(periods)); err != nil {
		return 0, fmt.Errorf("count timings: %w", err)
	}
	return count, nil
}

// UpsertMany writes the supplied timing rows, replacing start/end times on
// conflict. Each row is a single statement; there is no surrounding
// transaction, matching the one-row-per-call store model.
func (r *TimingRepository) UpsertMany(ctx context.Context, timings []models.PeriodTiming) error {
	const query = `INSERT INTO year_period_timings (year, period_number, start_time, end_time)
		VALUES (:year, :period_number, :start_time, :end_time)
		ON CONFLICT (year, period_number) DO UPDATE
		SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time`
	for i := range timings {
		if _, err := r.db.NamedExecContext(ctx, query, &timings[i]); err != nil {
			return fmt.Errorf("upsert timing %d/%d: %w", timings[i].Year, timings[i].PeriodNumber, err)
		}
	}
	return nil
}
