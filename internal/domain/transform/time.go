package transform

import (
	"context"

	"github.com/okian/songplays/internal/domain/dedupe"
	"github.com/okian/songplays/internal/domain/model"
)

// TimeBuckets derives one time row per distinct start time. Events within
// the same second collapse to a single row.
func TimeBuckets(ctx context.Context, events []model.LogRecord, clock Clock) ([]model.TimeBucket, int) {
	rows := make([]model.TimeBucket, 0, len(events))
	for _, e := range events {
		p := clock.Parts(e.TS)
		rows = append(rows, model.TimeBucket{
			StartTime: clock.StartTime(e.TS),
			Hour:      p.Hour,
			Day:       p.Day,
			Week:      p.Week,
			Month:     p.Month,
			Year:      p.Year,
		})
	}
	return dedupe.Distinct(ctx, rows)
}
