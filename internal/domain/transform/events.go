package transform

import (
	"context"

	"github.com/okian/songplays/internal/domain/dedupe"
	"github.com/okian/songplays/internal/domain/model"
)

// ActionNextSong is the page value logged when a song starts playing.
const ActionNextSong = "NextSong"

// FilterSongPlays keeps the events whose page equals action, in input order.
func FilterSongPlays(events []model.LogRecord, action string) []model.LogRecord {
	out := make([]model.LogRecord, 0, len(events))
	for _, e := range events {
		if e.Page == action {
			out = append(out, e)
		}
	}
	return out
}

// Users projects events to the users table and drops repeated rows.
// A user whose level changed over time yields one row per level.
func Users(ctx context.Context, events []model.LogRecord) ([]model.User, int) {
	rows := make([]model.User, 0, len(events))
	for _, e := range events {
		rows = append(rows, model.User{
			UserID:    e.UserID,
			FirstName: e.FirstName,
			LastName:  e.LastName,
			Gender:    e.Gender,
			Level:     e.Level,
		})
	}
	return dedupe.Distinct(ctx, rows)
}
