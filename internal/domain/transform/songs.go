// Package transform derives the star schema tables from the raw song
// metadata and activity events.
package transform

import (
	"context"

	"github.com/okian/songplays/internal/domain/dedupe"
	"github.com/okian/songplays/internal/domain/model"
)

// Tracks projects song records to the songs table and drops repeated rows.
func Tracks(ctx context.Context, songs []model.SongRecord) ([]model.Track, int) {
	rows := make([]model.Track, 0, len(songs))
	for _, s := range songs {
		rows = append(rows, model.Track{
			SongID:   s.SongID,
			Title:    s.Title,
			ArtistID: s.ArtistID,
			Year:     s.Year,
			Duration: s.Duration,
		})
	}
	return dedupe.Distinct(ctx, rows)
}

// Artists projects song records to the artists table and drops repeated rows.
// An artist whose location or coordinates differ between songs yields one
// row per variant.
func Artists(ctx context.Context, songs []model.SongRecord) ([]model.Artist, int) {
	rows := make([]model.Artist, 0, len(songs))
	for _, s := range songs {
		rows = append(rows, model.Artist{
			ArtistID:  s.ArtistID,
			Name:      s.ArtistName,
			Location:  s.ArtistLocation,
			Latitude:  s.ArtistLatitude,
			Longitude: s.ArtistLongitude,
		})
	}
	return dedupe.Distinct(ctx, rows)
}
