package transform

import (
	"context"
	"math"
	"sort"

	"github.com/okian/songplays/internal/domain/dedupe"
	"github.com/okian/songplays/internal/domain/model"
)

// lengthTolerance is the largest difference, in seconds, between an event
// length and a song duration for the two to be considered the same recording.
const lengthTolerance = 0.01

// Stats summarises a songplays join.
type Stats struct {
	Events     int // events after removing repeated rows
	Duplicates int // repeated event rows dropped
	Matched    int
	Unmatched  int
	Ambiguous  int // events with more than one candidate song
}

type joinKey struct {
	title, artist string
}

type candidate struct {
	songID, artistID string
	duration         float64
}

// catalog indexes songs by (title, artist name).
type catalog map[joinKey][]candidate

func newCatalog(songs []model.SongRecord) catalog {
	c := make(catalog, len(songs))
	seen := make(map[candidate]struct{}, len(songs))
	for _, s := range songs {
		cand := candidate{songID: s.SongID, artistID: s.ArtistID, duration: s.Duration}
		if _, ok := seen[cand]; ok {
			continue
		}
		seen[cand] = struct{}{}
		k := joinKey{title: s.Title, artist: s.ArtistName}
		c[k] = append(c[k], cand)
	}
	for k, cands := range c {
		sort.Slice(cands, func(i, j int) bool {
			if cands[i].songID != cands[j].songID {
				return cands[i].songID < cands[j].songID
			}
			if cands[i].artistID != cands[j].artistID {
				return cands[i].artistID < cands[j].artistID
			}
			return cands[i].duration < cands[j].duration
		})
		c[k] = cands
	}
	return c
}

// lookup resolves the song an event played. Null song or artist never
// match. Among several candidates the first one whose duration is within
// lengthTolerance of the event length wins, otherwise the lowest song id.
func (c catalog) lookup(e model.LogRecord) (candidate, int, bool) {
	if e.Song == nil || e.Artist == nil {
		return candidate{}, 0, false
	}
	cands := c[joinKey{title: *e.Song, artist: *e.Artist}]
	switch len(cands) {
	case 0:
		return candidate{}, 0, false
	case 1:
		return cands[0], 1, true
	}
	if e.Length != nil {
		for _, cand := range cands {
			if math.Abs(cand.duration-*e.Length) <= lengthTolerance {
				return cand, len(cands), true
			}
		}
	}
	return cands[0], len(cands), true
}

// SongPlays left-joins events to songs on (song, artist) = (title,
// artist_name) and projects the songplays table. Every distinct event
// yields exactly one row; unmatched events keep null song and artist ids.
// songplay_id runs from 0 in event order.
func SongPlays(ctx context.Context, events []model.LogRecord, songs []model.SongRecord, clock Clock) ([]model.SongPlay, Stats) {
	events, dropped := dedupe.Distinct(ctx, events)
	stats := Stats{Events: len(events), Duplicates: dropped}

	songsByKey := newCatalog(songs)
	rows := make([]model.SongPlay, 0, len(events))
	for i, e := range events {
		p := clock.Parts(e.TS)
		row := model.SongPlay{
			SongPlayID: int64(i),
			StartTime:  clock.StartTime(e.TS),
			UserID:     e.UserID,
			Level:      e.Level,
			SessionID:  e.SessionID,
			Location:   e.Location,
			UserAgent:  e.UserAgent,
			Year:       p.Year,
			Month:      p.Month,
		}
		if cand, n, ok := songsByKey.lookup(e); ok {
			songID, artistID := cand.songID, cand.artistID
			row.SongID = &songID
			row.ArtistID = &artistID
			stats.Matched++
			if n > 1 {
				stats.Ambiguous++
			}
		} else {
			stats.Unmatched++
		}
		rows = append(rows, row)
	}
	return rows, stats
}
