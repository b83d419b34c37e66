package sampledata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/okian/songplays/internal/adapters/objectstore"
	"github.com/okian/songplays/internal/adapters/worker"
	"github.com/okian/songplays/pkg/logger"
)

// Dataset directory names under the output prefix.
const (
	SongDataDir = "song_data"
	LogDataDir  = "log_data"
)

// SongKey returns the key of a song document: song_data/A/B/C/TRABC....json,
// nested by the third to fifth characters of the track id.
func SongKey(prefix, trackID string) string {
	return path.Join(prefix, SongDataDir, trackID[2:3], trackID[3:4], trackID[4:5], trackID+".json")
}

// LogKey returns the key of a daily log file: log_data/YYYY-MM-DD-events.json.
func LogKey(prefix, date string) string {
	return path.Join(prefix, LogDataDir, date+"-events.json")
}

// Write stores ds under prefix: one JSON document per song and one JSON
// lines file per day.
func Write(ctx context.Context, b objectstore.Bucket, prefix string, ds Dataset, pool *worker.Pool) error {
	jobs := make([]worker.Job, 0, len(ds.Songs)+len(ds.Days))
	for _, s := range ds.Songs {
		jobs = append(jobs, func(ctx context.Context) error {
			body, err := json.Marshal(s.Record)
			if err != nil {
				return err
			}
			return put(ctx, b, SongKey(prefix, s.TrackID), body)
		})
	}
	for _, d := range ds.Days {
		jobs = append(jobs, func(ctx context.Context) error {
			var buf bytes.Buffer
			enc := json.NewEncoder(&buf)
			for _, e := range d.Events {
				if err := enc.Encode(e); err != nil {
					return err
				}
			}
			return put(ctx, b, LogKey(prefix, d.Date), buf.Bytes())
		})
	}

	if err := pool.Run(ctx, jobs); err != nil {
		return err
	}
	logger.Get().Named("sampledata").Info(ctx, "sample dataset written",
		logger.String("prefix", prefix),
		logger.Int("songs", len(ds.Songs)),
		logger.Int("days", len(ds.Days)))
	return nil
}

func put(ctx context.Context, b objectstore.Bucket, key string, body []byte) error {
	if err := b.Put(ctx, key, body); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, key, err)
	}
	return nil
}
