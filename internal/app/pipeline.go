// Package service runs the songplays ETL: it reads the song and log
// datasets, derives the star schema and writes it as parquet.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/songplays/internal/adapters/objectstore"
	"github.com/okian/songplays/internal/adapters/parquet"
	"github.com/okian/songplays/internal/adapters/source"
	"github.com/okian/songplays/internal/adapters/worker"
	"github.com/okian/songplays/internal/domain/transform"
	"github.com/okian/songplays/pkg/logger"
	"github.com/okian/songplays/pkg/metrics"
)

// Stage names used in logs and metrics.
const (
	StageSongData = "song_data"
	StageLogData  = "log_data"
)

type openBucket struct {
	loc    objectstore.Location
	bucket objectstore.Bucket
}

// BucketOpener returns the bucket a location lives in.
type BucketOpener func(ctx context.Context, loc objectstore.Location) (objectstore.Bucket, error)

// Pipeline runs the two ETL stages.
type Pipeline struct {
	mu sync.Mutex

	songData objectstore.Location
	logData  objectstore.Location
	output   objectstore.Location

	open         BucketOpener
	fetchWorkers int
	clock        transform.Clock
	runID        string
	parquetOpts  []parquet.Option

	logger  logger.Logger
	metrics *metrics.Manager

	buckets []openBucket
	report  Report
}

// New constructs a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		open: func(ctx context.Context, loc objectstore.Location) (objectstore.Bucket, error) {
			return objectstore.Open(ctx, loc)
		},
		clock: transform.NewClock(time.UTC),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("pipeline")
	}
	if p.metrics == nil {
		p.metrics = metrics.Default()
	}
	if p.runID == "" {
		p.runID = uuid.NewString()
	}
	p.report.RunID = p.runID
	return p
}

// RunID returns the identifier of this run.
func (p *Pipeline) RunID() string { return p.runID }

// Run processes the song data then the log data. The first failure aborts
// the run; tables written before it are left in place.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	p.logger.Info(ctx, "run started",
		logger.String("runID", p.runID),
		logger.String("songData", p.songData.String()),
		logger.String("logData", p.logData.String()),
		logger.String("output", p.output.String()))

	if err := p.ProcessSongData(ctx); err != nil {
		return p.Report(), err
	}
	if err := p.ProcessLogData(ctx); err != nil {
		return p.Report(), err
	}

	p.mu.Lock()
	p.report.Elapsed = time.Since(start)
	p.mu.Unlock()
	p.metrics.MarkSuccess(time.Now())

	report := p.Report()
	p.logger.Info(ctx, "run finished",
		logger.String("runID", p.runID),
		logger.Int("songs", report.Songs),
		logger.Int("plays", report.Plays),
		logger.Int("unmatched", report.Unmatched),
		logger.Duration("elapsed", report.Elapsed))
	return report, nil
}

// ProcessSongData writes the songs and artists tables.
func (p *Pipeline) ProcessSongData(ctx context.Context) error {
	return p.stage(ctx, StageSongData, func(ctx context.Context) error {
		in, err := p.bucket(ctx, p.songData)
		if err != nil {
			return err
		}
		out, err := p.bucket(ctx, p.output)
		if err != nil {
			return err
		}

		songs, err := p.reader().ReadSongs(ctx, in, p.songData.Path)
		if err != nil {
			return err
		}
		p.mu.Lock()
		p.report.Songs = len(songs)
		p.mu.Unlock()

		tracks, dropped := transform.Tracks(ctx, songs)
		if err := writeTable(ctx, p, out, songsTable, tracks, dropped); err != nil {
			return err
		}

		artists, dropped := transform.Artists(ctx, songs)
		return writeTable(ctx, p, out, artistsTable, artists, dropped)
	})
}

// ProcessLogData writes the users, time and songplays tables. Song data is
// read again for the join.
func (p *Pipeline) ProcessLogData(ctx context.Context) error {
	return p.stage(ctx, StageLogData, func(ctx context.Context) error {
		logIn, err := p.bucket(ctx, p.logData)
		if err != nil {
			return err
		}
		songIn, err := p.bucket(ctx, p.songData)
		if err != nil {
			return err
		}
		out, err := p.bucket(ctx, p.output)
		if err != nil {
			return err
		}

		r := p.reader()
		events, err := r.ReadLogs(ctx, logIn, p.logData.Path)
		if err != nil {
			return err
		}
		plays := transform.FilterSongPlays(events, transform.ActionNextSong)
		p.logger.Debug(ctx, "events filtered",
			logger.Int("events", len(events)),
			logger.Int("plays", len(plays)))

		users, dropped := transform.Users(ctx, plays)
		if err := writeTable(ctx, p, out, usersTable, users, dropped); err != nil {
			return err
		}

		buckets, dropped := transform.TimeBuckets(ctx, plays, p.clock)
		if err := writeTable(ctx, p, out, timeTable, buckets, dropped); err != nil {
			return err
		}

		songs, err := r.ReadSongs(ctx, songIn, p.songData.Path)
		if err != nil {
			return err
		}
		rows, stats := transform.SongPlays(ctx, plays, songs, p.clock)
		p.metrics.RecordUnmatchedPlays(stats.Unmatched)
		if stats.Ambiguous > 0 {
			p.logger.Warn(ctx, "plays matched several songs",
				logger.Int("ambiguous", stats.Ambiguous))
		}

		p.mu.Lock()
		p.report.Events = len(events)
		p.report.Plays = len(plays)
		p.report.Matched = stats.Matched
		p.report.Unmatched = stats.Unmatched
		p.report.Ambiguous = stats.Ambiguous
		p.mu.Unlock()

		return writeTable(ctx, p, out, songPlaysTable, rows, stats.Duplicates)
	})
}

// Report returns a snapshot of what the pipeline has done so far.
func (p *Pipeline) Report() Report {
	p.mu.Lock()
	defer p.mu.Unlock()
	r := p.report
	r.Tables = append([]TableReport(nil), p.report.Tables...)
	return r
}

func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	p.logger.Info(ctx, "stage started", logger.String("stage", name))

	err := fn(ctx)
	elapsed := time.Since(start)
	p.metrics.RecordStage(name, elapsed, err)
	if err != nil {
		p.logger.Error(ctx, "stage failed",
			logger.String("stage", name),
			logger.Error(err),
			logger.Duration("elapsed", elapsed))
		return fmt.Errorf("%w: %s: %w", ErrStage, name, err)
	}

	p.logger.Info(ctx, "stage finished",
		logger.String("stage", name),
		logger.Duration("elapsed", elapsed))
	return nil
}

// bucket opens the bucket of loc once and reuses it.
func (p *Pipeline) bucket(ctx context.Context, loc objectstore.Location) (objectstore.Bucket, error) {
	if loc == (objectstore.Location{}) {
		return nil, ErrMissingLocation
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ob := range p.buckets {
		if ob.loc.Same(loc) {
			return ob.bucket, nil
		}
	}
	b, err := p.open(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", loc, err)
	}
	p.buckets = append(p.buckets, openBucket{loc: loc, bucket: b})
	return b, nil
}

func (p *Pipeline) reader() *source.Reader {
	return source.NewReader(
		source.WithPool(worker.NewPool(p.fetchWorkers, worker.WithName("fetch"), worker.WithLogger(p.logger))),
		source.WithLogger(p.logger),
		source.WithMetrics(p.metrics),
	)
}

func writeTable[T any](ctx context.Context, p *Pipeline, b objectstore.Bucket, table parquet.Table[T], rows []T, dropped int) error {
	opts := append([]parquet.Option{
		parquet.WithJobID(p.runID),
		parquet.WithLogger(p.logger),
	}, p.parquetOpts...)

	res, err := parquet.WriteTable(ctx, b, p.output.Path, table, rows, opts...)
	if err != nil {
		return err
	}
	p.metrics.RecordDuplicates(table.Name, dropped)
	p.metrics.RecordWrite(table.Name, len(res.Files), res.Rows)

	p.mu.Lock()
	p.report.Tables = append(p.report.Tables, TableReport{
		Name:       table.Name,
		Rows:       res.Rows,
		Files:      len(res.Files),
		Duplicates: dropped,
	})
	p.mu.Unlock()
	return nil
}
