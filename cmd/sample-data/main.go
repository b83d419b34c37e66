package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/songplays/internal/adapters/objectstore"
	"github.com/okian/songplays/internal/adapters/worker"
	"github.com/okian/songplays/internal/sampledata"
	"github.com/okian/songplays/pkg/logger"
)

func main() {
	var (
		out     = flag.String("out", "file://data", "Location to write song_data/ and log_data/ under (file:// or s3://)")
		songs   = flag.Int("songs", sampledata.DefaultSongs, "Number of song documents")
		events  = flag.Int("events", sampledata.DefaultEvents, "Number of log events")
		days    = flag.Int("days", sampledata.DefaultDays, "Number of daily log files")
		seed    = flag.Uint64("seed", sampledata.DefaultSeed, "Random seed")
		workers = flag.Int("workers", 0, "Concurrent writes (default CPU cores * 4)")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := sampledata.DefaultConfig()
	cfg.Songs, cfg.Events, cfg.Days, cfg.Seed = *songs, *events, *days, *seed

	if err := generate(ctx, *out, cfg, worker.NewPool(*workers)); err != nil {
		log.Error(ctx, "sample data generation failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func generate(ctx context.Context, out string, cfg sampledata.Config, pool *worker.Pool) error {
	loc, err := objectstore.ParseLocation(out)
	if err != nil {
		return err
	}
	b, err := objectstore.Open(ctx, loc)
	if err != nil {
		return err
	}
	ds, err := sampledata.Generate(cfg)
	if err != nil {
		return err
	}
	return sampledata.Write(ctx, b, loc.Path, ds, pool)
}
