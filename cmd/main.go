package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/songplays/internal/adapters/objectstore"
	"github.com/okian/songplays/internal/adapters/parquet"
	app "github.com/okian/songplays/internal/app"
	"github.com/okian/songplays/internal/config"
	"github.com/okian/songplays/internal/domain/transform"
	"github.com/okian/songplays/pkg/logger"
	"github.com/okian/songplays/pkg/metrics"
)

const pushTimeout = 10 * time.Second

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return err
	}

	if cfg.LogFormat != "text" {
		if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
			os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
			return err
		}
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := cfg.ExportCredentials(); err != nil {
		log.Error(ctx, "failed to export credentials", logger.Error(err))
		return err
	}

	pipeline, err := newPipeline(cfg, log)
	if err != nil {
		log.Error(ctx, "invalid locations", logger.Error(err))
		return err
	}

	_, runErr := pipeline.Run(ctx)
	if runErr != nil {
		log.Error(ctx, "run failed", logger.String("runID", pipeline.RunID()), logger.Error(runErr))
	}

	// Push even failed runs so the error counters reach the gateway.
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
	defer cancel()
	if err := metrics.Push(pushCtx, cfg.PushgatewayURL, cfg.JobName, pipeline.RunID()); err != nil {
		log.Warn(ctx, "metrics push failed", logger.String("url", cfg.PushgatewayURL), logger.Error(err))
	}
	return runErr
}

func newPipeline(cfg *config.Config, log logger.Logger) (*app.Pipeline, error) {
	songData, err := objectstore.ParseLocation(cfg.SongData)
	if err != nil {
		return nil, err
	}
	logData, err := objectstore.ParseLocation(cfg.LogData)
	if err != nil {
		return nil, err
	}
	output, err := objectstore.ParseLocation(cfg.Output)
	if err != nil {
		return nil, err
	}

	storeOpts := []objectstore.Option{
		objectstore.WithRegion(cfg.AWS.Region),
		objectstore.WithEndpoint(cfg.AWS.Endpoint),
		objectstore.WithPathStyle(cfg.AWS.UsePathStyle),
	}
	return app.New(
		app.WithLogger(log),
		app.WithSource(songData, logData),
		app.WithOutput(output),
		app.WithFetchWorkers(cfg.FetchWorkers),
		app.WithClock(transform.NewClock(cfg.Location())),
		app.WithParquetOptions(
			parquet.WithParallelism(cfg.Parquet.Parallelism),
			parquet.WithRowGroupSize(cfg.Parquet.RowGroupSize),
			parquet.WithMaxFileRows(cfg.Parquet.MaxFileRows),
		),
		app.WithBucketOpener(func(ctx context.Context, loc objectstore.Location) (objectstore.Bucket, error) {
			return objectstore.Open(ctx, loc, storeOpts...)
		}),
	), nil
}
