package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/okian/songplays/internal/adapters/objectstore"
	"github.com/okian/songplays/internal/adapters/worker"
	"github.com/okian/songplays/internal/config"
	"github.com/okian/songplays/internal/sampledata"
	"github.com/okian/songplays/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// setupDataset writes a small sample dataset and points the job at it.
func setupDataset(t *testing.T) string {
	t.Helper()
	root := filepath.ToSlash(t.TempDir())
	t.Chdir(root)

	cfg := sampledata.DefaultConfig()
	cfg.Songs, cfg.Events, cfg.Days = 20, 100, 2
	ds, err := sampledata.Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := sampledata.Write(context.Background(), objectstore.NewLocalBucket(), root+"/input", ds, worker.NewPool(2)); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SONGPLAYS_SONG_DATA", "file://"+root+"/input/song_data/*/*/*/*.json")
	t.Setenv("SONGPLAYS_LOG_DATA", "file://"+root+"/input/log_data/*.json")
	t.Setenv("SONGPLAYS_OUTPUT", "file://"+root+"/output/")
	t.Setenv("SONGPLAYS_FETCH_WORKERS", "2")
	return root
}

func TestRun(t *testing.T) {
	convey.Convey("Given a local dataset", t, func() {
		root := setupDataset(t)

		convey.Convey("When the job runs", func() {
			err := run(context.Background())

			convey.Convey("Then all five tables should be written", func() {
				convey.So(err, convey.ShouldBeNil)
				for _, table := range []string{"songs", "artists", "users", "time", "songplays"} {
					_, statErr := os.Stat(filepath.Join(root, "output", table, "_SUCCESS"))
					convey.So(statErr, convey.ShouldBeNil)
				}
			})
		})

		convey.Convey("When a Pushgateway is configured", func() {
			var (
				mu    sync.Mutex
				paths []string
			)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				mu.Lock()
				paths = append(paths, r.Method+" "+r.URL.Path)
				mu.Unlock()
				w.WriteHeader(http.StatusOK)
			}))
			defer srv.Close()
			t.Setenv("SONGPLAYS_PUSHGATEWAY_URL", srv.URL)

			err := run(context.Background())

			convey.Convey("Then the run metrics should be pushed once", func() {
				convey.So(err, convey.ShouldBeNil)
				mu.Lock()
				defer mu.Unlock()
				convey.So(paths, convey.ShouldHaveLength, 1)
				convey.So(paths[0], convey.ShouldStartWith, "PUT /metrics/job/songplays_etl/run_id/")
			})
		})

		convey.Convey("When parquet files are capped at one row", func() {
			t.Setenv("SONGPLAYS_PARQUET__MAX_FILE_ROWS", "1")
			t.Setenv("SONGPLAYS_PARQUET__PARALLELISM", "1")
			err := run(context.Background())

			convey.Convey("Then tables should be split into several part files", func() {
				convey.So(err, convey.ShouldBeNil)
				files, globErr := filepath.Glob(filepath.Join(root, "output", "artists", "part-*.snappy.parquet"))
				convey.So(globErr, convey.ShouldBeNil)
				convey.So(len(files), convey.ShouldBeGreaterThan, 1)
			})
		})

		convey.Convey("When the song data does not match anything", func() {
			t.Setenv("SONGPLAYS_SONG_DATA", "file://"+root+"/missing/*.json")
			err := run(context.Background())

			convey.Convey("Then the job should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the output location is invalid", func() {
			t.Setenv("SONGPLAYS_OUTPUT", "ftp://host/out/")
			err := run(context.Background())

			convey.Convey("Then the job should fail before reading", func() {
				convey.So(err, convey.ShouldNotBeNil)
				_, statErr := os.Stat(filepath.Join(root, "output"))
				convey.So(os.IsNotExist(statErr), convey.ShouldBeTrue)
			})
		})
	})
}

func TestNewPipeline(t *testing.T) {
	convey.Convey("Given the default configuration", t, func() {
		cfg := config.New()

		convey.Convey("When building the pipeline", func() {
			p, err := newPipeline(cfg, logger.Get())

			convey.Convey("Then it should be created with a run id", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.RunID(), convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When a location cannot be parsed", func() {
			cfg.SongData = "gs://bucket/songs"
			_, err := newPipeline(cfg, logger.Get())

			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
