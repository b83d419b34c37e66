package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager()

			Convey("Then it should own a fresh registry", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Registry(), ShouldNotBeNil)
				So(manager.Registry(), ShouldNotEqual, Default().Registry())
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 2}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should register on that registry", func() {
				manager.RecordWrite("songs", 1, 10)
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_unit_rows_written_total"], ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager", t, func() {
		m := NewManager()

		Convey("When recording reads", func() {
			m.RecordRead("song_data", 512, 1)
			m.RecordRead("song_data", 256, 1)
			m.RecordRead("log_data", 4096, 30)

			Convey("Then per-dataset counters should add up", func() {
				So(testutil.ToFloat64(m.objectsRead.WithLabelValues("song_data")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.bytesRead.WithLabelValues("song_data")), ShouldEqual, 768)
				So(testutil.ToFloat64(m.rowsRead.WithLabelValues("log_data")), ShouldEqual, 30)
			})
		})

		Convey("When recording writes and duplicates", func() {
			m.RecordWrite("songplays", 3, 6820)
			m.RecordDuplicates("users", 7)
			m.RecordUnmatchedPlays(6500)

			Convey("Then the counters should reflect them", func() {
				So(testutil.ToFloat64(m.filesWritten.WithLabelValues("songplays")), ShouldEqual, 3)
				So(testutil.ToFloat64(m.rowsWritten.WithLabelValues("songplays")), ShouldEqual, 6820)
				So(testutil.ToFloat64(m.duplicatesDropped.WithLabelValues("users")), ShouldEqual, 7)
				So(testutil.ToFloat64(m.unmatchedPlays), ShouldEqual, 6500)
			})
		})

		Convey("When a stage fails", func() {
			m.RecordStage("song_data", time.Second, nil)
			m.RecordStage("log_data", time.Second, errors.New("boom"))

			Convey("Then only the failed stage counts an error", func() {
				So(testutil.ToFloat64(m.stageErrors.WithLabelValues("log_data")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.stageErrors.WithLabelValues("song_data")), ShouldEqual, 0)
			})
		})

		Convey("When marking success", func() {
			at := time.Unix(1542837407, 0)
			m.MarkSuccess(at)

			Convey("Then the gauge holds the unix time", func() {
				So(testutil.ToFloat64(m.lastSuccess), ShouldEqual, 1542837407)
			})
		})
	})
}

func TestMetricsDisabled(t *testing.T) {
	Convey("Given a disabled manager", t, func() {
		m := NewManager(WithMetricsEnabled(false))

		Convey("When recording", func() {
			m.RecordWrite("songs", 1, 10)

			Convey("Then nothing should be counted", func() {
				So(testutil.ToFloat64(m.rowsWritten.WithLabelValues("songs")), ShouldEqual, 0)
			})
		})
	})
}

func TestMetricsPush(t *testing.T) {
	Convey("Given a pushgateway", t, func() {
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

		m := NewManager()
		m.RecordWrite("songs", 1, 1)

		Convey("When pushing with a run id", func() {
			err := m.Push(context.Background(), srv.URL, "songplays_etl", "run-1")

			Convey("Then the job and grouping should be in the path", func() {
				So(err, ShouldBeNil)
				mu.Lock()
				defer mu.Unlock()
				So(paths, ShouldHaveLength, 1)
				So(paths[0], ShouldEqual, "PUT /metrics/job/songplays_etl/run_id/run-1")
			})
		})

		Convey("When the url is empty", func() {
			err := m.Push(context.Background(), "", "songplays_etl", "run-1")

			Convey("Then it should be a no-op", func() {
				So(err, ShouldBeNil)
				So(paths, ShouldBeEmpty)
			})
		})
	})

	Convey("Given an unreachable pushgateway", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		err := NewManager().Push(context.Background(), srv.URL, "job", "")

		Convey("Then the error should wrap ErrPushFailed", func() {
			So(errors.Is(err, ErrPushFailed), ShouldBeTrue)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		m := NewManager()
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					m.RecordRead("log_data", 1, 1)
				}
			}()
		}
		wg.Wait()

		So(testutil.ToFloat64(m.rowsRead.WithLabelValues("log_data")), ShouldEqual, 1000)
	})
}

func TestGlobalManager(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then it should record into the shared registry", func() {
			Default().RecordRead("song_data", 10, 1)
			So(Default().Registry(), ShouldEqual, customRegistry)
			So(testutil.ToFloat64(Default().objectsRead.WithLabelValues("song_data")), ShouldBeGreaterThanOrEqualTo, 1)
		})
	})
}
