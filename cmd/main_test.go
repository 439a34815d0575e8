package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/shotform/internal/config"
	"github.com/okian/shotform/internal/domain/corpus"
	"github.com/okian/shotform/internal/domain/keypoint"
	"github.com/okian/shotform/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestNewService(t *testing.T) {
	convey.Convey("Given configuration loaded from the environment", t, func() {
		ctx := context.Background()
		_ = os.Setenv("SHOTFORM_WORKER_COUNT", "2")
		_ = os.Setenv("SHOTFORM_TOP_MATCHES", "2")
		defer func() {
			_ = os.Unsetenv("SHOTFORM_WORKER_COUNT")
			_ = os.Unsetenv("SHOTFORM_TOP_MATCHES")
		}()
		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When the service is built over the builtin corpus", func() {
			svc, err := newService(ctx, cfg, logger.Nop())

			convey.Convey("Then the options reach the service", func() {
				convey.So(err, convey.ShouldBeNil)
				stats := svc.GetStats()
				convey.So(stats["workerCount"], convey.ShouldEqual, 2)
				convey.So(stats["shooters"], convey.ShouldEqual, corpus.Builtin().Len())
			})
		})

		convey.Convey("When the corpus file is missing", func() {
			cfg.CorpusSource = string(corpus.SourceYAML)
			cfg.CorpusPath = filepath.Join(t.TempDir(), "absent.yaml")
			_, err := newService(ctx, cfg, logger.Nop())

			convey.Convey("Then building fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given a started service and its mux", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		cfg := config.New()
		cfg.WorkerCount = 2
		svc, err := newService(ctx, cfg, logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		mux, err := newMux(ctx, cfg, svc, logger.Nop())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then docs and business routes are served", func() {
			for _, path := range []string{"/healthz", "/stats", "/shooters", "/openapi.yaml", "/api-docs", "/leaderboard?limit=5"} {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("Then a frame can be analyzed end to end", func() {
			body, err := json.Marshal(map[string]any{"keypoints": keypoint.SetPointPose()})
			convey.So(err, convey.ShouldBeNil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(body)))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"score":95`)
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the metrics updaters", t, func() {
		cfg := config.New()
		svc, err := newService(context.Background(), cfg, logger.Nop())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then they stop when the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
			convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("Then a single update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})
	})
}
