package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/shotform/internal/adapters/mq/queue"
	worker "github.com/okian/shotform/internal/adapters/mq/worker"
	"github.com/okian/shotform/internal/domain/keypoint"
	model "github.com/okian/shotform/internal/domain/model"
	"github.com/okian/shotform/internal/domain/scoring"
	logging "github.com/okian/shotform/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// unavailable mimics the service's analysis error.
type unavailable struct{ reason string }

func (u unavailable) Error() string  { return "unavailable: " + u.reason }
func (u unavailable) Reason() string { return u.reason }

// scriptedAnalyzer scores a frame by the x of its "score" keypoint; frames
// without it are unavailable.
type scriptedAnalyzer struct {
	mu    sync.Mutex
	calls int
}

func (a *scriptedAnalyzer) AnalyzeFrame(_ context.Context, analysisID, athleteID string, f model.Frame) (model.Report, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()

	p, ok := f["score"]
	if !ok {
		return model.Report{}, unavailable{reason: "insufficient_data"}
	}
	if p.X < 0 {
		return model.Report{}, errors.New("boom")
	}
	s := int(p.X)
	return model.Report{AnalysisID: analysisID, AthleteID: athleteID, Score: s, Category: scoring.Categorize(s)}, nil
}

func frame(score float64) model.Frame {
	return model.Frame{"score": keypoint.Position{X: score, Y: 0, Confidence: 1}}
}

type memResults struct {
	mu   sync.Mutex
	byID map[string]model.JobResult
	err  error
}

func newMemResults() *memResults { return &memResults{byID: map[string]model.JobResult{}} }

func (m *memResults) Put(_ context.Context, r model.JobResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.byID[r.AnalysisID] = r
	return nil
}

func (m *memResults) get(id string) (model.JobResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	return r, ok
}

type mockUpdater struct {
	mu      sync.Mutex
	entries map[string]model.LeaderboardEntry
}

func newMockUpdater() *mockUpdater {
	return &mockUpdater{entries: map[string]model.LeaderboardEntry{}}
}

func (u *mockUpdater) UpdateBest(_ context.Context, e model.LeaderboardEntry) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.entries[e.AthleteID] = e
	return true, nil
}

func (u *mockUpdater) get(id string) (model.LeaderboardEntry, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	e, ok := u.entries[id]
	return e, ok
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestProcess(t *testing.T) {
	convey.Convey("Given a scripted analyzer", t, func() {
		a := &scriptedAnalyzer{}
		ctx := context.Background()

		convey.Convey("When a job mixes good and unavailable frames", func() {
			res := worker.Process(ctx, a, model.Job{
				AnalysisID: "j1", AthleteID: "ath",
				Frames: []model.Frame{frame(70), {}, frame(88), frame(88), frame(-1)},
			})

			convey.Convey("Then the best frame is the earliest highest score", func() {
				convey.So(res.Status, convey.ShouldEqual, model.JobDone)
				convey.So(res.Best, convey.ShouldNotBeNil)
				convey.So(res.Best.Score, convey.ShouldEqual, 88)
				convey.So(res.Analyzed(), convey.ShouldEqual, 3)
				convey.So(res.CompletedAt, convey.ShouldNotBeNil)
			})

			convey.Convey("And every frame is accounted for with its reason", func() {
				convey.So(res.Frames, convey.ShouldHaveLength, 5)
				convey.So(res.Frames[1].Status, convey.ShouldEqual, model.FrameSkipped)
				convey.So(res.Frames[1].Reason, convey.ShouldEqual, "insufficient_data")
				convey.So(res.Frames[4].Reason, convey.ShouldEqual, worker.ReasonAnalysisError)
				convey.So(res.Frames[2].Category, convey.ShouldEqual, scoring.Excellent)
			})
		})

		convey.Convey("When no frame can be analyzed", func() {
			res := worker.Process(ctx, a, model.Job{AnalysisID: "j2", Frames: []model.Frame{{}, {}}})

			convey.Convey("Then the job fails as unavailable with no score", func() {
				convey.So(res.Status, convey.ShouldEqual, model.JobFailed)
				convey.So(res.Reason, convey.ShouldEqual, worker.ReasonAnalysisUnavailable)
				convey.So(res.Best, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			res := worker.Process(cctx, a, model.Job{AnalysisID: "j3", Frames: []model.Frame{frame(90)}})

			convey.Convey("Then nothing is analyzed", func() {
				convey.So(res.Status, convey.ShouldEqual, model.JobFailed)
				convey.So(res.Reason, convey.ShouldEqual, worker.ReasonCancelled)
				convey.So(a.calls, convey.ShouldEqual, 0)
			})
		})
	})
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading from a real queue", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		results := newMemResults()
		updater := newMockUpdater()
		w := worker.NewInMemoryWorker(q, &scriptedAnalyzer{}, results, updater, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a job for an athlete is processed", func() {
			convey.So(q.Enqueue(ctx, model.Job{AnalysisID: "j1", AthleteID: "ath-1", Frames: []model.Frame{frame(61), frame(77)}}), convey.ShouldBeNil)

			convey.Convey("Then the result is stored and the leaderboard updated", func() {
				convey.So(waitFor(func() bool { _, ok := updater.get("ath-1"); return ok }), convey.ShouldBeTrue)
				r, ok := results.get("j1")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(r.Status, convey.ShouldEqual, model.JobDone)
				e, _ := updater.get("ath-1")
				convey.So(e.Score, convey.ShouldEqual, 77)
				convey.So(e.AnalysisID, convey.ShouldEqual, "j1")
			})
		})

		convey.Convey("When a job fails", func() {
			convey.So(q.Enqueue(ctx, model.Job{AnalysisID: "j2", AthleteID: "ath-2", Frames: []model.Frame{{}}}), convey.ShouldBeNil)

			convey.Convey("Then the failure is stored but the leaderboard is untouched", func() {
				convey.So(waitFor(func() bool { _, ok := results.get("j2"); return ok }), convey.ShouldBeTrue)
				r, _ := results.get("j2")
				convey.So(r.Status, convey.ShouldEqual, model.JobFailed)
				_, ranked := updater.get("ath-2")
				convey.So(ranked, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			convey.Convey("Then it stops gracefully and a second call is safe", func() {
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of workers", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		results := newMemResults()
		updater := newMockUpdater()
		p := worker.NewPool(4, q, &scriptedAnalyzer{}, results, updater, worker.WithLogger(logging.Nop()))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		p.Start(ctx)

		convey.So(p.Size(), convey.ShouldEqual, 4)

		convey.Convey("When jobs are queued and the pool shuts down", func() {
			ids := []string{"a", "b", "c", "d", "e", "f"}
			for i, id := range ids {
				convey.So(q.Enqueue(ctx, model.Job{AnalysisID: id, Frames: []model.Frame{frame(float64(50 + i))}}), convey.ShouldBeNil)
			}
			err := p.Shutdown(context.Background())

			convey.Convey("Then every queued job is drained first", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.Processed(), convey.ShouldEqual, len(ids))
				for _, id := range ids {
					_, ok := results.get(id)
					convey.So(ok, convey.ShouldBeTrue)
				}
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})
}
