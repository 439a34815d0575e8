// Package worker runs queued multi-frame analysis jobs.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/shotform/internal/domain/model"
	"github.com/okian/shotform/pkg/logger"
	"github.com/okian/shotform/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 2
	metricsUpdateInterval   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Skip and failure reasons recorded on job results.
const (
	ReasonAnalysisUnavailable = "analysis_unavailable"
	ReasonAnalysisError       = "analysis_error"
	ReasonCancelled           = "cancelled"
)

// Analyzer runs the form pipeline on one frame.
type Analyzer interface {
	AnalyzeFrame(ctx context.Context, analysisID, athleteID string, frame model.Frame) (model.Report, error)
}

// ResultWriter persists job results.
type ResultWriter interface {
	Put(ctx context.Context, r model.JobResult) error
}

// Updater records an athlete's best score.
type Updater interface {
	UpdateBest(ctx context.Context, e model.LeaderboardEntry) (bool, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Job
}

// reasoner is implemented by analysis errors that carry a short reason.
type reasoner interface {
	Reason() string
}

// Worker processes jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in hand.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	analyzer Analyzer
	results  ResultWriter
	updater  Updater
	name     string

	processed atomic.Int64

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker.
func NewInMemoryWorker(queue Queue, analyzer Analyzer, results ResultWriter, updater Updater, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		analyzer: analyzer,
		results:  results,
		updater:  updater,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named("worker")
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job",
					logger.String("analysis_id", job.AnalysisID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown signals the worker to stop and waits for it.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Process analyzes every frame of job and returns its terminal result.
// Unavailable frames are skipped with a reason; the best scoring frame (the
// earliest on ties) becomes the headline report. A job with no analyzable
// frame fails with ReasonAnalysisUnavailable.
func Process(ctx context.Context, analyzer Analyzer, job model.Job) model.JobResult { //nolint:gocritic // hugeParam: jobs travel by value
	res := model.JobResult{
		AnalysisID:  job.AnalysisID,
		AthleteID:   job.AthleteID,
		Status:      model.JobFailed,
		Frames:      make([]model.FrameResult, 0, len(job.Frames)),
		SubmittedAt: job.SubmittedAt,
	}

	for i, frame := range job.Frames {
		if ctx.Err() != nil {
			res.Reason = ReasonCancelled
			return finish(res)
		}
		report, err := analyzer.AnalyzeFrame(ctx, job.AnalysisID, job.AthleteID, frame)
		if err != nil {
			reason := ReasonAnalysisError
			var r reasoner
			if errors.As(err, &r) {
				reason = r.Reason()
			}
			metrics.RecordFrameSkipped(reason)
			res.Frames = append(res.Frames, model.FrameResult{Index: i, Status: model.FrameSkipped, Reason: reason})
			continue
		}
		res.Frames = append(res.Frames, model.FrameResult{
			Index: i, Status: model.FrameAnalyzed, Score: report.Score, Category: report.Category,
		})
		if res.Best == nil || report.Score > res.Best.Score {
			best := report
			res.Best = &best
		}
	}

	if res.Best == nil {
		res.Reason = ReasonAnalysisUnavailable
	} else {
		res.Status = model.JobDone
	}
	return finish(res)
}

func finish(res model.JobResult) model.JobResult { //nolint:gocritic // hugeParam
	now := time.Now().UTC()
	res.CompletedAt = &now
	return res
}

func (w *InMemoryWorker) processJob(ctx context.Context, job model.Job) error { //nolint:gocritic // hugeParam: jobs travel by value
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
		w.processed.Add(1)
	}()

	res := Process(ctx, w.analyzer, job)
	metrics.RecordJobCompleted(string(res.Status))

	if err := w.results.Put(ctx, res); err != nil {
		w.fail("result_store_error")
		return fmt.Errorf("store result %s: %w", job.AnalysisID, err)
	}

	w.logger.Debug(ctx, "job finished",
		logger.String("analysis_id", job.AnalysisID),
		logger.String("status", string(res.Status)),
		logger.Int("frames", len(job.Frames)),
		logger.Int("analyzed", res.Analyzed()),
	)

	if res.Best == nil || job.AthleteID == "" {
		return nil
	}
	if _, err := w.updater.UpdateBest(ctx, model.LeaderboardEntry{
		AthleteID:  job.AthleteID,
		Score:      res.Best.Score,
		Category:   res.Best.Category,
		AnalysisID: job.AnalysisID,
	}); err != nil {
		w.fail("leaderboard_error")
		return fmt.Errorf("leaderboard update failed: %w", err)
	}
	return nil
}

func (w *InMemoryWorker) fail(kind string) {
	metrics.RecordWorkerError()
	metrics.RecordErrorByComponent("worker", kind)
	metrics.RecordErrorByType(kind, "high")
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	shutdown chan struct{}

	lastCount int64
	lastTime  time.Time

	logger logger.Logger
}

// NewPool creates workerCount workers sharing one queue. workerCount < 1
// defaults to a multiple of the CPU count. opts apply to every worker.
func NewPool(workerCount int, queue Queue, analyzer Analyzer, results ResultWriter, updater Updater, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    queue,
		shutdown: make(chan struct{}),
		lastTime: time.Now(),
	}
	for i := range p.workers {
		wopts := append(append([]Option(nil), opts...), WithName("worker-"+strconv.Itoa(i)))
		p.workers[i] = NewInMemoryWorker(queue, analyzer, results, updater, wopts...)
	}

	base := &InMemoryWorker{}
	for _, opt := range opts {
		opt(base)
	}
	if base.logger == nil {
		base.logger = logger.Get()
	}
	p.logger = base.logger.Named("worker-pool")

	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerMessagesPerSecond(0)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Processed returns the number of jobs handled by all workers.
func (p *Pool) Processed() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.processed.Load()
	}
	return n
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.startMetricsUpdater(ctx)
}

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

func (p *Pool) updateMetrics() {
	now := time.Now()
	count := p.Processed()
	if secs := now.Sub(p.lastTime).Seconds(); secs > 0 {
		metrics.UpdateWorkerMessagesPerSecond(float64(count-p.lastCount) / secs)
	}
	p.lastCount = count
	p.lastTime = now
}

// Shutdown closes the queue, lets workers drain it, and waits for them.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut int
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut++
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	if timedOut > 0 {
		return fmt.Errorf("%d workers did not stop: %w", timedOut, shutdownCtx.Err())
	}
	return nil
}
