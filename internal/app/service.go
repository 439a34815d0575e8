// Package service wires the form pipeline, the job queue and the leaderboard
// into the operations the HTTP API and CLI call.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/okian/shotform/internal/adapters/mq/queue"
	"github.com/okian/shotform/internal/adapters/mq/worker"
	"github.com/okian/shotform/internal/adapters/repository"
	"github.com/okian/shotform/internal/domain/biomech"
	"github.com/okian/shotform/internal/domain/corpus"
	"github.com/okian/shotform/internal/domain/dedupe"
	"github.com/okian/shotform/internal/domain/flaws"
	"github.com/okian/shotform/internal/domain/scoring"
	"github.com/okian/shotform/internal/domain/similarity"
	"github.com/okian/shotform/pkg/logger"
	"github.com/okian/shotform/pkg/metrics"
)

// Defaults used when an option is not supplied.
const (
	defaultQueueSize    = 1024
	defaultDedupeSize   = 50000
	defaultMaxFrames    = 120
	defaultTopMatches   = 5
	defaultFixListLimit = 3
)

// Service implements the API dependencies for the form engine.
type Service struct {
	mu sync.RWMutex

	// Pipeline, built once in New and read-only afterwards.
	corpus    *corpus.Corpus
	extractor *biomech.Extractor
	scorer    *scoring.Scorer
	detector  *flaws.Detector
	matcher   *similarity.Matcher

	// Adapters, built in Start.
	leaderboard *repository.TreapStore
	results     repository.ResultStore
	deduper     dedupe.Deduper
	queue       *queue.InMemoryQueue
	pool        *worker.Pool

	workerCount  int
	queueSize    int
	dedupeSize   int
	maxFrames    int
	topMatches   int
	fixListLimit int

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the job queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the number of remembered analysis ids.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxFramesPerJob caps the frames accepted in one job.
func WithMaxFramesPerJob(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxFrames = n
		}
	}
}

// WithTopMatches sets how many reference shooters a report lists.
func WithTopMatches(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topMatches = n
		}
	}
}

// WithFixListLimit sets how many prioritized fixes a report lists.
// 0 keeps every issue.
func WithFixListLimit(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.fixListLimit = n
		}
	}
}

// WithCorpus sets the reference shooter corpus. The builtin corpus is used
// when none is given.
func WithCorpus(c *corpus.Corpus) Option {
	return func(s *Service) {
		if c != nil {
			s.corpus = c
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs the pipeline. Adapters are created by Start.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		workerCount:  runtime.NumCPU(),
		queueSize:    defaultQueueSize,
		dedupeSize:   defaultDedupeSize,
		maxFrames:    defaultMaxFrames,
		topMatches:   defaultTopMatches,
		fixListLimit: defaultFixListLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.corpus == nil {
		s.corpus = corpus.Builtin()
	}

	var err error
	if s.scorer, err = scoring.New(); err != nil {
		return nil, fmt.Errorf("build scorer: %w", err)
	}
	if s.matcher, err = similarity.NewMatcher(s.corpus, similarity.WithTopN(s.topMatches)); err != nil {
		return nil, fmt.Errorf("build matcher: %w", err)
	}
	s.extractor = biomech.NewExtractor(biomech.WithLogger(s.logger.Named("extractor")))
	s.detector = flaws.NewDetector()
	return s, nil
}

// Start creates the queue, stores and worker pool. Calling it twice is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting form analysis service...")

	s.leaderboard = repository.NewTreapStore(ctx)
	s.results = repository.NewMemoryResults()
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s, s.results, s.leaderboard,
		worker.WithLogger(s.logger.Named("worker")))
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "form analysis service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Int("shooters", s.corpus.Len()),
	)
	return nil
}

// Stop drains queued jobs and shuts the adapters down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping form analysis service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}
	_ = s.leaderboard.Close()

	s.started = false
	s.logger.Info(ctx, "form analysis service stopped")
}

func (s *Service) running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"shooters":    s.corpus.Len(),
	}

	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["athletes"] = s.leaderboard.Count(ctx)
		stats["results"] = s.results.Count(ctx)
		stats["dedupeEntries"] = s.deduper.Size()
		stats["jobsProcessed"] = s.pool.Processed()
	}

	totals, err := metrics.Totals("analyses_total", "flaws_detected_total", "frames_skipped_total", "jobs_duplicate_total")
	if err != nil {
		s.logger.Warn(ctx, "gather metric totals", logger.Error(err))
		return stats
	}
	for k, v := range totals {
		stats[k] = v
	}
	return stats
}
