package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/shotform/internal/adapters/mq/queue"
	"github.com/okian/shotform/internal/adapters/repository"
	"github.com/okian/shotform/internal/domain/biomech"
	"github.com/okian/shotform/internal/domain/corpus"
	"github.com/okian/shotform/internal/domain/flaws"
	"github.com/okian/shotform/internal/domain/keypoint"
	"github.com/okian/shotform/internal/domain/model"
	"github.com/okian/shotform/internal/domain/priority"
	"github.com/okian/shotform/internal/domain/similarity"
	"github.com/okian/shotform/pkg/logger"
	"github.com/okian/shotform/pkg/metrics"
)

// AnalyzeRequest is one synchronous analysis. AnalysisID is generated when
// empty; AthleteID is optional and enables leaderboard tracking.
type AnalyzeRequest struct {
	AnalysisID string                       `json:"analysis_id,omitempty"`
	AthleteID  string                       `json:"athlete_id,omitempty"`
	Keypoints  map[string]keypoint.Position `json:"keypoints"`
}

// Analyze runs the pipeline on one keypoint set. When the service is started
// and AthleteID is set, the athlete's best score is updated.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (model.Report, error) {
	if strings.TrimSpace(req.AnalysisID) == "" {
		req.AnalysisID = uuid.NewString()
	}
	report, err := s.AnalyzeFrame(ctx, req.AnalysisID, req.AthleteID, req.Keypoints)
	if err != nil {
		return model.Report{}, err
	}

	if req.AthleteID != "" && s.running() {
		if _, err := s.leaderboard.UpdateBest(ctx, model.LeaderboardEntry{
			AthleteID:  req.AthleteID,
			Score:      report.Score,
			Category:   report.Category,
			AnalysisID: report.AnalysisID,
		}); err != nil {
			s.logger.Warn(ctx, "leaderboard update failed",
				logger.String("athlete_id", req.AthleteID), logger.Error(err))
		}
	}
	return report, nil
}

// AnalyzeFrame runs keypoints -> metrics -> {score, issues} -> fix list and
// matches. A frame without usable metrics returns a *FrameError matching
// ErrAnalysisUnavailable; it never yields a zero score.
func (s *Service) AnalyzeFrame(ctx context.Context, analysisID, athleteID string, frame model.Frame) (model.Report, error) {
	start := time.Now()
	defer func() {
		metrics.RecordAnalysisLatency(float64(time.Since(start).Milliseconds()))
	}()

	report, err := s.analyze(ctx, analysisID, athleteID, frame)
	switch {
	case err == nil:
		metrics.RecordAnalysis("ok")
	case errors.Is(err, ErrAnalysisUnavailable):
		metrics.RecordAnalysis("unavailable")
		s.logger.Debug(ctx, "analysis unavailable",
			logger.String("analysis_id", analysisID), logger.Error(err))
	case errors.Is(err, ErrInvalidKeypoints):
		metrics.RecordAnalysis("invalid")
	default:
		metrics.RecordAnalysis("error")
		metrics.RecordErrorByComponent("service", "analysis_error")
		s.logger.Error(ctx, "analysis failed",
			logger.String("analysis_id", analysisID), logger.Error(err))
	}
	return report, err
}

func (s *Service) analyze(ctx context.Context, analysisID, athleteID string, frame model.Frame) (model.Report, error) {
	set, err := keypoint.FromMap(frame)
	if err != nil {
		return model.Report{}, invalidKeypoints(err)
	}

	m, err := s.extractor.Extract(ctx, set)
	switch {
	case errors.Is(err, biomech.ErrInsufficientData):
		return model.Report{}, unavailable(ReasonInsufficientData, err)
	case errors.Is(err, biomech.ErrDegenerateGeometry):
		return model.Report{}, unavailable(ReasonDegenerateGeometry, err)
	case err != nil:
		return model.Report{}, fmt.Errorf("extract metrics: %w", err)
	}

	scored, err := s.scorer.Score(&m)
	if err != nil {
		return model.Report{}, unavailable(ReasonInsufficientData, err)
	}

	angles := flaws.AnglesFromMetrics(m)
	issues, err := s.detector.Detect(angles)
	if err != nil {
		return model.Report{}, fmt.Errorf("detect flaws: %w", err)
	}
	measurements, err := s.detector.MeasureAll(angles)
	if err != nil {
		return model.Report{}, fmt.Errorf("measure angles: %w", err)
	}

	matches := s.matcher.TopMatches(similarity.ProfileFromMetrics(m), s.topMatches)

	metrics.RecordFormScore(scored.Score, string(scored.Category))
	for _, is := range issues {
		metrics.RecordFlawDetected(string(is.Severity))
	}
	if len(matches) > 0 {
		metrics.RecordMatchSimilarity(matches[0].Score)
	}

	return model.Report{
		AnalysisID:   analysisID,
		AthleteID:    athleteID,
		Metrics:      m,
		Score:        scored.Score,
		Category:     scored.Category,
		Breakdown:    scored.Breakdown,
		Measurements: measurements,
		Issues:       issues,
		FixList:      priority.Rank(issues, s.fixListLimit),
		Matches:      matches,
		AnalyzedAt:   time.Now().UTC(),
	}, nil
}

// Submit validates and enqueues a multi-frame job. The caller owns the
// analysis id; an empty one is rejected with ErrInvalidJob. A repeated id is
// reported as duplicate and not enqueued again. When enqueueing fails the
// pending result and the id are both forgotten so the client can retry; a full
// or closed queue returns ErrBackpressure.
func (s *Service) Submit(ctx context.Context, job model.Job) (bool, error) { //nolint:gocritic // hugeParam: jobs travel by value
	if !s.running() {
		return false, ErrNotStarted
	}
	if err := job.Validate(s.maxFrames); err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}

	if s.deduper.SeenAndRecord(ctx, job.AnalysisID) {
		metrics.RecordJobDuplicate()
		s.logger.Debug(ctx, "duplicate job", logger.String("analysis_id", job.AnalysisID))
		return true, nil
	}

	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now().UTC()
	}
	pending := model.JobResult{
		AnalysisID:  job.AnalysisID,
		AthleteID:   job.AthleteID,
		Status:      model.JobPending,
		SubmittedAt: job.SubmittedAt,
	}
	if err := s.results.Put(ctx, pending); err != nil {
		s.deduper.Unrecord(ctx, job.AnalysisID)
		return false, fmt.Errorf("store pending job: %w", err)
	}

	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.results.Delete(ctx, job.AnalysisID)
		s.deduper.Unrecord(ctx, job.AnalysisID)
		if errors.Is(err, queue.ErrFull) || errors.Is(err, queue.ErrClosed) {
			return false, fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		return false, err
	}
	return false, nil
}

// Result returns the state of a submitted job.
func (s *Service) Result(ctx context.Context, analysisID string) (model.JobResult, error) {
	if !s.running() {
		return model.JobResult{}, ErrNotStarted
	}
	r, err := s.results.Get(ctx, analysisID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.JobResult{}, fmt.Errorf("%w: analysis %s", ErrNotFound, analysisID)
	}
	return r, err
}

// TopN returns the top n leaderboard entries.
func (s *Service) TopN(ctx context.Context, n int) ([]model.LeaderboardEntry, error) {
	if !s.running() {
		return nil, ErrNotStarted
	}
	return s.leaderboard.TopN(ctx, n)
}

// Rank returns an athlete's leaderboard entry.
func (s *Service) Rank(ctx context.Context, athleteID string) (model.LeaderboardEntry, error) {
	if !s.running() {
		return model.LeaderboardEntry{}, ErrNotStarted
	}
	e, err := s.leaderboard.Rank(ctx, athleteID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.LeaderboardEntry{}, fmt.Errorf("%w: athlete %s", ErrNotFound, athleteID)
	}
	return e, err
}

// Shooters lists the reference corpus in its fixed order.
func (s *Service) Shooters(_ context.Context) []corpus.ShooterReference {
	return s.corpus.All()
}

// Shooter returns one reference shooter.
func (s *Service) Shooter(_ context.Context, id string) (corpus.ShooterReference, error) {
	ref, err := s.corpus.Get(id)
	if errors.Is(err, corpus.ErrShooterNotFound) {
		return corpus.ShooterReference{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return ref, err
}
