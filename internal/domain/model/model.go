// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/shotform/internal/domain/biomech"
	"github.com/okian/shotform/internal/domain/flaws"
	"github.com/okian/shotform/internal/domain/keypoint"
	"github.com/okian/shotform/internal/domain/priority"
	"github.com/okian/shotform/internal/domain/scoring"
	"github.com/okian/shotform/internal/domain/similarity"
)

// ErrInvalidJob is returned by Job.Validate.
var ErrInvalidJob = errors.New("invalid job")

// Frame is one keypoint set as submitted by the pose detector.
type Frame map[string]keypoint.Position

// Job is an asynchronous multi-frame analysis request.
type Job struct {
	AnalysisID  string    `json:"analysis_id"`
	AthleteID   string    `json:"athlete_id"`
	Frames      []Frame   `json:"frames"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Validate checks ids and the frame count against maxFrames (<= 0 means no cap).
func (j *Job) Validate(maxFrames int) error {
	switch {
	case strings.TrimSpace(j.AnalysisID) == "":
		return fmt.Errorf("%w: missing analysis_id", ErrInvalidJob)
	case len(j.Frames) == 0:
		return fmt.Errorf("%w: no frames", ErrInvalidJob)
	case maxFrames > 0 && len(j.Frames) > maxFrames:
		return fmt.Errorf("%w: %d frames exceeds the limit of %d", ErrInvalidJob, len(j.Frames), maxFrames)
	}
	return nil
}

// Report is the full structured output for one analyzed frame.
type Report struct {
	AnalysisID   string                   `json:"analysis_id"`
	AthleteID    string                   `json:"athlete_id,omitempty"`
	Metrics      biomech.Metrics          `json:"metrics"`
	Score        int                      `json:"score"`
	Category     scoring.Category         `json:"category"`
	Breakdown    []scoring.MetricScore    `json:"breakdown"`
	Measurements []flaws.AngleMeasurement `json:"measurements"`
	Issues       []flaws.FormIssue        `json:"issues"`
	FixList      []priority.PriorityIssue `json:"fix_list"`
	Matches      []similarity.MatchResult `json:"matches"`
	AnalyzedAt   time.Time                `json:"analyzed_at"`
}

// JobStatus is the lifecycle state of a Job.
type JobStatus string

// Job states.
const (
	JobPending JobStatus = "pending"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Terminal reports whether no further transitions happen.
func (s JobStatus) Terminal() bool {
	return s == JobDone || s == JobFailed
}

// FrameStatus is the outcome of one frame in a job.
type FrameStatus string

// Frame outcomes.
const (
	FrameAnalyzed FrameStatus = "analyzed"
	FrameSkipped  FrameStatus = "skipped"
)

// FrameResult records what happened to one frame.
type FrameResult struct {
	Index    int              `json:"index"`
	Status   FrameStatus      `json:"status"`
	Reason   string           `json:"reason,omitempty"`
	Score    int              `json:"score,omitempty"`
	Category scoring.Category `json:"category,omitempty"`
}

// JobResult is the stored state of a Job.
type JobResult struct {
	AnalysisID  string        `json:"analysis_id"`
	AthleteID   string        `json:"athlete_id,omitempty"`
	Status      JobStatus     `json:"status"`
	Reason      string        `json:"reason,omitempty"`
	Frames      []FrameResult `json:"frames"`
	Best        *Report       `json:"best,omitempty"`
	SubmittedAt time.Time     `json:"submitted_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// Analyzed counts frames that produced a report.
func (r *JobResult) Analyzed() int {
	n := 0
	for _, f := range r.Frames {
		if f.Status == FrameAnalyzed {
			n++
		}
	}
	return n
}

// LeaderboardEntry is a ranked athlete's best result.
type LeaderboardEntry struct {
	Rank       int              `json:"rank"`
	AthleteID  string           `json:"athlete_id"`
	Score      int              `json:"score"`
	Category   scoring.Category `json:"category"`
	AnalysisID string           `json:"analysis_id"`
}
