// Package scoring grades a biomechanical record against fixed optimal values
// and rolls the per-metric scores into a weighted overall score.
package scoring

import (
	"fmt"
	"math"

	"github.com/okian/shotform/internal/domain/biomech"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	maxScore = 100

	weightTolerance = 1e-9
)

// Category is the overall grade.
type Category string

// Category breakpoints are fixed and not configurable per caller.
const (
	Excellent        Category = "EXCELLENT"
	Good             Category = "GOOD"
	NeedsImprovement Category = "NEEDS_IMPROVEMENT"
	Critical         Category = "CRITICAL"
)

// Status classifies a single metric score.
type Status string

// Per-metric statuses.
const (
	StatusGood     Status = "good"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Rule grades one metric: score = max(0, 100 - Slope*deviation) where the
// deviation is the distance from Value(m) to [OptimalMin, OptimalMax].
type Rule struct {
	Name        string
	Unit        string
	Description string
	OptimalMin  float64
	OptimalMax  float64
	Slope       float64
	Weight      float64
	Value       func(m biomech.Metrics) float64
}

// DefaultRules returns the production table. The weights reflect how much
// each mechanic drives shot accuracy and sum to 1.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "elbow_angle", Unit: "deg", Description: "Shooting elbow angle at the set point",
			OptimalMin: 90, OptimalMax: 90, Slope: 4, Weight: 0.25,
			Value: func(m biomech.Metrics) float64 { return m.ElbowAngle },
		},
		{
			Name: "knee_angle", Unit: "deg", Description: "Knee bend loading the shot",
			OptimalMin: 140, OptimalMax: 140, Slope: 2, Weight: 0.20,
			Value: func(m biomech.Metrics) float64 { return m.KneeAngle },
		},
		{
			Name: "release_height", Unit: "%", Description: "Wrist height as a share of body height",
			OptimalMin: 105, OptimalMax: 105, Slope: 2, Weight: 0.20,
			Value: func(m biomech.Metrics) float64 { return m.ReleaseHeight },
		},
		{
			Name: "balance", Unit: "deg", Description: "Absolute torso lean from vertical",
			OptimalMin: 0, OptimalMax: 0, Slope: 5, Weight: 0.20,
			Value: func(m biomech.Metrics) float64 { return math.Abs(m.SpineAngle) },
		},
		{
			Name: "shoulder_alignment", Unit: "deg", Description: "Absolute shoulder line tilt",
			OptimalMin: 0, OptimalMax: 0, Slope: 3, Weight: 0.15,
			Value: func(m biomech.Metrics) float64 { return math.Abs(m.ShoulderTilt) },
		},
	}
}

// MetricScore is one breakdown entry.
type MetricScore struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	OptimalMin  float64 `json:"optimal_min"`
	OptimalMax  float64 `json:"optimal_max"`
	Unit        string  `json:"unit"`
	Slope       float64 `json:"slope"`
	Score       float64 `json:"score"`
	Status      Status  `json:"status"`
	Description string  `json:"description"`
}

// Derive recomputes the score and status from the value and the band.
func (ms MetricScore) Derive() (float64, Status) {
	s := MetricValueScore(ms.Value, ms.OptimalMin, ms.OptimalMax, ms.Slope)
	return s, StatusFor(s)
}

// Result is the outcome of scoring one record.
type Result struct {
	Score     int           `json:"score"`
	Category  Category      `json:"category"`
	Breakdown []MetricScore `json:"breakdown"`
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithRules replaces the rule table. New validates it.
func WithRules(rules []Rule) Option {
	return func(s *Scorer) {
		s.rules = append([]Rule(nil), rules...)
	}
}

// Scorer grades Metrics. It is safe for concurrent use.
type Scorer struct {
	rules   []Rule
	weights []float64
}

// New creates a Scorer with the default table unless overridden.
func New(opts ...Option) (*Scorer, error) {
	s := &Scorer{rules: DefaultRules()}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.rules) == 0 {
		return nil, fmt.Errorf("%w: empty rule table", ErrInvalidWeights)
	}
	s.weights = make([]float64, len(s.rules))
	for i, r := range s.rules {
		if r.Value == nil {
			return nil, fmt.Errorf("%w: rule %q has no value accessor", ErrInvalidWeights, r.Name)
		}
		if r.Weight <= 0 || r.Slope < 0 || r.OptimalMin > r.OptimalMax {
			return nil, fmt.Errorf("%w: rule %q", ErrInvalidWeights, r.Name)
		}
		s.weights[i] = r.Weight
	}
	if sum := floats.Sum(s.weights); math.Abs(sum-1) > weightTolerance {
		return nil, fmt.Errorf("%w: weights sum to %.6f", ErrInvalidWeights, sum)
	}
	return s, nil
}

// Score grades m. A nil record or a non-finite metric fails closed with
// ErrInsufficientInput.
func (s *Scorer) Score(m *biomech.Metrics) (Result, error) {
	if m == nil {
		return Result{}, fmt.Errorf("%w: no metrics", ErrInsufficientInput)
	}

	breakdown := make([]MetricScore, len(s.rules))
	scores := make([]float64, len(s.rules))
	for i, r := range s.rules {
		v := r.Value(*m)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, fmt.Errorf("%w: %s is not finite", ErrInsufficientInput, r.Name)
		}
		sc := MetricValueScore(v, r.OptimalMin, r.OptimalMax, r.Slope)
		scores[i] = sc
		breakdown[i] = MetricScore{
			Name:        r.Name,
			Value:       v,
			OptimalMin:  r.OptimalMin,
			OptimalMax:  r.OptimalMax,
			Unit:        r.Unit,
			Slope:       r.Slope,
			Score:       sc,
			Status:      StatusFor(sc),
			Description: r.Description,
		}
	}

	overall := int(math.Round(stat.Mean(scores, s.weights)))
	return Result{
		Score:     overall,
		Category:  Categorize(overall),
		Breakdown: breakdown,
	}, nil
}

// MetricValueScore is max(0, 100 - slope*deviation) for v against [lo, hi].
func MetricValueScore(v, lo, hi, slope float64) float64 {
	var dev float64
	switch {
	case v < lo:
		dev = lo - v
	case v > hi:
		dev = v - hi
	}
	return math.Max(0, maxScore-slope*dev)
}

// Categorize maps an overall score to its grade.
func Categorize(score int) Category {
	switch {
	case score >= 85:
		return Excellent
	case score >= 70:
		return Good
	case score >= 55:
		return NeedsImprovement
	default:
		return Critical
	}
}

// StatusFor maps a per-metric score to its status.
func StatusFor(score float64) Status {
	switch {
	case score >= 80:
		return StatusGood
	case score >= 60:
		return StatusWarning
	default:
		return StatusCritical
	}
}
