// Package similarity ranks reference shooters by how closely their mechanics
// match a user's.
package similarity

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/shotform/internal/domain/biomech"
	"github.com/okian/shotform/internal/domain/corpus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Score bounds. A match never claims to be implausible or perfect.
const (
	MinScore = 50
	MaxScore = 99

	matchingThreshold  = 5
	differingThreshold = 15
	maxMatchingTraits  = 4
	maxDifferingTraits = 3
	defaultTopN        = 5
	weightTolerance    = 1e-9
)

// Profile is the compared subset of a shooter's mechanics.
type Profile struct {
	ElbowAngle    float64 `json:"elbow_angle"`
	ReleaseAngle  float64 `json:"release_angle"`
	KneeAngle     float64 `json:"knee_angle"`
	ShoulderAngle float64 `json:"shoulder_angle"`
	HipAngle      float64 `json:"hip_angle"`
	ReleaseHeight float64 `json:"release_height"`
	AnkleAngle    float64 `json:"ankle_angle"`
	SpineAngle    float64 `json:"spine_angle"`
}

// ProfileFromMetrics projects an extracted record.
func ProfileFromMetrics(m biomech.Metrics) Profile {
	return Profile{
		ElbowAngle:    m.ElbowAngle,
		ReleaseAngle:  m.ReleaseAngle,
		KneeAngle:     m.KneeAngle,
		ShoulderAngle: m.ShoulderAngle,
		HipAngle:      m.HipAngle,
		ReleaseHeight: m.ReleaseHeight,
		AnkleAngle:    m.AnkleAngle,
		SpineAngle:    m.SpineAngle,
	}
}

// ProfileFromReference projects a corpus entry.
func ProfileFromReference(m corpus.ShootingMetrics) Profile {
	return Profile{
		ElbowAngle:    m.ElbowAngle,
		ReleaseAngle:  m.ReleaseAngle,
		KneeAngle:     m.KneeAngle,
		ShoulderAngle: m.ShoulderAngle,
		HipAngle:      m.HipAngle,
		ReleaseHeight: m.ReleaseHeight,
		AnkleAngle:    m.AnkleAngle,
		SpineAngle:    m.SpineAngle,
	}
}

// Attribute is one compared dimension. Evaluation order is table order and
// decides trait order.
type Attribute struct {
	Label  string
	Weight float64
	Slope  float64
	Value  func(p Profile) float64
}

// DefaultAttributes returns the production table. Weights sum to 1.
func DefaultAttributes() []Attribute {
	return []Attribute{
		{Label: "elbow angle", Weight: 0.20, Slope: 3, Value: func(p Profile) float64 { return p.ElbowAngle }},
		{Label: "release angle", Weight: 0.15, Slope: 2, Value: func(p Profile) float64 { return p.ReleaseAngle }},
		{Label: "knee bend", Weight: 0.15, Slope: 2, Value: func(p Profile) float64 { return p.KneeAngle }},
		{Label: "shoulder angle", Weight: 0.12, Slope: 2, Value: func(p Profile) float64 { return p.ShoulderAngle }},
		{Label: "hip angle", Weight: 0.12, Slope: 2, Value: func(p Profile) float64 { return p.HipAngle }},
		{Label: "release height", Weight: 0.10, Slope: 2, Value: func(p Profile) float64 { return p.ReleaseHeight }},
		{Label: "ankle flexion", Weight: 0.08, Slope: 2, Value: func(p Profile) float64 { return p.AnkleAngle }},
		{Label: "body lean", Weight: 0.08, Slope: 3, Value: func(p Profile) float64 { return p.SpineAngle }},
	}
}

// Comparison is the outcome of comparing two profiles.
type Comparison struct {
	Score           int      `json:"similarity_score"`
	MatchingTraits  []string `json:"matching_traits"`
	DifferingTraits []string `json:"differing_traits"`
}

// MatchResult is a Comparison against a named reference.
type MatchResult struct {
	ShooterID   string `json:"shooter_id"`
	ShooterName string `json:"shooter_name"`
	Comparison
}

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithAttributes replaces the attribute table. NewMatcher validates it.
func WithAttributes(attrs []Attribute) Option {
	return func(m *Matcher) {
		m.attrs = append([]Attribute(nil), attrs...)
	}
}

// WithTopN sets the default number of matches returned by TopMatches.
func WithTopN(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.topN = n
		}
	}
}

// Matcher compares profiles against an injected corpus. It holds no mutable
// state and is safe for concurrent use.
type Matcher struct {
	corpus  *corpus.Corpus
	attrs   []Attribute
	weights []float64
	topN    int
}

// NewMatcher creates a Matcher over c.
func NewMatcher(c *corpus.Corpus, opts ...Option) (*Matcher, error) {
	if c == nil || c.Len() == 0 {
		return nil, corpus.ErrEmptyCorpus
	}
	m := &Matcher{corpus: c, attrs: DefaultAttributes(), topN: defaultTopN}
	for _, opt := range opts {
		opt(m)
	}
	if len(m.attrs) == 0 {
		return nil, fmt.Errorf("%w: empty attribute table", ErrInvalidWeights)
	}
	m.weights = make([]float64, len(m.attrs))
	for i, a := range m.attrs {
		if a.Value == nil || a.Weight <= 0 || a.Slope <= 0 {
			return nil, fmt.Errorf("%w: attribute %q", ErrInvalidWeights, a.Label)
		}
		m.weights[i] = a.Weight
	}
	if sum := floats.Sum(m.weights); math.Abs(sum-1) > weightTolerance {
		return nil, fmt.Errorf("%w: weights sum to %.6f", ErrInvalidWeights, sum)
	}
	return m, nil
}

// Corpus returns the reference set the matcher ranks against.
func (m *Matcher) Corpus() *corpus.Corpus { return m.corpus }

// Compare scores user against ref. The score is clamped to [MinScore,
// MaxScore]; trait lists keep evaluation order and are truncated.
func (m *Matcher) Compare(user, ref Profile) Comparison {
	scores := make([]float64, len(m.attrs))
	matching := make([]string, 0, maxMatchingTraits)
	differing := make([]string, 0, maxDifferingTraits)

	for i, a := range m.attrs {
		diff := math.Abs(a.Value(user) - a.Value(ref))
		if math.IsNaN(diff) {
			diff = math.Inf(1)
		}
		scores[i] = math.Max(0, 100-diff*a.Slope)

		switch {
		case diff < matchingThreshold && len(matching) < maxMatchingTraits:
			matching = append(matching, "Similar "+a.Label)
		case diff > differingThreshold && len(differing) < maxDifferingTraits:
			differing = append(differing, "Different "+a.Label)
		}
	}

	return Comparison{
		Score:           clamp(int(math.Round(stat.Mean(scores, m.weights)))),
		MatchingTraits:  matching,
		DifferingTraits: differing,
	}
}

// Match compares user against one reference.
func (m *Matcher) Match(user Profile, ref corpus.ShooterReference) MatchResult {
	return MatchResult{
		ShooterID:   ref.ID,
		ShooterName: ref.Name,
		Comparison:  m.Compare(user, ProfileFromReference(ref.Metrics)),
	}
}

// TopMatches ranks every reference by score, descending, and returns the
// first n (the configured default when n <= 0). Ties keep corpus order.
func (m *Matcher) TopMatches(user Profile, n int) []MatchResult {
	if n <= 0 {
		n = m.topN
	}
	refs := m.corpus.All()
	out := make([]MatchResult, len(refs))
	for i, ref := range refs {
		out[i] = m.Match(user, ref)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func clamp(score int) int {
	switch {
	case score < MinScore:
		return MinScore
	case score > MaxScore:
		return MaxScore
	default:
		return score
	}
}
