// Package corpus holds the read-only reference shooter dataset the matcher
// compares against. A Corpus is built once and never mutated.
package corpus

import (
	"fmt"
	"math"
	"strings"
)

// Build is a body-build category.
type Build string

// Known builds.
const (
	BuildSlight   Build = "slight"
	BuildAverage  Build = "average"
	BuildAthletic Build = "athletic"
	BuildStrong   Build = "strong"
)

// Tier is a skill tier.
type Tier string

// Known tiers, highest first.
const (
	TierElite      Tier = "elite"
	TierPro        Tier = "pro"
	TierCollege    Tier = "college"
	TierAmateur    Tier = "amateur"
	TierDeveloping Tier = "developing"
)

// ShootingMetrics is the mechanical shape shared with the extractor output,
// without balance and handedness.
type ShootingMetrics struct {
	ShoulderAngle float64 `json:"shoulder_angle" koanf:"shoulder_angle"`
	ElbowAngle    float64 `json:"elbow_angle" koanf:"elbow_angle"`
	HipAngle      float64 `json:"hip_angle" koanf:"hip_angle"`
	KneeAngle     float64 `json:"knee_angle" koanf:"knee_angle"`
	AnkleAngle    float64 `json:"ankle_angle" koanf:"ankle_angle"`
	WristAngle    float64 `json:"wrist_angle" koanf:"wrist_angle"`
	ReleaseHeight float64 `json:"release_height" koanf:"release_height"`
	ReleaseAngle  float64 `json:"release_angle" koanf:"release_angle"`
	SpineAngle    float64 `json:"spine_angle" koanf:"spine_angle"`
}

// ShooterReference is one corpus entry.
type ShooterReference struct {
	ID           string          `json:"id" koanf:"id"`
	Name         string          `json:"name" koanf:"name"`
	HeightCM     float64         `json:"height_cm" koanf:"height_cm"`
	WeightKG     float64         `json:"weight_kg" koanf:"weight_kg"`
	WingspanCM   float64         `json:"wingspan_cm" koanf:"wingspan_cm"`
	Build        Build           `json:"build" koanf:"build"`
	Tier         Tier            `json:"tier" koanf:"tier"`
	OverallScore float64         `json:"overall_score" koanf:"overall_score"`
	Metrics      ShootingMetrics `json:"metrics" koanf:"metrics"`
}

// Validate checks one entry.
func (r ShooterReference) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidReference)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: %s: empty name", ErrInvalidReference, r.ID)
	}
	for _, v := range []float64{r.HeightCM, r.WeightKG, r.WingspanCM} {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s: physical attributes must be positive", ErrInvalidReference, r.ID)
		}
	}
	switch r.Build {
	case BuildSlight, BuildAverage, BuildAthletic, BuildStrong:
	default:
		return fmt.Errorf("%w: %s: unknown build %q", ErrInvalidReference, r.ID, r.Build)
	}
	switch r.Tier {
	case TierElite, TierPro, TierCollege, TierAmateur, TierDeveloping:
	default:
		return fmt.Errorf("%w: %s: unknown tier %q", ErrInvalidReference, r.ID, r.Tier)
	}
	if r.OverallScore < 0 || r.OverallScore > 100 || math.IsNaN(r.OverallScore) {
		return fmt.Errorf("%w: %s: overall score out of range", ErrInvalidReference, r.ID)
	}
	m := r.Metrics
	for _, a := range []float64{m.ShoulderAngle, m.ElbowAngle, m.HipAngle, m.KneeAngle, m.AnkleAngle, m.WristAngle, m.ReleaseAngle} {
		if a < 0 || a > 180 || math.IsNaN(a) {
			return fmt.Errorf("%w: %s: angle %v outside [0,180]", ErrInvalidReference, r.ID, a)
		}
	}
	if math.IsNaN(m.ReleaseHeight) || math.IsNaN(m.SpineAngle) || math.Abs(m.SpineAngle) > 90 {
		return fmt.Errorf("%w: %s: release height or spine out of range", ErrInvalidReference, r.ID)
	}
	return nil
}

// Corpus is an immutable, ordered set of references. It is safe for
// concurrent reads.
type Corpus struct {
	refs  []ShooterReference
	index map[string]int
}

// New validates refs and builds a Corpus that keeps their order. IDs must be
// unique.
func New(refs []ShooterReference) (*Corpus, error) {
	if len(refs) == 0 {
		return nil, ErrEmptyCorpus
	}
	c := &Corpus{
		refs:  make([]ShooterReference, len(refs)),
		index: make(map[string]int, len(refs)),
	}
	for i, r := range refs {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidReference, r.ID)
		}
		c.refs[i] = r
		c.index[r.ID] = i
	}
	return c, nil
}

// Len returns the number of references.
func (c *Corpus) Len() int { return len(c.refs) }

// All returns a copy of the references in corpus order.
func (c *Corpus) All() []ShooterReference {
	return append([]ShooterReference(nil), c.refs...)
}

// Get returns the reference with id.
func (c *Corpus) Get(id string) (ShooterReference, error) {
	i, ok := c.index[id]
	if !ok {
		return ShooterReference{}, fmt.Errorf("%w: %s", ErrShooterNotFound, id)
	}
	return c.refs[i], nil
}
