// Package flaws turns joint angles into discrete form issues using tolerance
// bands around each joint's optimal range.
package flaws

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/shotform/internal/domain/biomech"
)

// Tolerances, in band units.
const (
	criticalDeviation = 15
	moderateDeviation = 5
)

// Joint names an angle the detector knows a band for.
type Joint string

// Tracked joints.
const (
	Elbow         Joint = "elbow"
	Knee          Joint = "knee"
	Shoulder      Joint = "shoulder"
	Hip           Joint = "hip"
	Ankle         Joint = "ankle"
	Wrist         Joint = "wrist"
	ReleaseAngle  Joint = "release_angle"
	Spine         Joint = "spine"
	ReleaseHeight Joint = "release_height"
)

// Severity of a detected issue.
type Severity string

// Severities, least to most severe.
const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityCritical Severity = "critical"
)

// Status of a single measurement against its band.
type Status string

// Measurement statuses.
const (
	StatusGood     Status = "good"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Band is the optimal range for one joint. Absolute bands compare |value|.
type Band struct {
	Joint       Joint
	Min, Max    float64
	Unit        string
	Absolute    bool
	Below       Kind
	Above       Kind
	Description string
}

// DefaultBands returns the production bands in detection order.
func DefaultBands() []Band {
	return []Band{
		{Joint: Elbow, Min: 80, Max: 100, Unit: "deg", Below: ElbowTooTight, Above: ElbowOverExtended, Description: "Shooting elbow angle"},
		{Joint: Knee, Min: 120, Max: 150, Unit: "deg", Below: ExcessiveKneeBend, Above: InsufficientKneeBend, Description: "Knee bend"},
		{Joint: Shoulder, Min: 80, Max: 110, Unit: "deg", Below: LowShootingArm, Above: ShoulderOverRotated, Description: "Shooting shoulder angle"},
		{Joint: Hip, Min: 155, Max: 180, Unit: "deg", Below: ExcessiveHipFlexion, Above: KindNone, Description: "Hip angle"},
		{Joint: Ankle, Min: 70, Max: 110, Unit: "deg", Below: LimitedAnkleFlexion, Above: HeelsLiftingEarly, Description: "Ankle flexion"},
		{Joint: Wrist, Min: 110, Max: 160, Unit: "deg", Below: WristOverCocked, Above: FlatWrist, Description: "Wrist angle"},
		{Joint: ReleaseAngle, Min: 45, Max: 60, Unit: "deg", Below: FlatReleaseAngle, Above: ReleaseAngleTooSteep, Description: "Release angle"},
		{Joint: Spine, Min: 0, Max: 10, Unit: "deg", Absolute: true, Below: KindNone, Above: ExcessiveBodyLean, Description: "Body lean"},
		{Joint: ReleaseHeight, Min: 95, Max: 120, Unit: "%", Below: LowReleasePoint, Above: ReleasePointTooHigh, Description: "Release height"},
	}
}

// FormIssue is one detected flaw. IDs are dense per call and must not be
// persisted across re-analysis.
type FormIssue struct {
	ID          string   `json:"id"`
	Kind        Kind     `json:"-"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Location    Joint    `json:"location"`
	Value       float64  `json:"value"`
	Deviation   float64  `json:"deviation"`
}

// AngleMeasurement is the per-joint view used by overlays.
type AngleMeasurement struct {
	Name        Joint   `json:"name"`
	Value       float64 `json:"value"`
	OptimalMin  float64 `json:"optimal_min"`
	OptimalMax  float64 `json:"optimal_max"`
	Unit        string  `json:"unit"`
	Status      Status  `json:"status"`
	Description string  `json:"description"`
}

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithBands replaces the band table.
func WithBands(bands []Band) Option {
	return func(d *Detector) {
		d.bands = append([]Band(nil), bands...)
	}
}

// Detector classifies angles. It is stateless and safe for concurrent use.
type Detector struct {
	bands []Band
	index map[Joint]int
}

// NewDetector creates a Detector with the default bands unless overridden.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{bands: DefaultBands()}
	for _, opt := range opts {
		opt(d)
	}
	d.index = make(map[Joint]int, len(d.bands))
	for i, b := range d.bands {
		d.index[b.Joint] = i
	}
	return d
}

// Detect returns the issues for angles in band order. Every key must have a
// band; otherwise ErrNoOptimalBand is returned and nothing is emitted.
func (d *Detector) Detect(angles map[Joint]float64) ([]FormIssue, error) {
	if err := d.checkKnown(angles); err != nil {
		return nil, err
	}

	issues := make([]FormIssue, 0)
	for _, b := range d.bands {
		v, ok := angles[b.Joint]
		if !ok {
			continue
		}
		dev, below := b.deviation(v)
		if dev <= 0 {
			continue
		}
		kind := b.Above
		if below {
			kind = b.Below
		}
		if kind == KindNone {
			continue
		}
		issues = append(issues, FormIssue{
			ID:          fmt.Sprintf("issue-%d", len(issues)+1),
			Kind:        kind,
			Title:       kind.Title(),
			Description: b.describe(v, dev, below),
			Severity:    SeverityFor(dev),
			Location:    b.Joint,
			Value:       v,
			Deviation:   dev,
		})
	}
	return issues, nil
}

// Measure classifies a single joint value.
func (d *Detector) Measure(j Joint, v float64) (AngleMeasurement, error) {
	i, ok := d.index[j]
	if !ok {
		return AngleMeasurement{}, fmt.Errorf("%w: %s", ErrNoOptimalBand, j)
	}
	b := d.bands[i]
	dev, _ := b.deviation(v)
	return AngleMeasurement{
		Name:        j,
		Value:       v,
		OptimalMin:  b.Min,
		OptimalMax:  b.Max,
		Unit:        b.Unit,
		Status:      StatusFor(dev),
		Description: b.Description,
	}, nil
}

// MeasureAll classifies every angle, in band order.
func (d *Detector) MeasureAll(angles map[Joint]float64) ([]AngleMeasurement, error) {
	if err := d.checkKnown(angles); err != nil {
		return nil, err
	}
	out := make([]AngleMeasurement, 0, len(angles))
	for _, b := range d.bands {
		if v, ok := angles[b.Joint]; ok {
			am, _ := d.Measure(b.Joint, v)
			out = append(out, am)
		}
	}
	return out, nil
}

func (d *Detector) checkKnown(angles map[Joint]float64) error {
	var unknown []string
	for j := range angles {
		if _, ok := d.index[j]; !ok {
			unknown = append(unknown, string(j))
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%w: %v", ErrNoOptimalBand, unknown)
}

// AnglesFromMetrics maps a metrics record to the detector's joints.
func AnglesFromMetrics(m biomech.Metrics) map[Joint]float64 {
	return map[Joint]float64{
		Elbow:         m.ElbowAngle,
		Knee:          m.KneeAngle,
		Shoulder:      m.ShoulderAngle,
		Hip:           m.HipAngle,
		Ankle:         m.AnkleAngle,
		Wrist:         m.WristAngle,
		ReleaseAngle:  m.ReleaseAngle,
		Spine:         m.SpineAngle,
		ReleaseHeight: m.ReleaseHeight,
	}
}

// SeverityFor grades a positive deviation.
func SeverityFor(dev float64) Severity {
	switch {
	case dev > criticalDeviation:
		return SeverityCritical
	case dev > moderateDeviation:
		return SeverityModerate
	default:
		return SeverityMinor
	}
}

// StatusFor maps a deviation to a measurement status.
func StatusFor(dev float64) Status {
	switch {
	case dev <= 0:
		return StatusGood
	case dev <= criticalDeviation:
		return StatusWarning
	default:
		return StatusCritical
	}
}

// deviation is the distance from v to the nearest band edge, to 2 decimals,
// and whether v is below the band.
func (b Band) deviation(v float64) (float64, bool) {
	if b.Absolute {
		v = math.Abs(v)
	}
	switch {
	case v < b.Min:
		return round2(b.Min - v), true
	case v > b.Max:
		return round2(v - b.Max), false
	default:
		return 0, false
	}
}

func (b Band) describe(v, dev float64, below bool) string {
	dir := "above"
	if below {
		dir = "below"
	}
	return fmt.Sprintf("%s measured %s, %s %s the optimal %s-%s range",
		b.Description, b.format(v), b.format(dev), dir, b.format(b.Min), b.format(b.Max))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (b Band) format(v float64) string {
	if b.Unit == "deg" {
		return fmt.Sprintf("%g°", v)
	}
	return fmt.Sprintf("%g%s", v, b.Unit)
}
