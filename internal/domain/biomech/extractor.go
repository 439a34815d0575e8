package biomech

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/shotform/internal/domain/geometry"
	"github.com/okian/shotform/internal/domain/keypoint"
	"github.com/okian/shotform/pkg/logger"
)

// Synthetic offsets in normalized units. forwardFootOffset assumes the
// subject's toes point toward +x in the frame; a mirrored camera inverts the
// ankle reading.
const (
	forwardFootOffset = 0.1
	handProxyOffset   = 0.1
	releaseRefOffset  = 0.1
	percent           = 100
)

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for rejected frames.
func WithLogger(l logger.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// Extractor derives Metrics from keypoint sets. It holds no per-call state.
type Extractor struct {
	logger logger.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logger.Get().Named("extractor")
	}
	return e
}

// joints holds the positions the extractor reads for one side.
type joints struct {
	shoulder, elbow, wrist, hip, knee, ankle geometry.Point
}

// SelectShootingSide picks the side whose wrist is higher on screen
// (smaller y). Equal heights resolve to the right side.
func SelectShootingSide(left, right keypoint.Keypoint) Side {
	if right.Y <= left.Y {
		return SideRight
	}
	return SideLeft
}

// Extract computes Metrics from set. It fails closed with ErrInsufficientData
// when any required joint is absent and with ErrDegenerateGeometry when an
// angle cannot be defined.
func (e *Extractor) Extract(ctx context.Context, set keypoint.Set) (Metrics, error) {
	if missing := set.Missing(keypoint.Required); len(missing) > 0 {
		e.debug(ctx, "insufficient keypoints", logger.Any("missing", missing))
		return Metrics{}, fmt.Errorf("%w: missing %v", ErrInsufficientData, missing)
	}

	lw, _ := set.Get(keypoint.LeftWrist)
	rw, _ := set.Get(keypoint.RightWrist)
	side := SelectShootingSide(lw, rw)

	s := sideJoints(set, side)
	ls, rs := pt(set, keypoint.LeftShoulder), pt(set, keypoint.RightShoulder)
	lh, rh := pt(set, keypoint.LeftHip), pt(set, keypoint.RightHip)
	la, ra := pt(set, keypoint.LeftAnkle), pt(set, keypoint.RightAnkle)

	midShoulder := geometry.Midpoint(ls, rs)
	midHip := geometry.Midpoint(lh, rh)
	midAnkle := geometry.Midpoint(la, ra)

	hand := s.wrist.Offset(0, -handProxyOffset)
	if tip, ok := set.Get(indexFor(side)); ok {
		hand = geometry.Point{X: tip.X, Y: tip.Y}
	}

	releaseRef := s.elbow.Offset(releaseRefOffset, 0)
	if s.wrist.X < s.elbow.X {
		releaseRef = s.elbow.Offset(-releaseRefOffset, 0)
	}

	// Order matches the joint fields assigned below.
	vertices := [...]struct {
		a, b, c geometry.Point
	}{
		{s.elbow, s.shoulder, midHip},
		{s.shoulder, s.elbow, s.wrist},
		{midShoulder, s.hip, s.knee},
		{s.hip, s.knee, s.ankle},
		{s.knee, s.ankle, s.ankle.Offset(forwardFootOffset, 0)},
		{s.elbow, s.wrist, hand},
		{releaseRef, s.elbow, s.wrist},
	}
	var angles [len(vertices)]float64
	for i, v := range vertices {
		if err := geometry.CheckVertex(v.a, v.b, v.c); err != nil {
			e.debug(ctx, "degenerate frame", logger.Error(err))
			return Metrics{}, err
		}
		angles[i] = roundDeg(geometry.AngleAtVertex(v.a, v.b, v.c))
	}
	// A forearm pointing below horizontal has no upward release elevation.
	if s.wrist.Y > s.elbow.Y {
		angles[6] = 0
	}
	if geometry.Distance(midShoulder, midHip) == 0 {
		return Metrics{}, fmt.Errorf("%w: torso has zero length", ErrDegenerateGeometry)
	}

	top := midShoulder
	if nose, ok := set.Get(keypoint.Nose); ok {
		top = geometry.Point{X: nose.X, Y: nose.Y}
	}
	bodyHeight := midAnkle.Y - top.Y
	if bodyHeight <= 0 {
		return Metrics{}, fmt.Errorf("%w: non-positive body height %.4f", ErrDegenerateGeometry, bodyHeight)
	}

	m := Metrics{
		ShoulderAngle: angles[0],
		ElbowAngle:    angles[1],
		HipAngle:      angles[2],
		KneeAngle:     angles[3],
		AnkleAngle:    angles[4],
		WristAngle:    angles[5],

		ReleaseHeight: round2((midAnkle.Y - s.wrist.Y) / bodyHeight * percent),
		ReleaseAngle:  angles[6],

		SpineAngle:   roundDeg(geometry.AngleFromVertical(midShoulder, midHip)),
		ShoulderTilt: roundDeg(tilt(ls, rs)),
		HipTilt:      roundDeg(tilt(lh, rh)),

		CenterOfMassX: round2(geometry.Midpoint(midShoulder, midHip).X - midAnkle.X),
		BaseWidth:     round2(geometry.Distance(la, ra)),

		RightHanded: side == SideRight,
		Confidence:  round2(meanConfidence(set, keypoint.Required)),
	}
	return m, nil
}

func (e *Extractor) debug(ctx context.Context, msg string, fields ...logger.Field) {
	e.logger.Debug(ctx, msg, fields...)
}

func sideJoints(set keypoint.Set, side Side) joints {
	if side == SideLeft {
		return joints{
			shoulder: pt(set, keypoint.LeftShoulder),
			elbow:    pt(set, keypoint.LeftElbow),
			wrist:    pt(set, keypoint.LeftWrist),
			hip:      pt(set, keypoint.LeftHip),
			knee:     pt(set, keypoint.LeftKnee),
			ankle:    pt(set, keypoint.LeftAnkle),
		}
	}
	return joints{
		shoulder: pt(set, keypoint.RightShoulder),
		elbow:    pt(set, keypoint.RightElbow),
		wrist:    pt(set, keypoint.RightWrist),
		hip:      pt(set, keypoint.RightHip),
		knee:     pt(set, keypoint.RightKnee),
		ankle:    pt(set, keypoint.RightAnkle),
	}
}

func indexFor(side Side) keypoint.Name {
	if side == SideLeft {
		return keypoint.LeftIndex
	}
	return keypoint.RightIndex
}

func pt(set keypoint.Set, n keypoint.Name) geometry.Point {
	p, _ := set.Get(n)
	return geometry.Point{X: p.X, Y: p.Y}
}

// tilt is the signed angle of left->right from horizontal, positive when the
// left point is higher on screen.
func tilt(left, right geometry.Point) float64 {
	return math.Atan2(left.Y-right.Y, math.Abs(right.X-left.X)) * -180 / math.Pi
}

func meanConfidence(set keypoint.Set, names []keypoint.Name) float64 {
	var sum float64
	for _, n := range names {
		p, _ := set.Get(n)
		sum += p.Confidence
	}
	return sum / float64(len(names))
}

// roundDeg rounds to whole degrees and normalizes negative zero.
func roundDeg(v float64) float64 {
	r := math.Round(v)
	if r == 0 {
		return 0
	}
	return r
}

func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}
