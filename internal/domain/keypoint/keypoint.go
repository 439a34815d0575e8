// Package keypoint holds the validated keypoint set produced by an upstream
// pose detector. Coordinates share one space with y increasing downward.
package keypoint

import (
	"fmt"
	"math"
	"sort"
)

// Name is a canonical joint name.
type Name string

// Canonical vocabulary (COCO-17 plus MediaPipe index fingertips).
const (
	Nose          Name = "nose"
	LeftEye       Name = "left_eye"
	RightEye      Name = "right_eye"
	LeftEar       Name = "left_ear"
	RightEar      Name = "right_ear"
	LeftShoulder  Name = "left_shoulder"
	RightShoulder Name = "right_shoulder"
	LeftElbow     Name = "left_elbow"
	RightElbow    Name = "right_elbow"
	LeftWrist     Name = "left_wrist"
	RightWrist    Name = "right_wrist"
	LeftIndex     Name = "left_index"
	RightIndex    Name = "right_index"
	LeftHip       Name = "left_hip"
	RightHip      Name = "right_hip"
	LeftKnee      Name = "left_knee"
	RightKnee     Name = "right_knee"
	LeftAnkle     Name = "left_ankle"
	RightAnkle    Name = "right_ankle"
)

var vocabulary = map[Name]struct{}{
	Nose: {}, LeftEye: {}, RightEye: {}, LeftEar: {}, RightEar: {},
	LeftShoulder: {}, RightShoulder: {}, LeftElbow: {}, RightElbow: {},
	LeftWrist: {}, RightWrist: {}, LeftIndex: {}, RightIndex: {},
	LeftHip: {}, RightHip: {}, LeftKnee: {}, RightKnee: {},
	LeftAnkle: {}, RightAnkle: {},
}

// Required lists the twelve joints every analysis needs.
var Required = []Name{
	LeftShoulder, RightShoulder,
	LeftElbow, RightElbow,
	LeftWrist, RightWrist,
	LeftHip, RightHip,
	LeftKnee, RightKnee,
	LeftAnkle, RightAnkle,
}

// Known reports whether n belongs to the canonical vocabulary.
func Known(n Name) bool {
	_, ok := vocabulary[n]
	return ok
}

// Keypoint is one detected joint.
type Keypoint struct {
	Name       Name    `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Position is the wire shape used by the map form of a set.
type Position struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Set is an immutable collection of keypoints with unique names.
// The zero value is an empty set.
type Set struct {
	points map[Name]Keypoint
}

// NewSet validates points and builds a Set.
func NewSet(points ...Keypoint) (Set, error) {
	m := make(map[Name]Keypoint, len(points))
	for _, p := range points {
		if err := validate(p); err != nil {
			return Set{}, err
		}
		if _, dup := m[p.Name]; dup {
			return Set{}, fmt.Errorf("%w: %s", ErrDuplicateJoint, p.Name)
		}
		m[p.Name] = p
	}
	return Set{points: m}, nil
}

// FromMap builds a Set from the name -> position form emitted by pose services.
func FromMap(in map[string]Position) (Set, error) {
	names := make([]string, 0, len(in))
	for n := range in {
		names = append(names, n)
	}
	sort.Strings(names)

	points := make([]Keypoint, 0, len(in))
	for _, n := range names {
		p := in[n]
		points = append(points, Keypoint{Name: Name(n), X: p.X, Y: p.Y, Confidence: p.Confidence})
	}
	return NewSet(points...)
}

func validate(p Keypoint) error {
	if !Known(p.Name) {
		return fmt.Errorf("%w: %q", ErrUnknownJoint, p.Name)
	}
	if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
		return fmt.Errorf("%w: %s", ErrNonFiniteCoordinate, p.Name)
	}
	if math.IsNaN(p.Confidence) || p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("%w: %s=%v", ErrInvalidConfidence, p.Name, p.Confidence)
	}
	return nil
}

// Get returns the keypoint for n. Absence is a valid state.
func (s Set) Get(n Name) (Keypoint, bool) {
	p, ok := s.points[n]
	return p, ok
}

// Has reports whether n was detected.
func (s Set) Has(n Name) bool {
	_, ok := s.points[n]
	return ok
}

// Len returns the number of detected keypoints.
func (s Set) Len() int { return len(s.points) }

// Missing returns the names from want that are absent, in want order.
func (s Set) Missing(want []Name) []Name {
	var out []Name
	for _, n := range want {
		if !s.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// Points returns the keypoints sorted by name.
func (s Set) Points() []Keypoint {
	out := make([]Keypoint, 0, len(s.points))
	for _, p := range s.points {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ToMap returns the name -> position form of the set.
func (s Set) ToMap() map[string]Position {
	out := make(map[string]Position, len(s.points))
	for n, p := range s.points {
		out[string(n)] = Position{X: p.X, Y: p.Y, Confidence: p.Confidence}
	}
	return out
}
