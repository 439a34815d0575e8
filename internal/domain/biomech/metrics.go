// Package biomech turns a keypoint set into a fixed-shape record of joint
// angles, release, alignment and balance metrics.
package biomech

// Side is the shooting side inferred from wrist height.
type Side string

// Shooting sides.
const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Metrics is the biomechanical record for one analyzed frame. It is a value:
// callers copy it and never mutate it in place.
//
// Joint angles are integer degrees in [0,180]. SpineAngle, ShoulderTilt and
// HipTilt are signed degrees. ReleaseHeight is a percentage of body height.
type Metrics struct {
	ShoulderAngle float64 `json:"shoulder_angle"`
	ElbowAngle    float64 `json:"elbow_angle"`
	HipAngle      float64 `json:"hip_angle"`
	KneeAngle     float64 `json:"knee_angle"`
	AnkleAngle    float64 `json:"ankle_angle"`
	WristAngle    float64 `json:"wrist_angle"`

	ReleaseHeight float64 `json:"release_height"`
	ReleaseAngle  float64 `json:"release_angle"`

	SpineAngle   float64 `json:"spine_angle"`
	ShoulderTilt float64 `json:"shoulder_tilt"`
	HipTilt      float64 `json:"hip_tilt"`

	CenterOfMassX float64 `json:"center_of_mass_x"`
	BaseWidth     float64 `json:"base_width"`

	RightHanded bool    `json:"right_handed"`
	Confidence  float64 `json:"confidence"`
}

// ShootingSide returns the side the record was measured on.
func (m Metrics) ShootingSide() Side {
	if m.RightHanded {
		return SideRight
	}
	return SideLeft
}
