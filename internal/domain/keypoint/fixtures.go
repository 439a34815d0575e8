package keypoint

// SetPointPose returns a right-handed set point in normalized coordinates:
// upper arm horizontal, forearm vertical, knees flexed, torso upright.
// It is used by tests and the formcheck demo input.
func SetPointPose() map[string]Position {
	return map[string]Position{
		string(Nose):          {X: 0.50, Y: 0.10, Confidence: 0.9},
		string(LeftShoulder):  {X: 0.42, Y: 0.25, Confidence: 0.9},
		string(RightShoulder): {X: 0.58, Y: 0.25, Confidence: 0.9},
		string(LeftElbow):     {X: 0.36, Y: 0.38, Confidence: 0.9},
		string(RightElbow):    {X: 0.68, Y: 0.25, Confidence: 0.9},
		string(LeftWrist):     {X: 0.40, Y: 0.45, Confidence: 0.9},
		string(RightWrist):    {X: 0.68, Y: 0.15, Confidence: 0.9},
		string(LeftHip):       {X: 0.45, Y: 0.55, Confidence: 0.9},
		string(RightHip):      {X: 0.55, Y: 0.55, Confidence: 0.9},
		string(LeftKnee):      {X: 0.42, Y: 0.74, Confidence: 0.9},
		string(RightKnee):     {X: 0.62, Y: 0.74, Confidence: 0.9},
		string(LeftAnkle):     {X: 0.45, Y: 0.92, Confidence: 0.9},
		string(RightAnkle):    {X: 0.55, Y: 0.92, Confidence: 0.9},
	}
}

// MirrorX reflects every point across x = 0.5 and swaps left/right names.
func MirrorX(in map[string]Position) map[string]Position {
	pairs := [][2]Name{
		{LeftEye, RightEye}, {LeftEar, RightEar}, {LeftShoulder, RightShoulder},
		{LeftElbow, RightElbow}, {LeftWrist, RightWrist}, {LeftIndex, RightIndex},
		{LeftHip, RightHip}, {LeftKnee, RightKnee}, {LeftAnkle, RightAnkle},
	}
	swap := make(map[Name]Name, 2*len(pairs))
	for _, p := range pairs {
		swap[p[0]] = p[1]
		swap[p[1]] = p[0]
	}
	out := make(map[string]Position, len(in))
	for n, p := range in {
		name := Name(n)
		if other, ok := swap[name]; ok {
			name = other
		}
		out[string(name)] = Position{X: 1 - p.X, Y: p.Y, Confidence: p.Confidence}
	}
	return out
}
