package flaws

// Kind enumerates the mechanical flaws the detector can emit.
type Kind int

// Known flaw kinds. KindNone marks a band edge that never produces a flaw.
const (
	KindNone Kind = iota
	ElbowTooTight
	ElbowOverExtended
	ExcessiveKneeBend
	InsufficientKneeBend
	LowShootingArm
	ShoulderOverRotated
	ExcessiveHipFlexion
	LimitedAnkleFlexion
	HeelsLiftingEarly
	WristOverCocked
	FlatWrist
	FlatReleaseAngle
	ReleaseAngleTooSteep
	ExcessiveBodyLean
	LowReleasePoint
	ReleasePointTooHigh
)

const genericRecommendation = "Film a few more reps from the side and compare this joint against the optimal range with a coach."

// Kinds lists every emitted kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, int(ReleasePointTooHigh))
	for k := ElbowTooTight; k <= ReleasePointTooHigh; k++ {
		out = append(out, k)
	}
	return out
}

// Title is the fixed human-readable flaw name.
func (k Kind) Title() string {
	switch k {
	case ElbowTooTight:
		return "Elbow Too Tight"
	case ElbowOverExtended:
		return "Elbow Over-Extended"
	case ExcessiveKneeBend:
		return "Excessive Knee Bend"
	case InsufficientKneeBend:
		return "Insufficient Knee Bend"
	case LowShootingArm:
		return "Low Shooting Arm"
	case ShoulderOverRotated:
		return "Shoulder Over-Rotated"
	case ExcessiveHipFlexion:
		return "Excessive Hip Flexion"
	case LimitedAnkleFlexion:
		return "Limited Ankle Flexion"
	case HeelsLiftingEarly:
		return "Heels Lifting Early"
	case WristOverCocked:
		return "Wrist Over-Cocked"
	case FlatWrist:
		return "Flat Wrist"
	case FlatReleaseAngle:
		return "Flat Release Angle"
	case ReleaseAngleTooSteep:
		return "Release Angle Too Steep"
	case ExcessiveBodyLean:
		return "Excessive Body Lean"
	case LowReleasePoint:
		return "Low Release Point"
	case ReleasePointTooHigh:
		return "Release Point Too High"
	default:
		return ""
	}
}

// Recommendation is the coaching action for k. Unknown kinds get the
// generic recommendation.
func (k Kind) Recommendation() string {
	switch k {
	case ElbowTooTight:
		return "Open the elbow toward 90 degrees at the set point so the ball sits above the shooting eye."
	case ElbowOverExtended:
		return "Bring the ball closer to the forehead so the elbow folds back under the ball."
	case ExcessiveKneeBend:
		return "Sit less deep in the dip; a shallower load keeps the shot quick and repeatable."
	case InsufficientKneeBend:
		return "Bend the knees more on the catch so the legs, not the arms, power the shot."
	case LowShootingArm:
		return "Lift the upper arm until it is roughly level with the shoulder before the release."
	case ShoulderOverRotated:
		return "Keep the shooting shoulder under the ball instead of reaching behind the head."
	case ExcessiveHipFlexion:
		return "Stay tall through the hips and avoid folding forward during the dip."
	case LimitedAnkleFlexion:
		return "Let the ankles flex into the floor during the load to store energy for the jump."
	case HeelsLiftingEarly:
		return "Keep the heels down until the legs start extending; rise through the toes at release."
	case WristOverCocked:
		return "Relax the wrist at the set point so it is loaded, not bent back past comfort."
	case FlatWrist:
		return "Cock the wrist back under the ball so the release snaps forward into a follow-through."
	case FlatReleaseAngle:
		return "Release the ball on a higher arc by extending up through the elbow, not out."
	case ReleaseAngleTooSteep:
		return "Push the ball slightly more toward the rim instead of straight up."
	case ExcessiveBodyLean:
		return "Keep the chest stacked over the hips and land where you took off."
	case LowReleasePoint:
		return "Release the ball higher, at full arm extension above the head."
	case ReleasePointTooHigh:
		return "Release at a natural full extension without reaching past it."
	default:
		return genericRecommendation
	}
}

// KindForTitle resolves a flaw title to its kind, or KindNone.
func KindForTitle(title string) Kind {
	for _, k := range Kinds() {
		if k.Title() == title {
			return k
		}
	}
	return KindNone
}

// RecommendationFor resolves the recommendation for a flaw title, falling
// back to the generic recommendation for unmapped titles.
func RecommendationFor(title string) string {
	return KindForTitle(title).Recommendation()
}
