package corpus

// Builtin returns the bundled reference set. The entries are mechanical
// archetypes, not real players.
func Builtin() *Corpus {
	c, err := New(builtinReferences())
	if err != nil {
		panic("corpus: builtin table is invalid: " + err.Error())
	}
	return c
}

func builtinReferences() []ShooterReference {
	return []ShooterReference{
		{
			ID: "quick-release-guard", Name: "Quick-Release Guard",
			HeightCM: 188, WeightKG: 84, WingspanCM: 193, Build: BuildSlight, Tier: TierElite, OverallScore: 96,
			Metrics: ShootingMetrics{ShoulderAngle: 98, ElbowAngle: 88, HipAngle: 168, KneeAngle: 138, AnkleAngle: 84, WristAngle: 128, ReleaseHeight: 108, ReleaseAngle: 52, SpineAngle: 2},
		},
		{
			ID: "high-arc-wing", Name: "High-Arc Wing",
			HeightCM: 201, WeightKG: 98, WingspanCM: 211, Build: BuildAthletic, Tier: TierElite, OverallScore: 94,
			Metrics: ShootingMetrics{ShoulderAngle: 104, ElbowAngle: 92, HipAngle: 172, KneeAngle: 144, AnkleAngle: 88, WristAngle: 134, ReleaseHeight: 114, ReleaseAngle: 56, SpineAngle: 1},
		},
		{
			ID: "stretch-big", Name: "Stretch Big",
			HeightCM: 213, WeightKG: 111, WingspanCM: 224, Build: BuildStrong, Tier: TierPro, OverallScore: 88,
			Metrics: ShootingMetrics{ShoulderAngle: 101, ElbowAngle: 95, HipAngle: 170, KneeAngle: 148, AnkleAngle: 92, WristAngle: 138, ReleaseHeight: 112, ReleaseAngle: 50, SpineAngle: 3},
		},
		{
			ID: "set-shot-specialist", Name: "Set-Shot Specialist",
			HeightCM: 196, WeightKG: 90, WingspanCM: 198, Build: BuildAverage, Tier: TierPro, OverallScore: 90,
			Metrics: ShootingMetrics{ShoulderAngle: 95, ElbowAngle: 90, HipAngle: 166, KneeAngle: 132, AnkleAngle: 80, WristAngle: 124, ReleaseHeight: 102, ReleaseAngle: 48, SpineAngle: 0},
		},
		{
			ID: "fadeaway-scorer", Name: "Fadeaway Scorer",
			HeightCM: 198, WeightKG: 96, WingspanCM: 208, Build: BuildAthletic, Tier: TierElite, OverallScore: 91,
			Metrics: ShootingMetrics{ShoulderAngle: 108, ElbowAngle: 94, HipAngle: 162, KneeAngle: 146, AnkleAngle: 96, WristAngle: 140, ReleaseHeight: 116, ReleaseAngle: 58, SpineAngle: -9},
		},
		{
			ID: "low-slot-shooter", Name: "Low-Slot Shooter",
			HeightCM: 185, WeightKG: 80, WingspanCM: 188, Build: BuildSlight, Tier: TierCollege, OverallScore: 78,
			Metrics: ShootingMetrics{ShoulderAngle: 84, ElbowAngle: 82, HipAngle: 160, KneeAngle: 128, AnkleAngle: 76, WristAngle: 118, ReleaseHeight: 96, ReleaseAngle: 46, SpineAngle: 4},
		},
		{
			ID: "one-motion-forward", Name: "One-Motion Forward",
			HeightCM: 206, WeightKG: 104, WingspanCM: 215, Build: BuildStrong, Tier: TierPro, OverallScore: 84,
			Metrics: ShootingMetrics{ShoulderAngle: 110, ElbowAngle: 100, HipAngle: 174, KneeAngle: 150, AnkleAngle: 90, WristAngle: 146, ReleaseHeight: 118, ReleaseAngle: 60, SpineAngle: 2},
		},
		{
			ID: "push-shot-rookie", Name: "Push-Shot Rookie",
			HeightCM: 180, WeightKG: 74, WingspanCM: 181, Build: BuildAverage, Tier: TierAmateur, OverallScore: 62,
			Metrics: ShootingMetrics{ShoulderAngle: 78, ElbowAngle: 72, HipAngle: 152, KneeAngle: 118, AnkleAngle: 68, WristAngle: 150, ReleaseHeight: 90, ReleaseAngle: 40, SpineAngle: 8},
		},
		{
			ID: "side-spin-developer", Name: "Side-Spin Developer",
			HeightCM: 175, WeightKG: 70, WingspanCM: 176, Build: BuildSlight, Tier: TierDeveloping, OverallScore: 55,
			Metrics: ShootingMetrics{ShoulderAngle: 72, ElbowAngle: 112, HipAngle: 150, KneeAngle: 156, AnkleAngle: 104, WristAngle: 158, ReleaseHeight: 88, ReleaseAngle: 38, SpineAngle: -12},
		},
		{
			ID: "compact-combo-guard", Name: "Compact Combo Guard",
			HeightCM: 191, WeightKG: 86, WingspanCM: 197, Build: BuildAthletic, Tier: TierCollege, OverallScore: 81,
			Metrics: ShootingMetrics{ShoulderAngle: 100, ElbowAngle: 86, HipAngle: 165, KneeAngle: 135, AnkleAngle: 82, WristAngle: 130, ReleaseHeight: 104, ReleaseAngle: 51, SpineAngle: 1},
		},
	}
}
