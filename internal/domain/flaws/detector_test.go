package flaws_test

import (
	"errors"
	"testing"

	"github.com/okian/shotform/internal/domain/biomech"
	"github.com/okian/shotform/internal/domain/flaws"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDetector_Detect(t *testing.T) {
	Convey("Given the default detector", t, func() {
		d := flaws.NewDetector()

		Convey("When every angle is inside its band", func() {
			issues, err := d.Detect(map[flaws.Joint]float64{
				flaws.Elbow: 90, flaws.Knee: 140, flaws.Spine: -8, flaws.Hip: 180,
			})

			Convey("Then no issue is emitted", func() {
				So(err, ShouldBeNil)
				So(issues, ShouldBeEmpty)
			})
		})

		Convey("When the elbow is 60 degrees", func() {
			issues, err := d.Detect(map[flaws.Joint]float64{flaws.Elbow: 60})

			Convey("Then a critical tight-elbow issue is emitted", func() {
				So(err, ShouldBeNil)
				So(issues, ShouldHaveLength, 1)
				So(issues[0].ID, ShouldEqual, "issue-1")
				So(issues[0].Title, ShouldEqual, "Elbow Too Tight")
				So(issues[0].Kind, ShouldEqual, flaws.ElbowTooTight)
				So(issues[0].Severity, ShouldEqual, flaws.SeverityCritical)
				So(issues[0].Location, ShouldEqual, flaws.Elbow)
				So(issues[0].Deviation, ShouldEqual, 20)
				So(issues[0].Description, ShouldEqual, "Shooting elbow angle measured 60°, 20° below the optimal 80°-100° range")
			})
		})

		Convey("When deviations straddle the severity edges", func() {
			issues, _ := d.Detect(map[flaws.Joint]float64{
				flaws.Elbow:        105, // 5 over
				flaws.Knee:         155, // 5 over
				flaws.ReleaseAngle: 44,  // 1 under
				flaws.Wrist:        175, // 15 over
				flaws.Ankle:        126, // 16 over
			})

			Convey("Then 5 is minor, 15 moderate and 16 critical", func() {
				So(issues, ShouldHaveLength, 5)
				sev := map[flaws.Joint]flaws.Severity{}
				for _, is := range issues {
					sev[is.Location] = is.Severity
				}
				So(sev[flaws.Elbow], ShouldEqual, flaws.SeverityMinor)
				So(sev[flaws.Knee], ShouldEqual, flaws.SeverityMinor)
				So(sev[flaws.ReleaseAngle], ShouldEqual, flaws.SeverityMinor)
				So(sev[flaws.Wrist], ShouldEqual, flaws.SeverityModerate)
				So(sev[flaws.Ankle], ShouldEqual, flaws.SeverityCritical)
			})

			Convey("And ids follow band order densely", func() {
				want := []flaws.Joint{flaws.Elbow, flaws.Knee, flaws.Ankle, flaws.Wrist, flaws.ReleaseAngle}
				for i, is := range issues {
					So(is.Location, ShouldEqual, want[i])
					So(is.ID, ShouldEqual, []string{"issue-1", "issue-2", "issue-3", "issue-4", "issue-5"}[i])
				}
			})
		})

		Convey("When the torso leans 14 degrees to either side", func() {
			left, _ := d.Detect(map[flaws.Joint]float64{flaws.Spine: -14})
			right, _ := d.Detect(map[flaws.Joint]float64{flaws.Spine: 14})

			Convey("Then both read as excessive lean", func() {
				So(left, ShouldHaveLength, 1)
				So(right, ShouldHaveLength, 1)
				So(left[0].Title, ShouldEqual, "Excessive Body Lean")
				So(left[0].Deviation, ShouldEqual, 4)
			})
		})

		Convey("When an angle has no configured band", func() {
			issues, err := d.Detect(map[flaws.Joint]float64{flaws.Elbow: 60, "neck": 12})

			Convey("Then it is a configuration error, not a silent default", func() {
				So(errors.Is(err, flaws.ErrNoOptimalBand), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "neck")
				So(issues, ShouldBeNil)
			})
		})

		Convey("When the set point pose is checked", func() {
			m := biomech.Metrics{
				ShoulderAngle: 105, ElbowAngle: 90, HipAngle: 169, KneeAngle: 139,
				AnkleAngle: 69, WristAngle: 180, ReleaseHeight: 93.9, ReleaseAngle: 90,
			}
			issues, err := d.Detect(flaws.AnglesFromMetrics(m))

			Convey("Then the flat wrist, steep release, ankle and low release are flagged", func() {
				So(err, ShouldBeNil)
				titles := make([]string, len(issues))
				for i, is := range issues {
					titles[i] = is.Title
				}
				So(titles, ShouldResemble, []string{
					"Limited Ankle Flexion", "Flat Wrist", "Release Angle Too Steep", "Low Release Point",
				})
				So(issues[3].Deviation, ShouldEqual, 1.1)
			})
		})
	})
}

func TestDetector_Measure(t *testing.T) {
	Convey("Given the default detector", t, func() {
		d := flaws.NewDetector()

		Convey("Then status is re-derived from the band", func() {
			good, err := d.Measure(flaws.Knee, 130)
			So(err, ShouldBeNil)
			So(good.Status, ShouldEqual, flaws.StatusGood)
			So(good.OptimalMin, ShouldEqual, 120)
			So(good.OptimalMax, ShouldEqual, 150)

			warn, _ := d.Measure(flaws.Knee, 165)
			So(warn.Status, ShouldEqual, flaws.StatusWarning)

			crit, _ := d.Measure(flaws.Knee, 166)
			So(crit.Status, ShouldEqual, flaws.StatusCritical)
		})

		Convey("Then unknown joints are rejected", func() {
			_, err := d.Measure("neck", 10)
			So(errors.Is(err, flaws.ErrNoOptimalBand), ShouldBeTrue)
			_, err = d.MeasureAll(map[flaws.Joint]float64{"neck": 10})
			So(errors.Is(err, flaws.ErrNoOptimalBand), ShouldBeTrue)
		})

		Convey("Then MeasureAll follows band order", func() {
			all, err := d.MeasureAll(map[flaws.Joint]float64{flaws.ReleaseHeight: 100, flaws.Elbow: 90})
			So(err, ShouldBeNil)
			So(all, ShouldHaveLength, 2)
			So(all[0].Name, ShouldEqual, flaws.Elbow)
			So(all[1].Name, ShouldEqual, flaws.ReleaseHeight)
		})
	})
}

func TestKind(t *testing.T) {
	Convey("Given every flaw kind", t, func() {
		Convey("Then each has a unique title and a specific recommendation", func() {
			seen := map[string]bool{}
			generic := flaws.KindNone.Recommendation()
			for _, k := range flaws.Kinds() {
				So(k.Title(), ShouldNotBeEmpty)
				So(seen[k.Title()], ShouldBeFalse)
				seen[k.Title()] = true
				So(k.Recommendation(), ShouldNotEqual, generic)
				So(flaws.KindForTitle(k.Title()), ShouldEqual, k)
			}
			So(len(seen), ShouldEqual, 16)
		})

		Convey("Then unmapped titles fall back to the generic recommendation", func() {
			So(flaws.RecommendationFor("Crooked Guide Hand"), ShouldEqual, flaws.KindNone.Recommendation())
			So(flaws.RecommendationFor("Flat Wrist"), ShouldEqual, flaws.FlatWrist.Recommendation())
		})
	})
}
