package scoring_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/shotform/internal/domain/biomech"
	scoring "github.com/okian/shotform/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func ideal() biomech.Metrics {
	return biomech.Metrics{
		ElbowAngle:    90,
		KneeAngle:     140,
		ReleaseHeight: 105,
		SpineAngle:    0,
		ShoulderTilt:  0,
	}
}

func entry(r scoring.Result, name string) scoring.MetricScore {
	for _, ms := range r.Breakdown {
		if ms.Name == name {
			return ms
		}
	}
	return scoring.MetricScore{}
}

func TestScorer_Score(t *testing.T) {
	Convey("Given the default scorer", t, func() {
		s, err := scoring.New()
		So(err, ShouldBeNil)

		Convey("When every metric sits on its optimum", func() {
			m := ideal()
			r, err := s.Score(&m)

			Convey("Then the shot is graded EXCELLENT", func() {
				So(err, ShouldBeNil)
				So(r.Score, ShouldBeGreaterThanOrEqualTo, 85)
				So(r.Score, ShouldEqual, 100)
				So(r.Category, ShouldEqual, scoring.Excellent)
				So(r.Breakdown, ShouldHaveLength, 5)
				for _, ms := range r.Breakdown {
					So(ms.Status, ShouldEqual, scoring.StatusGood)
				}
			})
		})

		Convey("When the elbow is 30 degrees under its optimum", func() {
			m := ideal()
			m.ElbowAngle = 60
			r, err := s.Score(&m)

			Convey("Then the elbow entry floors at zero and is critical", func() {
				So(err, ShouldBeNil)
				elbow := entry(r, "elbow_angle")
				So(elbow.Score, ShouldEqual, 0)
				So(elbow.Status, ShouldEqual, scoring.StatusCritical)
				So(r.Score, ShouldEqual, 75)
				So(r.Category, ShouldEqual, scoring.Good)
			})
		})

		Convey("When the torso leans either way", func() {
			left, right := ideal(), ideal()
			left.SpineAngle = -6
			right.SpineAngle = 6
			rl, _ := s.Score(&left)
			rr, _ := s.Score(&right)

			Convey("Then balance is scored on the absolute lean", func() {
				So(entry(rl, "balance").Score, ShouldEqual, 70)
				So(entry(rl, "balance").Value, ShouldEqual, 6)
				So(entry(rl, "balance").Status, ShouldEqual, scoring.StatusWarning)
				So(rl.Score, ShouldEqual, rr.Score)
			})
		})

		Convey("When a breakdown entry is re-derived", func() {
			m := ideal()
			m.KneeAngle = 125
			r, _ := s.Score(&m)
			knee := entry(r, "knee_angle")
			sc, st := knee.Derive()

			Convey("Then it agrees with the stored score and status", func() {
				So(sc, ShouldEqual, knee.Score)
				So(st, ShouldEqual, knee.Status)
				So(knee.Score, ShouldEqual, 70)
			})
		})

		Convey("When the input is missing or not finite", func() {
			_, errNil := s.Score(nil)
			m := ideal()
			m.KneeAngle = math.NaN()
			_, errNaN := s.Score(&m)

			Convey("Then scoring fails closed", func() {
				So(errors.Is(errNil, scoring.ErrInsufficientInput), ShouldBeTrue)
				So(errors.Is(errNaN, scoring.ErrInsufficientInput), ShouldBeTrue)
			})
		})
	})
}

func TestScorer_Monotonic(t *testing.T) {
	Convey("Given each default rule", t, func() {
		s, err := scoring.New()
		So(err, ShouldBeNil)

		Convey("Then moving the elbow away from 90 never raises its score", func() {
			prev := math.Inf(1)
			for d := 0.0; d <= 40; d++ {
				m := ideal()
				m.ElbowAngle = 90 + d
				r, err := s.Score(&m)
				So(err, ShouldBeNil)
				sc := entry(r, "elbow_angle").Score
				So(sc, ShouldBeLessThanOrEqualTo, prev)
				if prev > 0 {
					So(sc, ShouldBeLessThan, prev)
				}
				prev = sc
			}
		})

		Convey("Then the same holds for every rule in the table", func() {
			for _, rule := range scoring.DefaultRules() {
				prev := math.Inf(1)
				for d := 0.0; d <= 60; d += 2 {
					sc := scoring.MetricValueScore(rule.OptimalMax+d, rule.OptimalMin, rule.OptimalMax, rule.Slope)
					So(sc, ShouldBeLessThanOrEqualTo, prev)
					prev = sc
				}
			}
		})
	})
}

func TestCategorize(t *testing.T) {
	Convey("Given the overall breakpoints", t, func() {
		cases := []struct {
			score int
			want  scoring.Category
		}{
			{100, scoring.Excellent},
			{85, scoring.Excellent},
			{84, scoring.Good},
			{70, scoring.Good},
			{69, scoring.NeedsImprovement},
			{55, scoring.NeedsImprovement},
			{54, scoring.Critical},
			{0, scoring.Critical},
		}
		Convey("Then each score maps to exactly one category", func() {
			for _, c := range cases {
				So(scoring.Categorize(c.score), ShouldEqual, c.want)
			}
		})

		Convey("Then per-metric status uses 80 and 60", func() {
			So(scoring.StatusFor(80), ShouldEqual, scoring.StatusGood)
			So(scoring.StatusFor(79.99), ShouldEqual, scoring.StatusWarning)
			So(scoring.StatusFor(60), ShouldEqual, scoring.StatusWarning)
			So(scoring.StatusFor(59), ShouldEqual, scoring.StatusCritical)
		})
	})
}

func TestNew_Validation(t *testing.T) {
	Convey("Given custom rule tables", t, func() {
		value := func(m biomech.Metrics) float64 { return m.ElbowAngle }

		Convey("When the weights do not sum to one", func() {
			_, err := scoring.New(scoring.WithRules([]scoring.Rule{
				{Name: "a", Weight: 0.5, Slope: 1, Value: value},
				{Name: "b", Weight: 0.4, Slope: 1, Value: value},
			}))
			Convey("Then construction fails", func() {
				So(errors.Is(err, scoring.ErrInvalidWeights), ShouldBeTrue)
			})
		})

		Convey("When a rule has a banded optimum", func() {
			s, err := scoring.New(scoring.WithRules([]scoring.Rule{
				{Name: "elbow", OptimalMin: 80, OptimalMax: 100, Weight: 1, Slope: 4, Value: value},
			}))
			So(err, ShouldBeNil)
			m := biomech.Metrics{ElbowAngle: 95}
			r, _ := s.Score(&m)

			Convey("Then values inside the band score 100", func() {
				So(r.Score, ShouldEqual, 100)
			})
		})

		Convey("When the table is empty", func() {
			_, err := scoring.New(scoring.WithRules(nil))
			Convey("Then construction fails", func() {
				So(errors.Is(err, scoring.ErrInvalidWeights), ShouldBeTrue)
			})
		})
	})
}
