package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func familyNames(reg *prometheus.Registry) map[string]bool {
	fams, err := reg.Gather()
	So(err, ShouldBeNil)
	out := make(map[string]bool, len(fams))
	for _, f := range fams {
		out[f.GetName()] = true
	}
	return out
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given a private registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When a manager is created with a custom namespace", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithPrometheusRegistry(registry),
			)
			m.analyses.WithLabelValues("ok").Inc()
			m.formCategory.WithLabelValues("GOOD").Inc()

			Convey("Then series use that prefix", func() {
				names := familyNames(registry)
				So(names["test_unit_analyses_total"], ShouldBeTrue)
				So(names["test_unit_form_category_total"], ShouldBeTrue)
				for n := range names {
					So(strings.HasPrefix(n, "test_unit_"), ShouldBeTrue)
				}
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		before, err := Totals("analyses_total", "flaws_detected_total", "frames_skipped_total")
		So(err, ShouldBeNil)

		Convey("When analysis outcomes are recorded", func() {
			RecordAnalysis("ok")
			RecordAnalysis("unavailable")
			RecordFormScore(91, "EXCELLENT")
			RecordFlawDetected("critical")
			RecordFlawDetected("minor")
			RecordMatchSimilarity(97)
			RecordFrameSkipped("insufficient_data")
			RecordAnalysisLatency(3)

			Convey("Then Totals sums across label values", func() {
				after, err := Totals("analyses_total", "flaws_detected_total", "frames_skipped_total")
				So(err, ShouldBeNil)
				So(after["analyses_total"]-before["analyses_total"], ShouldEqual, 2)
				So(after["flaws_detected_total"]-before["flaws_detected_total"], ShouldEqual, 2)
				So(after["frames_skipped_total"]-before["frames_skipped_total"], ShouldEqual, 1)
			})

			Convey("And the custom registry exposes the shotform series", func() {
				names := familyNames(GetRegistry())
				So(names["shotform_analysis_form_score"], ShouldBeTrue)
				So(names["shotform_analysis_match_similarity"], ShouldBeTrue)
			})
		})

		Convey("When an unknown suffix is requested", func() {
			got, err := Totals("no_such_total")
			Convey("Then it reads as zero", func() {
				So(err, ShouldBeNil)
				So(got["no_such_total"], ShouldEqual, 0)
			})
		})

		Convey("Then the remaining recorders do not panic", func() {
			So(func() {
				RecordJobDuplicate()
				RecordJobCompleted("done")
				RecordLeaderboardUpdate()
				UpdateQueueSize(1)
				UpdateQueueCapacity(10)
				UpdateQueueUtilization(0.1)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordQueueProcessingLatency(1)
				UpdateWorkerActiveCount(2)
				UpdateWorkerMessagesPerSecond(1.5)
				RecordWorkerProcessingLatency(4)
				RecordWorkerError()
				UpdateRepositoryAthletes(3)
				UpdateRepositoryResults(3)
				RecordRepositoryUpdateLatency(1)
				RecordRepositoryQueryLatency(1)
				RecordHTTPRequest("analyze", "POST", "200")
				RecordHTTPRequestDuration("analyze", "POST", "200", 2)
				RecordErrorByComponent("worker", "analysis_unavailable")
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("analyze", "POST", "client_error")
				RecordErrorLatency("http", "backpressure", 3)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)
		})
	})
}
