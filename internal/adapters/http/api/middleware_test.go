package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/shotform/internal/adapters/http/api"
	"github.com/okian/shotform/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

var errorSeries = []string{"http_requests_total", "errors_by_endpoint_total", "errors_by_type_total"}

func serveWithStatus(status int) {
	h := api.MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}, "middleware-test")
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/analyses", http.NoBody))
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given the metrics middleware around a handler", t, func() {
		before, err := metrics.Totals(errorSeries...)
		So(err, ShouldBeNil)

		Convey("When the handler answers 429 for a full queue", func() {
			serveWithStatus(http.StatusTooManyRequests)

			Convey("Then the request and its error are counted once", func() {
				after, err := metrics.Totals(errorSeries...)
				So(err, ShouldBeNil)
				for _, name := range errorSeries {
					So(after[name]-before[name], ShouldEqual, 1)
				}
			})
		})

		Convey("When the handler succeeds", func() {
			serveWithStatus(http.StatusAccepted)

			Convey("Then only the request is counted", func() {
				after, err := metrics.Totals(errorSeries...)
				So(err, ShouldBeNil)
				So(after["http_requests_total"]-before["http_requests_total"], ShouldEqual, 1)
				So(after["errors_by_type_total"], ShouldEqual, before["errors_by_type_total"])
			})
		})
	})
}
