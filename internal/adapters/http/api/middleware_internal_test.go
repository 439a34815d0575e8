package api

import (
	"net/http"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestErrorCode(t *testing.T) {
	Convey("Error labels match the codes written to the response body", t, func() {
		cases := map[int]string{
			http.StatusBadRequest:          "bad_request",
			http.StatusNotFound:            "not_found",
			http.StatusUnprocessableEntity: "analysis_unavailable",
			http.StatusTooManyRequests:     "backpressure",
			http.StatusServiceUnavailable:  "unavailable",
			http.StatusInternalServerError: "internal_error",
			http.StatusConflict:            "client_error",
		}
		for status, want := range cases {
			So(errorCode(status), ShouldEqual, want)
		}
		So(errorSeverity(http.StatusUnprocessableEntity), ShouldEqual, "low")
		So(errorSeverity(http.StatusTooManyRequests), ShouldEqual, "high")
		So(errorSeverity(http.StatusBadRequest), ShouldEqual, "medium")
	})
}
