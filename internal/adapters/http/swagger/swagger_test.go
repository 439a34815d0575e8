package swagger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/smartystreets/goconvey/convey"
)

func TestSwaggerHandler(t *testing.T) {
	convey.Convey("Given a swagger handler", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()

		convey.Convey("When registering the swagger handler", func() {
			convey.So(Register(ctx, mux), convey.ShouldBeNil)

			convey.Convey("Then it should handle /openapi.yaml route", func() {
				req := httptest.NewRequest("GET", "/openapi.yaml", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/yaml; charset=utf-8")
				convey.So(w.Body.Len(), convey.ShouldBeGreaterThan, 0)
			})

			convey.Convey("And it should handle /api-docs route", func() {
				req := httptest.NewRequest("GET", "/api-docs", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "text/html; charset=utf-8")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "redoc-container")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "/openapi.yaml")
			})

			convey.Convey("And it rejects writes", func() {
				req := httptest.NewRequest("POST", "/openapi.yaml", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
			})
		})

		convey.Convey("When registering on a nil mux", func() {
			convey.So(Register(ctx, nil), convey.ShouldEqual, ErrNilMux)
		})
	})
}

func TestOpenAPIDocument(t *testing.T) {
	convey.Convey("Given the embedded OpenAPI document", t, func() {
		doc, err := yaml.Parser().Unmarshal(OpenAPI)

		convey.Convey("Then it parses and documents every route", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(doc["openapi"], convey.ShouldEqual, "3.0.3")
			paths, ok := doc["paths"].(map[string]any)
			convey.So(ok, convey.ShouldBeTrue)
			for _, p := range []string{
				"/healthz", "/stats", "/analyze", "/analyses", "/analyses/{analysis_id}",
				"/shooters", "/shooters/{id}", "/leaderboard", "/rank/{athlete_id}",
			} {
				convey.So(paths, convey.ShouldContainKey, p)
			}
		})
	})
}
