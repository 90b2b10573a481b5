package smoke

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/parsab/itemd/internal/domain/item"
	"github.com/parsab/itemd/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/items/", func(w http.ResponseWriter, r *http.Request) {
		var it item.Item
		if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(it)
	})
	mux.HandleFunc("/docs", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return httptest.NewServer(mux)
}

func TestGenerateItems(t *testing.T) {
	Convey("Given the item generator", t, func() {
		Convey("When generating a batch", func() {
			items := generateItems(30)

			Convey("Then every item should be schema-valid", func() {
				So(len(items), ShouldEqual, 30)
				for _, it := range items {
					So(it.Validate(), ShouldBeNil)
				}
			})

			Convey("And names should be unique", func() {
				seen := map[string]bool{}
				for _, it := range items {
					So(seen[it.Name], ShouldBeFalse)
					seen[it.Name] = true
				}
			})

			Convey("And both optional-field shapes should occur", func() {
				var withDesc, withTax int
				for _, it := range items {
					if it.Description != nil {
						withDesc++
					}
					if it.Tax != nil {
						withTax++
					}
				}
				So(withDesc, ShouldBeGreaterThan, 0)
				So(withTax, ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestConfigValidate(t *testing.T) {
	Convey("Given smoke configurations", t, func() {
		valid := Config{BaseURL: "http://localhost:8000", NumItems: 10, Workers: 2, Timeout: time.Second}

		Convey("Then a complete config should validate", func() {
			So(valid.Validate(), ShouldBeNil)
		})

		Convey("Then broken configs should be rejected", func() {
			cases := []Config{
				{NumItems: 10, Workers: 2, Timeout: time.Second},
				{BaseURL: "x", Workers: 2, Timeout: time.Second},
				{BaseURL: "x", NumItems: 10, Timeout: time.Second},
				{BaseURL: "x", NumItems: 10, Workers: 2},
			}
			for _, c := range cases {
				So(c.Validate(), ShouldNotBeNil)
			}
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running echo server", t, func() {
		So(logger.Init(), ShouldBeNil)
		srv := echoServer(t)
		defer srv.Close()

		Convey("When running the smoke suite against it", func() {
			cfg := &Config{BaseURL: srv.URL, NumItems: 20, Workers: 4, Timeout: 5 * time.Second}
			stats, err := Run(context.Background(), cfg)

			Convey("Then every item should round-trip", func() {
				So(err, ShouldBeNil)
				So(stats.ItemsSubmitted, ShouldEqual, 20)
				So(stats.ItemsEchoed, ShouldEqual, 20)
				So(stats.Mismatches, ShouldEqual, 0)
				So(stats.Failures, ShouldEqual, 0)
				So(stats.DocsOK, ShouldBeTrue)
				So(stats.HealthOK, ShouldBeTrue)
			})
		})

		Convey("When the config is invalid", func() {
			_, err := Run(context.Background(), &Config{})

			Convey("Then it should fail before submitting anything", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the server is unreachable", func() {
			cfg := &Config{BaseURL: "http://127.0.0.1:1", NumItems: 3, Workers: 1, Timeout: time.Second}
			stats, err := Run(context.Background(), cfg)

			Convey("Then failures should be reported", func() {
				So(err, ShouldNotBeNil)
				So(stats.Failures, ShouldEqual, 3)
			})
		})
	})
}
