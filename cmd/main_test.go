package main

import (
	"context"
	"testing"

	"github.com/parsab/itemd/internal/adapters/http/api"
	"github.com/parsab/itemd/internal/app"
	"github.com/parsab/itemd/internal/config"
	"github.com/parsab/itemd/pkg/logger"
	"github.com/parsab/itemd/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainComponents(t *testing.T) {
	convey.Convey("Given the main application components", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)

		convey.Convey("When loading configuration from the environment", func() {
			t.Setenv("ITEMD_ADDR", ":8080")
			t.Setenv("ITEMD_CSV_ROW_LIMIT", "500")

			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg, convey.ShouldNotBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.CSVRowLimit, convey.ShouldEqual, 500)
		})

		convey.Convey("When creating the service", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			custom := app.New(
				app.WithMaxUploadBytes(1<<20),
				app.WithCSVRowLimit(100),
			)
			convey.So(custom, convey.ShouldNotBeNil)
		})

		convey.Convey("When creating the HTTP server wiring", func() {
			svc := app.New()
			server := api.NewServer(svc, svc, 1<<20)
			convey.So(server, convey.ShouldNotBeNil)
		})

		convey.Convey("When creating a metrics manager", func() {
			manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
			convey.So(manager, convey.ShouldNotBeNil)
		})

		convey.Convey("When sampling system metrics", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})
	})
}
