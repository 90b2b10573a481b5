package logger

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInitAndGet(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		err := Init()
		So(err, ShouldBeNil)

		Convey("When getting the global logger", func() {
			l := Get()

			Convey("Then it should not be nil", func() {
				So(l, ShouldNotBeNil)
			})

			Convey("And logging should not panic", func() {
				ctx := context.Background()
				So(func() {
					l.Info(ctx, "hello", String("k", "v"))
					l.Debug(ctx, "dbg", Int("n", 1))
					l.Warn(ctx, "warn", Bool("b", true))
					l.Error(ctx, "err", Error(errors.New("boom")))
				}, ShouldNotPanic)
			})

			Convey("And Named should return a child logger", func() {
				So(Named("api"), ShouldNotBeNil)
				So(l.Named("api"), ShouldNotBeNil)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(Init(), ShouldBeNil)

		Convey("When setting known levels", func() {
			for _, lvl := range []string{"debug", "info", "warn", "warning", "error", "", "  INFO "} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("When setting an unknown level", func() {
			err := SetLevelString("loud")

			Convey("Then it should fail and keep the previous level", func() {
				So(err, ShouldNotBeNil)
				SetLevel(slog.LevelWarn)
				So(SetLevelString("bogus"), ShouldNotBeNil)
				So(levelVar.Level(), ShouldEqual, slog.LevelWarn)
			})
		})
	})
}

func TestFieldConstructors(t *testing.T) {
	Convey("Given the field constructors", t, func() {
		Convey("Then keys and values should round-trip", func() {
			So(String("a", "b"), ShouldResemble, Field{Key: "a", Value: "b"})
			So(Int("n", 2), ShouldResemble, Field{Key: "n", Value: 2})
			So(Int64("n", int64(3)), ShouldResemble, Field{Key: "n", Value: int64(3)})
			So(Float64("f", 1.5), ShouldResemble, Field{Key: "f", Value: 1.5})
			So(Bool("b", true), ShouldResemble, Field{Key: "b", Value: true})
			So(Duration("d", time.Second), ShouldResemble, Field{Key: "d", Value: time.Second})
			So(Any("x", 7).Key, ShouldEqual, "x")
		})
	})
}
