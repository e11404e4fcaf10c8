package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(Init(), ShouldBeNil)
		defer func() { So(Sync(), ShouldBeNil) }()

		Convey("Then the global logger is available", func() {
			So(Get(), ShouldNotBeNil)
			So(Named("trainer"), ShouldNotBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing text to a buffer", t, func() {
		var buf bytes.Buffer
		So(SetOutput(&buf), ShouldBeNil)
		So(SetFormat(FormatText), ShouldBeNil)
		So(SetLevelString("info"), ShouldBeNil)
		defer func() { _ = SetOutput(os.Stdout) }()

		ctx := context.Background()

		Convey("When logging at info", func() {
			Named("trainer").Info(ctx, "fit complete", String("run_id", "abc"), Int("classes", 2))

			Convey("Then the message, fields and caller are written", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "fit complete")
				So(out, ShouldContainSubstring, "run_id=abc")
				So(out, ShouldContainSubstring, "classes=2")
				So(out, ShouldContainSubstring, "component=trainer")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging below the configured level", func() {
			Get().Debug(ctx, "hidden")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When logging an error field", func() {
			Get().Error(ctx, "save failed", Error(errors.New("disk full")))

			Convey("Then the error text is rendered", func() {
				So(buf.String(), ShouldContainSubstring, "disk full")
			})
		})
	})

	Convey("Given a logger writing json", t, func() {
		var buf bytes.Buffer
		So(SetOutput(&buf), ShouldBeNil)
		So(SetFormat(FormatJSON), ShouldBeNil)
		defer func() {
			_ = SetFormat(FormatText)
			_ = SetOutput(os.Stdout)
		}()

		Get().With(String("run_id", "r1")).Warn(context.Background(), "skipped rows", Int("skipped", 3))

		Convey("Then each line is a json object", func() {
			line := strings.TrimSpace(buf.String())
			var rec map[string]any
			So(json.Unmarshal([]byte(line), &rec), ShouldBeNil)
			So(rec["msg"], ShouldEqual, "skipped rows")
			So(rec["run_id"], ShouldEqual, "r1")
			So(rec["skipped"], ShouldEqual, float64(3))
		})
	})
}

func TestSetLevelAndFormat(t *testing.T) {
	Convey("Given level and format strings", t, func() {
		So(SetLevelString("DEBUG"), ShouldBeNil)
		So(SetLevelString("warning"), ShouldBeNil)
		So(SetLevelString(""), ShouldBeNil)
		So(SetLevelString("verbose"), ShouldNotBeNil)

		So(SetFormat("yaml"), ShouldNotBeNil)
		So(SetFormat(""), ShouldBeNil)
	})
}
