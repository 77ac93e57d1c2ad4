package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/ptt/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.OutputFormat, convey.ShouldEqual, "text")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PTT_OUTPUT_FORMAT", "json")
			_ = os.Setenv("PTT_WORKER_COUNT", "3")
			_ = os.Setenv("PTT_COLOR", "false")
			_ = os.Setenv("PTT_SHOW_TARGET_SCORE", "false")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.OutputFormat, convey.ShouldEqual, "json")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.Color, convey.ShouldBeFalse)
				convey.So(cfg.ShowTargetScore, convey.ShouldBeFalse)
				convey.So(cfg.ShowRequiredConstants, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := writeConfigFile(t, `
# comments are fine
output_format: yaml
queue_size: 64
watch_debounce_ms: 50
metrics_file: /tmp/ptt.prom
`)
			_ = os.Setenv("PTT_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values are merged with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.OutputFormat, convey.ShouldEqual, "yaml")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.WatchDebounceMS, convey.ShouldEqual, 50)
				convey.So(cfg.MetricsFile, convey.ShouldEqual, "/tmp/ptt.prom")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			})
		})

		convey.Convey("When both file and environment variables are set", func() {
			path := writeConfigFile(t, "output_format: yaml\nqueue_size: 64\n")
			_ = os.Setenv("PTT_CONFIG", path)
			_ = os.Setenv("PTT_OUTPUT_FORMAT", "json")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.OutputFormat, convey.ShouldEqual, "json")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
			})
		})

		convey.Convey("When a file is passed explicitly", func() {
			envFile := writeConfigFile(t, "queue_size: 8\n")
			flagFile := writeConfigFile(t, "queue_size: 16\n")
			_ = os.Setenv("PTT_CONFIG", envFile)

			cfg, err := config.Load(ctx, config.WithFile(flagFile))

			convey.Convey("Then it takes precedence over PTT_CONFIG", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 16)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			_ = os.Setenv("PTT_CONFIG", writeConfigFile(t, `invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PTT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PTT_WORKER_COUNT", "not_a_number")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown output format", func() {
			_ = os.Setenv("PTT_OUTPUT_FORMAT", "xml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	for _, envVar := range []string{
		"PTT_CONFIG",
		"PTT_LOG_LEVEL",
		"PTT_OUTPUT_FORMAT",
		"PTT_WORKER_COUNT",
		"PTT_QUEUE_SIZE",
		"PTT_COLOR",
		"PTT_SHOW_TARGET_SCORE",
		"PTT_SHOW_REQUIRED_CONSTANTS",
	} {
		_ = os.Unsetenv(envVar)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "ptt.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
