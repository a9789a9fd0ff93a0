package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/vitalis/internal/config"
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
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("VITALIS_ADDR", ":8080")
			_ = os.Setenv("VITALIS_RESULT_QUEUE_SIZE", "500")
			_ = os.Setenv("VITALIS_WORKER_COUNT", "3")
			_ = os.Setenv("VITALIS_MAX_SESSIONS", "0")
			_ = os.Setenv("VITALIS_STORE_BACKEND", "redis")
			_ = os.Setenv("VITALIS_REDIS_ADDR", "cache:6380")
			_ = os.Setenv("VITALIS_REDIS_DB", "2")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.ResultQueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 0)
				convey.So(cfg.StoreBackend, convey.ShouldEqual, config.StoreRedis)
				convey.So(cfg.RedisAddr, convey.ShouldEqual, "cache:6380")
				convey.So(cfg.RedisDB, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			path := writeTempFile(t, "config.yaml", `
# file layer
addr: ":9090"
result_queue_size: 300
history_limit: 5
session_ttl_minutes: 15
`)
			_ = os.Setenv("VITALIS_CONFIG", path)
			_ = os.Setenv("VITALIS_ADDR", ":8081")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.ResultQueueSize, convey.ShouldEqual, 300)
				convey.So(cfg.HistoryLimit, convey.ShouldEqual, 5)
				convey.So(cfg.SessionTTLMinutes, convey.ShouldEqual, 15)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, config.New().DedupeSize)
			})
		})

		convey.Convey("When a .env file is supplied", func() {
			path := writeTempFile(t, "vitalis.env", "VITALIS_HISTORY_LIMIT=7\nVITALIS_LOG_LEVEL=debug\n")
			_ = os.Setenv("VITALIS_ENV_FILE", path)
			_ = os.Setenv("VITALIS_LOG_LEVEL", "warn")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it fills unset variables without overriding set ones", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.HistoryLimit, convey.ShouldEqual, 7)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
			})
		})

		convey.Convey("When the explicit .env file does not exist", func() {
			_ = os.Setenv("VITALIS_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			_ = os.Setenv("VITALIS_CONFIG", writeTempFile(t, "bad.yaml", `invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("VITALIS_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("VITALIS_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("VITALIS_WORKER_COUNT", "not_a_number")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"VITALIS_CONFIG",
		"VITALIS_ENV_FILE",
		"VITALIS_LOG_LEVEL",
		"VITALIS_ADDR",
		"VITALIS_RESULT_QUEUE_SIZE",
		"VITALIS_WORKER_COUNT",
		"VITALIS_DEDUPE_SIZE",
		"VITALIS_SESSION_TTL_MINUTES",
		"VITALIS_MAX_SESSIONS",
		"VITALIS_HISTORY_LIMIT",
		"VITALIS_STORE_BACKEND",
		"VITALIS_REDIS_ADDR",
		"VITALIS_REDIS_DB",
		"VITALIS_REDIS_KEY_PREFIX",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
