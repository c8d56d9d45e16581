package config_test

import (
	"context"
	"os"
	"testing"
	"time"

	"bannerd/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			// Clear any existing environment variables
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Server.Port, convey.ShouldEqual, 8080)
				convey.So(cfg.Server.ReadTimeout, convey.ShouldEqual, 10*time.Second)
				convey.So(cfg.Logging.Level, convey.ShouldEqual, "info")
				convey.So(cfg.Events.QueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.Kafka.Topic, convey.ShouldEqual, "banner-events")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			// Set environment variables
			_ = os.Setenv("BANNERD_SERVER_PORT", "9090")
			_ = os.Setenv("BANNERD_SERVER_READ_TIMEOUT", "5s")
			_ = os.Setenv("BANNERD_LOGGING_LEVEL", "debug")
			_ = os.Setenv("BANNERD_EVENTS_QUEUE_SIZE", "512")
			_ = os.Setenv("BANNERD_EVENTS_WORKER_COUNT", "4")
			_ = os.Setenv("BANNERD_KAFKA_BROKERS", "localhost:9092,localhost:9093")
			_ = os.Setenv("BANNERD_KAFKA_TOPIC", "banner-events-test")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Server.Port, convey.ShouldEqual, 9090)
				convey.So(cfg.Server.ReadTimeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.Logging.Level, convey.ShouldEqual, "debug")
				convey.So(cfg.Events.QueueSize, convey.ShouldEqual, 512)
				convey.So(cfg.Events.WorkerCount, convey.ShouldEqual, 4)
				convey.So(cfg.Kafka.Brokers, convey.ShouldResemble, []string{"localhost:9092", "localhost:9093"})
				convey.So(cfg.Kafka.Topic, convey.ShouldEqual, "banner-events-test")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			// Create a temporary YAML config file
			yamlContent := `
server:
  port: 9191
  read_timeout: 5s
logging:
  level: warn
events:
  queue_size: 2048
kafka:
  brokers:
    - "localhost:9092"
  topic: "banner-events-file"
seed:
  banners:
    - image_url: "https://cdn.example.com/a.png"
      click_url: "https://example.com/a"
      title: "Seeded"
      weight: 3
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			// Set the config file path
			_ = os.Setenv("BANNERD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Server.Port, convey.ShouldEqual, 9191)
				convey.So(cfg.Server.ReadTimeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.Server.WriteTimeout, convey.ShouldEqual, 10*time.Second) // From defaults
				convey.So(cfg.Logging.Level, convey.ShouldEqual, "warn")
				convey.So(cfg.Events.QueueSize, convey.ShouldEqual, 2048)
				convey.So(cfg.Kafka.Brokers, convey.ShouldResemble, []string{"localhost:9092"})
				convey.So(cfg.Kafka.Topic, convey.ShouldEqual, "banner-events-file")
				convey.So(cfg.Seed.Banners, convey.ShouldHaveLength, 1)
				convey.So(cfg.Seed.Banners[0].Title, convey.ShouldEqual, "Seeded")
				convey.So(cfg.Seed.Banners[0].Weight, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			// Create a YAML config file
			yamlContent := `
server:
  port: 9191
logging:
  level: warn
events:
  queue_size: 2048
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			// Set both the file and the env overrides
			_ = os.Setenv("BANNERD_CONFIG", tmpFile)
			_ = os.Setenv("BANNERD_SERVER_PORT", "9292")
			_ = os.Setenv("BANNERD_LOGGING_LEVEL", "error")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Server.Port, convey.ShouldEqual, 9292)
				convey.So(cfg.Logging.Level, convey.ShouldEqual, "error")
				// Queue size has no env override, so the file value survives
				convey.So(cfg.Events.QueueSize, convey.ShouldEqual, 2048)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			// Create an invalid YAML file
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("BANNERD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("BANNERD_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an out-of-range port", func() {
			_ = os.Setenv("BANNERD_SERVER_PORT", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "out of range")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			// Create a YAML file with only some fields
			yamlContent := `
server:
  port: 9191
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("BANNERD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				// Port comes from the file, everything else falls back to defaults
				convey.So(cfg.Server.Port, convey.ShouldEqual, 9191)
				convey.So(cfg.Server.IdleTimeout, convey.ShouldEqual, 60*time.Second)
				convey.So(cfg.Logging.Level, convey.ShouldEqual, "info")
				convey.So(cfg.Events.QueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.Kafka.Topic, convey.ShouldEqual, "banner-events")
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("BANNERD_SERVER_PORT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an invalid seed entry", func() {
			yamlContent := `
seed:
  banners:
    - image_url: "https://cdn.example.com/a.png"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("BANNERD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "seed banner")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigLoaderEdgeCases(t *testing.T) {
	convey.Convey("Given config loader edge cases", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with very large pipeline values", func() {
			_ = os.Setenv("BANNERD_EVENTS_QUEUE_SIZE", "1000000")
			_ = os.Setenv("BANNERD_EVENTS_WORKER_COUNT", "1000")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should handle large values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Events.QueueSize, convey.ShouldEqual, 1000000)
				convey.So(cfg.Events.WorkerCount, convey.ShouldEqual, 1000)
			})
		})

		convey.Convey("When loading config with a negative worker count", func() {
			_ = os.Setenv("BANNERD_EVENTS_WORKER_COUNT", "-10")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with various host formats", func() {
			_ = os.Setenv("BANNERD_SERVER_HOST", "localhost")
			_ = os.Setenv("BANNERD_SERVER_HOST", "0.0.0.0")
			_ = os.Setenv("BANNERD_SERVER_HOST", "::1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should handle the last host format", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Server.Host, convey.ShouldEqual, "::1") // Last one wins
				convey.So(cfg.Addr(), convey.ShouldEqual, "[::1]:8080")
			})
		})

		convey.Convey("When loading config with YAML file containing comments", func() {
			yamlContent := `
# This is a comment
server:
  port: 9191  # Inline comment
logging:
  level: warn
# Another comment
events:
  queue_size: 2048
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("BANNERD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should parse YAML with comments", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Server.Port, convey.ShouldEqual, 9191)
				convey.So(cfg.Logging.Level, convey.ShouldEqual, "warn")
				convey.So(cfg.Events.QueueSize, convey.ShouldEqual, 2048)
			})
		})

		convey.Convey("When loading config with YAML file containing an invalid port", func() {
			yamlContent := `
server:
  port: 0
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("BANNERD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "out of range")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"BANNERD_CONFIG",
		"BANNERD_SERVER_HOST",
		"BANNERD_SERVER_PORT",
		"BANNERD_SERVER_READ_TIMEOUT",
		"BANNERD_LOGGING_LEVEL",
		"BANNERD_EVENTS_QUEUE_SIZE",
		"BANNERD_EVENTS_WORKER_COUNT",
		"BANNERD_KAFKA_BROKERS",
		"BANNERD_KAFKA_TOPIC",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "bannerd-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
