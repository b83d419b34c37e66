package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/songplays/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	chdirTemp(t)

	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Output, convey.ShouldEqual, "s3a://udacity-dend/output/")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SONGPLAYS_OUTPUT", "file:///tmp/out")
			_ = os.Setenv("SONGPLAYS_FETCH_WORKERS", "16")
			_ = os.Setenv("SONGPLAYS_AWS__REGION", "us-west-2")
			_ = os.Setenv("SONGPLAYS_AWS__USE_PATH_STYLE", "true")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Output, convey.ShouldEqual, "file:///tmp/out")
				convey.So(cfg.FetchWorkers, convey.ShouldEqual, 16)
				convey.So(cfg.AWS.Region, convey.ShouldEqual, "us-west-2")
				convey.So(cfg.AWS.UsePathStyle, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
log_level: debug
song_data: "s3://bucket/song_data/*/*/*/*.json"
output: "s3://bucket/out/"
aws:
  access_key_id: AKID
  secret_access_key: SECRET
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SONGPLAYS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.SongData, convey.ShouldEqual, "s3://bucket/song_data/*/*/*/*.json")
				convey.So(cfg.Output, convey.ShouldEqual, "s3://bucket/out/")
				convey.So(cfg.AWS.AccessKeyID, convey.ShouldEqual, "AKID")
				convey.So(cfg.AWS.SecretAccessKey, convey.ShouldEqual, "SECRET")
			})

			convey.Convey("Then missing keys should keep their defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogData, convey.ShouldEqual, "s3a://udacity-dend/log_data/*.json")
				convey.So(cfg.Timezone, convey.ShouldEqual, "UTC")
			})
		})

		convey.Convey("When dl.yaml sits in the working directory", func() {
			clearConfigEnvVars()
			err := os.WriteFile(config.DefaultFile, []byte("output: \"file:///data/out\"\n"), 0o600)
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = os.Remove(config.DefaultFile) }()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should be picked up without SONGPLAYS_CONFIG", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Output, convey.ShouldEqual, "file:///data/out")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("output: \"s3://from-file/\"\nfetch_workers: 3\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SONGPLAYS_CONFIG", tmpFile)
			_ = os.Setenv("SONGPLAYS_OUTPUT", "s3://from-env/")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Output, convey.ShouldEqual, "s3://from-env/")
				convey.So(cfg.FetchWorkers, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SONGPLAYS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SONGPLAYS_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty output", func() {
			_ = os.Setenv("SONGPLAYS_OUTPUT", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "output must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown timezone", func() {
			_ = os.Setenv("SONGPLAYS_TIMEZONE", "Mars/Olympus_Mons")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When tuning the parquet writer through env vars", func() {
			_ = os.Setenv("SONGPLAYS_PARQUET__PARALLELISM", "2")
			_ = os.Setenv("SONGPLAYS_PARQUET__MAX_FILE_ROWS", "500")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the nested parquet section should be set", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Parquet.Parallelism, convey.ShouldEqual, 2)
				convey.So(cfg.Parquet.MaxFileRows, convey.ShouldEqual, 500)
				convey.So(cfg.Parquet.RowGroupSize, convey.ShouldEqual, 128*1024*1024)
			})
		})

		convey.Convey("When a parquet setting is not positive", func() {
			_ = os.Setenv("SONGPLAYS_PARQUET__ROW_GROUP_SIZE", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SONGPLAYS_FETCH_WORKERS", "not_a_number")
			defer clearConfigEnvVars()

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
		"SONGPLAYS_CONFIG",
		"SONGPLAYS_OUTPUT",
		"SONGPLAYS_FETCH_WORKERS",
		"SONGPLAYS_TIMEZONE",
		"SONGPLAYS_AWS__REGION",
		"SONGPLAYS_AWS__USE_PATH_STYLE",
		"SONGPLAYS_PARQUET__PARALLELISM",
		"SONGPLAYS_PARQUET__ROW_GROUP_SIZE",
		"SONGPLAYS_PARQUET__MAX_FILE_ROWS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

// chdirTemp isolates the test from a dl.yaml in the package directory.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "songplays-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return filepath.Clean(tmpFile.Name())
}
