// Package config defines the ETL job configuration and its loading hooks.
//
// Conventions:
//   - Defaults live in New; Load layers a YAML file and env vars on top.
//   - External errors are wrapped with this package's sentinels.
package config

import (
	"os"
	"runtime"
)

// AWS holds object storage credentials and client settings.
type AWS struct {
	// AccessKeyID and SecretAccessKey are exported to the process
	// environment before the storage session is created.
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`

	// Region of the buckets, e.g. "us-west-2".
	Region string `koanf:"region"`

	// Endpoint overrides the S3 endpoint (MinIO, LocalStack).
	Endpoint string `koanf:"endpoint"`

	// UsePathStyle forces path-style addressing, needed by most S3 clones.
	UsePathStyle bool `koanf:"use_path_style"`
}

// Parquet tunes the table writer.
type Parquet struct {
	// Parallelism is the number of encoder goroutines per file.
	Parallelism int64 `koanf:"parallelism"`

	// RowGroupSize is the target row group size in bytes.
	RowGroupSize int64 `koanf:"row_group_size"`

	// MaxFileRows caps the rows in one part file.
	MaxFileRows int `koanf:"max_file_rows"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// SongData is the glob of song metadata files.
	SongData string `koanf:"song_data"`

	// LogData is the glob of activity log files.
	LogData string `koanf:"log_data"`

	// Output is the prefix the five tables are written under.
	Output string `koanf:"output"`

	// FetchWorkers bounds concurrent object downloads.
	FetchWorkers int `koanf:"fetch_workers"`

	// Timezone used to render event timestamps.
	Timezone string `koanf:"timezone"`

	// PushgatewayURL receives run metrics when set.
	PushgatewayURL string `koanf:"pushgateway_url"`

	// JobName labels pushed metrics.
	JobName string `koanf:"job_name"`

	AWS AWS `koanf:"aws"`

	Parquet Parquet `koanf:"parquet"`
}

const inputData = "s3a://udacity-dend/"

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		SongData:     inputData + "song_data/*/*/*/*.json",
		LogData:      inputData + "log_data/*.json",
		Output:       inputData + "output/",
		FetchWorkers: runtime.NumCPU() * 4,
		Timezone:     "UTC",
		JobName:      "songplays_etl",
		Parquet: Parquet{
			Parallelism:  4,
			RowGroupSize: 128 * 1024 * 1024,
			MaxFileRows:  1_000_000,
		},
	}
}

// ExportCredentials publishes the configured AWS credentials as the
// standard environment variables read by the SDK's default chain.
// Empty values leave the environment untouched.
func (c *Config) ExportCredentials() error {
	vars := []struct{ key, val string }{
		{"AWS_ACCESS_KEY_ID", c.AWS.AccessKeyID},
		{"AWS_SECRET_ACCESS_KEY", c.AWS.SecretAccessKey},
		{"AWS_REGION", c.AWS.Region},
	}
	for _, v := range vars {
		if v.val == "" {
			continue
		}
		if err := os.Setenv(v.key, v.val); err != nil {
			return err
		}
	}
	return nil
}
