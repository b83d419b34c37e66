package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultFile is read when SONGPLAYS_CONFIG is unset and the file exists.
const DefaultFile = "dl.yaml"

const envPrefix = "SONGPLAYS_"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) named by SONGPLAYS_CONFIG, else ./dl.yaml if present
//  3. env (prefix SONGPLAYS_, "__" descends into sections)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	path, explicit := os.LookupEnv(envPrefix + "CONFIG")
	if !explicit {
		path = DefaultFile
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// SONGPLAYS_OUTPUT -> output, SONGPLAYS_AWS__REGION -> aws.region
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields the pipeline cannot run without.
func (c *Config) Validate() error {
	switch {
	case c.SongData == "":
		return fmt.Errorf("%w: song_data must not be empty", ErrInvalidConfig)
	case c.LogData == "":
		return fmt.Errorf("%w: log_data must not be empty", ErrInvalidConfig)
	case c.Output == "":
		return fmt.Errorf("%w: output must not be empty", ErrInvalidConfig)
	case c.Parquet.Parallelism < 1 || c.Parquet.RowGroupSize < 1 || c.Parquet.MaxFileRows < 1:
		return fmt.Errorf("%w: parquet settings must be positive", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	return nil
}

// Location resolves Timezone; call after Validate.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
