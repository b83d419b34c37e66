package sampledata

import "time"

// Default generator settings.
const (
	DefaultSongs  = 200
	DefaultEvents = 5000
	DefaultDays   = 30
	DefaultSeed   = 42
)

// Config holds the generator settings.
type Config struct {
	Songs  int       // song documents to generate
	Events int       // log events to generate, across all days
	Days   int       // number of daily log files
	Seed   uint64    // PCG seed; equal seeds give equal datasets
	Start  time.Time // first day of the log
}

// DefaultConfig returns the default generator settings.
func DefaultConfig() Config {
	return Config{
		Songs:  DefaultSongs,
		Events: DefaultEvents,
		Days:   DefaultDays,
		Seed:   DefaultSeed,
		Start:  time.Date(2018, time.November, 1, 0, 0, 0, 0, time.UTC),
	}
}
