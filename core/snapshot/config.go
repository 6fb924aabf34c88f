package snapshot

import "time"

// Config holds configuration for the snapshot exporter.
type Config struct {
	// Enabled turns the exporter on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// IntervalMinutes is the time between exports.
	IntervalMinutes int `mapstructure:"interval_minutes" default:"60"`
	// Prefix is the object key prefix inside the bucket.
	Prefix string `mapstructure:"prefix" default:"snapshots/"`
}

// Interval returns the export interval as a duration.
func (c Config) Interval() time.Duration {
	if c.IntervalMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.IntervalMinutes) * time.Minute
}
