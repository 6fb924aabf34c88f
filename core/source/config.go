package source

import (
	"fmt"
	"strings"
)

// Config holds configuration for the event-source subscription.
type Config struct {
	// Addr is the host:port of the event-source broker.
	Addr string `mapstructure:"addr" default:"localhost:6379"`
	// Password is the broker password, empty for none.
	Password string `mapstructure:"password" default:""`
	// DB is the broker database number.
	DB int `mapstructure:"db" default:"0"`
	// Contract is the address of the contract whose events are mirrored.
	Contract string `mapstructure:"contract" default:""`
	// ChannelPrefix is the pub/sub channel namespace.
	ChannelPrefix string `mapstructure:"channel_prefix" default:"events"`
	// TimeoutSeconds is the dial and health-check timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"5"`
	// ReconnectMaxSeconds caps the reconnect backoff interval.
	ReconnectMaxSeconds int `mapstructure:"reconnect_max_seconds" default:"30"`
}

// Validate checks that the config identifies a contract to subscribe to.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Contract) == "" {
		return fmt.Errorf("source: contract address is required")
	}
	return nil
}

// Channel returns the pub/sub channel for the configured contract. The
// contract address is lower-cased so publishers and subscribers agree on
// the name regardless of letter case.
func (c Config) Channel() string {
	prefix := c.ChannelPrefix
	if prefix == "" {
		prefix = "events"
	}
	return prefix + ":" + strings.ToLower(strings.TrimSpace(c.Contract))
}
