package server

// Config holds configuration for the operational HTTP server.
type Config struct {
	// Enabled turns the ops endpoints on.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey protects /stats when set. Empty leaves it open.
	ApiKey string `mapstructure:"api_key" default:""`
}
