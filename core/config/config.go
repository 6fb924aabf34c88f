package config

import (
	"reflect"
	"strings"

	"balance-mirror/core/database"
	"balance-mirror/core/engine"
	"balance-mirror/core/logger"
	"balance-mirror/core/server"
	"balance-mirror/core/snapshot"
	"balance-mirror/core/source"
	"balance-mirror/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Source holds configuration for the event-source subscription.
	Source source.Config `mapstructure:"source"`
	// Database holds configuration for the balance store connection.
	Database database.Config `mapstructure:"database"`
	// Engine holds configuration for the reconciliation engine.
	Engine engine.Config `mapstructure:"engine"`
	// Server holds configuration for the operational HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the snapshot object store.
	Storage storage.Config `mapstructure:"storage"`
	// Snapshot holds configuration for the snapshot exporter.
	Snapshot snapshot.Config `mapstructure:"snapshot"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SOURCE_ADDR -> source.addr)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
