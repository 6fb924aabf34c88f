package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.Source.Addr)
	assert.Equal(t, "events", cfg.Source.ChannelPrefix)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 8, cfg.Engine.Workers)
	assert.Equal(t, 5, cfg.Engine.RetryAttempts)
	assert.Equal(t, 512, cfg.Engine.DedupWindow)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Snapshot.Enabled)
	assert.Equal(t, "balance-snapshots", cfg.Storage.Bucket)

	// No contract configured by default; startup must refuse to run.
	assert.Error(t, cfg.Source.Validate())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SOURCE_ADDR", "redis.internal:6380")
	t.Setenv("SOURCE_CONTRACT", "0xDEADBEEF00000000000000000000000000000000")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("ENGINE_WORKERS", "16")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SNAPSHOT_ENABLED", "true")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "redis.internal:6380", cfg.Source.Addr)
	assert.Equal(t, "0xDEADBEEF00000000000000000000000000000000", cfg.Source.Contract)
	assert.NoError(t, cfg.Source.Validate())
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 16, cfg.Engine.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Snapshot.Enabled)
}
