package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kimhsiao/syncguard/internal/errors"
	"github.com/kimhsiao/syncguard/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "syncguard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, string(models.StrategyLastWriteWins), cfg.DefaultStrategy)
	require.NotNil(t, cfg.AutoResolveLowSeverity)
	assert.True(t, *cfg.AutoResolveLowSeverity)
	assert.Equal(t, 3, cfg.MaxRetryAttempts)
	assert.Equal(t, 1000, cfg.HistoryLimit)
	assert.Equal(t, 100, cfg.NotificationLimit)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
default_strategy: field_level
auto_resolve_low_severity: false
max_retry_attempts: 5
field_strategies:
  status: last_write_wins
  notes: first_write_wins
history_limit: 200
notification_limit: 20
log_level: DEBUG
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "field_level", cfg.DefaultStrategy)
	require.NotNil(t, cfg.AutoResolveLowSeverity)
	assert.False(t, *cfg.AutoResolveLowSeverity)
	assert.Equal(t, 5, cfg.MaxRetryAttempts)
	assert.Equal(t, "last_write_wins", cfg.FieldStrategies["status"])
	assert.Equal(t, 200, cfg.HistoryLimit)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "max_retry_attempts: 7\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.MaxRetryAttempts)
	assert.Equal(t, string(models.StrategyLastWriteWins), cfg.DefaultStrategy)
	require.NotNil(t, cfg.AutoResolveLowSeverity)
	assert.True(t, *cfg.AutoResolveLowSeverity)
}

func TestLoadFromFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "default_strategy: [oops\n")
		_, err := LoadFromFile(path)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrConfigInvalid))
	})

	t.Run("unknown strategy", func(t *testing.T) {
		path := writeConfig(t, "default_strategy: majority_vote\n")
		_, err := LoadFromFile(path)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrConfigInvalid))
	})

	t.Run("unknown field strategy", func(t *testing.T) {
		path := writeConfig(t, "field_strategies:\n  status: majority_vote\n")
		_, err := LoadFromFile(path)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrConfigInvalid))
	})

	t.Run("negative retries", func(t *testing.T) {
		path := writeConfig(t, "max_retry_attempts: -1\n")
		_, err := LoadFromFile(path)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrConfigInvalid))
	})
}

func TestEngineConfigMapping(t *testing.T) {
	autoResolve := false
	cfg := &Config{
		DefaultStrategy:        "first_write_wins",
		AutoResolveLowSeverity: &autoResolve,
		MaxRetryAttempts:       9,
		FieldStrategies:        map[string]string{"status": "last_write_wins"},
		HistoryLimit:           50,
		NotificationLimit:      10,
	}

	engineCfg := cfg.EngineConfig()
	assert.Equal(t, models.StrategyFirstWriteWins, engineCfg.DefaultStrategy)
	assert.False(t, engineCfg.AutoResolveLowSeverity)
	assert.Equal(t, 9, engineCfg.MaxRetryAttempts)
	assert.Equal(t, models.StrategyLastWriteWins, engineCfg.FieldStrategies["status"])
	assert.Equal(t, 50, engineCfg.HistoryLimit)
	assert.Equal(t, 10, engineCfg.NotificationLimit)
}

func TestEngineConfigDefaults(t *testing.T) {
	engineCfg := DefaultConfig().EngineConfig()

	assert.Equal(t, models.StrategyLastWriteWins, engineCfg.DefaultStrategy)
	assert.True(t, engineCfg.AutoResolveLowSeverity)
	assert.Equal(t, 3, engineCfg.MaxRetryAttempts)
}
