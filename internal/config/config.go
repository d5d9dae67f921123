// Package config provides YAML configuration loading for the SyncGuard
// CLI. The engine itself is configured in code via conflict.Config; this
// package maps a configuration file onto it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kimhsiao/syncguard/internal/conflict"
	apperrors "github.com/kimhsiao/syncguard/internal/errors"
	"github.com/kimhsiao/syncguard/internal/models"
)

// Config represents the on-disk engine configuration.
type Config struct {
	// DefaultStrategy is the strategy used when none is requested
	// explicitly (default: last_write_wins).
	DefaultStrategy string `yaml:"default_strategy"`

	// AutoResolveLowSeverity toggles immediate auto-resolution of
	// low-severity conflicts (default: true; nil means unset).
	AutoResolveLowSeverity *bool `yaml:"auto_resolve_low_severity"`

	// MaxRetryAttempts is the failed-attempt count before automatic
	// escalation (default: 3).
	MaxRetryAttempts int `yaml:"max_retry_attempts"`

	// FieldStrategies pins individual fields to a strategy for
	// field_level resolution.
	FieldStrategies map[string]string `yaml:"field_strategies"`

	// HistoryLimit and NotificationLimit cap the audit trail and
	// notification feed (defaults: 1000 and 100).
	HistoryLimit      int `yaml:"history_limit"`
	NotificationLimit int `yaml:"notification_limit"`

	// LogLevel is the minimum log level (DEBUG, INFO, WARN, ERROR).
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a Config matching the engine defaults.
func DefaultConfig() *Config {
	autoResolve := true
	return &Config{
		DefaultStrategy:        string(models.StrategyLastWriteWins),
		AutoResolveLowSeverity: &autoResolve,
		MaxRetryAttempts:       conflict.DefaultMaxRetryAttempts,
		HistoryLimit:           conflict.DefaultHistoryLimit,
		NotificationLimit:      conflict.DefaultNotificationLimit,
		LogLevel:               "INFO",
	}
}

// LoadFromFile reads a YAML config file. Fields absent from the file
// keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConfigInvalid,
			fmt.Sprintf("parse config %s", path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// knownStrategies lists every strategy name a config file may use.
var knownStrategies = map[string]bool{
	string(models.StrategyLastWriteWins):  true,
	string(models.StrategyFirstWriteWins): true,
	string(models.StrategyFieldLevel):     true,
	string(models.StrategyCustomLogic):    true,
	string(models.StrategyManual):         true,
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.DefaultStrategy != "" && !knownStrategies[c.DefaultStrategy] {
		return apperrors.Newf(apperrors.ErrConfigInvalid,
			"unknown default_strategy %q", c.DefaultStrategy)
	}
	for field, strategy := range c.FieldStrategies {
		if !knownStrategies[strategy] {
			return apperrors.Newf(apperrors.ErrConfigInvalid,
				"unknown strategy %q for field %q", strategy, field)
		}
	}
	if c.MaxRetryAttempts < 0 {
		return apperrors.New(apperrors.ErrConfigInvalid,
			"max_retry_attempts must not be negative")
	}
	if c.HistoryLimit < 0 || c.NotificationLimit < 0 {
		return apperrors.New(apperrors.ErrConfigInvalid,
			"log limits must not be negative")
	}
	return nil
}

// EngineConfig maps the file configuration onto the engine's
// conflict.Config. Custom business logic is code, not configuration, and
// must be attached by the caller afterwards.
func (c *Config) EngineConfig() *conflict.Config {
	engineCfg := conflict.DefaultConfig()

	if c.DefaultStrategy != "" {
		engineCfg.DefaultStrategy = models.ResolutionStrategy(c.DefaultStrategy)
	}
	if c.AutoResolveLowSeverity != nil {
		engineCfg.AutoResolveLowSeverity = *c.AutoResolveLowSeverity
	}
	if c.MaxRetryAttempts > 0 {
		engineCfg.MaxRetryAttempts = c.MaxRetryAttempts
	}
	if c.HistoryLimit > 0 {
		engineCfg.HistoryLimit = c.HistoryLimit
	}
	if c.NotificationLimit > 0 {
		engineCfg.NotificationLimit = c.NotificationLimit
	}
	if len(c.FieldStrategies) > 0 {
		engineCfg.FieldStrategies = make(map[string]models.ResolutionStrategy, len(c.FieldStrategies))
		for field, strategy := range c.FieldStrategies {
			engineCfg.FieldStrategies[field] = models.ResolutionStrategy(strategy)
		}
	}

	return engineCfg
}
