// Package config loads runtime settings through viper.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/position"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/stats"
)

// EnvPrefix prefixes every environment override, e.g. AUTOBTD6_LOG_LEVEL.
const EnvPrefix = "AUTOBTD6"

// Stats backends.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// StatsConfig selects and addresses the ledger storage.
type StatsConfig struct {
	Backend string
	File    string
	// Journal is the run history file; empty disables it.
	Journal     string
	RedisURL    string
	RedisKey    string
	DatabaseURL string
	// Name is the document row the postgres backend reads and writes.
	Name string
}

// Config holds all configuration for the autobtd6 CLI.
type Config struct {
	DataDirs        []string
	PlaythroughDirs []string
	Resolution      position.Resolution
	MonkeyKnowledge bool
	PreferNoMK      bool
	UserConfig      string
	LogLevel        slog.Level
	Version         string
	Stats           StatsConfig
}

// SetDefaults registers every key with its default and binds the environment.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data_dirs", []string{})
	v.SetDefault("playthrough_dirs", []string{"own_playthroughs", "playthroughs"})
	v.SetDefault("resolution", "1920x1080")
	v.SetDefault("monkey_knowledge", false)
	v.SetDefault("prefer_no_mk", true)
	v.SetDefault("user_config", "userconfig.yaml")
	v.SetDefault("log_level", "info")
	v.SetDefault("version", "")
	v.SetDefault("stats.backend", BackendFile)
	v.SetDefault("stats.file", stats.DefaultFile)
	v.SetDefault("stats.journal", stats.DefaultJournal)
	v.SetDefault("stats.redis_url", "redis://localhost:6379/0")
	v.SetDefault("stats.redis_key", stats.DefaultRedisKey)
	v.SetDefault("stats.database_url", "postgres://localhost:5432/autobtd6?sslmode=disable")
	v.SetDefault("stats.name", stats.DefaultLedgerName)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the settings out of v.
func Load(v *viper.Viper) (*Config, error) {
	res, err := position.ParseResolution(v.GetString("resolution"))
	if err != nil {
		return nil, fmt.Errorf("invalid resolution: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
		return nil, fmt.Errorf("invalid log_level: %w", err)
	}

	cfg := &Config{
		DataDirs:        v.GetStringSlice("data_dirs"),
		PlaythroughDirs: v.GetStringSlice("playthrough_dirs"),
		Resolution:      res,
		MonkeyKnowledge: v.GetBool("monkey_knowledge"),
		PreferNoMK:      v.GetBool("prefer_no_mk"),
		UserConfig:      v.GetString("user_config"),
		LogLevel:        level,
		Version:         v.GetString("version"),
		Stats: StatsConfig{
			Backend:     strings.ToLower(v.GetString("stats.backend")),
			File:        v.GetString("stats.file"),
			Journal:     v.GetString("stats.journal"),
			RedisURL:    v.GetString("stats.redis_url"),
			RedisKey:    v.GetString("stats.redis_key"),
			DatabaseURL: v.GetString("stats.database_url"),
			Name:        v.GetString("stats.name"),
		},
	}

	switch cfg.Stats.Backend {
	case BackendFile, BackendRedis, BackendPostgres:
	default:
		return nil, fmt.Errorf("unknown stats backend %q", cfg.Stats.Backend)
	}
	return cfg, nil
}

// OpenBackend connects the configured ledger storage. The returned func
// releases it.
func (c StatsConfig) OpenBackend(ctx context.Context) (stats.Backend, func(), error) {
	switch c.Backend {
	case BackendRedis:
		client, err := stats.ConnectRedis(c.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		b := stats.NewRedisBackend(client, c.RedisKey)
		return b, func() { _ = b.Close() }, nil
	case BackendPostgres:
		pool, err := stats.ConnectPostgres(ctx, c.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		b, err := stats.NewPostgresBackend(ctx, pool, c.Name)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return b, b.Close, nil
	}
	return stats.NewFileBackend(c.File), func() {}, nil
}
