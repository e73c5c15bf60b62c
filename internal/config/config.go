package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/KirkDiggler/wargame-mechanics/internal/errors"
)

const (
	KeyRedisURL          = "REDIS_URL"
	KeyCacheTTL          = "RESOLUTION_CACHE_TTL"
	KeyLibraryDirs       = "LIBRARY_DIRS"
	KeyLogLevel          = "LOG_LEVEL"
	KeyLogDevelopment    = "LOG_DEVELOPMENT"
	KeyCoreAbilitiesFile = "CORE_ABILITIES_FILE"
	KeyBatchLimit        = "RESOLUTION_BATCH_LIMIT"
)

// Config holds all configuration for the application
type Config struct {
	Redis   RedisConfig
	Library LibraryConfig
	Log     LogConfig
	Rules   RulesConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// URL is a redis:// connection string. Empty keeps resolutions in memory.
	URL      string
	CacheTTL time.Duration
}

// Enabled reports whether a Redis store was configured
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

// LibraryConfig lists the directories unit and scenario files are read from
type LibraryConfig struct {
	Dirs []string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level       string
	Development bool
}

// RulesConfig holds rule content overrides
type RulesConfig struct {
	CoreAbilitiesFile string // Optional: replaces the embedded registry
	BatchLimit        int
}

// New returns a viper instance bound to the environment with defaults applied
func New() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault(KeyRedisURL, "")
	v.SetDefault(KeyCacheTTL, time.Hour)
	v.SetDefault(KeyLibraryDirs, "./library")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogDevelopment, false)
	v.SetDefault(KeyCoreAbilitiesFile, "")
	v.SetDefault(KeyBatchLimit, 8)

	return v
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return FromViper(New())
}

// FromViper builds and validates a Config from v
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Redis: RedisConfig{
			URL:      strings.TrimSpace(v.GetString(KeyRedisURL)),
			CacheTTL: v.GetDuration(KeyCacheTTL),
		},
		Library: LibraryConfig{
			Dirs: splitDirs(v.GetString(KeyLibraryDirs)),
		},
		Log: LogConfig{
			Level:       strings.ToLower(v.GetString(KeyLogLevel)),
			Development: v.GetBool(KeyLogDevelopment),
		},
		Rules: RulesConfig{
			CoreAbilitiesFile: v.GetString(KeyCoreAbilitiesFile),
			BatchLimit:        v.GetInt(KeyBatchLimit),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	if c.Redis.Enabled() && !strings.HasPrefix(c.Redis.URL, "redis://") && !strings.HasPrefix(c.Redis.URL, "rediss://") {
		return errors.Validationf("%s must be a redis:// or rediss:// URL", KeyRedisURL).WithMeta("value", c.Redis.URL)
	}
	if c.Redis.CacheTTL <= 0 {
		return errors.Validationf("%s must be positive", KeyCacheTTL).WithMeta("value", c.Redis.CacheTTL.String())
	}
	if len(c.Library.Dirs) == 0 {
		return errors.Validationf("%s must name at least one directory", KeyLibraryDirs)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Validationf("%s must be one of debug, info, warn, error", KeyLogLevel).WithMeta("value", c.Log.Level)
	}
	if c.Rules.BatchLimit <= 0 {
		return errors.Validationf("%s must be positive", KeyBatchLimit)
	}
	return nil
}

func splitDirs(raw string) []string {
	var dirs []string
	for _, d := range filepath.SplitList(raw) {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}
