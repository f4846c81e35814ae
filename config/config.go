package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Store     StoreConfig     `yaml:"store"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	RequestIPHeader string        `yaml:"request_ip_header"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
	CacheTTL        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // sqlite or postgres
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"`
}

// StoreConfig controls the record store.
type StoreConfig struct {
	SeedDefaults bool `yaml:"seed_defaults"`
}

// DashboardConfig holds the defaults of the dashboard views.
type DashboardConfig struct {
	WindowDays           int           `yaml:"window_days"`
	MaxRangeDays         int           `yaml:"max_range_days"`
	RecentLimit          int           `yaml:"recent_limit"`
	MonthOptions         int           `yaml:"month_options"`
	TimelineCacheSeconds int           `yaml:"timeline_cache_seconds"`
	TimelineCacheTTL     time.Duration `yaml:"-"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{Store: StoreConfig{SeedDefaults: true}}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:statuspulse.db"
	}
	if cfg.Database.Driver == "sqlite" && cfg.Database.MaxOpenConns <= 0 {
		log.Printf("database.max_open_conns is not set for sqlite; defaulting to 1")
		cfg.Database.MaxOpenConns = 1
	}

	if cfg.Dashboard.WindowDays <= 0 {
		cfg.Dashboard.WindowDays = 30
	}
	if cfg.Dashboard.MaxRangeDays <= 0 {
		cfg.Dashboard.MaxRangeDays = 366
	}
	if cfg.Dashboard.RecentLimit <= 0 {
		cfg.Dashboard.RecentLimit = 10
	}
	if cfg.Dashboard.MonthOptions <= 0 {
		cfg.Dashboard.MonthOptions = 6
	}
	if cfg.Dashboard.TimelineCacheSeconds <= 0 {
		cfg.Dashboard.TimelineCacheSeconds = 300
	}
	cfg.Dashboard.TimelineCacheTTL = time.Duration(cfg.Dashboard.TimelineCacheSeconds) * time.Second
}
