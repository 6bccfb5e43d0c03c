package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. ACADEMY_STORAGE_PATH
const EnvPrefix = "ACADEMY"

// Config represents the entire application configuration
type Config struct {
	Storage     StorageConfig     `mapstructure:"storage"`
	HTTP        HTTPConfig        `mapstructure:"http"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Policy      PolicyConfig      `mapstructure:"policy"`
	Reminders   RemindersConfig   `mapstructure:"reminders"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Seed        SeedConfig        `mapstructure:"seed"`
}

// StorageConfig selects where the collections are persisted
type StorageConfig struct {
	Backend string `mapstructure:"backend"` // sqlite or memory
	Path    string `mapstructure:"path"`
}

// HTTPConfig contains HTTP server configuration
type HTTPConfig struct {
	BindAddr     string `mapstructure:"bind_addr"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
	IdleTimeout  string `mapstructure:"idle_timeout"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PolicyConfig toggles enforcement of capacity and payment bounds
type PolicyConfig struct {
	EnforceCapacity     bool `mapstructure:"enforce_capacity"`
	EnforcePaymentBound bool `mapstructure:"enforce_payment_bound"`
}

// RemindersConfig contains payment reminder settings
type RemindersConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Schedule    string `mapstructure:"schedule"`
	Channel     string `mapstructure:"channel"`
	MinInterval string `mapstructure:"min_interval"`
}

// MaintenanceConfig contains audit loop settings
type MaintenanceConfig struct {
	AuditInterval   string `mapstructure:"audit_interval"`
	RepairOccupancy bool   `mapstructure:"repair_occupancy"`
	BackupDir       string `mapstructure:"backup_dir"` // empty disables snapshots
	BackupInterval  string `mapstructure:"backup_interval"`
	BackupKeep      int    `mapstructure:"backup_keep"`
}

// SeedConfig controls first-run data
type SeedConfig struct {
	SampleData bool `mapstructure:"sample_data"`
}

// Load loads configuration from the specified file path.
// An empty path uses defaults and environment overrides only.
// A .env file in the working directory is loaded first when present.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// ResolvePath returns the config file to load. A default path that does not
// exist resolves to "" so Load falls back to defaults; an explicit path is
// always kept and fails in Load if missing.
func ResolvePath(path string, explicit bool) string {
	if explicit || path == "" {
		return path
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return path
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.path", "academic-admin.db")
	v.SetDefault("http.bind_addr", "0.0.0.0:8080")
	v.SetDefault("http.read_timeout", "30s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("http.idle_timeout", "60s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("policy.enforce_capacity", true)
	v.SetDefault("policy.enforce_payment_bound", true)
	v.SetDefault("reminders.enabled", false)
	v.SetDefault("reminders.schedule", "@daily")
	v.SetDefault("reminders.channel", "whatsapp")
	v.SetDefault("reminders.min_interval", "168h")
	v.SetDefault("maintenance.audit_interval", "1h")
	v.SetDefault("maintenance.repair_occupancy", false)
	v.SetDefault("maintenance.backup_dir", "")
	v.SetDefault("maintenance.backup_interval", "24h")
	v.SetDefault("maintenance.backup_keep", 7)
	v.SetDefault("seed.sample_data", true)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite backend")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid storage.backend: %s", c.Storage.Backend)
	}

	if c.HTTP.BindAddr == "" {
		return fmt.Errorf("http.bind_addr is required")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid formats
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	if c.Reminders.Enabled {
		if strings.TrimSpace(c.Reminders.Schedule) == "" {
			return fmt.Errorf("reminders.schedule is required when reminders are enabled")
		}
		switch c.Reminders.Channel {
		case "whatsapp", "email":
		default:
			return fmt.Errorf("invalid reminders.channel: %s", c.Reminders.Channel)
		}
		if _, err := time.ParseDuration(c.Reminders.MinInterval); err != nil {
			return fmt.Errorf("invalid reminders.min_interval: %w", err)
		}
	}

	if _, err := time.ParseDuration(c.Maintenance.AuditInterval); err != nil {
		return fmt.Errorf("invalid maintenance.audit_interval: %w", err)
	}
	if c.Maintenance.BackupDir != "" {
		if _, err := time.ParseDuration(c.Maintenance.BackupInterval); err != nil {
			return fmt.Errorf("invalid maintenance.backup_interval: %w", err)
		}
		if c.Maintenance.BackupKeep < 1 {
			return fmt.Errorf("maintenance.backup_keep must be positive")
		}
	}

	return nil
}

// GetReadTimeout returns the read timeout as time.Duration
func (c *HTTPConfig) GetReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.ReadTimeout)
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// GetWriteTimeout returns the write timeout as time.Duration
func (c *HTTPConfig) GetWriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.WriteTimeout)
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// GetIdleTimeout returns the idle timeout as time.Duration
func (c *HTTPConfig) GetIdleTimeout() time.Duration {
	d, _ := time.ParseDuration(c.IdleTimeout)
	if d == 0 {
		return 60 * time.Second
	}
	return d
}

// GetMinInterval returns the per-enrollment reminder interval
func (c *RemindersConfig) GetMinInterval() time.Duration {
	d, _ := time.ParseDuration(c.MinInterval)
	if d == 0 {
		return 7 * 24 * time.Hour
	}
	return d
}

// GetAuditInterval returns the audit interval as time.Duration
func (c *MaintenanceConfig) GetAuditInterval() time.Duration {
	d, _ := time.ParseDuration(c.AuditInterval)
	if d == 0 {
		return time.Hour
	}
	return d
}

// GetBackupInterval returns the snapshot interval as time.Duration
func (c *MaintenanceConfig) GetBackupInterval() time.Duration {
	d, _ := time.ParseDuration(c.BackupInterval)
	if d == 0 {
		return 24 * time.Hour
	}
	return d
}
