package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"equipbook-backend/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Policy    PolicyConfig    `yaml:"policy"`
	Fines     FinesConfig     `yaml:"fines"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains token verification settings. Tokens are issued by the
// external auth service; this backend only verifies and reads claims.
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// PolicyConfig maps requester roles to booking limits. Limits are read-only
// at evaluation time; changing them here is the only way to change policy.
type PolicyConfig struct {
	Limits  map[string]domain.PolicyLimit `yaml:"limits"`
	Default domain.PolicyLimit            `yaml:"default"`
}

// LimitFor returns the policy limit for a role, falling back to the default.
func (p PolicyConfig) LimitFor(role domain.Role) domain.PolicyLimit {
	if limit, ok := p.Limits[string(role)]; ok {
		return limit
	}
	return p.Default
}

// FinesConfig contains ledger settings
type FinesConfig struct {
	DailyRateCents     int32 `yaml:"daily_rate_cents"`
	DueDays            int   `yaml:"due_days"`
	HoldThresholdCents int32 `yaml:"hold_threshold_cents"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	MarkOverdueFines string `yaml:"mark_overdue_fines"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if val := os.Getenv("FINE_DAILY_RATE_CENTS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Fines.DailyRateCents)
	}
	if val := os.Getenv("FINE_HOLD_THRESHOLD_CENTS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Fines.HoldThresholdCents)
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	// Policy defaults
	if c.Policy.Default.WeeklyMaxCount == 0 {
		c.Policy.Default.WeeklyMaxCount = 3
	}
	if c.Policy.Default.ConcurrentMaxCount == 0 {
		c.Policy.Default.ConcurrentMaxCount = 2
	}

	// Fines defaults
	if c.Fines.DailyRateCents == 0 {
		c.Fines.DailyRateCents = 500 // 5.00 per day late
	}
	if c.Fines.DueDays == 0 {
		c.Fines.DueDays = 14
	}
	// HoldThresholdCents stays 0 unless configured: any owed amount plus an
	// overdue fine puts the account on hold.

	// Scheduler defaults
	if c.Scheduler.MarkOverdueFines == "" {
		c.Scheduler.MarkOverdueFines = "0 0 2 * * *" // 2 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
