package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	RakutenHost         string        `mapstructure:"rakuten_host"`
	ClientID            string        `mapstructure:"rakuten_client_id"`
	ClientSecret        string        `mapstructure:"rakuten_client_secret"`
	AccountID           int64         `mapstructure:"rakuten_account_id"`
	HTTPTimeoutSeconds  int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout         time.Duration `mapstructure:"-"`
	AccountsFile        string        `mapstructure:"accounts_file"`
	PublishersFile      string        `mapstructure:"publishers_file"`
	SyncIntervalSeconds int64         `mapstructure:"sync_interval"`
	SyncLookbackSeconds int64         `mapstructure:"sync_lookback"`
	SyncInterval        time.Duration `mapstructure:"-"`
	SyncLookback        time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`

	ArchiveEndpoint  string `mapstructure:"archive_endpoint"`
	ArchiveAccessKey string `mapstructure:"archive_access_key"`
	ArchiveSecretKey string `mapstructure:"archive_secret_key"`
	ArchiveBucket    string `mapstructure:"archive_bucket"`
	ArchiveUseSSL    bool   `mapstructure:"archive_use_ssl"`
}

// Load reads configuration from configs/.env and environment variables.
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom is Load on a caller-supplied viper instance, so that command-line flags bound with
// BindPFlag take precedence over the environment.
func LoadFrom(v *viper.Viper) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v.SetDefault("app_name", "rakuten-affiliate")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("rakuten_host", "https://api.linksynergy.com")
	v.SetDefault("rakuten_client_id", "")
	v.SetDefault("rakuten_client_secret", "")
	v.SetDefault("rakuten_account_id", 0)
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("accounts_file", "")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("sync_interval", 900)    // seconds
	v.SetDefault("sync_lookback", 86400) // seconds
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/transactions.db")
	v.SetDefault("storage_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("archive_endpoint", "")
	v.SetDefault("archive_access_key", "")
	v.SetDefault("archive_secret_key", "")
	v.SetDefault("archive_bucket", "")
	v.SetDefault("archive_use_ssl", true)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.SyncIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid sync_interval (must be positive seconds)")
	}
	if cfg.SyncLookbackSeconds <= 0 {
		return nil, fmt.Errorf("invalid sync_lookback (must be positive seconds)")
	}
	cfg.SyncInterval = time.Duration(cfg.SyncIntervalSeconds) * time.Second
	cfg.SyncLookback = time.Duration(cfg.SyncLookbackSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}

// ArchiveEnabled reports whether enough settings are present to upload payment reports.
func (c *Config) ArchiveEnabled() bool {
	return c != nil && c.ArchiveEndpoint != "" && c.ArchiveBucket != ""
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.ClientSecret != "" {
		c.ClientSecret = "***"
	}
	if c.ArchiveSecretKey != "" {
		c.ArchiveSecretKey = "***"
	}
	return c
}
