package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Auth     AuthConfig
	Jobs     JobsConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port           int
	AllowedOrigins string
}

type DatabaseConfig struct {
	URL string
}

type StorageConfig struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	CDNBaseURL      string
}

type AuthConfig struct {
	ServiceToken string
}

type JobsConfig struct {
	ArchiveAfterDays    int
	ArchiveInterval     int // minutes
	LedgerAuditInterval int // minutes
}

type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Load reads configuration from environment variables (a .env file, when
// present, is loaded by main before this runs).
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("PORT", 5300)
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("ARCHIVE_AFTER_DAYS", 30)
	v.SetDefault("ARCHIVE_INTERVAL_MINUTES", 60)
	v.SetDefault("LEDGER_AUDIT_INTERVAL_MINUTES", 15)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_OUTPUT", "stdout")

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetInt("PORT"),
			AllowedOrigins: v.GetString("ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("DATABASE_URL"),
		},
		Storage: StorageConfig{
			AccountID:       v.GetString("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     v.GetString("R2_ACCESS_KEY_ID"),
			AccessKeySecret: v.GetString("R2_ACCESS_KEY_SECRET"),
			Bucket:          v.GetString("R2_BUCKET_NAME"),
			CDNBaseURL:      v.GetString("CDN_BASE_URL"),
		},
		Auth: AuthConfig{
			ServiceToken: v.GetString("ARCTICCARE_SERVICE_TOKEN"),
		},
		Jobs: JobsConfig{
			ArchiveAfterDays:    v.GetInt("ARCHIVE_AFTER_DAYS"),
			ArchiveInterval:     v.GetInt("ARCHIVE_INTERVAL_MINUTES"),
			LedgerAuditInterval: v.GetInt("LEDGER_AUDIT_INTERVAL_MINUTES"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			Output: v.GetString("LOG_OUTPUT"),
		},
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.Auth.ServiceToken == "" {
		return nil, fmt.Errorf("ARCTICCARE_SERVICE_TOKEN environment variable not set")
	}

	return cfg, nil
}
