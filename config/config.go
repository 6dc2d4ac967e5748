package config

import (
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Storage    StorageConfig    `yaml:"storage"`
	JWT        JWTConfig        `yaml:"jwt"`
	Quota      QuotaConfig      `yaml:"quota"`
	Share      ShareConfig      `yaml:"share"`
	Thumbnail  ThumbnailConfig  `yaml:"thumbnail"`
	Pagination PaginationConfig `yaml:"pagination"`
	Cleanup    CleanupConfig    `yaml:"cleanup"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"SERVER_HOST"`
	Port int    `yaml:"port" env:"SERVER_PORT"`
}

type DatabaseConfig struct {
	Host         string `yaml:"host" env:"DB_HOST"`
	Port         int    `yaml:"port" env:"DB_PORT"`
	Username     string `yaml:"username" env:"DB_USER"`
	Password     string `yaml:"password" env:"DB_PASSWORD"`
	Database     string `yaml:"database" env:"DB_NAME"`
	Charset      string `yaml:"charset"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST"`
	Port     int    `yaml:"port" env:"REDIS_PORT"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"`
}

type StorageConfig struct {
	BasePath     string `yaml:"base_path" env:"STORAGE_BASE_PATH"`
	MaxFileSize  int64  `yaml:"max_file_size"`
	MaxFileCount int    `yaml:"max_file_count"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret" env:"JWT_SECRET"`
	ExpireHours int    `yaml:"expire_hours"`
}

type QuotaConfig struct {
	DefaultStorageBytes   int64 `yaml:"default_storage_bytes"`
	DefaultMaxItems       int64 `yaml:"default_max_items"`
	DefaultMaxCollections int64 `yaml:"default_max_collections"`
}

type ShareConfig struct {
	PublicBaseURL       string `yaml:"public_base_url" env:"SHARE_PUBLIC_BASE_URL"`
	DefaultExpireHours  int    `yaml:"default_expire_hours"`
	MaxExpireHours      int    `yaml:"max_expire_hours"`
	PasswordMaxAttempts int64  `yaml:"password_max_attempts"`
	PasswordLockSeconds int    `yaml:"password_lock_seconds"`
}

type ThumbnailConfig struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	Quality int `yaml:"quality"`
}

type PaginationConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

type CleanupConfig struct {
	Enabled            bool `yaml:"enabled"`
	IntervalSeconds    int  `yaml:"interval_seconds"`
	ExpiredLinkDays    int  `yaml:"expired_link_retention_days"`
	OrphanSweepBatch   int  `yaml:"orphan_sweep_batch"`
	OrphanGraceMinutes int  `yaml:"orphan_grace_minutes"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

var AppConfig *Config

func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// env vars win over the yaml file
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	AppConfig = &cfg
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Charset == "" {
		cfg.Database.Charset = "utf8mb4"
	}
	if cfg.Storage.MaxFileSize <= 0 {
		cfg.Storage.MaxFileSize = 50 << 20
	}
	if cfg.Storage.MaxFileCount <= 0 {
		cfg.Storage.MaxFileCount = 10
	}
	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
	if cfg.Quota.DefaultStorageBytes <= 0 {
		cfg.Quota.DefaultStorageBytes = 10 << 30
	}
	if cfg.Quota.DefaultMaxItems <= 0 {
		cfg.Quota.DefaultMaxItems = 10000
	}
	if cfg.Quota.DefaultMaxCollections <= 0 {
		cfg.Quota.DefaultMaxCollections = 500
	}
	if cfg.Share.DefaultExpireHours <= 0 {
		cfg.Share.DefaultExpireHours = 168
	}
	if cfg.Share.MaxExpireHours <= 0 {
		cfg.Share.MaxExpireHours = 24 * 365
	}
	if cfg.Share.PasswordMaxAttempts <= 0 {
		cfg.Share.PasswordMaxAttempts = 10
	}
	if cfg.Share.PasswordLockSeconds <= 0 {
		cfg.Share.PasswordLockSeconds = 900
	}
	if cfg.Thumbnail.Width <= 0 {
		cfg.Thumbnail.Width = 320
	}
	if cfg.Thumbnail.Height <= 0 {
		cfg.Thumbnail.Height = 320
	}
	if cfg.Thumbnail.Quality <= 0 {
		cfg.Thumbnail.Quality = 82
	}
	if cfg.Pagination.DefaultPageSize <= 0 {
		cfg.Pagination.DefaultPageSize = 20
	}
	if cfg.Pagination.MaxPageSize <= 0 {
		cfg.Pagination.MaxPageSize = 100
	}
	if cfg.Cleanup.IntervalSeconds <= 0 {
		cfg.Cleanup.IntervalSeconds = 3600
	}
	if cfg.Cleanup.ExpiredLinkDays <= 0 {
		cfg.Cleanup.ExpiredLinkDays = 30
	}
	if cfg.Cleanup.OrphanSweepBatch <= 0 {
		cfg.Cleanup.OrphanSweepBatch = 200
	}
	if cfg.Cleanup.OrphanGraceMinutes <= 0 {
		cfg.Cleanup.OrphanGraceMinutes = 60
	}
}
