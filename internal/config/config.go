// Package config defines all configuration structures for ChemLens-Insight.
// No I/O or parsing logic lives here, only plain data types and validation;
// loading is in loader.go, defaults in defaults.go.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables for the dashboard API.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DataConfig holds local dataset-loading parameters.
type DataConfig struct {
	// SamplePath is the bundled sample dataset served by the
	// "load sample" action.
	SamplePath string `mapstructure:"sample_path"`

	// WatchSample reloads the sample dataset when the file changes on disk.
	WatchSample bool `mapstructure:"watch_sample"`

	// MaxUploadBytes bounds accepted CSV uploads.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// ChEMBLConfig holds remote compound-database client parameters.
type ChEMBLConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	PageSize       int           `mapstructure:"page_size"`
	// MaxPages bounds activity pagination per target; 0 means unlimited.
	MaxPages int           `mapstructure:"max_pages"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// RedisConfig holds the optional response-cache connection parameters.
// When Enabled is false the fetch client runs uncached.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
}

// ArtifactsConfig selects where batch-analysis outputs are persisted.
type ArtifactsConfig struct {
	// Backend is "local" or "minio".
	Backend string `mapstructure:"backend"`

	// Dir is the base directory for the local backend.
	Dir string `mapstructure:"dir"`
}

// MinIOConfig holds S3-compatible object-storage parameters for the minio
// artifacts backend.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// Config is the root configuration structure for both binaries.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Data      DataConfig      `mapstructure:"data"`
	ChEMBL    ChEMBLConfig    `mapstructure:"chembl"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Log       LogConfig       `mapstructure:"log"`
}

// Validate performs semantic validation of the fully-populated Config.
// Any error is fatal; callers must refuse to start on it.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Data.MaxUploadBytes < 1 {
		return fmt.Errorf("config: data.max_upload_bytes must be positive, got %d", c.Data.MaxUploadBytes)
	}

	if c.ChEMBL.BaseURL == "" {
		return fmt.Errorf("config: chembl.base_url is required")
	}
	if c.ChEMBL.PageSize < 1 || c.ChEMBL.PageSize > 1000 {
		return fmt.Errorf("config: chembl.page_size %d is out of range [1, 1000]", c.ChEMBL.PageSize)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis.enabled is true")
	}

	switch c.Artifacts.Backend {
	case "local":
		if c.Artifacts.Dir == "" {
			return fmt.Errorf("config: artifacts.dir is required for the local backend")
		}
	case "minio":
		if c.MinIO.Endpoint == "" || c.MinIO.Bucket == "" {
			return fmt.Errorf("config: minio.endpoint and minio.bucket are required for the minio backend")
		}
	default:
		return fmt.Errorf("config: artifacts.backend %q is invalid; expected local|minio", c.Artifacts.Backend)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
