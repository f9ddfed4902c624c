package config

import "time"

// Default values applied to any unset field.  The defaults describe a
// single-machine development setup: local sample data, no Redis, local
// artifact directory.
const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultSamplePath      = "data/raw/default_drug_data.csv"
	DefaultChEMBLBaseURL   = "https://www.ebi.ac.uk/chembl/api/data"
	DefaultChEMBLPageSize  = 100
	DefaultArtifactsDir    = "output"
	DefaultMaxUploadBytes  = int64(16 << 20) // 16 MiB
	DefaultRedisKeyPrefix  = "chemlens:"
	defaultRequestTimeout  = 30 * time.Second
	defaultShutdownTimeout = 15 * time.Second
)

// ApplyDefaults fills every unset field of cfg with its default value.
// Explicitly-set zero values that are invalid (e.g. port 0) are treated as
// unset.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultRequestTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultRequestTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.Data.SamplePath == "" {
		cfg.Data.SamplePath = DefaultSamplePath
	}
	if cfg.Data.MaxUploadBytes == 0 {
		cfg.Data.MaxUploadBytes = DefaultMaxUploadBytes
	}

	if cfg.ChEMBL.BaseURL == "" {
		cfg.ChEMBL.BaseURL = DefaultChEMBLBaseURL
	}
	if cfg.ChEMBL.RequestTimeout == 0 {
		cfg.ChEMBL.RequestTimeout = defaultRequestTimeout
	}
	if cfg.ChEMBL.PageSize == 0 {
		cfg.ChEMBL.PageSize = DefaultChEMBLPageSize
	}
	if cfg.ChEMBL.CacheTTL == 0 {
		cfg.ChEMBL.CacheTTL = 24 * time.Hour
	}

	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = 3 * time.Second
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = 15 * time.Minute
	}

	if cfg.Artifacts.Backend == "" {
		cfg.Artifacts.Backend = "local"
	}
	if cfg.Artifacts.Dir == "" {
		cfg.Artifacts.Dir = DefaultArtifactsDir
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stdout"}
	}
}

// NewDefaultConfig returns a Config populated entirely with defaults.
// It always passes Validate.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
