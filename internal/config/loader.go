package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all settings.
const envPrefix = "CHEMLENS"

// newViper builds a pre-configured Viper instance: YAML file type, CHEMLENS_
// env prefix, automatic env binding, and a key replacer mapping "." → "_" so
// that nested keys like "chembl.base_url" resolve to CHEMLENS_CHEMBL_BASE_URL.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerDefaults(v)
	return v
}

// registerDefaults makes every config key known to viper so that
// environment-only overrides survive Unmarshal (AutomaticEnv alone does not
// surface keys absent from the config file).  The values mirror
// ApplyDefaults.
func registerDefaults(v *viper.Viper) {
	def := NewDefaultConfig()

	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.mode", def.Server.Mode)
	v.SetDefault("server.read_timeout", def.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", def.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout)

	v.SetDefault("data.sample_path", def.Data.SamplePath)
	v.SetDefault("data.watch_sample", def.Data.WatchSample)
	v.SetDefault("data.max_upload_bytes", def.Data.MaxUploadBytes)

	v.SetDefault("chembl.base_url", def.ChEMBL.BaseURL)
	v.SetDefault("chembl.request_timeout", def.ChEMBL.RequestTimeout)
	v.SetDefault("chembl.page_size", def.ChEMBL.PageSize)
	v.SetDefault("chembl.max_pages", def.ChEMBL.MaxPages)
	v.SetDefault("chembl.cache_ttl", def.ChEMBL.CacheTTL)

	v.SetDefault("redis.enabled", def.Redis.Enabled)
	v.SetDefault("redis.addr", def.Redis.Addr)
	v.SetDefault("redis.password", def.Redis.Password)
	v.SetDefault("redis.db", def.Redis.DB)
	v.SetDefault("redis.dial_timeout", def.Redis.DialTimeout)
	v.SetDefault("redis.read_timeout", def.Redis.ReadTimeout)
	v.SetDefault("redis.write_timeout", def.Redis.WriteTimeout)
	v.SetDefault("redis.key_prefix", def.Redis.KeyPrefix)
	v.SetDefault("redis.default_ttl", def.Redis.DefaultTTL)

	v.SetDefault("artifacts.backend", def.Artifacts.Backend)
	v.SetDefault("artifacts.dir", def.Artifacts.Dir)

	v.SetDefault("minio.endpoint", def.MinIO.Endpoint)
	v.SetDefault("minio.access_key", def.MinIO.AccessKey)
	v.SetDefault("minio.secret_key", def.MinIO.SecretKey)
	v.SetDefault("minio.bucket", def.MinIO.Bucket)
	v.SetDefault("minio.use_ssl", def.MinIO.UseSSL)

	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.output_paths", def.Log.OutputPaths)
}

// Load reads the YAML file at configPath, merges CHEMLENS_* environment
// overrides, applies defaults for unset fields, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from CHEMLENS_* environment variables
// and defaults, with no config file.  Preferred for containerised runs.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed
// Config whenever the file changes on disk (fsnotify via viper).  A changed
// file that fails to parse or validate is skipped so the application never
// enters a broken state.  Watch is non-blocking.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read; callers should have called Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad wraps Load and panics on any error.  For use in main() where a
// config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
