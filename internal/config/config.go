// Package config loads and validates aoserver's configuration, grounded
// in the teacher's pkg/config/config.go: viper precedence (env over file
// over defaults), a mapstructure decode hook for time.Duration, and a
// go-playground/validator/v10 pass before the result is handed back to
// callers. Unlike the teacher's config package, this one only declares
// and validates; cmd/aoserver builds the concrete collaborators (store
// adapters, listener, clients) from the resulting struct.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// GeneralConfig carries the original spec's {host, port, playerlimit,
// timeout, websocket_port} keys unchanged, plus the session-level values
// internal/session.Config needs.
type GeneralConfig struct {
	Host string `mapstructure:"host" yaml:"host" validate:"required"`
	Port int    `mapstructure:"port" yaml:"port" validate:"required,min=1,max=65535"`

	PlayerLimit int           `mapstructure:"playerlimit" yaml:"playerlimit" validate:"required,gt=0"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"required,gt=0"`

	// WebsocketPort is carried for client compatibility only; no
	// websocket listener is implemented (the core's wire protocol is
	// the raw TCP line format). 0 means unset.
	WebsocketPort int `mapstructure:"websocket_port" yaml:"websocket_port" validate:"omitempty,min=1,max=65535"`

	Software      string `mapstructure:"software" yaml:"software" validate:"required"`
	Version       string `mapstructure:"version" yaml:"version" validate:"required"`
	PreambleValue uint32 `mapstructure:"preamble_value" yaml:"preamble_value"`
}

// DatabaseConfig selects and configures the identity.Store adapter (C6).
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver" validate:"required,oneof=postgres sqlite"`

	// DSN is the Postgres connection string, required when Driver is
	// "postgres".
	DSN string `mapstructure:"dsn" yaml:"dsn" validate:"required_if=Driver postgres"`

	// Path is the embedded SQLite database file, required when Driver
	// is "sqlite".
	Path string `mapstructure:"path" yaml:"path" validate:"required_if=Driver sqlite"`
}

// MasterServerConfig controls internal/masterserver.Client.
type MasterServerConfig struct {
	Enabled           bool          `mapstructure:"enabled" yaml:"enabled"`
	Host              string        `mapstructure:"host" yaml:"host" validate:"required_if=Enabled true"`
	Port              int           `mapstructure:"port" yaml:"port" validate:"omitempty,min=1,max=65535"`
	Name              string        `mapstructure:"name" yaml:"name"`
	Description       string        `mapstructure:"description" yaml:"description"`
	ReconnectInterval time.Duration `mapstructure:"reconnect_interval" yaml:"reconnect_interval"`
}

// AdminAPIConfig controls internal/adminapi.Server and its JWT issuer.
type AdminAPIConfig struct {
	Enabled       bool          `mapstructure:"enabled" yaml:"enabled"`
	Host          string        `mapstructure:"host" yaml:"host" validate:"required_if=Enabled true"`
	Port          int           `mapstructure:"port" yaml:"port" validate:"omitempty,min=1,max=65535"`
	JWTSecret     string        `mapstructure:"jwt_secret" yaml:"jwt_secret" validate:"required_if=Enabled true,omitempty,min=32"`
	JWTIssuer     string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" yaml:"token_lifetime"`
}

// LoggingConfig mirrors internal/logger.Config's field shape.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"required,oneof=text json"`
	Output string `mapstructure:"output" yaml:"output" validate:"required"`
}

// ProfilingConfig mirrors internal/telemetry.ProfilingConfig.
type ProfilingConfig struct {
	Enabled      bool     `mapstructure:"enabled" yaml:"enabled"`
	Endpoint     string   `mapstructure:"endpoint" yaml:"endpoint"`
	ProfileTypes []string `mapstructure:"profile_types" yaml:"profile_types"`
}

// TelemetryConfig mirrors internal/telemetry.Config plus its nested
// profiler settings.
type TelemetryConfig struct {
	Enabled        bool            `mapstructure:"enabled" yaml:"enabled"`
	ServiceVersion string          `mapstructure:"service_version" yaml:"service_version"`
	Endpoint       string          `mapstructure:"endpoint" yaml:"endpoint"`
	Insecure       bool            `mapstructure:"insecure" yaml:"insecure"`
	SampleRate     float64         `mapstructure:"sample_rate" yaml:"sample_rate" validate:"omitempty,gte=0,lte=1"`
	Profiling      ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

// MetricsConfig toggles the /metrics route on the admin API.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// StorageConfig configures the S3-compatible bucket evidence images are
// uploaded to (internal/domain/evidence.ImageStoreConfig).
type StorageConfig struct {
	S3Bucket         string `mapstructure:"s3_bucket" yaml:"s3_bucket" validate:"required"`
	S3Region         string `mapstructure:"s3_region" yaml:"s3_region"`
	S3Endpoint       string `mapstructure:"s3_endpoint" yaml:"s3_endpoint"`
	S3ForcePathStyle bool   `mapstructure:"s3_force_path_style" yaml:"s3_force_path_style"`
}

// MusicConfig points at the TOML song-list file internal/domain/music
// loads at startup.
type MusicConfig struct {
	Path string `mapstructure:"path" yaml:"path" validate:"required"`
}

// ListCacheConfig configures internal/domain/listcache's badger-backed
// page cache.
type ListCacheConfig struct {
	Dir string        `mapstructure:"dir" yaml:"dir" validate:"required"`
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl" validate:"required,gt=0"`
}

// Config is the root configuration shape, per SPEC_FULL.md §6.
type Config struct {
	General      GeneralConfig      `mapstructure:"general" yaml:"general"`
	Database     DatabaseConfig     `mapstructure:"database" yaml:"database"`
	MasterServer MasterServerConfig `mapstructure:"masterserver" yaml:"masterserver"`
	AdminAPI     AdminAPIConfig     `mapstructure:"admin_api" yaml:"admin_api"`
	Logging      LoggingConfig      `mapstructure:"logging" yaml:"logging"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry" yaml:"telemetry"`
	Metrics      MetricsConfig      `mapstructure:"metrics" yaml:"metrics"`
	Storage      StorageConfig      `mapstructure:"storage" yaml:"storage"`
	Music        MusicConfig        `mapstructure:"music" yaml:"music"`
	ListCache    ListCacheConfig    `mapstructure:"listcache" yaml:"listcache"`
}

// Load reads configuration from file, environment, and defaults, in
// descending order of precedence:
//
//  1. Environment variables (AOSERVER_*)
//  2. Configuration file (YAML)
//  3. Default values
//
// When no configuration file is found, Load returns the defaults
// unchanged; environment variables are not applied in that case.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		cfg := GetDefaultConfig()
		if err := Validate(cfg); err != nil {
			return nil, fmt.Errorf("default configuration validation failed: %w", err)
		}
		return cfg, nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// MustLoad loads configuration the way cmd/aoserver's start command
// does, giving an operator-friendly error when the default config path
// doesn't exist and none was given explicitly.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"point at an existing file:\n  aoserver start --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as YAML, creating parent directories as
// needed. Permissions are 0600: admin_api.jwt_secret and database.dsn may
// carry credentials.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("AOSERVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading config file: %w", err)
	}
	return true, nil
}

// durationDecodeHook lets config files and environment variables write
// human-readable durations ("30s", "5m") instead of raw nanoseconds.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "aoserver")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "aoserver")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the
// default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir exposes the configuration directory for the init command.
func GetConfigDir() string {
	return getConfigDir()
}
