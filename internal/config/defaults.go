package config

import "time"

// ApplyDefaults fills unspecified fields with sensible defaults, the same
// zero-value-replacement strategy as the teacher's ApplyDefaults: explicit
// values are always preserved.
func ApplyDefaults(cfg *Config) {
	applyGeneralDefaults(&cfg.General)
	applyDatabaseDefaults(&cfg.Database)
	applyMasterServerDefaults(&cfg.MasterServer, cfg.General.Port)
	applyAdminAPIDefaults(&cfg.AdminAPI)
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyStorageDefaults(&cfg.Storage)
	applyMusicDefaults(&cfg.Music)
	applyListCacheDefaults(&cfg.ListCache)
}

func applyGeneralDefaults(cfg *GeneralConfig) {
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == 0 {
		cfg.Port = 27016
	}
	if cfg.PlayerLimit == 0 {
		cfg.PlayerLimit = 100
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Software == "" {
		cfg.Software = "aoserver"
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}
	if cfg.PreambleValue == 0 {
		cfg.PreambleValue = 34
	}
}

// applyDatabaseDefaults defaults to sqlite, a zero-configuration choice
// for local and single-node runs. Production deployments set
// database.driver: postgres explicitly (see DESIGN.md's Open Question
// resolution).
func applyDatabaseDefaults(cfg *DatabaseConfig) {
	if cfg.Driver == "" {
		cfg.Driver = "sqlite"
	}
	if cfg.Driver == "sqlite" && cfg.Path == "" {
		cfg.Path = "/tmp/aoserver-identity.db"
	}
}

func applyMasterServerDefaults(cfg *MasterServerConfig, generalPort int) {
	// Enabled defaults to false: advertising to a public master server
	// is opt-in.
	if cfg.Port == 0 {
		cfg.Port = generalPort
	}
	if cfg.ReconnectInterval == 0 {
		cfg.ReconnectInterval = 10 * time.Second
	}
}

func applyAdminAPIDefaults(cfg *AdminAPIConfig) {
	// Enabled defaults to false: the admin surface is opt-in.
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 27018
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "aoserver-admin"
	}
	if cfg.TokenLifetime == 0 {
		cfg.TokenLifetime = time.Hour
	}
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	// Enabled defaults to false (opt-in).
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "dev"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
	applyProfilingDefaults(&cfg.Profiling)
}

func applyProfilingDefaults(cfg *ProfilingConfig) {
	// Enabled defaults to false (opt-in).
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:4040"
	}
	if len(cfg.ProfileTypes) == 0 {
		cfg.ProfileTypes = []string{"cpu", "alloc_objects", "alloc_space", "inuse_objects", "inuse_space", "goroutines"}
	}
}

func applyStorageDefaults(cfg *StorageConfig) {
	if cfg.S3Region == "" {
		cfg.S3Region = "us-east-1"
	}
}

func applyMusicDefaults(cfg *MusicConfig) {
	if cfg.Path == "" {
		cfg.Path = "./music.toml"
	}
}

func applyListCacheDefaults(cfg *ListCacheConfig) {
	if cfg.Dir == "" {
		cfg.Dir = "/tmp/aoserver-listcache"
	}
	if cfg.TTL == 0 {
		cfg.TTL = 5 * time.Minute
	}
}

// GetDefaultConfig returns a Config with every default applied, used for
// a zero-config Load when no file exists.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Storage: StorageConfig{S3Bucket: "aoserver-evidence"},
	}
	ApplyDefaults(cfg)
	return cfg
}
