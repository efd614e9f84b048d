package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Inference InferenceConfig
	Engine    EngineConfig
	Audit     AuditConfig
	Evidence  EvidenceConfig
	Security  SecurityConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// InferenceConfig holds the external inference service configuration
type InferenceConfig struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// EngineConfig holds incident engine tuning parameters
type EngineConfig struct {
	ClassificationTTL time.Duration
	PollInterval      time.Duration
	NotificationTTL   time.Duration
}

// AuditConfig holds the optional audit database configuration. An empty
// URL selects the log-only sink.
type AuditConfig struct {
	DatabaseURL     string
	MaxConns        int
	ConnMaxLifetime time.Duration
}

// EvidenceConfig holds the optional blob evidence store configuration.
// Missing credentials select the no-op store.
type EvidenceConfig struct {
	AccountName string
	AccountKey  string
	Container   string
}

// SecurityConfig holds the optional identity sealing key. When set, audit
// entries for identity disclosure carry an encrypted identity snapshot.
type SecurityConfig struct {
	IdentitySealKey string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	// Bind specific environment variables
	bindEnvVars(v)

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Inference defaults
	v.SetDefault("inference.model", "gemini-2.5-flash")
	v.SetDefault("inference.timeout", 20*time.Second)

	// Engine defaults
	v.SetDefault("engine.classificationttl", 45*time.Second)
	v.SetDefault("engine.pollinterval", 45*time.Second)
	v.SetDefault("engine.notificationttl", 5*time.Second)

	// Audit defaults
	v.SetDefault("audit.maxconns", 10)
	v.SetDefault("audit.connmaxlifetime", 5*time.Minute)

	// Evidence defaults
	v.SetDefault("evidence.container", "incident-evidence")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	// Inference
	v.BindEnv("inference.endpoint", "GEMINI_ENDPOINT")
	v.BindEnv("inference.apikey", "GEMINI_API_KEY")
	v.BindEnv("inference.model", "GEMINI_MODEL")
	v.BindEnv("inference.timeout", "GEMINI_TIMEOUT")

	// Engine
	v.BindEnv("engine.classificationttl", "CLASSIFICATION_TTL")
	v.BindEnv("engine.pollinterval", "POLL_INTERVAL")
	v.BindEnv("engine.notificationttl", "NOTIFICATION_TTL")

	// Audit
	v.BindEnv("audit.databaseurl", "AUDIT_DATABASE_URL")

	// Evidence
	v.BindEnv("evidence.accountname", "EVIDENCE_STORAGE_ACCOUNT_NAME")
	v.BindEnv("evidence.accountkey", "EVIDENCE_STORAGE_ACCOUNT_KEY")
	v.BindEnv("evidence.container", "EVIDENCE_STORAGE_CONTAINER")

	// Security
	v.BindEnv("security.identitysealkey", "IDENTITY_SEAL_KEY")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Inference.Endpoint == "" {
		return fmt.Errorf("inference.endpoint is required")
	}

	if c.Inference.APIKey == "" {
		return fmt.Errorf("inference.apikey is required")
	}

	if c.Inference.Model == "" {
		return fmt.Errorf("inference.model is required")
	}

	if c.Inference.Timeout <= 0 {
		return fmt.Errorf("inference.timeout must be positive")
	}

	if c.Engine.PollInterval <= 0 {
		return fmt.Errorf("engine.pollinterval must be positive")
	}

	if c.Evidence.AccountName != "" && c.Evidence.AccountKey == "" {
		return fmt.Errorf("evidence.accountkey is required when evidence.accountname is set")
	}

	if key := c.Security.IdentitySealKey; key != "" && len(key) != 32 {
		return fmt.Errorf("security.identitysealkey must be exactly 32 bytes, got %d", len(key))
	}

	return nil
}
