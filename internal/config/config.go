package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the odhiyaty API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Firestore FirestoreConfig `yaml:"firestore"`
	Firebase  FirebaseConfig  `yaml:"firebase"`
	Email     EmailConfig     `yaml:"email"`
	Redis     RedisConfig     `yaml:"redis"`
	Throttle  ThrottleConfig  `yaml:"throttle"`
	Codes     CodesConfig     `yaml:"codes"`
	Auth      AuthConfig      `yaml:"auth"`
	Data      DataConfig      `yaml:"data"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig protects operational endpoints.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"` // bearer keys for /metrics; empty disables auth
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// FirestoreConfig points the document client at a database.
type FirestoreConfig struct {
	ProjectID  string `yaml:"project_id"` // taken from the service account when empty
	DatabaseID string `yaml:"database_id"`
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`     // used when no service account is configured
	TimeoutSec int    `yaml:"timeout_sec"` // 0 = no client timeout
}

// FirebaseConfig holds the service account for the identity provider and
// authorized document access. Either ServiceAccount or ClientEmail plus
// PrivateKey is used.
type FirebaseConfig struct {
	ServiceAccount string `yaml:"service_account"` // JSON or base64 JSON
	ClientEmail    string `yaml:"client_email"`
	PrivateKey     string `yaml:"private_key"`
}

// Configured reports whether any credentials were supplied.
func (f FirebaseConfig) Configured() bool {
	return f.ServiceAccount != "" || (f.ClientEmail != "" && f.PrivateKey != "")
}

// EmailConfig holds the mail providers.
type EmailConfig struct {
	Resend     ResendConfig `yaml:"resend"`
	SMTP       SMTPConfig   `yaml:"smtp"`
	AdminEmail string       `yaml:"admin_email"`
	RatePerSec float64      `yaml:"rate_per_sec"` // global send pacing
	Burst      int          `yaml:"burst"`
}

// ResendConfig configures the primary provider.
type ResendConfig struct {
	APIKey string `yaml:"api_key"`
	From   string `yaml:"from"`
}

// SMTPConfig configures the fallback provider.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Configured reports whether all connection settings are present.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.Port > 0 && s.Username != "" && s.Password != ""
}

// RedisConfig holds the optional throttle store. Empty Addrs disables it.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// ThrottleConfig limits code emails per address.
type ThrottleConfig struct {
	MaxSends  int `yaml:"max_sends"`
	WindowSec int `yaml:"window_sec"`
}

// CodesConfig holds verification code settings.
type CodesConfig struct {
	TTLMinutes int `yaml:"ttl_minutes"`
}

// DataConfig locates static data files.
type DataConfig struct {
	MunicipalitiesPath string `yaml:"municipalities_path"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 5000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Firestore.DatabaseID == "" {
		c.Firestore.DatabaseID = "(default)"
	}
	if c.Firestore.BaseURL == "" {
		c.Firestore.BaseURL = "https://firestore.googleapis.com/v1"
	}
	if c.Email.Resend.From == "" {
		c.Email.Resend.From = "onboarding@resend.dev"
	}
	if c.Email.SMTP.From == "" {
		c.Email.SMTP.From = c.Email.SMTP.Username
	}
	if c.Email.AdminEmail == "" {
		c.Email.AdminEmail = "admin@odhiyaty.com"
	}
	if c.Email.RatePerSec <= 0 {
		c.Email.RatePerSec = 2
	}
	if c.Email.Burst <= 0 {
		c.Email.Burst = 2
	}
	if c.Redis.ReadinessTimeout <= 0 {
		c.Redis.ReadinessTimeout = 10
	}
	if c.Throttle.MaxSends <= 0 {
		c.Throttle.MaxSends = 5
	}
	if c.Throttle.WindowSec <= 0 {
		c.Throttle.WindowSec = 900
	}
	if c.Codes.TTLMinutes <= 0 {
		c.Codes.TTLMinutes = 15
	}
	if c.Data.MunicipalitiesPath == "" {
		c.Data.MunicipalitiesPath = "data/municipalities.json"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Firestore.ProjectID == "" && c.Firebase.ServiceAccount == "" {
		return fmt.Errorf("firestore.project_id is required")
	}
	if c.Firestore.TimeoutSec < 0 {
		return fmt.Errorf("firestore.timeout_sec must not be negative, got %d", c.Firestore.TimeoutSec)
	}
	if c.Email.SMTP.Port < 0 || c.Email.SMTP.Port > 65535 {
		return fmt.Errorf("email.smtp.port must be between 1 and 65535, got %d", c.Email.SMTP.Port)
	}
	if (c.Firebase.ClientEmail == "") != (c.Firebase.PrivateKey == "") && c.Firebase.ServiceAccount == "" {
		return fmt.Errorf("firebase.client_email and firebase.private_key must be set together")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
