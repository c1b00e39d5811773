// Package config provides configuration management for serverdash.
//
// This package handles loading configuration from multiple sources:
//   - YAML configuration files
//   - Environment variables (with SD_ prefix)
//   - .env files
//   - Default values
//
// # Configuration Sources Priority
//
// Configuration is loaded in the following order (later sources override earlier ones):
//  1. Default values (hardcoded)
//  2. Configuration files (./config.yaml, ./configs/config.yaml, ~/.serverdash/config.yaml, /etc/serverdash/config.yaml)
//  3. .env files
//  4. Environment variables (SD_ prefix)
//
// # Environment Variables
//
// Use SD_ prefix and underscores for nested keys:
//   - SD_SERVER_PORT=3021
//   - SD_SERVER_ENVIRONMENT=production
//   - SD_DOCKER_HOST=unix:///var/run/docker.sock
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"evalgo.org/serverdash/models"
)

// Environment names accepted by server.environment.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config is the root configuration structure for serverdash.
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Security contains CORS, rate limiting and action token settings
	Security SecurityConfig `mapstructure:"security" yaml:"security"`

	// Docker contains container runtime connection settings
	Docker DockerConfig `mapstructure:"docker" yaml:"docker"`

	// Systemd contains service manager settings
	Systemd SystemdConfig `mapstructure:"systemd" yaml:"systemd"`

	// Services contains aggregation behaviour
	Services ServicesConfig `mapstructure:"services" yaml:"services"`

	// Network contains the reported network status values
	Network NetworkConfig `mapstructure:"network" yaml:"network"`

	// UI contains the polling cadence published to dashboard clients
	UI UIConfig `mapstructure:"ui" yaml:"ui"`

	// Client contains settings for the CLI dashboard commands
	Client ClientConfig `mapstructure:"client" yaml:"client"`

	// Logging contains logging settings
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Host is the server bind address (default: 0.0.0.0)
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the server listen port (default: 3021)
	Port int `mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`

	// Environment selects default CORS origins (development, staging, production)
	Environment string `mapstructure:"environment" yaml:"environment" validate:"oneof=development staging production"`

	// ReadTimeout is the maximum duration for reading requests
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing responses
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`

	// ShutdownTimeout is the maximum duration for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	// Debug exposes internal error details in responses
	Debug bool `mapstructure:"debug" yaml:"debug"`
}

// SecurityConfig contains security and rate limiting settings.
type SecurityConfig struct {
	// RateLimit is the maximum requests per second per client (0 disables)
	RateLimit int `mapstructure:"rate_limit" yaml:"rate_limit" validate:"min=0"`

	// AllowedOrigins overrides the per-environment CORS origins
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`

	// AuthEnabled requires a bearer token for container lifecycle actions
	AuthEnabled bool `mapstructure:"auth_enabled" yaml:"auth_enabled"`

	// JWTSecret is the secret key for signing action tokens
	JWTSecret string `mapstructure:"jwt_secret" yaml:"jwt_secret" validate:"required_if=AuthEnabled true"`

	// JWTExpiration is the default token lifetime
	JWTExpiration time.Duration `mapstructure:"jwt_expiration" yaml:"jwt_expiration"`
}

// DockerConfig contains container runtime settings.
type DockerConfig struct {
	// Host overrides DOCKER_HOST (e.g. unix:///var/run/docker.sock)
	Host string `mapstructure:"host" yaml:"host"`

	// CallTimeout bounds each runtime API call
	CallTimeout time.Duration `mapstructure:"call_timeout" yaml:"call_timeout" validate:"gt=0"`

	// ActionTimeout bounds start, stop and restart commands
	ActionTimeout time.Duration `mapstructure:"action_timeout" yaml:"action_timeout" validate:"gt=0"`
}

// SystemdConfig contains service manager settings.
type SystemdConfig struct {
	// Enabled toggles the OS service collector
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// CriticalServices is the allowlist used by the critical filter
	CriticalServices []string `mapstructure:"critical_services" yaml:"critical_services"`

	// CallTimeout bounds each service manager or process table query
	CallTimeout time.Duration `mapstructure:"call_timeout" yaml:"call_timeout" validate:"gt=0"`
}

// ServicesConfig contains aggregation settings.
type ServicesConfig struct {
	// StrictErrors turns a failed collector into a 500 instead of an empty list
	StrictErrors bool `mapstructure:"strict_errors" yaml:"strict_errors"`
}

// NetworkConfig holds the statuses reported by /api/network.
type NetworkConfig struct {
	VPNStatus   string `mapstructure:"vpn_status" yaml:"vpn_status"`
	ProxyStatus string `mapstructure:"proxy_status" yaml:"proxy_status"`
}

// UIConfig contains the per-resource polling cadence.
type UIConfig struct {
	ContainersInterval      time.Duration `mapstructure:"containers_interval" yaml:"containers_interval" validate:"gt=0"`
	ContainerDetailInterval time.Duration `mapstructure:"container_detail_interval" yaml:"container_detail_interval" validate:"gt=0"`
	ServicesInterval        time.Duration `mapstructure:"services_interval" yaml:"services_interval" validate:"gt=0"`
	CriticalInterval        time.Duration `mapstructure:"critical_interval" yaml:"critical_interval" validate:"gt=0"`
	SystemInterval          time.Duration `mapstructure:"system_interval" yaml:"system_interval" validate:"gt=0"`
}

// ClientConfig contains settings for the dashboard CLI.
type ClientConfig struct {
	// APIURL is the base URL of a running serverdash server
	APIURL string `mapstructure:"api_url" yaml:"api_url" validate:"required,url"`

	// Token is sent as a bearer token on action requests
	Token string `mapstructure:"token" yaml:"token"`

	// Timeout bounds each API request
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error)
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn warning error"`

	// Format is the log format (json, text)
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json text"`
}

// DefaultCriticalServices is the operationally important subset polled by
// the critical filter.
var DefaultCriticalServices = []string{"nginx", "postgresql", "docker", "ssh", "ufw", "cron", "fail2ban"}

var environmentOrigins = map[string][]string{
	EnvProduction: {"https://server-dashboard.mrspinn.ca"},
	EnvStaging:    {"https://staging.server-dashboard.mrspinn.ca"},
	EnvDevelopment: {
		"http://localhost:5173",
		"http://localhost:3001",
		"http://127.0.0.1:5173",
		"http://127.0.0.1:3001",
	},
}

// Load reads configuration from a file and environment variables.
// If cfgFile is empty, it searches for config.yaml in standard locations.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.serverdash")
		v.AddConfigPath("/etc/serverdash")
	}

	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			if !isFileNotFoundError(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.MergeInConfig() // .env is optional

	v.SetEnvPrefix("SD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration produced by defaults alone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3021)
	v.SetDefault("server.environment", EnvDevelopment)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.debug", false)

	v.SetDefault("security.rate_limit", 50)
	v.SetDefault("security.allowed_origins", []string{})
	v.SetDefault("security.auth_enabled", false)
	v.SetDefault("security.jwt_secret", "")
	v.SetDefault("security.jwt_expiration", "24h")

	v.SetDefault("docker.host", "")
	v.SetDefault("docker.call_timeout", "5s")
	v.SetDefault("docker.action_timeout", "30s")

	v.SetDefault("systemd.enabled", true)
	v.SetDefault("systemd.critical_services", DefaultCriticalServices)
	v.SetDefault("systemd.call_timeout", "5s")

	v.SetDefault("services.strict_errors", false)

	v.SetDefault("network.vpn_status", "Connected")
	v.SetDefault("network.proxy_status", "Active")

	v.SetDefault("ui.containers_interval", "5s")
	v.SetDefault("ui.container_detail_interval", "2s")
	v.SetDefault("ui.services_interval", "30s")
	v.SetDefault("ui.critical_interval", "15s")
	v.SetDefault("ui.system_interval", "60s")

	v.SetDefault("client.api_url", "http://localhost:3021")
	v.SetDefault("client.token", "")
	v.SetDefault("client.timeout", "30s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func validate(cfg *Config) error {
	return validator.New().Struct(cfg)
}

// CORSOrigins returns the allowed origins, falling back to the defaults of
// the configured environment.
func (c *Config) CORSOrigins() []string {
	if len(c.Security.AllowedOrigins) > 0 {
		return c.Security.AllowedOrigins
	}
	if origins, ok := environmentOrigins[c.Server.Environment]; ok {
		return origins
	}
	return environmentOrigins[EnvDevelopment]
}

// Polling returns the dashboard refresh cadence.
func (c *Config) Polling() models.PollingIntervals {
	return models.PollingIntervals{
		Containers:      c.UI.ContainersInterval.Milliseconds(),
		ContainerDetail: c.UI.ContainerDetailInterval.Milliseconds(),
		Services:        c.UI.ServicesInterval.Milliseconds(),
		Critical:        c.UI.CriticalInterval.Milliseconds(),
		System:          c.UI.SystemInterval.Milliseconds(),
	}
}

// isFileNotFoundError checks if an error is a file not found error.
func isFileNotFoundError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr, os.ErrNotExist)
	}
	return false
}
