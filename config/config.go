// Package config holds process configuration for the policy fabric.
//
// Configuration is resolved once at startup from an optional YAML file with
// environment variable overrides, then handed to the components that need
// it. Nothing in this package re-reads the environment after startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the policy fabric process.
type Config struct {
	Server       Server       `yaml:"server"`
	Cache        Cache        `yaml:"cache"`
	Telemetry    Telemetry    `yaml:"telemetry"`
	Integrations Integrations `yaml:"integrations"`
}

// Server configures the owning process's listen surface.
type Server struct {
	Host             string `yaml:"host"`
	Port             uint16 `yaml:"port"`
	RequestTimeoutMS uint64 `yaml:"request_timeout_ms"`
}

// RequestTimeout returns the server request timeout as a Duration.
func (s Server) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutMS) * time.Millisecond
}

// Cache configures the optional L2 read cache for integration responses.
type Cache struct {
	Enabled     bool   `yaml:"enabled"`
	RedisURL    string `yaml:"redis_url"`
	RedisPrefix string `yaml:"redis_prefix"`
	TTLSeconds  uint64 `yaml:"ttl_seconds"`
}

// TTL returns the cache entry TTL as a Duration.
func (c Cache) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Telemetry configures logging for the process.
type Telemetry struct {
	ServiceName string `yaml:"service_name"`
	LogLevel    string `yaml:"log_level"`
	JSONLogs    bool   `yaml:"json_logs"`
}

// Integrations holds the per-service base URLs and the shared call timeout.
// An empty URL means the corresponding adapter is not constructed.
type Integrations struct {
	ShieldURL          string `yaml:"shield_url"`
	CostOpsURL         string `yaml:"costops_url"`
	GovernanceURL      string `yaml:"governance_url"`
	EdgeAgentURL       string `yaml:"edge_agent_url"`
	IncidentManagerURL string `yaml:"incident_manager_url"`
	SentinelURL        string `yaml:"sentinel_url"`

	SchemaRegistryURL string `yaml:"schema_registry_url"`
	ConfigManagerURL  string `yaml:"config_manager_url"`
	ObservatoryURL    string `yaml:"observatory_url"`

	TimeoutMS   uint64 `yaml:"timeout_ms"`
	FailOnError bool   `yaml:"fail_on_error"`
}

// Timeout returns the shared integration call timeout as a Duration.
func (i Integrations) Timeout() time.Duration {
	return time.Duration(i.TimeoutMS) * time.Millisecond
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		Server: Server{
			Host:             "0.0.0.0",
			Port:             3000,
			RequestTimeoutMS: 30000,
		},
		Cache: Cache{
			RedisPrefix: "llm-policy:",
			TTLSeconds:  600,
		},
		Telemetry: Telemetry{
			ServiceName: "llm-policy-engine",
			LogLevel:    "info",
		},
		Integrations: Integrations{
			TimeoutMS: 5000,
		},
	}
}

// Load reads a YAML configuration file over the defaults and then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// FromEnv returns the defaults with environment overrides applied.
func FromEnv() Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

// applyEnv overlays recognized environment variables onto the config.
// Unparseable numeric values leave the existing value untouched.
func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("HOST"); ok {
		c.Server.Host = v
	}
	if v, ok := os.LookupEnv("PORT"); ok {
		if port, err := strconv.ParseUint(v, 10, 16); err == nil {
			c.Server.Port = uint16(port)
		}
	}

	if v, ok := os.LookupEnv("REDIS_URL"); ok {
		c.Cache.RedisURL = v
		c.Cache.Enabled = true
	}

	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		c.Telemetry.LogLevel = v
	}
	if v, ok := os.LookupEnv("JSON_LOGS"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Telemetry.JSONLogs = b
		}
	}

	envURLs := map[string]*string{
		"LLM_SHIELD_URL":          &c.Integrations.ShieldURL,
		"LLM_COSTOPS_URL":         &c.Integrations.CostOpsURL,
		"LLM_GOVERNANCE_URL":      &c.Integrations.GovernanceURL,
		"LLM_EDGE_AGENT_URL":      &c.Integrations.EdgeAgentURL,
		"INCIDENT_MANAGER_URL":    &c.Integrations.IncidentManagerURL,
		"SENTINEL_URL":            &c.Integrations.SentinelURL,
		"LLM_SCHEMA_REGISTRY_URL": &c.Integrations.SchemaRegistryURL,
		"LLM_CONFIG_MANAGER_URL":  &c.Integrations.ConfigManagerURL,
		"LLM_OBSERVATORY_URL":     &c.Integrations.ObservatoryURL,
	}
	for name, target := range envURLs {
		if v, ok := os.LookupEnv(name); ok {
			*target = v
		}
	}

	if v, ok := os.LookupEnv("INTEGRATION_TIMEOUT_MS"); ok {
		if ms, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Integrations.TimeoutMS = ms
		}
	}
	if v, ok := os.LookupEnv("INTEGRATION_FAIL_ON_ERROR"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Integrations.FailOnError = b
		}
	}
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if c.Cache.Enabled && c.Cache.RedisURL == "" {
		return errors.New("config: redis_url must be set when the cache is enabled")
	}
	if c.Integrations.TimeoutMS == 0 {
		return errors.New("config: integrations timeout_ms must be greater than 0")
	}
	return nil
}
