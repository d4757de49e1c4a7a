package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultConfigNamespace is the namespace used for policy-engine
// configuration when none is supplied.
const DefaultConfigNamespace = "policy-engine"

// ConfigManagerClient consumes dynamic configuration from the platform
// config service: enforcement parameters, rule thresholds, policy settings,
// and feature flags. It exposes only request/response types scoped to this
// service's own use, never the config service's internal types.
type ConfigManagerClient struct {
	client    *Client
	namespace string
}

// NewConfigManagerClient creates a Config Manager client with the default
// policy-engine namespace. Construction performs no I/O and never fails.
func NewConfigManagerClient(baseURL string, timeout time.Duration) *ConfigManagerClient {
	return NewConfigManagerClientWithNamespace(baseURL, timeout, DefaultConfigNamespace)
}

// NewConfigManagerClientWithNamespace creates a Config Manager client with a
// custom configuration namespace.
func NewConfigManagerClientWithNamespace(baseURL string, timeout time.Duration, namespace string) *ConfigManagerClient {
	return &ConfigManagerClient{
		client:    NewClient(baseURL, timeout),
		namespace: namespace,
	}
}

// GetConfig fetches a single configuration value by key.
// The key must already be valid for path placement.
func (c *ConfigManagerClient) GetConfig(ctx context.Context, key string) (ConfigValue, error) {
	path := fmt.Sprintf("/api/v1/config/%s/%s", c.namespace, key)
	return Get[ConfigValue](ctx, c.client, path)
}

// GetConfigs fetches multiple configuration values in one batch call.
func (c *ConfigManagerClient) GetConfigs(ctx context.Context, keys []string) (map[string]ConfigValue, error) {
	request := batchConfigRequest{
		Namespace: c.namespace,
		Keys:      keys,
	}
	return Post[map[string]ConfigValue](ctx, c.client, "/api/v1/config/batch", request)
}

// GetEnforcementParams fetches the enforcement parameters for policy
// evaluation.
func (c *ConfigManagerClient) GetEnforcementParams(ctx context.Context) (EnforcementParams, error) {
	path := fmt.Sprintf("/api/v1/config/%s/enforcement", c.namespace)
	return Get[EnforcementParams](ctx, c.client, path)
}

// GetRuleThresholds fetches the rule threshold configuration.
func (c *ConfigManagerClient) GetRuleThresholds(ctx context.Context) (RuleThresholds, error) {
	path := fmt.Sprintf("/api/v1/config/%s/thresholds", c.namespace)
	return Get[RuleThresholds](ctx, c.client, path)
}

// GetPolicySettings fetches the dynamic policy settings.
func (c *ConfigManagerClient) GetPolicySettings(ctx context.Context) (PolicySettings, error) {
	path := fmt.Sprintf("/api/v1/config/%s/policy-settings", c.namespace)
	return Get[PolicySettings](ctx, c.client, path)
}

// GetFeatureFlags fetches the feature flags for the policy engine.
func (c *ConfigManagerClient) GetFeatureFlags(ctx context.Context) (FeatureFlags, error) {
	path := fmt.Sprintf("/api/v1/config/%s/features", c.namespace)
	return Get[FeatureFlags](ctx, c.client, path)
}

// GetConfigVersion returns the current configuration version for polling.
// A watch/subscription mechanism may replace this in a later contract rev.
func (c *ConfigManagerClient) GetConfigVersion(ctx context.Context) (ConfigVersion, error) {
	path := fmt.Sprintf("/api/v1/config/%s/version", c.namespace)
	return Get[ConfigVersion](ctx, c.client, path)
}

// ValidateAccess performs an RBAC check for configuration access.
func (c *ConfigManagerClient) ValidateAccess(ctx context.Context, request AccessValidationRequest) (AccessValidationResult, error) {
	return Post[AccessValidationResult](ctx, c.client, "/api/v1/rbac/validate", request)
}

// HealthCheck reports whether the config service is reachable and healthy.
func (c *ConfigManagerClient) HealthCheck(ctx context.Context) bool {
	return c.client.HealthCheck(ctx)
}

// ConfigValue is a single configuration value.
type ConfigValue struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	ValueType ConfigValueType `json:"value_type"`
	Metadata  ConfigMetadata  `json:"metadata,omitempty"`
}

// ConfigValueType enumerates configuration value types.
type ConfigValueType string

const (
	ConfigValueString  ConfigValueType = "string"
	ConfigValueInteger ConfigValueType = "integer"
	ConfigValueFloat   ConfigValueType = "float"
	ConfigValueBoolean ConfigValueType = "boolean"
	ConfigValueObject  ConfigValueType = "object"
	ConfigValueArray   ConfigValueType = "array"
	ConfigValueSecret  ConfigValueType = "secret"
)

// ConfigMetadata describes the provenance of a configuration value.
type ConfigMetadata struct {
	Version    uint64 `json:"version,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
	Source     string `json:"source,omitempty"`
}

// batchConfigRequest wraps a multi-key configuration fetch.
type batchConfigRequest struct {
	Namespace string   `json:"namespace"`
	Keys      []string `json:"keys"`
}

// EnforcementParams are the enforcement parameters for policy evaluation.
type EnforcementParams struct {
	StrictMode          bool            `json:"strict_mode"`
	DefaultDecision     string          `json:"default_decision"`
	MaxEvaluationTimeMS uint64          `json:"max_evaluation_time_ms"`
	FailOpen            bool            `json:"fail_open"`
	AuditLevel          string          `json:"audit_level"`
	RateLimits          RateLimitConfig `json:"rate_limits"`
}

// DefaultEnforcementParams returns the wire-contract defaults: deny by
// default, 100ms evaluation budget, standard audit level.
func DefaultEnforcementParams() EnforcementParams {
	return EnforcementParams{
		DefaultDecision:     "deny",
		MaxEvaluationTimeMS: 100,
		AuditLevel:          "standard",
		RateLimits:          DefaultRateLimitConfig(),
	}
}

// UnmarshalJSON fills contract defaults for fields the remote omits.
func (p *EnforcementParams) UnmarshalJSON(data []byte) error {
	type plain EnforcementParams
	tmp := plain(DefaultEnforcementParams())
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*p = EnforcementParams(tmp)
	return nil
}

// RateLimitConfig is the rate limiting section of the enforcement params.
type RateLimitConfig struct {
	Enabled           bool   `json:"enabled"`
	RequestsPerSecond uint32 `json:"requests_per_second"`
	BurstSize         uint32 `json:"burst_size"`
}

// DefaultRateLimitConfig returns the wire-contract rate limit defaults.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 1000,
		BurstSize:         100,
	}
}

// UnmarshalJSON fills contract defaults for fields the remote omits.
func (r *RateLimitConfig) UnmarshalJSON(data []byte) error {
	type plain RateLimitConfig
	tmp := plain(DefaultRateLimitConfig())
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*r = RateLimitConfig(tmp)
	return nil
}

// RuleThresholds holds threshold values consulted during rule matching.
type RuleThresholds struct {
	CostThreshold      float64                    `json:"cost_threshold"`
	TokenLimit         uint64                     `json:"token_limit"`
	RequestRateLimit   uint32                     `json:"request_rate_limit"`
	LatencyThresholdMS uint64                     `json:"latency_threshold_ms"`
	ErrorRateThreshold float64                    `json:"error_rate_threshold"`
	Custom             map[string]json.RawMessage `json:"custom,omitempty"`
}

// DefaultRuleThresholds returns the wire-contract threshold defaults.
func DefaultRuleThresholds() RuleThresholds {
	return RuleThresholds{
		CostThreshold:      100.0,
		TokenLimit:         100000,
		RequestRateLimit:   1000,
		LatencyThresholdMS: 5000,
		ErrorRateThreshold: 5.0,
	}
}

// PolicySettings are the dynamic runtime settings for the policy engine.
type PolicySettings struct {
	EnabledNamespaces []string         `json:"enabled_namespaces"`
	DisabledPolicies  []string         `json:"disabled_policies,omitempty"`
	PriorityOverrides map[string]int32 `json:"priority_overrides,omitempty"`
	Environment       string           `json:"environment"`
	CacheTTLSeconds   uint64           `json:"cache_ttl_seconds"`
	HotReloadEnabled  bool             `json:"hot_reload_enabled"`
}

// DefaultPolicySettings returns the wire-contract settings defaults:
// the default namespace, production environment, 300s cache TTL, and hot
// reload enabled.
func DefaultPolicySettings() PolicySettings {
	return PolicySettings{
		EnabledNamespaces: []string{"default"},
		Environment:       "production",
		CacheTTLSeconds:   300,
		HotReloadEnabled:  true,
	}
}

// UnmarshalJSON fills contract defaults for fields the remote omits.
func (s *PolicySettings) UnmarshalJSON(data []byte) error {
	type plain PolicySettings
	tmp := plain(DefaultPolicySettings())
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*s = PolicySettings(tmp)
	return nil
}

// FeatureFlags gate optional policy engine behavior.
type FeatureFlags struct {
	ParallelEvaluation bool            `json:"parallel_evaluation"`
	CELEnabled         bool            `json:"cel_enabled"`
	WASMEnabled        bool            `json:"wasm_enabled"`
	DistributedCache   bool            `json:"distributed_cache"`
	AdvancedTelemetry  bool            `json:"advanced_telemetry"`
	Custom             map[string]bool `json:"custom,omitempty"`
}

// DefaultFeatureFlags returns the wire-contract flag defaults.
func DefaultFeatureFlags() FeatureFlags {
	return FeatureFlags{
		ParallelEvaluation: true,
		CELEnabled:         true,
		AdvancedTelemetry:  true,
	}
}

// UnmarshalJSON fills contract defaults for fields the remote omits.
func (f *FeatureFlags) UnmarshalJSON(data []byte) error {
	type plain FeatureFlags
	tmp := plain(DefaultFeatureFlags())
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*f = FeatureFlags(tmp)
	return nil
}

// ConfigVersion identifies the current configuration revision.
type ConfigVersion struct {
	Version    uint64 `json:"version"`
	ModifiedAt string `json:"modified_at"`
	Checksum   string `json:"checksum,omitempty"`
}

// AccessValidationRequest is an RBAC check for configuration access.
type AccessValidationRequest struct {
	Subject  string            `json:"subject"`
	Resource string            `json:"resource"`
	Action   string            `json:"action"`
	Context  map[string]string `json:"context,omitempty"`
}

// AccessValidationResult is the outcome of an RBAC check.
type AccessValidationResult struct {
	Allowed  bool     `json:"allowed"`
	Reason   string   `json:"reason,omitempty"`
	Policies []string `json:"policies,omitempty"`
}
