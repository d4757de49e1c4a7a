package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetConfigUsesNamespacedPath(t *testing.T) {
	var path atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		w.Write([]byte(`{"key":"max_rules","value":500,"value_type":"integer"}`))
	}))
	defer srv.Close()

	c := NewConfigManagerClient(srv.URL, time.Second)
	value, err := c.GetConfig(context.Background(), "max_rules")
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if got := path.Load(); got != "/api/v1/config/policy-engine/max_rules" {
		t.Errorf("path = %v", got)
	}
	if value.Key != "max_rules" || value.ValueType != ConfigValueInteger {
		t.Errorf("value = %+v", value)
	}
	if string(value.Value) != "500" {
		t.Errorf("raw value = %s, want 500", value.Value)
	}
}

func TestGetConfigCustomNamespace(t *testing.T) {
	var path atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		w.Write([]byte(`{"key":"k","value":"v","value_type":"string"}`))
	}))
	defer srv.Close()

	c := NewConfigManagerClientWithNamespace(srv.URL, time.Second, "edge")
	if _, err := c.GetConfig(context.Background(), "k"); err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if got := path.Load(); got != "/api/v1/config/edge/k" {
		t.Errorf("path = %v", got)
	}
}

func TestGetConfigsBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/config/batch" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req struct {
			Namespace string   `json:"namespace"`
			Keys      []string `json:"keys"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Namespace != "policy-engine" || len(req.Keys) != 2 {
			t.Errorf("request = %+v", req)
		}
		w.Write([]byte(`{
			"a": {"key":"a","value":"1","value_type":"string"},
			"b": {"key":"b","value":true,"value_type":"boolean"}
		}`))
	}))
	defer srv.Close()

	c := NewConfigManagerClient(srv.URL, time.Second)
	values, err := c.GetConfigs(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("GetConfigs() error = %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("values = %d, want 2", len(values))
	}
	if values["b"].ValueType != ConfigValueBoolean {
		t.Errorf("b type = %s, want boolean", values["b"].ValueType)
	}
}

func TestEnforcementParamsDefaultsFillOmittedFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"strict_mode":true}`))
	}))
	defer srv.Close()

	c := NewConfigManagerClient(srv.URL, time.Second)
	params, err := c.GetEnforcementParams(context.Background())
	if err != nil {
		t.Fatalf("GetEnforcementParams() error = %v", err)
	}

	if !params.StrictMode {
		t.Error("strict_mode from the wire was lost")
	}
	if params.DefaultDecision != "deny" {
		t.Errorf("default_decision = %q, want deny", params.DefaultDecision)
	}
	if params.MaxEvaluationTimeMS != 100 {
		t.Errorf("max_evaluation_time_ms = %d, want 100", params.MaxEvaluationTimeMS)
	}
	if params.AuditLevel != "standard" {
		t.Errorf("audit_level = %q, want standard", params.AuditLevel)
	}
	if params.RateLimits.RequestsPerSecond != 1000 || params.RateLimits.BurstSize != 100 {
		t.Errorf("rate limits = %+v, want contract defaults", params.RateLimits)
	}
}

func TestEnforcementParamsExplicitValuesWin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"default_decision": "allow",
			"max_evaluation_time_ms": 250,
			"rate_limits": {"enabled": true, "requests_per_second": 50}
		}`))
	}))
	defer srv.Close()

	c := NewConfigManagerClient(srv.URL, time.Second)
	params, err := c.GetEnforcementParams(context.Background())
	if err != nil {
		t.Fatalf("GetEnforcementParams() error = %v", err)
	}
	if params.DefaultDecision != "allow" || params.MaxEvaluationTimeMS != 250 {
		t.Errorf("params = %+v", params)
	}
	if !params.RateLimits.Enabled || params.RateLimits.RequestsPerSecond != 50 {
		t.Errorf("rate limits = %+v", params.RateLimits)
	}
	// burst_size omitted inside an explicit rate_limits object still defaults.
	if params.RateLimits.BurstSize != 100 {
		t.Errorf("burst_size = %d, want default 100", params.RateLimits.BurstSize)
	}
}

func TestPolicySettingsDefaults(t *testing.T) {
	var settings PolicySettings
	if err := json.Unmarshal([]byte(`{"environment":"staging"}`), &settings); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if settings.Environment != "staging" {
		t.Errorf("environment = %q", settings.Environment)
	}
	if len(settings.EnabledNamespaces) != 1 || settings.EnabledNamespaces[0] != "default" {
		t.Errorf("enabled_namespaces = %v, want [default]", settings.EnabledNamespaces)
	}
	if settings.CacheTTLSeconds != 300 || !settings.HotReloadEnabled {
		t.Errorf("settings = %+v, want contract defaults", settings)
	}
}

func TestFeatureFlagsDefaults(t *testing.T) {
	var flags FeatureFlags
	if err := json.Unmarshal([]byte(`{"wasm_enabled":true,"parallel_evaluation":false}`), &flags); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if flags.ParallelEvaluation {
		t.Error("explicit false was overridden by the default")
	}
	if !flags.WASMEnabled || !flags.CELEnabled || !flags.AdvancedTelemetry {
		t.Errorf("flags = %+v", flags)
	}
}

func TestRuleThresholdsDecodeWithoutDefaultFilling(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cost_threshold":42.0}`))
	}))
	defer srv.Close()

	c := NewConfigManagerClient(srv.URL, time.Second)
	thresholds, err := c.GetRuleThresholds(context.Background())
	if err != nil {
		t.Fatalf("GetRuleThresholds() error = %v", err)
	}
	if thresholds.CostThreshold != 42.0 {
		t.Errorf("cost_threshold = %v, want 42", thresholds.CostThreshold)
	}
	// Omitted threshold fields stay zero on the wire; DefaultRuleThresholds
	// is an explicit fallback for callers, not a decode-time fill.
	if thresholds.TokenLimit != 0 {
		t.Errorf("token_limit = %d, want 0", thresholds.TokenLimit)
	}
}

func TestValidateAccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/rbac/validate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"allowed":false,"reason":"subject lacks role"}`))
	}))
	defer srv.Close()

	c := NewConfigManagerClient(srv.URL, time.Second)
	result, err := c.ValidateAccess(context.Background(), AccessValidationRequest{
		Subject:  "svc:policy-engine",
		Resource: "config/policy-engine",
		Action:   "read",
	})
	if err != nil {
		t.Fatalf("ValidateAccess() error = %v", err)
	}
	if result.Allowed || result.Reason == "" {
		t.Errorf("result = %+v", result)
	}
}
