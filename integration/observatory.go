package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultServiceName is the telemetry attribution name used when none is
// supplied.
const DefaultServiceName = "llm-policy-engine"

// ObservatoryClient integrates with the platform telemetry service. It
// emits policy evaluation events, registers and completes trace spans, and
// consumes aggregated telemetry signals that may influence policy decisions.
type ObservatoryClient struct {
	client      *Client
	serviceName string
}

// NewObservatoryClient creates an Observatory client with the default
// service name. Construction performs no I/O and never fails.
func NewObservatoryClient(baseURL string, timeout time.Duration) *ObservatoryClient {
	return NewObservatoryClientWithServiceName(baseURL, timeout, DefaultServiceName)
}

// NewObservatoryClientWithServiceName creates an Observatory client with a
// custom service name for telemetry attribution.
func NewObservatoryClientWithServiceName(baseURL string, timeout time.Duration, serviceName string) *ObservatoryClient {
	return &ObservatoryClient{
		client:      NewClient(baseURL, timeout),
		serviceName: serviceName,
	}
}

// EmitEvaluationEvent sends one policy evaluation event for aggregation.
func (c *ObservatoryClient) EmitEvaluationEvent(ctx context.Context, event PolicyEvaluationEvent) (EventAck, error) {
	return Post[EventAck](ctx, c.client, "/api/v1/events/policy-evaluation", event)
}

// EmitEvaluationEventsBatch sends a batch of policy evaluation events in
// one call, wrapped with the client's service name.
func (c *ObservatoryClient) EmitEvaluationEventsBatch(ctx context.Context, events []PolicyEvaluationEvent) (BatchEventAck, error) {
	request := batchEventRequest{
		Service: c.serviceName,
		Events:  events,
	}
	return Post[BatchEventAck](ctx, c.client, "/api/v1/events/batch", request)
}

// GetTraceContext retrieves distributed trace context for cross-service
// correlation. The trace ID must already be valid for path placement.
func (c *ObservatoryClient) GetTraceContext(ctx context.Context, traceID string) (TraceContext, error) {
	path := fmt.Sprintf("/api/v1/traces/%s/context", traceID)
	return Get[TraceContext](ctx, c.client, path)
}

// RegisterSpan registers a policy evaluation span and returns its assigned ID.
func (c *ObservatoryClient) RegisterSpan(ctx context.Context, span PolicySpan) (SpanRegistration, error) {
	return Post[SpanRegistration](ctx, c.client, "/api/v1/spans/register", span)
}

// CompleteSpan closes a previously registered span with its final result.
func (c *ObservatoryClient) CompleteSpan(ctx context.Context, spanID string, result SpanResult) error {
	path := fmt.Sprintf("/api/v1/spans/%s/complete", spanID)
	_, err := Post[struct{}](ctx, c.client, path, result)
	return err
}

// GetTelemetrySignals queries aggregated telemetry signals for a context.
func (c *ObservatoryClient) GetTelemetrySignals(ctx context.Context, request TelemetrySignalRequest) (TelemetrySignals, error) {
	return Post[TelemetrySignals](ctx, c.client, "/api/v1/signals/query", request)
}

// GetCurrentMetrics fetches the current metrics snapshot for a service, and
// optionally a specific model.
func (c *ObservatoryClient) GetCurrentMetrics(ctx context.Context, service, model string) (CurrentMetrics, error) {
	path := fmt.Sprintf("/api/v1/metrics/current?service=%s", service)
	if model != "" {
		path = fmt.Sprintf("/api/v1/metrics/current?service=%s&model=%s", service, model)
	}
	return Get[CurrentMetrics](ctx, c.client, path)
}

// SubscribeTelemetry registers a telemetry subscription and returns its ID.
func (c *ObservatoryClient) SubscribeTelemetry(ctx context.Context, request TelemetrySubscription) (SubscriptionAck, error) {
	return Post[SubscriptionAck](ctx, c.client, "/api/v1/subscriptions/telemetry", request)
}

// RecordDecision records a policy decision for analytics.
func (c *ObservatoryClient) RecordDecision(ctx context.Context, decision PolicyDecisionRecord) (RecordAck, error) {
	return Post[RecordAck](ctx, c.client, "/api/v1/analytics/decisions", decision)
}

// HealthCheck reports whether the telemetry service is reachable and healthy.
func (c *ObservatoryClient) HealthCheck(ctx context.Context) bool {
	return c.client.HealthCheck(ctx)
}

// PolicyEvaluationEvent describes one policy evaluation for aggregation.
type PolicyEvaluationEvent struct {
	EventID    string            `json:"event_id"`
	Timestamp  string            `json:"timestamp"`
	TraceID    string            `json:"trace_id,omitempty"`
	SpanID     string            `json:"span_id,omitempty"`
	PolicyID   string            `json:"policy_id"`
	RuleID     string            `json:"rule_id,omitempty"`
	Decision   DecisionOutcome   `json:"decision"`
	DurationMS float64           `json:"duration_ms"`
	Cached     bool              `json:"cached"`
	Context    map[string]string `json:"context,omitempty"`
	Labels     map[string]string `json:"labels,omitempty"`
}

// NewPolicyEvaluationEvent builds an event with a fresh event ID and the
// current timestamp.
func NewPolicyEvaluationEvent(policyID string, decision DecisionOutcome, durationMS float64) PolicyEvaluationEvent {
	return PolicyEvaluationEvent{
		EventID:    uuid.NewString(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		PolicyID:   policyID,
		Decision:   decision,
		DurationMS: durationMS,
	}
}

// DecisionOutcome enumerates policy decision results.
type DecisionOutcome string

const (
	DecisionAllow  DecisionOutcome = "allow"
	DecisionDeny   DecisionOutcome = "deny"
	DecisionWarn   DecisionOutcome = "warn"
	DecisionModify DecisionOutcome = "modify"
	DecisionError  DecisionOutcome = "error"
)

// batchEventRequest wraps a batch emission with service attribution.
type batchEventRequest struct {
	Service string                  `json:"service"`
	Events  []PolicyEvaluationEvent `json:"events"`
}

// EventAck acknowledges a single emitted event.
type EventAck struct {
	Accepted bool   `json:"accepted"`
	EventID  string `json:"event_id,omitempty"`
}

// BatchEventAck acknowledges a batch emission.
type BatchEventAck struct {
	AcceptedCount uint64   `json:"accepted_count"`
	RejectedCount uint64   `json:"rejected_count"`
	RejectedIDs   []string `json:"rejected_ids,omitempty"`
}

// TraceContext carries distributed tracing state in W3C style.
type TraceContext struct {
	TraceID      string            `json:"trace_id"`
	ParentSpanID string            `json:"parent_span_id,omitempty"`
	TraceFlags   uint8             `json:"trace_flags"`
	TraceState   string            `json:"trace_state,omitempty"`
	Baggage      map[string]string `json:"baggage,omitempty"`
}

// NewTraceContext creates a sampled trace context for the given trace ID.
func NewTraceContext(traceID string) TraceContext {
	return TraceContext{
		TraceID:    traceID,
		TraceFlags: 1,
	}
}

// Sampled reports whether the sampled bit is set.
func (t TraceContext) Sampled() bool {
	return t.TraceFlags&0x01 != 0
}

// PolicySpan describes a policy evaluation span to register.
type PolicySpan struct {
	Name         string                     `json:"name"`
	TraceID      string                     `json:"trace_id"`
	ParentSpanID string                     `json:"parent_span_id,omitempty"`
	StartTime    string                     `json:"start_time"`
	Kind         SpanKind                   `json:"kind"`
	Attributes   map[string]json.RawMessage `json:"attributes,omitempty"`
}

// SpanKind enumerates span kinds.
type SpanKind string

const (
	SpanKindInternal SpanKind = "INTERNAL"
	SpanKindServer   SpanKind = "SERVER"
	SpanKindClient   SpanKind = "CLIENT"
	SpanKindProducer SpanKind = "PRODUCER"
	SpanKindConsumer SpanKind = "CONSUMER"
)

// SpanRegistration is the response to a span registration.
type SpanRegistration struct {
	SpanID       string `json:"span_id"`
	RegisteredAt string `json:"registered_at"`
}

// SpanResult closes out a registered span.
type SpanResult struct {
	EndTime       string                     `json:"end_time"`
	Status        SpanStatus                 `json:"status"`
	StatusMessage string                     `json:"status_message,omitempty"`
	Attributes    map[string]json.RawMessage `json:"attributes,omitempty"`
}

// SpanStatus enumerates span completion statuses.
type SpanStatus string

const (
	SpanStatusUnset SpanStatus = "UNSET"
	SpanStatusOK    SpanStatus = "OK"
	SpanStatusError SpanStatus = "ERROR"
)

// TelemetrySignalRequest queries aggregated signals for a context.
type TelemetrySignalRequest struct {
	Service           string       `json:"service"`
	Model             string       `json:"model,omitempty"`
	Provider          string       `json:"provider,omitempty"`
	TimeWindowSeconds uint64       `json:"time_window_seconds"`
	SignalTypes       []SignalType `json:"signal_types,omitempty"`
}

// DefaultTimeWindowSeconds is the signal query window used when the caller
// leaves it unset.
const DefaultTimeWindowSeconds = 300

// SignalType enumerates telemetry signal categories.
type SignalType string

const (
	SignalErrorRate    SignalType = "error_rate"
	SignalLatency      SignalType = "latency"
	SignalRequestRate  SignalType = "request_rate"
	SignalTokenUsage   SignalType = "token_usage"
	SignalCost         SignalType = "cost"
	SignalAvailability SignalType = "availability"
)

// TelemetrySignals is an aggregated signal snapshot. Absent signals are nil.
type TelemetrySignals struct {
	Timestamp          string             `json:"timestamp"`
	TimeWindowSeconds  uint64             `json:"time_window_seconds"`
	ErrorRate          *float64           `json:"error_rate,omitempty"`
	LatencyPercentiles LatencyPercentiles `json:"latency_percentiles,omitempty"`
	RequestRate        *float64           `json:"request_rate,omitempty"`
	TokenUsage         *TokenUsage        `json:"token_usage,omitempty"`
	Cost               *float64           `json:"cost,omitempty"`
	Availability       *float64           `json:"availability,omitempty"`
}

// LatencyPercentiles carries latency distribution values in milliseconds.
type LatencyPercentiles struct {
	P50 *float64 `json:"p50,omitempty"`
	P90 *float64 `json:"p90,omitempty"`
	P95 *float64 `json:"p95,omitempty"`
	P99 *float64 `json:"p99,omitempty"`
}

// TokenUsage aggregates token counts over a window.
type TokenUsage struct {
	InputTokens  uint64 `json:"input_tokens"`
	OutputTokens uint64 `json:"output_tokens"`
	TotalTokens  uint64 `json:"total_tokens"`
}

// CurrentMetrics is a live metrics snapshot for a service/model pair.
type CurrentMetrics struct {
	Timestamp      string       `json:"timestamp"`
	Service        string       `json:"service"`
	Model          string       `json:"model,omitempty"`
	ActiveRequests uint64       `json:"active_requests"`
	ErrorCount     uint64       `json:"error_count"`
	AvgLatencyMS   float64      `json:"avg_latency_ms"`
	HealthStatus   HealthStatus `json:"health_status"`
}

// HealthStatus enumerates remote service health states.
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
	HealthUnknown   HealthStatus = "unknown"
)

// TelemetrySubscription requests real-time telemetry updates.
type TelemetrySubscription struct {
	Name        string              `json:"name"`
	Services    []string            `json:"services,omitempty"`
	SignalTypes []SignalType        `json:"signal_types,omitempty"`
	CallbackURL string              `json:"callback_url,omitempty"`
	Threshold   *TelemetryThreshold `json:"threshold,omitempty"`
}

// TelemetryThreshold triggers subscription notifications.
type TelemetryThreshold struct {
	SignalType SignalType `json:"signal_type"`
	Operator   string     `json:"operator"`
	Value      float64    `json:"value"`
}

// SubscriptionAck acknowledges a telemetry subscription.
type SubscriptionAck struct {
	SubscriptionID string `json:"subscription_id"`
	Active         bool   `json:"active"`
}

// PolicyDecisionRecord captures one decision for analytics.
type PolicyDecisionRecord struct {
	DecisionID string                     `json:"decision_id"`
	Timestamp  string                     `json:"timestamp"`
	UserID     string                     `json:"user_id,omitempty"`
	Model      string                     `json:"model,omitempty"`
	Provider   string                     `json:"provider,omitempty"`
	PolicyID   string                     `json:"policy_id"`
	Decision   DecisionOutcome            `json:"decision"`
	LatencyMS  float64                    `json:"latency_ms"`
	Reason     string                     `json:"reason,omitempty"`
	Metadata   map[string]json.RawMessage `json:"metadata,omitempty"`
}

// NewPolicyDecisionRecord builds a record with a fresh decision ID and the
// current timestamp.
func NewPolicyDecisionRecord(policyID string, decision DecisionOutcome, latencyMS float64) PolicyDecisionRecord {
	return PolicyDecisionRecord{
		DecisionID: uuid.NewString(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		PolicyID:   policyID,
		Decision:   decision,
		LatencyMS:  latencyMS,
	}
}

// RecordAck acknowledges an analytics record.
type RecordAck struct {
	Accepted bool   `json:"accepted"`
	RecordID string `json:"record_id,omitempty"`
}
