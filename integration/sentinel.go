package integration

import (
	"context"
	"time"
)

// SentinelClient integrates with the platform security monitoring service.
// Security-relevant policy events are forwarded for correlation, and the
// ambient threat posture can be read back.
type SentinelClient struct {
	client *Client
}

// NewSentinelClient creates a Sentinel client.
// Construction performs no I/O and never fails.
func NewSentinelClient(baseURL string, timeout time.Duration) *SentinelClient {
	return &SentinelClient{
		client: NewClient(baseURL, timeout),
	}
}

// ReportSecurityEvent forwards one security event for correlation.
func (c *SentinelClient) ReportSecurityEvent(ctx context.Context, event SecurityEvent) (EventReceipt, error) {
	return Post[EventReceipt](ctx, c.client, "/api/v1/events/security", event)
}

// GetThreatLevel fetches the current platform threat posture.
func (c *SentinelClient) GetThreatLevel(ctx context.Context) (ThreatLevel, error) {
	return Get[ThreatLevel](ctx, c.client, "/api/v1/threat-level")
}

// HealthCheck reports whether the monitoring service is reachable and
// healthy.
func (c *SentinelClient) HealthCheck(ctx context.Context) bool {
	return c.client.HealthCheck(ctx)
}

// SecurityEvent is one security-relevant occurrence to correlate.
type SecurityEvent struct {
	EventID   string            `json:"event_id"`
	Timestamp string            `json:"timestamp"`
	Kind      string            `json:"kind"`
	Source    string            `json:"source"`
	Severity  Severity          `json:"severity"`
	Detail    map[string]string `json:"detail,omitempty"`
}

// EventReceipt acknowledges a security event.
type EventReceipt struct {
	Accepted bool   `json:"accepted"`
	EventID  string `json:"event_id,omitempty"`
}

// ThreatLevel is the current platform threat posture.
type ThreatLevel struct {
	Level       ThreatGrade `json:"level"`
	Reason      string      `json:"reason,omitempty"`
	EffectiveAt string      `json:"effective_at,omitempty"`
}
