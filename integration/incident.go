package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IncidentManagerClient integrates with the platform incident alerting
// service. Policy violations are reported as incidents; incident state can
// be read back for escalation-aware rules.
type IncidentManagerClient struct {
	client *Client
}

// NewIncidentManagerClient creates an Incident Manager client.
// Construction performs no I/O and never fails.
func NewIncidentManagerClient(baseURL string, timeout time.Duration) *IncidentManagerClient {
	return &IncidentManagerClient{
		client: NewClient(baseURL, timeout),
	}
}

// ReportViolation raises an incident for one policy violation.
func (c *IncidentManagerClient) ReportViolation(ctx context.Context, report ViolationReport) (IncidentRef, error) {
	return Post[IncidentRef](ctx, c.client, "/api/v1/incidents/policy-violation", report)
}

// ReportViolationsBatch raises incidents for multiple violations in one
// call.
func (c *IncidentManagerClient) ReportViolationsBatch(ctx context.Context, reports []ViolationReport) (BatchIncidentAck, error) {
	request := violationBatchRequest{Reports: reports}
	return Post[BatchIncidentAck](ctx, c.client, "/api/v1/incidents/policy-violation/batch", request)
}

// GetIncident fetches the current state of an incident.
// The incident identifier must already be valid for path placement.
func (c *IncidentManagerClient) GetIncident(ctx context.Context, incidentID string) (Incident, error) {
	path := fmt.Sprintf("/api/v1/incidents/%s", incidentID)
	return Get[Incident](ctx, c.client, path)
}

// HealthCheck reports whether the incident service is reachable and
// healthy.
func (c *IncidentManagerClient) HealthCheck(ctx context.Context) bool {
	return c.client.HealthCheck(ctx)
}

// ViolationReport describes one policy violation to alert on.
type ViolationReport struct {
	ReportID  string            `json:"report_id"`
	Timestamp string            `json:"timestamp"`
	PolicyID  string            `json:"policy_id"`
	RuleID    string            `json:"rule_id,omitempty"`
	Severity  Severity          `json:"severity"`
	Subject   string            `json:"subject,omitempty"`
	Summary   string            `json:"summary"`
	Context   map[string]string `json:"context,omitempty"`
}

// NewViolationReport builds a report with a fresh report ID and the current
// timestamp.
func NewViolationReport(policyID, summary string, severity Severity) ViolationReport {
	return ViolationReport{
		ReportID:  uuid.NewString(),
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		PolicyID:  policyID,
		Severity:  severity,
		Summary:   summary,
	}
}

// Severity enumerates incident severities.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// violationBatchRequest wraps a batch violation submission.
type violationBatchRequest struct {
	Reports []ViolationReport `json:"reports"`
}

// IncidentRef points at the incident created for a report.
type IncidentRef struct {
	IncidentID string `json:"incident_id"`
	Created    bool   `json:"created"`
	Deduped    bool   `json:"deduped,omitempty"`
}

// BatchIncidentAck acknowledges a batch violation submission.
type BatchIncidentAck struct {
	CreatedCount uint64   `json:"created_count"`
	DedupedCount uint64   `json:"deduped_count"`
	IncidentIDs  []string `json:"incident_ids,omitempty"`
}

// Incident is the current state of an alerting incident.
type Incident struct {
	IncidentID string   `json:"incident_id"`
	Status     string   `json:"status"`
	Severity   Severity `json:"severity"`
	PolicyID   string   `json:"policy_id,omitempty"`
	OpenedAt   string   `json:"opened_at"`
	ResolvedAt string   `json:"resolved_at,omitempty"`
}
