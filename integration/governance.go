package integration

import (
	"context"
	"time"
)

// GovernanceClient integrates with the platform compliance service. It
// submits policy decisions for compliance checking and ships audit records
// for retention.
type GovernanceClient struct {
	client *Client
}

// NewGovernanceClient creates a Governance client.
// Construction performs no I/O and never fails.
func NewGovernanceClient(baseURL string, timeout time.Duration) *GovernanceClient {
	return &GovernanceClient{
		client: NewClient(baseURL, timeout),
	}
}

// CheckCompliance asks whether an operation satisfies the active compliance
// regime.
func (c *GovernanceClient) CheckCompliance(ctx context.Context, request ComplianceCheckRequest) (ComplianceResult, error) {
	return Post[ComplianceResult](ctx, c.client, "/api/v1/compliance/check", request)
}

// SubmitAuditRecord ships one audit record for retention.
func (c *GovernanceClient) SubmitAuditRecord(ctx context.Context, record AuditRecord) (AuditAck, error) {
	return Post[AuditAck](ctx, c.client, "/api/v1/audit/records", record)
}

// SubmitAuditBatch ships multiple audit records in one call.
func (c *GovernanceClient) SubmitAuditBatch(ctx context.Context, records []AuditRecord) (AuditBatchAck, error) {
	request := auditBatchRequest{Records: records}
	return Post[AuditBatchAck](ctx, c.client, "/api/v1/audit/records/batch", request)
}

// HealthCheck reports whether the compliance service is reachable and
// healthy.
func (c *GovernanceClient) HealthCheck(ctx context.Context) bool {
	return c.client.HealthCheck(ctx)
}

// ComplianceCheckRequest describes an operation for compliance review.
type ComplianceCheckRequest struct {
	OperationID string            `json:"operation_id"`
	Subject     string            `json:"subject"`
	Resource    string            `json:"resource"`
	Action      string            `json:"action"`
	Regimes     []string          `json:"regimes,omitempty"`
	Context     map[string]string `json:"context,omitempty"`
}

// ComplianceResult is the compliance verdict for an operation.
type ComplianceResult struct {
	Compliant  bool     `json:"compliant"`
	Violations []string `json:"violations,omitempty"`
	Regime     string   `json:"regime,omitempty"`
	Reference  string   `json:"reference,omitempty"`
}

// AuditRecord is one auditable policy event.
type AuditRecord struct {
	RecordID  string            `json:"record_id"`
	Timestamp string            `json:"timestamp"`
	Actor     string            `json:"actor"`
	Action    string            `json:"action"`
	Resource  string            `json:"resource"`
	Outcome   string            `json:"outcome"`
	Detail    map[string]string `json:"detail,omitempty"`
}

// auditBatchRequest wraps a batch audit submission.
type auditBatchRequest struct {
	Records []AuditRecord `json:"records"`
}

// AuditAck acknowledges one audit record.
type AuditAck struct {
	Accepted bool   `json:"accepted"`
	RecordID string `json:"record_id,omitempty"`
}

// AuditBatchAck acknowledges a batch audit submission.
type AuditBatchAck struct {
	AcceptedCount uint64   `json:"accepted_count"`
	RejectedCount uint64   `json:"rejected_count"`
	RejectedIDs   []string `json:"rejected_ids,omitempty"`
}
