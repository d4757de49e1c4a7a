package integration

import (
	"context"
	"time"
)

// ShieldClient integrates with the platform threat detection service.
// Prompts and model responses are submitted for injection and exfiltration
// analysis before a policy decision is finalized.
type ShieldClient struct {
	client *Client
}

// NewShieldClient creates a Shield client.
// Construction performs no I/O and never fails.
func NewShieldClient(baseURL string, timeout time.Duration) *ShieldClient {
	return &ShieldClient{
		client: NewClient(baseURL, timeout),
	}
}

// AnalyzePrompt submits a prompt for threat analysis.
func (c *ShieldClient) AnalyzePrompt(ctx context.Context, request PromptAnalysisRequest) (ThreatAssessment, error) {
	return Post[ThreatAssessment](ctx, c.client, "/api/v1/analyze/prompt", request)
}

// AnalyzeResponse submits a model response for threat analysis.
func (c *ShieldClient) AnalyzeResponse(ctx context.Context, request ResponseAnalysisRequest) (ThreatAssessment, error) {
	return Post[ThreatAssessment](ctx, c.client, "/api/v1/analyze/response", request)
}

// AnalyzeBatch submits multiple prompts for analysis in one call.
func (c *ShieldClient) AnalyzeBatch(ctx context.Context, requests []PromptAnalysisRequest) (BatchThreatAssessment, error) {
	request := batchAnalysisRequest{Requests: requests}
	return Post[BatchThreatAssessment](ctx, c.client, "/api/v1/analyze/batch", request)
}

// HealthCheck reports whether the threat detection service is reachable and
// healthy.
func (c *ShieldClient) HealthCheck(ctx context.Context) bool {
	return c.client.HealthCheck(ctx)
}

// PromptAnalysisRequest submits a prompt for threat analysis.
type PromptAnalysisRequest struct {
	RequestID string            `json:"request_id"`
	Prompt    string            `json:"prompt"`
	Model     string            `json:"model,omitempty"`
	UserID    string            `json:"user_id,omitempty"`
	Context   map[string]string `json:"context,omitempty"`
}

// ResponseAnalysisRequest submits a model response for threat analysis.
type ResponseAnalysisRequest struct {
	RequestID string            `json:"request_id"`
	Response  string            `json:"response"`
	Model     string            `json:"model,omitempty"`
	Context   map[string]string `json:"context,omitempty"`
}

// batchAnalysisRequest wraps multiple prompt analyses.
type batchAnalysisRequest struct {
	Requests []PromptAnalysisRequest `json:"requests"`
}

// ThreatAssessment is the analysis verdict for one prompt or response.
type ThreatAssessment struct {
	RequestID   string      `json:"request_id"`
	ThreatLevel ThreatGrade `json:"threat_level"`
	Score       float64     `json:"score"`
	Categories  []string    `json:"categories,omitempty"`
	Sanitized   bool        `json:"sanitized"`
	Detail      string      `json:"detail,omitempty"`
}

// ThreatGrade enumerates threat severity grades.
type ThreatGrade string

const (
	ThreatNone     ThreatGrade = "none"
	ThreatLow      ThreatGrade = "low"
	ThreatMedium   ThreatGrade = "medium"
	ThreatHigh     ThreatGrade = "high"
	ThreatCritical ThreatGrade = "critical"
)

// BatchThreatAssessment aggregates verdicts for a batch analysis.
type BatchThreatAssessment struct {
	Assessments []ThreatAssessment `json:"assessments"`
	HighestSeen ThreatGrade        `json:"highest_seen,omitempty"`
}
