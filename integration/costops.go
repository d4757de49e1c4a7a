package integration

import (
	"context"
	"fmt"
	"time"
)

// CostOpsClient integrates with the platform cost tracking service. It
// reports usage attributable to policy decisions and consults budget state
// for spend-aware rules.
type CostOpsClient struct {
	client *Client
}

// NewCostOpsClient creates a CostOps client.
// Construction performs no I/O and never fails.
func NewCostOpsClient(baseURL string, timeout time.Duration) *CostOpsClient {
	return &CostOpsClient{
		client: NewClient(baseURL, timeout),
	}
}

// GetBudgetStatus fetches the current budget state for a project.
// The project identifier must already be valid for path placement.
func (c *CostOpsClient) GetBudgetStatus(ctx context.Context, project string) (BudgetStatus, error) {
	path := fmt.Sprintf("/api/v1/budgets/%s/status", project)
	return Get[BudgetStatus](ctx, c.client, path)
}

// RecordUsage reports a usage record for cost attribution.
func (c *CostOpsClient) RecordUsage(ctx context.Context, record UsageRecord) (UsageAck, error) {
	return Post[UsageAck](ctx, c.client, "/api/v1/usage/record", record)
}

// CheckSpend asks whether a prospective request fits within budget.
func (c *CostOpsClient) CheckSpend(ctx context.Context, request SpendCheckRequest) (SpendCheckResult, error) {
	return Post[SpendCheckResult](ctx, c.client, "/api/v1/budgets/check", request)
}

// HealthCheck reports whether the cost service is reachable and healthy.
func (c *CostOpsClient) HealthCheck(ctx context.Context) bool {
	return c.client.HealthCheck(ctx)
}

// BudgetStatus is the current spend position of a project budget.
type BudgetStatus struct {
	Project        string  `json:"project"`
	LimitUSD       float64 `json:"limit_usd"`
	SpentUSD       float64 `json:"spent_usd"`
	RemainingUSD   float64 `json:"remaining_usd"`
	PeriodEnd      string  `json:"period_end,omitempty"`
	AlertThreshold float64 `json:"alert_threshold,omitempty"`
	Exhausted      bool    `json:"exhausted"`
}

// UsageRecord attributes model usage to a project for cost tracking.
type UsageRecord struct {
	Project      string  `json:"project"`
	Model        string  `json:"model"`
	Provider     string  `json:"provider,omitempty"`
	InputTokens  uint64  `json:"input_tokens"`
	OutputTokens uint64  `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
	Timestamp    string  `json:"timestamp"`
}

// UsageAck acknowledges a usage record.
type UsageAck struct {
	Accepted bool   `json:"accepted"`
	RecordID string `json:"record_id,omitempty"`
}

// SpendCheckRequest asks whether an estimated spend is allowed.
type SpendCheckRequest struct {
	Project          string  `json:"project"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
	Model            string  `json:"model,omitempty"`
}

// SpendCheckResult is the budget verdict for a prospective request.
type SpendCheckResult struct {
	Allowed      bool    `json:"allowed"`
	RemainingUSD float64 `json:"remaining_usd"`
	Reason       string  `json:"reason,omitempty"`
}
