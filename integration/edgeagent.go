package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// EdgeAgentClient integrates with the platform edge distribution service.
// Compiled policy bundles are pushed to edge locations and location state is
// read back for distribution decisions.
type EdgeAgentClient struct {
	client *Client
}

// NewEdgeAgentClient creates an Edge Agent client.
// Construction performs no I/O and never fails.
func NewEdgeAgentClient(baseURL string, timeout time.Duration) *EdgeAgentClient {
	return &EdgeAgentClient{
		client: NewClient(baseURL, timeout),
	}
}

// DistributePolicy pushes a policy bundle to the edge fleet.
func (c *EdgeAgentClient) DistributePolicy(ctx context.Context, bundle PolicyBundle) (DistributionReceipt, error) {
	return Post[DistributionReceipt](ctx, c.client, "/api/v1/policies/distribute", bundle)
}

// GetLocationStatus fetches the distribution state of one edge location.
// The location identifier must already be valid for path placement.
func (c *EdgeAgentClient) GetLocationStatus(ctx context.Context, locationID string) (LocationStatus, error) {
	path := fmt.Sprintf("/api/v1/edge/locations/%s/status", locationID)
	return Get[LocationStatus](ctx, c.client, path)
}

// ListLocations lists the known edge locations.
func (c *EdgeAgentClient) ListLocations(ctx context.Context) ([]EdgeLocation, error) {
	return Get[[]EdgeLocation](ctx, c.client, "/api/v1/edge/locations")
}

// HealthCheck reports whether the edge service is reachable and healthy.
func (c *EdgeAgentClient) HealthCheck(ctx context.Context) bool {
	return c.client.HealthCheck(ctx)
}

// PolicyBundle is a compiled policy set for edge distribution.
type PolicyBundle struct {
	BundleID  string          `json:"bundle_id"`
	Version   string          `json:"version"`
	Policies  json.RawMessage `json:"policies"`
	Checksum  string          `json:"checksum,omitempty"`
	Locations []string        `json:"locations,omitempty"`
}

// DistributionReceipt acknowledges a bundle push.
type DistributionReceipt struct {
	BundleID      string   `json:"bundle_id"`
	Distributed   uint64   `json:"distributed"`
	Pending       uint64   `json:"pending"`
	FailedTargets []string `json:"failed_targets,omitempty"`
}

// EdgeLocation identifies one edge deployment site.
type EdgeLocation struct {
	LocationID string `json:"location_id"`
	Region     string `json:"region,omitempty"`
	Active     bool   `json:"active"`
}

// LocationStatus is the distribution state of one edge location.
type LocationStatus struct {
	LocationID    string `json:"location_id"`
	BundleVersion string `json:"bundle_version,omitempty"`
	InSync        bool   `json:"in_sync"`
	LastSyncAt    string `json:"last_sync_at,omitempty"`
}
