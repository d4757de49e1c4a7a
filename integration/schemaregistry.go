package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// SchemaRegistryClient consumes schema definitions from the platform schema
// registry. It validates policy documents and rule structures against
// registered schemas and checks compatibility for policy updates.
type SchemaRegistryClient struct {
	client *Client
}

// NewSchemaRegistryClient creates a Schema Registry client.
// Construction performs no I/O and never fails.
func NewSchemaRegistryClient(baseURL string, timeout time.Duration) *SchemaRegistryClient {
	return &SchemaRegistryClient{
		client: NewClient(baseURL, timeout),
	}
}

// GetSchema fetches the latest schema definition for a subject.
// The subject must already be valid for path placement.
func (c *SchemaRegistryClient) GetSchema(ctx context.Context, subject string) (SchemaDefinition, error) {
	path := fmt.Sprintf("/api/v1/schemas/%s/latest", subject)
	return Get[SchemaDefinition](ctx, c.client, path)
}

// GetSchemaVersion fetches a specific version of a subject's schema.
func (c *SchemaRegistryClient) GetSchemaVersion(ctx context.Context, subject string, version uint32) (SchemaDefinition, error) {
	path := fmt.Sprintf("/api/v1/schemas/%s/versions/%d", subject, version)
	return Get[SchemaDefinition](ctx, c.client, path)
}

// ValidatePolicyDocument validates a policy document against the registered
// policy schema.
func (c *SchemaRegistryClient) ValidatePolicyDocument(ctx context.Context, document PolicyDocument) (ValidationResult, error) {
	return Post[ValidationResult](ctx, c.client, "/api/v1/validate/policy-document", document)
}

// ValidateRuleStructure validates a single rule against the rule schema.
func (c *SchemaRegistryClient) ValidateRuleStructure(ctx context.Context, rule RuleStructure) (ValidationResult, error) {
	return Post[ValidationResult](ctx, c.client, "/api/v1/validate/policy-rule", rule)
}

// CheckCompatibility reports whether a new schema version is compatible with
// the subject's existing constraints.
func (c *SchemaRegistryClient) CheckCompatibility(ctx context.Context, request CompatibilityCheckRequest) (CompatibilityResult, error) {
	return Post[CompatibilityResult](ctx, c.client, "/api/v1/compatibility/check", request)
}

// ListPolicySchemas lists the policy-related schemas available in the
// registry.
func (c *SchemaRegistryClient) ListPolicySchemas(ctx context.Context) ([]SchemaMetadata, error) {
	return Get[[]SchemaMetadata](ctx, c.client, "/api/v1/schemas?filter=policy")
}

// HealthCheck reports whether the schema registry is reachable and healthy.
func (c *SchemaRegistryClient) HealthCheck(ctx context.Context) bool {
	return c.client.HealthCheck(ctx)
}

// SchemaDefinition is a versioned schema fetched from the registry.
type SchemaDefinition struct {
	ID         string          `json:"id"`
	Subject    string          `json:"subject"`
	Version    uint32          `json:"version"`
	SchemaType SchemaType      `json:"schema_type"`
	Schema     json.RawMessage `json:"schema"`
	Metadata   SchemaMetadata  `json:"metadata,omitempty"`
}

// SchemaType enumerates schema representation formats.
type SchemaType string

const (
	SchemaTypeJSONSchema SchemaType = "json-schema"
	SchemaTypeAvro       SchemaType = "avro"
	SchemaTypeProtobuf   SchemaType = "protobuf"
	SchemaTypeOpenAPI    SchemaType = "open-api"
)

// SchemaMetadata describes a schema subject.
type SchemaMetadata struct {
	Subject     string   `json:"subject"`
	Description string   `json:"description,omitempty"`
	Owner       string   `json:"owner,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// PolicyDocument is a policy document submitted for schema validation.
// Policies are raw JSON because validation happens against the registered
// schema, not against types known to this service.
type PolicyDocument struct {
	APIVersion string            `json:"api_version"`
	Kind       string            `json:"kind"`
	Policies   []json.RawMessage `json:"policies"`
}

// RuleStructure is a single policy rule submitted for schema validation.
type RuleStructure struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Condition json.RawMessage `json:"condition"`
	Action    json.RawMessage `json:"action"`
}

// ValidationResult is the outcome of a schema validation.
type ValidationResult struct {
	Valid    bool                `json:"valid"`
	Errors   []ValidationError   `json:"errors,omitempty"`
	Warnings []ValidationWarning `json:"warnings,omitempty"`
}

// ValidationError points at an invalid location in the document.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidationWarning flags a suspect location that still validates.
type ValidationWarning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// CompatibilityCheckRequest asks whether a new schema satisfies the
// subject's compatibility constraints.
type CompatibilityCheckRequest struct {
	Subject            string             `json:"subject"`
	Schema             json.RawMessage    `json:"schema"`
	CompatibilityLevel CompatibilityLevel `json:"compatibility_level,omitempty"`
}

// CompatibilityLevel enumerates schema compatibility modes.
type CompatibilityLevel string

const (
	CompatibilityNone               CompatibilityLevel = "NONE"
	CompatibilityBackward           CompatibilityLevel = "BACKWARD"
	CompatibilityForward            CompatibilityLevel = "FORWARD"
	CompatibilityFull               CompatibilityLevel = "FULL"
	CompatibilityBackwardTransitive CompatibilityLevel = "BACKWARD_TRANSITIVE"
	CompatibilityForwardTransitive  CompatibilityLevel = "FORWARD_TRANSITIVE"
	CompatibilityFullTransitive     CompatibilityLevel = "FULL_TRANSITIVE"
)

// CompatibilityResult is the outcome of a compatibility check.
type CompatibilityResult struct {
	Compatible bool                 `json:"compatible"`
	Issues     []CompatibilityIssue `json:"issues,omitempty"`
}

// CompatibilityIssue describes one incompatibility.
type CompatibilityIssue struct {
	IssueType   string `json:"issue_type"`
	Description string `json:"description"`
	Path        string `json:"path,omitempty"`
}
