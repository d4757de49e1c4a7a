package integration

import (
	"context"

	"github.com/llm-dev-ops/policy-fabric/config"
)

// Registry owns zero-or-one instance of each integration client. A nil
// field means the service URL was not configured; callers must observe
// absence explicitly — the registry never substitutes a no-op stand-in.
//
// Built once at startup and passed by injection to everything that calls
// out; no slot is reconstructed or mutated afterward, so the registry is
// safe for concurrent use.
type Registry struct {
	Shield          *ShieldClient
	CostOps         *CostOpsClient
	Governance      *GovernanceClient
	EdgeAgent       *EdgeAgentClient
	IncidentManager *IncidentManagerClient
	Sentinel        *SentinelClient

	SchemaRegistry *SchemaRegistryClient
	ConfigManager  *ConfigManagerClient
	Observatory    *ObservatoryClient
}

// FromConfig constructs a client for each service slot whose URL is set,
// all sharing one call timeout. A pure function of its inputs: no I/O, no
// failure path. Unusable URLs surface as ErrTransport on first use.
func FromConfig(cfg config.Integrations) *Registry {
	timeout := cfg.Timeout()
	r := &Registry{}

	if cfg.ShieldURL != "" {
		r.Shield = NewShieldClient(cfg.ShieldURL, timeout)
	}
	if cfg.CostOpsURL != "" {
		r.CostOps = NewCostOpsClient(cfg.CostOpsURL, timeout)
	}
	if cfg.GovernanceURL != "" {
		r.Governance = NewGovernanceClient(cfg.GovernanceURL, timeout)
	}
	if cfg.EdgeAgentURL != "" {
		r.EdgeAgent = NewEdgeAgentClient(cfg.EdgeAgentURL, timeout)
	}
	if cfg.IncidentManagerURL != "" {
		r.IncidentManager = NewIncidentManagerClient(cfg.IncidentManagerURL, timeout)
	}
	if cfg.SentinelURL != "" {
		r.Sentinel = NewSentinelClient(cfg.SentinelURL, timeout)
	}

	if cfg.SchemaRegistryURL != "" {
		r.SchemaRegistry = NewSchemaRegistryClient(cfg.SchemaRegistryURL, timeout)
	}
	if cfg.ConfigManagerURL != "" {
		r.ConfigManager = NewConfigManagerClient(cfg.ConfigManagerURL, timeout)
	}
	if cfg.ObservatoryURL != "" {
		r.Observatory = NewObservatoryClient(cfg.ObservatoryURL, timeout)
	}

	return r
}

// AnyConfigured reports whether at least one integration slot is populated.
func (r *Registry) AnyConfigured() bool {
	return r.Shield != nil ||
		r.CostOps != nil ||
		r.Governance != nil ||
		r.EdgeAgent != nil ||
		r.IncidentManager != nil ||
		r.Sentinel != nil ||
		r.SchemaRegistry != nil ||
		r.ConfigManager != nil ||
		r.Observatory != nil
}

// AnyUpstreamConfigured reports whether any of the upstream consumption
// slots (schema registry, config manager, observatory) is populated.
func (r *Registry) AnyUpstreamConfigured() bool {
	return r.SchemaRegistry != nil ||
		r.ConfigManager != nil ||
		r.Observatory != nil
}

// Slot pairs a service slot name with its configured state and, when
// configured, the client's base URL. Consumed by diagnostic surfaces.
type Slot struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
	BaseURL    string `json:"base_url,omitempty"`
}

// Slots lists the nine service slots in a stable order.
func (r *Registry) Slots() []Slot {
	slots := make([]Slot, 0, 9)
	for _, e := range r.entries() {
		s := Slot{Name: e.name}
		if e.client != nil {
			s.Configured = true
			s.BaseURL = e.client.BaseURL()
		}
		slots = append(slots, s)
	}
	return slots
}

// HealthProbes returns a liveness probe per configured slot, keyed by slot
// name. Probes never error; they resolve to false on any failure.
func (r *Registry) HealthProbes() map[string]func(context.Context) bool {
	probes := make(map[string]func(context.Context) bool)
	for _, e := range r.entries() {
		if e.client != nil {
			probes[e.name] = e.client.HealthCheck
		}
	}
	return probes
}

// entry pairs a slot name with its transport, nil when unconfigured.
type entry struct {
	name   string
	client *Client
}

// entries enumerates the nine slots in a stable order.
func (r *Registry) entries() []entry {
	es := []entry{
		{name: "shield"},
		{name: "costops"},
		{name: "governance"},
		{name: "edge-agent"},
		{name: "incident-manager"},
		{name: "sentinel"},
		{name: "schema-registry"},
		{name: "config-manager"},
		{name: "observatory"},
	}
	if r.Shield != nil {
		es[0].client = r.Shield.client
	}
	if r.CostOps != nil {
		es[1].client = r.CostOps.client
	}
	if r.Governance != nil {
		es[2].client = r.Governance.client
	}
	if r.EdgeAgent != nil {
		es[3].client = r.EdgeAgent.client
	}
	if r.IncidentManager != nil {
		es[4].client = r.IncidentManager.client
	}
	if r.Sentinel != nil {
		es[5].client = r.Sentinel.client
	}
	if r.SchemaRegistry != nil {
		es[6].client = r.SchemaRegistry.client
	}
	if r.ConfigManager != nil {
		es[7].client = r.ConfigManager.client
	}
	if r.Observatory != nil {
		es[8].client = r.Observatory.client
	}
	return es
}
