package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"go.uber.org/zap"

	"github.com/llm-dev-ops/policy-fabric/config"
	"github.com/llm-dev-ops/policy-fabric/integration"
	"github.com/llm-dev-ops/policy-fabric/log"
	"github.com/llm-dev-ops/policy-fabric/metrics"
)

// probeResult is one adapter's liveness probe outcome.
type probeResult struct {
	Adapter   string `json:"adapter"`
	BaseURL   string `json:"base_url"`
	Healthy   bool   `json:"healthy"`
	LatencyMS int64  `json:"latency_ms"`
}

// HealthCommand returns the health command.
// It probes every configured integration concurrently and reports liveness
// per adapter. Exit code 1 when any configured adapter is unhealthy.
func HealthCommand() *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Probe each configured integration and report liveness",
		Flags:  []cli.Flag{configFlag(), formatFlag(), noColorFlag(), timeoutFlag()},
		Action: healthAction,
	}
}

func healthAction(c *cli.Context) error {
	r, err := NewRenderer(c)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	if ms := c.Uint64("timeout-ms"); ms > 0 {
		cfg.Integrations.TimeoutMS = ms
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.New(cfg.Telemetry.ServiceName, "cli.health", cfg.Telemetry.LogLevel)

	reg := integration.FromConfig(cfg.Integrations)
	if !reg.AnyConfigured() {
		return cli.Exit("no integrations configured; set service URLs via config or environment", 1)
	}

	results := probeAll(c.Context, reg, metrics.NewCollector())

	unhealthy := 0
	for _, res := range results {
		if !res.Healthy {
			unhealthy++
		}
	}
	logger.Debug("health probes complete",
		zap.Int("probed", len(results)),
		zap.Int("unhealthy", unhealthy),
	)

	if r.Format() == FormatJSON {
		if err := r.RenderJSON(results); err != nil {
			return err
		}
	} else {
		headers := []string{"ADAPTER", "URL", "STATUS", "LATENCY"}
		rows := make([][]string, 0, len(results))
		for _, res := range results {
			rows = append(rows, []string{
				res.Adapter,
				r.dimCell(res.BaseURL),
				r.statusCell(res.Healthy),
				strconv.FormatInt(res.LatencyMS, 10) + "ms",
			})
		}
		if err := r.RenderRows(headers, rows); err != nil {
			return err
		}
	}

	if unhealthy > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

// probeAll runs every registry health probe concurrently and returns the
// outcomes sorted by adapter name. Each probe's latency is recorded on the
// collector, with failed probes counted under the "probe" failure kind.
func probeAll(ctx context.Context, reg *integration.Registry, coll *metrics.Collector) []probeResult {
	probes := reg.HealthProbes()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]probeResult, 0, len(probes))
	)
	byName := slotURLs(reg)

	for name, probe := range probes {
		wg.Add(1)
		go func(name string, probe func(context.Context) bool) {
			defer wg.Done()

			start := time.Now()
			healthy := probe(ctx)
			elapsed := time.Since(start)

			kind := ""
			if !healthy {
				kind = "probe"
			}
			coll.RecordCall(name, kind, elapsed)

			mu.Lock()
			results = append(results, probeResult{
				Adapter:   name,
				BaseURL:   byName[name],
				Healthy:   healthy,
				LatencyMS: elapsed.Milliseconds(),
			})
			mu.Unlock()
		}(name, probe)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Adapter < results[j].Adapter })
	return results
}

// slotURLs maps configured slot names to their base URLs.
func slotURLs(reg *integration.Registry) map[string]string {
	urls := make(map[string]string)
	for _, s := range reg.Slots() {
		if s.Configured {
			urls[s.Name] = s.BaseURL
		}
	}
	return urls
}

// resolveConfig loads configuration from the --config file when given,
// falling back to environment-only resolution.
func resolveConfig(c *cli.Context) (config.Config, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	return config.FromEnv(), nil
}
