// Package main provides the policyfab CLI entrypoint.
//
// policyfab is a diagnostic surface over the policy fabric's integration
// layer: it resolves configuration, builds the adapter registry, and probes
// the configured services. It performs only read-only operations against
// the remote services (health endpoints).
//
// Usage:
//
//	policyfab <command> [options]
package main

import (
	"errors"
	"fmt"
	"os"

	urfavecli "github.com/urfave/cli/v2"

	"github.com/llm-dev-ops/policy-fabric/cli"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := &urfavecli.App{
		Name:           "policyfab",
		Usage:          "Policy fabric integration diagnostics",
		Version:        fmt.Sprintf("%s (commit: %s)", cli.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*urfavecli.Command{
			cli.HealthCommand(),
			cli.AdaptersCommand(),
			cli.VersionCommand(commit),
		},
	}

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already handled cli.ExitCoder errors; this branch
		// covers unexpected errors that weren't wrapped.
		os.Exit(1)
	}
}

// exitErrHandler preserves exit codes from cli.Exit() so the health
// command's non-zero exit on unhealthy adapters survives wrapping.
func exitErrHandler(_ *urfavecli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder urfavecli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// cli.Exit("", N).Error() returns "exit status N"; skip those.
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
