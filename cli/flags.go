package cli

import "github.com/urfave/cli/v2"

// configFlag points at an optional YAML configuration file. Without it the
// commands resolve configuration from the environment only.
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "config",
		Usage: "Path to YAML config file (environment overrides still apply)",
	}
}

// formatFlag selects the output format.
func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Usage: "Output format: json or table (default: table on TTY, else json)",
	}
}

// noColorFlag disables status coloring in table output.
func noColorFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored table output",
	}
}

// timeoutFlag overrides the shared integration timeout in milliseconds.
func timeoutFlag() cli.Flag {
	return &cli.Uint64Flag{
		Name:  "timeout-ms",
		Usage: "Override the integration timeout in milliseconds",
	}
}
