package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Version is the policy fabric release version.
const Version = "0.3.0"

// VersionCommand returns the version command.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(c *cli.Context) error {
			fmt.Fprintf(c.App.Writer, "policyfab %s (commit: %s)\n", Version, commit)
			return nil
		},
	}
}
