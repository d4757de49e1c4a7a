package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/llm-dev-ops/policy-fabric/integration"
)

// AdaptersCommand returns the adapters command.
// It lists all nine service slots with their configured state, without
// performing any network I/O.
func AdaptersCommand() *cli.Command {
	return &cli.Command{
		Name:   "adapters",
		Usage:  "List integration slots and their configured state",
		Flags:  []cli.Flag{configFlag(), formatFlag(), noColorFlag()},
		Action: adaptersAction,
	}
}

func adaptersAction(c *cli.Context) error {
	r, err := NewRenderer(c)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}

	slots := integration.FromConfig(cfg.Integrations).Slots()

	if r.Format() == FormatJSON {
		return r.RenderJSON(slots)
	}

	headers := []string{"ADAPTER", "CONFIGURED", "URL"}
	rows := make([][]string, 0, len(slots))
	for _, s := range slots {
		url := s.BaseURL
		if url == "" {
			url = r.dimCell("-")
		}
		rows = append(rows, []string{s.Name, r.statusCell(s.Configured), url})
	}
	return r.RenderRows(headers, rows)
}
