package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"
)

// Format represents an output format.
type Format string

// Supported output formats.
const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat parses a format string, returning an error for invalid
// formats. The empty string lets the caller decide a default.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "table":
		return FormatTable, nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("invalid format: %q (must be json or table)", s)
	}
}

// Renderer handles command output formatting.
type Renderer struct {
	format  Format
	noColor bool
	out     io.Writer
}

// NewRenderer creates a renderer from CLI context. The default format is
// table on a TTY and json otherwise.
func NewRenderer(c *cli.Context) (*Renderer, error) {
	format, err := ParseFormat(c.String("format"))
	if err != nil {
		return nil, err
	}
	if format == "" {
		if isTTY(os.Stdout) {
			format = FormatTable
		} else {
			format = FormatJSON
		}
	}
	return &Renderer{
		format:  format,
		noColor: c.Bool("no-color"),
		out:     os.Stdout,
	}, nil
}

// NewRendererWithWriter creates a renderer with a custom writer (for
// testing).
func NewRendererWithWriter(format Format, noColor bool, out io.Writer) *Renderer {
	return &Renderer{format: format, noColor: noColor, out: out}
}

// RenderJSON writes data as indented JSON.
func (r *Renderer) RenderJSON(data any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// RenderRows writes a header row and data rows as an aligned table.
func (r *Renderer) RenderRows(headers []string, rows [][]string) error {
	if len(rows) == 0 {
		fmt.Fprintln(r.out, "(no results)")
		return nil
	}
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// Format returns the selected output format.
func (r *Renderer) Format() Format {
	return r.format
}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// statusCell formats a boolean status for table output, colored unless
// disabled.
func (r *Renderer) statusCell(ok bool) string {
	if ok {
		if r.noColor {
			return "ok"
		}
		return okStyle.Render("ok")
	}
	if r.noColor {
		return "fail"
	}
	return failStyle.Render("fail")
}

// dimCell renders informational text dimmed unless colors are disabled.
func (r *Renderer) dimCell(s string) string {
	if r.noColor {
		return s
	}
	return dimStyle.Render(s)
}

// isTTY returns true if the writer is a TTY.
func isTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
