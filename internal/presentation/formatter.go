// Package presentation renders command output as JSON or styled text.
package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (must be \"json\" or \"text\")", s)
	}
}

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	format Format

	name    lipgloss.Style
	subtle  lipgloss.Style
	missing lipgloss.Style
}

// NewFormatter creates a new formatter. Colors are only emitted when writer
// is a terminal.
func NewFormatter(writer io.Writer, format Format) *Formatter {
	r := lipgloss.NewRenderer(writer)
	return &Formatter{
		writer:  writer,
		format:  format,
		name:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")),
		subtle:  r.NewStyle().Foreground(lipgloss.Color("#888888")),
		missing: r.NewStyle().Foreground(lipgloss.Color("#EF4444")),
	}
}

// FormatNamespaces writes the namespace table in precedence order.
func (f *Formatter) FormatNamespaces(namespaces []NamespaceDTO) error {
	if f.format == FormatJSON {
		return f.encodeJSON(namespaces)
	}

	if len(namespaces) == 0 {
		_, err := fmt.Fprintln(f.writer, f.subtle.Render("no namespaces registered"))
		return err
	}

	width := 0
	for _, ns := range namespaces {
		width = max(width, lipgloss.Width(ns.Name))
	}
	for _, ns := range namespaces {
		pad := strings.Repeat(" ", width-lipgloss.Width(ns.Name))
		if _, err := fmt.Fprintf(f.writer, "%s%s  %s  %s\n",
			f.name.Render(ns.Name), pad, ns.BaseURL, f.subtle.Render(ns.Path)); err != nil {
			return err
		}
	}
	return nil
}

// FormatResolutions writes one line per looked-up file.
func (f *Formatter) FormatResolutions(results []ResolutionDTO) error {
	if f.format == FormatJSON {
		return f.encodeJSON(results)
	}

	for _, res := range results {
		target := f.missing.Render("(no module path)")
		if res.Found {
			target = f.name.Render(res.ModulePath)
		}
		if _, err := fmt.Fprintf(f.writer, "%s -> %s\n", res.File, target); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) encodeJSON(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
