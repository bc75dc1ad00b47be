package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type outputFormat int

const (
	formatPlain outputFormat = iota
	formatStyled
	formatJSON
)

// Color palette
var (
	gold    = lipgloss.Color("#E5A00D")
	dimGray = lipgloss.Color("#6B7280")
	white   = lipgloss.Color("#F9FAFB")
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(white).
			Bold(true)

	idStyle = lipgloss.NewStyle().
		Foreground(dimGray)

	nameStyle = lipgloss.NewStyle().
			Foreground(gold)

	countStyle = lipgloss.NewStyle().
			Foreground(dimGray).
			Italic(true)
)

// table is query output before formatting
type table struct {
	headers []string
	rows    [][]string
}

// pickFormat uses styles only when w is an interactive terminal
func pickFormat(w io.Writer, asJSON bool) outputFormat {
	if asJSON {
		return formatJSON
	}
	if isTerminal(w) {
		return formatStyled
	}
	return formatPlain
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func render[T any](w io.Writer, format outputFormat, results []T, t table) error {
	switch format {
	case formatJSON:
		if results == nil {
			results = []T{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case formatStyled:
		return renderStyled(w, t)
	default:
		return renderPlain(w, t)
	}
}

// renderPlain writes tab-separated rows with no header
func renderPlain(w io.Writer, t table) error {
	for _, row := range t.rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func renderStyled(w io.Writer, t table) error {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string, style func(col int) lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = style(i).Width(widths[i]).Render(cell)
		}
		return strings.Join(parts, "  ")
	}

	var b strings.Builder
	b.WriteString(line(t.headers, func(int) lipgloss.Style { return headerStyle }))
	b.WriteString("\n")
	for _, row := range t.rows {
		b.WriteString(line(row, cellStyle))
		b.WriteString("\n")
	}
	b.WriteString(countStyle.Render(fmt.Sprintf("%d results", len(t.rows))))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func cellStyle(col int) lipgloss.Style {
	switch col {
	case 0:
		return idStyle
	case 1:
		return nameStyle
	default:
		return lipgloss.NewStyle()
	}
}
