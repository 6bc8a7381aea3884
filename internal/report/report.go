// Package report prints scan results for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"docdate/internal/dates"
	"docdate/internal/ocr"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPath  = lipgloss.Color("#89b4fa")
	colorDate  = lipgloss.Color("#a6e3a1")
	colorMuted = lipgloss.Color("#7f849c")
	colorError = lipgloss.Color("#f38ba8")
)

type Printer struct {
	w      io.Writer
	styled bool
}

// New returns a printer writing to w. Colour is only used when styled is
// set, typically when w is a terminal.
func New(w io.Writer, styled bool) *Printer {
	return &Printer{w: w, styled: styled}
}

func (p *Printer) render(color lipgloss.Color, bold bool, s string) string {
	if !p.styled {
		return s
	}
	return lipgloss.NewStyle().Foreground(color).Bold(bold).Render(s)
}

// Result prints the path header followed by the same text the display
// screen shows for r.
func (p *Printer) Result(r *ocr.ScanResult) {
	header := p.render(colorPath, true, r.Path)
	meta := p.render(colorMuted, false, fmt.Sprintf("(%s, %d lines, %s)", r.Engine, len(r.Fragments), r.Duration.Round(time.Millisecond)))
	fmt.Fprintf(p.w, "%s %s\n", header, meta)

	if len(r.Dates) == 0 {
		fmt.Fprintf(p.w, "  %s\n", p.render(colorMuted, false, dates.NoneFound))
		return
	}

	lines := strings.Split(r.Text(), "\n")
	fmt.Fprintf(p.w, "  %s\n", lines[0])
	for _, d := range lines[1:] {
		fmt.Fprintf(p.w, "    %s\n", p.render(colorDate, false, d))
	}
}

func (p *Printer) Failure(path string, err error) {
	fmt.Fprintf(p.w, "%s %s\n", p.render(colorPath, true, path), p.render(colorError, false, "error: "+err.Error()))
}
