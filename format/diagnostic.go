package format

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/width"

	"github.com/dhamidi/able/syntax"
)

var (
	colorError    = lipgloss.Color("#EF4444")
	colorWarning  = lipgloss.Color("#F59E0B")
	colorLocation = lipgloss.Color("#F8FAFC")
	colorCaret    = lipgloss.Color("#10B981")
	colorMuted    = lipgloss.Color("#6B7280")
)

type diagnosticStyles struct {
	location lipgloss.Style
	kind     map[syntax.DiagnosticKind]lipgloss.Style
	caret    lipgloss.Style
	expected lipgloss.Style
}

func newDiagnosticStyles() diagnosticStyles {
	return diagnosticStyles{
		location: lipgloss.NewStyle().Foreground(colorLocation).Bold(true),
		kind: map[syntax.DiagnosticKind]lipgloss.Style{
			syntax.LexError:          lipgloss.NewStyle().Foreground(colorError).Bold(true),
			syntax.ParseError:        lipgloss.NewStyle().Foreground(colorError).Bold(true),
			syntax.RecoveryExhausted: lipgloss.NewStyle().Foreground(colorWarning).Bold(true),
		},
		caret:    lipgloss.NewStyle().Foreground(colorCaret).Bold(true),
		expected: lipgloss.NewStyle().Foreground(colorMuted),
	}
}

// DiagnosticPrinter writes diagnostics the way compilers do: a location
// line followed by the offending source line and a caret under the span.
type DiagnosticPrinter struct {
	w      io.Writer
	color  bool
	styles diagnosticStyles
}

func NewDiagnosticPrinter(w io.Writer, color bool) *DiagnosticPrinter {
	return &DiagnosticPrinter{w: w, color: color, styles: newDiagnosticStyles()}
}

// Print writes the diagnostics of tree. With limit > 0 at most limit are
// written, followed by a count of the rest.
func (p *DiagnosticPrinter) Print(tree *syntax.Tree, limit int) error {
	diags := tree.Diagnostics
	if limit > 0 && len(diags) > limit {
		diags = diags[:limit]
	}
	for _, d := range diags {
		if _, err := io.WriteString(p.w, p.Render(tree.Source, d)); err != nil {
			return err
		}
	}
	if rest := len(tree.Diagnostics) - len(diags); rest > 0 {
		if _, err := fmt.Fprintf(p.w, "... and %d more\n", rest); err != nil {
			return err
		}
	}
	return nil
}

// Render formats one diagnostic against the source it was reported on.
func (p *DiagnosticPrinter) Render(src []byte, d syntax.Diagnostic) string {
	var b strings.Builder
	b.WriteString(p.style(p.styles.location, d.Span.Start.String()+":"))
	b.WriteString(" ")
	b.WriteString(p.style(p.styles.kind[d.Kind], d.Kind.String()+":"))
	b.WriteString(" ")
	b.WriteString(d.Message)
	if len(d.Expected) > 0 {
		b.WriteString("; ")
		b.WriteString(p.style(p.styles.expected, syntax.ExpectedText(d.Expected)))
	}
	b.WriteString("\n")

	line, pad, mark := caretLine(src, d.Span)
	b.WriteString("  ")
	b.WriteString(line)
	b.WriteString("\n  ")
	b.WriteString(pad)
	b.WriteString(p.style(p.styles.caret, mark))
	b.WriteString("\n")
	return b.String()
}

func (p *DiagnosticPrinter) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// caretLine returns the source line containing span.Start, the padding
// that lines a caret up under the start and the caret marker covering the
// part of the span on that line. Tabs are kept so the padding lines up
// whatever the tab width.
func caretLine(src []byte, span syntax.Span) (line, pad, mark string) {
	start := span.Start.Offset
	if start > len(src) {
		start = len(src)
	}
	lineStart := start
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}
	lineEnd := start
	for lineEnd < len(src) && src[lineEnd] != '\n' && src[lineEnd] != '\r' {
		lineEnd++
	}

	var padding strings.Builder
	for _, r := range string(src[lineStart:start]) {
		if r == '\t' {
			padding.WriteRune('\t')
			continue
		}
		padding.WriteString(strings.Repeat(" ", cellWidth(r)))
	}

	end := span.End.Offset
	if end > lineEnd {
		end = lineEnd
	}
	cells := 0
	if end > start {
		cells = displayWidth(src[start:end])
	}
	mark = "^"
	if cells > 1 {
		mark += strings.Repeat("~", cells-1)
	}
	return string(src[lineStart:lineEnd]), padding.String(), mark
}

// displayWidth is the number of terminal cells text occupies.
func displayWidth(text []byte) int {
	w := 0
	for len(text) > 0 {
		r, size := utf8.DecodeRune(text)
		text = text[size:]
		w += cellWidth(r)
	}
	return w
}

func cellWidth(r rune) int {
	if !unicode.IsGraphic(r) || unicode.Is(unicode.Mn, r) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}
