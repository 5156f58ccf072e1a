// Package render colorizes an existing unified diff for terminal display. It
// does not reflow or re-window anything; it only decorates lines and
// optionally truncates them to a display width.
package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/trimdiff/trimdiff/internal/hunk"
)

// Colors (ANSI).
const (
	reset    = "\x1b[0m"
	red      = "\x1b[31m"
	green    = "\x1b[32m"
	magenta  = "\x1b[35m"
	cyanBold = "\x1b[1;36m"
)

const ellipsis = "…"

// Options controls Unified's output.
type Options struct {
	// Color enables ANSI colorization: hunk headers magenta, file headers
	// bold cyan, additions green, deletions red.
	Color bool

	// MaxWidth, when > 0, truncates lines wider than MaxWidth display cells
	// (rune-width aware) and appends an ellipsis.
	MaxWidth int
}

// Unified decorates diffText line by line. With zero Options the input passes
// through unchanged. The trailing-newline state of the input is preserved.
func Unified(diffText string, opts Options) string {
	if !opts.Color && opts.MaxWidth <= 0 {
		return diffText
	}

	hadTrailingNL := strings.HasSuffix(diffText, "\n")
	lines := strings.Split(strings.TrimSuffix(diffText, "\n"), "\n")
	for i, line := range lines {
		if opts.MaxWidth > 0 && runewidth.StringWidth(line) > opts.MaxWidth {
			line = runewidth.Truncate(line, opts.MaxWidth, ellipsis)
		}
		if opts.Color {
			line = colorizeLine(line)
		}
		lines[i] = line
	}

	out := strings.Join(lines, "\n")
	if hadTrailingNL {
		out += "\n"
	}
	return out
}

func colorizeLine(line string) string {
	switch {
	case hunk.IsFileHeader(line),
		strings.HasPrefix(line, "--- "),
		strings.HasPrefix(line, "+++ "):
		return cyanBold + line + reset
	case hunk.IsHeaderLine(line):
		return magenta + line + reset
	case strings.HasPrefix(line, "+"):
		return green + line + reset
	case strings.HasPrefix(line, "-"):
		return red + line + reset
	default:
		return line
	}
}

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// DetectWidth returns the terminal width for fd, or 0 if it cannot be
// determined (not a terminal, or the query failed).
func DetectWidth(fd int) int {
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 0
	}
	return w
}
