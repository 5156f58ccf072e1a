// Package cli implements the trimdiff command line:
//
//	trimdiff [flags] [file]
//
// It reads a unified diff from file (or stdin), re-windows every hunk to the
// requested context width, and writes the result to stdout. With -max-tokens
// it instead lowers the context width until the diff fits the token budget.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/trimdiff/trimdiff/internal/budget"
	"github.com/trimdiff/trimdiff/internal/reduce"
	"github.com/trimdiff/trimdiff/internal/render"
	"github.com/trimdiff/trimdiff/internal/simplelogger"
)

// Version is the trimdiff version. It is a var (not a const) so build tooling
// can override it (for example via `-ldflags "-X .../internal/cli.Version=1.2.3"`).
var Version = "0.3.0"

// In/Out/Err override standard I/O. If nil, defaults are used. Overriding is
// useful for testing. When Out is overridden, terminal detection is skipped
// and "-color auto" resolves to no color.
type RunOptions struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run runs the CLI with args (typically you'd use os.Args).
//
// It returns a recommended exit code (0, 1, or 2) and an error, if any:
//   - 0 -> err == nil
//   - 1 -> err != nil, but the structure of args is sound (flags are correct, etc).
//   - 2 -> err != nil, args parse error or misuse of flags, etc.
//
// In cases of errors, Run has already displayed an error message to opts.Err
// || Stderr. Callers may use os.Exit with the exit code.
func Run(args []string, opts *RunOptions) (int, error) {
	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	var errW io.Writer = os.Stderr
	outIsStdout := true
	if opts != nil {
		if opts.In != nil {
			in = opts.In
		}
		if opts.Out != nil {
			out = opts.Out
			outIsStdout = false
		}
		if opts.Err != nil {
			errW = opts.Err
		}
	}

	argv := args
	if len(argv) > 0 {
		argv = argv[1:]
	}

	fs := flag.NewFlagSet("trimdiff", flag.ContinueOnError)
	fs.SetOutput(errW)
	contextLines := fs.Int("context", 3, "context lines to keep around each change")
	maxTokens := fs.Int("max-tokens", 0, "shrink context until the diff fits this many tokens (0 = unlimited)")
	colorMode := fs.String("color", "auto", "colorize output: auto, always, or never")
	width := fs.Int("width", 0, "truncate lines to this display width when colorizing (0 = terminal width)")
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(errW, "usage: trimdiff [flags] [file]\n\nReads a unified diff from file or stdin and re-windows its hunks.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(argv); err != nil {
		if err == flag.ErrHelp {
			return 0, nil
		}
		return 2, err
	}

	if *showVersion {
		fmt.Fprintln(out, "trimdiff "+Version)
		return 0, nil
	}

	switch *colorMode {
	case "auto", "always", "never":
	default:
		err := fmt.Errorf("invalid -color value %q (want auto, always, or never)", *colorMode)
		fmt.Fprintln(errW, err)
		return 2, err
	}

	if fs.NArg() > 1 {
		err := fmt.Errorf("expected at most 1 arg, got %d", fs.NArg())
		fmt.Fprintln(errW, err)
		return 2, err
	}

	diffText, err := readInput(fs.Arg(0), in)
	if err != nil {
		fmt.Fprintln(errW, err)
		return 1, err
	}
	simplelogger.Log("trimdiff: read %d bytes, context=%d maxTokens=%d", len(diffText), *contextLines, *maxTokens)

	var reduced string
	if *maxTokens > 0 {
		var used, ctx int
		reduced, used, ctx, err = budget.Fit(diffText, *maxTokens, *contextLines)
		if err == nil {
			simplelogger.Log("trimdiff: fit to %d tokens at context=%d", used, ctx)
			if used > *maxTokens {
				fmt.Fprintf(errW, "warning: %d tokens still exceed budget %d at context 0\n", used, *maxTokens)
			}
		}
	} else {
		reduced, err = reduce.Reduce(diffText, *contextLines)
	}
	if err != nil {
		fmt.Fprintln(errW, err)
		return 1, err
	}
	simplelogger.Log("trimdiff: %s", trimmed(diffText, reduced))

	renderOpts := render.Options{}
	switch *colorMode {
	case "always":
		renderOpts.Color = true
	case "auto":
		renderOpts.Color = outIsStdout && render.IsTerminal(int(os.Stdout.Fd()))
	}
	if renderOpts.Color {
		renderOpts.MaxWidth = *width
		if renderOpts.MaxWidth == 0 && outIsStdout {
			renderOpts.MaxWidth = render.DetectWidth(int(os.Stdout.Fd()))
		}
	}

	if _, err := io.WriteString(out, render.Unified(reduced, renderOpts)); err != nil {
		fmt.Fprintln(errW, err)
		return 1, err
	}
	return 0, nil
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// trimmed reports a one-line summary of a reduction for logging.
func trimmed(before, after string) string {
	return fmt.Sprintf("%d -> %d lines", strings.Count(before, "\n"), strings.Count(after, "\n"))
}
