// Package hunk parses and formats the building blocks of a unified diff: the
// "@@ -oldStart,oldLen +newStart,newLen @@" hunk header and the single-character
// line prefixes of a hunk body.
//
// The header codec round-trips: for any Header h with OldLines, NewLines >= 0,
// ParseHeader(h.String()) reproduces h, and formatting the parse of a formatted
// header is byte-identical. The Section field carries the raw trailing text
// after the closing "@@" (including its leading space, if any) so that headers
// taken from real diffs survive a parse/format cycle unchanged.
package hunk

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FileHeaderPrefix starts a new per-file block in a git-style unified diff.
const FileHeaderPrefix = "diff --git "

// noNewlineMarker is the literal line git emits when a file ends without '\n'.
const noNewlineMarker = `\ No newline at end of file`

var errMalformedHeader = errors.New("malformed hunk header")

// IsMalformedHeader reports whether err (as returned from ParseHeader) indicates
// that the input line did not match the hunk header pattern.
func IsMalformedHeader(err error) bool {
	return errors.Is(err, errMalformedHeader)
}

// Header is a parsed unified-diff hunk header.
//
// A length that is textually absent in the source ("@@ -3 +5 @@") parses as 1,
// never 0; absence and an explicit ",1" are semantically identical on input.
type Header struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int

	// Section is the raw text after the closing "@@", leading space included.
	// Empty when the header has no trailing section.
	Section string
}

var headerRegex = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@(.*)$`)

// ParseHeader parses a hunk header line of the form
// "@@ -<oldStart>[,<oldLen>] +<newStart>[,<newLen>] @@<section>". It returns an
// error satisfying IsMalformedHeader if line does not match.
func ParseHeader(line string) (Header, error) {
	m := headerRegex.FindStringSubmatch(line)
	if m == nil {
		return Header{}, errors.Join(errMalformedHeader, fmt.Errorf("line %q does not match @@ -start[,len] +start[,len] @@", line))
	}
	return Header{
		OldStart: mustAtoi(m[1]),
		OldLines: lengthOrOne(m[2]),
		NewStart: mustAtoi(m[3]),
		NewLines: lengthOrOne(m[4]),
		Section:  m[5],
	}, nil
}

// String renders h in unified-diff form. A side whose length is exactly 1 is
// shortened to its start alone; a length of 0 is always rendered as "start,0"
// because a zero-length side must stay unambiguous.
func (h Header) String() string {
	return fmt.Sprintf("@@ -%s +%s @@%s", rangeText(h.OldStart, h.OldLines), rangeText(h.NewStart, h.NewLines), h.Section)
}

func rangeText(start, lines int) string {
	if lines == 1 {
		return strconv.Itoa(start)
	}
	return fmt.Sprintf("%d,%d", start, lines)
}

func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		// headerRegex only captures digit runs.
		panic(fmt.Errorf("hunk: non-numeric capture %q: %v", s, err))
	}
	return n
}

func lengthOrOne(s string) int {
	if s == "" {
		return 1
	}
	return mustAtoi(s)
}

// IsHeaderLine reports whether line looks like a hunk header. It is a cheap
// scanner test; ParseHeader is the authority on validity.
func IsHeaderLine(line string) bool {
	return strings.HasPrefix(line, "@@ -")
}

// IsFileHeader reports whether line opens a new file's diff block.
func IsFileHeader(line string) bool {
	return strings.HasPrefix(line, FileHeaderPrefix)
}

// LineKind classifies one line of a hunk body.
type LineKind int

const (
	// LineContext is an unchanged line, present on both sides.
	LineContext LineKind = iota
	// LineAddition is present only on the new side.
	LineAddition
	// LineDeletion is present only on the old side.
	LineDeletion
	// LineNoNewline is the "\ No newline at end of file" marker; it annotates
	// the preceding line and counts toward neither side.
	LineNoNewline
	// LineOther is any line matching none of the known shapes. Such lines are
	// tolerated (some diff dialects carry extra annotations) and count toward
	// neither side.
	LineOther
)

// Classify tags one hunk body line by its leading character. An empty line is
// LineOther: a context line rendering an empty source line is " " (one space),
// never "".
func Classify(line string) LineKind {
	if line == noNewlineMarker {
		return LineNoNewline
	}
	if line == "" {
		return LineOther
	}
	switch line[0] {
	case ' ':
		return LineContext
	case '+':
		return LineAddition
	case '-':
		return LineDeletion
	default:
		return LineOther
	}
}

// CountsOld reports whether k occupies a line on the old side.
func (k LineKind) CountsOld() bool {
	return k == LineContext || k == LineDeletion
}

// CountsNew reports whether k occupies a line on the new side.
func (k LineKind) CountsNew() bool {
	return k == LineContext || k == LineAddition
}

// IsChange reports whether k is an addition or a deletion.
func (k LineKind) IsChange() bool {
	return k == LineAddition || k == LineDeletion
}
