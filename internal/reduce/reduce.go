// Package reduce re-windows a unified diff: every hunk is rewritten so that at
// most N unchanged context lines survive on each side of a contiguous run of
// changes, and hunk headers are recomputed so the output remains a valid,
// byte-consistent patch.
//
// Reduce is pure and deterministic: no shared state, no I/O. It is safe to
// call concurrently from independent goroutines.
//
// Newline convention: "\r\n" is normalized to "\n" before splitting, the
// output is rejoined with "\n", and a trailing "\n" is appended after the
// final line even when the input had none. Empty input produces empty output.
package reduce

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/trimdiff/trimdiff/internal/hunk"
)

var errInvalidContext = errors.New("invalid context line count")

// IsInvalidContext reports whether err (as returned from Reduce) indicates
// that the requested context width was negative.
func IsInvalidContext(err error) bool {
	return errors.Is(err, errInvalidContext)
}

// Reduce rewrites diffText so each hunk keeps at most contextLines unchanged
// lines around every contiguous run of additions/deletions.
//
// Lines outside hunks (file headers, index lines, mode lines) pass through
// unchanged. A hunk can shrink into several narrower hunks, or vanish entirely
// when its body holds no additions or deletions. Body lines matching none of
// the known prefixes pass through inside their hunk without affecting line
// accounting; this tolerates diff dialects with extra annotation lines.
//
// Reduce returns an error satisfying IsInvalidContext when contextLines < 0,
// and an error satisfying hunk.IsMalformedHeader when a hunk header line does
// not parse. Either way no partial output is produced.
func Reduce(diffText string, contextLines int) (string, error) {
	if contextLines < 0 {
		return "", errors.Join(errInvalidContext, fmt.Errorf("contextLines must be >= 0, got %d", contextLines))
	}

	lines := splitLines(diffText)
	var out []string

	for i := 0; i < len(lines); {
		line := lines[i]
		if !hunk.IsHeaderLine(line) {
			out = append(out, line)
			i++
			continue
		}

		hdr, err := hunk.ParseHeader(line)
		if err != nil {
			return "", err
		}

		// Body runs to the next hunk header, the next file header, or EOF.
		j := i + 1
		for j < len(lines) && !hunk.IsHeaderLine(lines[j]) && !hunk.IsFileHeader(lines[j]) {
			j++
		}

		out = append(out, trimHunk(hdr, lines[i+1:j], contextLines)...)
		i = j
	}

	if len(out) == 0 {
		return "", nil
	}
	return strings.Join(out, "\n") + "\n", nil
}

// splitLines normalizes CRLF, splits on '\n', and discards the empty element a
// trailing newline leaves behind (so "a\n" is one line, not two). Without that
// the unconditional trailing newline on output would grow the text on every
// call and break idempotence.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// interval is an inclusive index span over a hunk body that contains at least
// one addition or deletion.
type interval struct {
	start, end int
}

// trimHunk narrows one hunk to contextLines of context and returns the output
// lines (zero or more complete hunks, header included).
func trimHunk(hdr hunk.Header, body []string, contextLines int) []string {
	kinds := make([]hunk.LineKind, len(body))
	for i, line := range body {
		kinds[i] = hunk.Classify(line)
	}

	// Old/new line numbers in effect before each index, seeded from the header
	// starts. These let any sub-slice recover its own start offsets.
	preOld := make([]int, len(body))
	preNew := make([]int, len(body))
	oldPos, newPos := hdr.OldStart, hdr.NewStart
	for i, k := range kinds {
		preOld[i] = oldPos
		preNew[i] = newPos
		if k.CountsOld() {
			oldPos++
		}
		if k.CountsNew() {
			newPos++
		}
	}

	var changeIdx []int
	for i, k := range kinds {
		if k.IsChange() {
			changeIdx = append(changeIdx, i)
		}
	}
	if len(changeIdx) == 0 {
		// A hunk with no net change contributes nothing. Fresh diffs don't
		// contain such hunks, but upstream processing can produce them.
		return nil
	}

	var intervals []interval
	for b := 0; b < len(changeIdx); {
		// Maximal run of index-adjacent change lines.
		e := b
		for e+1 < len(changeIdx) && changeIdx[e+1] == changeIdx[e]+1 {
			e++
		}
		intervals = append(intervals, expand(kinds, changeIdx[b], changeIdx[e], contextLines))
		b = e + 1
	}

	sort.Slice(intervals, func(a, b int) bool { return intervals[a].start < intervals[b].start })
	intervals = mergeTouching(intervals)

	var out []string
	for _, iv := range intervals {
		slice := body[iv.start : iv.end+1]
		sliceKinds := kinds[iv.start : iv.end+1]

		oldCount, newCount, hasChange := 0, 0, false
		for _, k := range sliceKinds {
			if k.CountsOld() {
				oldCount++
			}
			if k.CountsNew() {
				newCount++
			}
			if k.IsChange() {
				hasChange = true
			}
		}
		if !hasChange {
			// Unreachable by construction; kept as a guard against emitting a
			// do-nothing hunk.
			continue
		}

		newHdr := hunk.Header{
			OldStart: preOld[iv.start],
			OldLines: oldCount,
			NewStart: preNew[iv.start],
			NewLines: newCount,
			Section:  hdr.Section,
		}
		out = append(out, newHdr.String())
		out = append(out, slice...)
	}
	return out
}

// expand grows a change block outward on both sides, pulling in up to
// contextLines context lines per side. No-newline markers and unrecognized
// lines ride along without consuming budget. Expansion stops at another change
// line (it belongs to a different block) or at the body boundary; running out
// of lines is the same as running out of budget.
func expand(kinds []hunk.LineKind, blockStart, blockEnd, contextLines int) interval {
	iv := interval{start: blockStart, end: blockEnd}

	budget := contextLines
	for i := blockStart - 1; i >= 0; i-- {
		k := kinds[i]
		if k.IsChange() {
			break
		}
		if k == hunk.LineContext {
			if budget == 0 {
				break
			}
			budget--
		}
		iv.start = i
	}

	budget = contextLines
	for i := blockEnd + 1; i < len(kinds); i++ {
		k := kinds[i]
		if k.IsChange() {
			break
		}
		if k == hunk.LineContext {
			if budget == 0 {
				break
			}
			budget--
		}
		iv.end = i
	}

	return iv
}

// mergeTouching collapses overlapping, touching, or single-line-gap intervals
// into their union: two change windows separated by one uncovered line fold
// into a single hunk that absorbs that line as context. This is what makes two
// change blocks exactly 2*contextLines+1 context lines apart emit as one hunk,
// while one line further apart they emit as two. Input must be sorted by start.
func mergeTouching(intervals []interval) []interval {
	if len(intervals) == 0 {
		return intervals
	}
	merged := intervals[:1]
	for _, iv := range intervals[1:] {
		last := &merged[len(merged)-1]
		if iv.start <= last.end+2 {
			if iv.end > last.end {
				last.end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}
