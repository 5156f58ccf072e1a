// Package budget fits a unified diff under a token budget by lowering the
// context width until the result is small enough.
//
// Token counts use tokenizer.O200kBase, which tracks the tokenizers of
// current frontier models closely enough for budgeting purposes.
package budget

import (
	"errors"
	"fmt"

	"github.com/tiktoken-go/tokenizer"

	"github.com/trimdiff/trimdiff/internal/reduce"
)

var errInvalidBudget = errors.New("invalid token budget")

// IsInvalidBudget reports whether err (as returned from Fit) indicates a
// non-positive token budget or a negative starting context width.
func IsInvalidBudget(err error) bool {
	return errors.Is(err, errInvalidBudget)
}

// Fit reduces diffText with progressively narrower context windows, starting
// at startContext, until its token count is at most maxTokens or the context
// width reaches 0. It returns the final text, its token count, and the context
// width that produced it.
//
// At context width 0 the result may still exceed maxTokens: the changed lines
// themselves are never dropped. Callers that need a hard cap must truncate
// further on their own terms.
func Fit(diffText string, maxTokens int, startContext int) (out string, used int, ctx int, err error) {
	if maxTokens < 1 {
		return "", 0, 0, errors.Join(errInvalidBudget, fmt.Errorf("maxTokens must be >= 1, got %d", maxTokens))
	}
	if startContext < 0 {
		return "", 0, 0, errors.Join(errInvalidBudget, fmt.Errorf("startContext must be >= 0, got %d", startContext))
	}

	for ctx = startContext; ; ctx-- {
		out, err = reduce.Reduce(diffText, ctx)
		if err != nil {
			return "", 0, 0, err
		}
		used = CountTokens(out)
		if used <= maxTokens || ctx == 0 {
			return out, used, ctx, nil
		}
	}
}

// CountTokens returns the O200kBase token count of text, falling back to the
// usual len/4 estimate if the tokenizer rejects the input.
func CountTokens(text string) int {
	enc, err := tokenizer.Get(tokenizer.O200kBase)
	if err != nil {
		panic(fmt.Errorf("invalid encoder: %v", tokenizer.O200kBase))
	}
	count, err := enc.Count(text)
	if err != nil {
		return len(text) / 4
	}
	return count
}
