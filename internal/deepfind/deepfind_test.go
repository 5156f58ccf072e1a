package deepfind

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func pathString(path []Step) string {
	parts := make([]string, len(path))
	for i, s := range path {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

func TestFirst_Basics(t *testing.T) {
	root := map[string]any{
		"alpha": []any{1, 2, map[string]any{"target": "found-me"}},
		"beta":  "nope",
	}

	v, path, ok := First(root, func(v any) bool {
		s, isString := v.(string)
		return isString && strings.HasPrefix(s, "found")
	})
	require.True(t, ok)
	require.Equal(t, "found-me", v)
	require.Equal(t, "alpha.[2].target", pathString(path))
}

func TestFirst_RootItselfCanMatch(t *testing.T) {
	root := []int{1, 2, 3}
	v, path, ok := First(root, func(v any) bool {
		_, isSlice := v.([]int)
		return isSlice
	})
	require.True(t, ok)
	require.Equal(t, root, v)
	require.Empty(t, path)
}

func TestFirst_NoMatch(t *testing.T) {
	_, _, ok := First(map[string]int{"a": 1}, func(v any) bool { return false })
	require.False(t, ok)
}

func TestFirst_CyclicStructuresTerminate(t *testing.T) {
	type node struct {
		Name string
		Next *node
	}
	a := &node{Name: "a"}
	b := &node{Name: "b", Next: a}
	a.Next = b

	v, _, ok := First(a, func(v any) bool {
		s, isString := v.(string)
		return isString && s == "b"
	})
	require.True(t, ok)
	require.Equal(t, "b", v)

	// A predicate that never matches must still terminate on the cycle.
	_, _, ok = First(a, func(v any) bool { return false })
	require.False(t, ok)

	// Self-referential maps terminate too.
	m := map[string]any{}
	m["self"] = m
	m["deep"] = map[string]any{"needle": 42}
	v, path, ok := First(m, func(v any) bool {
		n, isInt := v.(int)
		return isInt && n == 42
	})
	require.True(t, ok)
	require.Equal(t, 42, v)
	require.Equal(t, "deep.needle", pathString(path))
}

func TestFirst_SkipsCallablesAndChannels(t *testing.T) {
	called := false
	root := map[string]any{
		"a-fn": func() string { called = true; return "never" },
		"b-ch": make(chan int),
		"c":    "needle",
	}
	v, _, ok := First(root, func(v any) bool {
		s, isString := v.(string)
		return isString && s == "needle"
	})
	require.True(t, ok)
	require.Equal(t, "needle", v)
	require.False(t, called)
}

func TestFirst_StructFields(t *testing.T) {
	type inner struct {
		Value  int
		hidden string
	}
	type outer struct {
		Name  string
		Child inner
	}
	root := outer{Name: "x", Child: inner{Value: 7, hidden: "secret"}}

	v, path, ok := First(root, func(v any) bool {
		n, isInt := v.(int)
		return isInt && n == 7
	})
	require.True(t, ok)
	require.Equal(t, 7, v)
	require.Equal(t, "Child.Value", pathString(path))

	// Unexported fields are invisible to the walk.
	_, _, ok = First(root, func(v any) bool {
		s, isString := v.(string)
		return isString && s == "secret"
	})
	require.False(t, ok)
}

func TestFirst_DeterministicMapOrder(t *testing.T) {
	// Both "a" and "b" hold matching values; sorted key order makes "a" win
	// every time.
	root := map[string]any{
		"b": "match-b",
		"a": "match-a",
		"c": "match-c",
	}
	for i := 0; i < 20; i++ {
		v, path, ok := First(root, func(v any) bool {
			s, isString := v.(string)
			return isString && strings.HasPrefix(s, "match")
		})
		require.True(t, ok)
		require.Equal(t, "match-a", v)
		require.Equal(t, "a", pathString(path))
	}
}

func TestFirst_NilRoot(t *testing.T) {
	_, _, ok := First(nil, func(v any) bool { return true })
	require.False(t, ok)
}
