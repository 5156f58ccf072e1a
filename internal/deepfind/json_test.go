package deepfind

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestFirstJSON_Basics(t *testing.T) {
	doc := `{
		"session": {"id": "s-1"},
		"tasks": [
			{"id": "t-1", "state": "done"},
			{"id": "t-2", "state": "running", "pr": {"number": 42}}
		]
	}`

	v, path, ok := FirstJSON(doc, func(v gjson.Result) bool {
		return v.Get("state").String() == "running"
	})
	require.True(t, ok)
	require.Equal(t, "t-2", v.Get("id").String())
	require.Equal(t, "tasks.1", path)

	// The returned path re-resolves to the same node.
	require.Equal(t, v.Raw, gjson.Get(doc, path).Raw)
}

func TestFirstJSON_DocumentOrderWins(t *testing.T) {
	doc := `{"z": {"hit": 1}, "a": {"hit": 2}}`
	v, path, ok := FirstJSON(doc, func(v gjson.Result) bool {
		return v.Get("hit").Exists()
	})
	require.True(t, ok)
	// gjson iterates in document order, so "z" wins despite sorting after "a".
	require.Equal(t, "z", path)
	require.Equal(t, int64(1), v.Get("hit").Int())
}

func TestFirstJSON_LeafMatch(t *testing.T) {
	doc := `{"a": [10, 20, 30]}`
	v, path, ok := FirstJSON(doc, func(v gjson.Result) bool {
		return v.Type == gjson.Number && v.Int() > 15
	})
	require.True(t, ok)
	require.Equal(t, int64(20), v.Int())
	require.Equal(t, "a.1", path)
}

func TestFirstJSON_EscapedKeys(t *testing.T) {
	doc := `{"weird.key": {"inner": "needle"}}`
	v, path, ok := FirstJSON(doc, func(v gjson.Result) bool {
		return v.String() == "needle"
	})
	require.True(t, ok)
	require.Equal(t, `weird\.key.inner`, path)
	require.Equal(t, v.Raw, gjson.Get(doc, path).Raw)
}

func TestFirstJSON_NoMatchAndInvalid(t *testing.T) {
	_, _, ok := FirstJSON(`{"a": 1}`, func(v gjson.Result) bool { return false })
	require.False(t, ok)

	_, _, ok = FirstJSON(`{not json`, func(v gjson.Result) bool { return true })
	require.False(t, ok)
}
