package deepfind

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// FirstJSON walks the JSON document doc depth-first and returns the first
// node for which pred returns true, along with its gjson path (usable with
// gjson.Get to re-resolve the node). The predicate sees every node in document
// order, objects and arrays included, starting with the root.
//
// JSON values cannot cycle, so no visited-set bookkeeping applies. An invalid
// document matches nothing.
func FirstJSON(doc string, pred func(v gjson.Result) bool) (gjson.Result, string, bool) {
	if !gjson.Valid(doc) {
		return gjson.Result{}, "", false
	}
	return firstJSON(gjson.Parse(doc), "", pred)
}

func firstJSON(v gjson.Result, path string, pred func(v gjson.Result) bool) (gjson.Result, string, bool) {
	if pred(v) {
		return v, path, true
	}
	if !v.IsObject() && !v.IsArray() {
		return gjson.Result{}, "", false
	}

	var (
		found   gjson.Result
		foundAt string
		ok      bool
	)
	idx := 0
	v.ForEach(func(key, child gjson.Result) bool {
		var step string
		if v.IsArray() {
			step = strconv.Itoa(idx)
		} else {
			step = escapeJSONPathKey(key.String())
		}
		idx++

		childPath := step
		if path != "" {
			childPath = path + "." + step
		}
		if f, p, matched := firstJSON(child, childPath, pred); matched {
			found, foundAt, ok = f, p, true
			return false
		}
		return true
	})
	return found, foundAt, ok
}

// escapeJSONPathKey escapes gjson path metacharacters in an object key.
func escapeJSONPathKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '\\', '|', '#', '@':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
