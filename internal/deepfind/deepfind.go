// Package deepfind searches arbitrary object graphs for the first value
// matching a predicate.
//
// It exists for callers that scrape state out of structures they do not own
// (an undocumented, versioned object graph decoded from a host application),
// where the shape cannot be relied on but a recognizable node can: walk
// everything, cycle-safely, and return the first node the predicate accepts
// along with the path of keys/indices that reached it.
package deepfind

import (
	"fmt"
	"reflect"
	"sort"
)

// Step is one edge in the path to a match: either a map key / struct field
// name (Key, with Index == -1) or a slice/array index (Index >= 0).
type Step struct {
	Key   string
	Index int
}

// KeyStep returns a Step for a map key or struct field name.
func KeyStep(key string) Step { return Step{Key: key, Index: -1} }

// IndexStep returns a Step for a slice or array index.
func IndexStep(i int) Step { return Step{Index: i} }

func (s Step) String() string {
	if s.Index >= 0 {
		return fmt.Sprintf("[%d]", s.Index)
	}
	return s.Key
}

// First walks root depth-first and returns the first value for which pred
// returns true, along with the path that reached it. The predicate sees every
// node in traversal order, containers included, starting with root itself.
//
// Traversal rules:
//   - pointers and interfaces are followed transparently (no path step);
//   - maps descend per key (keys visited in sorted order, so the walk is
//     deterministic), slices/arrays per index, structs per exported field;
//   - funcs and channels are never descended into;
//   - everything else is a leaf;
//   - a visited set keyed on object identity makes cyclic structures
//     terminate; a revisited container is treated as a leaf.
func First(root any, pred func(v any) bool) (any, []Step, bool) {
	w := walker{pred: pred, visited: map[visitKey]struct{}{}}
	return w.walk(reflect.ValueOf(root), nil)
}

type visitKey struct {
	kind reflect.Kind
	ptr  uintptr
}

type walker struct {
	pred    func(v any) bool
	visited map[visitKey]struct{}
}

func (w *walker) walk(v reflect.Value, path []Step) (any, []Step, bool) {
	if !v.IsValid() {
		return nil, nil, false
	}

	// Unwrap interface/pointer indirection before testing, so the predicate
	// sees the underlying value rather than a wrapper.
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil, false
		}
		if v.Kind() == reflect.Pointer {
			key := visitKey{kind: reflect.Pointer, ptr: v.Pointer()}
			if _, seen := w.visited[key]; seen {
				return nil, nil, false
			}
			w.visited[key] = struct{}{}
		}
		v = v.Elem()
	}

	if v.CanInterface() && w.pred(v.Interface()) {
		return v.Interface(), path, true
	}

	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return nil, nil, false
		}
		key := visitKey{kind: reflect.Map, ptr: v.Pointer()}
		if _, seen := w.visited[key]; seen {
			return nil, nil, false
		}
		w.visited[key] = struct{}{}

		keys := v.MapKeys()
		sort.Slice(keys, func(a, b int) bool {
			return fmt.Sprint(keys[a].Interface()) < fmt.Sprint(keys[b].Interface())
		})
		for _, k := range keys {
			if found, p, ok := w.walk(v.MapIndex(k), append(path, KeyStep(fmt.Sprint(k.Interface())))); ok {
				return found, p, true
			}
		}

	case reflect.Slice:
		if v.IsNil() {
			return nil, nil, false
		}
		key := visitKey{kind: reflect.Slice, ptr: v.Pointer()}
		if _, seen := w.visited[key]; seen {
			return nil, nil, false
		}
		w.visited[key] = struct{}{}
		for i := 0; i < v.Len(); i++ {
			if found, p, ok := w.walk(v.Index(i), append(path, IndexStep(i))); ok {
				return found, p, true
			}
		}

	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if found, p, ok := w.walk(v.Index(i), append(path, IndexStep(i))); ok {
				return found, p, true
			}
		}

	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			if found, p, ok := w.walk(v.Field(i), append(path, KeyStep(t.Field(i).Name))); ok {
				return found, p, true
			}
		}

	case reflect.Func, reflect.Chan:
		// Callables and channels are opaque: never descended into.
	}

	return nil, nil, false
}
