// Package keytree implements the nested key/value tree that backs one
// locale's translations, plus the dot-path algebra over it: flattening
// nested objects into dot-delimited keys, re-nesting flat key sets,
// and safe path-based insertion and removal.
//
// A tree is an untyped JSON object as decoded by encoding/json. The only
// recursion condition is "plain non-array object" (map[string]any):
// strings, numbers, booleans, nulls and arrays are all opaque leaves.
package keytree

import "strings"

// Tree is one locale's translation dictionary: internal nodes are
// map[string]any, leaves are anything else (normally strings).
type Tree = map[string]any

// isNode reports whether v is a nestable object. Arrays and nil are
// leaves and never recursed into.
func isNode(v any) (Tree, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// Flatten returns a map from dot-delimited leaf path to leaf value.
// Flattening is lossless for object-only trees: Unflatten(Flatten(t))
// reconstructs an equivalent tree.
func Flatten(tree Tree) map[string]any {
	flat := make(map[string]any)
	flattenInto(tree, "", flat)
	return flat
}

func flattenInto(tree Tree, prefix string, flat map[string]any) {
	for key, value := range tree {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if child, ok := isNode(value); ok {
			flattenInto(child, path, flat)
			continue
		}
		flat[path] = value
	}
}

// Keys returns the set of flattened leaf paths in tree.
func Keys(tree Tree) map[string]bool {
	keys := make(map[string]bool)
	for path := range Flatten(tree) {
		keys[path] = true
	}
	return keys
}

// Unflatten rebuilds a nested tree from dot-delimited paths. Inverse of
// Flatten for object-only trees.
func Unflatten(flat map[string]any) Tree {
	tree := make(Tree)
	for path, value := range flat {
		Set(tree, strings.Split(path, "."), value)
	}
	return tree
}

// Set stores value at the given path, creating intermediate nodes as
// needed. An existing intermediate that is not an object (or is an
// array) is overwritten with a fresh empty node so the nesting stays
// consistent.
func Set(tree Tree, segments []string, value any) {
	if len(segments) == 0 {
		return
	}
	node := tree
	for _, seg := range segments[:len(segments)-1] {
		child, ok := isNode(node[seg])
		if !ok {
			child = make(Tree)
			node[seg] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = value
}

// Remove deletes the leaf at the given path and reports whether anything
// was removed. Absent paths are a no-op. Ancestors emptied by the
// removal are pruned all the way up.
func Remove(tree Tree, segments []string) bool {
	if len(segments) == 0 {
		return false
	}
	last := segments[0]
	if len(segments) == 1 {
		if _, exists := tree[last]; !exists {
			return false
		}
		delete(tree, last)
		return true
	}

	child, ok := isNode(tree[last])
	if !ok {
		return false
	}
	if !Remove(child, segments[1:]) {
		return false
	}
	if len(child) == 0 {
		delete(tree, last)
	}
	return true
}

// Resolve looks up a dot-delimited key in tree and returns the string
// stored there. When any path segment is missing, or the resolved value
// is not a string, the key itself is returned unchanged so missing
// translations degrade to visible key text instead of blanks.
func Resolve(tree Tree, key string) string {
	node := tree
	segments := strings.Split(key, ".")
	for _, seg := range segments[:len(segments)-1] {
		child, ok := isNode(node[seg])
		if !ok {
			return key
		}
		node = child
	}
	if s, ok := node[segments[len(segments)-1]].(string); ok {
		return s
	}
	return key
}
