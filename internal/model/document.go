package model

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/iancoleman/orderedmap"

	"github.com/quantresi/dialctl/pkg/fileutil"
)

// Document is a model configuration tree. Object key order is preserved
// exactly as encountered in the source JSON so that saved documents diff
// cleanly against their inputs.
type Document struct {
	root *orderedmap.OrderedMap
}

// Parse reads a model document from JSON bytes.
func Parse(data []byte) (*Document, error) {
	root := orderedmap.New()
	if err := json.Unmarshal(data, root); err != nil {
		return nil, errors.Wrap(err, "parsing model document")
	}
	normalizeObject(root)
	return &Document{root: root}, nil
}

// Load reads a model document from a file.
func Load(path string) (*Document, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading model document %s", path)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading model document %s", path)
	}
	return doc, nil
}

// Marshal serializes the document with 4-space indentation, keys in
// encounter order.
func (d *Document) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d.root, "", "    ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling model document")
	}
	return append(data, '\n'), nil
}

// Save writes the document to path atomically.
func (d *Document) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	return errors.Wrapf(fileutil.AtomicWriteFile(path, data, 0644), "saving model document %s", path)
}

// Root exposes the underlying tree. Shared with the shock manager;
// callers must not replace the root object itself.
func (d *Document) Root() *orderedmap.OrderedMap {
	return d.root
}

// RootVersion returns the document's own version string, preferring
// Key.Version over a top-level Version field.
func (d *Document) RootVersion() (string, bool) {
	if key, ok := objectAt(d.root, "Key"); ok {
		if v, ok := stringAt(key, "Version"); ok {
			return v, true
		}
	}
	if v, ok := stringAt(d.root, "Version"); ok {
		return v, true
	}
	return "", false
}

// RewriteVersions overwrites every Version field anywhere in the tree,
// regardless of nesting, with the given version string.
func (d *Document) RewriteVersions(version string) {
	rewriteVersions(d.root, version)
}

func rewriteVersions(node any, version string) {
	switch t := node.(type) {
	case *orderedmap.OrderedMap:
		for _, key := range t.Keys() {
			if key == "Version" {
				t.Set(key, version)
				continue
			}
			value, _ := t.Get(key)
			rewriteVersions(value, version)
		}
	case []any:
		for _, item := range t {
			rewriteVersions(item, version)
		}
	}
}

// normalizeObject rewrites nested orderedmap.OrderedMap values (which the
// decoder stores by value) into pointers, so that in-place mutation of any
// node is visible from the root.
func normalizeObject(obj *orderedmap.OrderedMap) {
	for _, key := range obj.Keys() {
		value, _ := obj.Get(key)
		obj.Set(key, normalizeValue(value))
	}
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case orderedmap.OrderedMap:
		normalizeObject(&t)
		return &t
	case *orderedmap.OrderedMap:
		normalizeObject(t)
		return t
	case []any:
		for i := range t {
			t[i] = normalizeValue(t[i])
		}
		return t
	default:
		return v
	}
}

// objectAt returns the object stored under key, if any.
func objectAt(obj *orderedmap.OrderedMap, key string) (*orderedmap.OrderedMap, bool) {
	v, ok := obj.Get(key)
	if !ok {
		return nil, false
	}
	o, ok := v.(*orderedmap.OrderedMap)
	return o, ok
}

// stringAt returns the string stored under key, if any.
func stringAt(obj *orderedmap.OrderedMap, key string) (string, bool) {
	v, ok := obj.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
