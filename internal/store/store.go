package store

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/beamtools/beamtrace/internal/frame"
)

// Element describes one derived value destined for the measurement tree.
type Element struct {
	// Destination is the slash-separated path the value is attached at.
	Destination string

	// MinimumDimensionality lifts scalar values to at least this rank on
	// write, so a scalar with MinimumDimensionality 1 is stored as a
	// one-element array.
	MinimumDimensionality int

	// DataType is the declared numeric type at the destination, e.g.
	// "float32". It is recorded, not enforced.
	DataType string

	// Value is the payload: a scalar or a (nested) numeric slice.
	Value interface{}

	// Units is the destination physical unit, e.g. "px" or "counts/s".
	Units string

	// Attributes holds free-form metadata such as provenance notes.
	Attributes map[string]string
}

// Attacher persists result elements. Implementations must create
// intermediate structure as needed and must not fail because other
// elements already exist at sibling paths.
type Attacher interface {
	Attach(e Element) error
}

// Reserved mapping keys that mark a node as a dataset rather than a group.
const (
	keyValue = "value"
	keyUnits = "units"
	keyDType = "dtype"
	keyAttrs = "attrs"
)

// Tree is a YAML-backed measurement tree.
type Tree struct {
	path string
	root map[string]interface{}
}

var _ Attacher = (*Tree)(nil)

// Open reads a measurement tree from a YAML file.
func Open(path string) (*Tree, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read measurement file: %w", err)
	}
	root := make(map[string]interface{})
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("failed to parse measurement file %s: %w", path, err)
	}
	return &Tree{path: path, root: root}, nil
}

// Create returns an empty tree that will save to the given path.
func Create(path string) *Tree {
	return &Tree{path: path, root: make(map[string]interface{})}
}

// Path returns the file the tree was opened from or will save to.
func (t *Tree) Path() string {
	return t.path
}

// Save writes the tree back to its file.
func (t *Tree) Save() error {
	raw, err := yaml.Marshal(t.root)
	if err != nil {
		return fmt.Errorf("failed to encode measurement tree: %w", err)
	}
	if err := os.WriteFile(t.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write measurement file: %w", err)
	}
	return nil
}

// Attach places an element's value, unit and attributes at its destination
// path, creating intermediate groups as needed. An existing dataset at the
// destination is overwritten; an existing dataset at an intermediate path
// component is an error, since a dataset cannot also be a group.
func (t *Tree) Attach(e Element) error {
	parts := splitPath(e.Destination)
	if len(parts) == 0 {
		return fmt.Errorf("empty destination path")
	}

	group := t.root
	for _, p := range parts[:len(parts)-1] {
		child, ok := group[p]
		if !ok {
			next := make(map[string]interface{})
			group[p] = next
			group = next
			continue
		}
		next, ok := child.(map[string]interface{})
		if !ok || isDataset(next) {
			return fmt.Errorf("path component %q of %s is a dataset, not a group", p, e.Destination)
		}
		group = next
	}

	node := map[string]interface{}{
		keyValue: liftValue(e.Value, e.MinimumDimensionality),
	}
	if e.Units != "" {
		node[keyUnits] = e.Units
	}
	if e.DataType != "" {
		node[keyDType] = e.DataType
	}
	if len(e.Attributes) > 0 {
		attrs := make(map[string]interface{}, len(e.Attributes))
		for k, v := range e.Attributes {
			attrs[k] = v
		}
		node[keyAttrs] = attrs
	}
	group[parts[len(parts)-1]] = node
	return nil
}

// Scalar reads a single numeric value at the given path. A one-element
// array counts as a scalar, matching how minimum dimensionality lifts
// scalars on write.
func (t *Tree) Scalar(path string) (float64, error) {
	v, err := t.value(path)
	if err != nil {
		return 0, err
	}
	dims, flat, err := flatten(v)
	if err != nil {
		return 0, fmt.Errorf("dataset %s: %w", path, err)
	}
	if len(flat) != 1 {
		return 0, fmt.Errorf("dataset %s has shape %v, expected a scalar", path, dims)
	}
	return flat[0], nil
}

// Dataset reads an N-dimensional numeric array at the given path.
func (t *Tree) Dataset(path string) (*frame.Stack, error) {
	v, err := t.value(path)
	if err != nil {
		return nil, err
	}
	dims, flat, err := flatten(v)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return frame.NewStack(dims, flat)
}

// value walks to a path and returns the dataset payload stored there.
// A bare scalar or sequence node (no reserved-key mapping) is accepted as
// a dataset value directly.
func (t *Tree) value(path string) (interface{}, error) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty dataset path")
	}

	var cur interface{} = t.root
	for _, p := range parts {
		group, ok := cur.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("path %s: %q is not a group", path, p)
		}
		cur, ok = group[p]
		if !ok {
			return nil, fmt.Errorf("path %s not found in measurement tree", path)
		}
	}

	if m, ok := cur.(map[string]interface{}); ok {
		if v, ok := m[keyValue]; ok {
			return v, nil
		}
		return nil, fmt.Errorf("path %s is a group, not a dataset", path)
	}
	return cur, nil
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// isDataset reports whether a mapping node carries a dataset payload.
func isDataset(m map[string]interface{}) bool {
	_, ok := m[keyValue]
	return ok
}

// liftValue wraps a scalar in slices until it has at least minDims
// dimensions. Slices are left alone; their rank already satisfies the
// callers in this codebase.
func liftValue(v interface{}, minDims int) interface{} {
	if v == nil {
		return v
	}
	if reflect.ValueOf(v).Kind() == reflect.Slice {
		return v
	}
	for d := 0; d < minDims; d++ {
		v = []interface{}{v}
	}
	return v
}

// flatten walks an arbitrarily nested numeric value and returns its
// rectangular shape plus the row-major flat data. Scalars yield an empty
// shape and one value.
func flatten(v interface{}) ([]int, []float64, error) {
	var dims []int
	var flat []float64

	var walk func(v interface{}, depth int) error
	walk = func(v interface{}, depth int) error {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Interface {
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Slice {
			n, err := toFloat(v)
			if err != nil {
				return err
			}
			if depth != len(dims) {
				return fmt.Errorf("ragged array: scalar at depth %d, expected %d", depth, len(dims))
			}
			flat = append(flat, n)
			return nil
		}

		if depth == len(dims) {
			dims = append(dims, rv.Len())
		} else if dims[depth] != rv.Len() {
			return fmt.Errorf("ragged array: length %d at depth %d, expected %d", rv.Len(), depth, dims[depth])
		}
		for i := 0; i < rv.Len(); i++ {
			if err := walk(rv.Index(i).Interface(), depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(v, 0); err != nil {
		return nil, nil, err
	}
	return dims, flat, nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("non-numeric value %v (%T)", v, v)
	}
}
