package handle

import (
	"errors"
	"fmt"

	"github.com/edaforge/simgraph/internal/gpi"
)

// ValueArray is an index-addressed collection of value-bearing elements
// (packed or unpacked signal arrays). Bulk access walks the declared range
// in its own direction, which defines the external left-to-right order
// regardless of whether the native indices ascend or descend.
type ValueArray struct {
	base

	rng      gpi.Range
	hasRange bool
	elems    map[int]Object
}

func newValueArray(r *Registry, h gpi.Handle, path string, kind gpi.ObjectKind) *ValueArray {
	rng, ok := r.sim.RangeOf(h)
	return &ValueArray{
		base:     newBase(r, h, path, kind),
		rng:      rng,
		hasRange: ok,
		elems:    make(map[int]Object),
	}
}

// Range returns the declared bounds. The second return is false when the
// native layer reports no range (the object is then not indexable).
func (v *ValueArray) Range() (gpi.Range, bool) {
	return v.rng, v.hasRange
}

// Len is the declared element count.
func (v *ValueArray) Len() int {
	if !v.hasRange {
		return v.base.Len()
	}
	return v.rng.Count()
}

// Index resolves the element at native index i.
func (v *ValueArray) Index(i int) (Object, error) {
	if !v.hasRange {
		return nil, resolvef(ErrIndexOutOfRange, "%s is not indexable, unable to get object at index %d", v.path, i)
	}
	if obj, ok := v.elems[i]; ok {
		return obj, nil
	}
	h, ok := v.reg.sim.ChildByIndex(v.handle, i)
	if !ok {
		return nil, resolvef(ErrIndexOutOfRange, "%s contains no object at index %d", v.path, i)
	}
	obj, err := v.reg.Resolve(h, fmt.Sprintf("%s[%d]", v.path, i))
	if err != nil {
		return nil, err
	}
	v.elems[i] = obj
	return obj, nil
}

// IndexRange would be slice-style access; not supported.
func (v *ValueArray) IndexRange(lo, hi int) ([]Object, error) {
	return nil, resolvef(ErrUnsupportedIndex, "slice indexing is not supported (%s[%d:%d])", v.name, lo, hi)
}

// SetIndex writes a value to the element at native index i through its
// deferred-write contract.
func (v *ValueArray) SetIndex(i int, val any) error {
	obj, err := v.Index(i)
	if err != nil {
		return err
	}
	target, ok := obj.(Settable)
	if !ok {
		return resolvef(ErrUnsupportedAssignment, "%s[%d] is a %s, not a value object", v.path, i, obj.Kind())
	}
	return target.Set(val)
}

// Values reads every element in declared-range walk order: for a
// descending range (left > right) the walk starts at the left bound and
// steps down, so element 0 of the result is always the leftmost declared
// index.
func (v *ValueArray) Values() ([]any, error) {
	if !v.hasRange {
		return nil, resolvef(ErrIndexOutOfRange, "%s is not indexable", v.path)
	}
	out := make([]any, 0, v.rng.Count())
	for _, i := range v.rng.Indices() {
		obj, err := v.Index(i)
		if err != nil {
			return nil, err
		}
		val, err := readValue(obj)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

// SetValues assigns a full slice of values in the same walk order Values
// uses: input position 0 goes to the leftmost declared index. The input
// length must equal the declared element count exactly; on mismatch no
// element is written.
func (v *ValueArray) SetValues(vals []any) error {
	if !v.hasRange {
		return resolvef(ErrIndexOutOfRange, "%s is not indexable", v.path)
	}
	if len(vals) != v.rng.Count() {
		return resolvef(ErrLengthMismatch, "assigning %d values to %s of length %d", len(vals), v.name, v.rng.Count())
	}
	for pos, i := range v.rng.Indices() {
		if err := v.SetIndex(i, vals[pos]); err != nil {
			return err
		}
	}
	return nil
}

// Members enumerates present elements in range walk order, skipping
// indices the native layer has no object for.
func (v *ValueArray) Members() []Object {
	if !v.hasRange {
		return nil
	}
	var out []Object
	for _, i := range v.rng.Indices() {
		obj, err := v.Index(i)
		if err != nil {
			if errors.Is(err, ErrIndexOutOfRange) {
				v.log.Warn().Int("index", i).Msg("index does not exist")
				continue
			}
			v.log.Warn().Int("index", i).Err(err).Msg("skipping element")
			continue
		}
		out = append(out, obj)
	}
	return out
}

// readValue fetches the current value of any value-bearing proxy.
func readValue(obj Object) (any, error) {
	switch o := obj.(type) {
	case *VectorSignal:
		return o.Value()
	case *IntSignal:
		return o.Value(), nil
	case *RealSignal:
		return o.Value(), nil
	case *StringSignal:
		return o.Value(), nil
	case *Const:
		return o.Value(), nil
	case *ValueArray:
		return o.Values()
	default:
		return nil, resolvef(ErrUnsupportedAssignment, "%s has no readable value", obj.Path())
	}
}
