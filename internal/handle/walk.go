package handle

import (
	"strconv"
	"strings"
)

// Lookup walks a dotted path with optional [i] index suffixes from a
// starting object, e.g. "u_core.mem[3].q". It is a convenience for tools
// and tests; programs navigating the graph directly should use Child and
// Index, which this delegates to.
func Lookup(root Object, path string) (Object, error) {
	cur := root
	if path == "" {
		return cur, nil
	}
	for _, seg := range strings.Split(path, ".") {
		name, idxs, err := splitSegment(seg)
		if err != nil {
			return nil, err
		}
		if name != "" {
			scope, ok := cur.(*Scope)
			if !ok {
				return nil, resolvef(ErrNoSuchChild, "%s is a %s, cannot look up %q", cur.Path(), cur.Kind(), name)
			}
			next, err := scope.Child(name)
			if err != nil {
				return nil, err
			}
			cur = next
		}
		for _, i := range idxs {
			next, err := indexInto(cur, i)
			if err != nil {
				return nil, err
			}
			cur = next
		}
	}
	return cur, nil
}

func indexInto(obj Object, i int) (Object, error) {
	switch o := obj.(type) {
	case *ScopeArray:
		return o.Index(i)
	case *ValueArray:
		return o.Index(i)
	default:
		return nil, resolvef(ErrIndexOutOfRange, "%s is not indexable", obj.Path())
	}
}

// splitSegment splits "mem[3][1]" into ("mem", [3, 1]).
func splitSegment(seg string) (string, []int, error) {
	open := strings.IndexByte(seg, '[')
	if open < 0 {
		return seg, nil, nil
	}
	name := seg[:open]
	var idxs []int
	rest := seg[open:]
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, resolvef(ErrUnsupportedIndex, "malformed path segment %q", seg)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return "", nil, resolvef(ErrUnsupportedIndex, "malformed path segment %q", seg)
		}
		i, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, resolvef(ErrUnsupportedIndex, "non-integer index in %q", seg)
		}
		idxs = append(idxs, i)
		rest = rest[end+1:]
	}
	return name, idxs, nil
}
