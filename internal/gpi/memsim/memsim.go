// Package memsim is an in-memory implementation of the native simulation
// interface. It backs the command-line tools and the test suite with a
// design hierarchy described in TOML or built programmatically, and models
// the deposit/force/release write semantics of a real simulator.
package memsim

import (
	"fmt"
	"strings"

	"github.com/edaforge/simgraph/internal/gpi"
)

// node is one object in the elaborated hierarchy.
type node struct {
	h        gpi.Handle
	fullname string
	local    string // child-lookup key within the parent
	kind     gpi.ObjectKind
	konst    bool
	defName  string
	defFile  string

	children []*node
	byLocal  map[string]*node
	byIndex  map[int]*node

	rng   *gpi.Range
	width int // bit width for vector kinds

	// Underlying value plus a force overlay. Reads see the overlay while
	// it is active; deposits land underneath it.
	ival   int64
	rval   float64
	sval   string
	bits   string
	forced bool
	fival  int64
	frval  float64
	fsval  string
	fbits  string

	drivers []gpi.Handle
	loads   []gpi.Handle
}

// Sim implements gpi.Interface over an in-memory hierarchy.
type Sim struct {
	root    *node
	nodes   map[gpi.Handle]*node
	lookups map[string]int // ChildByName call counts, for cache tests
	next    gpi.Handle
}

// Root returns the handle of the design top.
func (s *Sim) Root() gpi.Handle { return s.root.h }

// HandleAt looks up a handle by logical dotted path (with optional [i]
// index suffixes), for tests and tools.
func (s *Sim) HandleAt(path string) (gpi.Handle, bool) {
	cur := s.root
	if path == s.root.local {
		return cur.h, true
	}
	path = strings.TrimPrefix(path, s.root.local+".")
	for _, seg := range strings.Split(path, ".") {
		name := seg
		var idxs []int
		if open := strings.IndexByte(seg, '['); open >= 0 {
			name = seg[:open]
			for _, part := range strings.Split(seg[open+1:], "[") {
				part = strings.TrimSuffix(part, "]")
				var i int
				if _, err := fmt.Sscanf(part, "%d", &i); err != nil {
					return 0, false
				}
				idxs = append(idxs, i)
			}
		}
		if name != "" {
			next, ok := cur.byLocal[name]
			if !ok {
				return 0, false
			}
			cur = next
		}
		for _, i := range idxs {
			next, ok := cur.byIndex[i]
			if !ok {
				return 0, false
			}
			cur = next
		}
	}
	return cur.h, true
}

// LookupsFor reports how many ChildByName queries have been issued for a
// given child name, across all scopes.
func (s *Sim) LookupsFor(name string) int { return s.lookups[name] }

func (s *Sim) node(h gpi.Handle) *node {
	n, ok := s.nodes[h]
	if !ok {
		panic(fmt.Sprintf("memsim: unknown handle %d", h))
	}
	return n
}

func (s *Sim) NameOf(h gpi.Handle) string { return s.node(h).fullname }
func (s *Sim) TypeOf(h gpi.Handle) gpi.ObjectKind { return s.node(h).kind }
func (s *Sim) IsConst(h gpi.Handle) bool { return s.node(h).konst }
func (s *Sim) DefName(h gpi.Handle) string { return s.node(h).defName }
func (s *Sim) DefFile(h gpi.Handle) string { return s.node(h).defFile }

func (s *Sim) ChildByName(h gpi.Handle, name string) (gpi.Handle, bool) {
	s.lookups[name]++
	n := s.node(h)
	// Extended identifiers arrive wrapped in backslashes.
	key := strings.Trim(name, "\\")
	child, ok := n.byLocal[key]
	if !ok {
		return 0, false
	}
	return child.h, true
}

func (s *Sim) ChildByIndex(h gpi.Handle, i int) (gpi.Handle, bool) {
	child, ok := s.node(h).byIndex[i]
	if !ok {
		return 0, false
	}
	return child.h, true
}

func (s *Sim) RangeOf(h gpi.Handle) (gpi.Range, bool) {
	n := s.node(h)
	if n.rng == nil {
		return gpi.Range{}, false
	}
	return *n.rng, true
}

func (s *Sim) ElemCount(h gpi.Handle) int {
	n := s.node(h)
	switch {
	case n.kind == gpi.KindReg || n.kind == gpi.KindNet:
		return n.width
	case n.rng != nil:
		return n.rng.Count()
	case n.kind == gpi.KindString:
		return len(n.sval)
	default:
		return len(n.children)
	}
}

func (s *Sim) Children(h gpi.Handle) []gpi.Handle {
	n := s.node(h)
	out := make([]gpi.Handle, len(n.children))
	for i, c := range n.children {
		out[i] = c.h
	}
	return out
}

func (s *Sim) Drivers(h gpi.Handle) []gpi.Handle { return s.node(h).drivers }
func (s *Sim) Loads(h gpi.Handle) []gpi.Handle { return s.node(h).loads }

func (s *Sim) ReadInt(h gpi.Handle) int64 {
	n := s.node(h)
	if n.forced {
		return n.fival
	}
	return n.ival
}

func (s *Sim) ReadReal(h gpi.Handle) float64 {
	n := s.node(h)
	if n.forced {
		return n.frval
	}
	return n.rval
}

func (s *Sim) ReadText(h gpi.Handle) string {
	n := s.node(h)
	if n.forced {
		return n.fsval
	}
	return n.sval
}

func (s *Sim) ReadBits(h gpi.Handle) string {
	n := s.node(h)
	if n.forced {
		return n.fbits
	}
	return n.bits
}

func (s *Sim) WriteInt(h gpi.Handle, v int64, a gpi.Action) {
	n := s.node(h)
	switch a {
	case gpi.ActionForce:
		n.forced = true
		n.fival = v
		n.fbits = intToBinstr(v, n.width)
	case gpi.ActionRelease:
		n.forced = false
	default:
		n.ival = v
		n.bits = intToBinstr(v, n.width)
	}
}

func (s *Sim) WriteReal(h gpi.Handle, v float64, a gpi.Action) {
	n := s.node(h)
	switch a {
	case gpi.ActionForce:
		n.forced = true
		n.frval = v
	case gpi.ActionRelease:
		n.forced = false
	default:
		n.rval = v
	}
}

func (s *Sim) WriteText(h gpi.Handle, v string, a gpi.Action) {
	n := s.node(h)
	switch a {
	case gpi.ActionForce:
		n.forced = true
		n.fsval = v
	case gpi.ActionRelease:
		n.forced = false
	default:
		n.sval = v
	}
}

func (s *Sim) WriteBits(h gpi.Handle, binstr string, a gpi.Action) {
	n := s.node(h)
	bits := fitBinstr(binstr, n.width)
	switch a {
	case gpi.ActionForce:
		n.forced = true
		n.fbits = bits
		n.fival = binstrToInt(bits)
	case gpi.ActionRelease:
		n.forced = false
	default:
		n.bits = bits
		n.ival = binstrToInt(bits)
	}
}

// intToBinstr renders the low `width` bits of v, most significant first.
func intToBinstr(v int64, width int) string {
	if width <= 0 {
		width = 32
	}
	u := uint64(v)
	b := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		if u&1 != 0 {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
		u >>= 1
	}
	return string(b)
}

// binstrToInt treats x and z digits as 0.
func binstrToInt(s string) int64 {
	var out int64
	for i := 0; i < len(s); i++ {
		out <<= 1
		if s[i] == '1' {
			out |= 1
		}
	}
	return out
}

// fitBinstr left-truncates or zero-pads a binstr to the node width.
func fitBinstr(s string, width int) string {
	if width <= 0 || len(s) == width {
		return s
	}
	if len(s) > width {
		return s[len(s)-width:]
	}
	return strings.Repeat("0", width-len(s)) + s
}
