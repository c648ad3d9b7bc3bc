package memsim

import (
	"fmt"
	"strings"

	"github.com/edaforge/simgraph/internal/gpi"
)

// Member naming styles for generate arrays, matching the encodings real
// backends produce.
const (
	StyleBracket    = "bracket"    // name[N]
	StyleParen      = "paren"      // name(N)
	StyleUnderscore = "underscore" // name__N
)

// Builder assembles a Sim programmatically. Paths are logical dotted paths
// rooted at the top name ("top.u_core.counter"); parents must be declared
// before children. The first error sticks and is reported by Build.
type Builder struct {
	sim   *Sim
	paths map[string]*node
	err   error
}

func NewBuilder(top string) *Builder {
	s := &Sim{
		nodes:   make(map[gpi.Handle]*node),
		lookups: make(map[string]int),
	}
	b := &Builder{sim: s, paths: make(map[string]*node)}
	root := b.newNode(top, top, gpi.KindModule)
	s.root = root
	b.paths[top] = root
	return b
}

func (b *Builder) newNode(fullname, local string, kind gpi.ObjectKind) *node {
	b.sim.next++
	n := &node{
		h:        b.sim.next,
		fullname: fullname,
		local:    local,
		kind:     kind,
		byLocal:  make(map[string]*node),
		byIndex:  make(map[int]*node),
	}
	b.sim.nodes[n.h] = n
	return n
}

// attach creates a child node under the parent of path. The native fullname
// defaults to the logical path; genarray members override it.
func (b *Builder) attach(path string, kind gpi.ObjectKind) *node {
	if b.err != nil {
		return &node{byLocal: map[string]*node{}, byIndex: map[int]*node{}}
	}
	dot := strings.LastIndexByte(path, '.')
	if dot < 0 {
		b.err = fmt.Errorf("memsim: path %q has no parent", path)
		return &node{byLocal: map[string]*node{}, byIndex: map[int]*node{}}
	}
	parent, ok := b.paths[path[:dot]]
	if !ok {
		b.err = fmt.Errorf("memsim: parent of %q not declared", path)
		return &node{byLocal: map[string]*node{}, byIndex: map[int]*node{}}
	}
	local := path[dot+1:]
	if _, dup := parent.byLocal[local]; dup {
		b.err = fmt.Errorf("memsim: duplicate object %q", path)
		return &node{byLocal: map[string]*node{}, byIndex: map[int]*node{}}
	}
	n := b.newNode(path, local, kind)
	parent.children = append(parent.children, n)
	parent.byLocal[local] = n
	b.paths[path] = n
	return n
}

// Module declares a hierarchy scope.
func (b *Builder) Module(path string) *Builder {
	b.attach(path, gpi.KindModule)
	return b
}

// Struct declares a structure scope.
func (b *Builder) Struct(path string) *Builder {
	b.attach(path, gpi.KindStructure)
	return b
}

// Reg declares a modifiable vector variable of the given width.
func (b *Builder) Reg(path string, width int, init uint64) *Builder {
	n := b.attach(path, gpi.KindReg)
	n.width = width
	n.bits = intToBinstr(int64(init), width)
	n.ival = int64(init)
	return b
}

// Net declares a modifiable vector net of the given width.
func (b *Builder) Net(path string, width int, init uint64) *Builder {
	n := b.attach(path, gpi.KindNet)
	n.width = width
	n.bits = intToBinstr(int64(init), width)
	n.ival = int64(init)
	return b
}

// Integer declares a modifiable integer variable.
func (b *Builder) Integer(path string, init int64) *Builder {
	n := b.attach(path, gpi.KindInteger)
	n.ival = init
	n.width = 32
	n.bits = intToBinstr(init, 32)
	return b
}

// Enum declares a modifiable enumeration variable.
func (b *Builder) Enum(path string, init int64) *Builder {
	n := b.attach(path, gpi.KindEnum)
	n.ival = init
	n.width = 32
	n.bits = intToBinstr(init, 32)
	return b
}

// Real declares a modifiable floating-point variable.
func (b *Builder) Real(path string, init float64) *Builder {
	n := b.attach(path, gpi.KindReal)
	n.rval = init
	return b
}

// Str declares a modifiable string variable.
func (b *Builder) Str(path string, init string) *Builder {
	n := b.attach(path, gpi.KindString)
	n.sval = init
	return b
}

// Unknown declares an object with a native type this layer has no proxy
// mapping for, to exercise the skip/propagate behavior.
func (b *Builder) Unknown(path string) *Builder {
	b.attach(path, gpi.KindUnknown)
	return b
}

// MarkConst flags an already-declared object as an elaboration constant.
func (b *Builder) MarkConst(path string) *Builder {
	if b.err != nil {
		return b
	}
	n, ok := b.paths[path]
	if !ok {
		b.err = fmt.Errorf("memsim: MarkConst: %q not declared", path)
		return b
	}
	n.konst = true
	return b
}

// WithDef attaches definition-source metadata to an object.
func (b *Builder) WithDef(path, defName, defFile string) *Builder {
	if b.err != nil {
		return b
	}
	n, ok := b.paths[path]
	if !ok {
		b.err = fmt.Errorf("memsim: WithDef: %q not declared", path)
		return b
	}
	n.defName = defName
	n.defFile = defFile
	return b
}

// NetArray declares a value array with declared bounds (left, right) and
// one vector element of elemWidth bits per declared index. Elements are
// addressable by index and by their bracketed local name.
func (b *Builder) NetArray(path string, left, right, elemWidth int) *Builder {
	n := b.attach(path, gpi.KindNetArray)
	rng := gpi.Range{Left: left, Right: right}
	n.rng = &rng
	for _, i := range rng.Indices() {
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		elem := b.newNode(elemPath, fmt.Sprintf("%s[%d]", n.local, i), gpi.KindNet)
		elem.width = elemWidth
		elem.bits = intToBinstr(0, elemWidth)
		n.children = append(n.children, elem)
		n.byIndex[i] = elem
		b.paths[elemPath] = elem
	}
	return b
}

// GenArray declares a generate array of count module scopes, indices
// 0..count-1, with member names encoded per the given naming style.
func (b *Builder) GenArray(path string, count int, style string) *Builder {
	n := b.attach(path, gpi.KindGenArray)
	for i := 0; i < count; i++ {
		var local string
		switch style {
		case StyleUnderscore:
			local = fmt.Sprintf("%s__%d", n.local, i)
		case StyleParen:
			local = fmt.Sprintf("%s(%d)", n.local, i)
		case StyleBracket:
			local = fmt.Sprintf("%s[%d]", n.local, i)
		default:
			b.err = fmt.Errorf("memsim: GenArray %q: unknown style %q", path, style)
			return b
		}
		logical := fmt.Sprintf("%s[%d]", path, i)
		parentPath := path[:strings.LastIndexByte(path, '.')]
		member := b.newNode(parentPath+"."+local, local, gpi.KindModule)
		n.children = append(n.children, member)
		n.byIndex[i] = member
		b.paths[logical] = member
	}
	return b
}

// DropGenMember removes one generate member after declaration, leaving a
// hole in the index space.
func (b *Builder) DropGenMember(path string, i int) *Builder {
	if b.err != nil {
		return b
	}
	n, ok := b.paths[path]
	if !ok || n.kind != gpi.KindGenArray {
		b.err = fmt.Errorf("memsim: DropGenMember: %q is not a genarray", path)
		return b
	}
	member, ok := n.byIndex[i]
	if !ok {
		b.err = fmt.Errorf("memsim: DropGenMember: %q has no index %d", path, i)
		return b
	}
	delete(n.byIndex, i)
	kept := n.children[:0]
	for _, c := range n.children {
		if c != member {
			kept = append(kept, c)
		}
	}
	n.children = kept
	return b
}

// Driver records a driver handle on a signal.
func (b *Builder) Driver(sigPath, drvPath string) *Builder {
	return b.connect(sigPath, drvPath, true)
}

// Load records a load handle on a signal.
func (b *Builder) Load(sigPath, ldPath string) *Builder {
	return b.connect(sigPath, ldPath, false)
}

func (b *Builder) connect(sigPath, otherPath string, driver bool) *Builder {
	if b.err != nil {
		return b
	}
	sig, ok := b.paths[sigPath]
	if !ok {
		b.err = fmt.Errorf("memsim: connect: %q not declared", sigPath)
		return b
	}
	other, ok := b.paths[otherPath]
	if !ok {
		b.err = fmt.Errorf("memsim: connect: %q not declared", otherPath)
		return b
	}
	if driver {
		sig.drivers = append(sig.drivers, other.h)
	} else {
		sig.loads = append(sig.loads, other.h)
	}
	return b
}

// Build returns the finished Sim or the first declaration error.
func (b *Builder) Build() (*Sim, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.sim, nil
}
