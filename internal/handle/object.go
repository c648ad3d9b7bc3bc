// Package handle implements the proxy-object layer over the native
// simulation interface: a typed, navigable graph mirroring the elaborated
// design hierarchy, with exactly one proxy per native handle.
package handle

import (
	"github.com/rs/zerolog"

	"github.com/edaforge/simgraph/internal/gpi"
)

// Object is the common surface of every proxy. Two Objects are the same
// design object iff their handles are equal; the Registry guarantees the
// stronger property that they are then the same Go value.
type Object interface {
	Handle() gpi.Handle
	Name() string
	Path() string
	Kind() gpi.ObjectKind
	DefName() string
	DefFile() string

	// Len is the bit width for vectors and the element count for
	// containers, as reported by the native layer (lazily cached;
	// ScopeArray substitutes its discovered child count).
	Len() int

	String() string
}

// Settable is a proxy that accepts writes: every modifiable signal, value
// arrays, and Const (which accepts them only to reject them).
type Settable interface {
	Object

	// SetImmediate applies the value to the native layer now, unwrapping
	// any write action first.
	SetImmediate(v any) error

	// Set records a deferred write with the scheduler collaborator, to be
	// applied at end of the current time step. Last write before the flush
	// wins; that collapsing is the scheduler's contract, not this layer's.
	Set(v any) error
}

// Writer is the deferred-write collaborator consumed by Set. The scheduler
// package provides the real implementation.
type Writer interface {
	ScheduleWrite(target Settable, value any)
}

// base carries the state shared by every proxy variant. Constructors must
// not resolve other handles; the Registry registers a proxy as soon as its
// constructor returns, and nothing may observe a half-built graph.
type base struct {
	reg    *Registry
	handle gpi.Handle
	name   string
	path   string
	kind   gpi.ObjectKind
	def    string
	file   string
	length int // -1 until first queried
	log    zerolog.Logger
}

func newBase(r *Registry, h gpi.Handle, path string, kind gpi.ObjectKind) base {
	name := r.sim.NameOf(h)
	if path == "" {
		path = name
	}
	return base{
		reg:    r,
		handle: h,
		name:   name,
		path:   path,
		kind:   kind,
		def:    r.sim.DefName(h),
		file:   r.sim.DefFile(h),
		length: -1,
		log:    r.log.With().Str("path", path).Logger(),
	}
}

func (b *base) Handle() gpi.Handle { return b.handle }
func (b *base) Name() string { return b.name }
func (b *base) Path() string { return b.path }
func (b *base) Kind() gpi.ObjectKind { return b.kind }
func (b *base) DefName() string { return b.def }
func (b *base) DefFile() string { return b.file }
func (b *base) String() string { return b.path }

func (b *base) Len() int {
	if b.length < 0 {
		b.length = b.reg.sim.ElemCount(b.handle)
	}
	return b.length
}

// Equal reports whether two proxies stand for the same native object.
func Equal(a, b Object) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Handle() == b.Handle()
}
