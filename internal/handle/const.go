package handle

import (
	"github.com/edaforge/simgraph/internal/bitvec"
	"github.com/edaforge/simgraph/internal/gpi"
)

// Const is a read-only proxy for an elaboration-time constant (parameter,
// generic). The value is read exactly once at construction; it cannot
// change during simulation, so it is never refreshed.
type Const struct {
	base
	value any
}

func newConst(r *Registry, h gpi.Handle, path string, kind gpi.ObjectKind) *Const {
	c := &Const{base: newBase(r, h, path, kind)}
	switch kind {
	case gpi.KindInteger, gpi.KindEnum:
		c.value = r.sim.ReadInt(h)
	case gpi.KindReal:
		c.value = r.sim.ReadReal(h)
	case gpi.KindString:
		c.value = r.sim.ReadText(h)
	default:
		raw := r.sim.ReadBits(h)
		vec, err := bitvec.Parse(raw)
		if err != nil {
			// Some backends hand back non-binary text here; keep it raw.
			c.value = raw
			break
		}
		c.value = vec
	}
	return c
}

// Value returns the snapshot captured at construction.
func (c *Const) Value() any { return c.value }

// SetImmediate always fails; constants cannot be written.
func (c *Const) SetImmediate(v any) error {
	return resolvef(ErrReadOnlyValue, "not permissible to set constant %s", c.path)
}

// Set always fails; constants cannot be written, deferred or otherwise.
func (c *Const) Set(v any) error {
	return resolvef(ErrReadOnlyValue, "not permissible to set constant %s", c.path)
}
