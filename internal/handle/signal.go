package handle

import (
	"github.com/edaforge/simgraph/internal/bitvec"
	"github.com/edaforge/simgraph/internal/gpi"
	"github.com/edaforge/simgraph/internal/observability"
)

// Packed is a composite assignment value: an ordered element list with a
// per-element bit width, packed most-significant-element-first into one
// vector. Values[0] lands in the most significant position.
type Packed struct {
	Values []uint64
	Bits   int
}

// valueBase is shared by every non-constant value proxy: driver/load
// enumeration and the deferred-write handoff.
type valueBase struct {
	base
}

// Drivers resolves every driver of this signal through the identity
// registry, so a driver reached here is the same proxy as one reached
// through the hierarchy.
func (v *valueBase) Drivers() ([]Object, error) {
	return v.reg.resolveAll(v.reg.sim.Drivers(v.handle))
}

// Loads resolves every load on this signal through the identity registry.
func (v *valueBase) Loads() ([]Object, error) {
	return v.reg.resolveAll(v.reg.sim.Loads(v.handle))
}

func (v *valueBase) deferWrite(target Settable, val any) error {
	if v.reg.sched == nil {
		return resolvef(ErrNoScheduler, "deferred write to %s", v.path)
	}
	v.reg.sched.ScheduleWrite(target, val)
	observability.RecordDeferredWrite()
	return nil
}

// actionTarget is what action unwrapping needs from a signal: cur reads the
// present value, zero is the neutral value a Release carries.
type actionTarget struct {
	cur  func() (any, error)
	zero any
}

// unwrapAction splits a possibly action-wrapped value into the value to
// encode and the native action code. Freeze reads the target's current
// value here, at issue time.
func unwrapAction(v any, t actionTarget) (any, gpi.Action, error) {
	switch a := v.(type) {
	case Deposit:
		return a.Value, gpi.ActionDeposit, nil
	case Force:
		return a.Value, gpi.ActionForce, nil
	case Freeze:
		cur, err := t.cur()
		if err != nil {
			return nil, 0, err
		}
		return cur, gpi.ActionForce, nil
	case Release:
		return t.zero, gpi.ActionRelease, nil
	default:
		return v, gpi.ActionDeposit, nil
	}
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	default:
		return 0, false
	}
}

// VectorSignal is a modifiable bit-vector object (reg, logic, net). Width
// is fixed by the design; reads return a fresh vector every time since the
// native object changes under simulation.
type VectorSignal struct {
	valueBase
}

func newVectorSignal(r *Registry, h gpi.Handle, path string, kind gpi.ObjectKind) *VectorSignal {
	return &VectorSignal{valueBase{newBase(r, h, path, kind)}}
}

// Value reads the current bit pattern.
func (s *VectorSignal) Value() (*bitvec.Vector, error) {
	return bitvec.Parse(s.reg.sim.ReadBits(s.handle))
}

func (s *VectorSignal) target() actionTarget {
	return actionTarget{
		cur:  func() (any, error) { return s.Value() },
		zero: 0,
	}
}

// SetImmediate applies a value to the native object now. Encoding is
// type-directed: small non-negative integers on narrow targets take the
// integer write path, everything else is packed into a bit pattern.
func (s *VectorSignal) SetImmediate(v any) error {
	val, action, err := unwrapAction(v, s.target())
	if err != nil {
		return err
	}

	if i, ok := toInt64(val); ok {
		if i >= 0 && i < 0x7fffffff && s.Len() <= 32 {
			s.reg.sim.WriteInt(s.handle, i, action)
			return nil
		}
		vec, err := vectorFromInt(i, s.Len())
		if err != nil {
			return err
		}
		s.reg.sim.WriteBits(s.handle, vec.String(), action)
		return nil
	}

	switch x := val.(type) {
	case Packed:
		if len(x.Values)*x.Bits != s.Len() {
			return resolvef(ErrUnsupportedAssignment,
				"array of %d entries of %d bits = %d total, target %s is %d bits",
				len(x.Values), x.Bits, len(x.Values)*x.Bits, s.name, s.Len())
		}
		vec, err := bitvec.PackUints(x.Values, x.Bits)
		if err != nil {
			return resolvef(ErrUnsupportedAssignment, "packing value for %s: %v", s.name, err)
		}
		s.reg.sim.WriteBits(s.handle, vec.String(), action)
		return nil
	case *bitvec.Vector:
		s.reg.sim.WriteBits(s.handle, x.String(), action)
		return nil
	case string:
		if _, err := bitvec.Parse(x); err != nil {
			return resolvef(ErrUnsupportedAssignment, "bit pattern for %s: %v", s.name, err)
		}
		s.reg.sim.WriteBits(s.handle, x, action)
		return nil
	default:
		return resolvef(ErrUnsupportedAssignment, "cannot encode %T for %s", val, s.name)
	}
}

// Set records a deferred write, applied at end of the current time step.
func (s *VectorSignal) Set(v any) error { return s.deferWrite(s, v) }

// vectorFromInt builds a width-pinned vector from an integer, using the
// two's complement form for negative values.
func vectorFromInt(i int64, width int) (*bitvec.Vector, error) {
	u := uint64(i)
	if width < 64 {
		mask := uint64(1)<<uint(width) - 1
		if i >= 0 && u & ^mask != 0 {
			return nil, resolvef(ErrUnsupportedAssignment, "value %d does not fit in %d bits", i, width)
		}
		u &= mask
	}
	return bitvec.FromUint(u, width)
}

// IntSignal is a modifiable integer or enumeration object.
type IntSignal struct {
	valueBase
}

func newIntSignal(r *Registry, h gpi.Handle, path string, kind gpi.ObjectKind) *IntSignal {
	return &IntSignal{valueBase{newBase(r, h, path, kind)}}
}

// Value reads the current integer value.
func (s *IntSignal) Value() int64 {
	return s.reg.sim.ReadInt(s.handle)
}

func (s *IntSignal) target() actionTarget {
	return actionTarget{
		cur:  func() (any, error) { return s.Value(), nil },
		zero: 0,
	}
}

func (s *IntSignal) SetImmediate(v any) error {
	val, action, err := unwrapAction(v, s.target())
	if err != nil {
		return err
	}
	if vec, ok := val.(*bitvec.Vector); ok {
		u, err := vec.Uint()
		if err != nil {
			return resolvef(ErrUnsupportedAssignment, "vector for %s: %v", s.name, err)
		}
		s.reg.sim.WriteInt(s.handle, int64(u), action)
		return nil
	}
	i, ok := toInt64(val)
	if !ok {
		return resolvef(ErrUnsupportedAssignment, "cannot encode %T as integer for %s", val, s.name)
	}
	s.reg.sim.WriteInt(s.handle, i, action)
	return nil
}

func (s *IntSignal) Set(v any) error { return s.deferWrite(s, v) }

// RealSignal is a modifiable floating-point object.
type RealSignal struct {
	valueBase
}

func newRealSignal(r *Registry, h gpi.Handle, path string, kind gpi.ObjectKind) *RealSignal {
	return &RealSignal{valueBase{newBase(r, h, path, kind)}}
}

// Value reads the current floating-point value.
func (s *RealSignal) Value() float64 {
	return s.reg.sim.ReadReal(s.handle)
}

func (s *RealSignal) target() actionTarget {
	return actionTarget{
		cur:  func() (any, error) { return s.Value(), nil },
		zero: 0.0,
	}
}

func (s *RealSignal) SetImmediate(v any) error {
	val, action, err := unwrapAction(v, s.target())
	if err != nil {
		return err
	}
	var f float64
	switch x := val.(type) {
	case float32:
		f = float64(x)
	case float64:
		f = x
	default:
		i, ok := toInt64(val)
		if !ok {
			return resolvef(ErrUnsupportedAssignment, "cannot encode %T as real for %s", val, s.name)
		}
		f = float64(i)
	}
	s.reg.sim.WriteReal(s.handle, f, action)
	return nil
}

func (s *RealSignal) Set(v any) error { return s.deferWrite(s, v) }

// StringSignal is a modifiable string object.
type StringSignal struct {
	valueBase
}

func newStringSignal(r *Registry, h gpi.Handle, path string, kind gpi.ObjectKind) *StringSignal {
	return &StringSignal{valueBase{newBase(r, h, path, kind)}}
}

// Value reads the current string value.
func (s *StringSignal) Value() string {
	return s.reg.sim.ReadText(s.handle)
}

func (s *StringSignal) target() actionTarget {
	return actionTarget{
		cur:  func() (any, error) { return s.Value(), nil },
		zero: "",
	}
}

func (s *StringSignal) SetImmediate(v any) error {
	val, action, err := unwrapAction(v, s.target())
	if err != nil {
		return err
	}
	str, ok := val.(string)
	if !ok {
		return resolvef(ErrUnsupportedAssignment, "cannot encode %T as string for %s", val, s.name)
	}
	s.reg.sim.WriteText(s.handle, str, action)
	return nil
}

func (s *StringSignal) Set(v any) error { return s.deferWrite(s, v) }
