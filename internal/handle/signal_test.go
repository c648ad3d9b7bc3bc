package handle_test

import (
	"errors"
	"testing"

	"github.com/edaforge/simgraph/internal/handle"
)

func vectorSignal(t *testing.T, name string) (*handle.VectorSignal, *testFixture) {
	t.Helper()
	sim := testSim(t)
	root, writer := newGraph(t, sim)
	obj, err := root.Child(name)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	sig, ok := obj.(*handle.VectorSignal)
	if !ok {
		t.Fatalf("%s resolved as %T", name, obj)
	}
	return sig, &testFixture{sim: sim, writer: writer}
}

func TestVectorRoundTrip(t *testing.T) {
	sig, _ := vectorSignal(t, "count")

	if err := sig.SetImmediate(200); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := sig.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v.Len() != 8 {
		t.Fatalf("width: got %d want 8", v.Len())
	}
	u, err := v.Uint()
	if err != nil {
		t.Fatalf("uint: %v", err)
	}
	if u != 200 {
		t.Fatalf("value: got %d want 200", u)
	}
}

func TestWideVectorTakesBitPath(t *testing.T) {
	sig, _ := vectorSignal(t, "bus")

	const wide = uint64(0x12_3456_789A)
	if err := sig.SetImmediate(wide); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := sig.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v.Len() != 40 {
		t.Fatalf("width: got %d want 40", v.Len())
	}
	u, err := v.Uint()
	if err != nil {
		t.Fatalf("uint: %v", err)
	}
	if u != wide {
		t.Fatalf("value: got %#x want %#x", u, wide)
	}
}

func TestPackedAssignment(t *testing.T) {
	sig, fx := vectorSignal(t, "count")

	if err := sig.SetImmediate(handle.Packed{Values: []uint64{1, 2}, Bits: 4}); err != nil {
		t.Fatalf("set packed: %v", err)
	}
	h, _ := fx.sim.HandleAt("top.count")
	if got := fx.sim.ReadBits(h); got != "00010010" {
		t.Fatalf("bits: got %q want %q", got, "00010010")
	}
}

func TestPackedLengthMustMatchTarget(t *testing.T) {
	sig, _ := vectorSignal(t, "count")

	err := sig.SetImmediate(handle.Packed{Values: []uint64{1, 2, 3}, Bits: 4})
	if !errors.Is(err, handle.ErrUnsupportedAssignment) {
		t.Fatalf("expected ErrUnsupportedAssignment, got %v", err)
	}
}

func TestUnsupportedAssignmentKind(t *testing.T) {
	sig, _ := vectorSignal(t, "count")

	err := sig.SetImmediate(struct{ X int }{1})
	if !errors.Is(err, handle.ErrUnsupportedAssignment) {
		t.Fatalf("expected ErrUnsupportedAssignment, got %v", err)
	}
}

func TestForceReleaseRoundTrip(t *testing.T) {
	sig, _ := vectorSignal(t, "count") // initial value 42

	if err := sig.SetImmediate(handle.Force{Value: 5}); err != nil {
		t.Fatalf("force: %v", err)
	}
	v, _ := sig.Value()
	if u, _ := v.Uint(); u != 5 {
		t.Fatalf("forced read: got %d want 5", u)
	}

	if err := sig.SetImmediate(handle.Release{}); err != nil {
		t.Fatalf("release: %v", err)
	}
	v, _ = sig.Value()
	if u, _ := v.Uint(); u != 42 {
		t.Fatalf("released read: got %d want 42", u)
	}
}

func TestFreezePinsValueAtIssueTime(t *testing.T) {
	sig, _ := vectorSignal(t, "count")

	if err := sig.SetImmediate(7); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := sig.SetImmediate(handle.Freeze{}); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	// A later deposit lands under the hold.
	if err := sig.SetImmediate(9); err != nil {
		t.Fatalf("deposit under hold: %v", err)
	}
	v, _ := sig.Value()
	if u, _ := v.Uint(); u != 7 {
		t.Fatalf("frozen read: got %d want 7", u)
	}
	if err := sig.SetImmediate(handle.Release{}); err != nil {
		t.Fatalf("release: %v", err)
	}
	v, _ = sig.Value()
	if u, _ := v.Uint(); u != 9 {
		t.Fatalf("released read: got %d want 9", u)
	}
}

func TestDeferredFreezeCapturesAtFlush(t *testing.T) {
	sig, fx := vectorSignal(t, "count")

	if err := sig.Set(handle.Freeze{}); err != nil {
		t.Fatalf("schedule freeze: %v", err)
	}
	// The value changes between intent construction and the flush; the
	// hold must capture the flush-time value.
	h, _ := fx.sim.HandleAt("top.count")
	fx.sim.WriteInt(h, 13, 0)

	if err := fx.writer.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	v, _ := sig.Value()
	if u, _ := v.Uint(); u != 13 {
		t.Fatalf("frozen read: got %d want 13", u)
	}

	fx.sim.WriteInt(h, 99, 0)
	v, _ = sig.Value()
	if u, _ := v.Uint(); u != 13 {
		t.Fatalf("hold not active: got %d want 13", u)
	}
	if err := sig.SetImmediate(handle.Release{}); err != nil {
		t.Fatalf("release: %v", err)
	}
	v, _ = sig.Value()
	if u, _ := v.Uint(); u != 99 {
		t.Fatalf("released read: got %d want 99", u)
	}
}

func TestIntRealStringSignals(t *testing.T) {
	sim := testSim(t)
	root, _ := newGraph(t, sim)

	core, err := root.Child("u_core")
	if err != nil {
		t.Fatalf("u_core: %v", err)
	}
	scope := core.(*handle.Scope)

	cyc, _ := scope.Child("cycles")
	ci := cyc.(*handle.IntSignal)
	if ci.Value() != 7 {
		t.Fatalf("cycles: got %d want 7", ci.Value())
	}
	if err := ci.SetImmediate(11); err != nil {
		t.Fatalf("set cycles: %v", err)
	}
	if ci.Value() != 11 {
		t.Fatalf("cycles after set: got %d", ci.Value())
	}
	if err := ci.SetImmediate(3.5); !errors.Is(err, handle.ErrUnsupportedAssignment) {
		t.Fatalf("expected ErrUnsupportedAssignment for float to integer, got %v", err)
	}

	gain, _ := scope.Child("gain")
	gr := gain.(*handle.RealSignal)
	if gr.Value() != 1.5 {
		t.Fatalf("gain: got %g", gr.Value())
	}
	if err := gr.SetImmediate(2.25); err != nil {
		t.Fatalf("set gain: %v", err)
	}
	if gr.Value() != 2.25 {
		t.Fatalf("gain after set: got %g", gr.Value())
	}

	tag, _ := scope.Child("tag")
	ts := tag.(*handle.StringSignal)
	if ts.Value() != "boot" {
		t.Fatalf("tag: got %q", ts.Value())
	}
	if err := ts.SetImmediate("run"); err != nil {
		t.Fatalf("set tag: %v", err)
	}
	if ts.Value() != "run" {
		t.Fatalf("tag after set: got %q", ts.Value())
	}
	if err := ts.SetImmediate(4); !errors.Is(err, handle.ErrUnsupportedAssignment) {
		t.Fatalf("expected ErrUnsupportedAssignment for int to string, got %v", err)
	}
}

func TestEnumSignalUsesIntegerPath(t *testing.T) {
	sim := testSim(t)
	root, _ := newGraph(t, sim)

	core, _ := root.Child("u_core")
	state, err := core.(*handle.Scope).Child("state")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	es, ok := state.(*handle.IntSignal)
	if !ok {
		t.Fatalf("enum resolved as %T", state)
	}
	if es.Value() != 2 {
		t.Fatalf("state: got %d want 2", es.Value())
	}
}
