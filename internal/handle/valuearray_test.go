package handle_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/edaforge/simgraph/internal/bitvec"
	"github.com/edaforge/simgraph/internal/gpi/memsim"
	"github.com/edaforge/simgraph/internal/handle"
	"github.com/edaforge/simgraph/internal/sched"
)

type testFixture struct {
	sim    *memsim.Sim
	writer *sched.Scheduler
}

func ascendingArraySim(t *testing.T) *memsim.Sim {
	t.Helper()
	b := memsim.NewBuilder("top")
	b.NetArray("top.buf", 0, 3, 8)
	sim, err := b.Build()
	if err != nil {
		t.Fatalf("build sim: %v", err)
	}
	return sim
}

func memArray(t *testing.T) (*handle.ValueArray, *testFixture) {
	t.Helper()
	sim := testSim(t)
	root, writer := newGraph(t, sim)
	obj, err := root.Child("mem")
	if err != nil {
		t.Fatalf("mem: %v", err)
	}
	arr, ok := obj.(*handle.ValueArray)
	if !ok {
		t.Fatalf("mem resolved as %T", obj)
	}
	return arr, &testFixture{sim: sim, writer: writer}
}

func TestDescendingBulkGet(t *testing.T) {
	arr, fx := memArray(t)

	// Elements at native indices 7..0 hold 10..17 respectively.
	for pos, idx := range []int{7, 6, 5, 4, 3, 2, 1, 0} {
		h, ok := fx.sim.HandleAt(fmt.Sprintf("top.mem[%d]", idx))
		if !ok {
			t.Fatalf("no handle for index %d", idx)
		}
		fx.sim.WriteInt(h, int64(10+pos), 0)
	}

	vals, err := arr.Values()
	if err != nil {
		t.Fatalf("values: %v", err)
	}
	if len(vals) != 8 {
		t.Fatalf("length: got %d want 8", len(vals))
	}
	for pos, v := range vals {
		vec, ok := v.(*bitvec.Vector)
		if !ok {
			t.Fatalf("element %d is %T", pos, v)
		}
		u, err := vec.Uint()
		if err != nil {
			t.Fatalf("element %d: %v", pos, err)
		}
		if u != uint64(10+pos) {
			t.Fatalf("element %d: got %d want %d", pos, u, 10+pos)
		}
	}
}

func TestDescendingBulkSet(t *testing.T) {
	arr, fx := memArray(t)

	vals := make([]any, 8)
	for i := range vals {
		vals[i] = i
	}
	if err := arr.SetValues(vals); err != nil {
		t.Fatalf("set values: %v", err)
	}
	if err := fx.writer.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	// Walk order maps input position 0 to the left bound (native index 7).
	h7, _ := fx.sim.HandleAt("top.mem[7]")
	h0, _ := fx.sim.HandleAt("top.mem[0]")
	if got := fx.sim.ReadInt(h7); got != 0 {
		t.Fatalf("native index 7: got %d want 0", got)
	}
	if got := fx.sim.ReadInt(h0); got != 7 {
		t.Fatalf("native index 0: got %d want 7", got)
	}
}

func TestLengthMismatchWritesNothing(t *testing.T) {
	arr, fx := memArray(t)

	short := make([]any, 7)
	for i := range short {
		short[i] = i
	}
	if err := arr.SetValues(short); !errors.Is(err, handle.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	if n := fx.writer.Pending(); n != 0 {
		t.Fatalf("%d writes buffered despite mismatch", n)
	}

	long := make([]any, 9)
	for i := range long {
		long[i] = i
	}
	if err := arr.SetValues(long); !errors.Is(err, handle.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestAscendingWalkOrder(t *testing.T) {
	sim := ascendingArraySim(t)
	root, _ := newGraph(t, sim)

	obj, err := root.Child("buf")
	if err != nil {
		t.Fatalf("buf: %v", err)
	}
	arr := obj.(*handle.ValueArray)

	for i := 0; i <= 3; i++ {
		h, _ := sim.HandleAt(fmt.Sprintf("top.buf[%d]", i))
		sim.WriteInt(h, int64(20+i), 0)
	}
	vals, err := arr.Values()
	if err != nil {
		t.Fatalf("values: %v", err)
	}
	for pos, v := range vals {
		u, _ := v.(*bitvec.Vector).Uint()
		if u != uint64(20+pos) {
			t.Fatalf("position %d: got %d want %d", pos, u, 20+pos)
		}
	}
}

func TestValueArrayIndexErrors(t *testing.T) {
	arr, _ := memArray(t)

	if _, err := arr.Index(8); !errors.Is(err, handle.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := arr.IndexRange(0, 3); !errors.Is(err, handle.ErrUnsupportedIndex) {
		t.Fatalf("expected ErrUnsupportedIndex, got %v", err)
	}
}

func TestValueArraySetIndexDefers(t *testing.T) {
	arr, fx := memArray(t)

	if err := arr.SetIndex(3, 5); err != nil {
		t.Fatalf("set index: %v", err)
	}
	h, _ := fx.sim.HandleAt("top.mem[3]")
	if got := fx.sim.ReadInt(h); got != 0 {
		t.Fatalf("write visible before flush: %d", got)
	}
	if err := fx.writer.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := fx.sim.ReadInt(h); got != 5 {
		t.Fatalf("after flush: got %d want 5", got)
	}
}
