package memsim_test

import (
	"testing"

	"github.com/edaforge/simgraph/internal/gpi"
	"github.com/edaforge/simgraph/internal/gpi/memsim"
)

func buildSim(t *testing.T) *memsim.Sim {
	t.Helper()
	b := memsim.NewBuilder("top")
	b.Reg("top.count", 8, 42).
		Str("top.tag", "boot").
		NetArray("top.mem", 7, 0, 8)
	sim, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return sim
}

func TestForceOverlay(t *testing.T) {
	sim := buildSim(t)
	h, ok := sim.HandleAt("top.count")
	if !ok {
		t.Fatalf("no handle for top.count")
	}

	sim.WriteInt(h, 5, gpi.ActionForce)
	if got := sim.ReadInt(h); got != 5 {
		t.Fatalf("forced read: got %d want 5", got)
	}
	// Deposits land under the overlay and stay invisible until release.
	sim.WriteInt(h, 9, gpi.ActionDeposit)
	if got := sim.ReadInt(h); got != 5 {
		t.Fatalf("deposit punched through force: got %d", got)
	}
	sim.WriteInt(h, 0, gpi.ActionRelease)
	if got := sim.ReadInt(h); got != 9 {
		t.Fatalf("released read: got %d want 9", got)
	}
}

func TestWriteBitsFitsNodeWidth(t *testing.T) {
	sim := buildSim(t)
	h, _ := sim.HandleAt("top.count")

	sim.WriteBits(h, "101", gpi.ActionDeposit)
	if got := sim.ReadBits(h); got != "00000101" {
		t.Fatalf("short binstr: got %q", got)
	}
	if got := sim.ReadInt(h); got != 5 {
		t.Fatalf("int view: got %d want 5", got)
	}

	sim.WriteBits(h, "1111111100000001", gpi.ActionDeposit)
	if got := sim.ReadBits(h); got != "00000001" {
		t.Fatalf("long binstr keeps high bits: got %q", got)
	}
}

func TestHandleAtIndexPaths(t *testing.T) {
	sim := buildSim(t)

	h, ok := sim.HandleAt("top.mem[3]")
	if !ok {
		t.Fatalf("no handle for top.mem[3]")
	}
	if name := sim.NameOf(h); name != "top.mem[3]" {
		t.Fatalf("name: got %q", name)
	}
	if _, ok := sim.HandleAt("top.mem[8]"); ok {
		t.Fatalf("out-of-range index resolved")
	}
	if _, ok := sim.HandleAt("top.missing"); ok {
		t.Fatalf("missing path resolved")
	}
}

func TestChildByNameStripsExtendedMarkers(t *testing.T) {
	sim := buildSim(t)

	plain, ok := sim.ChildByName(sim.Root(), "count")
	if !ok {
		t.Fatalf("plain lookup failed")
	}
	ext, ok := sim.ChildByName(sim.Root(), "\\count\\")
	if !ok {
		t.Fatalf("extended lookup failed")
	}
	if plain != ext {
		t.Fatalf("extended name resolved to a different handle")
	}
	if sim.LookupsFor("count") != 1 || sim.LookupsFor("\\count\\") != 1 {
		t.Fatalf("lookup counts not recorded per queried name")
	}
}

func TestElemCountPerKind(t *testing.T) {
	sim := buildSim(t)

	count, _ := sim.HandleAt("top.count")
	if got := sim.ElemCount(count); got != 8 {
		t.Fatalf("reg width: got %d want 8", got)
	}
	tag, _ := sim.HandleAt("top.tag")
	if got := sim.ElemCount(tag); got != 4 {
		t.Fatalf("string length: got %d want 4", got)
	}
	mem, _ := sim.HandleAt("top.mem")
	if got := sim.ElemCount(mem); got != 8 {
		t.Fatalf("array range count: got %d want 8", got)
	}
	if got := sim.ElemCount(sim.Root()); got != 3 {
		t.Fatalf("scope child count: got %d want 3", got)
	}
}
