package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/edaforge/simgraph/internal/gpi/memsim"
	"github.com/edaforge/simgraph/internal/handle"
	"github.com/edaforge/simgraph/internal/observability"
)

func main() {
	designPath := flag.String("design", "design.toml", "design description to load")
	start := flag.String("path", "", "dotted path to start from (default: design top)")
	flag.Parse()

	logger := observability.InitLogger("simtree")

	design, err := memsim.LoadDesign(*designPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simtree: %v\n", err)
		os.Exit(1)
	}
	sim, err := memsim.FromDesign(design)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simtree: %v\n", err)
		os.Exit(1)
	}

	reg := handle.NewRegistry(sim, handle.Options{Logger: logger})
	root, err := reg.Root(sim.Root())
	if err != nil {
		fmt.Fprintf(os.Stderr, "simtree: %v\n", err)
		os.Exit(1)
	}
	obj := root
	if *start != "" {
		obj, err = handle.Lookup(root, *start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "simtree: %v\n", err)
			os.Exit(1)
		}
	}

	dump(obj, 0)
}

func dump(obj handle.Object, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s (%s)%s\n", indent, obj.Path(), obj.Kind(), valueSuffix(obj))

	switch o := obj.(type) {
	case *handle.Scope:
		for _, child := range o.Children() {
			dump(child, depth+1)
		}
	case *handle.ScopeArray:
		for _, member := range o.Members() {
			dump(member, depth+1)
		}
	case *handle.ValueArray:
		for _, member := range o.Members() {
			dump(member, depth+1)
		}
	}
}

func valueSuffix(obj handle.Object) string {
	switch o := obj.(type) {
	case *handle.VectorSignal:
		v, err := o.Value()
		if err != nil {
			return " = ?"
		}
		return " = " + v.String()
	case *handle.IntSignal:
		return fmt.Sprintf(" = %d", o.Value())
	case *handle.RealSignal:
		return fmt.Sprintf(" = %g", o.Value())
	case *handle.StringSignal:
		return fmt.Sprintf(" = %q", o.Value())
	case *handle.Const:
		return fmt.Sprintf(" = %v (const)", o.Value())
	default:
		return ""
	}
}
