package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/edaforge/simgraph/internal/gpi/memsim"
	"github.com/edaforge/simgraph/internal/handle"
	"github.com/edaforge/simgraph/internal/observability"
	"github.com/edaforge/simgraph/internal/sched"
)

// simpoke applies one write action to one signal in a design and prints
// the value before and after, flushing the deferred-write queue so the
// result is what a testbench would observe at the end of the time step.
func main() {
	designPath := flag.String("design", "design.toml", "design description to load")
	path := flag.String("path", "", "dotted path of the target signal")
	action := flag.String("action", "deposit", "deposit, force, freeze, or release")
	value := flag.String("value", "0", "value to write (ignored for freeze/release)")
	flag.Parse()

	logger := observability.InitLogger("simpoke")

	if *path == "" {
		fmt.Fprintln(os.Stderr, "simpoke: -path is required")
		os.Exit(2)
	}

	design, err := memsim.LoadDesign(*designPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simpoke: %v\n", err)
		os.Exit(1)
	}
	sim, err := memsim.FromDesign(design)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simpoke: %v\n", err)
		os.Exit(1)
	}

	writer := sched.New(logger)
	reg := handle.NewRegistry(sim, handle.Options{Scheduler: writer, Logger: logger})
	root, err := reg.Root(sim.Root())
	if err != nil {
		fmt.Fprintf(os.Stderr, "simpoke: %v\n", err)
		os.Exit(1)
	}
	obj, err := handle.Lookup(root, *path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simpoke: %v\n", err)
		os.Exit(1)
	}
	target, ok := obj.(handle.Settable)
	if !ok {
		fmt.Fprintf(os.Stderr, "simpoke: %s is a %s, not writable\n", obj.Path(), obj.Kind())
		os.Exit(1)
	}

	fmt.Printf("before: %s\n", describe(obj))

	intent, err := buildIntent(*action, *value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simpoke: %v\n", err)
		os.Exit(2)
	}
	if err := target.Set(intent); err != nil {
		fmt.Fprintf(os.Stderr, "simpoke: %v\n", err)
		os.Exit(1)
	}
	if err := writer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "simpoke: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("after:  %s\n", describe(obj))
}

func buildIntent(action, value string) (any, error) {
	switch action {
	case "deposit":
		v, err := parseValue(value)
		if err != nil {
			return nil, err
		}
		return handle.Deposit{Value: v}, nil
	case "force":
		v, err := parseValue(value)
		if err != nil {
			return nil, err
		}
		return handle.Force{Value: v}, nil
	case "freeze":
		return handle.Freeze{}, nil
	case "release":
		return handle.Release{}, nil
	default:
		return nil, fmt.Errorf("unknown action %q", action)
	}
}

// parseValue takes integers, reals, or falls back to the raw string.
func parseValue(s string) (any, error) {
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	return s, nil
}

func describe(obj handle.Object) string {
	switch o := obj.(type) {
	case *handle.VectorSignal:
		v, err := o.Value()
		if err != nil {
			return fmt.Sprintf("%s = ?", o.Path())
		}
		u, uerr := v.Uint()
		if uerr != nil {
			return fmt.Sprintf("%s = %s", o.Path(), v)
		}
		return fmt.Sprintf("%s = %s (%d)", o.Path(), v, u)
	case *handle.IntSignal:
		return fmt.Sprintf("%s = %d", o.Path(), o.Value())
	case *handle.RealSignal:
		return fmt.Sprintf("%s = %g", o.Path(), o.Value())
	case *handle.StringSignal:
		return fmt.Sprintf("%s = %q", o.Path(), o.Value())
	default:
		return fmt.Sprintf("%s (%s)", obj.Path(), obj.Kind())
	}
}
