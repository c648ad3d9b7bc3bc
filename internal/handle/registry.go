package handle

import (
	"github.com/rs/zerolog"

	"github.com/edaforge/simgraph/internal/gpi"
	"github.com/edaforge/simgraph/internal/observability"
)

// Registry is the identity cache and factory. It owns every proxy ever
// created: one per distinct handle for the life of the process, however the
// handle was reached (hierarchy walk, index access, driver/load iteration).
//
// The hierarchy is static after elaboration, so entries are never evicted.
// All calls happen on the simulator's single callback context; there is no
// locking.
type Registry struct {
	sim     gpi.Interface
	sched   Writer
	log     zerolog.Logger
	objects map[gpi.Handle]Object
}

// Options configures a Registry. Scheduler may be nil, in which case
// deferred writes fail with ErrNoScheduler.
type Options struct {
	Scheduler Writer
	Logger    zerolog.Logger
}

func NewRegistry(sim gpi.Interface, opts Options) *Registry {
	return &Registry{
		sim:     sim,
		sched:   opts.Scheduler,
		log:     opts.Logger,
		objects: make(map[gpi.Handle]Object),
	}
}

// Root resolves the design root. The path defaults to the native name.
func (r *Registry) Root(h gpi.Handle) (Object, error) {
	return r.Resolve(h, "")
}

// Resolve returns the proxy for h, creating it on first sight. A cached
// handle returns the cached proxy unconditionally; identity wins over path,
// so the path argument is only used when the proxy is first built.
func (r *Registry) Resolve(h gpi.Handle, path string) (Object, error) {
	if obj, ok := r.objects[h]; ok {
		observability.RecordCacheHit()
		return obj, nil
	}

	kind := r.sim.TypeOf(h)

	// Constants that are not containers snapshot their value once and
	// stay read-only.
	if r.sim.IsConst(h) && !kind.IsScope() && !kind.IsArray() {
		obj := newConst(r, h, path, kind)
		r.objects[h] = obj
		observability.RecordResolution("const")
		return obj, nil
	}

	var obj Object
	switch kind {
	case gpi.KindModule, gpi.KindStructure:
		obj = newScope(r, h, path, kind)
	case gpi.KindGenArray:
		obj = newScopeArray(r, h, path, kind)
	case gpi.KindNetArray:
		obj = newValueArray(r, h, path, kind)
	case gpi.KindReg, gpi.KindNet:
		obj = newVectorSignal(r, h, path, kind)
	case gpi.KindInteger, gpi.KindEnum:
		obj = newIntSignal(r, h, path, kind)
	case gpi.KindReal:
		obj = newRealSignal(r, h, path, kind)
	case gpi.KindString:
		obj = newStringSignal(r, h, path, kind)
	default:
		return nil, resolvef(ErrUnknownHandleType, "native type %d (path=%s)", uint32(kind), path)
	}

	r.objects[h] = obj
	observability.RecordResolution(kind.String())
	r.log.Debug().Str("path", obj.Path()).Str("kind", kind.String()).Msg("resolved")
	return obj, nil
}

func (r *Registry) resolveAll(handles []gpi.Handle) ([]Object, error) {
	out := make([]Object, 0, len(handles))
	for _, h := range handles {
		obj, err := r.Resolve(h, "")
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}
