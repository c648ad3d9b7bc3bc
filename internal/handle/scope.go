package handle

import (
	"errors"
	"sort"
	"strings"

	"github.com/edaforge/simgraph/internal/gpi"
	"github.com/edaforge/simgraph/internal/observability"
)

// Scope is a namespace proxy: modules, interfaces, structures. It has named
// children and no value of its own.
type Scope struct {
	base

	children   map[string]Object
	absent     map[string]struct{} // negative cache of queried, nonexistent names
	discovered bool
}

func newScope(r *Registry, h gpi.Handle, path string, kind gpi.ObjectKind) *Scope {
	return &Scope{
		base:     newBase(r, h, path, kind),
		children: make(map[string]Object),
		absent:   make(map[string]struct{}),
	}
}

func (s *Scope) childPath(name string) string {
	return s.path + "." + name
}

// Child resolves a named child, consulting the per-scope cache (including
// the negative cache) before touching the native layer.
func (s *Scope) Child(name string) (Object, error) {
	if obj, ok := s.children[name]; ok {
		return obj, nil
	}
	if _, ok := s.absent[name]; ok {
		observability.RecordNegativeCacheHit()
		return nil, resolvef(ErrNoSuchChild, "%s contains no object named %s", s.name, name)
	}

	h, ok := s.reg.sim.ChildByName(s.handle, name)
	if !ok {
		s.absent[name] = struct{}{}
		return nil, resolvef(ErrNoSuchChild, "%s contains no object named %s", s.name, name)
	}

	obj, err := s.reg.Resolve(h, s.childPath(name))
	if err != nil {
		return nil, err
	}
	s.children[name] = obj
	return obj, nil
}

// ChildExtended resolves a child by extended identifier, wrapping the name
// in backslashes before the native query.
func (s *Scope) ChildExtended(name string) (Object, error) {
	return s.Child("\\" + name + "\\")
}

// Peek reports whether a named child exists without treating absence as an
// error. Found handles are cached so the probe does not leak.
func (s *Scope) Peek(name string) (Object, bool) {
	obj, err := s.Child(name)
	if err != nil {
		return nil, false
	}
	return obj, true
}

// SetChild writes a value to an existing named child. Creating names that
// are not in the elaborated design is not possible.
func (s *Scope) SetChild(name string, v any) error {
	obj, err := s.Child(name)
	if err != nil {
		return err
	}
	target, ok := obj.(Settable)
	if !ok {
		return resolvef(ErrUnsupportedAssignment, "%s is a %s, not a value object", obj.Path(), obj.Kind())
	}
	return target.Set(v)
}

// DiscoverAll enumerates every child once, resolving and caching each.
// Children whose native type has no proxy mapping are logged and skipped,
// never propagated; hierarchy cannot change after elaboration so the second
// call is a no-op.
func (s *Scope) DiscoverAll() {
	if s.discovered {
		return
	}
	s.log.Debug().Msg("discovering children")
	for _, h := range s.reg.sim.Children(s.handle) {
		name := s.reg.sim.NameOf(h)
		obj, err := s.reg.Resolve(h, s.childPath(lastSegment(name)))
		if err != nil {
			if errors.Is(err, ErrUnknownHandleType) {
				s.log.Debug().Str("child", name).Err(err).Msg("skipping unmapped child")
				observability.RecordDiscoverySkip("unknown_type")
				continue
			}
			s.log.Warn().Str("child", name).Err(err).Msg("skipping child")
			observability.RecordDiscoverySkip("resolve_error")
			continue
		}
		s.children[lastSegment(name)] = obj
	}
	s.discovered = true
}

// Children returns every discovered child. Children that are index
// collections contribute each present member individually; a missing index
// at a given position is logged and skipped.
func (s *Scope) Children() []Object {
	s.DiscoverAll()

	keys := make([]string, 0, len(s.children))
	for k := range s.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []Object
	for _, k := range keys {
		child := s.children[k]
		if coll, ok := child.(memberLister); ok {
			out = append(out, coll.Members()...)
			continue
		}
		out = append(out, child)
	}
	return out
}

// memberLister is an index collection that can enumerate its present
// members in index-walk order.
type memberLister interface {
	Members() []Object
}

func lastSegment(name string) string {
	parts := strings.Split(name, ".")
	return parts[len(parts)-1]
}
