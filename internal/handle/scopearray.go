package handle

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/edaforge/simgraph/internal/gpi"
	"github.com/edaforge/simgraph/internal/observability"
)

// indexPatterns are the known native encodings of a generate-array member
// name, tried in order. Each backend family spells the index differently:
//
//	name__N   VHPI (Aldec)
//	name(N)   FLI, VHPI (IUS)
//	name[N]   VPI
//
// A new backend naming scheme is one more entry here.
var indexPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(.*)__(\d+)$`),
	regexp.MustCompile(`^(.*)\((\d+)\)$`),
	regexp.MustCompile(`^(.*)\[(\d+)\]$`),
}

// ScopeArray is a fixed array of hierarchy scopes (a generate block). Its
// children are addressed by integer index parsed out of the native member
// names.
type ScopeArray struct {
	base

	elems      map[int]Object
	discovered bool
}

func newScopeArray(r *Registry, h gpi.Handle, path string, kind gpi.ObjectKind) *ScopeArray {
	return &ScopeArray{
		base:  newBase(r, h, path, kind),
		elems: make(map[int]Object),
	}
}

// memberIndex extracts the integer index from a native member name,
// trying each known pattern in order. The local base name must match the
// array's own name.
func (a *ScopeArray) memberIndex(name string) (int, bool) {
	local := lastSegment(name)
	want := lastSegment(a.name)
	for _, re := range indexPatterns {
		m := re.FindStringSubmatch(local)
		if m == nil || m[1] != want {
			continue
		}
		var idx int
		if _, err := fmt.Sscanf(m[2], "%d", &idx); err != nil {
			continue
		}
		return idx, true
	}
	return 0, false
}

func (a *ScopeArray) indexPath(i int) string {
	return fmt.Sprintf("%s[%d]", a.path, i)
}

// DiscoverAll resolves every member once. Members whose names match no
// known index pattern are logged and dropped.
func (a *ScopeArray) DiscoverAll() {
	if a.discovered {
		return
	}
	a.log.Debug().Msg("discovering array members")
	for _, h := range a.reg.sim.Children(a.handle) {
		name := a.reg.sim.NameOf(h)
		idx, ok := a.memberIndex(name)
		if !ok {
			a.log.Error().Str("child", name).Msg("unable to match an index pattern")
			observability.RecordDiscoverySkip("bad_index_name")
			continue
		}
		obj, err := a.reg.Resolve(h, a.indexPath(idx))
		if err != nil {
			if errors.Is(err, ErrUnknownHandleType) {
				a.log.Debug().Str("child", name).Err(err).Msg("skipping unmapped member")
				observability.RecordDiscoverySkip("unknown_type")
				continue
			}
			a.log.Warn().Str("child", name).Err(err).Msg("skipping member")
			observability.RecordDiscoverySkip("resolve_error")
			continue
		}
		a.elems[idx] = obj
	}
	a.discovered = true
}

// Len is the number of discovered members.
func (a *ScopeArray) Len() int {
	a.DiscoverAll()
	return len(a.elems)
}

// Index resolves the member at i.
func (a *ScopeArray) Index(i int) (Object, error) {
	if obj, ok := a.elems[i]; ok {
		return obj, nil
	}
	h, ok := a.reg.sim.ChildByIndex(a.handle, i)
	if !ok {
		return nil, resolvef(ErrIndexOutOfRange, "%s contains no object at index %d", a.name, i)
	}
	obj, err := a.reg.Resolve(h, a.indexPath(i))
	if err != nil {
		return nil, err
	}
	a.elems[i] = obj
	return obj, nil
}

// IndexRange would be slice-style access; it is not supported on any array
// proxy and exists to fail loudly.
func (a *ScopeArray) IndexRange(lo, hi int) ([]Object, error) {
	return nil, resolvef(ErrUnsupportedIndex, "slice indexing is not supported (%s[%d:%d])", a.name, lo, hi)
}

// SetIndex always fails: hierarchy arrays are not value-assignable.
func (a *ScopeArray) SetIndex(i int, v any) error {
	return resolvef(ErrReadOnlyIndex, "not permissible to set %s at index %d", a.name, i)
}

// Members returns the present members in ascending index order. Holes
// between the lowest and highest discovered indices are logged and skipped.
func (a *ScopeArray) Members() []Object {
	a.DiscoverAll()
	if len(a.elems) == 0 {
		return nil
	}

	idxs := make([]int, 0, len(a.elems))
	for i := range a.elems {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)

	out := make([]Object, 0, len(a.elems))
	for i := idxs[0]; i <= idxs[len(idxs)-1]; i++ {
		obj, ok := a.elems[i]
		if !ok {
			a.log.Warn().Int("index", i).Msg("index does not exist")
			continue
		}
		out = append(out, obj)
	}
	return out
}
