// Package gpi defines the contract between the proxy layer and the native
// simulation interface. The proxy layer consumes this contract; backends
// (a real simulator binding, or memsim for tests) implement it.
package gpi

// Handle is an opaque identifier for one native simulation object. The zero
// value is never a valid object; "child not found" is reported as (0, false).
type Handle uint64

// ObjectKind is the native type tag reported for a handle.
type ObjectKind uint32

const (
	KindUnknown ObjectKind = iota
	KindModule
	KindStructure
	KindReg
	KindNet
	KindNetArray
	KindReal
	KindInteger
	KindEnum
	KindString
	KindGenArray
)

func (k ObjectKind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindStructure:
		return "structure"
	case KindReg:
		return "reg"
	case KindNet:
		return "net"
	case KindNetArray:
		return "netarray"
	case KindReal:
		return "real"
	case KindInteger:
		return "integer"
	case KindEnum:
		return "enum"
	case KindString:
		return "string"
	case KindGenArray:
		return "genarray"
	default:
		return "unknown"
	}
}

// IsScope reports whether the kind is a namespace container rather than a
// value-bearing object.
func (k ObjectKind) IsScope() bool {
	return k == KindModule || k == KindStructure
}

// IsArray reports whether the kind is index-addressed.
func (k ObjectKind) IsArray() bool {
	return k == KindNetArray || k == KindGenArray
}

// Action is the native write-access code.
type Action uint32

const (
	ActionDeposit Action = 0
	ActionForce   Action = 1
	ActionRelease Action = 2
)

func (a Action) String() string {
	switch a {
	case ActionDeposit:
		return "deposit"
	case ActionForce:
		return "force"
	case ActionRelease:
		return "release"
	default:
		return "action?"
	}
}

// Range is the declared (Left, Right) index bounds of an array-like object.
// Direction is ascending when Left <= Right, descending otherwise.
type Range struct {
	Left  int
	Right int
}

// Count returns the number of declared elements, inclusive of both bounds.
func (r Range) Count() int {
	if r.Left > r.Right {
		return r.Left - r.Right + 1
	}
	return r.Right - r.Left + 1
}

// Descending reports whether the declared range runs high-to-low.
func (r Range) Descending() bool { return r.Left > r.Right }

// Indices returns the declared indices in walk order: left bound first,
// stepping toward the right bound inclusive. This order defines the external
// left-to-right semantics of bulk array access.
func (r Range) Indices() []int {
	out := make([]int, 0, r.Count())
	if r.Descending() {
		for i := r.Left; i >= r.Right; i-- {
			out = append(out, i)
		}
		return out
	}
	for i := r.Left; i <= r.Right; i++ {
		out = append(out, i)
	}
	return out
}

// Interface is the native simulation interface. All methods operate on
// handles obtained from the backend itself; the proxy layer never constructs
// handles. Lookup methods report absence with a false second return rather
// than an error. Implementations are called from a single cooperative
// execution context and need no internal locking on behalf of the proxy
// layer.
type Interface interface {
	// Metadata.
	NameOf(h Handle) string
	TypeOf(h Handle) ObjectKind
	IsConst(h Handle) bool
	DefName(h Handle) string
	DefFile(h Handle) string

	// Navigation.
	ChildByName(h Handle, name string) (Handle, bool)
	ChildByIndex(h Handle, i int) (Handle, bool)
	RangeOf(h Handle) (Range, bool)
	ElemCount(h Handle) int
	Children(h Handle) []Handle
	Drivers(h Handle) []Handle
	Loads(h Handle) []Handle

	// Value access. ReadBits/WriteBits use the textual bit pattern form
	// ("01xz...", most significant bit first).
	ReadInt(h Handle) int64
	ReadReal(h Handle) float64
	ReadText(h Handle) string
	ReadBits(h Handle) string
	WriteInt(h Handle, v int64, a Action)
	WriteReal(h Handle, v float64, a Action)
	WriteText(h Handle, v string, a Action)
	WriteBits(h Handle, binstr string, a Action)
}
