// Package bitvec implements the fixed-width four-state bit vector used for
// signal values. A vector's width is pinned at construction and never
// changes; assigning a wider value is an error at the call site, not a
// silent resize.
package bitvec

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBadDigit   = errors.New("bitvec: invalid binary digit")
	ErrZeroWidth  = errors.New("bitvec: width must be positive")
	ErrOverflow   = errors.New("bitvec: value does not fit width")
	ErrNotDefined = errors.New("bitvec: vector contains x or z bits")
)

// Vector is a fixed-width logic vector. Digits are stored most significant
// first, one byte per bit, drawn from "01xz".
type Vector struct {
	bits []byte
}

// New returns a vector of n zero bits.
func New(n int) (*Vector, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrZeroWidth, n)
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return &Vector{bits: b}, nil
}

// Parse builds a vector from a binstr ("01xz", most significant first).
// Width equals len(s).
func Parse(s string) (*Vector, error) {
	if len(s) == 0 {
		return nil, ErrZeroWidth
	}
	s = strings.ToLower(s)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0', '1', 'x', 'z':
		default:
			return nil, fmt.Errorf("%w: %q at bit %d", ErrBadDigit, s[i], i)
		}
	}
	return &Vector{bits: []byte(s)}, nil
}

// FromUint builds an n-bit vector holding v. Fails if v needs more than n
// bits.
func FromUint(v uint64, n int) (*Vector, error) {
	vec, err := New(n)
	if err != nil {
		return nil, err
	}
	if err := vec.SetUint(v); err != nil {
		return nil, err
	}
	return vec, nil
}

// Len returns the bit width.
func (v *Vector) Len() int { return len(v.bits) }

// String returns the binstr form, most significant bit first.
func (v *Vector) String() string { return string(v.bits) }

// SetUint overwrites the vector with the binary form of u, keeping width.
func (v *Vector) SetUint(u uint64) error {
	n := len(v.bits)
	if n < 64 && u>>uint(n) != 0 {
		return fmt.Errorf("%w: %d in %d bits", ErrOverflow, u, n)
	}
	for i := n - 1; i >= 0; i-- {
		if u&1 != 0 {
			v.bits[i] = '1'
		} else {
			v.bits[i] = '0'
		}
		u >>= 1
	}
	return nil
}

// SetBinstr overwrites the vector from a binstr of exactly the same width.
func (v *Vector) SetBinstr(s string) error {
	p, err := Parse(s)
	if err != nil {
		return err
	}
	if p.Len() != v.Len() {
		return fmt.Errorf("%w: got %d bits, width is %d", ErrOverflow, p.Len(), v.Len())
	}
	copy(v.bits, p.bits)
	return nil
}

// Uint returns the unsigned integer value. Fails if any bit is x or z.
func (v *Vector) Uint() (uint64, error) {
	var out uint64
	for _, b := range v.bits {
		switch b {
		case '0':
			out <<= 1
		case '1':
			out = out<<1 | 1
		default:
			return 0, fmt.Errorf("%w: %s", ErrNotDefined, v.String())
		}
	}
	return out, nil
}

// Defined reports whether every bit is 0 or 1.
func (v *Vector) Defined() bool {
	for _, b := range v.bits {
		if b != '0' && b != '1' {
			return false
		}
	}
	return true
}

// Equal reports bitwise equality, including width.
func (v *Vector) Equal(o *Vector) bool {
	return o != nil && string(v.bits) == string(o.bits)
}

// PackUints packs vals most-significant-element-first into one vector of
// len(vals)*bits total width. This is the composite form used when a value
// arrives as an ordered element list with a per-element width.
func PackUints(vals []uint64, bits int) (*Vector, error) {
	if bits <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrZeroWidth, bits)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("%w: empty element list", ErrZeroWidth)
	}
	vec, err := New(len(vals) * bits)
	if err != nil {
		return nil, err
	}
	for i, u := range vals {
		if bits < 64 && u>>uint(bits) != 0 {
			return nil, fmt.Errorf("%w: element %d value %d in %d bits", ErrOverflow, i, u, bits)
		}
		off := i * bits
		for j := bits - 1; j >= 0; j-- {
			if u&1 != 0 {
				vec.bits[off+j] = '1'
			} else {
				vec.bits[off+j] = '0'
			}
			u >>= 1
		}
	}
	return vec, nil
}
