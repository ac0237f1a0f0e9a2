// Package bitset implements a fixed-width boolean vector stored as dense bits
// across machine words, enabling whole-word bitwise evaluation instead of
// per-element branching.
package bitset

import (
	"fmt"
)

// WordBits is the number of bits per backing word.
const WordBits = 64

// Bitset is a fixed-width bit container backed by uint64 words.
// Bits past the declared width are kept at zero by all methods, so
// callers operating directly on the backing words can rely on a clean tail.
type Bitset struct {
	n     int
	words []uint64
}

// New allocates a [Bitset] of n bits, all zero.
func New(n int) *Bitset {
	if n < 1 {
		panic(fmt.Errorf("invalid bitset width: must be >= 1 but is %d", n))
	}
	return &Bitset{
		n:     n,
		words: make([]uint64, (n+WordBits-1)/WordBits),
	}
}

// Bits returns the width of the receiver in bits.
func (b *Bitset) Bits() int {
	return b.n
}

// Words exposes the backing words of the receiver for bulk bitwise
// operations. Bit i lives at word i/64, position i%64. The final word
// must keep its bits past [Bitset.Bits] at zero.
func (b *Bitset) Words() []uint64 {
	return b.words
}

// Get returns the bit at index i.
func (b *Bitset) Get(i int) bool {
	b.checkIndex(i)
	return b.words[i/WordBits]>>(uint(i)%WordBits)&1 == 1
}

// Set writes the bit at index i.
func (b *Bitset) Set(i int, v bool) {
	b.checkIndex(i)
	if v {
		b.words[i/WordBits] |= 1 << (uint(i) % WordBits)
	} else {
		b.words[i/WordBits] &^= 1 << (uint(i) % WordBits)
	}
}

// Fill sets every bit of the receiver to v.
func (b *Bitset) Fill(v bool) {
	var w uint64
	if v {
		w = ^uint64(0)
	}
	for i := range b.words {
		b.words[i] = w
	}
	b.maskTail()
}

// Copy copies the operand on the receiver.
// The receiver and the operand must have the same width.
func (b *Bitset) Copy(other *Bitset) {
	if b.n != other.n {
		panic(fmt.Errorf("mismatched bitset widths: %d != %d", b.n, other.n))
	}
	copy(b.words, other.words)
}

// Clone returns a deep copy of the receiver.
func (b *Bitset) Clone() *Bitset {
	c := &Bitset{n: b.n, words: make([]uint64, len(b.words))}
	copy(c.words, b.words)
	return c
}

// Equal reports whether the receiver and the operand have the same
// width and bits.
func (b *Bitset) Equal(other *Bitset) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.n != other.n {
		return false
	}
	for i := range b.words {
		if b.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// FromBools writes vals onto the receiver.
// len(vals) must equal the receiver width.
func (b *Bitset) FromBools(vals []bool) *Bitset {
	if len(vals) != b.n {
		panic(fmt.Errorf("invalid values: len(vals)=%d != %d", len(vals), b.n))
	}
	for i := range b.words {
		b.words[i] = 0
	}
	for i, v := range vals {
		if v {
			b.words[i/WordBits] |= 1 << (uint(i) % WordBits)
		}
	}
	return b
}

// Bools returns the bits of the receiver as a boolean slice.
func (b *Bitset) Bools() []bool {
	vals := make([]bool, b.n)
	for i := range vals {
		vals[i] = b.words[i/WordBits]>>(uint(i)%WordBits)&1 == 1
	}
	return vals
}

// String renders the bits of the receiver from index 0 upward.
func (b *Bitset) String() string {
	s := make([]byte, b.n)
	for i := range s {
		if b.words[i/WordBits]>>(uint(i)%WordBits)&1 == 1 {
			s[i] = '1'
		} else {
			s[i] = '0'
		}
	}
	return string(s)
}

func (b *Bitset) checkIndex(i int) {
	if i < 0 || i >= b.n {
		panic(fmt.Errorf("bit index out of range: i=%d, width=%d", i, b.n))
	}
}

func (b *Bitset) maskTail() {
	if tail := uint(b.n) % WordBits; tail != 0 {
		b.words[len(b.words)-1] &= 1<<tail - 1
	}
}
