package butterfly

import (
	"fmt"

	"github.com/Pro7ech/dln/bitset"
)

// SwapPacked is the packed-bitset specialization of [Swap]: vectors are
// width-bit bitsets and evaluation proceeds one machine word at a time.
//
// When distance >= [WordBits], whole words align to one side of each pair
// and evaluation is a direct masked select driven by the steer words. When
// distance < [WordBits], several pairs share a word; the decisions are
// expanded at compile time onto a lane-aligned selector so that evaluation
// is a single shift-and-merge pass per word.
type SwapPacked struct {
	topology
	steer    *bitset.Bitset // one decision bit per pair
	selector *bitset.Bitset // decisions replicated on both lanes of each pair
	mask     uint64         // low-lane interleaving mask, distance < WordBits only
}

// NewSwapPacked returns a conditional-swap round over a packed bitset of
// 1<<logN lanes, pairing lanes 1<<stage apart. An error is returned if
// logN < 1 or if stage is outside [0, logN).
func NewSwapPacked(logN, stage int) (*SwapPacked, error) {

	t, err := newTopology(logN, stage)
	if err != nil {
		return nil, err
	}

	l := &SwapPacked{
		topology: t,
		steer:    bitset.New(t.pairs),
		selector: bitset.New(t.width),
	}

	if t.distance < WordBits {
		l.mask = t.interleaveMask()
	}

	return l, nil
}

// ParameterCount returns the number of steering logits, one per pair.
func (l *SwapPacked) ParameterCount() int {
	return l.pairs
}

// NewParameters allocates an aligned, zeroed parameter buffer for the round.
func (l *SwapPacked) NewParameters() []float32 {
	return NewParameters(l.pairs)
}

// Init writes the default logits (zero) on params.
// See [Swap] for the resulting all-swap default.
func (l *SwapPacked) Init(params []float32) {
	l.checkParameters(params, l.pairs)
	for i := range params {
		params[i] = 0
	}
}

// Compile quantizes params into the packed per-pair swap decisions.
// Must be re-run after any change to params.
func (l *SwapPacked) Compile(params []float32) {

	l.checkParameters(params, l.pairs)

	for k := 0; k < l.pairs; k++ {

		c := Quantize(params[k])
		l.steer.Set(k, c)

		lo, hi := l.lanePair(k)
		l.selector.Set(lo, c)
		l.selector.Set(hi, c)
	}
}

// Eval applies the compiled decisions to in and writes the result on out.
// In-place evaluation (in == out) is supported.
func (l *SwapPacked) Eval(in, out *bitset.Bitset) {

	l.checkBitsets(in, out)

	x := in.Words()
	z := out.Words()

	if d := l.distance; d < WordBits {

		m := l.mask
		e := l.selector.Words()

		for w := range x {
			v := x[w]
			swapped := (v&m)<<d | (v>>d)&m
			z[w] = e[w]&swapped | ^e[w]&v
		}

	} else {

		g := d / WordBits // words per half block
		c := l.steer.Words()

		for base, k := 0, 0; base < len(x); base += g << 1 {
			for i := 0; i < g; i, k = i+1, k+1 {

				a, b, s := x[base+i], x[base+g+i], c[k]

				z[base+i] = ^s&a | s&b
				z[base+g+i] = s&a | ^s&b
			}
		}
	}
}

func (t topology) checkBitsets(in, out *bitset.Bitset) {
	// Sanity check
	if in.Bits() != t.width || out.Bits() != t.width {
		panic(fmt.Errorf("invalid bitsets: in.Bits()=%d out.Bits()=%d != width=%d", in.Bits(), out.Bits(), t.width))
	}
}
