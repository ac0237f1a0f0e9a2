package butterfly

import (
	"github.com/Pro7ech/dln/bitset"
)

// MapPacked is the packed-bitset specialization of [Map].
//
// The decision state is the full width-bit selector holding, per lane, the
// decision that picks that lane's output source (c on low lanes, d on high
// lanes), plus two auxiliary pairs-bit steer bitsets. When distance >=
// [WordBits] evaluation reads the steer words directly; when distance <
// [WordBits] the selector word merges the two independently selected halves
// of each word in one shift-and-mask pass.
type MapPacked struct {
	topology
	selector *bitset.Bitset // per-lane output source selectors, c and d interleaved
	steerLo  *bitset.Bitset // c, one bit per pair
	steerHi  *bitset.Bitset // d, one bit per pair
	mask     uint64         // low-lane interleaving mask, distance < WordBits only
}

// NewMapPacked returns an independent-selection round over a packed bitset
// of 1<<logN lanes, pairing lanes 1<<stage apart. An error is returned if
// logN < 1 or if stage is outside [0, logN).
func NewMapPacked(logN, stage int) (*MapPacked, error) {

	t, err := newTopology(logN, stage)
	if err != nil {
		return nil, err
	}

	l := &MapPacked{
		topology: t,
		selector: bitset.New(t.width),
		steerLo:  bitset.New(t.pairs),
		steerHi:  bitset.New(t.pairs),
	}

	if t.distance < WordBits {
		l.mask = t.interleaveMask()
	}

	return l, nil
}

// ParameterCount returns the number of steering logits, two per pair.
func (l *MapPacked) ParameterCount() int {
	return l.width
}

// NewParameters allocates an aligned, zeroed parameter buffer for the round.
func (l *MapPacked) NewParameters() []float32 {
	return NewParameters(l.width)
}

// Init writes the default logits on params, under which the compiled
// layer is the identity.
func (l *MapPacked) Init(params []float32) {
	l.checkParameters(params, l.width)
	for i := range params {
		params[i] = mapInitLogit
	}
}

// Compile quantizes params into the packed decisions: params[2k] steers the
// low output of pair k and params[2k+1] its high output.
// Must be re-run after any change to params.
func (l *MapPacked) Compile(params []float32) {

	l.checkParameters(params, l.width)

	for k := 0; k < l.pairs; k++ {

		c := Quantize(params[2*k])
		d := Quantize(params[2*k+1])

		l.steerLo.Set(k, c)
		l.steerHi.Set(k, d)

		lo, hi := l.lanePair(k)
		l.selector.Set(lo, c)
		l.selector.Set(hi, d)
	}
}

// Eval applies the compiled decisions to in and writes the result on out.
// In-place evaluation (in == out) is supported.
func (l *MapPacked) Eval(in, out *bitset.Bitset) {

	l.checkBitsets(in, out)

	x := in.Words()
	z := out.Words()

	if d := l.distance; d < WordBits {

		m := l.mask
		e := l.selector.Words()

		// The selector already carries c on low lanes and d on high
		// lanes, so a single merge covers both halves of every pair:
		// low lanes see swapped = b, high lanes see swapped = a.
		for w := range x {
			v := x[w]
			swapped := (v&m)<<d | (v>>d)&m
			z[w] = e[w]&swapped | ^e[w]&v
		}

	} else {

		g := d / WordBits // words per half block
		c := l.steerLo.Words()
		dd := l.steerHi.Words()

		for base, k := 0, 0; base < len(x); base += g << 1 {
			for i := 0; i < g; i, k = i+1, k+1 {

				a, b := x[base+i], x[base+g+i]
				sc, sd := c[k], dd[k]

				z[base+i] = ^sc&a | sc&b
				z[base+g+i] = sd&a | ^sd&b
			}
		}
	}
}
