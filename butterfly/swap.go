package butterfly

// Swap is a butterfly round that, per pair of lanes, either passes both
// elements through or exchanges them, controlled by one boolean decision
// per pair. For any fixed set of decisions the round is an involution.
//
// Note that the default logits written by [Swap.Init] are zero, which
// quantize to true under the half-away-from-zero tie-break: a freshly
// initialized and compiled Swap exchanges every pair rather than acting
// as the identity. [Map] has the opposite default.
type Swap struct {
	topology
	steer []bool
}

// NewSwap returns a conditional-swap round over 1<<logN boolean lanes,
// pairing lanes 1<<stage apart. An error is returned if logN < 1 or if
// stage is outside [0, logN).
func NewSwap(logN, stage int) (*Swap, error) {

	t, err := newTopology(logN, stage)
	if err != nil {
		return nil, err
	}

	return &Swap{
		topology: t,
		steer:    make([]bool, t.pairs),
	}, nil
}

// ParameterCount returns the number of steering logits, one per pair.
func (l *Swap) ParameterCount() int {
	return l.pairs
}

// NewParameters allocates an aligned, zeroed parameter buffer for the round.
func (l *Swap) NewParameters() []float32 {
	return NewParameters(l.pairs)
}

// Init writes the default logits (zero) on params.
func (l *Swap) Init(params []float32) {
	l.checkParameters(params, l.pairs)
	for i := range params {
		params[i] = 0
	}
}

// Compile quantizes params into the per-pair swap decisions.
// Must be re-run after any change to params.
func (l *Swap) Compile(params []float32) {
	l.checkParameters(params, l.pairs)
	for k := range l.steer {
		l.steer[k] = Quantize(params[k])
	}
}

// Eval applies the compiled decisions to in and writes the result on out.
// In-place evaluation (same slice for in and out) is supported.
func (l *Swap) Eval(in, out []bool) {

	l.checkVectors(in, out)

	d := l.distance

	for k, base := 0, 0; base < l.width; base += d << 1 {
		for lo := base; lo < base+d; lo, k = lo+1, k+1 {

			a, b := in[lo], in[lo+d]
			if l.steer[k] {
				out[lo], out[lo+d] = b, a
			} else {
				out[lo], out[lo+d] = a, b
			}
		}
	}
}
