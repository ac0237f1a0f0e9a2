package butterfly

// mapInitLogit is the default steering logit written by the Map layers'
// Init: strongly negative so that every decision quantizes to false and the
// freshly compiled layer is the identity.
const mapInitLogit float32 = -10

// Map is a butterfly round that, per pair of lanes (a, b) = (in[lo], in[hi]),
// independently chooses the source of each output: decision c selects the
// low output (false: a, true: b) and decision d selects the high output
// (false: b, true: a). The four corners are
//
//	(false, false)  identity
//	(true,  true)   swap
//	(true,  false)  both outputs b, the low-lane value is discarded
//	(false, true)   both outputs a, the high-lane value is discarded
//
// so Map is a strict generalization of [Swap] and is not invertible in
// general. [Map.Init] writes strongly negative logits, making the compiled
// default the identity, unlike [Swap].
type Map struct {
	topology
	steerLo []bool // c, source selector of the low output
	steerHi []bool // d, source selector of the high output
}

// NewMap returns an independent-selection round over 1<<logN boolean lanes,
// pairing lanes 1<<stage apart. An error is returned if logN < 1 or if
// stage is outside [0, logN).
func NewMap(logN, stage int) (*Map, error) {

	t, err := newTopology(logN, stage)
	if err != nil {
		return nil, err
	}

	return &Map{
		topology: t,
		steerLo:  make([]bool, t.pairs),
		steerHi:  make([]bool, t.pairs),
	}, nil
}

// ParameterCount returns the number of steering logits, two per pair.
func (l *Map) ParameterCount() int {
	return l.width
}

// NewParameters allocates an aligned, zeroed parameter buffer for the round.
func (l *Map) NewParameters() []float32 {
	return NewParameters(l.width)
}

// Init writes the default logits on params, under which the compiled
// layer is the identity.
func (l *Map) Init(params []float32) {
	l.checkParameters(params, l.width)
	for i := range params {
		params[i] = mapInitLogit
	}
}

// Compile quantizes params into the per-pair decisions: params[2k] steers
// the low output of pair k and params[2k+1] its high output.
// Must be re-run after any change to params.
func (l *Map) Compile(params []float32) {
	l.checkParameters(params, l.width)
	for k := 0; k < l.pairs; k++ {
		l.steerLo[k] = Quantize(params[2*k])
		l.steerHi[k] = Quantize(params[2*k+1])
	}
}

// Eval applies the compiled decisions to in and writes the result on out.
// In-place evaluation (same slice for in and out) is supported.
func (l *Map) Eval(in, out []bool) {

	l.checkVectors(in, out)

	d := l.distance

	for k, base := 0, 0; base < l.width; base += d << 1 {
		for lo := base; lo < base+d; lo, k = lo+1, k+1 {

			a, b := in[lo], in[lo+d]

			if l.steerLo[k] {
				out[lo] = b
			} else {
				out[lo] = a
			}

			if l.steerHi[k] {
				out[lo+d] = a
			} else {
				out[lo+d] = b
			}
		}
	}
}
