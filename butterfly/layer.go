package butterfly

import (
	"fmt"

	"github.com/Pro7ech/dln/bitset"
	"github.com/Pro7ech/dln/utils/mem"
	"github.com/google/go-cmp/cmp"
)

var (
	_ Layer[[]bool]         = (*Swap)(nil)
	_ Layer[[]bool]         = (*Map)(nil)
	_ Layer[*bitset.Bitset] = (*SwapPacked)(nil)
	_ Layer[*bitset.Bitset] = (*MapPacked)(nil)
)

// ParameterAlignment is the byte alignment required of parameter buffers,
// chosen to support efficient bulk access by training-side callers.
// Buffers returned by [NewParameters] satisfy it.
const ParameterAlignment = 64

// Layer is the contract shared by all butterfly layer variants over a
// vector representation V, which is []bool for the boolean-slice layers
// and *[bitset.Bitset] for the packed layers.
//
// The lifecycle is Init (default parameters), Compile (parameters to
// boolean decisions), then any number of Eval calls. Compile must be
// re-run after any parameter change for Eval to reflect it. Eval is
// read-only on the layer state and safe to call concurrently; Compile is
// the single writer and must not overlap with Eval or another Compile on
// the same instance.
type Layer[V any] interface {

	// Init writes the layer's default logits on params.
	Init(params []float32)

	// Compile derives the layer's boolean decisions from params.
	Compile(params []float32)

	// Eval applies the compiled decisions to in and writes the result on
	// out. In-place evaluation (in == out) is supported.
	Eval(in, out V)

	// Width returns the number of boolean lanes.
	Width() int

	// ParameterCount returns the expected parameter buffer length.
	ParameterCount() int

	// NewParameters allocates a zeroed parameter buffer of
	// ParameterCount logits aligned to [ParameterAlignment] bytes.
	NewParameters() []float32
}

// Config identifies the compile-time shape of a butterfly round.
type Config struct {
	// LogN is the log2 of the number of lanes.
	LogN int

	// Stage is the butterfly round index; paired lanes sit 2^Stage apart.
	Stage int
}

// Clone returns a copy of the target.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cClone := *c
	return &cClone
}

func (c *Config) Equal(other *Config) bool {

	if c == nil && other == nil {
		return true
	}

	if (c != nil && other == nil) || (c == nil && other != nil) {
		return false
	}

	return cmp.Equal(c, other)
}

// Width returns the number of lanes of the configuration.
func (c Config) Width() int {
	return 1 << c.LogN
}

// Distance returns the offset between paired lanes.
func (c Config) Distance() int {
	return 1 << c.Stage
}

// NewParameters allocates a zeroed buffer of n float32 logits whose backing
// array is aligned to [ParameterAlignment] bytes.
func NewParameters(n int) []float32 {
	return mem.AlignedSlice[float32](n, ParameterAlignment)
}

func (t topology) checkParameters(params []float32, count int) {
	// Sanity check
	if len(params) != count {
		panic(fmt.Errorf("invalid parameters: len(params)=%d != %d", len(params), count))
	}
}

func (t topology) checkVectors(in, out []bool) {
	// Sanity check
	if len(in) != t.width || len(out) != t.width {
		panic(fmt.Errorf("invalid vectors: len(in)=%d len(out)=%d != width=%d", len(in), len(out), t.width))
	}
}
