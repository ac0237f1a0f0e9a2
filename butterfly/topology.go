// Package butterfly implements the fixed-width, power-of-two boolean layer
// generators of a differentiable logic network: conditional-swap ([Swap],
// [SwapPacked]) and independent-selection ([Map], [MapPacked]) rounds over
// pairs of lanes at a dyadic distance, with continuous steering parameters
// compiled to discrete boolean decisions for evaluation.
package butterfly

import (
	"fmt"
)

// WordBits is the width in bits of the machine words backing the
// packed representation.
const WordBits = 64

// topology stores the pairing arithmetic of a single butterfly round over
// 1<<logN lanes. Lanes are partitioned into blocks of 2*distance; within
// each block the first distance lanes are paired element-wise with the next
// distance lanes. The number of pairs is width/2 for every stage; only the
// grouping of lanes changes, so that the stages 0..logN-1 together realize
// every dyadic recombination of the lanes.
type topology struct {
	logN     int
	stage    int
	width    int // 1 << logN
	distance int // 1 << stage
	pairs    int // width >> 1
}

func newTopology(logN, stage int) (topology, error) {

	if logN < 1 {
		return topology{}, fmt.Errorf("invalid logN: must be >= 1 but is %d", logN)
	}

	if stage < 0 || stage >= logN {
		return topology{}, fmt.Errorf("invalid stage: must be in [0, logN=%d) but is %d", logN, stage)
	}

	return topology{
		logN:     logN,
		stage:    stage,
		width:    1 << logN,
		distance: 1 << stage,
		pairs:    1 << (logN - 1),
	}, nil
}

// Width returns the number of boolean lanes of the round.
func (t topology) Width() int {
	return t.width
}

// Config returns the compile-time configuration of the round.
func (t topology) Config() Config {
	return Config{LogN: t.logN, Stage: t.stage}
}

// lanePair returns the lane indices (lo, lo+distance) steered by decision k.
func (t topology) lanePair(k int) (lo, hi int) {
	lo = (k>>t.stage)<<(t.stage+1) | (k & (t.distance - 1))
	return lo, lo + t.distance
}

// pairIndex returns the decision index of the pair whose low lane is lo.
// Inverse of [topology.lanePair].
func (t topology) pairIndex(lo int) int {
	return (lo>>(t.stage+1))<<t.stage | (lo & (t.distance - 1))
}

// interleaveMask returns the word-level mask marking the low lane of every
// pair when distance < [WordBits]: alternating groups of distance bits,
// lowest group set. Derived once at construction and cached by the packed
// layers.
func (t topology) interleaveMask() (m uint64) {

	// Sanity check
	if t.distance >= WordBits {
		panic(fmt.Errorf("interleaveMask: distance=%d >= %d", t.distance, WordBits))
	}

	group := uint64(1)<<t.distance - 1
	for i := 0; i < WordBits; i += t.distance << 1 {
		m |= group << i
	}

	return
}
