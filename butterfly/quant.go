package butterfly

import (
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
)

// Sigmoid returns 1/(1+exp(-x)).
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// RoundHalfAwayFromZero rounds x to the nearest integer, breaking ties away
// from zero. The tie-break is load-bearing for reproducibility against
// reference training pipelines, so it is spelled out rather than delegated
// to an environment rounding mode.
func RoundHalfAwayFromZero(x float64) float64 {
	if x >= 0 {
		return math.Floor(x + 0.5)
	}
	return math.Ceil(x - 0.5)
}

// Quantize maps a continuous steering logit to its boolean decision:
// round(sigmoid(logit)) != 0. A logit of exactly zero squashes to 0.5 and
// therefore quantizes to true.
func Quantize(logit float32) bool {
	return RoundHalfAwayFromZero(Sigmoid(float64(logit))) != 0
}

// SigmoidBig evaluates 1/(1+exp(-x)) with prec bits of precision.
// It is the arbitrary-precision reference for [Sigmoid], used to pin down
// the behavior of the quantizer around the decision boundary.
func SigmoidBig(x *big.Float, prec uint) (y *big.Float) {
	e := bigfloat.Exp(new(big.Float).SetPrec(prec).Neg(x))
	one := new(big.Float).SetPrec(prec).SetInt64(1)
	return new(big.Float).SetPrec(prec).Quo(one, e.Add(e, one))
}
