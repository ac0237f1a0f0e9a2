package butterfly

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/Pro7ech/dln/bitset"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {

	r := rand.New(rand.NewPCG(0, 2))

	t.Run("IdentityDefault", func(t *testing.T) {

		for logN := 1; logN < 9; logN++ {
			for stage := 0; stage < logN; stage++ {

				t.Run(fmt.Sprintf("logN=%d/stage=%d", logN, stage), func(t *testing.T) {

					l, err := NewMap(logN, stage)
					require.NoError(t, err)

					lp, err := NewMapPacked(logN, stage)
					require.NoError(t, err)

					params := l.NewParameters()
					l.Init(params)
					l.Compile(params)
					lp.Compile(params)

					in := make([]bool, l.Width())
					randomBools(r, in)

					out := make([]bool, l.Width())
					l.Eval(in, out)
					require.Equal(t, in, out)

					inP := bitset.New(lp.Width()).FromBools(in)
					outP := bitset.New(lp.Width())
					lp.Eval(inP, outP)
					require.True(t, inP.Equal(outP))
				})
			}
		}
	})

	t.Run("Corners", func(t *testing.T) {

		// A single pair (logN=1) with (a, b) = (true, false), one
		// corner of (c, d) at a time.
		for _, tc := range []struct {
			c, d   float32
			lo, hi bool
		}{
			{-8, -8, true, false}, // identity
			{8, 8, false, true},   // swap
			{8, -8, false, false}, // both outputs take b
			{-8, 8, true, true},   // both outputs take a
		} {

			l, err := NewMap(1, 0)
			require.NoError(t, err)
			l.Compile([]float32{tc.c, tc.d})

			out := make([]bool, 2)
			l.Eval([]bool{true, false}, out)
			require.Equal(t, []bool{tc.lo, tc.hi}, out, "c=%v d=%v", tc.c, tc.d)

			lp, err := NewMapPacked(1, 0)
			require.NoError(t, err)
			lp.Compile([]float32{tc.c, tc.d})

			outP := bitset.New(2)
			lp.Eval(bitset.New(2).FromBools([]bool{true, false}), outP)
			require.Equal(t, []bool{tc.lo, tc.hi}, outP.Bools(), "c=%v d=%v", tc.c, tc.d)
		}
	})

	t.Run("SwapRestriction", func(t *testing.T) {

		// Forcing (c, d) equal per pair reproduces Swap exactly.
		for logN := 1; logN < 7; logN++ {
			for stage := 0; stage < logN; stage++ {

				swap, err := NewSwap(logN, stage)
				require.NoError(t, err)

				m, err := NewMap(logN, stage)
				require.NoError(t, err)

				swapParams := swap.NewParameters()
				randomLogits(r, swapParams)
				swap.Compile(swapParams)

				mapParams := m.NewParameters()
				for k := 0; k < swap.ParameterCount(); k++ {
					mapParams[2*k] = swapParams[k]
					mapParams[2*k+1] = swapParams[k]
				}
				m.Compile(mapParams)

				in := make([]bool, swap.Width())
				randomBools(r, in)

				want := make([]bool, swap.Width())
				swap.Eval(in, want)

				got := make([]bool, m.Width())
				m.Eval(in, got)

				require.Equal(t, want, got, "logN=%d stage=%d", logN, stage)
			}
		}
	})

	t.Run("Broadcast", func(t *testing.T) {

		// Input [T,F,T,F], pair 0 steered (c=false, d=true), pair 1
		// steered (c=true, d=false): pair 0 broadcasts its low source
		// (both outputs true), pair 1 broadcasts its high source
		// (both outputs false).
		l, err := NewMap(2, 0)
		require.NoError(t, err)
		l.Compile([]float32{-8, 8, 8, -8})

		out := make([]bool, 4)
		l.Eval([]bool{true, false, true, false}, out)
		require.Equal(t, []bool{true, true, false, false}, out)

		lp, err := NewMapPacked(2, 0)
		require.NoError(t, err)
		lp.Compile([]float32{-8, 8, 8, -8})

		outP := bitset.New(4)
		lp.Eval(bitset.New(4).FromBools([]bool{true, false, true, false}), outP)
		require.Equal(t, []bool{true, true, false, false}, outP.Bools())
	})

	t.Run("Preconditions", func(t *testing.T) {

		l, err := NewMap(3, 1)
		require.NoError(t, err)

		require.Panics(t, func() { l.Init(make([]float32, 4)) })
		require.Panics(t, func() { l.Compile(make([]float32, 4)) })
		require.Panics(t, func() { l.Eval(make([]bool, 4), make([]bool, 8)) })

		lp, err := NewMapPacked(3, 1)
		require.NoError(t, err)

		require.Panics(t, func() { lp.Init(make([]float32, 16)) })
		require.Panics(t, func() { lp.Eval(bitset.New(4), bitset.New(8)) })
	})
}
