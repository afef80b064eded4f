package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-chess/engine/pkg/board/fen"
	"github.com/corvid-chess/engine/pkg/eval"
)

func TestStartingPositionIsBalanced(t *testing.T) {
	pos, _, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	ev := eval.NewDefault()
	assert.Equal(t, eval.Score(0), ev.Evaluate(pos))
}

// TestBreakdownSumsToTotal asserts the evaluator's decomposition invariant:
// summing every PieceScore.SignedTotal must equal Result.Score exactly,
// since both are produced by the same accumulation in a single pass.
func TestBreakdownSumsToTotal(t *testing.T) {
	positions := []string{
		fen.Initial,
		"r3k2r/ppp1pppp/2n2n2/3p4/3P4/2N2N2/PPP1PPPP/R3K2R w KQkq - 0 1",
		"4k3/2pppp2/8/4P1K1/4PP2/3P4/8/8 w - - 0 1",
		"rnbqkb1r/pp3ppp/2p1pn2/3p4/2PP4/2N1PN2/PP3PPP/R1BQKB1R w KQkq - 0 1",
	}

	for _, start := range positions {
		t.Run(start, func(t *testing.T) {
			pos, _, _, _, err := fen.Decode(start)
			require.NoError(t, err)

			ev := eval.NewDefault()
			result := ev.Analyze(pos)

			var sum eval.Score
			for _, ps := range result.Pieces {
				sum += ps.SignedTotal
			}
			assert.Equal(t, result.Score, sum)
			assert.Equal(t, result.Score, ev.Evaluate(pos))
		})
	}
}

// TestMirrorSymmetry asserts the evaluator has no color bias: mirroring a
// position (swap side to move's material/placement roles) across colors
// should negate the score, since the Config weights are color-agnostic.
func TestMirrorSymmetry(t *testing.T) {
	white, _, _, _, err := fen.Decode("4k3/2pppp2/8/4P1K1/4PP2/3P4/8/8 w - - 0 1")
	require.NoError(t, err)
	black, _, _, _, err := fen.Decode("8/8/3p4/4pp2/4p1k1/8/2PPPP2/4K3 b - - 0 1")
	require.NoError(t, err)

	ev := eval.NewDefault()
	assert.Equal(t, ev.Evaluate(white), -ev.Evaluate(black))
}

func TestHeatmapOmitsZeroSquares(t *testing.T) {
	pos, _, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	result := eval.NewDefault().Analyze(pos)
	for sq, v := range result.Heatmap {
		assert.NotZero(t, v, "square %v has a zero entry in the heatmap", sq)
	}
}

func TestPieceValuesMatchSignedTotal(t *testing.T) {
	pos, _, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	result := eval.NewDefault().Analyze(pos)
	for _, ps := range result.Pieces {
		assert.Equal(t, ps.SignedTotal, result.PieceValues[ps.Square])
	}
}
