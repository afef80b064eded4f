package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-chess/engine/pkg/board"
	"github.com/corvid-chess/engine/pkg/board/fen"
	"github.com/corvid-chess/engine/pkg/engine"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(context.Background(), "corvid-test", "corvid-chess")
}

func TestParseFENStartingPosition(t *testing.T) {
	pos, err := engine.ParseFEN(fen.Initial)
	require.NoError(t, err)
	assert.Equal(t, board.White, pos.SideToMove)
	assert.Equal(t, 1, pos.Fullmove)
	assert.Equal(t, 0, pos.Halfmove)
	assert.Equal(t, "-", pos.EnPassant)
}

func TestParseFENInvalid(t *testing.T) {
	_, err := engine.ParseFEN("not a fen")
	assert.Error(t, err)
}

func TestLegalMovesStartingPosition(t *testing.T) {
	e := newEngine(t)
	res, err := e.LegalMoves(context.Background(), fen.Initial)
	require.NoError(t, err)

	assert.Len(t, res.LegalMoves, 20)
	assert.Contains(t, res.LegalMoves, "e2e4")
	assert.Contains(t, res.LegalMoves, "g1f3")
	assert.NotContains(t, res.LegalMoves, "e2e5")
	assert.Equal(t, engine.Ongoing, res.Status)
}

func TestApplyMoveUpdatesFEN(t *testing.T) {
	e := newEngine(t)
	res, err := e.ApplyMove(context.Background(), fen.Initial, "e2e4")
	require.NoError(t, err)

	assert.Equal(t, board.Black, res.SideToMove)
	assert.Contains(t, res.LegalMoves, "e7e5")
}

func TestApplyMoveRejectsIllegalMove(t *testing.T) {
	e := newEngine(t)
	_, err := e.ApplyMove(context.Background(), fen.Initial, "e2e5")
	require.Error(t, err)
	var illegal *board.IllegalMove
	assert.ErrorAs(t, err, &illegal)
}

func TestApplyMoveRejectsUnparseableMove(t *testing.T) {
	e := newEngine(t)
	_, err := e.ApplyMove(context.Background(), fen.Initial, "not-a-move")
	require.Error(t, err)
	var illegal *board.IllegalMove
	assert.ErrorAs(t, err, &illegal)
}

func TestResetDefaultsToStartingPosition(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Reset(context.Background(), "4k3/8/8/8/8/8/8/4K2R w K - 0 1"))
	require.NoError(t, e.Reset(context.Background(), ""))

	res, err := e.LegalMoves(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, res.LegalMoves, 20)
}

func TestAnalyzeMateInOne(t *testing.T) {
	e := newEngine(t)
	res, err := e.Analyze(context.Background(), engine.SearchRequest{
		FEN:         "7k/8/8/8/8/8/6Q1/6K1 w - - 0 1",
		MaxDepth:    3,
		TimeLimitMS: 2000,
	})
	require.NoError(t, err)

	assert.Equal(t, "g2g7", res.BestMove.String())
}

func TestEngineMoveAppliesFoolsMate(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Reset(context.Background(), fen.Initial))

	cur := fen.Initial
	for _, mv := range []string{"f2f3", "e7e5", "g2g4"} {
		applied, err := e.ApplyMove(context.Background(), cur, mv)
		require.NoError(t, err)
		cur = applied.FEN
	}
	require.NoError(t, e.Reset(context.Background(), cur))

	res, err := e.EngineMove(context.Background(), engine.SearchRequest{
		MaxDepth:    2,
		TimeLimitMS: 2000,
	})
	require.NoError(t, err)

	assert.Equal(t, "d8h4", res.BestMove.String())
	assert.Equal(t, engine.Checkmate, res.Status)
}

func TestStreamSearchYieldsExactlyOneTerminalRecord(t *testing.T) {
	e := newEngine(t)
	handle, out, err := e.StreamSearch(context.Background(), engine.SearchRequest{
		FEN:              fen.Initial,
		MaxDepth:         8,
		TimeLimitMS:      500,
		SnapshotInterval: 20,
	})
	require.NoError(t, err)

	var terminals int
	for snap := range out {
		if snap.Kind == "complete" || snap.Kind == "error" {
			terminals++
		}
	}
	assert.Equal(t, 1, terminals)

	result := handle.Halt()
	assert.GreaterOrEqual(t, result.Depth, 1)
}

func TestAnalyzeRespectsTimeLimitCarveOut(t *testing.T) {
	e := newEngine(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	res, err := e.Analyze(ctx, engine.SearchRequest{
		FEN:         fen.Initial,
		MaxDepth:    20,
		TimeLimitMS: 5000,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Depth)
	assert.Empty(t, res.PV)
}
