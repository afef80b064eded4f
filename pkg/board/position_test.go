package board_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-chess/engine/pkg/board"
	"github.com/corvid-chess/engine/pkg/board/fen"
)

func TestNewPositionRejectsBadKingCounts(t *testing.T) {
	_, err := board.NewPosition(nil, board.White, board.NoCastling, board.ZeroSquare, 0, 1)
	assert.Error(t, err)

	_, err = board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.E4, Color: board.White, Piece: board.King},
	}, board.White, board.NoCastling, board.ZeroSquare, 0, 1)
	assert.Error(t, err)
}

func TestNewPositionRejectsDuplicatePlacement(t *testing.T) {
	_, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.A1, Color: board.White, Piece: board.Rook},
		{Square: board.A1, Color: board.White, Piece: board.Queen},
	}, board.White, board.NoCastling, board.ZeroSquare, 0, 1)
	assert.Error(t, err)
}

// TestMakeUnmakeRoundTrip walks every legal move two plies deep from a set
// of representative positions and asserts that Unmake restores the exact
// prior Position, using go-cmp for a clear diff on mismatch (the teacher's
// assert.Equal gives an unreadable dump for a struct with only unexported
// bitboard fields).
func TestMakeUnmakeRoundTrip(t *testing.T) {
	positions := []string{
		fen.Initial,
		"r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}

	for _, start := range positions {
		t.Run(start, func(t *testing.T) {
			pos, _, _, _, err := fen.Decode(start)
			require.NoError(t, err)

			before := *pos
			for _, m1 := range board.GenerateLegalMoves(pos) {
				pos.Make(m1)
				for _, m2 := range board.GenerateLegalMoves(pos) {
					pos.Make(m2)
					pos.Unmake()
				}
				pos.Unmake()

				if diff := cmp.Diff(before, *pos, cmp.AllowUnexported(board.Position{})); diff != "" {
					t.Fatalf("Unmake(%v) left position diff (-before +after):\n%v", m1, diff)
				}
			}
		})
	}
}

func TestUnmakeEmptyStackPanics(t *testing.T) {
	pos, _, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	assert.Panics(t, func() { pos.Unmake() })
}

func TestLegalMovesNeverSelfCheck(t *testing.T) {
	positions := []string{
		fen.Initial,
		"r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1",
		"4k3/8/8/8/8/8/4Q3/4K3 b - - 0 1",
	}

	for _, start := range positions {
		t.Run(start, func(t *testing.T) {
			pos, turn, _, _, err := fen.Decode(start)
			require.NoError(t, err)

			for _, m := range board.GenerateLegalMoves(pos) {
				pos.Make(m)
				assert.False(t, pos.IsAttacked(pos.King(turn), turn.Opponent()),
					"move %v leaves %v's own king in check", m, turn)
				pos.Unmake()
			}
		})
	}
}

func TestIsAttackedAndAttackerCount(t *testing.T) {
	pos, _, _, _, err := fen.Decode("4k3/8/8/8/8/2r5/8/R3K2R w KQ - 0 1")
	require.NoError(t, err)

	assert.True(t, pos.IsAttacked(board.C1, board.Black))
	assert.Equal(t, 1, pos.AttackerCount(board.C1, board.Black))
	assert.False(t, pos.IsAttacked(board.H1, board.Black))
	assert.Equal(t, 0, pos.AttackerCount(board.H1, board.Black))
}

func TestCastlingRightsClearedByKingAndRookMoves(t *testing.T) {
	pos, _, _, _, err := fen.Decode("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	pos.Make(board.Move{Type: board.Normal, Piece: board.King, From: board.E1, To: board.E2})
	assert.False(t, pos.Castling().IsAllowed(board.WhiteKingSide))
	assert.False(t, pos.Castling().IsAllowed(board.WhiteQueenSide))
	assert.True(t, pos.Castling().IsAllowed(board.BlackKingSide))
	assert.True(t, pos.Castling().IsAllowed(board.BlackQueenSide))
}

func TestCastlingRightsClearedByRookCapture(t *testing.T) {
	pos, _, _, _, err := fen.Decode("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	m := board.Move{Type: board.Normal, Piece: board.Rook, From: board.A1, To: board.A8, Capture: board.Rook}
	pos.Make(m)
	assert.False(t, pos.Castling().IsAllowed(board.BlackQueenSide))
	assert.True(t, pos.Castling().IsAllowed(board.BlackKingSide))
}
