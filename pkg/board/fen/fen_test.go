package fen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-chess/engine/pkg/board/fen"
)

func TestRoundTrip(t *testing.T) {
	tests := []string{
		fen.Initial,
		"4k3/2pppp2/8/4P1K1/4PP2/3P4/8/8 w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/5P2/PPPPP1PP/RNBQKBNR w KQkq - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
		"8/8/8/8/8/8/8/4K2k w - - 0 1",
	}

	for _, tt := range tests {
		t.Run(tt, func(t *testing.T) {
			p, c, half, full, err := fen.Decode(tt)
			require.NoError(t, err)
			assert.Equal(t, tt, fen.Encode(p, c, half, full))
		})
	}
}

func TestDecodeDefaultsMissingClocks(t *testing.T) {
	_, _, half, full, err := fen.Decode("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -")
	require.NoError(t, err)
	assert.Equal(t, 0, half)
	assert.Equal(t, 1, full)
}

func TestDecodeInvalid(t *testing.T) {
	tests := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",              // missing a row
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNRX w KQkq - 0 1",    // row too long
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",     // bad side to move
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0",     // fullmove < 1
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - abc 1",   // non-numeric halfmove
		"8/8/8/8/8/8/8/8 w - - 0 1",                                    // no kings
		"kkkkkkkk/8/8/8/8/8/8/KKKKKKKK w - - 0 1",                      // too many kings
	}

	for _, tt := range tests {
		t.Run(tt, func(t *testing.T) {
			_, _, _, _, err := fen.Decode(tt)
			assert.Error(t, err)
		})
	}
}
