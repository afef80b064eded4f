// Package fen reads and writes chess positions in Forsyth-Edwards
// Notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/corvid-chess/engine/pkg/board"
)

// Initial is the FEN of the standard starting position.
const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode parses a FEN record into a Position plus the side to move,
// halfmove clock and fullmove number. Fields 5 and 6 (halfmove clock,
// fullmove number) are optional and default to 0 and 1. On any
// structural error it returns a *board.InvalidFen and the Position
// pointer is nil.
func Decode(fen string) (*board.Position, board.Color, int, int, error) {
	fields := strings.Fields(strings.TrimSpace(fen))
	if len(fields) < 4 {
		return nil, 0, 0, 0, &board.InvalidFen{Fen: fen, Reason: "expected at least 4 space-separated fields"}
	}
	for len(fields) < 6 {
		if len(fields) == 4 {
			fields = append(fields, "0")
		} else {
			fields = append(fields, "1")
		}
	}

	pieces, err := decodePlacement(fields[0], fen)
	if err != nil {
		return nil, 0, 0, 0, err
	}

	active, ok := parseColor(fields[1])
	if !ok {
		return nil, 0, 0, 0, &board.InvalidFen{Fen: fen, Reason: "invalid active color: " + fields[1]}
	}

	castling, ok := parseCastling(fields[2])
	if !ok {
		return nil, 0, 0, 0, &board.InvalidFen{Fen: fen, Reason: "invalid castling availability: " + fields[2]}
	}

	ep := board.ZeroSquare
	if fields[3] != "-" {
		sq, err := board.ParseSquareStr(fields[3])
		if err != nil {
			return nil, 0, 0, 0, &board.InvalidFen{Fen: fen, Reason: "invalid en passant target: " + fields[3]}
		}
		ep = sq
	}

	halfmove, err2 := strconv.Atoi(fields[4])
	if err2 != nil || halfmove < 0 {
		return nil, 0, 0, 0, &board.InvalidFen{Fen: fen, Reason: "invalid halfmove clock: " + fields[4]}
	}

	fullmove, err3 := strconv.Atoi(fields[5])
	if err3 != nil || fullmove < 1 {
		return nil, 0, 0, 0, &board.InvalidFen{Fen: fen, Reason: "invalid fullmove number: " + fields[5]}
	}

	pos, perr := board.NewPosition(pieces, active, castling, ep, halfmove, fullmove)
	if perr != nil {
		return nil, 0, 0, 0, &board.InvalidFen{Fen: fen, Reason: perr.Error()}
	}
	return pos, active, halfmove, fullmove, nil
}

// decodePlacement parses field 1: 8 rank rows, White's 8th rank first,
// separated by '/', digits denoting runs of empty squares.
func decodePlacement(field, fen string) ([]board.Placement, error) {
	rows := strings.Split(field, "/")
	if len(rows) != 8 {
		return nil, &board.InvalidFen{Fen: fen, Reason: fmt.Sprintf("expected 8 ranks, got %d", len(rows))}
	}

	var pieces []board.Placement
	for i, row := range rows {
		rank := board.Rank8 - board.Rank(i)
		file := board.ZeroFile

		for _, r := range row {
			switch {
			case unicode.IsDigit(r):
				n := board.File(r - '0')
				if n < 1 || file+n > board.NumFiles {
					return nil, &board.InvalidFen{Fen: fen, Reason: "invalid empty-square run in rank " + row}
				}
				file += n

			default:
				color, piece, ok := parsePiece(r)
				if !ok {
					return nil, &board.InvalidFen{Fen: fen, Reason: fmt.Sprintf("invalid piece character %q", r)}
				}
				if file >= board.NumFiles {
					return nil, &board.InvalidFen{Fen: fen, Reason: "rank " + row + " has too many squares"}
				}
				pieces = append(pieces, board.Placement{Square: board.NewSquare(file, rank), Color: color, Piece: piece})
				file++
			}
		}
		if file != board.NumFiles {
			return nil, &board.InvalidFen{Fen: fen, Reason: "rank " + row + " does not sum to 8 squares"}
		}
	}
	return pieces, nil
}

// Encode renders a position as a FEN record.
func Encode(pos *board.Position, turn board.Color, halfmove, fullmove int) string {
	var sb strings.Builder
	for r := int(board.Rank8); r >= int(board.Rank1); r-- {
		blanks := 0
		for f := board.ZeroFile; f < board.NumFiles; f++ {
			color, piece, ok := pos.Square(board.NewSquare(f, board.Rank(r)))
			if !ok {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(printPiece(color, piece))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r > int(board.Rank1) {
			sb.WriteRune('/')
		}
	}

	ep := "-"
	if sq, ok := pos.EnPassant(); ok {
		ep = sq.String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), printColor(turn), printCastling(pos.Castling()), ep, halfmove, fullmove)
}

func parseCastling(str string) (board.Castling, bool) {
	var ret board.Castling
	if str == "-" {
		return ret, true
	}
	for _, r := range str {
		switch r {
		case 'K':
			ret |= board.WhiteKingSide
		case 'Q':
			ret |= board.WhiteQueenSide
		case 'k':
			ret |= board.BlackKingSide
		case 'q':
			ret |= board.BlackQueenSide
		default:
			return 0, false
		}
	}
	return ret, true
}

func printCastling(c board.Castling) string {
	return c.String()
}

func parseColor(str string) (board.Color, bool) {
	switch str {
	case "w":
		return board.White, true
	case "b":
		return board.Black, true
	default:
		return 0, false
	}
}

func printColor(c board.Color) string {
	return c.String()
}

func parsePiece(r rune) (board.Color, board.Piece, bool) {
	piece, ok := board.ParsePiece(r)
	if !ok {
		return 0, 0, false
	}
	if unicode.IsUpper(r) {
		return board.White, piece, true
	}
	return board.Black, piece, true
}

func printPiece(c board.Color, p board.Piece) rune {
	s := p.String()
	if c == board.White {
		s = strings.ToUpper(s)
	}
	return []rune(s)[0]
}
