package search

import "github.com/corvid-chess/engine/pkg/board"

// orderMoves partitions moves into four disjoint categories — captures,
// promotions, castling, everything else — preserving generator order
// within each category. It is a stable, allocation-light ordering, not
// a scored one: no history/killer tables, since the search does not
// keep any cross-node state beyond counters.
func orderMoves(moves []board.Move) []board.Move {
	ordered := make([]board.Move, 0, len(moves))
	ordered = appendCategory(ordered, moves, isCaptureMove)
	ordered = appendCategory(ordered, moves, isPromotionOnly)
	ordered = appendCategory(ordered, moves, isCastleOnly)
	ordered = appendCategory(ordered, moves, isOther)
	return ordered
}

func appendCategory(dst, moves []board.Move, match func(board.Move) bool) []board.Move {
	for _, m := range moves {
		if match(m) {
			dst = append(dst, m)
		}
	}
	return dst
}

func isCaptureMove(m board.Move) bool { return m.IsCapture() }

func isPromotionOnly(m board.Move) bool { return m.IsPromotion() && !m.IsCapture() }

func isCastleOnly(m board.Move) bool { return m.IsCastle() }

func isOther(m board.Move) bool {
	return !m.IsCapture() && !m.IsPromotion() && !m.IsCastle()
}
