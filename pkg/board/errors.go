package board

import "fmt"

// InvalidFen reports a structurally malformed FEN string. The Position
// being decoded is left untouched when this is returned.
type InvalidFen struct {
	Fen    string
	Reason string
}

func (e *InvalidFen) Error() string {
	return fmt.Sprintf("board: invalid FEN %q: %v", e.Fen, e.Reason)
}

// IllegalMove reports a move that is not legal in the position it was
// checked against, e.g. one submitted by a caller via long algebraic
// notation that does not match any generated legal move.
type IllegalMove struct {
	Move string
	Fen  string
}

func (e *IllegalMove) Error() string {
	return fmt.Sprintf("board: illegal move %q in position %q", e.Move, e.Fen)
}

// InternalError wraps an invariant violation recovered from a panic inside
// pkg/board (e.g. Unmake with an empty undo stack, or piece and occupancy
// bitboards that disagree). Make and Unmake do not check king counts.
// It is never returned by pkg/board itself; pkg/engine recovers the panic at
// its boundary and constructs this to report it as a normal error value.
type InternalError struct {
	Reason string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("board: internal error: %v", e.Reason)
}
