package search

import (
	"context"
	"time"

	"github.com/seekerror/stdlib/pkg/util/contextx"

	"github.com/corvid-chess/engine/pkg/board"
	"github.com/corvid-chess/engine/pkg/eval"
)

// state carries the counters and abort bookkeeping threaded through a
// single negamax tree walk. Abort is a cooperative flag, not a panic:
// once set, every still-open call frame returns immediately and lets
// its caller do the same, unwinding cleanly back to the root without
// unwinding via an exception.
type state struct {
	ev *eval.Evaluator

	start     time.Time
	timeLimit time.Duration

	nodes   uint64
	cutoffs uint64
	aborted bool
}

func (s *state) checkAbort(ctx context.Context) bool {
	if s.aborted {
		return true
	}
	if contextx.IsCancelled(ctx) || time.Since(s.start) >= s.timeLimit {
		s.aborted = true
	}
	return s.aborted
}

// negamax returns the centipawn score of pos from the side-to-move's
// perspective, searched to the given remaining depth, plus the
// principal variation from this node. ply is the distance from the
// search root, used only for mate-distance scoring.
func negamax(ctx context.Context, pos *board.Position, depth, ply int, alpha, beta eval.Score, s *state) (eval.Score, []board.Move) {
	if s.checkAbort(ctx) {
		return 0, nil
	}

	if depth == 0 {
		s.nodes++
		return leafScore(pos, s.ev), nil
	}

	moves := board.GenerateLegalMoves(pos)
	if len(moves) == 0 {
		s.nodes++
		if pos.IsChecked(pos.Turn()) {
			return -MATE + eval.Score(ply), nil
		}
		return 0, nil
	}

	s.nodes++

	var pv []board.Move
	for _, m := range orderMoves(moves) {
		pos.Make(m)
		child, childPV := negamax(ctx, pos, depth-1, ply+1, -beta, -alpha, s)
		pos.Unmake()

		if s.aborted {
			return 0, nil
		}

		score := -child
		if score >= beta {
			s.cutoffs++
			return beta, nil
		}
		if score > alpha {
			alpha = score
			pv = append([]board.Move{m}, childPV...)
		}
	}
	return alpha, pv
}

// leafScore evaluates pos and flips it to the side-to-move's
// perspective; Evaluate itself is always White-minus-Black.
func leafScore(pos *board.Position, ev *eval.Evaluator) eval.Score {
	score := ev.Evaluate(pos)
	if pos.Turn() == board.Black {
		return -score
	}
	return score
}

// searchRoot runs one full iterative-deepening depth from pos: every
// root move is explored via negamax and its score recorded, in
// generator-order-preserving move-ordering sequence, so a caller can
// report per-move candidates even if the depth aborts partway.
func searchRoot(ctx context.Context, pos *board.Position, depth int, s *state, onRootMove func(m board.Move, candidates []Candidate)) (eval.Score, []board.Move, []Candidate, bool) {
	moves := board.GenerateLegalMoves(pos)
	if len(moves) == 0 {
		if pos.IsChecked(pos.Turn()) {
			return -MATE, nil, nil, true
		}
		return 0, nil, nil, true
	}

	alpha, beta := -Inf, Inf
	var pv []board.Move
	candidates := make([]Candidate, 0, len(moves))

	for _, m := range orderMoves(moves) {
		if s.checkAbort(ctx) {
			return 0, nil, candidates, false
		}

		pos.Make(m)
		child, childPV := negamax(ctx, pos, depth-1, 1, -beta, -alpha, s)
		pos.Unmake()

		if s.aborted {
			return 0, nil, candidates, false
		}

		score := -child
		candidates = append(candidates, Candidate{Move: m, Score: score})
		if onRootMove != nil {
			onRootMove(m, candidates)
		}

		if score > alpha {
			alpha = score
			pv = append([]board.Move{m}, childPV...)
		}
	}
	return alpha, pv, candidates, true
}
