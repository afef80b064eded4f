// Package search implements iterative-deepening negamax-alphabeta over
// pkg/board, instrumented with a throttled progress stream.
package search

import (
	"time"

	"github.com/corvid-chess/engine/pkg/board"
	"github.com/corvid-chess/engine/pkg/eval"
)

// MATE is a sentinel score magnitude for forced mate, chosen well clear
// of any plausible evaluator range so mate scores are never confused
// with positional ones.
const MATE eval.Score = 100000

// Inf is the alpha-beta window's open bound, kept well clear of MATE so
// it is never mistaken for a forced-mate score.
const Inf eval.Score = 1000000

// DefaultSnapshotInterval is used when Options.SnapshotInterval is
// zero or negative.
const DefaultSnapshotInterval = 140 * time.Millisecond

// MinSnapshotInterval is the smallest throttle window honored; smaller
// requests are clamped up to it.
const MinSnapshotInterval = 50 * time.Millisecond

// Options configures a search.
type Options struct {
	MaxDepth         int
	TimeLimit        time.Duration
	SnapshotInterval time.Duration
}

func (o Options) snapshotInterval() time.Duration {
	if o.SnapshotInterval < MinSnapshotInterval {
		if o.SnapshotInterval <= 0 {
			return DefaultSnapshotInterval
		}
		return MinSnapshotInterval
	}
	return o.SnapshotInterval
}

// Candidate is one root move's score from the most recently completed
// depth, in root-move search order.
type Candidate struct {
	Move  board.Move
	Score eval.Score
}

// Snapshot is a single record on the instrumentation channel: either a
// progress update ("snapshot"), or one of the two terminal kinds
// ("complete", "error").
type Snapshot struct {
	Kind string // "snapshot" | "complete" | "error"

	Depth       int
	Nodes       uint64
	Cutoffs     uint64
	NPS         uint64
	ElapsedMS   int64
	CurrentMove board.Move
	PV          []board.Move
	BestMove    board.Move
	EvalCP      eval.Score
	Eval        float64
	Candidates  []Candidate

	PieceValues    map[board.Square]eval.Score
	PieceBreakdown []eval.PieceScore
	Heatmap        map[board.Square]int

	// Message and ErrKind are set only when Kind == "error".
	Message string
	ErrKind string
}

const (
	KindSnapshot = "snapshot"
	KindComplete = "complete"
	KindError    = "error"
)

func nps(nodes uint64, elapsed time.Duration) uint64 {
	ms := elapsed.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	return nodes * 1000 / uint64(ms)
}
