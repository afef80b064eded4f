package search

import (
	"context"
	"sync"
	"time"

	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"golang.org/x/sync/errgroup"

	"github.com/corvid-chess/engine/pkg/board"
	"github.com/corvid-chess/engine/pkg/eval"
)

// Result is the committed outcome of the last fully completed depth:
// the payload of a "complete" Snapshot, without the snapshot-only
// fields (CurrentMove, Kind, per-record Eval/EvalCP aliasing).
type Result struct {
	Depth      int
	BestMove   board.Move
	BestScore  eval.Score
	PV         []board.Move
	Candidates []Candidate
	Nodes      uint64
	Cutoffs    uint64
	NPS        uint64
	Elapsed    time.Duration

	PieceValues    map[board.Square]eval.Score
	PieceBreakdown []eval.PieceScore
	Heatmap        map[board.Square]int
}

// Handle lets the caller stop a running search and retrieve its
// committed result. Halt is idempotent. It blocks until the search has
// committed its first depth or has ended without committing one, then
// signals the search to stop and returns the result committed at that
// moment; it does not wait for the search task to exit.
type Handle interface {
	Halt() Result
}

type handle struct {
	init, quit iox.AsyncCloser

	mu     sync.Mutex
	result Result
}

func (h *handle) Halt() Result {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

// Launch starts an iterative-deepening search of pos under opts and
// returns a Handle plus the instrumentation channel. pos is owned
// exclusively by the search for its duration; the caller must not
// touch it until the channel closes (Halt may return while the search
// task is still unwinding).
//
// Two tasks cooperate, coordinated by an errgroup: the search task
// runs negamax to completion/timeout/cancellation and offers snapshots
// on a best-effort basis; the publisher task throttles and forwards
// them to the caller's channel. The search task never blocks on the
// publisher.
func Launch(ctx context.Context, ev *eval.Evaluator, pos *board.Position, opts Options) (Handle, <-chan Snapshot) {
	h := &handle{init: iox.NewAsyncCloser(), quit: iox.NewAsyncCloser()}
	raw := make(chan Snapshot)
	out := make(chan Snapshot, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		runSearchTask(gctx, h, ev, pos, opts, raw)
		return nil
	})
	g.Go(func() error {
		runPublisher(raw, out, opts.snapshotInterval())
		return nil
	})
	go func() { _ = g.Wait() }()

	return h, out
}

func runSearchTask(ctx context.Context, h *handle, ev *eval.Evaluator, pos *board.Position, opts Options, raw chan<- Snapshot) {
	defer close(raw)

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 1
	}

	root := ev.Analyze(pos)
	s := &state{ev: ev, start: time.Now(), timeLimit: opts.TimeLimit}

	var committed Result
	haveResult := false

	for depth := 1; depth <= maxDepth; depth++ {
		score, pv, candidates, complete := searchRoot(wctx, pos, depth, s, func(m board.Move, cands []Candidate) {
			tryPublish(raw, buildSnapshot(KindSnapshot, depth, s, m, nil, board.Move{}, cands, root))
		})
		if !complete {
			break
		}

		elapsed := time.Since(s.start)
		committed = Result{
			Depth:          depth,
			BestMove:       firstMove(pv),
			BestScore:      score,
			PV:             pv,
			Candidates:     candidates,
			Nodes:          s.nodes,
			Cutoffs:        s.cutoffs,
			NPS:            nps(s.nodes, elapsed),
			Elapsed:        elapsed,
			PieceValues:    root.PieceValues,
			PieceBreakdown: root.Pieces,
			Heatmap:        root.Heatmap,
		}
		haveResult = true

		h.mu.Lock()
		h.result = committed
		h.mu.Unlock()
		h.init.Close()

		tryPublish(raw, buildSnapshot(KindSnapshot, depth, s, board.Move{}, pv, committed.BestMove, candidates, root))

		if pliesToMate, ok := mateDistance(score); ok && pliesToMate <= depth {
			break
		}
	}

	h.init.Close() // no-op if already closed; releases Halt when no depth completed

	if !haveResult {
		return // nothing committed: emit no terminal record, per the timeout/cancel carve-out
	}
	raw <- buildSnapshot(KindComplete, committed.Depth, s, committed.BestMove, committed.PV, committed.BestMove, committed.Candidates, root)
}

func firstMove(pv []board.Move) board.Move {
	if len(pv) == 0 {
		return board.Move{}
	}
	return pv[0]
}

// mateDistance reports the number of plies to a forced mate encoded in
// score, if score is a mate score.
func mateDistance(score eval.Score) (int, bool) {
	d := MATE - abs(score)
	if d < 0 || d > MATE/2 {
		return 0, false
	}
	return int(d), true
}

func abs(s eval.Score) eval.Score {
	if s < 0 {
		return -s
	}
	return s
}

func buildSnapshot(kind string, depth int, s *state, current board.Move, pv []board.Move, best board.Move, candidates []Candidate, root eval.Result) Snapshot {
	elapsed := time.Since(s.start)
	score := eval.Score(0)
	if len(candidates) > 0 {
		score = bestCandidateScore(candidates)
	}

	return Snapshot{
		Kind:           kind,
		Depth:          depth,
		Nodes:          s.nodes,
		Cutoffs:        s.cutoffs,
		NPS:            nps(s.nodes, elapsed),
		ElapsedMS:      elapsed.Milliseconds(),
		CurrentMove:    current,
		PV:             pv,
		BestMove:       best,
		EvalCP:         score,
		Eval:           float64(score) / 100.0,
		Candidates:     candidates,
		PieceValues:    root.PieceValues,
		PieceBreakdown: root.Pieces,
		Heatmap:        root.Heatmap,
	}
}

func bestCandidateScore(candidates []Candidate) eval.Score {
	best := candidates[0].Score
	for _, c := range candidates[1:] {
		if c.Score > best {
			best = c.Score
		}
	}
	return best
}
