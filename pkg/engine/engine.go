// Package engine is the library-level API a future HTTP/WebSocket façade
// would call: parse/legal-moves/apply-move/reset/analyze/engine-move/
// stream-search, implemented directly over pkg/board, pkg/eval and
// pkg/search. It owns no transport and no persistence.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"

	"github.com/corvid-chess/engine/pkg/board"
	"github.com/corvid-chess/engine/pkg/board/fen"
	"github.com/corvid-chess/engine/pkg/eval"
	"github.com/corvid-chess/engine/pkg/search"
)

var version = build.NewVersion(0, 1, 0)

// Status is the game-theoretic status of a position.
type Status string

const (
	Ongoing   Status = "ongoing"
	Checkmate Status = "checkmate"
	Stalemate Status = "stalemate"
)

// Position is the decoded view of a FEN string returned by ParseFEN.
type Position struct {
	FEN        string
	SideToMove board.Color
	Castling   board.Castling
	EnPassant  string
	Halfmove   int
	Fullmove   int
}

// LegalMovesResult is the shared payload of legal_moves/apply_move/reset.
type LegalMovesResult struct {
	FEN            string
	SideToMove     board.Color
	LegalMoves     []string
	Status         Status
	PositionEvalCP eval.Score
	PositionEval   float64
}

// SearchResult is the payload of analyze/engine_move: the same shape as a
// "complete" Snapshot, plus (for EngineMove) the position after applying
// the best move.
type SearchResult struct {
	Depth      int
	Nodes      uint64
	Cutoffs    uint64
	NPS        uint64
	ElapsedMS  int64
	BestMove   board.Move
	PV         []board.Move
	EvalCP     eval.Score
	Eval       float64
	Candidates []search.Candidate

	PieceValues    map[board.Square]eval.Score
	PieceBreakdown []eval.PieceScore
	Heatmap        map[board.Square]int

	// Applied* are populated only by EngineMove.
	AppliedFEN string
	Status     Status
}

// Options are engine-wide search defaults, overridable per call via
// SearchRequest.
type Options struct {
	// MaxDepth is the default search depth limit used when a request omits
	// one.
	MaxDepth int
	// TimeLimit is the default wall-clock budget used when a request omits
	// one.
	TimeLimit time.Duration
	// SnapshotInterval is the default streaming throttle used when a
	// request omits one.
	SnapshotInterval time.Duration
}

// SearchRequest parameterizes Analyze/EngineMove/StreamSearch. Zero fields
// fall back to the engine's configured Options.
type SearchRequest struct {
	FEN              string
	MaxDepth         int
	TimeLimitMS      int64
	SnapshotInterval int64 // milliseconds; StreamSearch only
}

// Engine wraps a mutable "current" position plus default search options
// behind a mutex. Every operation that takes an explicit FEN is stateless
// with respect to it; the current position is only written by Reset and
// consulted as the implicit subject when LegalMoves is given an empty FEN
// or a SearchRequest.FEN is empty, so
// concurrent Analyze/EngineMove/StreamSearch calls against explicit FENs
// never contend with each other — only the current-position bookkeeping
// itself is guarded.
type Engine struct {
	name, author string

	ev   *eval.Evaluator
	opts Options

	mu   sync.Mutex
	pos  *board.Position
	turn board.Color
	half int
	full int
}

// Option is an engine construction option.
type Option func(*Engine)

// WithOptions sets default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithEvaluator configures the evaluator used for position_eval, Analyze
// and EngineMove. Defaults to eval.NewDefault().
func WithEvaluator(ev *eval.Evaluator) Option {
	return func(e *Engine) {
		e.ev = ev
	}
}

// New constructs an Engine reset to the standard starting position.
func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{
		name:   name,
		author: author,
		ev:     eval.NewDefault(),
	}
	for _, fn := range opts {
		fn(e)
	}
	if err := e.Reset(ctx, fen.Initial); err != nil {
		// fen.Initial is a compile-time constant; failing to decode it is
		// a programming error in the engine itself, not caller input.
		panic(fmt.Sprintf("engine: invalid built-in starting FEN: %v", err))
	}

	logw.Infof(ctx, "Initialized engine: %v", e.Name())
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

// ParseFEN decodes fenStr. It does not touch any Engine's current position.
func ParseFEN(fenStr string) (pos Position, err error) {
	defer recoverInternal(&err)

	p, turn, half, full, decodeErr := fen.Decode(fenStr)
	if decodeErr != nil {
		return Position{}, decodeErr
	}

	ep := "-"
	if sq, ok := p.EnPassant(); ok {
		ep = sq.String()
	}
	return Position{
		FEN:        fenStr,
		SideToMove: turn,
		Castling:   p.Castling(),
		EnPassant:  ep,
		Halfmove:   half,
		Fullmove:   full,
	}, nil
}

// LegalMoves decodes fenStr (or, when it is empty, takes the engine's
// current position) and reports its legal moves and status.
func (e *Engine) LegalMoves(ctx context.Context, fenStr string) (res LegalMovesResult, err error) {
	defer recoverInternal(&err)

	pos, turn, half, full, decodeErr := e.positionFor(fenStr)
	if decodeErr != nil {
		return LegalMovesResult{}, decodeErr
	}
	if fenStr == "" {
		fenStr = fen.Encode(pos, turn, half, full)
	}
	return e.describe(pos, turn, fenStr), nil
}

// ApplyMove decodes fenStr, checks move against the legal set, and returns
// the resulting position's legal_moves-shaped description. Returns
// *board.IllegalMove if move does not match any legal move.
func (e *Engine) ApplyMove(ctx context.Context, fenStr, move string) (res LegalMovesResult, err error) {
	defer recoverInternal(&err)

	pos, turn, _, full, decodeErr := fen.Decode(fenStr)
	if decodeErr != nil {
		return LegalMovesResult{}, decodeErr
	}

	candidate, parseErr := board.ParseMove(move)
	if parseErr != nil {
		return LegalMovesResult{}, &board.IllegalMove{Move: move, Fen: fenStr}
	}

	legal := board.GenerateLegalMoves(pos)
	m, ok := matchMove(legal, candidate)
	if !ok {
		return LegalMovesResult{}, &board.IllegalMove{Move: move, Fen: fenStr}
	}

	pos.Make(m)
	newFEN := fen.Encode(pos, pos.Turn(), pos.HalfmoveClock(), nextFullmove(full, turn))
	logw.Infof(ctx, "ApplyMove %v on %v -> %v", move, fenStr, newFEN)
	return e.describe(pos, pos.Turn(), newFEN), nil
}

// Reset resets the engine's current position to fenStr. Searches already
// running are not affected. An empty fenStr resets to the standard
// starting position.
func (e *Engine) Reset(ctx context.Context, fenStr string) (err error) {
	defer recoverInternal(&err)

	if fenStr == "" {
		fenStr = fen.Initial
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	pos, turn, half, full, decodeErr := fen.Decode(fenStr)
	if decodeErr != nil {
		return decodeErr
	}

	e.pos, e.turn, e.half, e.full = pos, turn, half, full
	logw.Infof(ctx, "Reset %v", fenStr)
	return nil
}

// Analyze runs a search to completion on req.FEN (or the engine's current
// position if req.FEN is empty) and returns the terminal record.
func (e *Engine) Analyze(ctx context.Context, req SearchRequest) (res SearchResult, err error) {
	defer recoverInternal(&err)

	rr, resolveErr := e.resolveRequest(req)
	if resolveErr != nil {
		return SearchResult{}, resolveErr
	}

	logw.Infof(ctx, "Analyze %v, opts=%+v", req.FEN, rr.opts)

	handle, out := search.Launch(ctx, e.ev, rr.pos, rr.opts)
	for range out {
		// Drain snapshots; only the terminal record (read via Halt) matters
		// for Analyze's synchronous contract.
	}
	result := handle.Halt()
	return toSearchResult(result), nil
}

// EngineMove runs a search to completion and applies its best move to the
// position, returning both the search result and the resulting position.
func (e *Engine) EngineMove(ctx context.Context, req SearchRequest) (res SearchResult, err error) {
	defer recoverInternal(&err)

	rr, resolveErr := e.resolveRequest(req)
	if resolveErr != nil {
		return SearchResult{}, resolveErr
	}

	logw.Infof(ctx, "EngineMove %v, opts=%+v", req.FEN, rr.opts)

	handle, out := search.Launch(ctx, e.ev, rr.pos, rr.opts)
	for range out {
	}
	result := handle.Halt()
	sr := toSearchResult(result)

	if result.BestMove == (board.Move{}) {
		return sr, nil
	}

	legal := board.GenerateLegalMoves(rr.pos)
	m, ok := matchMove(legal, result.BestMove)
	if !ok {
		return SearchResult{}, &board.InternalError{Reason: fmt.Sprintf("search returned non-legal best move %v", result.BestMove)}
	}

	turn := rr.pos.Turn()
	rr.pos.Make(m)
	sr.AppliedFEN = fen.Encode(rr.pos, rr.pos.Turn(), rr.pos.HalfmoveClock(), nextFullmove(rr.full, turn))
	if len(board.GenerateLegalMoves(rr.pos)) == 0 {
		if rr.pos.IsChecked(rr.pos.Turn()) {
			sr.Status = Checkmate
		} else {
			sr.Status = Stalemate
		}
	} else {
		sr.Status = Ongoing
	}
	logw.Infof(ctx, "EngineMove %v -> %v (%v)", req.FEN, sr.AppliedFEN, sr.Status)
	return sr, nil
}

// StreamSearch launches a search and forwards every streamed Snapshot to
// the returned channel, closing it once the search's instrumentation
// channel closes (after the terminal record, or immediately if no depth
// completed). The caller may halt early via the returned Handle.
func (e *Engine) StreamSearch(ctx context.Context, req SearchRequest) (search.Handle, <-chan search.Snapshot, error) {
	rr, err := e.resolveRequest(req)
	if err != nil {
		return nil, nil, err
	}

	logw.Infof(ctx, "StreamSearch %v, opts=%+v", req.FEN, rr.opts)
	handle, out := search.Launch(ctx, e.ev, rr.pos, rr.opts)
	return handle, out, nil
}

// resolvedRequest is a decoded SearchRequest: the position to search plus
// its decoded halfmove/fullmove clocks (the fullmove number is needed to
// re-encode a FEN after a move is applied) and the filled-in search options.
type resolvedRequest struct {
	pos        *board.Position
	half, full int
	opts       search.Options
}

// resolveRequest decodes req.FEN (falling back to the engine's current
// position when empty) and fills in MaxDepth/TimeLimit/SnapshotInterval
// defaults from e.opts.
func (e *Engine) resolveRequest(req SearchRequest) (resolvedRequest, error) {
	pos, _, half, full, err := e.positionFor(req.FEN)
	if err != nil {
		return resolvedRequest{}, err
	}

	depth := req.MaxDepth
	if depth <= 0 {
		depth = e.opts.MaxDepth
	}
	timeLimit := e.opts.TimeLimit
	if req.TimeLimitMS > 0 {
		timeLimit = time.Duration(req.TimeLimitMS) * time.Millisecond
	}
	snapshot := e.opts.SnapshotInterval
	if req.SnapshotInterval > 0 {
		snapshot = time.Duration(req.SnapshotInterval) * time.Millisecond
	}

	opts := search.Options{MaxDepth: depth, TimeLimit: timeLimit, SnapshotInterval: snapshot}
	return resolvedRequest{pos: pos, half: half, full: full, opts: opts}, nil
}

// positionFor decodes fenStr, or returns a fresh copy of the engine's
// current position when fenStr is empty.
func (e *Engine) positionFor(fenStr string) (*board.Position, board.Color, int, int, error) {
	if fenStr == "" {
		e.mu.Lock()
		cur := fen.Encode(e.pos, e.turn, e.half, e.full)
		e.mu.Unlock()
		fenStr = cur
	}
	return fen.Decode(fenStr)
}

// describe builds a LegalMovesResult for pos/turn/fenStr, shared by
// LegalMoves and ApplyMove.
func (e *Engine) describe(pos *board.Position, turn board.Color, fenStr string) LegalMovesResult {
	legal := board.GenerateLegalMoves(pos)

	moves := make([]string, len(legal))
	for i, m := range legal {
		moves[i] = m.String()
	}

	status := Ongoing
	if len(legal) == 0 {
		if pos.IsChecked(turn) {
			status = Checkmate
		} else {
			status = Stalemate
		}
	}

	score := e.ev.Evaluate(pos)
	if turn == board.Black {
		score = -score
	}

	return LegalMovesResult{
		FEN:            fenStr,
		SideToMove:     turn,
		LegalMoves:     moves,
		Status:         status,
		PositionEvalCP: score,
		PositionEval:   float64(score) / 100.0,
	}
}

func toSearchResult(r search.Result) SearchResult {
	return SearchResult{
		Depth:          r.Depth,
		Nodes:          r.Nodes,
		Cutoffs:        r.Cutoffs,
		NPS:            r.NPS,
		ElapsedMS:      r.Elapsed.Milliseconds(),
		BestMove:       r.BestMove,
		PV:             r.PV,
		EvalCP:         r.BestScore,
		Eval:           float64(r.BestScore) / 100.0,
		Candidates:     r.Candidates,
		PieceValues:    r.PieceValues,
		PieceBreakdown: r.PieceBreakdown,
		Heatmap:        r.Heatmap,
	}
}

func matchMove(legal []board.Move, candidate board.Move) (board.Move, bool) {
	for _, m := range legal {
		if m.Equals(candidate) {
			return m, true
		}
	}
	return board.Move{}, false
}

func nextFullmove(full int, turn board.Color) int {
	if turn == board.Black {
		return full + 1
	}
	return full
}

func recoverInternal(err *error) {
	if r := recover(); r != nil {
		*err = &board.InternalError{Reason: fmt.Sprint(r)}
	}
}
