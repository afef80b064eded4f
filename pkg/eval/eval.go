// Package eval scores chess positions and explains the score as a
// per-piece breakdown.
package eval

import "github.com/corvid-chess/engine/pkg/board"

// PieceScore is one occupied square's contribution to the position
// score. Base/PST/Mobility/PawnStructure/KingSafety are this piece's
// own magnitudes (independent of color, aside from PST's mirroring);
// SignedTotal folds in the color sign and is what sums, across every
// occupied square, to the overall White-minus-Black score.
type PieceScore struct {
	Square        board.Square
	Color         board.Color
	Piece         board.Piece
	Base          Score
	PST           Score
	Mobility      Score
	PawnStructure Score
	KingSafety    Score
	SignedTotal   Score
}

// Result is the full output of Analyze: the aggregate score plus every
// derived artifact the façade needs for display.
type Result struct {
	Score       Score
	Pieces      []PieceScore
	PieceValues map[board.Square]Score
	Heatmap     map[board.Square]int
}

// Evaluator scores positions under a fixed Config.
type Evaluator struct {
	cfg Config
}

// New returns an Evaluator using cfg.
func New(cfg Config) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// NewDefault returns an Evaluator using DefaultConfig.
func NewDefault() *Evaluator {
	return New(DefaultConfig())
}

// Evaluate returns the White-minus-Black centipawn score. It is the
// search hot path: no breakdown or heatmap is built.
func (e *Evaluator) Evaluate(pos *board.Position) Score {
	total, _ := e.evaluate(pos, false)
	return total
}

// Analyze returns the score together with its per-piece decomposition,
// a piece-values convenience map and the attacker-count heatmap.
func (e *Evaluator) Analyze(pos *board.Position) Result {
	total, pieces := e.evaluate(pos, true)

	values := make(map[board.Square]Score, len(pieces))
	for _, ps := range pieces {
		values[ps.Square] = ps.SignedTotal
	}

	return Result{
		Score:       total,
		Pieces:      pieces,
		PieceValues: values,
		Heatmap:     e.heatmap(pos),
	}
}

func (e *Evaluator) evaluate(pos *board.Position, full bool) (Score, []PieceScore) {
	var total Score
	var pieces []PieceScore
	if full {
		pieces = make([]PieceScore, 0, pos.Both().PopCount())
	}

	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := Score(1)
		if c == board.Black {
			sign = -1
		}

		for _, piece := range board.AllPieces {
			for bb := pos.Pieces(c, piece); bb != 0; {
				sq, rest := bb.PopLSB()
				bb = rest

				base := e.cfg.Material.value(piece)
				pstv := pstValue(piece, c, sq)
				mob := e.mobility(pos, c, piece, sq)
				structure := e.pawnStructureTerm(pos, c, piece, sq)
				king := e.kingSafetyTerm(pos, c, piece, sq)

				signedTotal := sign * (base + pstv + mob + structure + king)
				total += signedTotal

				if full {
					pieces = append(pieces, PieceScore{
						Square:        sq,
						Color:         c,
						Piece:         piece,
						Base:          base,
						PST:           pstv,
						Mobility:      mob,
						PawnStructure: structure,
						KingSafety:    king,
						SignedTotal:   signedTotal,
					})
				}
			}
		}
	}
	return total, pieces
}

// mobility returns the weighted count of legal target squares for the
// piece on sq, own-color occupied squares excluded. Pawn pushes and
// castling are never counted, per the term's definition.
func (e *Evaluator) mobility(pos *board.Position, c board.Color, piece board.Piece, sq board.Square) Score {
	own := pos.Occupied(c)

	var targets board.Bitboard
	switch piece {
	case board.Pawn:
		targets = board.PawnAttacks[c][sq] & pos.Occupied(c.Opponent())
	case board.Knight:
		targets = board.KnightAttacks[sq] &^ own
	case board.King:
		targets = board.KingAttacks[sq] &^ own
	default:
		targets = board.Attacks(piece, sq, pos.Both()) &^ own
	}
	return Score(targets.PopCount()) * e.cfg.Mobility.weight(piece)
}

// pawnStructureTerm is nonzero only for Pawn: doubled/isolated status
// is a property of this specific pawn (relative to the others on its
// file), so each pawn's penalty/bonus is independently well-defined and
// the per-file/per-side totals the spec describes fall out by summing
// over pawns.
func (e *Evaluator) pawnStructureTerm(pos *board.Position, c board.Color, piece board.Piece, sq board.Square) Score {
	if piece != board.Pawn {
		return 0
	}

	friendly := pos.Pieces(c, board.Pawn)
	file := sq.File()

	var term Score
	if onFile := friendly & board.BitFile(file); onFile.PopCount() > 1 {
		rearmost := onFile.LSB()
		if c == board.Black {
			rearmost = onFile.MSB()
		}
		if sq != rearmost {
			term -= e.cfg.Pawns.DoubledPenalty
		}
	}

	if friendly&fileNeighborMask(file) == 0 {
		term -= e.cfg.Pawns.IsolatedPenalty
	}

	enemy := pos.Pieces(c.Opponent(), board.Pawn)
	aheadFiles := board.BitFile(file) | fileNeighborMask(file)
	if enemy&aheadFiles&aheadRanksMask(c, sq.Rank()) == 0 {
		term += e.cfg.Pawns.PassedBonus
	}
	return term
}

// kingSafetyTerm is nonzero only for King: shield pawns reward it,
// attacks into its ring penalize it.
func (e *Evaluator) kingSafetyTerm(pos *board.Position, c board.Color, piece board.Piece, sq board.Square) Score {
	if piece != board.King {
		return 0
	}

	shieldCount := (shieldMask(c, sq) & pos.Pieces(c, board.Pawn)).PopCount()

	attackers := 0
	for _, ring := range board.KingAttacks[sq].Squares() {
		attackers += pos.AttackerCount(ring, c.Opponent())
	}

	return Score(shieldCount)*e.cfg.King.ShieldBonus - Score(attackers)*e.cfg.King.AttackerPenalty
}

// heatmap returns, per square with a nonzero value, the White attacker
// count minus the Black attacker count.
func (e *Evaluator) heatmap(pos *board.Position) map[board.Square]int {
	m := make(map[board.Square]int)
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		diff := pos.AttackerCount(sq, board.White) - pos.AttackerCount(sq, board.Black)
		if diff != 0 {
			m[sq] = diff
		}
	}
	return m
}

// fileNeighborMask returns the files immediately adjacent to f.
func fileNeighborMask(f board.File) board.Bitboard {
	var m board.Bitboard
	if f > board.FileA {
		m |= board.BitFile(f - 1)
	}
	if f < board.FileH {
		m |= board.BitFile(f + 1)
	}
	return m
}

// aheadRanksMask returns every rank strictly ahead of r from c's
// perspective (higher ranks for White, lower for Black).
func aheadRanksMask(c board.Color, r board.Rank) board.Bitboard {
	var m board.Bitboard
	if c == board.White {
		for rr := int(r) + 1; rr <= int(board.Rank8); rr++ {
			m |= board.BitRank(board.Rank(rr))
		}
	} else {
		for rr := int(r) - 1; rr >= int(board.Rank1); rr-- {
			m |= board.BitRank(board.Rank(rr))
		}
	}
	return m
}

// shieldMask returns the up-to-three squares immediately in front of
// the king (one rank forward, same file plus its neighbors).
func shieldMask(c board.Color, kingSq board.Square) board.Bitboard {
	f, r := kingSq.File(), kingSq.Rank()
	forward := int(r) + 1
	if c == board.Black {
		forward = int(r) - 1
	}
	if forward < int(board.Rank1) || forward > int(board.Rank8) {
		return 0
	}

	var m board.Bitboard
	for _, ff := range [3]int{int(f) - 1, int(f), int(f) + 1} {
		if ff < int(board.FileA) || ff > int(board.FileH) {
			continue
		}
		m |= board.BitMask(board.NewSquare(board.File(ff), board.Rank(forward)))
	}
	return m
}
