package eval

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/corvid-chess/engine/pkg/board"
)

// Config holds every tunable magnitude the evaluator's terms use. It is
// the component's choice per term (the spec only fixes material
// values and the shape of each term), so these are grouped here rather
// than hardcoded, and can be loaded from a TOML file to support
// tuning/experimentation without a rebuild.
type Config struct {
	Material MaterialConfig `toml:"material"`
	Mobility MobilityConfig `toml:"mobility"`
	Pawns    PawnConfig     `toml:"pawns"`
	King     KingSafetyConfig `toml:"king_safety"`
}

// MaterialConfig gives the base centipawn value of each piece kind.
type MaterialConfig struct {
	Pawn   Score `toml:"pawn"`
	Knight Score `toml:"knight"`
	Bishop Score `toml:"bishop"`
	Rook   Score `toml:"rook"`
	Queen  Score `toml:"queen"`
	King   Score `toml:"king"`
}

func (m MaterialConfig) value(p board.Piece) Score {
	switch p {
	case board.Pawn:
		return m.Pawn
	case board.Knight:
		return m.Knight
	case board.Bishop:
		return m.Bishop
	case board.Rook:
		return m.Rook
	case board.Queen:
		return m.Queen
	case board.King:
		return m.King
	default:
		return 0
	}
}

// MobilityConfig weights one legal target square per piece kind.
type MobilityConfig struct {
	Knight Score `toml:"knight"`
	Bishop Score `toml:"bishop"`
	Rook   Score `toml:"rook"`
	Queen  Score `toml:"queen"`
	King   Score `toml:"king"`
	Pawn   Score `toml:"pawn"`
}

func (m MobilityConfig) weight(p board.Piece) Score {
	switch p {
	case board.Pawn:
		return m.Pawn
	case board.Knight:
		return m.Knight
	case board.Bishop:
		return m.Bishop
	case board.Rook:
		return m.Rook
	case board.Queen:
		return m.Queen
	case board.King:
		return m.King
	default:
		return 0
	}
}

// PawnConfig holds the pawn-structure term magnitudes.
type PawnConfig struct {
	DoubledPenalty  Score `toml:"doubled_penalty"`
	IsolatedPenalty Score `toml:"isolated_penalty"`
	PassedBonus     Score `toml:"passed_bonus"`
}

// KingSafetyConfig holds the king-safety term magnitudes.
type KingSafetyConfig struct {
	ShieldBonus     Score `toml:"shield_bonus"`
	AttackerPenalty Score `toml:"attacker_penalty"`
}

// DefaultConfig returns the evaluator's built-in tuning: standard
// material values and conservative positional weights.
func DefaultConfig() Config {
	return Config{
		Material: MaterialConfig{Pawn: 100, Knight: 320, Bishop: 330, Rook: 500, Queen: 900, King: 0},
		Mobility: MobilityConfig{Pawn: 0, Knight: 4, Bishop: 3, Rook: 2, Queen: 1, King: 0},
		Pawns:    PawnConfig{DoubledPenalty: 12, IsolatedPenalty: 10, PassedBonus: 20},
		King:     KingSafetyConfig{ShieldBonus: 6, AttackerPenalty: 8},
	}
}

// LoadConfig reads a Config from a TOML file, starting from
// DefaultConfig so a partial file only overrides the fields it sets.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("eval: load config %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig reads a Config from an in-memory TOML document.
func DecodeConfig(data string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("eval: decode config: %w", err)
	}
	return cfg, nil
}
