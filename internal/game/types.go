// internal/game/types.go
//
// Core type definitions for the round engine.
// Defines:
//   - Difficulty: selects the tile count of a round (or no active round).
//   - Color: a named palette entry.
//   - Tile: one board cell with a stable id and a matched flag.
//   - Phase: coarse state of the round state machine.
//   - Snapshot / TileView / Outcome: read-only views handed to presentation code.

package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownDifficulty is returned when a round is started with a
	// difficulty outside easy/medium/hard.
	ErrUnknownDifficulty = errors.New("game: unknown difficulty")

	// ErrNoActiveRound is returned by PlayAgain when no difficulty is set.
	ErrNoActiveRound = errors.New("game: no active round")
)

// Difficulty selects the board size. The zero value means "no active round".
type Difficulty string

const (
	DifficultyNone   Difficulty = ""
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the playable difficulties in menu order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// TileCount returns the number of tiles on a board of this difficulty.
func (d Difficulty) TileCount() (int, error) {
	switch d {
	case DifficultyEasy:
		return 8, nil
	case DifficultyMedium:
		return 12, nil
	case DifficultyHard:
		return 16, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, string(d))
}

// Pairs returns TileCount/2, or 0 for an unknown difficulty.
func (d Difficulty) Pairs() int {
	n, err := d.TileCount()
	if err != nil {
		return 0
	}
	return n / 2
}

// Label is the menu text, e.g. "Easy (8 tiles)".
func (d Difficulty) Label() string {
	n, err := d.TileCount()
	if err != nil {
		return "None"
	}
	name := string(d)
	return fmt.Sprintf("%s%s (%d tiles)", strings.ToUpper(name[:1]), name[1:], n)
}

// ParseDifficulty accepts a difficulty name in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, err := d.TileCount(); err != nil {
		return DifficultyNone, err
	}
	return d, nil
}

// Color is a palette entry. Two tiles match when their colors are equal.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// IsZero reports whether c is the hidden placeholder.
func (c Color) IsZero() bool { return c == Color{} }

// DefaultPalette is the fixed eight-color palette. Rounds take the first
// TileCount/2 entries in this order.
var DefaultPalette = []Color{
	{Name: "red", Hex: "#FF0000"},
	{Name: "light blue", Hex: "#87CEFA"},
	{Name: "navy blue", Hex: "#000080"},
	{Name: "yellow", Hex: "#FFFF00"},
	{Name: "light orange", Hex: "#FFA500"},
	{Name: "dark orange", Hex: "#FF8C00"},
	{Name: "pink", Hex: "#FFC0CB"},
	{Name: "medium green", Hex: "#228B22"},
}

// PaletteSize is the number of colors a palette must hold to serve the
// hardest difficulty.
const PaletteSize = 8

// Tile is a single board cell. ID is its ordinal position on the board.
type Tile struct {
	ID      int
	Color   Color
	Matched bool
}

// Phase is the coarse state of a round.
type Phase string

const (
	PhaseNoRound  Phase = "no_round"
	PhasePlaying  Phase = "playing"
	PhasePending  Phase = "pending"
	PhaseComplete Phase = "complete"
)

// TileView is what presentation code may know about a tile. Color is the
// zero Color unless the tile is matched or currently selected.
type TileView struct {
	ID       int   `json:"id"`
	Color    Color `json:"color"`
	Hidden   bool  `json:"hidden"`
	Matched  bool  `json:"matched"`
	Selected bool  `json:"selected"`
}

// Snapshot is a copy of the engine state taken under its lock.
type Snapshot struct {
	Phase        Phase      `json:"phase"`
	Difficulty   Difficulty `json:"difficulty"`
	Board        []TileView `json:"board"`
	Selection    []int      `json:"selection"`
	CurrentScore int        `json:"currentScore"`
	TotalScore   int        `json:"totalScore"`
	Moves        int        `json:"moves"`
	Pairs        int        `json:"pairs"`
	Pending      bool       `json:"pending"`
	GameOver     bool       `json:"gameOver"`
}

// Outcome describes what a SelectTile call did.
type Outcome struct {
	Accepted  bool `json:"accepted"`  // tile was added to the selection
	Evaluated bool `json:"evaluated"` // selection reached two tiles
	Matched   bool `json:"matched"`   // the two tiles shared a color
	Completed bool `json:"completed"` // this match finished the round
}
