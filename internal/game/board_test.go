package game

import (
	"math/rand/v2"
	"testing"
)

func TestNewBoardPairs(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, d := range Difficulties {
		n, err := d.TileCount()
		if err != nil {
			t.Fatal(err)
		}
		board := newBoard(DefaultPalette, n, rng)
		if len(board) != n {
			t.Fatalf("%s: board length %d, want %d", d, len(board), n)
		}

		counts := map[Color]int{}
		for i, tile := range board {
			if tile.ID != i {
				t.Errorf("%s: tile at %d has id %d", d, i, tile.ID)
			}
			if tile.Matched {
				t.Errorf("%s: tile %d dealt matched", d, i)
			}
			counts[tile.Color]++
		}
		if len(counts) != n/2 {
			t.Errorf("%s: %d distinct colors, want %d", d, len(counts), n/2)
		}
		for i, c := range DefaultPalette[:n/2] {
			if counts[c] != 2 {
				t.Errorf("%s: palette color %d (%s) appears %d times", d, i, c.Name, counts[c])
			}
		}
	}
}

func TestNewBoardShuffles(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	identity := 0
	const runs = 400
	// firstSeen[c] counts boards where color c lands on position 0.
	firstSeen := map[Color]int{}
	for i := 0; i < runs; i++ {
		board := newBoard(DefaultPalette, 8, rng)
		same := true
		for j, tile := range board {
			if tile.Color != DefaultPalette[j%4] {
				same = false
				break
			}
		}
		if same {
			identity++
		}
		firstSeen[board[0].Color]++
	}
	if identity == runs {
		t.Fatal("shuffle never moved a tile")
	}
	// Each of the 4 colors should land first about a quarter of the time.
	for _, c := range DefaultPalette[:4] {
		got := firstSeen[c]
		if got < runs/8 || got > runs*3/8 {
			t.Errorf("color %s first on %d/%d boards", c.Name, got, runs)
		}
	}
}

func TestDifficultyHelpers(t *testing.T) {
	tests := []struct {
		in    string
		want  Difficulty
		pairs int
		label string
	}{
		{"easy", DifficultyEasy, 4, "Easy (8 tiles)"},
		{" Medium ", DifficultyMedium, 6, "Medium (12 tiles)"},
		{"HARD", DifficultyHard, 8, "Hard (16 tiles)"},
	}
	for _, tt := range tests {
		d, err := ParseDifficulty(tt.in)
		if err != nil {
			t.Fatalf("ParseDifficulty(%q): %v", tt.in, err)
		}
		if d != tt.want || d.Pairs() != tt.pairs || d.Label() != tt.label {
			t.Errorf("%q → %q pairs=%d label=%q", tt.in, d, d.Pairs(), d.Label())
		}
	}
	if _, err := ParseDifficulty("nightmare"); err == nil {
		t.Error("unknown difficulty parsed")
	}
	if DifficultyNone.Pairs() != 0 || DifficultyNone.Label() != "None" {
		t.Error("none difficulty helpers")
	}
}
