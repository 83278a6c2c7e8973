// internal/palette/palette.go
//
// Loads the fixed color palette rounds are dealt from.
//
// Sources (Load):
//   1. If path is non-empty, read that file.
//   2. Otherwise use the embedded assets/palette.txt.
//
// File format: one entry per line, "<name> #RRGGBB". Blank lines and lines
// starting with '#' are skipped. The name may contain spaces; the color is
// the last field.
//
// Constraints:
//   • Exactly game.PaletteSize entries.
//   • Colors are six-digit hex, normalized to upper case, and distinct.
//   • Names are lowercased and distinct.

package palette

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/robalobadob/colorcascade/assets"
	"github.com/robalobadob/colorcascade/internal/game"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("palette: invalid")

// Load returns the palette from path, or the embedded default when path is empty.
func Load(path string) ([]game.Color, error) {
	var (
		lines []string
		err   error
	)
	if path == "" {
		lines, err = assets.PaletteLines()
	} else {
		lines, err = readFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("palette: read: %w", err)
	}
	return Parse(lines)
}

// Parse validates palette lines (comments already removed or not).
func Parse(lines []string) ([]game.Color, error) {
	var out []game.Color
	seenHex := map[string]bool{}
	seenName := map[string]bool{}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalid, i+1, err)
		}
		if seenHex[c.Hex] {
			return nil, fmt.Errorf("%w: duplicate color %s", ErrInvalid, c.Hex)
		}
		if seenName[c.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalid, c.Name)
		}
		seenHex[c.Hex], seenName[c.Name] = true, true
		out = append(out, c)
	}

	if len(out) != game.PaletteSize {
		return nil, fmt.Errorf("%w: %d colors, want %d", ErrInvalid, len(out), game.PaletteSize)
	}
	return out, nil
}

func parseLine(line string) (game.Color, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return game.Color{}, errors.New("want \"<name> #RRGGBB\"")
	}
	hex := strings.ToUpper(fields[len(fields)-1])
	if !isHexColor(hex) {
		return game.Color{}, fmt.Errorf("bad color %q", fields[len(fields)-1])
	}
	name := strings.ToLower(strings.Join(fields[:len(fields)-1], " "))
	return game.Color{Name: name, Hex: hex}, nil
}

// isHexColor reports whether s is "#" followed by six upper-case hex digits.
func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'F') {
			return false
		}
	}
	return true
}

func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}
