package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed palette.txt sql/*.sql
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// PaletteLines returns the non-comment lines of the embedded palette.
func PaletteLines() ([]string, error) {
	return readLines("palette.txt")
}

// Migrations returns the embedded sql directory as a filesystem rooted at it.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		panic(err) // embedded path is fixed at build time
	}
	return sub
}
