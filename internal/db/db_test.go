package db

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestMigrateAppliesOnce(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	fsys := fstest.MapFS{
		"002_rows.sql":  {Data: []byte(`INSERT INTO things(name) VALUES ('a');`)},
		"001_table.sql": {Data: []byte(`CREATE TABLE things (name TEXT NOT NULL);`)},
		"README.md":     {Data: []byte(`not a migration`)},
	}
	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, conn, fsys); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	var rows, applied int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM things`).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if err := conn.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&applied); err != nil {
		t.Fatal(err)
	}
	if rows != 1 || applied != 2 {
		t.Errorf("rows=%d applied=%d, want 1 and 2", rows, applied)
	}
}

func TestMigrateRollsBackBrokenFile(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	fsys := fstest.MapFS{"001_bad.sql": {Data: []byte(`CREATE TABLE oops (;`)}}
	if err := Migrate(ctx, conn, fsys); err == nil {
		t.Fatal("expected error for broken migration")
	}
	var applied int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&applied); err != nil {
		t.Fatal(err)
	}
	if applied != 0 {
		t.Errorf("broken migration recorded")
	}
}
