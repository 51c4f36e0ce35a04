package db

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestMigrateIsIdempotent(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer sqlDB.Close()

	for i := 0; i < 2; i++ {
		if err := Migrate(sqlDB); err != nil {
			t.Fatalf("Migrate #%d: %v", i+1, err)
		}
	}

	var tables []string
	rows, err := sqlDB.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		t.Fatalf("list tables: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		tables = append(tables, name)
	}

	want := []string{"_migrations", "daily_results", "guess_distribution", "player_stats", "users"}
	if diff := cmp.Diff(want, tables); diff != "" {
		t.Errorf("unexpected tables (-want +got)\n%s", diff)
	}
}

func TestMigrateRollsBackBadFile(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer sqlDB.Close()

	fsys := fstest.MapFS{
		"001_ok.sql":  {Data: []byte(`CREATE TABLE a (id INTEGER);`)},
		"002_bad.sql": {Data: []byte(`CREATE TABLE b (id INTEGER); NOT SQL;`)},
	}
	if err := migrate(sqlDB, fsys); err == nil {
		t.Fatal("migrate with a broken file succeeded")
	}

	var n int
	if err := sqlDB.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("%d migrations recorded, want 1", n)
	}
}
