package db

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pmcu-collector/internal/config"
)

func TestBuildDSN(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			name: "explicit dsn wins",
			cfg:  config.Config{SQLiteDSN: "file::memory:?cache=shared", SQLitePath: "ignored.db"},
			want: "file::memory:?cache=shared",
		},
		{
			name: "plain path",
			cfg:  config.Config{SQLitePath: filepath.Join(dir, "a", "pmcu.db")},
			want: "file:" + filepath.Join(dir, "a", "pmcu.db") + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL",
		},
		{
			name: "file uri with query",
			cfg:  config.Config{SQLitePath: "file:" + filepath.Join(dir, "b.db") + "?mode=rwc"},
			want: "file:" + filepath.Join(dir, "b.db") + "?mode=rwc&_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildDSN(tt.cfg)
			if err != nil {
				t.Fatalf("buildDSN: %v", err)
			}
			if got != tt.want {
				t.Errorf("buildDSN = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "a")); err != nil {
		t.Errorf("database directory not created: %v", err)
	}
}

func TestOpen(t *testing.T) {
	for _, logSQL := range []bool{false, true} {
		name := "plain"
		if logSQL {
			name = "logging"
		}
		t.Run(name, func(t *testing.T) {
			cfg := config.Config{
				SQLiteDriver:        "sqlite3",
				SQLitePath:          filepath.Join(t.TempDir(), "pmcu.db"),
				SQLiteMaxOpenConns:  1,
				SQLiteLogStatements: logSQL,
			}
			db, err := Open(context.Background(), cfg, nil)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer Close(db)

			var mode string
			if err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
				t.Fatalf("journal_mode: %v", err)
			}
			if !strings.EqualFold(mode, "wal") {
				t.Errorf("journal_mode = %q, want wal", mode)
			}
		})
	}
}

func TestClose_Nil(t *testing.T) {
	if err := Close(nil); err != nil {
		t.Errorf("Close(nil) = %v", err)
	}
}

func TestDatabasePath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"pmcu.db", "pmcu.db"},
		{"file:data/pmcu.db", "data/pmcu.db"},
		{"file:data/pmcu.db?_journal_mode=WAL", "data/pmcu.db"},
		{"file::memory:?cache=shared", ":memory:"},
	}
	for _, tt := range tests {
		if got := databasePath(tt.in); got != tt.want {
			t.Errorf("databasePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
