package db

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// captureHandler keeps every record it handles, flattened to key/value maps.
type captureHandler struct {
	mu      sync.Mutex
	records []map[string]slog.Value
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := map[string]slog.Value{"msg": slog.StringValue(r.Message)}
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value
		return true
	})
	h.records = append(h.records, m)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *captureHandler) WithGroup(string) slog.Handler { return h }

func (h *captureHandler) last(t *testing.T, msg string) map[string]slog.Value {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.records) - 1; i >= 0; i-- {
		if h.records[i]["msg"].String() == msg {
			return h.records[i]
		}
	}
	t.Fatalf("no %q record logged", msg)
	return nil
}

func openLogged(t *testing.T, h slog.Handler) *sql.DB {
	t.Helper()
	connector, err := NewLoggingConnector(":memory:", slog.New(h))
	if err != nil {
		t.Fatalf("NewLoggingConnector: %v", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewLoggingConnector_EmptyDSN(t *testing.T) {
	if _, err := NewLoggingConnector("", nil); err == nil {
		t.Fatal("NewLoggingConnector(\"\") error = nil, want non-nil")
	}
}

func TestNewLoggingConnector_NilLogger(t *testing.T) {
	c, err := NewLoggingConnector(":memory:", nil)
	if err != nil {
		t.Fatalf("NewLoggingConnector: %v", err)
	}
	db := sql.OpenDB(c)
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestLoggingConnector_LogsStatements(t *testing.T) {
	h := &captureHandler{}
	db := openLogged(t, h)

	if _, err := db.Exec(`CREATE TABLE readings (imei TEXT, rh REAL)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO readings (imei, rh) VALUES (?, ?)`, "863730011223344", 23.5); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rec := h.last(t, "sql")
	if got := rec["op"].String(); got != "exec" {
		t.Errorf("op = %q, want exec", got)
	}
	if got := rec["sql"].String(); got != `INSERT INTO readings (imei, rh) VALUES (?, ?)` {
		t.Errorf("sql = %q", got)
	}
	args, ok := rec["args"].Any().([]string)
	if !ok || len(args) != 2 || args[0] != "863730011223344" || args[1] != "23.5" {
		t.Errorf("args = %v", rec["args"].Any())
	}
	if _, ok := rec["elapsed"]; !ok {
		t.Error("elapsed attribute missing")
	}
	if _, ok := rec["error"]; ok {
		t.Error("error attribute present on successful exec")
	}

	var rh float64
	if err := db.QueryRow(`SELECT rh FROM readings WHERE imei = ?`, "863730011223344").Scan(&rh); err != nil {
		t.Fatalf("select: %v", err)
	}
	if rh != 23.5 {
		t.Errorf("rh = %v, want 23.5", rh)
	}
	if got := h.last(t, "sql")["op"].String(); got != "query" {
		t.Errorf("op = %q, want query", got)
	}
}

func TestLoggingConnector_LogsFailures(t *testing.T) {
	h := &captureHandler{}
	db := openLogged(t, h)

	if _, err := db.Exec(`CREATE TABLE readings (imei TEXT PRIMARY KEY)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO readings (imei) VALUES (?)`, "a"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO readings (imei) VALUES (?)`, "a"); err == nil {
		t.Fatal("duplicate insert error = nil, want constraint error")
	}

	rec := h.last(t, "sql")
	errVal, ok := rec["error"]
	if !ok {
		t.Fatal("error attribute missing on failed exec")
	}
	if !strings.Contains(errVal.String(), "UNIQUE") {
		t.Errorf("error = %q, want UNIQUE constraint", errVal.String())
	}

	if _, err := db.Exec(`SELEC nonsense`); err == nil {
		t.Fatal("bad sql error = nil")
	}
	if got := h.last(t, "sql prepare failed")["sql"].String(); got != "SELEC nonsense" {
		t.Errorf("prepare failure sql = %q", got)
	}
}

func TestLoggingConnector_Transaction(t *testing.T) {
	db := openLogged(t, &captureHandler{})

	if _, err := db.Exec(`CREATE TABLE readings (n INTEGER)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := tx.Exec(`INSERT INTO readings (n) VALUES (1)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM readings`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("count after rollback = %d, want 0", n)
	}
}

func TestFormatArg(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "NULL"},
		{"bytes", []byte("abc"), "abc"},
		{"int", int64(42), "42"},
		{"float", 20.7, "20.7"},
		{"string", "gps", "gps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatArg(tt.in); got != tt.want {
				t.Errorf("formatArg(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
