package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite" // register sqlite driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteRecorder persists runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database at dbPath and runs
// migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("creating history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if dbPath == MemoryPath {
		// every connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] history store opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id                  TEXT PRIMARY KEY,
			label               TEXT NOT NULL DEFAULT '',
			created_at          INTEGER NOT NULL,
			input_json          TEXT NOT NULL,
			final_balance       TEXT NOT NULL,
			total_contributions TEXT NOT NULL,
			total_earnings      TEXT NOT NULL,
			plan_max_stop       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,
	}

	return execAll(r.db, stmts)
}

func execAll(db *sql.DB, stmts []string) error {
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("exec %.30q: %w", s, err)
		}
	}
	return nil
}

// Save inserts a run. A run without CreatedAt is stamped with the current
// time.
func (r *SQLiteRecorder) Save(run *Run) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	input, err := json.Marshal(run.Input)
	if err != nil {
		return fmt.Errorf("encode input: %w", err)
	}
	var stop sql.NullString
	if run.PlanMaxStop != "" {
		stop = sql.NullString{String: run.PlanMaxStop, Valid: true}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err = r.db.Exec(`INSERT INTO runs (id, label, created_at, input_json, final_balance,
		total_contributions, total_earnings, plan_max_stop) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Label, run.CreatedAt.UnixNano(), string(input),
		run.FinalBalance.String(), run.TotalContributions.String(), run.TotalEarnings.String(), stop)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

const runColumns = `id, label, created_at, input_json, final_balance, total_contributions, total_earnings, plan_max_stop`

// List returns up to limit runs, newest first.
func (r *SQLiteRecorder) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Get returns the run with the given ID, or ErrNotFound.
func (r *SQLiteRecorder) Get(id string) (*Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, err := scanRun(r.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

// Close closes the database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		run                          Run
		createdAt                    int64
		input                        string
		balance, contributions, earn string
		stop                         sql.NullString
	)
	if err := s.Scan(&run.ID, &run.Label, &createdAt, &input, &balance, &contributions, &earn, &stop); err != nil {
		return nil, err
	}
	run.CreatedAt = time.Unix(0, createdAt).UTC()
	run.PlanMaxStop = stop.String
	if err := json.Unmarshal([]byte(input), &run.Input); err != nil {
		return nil, fmt.Errorf("decode input of run %s: %w", run.ID, err)
	}

	var err error
	if run.FinalBalance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", run.ID, err)
	}
	if run.TotalContributions, err = decimal.NewFromString(contributions); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", run.ID, err)
	}
	if run.TotalEarnings, err = decimal.NewFromString(earn); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", run.ID, err)
	}
	return &run, nil
}
