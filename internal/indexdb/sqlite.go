package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"gridspread/internal/diffusion"
)

// SQLiteIndex records one row per finished run. Writes are synchronous;
// a run produces a single row so there is nothing to batch.
type SQLiteIndex struct {
	db   *sql.DB
	once sync.Once
}

type RunRow struct {
	ID              int64
	Name            string
	InputSHA256     string
	Agents          int
	Rounds          int
	StartDirection  string
	NextDirection   string
	StableRound     int
	FreeTiles       int
	Moved           int
	Denied          int
	InitialSnapshot string
	FinalSnapshot   string
	RecordedAt      string
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteIndex{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			input_sha256 TEXT NOT NULL,
			agents INTEGER NOT NULL,
			rounds INTEGER NOT NULL,
			start_direction TEXT NOT NULL,
			next_direction TEXT NOT NULL,
			stable_round INTEGER NOT NULL DEFAULT 0,
			free_tiles INTEGER NOT NULL,
			moved INTEGER NOT NULL,
			denied INTEGER NOT NULL,
			initial_snapshot TEXT NOT NULL DEFAULT '',
			final_snapshot TEXT NOT NULL DEFAULT '',
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS runs_input ON runs(input_sha256);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() { err = s.db.Close() })
	return err
}

// InputDigest is the hex sha256 of the raw grid text, so reruns of the same
// input can be found regardless of file name.
func InputDigest(input []byte) string {
	sum := sha256.Sum256(input)
	return hex.EncodeToString(sum[:])
}

// RecordRun stores res together with the digest of its input and the paths
// of its snapshots (either may be empty).
func (s *SQLiteIndex) RecordRun(ctx context.Context, res diffusion.SimResult, inputDigest, initialSnap, finalSnap string) (int64, error) {
	r, err := s.db.ExecContext(ctx,
		`INSERT INTO runs(name,input_sha256,agents,rounds,start_direction,next_direction,stable_round,free_tiles,moved,denied,initial_snapshot,final_snapshot,recorded_at)
		 VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		res.Name, inputDigest, res.Agents, res.Rounds, res.Start.String(), res.NextStart.String(),
		res.StableRound, res.FreeTiles, res.Moved, res.Denied, initialSnap, finalSnap,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return r.LastInsertId()
}

// Runs lists recorded runs, newest first. A non-empty digest filters by input.
func (s *SQLiteIndex) Runs(ctx context.Context, inputDigest string, limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `SELECT id,name,input_sha256,agents,rounds,start_direction,next_direction,stable_round,free_tiles,moved,denied,initial_snapshot,final_snapshot,recorded_at FROM runs`
	args := []any{}
	if inputDigest != "" {
		q += ` WHERE input_sha256=?`
		args = append(args, inputDigest)
	}
	q += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.ID, &r.Name, &r.InputSHA256, &r.Agents, &r.Rounds, &r.StartDirection, &r.NextDirection,
			&r.StableRound, &r.FreeTiles, &r.Moved, &r.Denied, &r.InitialSnapshot, &r.FinalSnapshot, &r.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
