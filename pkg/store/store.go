// Package store persists risk assessments, watchlist entries and alerts in a
// local sqlite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps the sqlite connection.
type Store struct {
	db *sql.DB
}

// Assessment is one persisted classifier verdict.
type Assessment struct {
	ID             string
	Address        string
	ChainID        string
	TokenName      string
	TokenSymbol    string
	Score          int
	Tier           string
	Factors        string // "; "-joined factor labels
	Recommendation string
	AssessedAt     time.Time
}

// WatchEntry is one token on the liquidity watchlist.
type WatchEntry struct {
	Address string
	ChainID string
	AddedAt time.Time
}

// AlertRecord is one persisted watcher alert.
type AlertRecord struct {
	Address   string
	ChainID   string
	Kind      string
	Text      string
	CreatedAt time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS assessments (
	id TEXT PRIMARY KEY,
	address TEXT NOT NULL,
	chain_id TEXT NOT NULL,
	token_name TEXT,
	token_symbol TEXT,
	score INTEGER NOT NULL,
	tier TEXT NOT NULL,
	factors TEXT,
	recommendation TEXT,
	assessed_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assessments_address ON assessments(address);

CREATE TABLE IF NOT EXISTS watchlist (
	address TEXT PRIMARY KEY,
	chain_id TEXT NOT NULL,
	added_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS alerts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	address TEXT NOT NULL,
	chain_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	text TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
`

// Open opens (creating if needed) the sqlite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite handles one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordAssessment inserts one classifier verdict.
func (s *Store) RecordAssessment(ctx context.Context, a Assessment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assessments (id, address, chain_id, token_name, token_symbol, score, tier, factors, recommendation, assessed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, strings.ToLower(a.Address), a.ChainID, a.TokenName, a.TokenSymbol,
		a.Score, a.Tier, a.Factors, a.Recommendation, a.AssessedAt)
	if err != nil {
		return fmt.Errorf("record assessment: %w", err)
	}
	return nil
}

// RecentAssessments returns the newest assessments, most recent first.
func (s *Store) RecentAssessments(ctx context.Context, limit int) ([]Assessment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, address, chain_id, token_name, token_symbol, score, tier, factors, recommendation, assessed_at
		 FROM assessments ORDER BY assessed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()
	return scanAssessments(rows)
}

// AssessmentsByAddress returns the newest assessments for one token.
func (s *Store) AssessmentsByAddress(ctx context.Context, address string, limit int) ([]Assessment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, address, chain_id, token_name, token_symbol, score, tier, factors, recommendation, assessed_at
		 FROM assessments WHERE address = ? ORDER BY assessed_at DESC LIMIT ?`,
		strings.ToLower(address), limit)
	if err != nil {
		return nil, fmt.Errorf("list assessments by address: %w", err)
	}
	defer rows.Close()
	return scanAssessments(rows)
}

func scanAssessments(rows *sql.Rows) ([]Assessment, error) {
	var out []Assessment
	for rows.Next() {
		var a Assessment
		if err := rows.Scan(&a.ID, &a.Address, &a.ChainID, &a.TokenName, &a.TokenSymbol,
			&a.Score, &a.Tier, &a.Factors, &a.Recommendation, &a.AssessedAt); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Watch adds a token to the watchlist. Re-watching is a no-op.
func (s *Store) Watch(ctx context.Context, address, chainID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO watchlist (address, chain_id, added_at) VALUES (?, ?, ?)`,
		strings.ToLower(address), chainID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("watch token: %w", err)
	}
	return nil
}

// Unwatch removes a token from the watchlist.
func (s *Store) Unwatch(ctx context.Context, address string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM watchlist WHERE address = ?`, strings.ToLower(address))
	if err != nil {
		return fmt.Errorf("unwatch token: %w", err)
	}
	return nil
}

// Watched lists every watchlisted token, oldest first.
func (s *Store) Watched(ctx context.Context) ([]WatchEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT address, chain_id, added_at FROM watchlist ORDER BY added_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	var out []WatchEntry
	for rows.Next() {
		var e WatchEntry
		if err := rows.Scan(&e.Address, &e.ChainID, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("scan watch entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// WatchedCount returns the watchlist size, 0 on error.
func (s *Store) WatchedCount(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM watchlist`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// RecordAlert persists one watcher alert.
func (s *Store) RecordAlert(ctx context.Context, a AlertRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO alerts (address, chain_id, kind, text, created_at) VALUES (?, ?, ?, ?, ?)`,
		strings.ToLower(a.Address), a.ChainID, a.Kind, a.Text, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("record alert: %w", err)
	}
	return nil
}
