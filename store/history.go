// Package store persists the query history in SQLite so past searches and
// their results can be reviewed later.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/photosense/sentimentsearch/search"
)

// HistoryEntry is one processed query together with its ranked results.
type HistoryEntry struct {
	ID          int64          `json:"id"`
	QueryText   string         `json:"query_text"`
	Emotion     string         `json:"emotion"`
	Month       string         `json:"month,omitempty"`
	Year        int            `json:"year,omitempty"`
	Location    string         `json:"location,omitempty"`
	TopN        int            `json:"top_n,omitempty"`
	ResultCount int            `json:"result_count"`
	CreatedAt   time.Time      `json:"created_at"`
	Results     []ResultRecord `json:"results"`
}

// ResultRecord is a single ranked photo within a history entry.
type ResultRecord struct {
	Rank     int     `json:"rank"`
	Path     string  `json:"path"`
	Dominant string  `json:"dominant"`
	Score    float64 `json:"score"`
}

// History handles SQLite operations for the query log.
type History struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates and initializes the history database at dbPath.
func Open(dbPath string) (*History, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	h := &History{db: db}
	if err := h.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return h, nil
}

func (h *History) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS queries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query_text TEXT NOT NULL,
		emotion TEXT NOT NULL,
		month TEXT NOT NULL DEFAULT '',
		year INTEGER NOT NULL DEFAULT 0,
		location TEXT NOT NULL DEFAULT '',
		top_n INTEGER NOT NULL DEFAULT 0,
		result_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS query_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		path TEXT NOT NULL,
		dominant TEXT NOT NULL,
		score REAL NOT NULL,
		FOREIGN KEY (query_id) REFERENCES queries(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_queries_created_at ON queries(created_at);
	CREATE INDEX IF NOT EXISTS idx_query_results_query_id ON query_results(query_id);
	`

	_, err := h.db.Exec(schema)
	return err
}

// RecordQuery appends one processed query with its results.
func (h *History) RecordQuery(queryText string, q search.Query, results []search.RankedResult) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tx, err := h.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var month, location string
	var year, topN int
	if q.Month != nil {
		month = *q.Month
	}
	if q.Year != nil {
		year = *q.Year
	}
	if q.Location != nil {
		location = *q.Location
	}
	if q.TopN != nil {
		topN = *q.TopN
	}

	res, err := tx.Exec(`
		INSERT INTO queries (query_text, emotion, month, year, location, top_n, result_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, queryText, q.Emotion, month, year, location, topN, len(results))
	if err != nil {
		return 0, fmt.Errorf("failed to insert query: %w", err)
	}

	queryID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	for i, r := range results {
		_, err := tx.Exec(`
			INSERT INTO query_results (query_id, position, path, dominant, score)
			VALUES (?, ?, ?, ?, ?)
		`, queryID, i+1, r.Path, r.Dominant, r.Score)
		if err != nil {
			return 0, fmt.Errorf("failed to insert result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return queryID, nil
}

// Recent returns the most recent entries, newest first. A limit of 0 or
// less returns everything.
func (h *History) Recent(limit int) ([]HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	query := `
		SELECT id, query_text, emotion, month, year, location, top_n, result_count, created_at
		FROM queries
		ORDER BY created_at DESC, id DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.QueryText, &e.Emotion, &e.Month, &e.Year, &e.Location, &e.TopN, &e.ResultCount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		results, err := h.queryResults(e.ID)
		if err != nil {
			return nil, err
		}
		e.Results = results
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (h *History) queryResults(queryID int64) ([]ResultRecord, error) {
	rows, err := h.db.Query(`
		SELECT position, path, dominant, score FROM query_results
		WHERE query_id = ? ORDER BY position
	`, queryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []ResultRecord
	for rows.Next() {
		var r ResultRecord
		if err := rows.Scan(&r.Rank, &r.Path, &r.Dominant, &r.Score); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Count returns the number of recorded queries.
func (h *History) Count() (int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var count int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM queries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count queries: %w", err)
	}
	return count, nil
}

// ClearAll removes every entry from the history.
func (h *History) ClearAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.db.Exec(`DELETE FROM query_results`); err != nil {
		return fmt.Errorf("failed to delete results: %w", err)
	}
	if _, err := h.db.Exec(`DELETE FROM queries`); err != nil {
		return fmt.Errorf("failed to delete queries: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (h *History) Close() error {
	return h.db.Close()
}
