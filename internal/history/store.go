package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Visit is one persisted navigation location
type Visit struct {
	ID        int64
	SessionID string
	Location  string
	VisitedAt time.Time
}

// Store persists visited locations so a browser session can be resumed
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the visit database at path
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Add records a visited location
func (s *Store) Add(sessionID, location string) error {
	_, err := s.db.Exec(`INSERT INTO visits (session_id, location) VALUES (?, ?)`, sessionID, location)
	if err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}
	return nil
}

// Last returns the most recent visit of any session
func (s *Store) Last() (*Visit, error) {
	visits, err := s.Recent(1)
	if err != nil {
		return nil, err
	}
	if len(visits) == 0 {
		return nil, nil
	}
	return &visits[0], nil
}

// Recent returns the most recent visits, newest first
func (s *Store) Recent(limit int) ([]Visit, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, location, visited_at
		FROM visits
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var visits []Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.SessionID, &v.Location, &v.VisitedAt); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// Prune keeps only the newest visits
func (s *Store) Prune(keep int) error {
	if keep <= 0 {
		return nil
	}
	_, err := s.db.Exec(`
		DELETE FROM visits
		WHERE id NOT IN (SELECT id FROM visits ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune visits: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
