package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store persists registered Gracenote user IDs and a history of lookups using SQLite
type Store struct {
	db *sql.DB
}

// Lookup is one recorded query against the Gracenote API
type Lookup struct {
	ID        string    // UUID assigned on insert
	Command   string    // Gracenote command, e.g. ALBUM_SEARCH
	Query     string    // Human-readable query description
	Results   int       // Number of albums returned
	Error     string    // Error message, empty on success
	CreatedAt time.Time // When the lookup ran
}

// Open opens (or creates) the lookup database at dbPath
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps in-memory databases consistent
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS users (
			client_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			registered_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS lookups (
			id TEXT PRIMARY KEY,
			command TEXT NOT NULL,
			query TEXT NOT NULL,
			results INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_lookups_created ON lookups(created_at);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// UserID returns the stored user ID for clientID, or "" if none is stored
func (s *Store) UserID(ctx context.Context, clientID string) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id FROM users WHERE client_id = ?", clientID,
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query user id: %w", err)
	}
	return userID, nil
}

// SaveUserID stores userID for clientID, replacing any previous value
func (s *Store) SaveUserID(ctx context.Context, clientID, userID string) error {
	if clientID == "" || userID == "" {
		return fmt.Errorf("client id and user id are required")
	}

	query := `
		INSERT INTO users (client_id, user_id, registered_at)
		VALUES (?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			user_id = excluded.user_id,
			registered_at = excluded.registered_at
	`

	if _, err := s.db.ExecContext(ctx, query, clientID, userID, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save user id: %w", err)
	}
	return nil
}

// RecordLookup inserts a lookup and returns its ID
// A zero CreatedAt is set to the current time
func (s *Store) RecordLookup(ctx context.Context, l Lookup) (string, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}

	var errMsg sql.NullString
	if l.Error != "" {
		errMsg = sql.NullString{String: l.Error, Valid: true}
	}

	query := `
		INSERT INTO lookups (id, command, query, results, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		l.ID,
		l.Command,
		l.Query,
		l.Results,
		errMsg,
		l.CreatedAt.Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert lookup: %w", err)
	}

	return l.ID, nil
}

// RecentLookups returns lookups newest first
// A limit of zero or less returns all of them
func (s *Store) RecentLookups(ctx context.Context, limit int) ([]Lookup, error) {
	query := `
		SELECT id, command, query, results, COALESCE(error, ''), created_at
		FROM lookups
		ORDER BY created_at DESC, rowid DESC
	`

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookups: %w", err)
	}
	defer rows.Close()

	var lookups []Lookup
	for rows.Next() {
		var l Lookup
		var createdUnix int64

		if err := rows.Scan(&l.ID, &l.Command, &l.Query, &l.Results, &l.Error, &createdUnix); err != nil {
			return nil, fmt.Errorf("failed to scan lookup: %w", err)
		}
		l.CreatedAt = time.Unix(createdUnix, 0)

		lookups = append(lookups, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lookups: %w", err)
	}

	return lookups, nil
}

// Prune removes lookups older than maxAge and returns how many were deleted
func (s *Store) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).Unix()

	result, err := s.db.ExecContext(ctx, "DELETE FROM lookups WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune lookups: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}

// Count returns the number of recorded lookups
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lookups").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count lookups: %w", err)
	}
	return count, nil
}
