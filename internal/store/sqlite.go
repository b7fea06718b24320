package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements the DB interface using SQLite.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (creating if needed) the resolution log database.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL keeps readers unblocked while the convergence sink writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate creates the schema. Statements are idempotent so startup can run
// them unconditionally.
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS resolutions (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			entry_id TEXT NOT NULL,
			map_type TEXT NOT NULL,
			fact_path TEXT NOT NULL,
			fact_count INTEGER NOT NULL DEFAULT 0,
			duration_seconds REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resolutions_created_at ON resolutions(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_resolutions_entry ON resolutions(entry_id)`,
		`CREATE INDEX IF NOT EXISTS idx_resolutions_map_type ON resolutions(map_type, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_resolutions_session ON resolutions(session_id, entry_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveResolution inserts one convergence record. The write is retried with
// backoff: the sink must not lose a record to a transient SQLITE_BUSY while
// a reader holds the database.
func (s *SQLiteDB) SaveResolution(r *Resolution) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO resolutions (
		id, session_id, entry_id, map_type, fact_path, fact_count, duration_seconds, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	backoff := retry.WithMaxRetries(5, retry.NewFibonacci(10*time.Millisecond))
	return retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		_, err := s.db.Exec(query,
			r.ID, r.SessionID, r.EntryID, r.MapType, r.FactPath,
			r.FactCount, r.DurationSeconds, r.CreatedAt,
		)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// GetResolution retrieves a resolution by ID.
func (s *SQLiteDB) GetResolution(id string) (*Resolution, error) {
	query := `SELECT id, session_id, entry_id, map_type, fact_path, fact_count, duration_seconds, created_at
		FROM resolutions WHERE id = ?`

	var r Resolution
	err := s.db.QueryRow(query, id).Scan(
		&r.ID, &r.SessionID, &r.EntryID, &r.MapType, &r.FactPath,
		&r.FactCount, &r.DurationSeconds, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListResolutions retrieves resolutions with pagination and optional
// map-type filtering, newest first.
func (s *SQLiteDB) ListResolutions(q ResolutionsQuery) (*ResolutionsList, error) {
	whereClause := ""
	args := []interface{}{}
	if q.MapType != "" {
		whereClause = "WHERE map_type = ?"
		args = append(args, q.MapType)
	}

	var totalCount int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM resolutions "+whereClause, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	if q.PerPage <= 0 {
		q.PerPage = 50
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	totalPages := (totalCount + q.PerPage - 1) / q.PerPage
	offset := (q.Page - 1) * q.PerPage

	mainQuery := `SELECT id, session_id, entry_id, map_type, fact_path, fact_count, duration_seconds, created_at
		FROM resolutions ` + whereClause + `
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?`
	args = append(args, q.PerPage, offset)

	rows, err := s.db.Query(mainQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query resolutions: %w", err)
	}
	defer rows.Close()

	var resolutions []Resolution
	for rows.Next() {
		var r Resolution
		if err := rows.Scan(
			&r.ID, &r.SessionID, &r.EntryID, &r.MapType, &r.FactPath,
			&r.FactCount, &r.DurationSeconds, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan resolution: %w", err)
		}
		resolutions = append(resolutions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resolutions: %w", err)
	}

	return &ResolutionsList{
		Resolutions: resolutions,
		TotalCount:  totalCount,
		Page:        q.Page,
		PerPage:     q.PerPage,
		TotalPages:  totalPages,
	}, nil
}

// TopEntries returns the most-resolved seeds, busiest first.
func (s *SQLiteDB) TopEntries(limit int) ([]EntryCount, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT entry_id, COUNT(*) AS n FROM resolutions
		 GROUP BY entry_id ORDER BY n DESC, entry_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top entries: %w", err)
	}
	defer rows.Close()

	var counts []EntryCount
	for rows.Next() {
		var ec EntryCount
		if err := rows.Scan(&ec.EntryID, &ec.Count); err != nil {
			return nil, fmt.Errorf("failed to scan entry count: %w", err)
		}
		counts = append(counts, ec)
	}
	return counts, rows.Err()
}

// CountForSession returns how many resolutions a session has recorded for a
// given seed since the cutoff. The recorder uses it for cooldown dedup.
func (s *SQLiteDB) CountForSession(sessionID, entryID string, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM resolutions
		 WHERE session_id = ? AND entry_id = ? AND created_at >= ?`,
		sessionID, entryID, since.UTC(),
	).Scan(&n)
	return n, err
}
