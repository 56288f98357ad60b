// Package storage provides SQLite-based persistence for rank profiles.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// Only the serialized rank state is kept; matches are not recorded.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-badminton/internal/rank"
)

// Store manages the SQLite database connection for rank persistence.
type Store struct {
	db *sql.DB
}

// RankEntry is one profile's stored rank.
type RankEntry struct {
	Profile   string
	State     rank.State
	UpdatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS rank_profiles (
			profile TEXT PRIMARY KEY,
			rank_index INTEGER NOT NULL DEFAULT 0,
			tier_index INTEGER NOT NULL DEFAULT 0,
			progress_points INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_rank_profiles_order
			ON rank_profiles(rank_index DESC, tier_index DESC, progress_points DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadRank returns the stored rank for profile.
// A profile that was never saved yields the zero rank and found == false.
func (s *Store) LoadRank(profile string) (st rank.State, found bool, err error) {
	err = s.db.QueryRow(
		`SELECT rank_index, tier_index, progress_points
		 FROM rank_profiles
		 WHERE profile = ?`,
		profile,
	).Scan(&st.RankIndex, &st.TierIndex, &st.ProgressPoints)

	if errors.Is(err, sql.ErrNoRows) {
		return rank.State{}, false, nil
	}
	if err != nil {
		return rank.State{}, false, fmt.Errorf("storage: cannot load rank: %w", err)
	}
	if err := st.Validate(); err != nil {
		return rank.State{}, true, fmt.Errorf("storage: profile %q: %w", profile, err)
	}
	return st, true, nil
}

// SaveRank stores the rank for profile, replacing any previous value.
func (s *Store) SaveRank(profile string, st rank.State) error {
	if err := st.Validate(); err != nil {
		return fmt.Errorf("storage: cannot save rank: %w", err)
	}
	_, err := s.db.Exec(
		`INSERT INTO rank_profiles (profile, rank_index, tier_index, progress_points, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(profile) DO UPDATE SET
		 	rank_index = excluded.rank_index,
		 	tier_index = excluded.tier_index,
		 	progress_points = excluded.progress_points,
		 	updated_at = CURRENT_TIMESTAMP`,
		profile, st.RankIndex, st.TierIndex, st.ProgressPoints,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save rank: %w", err)
	}
	return nil
}

// ListRanks returns every stored profile, highest rank first.
func (s *Store) ListRanks() ([]RankEntry, error) {
	rows, err := s.db.Query(
		`SELECT profile, rank_index, tier_index, progress_points, updated_at
		 FROM rank_profiles
		 ORDER BY rank_index DESC, tier_index DESC, progress_points DESC, profile ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query ranks: %w", err)
	}
	defer rows.Close()

	var entries []RankEntry
	for rows.Next() {
		var e RankEntry
		var updatedAt any
		if err := rows.Scan(&e.Profile, &e.State.RankIndex, &e.State.TierIndex, &e.State.ProgressPoints, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.UpdatedAt = parseTime(updatedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// ResetRank deletes the stored rank for profile. Resetting an unknown
// profile is not an error.
func (s *Store) ResetRank(profile string) error {
	if _, err := s.db.Exec("DELETE FROM rank_profiles WHERE profile = ?", profile); err != nil {
		return fmt.Errorf("storage: cannot reset rank: %w", err)
	}
	return nil
}

// CountProfiles returns the number of stored profiles.
func (s *Store) CountProfiles() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM rank_profiles").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count profiles: %w", err)
	}
	return n, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
