// Package storage provides SQLite-based persistence for match replays.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/replay"
)

// ErrNotFound is returned when a replay id does not exist.
var ErrNotFound = errors.New("storage: replay not found")

// Store manages the SQLite database connection for replay persistence.
type Store struct {
	db *sql.DB
}

// ReplayEntry is the listing row of a saved replay. The inputs themselves
// are only read by LoadReplay.
type ReplayEntry struct {
	ID        int64
	P1        string
	P2        string
	Winner    string // empty on a draw
	Rounds    int
	Ticks     int
	Hash      uint64
	CreatedAt time.Time
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
		CREATE TABLE IF NOT EXISTS replays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			version INTEGER NOT NULL,
			p1 TEXT NOT NULL,
			p2 TEXT NOT NULL,
			winner TEXT,
			winner_side INTEGER NOT NULL DEFAULT 0,
			rounds INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			hash TEXT NOT NULL,
			config TEXT NOT NULL,
			inputs BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_replays_p1 ON replays(p1);
		CREATE INDEX IF NOT EXISTS idx_replays_p2 ON replays(p2);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Databases created before winner_side existed.
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('replays') WHERE name = 'winner_side'`).Scan(&n)
	if err != nil || n > 0 {
		return err
	}
	_, err = s.db.Exec(`ALTER TABLE replays ADD COLUMN winner_side INTEGER NOT NULL DEFAULT 0`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReplay stores a log with its outcome summary.
// Returns the ID of the inserted record.
func (s *Store) SaveReplay(l *replay.Log, sum replay.Summary) (int64, error) {
	cfg, err := yaml.Marshal(l.Config)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode config: %w", err)
	}

	var winner sql.NullString
	side := 0
	if !sum.Draw && sum.Winner != "" {
		winner = sql.NullString{String: sum.Winner, Valid: true}
		side = winnerSide(l, sum)
	}

	result, err := s.db.Exec(
		`INSERT INTO replays (version, p1, p2, winner, winner_side, rounds, ticks, hash, config, inputs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.Version, l.P1, l.P2, winner, side, sum.Rounds, l.Ticks(),
		formatHash(l.Hash), string(cfg), replay.EncodeInputs(l.Records),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save replay: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// ListReplays returns the most recent replays, newest first.
func (s *Store) ListReplays(limit int) ([]ReplayEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, p1, p2, winner, rounds, ticks, hash, created_at
		 FROM replays
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	defer rows.Close()

	var entries []ReplayEntry
	for rows.Next() {
		var e ReplayEntry
		var winner sql.NullString
		var hash string
		var createdAt any
		if err := rows.Scan(&e.ID, &e.P1, &e.P2, &winner, &e.Rounds, &e.Ticks, &hash, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if winner.Valid {
			e.Winner = winner.String
		}
		if e.Hash, err = parseHash(hash); err != nil {
			return nil, err
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// LoadReplay reads a full log back.
func (s *Store) LoadReplay(id int64) (*replay.Log, error) {
	var l replay.Log
	var hash, cfg string
	var inputs []byte

	err := s.db.QueryRow(
		`SELECT version, p1, p2, hash, config, inputs FROM replays WHERE id = ?`,
		id,
	).Scan(&l.Version, &l.P1, &l.P2, &hash, &cfg, &inputs)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replay: %w", err)
	}

	if l.Hash, err = parseHash(hash); err != nil {
		return nil, err
	}
	l.Config = config.DefaultSimConfig()
	if err := yaml.Unmarshal([]byte(cfg), &l.Config); err != nil {
		return nil, fmt.Errorf("storage: cannot decode config of replay %d: %w", id, err)
	}
	if l.Records, err = replay.DecodeInputs(inputs); err != nil {
		return nil, fmt.Errorf("storage: replay %d: %w", id, err)
	}
	return &l, nil
}

// DeleteReplay removes a replay.
func (s *Store) DeleteReplay(id int64) error {
	res, err := s.db.Exec("DELETE FROM replays WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete replay: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

// winnerSide returns sum.Side, or the side whose character won when the
// summary does not say. A mirror match without a side stays undecided.
func winnerSide(l *replay.Log, sum replay.Summary) int {
	switch {
	case sum.Side == 1 || sum.Side == 2:
		return sum.Side
	case l.P1 == l.P2:
		return 0
	case sum.Winner == l.P1:
		return 1
	case sum.Winner == l.P2:
		return 2
	}
	return 0
}

// CharacterStats contains aggregated results for one character.
type CharacterStats struct {
	Character  string
	Matches    int
	Wins       int
	Draws      int
	LastPlayed time.Time
}

// GetCharacterStats aggregates every saved replay the character played in.
// Results count per side, so a mirror match is one win and one loss.
// Replays that ended before a round was decided only update LastPlayed.
func (s *Store) GetCharacterStats(id string) (*CharacterStats, error) {
	stats := &CharacterStats{Character: id}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(CASE WHEN rounds > 0 THEN (p1 = ?) + (p2 = ?) ELSE 0 END), 0),
		        COALESCE(SUM((p1 = ? AND winner_side = 1) + (p2 = ? AND winner_side = 2)), 0),
		        COALESCE(SUM(CASE WHEN rounds > 0 AND winner IS NULL THEN (p1 = ?) + (p2 = ?) ELSE 0 END), 0),
		        MAX(created_at)
		 FROM replays WHERE p1 = ? OR p2 = ?`,
		id, id, id, id, id, id, id, id,
	).Scan(&stats.Matches, &stats.Wins, &stats.Draws, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get character stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// parseTime handles the datetime as either time.Time or string.
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

// Hashes are stored as hex text since SQLite integers are signed.
func formatHash(h uint64) string {
	return fmt.Sprintf("%016x", h)
}

func parseHash(s string) (uint64, error) {
	h, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("storage: bad replay hash %q: %w", s, err)
	}
	return h, nil
}
