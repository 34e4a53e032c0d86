package contact

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Limiter answers whether one more submission is allowed for a key and
// records the attempt when it is. Implementations must be safe for
// concurrent use. A store failure is returned as an error so the pipeline
// can skip limiting gracefully instead of rejecting the submission.
type Limiter interface {
	Allow(key string) (bool, error)
}

// MemoryLimiter is a per-key sliding-window limiter held in process
// memory. Counts reset on restart, which is acceptable for development and
// single-instance deployments.
type MemoryLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
}

// NewMemoryLimiter creates a MemoryLimiter allowing max attempts per window.
func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
	}
}

// Allow reports whether the key is under its limit and records the attempt.
func (l *MemoryLimiter) Allow(key string) (bool, error) {
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	hits := l.attempts[key]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= l.max {
		l.attempts[key] = kept
		return false, nil
	}
	kept = append(kept, now)
	l.attempts[key] = kept
	return true, nil
}

// CounterStore keeps fixed-window counters in SQLite so limits survive
// restarts. One row per key; the window restarts when its start time is
// older than the window size.
type CounterStore struct {
	db *sql.DB
}

// OpenCounterStore opens (or creates) the counter database at path,
// ensuring the data directory exists.
func OpenCounterStore(path string) (*CounterStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent readers, busy timeout so writers wait instead of
	// failing with SQLITE_BUSY, synchronous=NORMAL is safe with WAL.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &CounterStore{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *CounterStore) Close() error {
	return s.db.Close()
}

func (s *CounterStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS counters (
    key TEXT PRIMARY KEY,
    count INTEGER NOT NULL,
    window_start INTEGER NOT NULL
);
`)
	return err
}

// Increment bumps the counter for key within its fixed window and reports
// whether the count stayed at or under limit. An expired window resets the
// count before incrementing.
func (s *CounterStore) Increment(key string, window time.Duration, limit int) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	var count, start int64
	err = tx.QueryRow(`SELECT count, window_start FROM counters WHERE key = ?`, key).
		Scan(&count, &start)
	switch {
	case err == sql.ErrNoRows:
		count, start = 0, now
	case err != nil:
		return false, err
	case now-start >= int64(window.Seconds()):
		count, start = 0, now
	}
	if count >= int64(limit) {
		return false, nil
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO counters (key, count, window_start) VALUES (?, ?, ?)`,
		key, count+1, start,
	); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// WindowLimiter adapts a CounterStore into a Limiter with a fixed
// threshold and window. Keys are namespaced by prefix so the per-IP and
// global limiters can share one store.
type WindowLimiter struct {
	Store  *CounterStore
	Prefix string
	Max    int
	Window time.Duration
}

// Allow increments the windowed counter for key.
func (l *WindowLimiter) Allow(key string) (bool, error) {
	return l.Store.Increment(l.Prefix+":"+key, l.Window, l.Max)
}
