// Package sqlstore keeps per-player stat totals in SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"gambit/stats"
)

const schema = `CREATE TABLE IF NOT EXISTS player_stats (
	player TEXT NOT NULL,
	stat   TEXT NOT NULL,
	value  INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (player, stat)
)`

const upsert = `INSERT INTO player_stats (player, stat, value) VALUES (?, ?, ?)
ON CONFLICT (player, stat) DO UPDATE SET value = value + excluded.value`

// Store persists stat totals in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the database at path and creates the table if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns the stored total of one stat, zero if none was ever committed.
func (s *Store) Get(ctx context.Context, player string, stat *stats.Stat) (int64, error) {
	var v int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT value FROM player_stats WHERE player = ? AND stat = ?`, player, stat.String()).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get %s of %s: %w", stat, player, err)
	}
	return v, nil
}

// Sink returns a sink for player. Each commit is one transaction.
func (s *Store) Sink(ctx context.Context, player string) stats.Sink {
	return &sink{store: s, ctx: ctx, player: player, pending: make(map[*stats.Stat]int64)}
}

type sink struct {
	store  *Store
	ctx    context.Context
	player string

	mu      sync.Mutex
	pending map[*stats.Stat]int64
}

func (k *sink) Add(stat *stats.Stat, values ...int64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, v := range values {
		k.pending[stat] += v
	}
}

func (k *sink) Commit() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.pending) == 0 {
		return nil
	}

	tx, err := k.store.sqlDB.BeginTx(k.ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for stat, v := range k.pending {
		if _, err := tx.ExecContext(k.ctx, upsert, k.player, stat.String(), v); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("add %s of %s: %w", stat, k.player, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	clear(k.pending)
	return nil
}
