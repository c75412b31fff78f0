package offline

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/five82/backlog/internal/game"
)

//go:embed schema.sql
var schema string

// SQLiteQueue persists the queue in a single SQLite file.
type SQLiteQueue struct {
	db *sql.DB
}

// OpenSQLite opens or creates the queue database at path.
func OpenSQLite(path string) (*SQLiteQueue, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("queue path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create queue dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", cleanPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteQueue{db: db}, nil
}

// Close releases the database.
func (q *SQLiteQueue) Close() error {
	if q == nil || q.db == nil {
		return nil
	}
	return q.db.Close()
}

// GetAllGames implements Queue.
func (q *SQLiteQueue) GetAllGames(ctx context.Context) ([]game.Game, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT json FROM games ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var games []game.Game
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		var g game.Game
		if err := json.Unmarshal([]byte(raw), &g); err != nil {
			return nil, fmt.Errorf("decode game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return games, nil
}

// PutAllGames implements Queue. The stored collection is replaced atomically.
func (q *SQLiteQueue) PutAllGames(ctx context.Context, games []game.Game) error {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM games`); err != nil {
		return fmt.Errorf("clear games: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO games (id, position, json) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, g := range games {
		data, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("encode game %q: %w", g.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, g.ID, i, string(data)); err != nil {
			return fmt.Errorf("insert game %q: %w", g.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetPendingSync implements Queue.
func (q *SQLiteQueue) GetPendingSync(ctx context.Context) (Payload, error) {
	var raw string
	err := q.db.QueryRowContext(ctx, `SELECT payload FROM pending_sync WHERE key = ?`, PendingKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Payload{}, ErrNoPending
	}
	if err != nil {
		return Payload{}, fmt.Errorf("query pending: %w", err)
	}
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Payload{}, fmt.Errorf("decode pending: %w", err)
	}
	return p, nil
}

// PutPendingSync implements Queue. It overwrites any earlier payload.
func (q *SQLiteQueue) PutPendingSync(ctx context.Context, p Payload) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode pending: %w", err)
	}
	_, err = q.db.ExecContext(ctx, `
INSERT INTO pending_sync (key, payload, created_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at
`, PendingKey, string(data), p.CreatedAt.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("store pending: %w", err)
	}
	return nil
}

// ClearPendingSync implements Queue.
func (q *SQLiteQueue) ClearPendingSync(ctx context.Context) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM pending_sync WHERE key = ?`, PendingKey); err != nil {
		return fmt.Errorf("clear pending: %w", err)
	}
	return nil
}
