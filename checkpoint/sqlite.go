package checkpoint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS checkpoints (
	session_id     TEXT PRIMARY KEY,
	node           TEXT NOT NULL,
	awaiting_input INTEGER NOT NULL,
	state          TEXT NOT NULL,
	updated_at     TEXT NOT NULL
);
`

// SQLiteStore persists checkpoints in a single SQLite database file.
// Checkpoints survive process restarts, which is what makes a paused
// session resumable across deployments.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// ensures the schema exists. Use ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	// SQLite handles one writer at a time; serialize at the pool level
	// instead of surfacing SQLITE_BUSY to callers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load returns the checkpoint for the session, or ErrNotFound.
func (s *SQLiteStore) Load(ctx context.Context, sessionID string) (*Checkpoint, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT node, awaiting_input, state, updated_at FROM checkpoints WHERE session_id = ?`,
		sessionID)

	var (
		cp        = Checkpoint{SessionID: sessionID}
		awaiting  int
		state     string
		updatedAt string
	)
	if err := row.Scan(&cp.Node, &awaiting, &state, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load checkpoint %s: %w", sessionID, err)
	}
	cp.AwaitingInput = awaiting != 0
	cp.State = []byte(state)
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		cp.UpdatedAt = t
	}
	return &cp, nil
}

// Save upserts the checkpoint. The write is a single statement, so a
// concurrent reader sees either the previous snapshot or the new one,
// never a partial row.
func (s *SQLiteStore) Save(ctx context.Context, cp *Checkpoint) error {
	awaiting := 0
	if cp.AwaitingInput {
		awaiting = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checkpoints (session_id, node, awaiting_input, state, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			node = excluded.node,
			awaiting_input = excluded.awaiting_input,
			state = excluded.state,
			updated_at = excluded.updated_at`,
		cp.SessionID, cp.Node, awaiting, string(cp.State),
		time.Now().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save checkpoint %s: %w", cp.SessionID, err)
	}
	return nil
}

// Exists reports whether a checkpoint exists for the session.
func (s *SQLiteStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM checkpoints WHERE session_id = ?`, sessionID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check checkpoint %s: %w", sessionID, err)
	}
	return true, nil
}

// Delete removes a session's checkpoint.
func (s *SQLiteStore) Delete(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM checkpoints WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("delete checkpoint %s: %w", sessionID, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
