package checkpoint

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Blaqadonis/azaman/core"
	"github.com/Blaqadonis/azaman/logging"
)

const createCheckpoints = `
CREATE TABLE IF NOT EXISTS checkpoints (
	session_id TEXT PRIMARY KEY,
	state      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// SQLiteStore persists snapshots as JSON rows in a single SQLite table,
// one row per session, replaced on every save. WAL mode and a busy timeout
// are enabled so concurrent sessions in one process don't trip over the
// write lock.
type SQLiteStore struct {
	db     *sql.DB
	logger logging.Logger
}

var _ Store = (*SQLiteStore)(nil)

// SQLiteStoreOptions configure a SQLiteStore.
type SQLiteStoreOptions struct {
	Logger logging.Logger
}

// NewSQLiteStore opens (creating if necessary) the database at path and
// ensures the checkpoints table exists. Parent directories are created for
// file-backed paths.
func NewSQLiteStore(path string, optFns ...func(o *SQLiteStoreOptions)) (*SQLiteStore, error) {
	opts := SQLiteStoreOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	if !isMemoryPath(path) {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create checkpoint directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open checkpoint database: %w", err)
	}
	if _, err := db.Exec(createCheckpoints); err != nil {
		db.Close()
		return nil, fmt.Errorf("create checkpoints table: %w", err)
	}

	return &SQLiteStore{db: db, logger: opts.Logger}, nil
}

func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// Load returns the session's latest snapshot. Unknown sessions yield a
// fresh default state; fields absent from older snapshots keep their
// defaults after decoding.
func (s *SQLiteStore) Load(ctx context.Context, sessionID string) (*core.ConversationState, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM checkpoints WHERE session_id = ?`, sessionID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return core.NewState(""), nil
	}
	if err != nil {
		return nil, &core.PersistenceError{Op: "load", SessionID: sessionID, Err: err}
	}

	st := core.NewState("")
	if err := json.Unmarshal(raw, st); err != nil {
		return nil, &core.PersistenceError{Op: "load", SessionID: sessionID, Err: err}
	}
	fillDefaults(st)
	return st, nil
}

// fillDefaults repairs fields that json.Unmarshal may have nilled or that
// predate the current snapshot shape.
func fillDefaults(st *core.ConversationState) {
	if st.Currency == "" {
		st.Currency = core.DefaultCurrency
	}
	if st.Expenses == nil {
		st.Expenses = []core.ExpenseRecord{}
	}
	if st.Messages == nil {
		st.Messages = []core.Message{}
	}
}

// Save upserts the session's snapshot.
func (s *SQLiteStore) Save(ctx context.Context, sessionID string, st *core.ConversationState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return &core.PersistenceError{Op: "save", SessionID: sessionID, Err: err}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checkpoints (session_id, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		sessionID, raw, time.Now().UTC(),
	)
	if err != nil {
		return &core.PersistenceError{Op: "save", SessionID: sessionID, Err: err}
	}

	s.logger.Debug("checkpoint.saved", "session_id", sessionID, "bytes", len(raw))
	return nil
}

// Delete removes the session's snapshot.
func (s *SQLiteStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM checkpoints WHERE session_id = ?`, sessionID,
	); err != nil {
		return &core.PersistenceError{Op: "delete", SessionID: sessionID, Err: err}
	}
	return nil
}

// Sessions lists persisted session ids in sorted order.
func (s *SQLiteStore) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id FROM checkpoints ORDER BY session_id`)
	if err != nil {
		return nil, &core.PersistenceError{Op: "list", Err: err}
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, &core.PersistenceError{Op: "list", Err: err}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.PersistenceError{Op: "list", Err: err}
	}
	return ids, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
