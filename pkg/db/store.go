package db

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/charmbracelet/log"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store is the language registry, dictionary catalog and entry storage on one connection.
type Store struct {
	conn   *sql.DB
	logger *log.Logger
}

// NewStore wraps an opened, migrated connection.
func NewStore(conn *sql.DB, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{conn: conn, logger: logger}
}

// Conn exposes the underlying handle, e.g. for batched imports.
func (s *Store) Conn() *sql.DB { return s.conn }

// Close closes the underlying connection.
func (s *Store) Close() error { return s.conn.Close() }

// inTx runs fn inside a transaction, rolling back on error.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// vacuum reclaims space after tables are dropped. Failures are only logged.
func (s *Store) vacuum(ctx context.Context) {
	if _, err := s.conn.ExecContext(ctx, "VACUUM"); err != nil {
		s.logger.Warn("vacuum failed", "err", err)
	}
}

func execBuilder(ctx context.Context, exec DBExecutor, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return exec.ExecContext(ctx, query, args...)
}

func queryRowBuilder(ctx context.Context, exec DBExecutor, b sq.Sqlizer) (*sql.Row, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return exec.QueryRowContext(ctx, query, args...), nil
}

// queryStrings returns the first column of every row.
func queryStrings(ctx context.Context, exec DBExecutor, b sq.Sqlizer) ([]string, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
