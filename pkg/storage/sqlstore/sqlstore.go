// Package sqlstore implements storage.Driver on top of database/sql so the
// SQLite and PostgreSQL drivers share one set of queries.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
	"github.com/papercomputeco/kiosk/pkg/storage"
)

// Dialect selects placeholder syntax and DDL types.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// Store is a database/sql backed chat-log store.
type Store struct {
	DB      *sql.DB
	dialect Dialect
}

// New wraps an open database. Call Migrate before first use.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{DB: db, dialect: dialect}
}

// Migrate creates the chat_logs table and its timestamp index when missing.
func (s *Store) Migrate(ctx context.Context) error {
	idType := "TEXT"
	boolType := "INTEGER"
	if s.dialect == DialectPostgres {
		idType = "VARCHAR(64)"
		boolType = "BOOLEAN"
	}

	queries := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chat_logs (
			id %s PRIMARY KEY,
			query TEXT NOT NULL,
			service_inquired TEXT NOT NULL DEFAULT '',
			response_time_ms BIGINT NOT NULL DEFAULT 0,
			timestamp_ms BIGINT NOT NULL,
			was_successful %s NOT NULL
		)`, idType, boolType),
		`CREATE INDEX IF NOT EXISTS chat_logs_timestamp_idx ON chat_logs (timestamp_ms)`,
	}

	for _, query := range queries {
		if _, err := s.DB.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute migration query: %w", err)
		}
	}

	return nil
}

// Put inserts a chat log, ignoring duplicates by ID.
func (s *Store) Put(ctx context.Context, log *chatlog.ChatLog) error {
	if log == nil {
		return errors.New("cannot store nil chat log")
	}
	if err := log.Validate(); err != nil {
		return err
	}
	log.EnsureID()

	query := fmt.Sprintf(`INSERT INTO chat_logs
		(id, query, service_inquired, response_time_ms, timestamp_ms, was_successful)
		VALUES (%s) ON CONFLICT (id) DO NOTHING`, s.placeholders(1, 6))

	_, err := s.DB.ExecContext(ctx, query,
		log.ID,
		log.Query,
		log.ServiceInquired,
		log.ResponseTime,
		log.Timestamp.UnixMilli(),
		log.WasSuccessful,
	)
	if err != nil {
		return fmt.Errorf("insert chat log: %w", err)
	}
	return nil
}

// Get retrieves a chat log by ID.
func (s *Store) Get(ctx context.Context, id string) (*chatlog.ChatLog, error) {
	query := `SELECT id, query, service_inquired, response_time_ms, timestamp_ms, was_successful
		FROM chat_logs WHERE id = ` + s.placeholder(1)

	log, err := scanLog(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get chat log: %w", err)
	}
	return log, nil
}

// List returns chat logs within opts, newest first.
func (s *Store) List(ctx context.Context, opts storage.ListOptions) ([]chatlog.ChatLog, error) {
	var (
		where []string
		args  []any
	)

	if !opts.Since.IsZero() {
		args = append(args, opts.Since.UnixMilli())
		where = append(where, "timestamp_ms >= "+s.placeholder(len(args)))
	}
	if !opts.Until.IsZero() {
		args = append(args, opts.Until.UnixMilli())
		where = append(where, "timestamp_ms <= "+s.placeholder(len(args)))
	}

	var b strings.Builder
	b.WriteString(`SELECT id, query, service_inquired, response_time_ms, timestamp_ms, was_successful FROM chat_logs`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY timestamp_ms DESC, id ASC")
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		b.WriteString(" LIMIT " + s.placeholder(len(args)))
	}

	rows, err := s.DB.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list chat logs: %w", err)
	}
	defer rows.Close()

	logs := []chatlog.ChatLog{}
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat log: %w", err)
		}
		logs = append(logs, *log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list chat logs: %w", err)
	}

	return logs, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(row rowScanner) (*chatlog.ChatLog, error) {
	var (
		log         chatlog.ChatLog
		timestampMs int64
	)
	if err := row.Scan(
		&log.ID,
		&log.Query,
		&log.ServiceInquired,
		&log.ResponseTime,
		&timestampMs,
		&log.WasSuccessful,
	); err != nil {
		return nil, err
	}
	log.Timestamp = time.UnixMilli(timestampMs)
	return &log, nil
}

func (s *Store) placeholder(n int) string {
	if s.dialect == DialectPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

func (s *Store) placeholders(from, count int) string {
	parts := make([]string, count)
	for i := range count {
		parts[i] = s.placeholder(from + i)
	}
	return strings.Join(parts, ", ")
}
