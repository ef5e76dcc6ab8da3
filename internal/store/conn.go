package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/abhisek/practiz/internal/errs"
)

// Conn runs repository operations against either the database pool or an
// open transaction.
type Conn struct {
	eq dialect.ExecQuerier
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (c *Conn) exec(ctx context.Context, query string, args []any) (sql.Result, error) {
	if args == nil {
		args = []any{}
	}
	var res sql.Result
	if err := c.eq.Exec(ctx, query, args, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Conn) query(ctx context.Context, query string, args []any) (*entsql.Rows, error) {
	if args == nil {
		args = []any{}
	}
	rows := &entsql.Rows{}
	if err := c.eq.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// querier is satisfied by every ent SQL builder.
type querier interface {
	Query() (string, []any)
}

func (c *Conn) execBuilder(ctx context.Context, b querier) (sql.Result, error) {
	q, args := b.Query()
	return c.exec(ctx, q, args)
}

func (c *Conn) queryBuilder(ctx context.Context, b querier) (*entsql.Rows, error) {
	q, args := b.Query()
	return c.query(ctx, q, args)
}

// persistence wraps a driver error for op.
func persistence(op string, err error) error {
	return &errs.PersistenceError{Op: op, Err: err}
}

// notFound reports a missing record of kind with id.
func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, errs.ErrNotFound)
}

// isUniqueViolation reports whether err is a SQLite unique or primary key
// constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

// nullTime converts an optional time for storage.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// timePtr converts a scanned nullable time.
func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}
