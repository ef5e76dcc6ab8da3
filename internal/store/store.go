package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	"github.com/abhisek/practiz/internal/errs"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the database handle and hands out Conns.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
}

// pragmas are applied to every pooled connection through the DSN.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"synchronous(NORMAL)",
}

// DSN turns a database file path into a modernc DSN carrying the store's
// pragmas. Write transactions take the lock immediately so concurrent
// submissions queue on busy_timeout instead of failing on upgrade.
func DSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}

// Open creates a new Store backed by the SQLite database at path and runs
// auto-migration.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	ctx := context.Background()

	migrate, err := schema.NewMigrate(drv)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	if err := migrate.Create(ctx, Tables...); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	if err := initSequence(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, drv: drv}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Conn returns a non-transactional Conn. Use it for side-effect-free reads.
func (s *Store) Conn() *Conn {
	return &Conn{eq: s.drv}
}

// InTx runs fn inside a single transaction. Any error or panic from fn
// rolls the transaction back; nothing fn wrote is visible afterwards. A
// failed begin or commit is reported as *errs.PersistenceError.
func (s *Store) InTx(ctx context.Context, fn func(*Conn) error) (err error) {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return &errs.PersistenceError{Op: "begin", Err: err}
	}

	defer func() {
		if v := recover(); v != nil {
			_ = tx.Rollback()
			panic(v)
		}
	}()

	if err := fn(&Conn{eq: tx}); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return &errs.PersistenceError{Op: "commit", Err: err}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. PRACTIZ_DB environment variable
// 2. $XDG_DATA_HOME/practiz/practiz.db
// 3. ~/.local/share/practiz/practiz.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("PRACTIZ_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "practiz", "practiz.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
