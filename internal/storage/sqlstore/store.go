// Package sqlstore implements storage.Provider on database/sql. The sqlite and
// postgres packages open the connection and run migrations; queries live here.
package sqlstore

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/punchcard/internal/storage"
)

// Dialect describes the differences between the supported SQL engines.
type Dialect int

const (
	// SQLite uses ? placeholders.
	SQLite Dialect = iota
	// Postgres uses $1, $2, ... placeholders.
	Postgres
)

// Rebind rewrites ? placeholders for the dialect. Queries in this package never
// contain a literal question mark.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store holds the shared query layer. Lifecycle methods belong to the embedding backend.
type Store struct {
	DB      *sql.DB
	Dialect Dialect
	Path    string

	tx *sql.Tx
	// wrap turns a tx-scoped Store into the caller-visible provider, so
	// RunInTx hands out the embedding backend type rather than a bare Store.
	wrap func(*Store) storage.Provider
}

// New returns a store over db. wrap may be nil.
func New(db *sql.DB, dialect Dialect, path string, wrap func(*Store) storage.Provider) *Store {
	return &Store{DB: db, Dialect: dialect, Path: path, wrap: wrap}
}

func (s *Store) q() querier {
	if s.tx != nil {
		return s.tx
	}
	return s.DB
}

func (s *Store) exec(query string, args ...any) (sql.Result, error) {
	return s.q().Exec(s.Dialect.Rebind(query), args...)
}

func (s *Store) query(query string, args ...any) (*sql.Rows, error) {
	return s.q().Query(s.Dialect.Rebind(query), args...)
}

func (s *Store) queryRow(query string, args ...any) *sql.Row {
	return s.q().QueryRow(s.Dialect.Rebind(query), args...)
}

// InTx reports whether the store is bound to a transaction.
func (s *Store) InTx() bool {
	return s.tx != nil
}

// RunInTx runs fn inside a transaction. Nested calls reuse the outer transaction.
func (s *Store) RunInTx(fn func(tx storage.Provider) error) error {
	return s.inTx(func(scoped *Store) error {
		if s.wrap != nil {
			return fn(s.wrap(scoped))
		}
		return fn(txProvider{scoped})
	})
}

func (s *Store) inTx(fn func(scoped *Store) error) error {
	if s.DB == nil {
		return storage.ErrNotInitialized
	}
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	scoped := &Store{DB: s.DB, Dialect: s.Dialect, Path: s.Path, tx: tx, wrap: s.wrap}
	if err := fn(scoped); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// txProvider satisfies the lifecycle part of storage.Provider for a bare Store.
type txProvider struct {
	*Store
}

func (txProvider) Init() error  { return nil }
func (txProvider) Load() error  { return nil }
func (txProvider) Close() error { return nil }

func (s *Store) GetConfigPath() string {
	return s.Path
}
