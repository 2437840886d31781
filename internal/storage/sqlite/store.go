package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/punchcard/internal/logger"
	"github.com/julianstephens/punchcard/internal/migration"
	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/storage"
	"github.com/julianstephens/punchcard/internal/storage/sqlstore"
	"github.com/julianstephens/punchcard/migrations"
)

// Store is the default file-backed provider.
type Store struct {
	*sqlstore.Store
	path string
}

func NewStore(path string) *Store {
	return &Store{
		Store: sqlstore.New(nil, sqlstore.SQLite, path, nil),
		path:  path,
	}
}

func (s *Store) open() error {
	// busy_timeout keeps a second process from failing immediately while a write is in flight
	db, err := sql.Open("sqlite", s.path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.Store = sqlstore.New(db, sqlstore.SQLite, s.path, func(scoped *sqlstore.Store) storage.Provider {
		return &Store{Store: scoped, path: s.path}
	})
	return nil
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.DB == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize default settings if not present
	if _, err := s.GetSettings(); err != nil {
		if err := s.SaveSettings(models.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *Store) Load() error {
	if s.DB != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return storage.ErrNotInitialized
	}

	if err := s.open(); err != nil {
		return err
	}

	return s.runner().ValidateVersion()
}

func (s *Store) Close() error {
	if s.DB != nil && !s.InTx() {
		err := s.DB.Close()
		s.Store = sqlstore.New(nil, sqlstore.SQLite, s.path, nil)
		return err
	}
	return nil
}

// Migrate applies pending migrations to an already initialized database.
func (s *Store) Migrate(logFn func(string)) (int, error) {
	if s.DB == nil {
		if err := s.open(); err != nil {
			return 0, err
		}
	}
	return s.runner().ApplyMigrations(logFn)
}

// SchemaVersion returns the applied and the newest embedded migration version.
func (s *Store) SchemaVersion() (int, int, error) {
	if s.DB == nil {
		return 0, 0, storage.ErrNotInitialized
	}
	r := s.runner()
	current, err := r.GetCurrentVersion()
	if err != nil {
		return 0, 0, err
	}
	latest, err := r.GetLatestVersion()
	if err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

func (s *Store) runner() *migration.Runner {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		// The embedded tree is fixed at build time.
		panic(err)
	}
	return migration.NewRunner(s.DB, subFS, nil)
}

func (s *Store) runMigrations() error {
	_, err := s.runner().ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}
