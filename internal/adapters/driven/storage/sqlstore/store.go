package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/vendee/vendee/internal/adapters/driven/storage/sqlstore/migrations"
	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
)

// maxAttempts bounds optimistic-concurrency retries per write.
const maxAttempts = 5

// dbFileName is the SQLite database file inside the data directory.
const dbFileName = "vendee.db"

// Store is a unified SQL storage that provides access to all engine
// collections through wrapper types.
type Store struct {
	db     *sqlx.DB
	driver domain.StorageDriver
	path   string
}

// Open opens a store for the given driver. For sqlite, dsn is the data
// directory (empty means ~/.vendee/data). For postgres it is a connection
// string.
func Open(driver domain.StorageDriver, dsn string) (*Store, error) {
	switch driver {
	case domain.StorageSQLite:
		return NewSQLiteStore(dsn)
	case domain.StoragePostgres:
		return NewPostgresStore(dsn)
	default:
		return nil, fmt.Errorf("%w: sql driver %q", domain.ErrInvalidInput, driver)
	}
}

// NewSQLiteStore creates a SQLite store in dataDir.
// If dataDir is empty, defaults to ~/.vendee/data/vendee.db.
func NewSQLiteStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".vendee", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)

	// WAL mode with a busy timeout lets readers proceed during writes.
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	return newStore(db, domain.StorageSQLite, dbPath)
}

// NewPostgresStore creates a PostgreSQL store from a connection string.
func NewPostgresStore(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres requires storage.dsn", domain.ErrInvalidInput)
	}
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return newStore(db, domain.StoragePostgres, "")
}

func newStore(db *sqlx.DB, driver domain.StorageDriver, path string) (*Store, error) {
	s := &Store{db: db, driver: driver, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path. It is empty for postgres.
func (s *Store) Path() string {
	return s.path
}

// Driver returns the database driver in use.
func (s *Store) Driver() domain.StorageDriver {
	return s.driver
}

// SellerStore returns a SellerStore interface backed by this store.
func (s *Store) SellerStore() driven.SellerStore {
	return &sellerStore{store: s}
}

// InventoryStore returns an InventoryStore interface backed by this store.
func (s *Store) InventoryStore() driven.InventoryStore {
	return &inventoryStore{store: s}
}

// RequestLog returns a RequestLog interface backed by this store.
func (s *Store) RequestLog() driven.RequestLog {
	return &requestLog{store: s}
}

// DemandStore returns a DemandStore interface backed by this store.
func (s *Store) DemandStore() driven.DemandStore {
	return &demandStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	if err := s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(s.db.Rebind("INSERT INTO schema_migrations (version) VALUES (?)"), version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// exec runs a rebound statement and returns the affected row count.
func (s *Store) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// count returns the number of rows in table.
func (s *Store) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}

// nextPosition is a subquery yielding the next insertion position.
func nextPosition(table string) string {
	return "(SELECT COALESCE(MAX(position), 0) + 1 FROM " + table + ")"
}

// toNanos stores the zero time as 0.
func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

// marshalJSON encodes v, storing nil slices as "[]".
func marshalJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(data) == "null" {
		return "[]", nil
	}
	return string(data), nil
}

// isNoRows reports whether err means the row was absent.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
