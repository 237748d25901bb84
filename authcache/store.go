package authcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/convex-go/authcache/migrations"
	"github.com/MKhiriev/convex-go/internal/logger"
)

// ErrNoCachedCredentials is returned by [Store.Load] when no credentials
// are stored under the requested name.
var ErrNoCachedCredentials = errors.New("no cached credentials")

// Store persists encrypted credential blobs in a local SQLite database.
// One row per cache name.
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

// OpenStore opens (creating if necessary) the credential database at
// path and applies pending migrations.
func OpenStore(ctx context.Context, path string, log *logger.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("authcache: store path is required")
	}
	if log == nil {
		log = logger.Nop()
	}

	if err := createDBFileIfNotExists(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error connecting database (ping): %w", err)
	}

	if err = migrations.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Debug().Str("path", path).Msg("credential cache opened")
	return &Store{db: db, log: log}, nil
}

// NewStore wraps an already opened database. The caller is responsible
// for migrations; used by tests.
func NewStore(db *sql.DB, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{db: db, log: log}
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts the encrypted payload stored under name.
func (s *Store) Save(ctx context.Context, name string, payload []byte) error {
	query, args, err := sq.
		Insert("credentials").
		Columns("name", "payload", "updated_at").
		Values(name, payload, time.Now().UTC()).
		Suffix("ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build save query: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save credentials %q: %w", name, err)
	}
	return nil
}

// Load returns the encrypted payload stored under name, or
// [ErrNoCachedCredentials] when the row does not exist.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	query, args, err := sq.
		Select("payload").
		From("credentials").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load query: %w", err)
	}

	var payload []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoCachedCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load credentials %q: %w", name, err)
	}
	return payload, nil
}

// Delete removes the payload stored under name. Deleting an absent row
// is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	query, args, err := sq.
		Delete("credentials").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete credentials %q: %w", name, err)
	}
	return nil
}

func createDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	return nil
}
