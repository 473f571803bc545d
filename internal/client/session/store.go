package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/mycloud/internal/client/migrations"
	"github.com/dmitrijs2005/mycloud/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mycloud/internal/dbx"
	"github.com/dmitrijs2005/mycloud/internal/logging"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

var errNotInitialized = errors.New("store is not initialized")

// openDB and gooseUpContext are seams for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("sqlite", dsn)
}

var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Store is the credential store. One instance is created by the entry point
// and injected into every consumer.
type Store struct {
	dsn string
	log logging.Logger

	mu   sync.RWMutex
	db   *sql.DB
	repo metadata.Repository
}

func NewStore(dsn string, log logging.Logger) *Store {
	return &Store{dsn: dsn, log: log.With("component", "session.store")}
}

// gooseLogger sends goose output to the debug log instead of stderr.
type gooseLogger struct {
	ctx context.Context
	log logging.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Debug(g.ctx, "migration", "detail", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(g.ctx, "migration failed", "detail", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// RunMigrations applies the embedded schema to db.
func RunMigrations(ctx context.Context, db *sql.DB, log logging.Logger) error {
	goose.SetLogger(gooseLogger{ctx: ctx, log: log})
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// Init opens the database and brings its schema up to date. Calling Init on
// an initialized store is a no-op.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	db, err := openDB(s.dsn)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	// sqlite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db, s.log); err != nil {
		_ = db.Close()
		return fmt.Errorf("migrate credential store: %w", err)
	}

	s.db = db
	s.repo = metadata.NewSQLiteRepository(db)
	return nil
}

// Teardown closes the database. Later calls degrade as if the store were empty.
func (s *Store) Teardown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db, s.repo = nil, nil
	return err
}

func (s *Store) handle() (*sql.DB, metadata.Repository, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, nil, errNotInitialized
	}
	return s.db, s.repo, nil
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key, value string) {
	_, repo, err := s.handle()
	if err == nil {
		err = repo.Set(ctx, key, Encode(value))
	}
	if err != nil {
		s.log.Warn(ctx, "credential store write dropped", "key", key, "error", err)
	}
}

// SetMany stores all pairs in one transaction; either all are written or none.
func (s *Store) SetMany(ctx context.Context, values map[string]string) {
	db, _, err := s.handle()
	if err == nil {
		err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			repo := metadata.NewSQLiteRepository(tx)
			for k, v := range values {
				if err := repo.Set(ctx, k, Encode(v)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err != nil {
		s.log.Warn(ctx, "credential store write dropped", "keys", len(values), "error", err)
	}
}

// Get returns the decoded value under key. A failed read reports ok=false.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	_, repo, err := s.handle()
	if err != nil {
		s.log.Warn(ctx, "credential store read failed", "key", key, "error", err)
		return "", false
	}

	v, ok, err := repo.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "credential store read failed", "key", key, "error", err)
		return "", false
	}
	if !ok {
		return "", false
	}
	return Decode(v), true
}

// Remove deletes the given keys in one transaction.
func (s *Store) Remove(ctx context.Context, keys ...string) {
	db, _, err := s.handle()
	if err == nil {
		err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			return metadata.NewSQLiteRepository(tx).Delete(ctx, keys...)
		})
	}
	if err != nil {
		s.log.Warn(ctx, "credential store remove dropped", "keys", keys, "error", err)
	}
}

// Clear deletes every key.
func (s *Store) Clear(ctx context.Context) {
	_, repo, err := s.handle()
	if err == nil {
		err = repo.Clear(ctx)
	}
	if err != nil {
		s.log.Warn(ctx, "credential store clear dropped", "error", err)
	}
}
