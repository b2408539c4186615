// Package badger implements db.KVStore on an embedded BadgerDB. The local
// driver keeps its embedding cache here so corpus vectors survive restarts
// without a Redis server.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hadithsearch/internal/db"
)

// Compile-time checks.
var (
	_ db.KVStore = (*Store)(nil)
	_ db.Pinger  = (*Store)(nil)
)

// Config selects where BadgerDB keeps its files. Empty Dir or InMemory
// opens a throwaway in-memory database.
type Config struct {
	Dir      string
	InMemory bool
}

// Store is a BadgerDB-backed key-value store.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a BadgerDB database.
func Open(cfg Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var opts badger.Options
	if cfg.InMemory || cfg.Dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := ensureDir(cfg.Dir); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}
	opts.Logger = &loggerAdapter{logger: logger.Named("badger").Sugar()}
	opts.Compression = options.None

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: bdb}, nil
}

// Get returns the value stored at key or db.ErrKeyNotFound.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, db.ErrKeyNotFound
		}
		return nil, opError(db.OpGet, key, err)
	}
	return out, nil
}

// MGet reads all keys in one read transaction. Missing keys yield nil.
func (s *Store) MGet(_ context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	out := make([][]byte, len(keys))
	var failed string
	err := s.db.View(func(txn *badger.Txn) error {
		for i, key := range keys {
			item, err := txn.Get([]byte(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err == nil {
				out[i], err = item.ValueCopy(nil)
			}
			if err != nil {
				failed = key
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, opError(db.OpMGet, failed, err)
	}
	return out, nil
}

// Set stores value at key, overwriting any previous value.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return opError(db.OpSet, key, err)
	}
	return nil
}

// Ping fails once the database has been closed.
func (s *Store) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return opError(db.OpPing, "", errors.New("database closed"))
	}
	return nil
}

// HealthCheck reports store availability for readiness probes.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.Ping(ctx)
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// loggerAdapter routes badger's internal logging into zap.
type loggerAdapter struct {
	logger *zap.SugaredLogger
}

var _ badger.Logger = (*loggerAdapter)(nil)

func (l *loggerAdapter) Errorf(msg string, args ...any)   { l.logger.Errorf(msg, args...) }
func (l *loggerAdapter) Warningf(msg string, args ...any) { l.logger.Warnf(msg, args...) }
func (l *loggerAdapter) Infof(msg string, args ...any)    { l.logger.Debugf(msg, args...) }
func (l *loggerAdapter) Debugf(msg string, args ...any)   { l.logger.Debugf(msg, args...) }

func opError(op, target string, err error) error {
	return &db.Error{Backend: db.BackendBadger, Op: op, Target: target, Err: err}
}
