package db

import (
	"context"
	"time"
)

// Store is the Redis facade used by the redis driver.
type Store interface {
	Pinger
	HashStore
	KVStore
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore reads hadith records stored as hashes.
type HashStore interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// KVStore holds cached embedding vectors. Both the Redis and the Badger
// store implement it.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// MGet returns one value per key in key order; missing keys yield nil.
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Searcher runs keyword, vector and count queries against the hadith index.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	SearchBM25(ctx context.Context, q *TextQuery) (*SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}
