// Package document reads hadiths stored as Redis hashes.
package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/hadithsearch/internal/db"
	"github.com/kailas-cloud/hadithsearch/internal/domain"
	domdoc "github.com/kailas-cloud/hadithsearch/internal/domain/document"
)

// store is the consumer interface for documents (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements usecase/document.Repository.
type Repo struct {
	store store
	keys  Keyspace
}

// New creates a document repository.
func New(s store, keys Keyspace) *Repo {
	return &Repo{store: s, keys: keys}
}

// Get returns a document by id.
func (r *Repo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	key := r.keys.Key(id)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domdoc.Document{}, domain.ErrDocumentNotFound
		}
		return domdoc.Document{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	return Decode(id, fields)
}

// Count returns the number of indexed documents. A missing index counts as zero.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.keys.Index, "*")
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("count %s: %w", r.keys.Index, err)
	}
	return n, nil
}
