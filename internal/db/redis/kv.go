package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/hadithsearch/internal/db"
)

// Get reads one cached embedding. A missing key yields db.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.do(ctx, s.b().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, opError(db.OpGet, key, err)
	}
	return data, nil
}

// MGet reads cached embeddings for a corpus batch. Keys hash to different
// cluster slots, so it pipelines one GET per key instead of issuing MGET.
func (s *Store) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.b().Get().Key(key).Build()
	}

	out := make([][]byte, len(keys))
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		data, err := res.AsBytes()
		switch {
		case err == nil:
			out[i] = data
		case rueidis.IsRedisNil(err):
		default:
			return nil, opError(db.OpMGet, keys[i], err)
		}
	}
	return out, nil
}

// Set stores an embedding without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	cmd := s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return opError(db.OpSet, key, err)
	}
	return nil
}
