package embcache

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func TestEmbed_MissThenHit(t *testing.T) {
	inner := &mockEmbedder{}
	ce, kv := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	first, err := ce.Embed(ctx, "prayer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.TotalTokens != 5 {
		t.Errorf("miss should report inner tokens, got %d", first.TotalTokens)
	}
	if kv.sets != 1 {
		t.Fatalf("expected 1 store write, got %d", kv.sets)
	}

	second, err := ce.Embed(ctx, "prayer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected inner called once, got %d", inner.calls)
	}
	if second.TotalTokens != 0 {
		t.Errorf("hit should report zero tokens, got %d", second.TotalTokens)
	}
	if second.Embedding[0] != first.Embedding[0] || second.Embedding[1] != first.Embedding[1] {
		t.Errorf("cached vector %v != original %v", second.Embedding, first.Embedding)
	}
}

func TestEmbed_ModelNamespacing(t *testing.T) {
	inner := &mockEmbedder{}
	kv := newMemKV()
	a := New(inner, kv, "model-a", nil, nil)
	b := New(inner, kv, "model-b", nil, nil)

	if a.cacheKey("x") == b.cacheKey("x") {
		t.Fatal("keys for different models must differ")
	}
	if _, err := a.Embed(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Embed(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 inner calls, got %d", inner.calls)
	}
}

func TestEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("upstream down")}
	ce, kv := newTestCachedEmbedder(t, inner)

	_, err := ce.Embed(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error")
	}
	if kv.sets != 0 {
		t.Errorf("failed embed must not be cached")
	}
}

func TestEmbed_StoreFailuresAreSoft(t *testing.T) {
	inner := &mockEmbedder{}
	ce, kv := newTestCachedEmbedder(t, inner)
	kv.getErr = errors.New("read timeout")
	kv.setErr = errors.New("write timeout")

	res, err := ce.Embed(context.Background(), "x")
	if err != nil {
		t.Fatalf("store failures should not surface, got %v", err)
	}
	if len(res.Embedding) != 2 {
		t.Errorf("unexpected embedding %v", res.Embedding)
	}
}

func TestEmbed_CorruptEntryIsMiss(t *testing.T) {
	inner := &mockEmbedder{}
	ce, kv := newTestCachedEmbedder(t, inner)
	kv.data[ce.cacheKey("x")] = []byte{1, 2, 3}

	if _, err := ce.Embed(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 1 {
		t.Errorf("corrupt entry should fall through to inner")
	}
}

func TestEmbed_Metrics(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
	ce := New(&mockEmbedder{}, newMemKV(), "m", counter, zap.NewNop())
	ctx := context.Background()

	_, _ = ce.Embed(ctx, "a")
	_, _ = ce.Embed(ctx, "a")
	_, _ = ce.Embed(ctx, "a")

	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("miss = %v, want 1", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 2 {
		t.Errorf("hit = %v, want 2", got)
	}
}

// --- BatchEmbed tests ---

func TestBatchEmbed_AllMisses(t *testing.T) {
	inner := &mockEmbedder{}
	ce, kv := newTestCachedEmbedder(t, inner)

	res, err := ce.BatchEmbed(context.Background(), []string{"a", "bb"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.batchCalls != 1 {
		t.Errorf("expected 1 batch call, got %d", inner.batchCalls)
	}
	if res.Embeddings[0][0] != 1 || res.Embeddings[1][0] != 2 {
		t.Errorf("unexpected embeddings: %v", res.Embeddings)
	}
	if res.TotalTokens != 10 {
		t.Errorf("expected 10 tokens, got %d", res.TotalTokens)
	}
	if kv.sets != 2 {
		t.Errorf("expected 2 writes, got %d", kv.sets)
	}
}

func TestBatchEmbed_MixedPreservesOrder(t *testing.T) {
	inner := &mockEmbedder{}
	ce, _ := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	if _, err := ce.Embed(ctx, "bb"); err != nil {
		t.Fatal(err)
	}

	res, err := ce.BatchEmbed(ctx, []string{"a", "bb", "cccc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inner.batchSeen) != 1 || len(inner.batchSeen[0]) != 2 {
		t.Fatalf("only misses should reach inner, saw %v", inner.batchSeen)
	}
	if inner.batchSeen[0][0] != "a" || inner.batchSeen[0][1] != "cccc" {
		t.Errorf("unexpected miss batch %v", inner.batchSeen[0])
	}
	want := []float32{1, 2, 4}
	for i, w := range want {
		if res.Embeddings[i][0] != w {
			t.Errorf("embeddings[%d][0] = %v, want %v", i, res.Embeddings[i][0], w)
		}
	}
}

func TestBatchEmbed_AllHits(t *testing.T) {
	inner := &mockEmbedder{}
	ce, _ := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	if _, err := ce.BatchEmbed(ctx, []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	res, err := ce.BatchEmbed(ctx, []string{"b", "a"})
	if err != nil {
		t.Fatal(err)
	}
	if inner.batchCalls != 1 {
		t.Errorf("expected no second batch call, got %d", inner.batchCalls)
	}
	if res.TotalTokens != 0 {
		t.Errorf("all-hit batch should report zero tokens")
	}
}

func TestBatchEmbed_SingleStoreRoundTrip(t *testing.T) {
	inner := &mockEmbedder{}
	ce, kv := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	if _, err := ce.BatchEmbed(ctx, []string{"a", "bb", "ccc"}); err != nil {
		t.Fatal(err)
	}
	if _, err := ce.BatchEmbed(ctx, []string{"a", "bb", "ccc", "dddd"}); err != nil {
		t.Fatal(err)
	}
	if kv.mgets != 2 {
		t.Errorf("expected one MGet per batch, got %d", kv.mgets)
	}
	if len(inner.batchSeen) != 2 || len(inner.batchSeen[1]) != 1 || inner.batchSeen[1][0] != "dddd" {
		t.Errorf("unexpected miss batches %v", inner.batchSeen)
	}
}

func TestBatchEmbed_StoreReadFailureIsMiss(t *testing.T) {
	inner := &mockEmbedder{}
	ce, kv := newTestCachedEmbedder(t, inner)
	kv.getErr = errors.New("read timeout")

	res, err := ce.BatchEmbed(context.Background(), []string{"a", "bb"})
	if err != nil {
		t.Fatalf("store failures should not surface, got %v", err)
	}
	if inner.batchCalls != 1 || len(res.Embeddings) != 2 {
		t.Errorf("expected all texts embedded by inner, batchCalls=%d", inner.batchCalls)
	}
}

func TestBatchEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{batchErr: errors.New("rate limited")}
	ce, _ := newTestCachedEmbedder(t, inner)

	if _, err := ce.BatchEmbed(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestBatchEmbed_Empty(t *testing.T) {
	inner := &mockEmbedder{}
	ce, _ := newTestCachedEmbedder(t, inner)

	res, err := ce.BatchEmbed(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Embeddings) != 0 || inner.batchCalls != 0 {
		t.Errorf("empty batch should be a no-op")
	}
}

func TestVectorCodec(t *testing.T) {
	in := []float32{0.25, -1.5, 3}
	out, err := decodeVector(encodeVector(in))
	if err != nil {
		t.Fatal(err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Fatalf("decoded %v, want %v", out, in)
		}
	}
	if _, err := decodeVector([]byte{1}); err == nil {
		t.Error("expected error for truncated data")
	}
}
