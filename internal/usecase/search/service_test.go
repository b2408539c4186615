package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kailas-cloud/hadithsearch/internal/domain"
	"github.com/kailas-cloud/hadithsearch/internal/domain/document"
	"github.com/kailas-cloud/hadithsearch/internal/domain/search/hit"
	"github.com/kailas-cloud/hadithsearch/internal/domain/search/request"
	"github.com/kailas-cloud/hadithsearch/internal/repository/resultcache"
	"github.com/kailas-cloud/hadithsearch/internal/usecase/expansion"
)

// --- Mocks ---

func makeDoc(id, body string) document.Document {
	d, err := document.New(id, document.Bukhari, 1, "Prayer", 1, "Narrated Ibn 'Umar:", body)
	if err != nil {
		panic(err)
	}
	return d
}

type mockIndex struct {
	hits     []hit.Ranked
	err      error
	calls    atomic.Int32
	gotText  string
	gotK     int
	mu       sync.Mutex
	blockCtx bool
}

func (m *mockIndex) Search(ctx context.Context, text string, k int) ([]hit.Ranked, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.gotText, m.gotK = text, k
	m.mu.Unlock()
	if m.blockCtx {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.hits, m.err
}

type mockReranker struct {
	scores   map[string]float64
	override []float64
	err      error
	calls    int
	gotQuery string
	gotDocs  []document.Document
	onScore  func()
}

func (m *mockReranker) Score(_ context.Context, query string, docs []document.Document) ([]float64, error) {
	m.calls++
	m.gotQuery = query
	m.gotDocs = docs
	if m.onScore != nil {
		m.onScore()
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.override != nil {
		return m.override, nil
	}
	out := make([]float64, len(docs))
	for i, d := range docs {
		out[i] = m.scores[d.ID()]
	}
	return out, nil
}

type mockCache struct {
	entries map[string][]hit.Reranked
	gets    int
	sets    int
}

func newMockCache() *mockCache { return &mockCache{entries: map[string][]hit.Reranked{}} }

func (m *mockCache) Get(q string) ([]hit.Reranked, bool) {
	m.gets++
	v, ok := m.entries[q]
	return v, ok
}

func (m *mockCache) Set(q string, p []hit.Reranked) {
	m.sets++
	m.entries[q] = p
}

type mockRecorder struct {
	mu       sync.Mutex
	stages   []string
	failures []string
	served   []bool
}

func (m *mockRecorder) ObserveStage(stage string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages = append(m.stages, stage)
}

func (m *mockRecorder) ProviderFailed(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, p)
}

func (m *mockRecorder) Served(cached bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.served = append(m.served, cached)
}

func mustRequest(t *testing.T, q string, topK int, useCache bool) *request.Request {
	t.Helper()
	r, err := request.New(q, &topK, &useCache)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}

// --- Tests ---

func TestSearch_FullPipeline(t *testing.T) {
	vector := &mockIndex{hits: ranked("d1", "d2", "d3")}
	keyword := &mockIndex{hits: ranked("d2", "d4")}
	rr := &mockReranker{scores: map[string]float64{"d1": 0.1, "d2": 0.5, "d3": 0.9, "d4": 0.3}}
	cache := newMockCache()
	rec := &mockRecorder{}

	svc := New(expansion.New(), keyword, vector, rr, cache, Config{
		VectorTopK: 7, KeywordTopK: 9, RerankTopK: 20, RRFK: 60,
	}, WithRecorder(rec))

	out, err := svc.Search(context.Background(), mustRequest(t, "Prayer times", 3, true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Cached {
		t.Error("Cached = true on first call")
	}
	wantExpanded := "prayer times salah salat namaz pray praying prayers"
	if out.ExpandedQuery != wantExpanded {
		t.Errorf("ExpandedQuery = %q", out.ExpandedQuery)
	}
	if vector.gotText != wantExpanded || keyword.gotText != wantExpanded {
		t.Errorf("indexes got %q / %q, want expanded query", vector.gotText, keyword.gotText)
	}
	if vector.gotK != 7 || keyword.gotK != 9 {
		t.Errorf("topK vector=%d keyword=%d", vector.gotK, keyword.gotK)
	}
	if rr.gotQuery != "Prayer times" {
		t.Errorf("reranker query = %q, want raw query", rr.gotQuery)
	}

	gotIDs := []string{}
	for _, r := range out.Results {
		gotIDs = append(gotIDs, r.DocumentID)
	}
	if strings.Join(gotIDs, ",") != "d3,d2,d4" {
		t.Errorf("results = %v, want [d3 d2 d4]", gotIDs)
	}
	if out.Results[0].Score != 0.9 {
		t.Errorf("score = %v, want reranker score", out.Results[0].Score)
	}

	if cache.sets != 1 || len(cache.entries["Prayer times"]) != 4 {
		t.Errorf("cache should hold the full reranked list, got %d entries", len(cache.entries["Prayer times"]))
	}
	if strings.Join(rec.stages, ",") != "expand,retrieve,rerank" {
		t.Errorf("stages = %v", rec.stages)
	}
	if len(rec.served) != 1 || rec.served[0] {
		t.Errorf("served = %v", rec.served)
	}
}

func TestSearch_RerankCutoffBeforeReranking(t *testing.T) {
	vector := &mockIndex{hits: ranked("a", "b", "c", "d")}
	keyword := &mockIndex{}
	// "d" would win reranking but is beyond the cutoff.
	rr := &mockReranker{scores: map[string]float64{"a": 0.1, "b": 0.2, "c": 0.3, "d": 0.99}}

	svc := New(expansion.New(), keyword, vector, rr, newMockCache(), Config{RerankTopK: 2})
	out, err := svc.Search(context.Background(), mustRequest(t, "q", 10, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rr.gotDocs) != 2 {
		t.Fatalf("reranker saw %d candidates, want 2", len(rr.gotDocs))
	}
	for _, r := range out.Results {
		if r.DocumentID == "d" || r.DocumentID == "c" {
			t.Errorf("candidate %s beyond cutoff reached results", r.DocumentID)
		}
	}
	if out.Results[0].DocumentID != "b" {
		t.Errorf("first = %s, want b", out.Results[0].DocumentID)
	}
}

func TestSearch_StableOnEqualRerankScores(t *testing.T) {
	vector := &mockIndex{hits: ranked("x", "y", "z")}
	rr := &mockReranker{override: []float64{0.5, 0.5, 0.5}}

	svc := New(expansion.New(), &mockIndex{}, vector, rr, newMockCache(), DefaultConfig())
	out, err := svc.Search(context.Background(), mustRequest(t, "q", 10, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var ids []string
	for _, r := range out.Results {
		ids = append(ids, r.DocumentID)
	}
	if strings.Join(ids, ",") != "x,y,z" {
		t.Errorf("order = %v, want fused order preserved", ids)
	}
}

func TestSearch_CacheHit(t *testing.T) {
	cache := newMockCache()
	cache.entries["rafa yadain"] = []hit.Reranked{
		{DocumentID: "a", Score: 3}, {DocumentID: "b", Score: 2}, {DocumentID: "c", Score: 1},
	}
	vector := &mockIndex{}
	keyword := &mockIndex{}
	rr := &mockReranker{}
	rec := &mockRecorder{}

	svc := New(expansion.New(), keyword, vector, rr, cache, DefaultConfig(), WithRecorder(rec))
	out, err := svc.Search(context.Background(), mustRequest(t, "rafa yadain", 2, true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Cached {
		t.Error("Cached = false")
	}
	if len(out.Results) != 2 {
		t.Errorf("len = %d, want truncation to topK", len(out.Results))
	}
	if out.ExpandedQuery != "rafa yadain raising raise lifted hands" {
		t.Errorf("ExpandedQuery = %q", out.ExpandedQuery)
	}
	if vector.calls.Load() != 0 || keyword.calls.Load() != 0 || rr.calls != 0 {
		t.Error("providers must not be called on cache hit")
	}
	if len(rec.served) != 1 || !rec.served[0] {
		t.Errorf("served = %v", rec.served)
	}
}

func TestSearch_UseCacheFalse(t *testing.T) {
	cache := newMockCache()
	cache.entries["q"] = []hit.Reranked{{DocumentID: "stale"}}

	svc := New(expansion.New(), &mockIndex{}, &mockIndex{hits: ranked("fresh")},
		&mockReranker{scores: map[string]float64{"fresh": 1}}, cache, DefaultConfig())

	out, err := svc.Search(context.Background(), mustRequest(t, "q", 10, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Cached || out.Results[0].DocumentID != "fresh" {
		t.Errorf("outcome = %+v", out)
	}
	if cache.gets != 0 || cache.sets != 0 {
		t.Errorf("cache touched: gets=%d sets=%d", cache.gets, cache.sets)
	}
}

func TestSearch_ProviderErrors(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name     string
		vector   *mockIndex
		keyword  *mockIndex
		reranker *mockReranker
		provider string
	}{
		{"vector", &mockIndex{err: boom}, &mockIndex{hits: ranked("a")}, &mockReranker{}, domain.ProviderVector},
		{"keyword", &mockIndex{hits: ranked("a")}, &mockIndex{err: boom}, &mockReranker{}, domain.ProviderKeyword},
		{"reranker", &mockIndex{hits: ranked("a")}, &mockIndex{}, &mockReranker{err: boom}, domain.ProviderReranker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newMockCache()
			rec := &mockRecorder{}
			svc := New(expansion.New(), tt.keyword, tt.vector, tt.reranker, cache, DefaultConfig(), WithRecorder(rec))

			_, err := svc.Search(context.Background(), mustRequest(t, "q", 10, true))
			if !errors.Is(err, domain.ErrProvider) {
				t.Fatalf("expected ErrProvider, got %v", err)
			}
			if !errors.Is(err, boom) {
				t.Errorf("cause lost: %v", err)
			}
			var pe *domain.ProviderError
			if !errors.As(err, &pe) || pe.Provider != tt.provider {
				t.Errorf("provider = %+v, want %s", pe, tt.provider)
			}
			if cache.sets != 0 {
				t.Error("failed search must not be cached")
			}
			if len(rec.failures) != 1 || rec.failures[0] != tt.provider {
				t.Errorf("failures = %v", rec.failures)
			}
		})
	}
}

func TestSearch_ProviderErrorKeepsIdentity(t *testing.T) {
	adapterErr := domain.NewProviderError(domain.ProviderVector, errors.New("embed failed"))
	svc := New(expansion.New(), &mockIndex{}, &mockIndex{err: adapterErr}, &mockReranker{}, newMockCache(), DefaultConfig())

	_, err := svc.Search(context.Background(), mustRequest(t, "q", 10, true))
	if !errors.Is(err, adapterErr) {
		t.Fatalf("adapter error identity lost: %v", err)
	}
}

func TestSearch_RerankerScoreCountMismatch(t *testing.T) {
	rr := &mockReranker{override: []float64{0.4}}
	svc := New(expansion.New(), &mockIndex{}, &mockIndex{hits: ranked("a", "b")}, rr, newMockCache(), DefaultConfig())

	_, err := svc.Search(context.Background(), mustRequest(t, "q", 10, true))
	if !errors.Is(err, domain.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestSearch_NoCandidatesSkipsReranker(t *testing.T) {
	rr := &mockReranker{}
	cache := newMockCache()
	svc := New(expansion.New(), &mockIndex{}, &mockIndex{}, rr, cache, DefaultConfig())

	out, err := svc.Search(context.Background(), mustRequest(t, "nothing matches", 10, true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Results) != 0 || rr.calls != 0 {
		t.Errorf("results=%d reranker calls=%d", len(out.Results), rr.calls)
	}
	if out.Results == nil {
		t.Error("Results should be an empty slice, not nil")
	}
}

func TestSearch_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	vector := &mockIndex{}
	cache := newMockCache()
	svc := New(expansion.New(), &mockIndex{}, vector, &mockReranker{}, cache, DefaultConfig())

	_, err := svc.Search(ctx, mustRequest(t, "q", 10, true))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if vector.calls.Load() != 0 || cache.sets != 0 {
		t.Error("cancelled search reached providers or cache")
	}
}

func TestSearch_CancelledDuringRetrieval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	vector := &mockIndex{blockCtx: true}
	keyword := &mockIndex{hits: ranked("a")}
	rr := &mockReranker{}
	cache := newMockCache()
	rec := &mockRecorder{}
	svc := New(expansion.New(), keyword, vector, rr, cache, DefaultConfig(), WithRecorder(rec))

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := svc.Search(ctx, mustRequest(t, "q", 10, true))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, domain.ErrProvider) {
		t.Error("cancellation must not surface as a provider error")
	}
	if rr.calls != 0 || cache.sets != 0 {
		t.Error("cancelled search reached reranker or cache")
	}
	if len(rec.failures) != 0 {
		t.Errorf("failures = %v", rec.failures)
	}
}

func TestSearch_CancelledDuringRerankSkipsCacheWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rr := &mockReranker{scores: map[string]float64{"a": 1}, onScore: cancel}
	cache := newMockCache()
	svc := New(expansion.New(), &mockIndex{}, &mockIndex{hits: ranked("a")}, rr, cache, DefaultConfig())

	_, _ = svc.Search(ctx, mustRequest(t, "q", 10, true))
	if cache.sets != 0 {
		t.Error("cancelled search must never write the cache")
	}
}

func TestSearch_Elapsed(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ticks atomic.Int64
	clock := func() time.Time {
		return base.Add(time.Duration(ticks.Add(1)) * time.Millisecond)
	}

	svc := New(expansion.New(), &mockIndex{}, &mockIndex{}, &mockReranker{}, newMockCache(), DefaultConfig(),
		WithClock(clock))
	out, err := svc.Search(context.Background(), mustRequest(t, "q", 10, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Elapsed <= 0 {
		t.Errorf("Elapsed = %v", out.Elapsed)
	}
}

// --- End-to-end over a fixture corpus ---

// termIndex ranks documents by how many query terms their text contains.
type termIndex struct {
	docs []document.Document
}

func (ix *termIndex) Search(_ context.Context, text string, k int) ([]hit.Ranked, error) {
	terms := strings.Fields(text)
	type scored struct {
		doc   document.Document
		score float64
	}
	var matches []scored
	for _, d := range ix.docs {
		body := strings.ToLower(d.SearchableText())
		var s float64
		for _, term := range terms {
			if strings.Contains(body, term) {
				s++
			}
		}
		if s > 0 {
			matches = append(matches, scored{d, s})
		}
	}
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].score > matches[j-1].score; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}
	if len(matches) > k {
		matches = matches[:k]
	}
	docs := make([]document.Document, len(matches))
	scores := make([]float64, len(matches))
	for i, m := range matches {
		docs[i], scores[i] = m.doc, m.score
	}
	return hit.FromRanked(docs, scores), nil
}

// overlapReranker scores each document by the share of raw query words plus
// "hands" related words it contains.
type overlapReranker struct{}

func (overlapReranker) Score(_ context.Context, query string, docs []document.Document) ([]float64, error) {
	words := append(strings.Fields(strings.ToLower(query)), "raising", "hands")
	out := make([]float64, len(docs))
	for i, d := range docs {
		body := strings.ToLower(d.SearchableText())
		for _, w := range words {
			if strings.Contains(body, w) {
				out[i]++
			}
		}
		out[i] /= float64(len(words))
	}
	return out, nil
}

func fixtureCorpus() []document.Document {
	bodies := map[string]string{
		"bukhari_1_735": "I saw Allah's Messenger raising hands up to the shoulders when he started the prayer.",
		"bukhari_1_1":   "Actions are judged by intentions.",
		"bukhari_3_118": "Fasting is a shield.",
		"muslim_2_12":   "Charity does not decrease wealth.",
		"muslim_4_88":   "The best of you are those who learn the Quran and teach it.",
		"bukhari_8_10":  "Be kind to your neighbours.",
	}
	order := []string{"bukhari_1_1", "bukhari_3_118", "muslim_2_12", "bukhari_1_735", "muslim_4_88", "bukhari_8_10"}
	docs := make([]document.Document, 0, len(order))
	for _, id := range order {
		docs = append(docs, makeDoc(id, bodies[id]))
	}
	return docs
}

func TestSearch_EndToEnd_RafaYadain(t *testing.T) {
	corpus := fixtureCorpus()
	cache, err := resultcache.New(100, time.Hour)
	if err != nil {
		t.Fatalf("resultcache.New: %v", err)
	}
	// The vector index here has no notion of "rafa"; it returns corpus order.
	vector := &mockIndex{hits: hit.FromRanked(corpus, nil)}

	svc := New(expansion.New(), &termIndex{docs: corpus}, vector, overlapReranker{}, cache, DefaultConfig())

	first, err := svc.Search(context.Background(), mustRequest(t, "rafa yadain", 5, true))
	if err != nil {
		t.Fatalf("first search: %v", err)
	}
	if first.Cached {
		t.Error("first call Cached = true")
	}
	if !containsID(first.Results, "bukhari_1_735") {
		t.Fatalf("raising-hands hadith missing from top 5: %v", first.Results)
	}
	if len(first.Results) > 5 {
		t.Errorf("len = %d, want <= 5", len(first.Results))
	}

	second, err := svc.Search(context.Background(), mustRequest(t, "rafa yadain", 5, true))
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if !second.Cached {
		t.Error("repeat call Cached = false")
	}
	if !containsID(second.Results, "bukhari_1_735") {
		t.Error("cached results lost the raising-hands hadith")
	}
	if vector.calls.Load() != 1 {
		t.Errorf("vector index calls = %d, want 1", vector.calls.Load())
	}

	stats := cache.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func containsID(results []hit.Reranked, id string) bool {
	for _, r := range results {
		if r.DocumentID == id {
			return true
		}
	}
	return false
}
