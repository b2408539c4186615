package hadithsearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Defaults applied by New.
const (
	DefaultCacheSize = 10000
	DefaultCacheTTL  = 24 * time.Hour
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver string // "local" or "redis"

	corpusPath string
	corpus     []Hadith
	cacheDir   string

	addrs     []string
	password  string
	indexName string
	keyPrefix string

	embedder         Embedder
	embeddingURL     string
	embeddingKey     string
	embeddingModel   string
	queryInstruction string

	reranker    Reranker
	rerankURL   string
	rerankModel string

	cacheSize int
	cacheTTL  time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCorpusFile builds in-process indexes over a processed corpus JSON file.
func WithCorpusFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "local"
		c.corpusPath = path
	})
}

// WithCorpus builds in-process indexes over the given records.
func WithCorpus(hadiths []Hadith) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "local"
		c.corpus = hadiths
	})
}

// WithEmbeddingCacheDir persists corpus embeddings in a badger database so
// the next start skips the embedding server. In-memory by default.
func WithEmbeddingCacheDir(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDir = dir
	})
}

// WithRedis searches a pre-built Redis index instead of a local corpus.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedisIndex overrides the FT index name and the hash key prefix.
// Defaults: "hadiths:idx" and "hadith:".
func WithRedisIndex(name, keyPrefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexName = name
		c.keyPrefix = keyPrefix
	})
}

// WithEmbedder sets the text embedding provider.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithEmbeddingEndpoint uses an OpenAI-compatible embeddings API
// (text-embeddings-inference, Ollama, vLLM). Ignored when WithEmbedder is set.
func WithEmbeddingEndpoint(baseURL, apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.embeddingURL = baseURL
		c.embeddingKey = apiKey
		c.embeddingModel = model
	})
}

// WithQueryInstruction prepends an instruction to query embeddings, e.g.
// "Represent this sentence for searching relevant passages: " for BGE models.
func WithQueryInstruction(instruction string) Option {
	return optionFunc(func(c *clientConfig) {
		c.queryInstruction = instruction
	})
}

// WithReranker sets the cross-encoder.
func WithReranker(r Reranker) Option {
	return optionFunc(func(c *clientConfig) {
		c.reranker = r
	})
}

// WithRerankEndpoint uses a text-embeddings-inference /rerank API.
// Ignored when WithReranker is set.
func WithRerankEndpoint(baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.rerankURL = baseURL
		c.rerankModel = model
	})
}

// WithResultCache sets the result cache capacity and entry lifetime.
// Defaults: DefaultCacheSize and DefaultCacheTTL.
func WithResultCache(maxSize int, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheSize = maxSize
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
