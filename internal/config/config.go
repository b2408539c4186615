package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Index drivers.
const (
	DriverLocal = "local"
	DriverRedis = "redis"
)

// Config holds the hadithsearch service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Index     IndexConfig     `yaml:"index"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Reranker  RerankerConfig  `yaml:"reranker"`
	Search    SearchConfig    `yaml:"search"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// IndexConfig selects where the keyword index, vector index and documents live.
type IndexConfig struct {
	Driver     string `yaml:"driver"`      // local, redis (default: local)
	CorpusPath string `yaml:"corpus_path"` // processed JSON corpus, local driver only
	Name       string `yaml:"name"`        // FT index name, redis driver only
	KeyPrefix  string `yaml:"key_prefix"`  // document hash key prefix, redis driver only
}

// DatabaseConfig holds Redis connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds the OpenAI-compatible embedding endpoint settings.
type EmbeddingConfig struct {
	BaseURL          string `yaml:"base_url"`
	APIKey           string `yaml:"api_key"`
	Model            string `yaml:"model"`
	Dimensions       int    `yaml:"dimensions"`
	QueryInstruction string `yaml:"query_instruction"`
	BatchSize        int    `yaml:"batch_size"`
	Workers          int    `yaml:"workers"`
	CacheDir         string `yaml:"cache_dir"` // badger directory, empty = in-memory
}

// RerankerConfig holds the cross-encoder rerank endpoint settings.
type RerankerConfig struct {
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// SearchConfig holds the retrieval pipeline cutoffs.
type SearchConfig struct {
	VectorTopK  int `yaml:"vector_top_k"`
	KeywordTopK int `yaml:"keyword_top_k"`
	RerankTopK  int `yaml:"rerank_top_k"`
	FinalTopK   int `yaml:"final_top_k"`
	RRFK        int `yaml:"rrf_k"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	MaxSize int `yaml:"max_size"`
	TTLSec  int `yaml:"ttl_sec"`
}

// TTL returns the result cache entry lifetime.
func (c CacheConfig) TTL() time.Duration { return time.Duration(c.TTLSec) * time.Second }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse expands ${VAR} references, decodes YAML, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Index.Driver == "" {
		c.Index.Driver = DriverLocal
	}
	if c.Index.Name == "" {
		c.Index.Name = "hadiths:idx"
	}
	if c.Index.KeyPrefix == "" {
		c.Index.KeyPrefix = "hadith:"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}

	if c.Embedding.Model == "" {
		c.Embedding.Model = "BAAI/bge-base-en-v1.5"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 768
	}
	if c.Embedding.BatchSize <= 0 {
		c.Embedding.BatchSize = 64
	}
	if c.Embedding.Workers <= 0 {
		c.Embedding.Workers = 4
	}

	if c.Reranker.Model == "" {
		c.Reranker.Model = "BAAI/bge-reranker-base"
	}
	if c.Reranker.TimeoutSec <= 0 {
		c.Reranker.TimeoutSec = 30
	}

	if c.Search.VectorTopK <= 0 {
		c.Search.VectorTopK = 30
	}
	if c.Search.KeywordTopK <= 0 {
		c.Search.KeywordTopK = 30
	}
	if c.Search.RerankTopK <= 0 {
		c.Search.RerankTopK = 20
	}
	if c.Search.FinalTopK <= 0 {
		c.Search.FinalTopK = 10
	}
	if c.Search.RRFK <= 0 {
		c.Search.RRFK = 60
	}

	if c.Cache.MaxSize <= 0 {
		c.Cache.MaxSize = 10000
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 86400
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Index.Driver {
	case DriverLocal:
		if c.Index.CorpusPath == "" {
			return fmt.Errorf("index.corpus_path is required for the %s driver", DriverLocal)
		}
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for the %s driver", DriverRedis)
		}
	default:
		return fmt.Errorf("index.driver must be %q or %q, got %q", DriverLocal, DriverRedis, c.Index.Driver)
	}

	if c.Embedding.BaseURL == "" {
		return fmt.Errorf("embedding.base_url is required")
	}
	if c.Reranker.BaseURL == "" {
		return fmt.Errorf("reranker.base_url is required")
	}
	if c.Search.FinalTopK > c.Search.RerankTopK {
		return fmt.Errorf("search.final_top_k (%d) must not exceed search.rerank_top_k (%d)",
			c.Search.FinalTopK, c.Search.RerankTopK)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
