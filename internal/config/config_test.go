package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Config{
		Index:     IndexConfig{CorpusPath: "data/processed/hadiths.json"},
		Embedding: EmbeddingConfig{BaseURL: "http://localhost:8080/v1"},
		Reranker:  RerankerConfig{BaseURL: "http://localhost:8081"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.HTTP.Port)
	}
	if cfg.Index.Driver != DriverLocal || cfg.Index.Name != "hadiths:idx" || cfg.Index.KeyPrefix != "hadith:" {
		t.Errorf("unexpected index defaults: %+v", cfg.Index)
	}
	if cfg.Embedding.Model != "BAAI/bge-base-en-v1.5" || cfg.Embedding.Dimensions != 768 {
		t.Errorf("unexpected embedding defaults: %+v", cfg.Embedding)
	}
	if cfg.Reranker.Model != "BAAI/bge-reranker-base" {
		t.Errorf("reranker model = %q", cfg.Reranker.Model)
	}
	want := SearchConfig{VectorTopK: 30, KeywordTopK: 30, RerankTopK: 20, FinalTopK: 10, RRFK: 60}
	if cfg.Search != want {
		t.Errorf("search = %+v, want %+v", cfg.Search, want)
	}
	if cfg.Cache.MaxSize != 10000 || cfg.Cache.TTL() != 24*time.Hour {
		t.Errorf("unexpected cache defaults: %+v", cfg.Cache)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Index:  IndexConfig{Driver: DriverRedis, Name: "custom:idx"},
		Search: SearchConfig{RRFK: 10},
		Cache:  CacheConfig{TTLSec: 5},
	}
	cfg.ApplyDefaults()

	if cfg.Index.Driver != DriverRedis || cfg.Index.Name != "custom:idx" {
		t.Errorf("explicit index values overwritten: %+v", cfg.Index)
	}
	if cfg.Search.RRFK != 10 || cfg.Cache.TTL() != 5*time.Second {
		t.Errorf("explicit values overwritten: rrf_k=%d ttl=%s", cfg.Search.RRFK, cfg.Cache.TTL())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid local", func(*Config) {}, ""},
		{"valid redis", func(c *Config) {
			c.Index.Driver = DriverRedis
			c.Index.CorpusPath = ""
			c.Database.Addrs = []string{"localhost:6379"}
		}, ""},
		{"invalid port", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"unknown driver", func(c *Config) { c.Index.Driver = "valkey" }, "index.driver"},
		{"local without corpus", func(c *Config) { c.Index.CorpusPath = "" }, "index.corpus_path"},
		{"redis without addrs", func(c *Config) { c.Index.Driver = DriverRedis }, "database.addrs"},
		{"missing embedding url", func(c *Config) { c.Embedding.BaseURL = "" }, "embedding.base_url"},
		{"missing reranker url", func(c *Config) { c.Reranker.BaseURL = "" }, "reranker.base_url"},
		{"final exceeds rerank", func(c *Config) { c.Search.FinalTopK = 25 }, "final_top_k"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("HS_TEST_SET", "value")

	got := string(expandEnvVars([]byte("a: ${HS_TEST_SET}\nb: ${HS_TEST_UNSET:-fallback}\nc: ${HS_TEST_UNSET}")))
	want := "a: value\nb: fallback\nc: "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParse(t *testing.T) {
	t.Setenv("HS_TEST_RERANKER", "http://reranker:80")

	cfg, err := Parse([]byte(`
http:
  port: 9000
index:
  driver: local
  corpus_path: data/hadiths.json
embedding:
  base_url: http://tei:80/v1
  query_instruction: "Represent this sentence for searching relevant passages: "
reranker:
  base_url: ${HS_TEST_RERANKER}
cache:
  max_size: 50
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTP.Port != 9000 || cfg.Cache.MaxSize != 50 {
		t.Errorf("unexpected values: port=%d max_size=%d", cfg.HTTP.Port, cfg.Cache.MaxSize)
	}
	if cfg.Reranker.BaseURL != "http://reranker:80" {
		t.Errorf("reranker url = %q", cfg.Reranker.BaseURL)
	}
	if !strings.HasPrefix(cfg.Embedding.QueryInstruction, "Represent") {
		t.Errorf("query instruction = %q", cfg.Embedding.QueryInstruction)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := Parse([]byte("index:\n  driver: local\n")); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	body := "index:\n  corpus_path: c.json\nembedding:\n  base_url: http://e\nreranker:\n  base_url: http://r\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Index.CorpusPath != "c.json" {
		t.Errorf("corpus_path = %q", cfg.Index.CorpusPath)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_ShippedConfigs(t *testing.T) {
	t.Setenv("REDIS_ADDR", "localhost:6379")
	for _, env := range []string{"local", "prod"} {
		if _, err := Load(env); err != nil {
			t.Errorf("Load(%q): %v", env, err)
		}
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
