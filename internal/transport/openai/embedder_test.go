package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hadithsearch/internal/domain"
	"github.com/kailas-cloud/hadithsearch/internal/metrics"
)

type embeddingData struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

// embeddingResponse mirrors the OpenAI-compatible embedding response.
type embeddingResponse struct {
	Object string          `json:"object"`
	Data   []embeddingData `json:"data"`
	Model  string          `json:"model"`
	Usage  struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

type embeddingRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions int      `json:"dimensions"`
}

// newServer answers with one vector per input: [len(input), index].
// reverse returns the data array in reverse order.
func newServer(t *testing.T, reverse bool) (*httptest.Server, *embeddingRequest) {
	t.Helper()
	var last embeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&last); err != nil {
			t.Errorf("decode request: %v", err)
		}
		resp := embeddingResponse{Object: "list", Model: last.Model}
		for i, in := range last.Input {
			resp.Data = append(resp.Data, embeddingData{
				Object:    "embedding",
				Embedding: []float32{float32(len(in)), float32(i)},
				Index:     i,
			})
		}
		if reverse {
			for i, j := 0, len(resp.Data)-1; i < j; i, j = i+1, j-1 {
				resp.Data[i], resp.Data[j] = resp.Data[j], resp.Data[i]
			}
		}
		resp.Usage.PromptTokens = 3 * len(last.Input)
		resp.Usage.TotalTokens = 3 * len(last.Input)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func newTestEmbedder(url string) *Embedder {
	return NewEmbedder(&Config{
		APIKey:  "test-key",
		BaseURL: url,
		Model:   "BAAI/bge-base-en-v1.5",
		Logger:  zap.NewNop(),
	})
}

func TestEmbedder_Embed(t *testing.T) {
	srv, last := newServer(t, false)
	emb := newTestEmbedder(srv.URL)

	before := testutil.ToFloat64(metrics.EmbeddingRequestsTotal.WithLabelValues("BAAI/bge-base-en-v1.5", "single", "success"))

	res, err := emb.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(res.Embedding) != 2 || res.Embedding[0] != 5 {
		t.Fatalf("unexpected embedding: %v", res.Embedding)
	}
	if res.TotalTokens != 3 {
		t.Errorf("expected 3 tokens, got %d", res.TotalTokens)
	}
	if last.Model != "BAAI/bge-base-en-v1.5" {
		t.Errorf("unexpected model: %s", last.Model)
	}
	if last.Dimensions != 0 {
		t.Errorf("dimensions must be omitted when unset, got %d", last.Dimensions)
	}

	after := testutil.ToFloat64(metrics.EmbeddingRequestsTotal.WithLabelValues("BAAI/bge-base-en-v1.5", "single", "success"))
	if after-before != 1 {
		t.Errorf("expected success counter +1, got %v", after-before)
	}
}

func TestEmbedder_BatchEmbedOrdersByIndex(t *testing.T) {
	srv, _ := newServer(t, true)
	emb := newTestEmbedder(srv.URL)

	res, err := emb.BatchEmbed(context.Background(), []string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("BatchEmbed failed: %v", err)
	}
	if len(res.Embeddings) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(res.Embeddings))
	}
	for i, want := range []float32{1, 2, 3} {
		if res.Embeddings[i][0] != want {
			t.Errorf("embeddings[%d] = %v, want first component %v", i, res.Embeddings[i], want)
		}
	}
	if res.TotalTokens != 9 {
		t.Errorf("expected 9 tokens, got %d", res.TotalTokens)
	}
}

func TestEmbedder_BatchEmbedEmpty(t *testing.T) {
	emb := newTestEmbedder("http://127.0.0.1:0")
	res, err := emb.BatchEmbed(context.Background(), nil)
	if err != nil || len(res.Embeddings) != 0 {
		t.Fatalf("expected empty result, got %v, %v", res, err)
	}
}

func TestEmbedder_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = w.Write([]byte(`{"error":"batch size 512 > maximum allowed batch size 32","error_type":"Validation"}`))
	}))
	defer srv.Close()

	_, err := newTestEmbedder(srv.URL).Embed(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error")
	}

	var pe *domain.ProviderError
	if !errors.As(err, &pe) || pe.Provider != domain.ProviderEmbedding {
		t.Fatalf("expected embedding ProviderError, got %v", err)
	}
	if !errors.Is(err, domain.ErrProvider) {
		t.Error("expected ErrProvider in chain")
	}
	if !strings.Contains(err.Error(), "413") {
		t.Errorf("status code missing from %q", err.Error())
	}
}

func TestEmbedder_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[],"model":"m","usage":{}}`))
	}))
	defer srv.Close()

	_, err := newTestEmbedder(srv.URL).Embed(context.Background(), "x")
	if !errors.Is(err, domain.ErrProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestEmbedder_HealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"BAAI/bge-base-en-v1.5","object":"model"}]}`))
	}))
	defer srv.Close()

	if err := newTestEmbedder(srv.URL).HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}
}

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"detail":"model not found"}`, "model not found"},
		{`{"error":"overloaded"}`, "overloaded"},
		{`not json`, ""},
	}
	for _, tt := range tests {
		if got := extractDetail([]byte(tt.body)); got != tt.want {
			t.Errorf("extractDetail(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}
