// Package rerank is a client for the text-embeddings-inference /rerank API
// serving a cross-encoder such as BAAI/bge-reranker-base.
package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hadithsearch/internal/domain"
	domdoc "github.com/kailas-cloud/hadithsearch/internal/domain/document"
	"github.com/kailas-cloud/hadithsearch/internal/metrics"
)

// DefaultTimeout bounds a single rerank call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

const maxErrorBody = 4 << 10

// Config holds the reranker endpoint settings.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client scores query/document pairs with a remote cross-encoder.
type Client struct {
	http    *http.Client
	baseURL string
	model   string
	apiKey  string
	logger  *zap.Logger
}

// New creates a reranker client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("reranker base url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        16,
				MaxIdleConnsPerHost: 16,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		logger:  cfg.Logger,
	}, nil
}

type rerankRequest struct {
	Query     string   `json:"query"`
	Texts     []string `json:"texts"`
	RawScores bool     `json:"raw_scores"`
	Truncate  bool     `json:"truncate"`
}

type rerankItem struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

type errorResponse struct {
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
}

// Score returns one relevance score per document in input order. Scores
// are sigmoid-normalized by the server.
func (c *Client) Score(ctx context.Context, query string, docs []domdoc.Document) ([]float64, error) {
	if len(docs) == 0 {
		return []float64{}, nil
	}

	texts := make([]string, len(docs))
	for i := range docs {
		texts[i] = docs[i].SearchableText()
	}

	start := time.Now()
	items, err := c.call(ctx, rerankRequest{Query: query, Texts: texts, Truncate: true})
	duration := time.Since(start)
	if err != nil {
		metrics.RerankRequestDuration.WithLabelValues(c.model, "error").Observe(duration.Seconds())
		c.logger.Warn("Rerank request failed",
			zap.Int("documents", len(docs)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, domain.NewProviderError(domain.ProviderReranker, err)
	}
	metrics.RerankRequestDuration.WithLabelValues(c.model, "success").Observe(duration.Seconds())

	scores, err := reorder(items, len(docs))
	if err != nil {
		return nil, domain.NewProviderError(domain.ProviderReranker, err)
	}
	return scores, nil
}

// reorder maps the server's relevance-sorted items back to input positions.
func reorder(items []rerankItem, n int) ([]float64, error) {
	if len(items) != n {
		return nil, fmt.Errorf("got %d scores for %d documents", len(items), n)
	}
	scores := make([]float64, n)
	seen := make([]bool, n)
	for _, it := range items {
		if it.Index < 0 || it.Index >= n {
			return nil, fmt.Errorf("score index %d out of range [0,%d)", it.Index, n)
		}
		if seen[it.Index] {
			return nil, fmt.Errorf("duplicate score index %d", it.Index)
		}
		seen[it.Index] = true
		scores[it.Index] = it.Score
	}
	return scores, nil
}

func (c *Client) call(ctx context.Context, body rerankRequest) ([]rerankItem, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal rerank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rerank", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rerank request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil && er.Error != "" {
			return nil, fmt.Errorf("rerank API error %d: %s", resp.StatusCode, er.Error)
		}
		return nil, fmt.Errorf("rerank API error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var items []rerankItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode rerank response: %w", err)
	}
	return items, nil
}

// HealthCheck probes the server's /health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("reranker health: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reranker unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
