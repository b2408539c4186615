package document

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hadithsearch/internal/domain"
	domdoc "github.com/kailas-cloud/hadithsearch/internal/domain/document"
	"github.com/kailas-cloud/hadithsearch/internal/logger"
)

// MaxIDLength bounds document ids accepted from clients.
const MaxIDLength = 256

// ErrEmptyCorpus is returned by Verify when the store holds no documents.
var ErrEmptyCorpus = errors.New("corpus is empty")

// Service serves single-document lookups.
type Service struct {
	repo Repository
}

// New creates a document service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the document with the given id.
func (s *Service) Get(ctx context.Context, id string) (domdoc.Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domdoc.Document{}, domain.Validationf("id is required")
	}
	if len(id) > MaxIDLength {
		return domdoc.Document{}, domain.Validationf("id too long (max %d chars)", MaxIDLength)
	}

	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document %s: %w", id, err)
	}
	return doc, nil
}

// Verify checks that the corpus is loaded and not empty. The server refuses
// to start when it fails.
func (s *Service) Verify(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	if n == 0 {
		return 0, ErrEmptyCorpus
	}
	logger.FromContext(ctx).Info("corpus verified", zap.Int("documents", n))
	return n, nil
}
