package hadithsearch

import (
	"github.com/kailas-cloud/hadithsearch/internal/domain"
	documentuc "github.com/kailas-cloud/hadithsearch/internal/usecase/document"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation       = domain.ErrValidation
	ErrDocumentNotFound = domain.ErrDocumentNotFound
	ErrProvider         = domain.ErrProvider
	ErrEmptyCorpus      = documentuc.ErrEmptyCorpus
)
