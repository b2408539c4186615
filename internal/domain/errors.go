package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals a rejected request (empty query, topK out of range).
	ErrValidation = errors.New("validation failed")
	// ErrDocumentNotFound signals an unknown document id.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrProvider signals a keyword index, vector index, embedding or reranker failure.
	ErrProvider = errors.New("provider error")
	// ErrInvalidDocument signals a corpus record that fails boundary validation.
	ErrInvalidDocument = errors.New("invalid document")
)

// Provider names used in ProviderError and metrics labels.
const (
	ProviderKeyword   = "keyword"
	ProviderVector    = "vector"
	ProviderReranker  = "reranker"
	ProviderEmbedding = "embedding"
)

// ProviderError wraps a collaborator failure with the provider that produced it.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, ErrProvider.Error(), e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is / errors.As.
func (e *ProviderError) Unwrap() []error { return []error{ErrProvider, e.Err} }

// NewProviderError wraps err as a failure of provider.
func NewProviderError(provider string, err error) error {
	return &ProviderError{Provider: provider, Err: err}
}

// Validationf builds an ErrValidation with a client-safe message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
