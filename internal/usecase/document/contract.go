package document

import (
	"context"

	domdoc "github.com/kailas-cloud/hadithsearch/internal/domain/document"
)

// Repository is the read-only document store of the active driver.
type Repository interface {
	Get(ctx context.Context, id string) (domdoc.Document, error)
	Count(ctx context.Context) (int, error)
}
