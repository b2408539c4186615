package hit

import "github.com/kailas-cloud/hadithsearch/internal/domain/document"

// Ranked is one entry of a provider result list.
type Ranked struct {
	DocumentID string
	// Rank is the 1-based position in the provider list.
	Rank     int
	RawScore float64
	Document document.Document
}

// Fused is one entry of the RRF-merged list.
type Fused struct {
	DocumentID string
	Score      float64
	Document   document.Document
}

// Reranked is one entry of the final, cross-encoder scored list.
type Reranked struct {
	DocumentID string
	Score      float64
	Document   document.Document
}

// FromRanked builds a provider list from documents and their scores,
// assigning 1-based ranks in slice order.
func FromRanked(docs []document.Document, scores []float64) []Ranked {
	out := make([]Ranked, len(docs))
	for i := range docs {
		var s float64
		if i < len(scores) {
			s = scores[i]
		}
		out[i] = Ranked{
			DocumentID: docs[i].ID(),
			Rank:       i + 1,
			RawScore:   s,
			Document:   docs[i],
		}
	}
	return out
}

// CloneReranked returns an independent copy of hits.
func CloneReranked(hits []Reranked) []Reranked {
	if hits == nil {
		return nil
	}
	out := make([]Reranked, len(hits))
	copy(out, hits)
	return out
}
