package search

import (
	"sort"

	"github.com/kailas-cloud/hadithsearch/internal/domain/search/hit"
)

// DefaultRRFK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const DefaultRRFK = 60

// Fuse merges two ranked lists via Reciprocal Rank Fusion.
// score(d) = sum of 1/(k + rank_i(d)) over each list where d appears, rank being
// the 1-based position in that list. Documents present in one list still score.
// Ties keep first-seen order: all of a in order, then ids new in b.
// The document copy comes from the list that first produced it. k <= 0 means DefaultRRFK.
func Fuse(a, b []hit.Ranked, k int) []hit.Fused {
	if k <= 0 {
		k = DefaultRRFK
	}

	index := make(map[string]int, len(a)+len(b))
	fused := make([]hit.Fused, 0, len(a)+len(b))

	accumulate := func(list []hit.Ranked) {
		for pos, h := range list {
			s := 1.0 / float64(k+pos+1)
			if i, ok := index[h.DocumentID]; ok {
				fused[i].Score += s
				continue
			}
			index[h.DocumentID] = len(fused)
			fused = append(fused, hit.Fused{
				DocumentID: h.DocumentID,
				Score:      s,
				Document:   h.Document,
			})
		}
	}
	accumulate(a)
	accumulate(b)

	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Score > fused[j].Score
	})
	return fused
}
