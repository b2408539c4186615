package hit

import (
	"testing"

	"github.com/kailas-cloud/hadithsearch/internal/domain/document"
)

func TestFromRanked_AssignsRanks(t *testing.T) {
	a, _ := document.New("a", document.Bukhari, 1, "", 1, "", "a")
	b, _ := document.New("b", document.Muslim, 0, "", 2, "", "b")

	got := FromRanked([]document.Document{a, b}, []float64{0.9, 0.4})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Rank != 1 || got[1].Rank != 2 {
		t.Errorf("ranks = %d,%d", got[0].Rank, got[1].Rank)
	}
	if got[1].DocumentID != "b" || got[1].RawScore != 0.4 {
		t.Errorf("second hit = %+v", got[1])
	}
}

func TestCloneReranked_Independent(t *testing.T) {
	orig := []Reranked{{DocumentID: "a", Score: 1}}
	cp := CloneReranked(orig)
	cp[0].Score = 42
	if orig[0].Score != 1 {
		t.Error("clone shares backing array with original")
	}
	if CloneReranked(nil) != nil {
		t.Error("clone of nil should be nil")
	}
}
