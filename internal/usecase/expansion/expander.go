// Package expansion enriches search queries with Islamic terminology synonyms
// so lexical retrieval bridges transliterations ("salah", "namaz") and
// English terms ("prayer").
package expansion

import (
	"strings"
)

// Entry is one row of the synonym table.
type Entry struct {
	Term     string
	Synonyms []string
}

// Expander performs deterministic synonym expansion. It is immutable after
// construction and safe for concurrent use.
type Expander struct {
	synonyms map[string][]string
}

// New creates an expander over the built-in terminology table.
func New() *Expander {
	return NewWithTable(defaultTable)
}

// NewWithTable creates an expander over a custom table. Terms are lowercased;
// a repeated term keeps its first position and takes the later synonym list.
func NewWithTable(entries []Entry) *Expander {
	m := make(map[string][]string, len(entries))
	for _, e := range entries {
		syns := make([]string, len(e.Synonyms))
		copy(syns, e.Synonyms)
		m[strings.ToLower(e.Term)] = syns
	}
	return &Expander{synonyms: m}
}

// Expand lowercases the query, splits it on whitespace and appends synonyms
// of every token and of its form with trailing "s" characters stripped.
//
// Original tokens come first in query order, duplicates collapsed. Synonyms
// follow in table order, each added once. The result is a pure function of
// the query, so equal queries always produce byte-identical expansions.
func (e *Expander) Expand(query string) string {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return ""
	}

	seen := make(map[string]struct{}, len(tokens)*4)
	terms := make([]string, 0, len(tokens)*4)
	add := func(term string) {
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	for _, tok := range tokens {
		add(tok)
	}

	for _, tok := range tokens {
		for _, syn := range e.synonyms[tok] {
			add(syn)
		}
		if singular := strings.TrimRight(tok, "s"); singular != tok {
			for _, syn := range e.synonyms[singular] {
				add(syn)
			}
		}
	}

	return strings.Join(terms, " ")
}

// Size returns the number of distinct terms in the table.
func (e *Expander) Size() int { return len(e.synonyms) }
