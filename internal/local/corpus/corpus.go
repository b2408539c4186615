// Package corpus loads the processed hadith corpus (a JSON array of
// records) and serves it as an in-memory document store.
package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kailas-cloud/hadithsearch/internal/domain"
	domdoc "github.com/kailas-cloud/hadithsearch/internal/domain/document"
)

// Record is one entry of the processed corpus file.
type Record struct {
	ID           string `json:"id"`
	Book         string `json:"book"`
	Volume       int    `json:"volume"`
	Chapter      string `json:"chapter"`
	HadithNumber *int   `json:"hadith_number"`
	Narrator     string `json:"narrator"`
	Text         string `json:"text"`
	FullText     string `json:"full_text"`
}

// Document validates the record and converts it to a domain document.
func (r *Record) Document() (domdoc.Document, error) {
	collection, err := domdoc.ParseCollection(r.Book)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("record %s: %w", r.ID, err)
	}
	var number int
	if r.HadithNumber != nil {
		number = *r.HadithNumber
	}
	return domdoc.New(r.ID, collection, r.Volume, r.Chapter, number,
		strings.TrimSpace(r.Narrator), strings.TrimSpace(r.Text))
}

// Store is an immutable, in-memory document store in corpus order.
type Store struct {
	docs []domdoc.Document
	byID map[string]int
}

// LoadFile reads a corpus file from disk.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer func() { _ = f.Close() }()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

// Load decodes a JSON array of records. Duplicate ids and invalid records
// fail the whole load.
func Load(r io.Reader) (*Store, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}

	docs := make([]domdoc.Document, 0, len(records))
	for i := range records {
		doc, err := records[i].Document()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return New(docs)
}

// New builds a store from already validated documents.
func New(docs []domdoc.Document) (*Store, error) {
	s := &Store{
		docs: make([]domdoc.Document, len(docs)),
		byID: make(map[string]int, len(docs)),
	}
	copy(s.docs, docs)
	for i := range s.docs {
		id := s.docs[i].ID()
		if _, dup := s.byID[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidDocument, id)
		}
		s.byID[id] = i
	}
	return s, nil
}

// Documents returns the corpus in file order. Callers must not modify it.
func (s *Store) Documents() []domdoc.Document { return s.docs }

// Lookup returns the document with id.
func (s *Store) Lookup(id string) (domdoc.Document, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domdoc.Document{}, false
	}
	return s.docs[i], true
}

// Get implements usecase/document.Repository.
func (s *Store) Get(_ context.Context, id string) (domdoc.Document, error) {
	doc, ok := s.Lookup(id)
	if !ok {
		return domdoc.Document{}, domain.ErrDocumentNotFound
	}
	return doc, nil
}

// Count implements usecase/document.Repository.
func (s *Store) Count(_ context.Context) (int, error) { return len(s.docs), nil }

// HealthCheck fails for an empty corpus.
func (s *Store) HealthCheck(_ context.Context) error {
	if len(s.docs) == 0 {
		return errors.New("corpus is empty")
	}
	return nil
}
