package document

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/hadithsearch/internal/domain"
)

// Collection identifies one of the two source corpora.
type Collection string

const (
	// Bukhari is Sahih al-Bukhari.
	Bukhari Collection = "bukhari"
	// Muslim is Sahih Muslim.
	Muslim Collection = "muslim"
)

// IsValid reports whether c is a known collection.
func (c Collection) IsValid() bool {
	return c == Bukhari || c == Muslim
}

// ParseCollection parses a collection name case-insensitively.
func ParseCollection(s string) (Collection, error) {
	c := Collection(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: unknown collection %q", domain.ErrInvalidDocument, s)
	}
	return c, nil
}

// Document is an immutable corpus record.
type Document struct {
	id             string
	collection     Collection
	volume         int
	section        string
	sequenceNumber int
	attribution    string
	body           string
}

// New validates and builds a document. Adapters call it at the boundary so the
// core never sees half-populated records.
func New(
	id string, collection Collection, volume int,
	section string, sequenceNumber int,
	attribution, body string,
) (Document, error) {
	if strings.TrimSpace(id) == "" {
		return Document{}, fmt.Errorf("%w: id is required", domain.ErrInvalidDocument)
	}
	if !collection.IsValid() {
		return Document{}, fmt.Errorf("%w: document %s: unknown collection %q",
			domain.ErrInvalidDocument, id, collection)
	}
	if volume < 0 || sequenceNumber < 0 {
		return Document{}, fmt.Errorf("%w: document %s: negative volume or sequence number",
			domain.ErrInvalidDocument, id)
	}
	return Document{
		id:             id,
		collection:     collection,
		volume:         volume,
		section:        section,
		sequenceNumber: sequenceNumber,
		attribution:    attribution,
		body:           body,
	}, nil
}

// ID returns the globally unique document id.
func (d *Document) ID() string { return d.id }

// Collection returns the source corpus.
func (d *Document) Collection() Collection { return d.collection }

// Volume returns the volume number.
func (d *Document) Volume() int { return d.volume }

// Section returns the chapter / book label.
func (d *Document) Section() string { return d.section }

// SequenceNumber returns the hadith number within its collection.
func (d *Document) SequenceNumber() int { return d.sequenceNumber }

// Attribution returns the narrator chain.
func (d *Document) Attribution() string { return d.attribution }

// Body returns the hadith text.
func (d *Document) Body() string { return d.body }

// SearchableText is the unit that gets embedded, tokenized and reranked.
func (d *Document) SearchableText() string {
	switch {
	case d.attribution == "":
		return d.body
	case d.body == "":
		return d.attribution
	}
	return d.attribution + " " + d.body
}
