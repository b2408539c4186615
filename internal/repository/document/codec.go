package document

import (
	"fmt"
	"strconv"
	"strings"

	domdoc "github.com/kailas-cloud/hadithsearch/internal/domain/document"
)

// Hash field names of an indexed hadith. The vector lives in FieldVector
// and is never returned to callers.
const (
	FieldID           = "id"
	FieldBook         = "book"
	FieldVolume       = "volume"
	FieldChapter      = "chapter"
	FieldHadithNumber = "hadith_number"
	FieldNarrator     = "narrator"
	FieldText         = "text"
	FieldFullText     = "full_text"
	FieldVector       = "vector"
)

// ReturnFields are the hash fields needed to rebuild a document from a search hit.
var ReturnFields = []string{
	FieldBook, FieldVolume, FieldChapter, FieldHadithNumber, FieldNarrator, FieldText,
}

// Keyspace maps document ids to Redis keys and back.
type Keyspace struct {
	Prefix string
	Index  string
}

// Key returns the hash key of a document.
func (k Keyspace) Key(id string) string { return k.Prefix + id }

// ID strips the key prefix from a search hit key.
func (k Keyspace) ID(key string) string { return strings.TrimPrefix(key, k.Prefix) }

// Decode builds a document from hash fields. Numeric fields that are
// missing decode as zero; malformed ones are rejected.
func Decode(id string, fields map[string]string) (domdoc.Document, error) {
	collection, err := domdoc.ParseCollection(fields[FieldBook])
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("decode %s: %w", id, err)
	}
	volume, err := atoi(fields[FieldVolume])
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("decode %s: volume: %w", id, err)
	}
	number, err := atoi(fields[FieldHadithNumber])
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("decode %s: hadith_number: %w", id, err)
	}
	return domdoc.New(id, collection, volume,
		fields[FieldChapter], number,
		fields[FieldNarrator], fields[FieldText])
}

func atoi(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
