package search

import (
	"context"
	"fmt"

	"github.com/japaniel/dictlookup/pkg/db"
	"github.com/japaniel/dictlookup/pkg/query"
)

// DictionaryInfo resolves a dictionary's catalog row.
type DictionaryInfo interface {
	Dictionary(ctx context.Context, name string) (*db.Dictionary, error)
}

// ExactMatch is what the card exporter needs for one headword.
type ExactMatch struct {
	Entries         []db.Entry
	DuplicateHeader bool
	TermHeader      []string
}

// LookupExact finds entries equal to term in one dictionary, trying term,
// then altterm, then pronunciation, and stopping at the first column with matches.
func LookupExact(ctx context.Context, store Store, catalog DictionaryInfo, dictionary, term string, limit int) (*ExactMatch, error) {
	d, err := catalog.Dictionary(ctx, dictionary)
	if err != nil {
		return nil, err
	}
	out := &ExactMatch{DuplicateHeader: d.DuplicateHeader, TermHeader: d.TermHeader}
	for _, col := range []string{query.ColTerm, query.ColAltTerm, query.ColPronunciation} {
		entries, err := store.QueryEntries(ctx, d.Table, query.Predicate(col, []string{term}, query.Exact), limit)
		if err != nil {
			return nil, fmt.Errorf("exact lookup %q in %s: %w", term, dictionary, err)
		}
		if len(entries) > 0 {
			out.Entries = entries
			break
		}
	}
	return out, nil
}
