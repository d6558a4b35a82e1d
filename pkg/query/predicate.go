package query

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/japaniel/dictlookup/pkg/dictname"
)

// Brackets are the markers a dictionary uses around example sentences.
type Brackets struct {
	Open  string
	Close string
}

// DefaultBrackets is the Japanese corner-bracket convention.
var DefaultBrackets = Brackets{Open: "「", Close: "」"}

// ApplyTerm rewrites one term into the LIKE pattern for mode.
func ApplyTerm(term string, mode Mode, b Brackets) string {
	switch mode {
	case Forward, Pronunciation:
		return term + "%"
	case Backward:
		return "%" + term
	case Anywhere, Definition, Example:
		return "%" + term + "%"
	case Exact:
		return term
	default:
		return "%" + b.Open + "%" + term + "%" + b.Close + "%"
	}
}

// Apply rewrites every term for mode and returns a new slice.
func Apply(terms []string, mode Mode, b Brackets) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = ApplyTerm(t, mode, b)
	}
	return out
}

// Predicate matches column against any of the (already rewritten) terms.
// Exact searches compare with equality; every other mode uses LIKE.
func Predicate(column string, terms []string, mode Mode) sq.Sqlizer {
	if mode == Exact {
		return sq.Eq{column: terms}
	}
	or := make(sq.Or, 0, len(terms))
	for _, t := range terms {
		or = append(or, sq.Like{column: t})
	}
	return or
}

// EntryColumns is the projection used for every entry query.
var EntryColumns = []string{
	ColTerm, ColAltTerm, ColPronunciation, ColPOS,
	ColDefinition, ColExamples, ColAudio, ColFrequency, ColStarCount,
}

// Select builds the ranked entry query for one dictionary table.
// Shorter terms come first, then lower (more common) frequencies.
func Select(table string, pred sq.Sqlizer, limit int) sq.SelectBuilder {
	b := sq.Select(EntryColumns...).
		From(dictname.Quote(table)).
		Where(pred).
		OrderBy("LENGTH("+ColTerm+") ASC", ColFrequency+" ASC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	return b
}
