// Package dictname turns user-supplied dictionary names into stable SQL table identifiers.
//
// Normalize is the only path by which a name may reach table creation or query code.
// It works on a whitelist: letters, digits, combining marks and "_", ".", "-" survive,
// separators become "_", everything else is dropped.
package dictname

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

const (
	// MaxLength is the maximum number of runes in a normalized name.
	MaxLength = 100
	// Placeholder replaces names that normalize to nothing.
	Placeholder = "unnamed_dictionary"
)

// Normalize returns the table-safe form of raw. It is pure and idempotent:
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(raw string) string {
	folded := width.Fold.String(raw)

	var b strings.Builder
	b.Grow(len(folded))
	n := 0
	for _, r := range folded {
		if n >= MaxLength {
			break
		}
		out, ok := rewrite(r)
		if !ok {
			continue
		}
		b.WriteRune(out)
		n++
	}
	if b.Len() == 0 {
		return Placeholder
	}
	return b.String()
}

func rewrite(r rune) (rune, bool) {
	switch {
	case r == '_' || r == '.' || r == '-':
		return r, true
	case r == '。' || r == '｡':
		return '.', true
	case r == '/' || r == '\\' || r == '|' || r == ':':
		return '_', true
	case unicode.IsSpace(r):
		return '_', true
	case unicode.IsControl(r):
		return 0, false
	case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r):
		return r, true
	}
	return 0, false
}

// FormatTableName builds the physical table name for a dictionary.
// safeName must already be normalized.
func FormatTableName(languageID int64, safeName string) string {
	return "l" + strconv.FormatInt(languageID, 10) + "name" + safeName
}

// TablePrefix is the table-name prefix shared by every dictionary of a language.
func TablePrefix(languageID int64) string {
	return FormatTableName(languageID, "")
}

var tablePrefixRe = regexp.MustCompile(`^l\d+name`)

// DisplayName strips the language prefix added by FormatTableName.
func DisplayName(table string) string {
	return tablePrefixRe.ReplaceAllString(table, "")
}

// Quote wraps an identifier in double quotes for use in DDL and queries.
func Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
