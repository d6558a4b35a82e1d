// Package query turns candidate term sets and a search mode into SQL match predicates.
package query

import (
	"fmt"
	"strings"
)

// Mode selects both the target column and the wildcard pattern of a search.
type Mode int

const (
	Forward Mode = iota + 1
	Backward
	Exact
	Anywhere
	Definition
	Example
	Pronunciation
)

var modeNames = map[Mode]string{
	Forward:       "Forward",
	Backward:      "Backward",
	Exact:         "Exact",
	Anywhere:      "Anywhere",
	Definition:    "Definition",
	Example:       "Example",
	Pronunciation: "Pronunciation",
}

// Modes lists every search mode in menu order.
func Modes() []Mode {
	return []Mode{Forward, Backward, Exact, Anywhere, Definition, Example, Pronunciation}
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode resolves a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	for m, name := range modeNames {
		if strings.EqualFold(name, s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown search mode %q", s)
}

// Entry table columns.
const (
	ColTerm          = "term"
	ColAltTerm       = "altterm"
	ColPronunciation = "pronunciation"
	ColPOS           = "pos"
	ColDefinition    = "definition"
	ColExamples      = "examples"
	ColAudio         = "audio"
	ColFrequency     = "frequency"
	ColStarCount     = "starCount"
)

// SearchesDefinitions reports whether the mode targets the definition text.
func (m Mode) SearchesDefinitions() bool {
	return m == Definition || m == Example
}

// Column is the primary column a mode searches.
func (m Mode) Column() string {
	switch {
	case m.SearchesDefinitions():
		return ColDefinition
	case m == Pronunciation:
		return ColPronunciation
	default:
		return ColTerm
	}
}

// Fallback returns the secondary columns tried, in order, when the primary
// column yields nothing. Definition, Example and Pronunciation searches have none.
func (m Mode) Fallback() []string {
	if m.SearchesDefinitions() || m == Pronunciation {
		return nil
	}
	return []string{ColAltTerm, ColPronunciation}
}
