package db

import "fmt"

// Language groups dictionaries and selects their conjugation rules.
type Language struct {
	ID   int64
	Name string
	Font string
}

// AddType is the exporter's policy when a card field already has content.
type AddType string

const (
	AddTypeAdd       AddType = "add"
	AddTypeOverwrite AddType = "overwrite"
	AddTypeIfEmpty   AddType = "ifEmpty"
)

// ParseAddType validates an add type string.
func ParseAddType(s string) (AddType, error) {
	switch t := AddType(s); t {
	case AddTypeAdd, AddTypeOverwrite, AddTypeIfEmpty:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown add type %q", ErrValidation, s)
}

// Dictionary is one catalog row plus the physical table backing it.
type Dictionary struct {
	ID              int64
	Name            string
	LanguageID      int64
	Language        string
	Fields          []string
	AddType         AddType
	DuplicateHeader bool
	TermHeader      []string
	Table           string
}

// Entry is one row of a dictionary table.
type Entry struct {
	Term          string `json:"term"`
	AltTerm       string `json:"altterm,omitempty"`
	Pronunciation string `json:"pronunciation,omitempty"`
	PartOfSpeech  string `json:"pos,omitempty"`
	Definition    string `json:"definition"`
	Examples      string `json:"examples,omitempty"`
	Audio         string `json:"audio,omitempty"`
	Frequency     int64  `json:"frequency,omitempty"`
	StarCount     string `json:"starCount,omitempty"`
}
