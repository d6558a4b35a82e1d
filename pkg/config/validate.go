package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/japaniel/dictlookup/pkg/query"
)

// Validate checks the loaded configuration and fills derived fields.
// Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path must be set")
	}
	if err := c.Search.validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if _, err := log.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log.format must be text, json or logfmt (got %q)", c.Log.Format)
	}
	return nil
}

func (s *SearchConfig) validate() error {
	m, err := query.ParseMode(s.ModeRaw)
	if err != nil {
		return fmt.Errorf("mode: %w", err)
	}
	s.Mode = m
	if s.BracketOpen == "" || s.BracketClose == "" {
		return fmt.Errorf("bracket_open and bracket_close must be non-empty")
	}
	return nil
}

// IsMorphological reports whether a language gets morphological analysis.
func (c *ConjugationConfig) IsMorphological(language string) bool {
	for _, l := range c.Morphological {
		if strings.EqualFold(l, language) {
			return true
		}
	}
	return false
}
