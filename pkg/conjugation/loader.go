package conjugation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Loader reads per-language rule files and caches them for its lifetime.
//
// For a language L each directory is probed for "L.json" and then
// "L/conjugations.json". A language without a file gets an empty rule set.
type Loader struct {
	dirs   []string
	logger *log.Logger

	mu    sync.Mutex
	cache map[string]*RuleSet
}

// NewLoader creates a loader searching dirs in order.
func NewLoader(logger *log.Logger, dirs ...string) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		dirs:   dirs,
		logger: logger,
		cache:  make(map[string]*RuleSet),
	}
}

// Load returns the cached rule set for language, reading it on first use.
func (l *Loader) Load(language string) (*RuleSet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rs, ok := l.cache[language]; ok {
		return rs, nil
	}
	rs, err := l.read(language)
	if err != nil {
		return nil, err
	}
	l.cache[language] = rs
	return rs, nil
}

// Preload loads the rule sets of several languages, stopping at the first malformed file.
func (l *Loader) Preload(languages []string) error {
	for _, lang := range languages {
		if _, err := l.Load(lang); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) read(language string) (*RuleSet, error) {
	if !safeFileStem(language) {
		l.logger.Warn("conjugation: refusing unsafe language name", "language", language)
		return NewRuleSet(nil), nil
	}
	for _, dir := range l.dirs {
		for _, p := range []string{
			filepath.Join(dir, language+".json"),
			filepath.Join(dir, language, "conjugations.json"),
		} {
			rules, err := ReadRuleFile(p)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, err
			}
			l.logger.Debug("conjugation: loaded rules", "language", language, "path", p, "rules", len(rules))
			return NewRuleSet(rules), nil
		}
	}
	l.logger.Debug("conjugation: no rule file", "language", language)
	return NewRuleSet(nil), nil
}

// ReadRuleFile parses a JSON array of rules.
func ReadRuleFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rules []Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse conjugation file %s: %w", path, err)
	}
	return rules, nil
}

func safeFileStem(name string) bool {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}
