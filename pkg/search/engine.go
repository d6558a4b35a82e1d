// Package search runs one term across an ordered group of dictionaries,
// expanding it with conjugation rules and stopping at a global entry budget.
package search

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/charmbracelet/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/japaniel/dictlookup/pkg/conjugation"
	"github.com/japaniel/dictlookup/pkg/db"
	"github.com/japaniel/dictlookup/pkg/dictname"
	"github.com/japaniel/dictlookup/pkg/query"
)

// Store runs a ranked, limited entry query against one dictionary table.
type Store interface {
	QueryEntries(ctx context.Context, table string, pred sq.Sqlizer, limit int) ([]db.Entry, error)
}

// RuleSource supplies the conjugation rules of a language.
type RuleSource interface {
	Load(language string) (*conjugation.RuleSet, error)
}

// Engine searches dictionary groups. It keeps no per-request state, but its
// store is assumed to own a single connection: do not call Search concurrently.
type Engine struct {
	store       Store
	rules       RuleSource
	logger      *log.Logger
	brackets    query.Brackets
	lemmatizers map[string]conjugation.Lemmatizer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-dictionary failures.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithBrackets sets the example-sentence markers used by bracketed searches.
func WithBrackets(b query.Brackets) Option {
	return func(e *Engine) { e.brackets = b }
}

// WithLemmatizer adds morphological candidates for one language when
// deinflecting, ahead of suffix-rule expansion.
func WithLemmatizer(language string, l conjugation.Lemmatizer) Option {
	return func(e *Engine) { e.lemmatizers[language] = l }
}

// New creates an engine. rules may be nil, which disables rule expansion.
func New(store Store, rules RuleSource, opts ...Option) *Engine {
	e := &Engine{
		store:       store,
		rules:       rules,
		logger:      log.Default(),
		brackets:    query.DefaultBrackets,
		lemmatizers: make(map[string]conjugation.Lemmatizer),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Request fully describes one search.
type Request struct {
	Term  string
	Group Group
	// Mode defaults to Forward when zero.
	Mode      query.Mode
	Deinflect bool
	// PerDictionaryLimit and GlobalLimit are disabled when <= 0.
	PerDictionaryLimit int
	GlobalLimit        int
}

// Search visits the group's members in order and collects their matches.
// Storage errors on one dictionary are logged and treated as no matches.
// An empty term returns an empty result without querying anything.
func (e *Engine) Search(ctx context.Context, req Request) (*Result, error) {
	res := &Result{}
	if strings.TrimSpace(req.Term) == "" {
		return res, nil
	}
	mode := req.Mode
	if mode == 0 {
		mode = query.Forward
	}
	seeds := Seeds(req.Term)
	candidates := make(map[string][]string)

	for _, m := range req.Group.Members {
		if m.Provider {
			res.addProvider(m.Dictionary)
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		terms, ok := candidates[m.Language]
		if !ok {
			terms = query.Apply(e.expand(seeds, m.Language, req.Deinflect), mode, e.brackets)
			candidates[m.Language] = terms
		}

		limit := req.PerDictionaryLimit
		entries := e.queryMember(ctx, m, terms, mode, limit)
		if len(entries) == 0 {
			continue
		}
		if req.GlobalLimit > 0 && res.Total+len(entries) >= req.GlobalLimit {
			entries = entries[:req.GlobalLimit-res.Total]
			res.add(displayName(m), entries)
			res.Truncated = true
			return res, nil
		}
		res.add(displayName(m), entries)
	}
	return res, nil
}

// queryMember searches the mode's column, then each fallback column, and
// returns the rows of the first column that matched anything.
func (e *Engine) queryMember(ctx context.Context, m Member, terms []string, mode query.Mode, limit int) []db.Entry {
	if m.Table == "" {
		e.logger.Warn("group member has no table", "dictionary", m.Dictionary)
		return nil
	}
	columns := append([]string{mode.Column()}, mode.Fallback()...)
	for _, col := range columns {
		entries, err := e.store.QueryEntries(ctx, m.Table, query.Predicate(col, terms, mode), limit)
		if err != nil {
			e.logger.Warn("dictionary query failed", "dictionary", m.Dictionary, "column", col, "err", err)
			return nil
		}
		if len(entries) > 0 {
			return entries
		}
	}
	return nil
}

// expand returns the unrewritten candidate terms for one language.
func (e *Engine) expand(seeds []string, lang string, deinflect bool) []string {
	if !deinflect {
		return seeds
	}
	terms := seeds
	if l, ok := e.lemmatizers[lang]; ok {
		terms = append([]string(nil), seeds...)
		for _, s := range seeds {
			terms = append(terms, l.Lemmas(s)...)
		}
	}
	if e.rules == nil {
		return dedupe(terms)
	}
	rs, err := e.rules.Load(lang)
	if err != nil {
		e.logger.Warn("conjugation rules unavailable", "language", lang, "err", err)
		return dedupe(terms)
	}
	return conjugation.Expand(terms, rs)
}

// Seeds returns the term, its lowercase form and its title-case form, deduplicated.
func Seeds(term string) []string {
	lower := cases.Lower(language.Und).String(term)
	title := cases.Title(language.Und).String(term)
	return dedupe([]string{term, lower, title})
}

func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func displayName(m Member) string {
	if m.Table != "" {
		return dictname.DisplayName(m.Table)
	}
	return m.Dictionary
}
