// Package conjugation expands inflected search terms into dictionary-form candidates
// using per-language suffix rewrite rules.
package conjugation

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Rule rewrites a trailing inflected suffix into one or more dictionary forms.
type Rule struct {
	Inflected string   `json:"inflected"`
	Dict      []string `json:"dict"`
	Prefix    string   `json:"prefix,omitempty"`
}

// RuleSet is an immutable, indexed list of rules for one language.
// A nil *RuleSet behaves as an empty set.
type RuleSet struct {
	rules []Rule
	// suffixes maps reversed inflected suffixes to rule indices.
	suffixes *patricia.Trie
	// always holds rules with an empty suffix, which match every term.
	always []int
}

// NewRuleSet indexes rules by their inflected suffix.
func NewRuleSet(rules []Rule) *RuleSet {
	rs := &RuleSet{
		rules:    rules,
		suffixes: patricia.NewTrie(),
	}
	for i, r := range rules {
		if r.Inflected == "" {
			rs.always = append(rs.always, i)
			continue
		}
		key := patricia.Prefix(reverse(r.Inflected))
		if existing := rs.suffixes.Get(key); existing != nil {
			rs.suffixes.Set(key, append(existing.([]int), i))
			continue
		}
		rs.suffixes.Insert(key, []int{i})
	}
	return rs
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}

// Rules returns a copy of the rules in file order.
func (rs *RuleSet) Rules() []Rule {
	if rs == nil {
		return nil
	}
	return append([]Rule(nil), rs.rules...)
}

// Matching returns the rules whose inflected suffix ends term, in file order.
func (rs *RuleSet) Matching(term string) []Rule {
	if rs.Len() == 0 {
		return nil
	}
	idx := append([]int(nil), rs.always...)
	_ = rs.suffixes.VisitPrefixes(patricia.Prefix(reverse(term)), func(_ patricia.Prefix, item patricia.Item) error {
		idx = append(idx, item.([]int)...)
		return nil
	})
	sort.Ints(idx)
	out := make([]Rule, len(idx))
	for i, n := range idx {
		out[i] = rs.rules[n]
	}
	return out
}

// Expand returns terms followed by every candidate produced by a single pass of
// the matching rules. Candidates replace only the rightmost occurrence of the
// inflected suffix, optionally also appear with the rule's prefix stripped, and
// are dropped when one rune or shorter. Candidates are never re-expanded.
func Expand(terms []string, rules *RuleSet) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if rules.Len() == 0 {
		return out
	}

	add := func(c string) {
		if utf8.RuneCountInString(c) <= 1 {
			return
		}
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	inputs := out[:len(out):len(out)]
	for _, term := range inputs {
		for _, r := range rules.Matching(term) {
			for _, form := range r.Dict {
				cand := replaceLast(term, r.Inflected, form)
				if r.Prefix != "" && strings.HasPrefix(cand, r.Prefix) {
					add(cand[len(r.Prefix):])
				}
				add(cand)
			}
		}
	}
	return out
}

func replaceLast(s, old, repl string) string {
	i := strings.LastIndex(s, old)
	if i < 0 {
		return s
	}
	return s[:i] + repl + s[i+len(old):]
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
