package conjugation

import (
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/dictlookup/internal/logger"
)

func TestExpandRunning(t *testing.T) {
	rules := NewRuleSet([]Rule{
		{Inflected: "ing", Dict: []string{"", "e"}},
		{Inflected: "nning", Dict: []string{"n"}},
	})

	got := Expand([]string{"running", "Running"}, rules)

	assert.Subset(t, got, []string{"running", "Running", "runn", "runne", "run", "Runn", "Runne", "Run"})
	assert.Equal(t, []string{"running", "Running"}, got[:2], "inputs come first in order")
	assert.Len(t, got, 8)
}

func TestExpandDedupesInputs(t *testing.T) {
	got := Expand([]string{"cat", "cat", "Cat"}, nil)
	assert.Equal(t, []string{"cat", "Cat"}, got)
}

func TestExpandReplacesOnlyLastOccurrence(t *testing.T) {
	rules := NewRuleSet([]Rule{{Inflected: "ta", Dict: []string{"ru"}}})
	got := Expand([]string{"tabeta"}, rules)
	assert.Equal(t, []string{"tabeta", "taberu"}, got)
}

func TestExpandPrefixStripping(t *testing.T) {
	rules := NewRuleSet([]Rule{{Inflected: "なかった", Dict: []string{"る"}, Prefix: "お"}})
	got := Expand([]string{"お食べなかった"}, rules)
	assert.Equal(t, []string{"お食べなかった", "食べる", "お食べる"}, got)
}

func TestExpandDropsShortCandidates(t *testing.T) {
	rules := NewRuleSet([]Rule{{Inflected: "た", Dict: []string{"", "る"}}})
	got := Expand([]string{"見た"}, rules)
	// "見" is one rune and discarded; "見る" survives.
	assert.Equal(t, []string{"見た", "見る"}, got)
}

func TestExpandEmptySuffixRuleAppends(t *testing.T) {
	rules := NewRuleSet([]Rule{{Inflected: "", Dict: []string{"s"}}})
	assert.Equal(t, []string{"cat", "cats"}, Expand([]string{"cat"}, rules))
}

func TestExpandIsSinglePass(t *testing.T) {
	// A rule whose output matches itself again must not recurse.
	rules := NewRuleSet([]Rule{{Inflected: "a", Dict: []string{"aa"}}})
	assert.Equal(t, []string{"ba", "baa"}, Expand([]string{"ba"}, rules))
}

func TestExpandBound(t *testing.T) {
	rules := NewRuleSet([]Rule{
		{Inflected: "ed", Dict: []string{"", "e", "ed"}, Prefix: "re"},
		{Inflected: "d", Dict: []string{"", "de"}, Prefix: "r"},
		{Inflected: "ied", Dict: []string{"y"}},
		{Inflected: "x", Dict: []string{"y"}},
	})
	terms := []string{"reapplied", "rested", "red", "d", "ed"}
	for _, term := range terms {
		matching := rules.Matching(term)
		bound := 0
		for _, r := range matching {
			bound += len(r.Dict) * 2
		}
		got := Expand([]string{term}, rules)
		assert.LessOrEqual(t, len(got)-1, bound, "term %q", term)
		for _, c := range got[1:] {
			assert.Greater(t, utf8.RuneCountInString(c), 1, "candidate %q from %q", c, term)
		}
	}
}

func TestMatchingKeepsFileOrder(t *testing.T) {
	rules := NewRuleSet([]Rule{
		{Inflected: "ing", Dict: []string{"1"}},
		{Inflected: "g", Dict: []string{"2"}},
		{Inflected: "ing", Dict: []string{"3"}},
		{Inflected: "ed", Dict: []string{"4"}},
	})
	got := rules.Matching("running")
	require.Len(t, got, 3)
	assert.Equal(t, "1", got[0].Dict[0])
	assert.Equal(t, "2", got[1].Dict[0])
	assert.Equal(t, "3", got[2].Dict[0])
	assert.Empty(t, rules.Matching("run"))
}

func TestLoaderReadsAndCaches(t *testing.T) {
	primary := t.TempDir()
	fallback := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(primary, "English.json"),
		[]byte(`[{"inflected":"ing","dict":["","e"]}]`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(fallback, "Japanese"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(fallback, "Japanese", "conjugations.json"),
		[]byte(`[{"inflected":"た","dict":["る"]},{"inflected":"った","dict":["う"],"prefix":"お"}]`), 0o644))

	l := NewLoader(logger.Discard(), primary, fallback)

	en, err := l.Load("English")
	require.NoError(t, err)
	assert.Equal(t, 1, en.Len())

	ja, err := l.Load("Japanese")
	require.NoError(t, err)
	assert.Equal(t, 2, ja.Len())
	assert.Equal(t, "お", ja.Rules()[1].Prefix)

	// Cached: removing the file does not change the result.
	require.NoError(t, os.Remove(filepath.Join(primary, "English.json")))
	again, err := l.Load("English")
	require.NoError(t, err)
	assert.Same(t, en, again)
}

func TestLoaderMissingFileIsEmpty(t *testing.T) {
	l := NewLoader(logger.Discard(), t.TempDir())
	rs, err := l.Load("Klingon")
	require.NoError(t, err)
	assert.Equal(t, 0, rs.Len())

	rs, err = l.Load("../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, 0, rs.Len())
}

func TestLoaderMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Broken.json"), []byte(`{"nope":`), 0o644))
	l := NewLoader(logger.Discard(), dir)
	_, err := l.Load("Broken")
	assert.Error(t, err)
	assert.Error(t, l.Preload([]string{"English", "Broken"}))
}

func TestToHiragana(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"ア", "あ"},
		{"ガ", "が"},
		{"パ", "ぱ"},
		{"ン", "ん"},
		{"ー", "ー"},
		{"abc", "abc"},
		{"あいう", "あいう"},
	}
	for _, tt := range tests {
		if got := ToHiragana(tt.in); got != tt.out {
			t.Errorf("ToHiragana(%q) = %q; want %q", tt.in, got, tt.out)
		}
	}
}

func TestKagomeLemmatizer(t *testing.T) {
	if testing.Short() {
		t.Skip("loads the IPA dictionary")
	}
	k, err := NewKagomeLemmatizer()
	require.NoError(t, err)

	assert.Contains(t, k.Lemmas("食べた"), "食べる")
	assert.Contains(t, k.Lemmas("タベル"), "たべる")
	assert.NotContains(t, k.Lemmas("猫"), "猫")
}
