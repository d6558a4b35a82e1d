package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/dictlookup/internal/logger"
	"github.com/japaniel/dictlookup/pkg/conjugation"
	"github.com/japaniel/dictlookup/pkg/db"
	"github.com/japaniel/dictlookup/pkg/query"
)

func setupStore(t *testing.T, langs ...string) *db.Store {
	t.Helper()
	conn, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	s := db.NewStore(conn, logger.Discard())
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.RegisterLanguages(context.Background(), langs))
	return s
}

func addDictionary(t *testing.T, s *db.Store, name, lang string, rows []db.Entry) db.AddResult {
	t.Helper()
	ctx := context.Background()
	res := s.AddDictionary(ctx, name, lang, nil)
	require.True(t, res.Success, res.Message)
	require.NoError(t, db.InsertEntries(ctx, s.Conn(), res.Table, rows))
	return res
}

type staticRules map[string]*conjugation.RuleSet

func (r staticRules) Load(lang string) (*conjugation.RuleSet, error) {
	if rs, ok := r[lang]; ok {
		return rs, nil
	}
	return conjugation.NewRuleSet(nil), nil
}

func TestSearchRankingOrder(t *testing.T) {
	s := setupStore(t, "en")
	addDictionary(t, s, "Webster", "en", []db.Entry{
		{Term: "abcd", Frequency: 1},
		{Term: "ab", Frequency: 9},
		{Term: "abc", Frequency: 3},
		{Term: "ab", Frequency: 2},
		{Term: "abc", Frequency: 1},
		{Term: "a", Frequency: 50},
	})
	g, err := AllGroup(context.Background(), s)
	require.NoError(t, err)

	res, err := New(s, nil, WithLogger(logger.Discard())).Search(context.Background(), Request{
		Term:  "a",
		Group: g,
		Mode:  query.Forward,
	})
	require.NoError(t, err)
	got, ok := res.Get("Webster")
	require.True(t, ok)
	require.Len(t, got, 6)
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		require.LessOrEqual(t, len(prev.Term), len(cur.Term))
		if len(prev.Term) == len(cur.Term) {
			assert.LessOrEqual(t, prev.Frequency, cur.Frequency)
		}
	}
	assert.Equal(t, "a", got[0].Term)
}

func TestSearchFallsBackToPronunciation(t *testing.T) {
	s := setupStore(t, "ja")
	addDictionary(t, s, "JMdict", "ja", []db.Entry{
		{Term: "走る", Pronunciation: "はしる", Definition: "to run"},
		{Term: "駆ける", AltTerm: "かける", Definition: "to dash"},
	})
	g, err := AllGroup(context.Background(), s)
	require.NoError(t, err)
	e := New(s, nil, WithLogger(logger.Discard()))

	found := func(term string, mode query.Mode) bool {
		res, err := e.Search(context.Background(), Request{Term: term, Group: g, Mode: mode})
		require.NoError(t, err)
		_, ok := res.Get("JMdict")
		return ok
	}
	for _, mode := range []query.Mode{query.Forward, query.Backward, query.Exact, query.Anywhere} {
		assert.True(t, found("はしる", mode), mode.String())
		assert.True(t, found("かける", mode), mode.String())
	}
	for _, mode := range []query.Mode{query.Definition, query.Example} {
		assert.False(t, found("はしる", mode), mode.String())
	}
	// pronunciation is the primary column there; nothing falls back to altterm
	assert.False(t, found("かける", query.Pronunciation))
}

func TestSearchDeinflectsEndToEnd(t *testing.T) {
	rules := conjugation.NewRuleSet([]conjugation.Rule{
		{Inflected: "ing", Dict: []string{"", "e"}},
		{Inflected: "nning", Dict: []string{"n"}},
	})

	candidates := conjugation.Expand(Seeds("running"), rules)
	for _, want := range []string{"running", "Running", "runn", "runne", "run"} {
		assert.Contains(t, candidates, want)
	}

	s := setupStore(t, "en")
	addDictionary(t, s, "English", "en", []db.Entry{
		{Term: "running", Definition: "moving fast"},
		{Term: "run", Definition: "to move swiftly", Frequency: 10},
	})
	g, err := ResolveGroup(context.Background(), s, "mine", []string{"English"})
	require.NoError(t, err)
	e := New(s, staticRules{"en": rules}, WithLogger(logger.Discard()))

	res, err := e.Search(context.Background(), Request{
		Term: "running", Group: g, Mode: query.Forward, Deinflect: true, PerDictionaryLimit: 50, GlobalLimit: 1000,
	})
	require.NoError(t, err)
	got, ok := res.Get("English")
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "run", got[0].Term)
	assert.Equal(t, "running", got[1].Term)
	assert.Equal(t, "moving fast", got[1].Definition)

	res, err = e.Search(context.Background(), Request{Term: "running", Group: g, Mode: query.Exact})
	require.NoError(t, err)
	got, _ = res.Get("English")
	require.Len(t, got, 1, "without deinflection only the literal term matches")
}

func TestSearchDefinitionAndExampleModes(t *testing.T) {
	s := setupStore(t, "ja")
	addDictionary(t, s, "JMdict", "ja", []db.Entry{
		{Term: "猫", Definition: "cat 「猫が好き」"},
		{Term: "犬", Definition: "dog"},
	})
	g, err := AllGroup(context.Background(), s)
	require.NoError(t, err)
	e := New(s, nil, WithLogger(logger.Discard()))

	res, err := e.Search(context.Background(), Request{Term: "cat", Group: g, Mode: query.Definition})
	require.NoError(t, err)
	got, _ := res.Get("JMdict")
	require.Len(t, got, 1)
	assert.Equal(t, "猫", got[0].Term)

	res, err = e.Search(context.Background(), Request{Term: "好き", Group: g, Mode: query.Example})
	require.NoError(t, err)
	got, _ = res.Get("JMdict")
	require.Len(t, got, 1)
}

func TestSearchMissingTableYieldsNothing(t *testing.T) {
	s := setupStore(t, "en")
	addDictionary(t, s, "A", "en", []db.Entry{{Term: "x"}})
	addDictionary(t, s, "B", "en", []db.Entry{{Term: "xy"}})
	g, err := AllGroup(context.Background(), s)
	require.NoError(t, err)
	require.NoError(t, s.DeleteDictionary(context.Background(), "A"))

	res, err := New(s, nil, WithLogger(logger.Discard())).Search(context.Background(), Request{Term: "x", Group: g})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, res.Names())
}

func TestGroups(t *testing.T) {
	s := setupStore(t, "ja", "en", "ko")
	addDictionary(t, s, "JMdict", "ja", nil)
	addDictionary(t, s, "Webster", "en", nil)
	addDictionary(t, s, "Kanjidic", "ja", nil)
	ctx := context.Background()

	all, err := AllGroup(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, AllGroupName, all.Name)
	require.Len(t, all.Members, 3)
	assert.Equal(t, Member{Dictionary: "JMdict", Table: "l1nameJMdict", Language: "ja"}, all.Members[0])

	defaults, err := DefaultGroups(ctx, s)
	require.NoError(t, err)
	require.Len(t, defaults, 2, "languages without dictionaries get no group")
	assert.Equal(t, "ja", defaults[0].Name)
	assert.Len(t, defaults[0].Members, 2)
	assert.Equal(t, "en", defaults[1].Name)

	g, err := ResolveGroup(ctx, s, "mine", []string{"Forvo", "Webster", "Gone", "JMdict", "Google Images"})
	require.NoError(t, err)
	var names []string
	for _, m := range g.Members {
		names = append(names, m.Dictionary)
	}
	assert.Equal(t, []string{"Forvo", "Webster", "JMdict", "Google Images"}, names)
	assert.True(t, g.Members[0].Provider)
	assert.False(t, g.Members[1].Provider)
}

func TestLookupExact(t *testing.T) {
	s := setupStore(t, "ja")
	addDictionary(t, s, "JMdict", "ja", []db.Entry{
		{Term: "走る", Pronunciation: "はしる"},
		{Term: "走り", Pronunciation: "はしり"},
		{Term: "駆ける", AltTerm: "かける"},
	})
	ctx := context.Background()
	require.NoError(t, s.SetDuplicateHeader(ctx, "JMdict", true))
	require.NoError(t, s.SetTermHeader(ctx, "JMdict", []string{"term", "pronunciation"}))

	m, err := LookupExact(ctx, s, s, "JMdict", "はしる", 10)
	require.NoError(t, err)
	require.Len(t, m.Entries, 1)
	assert.Equal(t, "走る", m.Entries[0].Term)
	assert.True(t, m.DuplicateHeader)
	assert.Equal(t, []string{"term", "pronunciation"}, m.TermHeader)

	m, err = LookupExact(ctx, s, s, "JMdict", "かける", 10)
	require.NoError(t, err)
	require.Len(t, m.Entries, 1)

	m, err = LookupExact(ctx, s, s, "JMdict", "走", 10)
	require.NoError(t, err)
	assert.Empty(t, m.Entries)

	_, err = LookupExact(ctx, s, s, "Missing", "走る", 10)
	require.ErrorIs(t, err, db.ErrNotFound)
}
