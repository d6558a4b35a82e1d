package search

import (
	"context"
	"fmt"

	"github.com/japaniel/dictlookup/pkg/db"
	"github.com/japaniel/dictlookup/pkg/dictname"
)

// Pseudo-members that a group may list alongside dictionaries. They are
// never queried; the result only records that they were requested.
const (
	ProviderImages = "Google Images"
	ProviderAudio  = "Forvo"
)

// AllGroupName names the group holding every installed dictionary.
const AllGroupName = "All"

// Member is one entry of a group: a dictionary table or a provider.
type Member struct {
	Dictionary string
	Table      string
	Language   string
	Provider   bool
}

// Group is an ordered list of members searched together.
type Group struct {
	Name       string
	Font       string
	CustomFont bool
	Members    []Member
}

// Catalog is the part of the dictionary store that groups are resolved against.
type Catalog interface {
	AllDictionaries(ctx context.Context) ([]db.Dictionary, error)
	ListLanguages(ctx context.Context) ([]string, error)
}

// IsProvider reports whether name is one of the known provider pseudo-members.
func IsProvider(name string) bool {
	return name == ProviderImages || name == ProviderAudio
}

func dictionaryMember(d db.Dictionary) Member {
	return Member{Dictionary: d.Name, Table: d.Table, Language: d.Language}
}

// AllGroup returns every installed dictionary in catalog order.
func AllGroup(ctx context.Context, catalog Catalog) (Group, error) {
	dicts, err := catalog.AllDictionaries(ctx)
	if err != nil {
		return Group{}, fmt.Errorf("all group: %w", err)
	}
	g := Group{Name: AllGroupName}
	for _, d := range dicts {
		g.Members = append(g.Members, dictionaryMember(d))
	}
	return g, nil
}

// DefaultGroups returns one group per language that has dictionaries, in
// language registration order.
func DefaultGroups(ctx context.Context, catalog Catalog) ([]Group, error) {
	langs, err := catalog.ListLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("default groups: %w", err)
	}
	dicts, err := catalog.AllDictionaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("default groups: %w", err)
	}
	byLang := make(map[string][]Member, len(langs))
	for _, d := range dicts {
		byLang[d.Language] = append(byLang[d.Language], dictionaryMember(d))
	}
	var out []Group
	for _, lang := range langs {
		if members := byLang[lang]; len(members) > 0 {
			out = append(out, Group{Name: lang, Members: members})
		}
	}
	return out, nil
}

// ResolveGroup builds a group from configured member names, matched in their
// normalized form. Names that are neither installed dictionaries nor providers
// are dropped, so a stale configuration degrades to a smaller group.
func ResolveGroup(ctx context.Context, catalog Catalog, name string, names []string) (Group, error) {
	dicts, err := catalog.AllDictionaries(ctx)
	if err != nil {
		return Group{}, fmt.Errorf("resolve group %q: %w", name, err)
	}
	installed := make(map[string]db.Dictionary, len(dicts))
	for _, d := range dicts {
		installed[d.Name] = d
	}
	g := Group{Name: name}
	for _, n := range names {
		if IsProvider(n) {
			g.Members = append(g.Members, Member{Dictionary: n, Provider: true})
			continue
		}
		if d, ok := installed[dictname.Normalize(n)]; ok {
			g.Members = append(g.Members, dictionaryMember(d))
		}
	}
	return g, nil
}
