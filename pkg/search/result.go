package search

import "github.com/japaniel/dictlookup/pkg/db"

// DictionaryResult holds the matches of one dictionary.
type DictionaryResult struct {
	Name    string
	Entries []db.Entry
}

// Result is an ordered mapping of dictionary display name to matches, in the
// order the dictionaries were visited. Dictionaries without matches are absent.
type Result struct {
	Dictionaries []DictionaryResult
	// Providers lists the provider pseudo-members present in the group.
	Providers []string
	Total     int
	// Truncated is set when the global limit was reached; later members were not queried.
	Truncated bool
}

// Get returns the matches of one dictionary.
func (r *Result) Get(name string) ([]db.Entry, bool) {
	for _, d := range r.Dictionaries {
		if d.Name == name {
			return d.Entries, true
		}
	}
	return nil, false
}

// Names returns the dictionary names in visit order.
func (r *Result) Names() []string {
	out := make([]string, len(r.Dictionaries))
	for i, d := range r.Dictionaries {
		out[i] = d.Name
	}
	return out
}

// HasProvider reports whether the group requested the named provider.
func (r *Result) HasProvider(name string) bool {
	for _, p := range r.Providers {
		if p == name {
			return true
		}
	}
	return false
}

// Empty reports whether nothing matched and no provider was requested.
func (r *Result) Empty() bool {
	return len(r.Dictionaries) == 0 && len(r.Providers) == 0
}

func (r *Result) add(name string, entries []db.Entry) {
	r.Dictionaries = append(r.Dictionaries, DictionaryResult{Name: name, Entries: entries})
	r.Total += len(entries)
}

func (r *Result) addProvider(name string) {
	if !r.HasProvider(name) {
		r.Providers = append(r.Providers, name)
	}
}
