package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/japaniel/dictlookup/pkg/config"
	"github.com/japaniel/dictlookup/pkg/conjugation"
	"github.com/japaniel/dictlookup/pkg/db"
	"github.com/japaniel/dictlookup/pkg/dictname"
	"github.com/japaniel/dictlookup/pkg/ingest"
	"github.com/japaniel/dictlookup/pkg/query"
	"github.com/japaniel/dictlookup/pkg/search"
	"github.com/japaniel/dictlookup/pkg/task"
)

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (a *app) addLanguages(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("add-lang: at least one language name required")
	}
	if err := a.store.RegisterLanguages(ctx, args); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered %d language(s).\n", len(args))
	return nil
}

func (a *app) languageFont(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("lang-font: expected NAME FONT")
	}
	return a.store.SetLanguageFont(ctx, args[0], args[1])
}

func (a *app) deleteLanguage(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("del-lang: expected NAME")
	}
	if err := a.store.DeleteLanguage(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted language %s.\n", args[0])
	return nil
}

func (a *app) addDictionary(ctx context.Context, args []string) error {
	fs := newFlagSet("add-dict")
	lang := fs.String("lang", "", "Language the dictionary belongs to")
	header := fs.String("header", "", "Comma-separated term header fields")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || *lang == "" {
		return fmt.Errorf("add-dict: expected -lang L NAME")
	}
	res := a.store.AddDictionary(ctx, fs.Arg(0), *lang, splitList(*header))
	if !res.Success {
		return fmt.Errorf("add-dict: %s", res.Message)
	}
	fmt.Fprintf(a.out, "%s: %s\n", res.Message, res.Name)
	return nil
}

func (a *app) deleteDictionary(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("del-dict: expected NAME")
	}
	if err := a.store.DeleteDictionary(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted dictionary %s.\n", args[0])
	return nil
}

func (a *app) importFile(ctx context.Context, args []string) error {
	fs := newFlagSet("import")
	name := fs.String("dict", "", "Target dictionary")
	lang := fs.String("lang", "", "Create the dictionary under this language if it does not exist")
	jmdict := fs.Bool("jmdict", false, "Download jmdict-simplified to FILE if it is missing")
	batch := fs.Int("batch", ingest.DefaultBatchSize, "Entries per transaction")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || *name == "" {
		return fmt.Errorf("import: expected -dict NAME FILE")
	}
	path := fs.Arg(0)

	if *jmdict {
		if err := ingest.NewFetcher(a.logger).EnsureJMdict(ctx, path); err != nil {
			return err
		}
	}

	dictName := dictname.Normalize(*name)
	if *lang != "" {
		_, err := a.store.Dictionary(ctx, dictName)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return err
		}
		if err != nil {
			res := a.store.AddDictionary(ctx, dictName, *lang, nil)
			if !res.Success {
				return fmt.Errorf("import: %s", res.Message)
			}
			dictName = res.Name
		}
	}

	n, err := ingest.NewImporter(a.store, a.logger, *batch).ImportFile(ctx, dictName, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Imported %d entries into %s.\n", n, dictName)
	return nil
}

func (a *app) list(ctx context.Context) error {
	langs, err := a.store.Languages(ctx)
	if err != nil {
		return err
	}
	for _, l := range langs {
		line := l.Name
		if l.Font != "" {
			line += " (font: " + l.Font + ")"
		}
		fmt.Fprintln(a.out, line)
		dicts, err := a.store.DictionariesForLanguage(ctx, l.Name)
		if err != nil {
			return err
		}
		for _, d := range dicts {
			fmt.Fprintf(a.out, "  %s\n", d)
		}
	}
	return nil
}

func (a *app) settings(ctx context.Context, args []string) error {
	fs := newFlagSet("settings")
	addType := fs.String("add-type", "", "add, overwrite or ifEmpty")
	fields := fs.String("fields", "", "Comma-separated export field mapping")
	dup := fs.String("dup-header", "", "Repeat the term header per entry (true/false)")
	header := fs.String("term-header", "", "Comma-separated term header fields")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("settings: expected NAME")
	}
	name := fs.Arg(0)

	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "add-type":
			var t db.AddType
			if t, err = db.ParseAddType(*addType); err == nil {
				err = a.store.SetAddType(ctx, name, t)
			}
		case "fields":
			err = a.store.SetFieldMapping(ctx, name, splitList(*fields))
		case "dup-header":
			var on bool
			if on, err = strconv.ParseBool(*dup); err == nil {
				err = a.store.SetDuplicateHeader(ctx, name, on)
			}
		case "term-header":
			err = a.store.SetTermHeader(ctx, name, splitList(*header))
		}
	})
	if err != nil {
		return err
	}

	d, err := a.store.Dictionary(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "dictionary:       %s (%s)\n", d.Name, d.Language)
	fmt.Fprintf(a.out, "add type:         %s\n", d.AddType)
	fmt.Fprintf(a.out, "fields:           %s\n", strings.Join(d.Fields, ","))
	fmt.Fprintf(a.out, "duplicate header: %t\n", d.DuplicateHeader)
	fmt.Fprintf(a.out, "term header:      %s\n", strings.Join(d.TermHeader, ","))
	return nil
}

func memberNames(g search.Group) string {
	names := make([]string, len(g.Members))
	for i, m := range g.Members {
		names[i] = m.Dictionary
	}
	return strings.Join(names, ", ")
}

func (a *app) groups(ctx context.Context) error {
	configured, err := config.LoadGroups(a.cfg.GroupsFile)
	if err != nil {
		return err
	}
	for _, gc := range configured {
		g, err := search.ResolveGroup(ctx, a.store, gc.Name, gc.Dictionaries)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s: %s\n", g.Name, memberNames(g))
	}
	defaults, err := search.DefaultGroups(ctx, a.store)
	if err != nil {
		return err
	}
	for _, g := range defaults {
		fmt.Fprintf(a.out, "%s (default): %s\n", g.Name, memberNames(g))
	}
	all, err := search.AllGroup(ctx, a.store)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %s\n", all.Name, memberNames(all))
	return nil
}

// resolveGroup finds a group by name: configured groups first, then the
// per-language defaults. An empty name or "All" selects every dictionary.
// An unknown name yields an empty group.
func (a *app) resolveGroup(ctx context.Context, name string) (search.Group, error) {
	if name == "" || name == search.AllGroupName {
		return search.AllGroup(ctx, a.store)
	}
	configured, err := config.LoadGroups(a.cfg.GroupsFile)
	if err != nil {
		return search.Group{}, err
	}
	if gc, ok := config.FindGroup(configured, name); ok {
		g, err := search.ResolveGroup(ctx, a.store, gc.Name, gc.Dictionaries)
		if err != nil {
			return search.Group{}, err
		}
		g.Font, g.CustomFont = gc.Font, gc.CustomFont
		return g, nil
	}
	defaults, err := search.DefaultGroups(ctx, a.store)
	if err != nil {
		return search.Group{}, err
	}
	for _, g := range defaults {
		if g.Name == name {
			return g, nil
		}
	}
	a.logger.Warn("unknown group, searching nothing", "group", name)
	return search.Group{Name: name}, nil
}

func (a *app) newEngine() (*search.Engine, error) {
	opts := []search.Option{
		search.WithLogger(a.logger),
		search.WithBrackets(a.cfg.Search.Brackets()),
	}
	if len(a.cfg.Conjugation.Morphological) > 0 {
		k, err := conjugation.NewKagomeLemmatizer()
		if err != nil {
			return nil, fmt.Errorf("load morphological analyzer: %w", err)
		}
		for _, lang := range a.cfg.Conjugation.Morphological {
			opts = append(opts, search.WithLemmatizer(lang, k))
		}
	}
	rules := conjugation.NewLoader(a.logger, a.cfg.Conjugation.Dirs...)
	return search.New(a.store, rules, opts...), nil
}

func (a *app) search(ctx context.Context, args []string) error {
	fs := newFlagSet("search")
	group := fs.String("group", "", "Group to search (configured, a language, or All)")
	mode := fs.String("mode", a.cfg.Search.Mode.String(), "Forward, Backward, Exact, Anywhere, Definition, Example or Pronunciation")
	deinflect := fs.Bool("deinflect", a.cfg.Search.Deinflect(), "Expand conjugated forms")
	limit := fs.Int("limit", a.cfg.Search.PerDictionaryLimit, "Maximum entries per dictionary (<= 0: no cap)")
	global := fs.Int("global", a.cfg.Search.GlobalLimit, "Maximum entries overall (<= 0: no cap)")
	asJSON := fs.Bool("json", false, "Print the result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("search: expected TERM")
	}
	m, err := query.ParseMode(*mode)
	if err != nil {
		return err
	}
	g, err := a.resolveGroup(ctx, *group)
	if err != nil {
		return err
	}
	engine, err := a.newEngine()
	if err != nil {
		return err
	}

	req := search.Request{
		Term:               strings.Join(fs.Args(), " "),
		Group:              g,
		Mode:               m,
		Deinflect:          *deinflect,
		PerDictionaryLimit: *limit,
		GlobalLimit:        *global,
	}

	// One worker: the store owns a single connection.
	pool := task.NewPool(1, 1)
	pool.Start(ctx)
	defer pool.Close()
	f, err := task.Go(ctx, pool, func(ctx context.Context) (*search.Result, error) {
		return engine.Search(ctx, req)
	})
	if err != nil {
		return err
	}
	res, err := f.Wait(ctx)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	a.printResult(res)
	return nil
}

func (a *app) printResult(res *search.Result) {
	if res.Empty() {
		fmt.Fprintln(a.out, "No results.")
		return
	}
	for _, d := range res.Dictionaries {
		fmt.Fprintf(a.out, "%s (%d)\n", d.Name, len(d.Entries))
		for _, e := range d.Entries {
			a.printEntry(e)
		}
	}
	if len(res.Providers) > 0 {
		fmt.Fprintf(a.out, "providers: %s\n", strings.Join(res.Providers, ", "))
	}
	if res.Truncated {
		fmt.Fprintf(a.out, "(stopped at %d entries)\n", res.Total)
	}
}

func (a *app) printEntry(e db.Entry) {
	head := e.Term
	if e.AltTerm != "" {
		head += " / " + e.AltTerm
	}
	if e.Pronunciation != "" && e.Pronunciation != e.Term {
		head += " 【" + e.Pronunciation + "】"
	}
	if e.PartOfSpeech != "" {
		head += " [" + e.PartOfSpeech + "]"
	}
	fmt.Fprintf(a.out, "  %s\n", head)
	for _, line := range strings.Split(e.Definition, "\n") {
		if line != "" {
			fmt.Fprintf(a.out, "    %s\n", line)
		}
	}
}

func (a *app) lookup(ctx context.Context, args []string) error {
	fs := newFlagSet("lookup")
	name := fs.String("dict", "", "Dictionary to look in")
	limit := fs.Int("limit", a.cfg.Search.PerDictionaryLimit, "Maximum entries")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || *name == "" {
		return fmt.Errorf("lookup: expected -dict NAME TERM")
	}
	m, err := search.LookupExact(ctx, a.store, a.store, *name, fs.Arg(0), *limit)
	if err != nil {
		return err
	}
	if len(m.Entries) == 0 {
		fmt.Fprintln(a.out, "No results.")
		return nil
	}
	for _, e := range m.Entries {
		a.printEntry(e)
	}
	return nil
}
