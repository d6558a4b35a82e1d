package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/japaniel/dictlookup/internal/logger"
	"github.com/japaniel/dictlookup/pkg/config"
	"github.com/japaniel/dictlookup/pkg/db"
)

const usage = `usage: dictlookup [-config file] [-db path] <command> [flags] [args]

commands:
  add-lang NAME...                  register languages
  lang-font NAME FONT               set a language's display font
  del-lang NAME                     delete a language and all its dictionaries
  add-dict -lang L [-header h,..] NAME
                                    create an empty dictionary
  del-dict NAME                     delete a dictionary
  import -dict NAME [-lang L] [-jmdict] FILE
                                    load entries from a JSON dictionary file
  list                              show languages and dictionaries
  settings [flags] NAME             show or change a dictionary's export settings
  groups                            show configured and default groups
  search [flags] TERM               search a group
  lookup -dict NAME TERM            exact headword lookup
`

func main() {
	// Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	store  *db.Store
	out    io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("dictlookup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configFlag := fs.String("config", "", "Path to YAML config (default $DICTLOOKUP_CONFIG or ./dictlookup.yaml)")
	dbFlag := fs.String("db", "", "Path to SQLite database (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *dbFlag != "" {
		cfg.Database.Path = *dbFlag
	}
	lg := logger.NewWithConfig(stderr, "dictlookup", cfg.Log.Level, cfg.Log.Format)

	conn, err := db.Open(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	a := &app{cfg: cfg, logger: lg, store: db.NewStore(conn, lg), out: stdout}
	defer a.store.Close()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "add-lang":
		return a.addLanguages(ctx, rest)
	case "lang-font":
		return a.languageFont(ctx, rest)
	case "del-lang":
		return a.deleteLanguage(ctx, rest)
	case "add-dict":
		return a.addDictionary(ctx, rest)
	case "del-dict":
		return a.deleteDictionary(ctx, rest)
	case "import":
		return a.importFile(ctx, rest)
	case "list":
		return a.list(ctx)
	case "settings":
		return a.settings(ctx, rest)
	case "groups":
		return a.groups(ctx)
	case "search":
		return a.search(ctx, rest)
	case "lookup":
		return a.lookup(ctx, rest)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}
