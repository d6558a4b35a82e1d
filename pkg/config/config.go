// Package config loads the dictlookup engine settings and search group definitions.
package config

import "github.com/japaniel/dictlookup/pkg/query"

// Config is the root application configuration.
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Search      SearchConfig      `yaml:"search"`
	Conjugation ConjugationConfig `yaml:"conjugation"`
	Log         LogConfig         `yaml:"log"`
	GroupsFile  string            `yaml:"groups_file" env:"DICTLOOKUP_GROUPS_FILE" env-default:"user_files/groups.toml"`
}

// DatabaseConfig holds SQLite storage settings.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"DICTLOOKUP_DB_PATH" env-default:"user_files/db/dictionaries.sqlite"`
}

// SearchConfig holds search defaults. A zero value is replaced by its
// default, so a limit is disabled with a negative number and deinflection
// with no_deinflect.
type SearchConfig struct {
	PerDictionaryLimit int    `yaml:"per_dictionary_limit" env:"DICTLOOKUP_PER_DICT_LIMIT" env-default:"50"`
	GlobalLimit        int    `yaml:"global_limit"         env:"DICTLOOKUP_GLOBAL_LIMIT"   env-default:"1000"`
	ModeRaw            string `yaml:"mode"                 env:"DICTLOOKUP_SEARCH_MODE"    env-default:"Forward"`
	NoDeinflect        bool   `yaml:"no_deinflect"         env:"DICTLOOKUP_NO_DEINFLECT"`
	BracketOpen        string `yaml:"bracket_open"         env:"DICTLOOKUP_BRACKET_OPEN"   env-default:"「"`
	BracketClose       string `yaml:"bracket_close"        env:"DICTLOOKUP_BRACKET_CLOSE"  env-default:"」"`

	// Mode is parsed from ModeRaw by Validate.
	Mode query.Mode `yaml:"-" env:"-"`
}

// Deinflect reports whether searches expand conjugated terms by default.
func (s SearchConfig) Deinflect() bool { return !s.NoDeinflect }

// Brackets returns the configured example markers.
func (s SearchConfig) Brackets() query.Brackets {
	return query.Brackets{Open: s.BracketOpen, Close: s.BracketClose}
}

// ConjugationConfig locates rule files and lists the languages that also get
// morphological analysis.
type ConjugationConfig struct {
	Dirs          []string `yaml:"dirs"          env:"DICTLOOKUP_CONJUGATION_DIRS" env-default:"user_files/db/conjugation,user_files/dictionaries"`
	Morphological []string `yaml:"morphological" env:"DICTLOOKUP_MORPHOLOGICAL"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
