package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// GroupConfig is one user-defined search group as written in the groups file:
//
//	[groups.Japanese]
//	dictionaries = ["JMdict", "Kanjidic", "Forvo"]
//	font = "Noto Serif JP"
//	custom_font = true
type GroupConfig struct {
	Name         string   `toml:"-"`
	Dictionaries []string `toml:"dictionaries"`
	Font         string   `toml:"font"`
	CustomFont   bool     `toml:"custom_font"`
}

type groupsFile struct {
	Groups map[string]GroupConfig `toml:"groups"`
}

// LoadGroups reads the groups file and returns its groups in file order.
// A missing file yields no groups.
func LoadGroups(path string) ([]GroupConfig, error) {
	var f groupsFile
	md, err := toml.DecodeFile(path, &f)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("groups: read %s: %w", path, err)
	}

	var out []GroupConfig
	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != "groups" {
			continue
		}
		g := f.Groups[key[1]]
		g.Name = key[1]
		out = append(out, g)
	}
	return out, nil
}

// FindGroup returns the group with the given name.
func FindGroup(groups []GroupConfig, name string) (GroupConfig, bool) {
	for _, g := range groups {
		if g.Name == name {
			return g, true
		}
	}
	return GroupConfig{}, false
}

// SaveGroups writes groups back in the same format, one table per group in
// slice order so a later LoadGroups returns them unchanged.
func SaveGroups(path string, groups []GroupConfig) error {
	var buf bytes.Buffer
	for i, g := range groups {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString("[" + toml.Key{"groups", g.Name}.String() + "]\n")
		enc := toml.NewEncoder(&buf)
		enc.Indent = ""
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("groups: encode %q: %w", g.Name, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("groups: write %s: %w", path, err)
	}
	return nil
}
