package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/japaniel/dictlookup/pkg/db"
)

// LoadDictionaryFile reads dictionary entries from a JSON file. Accepted shapes:
//
//	[ {"term": ..., "definition": ...}, ... ]
//	{"entries": [ ... ]}
//	{"words": [ ... ]}   (jmdict-simplified)
func LoadDictionaryFile(path string) ([]db.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	entries, err := ParseDictionary(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return entries, nil
}

// ParseDictionary decodes any of the shapes LoadDictionaryFile accepts.
func ParseDictionary(data []byte) ([]db.Entry, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty dictionary file")
	}

	if data[0] == '[' {
		var entries []db.Entry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse dictionary array: %w", err)
		}
		return entries, nil
	}

	var wrapper struct {
		Entries []db.Entry    `json:"entries"`
		Words   []JMdictEntry `json:"words"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary as object or array: %w", err)
	}
	if len(wrapper.Words) > 0 {
		out := make([]db.Entry, 0, len(wrapper.Words))
		for _, w := range wrapper.Words {
			out = append(out, w.Entry())
		}
		return out, nil
	}
	return wrapper.Entries, nil
}
