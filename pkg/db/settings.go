package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/japaniel/dictlookup/pkg/dictname"
)

// LanguageFont returns the display font of a language, empty when unset.
func (s *Store) LanguageFont(ctx context.Context, name string) (string, error) {
	row, err := queryRowBuilder(ctx, s.conn, sq.Select("font").From("languages").Where(sq.Eq{"name": name}))
	if err != nil {
		return "", err
	}
	var font sql.NullString
	if err := row.Scan(&font); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("language %q: %w", name, ErrNotFound)
		}
		return "", err
	}
	return font.String, nil
}

// AddType returns the dictionary's add-type policy.
func (s *Store) AddType(ctx context.Context, dictionary string) (AddType, error) {
	d, err := s.Dictionary(ctx, dictionary)
	if err != nil {
		return "", err
	}
	return d.AddType, nil
}

// SetAddType stores the dictionary's add-type policy.
func (s *Store) SetAddType(ctx context.Context, dictionary string, t AddType) error {
	if _, err := ParseAddType(string(t)); err != nil {
		return err
	}
	return s.setColumn(ctx, dictionary, "add_type", string(t))
}

// FieldMapping returns the dictionary's ordered export field names.
func (s *Store) FieldMapping(ctx context.Context, dictionary string) ([]string, error) {
	d, err := s.Dictionary(ctx, dictionary)
	if err != nil {
		return nil, err
	}
	return d.Fields, nil
}

// SetFieldMapping replaces the dictionary's export field names.
func (s *Store) SetFieldMapping(ctx context.Context, dictionary string, fields []string) error {
	return s.setJSON(ctx, dictionary, "fields", fields)
}

// DuplicateHeader reports whether the exporter repeats the term header per entry.
func (s *Store) DuplicateHeader(ctx context.Context, dictionary string) (bool, error) {
	d, err := s.Dictionary(ctx, dictionary)
	if err != nil {
		return false, err
	}
	return d.DuplicateHeader, nil
}

// SetDuplicateHeader stores the duplicate-header flag.
func (s *Store) SetDuplicateHeader(ctx context.Context, dictionary string, on bool) error {
	v := 0
	if on {
		v = 1
	}
	return s.setColumn(ctx, dictionary, "duplicate_header", v)
}

// TermHeader returns the dictionary's term header layout.
func (s *Store) TermHeader(ctx context.Context, dictionary string) ([]string, error) {
	d, err := s.Dictionary(ctx, dictionary)
	if err != nil {
		return nil, err
	}
	return d.TermHeader, nil
}

// SetTermHeader replaces the dictionary's term header layout.
func (s *Store) SetTermHeader(ctx context.Context, dictionary string, header []string) error {
	return s.setJSON(ctx, dictionary, "term_header", header)
}

// DuplicateHeaders maps every dictionary name to its duplicate-header flag.
func (s *Store) DuplicateHeaders(ctx context.Context) (map[string]bool, error) {
	all, err := s.AllDictionaries(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(all))
	for _, d := range all {
		out[d.Name] = d.DuplicateHeader
	}
	return out, nil
}

// TermHeaders maps every dictionary name to its term header layout.
func (s *Store) TermHeaders(ctx context.Context) (map[string][]string, error) {
	all, err := s.AllDictionaries(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(all))
	for _, d := range all {
		out[d.Name] = d.TermHeader
	}
	return out, nil
}

func (s *Store) setJSON(ctx context.Context, dictionary, column string, v []string) error {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", column, err)
	}
	return s.setColumn(ctx, dictionary, column, string(b))
}

func (s *Store) setColumn(ctx context.Context, dictionary, column string, v interface{}) error {
	res, err := execBuilder(ctx, s.conn, sq.Update("dictionaries").Set(column, v).Where(sq.Eq{"name": dictname.Normalize(dictionary)}))
	if err != nil {
		return fmt.Errorf("set %s for %q: %w", column, dictionary, err)
	}
	return requireAffected(res, "dictionary", dictionary)
}
