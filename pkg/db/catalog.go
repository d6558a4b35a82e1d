package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/japaniel/dictlookup/pkg/dictname"
	"github.com/japaniel/dictlookup/pkg/query"
)

// AddResult is the structured outcome of AddDictionary.
type AddResult struct {
	Success bool
	Message string
	// Name is the normalized dictionary name; empty on failure.
	Name  string
	Table string
}

// AddDictionary normalizes name, creates its table and registers it under
// language. It never returns an error: failures are reported in the result
// and leave the catalog unchanged.
func (s *Store) AddDictionary(ctx context.Context, name, language string, termHeader []string) AddResult {
	clean := dictname.Normalize(name)
	if termHeader == nil {
		termHeader = []string{}
	}
	header, err := json.Marshal(termHeader)
	if err != nil {
		return AddResult{Message: err.Error()}
	}

	var table string
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		lid, ok, err := languageID(ctx, tx, language)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("language %q: %w", language, ErrNotFound)
		}
		table = dictname.FormatTableName(lid, clean)
		exists, err := TableExists(ctx, tx, table)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("dictionary %q: table %s: %w", clean, table, ErrAlreadyExists)
		}
		_, err = execBuilder(ctx, tx, sq.Insert("dictionaries").
			Columns("name", "language_id", "fields", "add_type", "term_header", "duplicate_header").
			Values(clean, lid, "[]", string(AddTypeAdd), string(header), 0))
		if isUniqueConstraintErr(err) {
			return fmt.Errorf("dictionary %q: %w", clean, ErrAlreadyExists)
		}
		if err != nil {
			return fmt.Errorf("insert dictionary %q: %w", clean, err)
		}
		return CreateDictionaryTable(ctx, tx, table)
	})
	if err != nil {
		s.logger.Warn("add dictionary failed", "name", name, "language", language, "err", err)
		return AddResult{Message: err.Error()}
	}
	s.logger.Info("added dictionary", "name", clean, "table", table)
	return AddResult{
		Success: true,
		Message: "Dictionary added successfully",
		Name:    clean,
		Table:   table,
	}
}

// DeleteDictionary drops a dictionary's table and catalog row.
func (s *Store) DeleteDictionary(ctx context.Context, name string) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		d, err := dictionaryByName(ctx, tx, name)
		if err != nil {
			return err
		}
		if err := DropTable(ctx, tx, d.Table); err != nil {
			return err
		}
		if _, err := execBuilder(ctx, tx, sq.Delete("dictionaries").Where(sq.Eq{"id": d.ID})); err != nil {
			return fmt.Errorf("delete dictionary %q: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("deleted dictionary", "name", name)
	s.vacuum(ctx)
	return nil
}

// ListDictionaries returns every dictionary name in creation order.
func (s *Store) ListDictionaries(ctx context.Context) ([]string, error) {
	names, err := queryStrings(ctx, s.conn, sq.Select("name").From("dictionaries").OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("list dictionaries: %w", err)
	}
	return names, nil
}

// DictionariesForLanguage returns the names of a language's dictionaries.
// An unknown language has none.
func (s *Store) DictionariesForLanguage(ctx context.Context, language string) ([]string, error) {
	names, err := queryStrings(ctx, s.conn, sq.Select("d.name").From("dictionaries d").
		Join("languages l ON l.id = d.language_id").
		Where(sq.Eq{"l.name": language}).
		OrderBy("d.id"))
	if err != nil {
		return nil, fmt.Errorf("list dictionaries of %q: %w", language, err)
	}
	return names, nil
}

// Dictionary returns the full catalog row of one dictionary.
func (s *Store) Dictionary(ctx context.Context, name string) (*Dictionary, error) {
	return dictionaryByName(ctx, s.conn, name)
}

// AllDictionaries returns every catalog row with its language, in creation order.
func (s *Store) AllDictionaries(ctx context.Context) ([]Dictionary, error) {
	q, args, err := dictionarySelect().OrderBy("d.id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list dictionaries: %w", err)
	}
	defer rows.Close()
	var out []Dictionary
	for rows.Next() {
		d, err := scanDictionary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func dictionarySelect() sq.SelectBuilder {
	return sq.Select("d.id", "d.name", "d.language_id", "l.name", "d.fields", "d.add_type",
		"d.term_header", "d.duplicate_header").
		From("dictionaries d").
		Join("languages l ON l.id = d.language_id")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDictionary(r rowScanner) (*Dictionary, error) {
	var d Dictionary
	var fields, addType, header string
	var dup int
	if err := r.Scan(&d.ID, &d.Name, &d.LanguageID, &d.Language, &fields, &addType, &header, &dup); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(fields), &d.Fields); err != nil {
		return nil, fmt.Errorf("dictionary %q fields: %w", d.Name, err)
	}
	if err := json.Unmarshal([]byte(header), &d.TermHeader); err != nil {
		return nil, fmt.Errorf("dictionary %q term header: %w", d.Name, err)
	}
	d.AddType = AddType(addType)
	d.DuplicateHeader = dup != 0
	d.Table = dictname.FormatTableName(d.LanguageID, d.Name)
	return &d, nil
}

// dictionaryByName accepts the name as the user typed it; the catalog only
// holds normalized names.
func dictionaryByName(ctx context.Context, exec DBExecutor, name string) (*Dictionary, error) {
	row, err := queryRowBuilder(ctx, exec, dictionarySelect().Where(sq.Eq{"d.name": dictname.Normalize(name)}))
	if err != nil {
		return nil, err
	}
	d, err := scanDictionary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dictionary %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup dictionary %q: %w", name, err)
	}
	return d, nil
}

// QueryEntries runs the ranked entry query for one dictionary table.
func (s *Store) QueryEntries(ctx context.Context, table string, pred sq.Sqlizer, limit int) ([]Entry, error) {
	return QueryEntries(ctx, s.conn, query.Select(table, pred, limit))
}
