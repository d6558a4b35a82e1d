package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/japaniel/dictlookup/pkg/dictname"
)

// RegisterLanguages inserts every name in one transaction. A name that is
// already registered fails the whole batch with ErrAlreadyExists.
func (s *Store) RegisterLanguages(ctx context.Context, names []string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, name := range names {
			trimmed := strings.TrimSpace(name)
			if trimmed == "" {
				return fmt.Errorf("%w: language name must be non-empty", ErrValidation)
			}
			_, err := execBuilder(ctx, tx, sq.Insert("languages").Columns("name").Values(trimmed))
			if isUniqueConstraintErr(err) {
				return fmt.Errorf("language %q: %w", trimmed, ErrAlreadyExists)
			}
			if err != nil {
				return fmt.Errorf("insert language %q: %w", trimmed, err)
			}
		}
		return nil
	})
}

// LanguageID looks up a language. ok is false when it is not registered.
func (s *Store) LanguageID(ctx context.Context, name string) (id int64, ok bool, err error) {
	return languageID(ctx, s.conn, name)
}

func languageID(ctx context.Context, exec DBExecutor, name string) (int64, bool, error) {
	row, err := queryRowBuilder(ctx, exec, sq.Select("id").From("languages").Where(sq.Eq{"name": name}))
	if err != nil {
		return 0, false, err
	}
	var id int64
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("lookup language %q: %w", name, err)
	}
	return id, true, nil
}

// ListLanguages returns language names in registration order.
func (s *Store) ListLanguages(ctx context.Context) ([]string, error) {
	names, err := queryStrings(ctx, s.conn, sq.Select("name").From("languages").OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	return names, nil
}

// Languages returns every registered language with its font.
func (s *Store) Languages(ctx context.Context) ([]Language, error) {
	query, args, err := sq.Select("id", "name", "font").From("languages").OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()
	var out []Language
	for rows.Next() {
		var l Language
		var font sql.NullString
		if err := rows.Scan(&l.ID, &l.Name, &font); err != nil {
			return nil, err
		}
		l.Font = font.String
		out = append(out, l)
	}
	return out, rows.Err()
}

// SetLanguageFont stores the display font of a language.
func (s *Store) SetLanguageFont(ctx context.Context, name, font string) error {
	res, err := execBuilder(ctx, s.conn, sq.Update("languages").Set("font", font).Where(sq.Eq{"name": name}))
	if err != nil {
		return fmt.Errorf("set font for %q: %w", name, err)
	}
	return requireAffected(res, "language", name)
}

// DeleteLanguage drops every dictionary table of the language and removes it
// from the registry. Deleting an unknown language is a no-op.
func (s *Store) DeleteLanguage(ctx context.Context, name string) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		id, ok, err := languageID(ctx, tx, name)
		if err != nil || !ok {
			return err
		}
		if err := DropTables(ctx, tx, dictname.TablePrefix(id)+"%"); err != nil {
			return err
		}
		if _, err := execBuilder(ctx, tx, sq.Delete("dictionaries").Where(sq.Eq{"language_id": id})); err != nil {
			return fmt.Errorf("delete dictionaries of %q: %w", name, err)
		}
		if _, err := execBuilder(ctx, tx, sq.Delete("languages").Where(sq.Eq{"id": id})); err != nil {
			return fmt.Errorf("delete language %q: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("deleted language", "language", name)
	s.vacuum(ctx)
	return nil
}

func requireAffected(res sql.Result, kind, name string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	}
	return nil
}
