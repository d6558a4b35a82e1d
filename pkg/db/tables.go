package db

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/japaniel/dictlookup/pkg/dictname"
	"github.com/japaniel/dictlookup/pkg/query"
)

// CreateDictionaryTable creates a dictionary's entry table and its lookup
// indexes. Every statement is IF NOT EXISTS, so repeating it is harmless.
// table must come from dictname.FormatTableName.
func CreateDictionaryTable(ctx context.Context, exec DBExecutor, table string) error {
	t := dictname.Quote(table)
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + t + ` (
			term CHAR(40) NOT NULL,
			altterm CHAR(40),
			pronunciation CHAR(100),
			pos CHAR(40),
			definition TEXT,
			examples TEXT,
			audio TEXT,
			frequency MEDIUMINT,
			starCount TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS ` + dictname.Quote("it"+table) + ` ON ` + t + ` (term)`,
		`CREATE INDEX IF NOT EXISTS ` + dictname.Quote("itp"+table) + ` ON ` + t + ` (term, pronunciation)`,
		`CREATE INDEX IF NOT EXISTS ` + dictname.Quote("ia"+table) + ` ON ` + t + ` (altterm)`,
		`CREATE INDEX IF NOT EXISTS ` + dictname.Quote("iap"+table) + ` ON ` + t + ` (altterm, pronunciation)`,
		`CREATE INDEX IF NOT EXISTS ` + dictname.Quote("ip"+table) + ` ON ` + t + ` (pronunciation)`,
	}
	for _, s := range stmts {
		if _, err := exec.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return nil
}

// DropTable drops one table by exact name.
func DropTable(ctx context.Context, exec DBExecutor, table string) error {
	if _, err := exec.ExecContext(ctx, `DROP TABLE IF EXISTS `+dictname.Quote(table)); err != nil {
		return fmt.Errorf("drop table %s: %w", table, err)
	}
	return nil
}

// DropTables drops every table whose name matches the LIKE pattern.
// Dictionary names may contain '_', so patterns must only be built from
// dictname.TablePrefix.
func DropTables(ctx context.Context, exec DBExecutor, pattern string) error {
	names, err := queryStrings(ctx, exec, sq.Select("name").From("sqlite_master").
		Where(sq.Eq{"type": "table"}).
		Where(sq.Like{"name": pattern}))
	if err != nil {
		return fmt.Errorf("find tables %q: %w", pattern, err)
	}
	for _, name := range names {
		if err := DropTable(ctx, exec, name); err != nil {
			return err
		}
	}
	return nil
}

// TableExists reports whether a table is present. SQLite resolves
// identifiers case-insensitively, so "l1nameWebster" and "l1namewebster"
// are the same table.
func TableExists(ctx context.Context, exec DBExecutor, table string) (bool, error) {
	row, err := queryRowBuilder(ctx, exec, sq.Select("COUNT(*)").From("sqlite_master").
		Where(sq.Eq{"type": "table"}).
		Where(sq.Expr("name = ? COLLATE NOCASE", table)))
	if err != nil {
		return false, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// insertChunk keeps multi-row INSERTs well under SQLite's host parameter limit.
const insertChunk = 500

// InsertEntries appends entries to a dictionary table.
func InsertEntries(ctx context.Context, exec DBExecutor, table string, entries []Entry) error {
	for start := 0; start < len(entries); start += insertChunk {
		end := min(start+insertChunk, len(entries))
		b := sq.Insert(dictname.Quote(table)).Columns(query.EntryColumns...)
		for _, e := range entries[start:end] {
			b = b.Values(e.Term, nullable(e.AltTerm), nullable(e.Pronunciation), nullable(e.PartOfSpeech),
				e.Definition, e.Examples, e.Audio, e.Frequency, e.StarCount)
		}
		if _, err := execBuilder(ctx, exec, b); err != nil {
			return fmt.Errorf("insert %d entries into %s: %w", end-start, table, err)
		}
	}
	return nil
}

// QueryEntries runs a built entry query and scans the rows.
func QueryEntries(ctx context.Context, exec DBExecutor, b sq.Sqlizer) ([]Entry, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := exec.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var e Entry
	var alt, pron, pos, def, ex, audio, stars sql.NullString
	var freq sql.NullInt64
	if err := rows.Scan(&e.Term, &alt, &pron, &pos, &def, &ex, &audio, &freq, &stars); err != nil {
		return Entry{}, err
	}
	e.AltTerm = alt.String
	e.Pronunciation = pron.String
	e.PartOfSpeech = pos.String
	e.Definition = def.String
	e.Examples = ex.String
	e.Audio = audio.String
	e.Frequency = freq.Int64
	e.StarCount = stars.String
	return e, nil
}

// nullable returns nil for an empty string so optional columns stay NULL.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
