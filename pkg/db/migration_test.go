package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func tableColumns(t *testing.T, conn *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := conn.Query(`PRAGMA table_info("` + table + `")`)
	require.NoError(t, err)
	defer rows.Close()
	cols := map[string]bool{}
	for rows.Next() {
		var cid, notnull, pk int
		var name, ctype string
		var dflt interface{}
		require.NoError(t, rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk))
		cols[name] = true
	}
	require.NoError(t, rows.Err())
	return cols
}

func indexNames(t *testing.T, conn *sql.DB, table string) []string {
	t.Helper()
	rows, err := conn.Query(`SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = ? ORDER BY name`, table)
	require.NoError(t, err)
	defer rows.Close()
	var out []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		out = append(out, n)
	}
	return out
}

// TestInitDBCreatesCatalog verifies a fresh database gets both catalog tables.
func TestInitDBCreatesCatalog(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer conn.Close()
	conn.SetMaxOpenConns(1)

	require.NoError(t, InitDB(context.Background(), conn))

	langs := tableColumns(t, conn, "languages")
	assert.True(t, langs["id"] && langs["name"] && langs["font"], "languages columns: %v", langs)

	dicts := tableColumns(t, conn, "dictionaries")
	for _, c := range []string{"id", "name", "language_id", "fields", "add_type", "term_header", "duplicate_header"} {
		assert.True(t, dicts[c], "dictionaries missing column %s", c)
	}
}

func TestInitDBIsIdempotent(t *testing.T) {
	conn, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, InitDB(context.Background(), conn))
}

func TestCreateDictionaryTableSchema(t *testing.T) {
	conn, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer conn.Close()
	ctx := context.Background()

	const table = "l1nameJMdict"
	require.NoError(t, CreateDictionaryTable(ctx, conn, table))
	// repeating must not fail
	require.NoError(t, CreateDictionaryTable(ctx, conn, table))

	cols := tableColumns(t, conn, table)
	for _, c := range []string{"term", "altterm", "pronunciation", "pos", "definition", "examples", "audio", "frequency", "starCount"} {
		assert.True(t, cols[c], "missing column %s", c)
	}
	assert.Equal(t,
		[]string{"ia" + table, "iap" + table, "ip" + table, "it" + table, "itp" + table},
		indexNames(t, conn, table))

	ok, err := TableExists(ctx, conn, table)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDropTablesByPattern(t *testing.T) {
	conn, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer conn.Close()
	ctx := context.Background()

	for _, table := range []string{"l1nameA", "l1nameB", "l12nameC"} {
		require.NoError(t, CreateDictionaryTable(ctx, conn, table))
	}
	require.NoError(t, DropTables(ctx, conn, "l1name%"))

	for table, want := range map[string]bool{"l1nameA": false, "l1nameB": false, "l12nameC": true} {
		ok, err := TableExists(ctx, conn, table)
		require.NoError(t, err)
		assert.Equal(t, want, ok, table)
	}
}
