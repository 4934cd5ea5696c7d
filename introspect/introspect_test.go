package introspect

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasefe/dboutline/printer"
	"github.com/lucasefe/dboutline/schema"
)

const libraryDDL = `
CREATE TABLE books (
	id INTEGER PRIMARY KEY,
	title VARCHAR(200) NOT NULL,
	price NUMERIC(10, 2),
	added DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE authors (
	id INTEGER NOT NULL,
	name TEXT,
	PRIMARY KEY (id)
);
CREATE TABLE book_authors (
	author_id INTEGER NOT NULL,
	book_id INTEGER NOT NULL,
	PRIMARY KEY (book_id, author_id)
);
CREATE TABLE migrations (version INTEGER);
`

func openSQLite(t *testing.T, ddl string) (*sql.DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "library.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(ddl)
	require.NoError(t, err)
	return db, path
}

func tableNames(s *schema.Schema) []string {
	names := make([]string, 0, len(s.Tables))
	for _, table := range s.Tables {
		names = append(names, table.Name)
	}
	return names
}

func TestDatabase_SQLite(t *testing.T) {
	conn, _ := openSQLite(t, libraryDDL)

	db, err := Database(context.Background(), conn, WithDialect(SQLite))
	require.NoError(t, err)

	assert.Equal(t, "dboutline", db.ToolInfo.ProductName)
	assert.Equal(t, "SQLite", db.ServerInfo.ProductName)
	assert.NotEmpty(t, db.ServerInfo.ProductVersion)
	assert.Equal(t, "github.com/mattn/go-sqlite3", db.ConnectionInfo.DriverName)

	require.Len(t, db.Schemas, 1)
	mainSchema := db.Schemas[0]
	assert.Equal(t, "main", mainSchema.FullName())
	assert.Equal(t, []string{"authors", "book_authors", "books", "migrations"}, tableNames(mainSchema))

	books := mainSchema.Tables[2]
	require.Len(t, books.Columns, 4)
	assert.Equal(t, "id", books.Columns[0].Name)
	assert.Equal(t, "int", books.Columns[0].Type)
	assert.True(t, books.Columns[0].IsPrimaryKey)
	assert.Equal(t, "varchar(200)", books.Columns[1].Type)
	assert.False(t, books.Columns[1].Nullable)
	assert.Equal(t, "decimal(10,2)", books.Columns[2].Type)
	assert.True(t, books.Columns[2].Nullable)
	require.NotNil(t, books.Columns[3].DefaultValue)
	assert.Equal(t, "CURRENT_TIMESTAMP", *books.Columns[3].DefaultValue)
	assert.Equal(t, []string{"id"}, books.PrimaryKeys)

	bookAuthors := mainSchema.Tables[1]
	assert.Equal(t, []string{"book_id", "author_id"}, bookAuthors.PrimaryKeys)
	assert.True(t, bookAuthors.Columns[0].IsPrimaryKey)
	assert.True(t, bookAuthors.Columns[1].IsPrimaryKey)

	migrations := mainSchema.Tables[3]
	assert.Empty(t, migrations.PrimaryKeys)
}

func TestDatabase_SQLiteExcludeTables(t *testing.T) {
	conn, _ := openSQLite(t, libraryDDL)

	db, err := Database(context.Background(), conn,
		WithDialect(SQLite),
		WithExcludeTables("migrations", "book_authors"),
	)
	require.NoError(t, err)

	require.Len(t, db.Schemas, 1)
	assert.Equal(t, []string{"authors", "books"}, tableNames(db.Schemas[0]))
}

func TestDatabase_SQLiteAttachedSchemas(t *testing.T) {
	conn, _ := openSQLite(t, libraryDDL)
	// Keep a single connection so the attachment is visible to every query.
	conn.SetMaxOpenConns(1)

	archive := filepath.Join(t.TempDir(), "archive.db")
	_, err := conn.Exec(`ATTACH DATABASE ? AS archive`, archive)
	require.NoError(t, err)
	_, err = conn.Exec(`CREATE TABLE archive.old_books (id INTEGER, title TEXT)`)
	require.NoError(t, err)

	t.Run("explicit order", func(t *testing.T) {
		db, err := Database(context.Background(), conn, WithDialect(SQLite), WithSchemas("archive", "main"))
		require.NoError(t, err)

		require.Len(t, db.Schemas, 2)
		assert.Equal(t, "archive", db.Schemas[0].FullName())
		assert.Equal(t, []string{"old_books"}, tableNames(db.Schemas[0]))
		assert.Equal(t, "main", db.Schemas[1].FullName())
	})

	t.Run("all schemas", func(t *testing.T) {
		db, err := Database(context.Background(), conn, WithDialect(SQLite), WithAllSchemas())
		require.NoError(t, err)

		var names []string
		for _, s := range db.Schemas {
			names = append(names, s.Name)
		}
		assert.Contains(t, names, "main")
		assert.Contains(t, names, "archive")
	})

	t.Run("unknown schema", func(t *testing.T) {
		_, err := Database(context.Background(), conn, WithDialect(SQLite), WithSchemas("missing"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema missing")
	})
}

func TestDatabase_SQLiteTypeMappings(t *testing.T) {
	conn, _ := openSQLite(t, libraryDDL)

	db, err := Database(context.Background(), conn,
		WithTypeMappings(map[string]string{"text": "string"}),
		WithDialect(SQLite),
	)
	require.NoError(t, err)

	authors := db.Schemas[0].Tables[0]
	require.Equal(t, "authors", authors.Name)
	assert.Equal(t, "int", authors.Columns[0].Type)
	assert.Equal(t, "string", authors.Columns[1].Type)
}

func TestDatabase_SQLiteOutline(t *testing.T) {
	conn, _ := openSQLite(t, `CREATE TABLE books (id INTEGER, title TEXT);`)

	db, err := Database(context.Background(), conn,
		WithDialect(SQLite),
		WithToolInfo(schema.ToolInfo{ProductName: "SC/1.0"}),
	)
	require.NoError(t, err)
	db.ServerInfo.ProductVersion = ""
	db.ConnectionInfo.DriverVersion = ""

	out, err := printer.String(db)
	require.NoError(t, err)
	assert.Equal(t, "SC/1.0\nSQLite\ngithub.com/mattn/go-sqlite3\nmain\no--> books\n     o--> id\n     o--> title\n", out)
}

func TestFromConnectionString_SQLite(t *testing.T) {
	_, path := openSQLite(t, libraryDDL)

	db, err := FromConnectionString(context.Background(), "sqlite3", path)
	require.NoError(t, err)

	assert.Equal(t, path, db.ConnectionInfo.ConnectionURL)
	require.Len(t, db.Schemas, 1)
	assert.Len(t, db.Schemas[0].Tables, 4)
}

func TestFromConnectionString_UnknownDriver(t *testing.T) {
	_, err := FromConnectionString(context.Background(), "oracle", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		driver   string
		expected Dialect
		wantErr  bool
	}{
		{"postgres", Postgres, false},
		{"postgresql", Postgres, false},
		{"", Postgres, false},
		{"sqlite3", SQLite, false},
		{"sqlite", SQLite, false},
		{"mysql", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDialect(tt.driver)
		if tt.wantErr {
			assert.Error(t, err, tt.driver)
			continue
		}
		require.NoError(t, err, tt.driver)
		assert.Equal(t, tt.expected, got)
	}
}

func TestDatabase_UnknownDialect(t *testing.T) {
	_, err := Database(context.Background(), nil, WithDialect("oracle"))
	require.Error(t, err)
}

// TestDatabase_Postgres runs against a live server when
// DBOUTLINE_TEST_POSTGRES_URL is set.
func TestDatabase_Postgres(t *testing.T) {
	url := os.Getenv("DBOUTLINE_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("DBOUTLINE_TEST_POSTGRES_URL not set")
	}

	ctx := context.Background()
	conn, err := sql.Open("postgres", url)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.ExecContext(ctx, `
		DROP SCHEMA IF EXISTS dboutline_test CASCADE;
		CREATE SCHEMA dboutline_test;
		CREATE TABLE dboutline_test.books (
			id SERIAL PRIMARY KEY,
			title VARCHAR(200) NOT NULL,
			tags TEXT[]
		);
	`)
	require.NoError(t, err)
	defer conn.ExecContext(ctx, `DROP SCHEMA IF EXISTS dboutline_test CASCADE`)

	db, err := Database(ctx, conn, WithSchemas("dboutline_test"))
	require.NoError(t, err)

	assert.Equal(t, "PostgreSQL", db.ServerInfo.ProductName)
	require.Len(t, db.Schemas, 1)
	assert.Contains(t, db.Schemas[0].FullName(), ".dboutline_test")
	require.Len(t, db.Schemas[0].Tables, 1)

	books := db.Schemas[0].Tables[0]
	require.Len(t, books.Columns, 3)
	assert.True(t, books.Columns[0].IsPrimaryKey)
	assert.Equal(t, "varchar(200)", books.Columns[1].Type)
	assert.Equal(t, "text[]", books.Columns[2].Type)
}
