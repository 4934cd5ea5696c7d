package introspect

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/lucasefe/dboutline/schema"

	_ "github.com/mattn/go-sqlite3"
)

// sqliteCatalog reads attached databases as schemas. SQLite has no catalog
// level, so schema full names are the attachment names ("main", "temp", ...).
type sqliteCatalog struct {
	db *sql.DB
}

func (c *sqliteCatalog) driverModule() string { return "github.com/mattn/go-sqlite3" }

func (c *sqliteCatalog) serverInfo(ctx context.Context) (schema.ServerInfo, string, error) {
	var version string
	if err := c.db.QueryRowContext(ctx, `SELECT sqlite_version()`).Scan(&version); err != nil {
		return schema.ServerInfo{}, "", err
	}
	return schema.ServerInfo{ProductName: "SQLite", ProductVersion: version}, "", nil
}

func (c *sqliteCatalog) allSchemas(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, c.db, `SELECT name FROM pragma_database_list ORDER BY seq`)
}

func (c *sqliteCatalog) tables(ctx context.Context, schemaName string) ([]*schema.Table, error) {
	query := `
		SELECT name
		FROM ` + quoteIdent(schemaName) + `.sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
		ORDER BY name
	`
	names, err := queryStrings(ctx, c.db, query)
	if err != nil {
		return nil, err
	}

	tables := make([]*schema.Table, 0, len(names))
	for _, name := range names {
		tables = append(tables, &schema.Table{Name: name, Schema: schemaName})
	}
	return tables, nil
}

func (c *sqliteCatalog) columns(ctx context.Context, schemaName, tableName string, mapper TypeMapper) ([]*schema.Column, []string, error) {
	query := `
		SELECT name, type, "notnull", dflt_value, pk
		FROM pragma_table_info(?, ?)
		ORDER BY cid
	`

	rows, err := c.db.QueryContext(ctx, query, tableName, schemaName)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	type pkColumn struct {
		name     string
		position int
	}

	columns := make([]*schema.Column, 0)
	var pks []pkColumn
	for rows.Next() {
		col := &schema.Column{}
		var declared string
		var notNull bool
		var dflt sql.NullString
		var pk int

		if err := rows.Scan(&col.Name, &declared, &notNull, &dflt, &pk); err != nil {
			return nil, nil, err
		}

		col.Type = mapper.MapType(ColumnType{DataType: declared})
		col.Nullable = !notNull
		if dflt.Valid {
			col.DefaultValue = &dflt.String
		}
		if pk > 0 {
			pks = append(pks, pkColumn{name: col.Name, position: pk})
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	// pk holds the 1-based position of the column within the primary key.
	sort.Slice(pks, func(i, j int) bool { return pks[i].position < pks[j].position })
	var primaryKeys []string
	for _, pk := range pks {
		primaryKeys = append(primaryKeys, pk.name)
	}

	return columns, primaryKeys, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
