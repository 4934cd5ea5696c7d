package introspect

import (
	"context"
	"database/sql"

	"github.com/lucasefe/dboutline/schema"

	_ "github.com/lib/pq"
)

type postgresCatalog struct {
	db *sql.DB
}

func (c *postgresCatalog) driverModule() string { return "github.com/lib/pq" }

func (c *postgresCatalog) serverInfo(ctx context.Context) (schema.ServerInfo, string, error) {
	var info schema.ServerInfo
	var database string
	err := c.db.QueryRowContext(ctx,
		`SELECT current_setting('server_version'), current_user, current_database()`,
	).Scan(&info.ProductVersion, &info.UserName, &database)
	if err != nil {
		return schema.ServerInfo{}, "", err
	}
	info.ProductName = "PostgreSQL"
	return info, database, nil
}

func (c *postgresCatalog) allSchemas(ctx context.Context) ([]string, error) {
	query := `
		SELECT schema_name
		FROM information_schema.schemata
		WHERE schema_name NOT IN ('information_schema', 'pg_catalog')
			AND schema_name NOT LIKE 'pg\_toast%'
			AND schema_name NOT LIKE 'pg\_temp\_%'
		ORDER BY schema_name
	`
	return queryStrings(ctx, c.db, query)
}

func (c *postgresCatalog) tables(ctx context.Context, schemaName string) ([]*schema.Table, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`
	names, err := queryStrings(ctx, c.db, query, schemaName)
	if err != nil {
		return nil, err
	}

	tables := make([]*schema.Table, 0, len(names))
	for _, name := range names {
		tables = append(tables, &schema.Table{Name: name, Schema: schemaName})
	}
	return tables, nil
}

func (c *postgresCatalog) columns(ctx context.Context, schemaName, tableName string, mapper TypeMapper) ([]*schema.Column, []string, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.character_maximum_length,
			c.numeric_precision,
			c.numeric_scale,
			c.is_nullable,
			c.column_default,
			COALESCE(c.udt_name, c.data_type) AS udt_name
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := c.db.QueryContext(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	columns := make([]*schema.Column, 0)
	for rows.Next() {
		col := &schema.Column{}
		var ct ColumnType
		var isNullable string
		var columnDefault sql.NullString

		err := rows.Scan(
			&col.Name,
			&ct.DataType,
			&ct.CharMaxLength,
			&ct.NumericPrecision,
			&ct.NumericScale,
			&isNullable,
			&columnDefault,
			&ct.UDTName,
		)
		if err != nil {
			return nil, nil, err
		}

		col.Type = mapper.MapType(ct)
		col.Nullable = isNullable == "YES"
		if columnDefault.Valid {
			col.DefaultValue = &columnDefault.String
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	primaryKeys, err := c.primaryKeys(ctx, schemaName, tableName)
	if err != nil {
		return nil, nil, err
	}

	return columns, primaryKeys, nil
}

func (c *postgresCatalog) primaryKeys(ctx context.Context, schemaName, tableName string) ([]string, error) {
	query := `
		SELECT kcu.column_name
		FROM information_schema.key_column_usage kcu
		JOIN information_schema.table_constraints tc
			ON kcu.constraint_name = tc.constraint_name
			AND kcu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
			AND kcu.table_schema = $1
			AND kcu.table_name = $2
		ORDER BY kcu.ordinal_position
	`
	return queryStrings(ctx, c.db, query, schemaName, tableName)
}
