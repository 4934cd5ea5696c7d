// Package introspect builds metadata snapshots from live PostgreSQL and
// SQLite connections.
//
// Basic usage:
//
//	db, err := introspect.Database(ctx, conn,
//	    introspect.WithSchemas("public", "auth"),
//	    introspect.WithExcludeTables("migrations"),
//	)
//
// SQLite:
//
//	db, err := introspect.Database(ctx, conn, introspect.WithDialect(introspect.SQLite))
package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"runtime/debug"

	"github.com/lucasefe/dboutline/schema"
)

// catalog answers the metadata queries of one database engine.
type catalog interface {
	serverInfo(ctx context.Context) (schema.ServerInfo, string, error)
	allSchemas(ctx context.Context) ([]string, error)
	tables(ctx context.Context, schemaName string) ([]*schema.Table, error)
	columns(ctx context.Context, schemaName, tableName string, mapper TypeMapper) ([]*schema.Column, []string, error)
	driverModule() string
}

// Database introspects db and returns a snapshot of its metadata.
// Use options to select the dialect and which schemas and tables to include.
func Database(ctx context.Context, db *sql.DB, opts ...Option) (*schema.Database, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	cat, err := newCatalog(db, o.dialect)
	if err != nil {
		return nil, err
	}

	server, catalogName, err := cat.serverInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get server info: %w", err)
	}

	module := cat.driverModule()
	result := &schema.Database{
		ToolInfo:   o.toolInfo,
		ServerInfo: server,
		ConnectionInfo: schema.ConnectionInfo{
			DriverName:    module,
			DriverVersion: moduleVersion(module),
			ConnectionURL: o.connectionURL,
		},
	}

	schemaNames := o.schemas
	if o.includeAllSchemas {
		schemaNames, err = cat.allSchemas(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get schemas: %w", err)
		}
	} else if len(schemaNames) == 0 {
		schemaNames = o.dialect.defaultSchemas()
	}

	mapper := o.mapper()
	for _, schemaName := range schemaNames {
		s, err := introspectSchema(ctx, cat, catalogName, schemaName, mapper)
		if err != nil {
			return nil, err
		}
		if len(o.excludeTables) > 0 {
			s = schema.FilterTables(s, o.excludeTables)
		}
		o.logger.Debug("introspected schema", "schema", s.FullName(), "tables", len(s.Tables))
		result.Schemas = append(result.Schemas, s)
	}

	st := result.Stats()
	o.logger.Info("introspection complete",
		"dialect", string(o.dialect),
		"schemas", st.Schemas,
		"tables", st.Tables,
		"columns", st.Columns)

	return result, nil
}

// FromConnectionString connects to a database and introspects it.
// driver is a database/sql driver name ("postgres" or "sqlite3"); the
// dialect follows from it unless overridden by an option.
func FromConnectionString(ctx context.Context, driver, connStr string, opts ...Option) (*schema.Database, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(string(dialect), connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	opts = append([]Option{WithDialect(dialect), WithConnectionURL(connStr)}, opts...)
	return Database(ctx, db, opts...)
}

// ParseDialect maps a driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "postgresql", "":
		return Postgres, nil
	case "sqlite3", "sqlite":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported driver %q: use 'postgres' or 'sqlite3'", driver)
	}
}

func newCatalog(db *sql.DB, dialect Dialect) (catalog, error) {
	switch dialect {
	case Postgres:
		return &postgresCatalog{db: db}, nil
	case SQLite:
		return &sqliteCatalog{db: db}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

func introspectSchema(ctx context.Context, cat catalog, catalogName, schemaName string, mapper TypeMapper) (*schema.Schema, error) {
	tables, err := cat.tables(ctx, schemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables for schema %s: %w", schemaName, err)
	}

	for _, table := range tables {
		columns, primaryKeys, err := cat.columns(ctx, schemaName, table.Name, mapper)
		if err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s.%s: %w", schemaName, table.Name, err)
		}
		table.Columns = columns
		table.PrimaryKeys = primaryKeys
		markPrimaryKeys(table)
	}

	return &schema.Schema{Catalog: catalogName, Name: schemaName, Tables: tables}, nil
}

func markPrimaryKeys(table *schema.Table) {
	for _, column := range table.Columns {
		for _, pk := range table.PrimaryKeys {
			if column.Name == pk {
				column.IsPrimaryKey = true
				break
			}
		}
	}
}

// moduleVersion reports the version of a dependency compiled into the
// binary, or "" when build info is unavailable (e.g. in tests).
func moduleVersion(path string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, dep := range info.Deps {
		if dep.Path == path {
			if dep.Replace != nil {
				return dep.Replace.Version
			}
			return dep.Version
		}
	}
	return ""
}

func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, rows.Err()
}
