package introspect

import (
	"io"
	"log/slog"
	"math"

	"github.com/lucasefe/dboutline/schema"
)

// Dialect selects the catalog queries used for introspection.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite3"
)

// Option configures introspection behavior.
type Option func(*options)

type options struct {
	dialect           Dialect
	schemas           []string
	excludeTables     []string
	includeAllSchemas bool
	typeMapper        TypeMapper
	typeOverrides     map[string]string
	toolInfo          schema.ToolInfo
	connectionURL     string
	logger            *slog.Logger
}

func defaultOptions() *options {
	return &options{
		dialect:  Postgres,
		toolInfo: schema.ToolInfo{ProductName: "dboutline"},
		logger:   slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})),
	}
}

// defaultSchemas is used when neither WithSchemas nor WithAllSchemas is given.
func (d Dialect) defaultSchemas() []string {
	if d == SQLite {
		return []string{"main"}
	}
	return []string{"public"}
}

// WithDialect selects the database engine. Defaults to Postgres.
func WithDialect(d Dialect) Option {
	return func(o *options) {
		o.dialect = d
	}
}

// WithSchemas specifies which database schemas to introspect, in output
// order. If not specified, defaults to "public" (Postgres) or "main" (SQLite).
func WithSchemas(schemas ...string) Option {
	return func(o *options) {
		o.schemas = schemas
	}
}

// WithExcludeTables specifies tables to exclude from introspection.
func WithExcludeTables(tables ...string) Option {
	return func(o *options) {
		o.excludeTables = tables
	}
}

// WithAllSchemas includes all non-system schemas in the introspection.
// This overrides WithSchemas.
func WithAllSchemas() Option {
	return func(o *options) {
		o.includeAllSchemas = true
	}
}

// WithTypeMapper sets a custom type mapper for column types.
// If not specified, the dialect's default mapper is used.
func WithTypeMapper(mapper TypeMapper) Option {
	return func(o *options) {
		o.typeMapper = mapper
	}
}

// WithTypeMappings provides type overrides as a simple map on top of the
// dialect's default mapper. Keys are type names (case-insensitive).
func WithTypeMappings(mappings map[string]string) Option {
	return func(o *options) {
		o.typeOverrides = mappings
	}
}

// WithToolInfo sets the tool identification recorded in the snapshot.
func WithToolInfo(info schema.ToolInfo) Option {
	return func(o *options) {
		o.toolInfo = info
	}
}

// WithConnectionURL records the URL the connection was opened with.
func WithConnectionURL(url string) Option {
	return func(o *options) {
		o.connectionURL = url
	}
}

// WithLogger sets the logger for progress messages. Defaults to discarding.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func (o *options) mapper() TypeMapper {
	if o.typeMapper != nil {
		return o.typeMapper
	}
	if o.dialect == SQLite {
		return NewSQLiteTypeMapper(o.typeOverrides)
	}
	return NewPostgreSQLTypeMapper(o.typeOverrides)
}
