package dboutline

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lucasefe/dboutline/introspect"
	"github.com/lucasefe/dboutline/printer"
	"github.com/lucasefe/dboutline/schema"
	"github.com/lucasefe/dboutline/script"
)

// Version is reported in the snapshot's tool info.
var Version = "dev"

// ToolInfo identifies this tool in snapshots it produces.
func ToolInfo() schema.ToolInfo {
	return schema.ToolInfo{ProductName: "dboutline", ProductVersion: Version}
}

type Config struct {
	// Driver is "postgres" (default) or "sqlite3".
	Driver            string
	Schemas           []string
	ExcludeTables     []string
	IncludeAllSchemas bool
	// Format selects the native rendering. Ignored when Script is set.
	Format printer.Format
	// Script, when set, is Starlark source run over the snapshot instead of
	// the native printer. ScriptName names it in errors.
	Script     string
	ScriptName string
	TypeMapper introspect.TypeMapper
	Logger     *slog.Logger
	// ScriptOptions configure the Starlark runtime.
	ScriptOptions []script.Option
}

func (c *Config) introspectOptions() []introspect.Option {
	dialect, _ := introspect.ParseDialect(c.Driver)
	opts := []introspect.Option{
		introspect.WithDialect(dialect),
		introspect.WithToolInfo(ToolInfo()),
		introspect.WithLogger(c.Logger),
	}
	if len(c.Schemas) > 0 {
		opts = append(opts, introspect.WithSchemas(c.Schemas...))
	}
	if len(c.ExcludeTables) > 0 {
		opts = append(opts, introspect.WithExcludeTables(c.ExcludeTables...))
	}
	if c.IncludeAllSchemas {
		opts = append(opts, introspect.WithAllSchemas())
	}
	if c.TypeMapper != nil {
		opts = append(opts, introspect.WithTypeMapper(c.TypeMapper))
	}
	return opts
}

// Render writes db to w: through the configured script when one is set,
// otherwise with the native printer in the configured format.
func Render(ctx context.Context, w io.Writer, db *schema.Database, config *Config) error {
	if config == nil {
		config = &Config{}
	}
	if config.Script == "" {
		return printer.Render(w, db, config.Format)
	}

	name := config.ScriptName
	if name == "" {
		name = "script.star"
	}
	opts := append([]script.Option{script.WithLogger(config.Logger)}, config.ScriptOptions...)
	return script.New(opts...).Run(ctx, w, name, config.Script, db)
}

// PrintFromConnection introspects an open connection and writes its outline to w.
func PrintFromConnection(ctx context.Context, w io.Writer, db *sql.DB, config *Config) error {
	if config == nil {
		config = &Config{}
	}
	if _, err := introspect.ParseDialect(config.Driver); err != nil {
		return err
	}

	snapshot, err := introspect.Database(ctx, db, config.introspectOptions()...)
	if err != nil {
		return fmt.Errorf("failed to introspect database: %w", err)
	}

	return Render(ctx, w, snapshot, config)
}

// PrintFromConnectionString connects to a database and writes its outline to w.
func PrintFromConnectionString(ctx context.Context, w io.Writer, connStr string, config *Config) error {
	if config == nil {
		config = &Config{}
	}

	snapshot, err := introspect.FromConnectionString(ctx, config.Driver, connStr, config.introspectOptions()...)
	if err != nil {
		return fmt.Errorf("failed to introspect database: %w", err)
	}

	return Render(ctx, w, snapshot, config)
}

// WriteToFile renders the outline of the database behind connStr into
// filename. Nothing is written when introspection or rendering fails.
func WriteToFile(ctx context.Context, connStr, filename string, config *Config) error {
	var buf bytes.Buffer
	if err := PrintFromConnectionString(ctx, &buf, connStr, config); err != nil {
		return err
	}

	return os.WriteFile(filename, buf.Bytes(), 0644)
}
