// Package dboutline prints an indented outline of a database's metadata:
// the schemas, their tables and the tables' columns.
//
// The package reads metadata from PostgreSQL or SQLite into a read-only
// snapshot, then renders it with the native printer or with a Starlark
// script running over the snapshot.
//
// # Basic Usage
//
// Print the outline of a database:
//
//	import "github.com/lucasefe/dboutline"
//
//	err := dboutline.PrintFromConnectionString(ctx, os.Stdout, connStr, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The output looks like:
//
//	dboutline 1.0.0
//	PostgreSQL 16.2
//	github.com/lib/pq v1.10.9
//	library.public
//	o--> books
//	     o--> id
//	     o--> title
//
// # Configuration
//
// Use Config to choose the driver and which schemas and tables to include:
//
//	config := &dboutline.Config{
//	    Driver:        "sqlite3",
//	    Schemas:       []string{"main", "archive"},
//	    ExcludeTables: []string{"migrations"},
//	}
//	err := dboutline.PrintFromConnectionString(ctx, os.Stdout, "library.db", config)
//
// # Scripts
//
// Set Config.Script to run Starlark over the snapshot instead. Scripts see
// a database global and a println builtin:
//
//	config := &dboutline.Config{
//	    Script: `
//	for s in database.schemas:
//	    println(s.fullName, len(s.tables))
//	`,
//	}
//
// # Subpackages
//
//   - github.com/lucasefe/dboutline/schema - the snapshot data model
//   - github.com/lucasefe/dboutline/introspect - building snapshots from live connections
//   - github.com/lucasefe/dboutline/printer - text and JSON rendering
//   - github.com/lucasefe/dboutline/script - the Starlark scripting host
//   - github.com/lucasefe/dboutline/config - YAML and environment configuration
package dboutline
