// Package schema defines the read-only snapshot of database metadata that the
// rest of dboutline walks. A snapshot is built once (by introspection or by
// hand) and never mutated afterwards.
package schema

import (
	"net/url"
	"strings"
)

// Database is the root of a metadata snapshot.
type Database struct {
	// ToolInfo identifies the tool that produced the snapshot.
	ToolInfo ToolInfo
	// ServerInfo identifies the database engine the snapshot was read from.
	ServerInfo ServerInfo
	// ConnectionInfo identifies the driver used to read the snapshot.
	ConnectionInfo ConnectionInfo
	// Schemas holds the schemas in the order they were read.
	Schemas []*Schema
}

// ToolInfo names the producing tool.
type ToolInfo struct {
	ProductName    string
	ProductVersion string
}

func (i ToolInfo) String() string {
	return joinNonEmpty(i.ProductName, i.ProductVersion)
}

// ServerInfo names the backing database engine.
type ServerInfo struct {
	ProductName    string
	ProductVersion string
	// UserName is the user the connection was opened as.
	UserName string
}

func (i ServerInfo) String() string {
	return joinNonEmpty(i.ProductName, i.ProductVersion)
}

// ConnectionInfo names the client driver.
type ConnectionInfo struct {
	DriverName    string
	DriverVersion string
	// ConnectionURL is the URL the snapshot was read through. It may carry
	// credentials; use RedactedURL before showing it.
	ConnectionURL string
}

func (i ConnectionInfo) String() string {
	return joinNonEmpty(i.DriverName, i.DriverVersion)
}

// RedactedURL returns the connection URL with any password masked. Strings
// that do not parse as URLs (e.g. SQLite file paths) are returned as is.
func (i ConnectionInfo) RedactedURL() string {
	u, err := url.Parse(i.ConnectionURL)
	if err != nil || u.User == nil {
		return i.ConnectionURL
	}
	return u.Redacted()
}

// Schema is a namespace of tables, optionally qualified by a catalog.
type Schema struct {
	// Catalog is the owning catalog (database name), empty when the engine
	// has no catalog level.
	Catalog string
	// Name is the schema name without catalog qualification.
	Name string
	// Tables contains the schema's tables in the order they were read.
	Tables []*Table
}

// FullName returns the catalog-qualified schema name.
func (s *Schema) FullName() string {
	if s.Catalog == "" {
		return s.Name
	}
	return s.Catalog + "." + s.Name
}

// Table represents a database table with its columns.
type Table struct {
	// Name is the table name without schema qualification.
	Name string
	// Schema is the name of the schema containing this table.
	Schema string
	// Columns contains all columns in the table, ordered by ordinal position.
	Columns []*Column
	// PrimaryKeys lists column names that form the primary key.
	PrimaryKeys []string
}

// Column represents a database column within a table.
type Column struct {
	// Name is the column name.
	Name string
	// Type is the mapped column type (e.g., "int", "varchar(255)").
	Type string
	// Nullable indicates whether the column allows NULL values.
	Nullable bool
	// DefaultValue is the column's default value expression, or nil if none.
	DefaultValue *string
	// IsPrimaryKey indicates whether this column is part of the primary key.
	IsPrimaryKey bool
}

// Stats counts the elements of a snapshot.
type Stats struct {
	Schemas int
	Tables  int
	Columns int
}

// Stats counts schemas, tables and columns. Nil elements are skipped.
func (d *Database) Stats() Stats {
	var st Stats
	for _, s := range d.Schemas {
		if s == nil {
			continue
		}
		st.Schemas++
		for _, t := range s.Tables {
			if t == nil {
				continue
			}
			st.Tables++
			for _, c := range t.Columns {
				if c != nil {
					st.Columns++
				}
			}
		}
	}
	return st
}

// OutlineLines is the number of lines a text outline of d contains.
func (st Stats) OutlineLines() int {
	return 3 + st.Schemas + st.Tables + st.Columns
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
