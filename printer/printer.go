// Package printer renders a metadata snapshot as text.
//
// Basic usage:
//
//	if err := printer.Run(os.Stdout, db); err != nil {
//	    log.Fatal(err)
//	}
//
// The outline format is fixed: three header lines (tool, server, driver),
// then every schema, its tables and their columns, depth first and in the
// order the snapshot holds them:
//
//	SC/1.0
//	HSQLDB
//	JDBC-Driver
//	PUBLIC
//	o--> BOOKS
//	     o--> ID
//	     o--> TITLE
package printer

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/lucasefe/dboutline/schema"
)

const (
	// TablePrefix starts every table line.
	TablePrefix = "o--> "
	// ColumnPrefix starts every column line: five spaces, then TablePrefix.
	ColumnPrefix = "     o--> "
)

// ErrMissingAttribute reports a snapshot element that is absent (nil) where
// the walk expects one.
var ErrMissingAttribute = errors.New("missing attribute")

// Run writes the outline of db to w, one line at a time. It stops at the
// first nil element or write error and returns it; lines written before
// that point stay written.
func Run(w io.Writer, db *schema.Database) error {
	if db == nil {
		return fmt.Errorf("database: %w", ErrMissingAttribute)
	}

	for _, header := range []string{
		db.ToolInfo.String(),
		db.ServerInfo.String(),
		db.ConnectionInfo.String(),
	} {
		if err := writeLine(w, "", header); err != nil {
			return err
		}
	}

	for i, s := range db.Schemas {
		if s == nil {
			return fmt.Errorf("schemas[%d]: %w", i, ErrMissingAttribute)
		}
		if err := writeLine(w, "", s.FullName()); err != nil {
			return err
		}
		for j, table := range s.Tables {
			if table == nil {
				return fmt.Errorf("schemas[%d].tables[%d]: %w", i, j, ErrMissingAttribute)
			}
			if err := writeLine(w, TablePrefix, table.Name); err != nil {
				return err
			}
			for k, column := range table.Columns {
				if column == nil {
					return fmt.Errorf("schemas[%d].tables[%d].columns[%d]: %w", i, j, k, ErrMissingAttribute)
				}
				if err := writeLine(w, ColumnPrefix, column.Name); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// String is a convenience wrapper that returns the outline as a string.
func String(db *schema.Database) (string, error) {
	var buf bytes.Buffer
	if err := Run(&buf, db); err != nil {
		return buf.String(), err
	}
	return buf.String(), nil
}

func writeLine(w io.Writer, prefix, text string) error {
	if _, err := io.WriteString(w, prefix+text+"\n"); err != nil {
		return fmt.Errorf("write outline: %w", err)
	}
	return nil
}
