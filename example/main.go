package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/lucasefe/dboutline"
	"github.com/lucasefe/dboutline/introspect"
	"github.com/lucasefe/dboutline/printer"
	"github.com/lucasefe/dboutline/schema"
	"github.com/lucasefe/dboutline/script"
)

func main() {
	ctx := context.Background()

	fmt.Println("=== Example 1: Hand-built snapshot ===")
	handBuilt()

	dir, err := os.MkdirTemp("", "dboutline-example")
	if err != nil {
		log.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "library.db")
	if err := createLibrary(path); err != nil {
		log.Fatalf("Failed to create example database: %v", err)
	}

	fmt.Println("\n=== Example 2: Outline of a SQLite file ===")
	config := &dboutline.Config{
		Driver:        "sqlite3",
		ExcludeTables: []string{"migrations"},
	}
	if err := dboutline.PrintFromConnectionString(ctx, os.Stdout, path, config); err != nil {
		log.Fatalf("Failed to print outline: %v", err)
	}

	fmt.Println("\n=== Example 3: Introspect, then run the bundled script ===")
	db, err := introspect.FromConnectionString(ctx, "sqlite3", path)
	if err != nil {
		log.Fatalf("Failed to introspect: %v", err)
	}
	if err := script.New().RunOutline(ctx, os.Stdout, db); err != nil {
		log.Fatalf("Failed to run script: %v", err)
	}

	fmt.Println("\n=== Example 4: JSON ===")
	if err := printer.RunJSON(os.Stdout, db); err != nil {
		log.Fatalf("Failed to render JSON: %v", err)
	}
}

// handBuilt prints a snapshot assembled without a database.
func handBuilt() {
	db := &schema.Database{
		ToolInfo:       schema.ToolInfo{ProductName: "SC/1.0"},
		ServerInfo:     schema.ServerInfo{ProductName: "HSQLDB"},
		ConnectionInfo: schema.ConnectionInfo{DriverName: "JDBC-Driver"},
		Schemas: []*schema.Schema{{
			Name: "PUBLIC",
			Tables: []*schema.Table{{
				Name:    "BOOKS",
				Columns: []*schema.Column{{Name: "ID"}, {Name: "TITLE"}},
			}},
		}},
	}

	if err := printer.Run(os.Stdout, db); err != nil {
		log.Fatalf("Failed to print outline: %v", err)
	}
}

func createLibrary(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE authors (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
		CREATE TABLE books (
			id INTEGER PRIMARY KEY,
			author_id INTEGER REFERENCES authors(id),
			title VARCHAR(200) NOT NULL,
			published DATE
		);
		CREATE TABLE migrations (version INTEGER);
	`)
	return err
}
