package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lucasefe/dboutline/schema"
)

type jsonDatabase struct {
	ToolInfo       jsonToolInfo       `json:"toolInfo"`
	ServerInfo     jsonServerInfo     `json:"serverInfo"`
	ConnectionInfo jsonConnectionInfo `json:"connectionInfo"`
	Schemas        []jsonSchema       `json:"schemas"`
}

type jsonToolInfo struct {
	ProductName    string `json:"productName"`
	ProductVersion string `json:"productVersion"`
}

type jsonServerInfo struct {
	ProductName    string `json:"productName"`
	ProductVersion string `json:"productVersion"`
	UserName       string `json:"userName,omitempty"`
}

type jsonConnectionInfo struct {
	DriverName    string `json:"driverName"`
	DriverVersion string `json:"driverVersion,omitempty"`
	URL           string `json:"url,omitempty"`
}

type jsonSchema struct {
	FullName string      `json:"fullName"`
	Tables   []jsonTable `json:"tables"`
}

type jsonTable struct {
	Name        string       `json:"name"`
	Columns     []jsonColumn `json:"columns"`
	PrimaryKeys []string     `json:"primaryKeys,omitempty"`
}

type jsonColumn struct {
	Name          string  `json:"name"`
	Type          string  `json:"type,omitempty"`
	Nullable      bool    `json:"nullable"`
	PrimaryKey    bool    `json:"primaryKey,omitempty"`
	AutoIncrement bool    `json:"autoIncrement,omitempty"`
	Default       *string `json:"default,omitempty"`
}

// RunJSON writes db to w as an indented JSON document. Nil elements are
// reported the same way Run reports them, but since the document is built
// before it is written nothing reaches w in that case.
func RunJSON(w io.Writer, db *schema.Database) error {
	doc, err := toJSON(db)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

func toJSON(db *schema.Database) (*jsonDatabase, error) {
	if db == nil {
		return nil, fmt.Errorf("database: %w", ErrMissingAttribute)
	}

	doc := &jsonDatabase{
		ToolInfo: jsonToolInfo{
			ProductName:    db.ToolInfo.ProductName,
			ProductVersion: db.ToolInfo.ProductVersion,
		},
		ServerInfo: jsonServerInfo{
			ProductName:    db.ServerInfo.ProductName,
			ProductVersion: db.ServerInfo.ProductVersion,
			UserName:       db.ServerInfo.UserName,
		},
		ConnectionInfo: jsonConnectionInfo{
			DriverName:    db.ConnectionInfo.DriverName,
			DriverVersion: db.ConnectionInfo.DriverVersion,
			URL:           db.ConnectionInfo.RedactedURL(),
		},
		Schemas: make([]jsonSchema, 0, len(db.Schemas)),
	}

	for i, s := range db.Schemas {
		if s == nil {
			return nil, fmt.Errorf("schemas[%d]: %w", i, ErrMissingAttribute)
		}
		js := jsonSchema{FullName: s.FullName(), Tables: make([]jsonTable, 0, len(s.Tables))}
		for j, table := range s.Tables {
			if table == nil {
				return nil, fmt.Errorf("schemas[%d].tables[%d]: %w", i, j, ErrMissingAttribute)
			}
			jt := jsonTable{
				Name:        table.Name,
				Columns:     make([]jsonColumn, 0, len(table.Columns)),
				PrimaryKeys: table.PrimaryKeys,
			}
			for k, column := range table.Columns {
				if column == nil {
					return nil, fmt.Errorf("schemas[%d].tables[%d].columns[%d]: %w", i, j, k, ErrMissingAttribute)
				}
				jt.Columns = append(jt.Columns, toJSONColumn(column))
			}
			js.Tables = append(js.Tables, jt)
		}
		doc.Schemas = append(doc.Schemas, js)
	}

	return doc, nil
}

func toJSONColumn(column *schema.Column) jsonColumn {
	jc := jsonColumn{
		Name:       column.Name,
		Type:       column.Type,
		Nullable:   column.Nullable,
		PrimaryKey: column.IsPrimaryKey,
	}
	if column.DefaultValue != nil {
		// Sequence-backed defaults are reported as auto-increment instead.
		if strings.HasPrefix(*column.DefaultValue, "nextval(") {
			jc.AutoIncrement = true
		} else {
			jc.Default = column.DefaultValue
		}
	}
	return jc
}
