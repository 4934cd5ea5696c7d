package script

import (
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/lucasefe/dboutline/schema"
)

// databaseValue converts a snapshot into frozen Starlark structs. Attribute
// names follow the original scripting object model (fullName,
// schemaCrawlerInfo, ...) with snake_case aliases. A nil element becomes
// None, so reading an attribute from it fails the script at that point.
func databaseValue(db *schema.Database) starlark.Value {
	schemas := make([]starlark.Value, 0, len(db.Schemas))
	for _, s := range db.Schemas {
		schemas = append(schemas, schemaValue(s))
	}

	tool := starlark.String(db.ToolInfo.String())
	server := starlark.String(db.ServerInfo.String())
	conn := starlark.String(db.ConnectionInfo.String())

	v := starlarkstruct.FromStringDict(starlark.String("database"), starlark.StringDict{
		"schemaCrawlerInfo": tool,
		"tool_info":         tool,
		"databaseInfo":      server,
		"server_info":       server,
		"jdbcDriverInfo":    conn,
		"connection_info":   conn,
		"schemas":           starlark.NewList(schemas),
	})
	v.Freeze()
	return v
}

func schemaValue(s *schema.Schema) starlark.Value {
	if s == nil {
		return starlark.None
	}

	tables := make([]starlark.Value, 0, len(s.Tables))
	for _, t := range s.Tables {
		tables = append(tables, tableValue(t))
	}

	fullName := starlark.String(s.FullName())
	return starlarkstruct.FromStringDict(starlark.String("schema"), starlark.StringDict{
		"fullName":  fullName,
		"full_name": fullName,
		"name":      starlark.String(s.Name),
		"catalog":   starlark.String(s.Catalog),
		"tables":    starlark.NewList(tables),
	})
}

func tableValue(t *schema.Table) starlark.Value {
	if t == nil {
		return starlark.None
	}

	columns := make([]starlark.Value, 0, len(t.Columns))
	for _, c := range t.Columns {
		columns = append(columns, columnValue(c))
	}

	return starlarkstruct.FromStringDict(starlark.String("table"), starlark.StringDict{
		"name":         starlark.String(t.Name),
		"schema":       starlark.String(t.Schema),
		"columns":      starlark.NewList(columns),
		"primary_keys": stringList(t.PrimaryKeys),
	})
}

func columnValue(c *schema.Column) starlark.Value {
	if c == nil {
		return starlark.None
	}

	var dflt starlark.Value = starlark.None
	if c.DefaultValue != nil {
		dflt = starlark.String(*c.DefaultValue)
	}

	return starlarkstruct.FromStringDict(starlark.String("column"), starlark.StringDict{
		"name":        starlark.String(c.Name),
		"type":        starlark.String(c.Type),
		"nullable":    starlark.Bool(c.Nullable),
		"primary_key": starlark.Bool(c.IsPrimaryKey),
		"default":     dflt,
	})
}

func stringList(values []string) *starlark.List {
	elems := make([]starlark.Value, 0, len(values))
	for _, v := range values {
		elems = append(elems, starlark.String(v))
	}
	return starlark.NewList(elems)
}
