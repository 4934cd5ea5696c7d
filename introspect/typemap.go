package introspect

import (
	"database/sql"
	"fmt"
	"strings"
)

// ColumnType is the raw type information a catalog reports for a column.
type ColumnType struct {
	// DataType is the declared or information_schema data type
	// (e.g., "integer", "character varying", "ARRAY", "VARCHAR(20)").
	DataType string
	// UDTName is the underlying type name, used for arrays and user-defined types.
	UDTName          string
	CharMaxLength    sql.NullInt64
	NumericPrecision sql.NullInt64
	NumericScale     sql.NullInt64
}

// TypeMapper converts catalog column types into the short type names
// carried by the snapshot.
type TypeMapper interface {
	MapType(ct ColumnType) string
}

// TypeMapperFunc adapts a function to TypeMapper.
type TypeMapperFunc func(ColumnType) string

func (f TypeMapperFunc) MapType(ct ColumnType) string { return f(ct) }

// OverrideMapper consults Overrides (keyed by lower-cased data type or UDT
// name) before falling back to Base.
type OverrideMapper struct {
	Base      TypeMapper
	Overrides map[string]string
}

// NewPostgreSQLTypeMapper creates a PostgreSQL TypeMapper with optional
// overrides.
//
//	mapper := introspect.NewPostgreSQLTypeMapper(map[string]string{
//	    "citext": "varchar",
//	    "ltree":  "text",
//	})
func NewPostgreSQLTypeMapper(overrides map[string]string) TypeMapper {
	return &OverrideMapper{Base: TypeMapperFunc(MapPostgreSQLType), Overrides: lowerKeys(overrides)}
}

// NewSQLiteTypeMapper creates a SQLite TypeMapper with optional overrides.
func NewSQLiteTypeMapper(overrides map[string]string) TypeMapper {
	return &OverrideMapper{Base: TypeMapperFunc(MapSQLiteType), Overrides: lowerKeys(overrides)}
}

func (m *OverrideMapper) MapType(ct ColumnType) string {
	if mapped, ok := m.Overrides[strings.ToLower(ct.DataType)]; ok {
		return mapped
	}
	if mapped, ok := m.Overrides[strings.ToLower(ct.UDTName)]; ok {
		return mapped
	}
	return m.Base.MapType(ct)
}

var postgresTypeNames = map[string]string{
	"integer":                     "int",
	"int4":                        "int",
	"bigint":                      "bigint",
	"int8":                        "bigint",
	"smallint":                    "smallint",
	"int2":                        "smallint",
	"boolean":                     "boolean",
	"bool":                        "boolean",
	"text":                        "text",
	"real":                        "float",
	"float4":                      "float",
	"double precision":            "double",
	"float8":                      "double",
	"timestamp without time zone": "timestamp",
	"timestamp":                   "timestamp",
	"timestamp with time zone":    "timestamptz",
	"timestamptz":                 "timestamptz",
	"date":                        "date",
	"time without time zone":      "time",
	"time":                        "time",
	"time with time zone":         "timetz",
	"timetz":                      "timetz",
	"uuid":                        "uuid",
	"json":                        "json",
	"jsonb":                       "jsonb",
	"bytea":                       "binary",
}

// MapPostgreSQLType maps an information_schema column type. Lengths and
// numeric precision are kept; arrays become "<elem>[]" and user-defined
// types keep their own name.
func MapPostgreSQLType(ct ColumnType) string {
	dataType := strings.ToLower(ct.DataType)
	switch dataType {
	case "character varying", "varchar":
		return withLength("varchar", ct.CharMaxLength)
	case "character", "char", "bpchar":
		return withLength("char", ct.CharMaxLength)
	case "numeric", "decimal":
		if ct.NumericPrecision.Valid && ct.NumericScale.Valid {
			return fmt.Sprintf("decimal(%d,%d)", ct.NumericPrecision.Int64, ct.NumericScale.Int64)
		}
		return "decimal"
	case "array":
		elem := strings.TrimPrefix(ct.UDTName, "_")
		return MapPostgreSQLType(ColumnType{DataType: elem}) + "[]"
	case "user-defined":
		if ct.UDTName != "" {
			return ct.UDTName
		}
		return "text"
	}
	if name, ok := postgresTypeNames[dataType]; ok {
		return name
	}
	return ct.DataType
}

// MapSQLiteType maps a declared SQLite column type. SQLite keeps the
// declaration verbatim, so it is lower-cased and normalized only for the
// common spellings; an empty declaration maps to "blob" (no affinity).
func MapSQLiteType(ct ColumnType) string {
	declared := strings.ToLower(strings.TrimSpace(ct.DataType))
	if declared == "" {
		return "blob"
	}

	base, args := declared, ""
	if i := strings.IndexByte(declared, '('); i > 0 {
		base, args = strings.TrimSpace(declared[:i]), declared[i:]
	}

	switch base {
	case "integer", "int":
		return "int"
	case "character varying", "varchar", "nvarchar":
		return "varchar" + args
	case "numeric", "decimal":
		return "decimal" + strings.ReplaceAll(args, " ", "")
	case "double", "double precision", "real":
		return "double"
	case "boolean", "bool":
		return "boolean"
	case "datetime":
		return "timestamp"
	}
	return declared
}

func withLength(name string, length sql.NullInt64) string {
	if length.Valid {
		return fmt.Sprintf("%s(%d)", name, length.Int64)
	}
	return name
}

func lowerKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}
