package models

import (
	"fmt"
	"strings"
)

// ParamType is the closed set of semantic parameter types a query definition
// may declare. Stored spellings are normalized through ParseParamType; the
// canonical values below are the only ones the rest of the engine sees.
type ParamType string

const (
	TypeBoolean   ParamType = "boolean"
	TypeInteger   ParamType = "integer"
	TypeBigint    ParamType = "bigint"
	TypeFloat     ParamType = "float"
	TypeText      ParamType = "text"
	TypeDate      ParamType = "date"
	TypeTimestamp ParamType = "timestamp"
)

// paramTypeAliases maps lowercased stored spellings to canonical types.
// Legacy catalogs used SQL-ish spellings (VARCHAR, DOUBLE PRECISION, DATETIME);
// they keep resolving so existing rows stay readable.
var paramTypeAliases = map[string]ParamType{
	"boolean":          TypeBoolean,
	"bool":             TypeBoolean,
	"integer":          TypeInteger,
	"int":              TypeInteger,
	"int4":             TypeInteger,
	"bigint":           TypeBigint,
	"int8":             TypeBigint,
	"float":            TypeFloat,
	"double precision": TypeFloat,
	"double_precision": TypeFloat,
	"real":             TypeFloat,
	"text":             TypeText,
	"varchar":          TypeText,
	"string":           TypeText,
	"date":             TypeDate,
	"timestamp":        TypeTimestamp,
	"datetime":         TypeTimestamp,
}

// ParseParamType normalizes a stored type spelling to its canonical ParamType.
// Matching is case-insensitive and ignores surrounding whitespace. An unknown
// spelling is a catalog defect, not a caller error.
func ParseParamType(s string) (ParamType, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if t, ok := paramTypeAliases[normalized]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown parameter type %q", s)
}

func (t ParamType) String() string {
	return string(t)
}
