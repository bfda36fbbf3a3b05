package sql

import (
	"fmt"

	"github.com/FXC-ai/sql-query-engine/pkg/apperrors"
	"github.com/FXC-ai/sql-query-engine/pkg/models"
)

// Bind validates the caller-supplied arguments against the definition's
// parameter schema and returns the executable statement together with its
// ordered bind values.
//
// Validation is fail-fast and walks the schema in ascending declared order:
//   - a missing required parameter fails with MissingParameterError
//   - a missing optional parameter falls back to its default value, or to SQL
//     NULL when no default is declared
//   - a value that cannot be coerced into the declared type fails with
//     TypeMismatchError
//
// Argument keys with no matching descriptor are ignored; the schema is
// authoritative. No raw value ever ends up inside the statement text — values
// travel only through the returned bind slice.
//
// Two placeholder conventions are supported. A statement containing
// {{name}} template placeholders is rewritten to PostgreSQL positional
// parameters ($1, $2, ...), reusing the same $N when a name repeats, with
// bind values ordered by first appearance. A statement without templates is
// returned untouched and its values are ordered by the schema's declared
// order, matching its pre-written $1..$n placeholders.
func Bind(def *models.QueryDefinition, args models.Arguments) (string, []any, error) {
	ordered := def.OrderedParameters()

	coerced := make(map[string]any, len(ordered))
	for _, p := range ordered {
		raw, supplied := args[p.Name]
		if !supplied {
			if p.Required {
				return "", nil, &apperrors.MissingParameterError{Name: p.Name}
			}
			if p.DefaultValue == nil {
				coerced[p.Name] = nil
				continue
			}
			v, err := Coerce(*p.DefaultValue, p.Type)
			if err != nil {
				// A default that does not match its own declared type is
				// corrupt catalog metadata, not a caller mistake.
				return "", nil, &apperrors.StorageError{
					Op:  fmt.Sprintf("default value for parameter '%s'", p.Name),
					Err: err,
				}
			}
			coerced[p.Name] = v
			continue
		}

		v, err := Coerce(raw, p.Type)
		if err != nil {
			return "", nil, &apperrors.TypeMismatchError{
				Name:         p.Name,
				DeclaredType: p.Type.String(),
				RawValue:     raw,
				Reason:       err,
			}
		}
		coerced[p.Name] = v
	}

	names := ExtractParameters(def.SQLText)
	if len(names) == 0 {
		values := make([]any, 0, len(ordered))
		for _, p := range ordered {
			values = append(values, coerced[p.Name])
		}
		return def.SQLText, values, nil
	}

	return expandTemplate(def, names, coerced)
}

// expandTemplate rewrites {{name}} placeholders to $N and builds the bind
// value slice ordered by first appearance.
func expandTemplate(def *models.QueryDefinition, names []string, coerced map[string]any) (string, []any, error) {
	if bad := FindParametersInStringLiterals(def.SQLText); len(bad) > 0 {
		return "", nil, &apperrors.StorageError{
			Op:  fmt.Sprintf("statement for '%s'", def.ItemKey),
			Err: fmt.Errorf("placeholder {{%s}} inside a string literal cannot bind", bad[0]),
		}
	}
	for _, name := range names {
		if _, ok := def.ByName(name); !ok {
			return "", nil, &apperrors.StorageError{
				Op:  fmt.Sprintf("statement for '%s'", def.ItemKey),
				Err: fmt.Errorf("placeholder {{%s}} has no parameter descriptor", name),
			}
		}
	}

	var values []any
	positions := make(map[string]int, len(names))
	next := 1

	stmt := parameterRegex.ReplaceAllStringFunc(def.SQLText, func(match string) string {
		name := parameterRegex.FindStringSubmatch(match)[1]
		if pos, exists := positions[name]; exists {
			return fmt.Sprintf("$%d", pos)
		}
		positions[name] = next
		values = append(values, coerced[name])
		pos := next
		next++
		return fmt.Sprintf("$%d", pos)
	})

	return stmt, values, nil
}
