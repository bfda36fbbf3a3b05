// Package sql implements the pure parameter engine: placeholder extraction,
// raw-value coercion, and argument binding. Nothing here touches a database.
package sql

import "regexp"

// parameterRegex matches {{parameter_name}} placeholders in SQL templates.
// Parameter names must start with a letter or underscore, followed by any
// number of alphanumeric characters or underscores.
var parameterRegex = regexp.MustCompile(`\{\{([a-zA-Z_]\w*)\}\}`)

// ExtractParameters finds all {{param}} placeholders in a SQL template and
// returns the deduplicated parameter names in order of first appearance.
// An empty result means the statement uses plain positional placeholders
// ($1, $2, ...) and values are bound by declared order instead.
func ExtractParameters(sqlText string) []string {
	matches := parameterRegex.FindAllStringSubmatch(sqlText, -1)
	seen := make(map[string]bool)
	var params []string

	for _, match := range matches {
		name := match[1]
		if !seen[name] {
			seen[name] = true
			params = append(params, name)
		}
	}

	return params
}

// FindParametersInStringLiterals reports {{param}} placeholders that sit
// inside single-quoted SQL string literals. A placeholder there would be
// rewritten to $N inside the literal and never bind, so such a template is
// rejected as defective catalog data.
func FindParametersInStringLiterals(sqlText string) []string {
	var problems []string
	seen := make(map[string]bool)

	inString := false
	stringStart := 0
	i := 0

	for i < len(sqlText) {
		ch := sqlText[i]

		if ch == '\'' {
			if inString {
				// Escaped quote ('') stays inside the literal.
				if i+1 < len(sqlText) && sqlText[i+1] == '\'' {
					i += 2
					continue
				}
				stringContent := sqlText[stringStart+1 : i]
				matches := parameterRegex.FindAllStringSubmatch(stringContent, -1)
				for _, match := range matches {
					name := match[1]
					if !seen[name] {
						seen[name] = true
						problems = append(problems, name)
					}
				}
				inString = false
			} else {
				inString = true
				stringStart = i
			}
		}
		i++
	}

	return problems
}
