package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"

	"github.com/FXC-ai/sql-query-engine/pkg/models"
)

// InjectionCheckResult describes an argument value flagged by libinjection.
type InjectionCheckResult struct {
	Fingerprint string // libinjection fingerprint of the detected pattern
	ParamName   string
	ParamValue  string
}

// CheckArgument screens one raw argument value for SQL injection patterns.
// Returns nil when the value is clean. This screen is defense in depth on top
// of parameterized binding, which already keeps values out of statement text.
func CheckArgument(name, value string) *InjectionCheckResult {
	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{
		Fingerprint: string(fingerprint),
		ParamName:   name,
		ParamValue:  value,
	}
}

// CheckArguments screens every supplied argument value and returns a result
// per flagged value, or an empty slice when all are clean.
func CheckArguments(args models.Arguments) []*InjectionCheckResult {
	var results []*InjectionCheckResult
	for name, value := range args {
		if result := CheckArgument(name, value); result != nil {
			results = append(results, result)
		}
	}
	return results
}
