package sql

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/FXC-ai/sql-query-engine/pkg/models"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// Coerce converts a raw textual value into the native representation of the
// declared type. The result is suitable for the driver's parameter-binding
// API; it is never interpolated into statement text.
func Coerce(raw string, t models.ParamType) (any, error) {
	switch t {
	case models.TypeText:
		return raw, nil

	case models.TypeBoolean:
		switch strings.ToLower(raw) {
		case "true", "1", "yes", "on":
			return true, nil
		case "false", "0", "no", "off":
			return false, nil
		}
		return nil, fmt.Errorf("expected true/false, 1/0, yes/no or on/off")

	case models.TypeInteger:
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("expected a 32-bit integer")
		}
		return int32(v), nil

	case models.TypeBigint:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a 64-bit integer")
		}
		return v, nil

	case models.TypeFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a floating-point number")
		}
		return v, nil

	case models.TypeDate:
		v, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("expected format YYYY-MM-DD")
		}
		return v, nil

	case models.TypeTimestamp:
		if v, err := time.Parse(timestampLayout, raw); err == nil {
			return v, nil
		}
		if v, err := time.Parse(time.RFC3339, raw); err == nil {
			return v, nil
		}
		return nil, fmt.Errorf("expected format YYYY-MM-DD HH:MM:SS or RFC 3339")
	}

	return nil, fmt.Errorf("unsupported parameter type %q", t)
}
