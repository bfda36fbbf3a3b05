package sql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FXC-ai/sql-query-engine/pkg/models"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		paramType models.ParamType
		expected  any
		wantErr   bool
	}{
		{name: "text passes through", raw: "hello world", paramType: models.TypeText, expected: "hello world"},
		{name: "empty text is valid", raw: "", paramType: models.TypeText, expected: ""},

		{name: "boolean true", raw: "true", paramType: models.TypeBoolean, expected: true},
		{name: "boolean false", raw: "false", paramType: models.TypeBoolean, expected: false},
		{name: "boolean 1", raw: "1", paramType: models.TypeBoolean, expected: true},
		{name: "boolean 0", raw: "0", paramType: models.TypeBoolean, expected: false},
		{name: "boolean yes", raw: "yes", paramType: models.TypeBoolean, expected: true},
		{name: "boolean OFF case-insensitive", raw: "OFF", paramType: models.TypeBoolean, expected: false},
		{name: "boolean on", raw: "on", paramType: models.TypeBoolean, expected: true},
		{name: "boolean invalid", raw: "maybe", paramType: models.TypeBoolean, wantErr: true},

		{name: "integer", raw: "42", paramType: models.TypeInteger, expected: int32(42)},
		{name: "integer negative", raw: "-7", paramType: models.TypeInteger, expected: int32(-7)},
		{name: "integer overflow", raw: "3000000000", paramType: models.TypeInteger, wantErr: true},
		{name: "integer not a number", raw: "abc", paramType: models.TypeInteger, wantErr: true},

		{name: "bigint", raw: "9007199254740993", paramType: models.TypeBigint, expected: int64(9007199254740993)},
		{name: "bigint invalid", raw: "12.5", paramType: models.TypeBigint, wantErr: true},

		{name: "float", raw: "99.95", paramType: models.TypeFloat, expected: 99.95},
		{name: "float integer form", raw: "100", paramType: models.TypeFloat, expected: 100.0},
		{name: "float invalid", raw: "ninety", paramType: models.TypeFloat, wantErr: true},

		{name: "date", raw: "2024-01-15", paramType: models.TypeDate, expected: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "date invalid", raw: "15/01/2024", paramType: models.TypeDate, wantErr: true},
		{name: "date empty", raw: "", paramType: models.TypeDate, wantErr: true},

		{name: "timestamp SQL layout", raw: "2024-01-15 10:30:00", paramType: models.TypeTimestamp, expected: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{name: "timestamp RFC3339", raw: "2024-01-15T10:30:00Z", paramType: models.TypeTimestamp, expected: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{name: "timestamp invalid", raw: "yesterday", paramType: models.TypeTimestamp, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.raw, tt.paramType)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
