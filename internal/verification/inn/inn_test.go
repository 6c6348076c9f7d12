package inn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want INN
	}{
		{"organization 10 digits", "7700000000", INN("7700000000")},
		{"entrepreneur 12 digits", "770000000000", INN("770000000000")},
		{"surrounding whitespace trimmed", "  7700000000\n", INN("7700000000")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"too short", "123"},
		{"eleven digits", "77000000000"},
		{"thirteen digits", "7700000000000"},
		{"letters", "77000000ab"},
		{"internal space", "77000 00000"},
		{"sign prefix", "+770000000"},
		{"unicode digits rejected", "７７０００００００0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			require.Error(t, err)

			var invalidErr *InvalidError
			require.ErrorAs(t, err, &invalidErr)
			assert.Equal(t, tt.raw, invalidErr.Raw, "error should carry the rejected raw value")
		})
	}
}
