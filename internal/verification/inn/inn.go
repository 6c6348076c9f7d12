// Package inn defines the tax identifier value type. Parsing happens once at
// the service boundary; everything downstream works with the validated value.
package inn

import (
	"fmt"
	"strings"
)

// INN is a validated Russian tax registration number: 10 digits for an
// organization, 12 for an individual entrepreneur. It is used verbatim as
// the verification cache key.
type INN string

// InvalidError reports a syntactically invalid identifier. It carries the
// rejected raw value for error messages.
type InvalidError struct {
	Raw string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid inn %q: must be exactly 10 or 12 digits", e.Raw)
}

// Parse validates a raw identifier after trimming surrounding whitespace.
// No network or cache access happens here.
func Parse(raw string) (INN, error) {
	trimmed := strings.TrimSpace(raw)
	if (len(trimmed) != 10 && len(trimmed) != 12) || !isDigits(trimmed) {
		return "", &InvalidError{Raw: raw}
	}
	return INN(trimmed), nil
}

func (i INN) String() string {
	return string(i)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
