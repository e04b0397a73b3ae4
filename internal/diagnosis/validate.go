package diagnosis

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Query length bounds, in characters of the trimmed query.
const (
	MinQueryLen = 10
	MaxQueryLen = 500
)

// Validate checks a raw query against the length bounds. The query is
// trimmed before every check. A nil return means the query is acceptable;
// otherwise the error unwraps to ErrInvalidQuery and carries a
// human-readable reason.
func Validate(rawQuery string) error {
	q := strings.TrimSpace(rawQuery)
	if q == "" {
		return newValidationError("Query cannot be empty")
	}
	switch n := utf8.RuneCountInString(q); {
	case n < MinQueryLen:
		return newValidationError(fmt.Sprintf("Query too short (min %d chars)", MinQueryLen))
	case n > MaxQueryLen:
		return newValidationError(fmt.Sprintf("Query too long (max %d chars)", MaxQueryLen))
	}
	return nil
}
