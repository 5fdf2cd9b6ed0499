package errors

import (
	"strconv"
	"strings"
)

// ValidateTerminalCount rejects terminal counts outside the domain of
// "number of terminals". Zero and one are valid and describe empty switches.
func ValidateTerminalCount(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidArgument, "terminal count must be non-negative, got %d", n)
	}
	return nil
}

// ValidateTerminalLimit checks n against an upper bound imposed by a caller
// such as the HTTP API. A non-positive limit disables the check.
func ValidateTerminalLimit(n, limit int) error {
	if err := ValidateTerminalCount(n); err != nil {
		return err
	}
	if limit > 0 && n > limit {
		return New(ErrCodeOutOfRange, "terminal count %d exceeds limit %d", n, limit)
	}
	return nil
}

// ParseTerminalCount parses a decimal terminal count as given on a command
// line or in a URL path.
//
// Validation rules:
//   - Surrounding whitespace is ignored
//   - The value must be a base-10 integer
//   - The value must be non-negative
func ParseTerminalCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, New(ErrCodeInvalidArgument, "terminal count cannot be empty")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidArgument, err, "invalid terminal count %q", s)
	}
	if err := ValidateTerminalCount(n); err != nil {
		return 0, err
	}
	return n, nil
}
