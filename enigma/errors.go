package enigma

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is wrapped by every error New and SetWindow
// return, so callers can test with errors.Is.
var ErrInvalidConfiguration = errors.New("invalid configuration")

func invalidf(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, a...))
}

// letterOffset converts 'A'..'Z' (or 'a'..'z') to 0..25.
func letterOffset(c byte) (int, bool) {
	switch {
	case c >= 'A' && c <= 'Z':
		return int(c - 'A'), true
	case c >= 'a' && c <= 'z':
		return int(c - 'a'), true
	default:
		return 0, false
	}
}
