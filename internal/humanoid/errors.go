package humanoid

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the sentinel matched by every configuration failure:
// invalid sampling ranges, malformed curve parameters and bad options.
var ErrConfiguration = errors.New("humanoid: invalid configuration")

// ConfigError describes which field failed validation and why.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("humanoid: invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrConfiguration) match.
func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

func configErrorf(field, format string, args ...interface{}) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
