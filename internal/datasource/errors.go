package datasource

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration matches every ConfigurationError via errors.Is
var ErrConfiguration = errors.New("datasource configuration error")

// ConfigurationError reports missing or unusable connection settings.
// It is fatal at startup.
type ConfigurationError struct {
	Strategy Strategy
	Missing  []string
	Msg      string
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("datasource (%s): %s", e.Strategy, e.Msg)
	}
	return fmt.Sprintf("datasource (%s): %s: %s", e.Strategy, e.Msg, strings.Join(e.Missing, ", "))
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
