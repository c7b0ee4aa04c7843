package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the component-tagged structured logger used outside the
// analysis core.
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})

	// With returns a logger adding fields to every event.
	With(fields map[string]interface{}) Logger
}

// ParseLevel maps a CLI level name to a zerolog level.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return NewZerolog(io.Discard, zerolog.Disabled)
}
