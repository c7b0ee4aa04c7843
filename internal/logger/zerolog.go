package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// MessageKey is the field Error reads its event message from. Without it
// the message is "operation failed".
const MessageKey = "msg"

type ZerologAdapter struct {
	logger zerolog.Logger
}

func NewZerolog(writer io.Writer, level zerolog.Level) *ZerologAdapter {
	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &ZerologAdapter{logger: logger}
}

// NewConsoleLogger writes human-readable output to stderr so reports on
// stdout stay clean.
func NewConsoleLogger(level zerolog.Level) *ZerologAdapter {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr}
	return NewZerolog(consoleWriter, level)
}

// With returns a child logger that adds fields to every event.
func (z *ZerologAdapter) With(fields map[string]interface{}) Logger {
	if len(fields) == 0 {
		return z
	}
	return &ZerologAdapter{logger: z.logger.With().Fields(fields).Logger()}
}

func (z *ZerologAdapter) Info(component, message string, fields map[string]interface{}) {
	emit(z.logger.Info(), component, fields).Msg(message)
}

// Error logs err. fields[MessageKey], when a string, becomes the message.
func (z *ZerologAdapter) Error(component string, err error, fields map[string]interface{}) {
	message := "operation failed"
	if m, ok := fields[MessageKey].(string); ok && m != "" {
		message = m
	}
	emit(z.logger.Error().Err(err), component, fields).Msg(message)
}

func (z *ZerologAdapter) Warning(component, message string, fields map[string]interface{}) {
	emit(z.logger.Warn(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Debug(component, message string, fields map[string]interface{}) {
	emit(z.logger.Debug(), component, fields).Msg(message)
}

func emit(event *zerolog.Event, component string, fields map[string]interface{}) *zerolog.Event {
	event = event.Str("component", component)
	for k, v := range fields {
		if k == MessageKey {
			continue
		}
		event = event.Interface(k, v)
	}
	return event
}
