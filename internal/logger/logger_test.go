package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"":        zerolog.InfoLevel,
		"INFO":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
	}
	for name, want := range cases {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestZerologAdapterTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.DebugLevel)

	log.Info("Sequencer", "frame captured", map[string]interface{}{"station": "mixing"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Sequencer", entry["component"])
	assert.Equal(t, "mixing", entry["station"])
	assert.Equal(t, "frame captured", entry["message"])
}

func TestZerologAdapterError(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.InfoLevel)

	log.Debug("Sequencer", "hidden", nil)
	assert.Zero(t, buf.Len())

	log.Error("Sequencer", errors.New("stage stalled"), nil)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "stage stalled", entry["error"])
	assert.Equal(t, "operation failed", entry["message"])
}

func TestZerologAdapterErrorMessage(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.InfoLevel)

	log.Error("Sequencer", errors.New("no frame"), map[string]interface{}{
		MessageKey: "acquisition failed",
		"station":  "mixing",
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "acquisition failed", entry["message"])
	assert.Equal(t, "mixing", entry["station"])
	assert.NotContains(t, entry, MessageKey)
}

func TestZerologAdapterWith(t *testing.T) {
	var buf bytes.Buffer
	parent := NewZerolog(&buf, zerolog.DebugLevel)
	child := parent.With(map[string]interface{}{"port": "/dev/ttyUSB0"})

	child.Debug("LineChannel", "sent", map[string]interface{}{"command": "motor 0"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "/dev/ttyUSB0", entry["port"])
	assert.Equal(t, "motor 0", entry["command"])

	buf.Reset()
	parent.Info("LineChannel", "plain", nil)
	entry = nil
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "port")

	assert.Same(t, parent, parent.With(nil))
}

func TestNop(t *testing.T) {
	log := Nop().With(map[string]interface{}{"k": 1})
	log.Error("x", errors.New("ignored"), nil)
}
