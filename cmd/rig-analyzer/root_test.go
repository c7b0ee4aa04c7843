package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"mastication-analyzer/internal/config"
	"mastication-analyzer/internal/device"
	"mastication-analyzer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// run executes the CLI with an empty configuration file.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{}\n"), 0o600))

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgPath, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "rig-analyzer", cmd.Use)
	assert.NotEmpty(t, cmd.Long)
	assert.NotEmpty(t, cmd.Version)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"comminution", "mixing", "batch", "acquire", "motor", "led", "led-level", "init", "ports", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rig-analyzer version")
}

func TestInvalidLogLevel(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--log-level", "loud", "comminution", "x.png"})
	assert.Error(t, cmd.Execute())
}

func TestMissingConfigFile(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "comminution", "x.png"})
	assert.Error(t, cmd.Execute())
}

func TestComminutionRequiresDisk(t *testing.T) {
	blank := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 300, 300, gocv.MatTypeCV8UC3)
	defer blank.Close()
	path := filepath.Join(t.TempDir(), "blank.png")
	require.True(t, gocv.IMWrite(path, blank))

	_, err := run(t, "comminution", path)
	assert.ErrorIs(t, err, models.ErrROINotFound)
}

func TestAnalyzeRejectsUnreadableImage(t *testing.T) {
	_, err := run(t, "mixing", filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, models.ErrInvalidImageFormat)
}

func TestAnalyzeRejectsUnknownFormat(t *testing.T) {
	blank := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 50, 50, gocv.MatTypeCV8UC3)
	defer blank.Close()
	path := filepath.Join(t.TempDir(), "blank.png")
	require.True(t, gocv.IMWrite(path, blank))

	_, err := run(t, "mixing", "--format", "csv", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report format")
}

func TestBatchAllFailed(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "batch", "comminution", filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 files failed")
	assert.Contains(t, out, "## Failures")
}

func TestBatchUnknownKind(t *testing.T) {
	_, err := run(t, "batch", "colour", "a.png")
	assert.Error(t, err)
}

func TestLEDCmdArgs(t *testing.T) {
	_, err := run(t, "led", "1", "0")
	assert.Error(t, err)
}

func TestMotorCmdInvalidPosition(t *testing.T) {
	_, err := run(t, "motor", "up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid motor position")
}

func TestLEDLevelCmdInvalidRegion(t *testing.T) {
	_, err := run(t, "led-level", "9", "-1")
	assert.ErrorIs(t, err, device.ErrInvalidRegion)
}

func TestLEDLevelCmdInvalidDelta(t *testing.T) {
	_, err := run(t, "led-level", "2", "up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid delta")
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := run(t, "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "configuration written to")

	cfg, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig().Mixing.LEDPattern, cfg.Mixing.LEDPattern)
	assert.Equal(t, 140, cfg.Mixing.MotorPosition)

	_, err = run(t, "init", "-o", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = run(t, "init", "-o", path, "-f")
	assert.NoError(t, err)
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "/tmp/out_hsv.png", withSuffix("/tmp/out.png", "_hsv"))
	assert.Equal(t, "out_hsv", withSuffix("out", "_hsv"))
}

func TestMixingJSONReport(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(20, 20, 20, 0), 600, 600, gocv.MatTypeCV8UC3)
	defer frame.Close()
	gocv.Rectangle(&frame, image.Rect(200, 200, 400, 400), color.RGBA{R: 200}, -1)

	dir := t.TempDir()
	path := filepath.Join(dir, "gum.png")
	require.True(t, gocv.IMWrite(path, frame))
	annotated := filepath.Join(dir, "masked.png")

	out, err := run(t, "mixing", "--format", "json", "--annotated", annotated, path)
	require.NoError(t, err)

	var got struct {
		DiskFound  bool `json:"disk_found"`
		Histograms struct {
			Hue        []float64 `json:"hue"`
			Saturation []float64 `json:"saturation"`
			Value      []float64 `json:"value"`
		} `json:"histograms"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.DiskFound)
	assert.Len(t, got.Histograms.Hue, 180)
	assert.Len(t, got.Histograms.Saturation, 256)
	assert.Len(t, got.Histograms.Value, 256)

	for _, p := range []string{annotated, filepath.Join(dir, "masked_hsv.png")} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
}
