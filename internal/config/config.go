package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"mastication-analyzer/internal/comminution"
	"mastication-analyzer/internal/device"
	"mastication-analyzer/internal/mixing"
	"mastication-analyzer/internal/roi"

	"github.com/adrg/xdg"
)

// AppName names the XDG config subdirectory.
const AppName = "mastication-analyzer"

// Config is the whole rig configuration.
type Config struct {
	Camera      CameraConfig      `yaml:"camera"`
	Serial      SerialConfig      `yaml:"serial"`
	DiskRef     DiskRefConfig     `yaml:"disk_ref"`
	Comminution ComminutionConfig `yaml:"comminution"`
	Mixing      MixingConfig      `yaml:"mixing"`
	Output      OutputConfig      `yaml:"output"`
}

type CameraConfig struct {
	Device       int     `yaml:"device"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	ExposureTime float64 `yaml:"exposure_time"`
	ExposureAuto string  `yaml:"exposure_auto"`
	Gain         float64 `yaml:"gain"`
	GainAuto     string  `yaml:"gain_auto"`
}

type SerialConfig struct {
	Port         string  `yaml:"port"`
	BaudRate     int     `yaml:"baudrate"`
	DelayTime    float64 `yaml:"delay_time"`    // seconds between stage/LED moves
	Timeout      float64 `yaml:"timeout"`       // seconds to wait for OK
	StartupDelay float64 `yaml:"startup_delay"` // seconds after opening the port
}

// DiskRefConfig relates the physical disk radius to its radius in pixels.
type DiskRefConfig struct {
	RadiusMM float64 `yaml:"radius_mm"`
	RadiusPX float64 `yaml:"radius_px"`
}

type ComminutionConfig struct {
	ROI                     roi.Params        `yaml:"roi"`
	RimMargin               int               `yaml:"rim_margin"`
	SaturationThresholdSeed float64           `yaml:"saturation_threshold_seed"`
	MorphKernelSize         int               `yaml:"morph_kernel_size"`
	RangeBinSize            float64           `yaml:"range_bin_size"`
	OverlaySeed             uint64            `yaml:"overlay_seed"`
	MotorPosition           int               `yaml:"motor_position"`
	LEDPattern              device.LEDPattern `yaml:"led_pattern"`
}

type MixingConfig struct {
	ROI              roi.Params        `yaml:"roi"`
	SaturationLower  float64           `yaml:"saturation_lower"`
	SaturationUpper  float64           `yaml:"saturation_upper"`
	MedianKernelSize int               `yaml:"median_kernel_size"`
	MorphKernelSize  int               `yaml:"morph_kernel_size"`
	DilateKernelSize int               `yaml:"dilate_kernel_size"`
	ErodeKernelSize  int               `yaml:"erode_kernel_size"`
	MotorPosition    int               `yaml:"motor_position"`
	LEDPattern       device.LEDPattern `yaml:"led_pattern"`
}

type OutputConfig struct {
	// SnapshotDir receives every captured frame when set.
	SnapshotDir string `yaml:"snapshot_dir"`
}

// defaultLEDs is the four-LED ring used for both stations.
var defaultLEDs = device.LEDPattern{
	true, false, false, false,
	true, false, false, false,
	true, false, false, false,
	true, false, false, false,
	false,
}

// NewConfig returns the configuration the rig ships with.
func NewConfig() *Config {
	cam := device.DefaultCameraSettings()
	cc := comminution.DefaultConfig()
	mc := mixing.DefaultConfig()

	return &Config{
		Camera: CameraConfig{
			Width:        cam.Width,
			Height:       cam.Height,
			ExposureTime: cam.ExposureTime,
			ExposureAuto: "Off",
			Gain:         cam.Gain,
			GainAuto:     "Off",
		},
		Serial: SerialConfig{
			Port:         "/dev/ttyUSB0",
			BaudRate:     115200,
			DelayTime:    1,
			Timeout:      device.DefaultCommandTimeout.Seconds(),
			StartupDelay: 2,
		},
		DiskRef: DiskRefConfig{
			RadiusMM: 50,
			RadiusPX: 1170,
		},
		Comminution: ComminutionConfig{
			ROI:                     cc.ROI,
			RimMargin:               cc.RimMargin,
			SaturationThresholdSeed: cc.SaturationSeed,
			MorphKernelSize:         cc.CloseKernelSize,
			RangeBinSize:            cc.RangeBinSize,
			MotorPosition:           0,
			LEDPattern:              defaultLEDs,
		},
		Mixing: MixingConfig{
			ROI:              mc.ROI,
			SaturationLower:  mc.SaturationLower,
			SaturationUpper:  mc.SaturationUpper,
			MedianKernelSize: mc.MedianKernelSize,
			MorphKernelSize:  mc.CloseKernelSize,
			DilateKernelSize: mc.DilateKernelSize,
			ErodeKernelSize:  mc.ErodeKernelSize,
			MotorPosition:    140,
			LEDPattern:       defaultLEDs,
		},
	}
}

// XDGConfigDir returns the per-user configuration directory.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration. Pipeline settings are checked again by
// the pipelines themselves.
func (c *Config) Validate() error {
	var errs []error

	if err := validateROI(c.Comminution.ROI); err != nil {
		errs = append(errs, fmt.Errorf("comminution.roi: %w", err))
	}
	if err := validateROI(c.Mixing.ROI); err != nil {
		errs = append(errs, fmt.Errorf("mixing.roi: %w", err))
	}

	kernels := map[string]int{
		"comminution.morph_kernel_size": c.Comminution.MorphKernelSize,
		"mixing.median_kernel_size":     c.Mixing.MedianKernelSize,
		"mixing.morph_kernel_size":      c.Mixing.MorphKernelSize,
		"mixing.dilate_kernel_size":     c.Mixing.DilateKernelSize,
		"mixing.erode_kernel_size":      c.Mixing.ErodeKernelSize,
	}
	for _, name := range sortedKeys(kernels) {
		if size := kernels[name]; size < 1 || size%2 == 0 {
			errs = append(errs, fmt.Errorf("%s=%d: %w", name, size, ErrInvalidKernelSize))
		}
	}

	if c.DiskRef.RadiusMM <= 0 || c.DiskRef.RadiusPX <= 0 {
		errs = append(errs, ErrInvalidDiskReference)
	}
	if c.Serial.BaudRate <= 0 {
		errs = append(errs, ErrInvalidBaudRate)
	}
	if c.Serial.DelayTime < 0 || c.Serial.Timeout < 0 || c.Serial.StartupDelay < 0 {
		errs = append(errs, ErrInvalidDelay)
	}

	sat := []float64{c.Comminution.SaturationThresholdSeed, c.Mixing.SaturationLower, c.Mixing.SaturationUpper}
	for _, v := range sat {
		if v < 0 || v > 255 {
			errs = append(errs, ErrInvalidSaturation)
			break
		}
	}

	return errors.Join(errs...)
}

func validateROI(p roi.Params) error {
	if p.RadiusMin <= 0 || p.RadiusMin >= p.RadiusMax {
		return ErrInvalidRadiusRange
	}
	if p.BlurKernelSize < 1 || p.BlurKernelSize%2 == 0 {
		return fmt.Errorf("blur_kernel_size=%d: %w", p.BlurKernelSize, ErrInvalidKernelSize)
	}
	return nil
}

// PixelSizeMM returns the pixel edge length derived from the disk reference.
func (c *Config) PixelSizeMM() (float64, error) {
	return comminution.PixelSize(c.DiskRef.RadiusMM, c.DiskRef.RadiusPX)
}

// ComminutionParams builds the comminution pipeline configuration.
func (c *Config) ComminutionParams() (comminution.Config, error) {
	px, err := c.PixelSizeMM()
	if err != nil {
		return comminution.Config{}, err
	}
	cc := comminution.Config{
		ROI:             c.Comminution.ROI,
		RimMargin:       c.Comminution.RimMargin,
		SaturationSeed:  c.Comminution.SaturationThresholdSeed,
		CloseKernelSize: c.Comminution.MorphKernelSize,
		PixelSizeMM:     px,
		OverlaySeed:     c.Comminution.OverlaySeed,
		RangeBinSize:    c.Comminution.RangeBinSize,
	}
	return cc, cc.Validate()
}

// MixingParams builds the mixing pipeline configuration.
func (c *Config) MixingParams() (mixing.Config, error) {
	mc := mixing.Config{
		ROI:              c.Mixing.ROI,
		SaturationLower:  c.Mixing.SaturationLower,
		SaturationUpper:  c.Mixing.SaturationUpper,
		MedianKernelSize: c.Mixing.MedianKernelSize,
		CloseKernelSize:  c.Mixing.MorphKernelSize,
		DilateKernelSize: c.Mixing.DilateKernelSize,
		ErodeKernelSize:  c.Mixing.ErodeKernelSize,
	}
	return mc, mc.Validate()
}

// SerialOptions converts the serial section for device.OpenSerial.
func (c *Config) SerialOptions() device.SerialOptions {
	return device.SerialOptions{
		BaudRate:     c.Serial.BaudRate,
		StartupDelay: seconds(c.Serial.StartupDelay),
		Timeout:      seconds(c.Serial.Timeout),
	}
}

// SettleDelay is the pause after every stage or LED command.
func (c *Config) SettleDelay() time.Duration {
	return seconds(c.Serial.DelayTime)
}

// CameraSettings converts the camera section for device.OpenCamera.
func (c *Config) CameraSettings() device.CameraSettings {
	return device.CameraSettings{
		Device:       c.Camera.Device,
		Width:        c.Camera.Width,
		Height:       c.Camera.Height,
		ExposureTime: c.Camera.ExposureTime,
		ExposureAuto: isAuto(c.Camera.ExposureAuto),
		Gain:         c.Camera.Gain,
		GainAuto:     isAuto(c.Camera.GainAuto),
	}
}

func isAuto(mode string) bool {
	switch mode {
	case "", "Off", "off", "false":
		return false
	default:
		return true
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
