package device

import (
	"fmt"
	"strconv"
	"strings"
)

// LEDCount is the number of addressable LEDs on the illumination board.
const LEDCount = 17

// LEDPattern selects LEDs; the firmware toggles every selected LED.
type LEDPattern [LEDCount]bool

// ParseLEDPattern parses 17 space-separated 0/1 values, with or without the
// leading "led" keyword.
func ParseLEDPattern(s string) (LEDPattern, error) {
	var p LEDPattern

	fields := strings.Fields(s)
	if len(fields) > 0 && fields[0] == "led" {
		fields = fields[1:]
	}
	if len(fields) != LEDCount {
		return p, fmt.Errorf("%w: expected %d values, got %d", ErrInvalidLEDPattern, LEDCount, len(fields))
	}

	for i, f := range fields {
		switch f {
		case "0":
		case "1":
			p[i] = true
		default:
			return p, fmt.Errorf("%w: value %d is %q, want 0 or 1", ErrInvalidLEDPattern, i, f)
		}
	}
	return p, nil
}

// Bits returns the pattern as space-separated 0/1 values.
func (p LEDPattern) Bits() string {
	var b strings.Builder
	for i, on := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		if on {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// String returns the controller command for the pattern.
func (p LEDPattern) String() string {
	return "led " + p.Bits()
}

// Active returns the number of selected LEDs.
func (p LEDPattern) Active() int {
	n := 0
	for _, on := range p {
		if on {
			n++
		}
	}
	return n
}

// MarshalText implements encoding.TextMarshaler for config files.
func (p LEDPattern) MarshalText() ([]byte, error) {
	return []byte(p.Bits()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for config files.
func (p *LEDPattern) UnmarshalText(text []byte) error {
	parsed, err := ParseLEDPattern(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// BrightnessRegions is the number of dimmable illumination regions.
const BrightnessRegions = 4

// brightnessSteps holds the LED index that lowers and the one that raises
// each region's brightness by one level.
var brightnessSteps = [BrightnessRegions]struct{ down, up int }{
	{down: 1, up: 3},
	{down: 5, up: 7},
	{down: 9, up: 11},
	{down: 13, up: 15},
}

// BrightnessStep returns the patterns moving region (1-based) by delta
// levels, one pattern per level. A zero delta needs no commands.
func BrightnessStep(region, delta int) ([]LEDPattern, error) {
	if region < 1 || region > BrightnessRegions {
		return nil, fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidRegion, region, BrightnessRegions)
	}

	step := brightnessSteps[region-1]
	led, n := step.up, delta
	if delta < 0 {
		led, n = step.down, -delta
	}

	var p LEDPattern
	p[led] = true
	out := make([]LEDPattern, n)
	for i := range out {
		out[i] = p
	}
	return out, nil
}

// MotorCommand returns the command moving the stage to position.
func MotorCommand(position int) string {
	return "motor " + strconv.Itoa(position)
}
