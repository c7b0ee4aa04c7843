package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrConfigNotFound is returned when an explicitly named file is missing.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidRadiusRange is returned when radius_min is not below radius_max.
	ErrInvalidRadiusRange = errors.New("invalid roi radius range: radius_min must be positive and below radius_max")

	// ErrInvalidKernelSize is returned for even or non-positive kernel sizes.
	ErrInvalidKernelSize = errors.New("invalid kernel size: must be a positive odd number")

	// ErrInvalidDiskReference is returned when the disk reference radii are not positive.
	ErrInvalidDiskReference = errors.New("invalid disk reference: radius_mm and radius_px must be positive")

	// ErrInvalidBaudRate is returned when the serial baudrate is not positive.
	ErrInvalidBaudRate = errors.New("invalid baudrate: must be positive")

	// ErrInvalidSaturation is returned for saturation thresholds outside [0, 255].
	ErrInvalidSaturation = errors.New("invalid saturation threshold: must be within [0, 255]")

	// ErrInvalidDelay is returned for negative delays or timeouts.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")
)
