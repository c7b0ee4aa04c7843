// Package config loads the rig configuration: camera and serial settings,
// the physical disk reference, and the parameters of both analysis pipelines.
//
// The file is YAML. Lookup order is an explicit path, then config.yaml in the
// working directory, then the XDG config directory. Missing keys keep their
// defaults.
package config
