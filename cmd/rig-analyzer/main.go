// Package main provides the rig-analyzer CLI.
//
// rig-analyzer measures masticatory performance from images of chewed test
// food: particle size distribution for comminution samples and hue
// dispersion for two-colour chewing gum mixing samples. Frames come from
// saved images or from the rig camera with the stage and illumination
// driven over the serial link.
//
// Usage:
//
//	rig-analyzer comminution <image>
//	rig-analyzer mixing <image>
//	rig-analyzer batch mixing *.png --jobs 4
//	rig-analyzer acquire comminution
//
// See --help for all available options.
package main

import "runtime/debug"

func main() {
	configureRuntime()
	Execute()
}

// configureRuntime raises the GC target; full frames are tens of megabytes
// and are released explicitly.
func configureRuntime() {
	debug.SetGCPercent(200)
}
