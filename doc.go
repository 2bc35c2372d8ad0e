// Package thermalpaint turns brush strokes into ThermoBlinds movements.
//
// A brush carries two bend sensors and a webcam. When a stroke bends one of
// the sensors, the color under the matching side of the camera image is
// sampled and converted into a fin angle for the blinds servo: warm colors
// open the fins, cool colors close them.
//
// # Installation
//
//	go install github.com/gwillem/thermalpaint/cmd/thermalpaint@latest
//
// # Usage
//
// First, run setup to find the brush and blinds serial ports:
//
//	thermalpaint setup
//
// Calibrate the sensor baselines and color-picking positions:
//
//	thermalpaint calibrate
//
// Then start painting:
//
//	thermalpaint run
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/thermalpaint: CLI with setup, calibrate and run commands
//   - pkg/paint: Calibration parameters, stroke detection and color mapping
//   - pkg/control: Paint control loop
//   - pkg/calibrate: Interactive calibration procedure
//   - pkg/brush: Bend-sensor serial reader
//   - pkg/camera: Webcam capture and preview window
//   - pkg/blinds: ThermoBlinds servo
//   - pkg/config: Rig configuration
package thermalpaint
