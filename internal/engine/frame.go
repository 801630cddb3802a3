package engine

import (
	"github.com/relabs-tech/attitude_visualizer/internal/orientation"
	"github.com/relabs-tech/attitude_visualizer/internal/trail"
)

// Frame is the per-tick render output: everything a presentation layer
// (web, console, OLED) needs to draw the indicator, the trail and the
// numeric readouts. It is the seam between the core and the renderer.
type Frame struct {
	// Quaternion is the rendered rotation; Quaternion.Matrix() gives the
	// equivalent rotation matrix.
	Quaternion orientation.Quat `json:"quaternion"`
	// Angles are the smoothed, calibrated roll/pitch/yaw in degrees.
	Angles orientation.Pose `json:"angles"`
	// Meters are the angles normalized to [0,1] via (angle+180)/360.
	Meters [3]float64 `json:"meters"`
	// Trail holds the visible history entries, newest first.
	Trail []trail.Entry `json:"trail,omitempty"`

	Paused bool               `json:"paused"`
	Source string             `json:"source"`
	Status orientation.Status `json:"status"`
	Tick   uint64             `json:"tick"`
}

func meter(angle float64) float64 {
	v := (angle + 180) / 360
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
