package orientation

import "time"

// Pose is the canonical representation of orientation for your app.
// Angles are in degrees.
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Sample is a raw pose as received from a device, stamped with the
// wall-clock time it was decoded. Samples are immutable once produced;
// a newer sample simply supersedes the previous one.
type Sample struct {
	Pose
	Time time.Time `json:"time"`
}

// Status describes the lifecycle of a sample source.
type Status string

const (
	StatusRunning      Status = "running"
	StatusMock         Status = "mock"
	StatusPlayback     Status = "playback"
	StatusDisconnected Status = "disconnected"
)

// Source is anything that can provide samples over time: serial device,
// mock generator, replay of a recorded sequence.
//
// Latest returns the most recent sample (false until the first one has
// arrived). It must never block on I/O; serial sources update their
// latest sample from a background loop. Stop halts any background
// activity and does not return until it has fully exited.
type Source interface {
	Latest() (Sample, bool)
	Status() Status
	Stop()
}
