package source

import (
	"math"
	"time"

	"github.com/relabs-tech/attitude_visualizer/internal/orientation"
)

// DefaultPlaybackRate is the replay cadence in frames per second.
const DefaultPlaybackRate = 60.0

// Playback replays a finite recorded pose sequence at a fixed frame
// rate. The cursor advances one frame per elapsed time quantum and wraps
// at the end of the sequence, so playback loops forever rather than
// halting on the last frame.
type Playback struct {
	frames []orientation.Pose
	rate   float64
	start  time.Time
	now    func() time.Time
}

// NewPlayback creates a playback source over the given frames. A nil or
// empty sequence falls back to DefaultSequence; a non-positive rate
// falls back to DefaultPlaybackRate.
func NewPlayback(frames []orientation.Pose, rate float64) *Playback {
	if len(frames) == 0 {
		frames = DefaultSequence()
	}
	if rate <= 0 {
		rate = DefaultPlaybackRate
	}
	return &Playback{
		frames: frames,
		rate:   rate,
		start:  time.Now(),
		now:    time.Now,
	}
}

// NewPlaybackAt is NewPlayback with an injectable clock for tests.
func NewPlaybackAt(frames []orientation.Pose, rate float64, start time.Time, now func() time.Time) *Playback {
	p := NewPlayback(frames, rate)
	p.start = start
	p.now = now
	return p
}

// Latest returns the frame under the playback cursor.
func (p *Playback) Latest() (orientation.Sample, bool) {
	t := p.now()
	idx := int(t.Sub(p.start).Seconds()*p.rate) % len(p.frames)
	if idx < 0 {
		idx = 0
	}
	return orientation.Sample{Pose: p.frames[idx], Time: t}, true
}

// Status reports playback mode.
func (p *Playback) Status() orientation.Status {
	return orientation.StatusPlayback
}

// Stop is a no-op: playback has no background activity.
func (p *Playback) Stop() {}

// DefaultSequence is the built-in demo recording: two minutes of slow
// interleaved rotations at 60 fps.
func DefaultSequence() []orientation.Pose {
	frames := make([]orientation.Pose, 720)
	for i := range frames {
		frames[i] = orientation.Pose{
			Roll:  40 * math.Sin(float64(i)/10),
			Pitch: 30 * math.Sin(float64(i)/12),
			Yaw:   90 * math.Sin(float64(i)/15),
		}
	}
	return frames
}
