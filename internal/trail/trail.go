// Package trail keeps a bounded history of rendered orientations with
// age-based opacity for the fading motion trail.
package trail

import "github.com/relabs-tech/attitude_visualizer/internal/orientation"

// DefaultBaseAlpha is the opacity of a hypothetical zero-age entry;
// entry k of a visible window of n gets baseAlpha*(1-(k+1)/n).
const DefaultBaseAlpha = 0.7

// Entry is one visible trail element, newest first.
type Entry struct {
	Quaternion orientation.Quat `json:"quaternion"`
	Opacity    float64          `json:"opacity"`
}

// Buffer is a fixed-capacity ring of past orientations. Pushing beyond
// capacity overwrites the oldest slot, so memory stays bounded. The
// visible length is adjustable at runtime without touching the ring:
// shrinking it hides entries, growing it brings them back.
type Buffer struct {
	ring      []orientation.Quat
	pos       int
	count     int
	visible   int
	baseAlpha float64
}

// New creates a trail buffer. Capacity is fixed for the buffer's
// lifetime; visible is clamped to [0, capacity].
func New(capacity, visible int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	b := &Buffer{
		ring:      make([]orientation.Quat, capacity),
		baseAlpha: DefaultBaseAlpha,
	}
	b.SetVisible(visible)
	return b
}

// Capacity returns the fixed ring capacity.
func (b *Buffer) Capacity() int {
	return len(b.ring)
}

// Len returns how many entries the ring currently holds.
func (b *Buffer) Len() int {
	return b.count
}

// Visible returns the current visible length.
func (b *Buffer) Visible() int {
	return b.visible
}

// SetVisible clamps and stores the visible length. The ring itself is
// untouched, so previously hidden entries reappear when it grows.
func (b *Buffer) SetVisible(n int) {
	if n < 0 {
		n = 0
	}
	if n > len(b.ring) {
		n = len(b.ring)
	}
	b.visible = n
}

// Push records q as the newest entry, evicting the oldest slot when the
// ring is full.
func (b *Buffer) Push(q orientation.Quat) {
	b.ring[b.pos] = q
	b.pos = (b.pos + 1) % len(b.ring)
	if b.count < len(b.ring) {
		b.count++
	}
}

// Entries returns the visible window newest-first with linear opacity
// falloff: the newest entry is brightest, the oldest visible one is
// fully transparent.
func (b *Buffer) Entries() []Entry {
	n := b.visible
	if n > b.count {
		n = b.count
	}
	if n == 0 {
		return nil
	}

	out := make([]Entry, n)
	for k := 0; k < n; k++ {
		idx := (b.pos - 1 - k + len(b.ring)*2) % len(b.ring)
		out[k] = Entry{
			Quaternion: b.ring[idx],
			Opacity:    b.baseAlpha * (1 - float64(k+1)/float64(n)),
		}
	}
	return out
}
