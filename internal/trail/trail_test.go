package trail_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/attitude_visualizer/internal/orientation"
	"github.com/relabs-tech/attitude_visualizer/internal/trail"
)

// yawQuat gives each push a distinguishable quaternion.
func yawQuat(deg float64) orientation.Quat {
	return orientation.FromEuler(orientation.Pose{Yaw: deg}, orientation.OrderZYX)
}

func TestPushStaysWithinCapacity(t *testing.T) {
	b := trail.New(5, 5)

	for i := 0; i < 11; i++ {
		b.Push(yawQuat(float64(i)))
		assert.LessOrEqual(t, b.Len(), 5)
	}
	assert.Equal(t, 5, b.Len())
	assert.Equal(t, 5, b.Capacity())
}

func TestEvictionIsOldestFirst(t *testing.T) {
	b := trail.New(3, 3)

	for i := 1; i <= 4; i++ {
		b.Push(yawQuat(float64(i) * 10))
	}

	// Push of a 4th entry into capacity 3 evicts exactly the oldest:
	// newest-first view must be 40, 30, 20.
	entries := b.Entries()
	require.Len(t, entries, 3)
	assert.InDelta(t, 0, entries[0].Quaternion.AngleTo(yawQuat(40)), 1e-9)
	assert.InDelta(t, 0, entries[1].Quaternion.AngleTo(yawQuat(30)), 1e-9)
	assert.InDelta(t, 0, entries[2].Quaternion.AngleTo(yawQuat(20)), 1e-9)
}

func TestOpacityFalloff(t *testing.T) {
	b := trail.New(10, 4)
	for i := 0; i < 10; i++ {
		b.Push(yawQuat(float64(i)))
	}

	entries := b.Entries()
	require.Len(t, entries, 4)

	// Newest brightest, strictly decreasing, oldest visible transparent.
	for k := 1; k < len(entries); k++ {
		assert.Less(t, entries[k].Opacity, entries[k-1].Opacity)
	}
	assert.InDelta(t, trail.DefaultBaseAlpha*(1-0.25), entries[0].Opacity, 1e-9)
	assert.InDelta(t, 0, entries[3].Opacity, 1e-9)
}

func TestVisibleLengthChangesAtRuntime(t *testing.T) {
	b := trail.New(8, 8)
	for i := 0; i < 8; i++ {
		b.Push(yawQuat(float64(i)))
	}

	b.SetVisible(3)
	assert.Len(t, b.Entries(), 3)

	// Growing the window brings the hidden entries back: the ring was
	// never cleared.
	b.SetVisible(8)
	assert.Len(t, b.Entries(), 8)
}

func TestSetVisibleClamps(t *testing.T) {
	b := trail.New(6, 4)

	b.SetVisible(-2)
	assert.Equal(t, 0, b.Visible())
	assert.Empty(t, b.Entries())

	b.SetVisible(100)
	assert.Equal(t, 6, b.Visible())
}

func TestEntriesLimitedByCount(t *testing.T) {
	b := trail.New(10, 10)
	b.Push(yawQuat(1))
	b.Push(yawQuat(2))

	assert.Len(t, b.Entries(), 2)
}
