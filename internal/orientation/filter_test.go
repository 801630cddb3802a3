package orientation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphaClamping(t *testing.T) {
	f := NewFilter(5, OrderZYX)
	assert.Equal(t, MaxAlpha, f.Alpha())

	f.SetAlpha(-1)
	assert.Equal(t, MinAlpha, f.Alpha())

	f.SetAlpha(0.5)
	assert.Equal(t, 0.5, f.Alpha())
}

func TestSmoothingConvergence(t *testing.T) {
	// Constant raw input (30,-10,90) at alpha 0.25 must be within one
	// degree by tick 50: error decays as (1-alpha)^n.
	f := NewFilter(0.25, OrderZYX)
	raw := Pose{Roll: 30, Pitch: -10, Yaw: 90}

	for i := 0; i < 50; i++ {
		f.Tick(raw)
	}

	got := f.Smoothed()
	assert.InDelta(t, raw.Roll, got.Roll, 1)
	assert.InDelta(t, raw.Pitch, got.Pitch, 1)
	assert.InDelta(t, raw.Yaw, got.Yaw, 1)
}

func TestSmoothingNeverOvershoots(t *testing.T) {
	f := NewFilter(0.25, OrderZYX)
	raw := Pose{Roll: 50}

	prevErr := math.Inf(1)
	for i := 0; i < 100; i++ {
		f.Tick(raw)
		err := math.Abs(raw.Roll - f.Smoothed().Roll)
		assert.Less(t, err, prevErr)
		prevErr = err
	}
}

func TestQuaternionStaysUnitUnderChurn(t *testing.T) {
	f := NewFilter(0.8, OrderZYX)

	inputs := []Pose{
		{Roll: 170}, {Roll: -170}, {Yaw: 359}, {Yaw: 1},
		{Pitch: 89}, {Pitch: -89}, {Roll: 30, Pitch: -10, Yaw: 90},
	}
	for i := 0; i < 200; i++ {
		f.Tick(inputs[i%len(inputs)])
		if i%3 == 0 {
			f.Calibrate()
		}
		require.InDelta(t, 1, f.Quaternion().Norm(), 1e-9, "tick %d", i)
	}
}

func TestQuaternionConvergesToTarget(t *testing.T) {
	f := NewFilter(0.25, OrderZYX)
	raw := Pose{Roll: 30, Pitch: -10, Yaw: 90}

	for i := 0; i < 300; i++ {
		f.Tick(raw)
	}

	target := FromEuler(raw, OrderZYX)
	assert.InDelta(t, 0, f.Quaternion().AngleTo(target), 0.5)
}

func TestCalibrationZeroesDisplayAngles(t *testing.T) {
	f := NewFilter(0.25, OrderZYX)
	raw := Pose{Roll: 30, Pitch: -10, Yaw: 90}

	for i := 0; i < 200; i++ {
		f.Tick(raw)
	}
	f.Calibrate()
	for i := 0; i < 10; i++ {
		f.Tick(raw)
	}

	got := f.Angles()
	assert.InDelta(t, 0, got.Roll, 1e-6)
	assert.InDelta(t, 0, got.Pitch, 1e-6)
	assert.InDelta(t, 0, got.Yaw, 1e-6)
}

func TestCalibrationReplacedWholesale(t *testing.T) {
	f := NewFilter(0.5, OrderZYX)

	f.Tick(Pose{Roll: 10})
	f.Calibrate()
	first := f.Offset()

	f.Tick(Pose{Roll: 40})
	f.Calibrate()
	second := f.Offset()

	assert.NotEqual(t, first, second)
	assert.Equal(t, f.Smoothed(), second)
}

func TestMockSourceDeterministicWaveform(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	src := NewMockSourceAt(start, func() time.Time { return now })

	s0, ok := src.Latest()
	require.True(t, ok)
	assert.InDelta(t, 0, s0.Roll, 1e-9)
	assert.InDelta(t, 0, s0.Pitch, 1e-9)
	assert.InDelta(t, 0, s0.Yaw, 1e-9)

	now = start.Add(2 * time.Second)
	s2, _ := src.Latest()
	assert.InDelta(t, 40*math.Sin(1.6), s2.Roll, 1e-9)
	assert.InDelta(t, 30*math.Sin(1.2), s2.Pitch, 1e-9)
	assert.InDelta(t, 90*math.Sin(1.0), s2.Yaw, 1e-9)

	// Same instant, same values: pure function of elapsed time.
	s2b, _ := src.Latest()
	assert.Equal(t, s2.Pose, s2b.Pose)

	assert.Equal(t, StatusMock, src.Status())
}
