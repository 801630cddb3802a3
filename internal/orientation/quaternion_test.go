package orientation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEulerZeroIsIdentity(t *testing.T) {
	q := FromEuler(Pose{}, OrderZYX)
	assert.InDelta(t, 1, q.W, 1e-12)
	assert.InDelta(t, 0, q.X, 1e-12)
	assert.InDelta(t, 0, q.Y, 1e-12)
	assert.InDelta(t, 0, q.Z, 1e-12)
}

func TestFromEulerIsUnit(t *testing.T) {
	poses := []Pose{
		{Roll: 30, Pitch: -10, Yaw: 90},
		{Roll: 179, Pitch: 89, Yaw: -179},
		{Roll: -400, Pitch: 720, Yaw: 1000},
		{Roll: 0.001, Pitch: -0.001, Yaw: 0},
	}
	for _, p := range poses {
		for _, order := range []EulerOrder{OrderZYX, OrderXYZ} {
			q := FromEuler(p, order)
			assert.InDelta(t, 1, q.Norm(), 1e-9, "pose %+v order %v", p, order)
		}
	}
}

func TestFromEulerSingleAxis(t *testing.T) {
	// A pure yaw must be a rotation about Z regardless of order.
	for _, order := range []EulerOrder{OrderZYX, OrderXYZ} {
		q := FromEuler(Pose{Yaw: 90}, order)
		assert.InDelta(t, math.Cos(math.Pi/4), q.W, 1e-12)
		assert.InDelta(t, 0, q.X, 1e-12)
		assert.InDelta(t, 0, q.Y, 1e-12)
		assert.InDelta(t, math.Sin(math.Pi/4), q.Z, 1e-12)
	}
}

func TestMatrixMatchesYawRotation(t *testing.T) {
	m := FromEuler(Pose{Yaw: 90}, OrderZYX).Matrix()
	want := [3][3]float64{
		{0, -1, 0},
		{1, 0, 0},
		{0, 0, 1},
	}
	for i := range want {
		for j := range want[i] {
			assert.InDelta(t, want[i][j], m[i][j], 1e-9, "element [%d][%d]", i, j)
		}
	}
}

func TestSlerpEndpoints(t *testing.T) {
	q0 := Identity()
	q1 := FromEuler(Pose{Yaw: 120}, OrderZYX)

	assert.InDelta(t, 0, Slerp(q0, q1, 0).AngleTo(q0), 1e-9)
	assert.InDelta(t, 0, Slerp(q0, q1, 1).AngleTo(q1), 1e-9)
}

func TestSlerpHalfwayAngle(t *testing.T) {
	q0 := Identity()
	q1 := FromEuler(Pose{Yaw: 120}, OrderZYX)

	mid := Slerp(q0, q1, 0.5)
	assert.InDelta(t, 60, mid.AngleTo(q0), 1e-6)
	assert.InDelta(t, 60, mid.AngleTo(q1), 1e-6)
}

func TestSlerpShortestPath(t *testing.T) {
	// A 270 degree yaw has a negative dot against identity; the slerp
	// must take the 90 degree arc the other way, never the 270 one.
	q0 := Identity()
	q1 := FromEuler(Pose{Yaw: 270}, OrderZYX)
	require.Negative(t, q0.Dot(q1))

	result := Slerp(q0, q1, 1)
	assert.InDelta(t, 0, result.AngleTo(q1), 1e-9)

	traveled := Slerp(q0, q1, 0.5).AngleTo(q0)
	assert.LessOrEqual(t, traveled, 90.0+1e-6)

	// Equivalent to slerping toward the negated target.
	direct := Slerp(q0, q1.Neg(), 0.5)
	assert.InDelta(t, 0, direct.AngleTo(Slerp(q0, q1, 0.5)), 1e-9)
}

func TestSlerpNearlyParallelFallsBackToLerp(t *testing.T) {
	q0 := FromEuler(Pose{Yaw: 45}, OrderZYX)
	q1 := FromEuler(Pose{Yaw: 45.001}, OrderZYX)
	require.Greater(t, q0.Dot(q1), nearlyParallelDot)

	result := Slerp(q0, q1, 0.5)
	assert.False(t, math.IsNaN(result.W))
	assert.InDelta(t, 1, result.Norm(), 1e-9)
	assert.InDelta(t, 0, result.AngleTo(q0), 0.01)
}

func TestSlerpResultIsUnit(t *testing.T) {
	q := Identity()
	targets := []Pose{
		{Yaw: 10}, {Yaw: 200}, {Roll: -170, Pitch: 80}, {Roll: 1, Pitch: 1, Yaw: 1},
	}
	for _, p := range targets {
		q = Slerp(q, FromEuler(p, OrderZYX), 0.3)
		assert.InDelta(t, 1, q.Norm(), 1e-9)
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	q := Quat{}.Normalize()
	assert.Equal(t, Identity(), q)
}
