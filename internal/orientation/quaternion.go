package orientation

import "math"

// Quat is a unit quaternion representing a rotation.
type Quat struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Identity returns the no-rotation quaternion.
func Identity() Quat {
	return Quat{W: 1}
}

// EulerOrder selects the rotation order used when converting roll/pitch/yaw
// to a quaternion. The axis mapping is fixed (roll about X, pitch about Y,
// yaw about Z); only the composition order varies between devices.
type EulerOrder int

const (
	// OrderZYX composes yaw, then pitch, then roll (intrinsic ZYX).
	// This is the default and matches the reference device.
	OrderZYX EulerOrder = iota
	// OrderXYZ composes roll, then pitch, then yaw.
	OrderXYZ
)

// FromEuler converts a pose in degrees to a unit quaternion using the
// given rotation order.
func FromEuler(p Pose, order EulerOrder) Quat {
	hr := p.Roll * math.Pi / 360.0
	hp := p.Pitch * math.Pi / 360.0
	hy := p.Yaw * math.Pi / 360.0

	qx := Quat{W: math.Cos(hr), X: math.Sin(hr)}
	qy := Quat{W: math.Cos(hp), Y: math.Sin(hp)}
	qz := Quat{W: math.Cos(hy), Z: math.Sin(hy)}

	var q Quat
	switch order {
	case OrderXYZ:
		q = qx.Mul(qy).Mul(qz)
	default:
		q = qz.Mul(qy).Mul(qx)
	}
	return q.Normalize()
}

// Mul returns the Hamilton product q*r (apply r, then q).
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

// Dot returns the 4D dot product of two quaternions.
func (q Quat) Dot(r Quat) float64 {
	return q.W*r.W + q.X*r.X + q.Y*r.Y + q.Z*r.Z
}

// Norm returns the quaternion's length.
func (q Quat) Norm() float64 {
	return math.Sqrt(q.Dot(q))
}

// Neg returns the antipodal quaternion (same rotation, opposite sign).
func (q Quat) Neg() Quat {
	return Quat{W: -q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Normalize scales q to unit length. A degenerate (near-zero) quaternion
// falls back to identity rather than producing NaNs.
func (q Quat) Normalize() Quat {
	n := q.Norm()
	if n < 1e-12 {
		return Identity()
	}
	return Quat{W: q.W / n, X: q.X / n, Y: q.Y / n, Z: q.Z / n}
}

// nearlyParallelDot is the dot-product threshold above which Slerp falls
// back to linear interpolation: sin(theta) is too small for a stable
// division there.
const nearlyParallelDot = 0.9995

// Slerp spherically interpolates from q toward target by t in [0,1],
// always along the shorter arc. The result is renormalized.
func Slerp(q, target Quat, t float64) Quat {
	if t <= 0 {
		return q.Normalize()
	}
	if t >= 1 {
		return target.Normalize()
	}

	dot := q.Dot(target)
	// Shortest-path rule: q and -q are the same rotation, so flip the
	// target when the dot product is negative.
	if dot < 0 {
		target = target.Neg()
		dot = -dot
	}

	if dot > nearlyParallelDot {
		return Quat{
			W: q.W + t*(target.W-q.W),
			X: q.X + t*(target.X-q.X),
			Y: q.Y + t*(target.Y-q.Y),
			Z: q.Z + t*(target.Z-q.Z),
		}.Normalize()
	}

	theta := math.Acos(dot)
	sinTheta := math.Sin(theta)
	a := math.Sin((1-t)*theta) / sinTheta
	b := math.Sin(t*theta) / sinTheta
	return Quat{
		W: a*q.W + b*target.W,
		X: a*q.X + b*target.X,
		Y: a*q.Y + b*target.Y,
		Z: a*q.Z + b*target.Z,
	}.Normalize()
}

// AngleTo returns the angular distance in degrees between the rotations
// represented by q and r.
func (q Quat) AngleTo(r Quat) float64 {
	dot := math.Abs(q.Dot(r))
	if dot > 1 {
		dot = 1
	}
	return 2 * math.Acos(dot) * 180.0 / math.Pi
}

// Matrix returns the 3x3 rotation matrix (row-major) for q. The renderer
// can consume either this or the quaternion directly.
func (q Quat) Matrix() [3][3]float64 {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	return [3][3]float64{
		{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	}
}
