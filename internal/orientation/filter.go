package orientation

// Smoothing factor bounds. Alpha close to 1 means almost no smoothing;
// values outside the range are clamped, never rejected.
const (
	MinAlpha = 0.01
	MaxAlpha = 0.95
)

// DefaultSlerpMinT is the floor for the per-tick slerp fraction so the
// rendered rotation keeps moving even at heavy smoothing.
const DefaultSlerpMinT = 0.05

// Filter turns raw angle samples into a stable rendered rotation.
//
// Each tick it advances an exponential moving average of the raw angles,
// subtracts the calibration offset, converts the result to a target
// quaternion and slerps the rendered quaternion toward it. The rendered
// quaternion is never snapped, which keeps the displayed rotation
// continuous across angle wraparound and noisy input.
//
// Filter is not safe for concurrent use: the render loop is its only
// caller.
type Filter struct {
	alpha    float64
	slerpT   float64
	order    EulerOrder
	smoothed Pose
	offset   Pose
	q        Quat
}

// NewFilter creates a filter with the given smoothing factor (clamped to
// [MinAlpha, MaxAlpha]) and Euler rotation order.
func NewFilter(alpha float64, order EulerOrder) *Filter {
	f := &Filter{
		slerpT: DefaultSlerpMinT,
		order:  order,
		q:      Identity(),
	}
	f.SetAlpha(alpha)
	return f
}

// SetAlpha updates the smoothing factor, clamping out-of-range values.
func (f *Filter) SetAlpha(alpha float64) {
	if alpha < MinAlpha {
		alpha = MinAlpha
	}
	if alpha > MaxAlpha {
		alpha = MaxAlpha
	}
	f.alpha = alpha
}

// Alpha returns the current smoothing factor.
func (f *Filter) Alpha() float64 {
	return f.alpha
}

// SetSlerpMinT updates the lower bound of the per-tick slerp fraction.
func (f *Filter) SetSlerpMinT(t float64) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	f.slerpT = t
}

// Tick advances the filter by one render tick with the given raw pose
// and returns the new rendered quaternion.
func (f *Filter) Tick(raw Pose) Quat {
	a := f.alpha
	f.smoothed.Roll = a*raw.Roll + (1-a)*f.smoothed.Roll
	f.smoothed.Pitch = a*raw.Pitch + (1-a)*f.smoothed.Pitch
	f.smoothed.Yaw = a*raw.Yaw + (1-a)*f.smoothed.Yaw

	target := FromEuler(f.Angles(), f.order)

	// Smoother angles get a slower slerp so responsiveness tracks the
	// smoothing setting.
	t := 1 - a
	if t < f.slerpT {
		t = f.slerpT
	}
	f.q = Slerp(f.q, target, t)
	return f.q
}

// Angles returns the smoothed angles with the calibration offset applied.
// These are the values shown on the numeric readouts.
func (f *Filter) Angles() Pose {
	return Pose{
		Roll:  f.smoothed.Roll - f.offset.Roll,
		Pitch: f.smoothed.Pitch - f.offset.Pitch,
		Yaw:   f.smoothed.Yaw - f.offset.Yaw,
	}
}

// Smoothed returns the smoothed angles before calibration.
func (f *Filter) Smoothed() Pose {
	return f.smoothed
}

// Quaternion returns the current rendered quaternion.
func (f *Filter) Quaternion() Quat {
	return f.q
}

// Calibrate replaces the offset wholesale with the current smoothed
// angles, so the present attitude reads as zero from the next tick on.
func (f *Filter) Calibrate() {
	f.offset = f.smoothed
}

// Offset returns the current calibration offset.
func (f *Filter) Offset() Pose {
	return f.offset
}
