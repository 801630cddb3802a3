// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package orientation

import (
	"math"
	"time"
)

type mockSource struct {
	start time.Time
	now   func() time.Time
}

// NewMockSource creates a mock orientation source that generates smooth
// changing values. It is a pure function of elapsed wall-clock time:
// independent sinusoids with distinct amplitude and frequency per axis.
func NewMockSource() Source {
	return &mockSource{start: time.Now(), now: time.Now}
}

// NewMockSourceAt is NewMockSource with an injectable clock for tests.
func NewMockSourceAt(start time.Time, now func() time.Time) Source {
	return &mockSource{start: start, now: now}
}

func (m *mockSource) Latest() (Sample, bool) {
	t := m.now()
	elapsed := t.Sub(m.start).Seconds()

	return Sample{
		Pose: Pose{
			Roll:  40 * math.Sin(elapsed*0.8),
			Pitch: 30 * math.Sin(elapsed*0.6),
			Yaw:   90 * math.Sin(elapsed*0.5),
		},
		Time: t,
	}, true
}

func (m *mockSource) Status() Status {
	return StatusMock
}

// Stop is a no-op: the mock has no background activity.
func (m *mockSource) Stop() {}
