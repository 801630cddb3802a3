// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


// Package engine drives the fixed-cadence render loop. It is the sole
// consumer of raw samples and the sole owner of filter and trail state;
// every configuration change arrives as a command that the loop drains
// once per tick, so there is exactly one writer for all of it.
package engine

import (
	"log"
	"sync"
	"time"

	"github.com/relabs-tech/attitude_visualizer/internal/orientation"
	"github.com/relabs-tech/attitude_visualizer/internal/trail"
)

// DefaultTickInterval targets ~60 Hz.
const DefaultTickInterval = 16 * time.Millisecond

type commandKind int

const (
	cmdSetAlpha commandKind = iota
	cmdAdjustAlpha
	cmdSetTrailLength
	cmdAdjustTrailLength
	cmdSetTrailEnabled
	cmdCalibrate
	cmdSetPaused
	cmdTogglePause
	cmdSwitchSource
)

type command struct {
	kind commandKind
	f    float64
	n    int
	on   bool
	src  orientation.Source
	name string
}

// Options configures a new engine. Zero values fall back to defaults.
type Options struct {
	TickInterval  time.Duration
	Alpha         float64
	SlerpMinT     float64
	EulerOrder    orientation.EulerOrder
	TrailCapacity int
	TrailLength   int
	Source        orientation.Source
	SourceName    string
}

// Engine is the render loop state machine (running or paused).
type Engine struct {
	interval time.Duration
	filter   *orientation.Filter
	trail    *trail.Buffer

	src     orientation.Source
	srcName string

	cmds chan command

	paused    bool
	showTrail bool
	tick      uint64

	mu        sync.RWMutex
	last      Frame
	haveFrame bool
	subs      map[int]chan Frame
	nextID    int

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New creates an engine over the given source. The source may be nil, in
// which case the loop ticks and waits for a SwitchSource command.
func New(opts Options) *Engine {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Alpha == 0 {
		opts.Alpha = 0.25
	}
	if opts.TrailCapacity <= 0 {
		opts.TrailCapacity = 30
	}

	f := orientation.NewFilter(opts.Alpha, opts.EulerOrder)
	if opts.SlerpMinT > 0 {
		f.SetSlerpMinT(opts.SlerpMinT)
	}

	return &Engine{
		interval:  opts.TickInterval,
		filter:    f,
		trail:     trail.New(opts.TrailCapacity, opts.TrailLength),
		src:       opts.Source,
		srcName:   opts.SourceName,
		cmds:      make(chan command, 64),
		showTrail: true,
		subs:      make(map[int]chan Frame),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the tick loop.
func (e *Engine) Start() {
	go e.run()
}

// Stop halts the tick loop, joins it, and stops the active source.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.stop)
	})
	<-e.done
}

func (e *Engine) run() {
	defer close(e.done)
	defer func() {
		if e.src != nil {
			e.src.Stop()
		}
	}()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			e.step()
		}
	}
}

// step advances the loop by one tick: drain queued commands, then (when
// running) pull the latest sample, advance filter and trail, and publish
// a new frame. When paused the previous readouts are retained.
func (e *Engine) step() {
	e.drainCommands()
	e.tick++

	status := orientation.StatusDisconnected
	if e.src != nil {
		status = e.src.Status()
	}

	if e.paused {
		e.publish(e.frame(status))
		return
	}

	if e.src != nil {
		if sample, ok := e.src.Latest(); ok {
			e.filter.Tick(sample.Pose)
			e.trail.Push(e.filter.Quaternion())
		}
		// No sample yet (or a dead source): readouts freeze at the last
		// good state rather than resetting.
	}

	e.publish(e.frame(status))
}

func (e *Engine) frame(status orientation.Status) Frame {
	angles := e.filter.Angles()
	fr := Frame{
		Quaternion: e.filter.Quaternion(),
		Angles:     angles,
		Meters: [3]float64{
			meter(angles.Roll),
			meter(angles.Pitch),
			meter(angles.Yaw),
		},
		Paused: e.paused,
		Source: e.srcName,
		Status: status,
		Tick:   e.tick,
	}
	if e.showTrail {
		fr.Trail = e.trail.Entries()
	}
	return fr
}

func (e *Engine) drainCommands() {
	for {
		select {
		case cmd := <-e.cmds:
			e.apply(cmd)
		default:
			return
		}
	}
}

func (e *Engine) apply(cmd command) {
	switch cmd.kind {
	case cmdSetAlpha:
		e.filter.SetAlpha(cmd.f)
	case cmdAdjustAlpha:
		e.filter.SetAlpha(e.filter.Alpha() + cmd.f)
	case cmdSetTrailLength:
		e.trail.SetVisible(cmd.n)
	case cmdAdjustTrailLength:
		e.trail.SetVisible(e.trail.Visible() + cmd.n)
	case cmdSetTrailEnabled:
		// Hides without clearing: ring state survives the toggle.
		e.showTrail = cmd.on
	case cmdCalibrate:
		e.filter.Calibrate()
		log.Printf("calibrated at roll=%.2f pitch=%.2f yaw=%.2f",
			e.filter.Offset().Roll, e.filter.Offset().Pitch, e.filter.Offset().Yaw)
	case cmdSetPaused:
		e.paused = cmd.on
	case cmdTogglePause:
		e.paused = !e.paused
	case cmdSwitchSource:
		// Old background activity must be fully stopped before the new
		// source starts feeding the loop: Stop joins the read loop.
		if e.src != nil {
			e.src.Stop()
		}
		e.src = cmd.src
		e.srcName = cmd.name
		log.Printf("switched sample source to %s", cmd.name)
	}
}

func (e *Engine) send(cmd command) {
	select {
	case e.cmds <- cmd:
	default:
		// Command queue full; the UI is spamming faster than the tick
		// rate can drain. Dropping is safe, these are idempotent-ish
		// configuration nudges.
		log.Printf("engine command queue full, dropping command")
	}
}

// SetAlpha requests a new smoothing factor (applied next tick, clamped).
func (e *Engine) SetAlpha(a float64) { e.send(command{kind: cmdSetAlpha, f: a}) }

// AdjustAlpha nudges the smoothing factor by delta.
func (e *Engine) AdjustAlpha(delta float64) { e.send(command{kind: cmdAdjustAlpha, f: delta}) }

// SetTrailLength requests a new visible trail length (clamped).
func (e *Engine) SetTrailLength(n int) { e.send(command{kind: cmdSetTrailLength, n: n}) }

// AdjustTrailLength nudges the visible trail length by delta.
func (e *Engine) AdjustTrailLength(delta int) { e.send(command{kind: cmdAdjustTrailLength, n: delta}) }

// SetTrailEnabled shows or hides the trail without clearing it.
func (e *Engine) SetTrailEnabled(on bool) { e.send(command{kind: cmdSetTrailEnabled, on: on}) }

// Calibrate zeroes the readouts at the current smoothed attitude.
func (e *Engine) Calibrate() { e.send(command{kind: cmdCalibrate}) }

// SetPaused pauses or resumes the angle/trail updates.
func (e *Engine) SetPaused(on bool) { e.send(command{kind: cmdSetPaused, on: on}) }

// TogglePause flips between running and paused.
func (e *Engine) TogglePause() { e.send(command{kind: cmdTogglePause}) }

// SwitchSource replaces the active sample source. The previous source is
// stopped synchronously on the tick that applies the command.
func (e *Engine) SwitchSource(name string, src orientation.Source) {
	e.send(command{kind: cmdSwitchSource, src: src, name: name})
}

// UseMock switches to the synthetic waveform source.
func (e *Engine) UseMock() {
	e.SwitchSource("mock", orientation.NewMockSource())
}

// Latest returns the most recently published frame.
func (e *Engine) Latest() (Frame, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last, e.haveFrame
}

// Subscribe registers a frame listener. New subscribers immediately get
// the last frame, if any. The send is non-blocking: slow consumers miss
// frames instead of stalling the loop.
func (e *Engine) Subscribe(buffer int) (int, <-chan Frame) {
	if buffer <= 0 {
		buffer = 2
	}
	ch := make(chan Frame, buffer)

	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = ch
	last, have := e.last, e.haveFrame
	e.mu.Unlock()

	if have {
		select {
		case ch <- last:
		default:
		}
	}
	return id, ch
}

// Unsubscribe removes and closes a listener channel.
func (e *Engine) Unsubscribe(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ch, ok := e.subs[id]; ok {
		close(ch)
		delete(e.subs, id)
	}
}

func (e *Engine) publish(fr Frame) {
	e.mu.Lock()
	e.last = fr
	e.haveFrame = true
	for _, ch := range e.subs {
		select {
		case ch <- fr:
		default:
			// Subscriber is behind; skip rather than block the tick.
		}
	}
	e.mu.Unlock()
}
