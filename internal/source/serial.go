// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


// Package source provides the sample sources the render loop can pull
// from: a live serial device, replay of a recorded sequence, and (in
// package orientation) a synthetic mock generator.
package source

import (
	"fmt"
	"io"
	"log"
	"sync"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/attitude_visualizer/internal/orientation"
	"github.com/relabs-tech/attitude_visualizer/internal/protocol"
)

// DefaultBaudRate matches the reference firmware.
const DefaultBaudRate = 115200

// DefaultReadTimeout is the serial inter-character timeout in
// milliseconds. It bounds how long the read loop can block, so a stop
// request is observed within this interval.
const DefaultReadTimeout = 100

// Serial reads the line protocol from a serial port on a background
// goroutine and keeps the most recent decoded sample. Only the latest
// sample is retained: the system is a live gauge, not a logger.
//
// A read error is terminal for the source; it flips the status to
// disconnected and the loop exits. Reconnecting is an explicit user
// action that constructs a fresh Serial.
type Serial struct {
	port io.ReadCloser
	name string

	mu     sync.Mutex
	latest orientation.Sample
	have   bool
	status orientation.Status

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// OpenSerial opens the named port with the protocol's standard settings
// and starts the read loop.
func OpenSerial(portName string, baudRate uint) (*Serial, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              baudRate,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		MinimumReadSize:       0,
		InterCharacterTimeout: DefaultReadTimeout,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	log.Printf("serial port opened on %s at %d baud", portName, baudRate)

	return NewSerial(port, portName), nil
}

// NewSerial starts a serial source over an already-open transport. The
// transport's Read must return within a bounded time (a timed-out read
// reporting (0, nil) or (0, io.EOF)) so the loop can observe Stop.
func NewSerial(port io.ReadCloser, name string) *Serial {
	s := &Serial{
		port:   port,
		name:   name,
		status: orientation.StatusRunning,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.readLoop()
	return s
}

// Name returns the port identifier.
func (s *Serial) Name() string {
	return s.name
}

// Latest returns the most recent decoded sample, coherently.
func (s *Serial) Latest() (orientation.Sample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.have
}

// Status reports running until a transport error, then disconnected.
func (s *Serial) Status() orientation.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Stop signals the read loop and joins it before returning, so no stale
// goroutine can publish into a superseded source after switching.
func (s *Serial) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		// Closing the port also unblocks a read in progress.
		s.port.Close()
	})
	<-s.done
}

func (s *Serial) readLoop() {
	defer close(s.done)

	dec := protocol.NewDecoder()
	buf := make([]byte, 256)

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		n, err := s.port.Read(buf)
		if n > 0 {
			samples := dec.Feed(buf[:n])
			if len(samples) > 0 {
				s.publish(samples[len(samples)-1])
			}
		}
		if err != nil {
			// A timed-out read surfaces as io.EOF with no data on
			// POSIX ports; that just means "nothing yet".
			if err == io.EOF {
				continue
			}
			select {
			case <-s.stop:
				return
			default:
			}
			log.Printf("serial read error on %s: %v", s.name, err)
			s.mu.Lock()
			s.status = orientation.StatusDisconnected
			s.mu.Unlock()
			s.port.Close()
			return
		}
	}
}

func (s *Serial) publish(sample orientation.Sample) {
	s.mu.Lock()
	s.latest = sample
	s.have = true
	s.mu.Unlock()
}
