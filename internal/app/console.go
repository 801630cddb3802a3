// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/attitude_visualizer/internal/config"
)

// RunConsole runs a local render loop and prints the readouts to
// stdout. Handy for checking a sensor (or the mock waveform) without a
// browser.
func RunConsole(mode SourceMode, port string) error {
	cfg := config.Get()

	eng := newEngine(cfg, mode, port)
	eng.Start()
	defer eng.Stop()

	id, frames := eng.Subscribe(2)
	defer eng.Unsubscribe(id)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			return nil
		case fr, ok := <-frames:
			if !ok {
				return nil
			}
			fmt.Printf(
				"ROLL=%6.2f  PITCH=%6.2f  YAW=%6.2f  [%s]\n",
				fr.Angles.Roll,
				fr.Angles.Pitch,
				fr.Angles.Yaw,
				fr.Status,
			)
		}
	}
}
