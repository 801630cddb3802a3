// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/attitude_visualizer/internal/app"
	"github.com/relabs-tech/attitude_visualizer/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "attitude_config.txt", "path to config file")
		port       = flag.String("port", "", "serial port to use (e.g. /dev/ttyUSB0, COM3)")
		mock       = flag.Bool("mock", false, "use mock data instead of serial")
		playback   = flag.Bool("playback", false, "replay the built-in recorded sequence")
	)
	flag.Parse()

	log.Println("starting attitude-visualizer web front-end")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	mode := app.ModeSerial
	switch {
	case *mock:
		mode = app.ModeMock
	case *playback:
		mode = app.ModePlayback
	}

	if err := app.RunVisualizer(mode, *port); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
