package app

import (
	"log"
	"time"

	"github.com/relabs-tech/attitude_visualizer/internal/config"
	"github.com/relabs-tech/attitude_visualizer/internal/engine"
	"github.com/relabs-tech/attitude_visualizer/internal/orientation"
	"github.com/relabs-tech/attitude_visualizer/internal/source"
)

// SourceMode selects the sample source a front-end starts with.
type SourceMode int

const (
	ModeSerial SourceMode = iota
	ModeMock
	ModePlayback
)

// newEngine builds an engine from the global config and the chosen
// source mode. In serial mode a failed open or discovery degrades to a
// source-less engine that reports disconnected instead of failing the
// front-end; the user can still switch to mock.
func newEngine(cfg *config.Config, mode SourceMode, port string) *engine.Engine {
	var (
		src  orientation.Source
		name string
	)

	switch mode {
	case ModeMock:
		log.Println("using mock orientation source")
		src = orientation.NewMockSource()
		name = "mock"
	case ModePlayback:
		log.Println("using playback orientation source")
		src = source.NewPlayback(nil, cfg.PlaybackRate)
		name = "playback"
	default:
		if port == "" {
			port = cfg.SerialPort
		}
		s, err := source.Discover(port, cfg.SerialBaudRate)
		if err != nil {
			log.Printf("no serial source available: %v (switch to mock to see data)", err)
		} else {
			src = s
			name = "serial:" + s.Name()
		}
	}

	order := orientation.OrderZYX
	if cfg.EulerOrder == "xyz" {
		order = orientation.OrderXYZ
	}

	return engine.New(engine.Options{
		TickInterval:  time.Duration(cfg.TickInterval) * time.Millisecond,
		Alpha:         cfg.SmoothingAlpha,
		SlerpMinT:     cfg.SlerpMinT,
		EulerOrder:    order,
		TrailCapacity: cfg.TrailCapacity,
		TrailLength:   cfg.TrailLength,
		Source:        src,
		SourceName:    name,
	})
}
