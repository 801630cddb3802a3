package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDDisplay  string
	TopicFrame           string

	// Serial link
	SerialPort     string // empty means "discover"
	SerialBaudRate uint

	// Render loop
	TickInterval   int // milliseconds
	SmoothingAlpha float64
	SlerpMinT      float64
	EulerOrder     string // "zyx" (default) or "xyz"

	// Trail
	TrailCapacity int
	TrailLength   int

	// Playback
	PlaybackRate float64 // frames per second

	// Web Server
	WebServerPort int

	// Display
	DisplayUpdateInterval int // milliseconds
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		MQTTBroker:           "tcp://localhost:1883",
		MQTTClientIDProducer: "attitude-producer",
		MQTTClientIDConsole:  "attitude-console-subscriber",
		MQTTClientIDDisplay:  "attitude-display-subscriber",
		TopicFrame:           "attitude/frame",

		SerialPort:     "",
		SerialBaudRate: 115200,

		TickInterval:   16,
		SmoothingAlpha: 0.25,
		SlerpMinT:      0.05,
		EulerOrder:     "zyx",

		TrailCapacity: 30,
		TrailLength:   12,

		PlaybackRate: 60,

		WebServerPort: 8080,

		DisplayUpdateInterval: 100,
	}
}

// Package-level unexported variables for the config singleton. External
// code must use InitGlobal() to set and Get() to read.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file over the defaults and returns a
// Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value
	case "TOPIC_FRAME":
		c.TopicFrame = value

	// Serial
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		rate, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD_RATE %q: %w", value, err)
		}
		c.SerialBaudRate = uint(rate)

	// Render loop
	case "TICK_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TICK_INTERVAL %q: %w", value, err)
		}
		if interval < 1 {
			return fmt.Errorf("TICK_INTERVAL must be at least 1 ms, got %d", interval)
		}
		c.TickInterval = interval
	case "SMOOTHING_ALPHA":
		alpha, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SMOOTHING_ALPHA %q: %w", value, err)
		}
		// Out-of-range smoothing is clamped by the filter, not rejected.
		c.SmoothingAlpha = alpha
	case "SLERP_MIN_T":
		t, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SLERP_MIN_T %q: %w", value, err)
		}
		c.SlerpMinT = t
	case "EULER_ORDER":
		order := strings.ToLower(value)
		if order != "zyx" && order != "xyz" {
			return fmt.Errorf("EULER_ORDER must be zyx or xyz, got %q", value)
		}
		c.EulerOrder = order

	// Trail
	case "TRAIL_CAPACITY":
		capacity, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TRAIL_CAPACITY %q: %w", value, err)
		}
		if capacity < 1 {
			return fmt.Errorf("TRAIL_CAPACITY must be at least 1, got %d", capacity)
		}
		c.TrailCapacity = capacity
	case "TRAIL_LENGTH":
		length, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TRAIL_LENGTH %q: %w", value, err)
		}
		c.TrailLength = length

	// Playback
	case "PLAYBACK_RATE":
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid PLAYBACK_RATE %q: %w", value, err)
		}
		c.PlaybackRate = rate

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicFrame == "" {
		return fmt.Errorf("TOPIC_FRAME is required")
	}
	if c.SerialBaudRate == 0 {
		return fmt.Errorf("SERIAL_BAUD_RATE is required")
	}
	if c.TrailLength < 0 || c.TrailLength > c.TrailCapacity {
		return fmt.Errorf("TRAIL_LENGTH must be 0-%d, got %d", c.TrailCapacity, c.TrailLength)
	}
	return nil
}

// InitGlobal initializes the global configuration from file. A missing
// file is not an error: the defaults are used so the visualizer can run
// out of the box. Uses sync.Once so this only runs once.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
			globalConfig = Default()
			return
		}
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must be
// called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
