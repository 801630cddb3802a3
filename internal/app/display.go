package app

import (
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/attitude_visualizer/internal/config"
	"github.com/relabs-tech/attitude_visualizer/internal/engine"
)

// displayData holds the latest frame for the OLED update loop.
type displayData struct {
	mu        sync.RWMutex
	frame     engine.Frame
	haveFrame bool
}

// RunDisplay subscribes to the frame topic and shows the readouts on an
// SSD1306 OLED over I2C: the three angles as text plus the normalized
// meter bars.
func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Println("display: SSD1306 initialized")

	if err := showSplash(dev); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	data := &displayData{}

	// Connect to MQTT
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDDisplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicFrame, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var fr engine.Frame
		if err := json.Unmarshal(msg.Payload(), &fr); err != nil {
			log.Printf("display: frame unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.frame = fr
		data.haveFrame = true
		data.mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: subscribed to %s", cfg.TopicFrame)

	// Display update loop
	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		data.mu.RLock()
		fr, have := data.frame, data.haveFrame
		data.mu.RUnlock()

		if err := updateFrameDisplay(dev, fr, have); err != nil {
			log.Printf("display: update error: %v", err)
		}
	}
	return nil
}

func blankImage() *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	for i := range img.Pix {
		img.Pix[i] = 0
	}
	return img
}

func newDrawer(img *image1bit.VerticalLSB) *font.Drawer {
	return &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
}

func showSplash(dev *ssd1306.Dev) error {
	img := blankImage()
	drawer := newDrawer(img)

	drawer.Dot = fixed.P(12, 26)
	drawer.DrawBytes([]byte("Attitude"))
	drawer.Dot = fixed.P(12, 39)
	drawer.DrawBytes([]byte("Visualizer"))

	return dev.Draw(dev.Bounds(), img, image.Point{})
}

func updateFrameDisplay(dev *ssd1306.Dev, fr engine.Frame, have bool) error {
	img := blankImage()
	drawer := newDrawer(img)

	if !have {
		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte("Attitude"))
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte("Waiting..."))
		return dev.Draw(dev.Bounds(), img, image.Point{})
	}

	drawer.Dot = fixed.P(0, 11)
	drawer.DrawBytes([]byte(fmt.Sprintf("R:%7.2f", fr.Angles.Roll)))
	drawer.Dot = fixed.P(0, 30)
	drawer.DrawBytes([]byte(fmt.Sprintf("P:%7.2f", fr.Angles.Pitch)))
	drawer.Dot = fixed.P(0, 49)
	drawer.DrawBytes([]byte(fmt.Sprintf("Y:%7.2f", fr.Angles.Yaw)))

	// Meter bars next to each readout, 0..1 over 48 px.
	for i, m := range fr.Meters {
		y := 5 + i*19
		w := int(m * 48)
		if w > 0 {
			bar := image.Rect(78, y, 78+w, y+6)
			draw.Draw(img, bar, &image.Uniform{image1bit.On}, image.Point{}, draw.Src)
		}
	}

	if fr.Paused {
		drawer.Dot = fixed.P(78, 62)
		drawer.DrawBytes([]byte("PAUSED"))
	} else if fr.Status != "" {
		drawer.Dot = fixed.P(0, 62)
		drawer.DrawBytes([]byte(string(fr.Status)))
	}

	return dev.Draw(dev.Bounds(), img, image.Point{})
}
