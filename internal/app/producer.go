package app

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/attitude_visualizer/internal/config"
)

// RunProducer runs the render loop headless and publishes every frame
// to MQTT, so remote front-ends (console, OLED display) can follow the
// visualization without a direct link to the sensor.
func RunProducer(mode SourceMode, port string) error {
	cfg := config.Get()

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("producer connected to MQTT broker at %s", cfg.MQTTBroker)

	eng := newEngine(cfg, mode, port)
	eng.Start()
	defer eng.Stop()

	id, frames := eng.Subscribe(4)
	defer eng.Unsubscribe(id)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	log.Println("producer publishing frames, starting publish loop")

	for {
		select {
		case <-sigCh:
			log.Println("producer shutting down")
			return nil

		case fr, ok := <-frames:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(fr)
			if err != nil {
				log.Printf("json marshal error (frame): %v", err)
				continue
			}
			if token := client.Publish(cfg.TopicFrame, 0, true, payload); token.Wait() && token.Error() != nil {
				log.Printf("MQTT publish error (frame): %v", token.Error())
			}
		}
	}
}
