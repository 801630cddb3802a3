package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/attitude_visualizer/internal/config"
	"github.com/relabs-tech/attitude_visualizer/internal/engine"
)

// RunConsoleMQTT subscribes to the frame topic and prints the readouts.
func RunConsoleMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicFrame, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var fr engine.Frame
		if err := json.Unmarshal(msg.Payload(), &fr); err != nil {
			log.Printf("console: frame unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[FRAME] ROLL=%6.2f  PITCH=%6.2f  YAW=%6.2f  q=(%.3f %.3f %.3f %.3f)  trail=%d  %s\n",
			fr.Angles.Roll, fr.Angles.Pitch, fr.Angles.Yaw,
			fr.Quaternion.W, fr.Quaternion.X, fr.Quaternion.Y, fr.Quaternion.Z,
			len(fr.Trail), fr.Status,
		)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicFrame)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
