package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/bhavisha4779/accident-relay/config"
)

type accidentMessage struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Punjab/Chandigarh area, where the default registry lives.
const (
	minLat, maxLat = 29.5, 31.0
	minLon, maxLon = 75.0, 77.0
)

func randomPoint() (float64, float64) {
	return minLat + rand.Float64()*(maxLat-minLat), minLon + rand.Float64()*(maxLon-minLon)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds>\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTT.Broker).
		SetClientID(cfg.MQTT.ClientID + "-mock-publisher")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Error("mqtt connect", slog.Any("error", token.Error()))
		os.Exit(1)
	}
	defer client.Disconnect(250)

	log.Info("publishing accidents",
		slog.String("broker", cfg.MQTT.Broker),
		slog.String("topic", cfg.MQTT.Topic),
		slog.Int("interval_seconds", intervalSec),
	)

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		var lat, lon float64
		// 30% chance to crash right next to a registered hospital
		if rand.Float64() < 0.3 {
			h := cfg.Hospitals[rand.Intn(len(cfg.Hospitals))]
			lat = h.Latitude + (rand.Float64()-0.5)*0.01
			lon = h.Longitude + (rand.Float64()-0.5)*0.01
		} else {
			lat, lon = randomPoint()
		}

		payload, _ := json.Marshal(accidentMessage{Latitude: lat, Longitude: lon})

		token := client.Publish(cfg.MQTT.Topic, cfg.MQTT.QoS, false, payload)
		token.Wait()
		if err := token.Error(); err != nil {
			log.Error("publish", slog.Any("error", err))
			continue
		}

		log.Info("published", slog.String("topic", cfg.MQTT.Topic), slog.String("payload", string(payload)))
	}
}
