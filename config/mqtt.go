package config

import (
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// NewMQTT creates a client that keeps retrying the initial connection and
// reconnects with backoff afterwards. onConnect runs after every successful
// (re)connect and is where subscriptions are (re)established.
func NewMQTT(cfg *Config, log *slog.Logger, onConnect mqtt.OnConnectHandler) mqtt.Client {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTT.Broker).
		SetClientID(cfg.MQTT.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(cfg.MQTT.ConnectRetryInterval).
		SetMaxReconnectInterval(cfg.MQTT.MaxReconnectInterval).
		SetOnConnectHandler(func(c mqtt.Client) {
			log.Info("mqtt connected", slog.String("broker", cfg.MQTT.Broker))
			if onConnect != nil {
				onConnect(c)
			}
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn("mqtt connection lost", slog.Any("error", err))
		}).
		SetReconnectingHandler(func(_ mqtt.Client, _ *mqtt.ClientOptions) {
			log.Info("mqtt reconnecting", slog.String("broker", cfg.MQTT.Broker))
		})

	return mqtt.NewClient(opts)
}

func ConnectMQTT(client mqtt.Client, log *slog.Logger) {
	token := client.Connect()
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			log.Error("mqtt connect", slog.Any("error", err))
		}
	}()
}
