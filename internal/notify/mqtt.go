package notify

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// Audience topics live under this prefix; field displays and the ops console
// subscribe to notifications/<audience>.
const topicPrefix = "notifications/"

// ConnectBroker dials the MQTT broker with exponential backoff. Callers may
// run without a broker (nil client) and fall back to the websocket hub only.
func ConnectBroker(brokerURL, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", brokerURL).Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Error().Err(err).Msg("MQTT connection lost")
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 15 * time.Second

	var client mqtt.Client
	err := backoff.Retry(func() error {
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Warn().Err(token.Error()).Msg("MQTT connect attempt failed")
			return token.Error()
		}
		return nil
	}, bo)
	if err != nil {
		return nil, fmt.Errorf("could not connect to MQTT broker %s: %w", brokerURL, err)
	}
	return client, nil
}

// Disconnect closes the broker connection if one is up.
func Disconnect(client mqtt.Client) {
	if client != nil && client.IsConnected() {
		client.Disconnect(250)
	}
}
