package notify

import (
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/greensys-tech/invernadero/internal/metrics"
	"github.com/greensys-tech/invernadero/internal/model"
)

// Fanout pushes a stored notification to the websocket hub and the MQTT
// audience topic. Delivery is fire-and-forget: no acknowledgment, no retry;
// a breaker keeps a dead broker from stalling request handlers.
type Fanout struct {
	client  mqtt.Client
	hub     *Hub
	breaker *gobreaker.CircuitBreaker
}

func NewFanout(client mqtt.Client, hub *Hub) *Fanout {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "notification-push",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Fanout{client: client, hub: hub, breaker: cb}
}

func (f *Fanout) Publish(audience string, n model.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		log.Error().Err(err).Msg("notification marshal failed")
		return
	}
	metrics.NotificationPublished(audience)

	if f.hub != nil {
		f.hub.Broadcast(audience, payload)
	}
	if f.client == nil {
		return
	}

	_, err = f.breaker.Execute(func() (any, error) {
		token := f.client.Publish(topicPrefix+audience, 0, false, payload)
		token.Wait()
		return nil, token.Error()
	})
	if err != nil {
		log.Warn().Err(err).Str("audience", audience).Msg("MQTT publish dropped")
	}
}
