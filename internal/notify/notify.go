// Package notify broadcasts fasting boundary transitions over MQTT.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/ramadan-compass/internal/fasting"
)

// DefaultTopic is used when no topic is configured.
const DefaultTopic = "ramadan-compass/events"

const (
	qos            = 1
	publishTimeout = 5 * time.Second
	disconnectWait = 250
)

// Event describes a boundary that was just reached and, when known, the
// one that follows it.
type Event struct {
	Reached fasting.Target
	Next    *fasting.Target
}

// Notifier publishes transitions.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Nop discards every event.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, Event) error { return nil }

type nextPayload struct {
	Event string `json:"event"`
	At    string `json:"at"`
}

type payload struct {
	Event string       `json:"event"`
	Label string       `json:"label"`
	At    string       `json:"at"`
	Next  *nextPayload `json:"next,omitempty"`
}

// Encode renders ev as the JSON message body.
func Encode(ev Event) ([]byte, error) {
	p := payload{
		Event: eventName(ev.Reached.Kind),
		Label: ev.Reached.Kind.Label(),
		At:    ev.Reached.At.Format(time.RFC3339),
	}
	if ev.Next != nil {
		p.Next = &nextPayload{
			Event: eventName(ev.Next.Kind),
			At:    ev.Next.At.Format(time.RFC3339),
		}
	}
	return json.Marshal(p)
}

func eventName(k fasting.Kind) string {
	if k == fasting.Iftar {
		return "iftar"
	}
	return "suhoor"
}

// publisher is the part of mqtt.Client used for publishing.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTT publishes events to a broker topic.
type MQTT struct {
	client publisher
	topic  string
	logger zerolog.Logger
}

// Dial connects to broker and returns a publisher for topic.
func Dial(broker, topic, clientID string, logger zerolog.Logger) (*MQTT, error) {
	if topic == "" {
		topic = DefaultTopic
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetConnectTimeout(publishTimeout)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(mqtt.Client) {
		logger.Debug().Str("broker", broker).Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warn().Err(err).Str("broker", broker).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return newMQTT(client, topic, logger), nil
}

func newMQTT(client publisher, topic string, logger zerolog.Logger) *MQTT {
	return &MQTT{client: client, topic: topic, logger: logger}
}

// Topic returns the topic events are published to.
func (m *MQTT) Topic() string {
	return m.topic
}

// Notify publishes ev with QoS 1, not retained.
func (m *MQTT) Notify(ctx context.Context, ev Event) error {
	body, err := Encode(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	token := m.client.Publish(m.topic, qos, false, body)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return fmt.Errorf("publish to %s timed out", m.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", m.topic, err)
	}

	m.logger.Debug().Str("topic", m.topic).Str("event", eventName(ev.Reached.Kind)).Msg("published transition")
	return nil
}

// Close disconnects from the broker.
func (m *MQTT) Close() {
	m.client.Disconnect(disconnectWait)
}
