// Package mqtt ingests odometer telemetry from vehicles over an MQTT broker
// and republishes it on the internal event bus.
package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/fleetsense/autocare/core/logger"
	"github.com/fleetsense/autocare/internal/eventbus"
)

// Config defines the connection parameters for the telemetry subscriber.
type Config struct {
	Enabled   bool   `json:"enabled"`
	Broker    string `json:"broker"`
	ClientID  string `json:"client_id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Topic     string `json:"topic"`
	QoS       byte   `json:"qos"`
	BackoffMS int    `json:"backoff_ms"`
}

// SetDefaults fills the telemetry topic and reconnect backoff.
func (c *Config) SetDefaults() {
	if c.Topic == "" {
		c.Topic = "autocare/vehicles/+/odometer"
	}
	if c.BackoffMS <= 0 {
		c.BackoffMS = 2000
	}
	if c.ClientID == "" {
		c.ClientID = "autocare-" + uuid.NewString()[:8]
	}
}

type odometerPayload struct {
	VehicleID  string `json:"vehicle_id"`
	OdometerKm int    `json:"odometer_km"`
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// TelemetrySubscriber bridges broker messages onto the odometer bus.
type TelemetrySubscriber struct {
	cli   pahoClient
	topic string
	qos   byte
	bus   *eventbus.Bus[eventbus.OdometerEvent]
	log   logger.Logger
}

// NewTelemetrySubscriber connects to the broker and subscribes to the
// odometer topic. The subscription is re-established on every reconnect.
func NewTelemetrySubscriber(cfg Config, bus *eventbus.Bus[eventbus.OdometerEvent], log logger.Logger) (*TelemetrySubscriber, error) {
	cfg.SetDefaults()
	sub := &TelemetrySubscriber{topic: cfg.Topic, qos: cfg.QoS, bus: bus, log: log}

	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	opts.SetConnectRetryInterval(time.Duration(cfg.BackoffMS) * time.Millisecond)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected, subscribing to %s", sub.topic)
		if token := c.Subscribe(sub.topic, sub.qos, sub.onMessage); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("MQTT connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect mqtt: %w", token.Error())
	}
	sub.cli = c
	return sub, nil
}

func (s *TelemetrySubscriber) onMessage(_ paho.Client, msg paho.Message) {
	var p odometerPayload
	if err := json.Unmarshal(msg.Payload(), &p); err != nil {
		s.log.Warnf("invalid odometer payload on %s: %v", msg.Topic(), err)
		return
	}
	if p.VehicleID == "" {
		p.VehicleID = vehicleIDFromTopic(msg.Topic())
	}
	if p.VehicleID == "" || p.OdometerKm <= 0 {
		s.log.Debugf("dropping odometer message on %s", msg.Topic())
		return
	}
	s.bus.Publish(eventbus.OdometerEvent{VehicleID: p.VehicleID, OdometerKm: p.OdometerKm})
}

// vehicleIDFromTopic extracts the id from autocare/vehicles/<id>/odometer.
func vehicleIDFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

// Close disconnects from the broker.
func (s *TelemetrySubscriber) Close() {
	if s.cli != nil && s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
}
