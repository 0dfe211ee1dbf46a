package mqtt

import (
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/fleetsense/autocare/infra/logger"
	"github.com/fleetsense/autocare/internal/eventbus"
)

type fakeToken struct{}

func (fakeToken) Wait() bool                     { return true }
func (fakeToken) WaitTimeout(time.Duration) bool { return true }
func (fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (fakeToken) Error() error { return nil }

type fakeClient struct {
	connected bool
	handler   paho.MessageHandler
	topic     string
}

func (f *fakeClient) IsConnected() bool { return f.connected }
func (f *fakeClient) Connect() paho.Token {
	f.connected = true
	return fakeToken{}
}
func (f *fakeClient) Disconnect(uint) { f.connected = false }
func (f *fakeClient) Subscribe(topic string, _ byte, cb paho.MessageHandler) paho.Token {
	f.topic = topic
	f.handler = cb
	return fakeToken{}
}

type fakeMessage struct {
	topic   string
	payload []byte
}

func (fakeMessage) Duplicate() bool   { return false }
func (fakeMessage) Qos() byte         { return 0 }
func (fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string   { return m.topic }
func (fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte { return m.payload }
func (fakeMessage) Ack()              {}

func newTestSubscriber(t *testing.T) (*TelemetrySubscriber, *fakeClient, *eventbus.Bus[eventbus.OdometerEvent]) {
	t.Helper()
	fc := &fakeClient{}
	orig := newMQTTClient
	newMQTTClient = func(_ *paho.ClientOptions) pahoClient { return fc }
	t.Cleanup(func() { newMQTTClient = orig })

	bus := eventbus.NewBus[eventbus.OdometerEvent]()
	sub, err := NewTelemetrySubscriber(Config{Broker: "tcp://localhost:1883"}, bus, logger.NopLogger{})
	if err != nil {
		t.Fatalf("NewTelemetrySubscriber: %v", err)
	}
	t.Cleanup(sub.Close)
	t.Cleanup(bus.Close)
	return sub, fc, bus
}

func TestTelemetryPublishesOdometerEvents(t *testing.T) {
	sub, _, bus := newTestSubscriber(t)
	ch := bus.Subscribe()

	sub.onMessage(nil, fakeMessage{
		topic:   "autocare/vehicles/veh-42/odometer",
		payload: []byte(`{"odometer_km": 87100}`),
	})

	select {
	case ev := <-ch:
		if ev.VehicleID != "veh-42" || ev.OdometerKm != 87100 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestTelemetryPayloadIDWins(t *testing.T) {
	sub, _, bus := newTestSubscriber(t)
	ch := bus.Subscribe()

	sub.onMessage(nil, fakeMessage{
		topic:   "autocare/vehicles/veh-42/odometer",
		payload: []byte(`{"vehicle_id": "veh-7", "odometer_km": 1000}`),
	})

	select {
	case ev := <-ch:
		if ev.VehicleID != "veh-7" {
			t.Fatalf("payload id ignored: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestTelemetryDropsBadMessages(t *testing.T) {
	sub, _, bus := newTestSubscriber(t)
	ch := bus.Subscribe()

	sub.onMessage(nil, fakeMessage{topic: "autocare/vehicles/v1/odometer", payload: []byte(`not json`)})
	sub.onMessage(nil, fakeMessage{topic: "autocare/vehicles/v1/odometer", payload: []byte(`{"odometer_km": 0}`)})
	sub.onMessage(nil, fakeMessage{topic: "odometer", payload: []byte(`{"odometer_km": 10}`)})

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTelemetrySubscribesOnConnect(t *testing.T) {
	_, fc, _ := newTestSubscriber(t)
	if !fc.connected {
		t.Fatal("client not connected")
	}
}
