// Package simulator publishes synthetic odometer telemetry over MQTT, driving
// the same ingest path as real vehicles. Intended for local testing.
package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/fleetsense/autocare/core/logger"
)

// Config holds parameters for the simulator.
type Config struct {
	Broker   string
	Vehicles []string
	StartKm  int
	// StepKm is the maximum odometer advance per tick; each tick picks a
	// random value in [1, StepKm].
	StepKm   int
	Interval time.Duration
	QoS      byte
}

// Fleet drives a set of simulated vehicles.
type Fleet struct {
	cfg       Config
	cli       paho.Client
	odometers map[string]int
	log       logger.Logger
}

// NewFleet connects to the broker and prepares the simulated vehicles.
func NewFleet(cfg Config, log logger.Logger) (*Fleet, error) {
	if len(cfg.Vehicles) == 0 {
		return nil, fmt.Errorf("no vehicle ids given")
	}
	if cfg.StepKm <= 0 {
		cfg.StepKm = 25
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID("autocare-sim")
	opts.AutoReconnect = true
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	odometers := make(map[string]int, len(cfg.Vehicles))
	for _, id := range cfg.Vehicles {
		odometers[id] = cfg.StartKm
	}
	return &Fleet{cfg: cfg, cli: cli, odometers: odometers, log: log}, nil
}

// Run publishes readings until the context is cancelled.
func (f *Fleet) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			f.cli.Disconnect(250)
			return nil
		case <-ticker.C:
			f.tick()
		}
	}
}

func (f *Fleet) tick() {
	for _, id := range f.cfg.Vehicles {
		f.odometers[id] += 1 + rand.Intn(f.cfg.StepKm)
		payload, _ := json.Marshal(map[string]int{"odometer_km": f.odometers[id]})
		topic := fmt.Sprintf("autocare/vehicles/%s/odometer", id)
		if token := f.cli.Publish(topic, f.cfg.QoS, false, payload); token.Wait() && token.Error() != nil {
			f.log.Warnf("publish %s: %v", topic, token.Error())
			continue
		}
		f.log.Debugf("%s at %d km", id, f.odometers[id])
	}
}
