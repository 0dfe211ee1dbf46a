package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fleetsense/autocare/config"
	"github.com/fleetsense/autocare/infra/logger"
	"github.com/fleetsense/autocare/simulator"
)

var (
	simVehicles []string
	simStartKm  int
	simStepKm   int
	simInterval time.Duration
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Publish synthetic odometer telemetry to the MQTT broker",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fleet, err := simulator.NewFleet(simulator.Config{
			Broker:   cfg.MQTT.Broker,
			Vehicles: simVehicles,
			StartKm:  simStartKm,
			StepKm:   simStepKm,
			Interval: simInterval,
			QoS:      cfg.MQTT.QoS,
		}, logger.New("simulator"))
		if err != nil {
			return err
		}
		return fleet.Run(ctx)
	},
}

func init() {
	simulateCmd.Flags().StringSliceVar(&simVehicles, "vehicles", nil, "vehicle ids to simulate")
	simulateCmd.Flags().IntVar(&simStartKm, "start-km", 50000, "initial odometer reading")
	simulateCmd.Flags().IntVar(&simStepKm, "step-km", 25, "maximum advance per tick")
	simulateCmd.Flags().DurationVar(&simInterval, "interval", 5*time.Second, "publish interval")
	rootCmd.AddCommand(simulateCmd)
}
