package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fleetsense/autocare/config"
	"github.com/fleetsense/autocare/core/estimate"
	"github.com/fleetsense/autocare/core/model"
	"github.com/fleetsense/autocare/infra/logger"
	"github.com/fleetsense/autocare/infra/modelstore"
)

var (
	vehicleFile string
	historyFile string
	serviceType string
)

// predictCmd runs the engine offline against JSON files, without the API or
// the database. Useful for checking model artifacts before deploying them.
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run a one-off prediction from JSON input",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		var vehicle model.Vehicle
		if err := readJSON(vehicleFile, &vehicle); err != nil {
			return fmt.Errorf("vehicle: %w", err)
		}
		var history []model.ServiceRecord
		if historyFile != "" {
			if err := readJSON(historyFile, &history); err != nil {
				return fmt.Errorf("history: %w", err)
			}
		}

		log := logger.New("predict")
		engine := estimate.NewEngine(modelstore.NewFileStore(cfg.Models.Dir, log), log)
		prediction := engine.Predict(vehicle, history, cfg.Intervals, serviceType)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(prediction)
	},
}

func readJSON(path string, dst any) error {
	if path == "" {
		return fmt.Errorf("no input file given")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

func init() {
	predictCmd.Flags().StringVar(&vehicleFile, "vehicle", "", "vehicle profile file (JSON)")
	predictCmd.Flags().StringVar(&historyFile, "history", "", "maintenance history file (JSON)")
	predictCmd.Flags().StringVarP(&serviceType, "service-type", "s", "", "service type to estimate")
	rootCmd.AddCommand(predictCmd)
}
