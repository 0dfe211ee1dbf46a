package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fleetsense/autocare/app"
	"github.com/fleetsense/autocare/config"
	"github.com/fleetsense/autocare/infra/storage"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the vehicle catalog into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		path := seedFile
		if path == "" {
			path = cfg.Storage.CatalogSeed
		}
		if path == "" {
			return fmt.Errorf("no seed file given and storage.catalog_seed is unset")
		}
		store, err := storage.Open(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer store.Close()

		n, err := app.SeedCatalog(cmd.Context(), store.Catalog, path)
		if err != nil {
			return err
		}
		fmt.Printf("catalog seeded, %d new entries\n", n)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "catalog seed file (JSON)")
	rootCmd.AddCommand(seedCmd)
}
