package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fleetsense/autocare/core/model"
	"github.com/fleetsense/autocare/core/storage"
)

// SeedCatalog loads catalog entries from a JSON file and upserts them,
// returning the number of newly inserted entries. Existing entries are
// refreshed in place, so re-seeding is idempotent.
func SeedCatalog(ctx context.Context, repo storage.CatalogRepository, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	var items []model.CatalogVehicle
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}
	return repo.UpsertMany(ctx, items)
}
