package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fleetsense/autocare/infra/storage"
)

const seedJSON = `[
  {"id": "toyota-corolla", "make": "Toyota", "model": "Corolla", "vehicle_type": "sedan", "fuel_type": "gasoline", "transmission": "automatic"},
  {"id": "honda-crv", "make": "Honda", "model": "CR-V", "vehicle_type": "suv", "fuel_type": "gasoline", "transmission": "automatic"}
]`

func TestSeedCatalog(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	path := filepath.Join(dir, "catalog.json")
	if err := os.WriteFile(path, []byte(seedJSON), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	ctx := context.Background()
	n, err := SeedCatalog(ctx, store.Catalog, path)
	if err != nil {
		t.Fatalf("SeedCatalog: %v", err)
	}
	if n != 2 {
		t.Fatalf("inserted = %d, want 2", n)
	}

	// Idempotent on re-run.
	n, err = SeedCatalog(ctx, store.Catalog, path)
	if err != nil {
		t.Fatalf("SeedCatalog again: %v", err)
	}
	if n != 0 {
		t.Fatalf("re-seed inserted = %d, want 0", n)
	}

	list, err := store.Catalog.List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("List: %v, %d entries", err, len(list))
	}
}

func TestSeedCatalogBadFile(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if _, err := SeedCatalog(context.Background(), store.Catalog, "missing.json"); err == nil {
		t.Fatal("expected read error")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := SeedCatalog(context.Background(), store.Catalog, path); err == nil {
		t.Fatal("expected parse error")
	}
}
