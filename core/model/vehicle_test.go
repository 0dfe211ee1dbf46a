package model

import (
	"testing"
	"time"
)

func TestEffectiveMileage(t *testing.T) {
	cases := []struct {
		name    string
		vehicle Vehicle
		want    int
	}{
		{"current preferred", Vehicle{CurrentMileage: 80000, Mileage: 50000}, 80000},
		{"legacy fallback", Vehicle{Mileage: 50000}, 50000},
		{"both absent", Vehicle{}, 0},
	}
	for _, c := range cases {
		if got := c.vehicle.EffectiveMileage(); got != c.want {
			t.Fatalf("%s: got %d want %d", c.name, got, c.want)
		}
	}
}

func TestVehicleAge(t *testing.T) {
	v := Vehicle{Year: 2020}
	if got := v.Age(2025); got != 5 {
		t.Fatalf("age: got %d", got)
	}
	if got := (Vehicle{}).Age(2025); got != 0 {
		t.Fatalf("missing year should be brand-new, got %d", got)
	}
	if got := (Vehicle{Year: 2030}).Age(2025); got != 0 {
		t.Fatalf("future year must clamp to 0, got %d", got)
	}
}

func TestParsedServiceDate(t *testing.T) {
	r := ServiceRecord{ServiceDate: "2025-03-14"}
	d, ok := r.ParsedServiceDate()
	if !ok {
		t.Fatalf("expected parseable date")
	}
	if d.Year() != 2025 || d.Month() != time.March || d.Day() != 14 {
		t.Fatalf("unexpected date %v", d)
	}
	if _, ok := (ServiceRecord{ServiceDate: "14/03/2025"}).ParsedServiceDate(); ok {
		t.Fatalf("expected parse failure")
	}
	if _, ok := (ServiceRecord{}).ParsedServiceDate(); ok {
		t.Fatalf("expected absence")
	}
}

func TestValidateVehicle(t *testing.T) {
	errs := ValidateVehicle(Vehicle{}, false)
	if len(errs) != 4 {
		t.Fatalf("expected 4 required-field errors, got %v", errs)
	}
	errs = ValidateVehicle(Vehicle{UsageType: "racing"}, true)
	if len(errs) != 1 {
		t.Fatalf("expected enum error, got %v", errs)
	}
	errs = ValidateVehicle(Vehicle{Make: "Toyota", Model: "Hilux", Year: 2021, Mileage: 42000, UsageType: "mixed"}, false)
	if len(errs) != 0 {
		t.Fatalf("legacy mileage should satisfy the requirement, got %v", errs)
	}
}
