package model

import "time"

// ServiceRecord captures one past maintenance intervention. A vehicle's
// history is an ordered slice of records, most recent first. The engine treats
// history as read-only input.
type ServiceRecord struct {
	ID          string  `json:"id" db:"id"`
	UserID      string  `json:"user_id" db:"user_id"`
	VehicleID   string  `json:"vehicle_id" db:"vehicle_id"`
	ServiceType string  `json:"service_type,omitempty" db:"service_type"`
	Description string  `json:"description,omitempty" db:"description"`
	Cost        float64 `json:"cost,omitempty" db:"cost"`
	Mileage     int     `json:"mileage,omitempty" db:"mileage"`
	// ServiceDate is an ISO calendar date (YYYY-MM-DD).
	ServiceDate string `json:"service_date,omitempty" db:"service_date"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ServiceDateLayout is the calendar date format accepted in service records.
const ServiceDateLayout = "2006-01-02"

// ParsedServiceDate returns the service date as a UTC time, or false when the
// field is absent or not a parseable calendar date.
func (r ServiceRecord) ParsedServiceDate() (time.Time, bool) {
	if r.ServiceDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(ServiceDateLayout, r.ServiceDate)
	if err != nil {
		// Accept full RFC 3339 timestamps from older clients.
		t, err = time.Parse(time.RFC3339, r.ServiceDate)
		if err != nil {
			return time.Time{}, false
		}
	}
	return t.UTC(), true
}
