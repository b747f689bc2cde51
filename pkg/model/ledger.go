package model

import "time"

// LedgerEntry attributes the distance of one completed booking to a vehicle
// and a date. FuelCost is estimated at recording time from the configured
// cost per mile.
type LedgerEntry struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty"`
	VehicleID    string    `json:"vehicle_id" bson:"vehicle_id" validate:"required"`
	BookingID    string    `json:"booking_id" bson:"booking_id" validate:"required"`
	Date         string    `json:"date" bson:"date" validate:"required,booking_date"`
	StartReading float64   `json:"start_reading" bson:"start_reading" validate:"gte=0"`
	EndReading   float64   `json:"end_reading" bson:"end_reading" validate:"gtefield=StartReading"`
	Distance     float64   `json:"distance" bson:"distance"`
	FuelCost     float64   `json:"fuel_cost" bson:"fuel_cost"`
	RecordedAt   time.Time `json:"recorded_at" bson:"recorded_at"`
}

// LedgerFilter narrows a distance aggregation. Zero values mean no filter.
type LedgerFilter struct {
	VehicleID string `json:"vehicle_id,omitempty"`
	From      string `json:"from,omitempty"` // inclusive date
	To        string `json:"to,omitempty"`   // inclusive date
}

// VehicleMileage is one row of the mileage report.
type VehicleMileage struct {
	VehicleID   string  `json:"vehicle_id"`
	VehicleName string  `json:"vehicle_name"`
	Distance    float64 `json:"distance"`
	FuelCost    float64 `json:"fuel_cost"`
	Odometer    float64 `json:"odometer"`
}
