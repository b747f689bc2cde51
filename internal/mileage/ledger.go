// Package mileage maintains the per-vehicle distance ledger derived from
// completed bookings' odometer readings.
package mileage

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"bookhaus/internal/store"
	"bookhaus/pkg/config"
	"bookhaus/pkg/errors"
	"bookhaus/pkg/logger"
	"bookhaus/pkg/model"
)

type Ledger struct {
	store           *store.Store
	fuelCostPerMile float64
	log             *logger.Logger
}

func NewLedger(st *store.Store, fuelCostPerMile float64, log *logger.Logger) *Ledger {
	return &Ledger{store: st, fuelCostPerMile: fuelCostPerMile, log: log}
}

// RecordCompletion writes a ledger entry for a completed booking and advances
// the vehicle's odometer to endReading, so the next booking's suggested start
// reading continues where this one ended. Reversed readings are a validation
// error, never a silent clamp. Bookings without a vehicle are a no-op.
func (l *Ledger) RecordCompletion(booking model.Booking, startReading, endReading float64) (*model.LedgerEntry, error) {
	if endReading < startReading {
		return nil, errors.Validation("End reading must not be less than start reading", map[string]any{
			"start_reading": startReading,
			"end_reading":   endReading,
		})
	}

	vehicleID := ""
	for _, id := range booking.ResourceIDs {
		r, err := l.store.ResourceByID(id)
		if err != nil {
			return nil, errors.NotFoundWithID("Resource", id)
		}
		if r.Type == config.ResourceVehicle {
			vehicleID = r.ID
			break
		}
	}
	if vehicleID == "" {
		return nil, nil
	}

	distance := endReading - startReading
	entry := model.LedgerEntry{
		ID:           uuid.NewString(),
		VehicleID:    vehicleID,
		BookingID:    booking.ID,
		Date:         booking.Date,
		StartReading: startReading,
		EndReading:   endReading,
		Distance:     distance,
		FuelCost:     distance * l.fuelCostPerMile,
		RecordedAt:   time.Now().UTC(),
	}

	l.store.AppendLedgerEntry(entry)
	if err := l.store.SetResourceOdometer(vehicleID, endReading); err != nil {
		return nil, errors.Internal("Failed to advance vehicle odometer", err)
	}

	l.log.Info("Mileage recorded",
		"booking_id", booking.ID,
		"vehicle_id", vehicleID,
		"distance", distance,
	)
	return &entry, nil
}

// TotalDistance sums ledger distances across entries matching the filter.
// No vehicle filter means all vehicles.
func (l *Ledger) TotalDistance(filter model.LedgerFilter) float64 {
	var total float64
	for _, e := range l.store.LedgerEntries() {
		if matches(e, filter) {
			total += e.Distance
		}
	}
	return total
}

// Report aggregates distance and estimated fuel cost per vehicle, plus the
// all-vehicles total as the last row with an empty vehicle ID.
func (l *Ledger) Report(filter model.LedgerFilter) []model.VehicleMileage {
	byVehicle := make(map[string]*model.VehicleMileage)
	var order []string

	for _, e := range l.store.LedgerEntries() {
		if !matches(e, filter) {
			continue
		}
		row, ok := byVehicle[e.VehicleID]
		if !ok {
			row = &model.VehicleMileage{VehicleID: e.VehicleID}
			if r, err := l.store.ResourceByID(e.VehicleID); err == nil {
				row.VehicleName = r.Name
				row.Odometer = r.Odometer
			}
			byVehicle[e.VehicleID] = row
			order = append(order, e.VehicleID)
		}
		row.Distance += e.Distance
		row.FuelCost += e.FuelCost
	}

	out := make([]model.VehicleMileage, 0, len(order)+1)
	total := model.VehicleMileage{VehicleName: "Total Distance (All Vehicles)"}
	for _, id := range order {
		row := byVehicle[id]
		out = append(out, *row)
		total.Distance += row.Distance
		total.FuelCost += row.FuelCost
	}
	return append(out, total)
}

// SuggestedStartReading returns the reading a new completion should start
// from: the vehicle's current odometer, which equals the previous completed
// booking's end reading or the baseline if nothing was recorded yet.
func (l *Ledger) SuggestedStartReading(vehicleID string) (float64, error) {
	r, err := l.store.ResourceByID(vehicleID)
	if err != nil {
		return 0, errors.NotFoundWithID("Resource", vehicleID)
	}
	if r.Type != config.ResourceVehicle {
		return 0, errors.InvalidInput(fmt.Sprintf("Resource %s is not a vehicle", vehicleID))
	}
	return r.Odometer, nil
}

func matches(e model.LedgerEntry, f model.LedgerFilter) bool {
	if f.VehicleID != "" && e.VehicleID != f.VehicleID {
		return false
	}
	if f.From != "" && e.Date < f.From {
		return false
	}
	if f.To != "" && e.Date > f.To {
		return false
	}
	return true
}
