// Package compliance derives a resource's booking eligibility from the expiry
// dates on its maintenance schedule.
package compliance

import (
	"time"

	"bookhaus/internal/store"
	"bookhaus/pkg/config"
	"bookhaus/pkg/logger"
	"bookhaus/pkg/model"
	"bookhaus/pkg/timeslot"
)

// Evaluate reports whether a resource is eligible for booking on the given
// day. Non-vehicle resources are always compliant. A vehicle is non-compliant
// iff any maintenance check with a non-empty expiry date falls strictly
// before today. Empty dates mean the check is not tracked. An unparseable
// date counts as expired rather than silently passing.
func Evaluate(r model.Resource, today time.Time) bool {
	if r.Type != config.ResourceVehicle {
		return true
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	for _, expiry := range r.Maintenance {
		if expiry == "" {
			continue
		}
		d, err := timeslot.ParseDate(expiry)
		if err != nil {
			return false
		}
		if d.Before(day) {
			return false
		}
	}
	return true
}

// Gate recomputes compliance for resources at the point of use. The stored
// IsCompliant flag is never trusted as input; it only feeds listings.
type Gate struct {
	store *store.Store
	log   *logger.Logger
	now   func() time.Time
}

func NewGate(st *store.Store, log *logger.Logger) *Gate {
	return &Gate{store: st, log: log, now: time.Now}
}

// WithClock overrides the gate's notion of "today". Tests use it to pin
// evaluation dates.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

// Check recomputes one resource's compliance, writing the derived flag back
// through the store.
func (g *Gate) Check(resourceID string, today time.Time) (bool, error) {
	r, err := g.store.ResourceByID(resourceID)
	if err != nil {
		return false, err
	}
	compliant := Evaluate(r, today)
	if err := g.store.SetResourceCompliance(resourceID, compliant); err != nil {
		return false, err
	}
	if !compliant {
		g.log.Debug("Resource is non-compliant", "resource_id", resourceID, "today", today.Format(timeslot.DateLayout))
	}
	return compliant, nil
}

// CheckAll sweeps every resource, refreshing stored flags. Returns the IDs
// of resources found non-compliant.
func (g *Gate) CheckAll(today time.Time) []string {
	var failed []string
	for _, r := range g.store.Resources() {
		compliant := Evaluate(r, today)
		_ = g.store.SetResourceCompliance(r.ID, compliant)
		if !compliant {
			failed = append(failed, r.ID)
		}
	}
	if len(failed) > 0 {
		g.log.Info("Compliance sweep found non-compliant resources", "count", len(failed))
	}
	return failed
}

// FilterNonCompliant returns the subset of resourceIDs that fail the gate
// today. The engine rejects candidates referencing any of them.
func (g *Gate) FilterNonCompliant(resourceIDs []string) ([]string, error) {
	today := g.now()
	var failed []string
	for _, id := range resourceIDs {
		compliant, err := g.Check(id, today)
		if err != nil {
			return nil, err
		}
		if !compliant {
			failed = append(failed, id)
		}
	}
	return failed, nil
}

// Listings presents every resource with a selectable marker. Non-compliant
// resources stay visible so the caller can explain why they are disabled.
func (g *Gate) Listings() []model.ResourceListing {
	today := g.now()
	resources := g.store.Resources()
	out := make([]model.ResourceListing, 0, len(resources))
	for _, r := range resources {
		compliant := Evaluate(r, today)
		_ = g.store.SetResourceCompliance(r.ID, compliant)
		r.IsCompliant = compliant
		out = append(out, model.ResourceListing{Resource: r, Selectable: compliant})
	}
	return out
}
