// Package scheduling holds the conflict detector and the suggestion
// generator. Both are pure over their inputs: they scan the collections they
// are handed and never mutate the store, which is what keeps them trivially
// re-runnable and testable.
package scheduling

import (
	"bookhaus/pkg/config"
	"bookhaus/pkg/errors"
	"bookhaus/pkg/model"
	"bookhaus/pkg/timeslot"
)

// FindConflicts returns every existing booking the candidate collides with.
// A conflict requires: same date, existing status Scheduled (terminal
// bookings never block a slot), a shared staff member or a resource-set
// intersection, and a half-open time overlap: an 09:00-10:00 slot does not
// conflict with 10:00-11:00.
func FindConflicts(cand model.Candidate, bookings []model.Booking) []model.Booking {
	iv, err := timeslot.NewInterval(cand.StartTime, cand.EndTime)
	if err != nil {
		return nil
	}

	var conflicts []model.Booking
	for _, b := range bookings {
		if b.Date != cand.Date || b.Status != config.StatusScheduled {
			continue
		}
		if b.StaffID != cand.StaffID && !b.SharesResource(cand.ResourceIDs) {
			continue
		}
		other, err := timeslot.NewInterval(b.StartTime, b.EndTime)
		if err != nil {
			continue
		}
		if iv.Overlaps(other) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}

// ConflictReason derives the human-readable reason tag for a set of
// conflicts. A staff collision wins over a resource collision because the
// staff member is the scarcer dimension to reschedule around.
func ConflictReason(cand model.Candidate, conflicts []model.Booking) string {
	for _, b := range conflicts {
		if b.StaffID == cand.StaffID {
			return errors.ReasonStaffBusy
		}
	}
	return errors.ReasonResourceBusy
}
