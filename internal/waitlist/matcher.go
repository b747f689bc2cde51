// Package waitlist matches freed slots against the waiting list when a
// booking is cancelled.
package waitlist

import (
	"time"

	"bookhaus/pkg/model"
)

// MatchFreedSlot finds the waiting entry to notify for a slot freed by
// cancellation. No-op unless settings.AutoNotifyWaitingList is on.
//
// An entry matches iff it wants the same date with identical start and end
// times, and its staff/resource preferences are either empty or satisfied by
// the freed booking. Among matches at most one is notified: earliest AddedAt
// wins, ties broken by position in the list. Served entries never match.
//
// The returned slice holds zero or one event; the caller marks the matched
// entry served so a later, different freed slot cannot re-notify it.
func MatchFreedSlot(freed model.Booking, entries []model.WaitingListEntry, settings model.Settings) []model.NotificationEvent {
	if !settings.AutoNotifyWaitingList {
		return nil
	}

	var best *model.WaitingListEntry
	for i := range entries {
		e := &entries[i]
		if e.Served {
			continue
		}
		if e.Date != freed.Date || e.StartTime != freed.StartTime || e.EndTime != freed.EndTime {
			continue
		}
		if e.StaffID != "" && e.StaffID != freed.StaffID {
			continue
		}
		if !preferenceSatisfied(e.ResourceIDs, freed.ResourceIDs) {
			continue
		}
		if best == nil || e.AddedAt.Before(best.AddedAt) {
			best = e
		}
	}

	if best == nil {
		return nil
	}

	return []model.NotificationEvent{{
		CustomerID:  best.CustomerID,
		EntryID:     best.ID,
		BookingID:   freed.ID,
		Date:        freed.Date,
		StartTime:   freed.StartTime,
		EndTime:     freed.EndTime,
		StaffID:     freed.StaffID,
		ResourceIDs: freed.ResourceIDs,
		EmittedAt:   time.Now().UTC(),
	}}
}

// preferenceSatisfied: an empty preference accepts anything; otherwise every
// preferred resource must be part of the freed booking.
func preferenceSatisfied(preferred, freed []string) bool {
	for _, want := range preferred {
		found := false
		for _, have := range freed {
			if want == have {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
