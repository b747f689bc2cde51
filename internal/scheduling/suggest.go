package scheduling

import (
	"strings"

	"bookhaus/pkg/model"
	"bookhaus/pkg/timeslot"
)

// SuggestInput carries the collections and policy knobs the generator scans.
// Compliant is the compliance gate, injected so each examined slot is
// re-checked against it rather than against a stored flag.
type SuggestInput struct {
	Bookings  []model.Booking
	Staff     []model.Staff
	Resources []model.Resource
	Compliant func(model.Resource) bool
	DayEnd    int // minutes since midnight; no suggestion may end after this
}

// Suggest produces up to maxResults alternative slots for a conflicted
// candidate, in priority order:
//
//  1. same staff and resources, later start times on the same date, stepping
//     forward from the candidate's end in increments of its own duration;
//  2. same time window, alternate staff who offer the requested service;
//  3. same time window, alternate compliant resources of the same type.
//
// Each suggestion is itself conflict-free and compliant. Ordering is stable:
// earlier phase first, then earlier time, then insertion order. An empty
// result is a valid outcome, not an error.
func Suggest(in SuggestInput, cand model.Candidate, maxResults int) []model.Suggestion {
	if maxResults <= 0 {
		return nil
	}

	iv, err := timeslot.NewInterval(cand.StartTime, cand.EndTime)
	if err != nil || !iv.Valid() {
		return nil
	}

	var out []model.Suggestion
	seen := make(map[string]struct{})

	add := func(s model.Suggestion) bool {
		key := s.StartTime + "|" + s.StaffID + "|" + strings.Join(s.ResourceIDs, ",")
		if _, dup := seen[key]; dup {
			return len(out) < maxResults
		}
		seen[key] = struct{}{}
		out = append(out, s)
		return len(out) < maxResults
	}

	feasible := func(c model.Candidate) bool {
		if len(FindConflicts(c, in.Bookings)) > 0 {
			return false
		}
		for _, id := range c.ResourceIDs {
			r, ok := resourceByID(in.Resources, id)
			if !ok || !in.Compliant(r) {
				return false
			}
		}
		return true
	}

	// Phase 1: push the same assignment later into the day.
	step := iv.Duration()
	for slot := (timeslot.Interval{Start: iv.End, End: iv.End + step}); slot.End <= in.DayEnd; slot = slot.Shift(step) {
		trial := cand
		trial.StartTime = timeslot.FormatTime(slot.Start)
		trial.EndTime = timeslot.FormatTime(slot.End)
		if feasible(trial) {
			if !add(model.Suggestion{
				StartTime:   trial.StartTime,
				EndTime:     trial.EndTime,
				StaffID:     trial.StaffID,
				ResourceIDs: trial.ResourceIDs,
			}) {
				return out
			}
		}
	}

	// Phase 2: same window, different staff offering the service.
	for _, m := range in.Staff {
		if m.ID == cand.StaffID || !m.Offers(cand.ServiceID) {
			continue
		}
		trial := cand
		trial.StaffID = m.ID
		if feasible(trial) {
			if !add(model.Suggestion{
				StartTime:   cand.StartTime,
				EndTime:     cand.EndTime,
				StaffID:     m.ID,
				ResourceIDs: cand.ResourceIDs,
			}) {
				return out
			}
		}
	}

	// Phase 3: same window, alternate resource of the same type. The first
	// requested resource fixes the type being substituted.
	wantType := ""
	if len(cand.ResourceIDs) > 0 {
		if primary, ok := resourceByID(in.Resources, cand.ResourceIDs[0]); ok {
			wantType = primary.Type
		}
	}
	if wantType == "" {
		return out
	}
	requested := make(map[string]struct{}, len(cand.ResourceIDs))
	for _, id := range cand.ResourceIDs {
		requested[id] = struct{}{}
	}
	for _, r := range in.Resources {
		if r.Type != wantType {
			continue
		}
		if _, isRequested := requested[r.ID]; isRequested {
			continue
		}
		if !in.Compliant(r) {
			continue
		}
		trial := cand
		trial.ResourceIDs = []string{r.ID}
		if feasible(trial) {
			if !add(model.Suggestion{
				StartTime:   cand.StartTime,
				EndTime:     cand.EndTime,
				StaffID:     cand.StaffID,
				ResourceIDs: []string{r.ID},
			}) {
				return out
			}
		}
	}

	return out
}

func resourceByID(resources []model.Resource, id string) (model.Resource, bool) {
	for _, r := range resources {
		if r.ID == id {
			return r, true
		}
	}
	return model.Resource{}, false
}
