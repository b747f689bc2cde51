package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookhaus/internal/compliance"
	"bookhaus/internal/mileage"
	"bookhaus/internal/notify"
	"bookhaus/internal/scheduling"
	"bookhaus/internal/scheduling/validator"
	"bookhaus/internal/store"
	"bookhaus/internal/waitlist"
	"bookhaus/pkg/config"
	apperrors "bookhaus/pkg/errors"
	"bookhaus/pkg/model"
	"bookhaus/pkg/timeslot"
)

// Engine is the scheduling and conflict-resolution engine. Every entry point
// runs to completion before the store is observed by another operation; the
// engine mutex serializes them.
type Engine interface {
	OpenBookingCandidate(date, staffHint, timeHint string) (model.Candidate, error)
	SaveBooking(ctx context.Context, cand model.Candidate) (model.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) ([]model.NotificationEvent, error)
	CompleteBooking(ctx context.Context, bookingID string, startReading, endReading float64) (*model.LedgerEntry, error)
	Suggest(cand model.Candidate, maxResults int) []model.Suggestion

	RecomputeCompliance(resourceID string, today time.Time) (bool, error)
	ComplianceSweep(today time.Time) []string
	ListResources() []model.ResourceListing

	TotalDistance(filter model.LedgerFilter) float64
	MileageReport(filter model.LedgerFilter) []model.VehicleMileage
	SuggestedStartReading(vehicleID string) (float64, error)

	AddWaitingEntry(entry model.WaitingListEntry) (model.WaitingListEntry, error)
	WaitingList() []model.WaitingListEntry

	BookingByID(id string) (model.Booking, error)
	BookingsOn(date string) ([]model.Booking, error)
	DayPlan(date string) ([]model.Booking, error)
	WeekPlan(date string) ([]model.WeekDay, error)

	Settings() model.Settings
	UpdateSettings(settings model.Settings) error
}

type engine struct {
	mu sync.Mutex

	store     *store.Store
	validator *validator.CandidateValidator
	gate      *compliance.Gate
	ledger    *mileage.Ledger
	notifier  notify.Notifier
	cfg       *config.Config
	now       func() time.Time
}

func NewEngine(
	st *store.Store,
	v *validator.CandidateValidator,
	gate *compliance.Gate,
	ledger *mileage.Ledger,
	notifier notify.Notifier,
	cfg *config.Config,
) Engine {
	return &engine{
		store:     st,
		validator: v,
		gate:      gate,
		ledger:    ledger,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
	}
}

// OpenBookingCandidate drafts a candidate for the caller to fill in. The
// engine only provides defaults here; validation happens on save.
func (e *engine) OpenBookingCandidate(date, staffHint, timeHint string) (model.Candidate, error) {
	if _, err := timeslot.ParseDate(date); err != nil {
		return model.Candidate{}, apperrors.InvalidInput(err.Error())
	}

	start := e.cfg.DayStart
	if timeHint != "" {
		if _, err := timeslot.ParseTime(timeHint); err != nil {
			return model.Candidate{}, apperrors.InvalidInput(err.Error())
		}
		start = timeHint
	}

	startMin, _ := timeslot.ParseTime(start)
	end := timeslot.FormatTime(startMin + e.cfg.DefaultBookingDurationMin)

	return model.Candidate{
		Date:      date,
		StartTime: start,
		EndTime:   end,
		StaffID:   staffHint,
	}, nil
}

// SaveBooking validates the candidate, runs the compliance gate and the
// conflict detector, and commits on success. On conflict the caller is
// expected to invoke Suggest with the same candidate.
func (e *engine) SaveBooking(ctx context.Context, cand model.Candidate) (model.Booking, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.validator.Validate(&cand); err != nil {
		e.cfg.Log.Warn("Candidate validation failed", "error", err)
		return model.Booking{}, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	if err := e.checkReferences(cand); err != nil {
		return model.Booking{}, err
	}

	// Compliance is an orthogonal gate, checked before conflicts and
	// reported distinctly: alternate times never fix an ineligible resource.
	failed, err := e.gate.FilterNonCompliant(cand.ResourceIDs)
	if err != nil {
		return model.Booking{}, apperrors.AsAppError(err)
	}
	if len(failed) > 0 {
		return model.Booking{}, apperrors.Compliance("The selected resource is not compliant", failed)
	}

	conflicts := scheduling.FindConflicts(cand, e.store.Bookings())
	if len(conflicts) > 0 {
		reason := scheduling.ConflictReason(cand, conflicts)
		ids := make([]string, len(conflicts))
		for i, b := range conflicts {
			ids[i] = b.ID
		}
		e.cfg.Log.Info("Booking conflict detected",
			"date", cand.Date,
			"start_time", cand.StartTime,
			"reason", reason,
			"conflicts", len(conflicts),
		)
		return model.Booking{}, apperrors.Conflict(conflictMessage(reason), reason, ids)
	}

	booking := model.Booking{
		ID:          uuid.NewString(),
		Date:        cand.Date,
		StartTime:   cand.StartTime,
		EndTime:     cand.EndTime,
		CustomerID:  cand.CustomerID,
		StaffID:     cand.StaffID,
		ResourceIDs: cand.ResourceIDs,
		ServiceID:   cand.ServiceID,
		Status:      config.StatusScheduled,
		Pickup:      cand.Pickup,
		CreatedAt:   time.Now().UTC(),
	}
	e.store.AppendBooking(booking)

	e.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"date", booking.Date,
		"start_time", booking.StartTime,
		"staff_id", booking.StaffID,
	)
	return booking, nil
}

// CancelBooking transitions the booking to Cancelled and runs the waiting
// list matcher against the freed slot. The matched entry (if any) is marked
// served before its event is handed to the notifier.
func (e *engine) CancelBooking(ctx context.Context, bookingID string) ([]model.NotificationEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	booking, err := e.store.BookingByID(bookingID)
	if err != nil {
		return nil, apperrors.NotFoundWithID("Booking", bookingID)
	}
	if err := e.store.TransitionBooking(bookingID, config.StatusCancelled); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	booking.Status = config.StatusCancelled

	events := waitlist.MatchFreedSlot(booking, e.store.WaitingEntries(), e.store.Settings())
	for _, ev := range events {
		if err := e.store.MarkWaitingServed(ev.EntryID); err != nil {
			return nil, apperrors.Internal("Failed to retire waiting list entry", err)
		}
	}
	if len(events) > 0 {
		if err := e.notifier.Notify(ctx, events); err != nil {
			// The entry stays served: better one missed delivery than a
			// double booking offer.
			e.cfg.Log.Error("Failed to deliver notification events", "error", err)
		}
	}

	e.cfg.Log.Info("Booking cancelled", "id", bookingID, "notifications", len(events))
	return events, nil
}

// CompleteBooking transitions the booking to Completed and, when it
// references a vehicle, records the trip in the mileage ledger. Reversed
// readings are rejected before anything is written.
func (e *engine) CompleteBooking(ctx context.Context, bookingID string, startReading, endReading float64) (*model.LedgerEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	booking, err := e.store.BookingByID(bookingID)
	if err != nil {
		return nil, apperrors.NotFoundWithID("Booking", bookingID)
	}
	if endReading < startReading {
		return nil, apperrors.Validation("End reading must not be less than start reading", map[string]any{
			"start_reading": startReading,
			"end_reading":   endReading,
		})
	}

	if err := e.store.TransitionBooking(bookingID, config.StatusCompleted); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if err := e.store.SetBookingReadings(bookingID, startReading, endReading); err != nil {
		return nil, apperrors.Internal("Failed to record readings", err)
	}
	booking.Status = config.StatusCompleted

	entry, err := e.ledger.RecordCompletion(booking, startReading, endReading)
	if err != nil {
		return nil, apperrors.AsAppError(err)
	}

	e.cfg.Log.Info("Booking completed", "id", bookingID, "mileage_recorded", entry != nil)
	return entry, nil
}

// Suggest produces ranked, bounded alternatives for a conflicted candidate.
// Zero suggestions is a valid answer the caller surfaces as "no alternatives
// available".
func (e *engine) Suggest(cand model.Candidate, maxResults int) []model.Suggestion {
	e.mu.Lock()
	defer e.mu.Unlock()

	if maxResults <= 0 {
		maxResults = e.cfg.SuggestionMaxResults
	}
	dayEnd, err := timeslot.ParseTime(e.cfg.DayEnd)
	if err != nil {
		dayEnd = timeslot.MinutesPerDay
	}

	today := e.now()
	in := scheduling.SuggestInput{
		Bookings:  e.store.Bookings(),
		Staff:     e.store.Staff(),
		Resources: e.store.Resources(),
		Compliant: func(r model.Resource) bool { return compliance.Evaluate(r, today) },
		DayEnd:    dayEnd,
	}
	return scheduling.Suggest(in, cand, maxResults)
}

func (e *engine) RecomputeCompliance(resourceID string, today time.Time) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	compliant, err := e.gate.Check(resourceID, today)
	if err != nil {
		return false, apperrors.NotFoundWithID("Resource", resourceID)
	}
	return compliant, nil
}

func (e *engine) ComplianceSweep(today time.Time) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gate.CheckAll(today)
}

func (e *engine) ListResources() []model.ResourceListing {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gate.Listings()
}

func (e *engine) TotalDistance(filter model.LedgerFilter) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.TotalDistance(filter)
}

func (e *engine) MileageReport(filter model.LedgerFilter) []model.VehicleMileage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Report(filter)
}

func (e *engine) SuggestedStartReading(vehicleID string) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.SuggestedStartReading(vehicleID)
}

func (e *engine) AddWaitingEntry(entry model.WaitingListEntry) (model.WaitingListEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.validator.ValidateEntry(&entry); err != nil {
		return model.WaitingListEntry{}, apperrors.Validation("Waiting list entry validation failed", map[string]any{"error": err.Error()})
	}
	if _, err := e.store.CustomerByID(entry.CustomerID); err != nil {
		return model.WaitingListEntry{}, apperrors.Validation("Waiting list entry references unknown customer", map[string]any{"customer_id": entry.CustomerID})
	}

	entry.ID = uuid.NewString()
	entry.Served = false
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now().UTC()
	}
	e.store.AddWaitingEntry(entry)

	e.cfg.Log.Info("Waiting list entry added",
		"id", entry.ID,
		"date", entry.Date,
		"start_time", entry.StartTime,
	)
	return entry, nil
}

func (e *engine) WaitingList() []model.WaitingListEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.WaitingEntries()
}

func (e *engine) BookingByID(id string) (model.Booking, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.store.BookingByID(id)
	if err != nil {
		return model.Booking{}, apperrors.NotFoundWithID("Booking", id)
	}
	return b, nil
}

func (e *engine) BookingsOn(date string) ([]model.Booking, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := timeslot.ParseDate(date); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	var out []model.Booking
	for _, b := range e.store.Bookings() {
		if b.Date == date {
			out = append(out, b)
		}
	}
	sortByStart(out)
	return out, nil
}

// DayPlan lists a date's Scheduled bookings in start order with their pickup
// locations. Grouping by day only, no route optimization.
func (e *engine) DayPlan(date string) ([]model.Booking, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := timeslot.ParseDate(date); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	var out []model.Booking
	for _, b := range e.store.Bookings() {
		if b.Date == date && b.Status == config.StatusScheduled {
			out = append(out, b)
		}
	}
	sortByStart(out)
	return out, nil
}

// WeekPlan lays out the week containing date as seven day columns, starting
// on the configured first day of the week. Only Scheduled bookings appear.
func (e *engine) WeekPlan(date string) ([]model.WeekDay, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	parsed, err := timeslot.ParseDate(date)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	firstDay := e.cfg.FirstWeekday()
	switch e.store.Settings().FirstDayOfWeek {
	case "sunday":
		firstDay = time.Sunday
	case "monday":
		firstDay = time.Monday
	}

	start := timeslot.StartOfWeek(parsed, firstDay)
	week := make([]model.WeekDay, 7)
	for i := range week {
		week[i].Date = start.AddDate(0, 0, i).Format(timeslot.DateLayout)
	}

	end := start.AddDate(0, 0, 7)
	for _, b := range e.store.Bookings() {
		if b.Status != config.StatusScheduled {
			continue
		}
		d, err := timeslot.ParseDate(b.Date)
		if err != nil || d.Before(start) || !d.Before(end) {
			continue
		}
		idx := timeslot.DayIndex(d, firstDay)
		week[idx].Bookings = append(week[idx].Bookings, b)
	}
	for i := range week {
		sortByStart(week[i].Bookings)
	}
	return week, nil
}

func (e *engine) Settings() model.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Settings()
}

func (e *engine) UpdateSettings(settings model.Settings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if settings.FirstDayOfWeek != "monday" && settings.FirstDayOfWeek != "sunday" {
		return apperrors.InvalidInput(fmt.Sprintf("first_day_of_week must be 'monday' or 'sunday', got %q", settings.FirstDayOfWeek))
	}
	e.store.SetSettings(settings)
	e.cfg.Log.Info("Settings updated",
		"first_day_of_week", settings.FirstDayOfWeek,
		"auto_notify_waiting_list", settings.AutoNotifyWaitingList,
	)
	return nil
}

// checkReferences rejects candidates pointing at unknown records before any
// mutation happens.
func (e *engine) checkReferences(cand model.Candidate) error {
	if _, err := e.store.CustomerByID(cand.CustomerID); err != nil {
		return apperrors.Validation("Candidate references unknown customer", map[string]any{"customer_id": cand.CustomerID})
	}
	if _, err := e.store.StaffByID(cand.StaffID); err != nil {
		return apperrors.Validation("Candidate references unknown staff member", map[string]any{"staff_id": cand.StaffID})
	}
	if _, err := e.store.ServiceByID(cand.ServiceID); err != nil {
		return apperrors.Validation("Candidate references unknown service", map[string]any{"service_id": cand.ServiceID})
	}
	for _, id := range cand.ResourceIDs {
		if _, err := e.store.ResourceByID(id); err != nil {
			return apperrors.Validation("Candidate references unknown resource", map[string]any{"resource_id": id})
		}
	}
	return nil
}

func conflictMessage(reason string) string {
	if reason == apperrors.ReasonStaffBusy {
		return "The selected staff member is already booked at this time"
	}
	return "The selected resource is already booked at this time"
}

func sortByStart(bookings []model.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].StartTime < bookings[j].StartTime
	})
}
