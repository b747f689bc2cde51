package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookhaus/internal/compliance"
	"bookhaus/internal/mileage"
	"bookhaus/internal/scheduling/validator"
	"bookhaus/internal/store"
	"bookhaus/pkg/config"
	apperrors "bookhaus/pkg/errors"
	"bookhaus/pkg/logger"
	"bookhaus/pkg/model"
)

// fakeNotifier captures the events the engine hands over for delivery.
type fakeNotifier struct {
	events []model.NotificationEvent
	err    error
}

func (f *fakeNotifier) Notify(_ context.Context, events []model.NotificationEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, events...)
	return nil
}

type fixture struct {
	engine   Engine
	store    *store.Store
	notifier *fakeNotifier
}

func testToday() time.Time {
	return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.New(logger.Config{Level: "error", Service: "test"})
	cfg := &config.Config{
		DayStart:                  "08:00",
		DayEnd:                    "18:00",
		DefaultBookingDurationMin: 60,
		SuggestionMaxResults:      3,
		FuelCostPerMile:           0.45,
		Log:                       log,
	}

	st := store.New()
	st.AddCustomer(model.Customer{ID: "cust_1", Name: "Jo"})
	st.AddCustomer(model.Customer{ID: "cust_2", Name: "Pat"})
	st.AddStaff(model.Staff{ID: "staff_1", Name: "Alex"})
	st.AddStaff(model.Staff{ID: "staff_2", Name: "Sam"})
	st.AddService(model.Service{ID: "service_1", Name: "Standard Lesson", DurationMin: 60})
	st.AddResource(model.Resource{
		ID:          "vehicle_1",
		Name:        "Red Corsa",
		Type:        config.ResourceVehicle,
		Odometer:    60000,
		Maintenance: map[string]string{"mot": "2099-01-01"},
	})
	st.AddResource(model.Resource{
		ID:          "vehicle_2",
		Name:        "Blue Polo",
		Type:        config.ResourceVehicle,
		Odometer:    40000,
		Maintenance: map[string]string{"mot": "2099-01-01"},
	})
	st.AddResource(model.Resource{
		ID:          "vehicle_expired",
		Name:        "Old Banger",
		Type:        config.ResourceVehicle,
		Maintenance: map[string]string{"mot": "2024-01-01"},
	})

	gate := compliance.NewGate(st, log).WithClock(testToday)
	ledger := mileage.NewLedger(st, cfg.FuelCostPerMile, log)
	notifier := &fakeNotifier{}

	eng := NewEngine(st, validator.NewCandidateValidator(log), gate, ledger, notifier, cfg)
	eng.(*engine).now = testToday

	return &fixture{engine: eng, store: st, notifier: notifier}
}

func validCandidate() model.Candidate {
	return model.Candidate{
		Date:        "2025-06-10",
		StartTime:   "10:00",
		EndTime:     "11:00",
		CustomerID:  "cust_1",
		StaffID:     "staff_1",
		ResourceIDs: []string{"vehicle_1"},
		ServiceID:   "service_1",
	}
}

func TestSaveBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.engine.SaveBooking(ctx, validCandidate())
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, config.StatusScheduled, b.Status)
	assert.False(t, b.CreatedAt.IsZero())

	stored, err := f.engine.BookingByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-10", stored.Date)
}

func TestSaveBookingStaffConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.engine.SaveBooking(ctx, validCandidate())
	require.NoError(t, err)

	// Same staff member, different car, overlapping window.
	cand := validCandidate()
	cand.CustomerID = "cust_2"
	cand.ResourceIDs = []string{"vehicle_2"}
	cand.StartTime = "10:30"
	cand.EndTime = "11:30"

	_, err = f.engine.SaveBooking(ctx, cand)
	require.Error(t, err)

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
	assert.Equal(t, apperrors.ReasonStaffBusy, appErr.Details["reason"])
	assert.Equal(t, []string{first.ID}, appErr.Details["booking_ids"])
}

func TestSaveBookingResourceConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.SaveBooking(ctx, validCandidate())
	require.NoError(t, err)

	// Same car, different staff member.
	cand := validCandidate()
	cand.CustomerID = "cust_2"
	cand.StaffID = "staff_2"

	_, err = f.engine.SaveBooking(ctx, cand)
	require.Error(t, err)

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
	assert.Equal(t, apperrors.ReasonResourceBusy, appErr.Details["reason"])
}

func TestSaveBookingBackToBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.SaveBooking(ctx, validCandidate())
	require.NoError(t, err)

	cand := validCandidate()
	cand.StartTime = "11:00"
	cand.EndTime = "12:00"

	_, err = f.engine.SaveBooking(ctx, cand)
	assert.NoError(t, err)
}

func TestSaveBookingNonCompliantResource(t *testing.T) {
	f := newFixture(t)

	cand := validCandidate()
	cand.ResourceIDs = []string{"vehicle_expired"}

	_, err := f.engine.SaveBooking(context.Background(), cand)
	require.Error(t, err)

	// Compliance failures are not conflicts: no alternate time can fix them.
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeCompliance, appErr.Code)
	assert.Equal(t, []string{"vehicle_expired"}, appErr.Details["resource_ids"])
}

func TestSaveBookingUnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*model.Candidate)
	}{
		{"unknown customer", func(c *model.Candidate) { c.CustomerID = "ghost" }},
		{"unknown staff", func(c *model.Candidate) { c.StaffID = "ghost" }},
		{"unknown service", func(c *model.Candidate) { c.ServiceID = "ghost" }},
		{"unknown resource", func(c *model.Candidate) { c.ResourceIDs = []string{"ghost"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand := validCandidate()
			tt.mutate(&cand)

			_, err := f.engine.SaveBooking(ctx, cand)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeValidation, apperrors.AsAppError(err).Code)
		})
	}
}

func TestSaveBookingInvalidShape(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*model.Candidate)
	}{
		{"missing date", func(c *model.Candidate) { c.Date = "" }},
		{"bad date format", func(c *model.Candidate) { c.Date = "10/06/2025" }},
		{"bad time format", func(c *model.Candidate) { c.StartTime = "10am" }},
		{"reversed interval", func(c *model.Candidate) { c.StartTime = "11:00"; c.EndTime = "10:00" }},
		{"no resources", func(c *model.Candidate) { c.ResourceIDs = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand := validCandidate()
			tt.mutate(&cand)

			_, err := f.engine.SaveBooking(ctx, cand)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeValidation, apperrors.AsAppError(err).Code)
		})
	}
}

func TestCancelBookingFreesTheSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.engine.SaveBooking(ctx, validCandidate())
	require.NoError(t, err)

	_, err = f.engine.CancelBooking(ctx, b.ID)
	require.NoError(t, err)

	// The identical slot can be rebooked.
	_, err = f.engine.SaveBooking(ctx, validCandidate())
	assert.NoError(t, err)
}

func TestCancelBookingNotifiesWaitingList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.engine.UpdateSettings(model.Settings{
		FirstDayOfWeek:        "monday",
		AutoNotifyWaitingList: true,
	}))

	b, err := f.engine.SaveBooking(ctx, validCandidate())
	require.NoError(t, err)

	entry, err := f.engine.AddWaitingEntry(model.WaitingListEntry{
		Date:       "2025-06-10",
		StartTime:  "10:00",
		EndTime:    "11:00",
		CustomerID: "cust_2",
	})
	require.NoError(t, err)

	events, err := f.engine.CancelBooking(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "cust_2", events[0].CustomerID)
	assert.Equal(t, entry.ID, events[0].EntryID)
	assert.Equal(t, b.ID, events[0].BookingID)

	// The notifier received the same events.
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, entry.ID, f.notifier.events[0].EntryID)

	// The entry is retired: a second freed slot must not re-notify it.
	second, err := f.engine.SaveBooking(ctx, validCandidate())
	require.NoError(t, err)
	events, err = f.engine.CancelBooking(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCancelBookingNotificationFailureStillServes(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = assert.AnError
	ctx := context.Background()
	require.NoError(t, f.engine.UpdateSettings(model.Settings{
		FirstDayOfWeek:        "monday",
		AutoNotifyWaitingList: true,
	}))

	b, err := f.engine.SaveBooking(ctx, validCandidate())
	require.NoError(t, err)

	_, err = f.engine.AddWaitingEntry(model.WaitingListEntry{
		Date:       "2025-06-10",
		StartTime:  "10:00",
		EndTime:    "11:00",
		CustomerID: "cust_2",
	})
	require.NoError(t, err)

	// Delivery failure is logged, not returned; the entry stays served.
	events, err := f.engine.CancelBooking(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	entries := f.engine.WaitingList()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Served)
}

func TestCancelBookingTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.engine.SaveBooking(ctx, validCandidate())
	require.NoError(t, err)

	_, err = f.engine.CancelBooking(ctx, b.ID)
	require.NoError(t, err)

	_, err = f.engine.CancelBooking(ctx, b.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.AsAppError(err).Code)
}

func TestCancelUnknownBooking(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.CancelBooking(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)
}

func TestCompleteBookingRecordsMileage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.engine.SaveBooking(ctx, validCandidate())
	require.NoError(t, err)

	entry, err := f.engine.CompleteBooking(ctx, b.ID, 60000, 60300)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.InDelta(t, 300, entry.Distance, 0.001)

	stored, err := f.engine.BookingByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, config.StatusCompleted, stored.Status)
	require.NotNil(t, stored.StartReading)
	assert.InDelta(t, 60000, *stored.StartReading, 0.001)

	next, err := f.engine.SuggestedStartReading("vehicle_1")
	require.NoError(t, err)
	assert.InDelta(t, 60300, next, 0.001)

	assert.InDelta(t, 300, f.engine.TotalDistance(model.LedgerFilter{VehicleID: "vehicle_1"}), 0.001)
}

func TestCompleteBookingReversedReadings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.engine.SaveBooking(ctx, validCandidate())
	require.NoError(t, err)

	_, err = f.engine.CompleteBooking(ctx, b.ID, 60300, 60000)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.AsAppError(err).Code)

	// Rejected before any transition: the booking is still Scheduled.
	stored, err := f.engine.BookingByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, config.StatusScheduled, stored.Status)
}

func TestSuggestForConflictedCandidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.SaveBooking(ctx, validCandidate())
	require.NoError(t, err)

	cand := validCandidate()
	cand.CustomerID = "cust_2"
	_, err = f.engine.SaveBooking(ctx, cand)
	require.Error(t, err)

	got := f.engine.Suggest(cand, 0) // 0 falls back to the configured max
	require.Len(t, got, 3)
	assert.Equal(t, "11:00", got[0].StartTime)
	assert.Equal(t, "12:00", got[0].EndTime)
	assert.Equal(t, "staff_1", got[0].StaffID)
}

func TestSuggestNeverOffersExpiredVehicle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.SaveBooking(ctx, validCandidate())
	require.NoError(t, err)

	cand := validCandidate()
	cand.CustomerID = "cust_2"
	for _, s := range f.engine.Suggest(cand, 20) {
		for _, id := range s.ResourceIDs {
			assert.NotEqual(t, "vehicle_expired", id)
		}
	}
}

func TestOpenBookingCandidate(t *testing.T) {
	f := newFixture(t)

	cand, err := f.engine.OpenBookingCandidate("2025-06-10", "staff_1", "")
	require.NoError(t, err)
	assert.Equal(t, "08:00", cand.StartTime)
	assert.Equal(t, "09:00", cand.EndTime)
	assert.Equal(t, "staff_1", cand.StaffID)

	cand, err = f.engine.OpenBookingCandidate("2025-06-10", "", "14:30")
	require.NoError(t, err)
	assert.Equal(t, "14:30", cand.StartTime)
	assert.Equal(t, "15:30", cand.EndTime)

	_, err = f.engine.OpenBookingCandidate("not-a-date", "", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.AsAppError(err).Code)
}

func TestRecomputeComplianceAndListings(t *testing.T) {
	f := newFixture(t)

	compliant, err := f.engine.RecomputeCompliance("vehicle_expired", testToday())
	require.NoError(t, err)
	assert.False(t, compliant)

	failed := f.engine.ComplianceSweep(testToday())
	assert.Equal(t, []string{"vehicle_expired"}, failed)

	listings := f.engine.ListResources()
	require.Len(t, listings, 3)
	for _, l := range listings {
		if l.ID == "vehicle_expired" {
			assert.False(t, l.Selectable)
		} else {
			assert.True(t, l.Selectable)
		}
	}

	_, err = f.engine.RecomputeCompliance("ghost", testToday())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)
}

func TestAddWaitingEntryValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.AddWaitingEntry(model.WaitingListEntry{
		Date:       "2025-06-10",
		StartTime:  "11:00",
		EndTime:    "10:00",
		CustomerID: "cust_1",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.AsAppError(err).Code)

	_, err = f.engine.AddWaitingEntry(model.WaitingListEntry{
		Date:       "2025-06-10",
		StartTime:  "10:00",
		EndTime:    "11:00",
		CustomerID: "ghost",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.AsAppError(err).Code)

	entry, err := f.engine.AddWaitingEntry(model.WaitingListEntry{
		Date:       "2025-06-10",
		StartTime:  "10:00",
		EndTime:    "11:00",
		CustomerID: "cust_1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.AddedAt.IsZero())
	assert.False(t, entry.Served)
}

func TestDayPlanOrdersByStartAndSkipsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	late := validCandidate()
	late.StartTime = "14:00"
	late.EndTime = "15:00"
	late.Pickup = "12 Harbour Road"
	_, err := f.engine.SaveBooking(ctx, late)
	require.NoError(t, err)

	early := validCandidate()
	early.Pickup = "3 Mill Lane"
	b, err := f.engine.SaveBooking(ctx, early)
	require.NoError(t, err)

	cancelled := validCandidate()
	cancelled.StartTime = "12:00"
	cancelled.EndTime = "13:00"
	c, err := f.engine.SaveBooking(ctx, cancelled)
	require.NoError(t, err)
	_, err = f.engine.CancelBooking(ctx, c.ID)
	require.NoError(t, err)

	plan, err := f.engine.DayPlan("2025-06-10")
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, b.ID, plan[0].ID)
	assert.Equal(t, "3 Mill Lane", plan[0].Pickup)
	assert.Equal(t, "14:00", plan[1].StartTime)

	// BookingsOn keeps terminal bookings visible.
	all, err := f.engine.BookingsOn("2025-06-10")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.engine.DayPlan("bad")
	assert.Error(t, err)
}

func TestWeekPlanHonorsFirstDayOfWeek(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 2025-06-10 is a Tuesday.
	_, err := f.engine.SaveBooking(ctx, validCandidate())
	require.NoError(t, err)

	week, err := f.engine.WeekPlan("2025-06-10")
	require.NoError(t, err)
	require.Len(t, week, 7)

	// Monday calendar: the week runs 2025-06-09 through 2025-06-15.
	assert.Equal(t, "2025-06-09", week[0].Date)
	assert.Equal(t, "2025-06-15", week[6].Date)
	require.Len(t, week[1].Bookings, 1)
	assert.Equal(t, "2025-06-10", week[1].Bookings[0].Date)

	require.NoError(t, f.engine.UpdateSettings(model.Settings{
		FirstDayOfWeek:        "sunday",
		AutoNotifyWaitingList: false,
	}))

	week, err = f.engine.WeekPlan("2025-06-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-08", week[0].Date)
	require.Len(t, week[2].Bookings, 1)

	_, err = f.engine.WeekPlan("not-a-date")
	require.Error(t, err)
}

func TestWeekPlanOmitsTerminalAndOtherWeeks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.engine.SaveBooking(ctx, validCandidate())
	require.NoError(t, err)
	_, err = f.engine.CancelBooking(ctx, b.ID)
	require.NoError(t, err)

	nextWeek := validCandidate()
	nextWeek.Date = "2025-06-17"
	_, err = f.engine.SaveBooking(ctx, nextWeek)
	require.NoError(t, err)

	week, err := f.engine.WeekPlan("2025-06-10")
	require.NoError(t, err)
	for _, day := range week {
		assert.Empty(t, day.Bookings, "day %s should have no visible bookings", day.Date)
	}
}

func TestUpdateSettings(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.engine.UpdateSettings(model.Settings{
		FirstDayOfWeek:        "sunday",
		AutoNotifyWaitingList: false,
	}))
	got := f.engine.Settings()
	assert.Equal(t, "sunday", got.FirstDayOfWeek)
	assert.False(t, got.AutoNotifyWaitingList)

	err := f.engine.UpdateSettings(model.Settings{FirstDayOfWeek: "someday"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.AsAppError(err).Code)
}
