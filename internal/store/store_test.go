package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookhaus/pkg/config"
	"bookhaus/pkg/logger"
	"bookhaus/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Service: "test"})
}

func scheduledBooking(id string) model.Booking {
	return model.Booking{
		ID:          id,
		Date:        "2025-06-10",
		StartTime:   "10:00",
		EndTime:     "11:00",
		CustomerID:  "cust_1",
		StaffID:     "staff_1",
		ResourceIDs: []string{"resource_1"},
		Status:      config.StatusScheduled,
	}
}

func TestBookingRoundTrip(t *testing.T) {
	s := New()
	s.AppendBooking(scheduledBooking("b1"))

	got, err := s.BookingByID("b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", got.ID)
	assert.Equal(t, config.StatusScheduled, got.Status)

	_, err = s.BookingByID("ghost")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestBookingsReturnsCopies(t *testing.T) {
	s := New()
	s.AppendBooking(scheduledBooking("b1"))

	out := s.Bookings()
	require.Len(t, out, 1)
	out[0].ResourceIDs[0] = "mutated"
	out[0].Status = config.StatusCancelled

	got, err := s.BookingByID("b1")
	require.NoError(t, err)
	assert.Equal(t, "resource_1", got.ResourceIDs[0])
	assert.Equal(t, config.StatusScheduled, got.Status)
}

func TestTransitionBooking(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		wantErr error
	}{
		{"scheduled to completed", config.StatusCompleted, nil},
		{"scheduled to cancelled", config.StatusCancelled, nil},
		{"scheduled back to scheduled", config.StatusScheduled, ErrInvalidTransition},
		{"arbitrary status", "Pending", ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.AppendBooking(scheduledBooking("b1"))

			err := s.TransitionBooking("b1", tt.status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			got, err := s.BookingByID("b1")
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status)
		})
	}
}

func TestTerminalBookingsAreFrozen(t *testing.T) {
	for _, terminal := range []string{config.StatusCompleted, config.StatusCancelled} {
		t.Run(terminal, func(t *testing.T) {
			s := New()
			s.AppendBooking(scheduledBooking("b1"))
			require.NoError(t, s.TransitionBooking("b1", terminal))

			for _, next := range []string{config.StatusCompleted, config.StatusCancelled} {
				assert.ErrorIs(t, s.TransitionBooking("b1", next), ErrInvalidTransition)
			}

			got, err := s.BookingByID("b1")
			require.NoError(t, err)
			assert.Equal(t, terminal, got.Status)
		})
	}
}

func TestTransitionUnknownBooking(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.TransitionBooking("ghost", config.StatusCancelled), ErrBookingNotFound)
}

func TestSetBookingReadings(t *testing.T) {
	s := New()
	s.AppendBooking(scheduledBooking("b1"))

	require.NoError(t, s.SetBookingReadings("b1", 60000, 60300))

	got, err := s.BookingByID("b1")
	require.NoError(t, err)
	require.NotNil(t, got.StartReading)
	require.NotNil(t, got.EndReading)
	assert.InDelta(t, 60000, *got.StartReading, 0.001)
	assert.InDelta(t, 60300, *got.EndReading, 0.001)
}

func TestResourceCompliance(t *testing.T) {
	s := New()
	s.AddResource(model.Resource{ID: "r1", Type: config.ResourceVehicle, IsCompliant: true})

	require.NoError(t, s.SetResourceCompliance("r1", false))
	got, err := s.ResourceByID("r1")
	require.NoError(t, err)
	assert.False(t, got.IsCompliant)

	assert.ErrorIs(t, s.SetResourceCompliance("ghost", true), ErrResourceNotFound)
}

func TestResourceCloneIsolation(t *testing.T) {
	s := New()
	s.AddResource(model.Resource{
		ID:          "r1",
		Type:        config.ResourceVehicle,
		Maintenance: map[string]string{"mot": "2026-01-01"},
	})

	got, err := s.ResourceByID("r1")
	require.NoError(t, err)
	got.Maintenance["mot"] = "1999-01-01"

	again, err := s.ResourceByID("r1")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", again.Maintenance["mot"])
}

func TestMarkWaitingServed(t *testing.T) {
	s := New()
	s.AddWaitingEntry(model.WaitingListEntry{ID: "w1", CustomerID: "cust_1", Date: "2025-06-10"})

	require.NoError(t, s.MarkWaitingServed("w1"))
	entries := s.WaitingEntries()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Served)

	assert.ErrorIs(t, s.MarkWaitingServed("ghost"), ErrEntryNotFound)
}

func TestDefaultSettings(t *testing.T) {
	s := New()
	settings := s.Settings()
	assert.Equal(t, config.DefaultFirstDayOfWeek, settings.FirstDayOfWeek)
	assert.Equal(t, config.DefaultAutoNotifyWaitingList, settings.AutoNotifyWaitingList)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := New()
	s.AppendBooking(scheduledBooking("b1"))
	s.AddResource(model.Resource{ID: "r1", Type: config.ResourceVehicle, Odometer: 60000})
	s.AddStaff(model.Staff{ID: "staff_1", Name: "Alex"})
	s.AddCustomer(model.Customer{ID: "cust_1", Name: "Jo"})
	s.AddService(model.Service{ID: "svc_1", Name: "Standard Lesson", DurationMin: 60})
	s.AddWaitingEntry(model.WaitingListEntry{ID: "w1", CustomerID: "cust_1", Date: "2025-06-10"})
	s.AppendLedgerEntry(model.LedgerEntry{ID: "l1", VehicleID: "r1", Distance: 300})
	s.SetSettings(model.Settings{FirstDayOfWeek: "sunday", AutoNotifyWaitingList: false})

	snap := s.Snapshot()
	assert.False(t, snap.TakenAt.IsZero())

	fresh := New()
	fresh.Restore(snap)

	got, err := fresh.BookingByID("b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", got.ID)
	assert.Len(t, fresh.Resources(), 1)
	assert.Len(t, fresh.Staff(), 1)
	assert.Len(t, fresh.Customers(), 1)
	assert.Len(t, fresh.Services(), 1)
	assert.Len(t, fresh.WaitingEntries(), 1)
	assert.Len(t, fresh.LedgerEntries(), 1)
	assert.Equal(t, "sunday", fresh.Settings().FirstDayOfWeek)
}

func TestRestoreKeepsDefaultsForEmptySettings(t *testing.T) {
	s := New()
	s.Restore(Snapshot{})
	assert.Equal(t, config.DefaultFirstDayOfWeek, s.Settings().FirstDayOfWeek)
}

// recordingFlusher counts flushes and remembers the last snapshot.
type recordingFlusher struct {
	mu    sync.Mutex
	count int
	last  Snapshot
}

func (f *recordingFlusher) Flush(_ context.Context, snap Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count++
	f.last = snap
	return nil
}

func (f *recordingFlusher) flushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

func TestDebouncedFlushCoalescesBursts(t *testing.T) {
	s := New()
	f := &recordingFlusher{}
	s.StartFlusher(f, 50*time.Millisecond, testLogger())
	defer s.StopFlusher(context.Background())

	// A burst of mutations inside one quiet interval lands as one flush.
	for i := 0; i < 5; i++ {
		s.AppendBooking(scheduledBooking(string(rune('a' + i))))
	}

	require.Eventually(t, func() bool {
		return f.flushCount() >= 1
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(150 * time.Millisecond)
	assert.LessOrEqual(t, f.flushCount(), 2)

	f.mu.Lock()
	gotBookings := len(f.last.Bookings)
	f.mu.Unlock()
	assert.Equal(t, 5, gotBookings)
}

func TestStopFlusherFlushesFinalState(t *testing.T) {
	s := New()
	f := &recordingFlusher{}
	s.StartFlusher(f, time.Hour, testLogger()) // debounce never fires on its own

	s.AppendBooking(scheduledBooking("b1"))
	require.NoError(t, s.StopFlusher(context.Background()))

	f.mu.Lock()
	defer f.mu.Unlock()
	require.GreaterOrEqual(t, f.count, 1)
	assert.Len(t, f.last.Bookings, 1)
}

func TestFlushWithoutFlusherIsNoOp(t *testing.T) {
	s := New()
	assert.NoError(t, s.Flush(context.Background()))
	assert.NoError(t, s.StopFlusher(context.Background()))
}
