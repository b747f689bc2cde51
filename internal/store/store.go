// Package store owns the canonical collections: bookings, resources, staff,
// customers, services, the waiting list, the mileage ledger, and settings.
// The engine never keeps copies; every operation reads the live collections
// and writes back through the mutation contract here, so there is a single
// source of truth. Mutations are visible to the next engine call immediately;
// durable persistence is decoupled and debounced (see flusher.go).
package store

import (
	"fmt"
	"slices"
	"sync"

	"bookhaus/pkg/config"
	"bookhaus/pkg/model"
)

type Store struct {
	mu sync.RWMutex

	bookings  []model.Booking
	resources []model.Resource
	staff     []model.Staff
	customers []model.Customer
	services  []model.Service
	waitlist  []model.WaitingListEntry
	ledger    []model.LedgerEntry
	settings  model.Settings

	debouncer *debouncer
}

func New() *Store {
	return &Store{
		settings: model.Settings{
			FirstDayOfWeek:        config.DefaultFirstDayOfWeek,
			AutoNotifyWaitingList: config.DefaultAutoNotifyWaitingList,
		},
	}
}

// --- Bookings ---

func (s *Store) AppendBooking(b model.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = append(s.bookings, cloneBooking(b))
	s.markDirty()
}

func (s *Store) Bookings() []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Booking, len(s.bookings))
	for i, b := range s.bookings {
		out[i] = cloneBooking(b)
	}
	return out
}

func (s *Store) BookingByID(id string) (model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings {
		if b.ID == id {
			return cloneBooking(b), nil
		}
	}
	return model.Booking{}, ErrBookingNotFound
}

// TransitionBooking moves a booking to a terminal status. Transitions are
// one-directional: only Scheduled bookings may move, and only to Completed or
// Cancelled.
func (s *Store) TransitionBooking(id, status string) error {
	if status != config.StatusCompleted && status != config.StatusCancelled {
		return fmt.Errorf("%w: %q is not a terminal status", ErrInvalidTransition, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		if s.bookings[i].ID != id {
			continue
		}
		if s.bookings[i].Status != config.StatusScheduled {
			return fmt.Errorf("%w: booking is already %s", ErrInvalidTransition, s.bookings[i].Status)
		}
		s.bookings[i].Status = status
		s.markDirty()
		return nil
	}
	return ErrBookingNotFound
}

// SetBookingReadings records the odometer readings captured at completion.
func (s *Store) SetBookingReadings(id string, start, end float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings[i].StartReading = &start
			s.bookings[i].EndReading = &end
			s.markDirty()
			return nil
		}
	}
	return ErrBookingNotFound
}

// --- Resources ---

func (s *Store) AddResource(r model.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources = append(s.resources, cloneResource(r))
	s.markDirty()
}

func (s *Store) Resources() []model.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Resource, len(s.resources))
	for i, r := range s.resources {
		out[i] = cloneResource(r)
	}
	return out
}

func (s *Store) ResourceByID(id string) (model.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.resources {
		if r.ID == id {
			return cloneResource(r), nil
		}
	}
	return model.Resource{}, ErrResourceNotFound
}

func (s *Store) SetResourceCompliance(id string, compliant bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.resources {
		if s.resources[i].ID == id {
			if s.resources[i].IsCompliant != compliant {
				s.resources[i].IsCompliant = compliant
				s.markDirty()
			}
			return nil
		}
	}
	return ErrResourceNotFound
}

func (s *Store) SetResourceOdometer(id string, reading float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.resources {
		if s.resources[i].ID == id {
			s.resources[i].Odometer = reading
			s.markDirty()
			return nil
		}
	}
	return ErrResourceNotFound
}

// --- Staff, customers, services ---

func (s *Store) AddStaff(m model.Staff) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ServiceIDs = slices.Clone(m.ServiceIDs)
	s.staff = append(s.staff, m)
	s.markDirty()
}

func (s *Store) Staff() []model.Staff {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Staff, len(s.staff))
	for i, m := range s.staff {
		m.ServiceIDs = slices.Clone(m.ServiceIDs)
		out[i] = m
	}
	return out
}

func (s *Store) StaffByID(id string) (model.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.staff {
		if m.ID == id {
			m.ServiceIDs = slices.Clone(m.ServiceIDs)
			return m, nil
		}
	}
	return model.Staff{}, ErrStaffNotFound
}

func (s *Store) AddCustomer(c model.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append(s.customers, c)
	s.markDirty()
}

func (s *Store) Customers() []model.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.customers)
}

func (s *Store) CustomerByID(id string) (model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Customer{}, ErrCustomerNotFound
}

func (s *Store) AddService(sv model.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services = append(s.services, sv)
	s.markDirty()
}

func (s *Store) Services() []model.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.services)
}

func (s *Store) ServiceByID(id string) (model.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sv := range s.services {
		if sv.ID == id {
			return sv, nil
		}
	}
	return model.Service{}, ErrServiceNotFound
}

// --- Waiting list ---

func (s *Store) AddWaitingEntry(e model.WaitingListEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ResourceIDs = slices.Clone(e.ResourceIDs)
	s.waitlist = append(s.waitlist, e)
	s.markDirty()
}

func (s *Store) WaitingEntries() []model.WaitingListEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.WaitingListEntry, len(s.waitlist))
	for i, e := range s.waitlist {
		e.ResourceIDs = slices.Clone(e.ResourceIDs)
		out[i] = e
	}
	return out
}

// MarkWaitingServed retires an entry after it has been notified so a later
// freed slot cannot match it again. The entry is kept for audit.
func (s *Store) MarkWaitingServed(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.waitlist {
		if s.waitlist[i].ID == id {
			s.waitlist[i].Served = true
			s.markDirty()
			return nil
		}
	}
	return ErrEntryNotFound
}

// --- Ledger ---

func (s *Store) AppendLedgerEntry(e model.LedgerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = append(s.ledger, e)
	s.markDirty()
}

func (s *Store) LedgerEntries() []model.LedgerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ledger)
}

// --- Settings ---

func (s *Store) Settings() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *Store) SetSettings(settings model.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.markDirty()
}

// markDirty is called with s.mu held.
func (s *Store) markDirty() {
	if s.debouncer != nil {
		s.debouncer.notify()
	}
}

func cloneBooking(b model.Booking) model.Booking {
	b.ResourceIDs = slices.Clone(b.ResourceIDs)
	if b.StartReading != nil {
		v := *b.StartReading
		b.StartReading = &v
	}
	if b.EndReading != nil {
		v := *b.EndReading
		b.EndReading = &v
	}
	return b
}

func cloneResource(r model.Resource) model.Resource {
	if r.Maintenance != nil {
		m := make(map[string]string, len(r.Maintenance))
		for k, v := range r.Maintenance {
			m[k] = v
		}
		r.Maintenance = m
	}
	return r
}
