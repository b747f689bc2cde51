package store

import (
	"context"
	"sync"
	"time"

	"bookhaus/pkg/logger"
	"bookhaus/pkg/model"
)

// Snapshot is a self-consistent copy of every collection, handed to a Flusher
// for durable persistence.
type Snapshot struct {
	Bookings    []model.Booking          `bson:"bookings"`
	Resources   []model.Resource         `bson:"resources"`
	Staff       []model.Staff            `bson:"staff"`
	Customers   []model.Customer         `bson:"customers"`
	Services    []model.Service          `bson:"services"`
	WaitingList []model.WaitingListEntry `bson:"waiting_list"`
	Ledger      []model.LedgerEntry      `bson:"ledger"`
	Settings    model.Settings           `bson:"settings"`
	TakenAt     time.Time                `bson:"taken_at"`
}

// Flusher is the buffered-write port: it accepts a snapshot and persists it.
// Engine correctness never depends on when (or whether) a flush lands; a
// crash between mutation and flush loses at most the last unflushed batch.
type Flusher interface {
	Flush(ctx context.Context, snap Snapshot) error
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Bookings:    make([]model.Booking, len(s.bookings)),
		Resources:   make([]model.Resource, len(s.resources)),
		Staff:       append([]model.Staff(nil), s.staff...),
		Customers:   append([]model.Customer(nil), s.customers...),
		Services:    append([]model.Service(nil), s.services...),
		WaitingList: append([]model.WaitingListEntry(nil), s.waitlist...),
		Ledger:      append([]model.LedgerEntry(nil), s.ledger...),
		Settings:    s.settings,
		TakenAt:     time.Now().UTC(),
	}
	for i, b := range s.bookings {
		snap.Bookings[i] = cloneBooking(b)
	}
	for i, r := range s.resources {
		snap.Resources[i] = cloneResource(r)
	}
	return snap
}

// Restore replaces every collection from a previously persisted snapshot.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = snap.Bookings
	s.resources = snap.Resources
	s.staff = snap.Staff
	s.customers = snap.Customers
	s.services = snap.Services
	s.waitlist = snap.WaitingList
	s.ledger = snap.Ledger
	if snap.Settings.FirstDayOfWeek != "" {
		s.settings = snap.Settings
	}
}

// debouncer batches write-through: mutations mark the store dirty, and a
// flush fires only after a quiet interval, coalescing bursts.
type debouncer struct {
	store    *Store
	flusher  Flusher
	interval time.Duration
	log      *logger.Logger

	pending chan struct{}
	stop    chan struct{}
	done    sync.WaitGroup
}

// StartFlusher attaches a flusher and begins debounced write-through.
func (s *Store) StartFlusher(f Flusher, interval time.Duration, log *logger.Logger) {
	d := &debouncer{
		store:    s,
		flusher:  f,
		interval: interval,
		log:      log,
		pending:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}

	s.mu.Lock()
	s.debouncer = d
	s.mu.Unlock()

	d.done.Add(1)
	go d.run()
}

// StopFlusher stops the debouncer after a final synchronous flush.
func (s *Store) StopFlusher(ctx context.Context) error {
	s.mu.Lock()
	d := s.debouncer
	s.debouncer = nil
	s.mu.Unlock()

	if d == nil {
		return nil
	}
	close(d.stop)
	d.done.Wait()
	return d.flusher.Flush(ctx, s.Snapshot())
}

// Flush persists the current state immediately, bypassing the debounce.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	d := s.debouncer
	s.mu.RUnlock()
	if d == nil {
		return nil
	}
	return d.flusher.Flush(ctx, s.Snapshot())
}

func (d *debouncer) notify() {
	select {
	case d.pending <- struct{}{}:
	default:
	}
}

func (d *debouncer) run() {
	defer d.done.Done()
	for {
		select {
		case <-d.stop:
			return
		case <-d.pending:
		}

		// Quiet period: absorb further mutations before writing.
		timer := time.NewTimer(d.interval)
		select {
		case <-d.stop:
			timer.Stop()
			return
		case <-timer.C:
		}

		// Drain anything that arrived during the wait; the snapshot below
		// covers it.
		select {
		case <-d.pending:
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), d.interval+10*time.Second)
		if err := d.flusher.Flush(ctx, d.store.Snapshot()); err != nil {
			d.log.Error("Debounced flush failed", "error", err)
		} else {
			d.log.Debug("Debounced flush completed")
		}
		cancel()
	}
}

// NopFlusher discards snapshots. Used in tests and when running without a
// durable backend.
type NopFlusher struct{}

func (NopFlusher) Flush(context.Context, Snapshot) error { return nil }
