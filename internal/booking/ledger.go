package booking

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/evcraddock/homeview/internal/apperr"
	"github.com/evcraddock/homeview/internal/snapshot"
)

// PropertyChecker reports whether a property exists. *property.Catalog satisfies it.
type PropertyChecker interface {
	Has(id int64) bool
}

// Ledger owns the booking set. Every successful mutation is written to the
// snapshot store before it returns; a failed write undoes the mutation.
type Ledger struct {
	mu       sync.RWMutex
	catalog  PropertyChecker
	store    snapshot.Store
	bookings []Booking
	byID     map[int64]int
	nextID   int64
	now      func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the clock used to stamp creation dates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// Open builds a ledger from the seed bookings and merges the stored snapshot on top.
func Open(ctx context.Context, catalog PropertyChecker, store snapshot.Store, seed []Booking, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		catalog: catalog,
		store:   store,
		byID:    make(map[int64]int),
		nextID:  1,
		now:     time.Now,
	}
	for _, o := range opts {
		o(l)
	}

	if err := l.merge(seed); err != nil {
		return nil, fmt.Errorf("loading seed bookings: %w", err)
	}
	if err := l.Reconcile(ctx); err != nil {
		return nil, err
	}

	return l, nil
}

// Reconcile merges the stored snapshot into memory. Records are matched by ID
// and the stored copy wins, so reconciling repeatedly changes nothing.
func (l *Ledger) Reconcile(ctx context.Context) error {
	var stored []Booking
	ok, err := snapshot.ReadJSON(ctx, l.store, snapshot.KeyBookings, &stored)
	if err != nil {
		return fmt.Errorf("restoring bookings: %w", err)
	}
	if !ok {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.merge(stored); err != nil {
		return fmt.Errorf("restoring bookings: %w", err)
	}
	return nil
}

// merge upserts records by ID and moves the id counter past the highest ID seen.
// Callers hold the write lock or own l exclusively.
func (l *Ledger) merge(records []Booking) error {
	for _, b := range records {
		if !b.Status.IsValid() {
			return fmt.Errorf("booking %d has invalid status %q", b.ID, b.Status)
		}
	}

	for _, b := range records {
		if i, ok := l.byID[b.ID]; ok {
			l.bookings[i] = b
		} else {
			l.byID[b.ID] = len(l.bookings)
			l.bookings = append(l.bookings, b)
		}
		if b.ID >= l.nextID {
			l.nextID = b.ID + 1
		}
	}
	return nil
}

// Create records a new pending booking. It fails with a NotFoundError when
// the property does not exist and a ConflictError when another pending or
// confirmed booking already holds the same property and date.
func (l *Ledger) Create(ctx context.Context, req Request) (Booking, error) {
	if req.UserID <= 0 {
		return Booking{}, apperr.Invalid("user id is required")
	}
	if _, err := ParseDate(req.Date); err != nil {
		return Booking{}, err
	}
	if !l.catalog.Has(req.PropertyID) {
		return Booking{}, apperr.NotFound("property", req.PropertyID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if held, ok := l.activeFor(req.PropertyID, req.Date); ok {
		return Booking{}, apperr.Conflict("property %d is already booked on %s (booking %d)",
			req.PropertyID, req.Date, held.ID)
	}

	b := Booking{
		ID:         l.nextID,
		UserID:     req.UserID,
		PropertyID: req.PropertyID,
		Date:       req.Date,
		Status:     StatusPending,
		CreatedAt:  l.now().Format(DateLayout),
		Notes:      req.Notes,
	}

	l.byID[b.ID] = len(l.bookings)
	l.bookings = append(l.bookings, b)
	l.nextID++

	if err := l.persist(ctx); err != nil {
		l.bookings = l.bookings[:len(l.bookings)-1]
		delete(l.byID, b.ID)
		l.nextID--
		return Booking{}, fmt.Errorf("saving booking: %w", err)
	}

	return b, nil
}

// Cancel cancels a booking. Cancelling an already cancelled booking returns
// it unchanged.
func (l *Ledger) Cancel(ctx context.Context, id int64) (Booking, error) {
	return l.transition(ctx, id, StatusCancelled)
}

// Confirm confirms a pending booking. Confirming an already confirmed booking
// returns it unchanged; a cancelled booking cannot be confirmed.
func (l *Ledger) Confirm(ctx context.Context, id int64) (Booking, error) {
	return l.transition(ctx, id, StatusConfirmed)
}

func (l *Ledger) transition(ctx context.Context, id int64, to Status) (Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.byID[id]
	if !ok {
		return Booking{}, apperr.NotFound("booking", id)
	}

	cur := l.bookings[i]
	if cur.Status == to {
		return cur, nil
	}
	if !canTransition(cur.Status, to) {
		return Booking{}, apperr.Conflict("booking %d is %s and cannot be %s", id, cur.Status, to)
	}

	l.bookings[i].Status = to
	if err := l.persist(ctx); err != nil {
		l.bookings[i].Status = cur.Status
		return Booking{}, fmt.Errorf("saving booking %d: %w", id, err)
	}

	return l.bookings[i], nil
}

// activeFor finds the booking holding a property/date slot.
func (l *Ledger) activeFor(propertyID int64, date string) (Booking, bool) {
	for _, b := range l.bookings {
		if b.PropertyID == propertyID && b.Date == date && b.Status.Active() {
			return b, true
		}
	}
	return Booking{}, false
}

// persist mirrors the full booking set to the store.
func (l *Ledger) persist(ctx context.Context) error {
	return snapshot.WriteJSON(ctx, l.store, snapshot.KeyBookings, l.bookings)
}

// Get returns a booking by ID.
func (l *Ledger) Get(id int64) (Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i, ok := l.byID[id]
	if !ok {
		return Booking{}, apperr.NotFound("booking", id)
	}
	return l.bookings[i], nil
}

// All returns every booking in ledger order.
func (l *Ledger) All() []Booking {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.bookings)
}

// ListByUser returns a user's bookings in ledger order.
func (l *Ledger) ListByUser(userID int64) []Booking {
	return l.filter(func(b Booking) bool { return b.UserID == userID })
}

// ListByProperty returns a property's bookings in ledger order.
func (l *Ledger) ListByProperty(propertyID int64) []Booking {
	return l.filter(func(b Booking) bool { return b.PropertyID == propertyID })
}

func (l *Ledger) filter(keep func(Booking) bool) []Booking {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Booking, 0)
	for _, b := range l.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

// NextID returns the ID the next successful Create will assign.
func (l *Ledger) NextID() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.nextID
}
