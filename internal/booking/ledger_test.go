package booking

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/evcraddock/homeview/internal/apperr"
	"github.com/evcraddock/homeview/internal/db"
	"github.com/evcraddock/homeview/internal/snapshot"
)

type fakeCatalog map[int64]bool

func (f fakeCatalog) Has(id int64) bool { return f[id] }

var testNow = time.Date(2025, 5, 20, 14, 30, 0, 0, time.UTC)

func testLedger(t *testing.T, store snapshot.Store, seed []Booking) *Ledger {
	t.Helper()
	l, err := Open(context.Background(), fakeCatalog{1: true, 2: true, 7: true}, store, seed,
		WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	return l
}

func storedBookings(t *testing.T, store snapshot.Store) []Booking {
	t.Helper()
	var out []Booking
	if _, err := snapshot.ReadJSON(context.Background(), store, snapshot.KeyBookings, &out); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	return out
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()
	l := testLedger(t, store, nil)

	b, err := l.Create(ctx, Request{UserID: 1, PropertyID: 7, Date: "2025-06-01", Notes: "after work"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.ID != 1 {
		t.Errorf("id = %d, want 1", b.ID)
	}
	if b.Status != StatusPending {
		t.Errorf("status = %q, want pending", b.Status)
	}
	if b.CreatedAt != "2025-05-20" {
		t.Errorf("created_at = %q, want clock date", b.CreatedAt)
	}
	if b.Notes != "after work" {
		t.Errorf("notes = %q", b.Notes)
	}

	stored := storedBookings(t, store)
	if !reflect.DeepEqual(stored, []Booking{b}) {
		t.Errorf("snapshot = %+v, want the new booking", stored)
	}
}

func TestCreateConflict(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()
	l := testLedger(t, store, nil)

	if _, err := l.Create(ctx, Request{UserID: 1, PropertyID: 7, Date: "2025-06-01"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := l.Create(ctx, Request{UserID: 2, PropertyID: 7, Date: "2025-06-01"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("second create err = %v, want ErrConflict", err)
	}

	if got := len(l.ListByProperty(7)); got != 1 {
		t.Errorf("bookings for property 7 = %d, want 1", got)
	}
	if got := len(storedBookings(t, store)); got != 1 {
		t.Errorf("stored bookings = %d, want 1", got)
	}

	// Different date or property is fine.
	if _, err := l.Create(ctx, Request{UserID: 2, PropertyID: 7, Date: "2025-06-02"}); err != nil {
		t.Errorf("other date: %v", err)
	}
	if _, err := l.Create(ctx, Request{UserID: 2, PropertyID: 2, Date: "2025-06-01"}); err != nil {
		t.Errorf("other property: %v", err)
	}
}

func TestConfirmedBookingAlsoBlocks(t *testing.T) {
	ctx := context.Background()
	l := testLedger(t, snapshot.NewMemory(), nil)

	b, err := l.Create(ctx, Request{UserID: 1, PropertyID: 7, Date: "2025-06-01"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := l.Confirm(ctx, b.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := l.Create(ctx, Request{UserID: 2, PropertyID: 7, Date: "2025-06-01"}); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	l := testLedger(t, snapshot.NewMemory(), nil)

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"unknown property", Request{UserID: 1, PropertyID: 99, Date: "2025-06-01"}, apperr.ErrNotFound},
		{"bad date", Request{UserID: 1, PropertyID: 7, Date: "06/01/2025"}, apperr.ErrInvalid},
		{"date with time", Request{UserID: 1, PropertyID: 7, Date: "2025-06-01T10:00:00Z"}, apperr.ErrInvalid},
		{"missing user", Request{PropertyID: 7, Date: "2025-06-01"}, apperr.ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.Create(ctx, tt.req); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if got := len(l.All()); got != 0 {
		t.Errorf("failed creates left %d bookings", got)
	}
	if l.NextID() != 1 {
		t.Errorf("failed creates consumed ids: next = %d", l.NextID())
	}
}

func TestCancelFreesSlot(t *testing.T) {
	ctx := context.Background()
	l := testLedger(t, snapshot.NewMemory(), nil)

	b, err := l.Create(ctx, Request{UserID: 1, PropertyID: 7, Date: "2025-06-01"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := l.Cancel(ctx, b.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	again, err := l.Create(ctx, Request{UserID: 2, PropertyID: 7, Date: "2025-06-01"})
	if err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}
	if again.ID <= b.ID {
		t.Errorf("new id %d not greater than %d", again.ID, b.ID)
	}
}

func TestCancelIdempotent(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()
	l := testLedger(t, store, nil)

	b, err := l.Create(ctx, Request{UserID: 1, PropertyID: 7, Date: "2025-06-01"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := l.Cancel(ctx, b.ID)
	if err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	// A second cancel must not touch the store at all.
	store.FailWrites(snapshot.KeyBookings, errors.New("should not write"))
	second, err := l.Cancel(ctx, b.ID)
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if first != second || second.Status != StatusCancelled {
		t.Errorf("first=%+v second=%+v", first, second)
	}
}

func TestCancelNotFound(t *testing.T) {
	l := testLedger(t, snapshot.NewMemory(), nil)
	if _, err := l.Cancel(context.Background(), 42); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTransitions(t *testing.T) {
	ctx := context.Background()
	l := testLedger(t, snapshot.NewMemory(), nil)

	b, err := l.Create(ctx, Request{UserID: 1, PropertyID: 7, Date: "2025-06-01"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	c, err := l.Confirm(ctx, b.ID)
	if err != nil || c.Status != StatusConfirmed {
		t.Fatalf("confirm = (%+v, %v)", c, err)
	}
	if c, err = l.Confirm(ctx, b.ID); err != nil || c.Status != StatusConfirmed {
		t.Fatalf("re-confirm = (%+v, %v), want no-op", c, err)
	}
	if c, err = l.Cancel(ctx, b.ID); err != nil || c.Status != StatusCancelled {
		t.Fatalf("cancel confirmed = (%+v, %v)", c, err)
	}
	if _, err = l.Confirm(ctx, b.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("confirm cancelled err = %v, want ErrConflict", err)
	}
}

func TestWriteFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()
	l := testLedger(t, store, nil)

	b, err := l.Create(ctx, Request{UserID: 1, PropertyID: 7, Date: "2025-06-01"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	boom := errors.New("disk full")
	store.FailWrites(snapshot.KeyBookings, boom)

	if _, err := l.Create(ctx, Request{UserID: 1, PropertyID: 7, Date: "2025-06-02"}); !errors.Is(err, boom) {
		t.Fatalf("create err = %v, want %v", err, boom)
	}
	if _, err := l.Cancel(ctx, b.ID); !errors.Is(err, boom) {
		t.Fatalf("cancel err = %v, want %v", err, boom)
	}

	if got := l.All(); !reflect.DeepEqual(got, []Booking{b}) {
		t.Errorf("memory diverged after failed writes: %+v", got)
	}
	if !reflect.DeepEqual(storedBookings(t, store), l.All()) {
		t.Error("memory and snapshot disagree")
	}
	if l.NextID() != 2 {
		t.Errorf("next id = %d, want 2", l.NextID())
	}

	store.FailWrites(snapshot.KeyBookings, nil)
	next, err := l.Create(ctx, Request{UserID: 1, PropertyID: 7, Date: "2025-06-02"})
	if err != nil {
		t.Fatalf("create after recovery: %v", err)
	}
	if next.ID != 2 {
		t.Errorf("id = %d, want 2", next.ID)
	}
}

func TestOpenMergesSeedAndSnapshot(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()

	seed := []Booking{
		{ID: 1, UserID: 1, PropertyID: 1, Date: "2025-03-01", Status: StatusConfirmed, CreatedAt: "2025-02-01"},
		{ID: 2, UserID: 2, PropertyID: 2, Date: "2025-03-02", Status: StatusPending, CreatedAt: "2025-02-02"},
	}
	stored := []Booking{
		{ID: 2, UserID: 2, PropertyID: 2, Date: "2025-03-02", Status: StatusCancelled, CreatedAt: "2025-02-02"},
		{ID: 10, UserID: 3, PropertyID: 7, Date: "2025-04-01", Status: StatusPending, CreatedAt: "2025-03-15"},
	}
	if err := snapshot.WriteJSON(ctx, store, snapshot.KeyBookings, stored); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	l := testLedger(t, store, seed)

	all := l.All()
	if len(all) != 3 {
		t.Fatalf("got %d bookings, want 3 (no duplicates): %+v", len(all), all)
	}
	if got, _ := l.Get(2); got.Status != StatusCancelled {
		t.Errorf("booking 2 status = %q, want snapshot copy", got.Status)
	}
	if l.NextID() != 11 {
		t.Errorf("next id = %d, want 11 (past snapshot max)", l.NextID())
	}

	// Reconciling the same snapshot again changes nothing.
	if err := l.Reconcile(ctx); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if err := l.Reconcile(ctx); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !reflect.DeepEqual(l.All(), all) {
		t.Errorf("reconcile not idempotent: %+v", l.All())
	}

	b, err := l.Create(ctx, Request{UserID: 1, PropertyID: 7, Date: "2025-04-02"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.ID != 11 {
		t.Errorf("id = %d, want 11", b.ID)
	}
}

func TestOpenRejectsInvalidStatus(t *testing.T) {
	_, err := Open(context.Background(), fakeCatalog{}, snapshot.NewMemory(),
		[]Booking{{ID: 1, Status: "approved"}})
	if err == nil {
		t.Fatal("expected error for invalid status")
	}
}

func TestIDsContinueAcrossRestart(t *testing.T) {
	ctx := context.Background()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	store := snapshot.NewSQLite(d)

	first := testLedger(t, store, nil)
	for _, date := range []string{"2025-06-01", "2025-06-02", "2025-06-03"} {
		if _, err := first.Create(ctx, Request{UserID: 1, PropertyID: 7, Date: date}); err != nil {
			t.Fatalf("create %s: %v", date, err)
		}
	}
	if _, err := first.Cancel(ctx, 2); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	second := testLedger(t, store, nil)
	if !reflect.DeepEqual(second.All(), first.All()) {
		t.Errorf("restored set differs:\n got %+v\nwant %+v", second.All(), first.All())
	}

	b, err := second.Create(ctx, Request{UserID: 1, PropertyID: 7, Date: "2025-06-02"})
	if err != nil {
		t.Fatalf("rebook cancelled slot after restart: %v", err)
	}
	if b.ID != 4 {
		t.Errorf("id = %d, want 4", b.ID)
	}
}

func TestListProjections(t *testing.T) {
	ctx := context.Background()
	l := testLedger(t, snapshot.NewMemory(), nil)

	reqs := []Request{
		{UserID: 1, PropertyID: 7, Date: "2025-06-01"},
		{UserID: 2, PropertyID: 7, Date: "2025-06-02"},
		{UserID: 1, PropertyID: 2, Date: "2025-06-01"},
	}
	for _, r := range reqs {
		if _, err := l.Create(ctx, r); err != nil {
			t.Fatalf("create %+v: %v", r, err)
		}
	}

	idsOf := func(bs []Booking) []int64 {
		out := []int64{}
		for _, b := range bs {
			out = append(out, b.ID)
		}
		return out
	}

	if got := idsOf(l.ListByUser(1)); !reflect.DeepEqual(got, []int64{1, 3}) {
		t.Errorf("by user 1 = %v", got)
	}
	if got := idsOf(l.ListByProperty(7)); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Errorf("by property 7 = %v", got)
	}
	if got := l.ListByUser(99); got == nil || len(got) != 0 {
		t.Errorf("unknown user = %#v, want empty non-nil slice", got)
	}

	list := l.ListByUser(1)
	list[0].Status = StatusCancelled
	if got, _ := l.Get(1); got.Status != StatusPending {
		t.Error("projection aliases ledger storage")
	}
}

func TestConcurrentCreateSameSlot(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()
	l := testLedger(t, store, nil)

	const n = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()
			_, err := l.Create(ctx, Request{UserID: user, PropertyID: 7, Date: "2025-06-01"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, apperr.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	if successes != 1 || conflicts != n-1 {
		t.Errorf("successes=%d conflicts=%d, want 1 and %d", successes, conflicts, n-1)
	}
	if got := len(storedBookings(t, store)); got != 1 {
		t.Errorf("stored = %d, want 1", got)
	}
}
