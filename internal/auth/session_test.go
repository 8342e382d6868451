package auth

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/evcraddock/homeview/internal/apperr"
	"github.com/evcraddock/homeview/internal/snapshot"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()
	m := testManager(t, store)

	if m.IsAuthenticated() {
		t.Fatal("new manager should be unauthenticated")
	}

	s, err := m.Login(ctx, "jane@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if s.ID != 1 || s.Role != RoleBuyer || s.SessionID == "" {
		t.Errorf("session = %+v", s)
	}
	if !s.StartedAt.Equal(testStart) {
		t.Errorf("started_at = %v", s.StartedAt)
	}

	raw, ok, err := store.Read(ctx, snapshot.KeyUser)
	if err != nil || !ok {
		t.Fatalf("snapshot not written: ok=%v err=%v", ok, err)
	}
	if bytes.Contains(raw, []byte("password123")) {
		t.Errorf("snapshot leaks the secret: %s", raw)
	}

	cur, ok := m.Current()
	if !ok || cur.ID != 1 {
		t.Errorf("current = (%+v, %v)", cur, ok)
	}
}

func TestEmailMatchesExactly(t *testing.T) {
	ctx := context.Background()
	m := testManager(t, snapshot.NewMemory())

	for _, email := range []string{"JANE@example.com", " jane@example.com", "jane@example.com "} {
		if _, err := m.Login(ctx, email, "password123"); !errors.Is(err, apperr.ErrAuth) {
			t.Errorf("Login(%q) err = %v, want ErrAuth", email, err)
		}
	}

	if _, err := m.Register(ctx, Profile{Name: "Sam", Email: " sam@example.com", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := m.Login(ctx, "sam@example.com", "pw"); !errors.Is(err, apperr.ErrAuth) {
		t.Errorf("trimmed email signed in: %v", err)
	}
	if _, err := m.Login(ctx, " sam@example.com", "pw"); err != nil {
		t.Errorf("registered email rejected: %v", err)
	}
}

func TestWrongPasswordKeepsSession(t *testing.T) {
	ctx := context.Background()
	m := testManager(t, snapshot.NewMemory())

	before, err := m.Login(ctx, "jane@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = m.Login(ctx, "robert@example.com", "wrong")
	if !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("err = %v, want ErrAuth", err)
	}

	after, ok := m.Current()
	if !ok || after.ID != before.ID || after.SessionID != before.SessionID {
		t.Errorf("session changed: before %+v after %+v", before, after)
	}
}

func TestLoginSnapshotFailureKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()
	m := testManager(t, store)

	before, err := m.Login(ctx, "jane@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	boom := errors.New("disk full")
	store.FailWrites(snapshot.KeyUser, boom)
	if _, err := m.Login(ctx, "robert@example.com", "hunter2"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}

	cur, _ := m.Current()
	if cur.SessionID != before.SessionID {
		t.Errorf("current = %+v, want previous session", cur)
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()
	m := testManager(t, store)

	s, err := m.Register(ctx, Profile{Name: "Cody Fisher", Email: "cody@example.com", Password: "pw", Role: "seller"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if s.ID != 4 {
		t.Errorf("id = %d, want directory size + 1", s.ID)
	}
	if s.Role != RoleSeller {
		t.Errorf("role = %q", s.Role)
	}
	if len(s.SavedProperties) != 0 || len(s.ListedProperties) != 0 || len(s.BookingRequests) != 0 {
		t.Errorf("role collections should start empty: %+v", s)
	}

	cur, ok := m.Current()
	if !ok || cur.Email != "cody@example.com" {
		t.Errorf("current = (%+v, %v)", cur, ok)
	}

	// The new account can log in again after logout.
	if err := m.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := m.Login(ctx, "cody@example.com", "pw"); err != nil {
		t.Fatalf("login as registered user: %v", err)
	}
}

func TestRegisterDefaultsToBuyer(t *testing.T) {
	m := testManager(t, snapshot.NewMemory())
	s, err := m.Register(context.Background(), Profile{Name: "Wade", Email: "wade@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if s.Role != RoleBuyer {
		t.Errorf("role = %q, want buyer", s.Role)
	}
}

func TestRegisterDuplicateKeepsSession(t *testing.T) {
	ctx := context.Background()
	m := testManager(t, snapshot.NewMemory())

	before, err := m.Login(ctx, "robert@example.com", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = m.Register(ctx, Profile{Name: "Jane Again", Email: "jane@example.com", Password: "x"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	after, _ := m.Current()
	if after.SessionID != before.SessionID || after.ID != before.ID {
		t.Errorf("session changed: %+v -> %+v", before, after)
	}
	if m.Directory().Len() != 3 {
		t.Errorf("directory size = %d, want 3", m.Directory().Len())
	}
}

func TestRegisterValidation(t *testing.T) {
	m := testManager(t, snapshot.NewMemory())
	tests := []struct {
		name string
		p    Profile
	}{
		{"missing email", Profile{Name: "x", Password: "pw"}},
		{"missing password", Profile{Name: "x", Email: "x@example.com"}},
		{"unknown role", Profile{Name: "x", Email: "x@example.com", Password: "pw", Role: "landlord"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Register(context.Background(), tt.p); !errors.Is(err, apperr.ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
	if m.IsAuthenticated() {
		t.Error("failed registration should not sign in")
	}
}

func TestRegisterRollsBackOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	for _, key := range []string{snapshot.KeyDirectory, snapshot.KeyUser} {
		t.Run(key, func(t *testing.T) {
			store := snapshot.NewMemory()
			m := testManager(t, store)
			store.FailWrites(key, boom)

			if _, err := m.Register(ctx, Profile{Name: "Cody", Email: "cody@example.com", Password: "pw"}); !errors.Is(err, boom) {
				t.Fatalf("err = %v, want %v", err, boom)
			}
			if m.Directory().Has("cody@example.com") {
				t.Error("entry left in directory")
			}
			if m.IsAuthenticated() {
				t.Error("session established despite failure")
			}
		})
	}
}

func TestLogoutIdempotent(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()
	m := testManager(t, store)

	if _, err := m.Login(ctx, "jane@example.com", "password123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := m.Logout(ctx); err != nil {
			t.Fatalf("logout %d: %v", i, err)
		}
	}
	if m.IsAuthenticated() {
		t.Error("still authenticated after logout")
	}
	if _, ok, _ := store.Read(ctx, snapshot.KeyUser); ok {
		t.Error("session snapshot not cleared")
	}
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()

	first := testManager(t, store)
	if s, err := first.Restore(ctx); err != nil || s != nil {
		t.Fatalf("restore empty = (%v, %v), want (nil, nil)", s, err)
	}

	registered, err := first.Register(ctx, Profile{Name: "Cody", Email: "cody@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// A fresh manager over the same store, as after a restart.
	second := testManager(t, store)
	s, err := second.Restore(ctx)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if s == nil || s.ID != registered.ID || s.SessionID != registered.SessionID {
		t.Fatalf("restored = %+v, want %+v", s, registered)
	}
	if !second.IsAuthenticated() {
		t.Error("restored session not current")
	}
	if !second.Directory().Has("cody@example.com") {
		t.Error("registered account not restored")
	}

	// Restoring twice does not duplicate registered entries.
	if _, err := second.Restore(ctx); err != nil {
		t.Fatalf("second restore: %v", err)
	}
	if got := second.Directory().Len(); got != 4 {
		t.Errorf("directory size = %d, want 4", got)
	}
}

func TestCurrentReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := testManager(t, snapshot.NewMemory())
	if _, err := m.Login(ctx, "jane@example.com", "password123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	s, _ := m.Current()
	s.SavedProperties[0] = 42

	again, _ := m.Current()
	if again.SavedProperties[0] != 1 {
		t.Error("Current leaked session storage")
	}
}
