package auth

import (
	"testing"
	"time"

	"github.com/evcraddock/homeview/internal/snapshot"
)

var testStart = time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

func testDirectory(t *testing.T) *Directory {
	t.Helper()
	d, err := NewDirectory([]Entry{
		{User: User{ID: 1, Name: "Jane Cooper", Email: "jane@example.com", Role: RoleBuyer, SavedProperties: []int64{1, 7}}, Password: "password123"},
		{User: User{ID: 2, Name: "Robert Fox", Email: "robert@example.com", Role: RoleSeller, ListedProperties: []int64{2, 7}}, Password: "hunter2"},
		{User: User{ID: 3, Name: "Esther Howard", Email: "admin@example.com", Role: RoleAdmin}, Password: "admin123"},
	})
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}
	return d
}

func testManager(t *testing.T, store snapshot.Store) *Manager {
	t.Helper()
	return NewManager(testDirectory(t), store, WithManagerClock(func() time.Time { return testStart }))
}
