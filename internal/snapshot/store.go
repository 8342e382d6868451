// Package snapshot provides the durable key-value boundary that session and
// booking state is mirrored to. Writes are synchronous: a nil error means the
// value is durable before the call returns.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
)

// Well-known keys.
const (
	KeyUser      = "user"
	KeyBookings  = "bookings"
	KeyDirectory = "directory"
)

// Store is a durable key-value store.
type Store interface {
	// Write replaces the value stored under key.
	Write(ctx context.Context, key string, value []byte) error
	// Read returns the value under key and whether it was present.
	Read(ctx context.Context, key string) ([]byte, bool, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// WriteJSON marshals v and writes it under key.
func WriteJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling snapshot %s: %w", key, err)
	}
	if err := s.Write(ctx, key, data); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", key, err)
	}
	return nil
}

// ReadJSON reads key and unmarshals it into v.
// It reports false, leaving v untouched, when the key is absent.
func ReadJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	data, ok, err := s.Read(ctx, key)
	if err != nil {
		return false, fmt.Errorf("reading snapshot %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decoding snapshot %s: %w", key, err)
	}
	return true, nil
}
