// Package seed embeds the default catalog, user directory and baseline
// bookings used when no data files are configured.
package seed

import (
	_ "embed"
	"fmt"

	"github.com/evcraddock/homeview/internal/auth"
	"github.com/evcraddock/homeview/internal/booking"
	"github.com/evcraddock/homeview/internal/property"
)

var (
	//go:embed properties.json
	propertiesJSON []byte
	//go:embed users.json
	usersJSON []byte
	//go:embed bookings.json
	bookingsJSON []byte
)

// Properties returns the default catalog records.
func Properties() ([]property.Property, error) {
	props, err := property.Decode(propertiesJSON, "json")
	if err != nil {
		return nil, fmt.Errorf("seed properties: %w", err)
	}
	return props, nil
}

// Users returns the default directory entries.
func Users() ([]auth.Entry, error) {
	entries, err := auth.DecodeDirectory(usersJSON, "json")
	if err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return entries, nil
}

// Bookings returns the baseline bookings.
func Bookings() ([]booking.Booking, error) {
	bs, err := booking.Decode(bookingsJSON, "json")
	if err != nil {
		return nil, fmt.Errorf("seed bookings: %w", err)
	}
	return bs, nil
}
