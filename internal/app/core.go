package app

import (
	"context"

	"github.com/evcraddock/homeview/internal/apperr"
	"github.com/evcraddock/homeview/internal/auth"
	"github.com/evcraddock/homeview/internal/booking"
	"github.com/evcraddock/homeview/internal/property"
)

// Search runs the filter engine over the catalog.
func (c *Core) Search(cr property.Criteria) []property.Property {
	res := c.searcher.Search(cr)
	c.log.Debug("search", "criteria", cr.String(), "results", len(res))
	return res
}

// Featured returns the featured listings.
func (c *Core) Featured() []property.Property {
	return c.catalog.Featured()
}

// Property returns one listing.
func (c *Core) Property(id int64) (property.Property, error) {
	return c.catalog.Get(id)
}

// PropertyBookings returns the bookings for an existing property.
func (c *Core) PropertyBookings(id int64) ([]booking.Booking, error) {
	if !c.catalog.Has(id) {
		return nil, apperr.NotFound("property", id)
	}
	return c.ledger.ListByProperty(id), nil
}

// UserBookings returns a user's bookings.
func (c *Core) UserBookings(userID int64) []booking.Booking {
	return c.ledger.ListByUser(userID)
}

// Booking returns one booking.
func (c *Core) Booking(id int64) (booking.Booking, error) {
	return c.ledger.Get(id)
}

// CreateBooking books a viewing for the signed-in user.
func (c *Core) CreateBooking(ctx context.Context, propertyID int64, date, notes string) (booking.Booking, error) {
	s, err := c.Session()
	if err != nil {
		c.metrics.ObserveBooking("create", err)
		return booking.Booking{}, err
	}

	b, err := c.ledger.Create(ctx, booking.Request{
		UserID:     s.ID,
		PropertyID: propertyID,
		Date:       date,
		Notes:      notes,
	})
	c.metrics.ObserveBooking("create", err)
	if err != nil {
		c.log.Warn("booking rejected",
			"property_id", propertyID, "date", date, "user_id", s.ID,
			"session_id", s.SessionID, "error", err)
		return booking.Booking{}, err
	}

	c.log.Info("booking created",
		"booking_id", b.ID, "property_id", b.PropertyID, "date", b.Date,
		"user_id", b.UserID, "session_id", s.SessionID)
	return b, nil
}

// CancelBooking cancels a booking.
func (c *Core) CancelBooking(ctx context.Context, id int64) (booking.Booking, error) {
	b, err := c.ledger.Cancel(ctx, id)
	c.metrics.ObserveBooking("cancel", err)
	if err != nil {
		c.log.Warn("cancel failed", "booking_id", id, "error", err)
		return booking.Booking{}, err
	}
	c.log.Info("booking cancelled", "booking_id", id)
	return b, nil
}

// ConfirmBooking confirms a pending booking.
func (c *Core) ConfirmBooking(ctx context.Context, id int64) (booking.Booking, error) {
	b, err := c.ledger.Confirm(ctx, id)
	c.metrics.ObserveBooking("confirm", err)
	if err != nil {
		c.log.Warn("confirm failed", "booking_id", id, "error", err)
		return booking.Booking{}, err
	}
	c.log.Info("booking confirmed", "booking_id", id)
	return b, nil
}

// Login signs a user in.
func (c *Core) Login(ctx context.Context, email, secret string) (auth.Session, error) {
	s, err := c.sessions.Login(ctx, email, secret)
	c.metrics.ObserveAuth("login", err)
	return s, err
}

// Register creates an account and signs it in.
func (c *Core) Register(ctx context.Context, p auth.Profile) (auth.Session, error) {
	s, err := c.sessions.Register(ctx, p)
	c.metrics.ObserveAuth("register", err)
	return s, err
}

// Logout ends the current session.
func (c *Core) Logout(ctx context.Context) error {
	err := c.sessions.Logout(ctx)
	c.metrics.ObserveAuth("logout", err)
	return err
}

// Session returns the current session or an AuthError.
func (c *Core) Session() (auth.Session, error) {
	s, ok := c.sessions.Current()
	if !ok {
		return auth.Session{}, apperr.Auth("not logged in")
	}
	return s, nil
}

// Sessions returns the session manager.
func (c *Core) Sessions() *auth.Manager { return c.sessions }
