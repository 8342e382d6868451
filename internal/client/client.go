// Package client provides an HTTP client for the homeview REST API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/evcraddock/homeview/internal/app"
	"github.com/evcraddock/homeview/internal/apperr"
	"github.com/evcraddock/homeview/internal/auth"
	"github.com/evcraddock/homeview/internal/booking"
	"github.com/evcraddock/homeview/internal/property"
)

// Client is an HTTP client for the homeview API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response. It matches the apperr sentinels for the
// statuses the server maps them to.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Unwrap lets errors.Is match apperr.ErrNotFound and friends.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return apperr.ErrNotFound
	case http.StatusConflict:
		return apperr.ErrConflict
	case http.StatusUnauthorized:
		return apperr.ErrAuth
	case http.StatusBadRequest:
		return apperr.ErrInvalid
	}
	return nil
}

// Search returns the properties matching c.
func (c *Client) Search(cr property.Criteria) ([]property.Property, error) {
	path := "/api/properties"
	if q := cr.Values().Encode(); q != "" {
		path += "?" + q
	}

	var props []property.Property
	if err := c.get(path, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// Featured returns the featured listings.
func (c *Client) Featured() ([]property.Property, error) {
	var props []property.Property
	if err := c.get("/api/properties/featured", &props); err != nil {
		return nil, err
	}
	return props, nil
}

// GetProperty returns one property.
func (c *Client) GetProperty(id int64) (*property.Property, error) {
	var p property.Property
	if err := c.get(fmt.Sprintf("/api/properties/%d", id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// PropertyBookings returns the bookings for a property.
func (c *Client) PropertyBookings(id int64) ([]booking.Booking, error) {
	var bs []booking.Booking
	if err := c.get(fmt.Sprintf("/api/properties/%d/bookings", id), &bs); err != nil {
		return nil, err
	}
	return bs, nil
}

// UserBookings returns a user's bookings.
func (c *Client) UserBookings(userID int64) ([]booking.Booking, error) {
	var bs []booking.Booking
	if err := c.get(fmt.Sprintf("/api/users/%d/bookings", userID), &bs); err != nil {
		return nil, err
	}
	return bs, nil
}

// CreateBooking books a viewing for the signed-in user.
func (c *Client) CreateBooking(propertyID int64, date, notes string) (*booking.Booking, error) {
	body := map[string]any{"property_id": propertyID, "date": date, "notes": notes}
	var b booking.Booking
	if err := c.post("/api/bookings", body, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// CancelBooking cancels a booking.
func (c *Client) CancelBooking(id int64) (*booking.Booking, error) {
	var b booking.Booking
	if err := c.post(fmt.Sprintf("/api/bookings/%d/cancel", id), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ConfirmBooking confirms a booking.
func (c *Client) ConfirmBooking(id int64) (*booking.Booking, error) {
	var b booking.Booking
	if err := c.post(fmt.Sprintf("/api/bookings/%d/confirm", id), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Login signs in on the server.
func (c *Client) Login(email, password string) (*auth.Session, error) {
	body := map[string]string{"email": email, "password": password}
	var s auth.Session
	if err := c.post("/api/session", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Register creates an account and signs it in.
func (c *Client) Register(p auth.Profile) (*auth.Session, error) {
	var s auth.Session
	if err := c.post("/api/users", p, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Logout ends the server's session.
func (c *Client) Logout() error {
	return c.doDelete("/api/session")
}

// Session returns the server's current session.
func (c *Client) Session() (*auth.Session, error) {
	var s auth.Session
	if err := c.get("/api/session", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Dashboard returns the signed-in user's overview.
func (c *Client) Dashboard() (*app.Dashboard, error) {
	var d app.Dashboard
	if err := c.get("/api/dashboard", &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) get(path string, result any) error {
	return c.send(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body, result any) error {
	return c.send(http.MethodPost, path, body, result)
}

func (c *Client) doDelete(path string) error {
	return c.send(http.MethodDelete, path, nil, nil)
}

// send issues one request. body, when non-nil, is sent as JSON; result, when
// non-nil, receives the decoded 2xx response. Statuses of 400 and up come
// back as *APIError carrying the server's message.
func (c *Client) send(method, path string, body, result any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s %s: %w", method, path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, raw)
	}
	if result == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}

// decodeError reads the server's {"error": "..."} body, falling back to the
// status text.
func decodeError(status int, raw []byte) *APIError {
	e := &APIError{Status: status, Message: http.StatusText(status)}
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		e.Message = body.Error
	}
	return e
}
