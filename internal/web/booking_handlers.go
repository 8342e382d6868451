package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/evcraddock/homeview/internal/booking"
)

type createBookingRequest struct {
	PropertyID int64  `json:"property_id"`
	Date       string `json:"date"`
	Notes      string `json:"notes"`
}

func (s *Server) apiCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PropertyID <= 0 {
		apiError(w, "property_id is required", http.StatusBadRequest)
		return
	}

	b, err := s.core.CreateBooking(r.Context(), req.PropertyID, strings.TrimSpace(req.Date), strings.TrimSpace(req.Notes))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, b, http.StatusCreated)
}

func (s *Server) apiGetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "booking")
	if !ok {
		return
	}
	b, err := s.core.Booking(id)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, b, http.StatusOK)
}

func (s *Server) apiCancelBooking(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.core.CancelBooking)
}

func (s *Server) apiConfirmBooking(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.core.ConfirmBooking)
}

func (s *Server) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, int64) (booking.Booking, error)) {
	id, ok := pathID(w, r, "booking")
	if !ok {
		return
	}
	b, err := op(r.Context(), id)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, b, http.StatusOK)
}

func (s *Server) apiUserBookings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}
	apiJSON(w, s.core.UserBookings(id), http.StatusOK)
}

func (s *Server) apiDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.core.Dashboard()
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, d, http.StatusOK)
}
