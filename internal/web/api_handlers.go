package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/evcraddock/homeview/internal/apperr"
	"github.com/evcraddock/homeview/internal/logging"
	"github.com/evcraddock/homeview/internal/property"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiFail maps a core error to a status code and writes it.
func apiFail(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, apperr.ErrAuth):
		code = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrInvalid):
		code = http.StatusBadRequest
	}

	msg := err.Error()
	if code == http.StatusInternalServerError {
		slog.Error("request failed", "path", r.URL.Path, "request_id", logging.RequestID(r.Context()), "error", err)
		msg = "internal error"
	}
	apiError(w, msg, code)
}

// decodeBody reads a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

// pathID parses the {id} URL parameter.
func pathID(w http.ResponseWriter, r *http.Request, what string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		apiError(w, "invalid "+what+" ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (s *Server) apiSearch(w http.ResponseWriter, r *http.Request) {
	c, err := property.ParseCriteria(r.URL.Query())
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, s.core.Search(c), http.StatusOK)
}

func (s *Server) apiFeatured(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, s.core.Featured(), http.StatusOK)
}

func (s *Server) apiGetProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "property")
	if !ok {
		return
	}
	p, err := s.core.Property(id)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, p, http.StatusOK)
}

func (s *Server) apiPropertyBookings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "property")
	if !ok {
		return
	}
	bs, err := s.core.PropertyBookings(id)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, bs, http.StatusOK)
}
