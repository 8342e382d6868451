package web

import (
	"net/http"

	"github.com/evcraddock/homeview/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) apiLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sess, err := s.core.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, sess, http.StatusOK)
}

func (s *Server) apiCurrentSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.core.Session()
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, sess, http.StatusOK)
}

func (s *Server) apiLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.core.Logout(r.Context()); err != nil {
		apiFail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiRegister(w http.ResponseWriter, r *http.Request) {
	var p auth.Profile
	if !decodeBody(w, r, &p) {
		return
	}
	sess, err := s.core.Register(r.Context(), p)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, sess, http.StatusCreated)
}
