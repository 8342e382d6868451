package web

import (
	"net/http"
	"strings"
	"testing"

	"github.com/evcraddock/homeview/internal/app"
	"github.com/evcraddock/homeview/internal/auth"
)

func TestAPILoginLogout(t *testing.T) {
	srv := testServer(t, Options{})

	if w := apiRequest(t, srv, "GET", "/api/session", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("session before login = %d, want 401", w.Code)
	}

	w := apiRequest(t, srv, "POST", "/api/session", map[string]string{"email": "jane@example.com", "password": "password123"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d", w.Code)
	}
	s := decode[auth.Session](t, w)
	if s.ID != 1 || s.SessionID == "" {
		t.Errorf("session = %+v", s)
	}
	if body := w.Body.String(); strings.Contains(body, "password123") {
		t.Errorf("login response leaks secret: %s", body)
	}

	w = apiRequest(t, srv, "POST", "/api/session", map[string]string{"email": " jane@example.com", "password": "password123"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("padded email status = %d, want 401", w.Code)
	}

	// A failed login leaves the session alone.
	w = apiRequest(t, srv, "POST", "/api/session", map[string]string{"email": "jane@example.com", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", w.Code)
	}
	w = apiRequest(t, srv, "GET", "/api/session", nil)
	if w.Code != http.StatusOK || decode[auth.Session](t, w).SessionID != s.SessionID {
		t.Errorf("session changed after failed login: %s", w.Body.String())
	}

	for i := 0; i < 2; i++ {
		if w := apiRequest(t, srv, "DELETE", "/api/session", nil); w.Code != http.StatusNoContent {
			t.Fatalf("logout %d status = %d", i, w.Code)
		}
	}
	if w := apiRequest(t, srv, "GET", "/api/session", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("session after logout = %d, want 401", w.Code)
	}
}

func TestAPIRegister(t *testing.T) {
	srv := testServer(t, Options{})

	w := apiRequest(t, srv, "POST", "/api/users", auth.Profile{Name: "Cody", Email: "cody@example.com", Password: "pw", Role: "seller"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", w.Code, w.Body.String())
	}
	s := decode[auth.Session](t, w)
	if s.ID != 4 || s.Role != auth.RoleSeller {
		t.Errorf("session = %+v", s)
	}

	w = apiRequest(t, srv, "POST", "/api/users", auth.Profile{Name: "Jane", Email: "jane@example.com", Password: "pw"})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", w.Code)
	}
	w = apiRequest(t, srv, "GET", "/api/session", nil)
	if decode[auth.Session](t, w).Email != "cody@example.com" {
		t.Error("duplicate registration changed the session")
	}

	if w := apiRequest(t, srv, "POST", "/api/users", auth.Profile{Name: "X", Email: "x@example.com", Password: "pw", Role: "landlord"}); w.Code != http.StatusBadRequest {
		t.Errorf("bad role status = %d, want 400", w.Code)
	}
}

func TestAPILoginRateLimit(t *testing.T) {
	srv := testServer(t, Options{LoginRate: 0.001, LoginBurst: 2})

	codes := []int{}
	for i := 0; i < 3; i++ {
		w := apiRequest(t, srv, "POST", "/api/session", map[string]string{"email": "jane@example.com", "password": "wrong"})
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusUnauthorized || codes[1] != http.StatusUnauthorized || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [401 401 429]", codes)
	}
}

func TestAPIDashboard(t *testing.T) {
	srv := testServer(t, Options{})

	if w := apiRequest(t, srv, "GET", "/api/dashboard", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	apiRequest(t, srv, "POST", "/api/session", map[string]string{"email": "admin@example.com", "password": "admin123"})
	w := apiRequest(t, srv, "GET", "/api/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	d := decode[app.Dashboard](t, w)
	if d.User.Role != auth.RoleAdmin || len(d.Properties) != 8 || d.TotalUsers != 3 {
		t.Errorf("dashboard = %+v", d)
	}
}
