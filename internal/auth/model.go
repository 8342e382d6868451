// Package auth provides the user directory and the session manager that
// tracks who is signed in.
package auth

import (
	"slices"
	"time"

	"github.com/evcraddock/homeview/internal/apperr"
)

// Role is what a user does on the platform.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// ParseRole validates a role name. An empty name means buyer.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case "":
		return RoleBuyer, nil
	case RoleBuyer, RoleSeller, RoleAdmin:
		return r, nil
	default:
		return "", apperr.Invalid("unknown role %q (use buyer, seller or admin)", s)
	}
}

// BookingRequest is a viewing request shown on a seller's profile.
type BookingRequest struct {
	PropertyID int64  `json:"property_id" yaml:"property_id"`
	BuyerID    int64  `json:"buyer_id" yaml:"buyer_id"`
	Date       string `json:"date" yaml:"date"`
	Status     string `json:"status" yaml:"status"`
}

// User is the public part of a directory entry.
type User struct {
	ID               int64            `json:"id" yaml:"id"`
	Name             string           `json:"name" yaml:"name"`
	Email            string           `json:"email" yaml:"email"`
	Role             Role             `json:"role" yaml:"role"`
	Avatar           string           `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Phone            string           `json:"phone,omitempty" yaml:"phone,omitempty"`
	SavedProperties  []int64          `json:"saved_properties,omitempty" yaml:"saved_properties,omitempty"`
	ListedProperties []int64          `json:"listed_properties,omitempty" yaml:"listed_properties,omitempty"`
	BookingRequests  []BookingRequest `json:"booking_requests,omitempty" yaml:"booking_requests,omitempty"`
}

func (u User) clone() User {
	u.SavedProperties = slices.Clone(u.SavedProperties)
	u.ListedProperties = slices.Clone(u.ListedProperties)
	u.BookingRequests = slices.Clone(u.BookingRequests)
	return u
}

// Entry is a directory record: a user plus their secret. Seed entries carry a
// plain Password; registered entries carry a bcrypt PasswordHash.
type Entry struct {
	User         `yaml:",inline"`
	Password     string `json:"password,omitempty" yaml:"password,omitempty"`
	PasswordHash string `json:"password_hash,omitempty" yaml:"password_hash,omitempty"`
}

// Session is the signed-in user with the secret stripped.
type Session struct {
	User
	SessionID string    `json:"session_id"`
	StartedAt time.Time `json:"started_at"`
}

// Clone returns a deep copy.
func (s Session) Clone() Session {
	s.User = s.User.clone()
	return s
}

// Profile is the input to Manager.Register.
type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
	Phone    string `json:"phone,omitempty"`
}
