package domain

import (
	"fmt"
	"time"
)

// Role is the fixed set of actor kinds. A user's role never changes after
// registration.
type Role string

const (
	RoleClient Role = "client"
	RoleAgency Role = "agency"
	RoleAdmin  Role = "admin"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient, RoleAgency, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserSummary is the only user shape embedded in package and booking views.
type UserSummary struct {
	ID    string
	Name  string
	Email string
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

// Actor is the caller identity the services authorize against.
type Actor struct {
	UserID string
	Role   Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanManagePackage reports whether a may update or soft-delete p.
func (a Actor) CanManagePackage(p *Package) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == RoleAgency && p.AgencyID == a.UserID
}

// CanViewBooking reports whether a may read b.
func (a Actor) CanViewBooking(b *Booking) bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleClient:
		return b.ClientID == a.UserID
	case RoleAgency:
		return b.AgencyID == a.UserID
	default:
		return false
	}
}

// CanManageBooking reports whether a may change b's status or payment status.
// Clients never can, not even on their own bookings.
func (a Actor) CanManageBooking(b *Booking) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == RoleAgency && b.AgencyID == a.UserID
}
