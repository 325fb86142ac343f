package ports

import (
	"context"

	"github.com/travelagency/booking-api/internal/core/domain"
)

// JWT claim names shared by the token issuer and the auth middleware.
const (
	ClaimUserID = "userId"
	ClaimRole   = "role"
)

// RegisterInput carries the self-registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string
	Address  string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// EnsureAdmin creates the admin account if no user holds that email yet.
	EnsureAdmin(ctx context.Context, name, email, password string) error
}
