package ports

import (
	"context"

	"github.com/travelagency/booking-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create stores a new user and returns it with its generated ID.
	// A duplicate email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs resolves many users in one round trip. Unknown or malformed
	// IDs are silently absent from the result.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
}
