package ports

import (
	"context"

	"github.com/travelagency/booking-api/internal/core/domain"
)

// PackageFilter carries the query parameters for listing packages.
// Zero values mean "no filter".
type PackageFilter struct {
	ActiveOnly  bool
	AgencyID    string
	Destination string // case-insensitive substring
	MinPrice    *float64
	MaxPrice    *float64
	Duration    int
}

// IsZero reports whether f is the plain active listing with no user filters.
func (f PackageFilter) IsZero() bool {
	return f.AgencyID == "" && f.Destination == "" && f.MinPrice == nil && f.MaxPrice == nil && f.Duration == 0
}

// PackageRepository defines persistence operations for packages.
type PackageRepository interface {
	Create(ctx context.Context, p *domain.Package) error
	// FindByID returns domain.ErrPackageNotFound for unknown or malformed IDs.
	FindByID(ctx context.Context, id string) (*domain.Package, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Package, error)
	// List returns matching packages, newest first.
	List(ctx context.Context, filter PackageFilter) ([]*domain.Package, error)
	// Update writes the editable fields and the active flag of p provided the
	// stored version still equals p.Version. On success p.Version is
	// incremented. The owner and creation time are never rewritten.
	// A stale version yields domain.ErrVersionConflict.
	Update(ctx context.Context, p *domain.Package) error
}
