package ports

import (
	"context"

	"github.com/travelagency/booking-api/internal/core/domain"
)

// PackageView is a package with its owning agency resolved.
type PackageView struct {
	Package *domain.Package
	Agency  *domain.UserSummary // nil when the agency user no longer exists
}

// CreatePackageInput is the transport-neutral create request.
type CreatePackageInput struct {
	Actor       domain.Actor
	Title       string
	Description string
	Destination string
	Duration    int
	Price       float64
	Features    []string
	// FeaturesMalformed is set when the features field could not be decoded.
	FeaturesMalformed bool
	IsActive          *bool // nil → active
}

type UpdatePackageInput struct {
	Actor   domain.Actor
	ID      string
	Changes domain.PackageChanges
}

// PackageService defines use-case operations for packages.
type PackageService interface {
	ListActive(ctx context.Context, filter PackageFilter) ([]PackageView, error)
	ListByAgency(ctx context.Context, actor domain.Actor) ([]PackageView, error)
	Get(ctx context.Context, id string) (*PackageView, error)
	Create(ctx context.Context, in CreatePackageInput) (*PackageView, error)
	Update(ctx context.Context, in UpdatePackageInput) (*PackageView, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}
