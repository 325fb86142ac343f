package handler

import (
	"fmt"
	"strings"

	"github.com/travelagency/booking-api/internal/core/domain"
	"github.com/travelagency/booking-api/internal/core/ports"
)

// createPackageRequest is the body of POST /api/packages.
type createPackageRequest struct {
	Title       string       `json:"title" form:"title" validate:"required"`
	Description string       `json:"description" form:"description" validate:"required"`
	Destination string       `json:"destination" form:"destination" validate:"required"`
	Duration    looseInt     `json:"duration" form:"duration" swaggertype:"integer"`
	Price       looseFloat   `json:"price" form:"price" swaggertype:"number"`
	Features    looseStrings `json:"features" form:"features" swaggertype:"array,string"`
	IsActive    looseBool    `json:"isActive" form:"isActive" swaggertype:"boolean"`
}

func (r *createPackageRequest) toInput(actor domain.Actor) (ports.CreatePackageInput, error) {
	var missing []string
	if !r.Duration.Set {
		missing = append(missing, "duration is required")
	}
	if !r.Price.Set {
		missing = append(missing, "price is required")
	}
	if len(missing) > 0 {
		return ports.CreatePackageInput{}, fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(missing, "; "))
	}
	return ports.CreatePackageInput{
		Actor:             actor,
		Title:             r.Title,
		Description:       r.Description,
		Destination:       r.Destination,
		Duration:          r.Duration.Value,
		Price:             r.Price.Value,
		Features:          r.Features.Values,
		FeaturesMalformed: r.Features.Malformed,
		IsActive:          r.IsActive.ptr(),
	}, nil
}

// updatePackageRequest is the body of PUT /api/packages/:id. Only the
// fields listed here can change; anything else in the body is ignored.
type updatePackageRequest struct {
	Title       *string      `json:"title" form:"title"`
	Description *string      `json:"description" form:"description"`
	Destination *string      `json:"destination" form:"destination"`
	Duration    looseInt     `json:"duration" form:"duration" swaggertype:"integer"`
	Price       looseFloat   `json:"price" form:"price" swaggertype:"number"`
	Features    looseStrings `json:"features" form:"features" swaggertype:"array,string"`
}

func (r *updatePackageRequest) toInput(actor domain.Actor, id string) (ports.UpdatePackageInput, error) {
	if r.Features.Malformed {
		return ports.UpdatePackageInput{}, fmt.Errorf("%w: features must be a list of strings", domain.ErrValidation)
	}
	return ports.UpdatePackageInput{
		Actor: actor,
		ID:    id,
		Changes: domain.PackageChanges{
			Title:       r.Title,
			Description: r.Description,
			Destination: r.Destination,
			Duration:    r.Duration.ptr(),
			Price:       r.Price.ptr(),
			Features:    r.Features.ptr(),
		},
	}, nil
}

// packageListQuery holds the optional filters of GET /api/packages.
type packageListQuery struct {
	Destination string     `query:"destination"`
	MinPrice    looseFloat `query:"minPrice"`
	MaxPrice    looseFloat `query:"maxPrice"`
	Duration    looseInt   `query:"duration"`
}

func (q *packageListQuery) toFilter() ports.PackageFilter {
	return ports.PackageFilter{
		Destination: strings.TrimSpace(q.Destination),
		MinPrice:    q.MinPrice.ptr(),
		MaxPrice:    q.MaxPrice.ptr(),
		Duration:    q.Duration.Value,
	}
}
