package domain

import (
	"fmt"
	"strings"
	"time"
)

// Package is a travel offering published by an agency. It is never physically
// removed: IsActive=false is the soft-deleted state.
type Package struct {
	ID          string
	Title       string
	Description string
	Destination string
	Duration    int // days
	Price       float64
	Features    []string
	IsActive    bool
	AgencyID    string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the entity invariants.
func (p *Package) Validate() error {
	var problems []string
	if strings.TrimSpace(p.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		problems = append(problems, "description is required")
	}
	if strings.TrimSpace(p.Destination) == "" {
		problems = append(problems, "destination is required")
	}
	if p.Duration < 1 {
		problems = append(problems, "duration must be at least 1")
	}
	if p.Price < 0 {
		problems = append(problems, "price must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// PackageChanges is the allow-list of caller-editable package fields.
// A nil field is left untouched. Owner, active flag, version and timestamps
// are server-controlled and have no entry here.
type PackageChanges struct {
	Title       *string
	Description *string
	Destination *string
	Duration    *int
	Price       *float64
	Features    *[]string
}

// Apply merges c onto p.
func (p *Package) Apply(c PackageChanges) {
	if c.Title != nil {
		p.Title = strings.TrimSpace(*c.Title)
	}
	if c.Description != nil {
		p.Description = strings.TrimSpace(*c.Description)
	}
	if c.Destination != nil {
		p.Destination = strings.TrimSpace(*c.Destination)
	}
	if c.Duration != nil {
		p.Duration = *c.Duration
	}
	if c.Price != nil {
		p.Price = *c.Price
	}
	if c.Features != nil {
		p.Features = CleanFeatures(*c.Features)
	}
}

// CleanFeatures trims entries and drops blank ones, keeping order.
func CleanFeatures(in []string) []string {
	out := make([]string, 0, len(in))
	for _, f := range in {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
