package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/travelagency/booking-api/internal/core/domain"
	"github.com/travelagency/booking-api/internal/core/ports"
	"github.com/travelagency/booking-api/internal/pkg/metrics"
)

// PackageCache abstracts the active-package list cache (Redis). Every
// Invalidate advances a generation counter; a refill only lands when the
// generation still matches the one read before the store was queried, so a
// listing read before a write can never overwrite that write's invalidation.
type PackageCache interface {
	// GetActive reports ok=false on a miss.
	GetActive(ctx context.Context) (pkgs []*domain.Package, ok bool, err error)
	Generation(ctx context.Context) (int64, error)
	// SetActive stores pkgs only if the generation is still gen. stored is
	// false when a concurrent invalidation won.
	SetActive(ctx context.Context, gen int64, pkgs []*domain.Package) (stored bool, err error)
	Invalidate(ctx context.Context) error
}

// PackageOptions tunes PackageService behavior.
type PackageOptions struct {
	// StrictFeatures rejects a create request whose features field could not
	// be decoded instead of storing an empty list.
	StrictFeatures bool
}

type PackageService struct {
	repo  ports.PackageRepository
	users ports.UserRepository
	cache PackageCache
	opts  PackageOptions
	log   zerolog.Logger
	now   func() time.Time
}

// NewPackageService returns a PackageService. cache may be nil.
func NewPackageService(
	repo ports.PackageRepository,
	users ports.UserRepository,
	cache PackageCache,
	opts PackageOptions,
	log zerolog.Logger,
) *PackageService {
	return &PackageService{
		repo:  repo,
		users: users,
		cache: cache,
		opts:  opts,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// ListActive returns the public catalogue. The unfiltered listing goes
// through the cache; filtered listings always hit the store.
func (s *PackageService) ListActive(ctx context.Context, filter ports.PackageFilter) ([]ports.PackageView, error) {
	filter.ActiveOnly = true
	filter.AgencyID = ""

	var (
		pkgs []*domain.Package
		err  error
	)
	if filter.IsZero() {
		pkgs, err = s.cachedActive(ctx)
	} else {
		pkgs, err = s.repo.List(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return s.expand(ctx, pkgs)
}

func (s *PackageService) cachedActive(ctx context.Context) ([]*domain.Package, error) {
	refill := false
	var gen int64
	if s.cache != nil {
		pkgs, ok, err := s.cache.GetActive(ctx)
		switch {
		case err != nil:
			metrics.PackageCacheTotal.WithLabelValues("error").Inc()
			s.log.Warn().Err(err).Msg("package cache read failed, falling back to store")
		case ok:
			metrics.PackageCacheTotal.WithLabelValues("hit").Inc()
			return pkgs, nil
		default:
			metrics.PackageCacheTotal.WithLabelValues("miss").Inc()
			// The generation must be read before the store.
			if gen, err = s.cache.Generation(ctx); err != nil {
				s.log.Warn().Err(err).Msg("package cache generation read failed")
			} else {
				refill = true
			}
		}
	}

	pkgs, err := s.repo.List(ctx, ports.PackageFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	if refill {
		stored, err := s.cache.SetActive(ctx, gen, pkgs)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("package cache write failed")
		case !stored:
			metrics.PackageCacheTotal.WithLabelValues("stale").Inc()
			s.log.Debug().Int64("generation", gen).Msg("package cache refill skipped, invalidated meanwhile")
		}
	}
	return pkgs, nil
}

// ListByAgency returns every package the caller owns, active or not. Admins
// see the whole catalogue.
func (s *PackageService) ListByAgency(ctx context.Context, actor domain.Actor) ([]ports.PackageView, error) {
	var filter ports.PackageFilter
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleAgency:
		filter.AgencyID = actor.UserID
	default:
		return nil, domain.ErrForbidden
	}
	pkgs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list agency packages: %w", err)
	}
	return s.expand(ctx, pkgs)
}

// Get returns a package regardless of its active flag.
func (s *PackageService) Get(ctx context.Context, id string) (*ports.PackageView, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.expandOne(ctx, p)
}

func (s *PackageService) Create(ctx context.Context, in ports.CreatePackageInput) (*ports.PackageView, error) {
	if in.Actor.Role != domain.RoleAgency && in.Actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	features := in.Features
	if in.FeaturesMalformed {
		if s.opts.StrictFeatures {
			return nil, fmt.Errorf("%w: features must be a JSON array of strings", domain.ErrValidation)
		}
		s.log.Warn().Str("user_id", in.Actor.UserID).Msg("features could not be decoded, storing empty list")
		features = nil
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	now := s.now()
	p := &domain.Package{}
	p.Apply(domain.PackageChanges{
		Title:       &in.Title,
		Description: &in.Description,
		Destination: &in.Destination,
		Duration:    &in.Duration,
		Price:       &in.Price,
		Features:    &features,
	})
	p.IsActive = active
	p.AgencyID = in.Actor.UserID
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error().Err(err).Msg("failed to create package")
		return nil, fmt.Errorf("create package: %w", err)
	}

	metrics.PackagesWrittenTotal.WithLabelValues("create").Inc()
	s.invalidate(ctx)
	s.log.Info().Str("package_id", p.ID).Str("agency_id", p.AgencyID).Msg("package created")

	return s.expandOne(ctx, p)
}

// Update applies the allow-listed changes to a package the caller manages.
func (s *PackageService) Update(ctx context.Context, in ports.UpdatePackageInput) (*ports.PackageView, error) {
	p, err := s.loadManaged(ctx, in.Actor, in.ID)
	if err != nil {
		return nil, err
	}

	p.Apply(in.Changes)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update package: %w", err)
	}

	metrics.PackagesWrittenTotal.WithLabelValues("update").Inc()
	s.invalidate(ctx)
	s.log.Info().Str("package_id", p.ID).Str("user_id", in.Actor.UserID).Msg("package updated")

	return s.expandOne(ctx, p)
}

// Delete soft-deletes a package: it stays retrievable by id.
func (s *PackageService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	p, err := s.loadManaged(ctx, actor, id)
	if err != nil {
		return err
	}

	p.IsActive = false
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return fmt.Errorf("delete package: %w", err)
	}

	metrics.PackagesWrittenTotal.WithLabelValues("delete").Inc()
	s.invalidate(ctx)
	s.log.Info().Str("package_id", p.ID).Str("user_id", actor.UserID).Msg("package deactivated")
	return nil
}

func (s *PackageService) loadManaged(ctx context.Context, actor domain.Actor, id string) (*domain.Package, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManagePackage(p) {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (s *PackageService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("package cache invalidation failed")
	}
}

func (s *PackageService) expandOne(ctx context.Context, p *domain.Package) (*ports.PackageView, error) {
	views, err := s.expand(ctx, []*domain.Package{p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *PackageService) expand(ctx context.Context, pkgs []*domain.Package) ([]ports.PackageView, error) {
	ids := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		ids = append(ids, p.AgencyID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve agencies: %w", err)
	}

	views := make([]ports.PackageView, 0, len(pkgs))
	for _, p := range pkgs {
		v := ports.PackageView{Package: p}
		if u, ok := users[p.AgencyID]; ok {
			v.Agency = u.Summary()
		}
		views = append(views, v)
	}
	return views, nil
}
