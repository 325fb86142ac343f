package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/travelagency/booking-api/internal/core/domain"
)

const (
	activePackagesKey    = "cache:packages:active"
	packageGenerationKey = "cache:packages:generation"
	defaultPackageTTL    = time.Minute
)

// PackageCache stores the unfiltered active-package listing.
type PackageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPackageCache creates a PackageCache wrapping the given Redis client.
func NewPackageCache(client *redis.Client, ttl time.Duration) *PackageCache {
	if ttl <= 0 {
		ttl = defaultPackageTTL
	}
	return &PackageCache{client: client, ttl: ttl}
}

// cachedPackage pins the serialized shape independently of the domain struct.
type cachedPackage struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Destination string    `json:"destination"`
	Duration    int       `json:"duration"`
	Price       float64   `json:"price"`
	Features    []string  `json:"features"`
	IsActive    bool      `json:"isActive"`
	AgencyID    string    `json:"agency"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *PackageCache) GetActive(ctx context.Context) ([]*domain.Package, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, activePackagesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("package cache get: %w", err)
	}
	pkgs, err := decodePackages(data)
	if err != nil {
		return nil, false, err
	}
	return pkgs, true, nil
}

// Generation returns the invalidation counter; a missing key reads as 0.
func (c *PackageCache) Generation(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return parseGeneration(c.client.Get(ctx, packageGenerationKey).Result())
}

// SetActive writes the listing under WATCH on the generation key. If the
// generation moved on, or changes before EXEC, nothing is written.
func (c *PackageCache) SetActive(ctx context.Context, gen int64, pkgs []*domain.Package) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	payload, err := encodePackages(pkgs)
	if err != nil {
		return false, err
	}

	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := parseGeneration(tx.Get(ctx, packageGenerationKey).Result())
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, activePackagesKey, payload, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, packageGenerationKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("package cache set: %w", err)
	}
	return stored, nil
}

// Invalidate bumps the generation and drops the listing in one MULTI.
func (c *PackageCache) Invalidate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, packageGenerationKey)
		pipe.Del(ctx, activePackagesKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("package cache invalidate: %w", err)
	}
	return nil
}

func parseGeneration(raw string, err error) (int64, error) {
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("package cache generation: %w", err)
	}
	gen, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("package cache generation: %w", err)
	}
	return gen, nil
}

func encodePackages(pkgs []*domain.Package) ([]byte, error) {
	out := make([]cachedPackage, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, cachedPackage{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Destination: p.Destination,
			Duration:    p.Duration,
			Price:       p.Price,
			Features:    p.Features,
			IsActive:    p.IsActive,
			AgencyID:    p.AgencyID,
			Version:     p.Version,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	payload, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("package cache encode: %w", err)
	}
	return payload, nil
}

func decodePackages(data []byte) ([]*domain.Package, error) {
	var in []cachedPackage
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("package cache decode: %w", err)
	}
	out := make([]*domain.Package, 0, len(in))
	for _, c := range in {
		out = append(out, &domain.Package{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Destination: c.Destination,
			Duration:    c.Duration,
			Price:       c.Price,
			Features:    c.Features,
			IsActive:    c.IsActive,
			AgencyID:    c.AgencyID,
			Version:     c.Version,
			CreatedAt:   c.CreatedAt,
			UpdatedAt:   c.UpdatedAt,
		})
	}
	return out, nil
}
