// Package service contains the business logic for the FlavorMap service.
// Services validate inputs, assign server-generated fields, and orchestrate
// repo calls. No storage details live here; services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rc397/FlavorMap/internal/domain"
	"github.com/rc397/FlavorMap/internal/metrics"
	"github.com/rc397/FlavorMap/internal/repo"
)

// SpotService implements business logic for Spot operations.
type SpotService struct {
	repo  repo.SpotRepo
	ids   IDGenerator
	clock Clock
}

// Option customizes a SpotService.
type Option func(*SpotService)

// WithIDGenerator replaces the default UUIDv7-based id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *SpotService) { s.ids = g }
}

// WithClock replaces the default UTC wall clock.
func WithClock(c Clock) Option {
	return func(s *SpotService) { s.clock = c }
}

// NewSpotService constructs a SpotService backed by the provided SpotRepo.
func NewSpotService(r repo.SpotRepo, opts ...Option) *SpotService {
	s := &SpotService{repo: r, ids: UUIDGenerator{}, clock: SystemClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every spot in creation order.
// Always returns a non-nil slice so callers can safely range over or encode it.
func (s *SpotService) List(ctx context.Context) ([]domain.Spot, error) {
	spots, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.SpotService.List: %w", err)
	}
	if spots == nil {
		return []domain.Spot{}, nil
	}
	return spots, nil
}

// Create validates the input, assigns an id and a microsecond-precision
// timestamp, and appends the spot to the store. Returns a *domain.ValidationError (matching
// domain.ErrValidation) when the input is rejected; the store is not touched
// in that case.
func (s *SpotService) Create(ctx context.Context, in domain.SpotInput) (domain.Spot, error) {
	valid, err := ValidateSpot(in)
	if err != nil {
		return domain.Spot{}, err
	}

	id, err := s.ids.NewID()
	if err != nil {
		return domain.Spot{}, fmt.Errorf("service.SpotService.Create: %w", err)
	}
	// Both stores keep microseconds; the response must match a later read.
	spot := domain.NewSpot(id, s.clock.Now().Truncate(time.Microsecond), valid)

	if err := s.repo.Append(ctx, spot); err != nil {
		return domain.Spot{}, fmt.Errorf("service.SpotService.Create: %w", err)
	}
	metrics.ObserveSpotCreated()
	return spot, nil
}
