package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rc397/FlavorMap/internal/domain"
	"github.com/rc397/FlavorMap/internal/repo"
	"github.com/rc397/FlavorMap/internal/service"
)

// mockSpotRepo is a hand-written test double for repo.SpotRepo.
// Each method is a function field; set only the ones your test needs.
type mockSpotRepo struct {
	loadAll func(ctx context.Context) ([]domain.Spot, error)
	append  func(ctx context.Context, spot domain.Spot) error
}

func (m *mockSpotRepo) LoadAll(ctx context.Context) ([]domain.Spot, error) {
	return m.loadAll(ctx)
}
func (m *mockSpotRepo) Append(ctx context.Context, spot domain.Spot) error {
	return m.append(ctx, spot)
}

// compile-time check: mockSpotRepo must satisfy repo.SpotRepo.
var _ repo.SpotRepo = (*mockSpotRepo)(nil)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fixedIDs struct{ id string }

func (g fixedIDs) NewID() (string, error) { return g.id, nil }

type failingIDs struct{}

func (failingIDs) NewID() (string, error) { return "", errors.New("entropy exhausted") }

// recordingRepo keeps appended spots in memory.
type recordingRepo struct {
	mu    sync.Mutex
	spots []domain.Spot
}

func (r *recordingRepo) LoadAll(context.Context) ([]domain.Spot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Spot(nil), r.spots...), nil
}

func (r *recordingRepo) Append(_ context.Context, s domain.Spot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spots = append(r.spots, s)
	return nil
}

// ---- Create tests ----------------------------------------------------------

func TestSpotService_Create_Valid(t *testing.T) {
	store := &recordingRepo{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := service.NewSpotService(store,
		service.WithClock(fixedClock{now: now}),
		service.WithIDGenerator(fixedIDs{id: "s_fixed"}),
	)

	in := validInput()
	in.Name = "  Taco Stand  "
	got, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "s_fixed", got.ID)
	assert.Equal(t, "Taco Stand", got.Name)
	assert.Equal(t, now, got.CreatedAt)
	require.Len(t, store.spots, 1)
	assert.Equal(t, got, store.spots[0])
}

func TestSpotService_Create_TruncatesCreatedAtToMicroseconds(t *testing.T) {
	store := &recordingRepo{}
	svc := service.NewSpotService(store,
		service.WithClock(fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 123456789, time.UTC)}),
	)

	got, err := svc.Create(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, 123456000, got.CreatedAt.Nanosecond())
	assert.Equal(t, time.UTC, got.CreatedAt.Location())
	require.Len(t, store.spots, 1)
	assert.True(t, store.spots[0].CreatedAt.Equal(got.CreatedAt))
}

func TestSpotService_Create_DefaultIDIsPrefixedUUIDv7(t *testing.T) {
	svc := service.NewSpotService(&recordingRepo{})

	got, err := svc.Create(context.Background(), validInput())

	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got.ID, service.SpotIDPrefix))
	parsed, err := uuid.Parse(strings.TrimPrefix(got.ID, service.SpotIDPrefix))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.Equal(t, time.UTC, got.CreatedAt.Location())
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSpotService_Create_InvalidDoesNotTouchRepo(t *testing.T) {
	svc := service.NewSpotService(&mockSpotRepo{
		append: func(context.Context, domain.Spot) error {
			t.Fatal("Append must not be called for invalid input")
			return nil
		},
	})

	in := validInput()
	in.Cuisine = strings.Repeat("x", domain.MaxCuisineLen+1)
	_, err := svc.Create(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSpotService_Create_RepoError(t *testing.T) {
	svc := service.NewSpotService(&mockSpotRepo{
		append: func(context.Context, domain.Spot) error { return errors.New("disk full") },
	})

	_, err := svc.Create(context.Background(), validInput())

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "disk full")
}

func TestSpotService_Create_IDError(t *testing.T) {
	svc := service.NewSpotService(&recordingRepo{}, service.WithIDGenerator(failingIDs{}))

	_, err := svc.Create(context.Background(), validInput())

	assert.ErrorContains(t, err, "entropy exhausted")
}

func TestSpotService_Create_ConcurrentIDsAreUnique(t *testing.T) {
	store := &recordingRepo{}
	svc := service.NewSpotService(store)

	const n = 50
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), validInput())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ids := make(map[string]struct{}, n)
	for _, s := range store.spots {
		ids[s.ID] = struct{}{}
	}
	assert.Len(t, ids, n)
}

// ---- List tests ------------------------------------------------------------

func TestSpotService_List_NilBecomesEmpty(t *testing.T) {
	svc := service.NewSpotService(&mockSpotRepo{
		loadAll: func(context.Context) ([]domain.Spot, error) { return nil, nil },
	})

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSpotService_List_Error(t *testing.T) {
	svc := service.NewSpotService(&mockSpotRepo{
		loadAll: func(context.Context) ([]domain.Spot, error) { return nil, errors.New("permission denied") },
	})

	_, err := svc.List(context.Background())

	assert.ErrorContains(t, err, "service.SpotService.List")
}
