package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/volatiletech/null/v8"
	"plate-plan.backend/internal/domain/entities"
	"plate-plan.backend/internal/infrastructure/clients"
)

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *entities.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *mockProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *mockProfileRepo) Update(ctx context.Context, profile *entities.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *mockProfileRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ProfileStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockProfileRepo) UpdateLocation(ctx context.Context, id uuid.UUID, location string, lat, lng *float64) error {
	args := m.Called(ctx, id, location, lat, lng)
	return args.Error(0)
}

func (m *mockProfileRepo) SaveMealPlan(ctx context.Context, id uuid.UUID, plan *entities.MealPlan) error {
	args := m.Called(ctx, id, plan)
	return args.Error(0)
}

func (m *mockProfileRepo) SaveScrapedData(ctx context.Context, id uuid.UUID, data *entities.ScrapedData) error {
	args := m.Called(ctx, id, data)
	return args.Error(0)
}

func (m *mockProfileRepo) ResetStaleProcessing(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type fakePlanGenerator struct {
	plan string
	err  error
}

func (f *fakePlanGenerator) GeneratePlan(_ context.Context, _, _ map[string]interface{}, _ null.Float64) (string, error) {
	return f.plan, f.err
}

type fakeCartCreator struct {
	url   string
	err   error
	items []clients.LineItem
}

func (f *fakeCartCreator) CreateShoppingList(_ context.Context, _ string, items []clients.LineItem) (string, error) {
	f.items = items
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakePlacesSearcher struct {
	configured bool
	stores     []entities.Store
	err        error
}

func (f *fakePlacesSearcher) Configured() bool {
	return f.configured
}

func (f *fakePlacesSearcher) FindNearbyStores(_ context.Context, _, _ float64) ([]entities.Store, error) {
	return f.stores, f.err
}

type fakeStoreScraper struct {
	configured bool
	data       map[string]interface{}
	err        error
	called     bool
	stores     []entities.Store
}

func (f *fakeStoreScraper) Configured() bool {
	return f.configured
}

func (f *fakeStoreScraper) Scrape(_ context.Context, _ uuid.UUID, stores []entities.Store) (map[string]interface{}, error) {
	f.called = true
	f.stores = stores
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}
