package service

import (
	"context"

	"github.com/Rrens/ai-debate/internal/debate"
	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockMenuRepository mocks the MenuRepository interface
type MockMenuRepository struct {
	mock.Mock
}

func (m *MockMenuRepository) ListActive(ctx context.Context) ([]domain.Menu, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Menu), args.Error(1)
}

func (m *MockMenuRepository) ListAll(ctx context.Context) ([]domain.Menu, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Menu), args.Error(1)
}

func (m *MockMenuRepository) Get(ctx context.Context, id int64) (*domain.Menu, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Menu), args.Error(1)
}

func (m *MockMenuRepository) Create(ctx context.Context, menu *domain.Menu) error {
	args := m.Called(ctx, menu)
	return args.Error(0)
}

func (m *MockMenuRepository) Update(ctx context.Context, menu *domain.Menu) error {
	args := m.Called(ctx, menu)
	return args.Error(0)
}

func (m *MockMenuRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMenuRepository) UpdateOrder(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockMenuRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockArchive mocks the DebateArchive interface
type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) Save(ctx context.Context, record *domain.DebateRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockArchive) Get(ctx context.Context, sessionID string) (*domain.DebateRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebateRecord), args.Error(1)
}

func (m *MockArchive) Recent(ctx context.Context, limit int) ([]*domain.DebateRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DebateRecord), args.Error(1)
}

// MockStarter mocks the BackgroundStarter interface
type MockStarter struct {
	mock.Mock
}

func (m *MockStarter) Start(t debate.Ticket) error {
	args := m.Called(t)
	return args.Error(0)
}

// MockSyncRunner mocks the SyncRunner interface
type MockSyncRunner struct {
	mock.Mock
}

func (m *MockSyncRunner) Run(ctx context.Context, t debate.Ticket) (*domain.DebateRecord, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebateRecord), args.Error(1)
}
