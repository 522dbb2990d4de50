package application_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vulpemventures/custody/internal/core/domain"
	"github.com/vulpemventures/custody/internal/core/ports"
)

type mockRepoManager struct {
	mock.Mock
	repo *mockPayloadRepository
}

func newMockRepoManager() *mockRepoManager {
	return &mockRepoManager{repo: &mockPayloadRepository{}}
}

func (m *mockRepoManager) PayloadRepository() domain.PayloadRepository {
	return m.repo
}

func (m *mockRepoManager) RegisterHandlerForPayloadEvent(
	eventType domain.PayloadEventType, handler ports.PayloadEventHandler,
) {
	m.Called(eventType, handler)
}

func (m *mockRepoManager) Reset() {}

func (m *mockRepoManager) Close() {}

type mockPayloadRepository struct {
	mock.Mock
}

func (m *mockPayloadRepository) SavePayload(
	ctx context.Context, guid, payload string,
) error {
	args := m.Called(ctx, guid, payload)
	return args.Error(0)
}

func (m *mockPayloadRepository) GetPayload(
	ctx context.Context, guid string,
) (string, error) {
	args := m.Called(ctx, guid)
	return args.String(0), args.Error(1)
}

func (m *mockPayloadRepository) DeletePayload(
	ctx context.Context, guid string,
) error {
	args := m.Called(ctx, guid)
	return args.Error(0)
}

func (m *mockPayloadRepository) ListGuids(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var res []string
	if a := args.Get(0); a != nil {
		res = a.([]string)
	}
	return res, args.Error(1)
}
