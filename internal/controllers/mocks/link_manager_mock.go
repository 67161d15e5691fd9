package mocks

import (
	"context"

	"github.com/fsdevblog/linkboard/internal/models"
	"github.com/fsdevblog/linkboard/internal/repositories"
	"github.com/fsdevblog/linkboard/internal/services"
	"github.com/stretchr/testify/mock"
)

type LinkManagerMock struct {
	mock.Mock
}

func (m *LinkManagerMock) Create(
	ctx context.Context,
	params services.CreateLinkParams,
) (*models.Link, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Link), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *LinkManagerMock) Resolve(
	ctx context.Context,
	host, token string,
) (*services.RedirectTarget, error) {
	args := m.Called(ctx, host, token)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*services.RedirectTarget), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *LinkManagerMock) GetByID(ctx context.Context, id uint) (*models.Link, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Link), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *LinkManagerMock) CheckTokenAvailable(
	ctx context.Context,
	domainID uint,
	token string,
) (bool, error) {
	args := m.Called(ctx, domainID, token)
	return args.Bool(0), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *LinkManagerMock) Update(
	ctx context.Context,
	params services.UpdateLinkParams,
) (*models.Link, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Link), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *LinkManagerMock) Archive(
	ctx context.Context,
	id uint,
	actorID *uint,
) (*models.Link, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Link), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *LinkManagerMock) Delete(
	ctx context.Context,
	id uint,
) (*repositories.DeleteLinkResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*repositories.DeleteLinkResult), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *LinkManagerMock) List(
	ctx context.Context,
	filter repositories.LinksFilter,
	page repositories.Pagination,
) ([]models.Link, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).([]models.Link), args.Error(1) //nolint:wrapcheck,errcheck
}
