package mocks

import (
	"context"

	"github.com/fsdevblog/linkboard/internal/models"
	"github.com/fsdevblog/linkboard/internal/repositories"
	"github.com/fsdevblog/linkboard/internal/services"
	"github.com/stretchr/testify/mock"
)

type DomainManagerMock struct {
	mock.Mock
}

func (m *DomainManagerMock) Create(
	ctx context.Context,
	params services.CreateDomainParams,
) (*models.Domain, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Domain), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *DomainManagerMock) GetByID(ctx context.Context, id uint) (*models.Domain, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Domain), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *DomainManagerMock) GetByHost(ctx context.Context, host string) (*models.Domain, error) {
	args := m.Called(ctx, host)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Domain), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *DomainManagerMock) CheckDuplicateURI(ctx context.Context, uri string) (bool, error) {
	args := m.Called(ctx, uri)
	return args.Bool(0), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *DomainManagerMock) Update(
	ctx context.Context,
	params services.UpdateDomainParams,
) (*models.Domain, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Domain), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *DomainManagerMock) VerifyDNS(ctx context.Context, host string) (*models.Domain, error) {
	args := m.Called(ctx, host)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Domain), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *DomainManagerMock) Archive(
	ctx context.Context,
	id uint,
	actorID *uint,
) (*models.Domain, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Domain), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *DomainManagerMock) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0) //nolint:wrapcheck,errcheck
}

func (m *DomainManagerMock) List(
	ctx context.Context,
	filter repositories.DomainsFilter,
	page repositories.Pagination,
) ([]services.DomainSummary, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).([]services.DomainSummary), args.Error(1) //nolint:wrapcheck,errcheck
}
