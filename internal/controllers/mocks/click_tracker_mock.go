package mocks

import (
	"context"

	"github.com/fsdevblog/linkboard/internal/services"
	"github.com/stretchr/testify/mock"
)

type ClickTrackerMock struct {
	mock.Mock
}

func (m *ClickTrackerMock) Track(visit services.Visit) {
	m.Called(visit)
}

func (m *ClickTrackerMock) Count(ctx context.Context, linkID uint) (int64, error) {
	args := m.Called(ctx, linkID)
	return args.Get(0).(int64), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *ClickTrackerMock) Summarize(
	ctx context.Context,
	linkID uint,
) (*services.LinkSummary, error) {
	args := m.Called(ctx, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*services.LinkSummary), args.Error(1) //nolint:wrapcheck,errcheck
}
