package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"plantspace/internal/observability"
)

// PublisherMock is a testify mock of observability.Publisher, standing in
// for the AMQP notification pipeline in handler and relay tests.
type PublisherMock struct {
	mock.Mock
}

var _ observability.Publisher = (*PublisherMock)(nil)

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
