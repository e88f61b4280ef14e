package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hack-adventure/internal/interfaces"
	"hack-adventure/internal/models"
)

// ProgressPublisher is a mock type for the ProgressPublisher type
type ProgressPublisher struct {
	mock.Mock
}

func (_m *ProgressPublisher) PublishProgress(ctx context.Context, event models.PlayerProgressEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

// NewProgressPublisher creates a new instance of ProgressPublisher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewProgressPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProgressPublisher {
	m := &ProgressPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ interfaces.ProgressPublisher = (*ProgressPublisher)(nil)
