package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hack-adventure/internal/interfaces"
	"hack-adventure/internal/models"
)

// ProfileRepository is a mock type for the ProfileRepository type
type ProfileRepository struct {
	mock.Mock
}

// Load provides a mock function with given fields: ctx, playerID
func (_m *ProfileRepository) Load(ctx context.Context, playerID string) (*models.PlayerProfile, error) {
	ret := _m.Called(ctx, playerID)

	var r0 *models.PlayerProfile
	if rf, ok := ret.Get(0).(func(context.Context, string) *models.PlayerProfile); ok {
		r0 = rf(ctx, playerID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.PlayerProfile)
	}

	return r0, ret.Error(1)
}

// Save provides a mock function with given fields: ctx, profile
func (_m *ProfileRepository) Save(ctx context.Context, profile *models.PlayerProfile) error {
	ret := _m.Called(ctx, profile)

	if rf, ok := ret.Get(0).(func(context.Context, *models.PlayerProfile) error); ok {
		return rf(ctx, profile)
	}
	return ret.Error(0)
}

// TopScores provides a mock function with given fields: ctx, limit
func (_m *ProfileRepository) TopScores(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	ret := _m.Called(ctx, limit)

	var r0 []models.LeaderboardEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.LeaderboardEntry)
	}
	return r0, ret.Error(1)
}

// BadgeStats provides a mock function with given fields: ctx
func (_m *ProfileRepository) BadgeStats(ctx context.Context) ([]models.BadgeStat, error) {
	ret := _m.Called(ctx)

	var r0 []models.BadgeStat
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.BadgeStat)
	}
	return r0, ret.Error(1)
}

// NewProfileRepository creates a new instance of ProfileRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewProfileRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProfileRepository {
	m := &ProfileRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ interfaces.ProfileRepository = (*ProfileRepository)(nil)
