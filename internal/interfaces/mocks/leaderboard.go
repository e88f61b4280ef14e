package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hack-adventure/internal/interfaces"
	"hack-adventure/internal/models"
)

// Leaderboard is a mock type for the Leaderboard type
type Leaderboard struct {
	mock.Mock
}

func (_m *Leaderboard) Update(ctx context.Context, playerID string, score int) error {
	ret := _m.Called(ctx, playerID, score)
	return ret.Error(0)
}

func (_m *Leaderboard) Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	ret := _m.Called(ctx, limit)

	var r0 []models.LeaderboardEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.LeaderboardEntry)
	}
	return r0, ret.Error(1)
}

func (_m *Leaderboard) Rank(ctx context.Context, playerID string) (int, error) {
	ret := _m.Called(ctx, playerID)
	return ret.Int(0), ret.Error(1)
}

func (_m *Leaderboard) Warm(ctx context.Context, entries []models.LeaderboardEntry) error {
	ret := _m.Called(ctx, entries)
	return ret.Error(0)
}

// NewLeaderboard creates a new instance of Leaderboard. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewLeaderboard(t interface {
	mock.TestingT
	Cleanup(func())
}) *Leaderboard {
	m := &Leaderboard{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ interfaces.Leaderboard = (*Leaderboard)(nil)
