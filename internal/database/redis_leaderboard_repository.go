package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hack-adventure/internal/interfaces"
	"hack-adventure/internal/models"
)

// LeaderboardKey — sorted set со счетом игроков.
const LeaderboardKey = "leaderboard:score"

var _ interfaces.Leaderboard = (*redisLeaderboard)(nil)

type redisLeaderboard struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisLeaderboard создает таблицу лидеров на sorted set Redis.
func NewRedisLeaderboard(client *redis.Client, logger *zap.Logger) interfaces.Leaderboard {
	return &redisLeaderboard{
		client: client,
		key:    LeaderboardKey,
		logger: logger.Named("RedisLeaderboard"),
	}
}

// Update записывает счет игрока. Счет не убывает, поэтому используется GT:
// запоздавшая запись меньшего счета не перетрет больший.
func (r *redisLeaderboard) Update(ctx context.Context, playerID string, score int) error {
	err := r.client.ZAddArgs(ctx, r.key, redis.ZAddArgs{
		GT:      true,
		Members: []redis.Z{{Score: float64(score), Member: playerID}},
	}).Err()
	if err != nil {
		r.logger.Error("Failed to update leaderboard", zap.String("playerID", playerID), zap.Error(err))
		return fmt.Errorf("failed to update leaderboard for %s: %w", playerID, err)
	}
	return nil
}

func (r *redisLeaderboard) Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		return []models.LeaderboardEntry{}, nil
	}
	members, err := r.client.ZRevRangeWithScores(ctx, r.key, 0, int64(limit-1)).Result()
	if err != nil {
		r.logger.Error("Failed to read leaderboard", zap.Int("limit", limit), zap.Error(err))
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(members))
	for i, m := range members {
		playerID, _ := m.Member.(string)
		entries = append(entries, models.LeaderboardEntry{
			Rank:     i + 1,
			PlayerID: playerID,
			Score:    int(m.Score),
		})
	}
	return entries, nil
}

func (r *redisLeaderboard) Rank(ctx context.Context, playerID string) (int, error) {
	rank, err := r.client.ZRevRank(ctx, r.key, playerID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, models.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to read leaderboard rank", zap.String("playerID", playerID), zap.Error(err))
		return 0, fmt.Errorf("failed to read rank for %s: %w", playerID, err)
	}
	return int(rank) + 1, nil
}

// Warm загружает счета из основного хранилища одним pipeline.
func (r *redisLeaderboard) Warm(ctx context.Context, entries []models.LeaderboardEntry) error {
	if len(entries) == 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	for _, e := range entries {
		pipe.ZAddArgs(ctx, r.key, redis.ZAddArgs{
			GT:      true,
			Members: []redis.Z{{Score: float64(e.Score), Member: e.PlayerID}},
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to warm leaderboard", zap.Int("entries", len(entries)), zap.Error(err))
		return fmt.Errorf("failed to warm leaderboard: %w", err)
	}
	r.logger.Info("Leaderboard warmed", zap.Int("entries", len(entries)))
	return nil
}
