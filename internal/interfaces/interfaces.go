package interfaces

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hack-adventure/internal/models"
)

// DBTX — общий интерфейс для *pgxpool.Pool и pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProfileRepository хранит документы профилей игроков.
//
//go:generate mockery --name ProfileRepository --output ./mocks --outpkg mocks --case=underscore
type ProfileRepository interface {
	// Load возвращает профиль игрока. Если профиля нет, возвращается новый
	// профиль с Revision == 0, а не ошибка.
	Load(ctx context.Context, playerID string) (*models.PlayerProfile, error)

	// Save записывает документ целиком. Revision профиля должна совпадать с
	// сохраненной, иначе возвращается models.ErrRevisionConflict.
	// При успехе Revision профиля увеличивается.
	Save(ctx context.Context, profile *models.PlayerProfile) error

	// TopScores возвращает лучших игроков по счету.
	TopScores(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)

	// BadgeStats возвращает число игроков по каждому бейджу.
	BadgeStats(ctx context.Context) ([]models.BadgeStat, error)
}

// Leaderboard — быстрая таблица лидеров (кеш поверх ProfileRepository).
//
//go:generate mockery --name Leaderboard --output ./mocks --outpkg mocks --case=underscore
type Leaderboard interface {
	Update(ctx context.Context, playerID string, score int) error
	Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	// Rank возвращает место игрока (с 1). models.ErrNotFound, если игрока нет.
	Rank(ctx context.Context, playerID string) (int, error)
	Warm(ctx context.Context, entries []models.LeaderboardEntry) error
}

// ProgressPublisher публикует события прогресса игрока.
//
//go:generate mockery --name ProgressPublisher --output ./mocks --outpkg mocks --case=underscore
type ProgressPublisher interface {
	PublishProgress(ctx context.Context, event models.PlayerProgressEvent) error
}
