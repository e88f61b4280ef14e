package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"hack-adventure/internal/interfaces"
	"hack-adventure/internal/models"
)

const (
	loadProfileQuery = `
        SELECT document, revision, created_at, updated_at
        FROM player_profiles
        WHERE player_id = $1
    `
	insertProfileQuery = `
        INSERT INTO player_profiles (player_id, document, score, badges, revision, created_at, updated_at)
        VALUES ($1, $2, $3, $4, 1, $5, $5)
        ON CONFLICT (player_id) DO NOTHING
    `
	// Обновление проходит только если ревизия не изменилась с момента чтения.
	updateProfileQuery = `
        UPDATE player_profiles SET
            document = $2, score = $3, badges = $4, revision = revision + 1, updated_at = $5
        WHERE player_id = $1 AND revision = $6
    `
	topScoresQuery = `
        SELECT ROW_NUMBER() OVER (ORDER BY score DESC, player_id) AS rank, player_id, score
        FROM player_profiles
        ORDER BY score DESC, player_id
        LIMIT $1
    `
	badgeStatsQuery = `
        SELECT badge, COUNT(*) AS players
        FROM player_profiles, unnest(badges) AS badge
        GROUP BY badge
        ORDER BY players DESC, badge
    `
)

var _ interfaces.ProfileRepository = (*pgProfileRepository)(nil)

type pgProfileRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

type profileRow struct {
	Document  []byte    `db:"document"`
	Revision  int64     `db:"revision"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewPgProfileRepository создает репозиторий профилей поверх PostgreSQL.
func NewPgProfileRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.ProfileRepository {
	return &pgProfileRepository{
		db:     db,
		logger: logger.Named("PgProfileRepo"),
	}
}

func (r *pgProfileRepository) Load(ctx context.Context, playerID string) (*models.PlayerProfile, error) {
	if strings.TrimSpace(playerID) == "" {
		return nil, models.ErrInvalidPlayerID
	}
	log := r.logger.With(zap.String("playerID", playerID))

	var row profileRow
	err := pgxscan.Get(ctx, r.db, &row, loadProfileQuery, playerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug("Profile not found, starting a new one")
			return models.NewPlayerProfile(playerID), nil
		}
		log.Error("Failed to load profile", zap.Error(err))
		return nil, fmt.Errorf("failed to load profile %s: %w", playerID, err)
	}

	profile, skipped, err := models.DecodeProfile(row.Document)
	if err != nil {
		// Документ не читается целиком: начинаем с чистого профиля,
		// ревизия сохраняется, чтобы следующая запись прошла.
		log.Warn("Corrupted profile document, using defaults", zap.Error(err))
		profile = &models.PlayerProfile{}
	} else if len(skipped) > 0 {
		log.Warn("Malformed profile fields reset to defaults", zap.Strings("fields", skipped))
	}
	profile.PlayerID = playerID
	profile.Revision = row.Revision
	profile.CreatedAt = row.CreatedAt
	profile.UpdatedAt = row.UpdatedAt
	profile.Normalize()
	return profile, nil
}

func (r *pgProfileRepository) Save(ctx context.Context, profile *models.PlayerProfile) error {
	if profile == nil || strings.TrimSpace(profile.PlayerID) == "" {
		return models.ErrInvalidPlayerID
	}
	logFields := []zap.Field{zap.String("playerID", profile.PlayerID), zap.Int64("revision", profile.Revision)}

	now := time.Now().UTC()
	next := *profile
	next.Revision = profile.Revision + 1
	next.UpdatedAt = now
	if next.CreatedAt.IsZero() {
		next.CreatedAt = now
	}
	document, err := json.Marshal(&next)
	if err != nil {
		r.logger.Error("Failed to marshal profile", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to marshal profile %s: %w", profile.PlayerID, err)
	}
	badges := pq.Array(profile.Badges.List())

	var rows int64
	if profile.Revision == 0 {
		tag, err := r.db.Exec(ctx, insertProfileQuery, profile.PlayerID, document, profile.Score, badges, now)
		if err != nil {
			r.logger.Error("Failed to insert profile", append(logFields, zap.Error(err))...)
			return fmt.Errorf("failed to insert profile %s: %w", profile.PlayerID, err)
		}
		rows = tag.RowsAffected()
	} else {
		tag, err := r.db.Exec(ctx, updateProfileQuery, profile.PlayerID, document, profile.Score, badges, now, profile.Revision)
		if err != nil {
			r.logger.Error("Failed to update profile", append(logFields, zap.Error(err))...)
			return fmt.Errorf("failed to update profile %s: %w", profile.PlayerID, err)
		}
		rows = tag.RowsAffected()
	}

	if rows == 0 {
		r.logger.Warn("Profile revision conflict", logFields...)
		return fmt.Errorf("%w: player %s revision %d", models.ErrRevisionConflict, profile.PlayerID, profile.Revision)
	}

	profile.Revision = next.Revision
	profile.UpdatedAt = next.UpdatedAt
	profile.CreatedAt = next.CreatedAt
	r.logger.Debug("Profile saved", logFields...)
	return nil
}

func (r *pgProfileRepository) TopScores(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		return []models.LeaderboardEntry{}, nil
	}
	entries := make([]models.LeaderboardEntry, 0, limit)
	if err := pgxscan.Select(ctx, r.db, &entries, topScoresQuery, limit); err != nil {
		r.logger.Error("Failed to select top scores", zap.Int("limit", limit), zap.Error(err))
		return nil, fmt.Errorf("failed to select top scores: %w", err)
	}
	return entries, nil
}

func (r *pgProfileRepository) BadgeStats(ctx context.Context) ([]models.BadgeStat, error) {
	stats := []models.BadgeStat{}
	if err := pgxscan.Select(ctx, r.db, &stats, badgeStatsQuery); err != nil {
		r.logger.Error("Failed to select badge stats", zap.Error(err))
		return nil, fmt.Errorf("failed to select badge stats: %w", err)
	}
	return stats, nil
}
