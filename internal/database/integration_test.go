package database_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"hack-adventure/internal/database"
	"hack-adventure/internal/interfaces"
	"hack-adventure/internal/models"
	"hack-adventure/internal/testutil"
	"hack-adventure/pkg/migration"
)

type StorageIntegrationSuite struct {
	suite.Suite
	ctx         context.Context
	pgContainer *postgres.PostgresContainer
	rdContainer *tcredis.RedisContainer
	pool        *pgxpool.Pool
	redisClient *redis.Client
	profiles    interfaces.ProfileRepository
	leaderboard interfaces.Leaderboard
	logger      *zap.Logger
}

func (s *StorageIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = zap.NewNop()
	var err error

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start postgres container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err)
	s.pool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err)

	migrator := migration.NewMigrator(migration.Config{
		MigrationsFS:   database.MigrationsFS,
		MigrationsPath: database.MigrationsPath,
	}, s.pool)
	require.NoError(s.T(), migrator.Up())

	s.rdContainer, err = tcredis.Run(s.ctx,
		"docker.io/redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("* Ready to accept connections").
				WithOccurrence(1).
				WithStartupTimeout(1*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start redis container")

	host, err := s.rdContainer.Host(s.ctx)
	require.NoError(s.T(), err)
	port, err := s.rdContainer.MappedPort(s.ctx, "6379/tcp")
	require.NoError(s.T(), err)
	s.redisClient = redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	require.NoError(s.T(), s.redisClient.Ping(s.ctx).Err())

	s.profiles = database.NewPgProfileRepository(s.pool, s.logger)
	s.leaderboard = database.NewRedisLeaderboard(s.redisClient, s.logger)
}

func (s *StorageIntegrationSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.redisClient != nil {
		_ = s.redisClient.Close()
	}
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(s.ctx)
	}
	if s.rdContainer != nil {
		_ = s.rdContainer.Terminate(s.ctx)
	}
}

func (s *StorageIntegrationSuite) SetupTest() {
	require.NoError(s.T(), s.redisClient.FlushDB(s.ctx).Err())
	_, err := s.pool.Exec(s.ctx, "TRUNCATE TABLE player_profiles")
	require.NoError(s.T(), err)
}

func TestStorageIntegrationSuite(t *testing.T) {
	testutil.RequireDocker(t)
	suite.Run(t, new(StorageIntegrationSuite))
}

func (s *StorageIntegrationSuite) TestLoad_MissingProfileIsFresh() {
	p, err := s.profiles.Load(s.ctx, "ghost")
	s.Require().NoError(err)
	s.Equal("ghost", p.PlayerID)
	s.Zero(p.Revision)
	s.Zero(p.Score)
}

func (s *StorageIntegrationSuite) TestSaveAndLoad_RoundTrip() {
	p := models.NewPlayerProfile("neo")
	p.AddScore(20)
	p.GrantBadge("Contacté")
	p.EtapesCompleted["premier_contact"] = []string{"contact"}

	s.Require().NoError(s.profiles.Save(s.ctx, p))
	s.Equal(int64(1), p.Revision)

	loaded, err := s.profiles.Load(s.ctx, "neo")
	s.Require().NoError(err)
	s.Equal(20, loaded.Score)
	s.Equal([]string{"Contacté"}, loaded.Badges.List())
	s.Equal([]string{"contact"}, loaded.StepsFor("premier_contact"))
	s.Equal(int64(1), loaded.Revision)

	loaded.AddScore(5)
	s.Require().NoError(s.profiles.Save(s.ctx, loaded))
	s.Equal(int64(2), loaded.Revision)
}

func (s *StorageIntegrationSuite) TestSave_StaleRevisionConflicts() {
	p := models.NewPlayerProfile("trinity")
	s.Require().NoError(s.profiles.Save(s.ctx, p))

	first, err := s.profiles.Load(s.ctx, "trinity")
	s.Require().NoError(err)
	second, err := s.profiles.Load(s.ctx, "trinity")
	s.Require().NoError(err)

	first.AddScore(10)
	s.Require().NoError(s.profiles.Save(s.ctx, first))

	second.AddScore(30)
	err = s.profiles.Save(s.ctx, second)
	s.True(errors.Is(err, models.ErrRevisionConflict))

	// Двойная вставка нового профиля тоже конфликт.
	err = s.profiles.Save(s.ctx, models.NewPlayerProfile("trinity"))
	s.ErrorIs(err, models.ErrRevisionConflict)
}

func (s *StorageIntegrationSuite) TestSave_ConcurrentWritersOneWins() {
	s.Require().NoError(s.profiles.Save(s.ctx, models.NewPlayerProfile("morpheus")))

	const writers = 5
	var wg sync.WaitGroup
	results := make(chan error, writers)
	for i := 0; i < writers; i++ {
		p, err := s.profiles.Load(s.ctx, "morpheus")
		s.Require().NoError(err)
		wg.Add(1)
		go func(p *models.PlayerProfile) {
			defer wg.Done()
			p.AddScore(1)
			results <- s.profiles.Save(s.ctx, p)
		}(p)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, models.ErrRevisionConflict)
	}
	s.Equal(1, succeeded)
}

func (s *StorageIntegrationSuite) TestLoad_CorruptedDocumentUsesDefaults() {
	_, err := s.pool.Exec(s.ctx,
		`INSERT INTO player_profiles (player_id, document, revision) VALUES ($1, '"not an object"', 7)`, "broken")
	s.Require().NoError(err)

	p, err := s.profiles.Load(s.ctx, "broken")
	s.Require().NoError(err)
	s.Equal("broken", p.PlayerID)
	s.Equal(int64(7), p.Revision)
	s.Zero(p.Score)

	p.AddScore(1)
	s.NoError(s.profiles.Save(s.ctx, p))
}

func (s *StorageIntegrationSuite) TestTopScoresAndBadgeStats() {
	for id, score := range map[string]int{"a": 10, "b": 30, "c": 20} {
		p := models.NewPlayerProfile(id)
		p.AddScore(score)
		p.GrantBadge("Contacté")
		if id == "b" {
			p.GrantBadge("Hacker")
		}
		s.Require().NoError(s.profiles.Save(s.ctx, p))
	}

	top, err := s.profiles.TopScores(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal(models.LeaderboardEntry{Rank: 1, PlayerID: "b", Score: 30}, top[0])
	s.Equal("c", top[1].PlayerID)

	stats, err := s.profiles.BadgeStats(s.ctx)
	s.Require().NoError(err)
	s.Equal([]models.BadgeStat{{Badge: "Contacté", Players: 3}, {Badge: "Hacker", Players: 1}}, stats)
}

func (s *StorageIntegrationSuite) TestLeaderboard() {
	s.Require().NoError(s.leaderboard.Warm(s.ctx, []models.LeaderboardEntry{
		{PlayerID: "a", Score: 10},
		{PlayerID: "b", Score: 30},
	}))
	s.Require().NoError(s.leaderboard.Update(s.ctx, "c", 20))
	// Меньший счет не перетирает больший.
	s.Require().NoError(s.leaderboard.Update(s.ctx, "b", 5))

	top, err := s.leaderboard.Top(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal([]models.LeaderboardEntry{
		{Rank: 1, PlayerID: "b", Score: 30},
		{Rank: 2, PlayerID: "c", Score: 20},
		{Rank: 3, PlayerID: "a", Score: 10},
	}, top)

	rank, err := s.leaderboard.Rank(s.ctx, "c")
	s.Require().NoError(err)
	s.Equal(2, rank)

	_, err = s.leaderboard.Rank(s.ctx, "nobody")
	s.ErrorIs(err, models.ErrNotFound)
}
