package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hack-adventure/internal/commands"
	"hack-adventure/internal/content"
	"hack-adventure/internal/interfaces"
	"hack-adventure/internal/interfaces/mocks"
	"hack-adventure/internal/models"
	"hack-adventure/internal/personality"
	"hack-adventure/internal/progression"
)

// memoryProfiles — хранилище профилей в памяти с проверкой ревизий.
type memoryProfiles struct {
	mu    sync.Mutex
	docs  map[string][]byte
	saves int
}

func newMemoryProfiles() *memoryProfiles {
	return &memoryProfiles{docs: make(map[string][]byte)}
}

func (m *memoryProfiles) Load(_ context.Context, playerID string) (*models.PlayerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[playerID]
	if !ok {
		return models.NewPlayerProfile(playerID), nil
	}
	p := &models.PlayerProfile{}
	if err := json.Unmarshal(doc, p); err != nil {
		return nil, err
	}
	p.Normalize()
	return p, nil
}

func (m *memoryProfiles) Save(_ context.Context, p *models.PlayerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stored int64
	if doc, ok := m.docs[p.PlayerID]; ok {
		var current models.PlayerProfile
		if err := json.Unmarshal(doc, &current); err != nil {
			return err
		}
		stored = current.Revision
	}
	if stored != p.Revision {
		return models.ErrRevisionConflict
	}
	p.Revision++
	doc, err := json.Marshal(p)
	if err != nil {
		return err
	}
	m.docs[p.PlayerID] = doc
	m.saves++
	return nil
}

func (m *memoryProfiles) TopScores(context.Context, int) ([]models.LeaderboardEntry, error) {
	return []models.LeaderboardEntry{}, nil
}

func (m *memoryProfiles) BadgeStats(context.Context) ([]models.BadgeStat, error) {
	return []models.BadgeStat{}, nil
}

func newTestService(t *testing.T, profiles interfaces.ProfileRepository, opts ...func(*Deps)) *GameService {
	t.Helper()
	catalog := content.Default(zap.NewNop())
	tutorial := progression.DefaultTutorial()
	classifier := personality.DefaultClassifier()
	deps := Deps{
		Profiles: profiles,
		Registry: commands.Builtin(commands.Deps{
			Missions:   catalog,
			Tutorial:   tutorial,
			Classifier: classifier,
		}),
		Catalog:    catalog,
		Tutorial:   tutorial,
		Classifier: classifier,
		Logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&deps)
	}
	return NewGameService(deps)
}

func TestExecute_LunaContactOnceAndTwice(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newMemoryProfiles())

	resp, err := svc.Execute(ctx, "p1", "luna_contact", nil)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 20, resp.ScoreGained)
	assert.Equal(t, "Contacté", resp.Badge)
	assert.Equal(t, 20, resp.Profile.Score)
	assert.Equal(t, []string{"Contacté"}, resp.Profile.Badges)
	assert.Equal(t, models.ArchetypeSocial, resp.Profile.Personnalite)

	resp, err = svc.Execute(ctx, "p1", "luna_contact", nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Badge)
	assert.Equal(t, 40, resp.Profile.Score)
	assert.Equal(t, []string{"Contacté"}, resp.Profile.Badges)
}

func TestExecute_UnknownCommandIsNotSaved(t *testing.T) {
	profiles := mocks.NewProfileRepository(t)
	stored := models.NewPlayerProfile("p1")
	stored.AddScore(15)
	stored.Revision = 3
	profiles.On("Load", mock.Anything, "p1").Return(stored, nil).Once()

	svc := newTestService(t, profiles)
	resp, err := svc.Execute(context.Background(), "p1", "zzzz_invalid", nil)

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.False(t, resp.ProfileUpdated)
	assert.Contains(t, resp.Message, "help")
	assert.Equal(t, 15, resp.Profile.Score)
	profiles.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestExecute_InvalidInput(t *testing.T) {
	svc := newTestService(t, newMemoryProfiles())

	_, err := svc.Execute(context.Background(), "  ", "help", nil)
	assert.ErrorIs(t, err, models.ErrInvalidPlayerID)

	_, err = svc.Execute(context.Background(), "p1", "   ", nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestExecute_MissionThroughCommandsInAnyOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newMemoryProfiles())

	resp, err := svc.Execute(ctx, "p1", "mission_start premier_contact", nil)
	require.NoError(t, err)
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, []string{"premier_contact"}, resp.Profile.ActiveMissions)

	// Последний шаг миссии первым: награда команды и награда шага.
	resp, err = svc.Execute(ctx, "p1", "trace_signal", nil)
	require.NoError(t, err)
	assert.Equal(t, 15+15, resp.ScoreGained)

	resp, err = svc.Execute(ctx, "p1", "luna_contact", nil)
	require.NoError(t, err)
	assert.Equal(t, 20+10, resp.ScoreGained)
	assert.Empty(t, resp.MissionsCompleted)

	resp, err = svc.Execute(ctx, "p1", "scan_network", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"premier_contact"}, resp.MissionsCompleted)
	assert.Equal(t, 10+10+50, resp.ScoreGained)
	assert.Empty(t, resp.Profile.ActiveMissions)
	assert.Contains(t, resp.Profile.Badges, "Allié de Luna")
	assert.Equal(t, 130, resp.Profile.Score)

	resp, err = svc.Execute(ctx, "p1", "trace_signal", nil)
	require.NoError(t, err)
	assert.Equal(t, 15, resp.ScoreGained)
	assert.Empty(t, resp.MissionsCompleted)

	p, err := svc.GetProfile(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.ObjetsSymboliques.Has("cle_de_luna"))
	assert.Equal(t, []string{"trace", "contact", "scan"}, p.StepsFor("premier_contact"))
	assert.Equal(t, 1, p.MissionsCompleted.Len())
}

func TestSubmitMissionStep_AnyOrderCompletesOnce(t *testing.T) {
	ctx := context.Background()
	profiles := newMemoryProfiles()
	svc := newTestService(t, profiles)

	for _, step := range []string{"exploit", "logs", "decrypt"} {
		resp, err := svc.SubmitMissionStep(ctx, "p1", "code_source", step)
		require.NoError(t, err)
		assert.True(t, resp.Success, step)
	}

	p, err := svc.GetProfile(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.MissionsCompleted.Has("code_source"))
	assert.Equal(t, 20+15+15+80, p.Score)
	savesBefore := profiles.saves

	resp, err := svc.SubmitMissionStep(ctx, "p1", "code_source", "logs")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.False(t, resp.ProfileUpdated)
	assert.Zero(t, resp.ScoreGained)
	assert.Equal(t, savesBefore, profiles.saves)
}

func TestSubmitMissionStep_Errors(t *testing.T) {
	svc := newTestService(t, newMemoryProfiles())

	_, err := svc.SubmitMissionStep(context.Background(), "p1", "nope", "x")
	assert.ErrorIs(t, err, models.ErrMissionNotFound)

	_, err = svc.SubmitMissionStep(context.Background(), "p1", "code_source", "nope")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	resp, err := svc.SubmitMissionStep(context.Background(), "p1", "infiltration", "bypass")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "premier_contact")
}

func TestExecute_TutorialRun(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newMemoryProfiles())

	resp, err := svc.Execute(ctx, "p1", "tutorial_start", nil)
	require.NoError(t, err)
	require.NotNil(t, resp.Profile.TutorialStep)

	var last *models.CommandResponse
	for _, cmd := range []string{"help", "luna_contact", "scan_network", "hack_system"} {
		last, err = svc.Execute(ctx, "p1", cmd, nil)
		require.NoError(t, err)
	}

	assert.Nil(t, last.Profile.TutorialStep)
	assert.Contains(t, last.Profile.Badges, "Initié")
	assert.Equal(t, 5+25+15+35, last.Profile.Score)

	p, err := svc.GetProfile(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.TutorialCompleted)
}

func TestExecute_RetriesOnRevisionConflict(t *testing.T) {
	profiles := mocks.NewProfileRepository(t)
	profiles.On("Load", mock.Anything, "p1").
		Return(func(context.Context, string) *models.PlayerProfile { return models.NewPlayerProfile("p1") }, nil).
		Twice()
	profiles.On("Save", mock.Anything, mock.Anything).Return(models.ErrRevisionConflict).Once()
	profiles.On("Save", mock.Anything, mock.MatchedBy(func(p *models.PlayerProfile) bool {
		return p.Score == 20 && p.Badges.Has("Contacté")
	})).Return(nil).Once()

	svc := newTestService(t, profiles)
	resp, err := svc.Execute(context.Background(), "p1", "luna_contact", nil)

	require.NoError(t, err)
	assert.Equal(t, 20, resp.Profile.Score)
}

func TestExecute_GivesUpAfterRepeatedConflicts(t *testing.T) {
	profiles := mocks.NewProfileRepository(t)
	profiles.On("Load", mock.Anything, "p1").
		Return(func(context.Context, string) *models.PlayerProfile { return models.NewPlayerProfile("p1") }, nil).
		Times(maxSaveAttempts)
	profiles.On("Save", mock.Anything, mock.Anything).Return(models.ErrRevisionConflict).Times(maxSaveAttempts)

	svc := newTestService(t, profiles)
	_, err := svc.Execute(context.Background(), "p1", "luna_contact", nil)

	assert.ErrorIs(t, err, ErrTooManyConflicts)
}

func TestExecute_StoreFailure(t *testing.T) {
	profiles := mocks.NewProfileRepository(t)
	profiles.On("Load", mock.Anything, "p1").Return(nil, errors.New("connection refused")).Once()

	svc := newTestService(t, profiles)
	_, err := svc.Execute(context.Background(), "p1", "luna_contact", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestExecute_SideEffects(t *testing.T) {
	leaderboard := mocks.NewLeaderboard(t)
	publisher := mocks.NewProgressPublisher(t)
	leaderboard.On("Update", mock.Anything, "p1", 20).Return(errors.New("redis down")).Once()
	publisher.On("PublishProgress", mock.Anything, mock.MatchedBy(func(e models.PlayerProgressEvent) bool {
		return e.Type == models.EventBadgeGranted && e.Badge == "Contacté" && e.Command == "luna_contact"
	})).Return(errors.New("broker down")).Once()

	svc := newTestService(t, newMemoryProfiles(), func(d *Deps) {
		d.Leaderboard = leaderboard
		d.Publisher = publisher
	})
	resp, err := svc.Execute(context.Background(), "p1", "luna_contact", nil)

	require.NoError(t, err, "side effect failures must not fail the command")
	assert.True(t, resp.Success)
}

func TestLeaderboard_FallsBackToDatabase(t *testing.T) {
	profiles := mocks.NewProfileRepository(t)
	leaderboard := mocks.NewLeaderboard(t)
	want := []models.LeaderboardEntry{{Rank: 1, PlayerID: "a", Score: 10}}
	leaderboard.On("Top", mock.Anything, DefaultLeaderboardLimit).Return(nil, errors.New("redis down")).Once()
	profiles.On("TopScores", mock.Anything, DefaultLeaderboardLimit).Return(want, nil).Once()

	svc := newTestService(t, profiles, func(d *Deps) { d.Leaderboard = leaderboard })
	got, err := svc.Leaderboard(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLeaderboard_UsesCacheAndClampsLimit(t *testing.T) {
	profiles := mocks.NewProfileRepository(t)
	leaderboard := mocks.NewLeaderboard(t)
	want := []models.LeaderboardEntry{{Rank: 1, PlayerID: "a", Score: 10}}
	leaderboard.On("Top", mock.Anything, MaxLeaderboardLimit).Return(want, nil).Once()

	svc := newTestService(t, profiles, func(d *Deps) { d.Leaderboard = leaderboard })
	got, err := svc.Leaderboard(context.Background(), 5000)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWarmLeaderboard(t *testing.T) {
	profiles := mocks.NewProfileRepository(t)
	leaderboard := mocks.NewLeaderboard(t)
	entries := []models.LeaderboardEntry{{Rank: 1, PlayerID: "a", Score: 10}}
	profiles.On("TopScores", mock.Anything, leaderboardWarmSize).Return(entries, nil).Once()
	leaderboard.On("Warm", mock.Anything, entries).Return(nil).Once()

	svc := newTestService(t, profiles, func(d *Deps) { d.Leaderboard = leaderboard })
	assert.NoError(t, svc.WarmLeaderboard(context.Background()))
}

func TestListMissionsAndAsciiArt(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newMemoryProfiles())

	_, err := svc.SubmitMissionStep(ctx, "p1", "premier_contact", "contact")
	require.NoError(t, err)

	views, err := svc.ListMissions(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, models.MissionInProgress, views[0].State)
	assert.Equal(t, []string{"contact"}, views[0].CompletedSteps)
	assert.Equal(t, models.MissionNotStarted, views[1].State)

	art, err := svc.AsciiArt("luna")
	require.NoError(t, err)
	assert.NotEmpty(t, art)

	_, err = svc.AsciiArt("missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProgressEvents(t *testing.T) {
	p := models.NewPlayerProfile("p1")
	before := snapshot(p)

	p.GrantBadge("Contacté")
	p.MissionsCompleted.Add("premier_contact")
	p.Level = 2
	p.TutorialCompleted = true

	events := progressEvents(p, "luna_contact", before)
	require.Len(t, events, 4)
	assert.Equal(t, models.EventBadgeGranted, events[0].Type)
	assert.Equal(t, models.EventMissionCompleted, events[1].Type)
	assert.Equal(t, "premier_contact", events[1].MissionID)
	assert.Equal(t, models.EventLevelUp, events[2].Type)
	assert.Equal(t, 2, events[2].Level)
	assert.Equal(t, models.EventTutorialCompleted, events[3].Type)

	assert.Empty(t, progressEvents(p, "help", snapshot(p)))
}

func TestExecute_TutorialSkipPublishesNoCompletionEvent(t *testing.T) {
	ctx := context.Background()
	// Мок без ожиданий: любой вызов PublishProgress провалит тест.
	publisher := mocks.NewProgressPublisher(t)
	svc := newTestService(t, newMemoryProfiles(), func(d *Deps) { d.Publisher = publisher })

	resp, err := svc.Execute(ctx, "p1", "tutorial_start", nil)
	require.NoError(t, err)
	require.True(t, resp.Success)

	resp, err = svc.Execute(ctx, "p1", "tutorial_skip", nil)
	require.NoError(t, err)
	require.True(t, resp.Success)

	p, err := svc.GetProfile(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.TutorialCompleted)
	assert.True(t, p.TutorialSkipped)
}
