package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"hack-adventure/internal/commands"
	"hack-adventure/internal/content"
	"hack-adventure/internal/interfaces"
	"hack-adventure/internal/models"
	"hack-adventure/internal/personality"
	"hack-adventure/internal/progression"
)

const (
	// maxSaveAttempts — сколько раз повторяется цикл чтение-изменение-запись при конфликте ревизий.
	maxSaveAttempts = 3

	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
	leaderboardWarmSize     = 1000
)

// Deps — зависимости игрового сервиса. Leaderboard и Publisher опциональны.
type Deps struct {
	Profiles    interfaces.ProfileRepository
	Leaderboard interfaces.Leaderboard
	Publisher   interfaces.ProgressPublisher
	Registry    *commands.Registry
	Catalog     *content.Catalog
	Tutorial    progression.Tutorial
	Classifier  personality.Classifier
	Metrics     *Metrics
	Logger      *zap.Logger
}

// GameService выполняет команды игроков: загрузка профиля, диспетчеризация,
// прогрессия, сохранение с оптимистичной блокировкой, побочные эффекты.
type GameService struct {
	profiles    interfaces.ProfileRepository
	leaderboard interfaces.Leaderboard
	publisher   interfaces.ProgressPublisher
	registry    *commands.Registry
	catalog     *content.Catalog
	missions    map[string]models.Mission
	tutorial    progression.Tutorial
	classifier  personality.Classifier
	metrics     *Metrics
	logger      *zap.Logger
}

func NewGameService(deps Deps) *GameService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	catalog := deps.Catalog
	if catalog == nil {
		catalog = content.Empty()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &GameService{
		profiles:    deps.Profiles,
		leaderboard: deps.Leaderboard,
		publisher:   deps.Publisher,
		registry:    deps.Registry,
		catalog:     catalog,
		missions:    catalog.MissionMap(),
		tutorial:    deps.Tutorial,
		classifier:  deps.Classifier,
		metrics:     metrics,
		logger:      logger.Named("GameService"),
	}
}

// mutation изменяет профиль и сообщает, нужно ли его сохранять.
type mutation func(p *models.PlayerProfile) (save bool)

// Execute выполняет команду игрока. args == nil означает, что аргументы
// берутся из самой строки команды ("mission_start premier_contact").
func (s *GameService) Execute(ctx context.Context, playerID, command string, args []string) (*models.CommandResponse, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, models.ErrInvalidPlayerID
	}
	name, args := parseCommand(command, args)
	if name == "" {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidInput, ErrEmptyCommand)
	}
	log := s.logger.With(zap.String("playerID", playerID), zap.String("command", name))

	var result models.CommandResult
	var found bool
	p, err := s.withProfile(ctx, playerID, name, func(p *models.PlayerProfile) bool {
		result, found = s.registry.Dispatch(name, p, args)
		if !found {
			return false
		}
		if result.Success {
			s.applyProgression(p, name, &result)
		}
		return result.ProfileUpdated
	})
	if err != nil {
		s.metrics.command(metricCommandName(name, found), "error")
		log.Error("Command failed", zap.Error(err))
		return nil, err
	}

	switch {
	case !found:
		log.Info("Unknown command")
		s.metrics.command(metricCommandName(name, found), "unknown")
	case result.Success:
		s.metrics.command(name, "ok")
	default:
		s.metrics.command(name, "rejected")
	}
	return FormatResponse(name, result, p), nil
}

// SubmitMissionStep напрямую засчитывает шаг миссии. Повторная отправка
// шага или шаг завершенной миссии игнорируются без ошибки.
func (s *GameService) SubmitMissionStep(ctx context.Context, playerID, missionID, stepID string) (*models.CommandResponse, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, models.ErrInvalidPlayerID
	}
	m, ok := s.missions[missionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrMissionNotFound, missionID)
	}
	if _, ok := m.Step(stepID); !ok {
		return nil, fmt.Errorf("%w: %w: %s/%s", models.ErrInvalidInput, ErrUnknownStep, missionID, stepID)
	}

	var result models.CommandResult
	p, err := s.withProfile(ctx, playerID, "mission_step", func(p *models.PlayerProfile) bool {
		out := progression.RecordStep(p, m, stepID)
		result = stepResult(p, m, out)
		return out.Accepted
	})
	if err != nil {
		return nil, err
	}
	return FormatResponse("mission_step", result, p), nil
}

// GetProfile возвращает профиль с пересчитанными уровнями и личностью.
func (s *GameService) GetProfile(ctx context.Context, playerID string) (*models.PlayerProfile, error) {
	return s.loadProfile(ctx, playerID)
}

// ListMissions возвращает миссии каталога вместе с состоянием игрока.
func (s *GameService) ListMissions(ctx context.Context, playerID string) ([]models.MissionView, error) {
	p, err := s.loadProfile(ctx, playerID)
	if err != nil {
		return nil, err
	}
	missions := s.catalog.Missions()
	views := make([]models.MissionView, 0, len(missions))
	for _, m := range missions {
		views = append(views, models.MissionView{
			Mission:        m,
			State:          progression.State(p, m),
			CompletedSteps: append([]string{}, p.StepsFor(m.ID)...),
		})
	}
	return views, nil
}

// Leaderboard читает таблицу лидеров из Redis, при ошибке или пустом
// кеше из PostgreSQL.
func (s *GameService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultLeaderboardLimit
	case limit > MaxLeaderboardLimit:
		limit = MaxLeaderboardLimit
	}

	if s.leaderboard != nil {
		entries, err := s.leaderboard.Top(ctx, limit)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if err != nil {
			s.logger.Warn("Leaderboard cache unavailable, falling back to database", zap.Error(err))
		}
	}

	entries, err := s.profiles.TopScores(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	return entries, nil
}

func (s *GameService) BadgeStats(ctx context.Context) ([]models.BadgeStat, error) {
	stats, err := s.profiles.BadgeStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read badge stats: %w", err)
	}
	return stats, nil
}

// AsciiArt возвращает ASCII-арт по имени.
func (s *GameService) AsciiArt(name string) (string, error) {
	art, ok := s.catalog.AsciiArt(name)
	if !ok {
		return "", fmt.Errorf("%w: ascii art %s", models.ErrNotFound, name)
	}
	return art, nil
}

// WarmLeaderboard переносит лучшие счета из PostgreSQL в Redis при старте.
func (s *GameService) WarmLeaderboard(ctx context.Context) error {
	if s.leaderboard == nil {
		return nil
	}
	entries, err := s.profiles.TopScores(ctx, leaderboardWarmSize)
	if err != nil {
		return fmt.Errorf("failed to read scores for leaderboard warmup: %w", err)
	}
	return s.leaderboard.Warm(ctx, entries)
}

func (s *GameService) loadProfile(ctx context.Context, playerID string) (*models.PlayerProfile, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, models.ErrInvalidPlayerID
	}
	p, err := s.profiles.Load(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	progression.SyncLevels(p)
	p.Personnalite = s.classifier.ClassifyProfile(p)
	return p, nil
}

// withProfile выполняет цикл чтение-изменение-запись. При конфликте ревизий
// весь цикл повторяется на свежем профиле, чтобы не потерять чужую запись.
func (s *GameService) withProfile(ctx context.Context, playerID, command string, mutate mutation) (*models.PlayerProfile, error) {
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		p, err := s.loadProfile(ctx, playerID)
		if err != nil {
			return nil, err
		}
		before := snapshot(p)

		if !mutate(p) {
			p.Personnalite = s.classifier.ClassifyProfile(p)
			return p, nil
		}
		p.Personnalite = s.classifier.ClassifyProfile(p)

		err = s.profiles.Save(ctx, p)
		if errors.Is(err, models.ErrRevisionConflict) {
			s.metrics.saveConflicts.Inc()
			s.logger.Warn("Profile revision conflict, retrying",
				zap.String("playerID", playerID), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save profile: %w", err)
		}

		s.afterSave(ctx, p, command, before)
		return p, nil
	}
	return nil, fmt.Errorf("%w: player %s", ErrTooManyConflicts, playerID)
}

// applyProgression засчитывает команду в активных миссиях и в обучении.
func (s *GameService) applyProgression(p *models.PlayerProfile, command string, res *models.CommandResult) {
	for _, out := range progression.ApplyCommand(p, s.missions, command) {
		m := s.missions[out.MissionID]
		res.ProfileUpdated = true
		res.ScoreGained += out.ScoreGained
		step, _ := m.Step(out.StepID)
		res.Message += fmt.Sprintf("\n[%s] Étape validée : %s", m.Title, stepLabel(step))
		if out.MissionCompleted {
			res.MissionsCompleted = append(res.MissionsCompleted, m.ID)
			res.Message += fmt.Sprintf("\nMission accomplie : %s (+%d)", m.Title, m.Reward)
			if out.Object != "" {
				res.Message += fmt.Sprintf("\nObjet obtenu : %s", out.Object)
			}
		}
		if out.Badge != "" && res.Badge == "" {
			res.Badge = out.Badge
		}
	}

	tut := s.tutorial.Advance(p, command)
	if !tut.Advanced {
		return
	}
	res.ProfileUpdated = true
	res.ScoreGained += tut.ScoreGained
	if tut.Completed {
		res.Message += "\nTutoriel terminé. Tu es prêt."
		if tut.Badge != "" && res.Badge == "" {
			res.Badge = tut.Badge
		}
		return
	}
	if tut.Next != nil {
		res.Message += "\n" + tut.Next.Hint
	}
	if p.TutorialStep != nil {
		cursor := *p.TutorialStep
		res.TutorialStep = &cursor
	}
}

func stepResult(p *models.PlayerProfile, m models.Mission, out progression.StepOutcome) models.CommandResult {
	if !out.Accepted {
		msg := fmt.Sprintf("Étape '%s' ignorée.", out.StepID)
		switch {
		case p.MissionsCompleted.Has(m.ID):
			msg = fmt.Sprintf("Mission '%s' déjà terminée.", m.Title)
		case !progression.Unlocked(p, m):
			msg = fmt.Sprintf("Mission verrouillée. Termine d'abord : %s.", strings.Join(m.Requires, ", "))
		}
		return models.CommandResult{Success: false, Message: msg}
	}

	step, _ := m.Step(out.StepID)
	res := models.CommandResult{
		Success:        true,
		Message:        fmt.Sprintf("[%s] Étape validée : %s", m.Title, stepLabel(step)),
		ScoreGained:    out.ScoreGained,
		Badge:          out.Badge,
		ProfileUpdated: true,
	}
	if out.MissionCompleted {
		res.MissionsCompleted = []string{m.ID}
		res.Message += fmt.Sprintf("\nMission accomplie : %s (+%d)", m.Title, m.Reward)
	}
	return res
}

func stepLabel(step models.MissionStep) string {
	if step.Description != "" {
		return step.Description
	}
	return step.Trigger
}

// parseCommand отделяет имя команды от аргументов.
func parseCommand(command string, args []string) (string, []string) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", nil
	}
	if len(args) == 0 {
		return fields[0], fields[1:]
	}
	return fields[0], args
}

// metricCommandName не дает произвольному вводу раздувать кардинальность метрик.
func metricCommandName(name string, found bool) string {
	if !found {
		return "unknown"
	}
	return name
}
