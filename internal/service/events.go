package service

import (
	"context"

	"go.uber.org/zap"

	"hack-adventure/internal/models"
)

// profileSnapshot — состояние профиля до изменения, для вычисления событий.
type profileSnapshot struct {
	badges            models.Set
	missionsCompleted models.Set
	level             int
	tutorialCompleted bool
}

func snapshot(p *models.PlayerProfile) profileSnapshot {
	return profileSnapshot{
		badges:            p.Badges.Clone(),
		missionsCompleted: p.MissionsCompleted.Clone(),
		level:             p.Level,
		tutorialCompleted: p.TutorialCompleted,
	}
}

// progressEvents сравнивает профиль со снимком. Порядок событий повторяет
// порядок вставки в множества.
func progressEvents(p *models.PlayerProfile, command string, before profileSnapshot) []models.PlayerProgressEvent {
	var events []models.PlayerProgressEvent
	for _, badge := range p.Badges.List() {
		if before.badges.Has(badge) {
			continue
		}
		e := models.NewProgressEvent(models.EventBadgeGranted, p)
		e.Command = command
		e.Badge = badge
		events = append(events, e)
	}
	for _, missionID := range p.MissionsCompleted.List() {
		if before.missionsCompleted.Has(missionID) {
			continue
		}
		e := models.NewProgressEvent(models.EventMissionCompleted, p)
		e.Command = command
		e.MissionID = missionID
		events = append(events, e)
	}
	if p.Level > before.level {
		e := models.NewProgressEvent(models.EventLevelUp, p)
		e.Command = command
		e.Level = p.Level
		events = append(events, e)
	}
	if p.TutorialCompleted && !before.tutorialCompleted && !p.TutorialSkipped {
		e := models.NewProgressEvent(models.EventTutorialCompleted, p)
		e.Command = command
		events = append(events, e)
	}
	return events
}

// afterSave обновляет таблицу лидеров, метрики и публикует события.
// Ошибки здесь только логируются: профиль уже сохранен.
func (s *GameService) afterSave(ctx context.Context, p *models.PlayerProfile, command string, before profileSnapshot) {
	log := s.logger.With(zap.String("playerID", p.PlayerID))

	if s.leaderboard != nil {
		if err := s.leaderboard.Update(ctx, p.PlayerID, p.Score); err != nil {
			log.Warn("Failed to update leaderboard", zap.Error(err))
		}
	}

	for _, e := range progressEvents(p, command, before) {
		switch e.Type {
		case models.EventBadgeGranted:
			s.metrics.badgesGranted.WithLabelValues(e.Badge).Inc()
		case models.EventMissionCompleted:
			s.metrics.missionsCompleted.WithLabelValues(e.MissionID).Inc()
		}
		if s.publisher == nil {
			continue
		}
		if err := s.publisher.PublishProgress(ctx, e); err != nil {
			log.Warn("Failed to publish progress event", zap.String("type", string(e.Type)), zap.Error(err))
		}
	}
}
