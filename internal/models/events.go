package models

import (
	"time"

	"github.com/google/uuid"
)

// ProgressEventType — тип события прогресса игрока.
type ProgressEventType string

const (
	EventBadgeGranted      ProgressEventType = "badge_granted"
	EventMissionCompleted  ProgressEventType = "mission_completed"
	EventLevelUp           ProgressEventType = "level_up"
	EventTutorialCompleted ProgressEventType = "tutorial_completed"
)

// PlayerProgressEvent публикуется в очередь после успешного сохранения профиля.
type PlayerProgressEvent struct {
	EventID    uuid.UUID         `json:"eventId"`
	Type       ProgressEventType `json:"type"`
	PlayerID   string            `json:"playerId"`
	Command    string            `json:"command,omitempty"`
	Badge      string            `json:"badge,omitempty"`
	MissionID  string            `json:"missionId,omitempty"`
	Level      int               `json:"level,omitempty"`
	Score      int               `json:"score"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// NewProgressEvent заполняет идентификатор и время события.
func NewProgressEvent(eventType ProgressEventType, p *PlayerProfile) PlayerProgressEvent {
	return PlayerProgressEvent{
		EventID:    uuid.New(),
		Type:       eventType,
		PlayerID:   p.PlayerID,
		Score:      p.Score,
		OccurredAt: time.Now().UTC(),
	}
}
