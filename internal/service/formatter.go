package service

import (
	"fmt"
	"strings"

	"hack-adventure/internal/models"
)

// FormatResponse собирает ответ фронтенду из результата команды и профиля.
func FormatResponse(command string, res models.CommandResult, p *models.PlayerProfile) *models.CommandResponse {
	var notes []string
	if res.Badge != "" {
		notes = append(notes, fmt.Sprintf("Nouveau badge : %s", res.Badge))
	}
	if res.LevelUp {
		notes = append(notes, fmt.Sprintf("Niveau %d atteint !", p.Level))
	}
	if len(notes) > 0 {
		res.Message = strings.TrimSpace(res.Message + "\n" + strings.Join(notes, "\n"))
	}
	if res.MissionsCompleted == nil {
		res.MissionsCompleted = []string{}
	}
	return &models.CommandResponse{
		Command:       command,
		CommandResult: res,
		Profile:       Summarize(p),
	}
}

// Summarize возвращает краткое состояние профиля для терминала.
func Summarize(p *models.PlayerProfile) models.ProfileSummary {
	var tutorialStep *int
	if p.TutorialStep != nil {
		step := *p.TutorialStep
		tutorialStep = &step
	}
	return models.ProfileSummary{
		PlayerID:          p.PlayerID,
		Score:             p.Score,
		Level:             p.Level,
		XP:                p.XP,
		Badges:            p.Badges.List(),
		MissionsCompleted: p.MissionsCompleted.List(),
		ActiveMissions:    p.ActiveMissions.List(),
		TutorialStep:      tutorialStep,
		Personnalite:      p.Personnalite,
	}
}
