package progression

import (
	"errors"
	"fmt"

	"hack-adventure/internal/models"
)

// ErrMissionLocked возвращается, если не выполнены обязательные предыдущие миссии.
var ErrMissionLocked = errors.New("mission prerequisites are not completed")

// StepOutcome описывает, что произошло при попытке записать шаг.
type StepOutcome struct {
	MissionID string
	StepID    string
	// Accepted == false означает no-op: ничего не записано и не начислено.
	Accepted         bool
	ScoreGained      int
	MissionCompleted bool
	Badge            string
	Object           string
}

// State вычисляет состояние миссии для игрока.
func State(p *models.PlayerProfile, m models.Mission) models.MissionState {
	switch {
	case p.MissionsCompleted.Has(m.ID):
		return models.MissionCompleted
	case len(p.StepsFor(m.ID)) > 0 || p.ActiveMissions.Has(m.ID):
		return models.MissionInProgress
	default:
		return models.MissionNotStarted
	}
}

// Unlocked проверяет, что все обязательные миссии завершены.
func Unlocked(p *models.PlayerProfile, m models.Mission) bool {
	for _, required := range m.Requires {
		if !p.MissionsCompleted.Has(required) {
			return false
		}
	}
	return true
}

// StartMission переводит миссию в активные. Повторный старт и старт
// завершенной миссии ничего не меняют (false, nil).
func StartMission(p *models.PlayerProfile, m models.Mission) (bool, error) {
	if p.MissionsCompleted.Has(m.ID) {
		return false, nil
	}
	if !Unlocked(p, m) {
		return false, fmt.Errorf("%w: %s requires %v", ErrMissionLocked, m.ID, m.Requires)
	}
	return p.ActiveMissions.Add(m.ID), nil
}

// NextStep возвращает первый незаписанный шаг миссии.
func NextStep(p *models.PlayerProfile, m models.Mission) (models.MissionStep, bool) {
	for _, step := range m.Steps {
		if !recorded(p, m.ID, step.ID) {
			return step, true
		}
	}
	return models.MissionStep{}, false
}

// RecordStep записывает шаг миссии. Шаг принимается, только если он
// принадлежит миссии, еще не записан, а миссия не завершена и открыта.
// Порядок шагов в миссии рекомендательный: шаги принимаются в любом порядке.
// Во всех остальных случаях это no-op без начислений.
// Когда записаны все шаги, миссия завершается ровно один раз.
func RecordStep(p *models.PlayerProfile, m models.Mission, stepID string) StepOutcome {
	out := StepOutcome{MissionID: m.ID, StepID: stepID}
	if p.MissionsCompleted.Has(m.ID) || !Unlocked(p, m) {
		return out
	}
	step, ok := m.Step(stepID)
	if !ok || recorded(p, m.ID, stepID) {
		return out
	}

	p.ActiveMissions.Add(m.ID)
	if p.EtapesCompleted == nil {
		p.EtapesCompleted = make(map[string][]string)
	}
	p.EtapesCompleted[m.ID] = append(p.EtapesCompleted[m.ID], stepID)
	out.Accepted = true
	out.ScoreGained += p.AddScore(step.Reward)

	if !coversAll(p, m) {
		return out
	}
	if !p.MissionsCompleted.Add(m.ID) {
		return out
	}
	p.ActiveMissions.Remove(m.ID)
	out.MissionCompleted = true
	out.ScoreGained += p.AddScore(m.Reward)
	if m.Badge != "" && p.GrantBadge(m.Badge) {
		out.Badge = m.Badge
	}
	if m.SymbolicObject != "" && p.ObjetsSymboliques.Add(m.SymbolicObject) {
		out.Object = m.SymbolicObject
	}
	return out
}

// ApplyCommand засчитывает выполненную команду как шаг во всех активных
// миссиях. В каждой миссии записывается не больше одного шага за команду.
func ApplyCommand(p *models.PlayerProfile, catalog map[string]models.Mission, command string) []StepOutcome {
	var outcomes []StepOutcome
	for _, missionID := range p.ActiveMissions.List() {
		m, ok := catalog[missionID]
		if !ok {
			continue
		}
		for _, step := range m.Steps {
			if step.Trigger != command || recorded(p, m.ID, step.ID) {
				continue
			}
			if out := RecordStep(p, m, step.ID); out.Accepted {
				outcomes = append(outcomes, out)
				break
			}
		}
	}
	return outcomes
}

func recorded(p *models.PlayerProfile, missionID, stepID string) bool {
	for _, id := range p.StepsFor(missionID) {
		if id == stepID {
			return true
		}
	}
	return false
}

func coversAll(p *models.PlayerProfile, m models.Mission) bool {
	for _, step := range m.Steps {
		if !recorded(p, m.ID, step.ID) {
			return false
		}
	}
	return true
}
