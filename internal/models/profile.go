package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Archetype — тип личности игрока, вычисляется из бейджей и миссий.
type Archetype string

const (
	ArchetypeCreative   Archetype = "creatif"
	ArchetypeAnalytical Archetype = "analytique"
	ArchetypeSocial     Archetype = "social"
	ArchetypeBalanced   Archetype = "equilibre"
)

// PlayerProfile — единственная персистентная сущность игры.
// Документ целиком читается в начале запроса и целиком пишется в конце.
type PlayerProfile struct {
	PlayerID          string              `json:"player_id"`
	Score             int                 `json:"score"`
	Badges            Set                 `json:"badges"`
	XP                int                 `json:"xp"`
	Level             int                 `json:"level"`
	SkillXP           map[string]int      `json:"skill_xp"`
	SkillLevels       map[string]int      `json:"skill_levels"`
	MissionsCompleted Set                 `json:"missions_completed"`
	ActiveMissions    Set                 `json:"active_missions"`
	EtapesCompleted   map[string][]string `json:"etapes_completed"`
	TutorialStep      *int                `json:"tutorial_step"`
	TutorialCompleted bool                `json:"tutorial_completed"`
	TutorialSkipped   bool                `json:"tutorial_skipped"`
	ObjetsSymboliques Set                 `json:"objets_symboliques"`
	// Personnalite всегда пересчитывается сервисом, значение из документа игнорируется.
	Personnalite Archetype `json:"personnalite"`
	Revision     int64     `json:"revision"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewPlayerProfile создает профиль нового игрока с нулевыми значениями.
func NewPlayerProfile(playerID string) *PlayerProfile {
	p := &PlayerProfile{PlayerID: playerID}
	p.Normalize()
	return p
}

// Normalize заполняет отсутствующие поля значениями по умолчанию.
// Документ профиля не валидируется строго: битые поля чинятся, а не отвергаются.
func (p *PlayerProfile) Normalize() {
	if p.Score < 0 {
		p.Score = 0
	}
	if p.XP < 0 {
		p.XP = 0
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if p.SkillXP == nil {
		p.SkillXP = make(map[string]int)
	}
	if p.SkillLevels == nil {
		p.SkillLevels = make(map[string]int)
	}
	if p.EtapesCompleted == nil {
		p.EtapesCompleted = make(map[string][]string)
	}
	for missionID, steps := range p.EtapesCompleted {
		p.EtapesCompleted[missionID] = dedupe(steps)
	}
	// Завершенная миссия не может оставаться активной.
	for _, missionID := range p.ActiveMissions.List() {
		if p.MissionsCompleted.Has(missionID) {
			p.ActiveMissions.Remove(missionID)
		}
	}
	if p.TutorialStep != nil && (*p.TutorialStep < 0 || p.TutorialCompleted) {
		p.TutorialStep = nil
	}
}

// AddScore увеличивает счет. Отрицательные приращения игнорируются: счет не убывает.
func (p *PlayerProfile) AddScore(delta int) int {
	if delta <= 0 {
		return 0
	}
	p.Score += delta
	return delta
}

// GrantBadge добавляет бейдж, если его еще нет.
func (p *PlayerProfile) GrantBadge(badge string) bool {
	return p.Badges.Add(badge)
}

// StepsFor возвращает записанные шаги миссии.
func (p *PlayerProfile) StepsFor(missionID string) []string {
	return p.EtapesCompleted[missionID]
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item]; ok || item == "" {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// DecodeProfile разбирает документ профиля по полям. Поле с неверным типом
// пропускается и попадает в skipped, остальные поля сохраняются. Ошибка
// возвращается, только если документ не является JSON-объектом.
func DecodeProfile(data []byte) (p *PlayerProfile, skipped []string, err error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, nil, fmt.Errorf("profile document is not a JSON object: %w", err)
	}

	p = &PlayerProfile{}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		single, err := json.Marshal(map[string]json.RawMessage{key: fields[key]})
		if err != nil {
			skipped = append(skipped, key)
			continue
		}
		// Неудачный разбор может частично заполнить поле, поэтому сначала пробуем на копии.
		if err := json.Unmarshal(single, &PlayerProfile{}); err != nil {
			skipped = append(skipped, key)
			continue
		}
		_ = json.Unmarshal(single, p)
	}
	p.Normalize()
	return p, skipped, nil
}
