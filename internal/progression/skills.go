package progression

import (
	"math"

	"hack-adventure/internal/models"
)

// Навыки, к которым привязаны команды.
const (
	SkillNetwork = "reseau"
	SkillCrypto  = "crypto"
	SkillSocial  = "social"
	SkillCode    = "code"
)

// xpPerLevel задает кривую: уровень n достигается при 50*(n-1)^2 XP.
const xpPerLevel = 50

// LevelForXP — монотонная функция накопленного опыта.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	return 1 + int(math.Sqrt(float64(xp)/xpPerLevel))
}

// AddXP начисляет опыт игроку и навыку. Опыт только растет.
// Возвращает true, если вырос общий уровень.
func AddXP(p *models.PlayerProfile, skill string, amount int) bool {
	if amount <= 0 {
		return false
	}
	before := p.Level
	p.XP += amount
	if skill != "" {
		if p.SkillXP == nil {
			p.SkillXP = make(map[string]int)
		}
		p.SkillXP[skill] += amount
	}
	SyncLevels(p)
	return p.Level > before
}

// SyncLevels пересчитывает уровни из опыта (после загрузки документа).
func SyncLevels(p *models.PlayerProfile) {
	p.Level = LevelForXP(p.XP)
	if p.SkillLevels == nil {
		p.SkillLevels = make(map[string]int)
	}
	for skill, xp := range p.SkillXP {
		p.SkillLevels[skill] = LevelForXP(xp)
	}
}
