package progression_test

import (
	"testing"

	"hack-adventure/internal/models"
	"hack-adventure/internal/progression"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP_Monotonic(t *testing.T) {
	assert.Equal(t, 1, progression.LevelForXP(0))
	assert.Equal(t, 1, progression.LevelForXP(-10))
	assert.Equal(t, 1, progression.LevelForXP(49))
	assert.Equal(t, 2, progression.LevelForXP(50))
	assert.Equal(t, 3, progression.LevelForXP(200))
	assert.Equal(t, 4, progression.LevelForXP(450))

	prev := progression.LevelForXP(0)
	for xp := 1; xp <= 5000; xp++ {
		level := progression.LevelForXP(xp)
		assert.GreaterOrEqual(t, level, prev, "xp=%d", xp)
		prev = level
	}
}

func TestAddXP(t *testing.T) {
	p := models.NewPlayerProfile("neo")

	assert.False(t, progression.AddXP(p, progression.SkillNetwork, 30))
	assert.True(t, progression.AddXP(p, progression.SkillNetwork, 20))
	assert.Equal(t, 50, p.XP)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 50, p.SkillXP[progression.SkillNetwork])
	assert.Equal(t, 2, p.SkillLevels[progression.SkillNetwork])

	// Отрицательный опыт не списывается.
	assert.False(t, progression.AddXP(p, progression.SkillNetwork, -100))
	assert.Equal(t, 50, p.XP)
}

func TestSyncLevels_RepairsStoredLevels(t *testing.T) {
	p := models.NewPlayerProfile("neo")
	p.XP = 200
	p.Level = 1
	p.SkillXP["crypto"] = 450

	progression.SyncLevels(p)

	assert.Equal(t, 3, p.Level)
	assert.Equal(t, 4, p.SkillLevels["crypto"])
}
