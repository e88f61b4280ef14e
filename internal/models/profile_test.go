package models_test

import (
	"encoding/json"
	"testing"

	"hack-adventure/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlayerProfile_Defaults(t *testing.T) {
	p := models.NewPlayerProfile("neo")

	assert.Equal(t, "neo", p.PlayerID)
	assert.Equal(t, 0, p.Score)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 0, p.Badges.Len())
	assert.NotNil(t, p.SkillXP)
	assert.NotNil(t, p.EtapesCompleted)
	assert.Nil(t, p.TutorialStep)
	assert.Equal(t, int64(0), p.Revision)
}

func TestPlayerProfile_NormalizeMalformedDocument(t *testing.T) {
	// Документ из старой версии игры: нет половины полей, дубликаты шагов.
	raw := `{
		"score": -5,
		"badges": ["Contacté", "Contacté"],
		"etapes_completed": {"premier_contact": ["contact", "contact", "scan"]},
		"missions_completed": ["premier_contact"],
		"active_missions": ["premier_contact", "infiltration"],
		"tutorial_step": -1
	}`
	var p models.PlayerProfile
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	p.Normalize()

	assert.Equal(t, 0, p.Score)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, []string{"Contacté"}, p.Badges.List())
	assert.Equal(t, []string{"contact", "scan"}, p.StepsFor("premier_contact"))
	assert.Equal(t, []string{"infiltration"}, p.ActiveMissions.List())
	assert.Nil(t, p.TutorialStep)
	assert.NotNil(t, p.SkillLevels)
}

func TestPlayerProfile_AddScoreNeverDecreases(t *testing.T) {
	p := models.NewPlayerProfile("neo")

	assert.Equal(t, 20, p.AddScore(20))
	assert.Equal(t, 0, p.AddScore(-50))
	assert.Equal(t, 0, p.AddScore(0))
	assert.Equal(t, 20, p.Score)
}

func TestPlayerProfile_RoundTripKeepsBadgeOrder(t *testing.T) {
	p := models.NewPlayerProfile("neo")
	p.GrantBadge("Scanner")
	p.GrantBadge("Contacté")

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var restored models.PlayerProfile
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, []string{"Scanner", "Contacté"}, restored.Badges.List())
}

func TestDecodeProfile_KeepsValidFieldsWhenOneIsMistyped(t *testing.T) {
	raw := `{
		"score": 480,
		"badges": ["Contacté", "Hacker"],
		"missions_completed": ["premier_contact"],
		"xp": 300,
		"tutorial_step": "2"
	}`

	p, skipped, err := models.DecodeProfile([]byte(raw))

	require.NoError(t, err)
	assert.Equal(t, []string{"tutorial_step"}, skipped)
	assert.Equal(t, 480, p.Score)
	assert.Equal(t, 300, p.XP)
	assert.Equal(t, []string{"Contacté", "Hacker"}, p.Badges.List())
	assert.True(t, p.MissionsCompleted.Has("premier_contact"))
	assert.Nil(t, p.TutorialStep)
}

func TestDecodeProfile_RejectsNonObjectDocument(t *testing.T) {
	_, _, err := models.DecodeProfile([]byte(`["not", "a", "profile"]`))
	assert.Error(t, err)
}
