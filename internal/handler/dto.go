package handler

// commandRequest — команда, введенная в терминале.
type commandRequest struct {
	Command string   `json:"command" binding:"required"`
	Args    []string `json:"args"`
}

type missionStepRequest struct {
	Step string `json:"step" binding:"required"`
}

type profileResponse struct {
	PlayerID          string              `json:"player_id"`
	Score             int                 `json:"score"`
	XP                int                 `json:"xp"`
	Level             int                 `json:"level"`
	Badges            []string            `json:"badges"`
	SkillLevels       map[string]int      `json:"skill_levels"`
	MissionsCompleted []string            `json:"missions_completed"`
	ActiveMissions    []string            `json:"active_missions"`
	EtapesCompleted   map[string][]string `json:"etapes_completed"`
	TutorialStep      *int                `json:"tutorial_step"`
	TutorialCompleted bool                `json:"tutorial_completed"`
	ObjetsSymboliques []string            `json:"objets_symboliques"`
	Personnalite      string              `json:"personnalite"`
}

type asciiResponse struct {
	Name string `json:"name"`
	Art  string `json:"art"`
}
