package models

// CommandResult — результат выполнения одной команды обработчиком.
type CommandResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	AsciiArt string `json:"ascii_art,omitempty"`
	// ScoreGained — фактически начисленные очки.
	ScoreGained int `json:"score_gained"`
	// Badge заполняется только если бейдж был выдан этим вызовом.
	Badge          string `json:"badge,omitempty"`
	ProfileUpdated bool   `json:"profile_updated"`

	XPGained          int      `json:"xp_gained,omitempty"`
	LevelUp           bool     `json:"level_up,omitempty"`
	MissionsCompleted []string `json:"missions_completed,omitempty"`
	TutorialStep      *int     `json:"tutorial_step,omitempty"`
}
