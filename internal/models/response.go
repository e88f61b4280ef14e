package models

// ProfileSummary — краткое состояние профиля, которое терминал показывает после каждой команды.
type ProfileSummary struct {
	PlayerID          string    `json:"player_id"`
	Score             int       `json:"score"`
	Level             int       `json:"level"`
	XP                int       `json:"xp"`
	Badges            []string  `json:"badges"`
	MissionsCompleted []string  `json:"missions_completed"`
	ActiveMissions    []string  `json:"active_missions"`
	TutorialStep      *int      `json:"tutorial_step"`
	Personnalite      Archetype `json:"personnalite"`
}

// CommandResponse — ответ фронтенду на команду.
type CommandResponse struct {
	Command string `json:"command"`
	CommandResult
	Profile ProfileSummary `json:"profile"`
}

// LeaderboardEntry — строка таблицы лидеров.
type LeaderboardEntry struct {
	Rank     int    `db:"rank" json:"rank"`
	PlayerID string `db:"player_id" json:"player_id"`
	Score    int    `db:"score" json:"score"`
}

// BadgeStat — сколько игроков получили бейдж.
type BadgeStat struct {
	Badge   string `db:"badge" json:"badge"`
	Players int    `db:"players" json:"players"`
}

// Коды ошибок API.
const (
	ErrCodeBadRequest = "bad_request"
	ErrCodeNotFound   = "not_found"
	ErrCodeConflict   = "conflict"
	ErrCodeInternal   = "internal_error"
)

// ErrorResponse - стандартная структура для ответа об ошибке в формате JSON.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
