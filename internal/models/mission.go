package models

// MissionState — состояние миссии для конкретного игрока.
type MissionState string

const (
	MissionNotStarted MissionState = "not_started"
	MissionInProgress MissionState = "in_progress"
	MissionCompleted  MissionState = "completed"
)

// MissionStep — один шаг миссии, засчитывается выполнением команды Trigger.
type MissionStep struct {
	ID          string `yaml:"id" json:"id" validate:"required"`
	Trigger     string `yaml:"trigger" json:"trigger" validate:"required"`
	Reward      int    `yaml:"reward" json:"reward" validate:"min=0"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// Mission — статический контент, загружается один раз при старте и не меняется.
type Mission struct {
	ID          string        `yaml:"id" json:"id" validate:"required"`
	Title       string        `yaml:"title" json:"title"`
	Description string        `yaml:"description" json:"description,omitempty"`
	Steps       []MissionStep `yaml:"steps" json:"steps" validate:"required,min=1,unique=ID,dive"`
	// Reward начисляется один раз при завершении миссии.
	Reward         int      `yaml:"reward" json:"reward" validate:"min=0"`
	Badge          string   `yaml:"badge" json:"badge,omitempty"`
	SymbolicObject string   `yaml:"symbolic_object" json:"symbolicObject,omitempty"`
	Requires       []string `yaml:"requires" json:"requires,omitempty" validate:"dive,required"`
}

// Step ищет шаг по идентификатору.
func (m Mission) Step(stepID string) (MissionStep, bool) {
	for _, step := range m.Steps {
		if step.ID == stepID {
			return step, true
		}
	}
	return MissionStep{}, false
}

// MissionView — миссия вместе с состоянием игрока, для ответа API.
type MissionView struct {
	Mission
	State          MissionState `json:"state"`
	CompletedSteps []string     `json:"completedSteps"`
}
