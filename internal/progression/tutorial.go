package progression

import "hack-adventure/internal/models"

// TutorialStep — одна команда обучающей последовательности.
type TutorialStep struct {
	Command string
	Hint    string
}

// Tutorial — фиксированная обучающая последовательность.
type Tutorial struct {
	Steps      []TutorialStep
	StepReward int
	Badge      string
}

// DefaultTutorial возвращает обучение, которое видит новый игрок.
func DefaultTutorial() Tutorial {
	return Tutorial{
		Steps: []TutorialStep{
			{Command: "help", Hint: "Tape 'help' pour voir les commandes disponibles."},
			{Command: "luna_contact", Hint: "Établis le contact avec Luna : 'luna_contact'."},
			{Command: "scan_network", Hint: "Cartographie le réseau cible : 'scan_network'."},
			{Command: "hack_system", Hint: "Passe à l'action : 'hack_system'."},
		},
		StepReward: 5,
		Badge:      "Initié",
	}
}

// TutorialOutcome — результат продвижения по обучению.
type TutorialOutcome struct {
	Advanced    bool
	Completed   bool
	ScoreGained int
	Badge       string
	Next        *TutorialStep
}

// Current возвращает текущий шаг обучения, если обучение запущено.
func (t Tutorial) Current(p *models.PlayerProfile) (TutorialStep, bool) {
	if p.TutorialStep == nil || *p.TutorialStep >= len(t.Steps) {
		return TutorialStep{}, false
	}
	return t.Steps[*p.TutorialStep], true
}

// Start запускает обучение. Уже идущее или пройденное обучение не перезапускается.
func (t Tutorial) Start(p *models.PlayerProfile) bool {
	if p.TutorialCompleted || p.TutorialStep != nil || len(t.Steps) == 0 {
		return false
	}
	step := 0
	p.TutorialStep = &step
	return true
}

// Skip прерывает обучение без награды.
func (t Tutorial) Skip(p *models.PlayerProfile) bool {
	if p.TutorialStep == nil {
		return false
	}
	p.TutorialStep = nil
	p.TutorialCompleted = true
	p.TutorialSkipped = true
	return true
}

// Advance сдвигает курсор, если выполненная команда — ожидаемый шаг.
func (t Tutorial) Advance(p *models.PlayerProfile, command string) TutorialOutcome {
	var out TutorialOutcome
	current, ok := t.Current(p)
	if !ok || current.Command != command {
		return out
	}
	out.Advanced = true
	out.ScoreGained = p.AddScore(t.StepReward)

	next := *p.TutorialStep + 1
	if next >= len(t.Steps) {
		p.TutorialStep = nil
		p.TutorialCompleted = true
		out.Completed = true
		if t.Badge != "" && p.GrantBadge(t.Badge) {
			out.Badge = t.Badge
		}
		return out
	}
	p.TutorialStep = &next
	nextStep := t.Steps[next]
	out.Next = &nextStep
	return out
}
