// Package personality определяет архетип игрока по его истории.
package personality

import (
	"strings"

	"hack-adventure/internal/models"
)

// Keyword — подстрока в названии бейджа и ее вес.
type Keyword struct {
	Match  string
	Weight int
}

// Archetype описывает, как набираются очки одного архетипа.
type Archetype struct {
	Name     models.Archetype
	Keywords []Keyword
	// MissionWeight начисляется за каждую завершенную миссию.
	MissionWeight int
}

// Classifier — чистая функция от бейджей и числа миссий. Результат не кешируется.
type Classifier struct {
	archetypes []Archetype
	fallback   models.Archetype
}

// NewClassifier создает классификатор. Порядок архетипов важен:
// при равенстве очков побеждает объявленный раньше.
func NewClassifier(fallback models.Archetype, archetypes ...Archetype) Classifier {
	return Classifier{archetypes: archetypes, fallback: fallback}
}

// DefaultClassifier — архетипы игры: creatif, analytique, social.
func DefaultClassifier() Classifier {
	return NewClassifier(models.ArchetypeBalanced,
		Archetype{
			Name: models.ArchetypeCreative,
			Keywords: []Keyword{
				{Match: "créat", Weight: 3},
				{Match: "architecte", Weight: 2},
				{Match: "artiste", Weight: 2},
				{Match: "inventeur", Weight: 2},
			},
		},
		Archetype{
			Name: models.ArchetypeAnalytical,
			Keywords: []Keyword{
				{Match: "analy", Weight: 3},
				{Match: "décrypt", Weight: 2},
				{Match: "hacker", Weight: 2},
				{Match: "scanner", Weight: 1},
				{Match: "casseur", Weight: 1},
			},
			MissionWeight: 1,
		},
		Archetype{
			Name: models.ArchetypeSocial,
			Keywords: []Keyword{
				{Match: "contact", Weight: 3},
				{Match: "allié", Weight: 2},
				{Match: "diplomate", Weight: 2},
				{Match: "confident", Weight: 2},
			},
		},
	)
}

// Scores возвращает очки каждого архетипа в порядке объявления.
func (c Classifier) Scores(badges []string, missionsCompleted int) []int {
	scores := make([]int, len(c.archetypes))
	for i, archetype := range c.archetypes {
		for _, badge := range badges {
			name := strings.ToLower(badge)
			for _, kw := range archetype.Keywords {
				if strings.Contains(name, strings.ToLower(kw.Match)) {
					scores[i] += kw.Weight
				}
			}
		}
		scores[i] += archetype.MissionWeight * missionsCompleted
	}
	return scores
}

// Classify возвращает архетип с наибольшим счетом. Ничья — первый объявленный,
// все нули — fallback.
func (c Classifier) Classify(badges []string, missionsCompleted int) models.Archetype {
	best, bestScore := c.fallback, 0
	for i, score := range c.Scores(badges, missionsCompleted) {
		if score > bestScore {
			best, bestScore = c.archetypes[i].Name, score
		}
	}
	return best
}

// ClassifyProfile — удобная обертка над Classify.
func (c Classifier) ClassifyProfile(p *models.PlayerProfile) models.Archetype {
	return c.Classify(p.Badges.List(), p.MissionsCompleted.Len())
}
