package commands

import (
	"errors"
	"fmt"
	"strings"

	"hack-adventure/internal/models"
	"hack-adventure/internal/personality"
	"hack-adventure/internal/progression"
)

// MissionSource — каталог миссий, доступный обработчикам.
type MissionSource interface {
	Mission(id string) (models.Mission, bool)
	Missions() []models.Mission
}

// Deps — зависимости встроенных обработчиков.
type Deps struct {
	Missions   MissionSource
	Tutorial   progression.Tutorial
	Classifier personality.Classifier
}

// Builtin собирает реестр со всеми командами игры.
func Builtin(deps Deps) *Registry {
	handlers := make(map[Kind]Handler, kindCount)
	for k, h := range rewards {
		handlers[k] = h
	}

	handlers[KindHelp] = HandlerFunc(help)
	handlers[KindStatus] = HandlerFunc(func(p *models.PlayerProfile, _ []string) models.CommandResult {
		return status(p, deps.Classifier)
	})
	handlers[KindBadges] = HandlerFunc(badges)
	handlers[KindProfile] = HandlerFunc(func(p *models.PlayerProfile, _ []string) models.CommandResult {
		return profile(p, deps.Classifier)
	})

	mh := missionHandlers{missions: deps.Missions}
	handlers[KindMissionList] = HandlerFunc(mh.list)
	handlers[KindMissionStart] = HandlerFunc(mh.start)
	handlers[KindMissionStatus] = HandlerFunc(mh.status)

	th := tutorialHandlers{tutorial: deps.Tutorial}
	handlers[KindTutorialStart] = HandlerFunc(th.start)
	handlers[KindTutorialSkip] = HandlerFunc(th.skip)

	return NewRegistry(handlers)
}

func help(_ *models.PlayerProfile, _ []string) models.CommandResult {
	var b strings.Builder
	b.WriteString("Commandes disponibles :")
	for _, k := range Kinds() {
		fmt.Fprintf(&b, "\n  %-20s %s", k.String(), k.Description())
	}
	res := info(b.String())
	res.AsciiArt = "terminal"
	return res
}

func status(p *models.PlayerProfile, c personality.Classifier) models.CommandResult {
	return info(fmt.Sprintf(
		"Score : %d | Niveau : %d (%d XP) | Badges : %d | Missions terminées : %d | Personnalité : %s",
		p.Score, p.Level, p.XP, p.Badges.Len(), p.MissionsCompleted.Len(), c.ClassifyProfile(p),
	))
}

func badges(p *models.PlayerProfile, _ []string) models.CommandResult {
	if p.Badges.Len() == 0 {
		return info("Aucun badge pour l'instant. Commence par 'luna_contact'.")
	}
	return info("Badges : " + strings.Join(p.Badges.List(), ", "))
}

func profile(p *models.PlayerProfile, c personality.Classifier) models.CommandResult {
	var b strings.Builder
	fmt.Fprintf(&b, "Joueur %s, niveau %d", p.PlayerID, p.Level)
	for _, skill := range []string{progression.SkillNetwork, progression.SkillCrypto, progression.SkillSocial, progression.SkillCode} {
		fmt.Fprintf(&b, "\n  %-8s niveau %d (%d XP)", skill, progression.LevelForXP(p.SkillXP[skill]), p.SkillXP[skill])
	}
	if p.ObjetsSymboliques.Len() > 0 {
		fmt.Fprintf(&b, "\nObjets : %s", strings.Join(p.ObjetsSymboliques.List(), ", "))
	}
	fmt.Fprintf(&b, "\nPersonnalité : %s", c.ClassifyProfile(p))
	return info(b.String())
}

type missionHandlers struct {
	missions MissionSource
}

func (h missionHandlers) list(p *models.PlayerProfile, _ []string) models.CommandResult {
	all := h.missions.Missions()
	if len(all) == 0 {
		return info("Aucune mission disponible.")
	}
	var b strings.Builder
	b.WriteString("Missions :")
	for _, m := range all {
		state := progression.State(p, m)
		if state == models.MissionNotStarted && !progression.Unlocked(p, m) {
			fmt.Fprintf(&b, "\n  %-16s %s [verrouillée]", m.ID, m.Title)
			continue
		}
		fmt.Fprintf(&b, "\n  %-16s %s [%s]", m.ID, m.Title, state)
	}
	return info(b.String())
}

func (h missionHandlers) start(p *models.PlayerProfile, args []string) models.CommandResult {
	if len(args) == 0 {
		return fail("Usage : mission_start <id>")
	}
	m, ok := h.missions.Mission(args[0])
	if !ok {
		return fail(fmt.Sprintf("Mission inconnue : '%s'.", args[0]))
	}
	started, err := progression.StartMission(p, m)
	if errors.Is(err, progression.ErrMissionLocked) {
		return fail(fmt.Sprintf("Mission verrouillée. Termine d'abord : %s.", strings.Join(m.Requires, ", ")))
	}
	if !started {
		if p.MissionsCompleted.Has(m.ID) {
			return info(fmt.Sprintf("Mission '%s' déjà terminée.", m.Title))
		}
		return info(fmt.Sprintf("Mission '%s' déjà en cours.", m.Title))
	}

	res := info(fmt.Sprintf("Mission '%s' démarrée. %s", m.Title, m.Description))
	if next, ok := progression.NextStep(p, m); ok {
		res.Message += fmt.Sprintf("\nProchaine étape : %s", next.Trigger)
	}
	res.ProfileUpdated = true
	return res
}

func (h missionHandlers) status(p *models.PlayerProfile, args []string) models.CommandResult {
	if len(args) == 0 {
		active := p.ActiveMissions.List()
		if len(active) == 0 {
			return info("Aucune mission en cours. Tape 'mission_list'.")
		}
		return info("Missions en cours : " + strings.Join(active, ", "))
	}
	m, ok := h.missions.Mission(args[0])
	if !ok {
		return fail(fmt.Sprintf("Mission inconnue : '%s'.", args[0]))
	}
	done := p.StepsFor(m.ID)
	msg := fmt.Sprintf("%s [%s] : %d/%d étapes", m.Title, progression.State(p, m), len(done), len(m.Steps))
	if next, ok := progression.NextStep(p, m); ok && !p.MissionsCompleted.Has(m.ID) {
		msg += fmt.Sprintf("\nProchaine étape : %s", next.Trigger)
	}
	return info(msg)
}

type tutorialHandlers struct {
	tutorial progression.Tutorial
}

func (h tutorialHandlers) start(p *models.PlayerProfile, _ []string) models.CommandResult {
	if p.TutorialCompleted {
		return info("Tutoriel déjà terminé.")
	}
	if !h.tutorial.Start(p) {
		if step, ok := h.tutorial.Current(p); ok {
			return info("Tutoriel en cours. " + step.Hint)
		}
		return fail("Tutoriel indisponible.")
	}
	step, _ := h.tutorial.Current(p)
	res := info("Tutoriel lancé. " + step.Hint)
	res.ProfileUpdated = true
	cursor := *p.TutorialStep
	res.TutorialStep = &cursor
	return res
}

func (h tutorialHandlers) skip(p *models.PlayerProfile, _ []string) models.CommandResult {
	if !h.tutorial.Skip(p) {
		return info("Aucun tutoriel en cours.")
	}
	res := info("Tutoriel passé. Bonne chance.")
	res.ProfileUpdated = true
	return res
}
