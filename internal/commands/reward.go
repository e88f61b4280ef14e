package commands

import (
	"hack-adventure/internal/models"
	"hack-adventure/internal/progression"
)

// RewardHandler — повторяемая награда с одноразовым бейджем.
// Очки и опыт начисляются при каждом вызове, бейдж только один раз.
type RewardHandler struct {
	Points  int
	Badge   string
	Skill   string
	XP      int
	Message string
	Art     string
}

func (h RewardHandler) Execute(p *models.PlayerProfile, _ []string) models.CommandResult {
	res := models.CommandResult{
		Success:        true,
		Message:        h.Message,
		AsciiArt:       h.Art,
		ProfileUpdated: true,
	}
	res.ScoreGained = p.AddScore(h.Points)
	if h.Badge != "" && p.GrantBadge(h.Badge) {
		res.Badge = h.Badge
	}
	if h.XP > 0 {
		res.XPGained = h.XP
		res.LevelUp = progression.AddXP(p, h.Skill, h.XP)
	}
	return res
}

// rewards — таблица наград игровых команд.
var rewards = map[Kind]RewardHandler{
	KindLunaContact: {
		Points: 20, Badge: "Contacté", Skill: progression.SkillSocial, XP: 10, Art: "luna",
		Message: "Connexion établie. Luna : « Je t'attendais. On a du travail. »",
	},
	KindHackSystem: {
		Points: 30, Badge: "Hacker", Skill: progression.SkillCode, XP: 15, Art: "terminal",
		Message: "Accès root obtenu. Le système est à toi.",
	},
	KindScanNetwork: {
		Points: 10, Badge: "Scanner", Skill: progression.SkillNetwork, XP: 10, Art: "network",
		Message: "Scan terminé : 6 hôtes actifs, 1 port suspect.",
	},
	KindDecryptFile: {
		Points: 15, Badge: "Décrypteur", Skill: progression.SkillCrypto, XP: 10, Art: "lock",
		Message: "Fichier déchiffré. Le contenu mentionne un certain « Projet Aube ».",
	},
	KindFirewallBypass: {
		Points: 25, Badge: "Casseur de pare-feu", Skill: progression.SkillNetwork, XP: 15, Art: "lock",
		Message: "Pare-feu contourné. Personne ne t'a vu passer.",
	},
	KindAnalyzeLogs: {
		Points: 10, Badge: "Analyste", Skill: progression.SkillCode, XP: 10, Art: "terminal",
		Message: "Journaux analysés : une connexion revient toutes les nuits à 3h14.",
	},
	KindTraceSignal: {
		Points: 15, Badge: "Traqueur", Skill: progression.SkillNetwork, XP: 10, Art: "network",
		Message: "Signal tracé jusqu'à un relais abandonné.",
	},
	KindCrackPassword: {
		Points: 20, Badge: "Casseur de codes", Skill: progression.SkillCrypto, XP: 15, Art: "lock",
		Message: "Mot de passe cassé : « luna1984 ». Sérieusement ?",
	},
	KindSocialEngineering: {
		Points: 20, Badge: "Diplomate", Skill: progression.SkillSocial, XP: 15, Art: "luna",
		Message: "L'administrateur t'a donné son badge d'accès. Avec le sourire.",
	},
	KindCreateBackdoor: {
		Points: 25, Badge: "Inventeur", Skill: progression.SkillCode, XP: 15, Art: "skull",
		Message: "Porte dérobée installée. Tu pourras revenir quand tu veux.",
	},
	KindDesignExploit: {
		Points: 30, Badge: "Architecte", Skill: progression.SkillCode, XP: 20, Art: "terminal",
		Message: "Exploit conçu. Élégant, et indétectable.",
	},
	KindLunaTrust: {
		Points: 15, Badge: "Confident de Luna", Skill: progression.SkillSocial, XP: 10, Art: "luna",
		Message: "Luna : « Je commence à te faire confiance. »",
	},
}
