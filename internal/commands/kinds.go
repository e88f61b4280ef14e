package commands

// Kind — закрытое перечисление команд терминала.
type Kind int

const (
	KindHelp Kind = iota
	KindStatus
	KindBadges
	KindProfile
	KindLunaContact
	KindHackSystem
	KindScanNetwork
	KindDecryptFile
	KindFirewallBypass
	KindAnalyzeLogs
	KindTraceSignal
	KindCrackPassword
	KindSocialEngineering
	KindCreateBackdoor
	KindDesignExploit
	KindLunaTrust
	KindMissionList
	KindMissionStart
	KindMissionStatus
	KindTutorialStart
	KindTutorialSkip

	kindCount
)

// kindNames — имена команд, как их вводит игрок. Массив фиксированной длины:
// добавление Kind без имени не скомпилируется.
var kindNames = [kindCount]string{
	KindHelp:              "help",
	KindStatus:            "status",
	KindBadges:            "badges",
	KindProfile:           "profile",
	KindLunaContact:       "luna_contact",
	KindHackSystem:        "hack_system",
	KindScanNetwork:       "scan_network",
	KindDecryptFile:       "decrypt_file",
	KindFirewallBypass:    "firewall_bypass",
	KindAnalyzeLogs:       "analyze_logs",
	KindTraceSignal:       "trace_signal",
	KindCrackPassword:     "crack_password",
	KindSocialEngineering: "social_engineering",
	KindCreateBackdoor:    "create_backdoor",
	KindDesignExploit:     "design_exploit",
	KindLunaTrust:         "luna_trust",
	KindMissionList:       "mission_list",
	KindMissionStart:      "mission_start",
	KindMissionStatus:     "mission_status",
	KindTutorialStart:     "tutorial_start",
	KindTutorialSkip:      "tutorial_skip",
}

var kindDescriptions = [kindCount]string{
	KindHelp:              "liste des commandes",
	KindStatus:            "score, niveau et progression",
	KindBadges:            "badges obtenus",
	KindProfile:           "compétences, objets et personnalité",
	KindLunaContact:       "contacter Luna",
	KindHackSystem:        "pirater le système cible",
	KindScanNetwork:       "scanner le réseau",
	KindDecryptFile:       "déchiffrer un fichier",
	KindFirewallBypass:    "contourner le pare-feu",
	KindAnalyzeLogs:       "analyser les journaux",
	KindTraceSignal:       "tracer un signal",
	KindCrackPassword:     "casser un mot de passe",
	KindSocialEngineering: "ingénierie sociale",
	KindCreateBackdoor:    "installer une porte dérobée",
	KindDesignExploit:     "concevoir un exploit",
	KindLunaTrust:         "gagner la confiance de Luna",
	KindMissionList:       "liste des missions",
	KindMissionStart:      "mission_start <id> : démarrer une mission",
	KindMissionStatus:     "mission_status [id] : état d'une mission",
	KindTutorialStart:     "lancer le tutoriel",
	KindTutorialSkip:      "passer le tutoriel",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindNames[k]
}

func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// Description возвращает подсказку для help.
func (k Kind) Description() string {
	if !k.Valid() {
		return ""
	}
	return kindDescriptions[k]
}

// ParseKind ищет команду по имени. Сравнение чувствительно к регистру.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

// Kinds возвращает все объявленные команды в порядке объявления.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}
