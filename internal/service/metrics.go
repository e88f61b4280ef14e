package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics — счетчики игрового процесса.
type Metrics struct {
	commandsExecuted  *prometheus.CounterVec
	badgesGranted     *prometheus.CounterVec
	missionsCompleted *prometheus.CounterVec
	saveConflicts     prometheus.Counter
}

// NewMetrics регистрирует счетчики в reg. nil означает отдельный реестр.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		commandsExecuted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "game_commands_executed_total",
			Help: "Number of executed terminal commands.",
		}, []string{"command", "status"}),
		badgesGranted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "game_badges_granted_total",
			Help: "Number of badges granted to players.",
		}, []string{"badge"}),
		missionsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "game_missions_completed_total",
			Help: "Number of completed missions.",
		}, []string{"mission"}),
		saveConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "game_profile_save_conflicts_total",
			Help: "Number of optimistic revision conflicts on profile save.",
		}),
	}
}

func (m *Metrics) command(name, status string) {
	m.commandsExecuted.WithLabelValues(name, status).Inc()
}
