package commands

import "hack-adventure/internal/models"

// Handler выполняет одну команду над профилем игрока.
// Обработчик не возвращает ошибок: любая неудача выражается через Success=false.
type Handler interface {
	Execute(p *models.PlayerProfile, args []string) models.CommandResult
}

// HandlerFunc позволяет использовать обычную функцию как Handler.
type HandlerFunc func(p *models.PlayerProfile, args []string) models.CommandResult

func (f HandlerFunc) Execute(p *models.PlayerProfile, args []string) models.CommandResult {
	return f(p, args)
}

func fail(message string) models.CommandResult {
	return models.CommandResult{Success: false, Message: message}
}

func info(message string) models.CommandResult {
	return models.CommandResult{Success: true, Message: message}
}
