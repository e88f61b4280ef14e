package commands

import (
	"fmt"

	"hack-adventure/internal/models"
)

// UnknownCommandMessage — ответ на неизвестную команду.
const UnknownCommandMessage = "Commande inconnue : '%s'. Tape 'help' pour la liste des commandes."

// Registry — неизменяемая таблица команд. Строится один раз при старте
// и явно передается в сервис.
type Registry struct {
	handlers map[Kind]Handler
}

// NewRegistry копирует переданные обработчики. Невалидные Kind и nil-обработчики пропускаются.
func NewRegistry(handlers map[Kind]Handler) *Registry {
	r := &Registry{handlers: make(map[Kind]Handler, len(handlers))}
	for k, h := range handlers {
		if !k.Valid() || h == nil {
			continue
		}
		r.handlers[k] = h
	}
	return r
}

// Lookup ищет обработчик по имени команды.
func (r *Registry) Lookup(name string) (Kind, Handler, bool) {
	k, ok := ParseKind(name)
	if !ok {
		return 0, nil, false
	}
	h, ok := r.handlers[k]
	if !ok {
		return 0, nil, false
	}
	return k, h, true
}

// Dispatch выполняет команду. Для неизвестной команды профиль не меняется,
// возвращается Success=false и found=false.
func (r *Registry) Dispatch(name string, p *models.PlayerProfile, args []string) (res models.CommandResult, found bool) {
	_, h, ok := r.Lookup(name)
	if !ok {
		return fail(fmt.Sprintf(UnknownCommandMessage, name)), false
	}
	return h.Execute(p, args), true
}

// Names возвращает имена зарегистрированных команд в порядке объявления.
func (r *Registry) Names() []string {
	var names []string
	for _, k := range Kinds() {
		if _, ok := r.handlers[k]; ok {
			names = append(names, k.String())
		}
	}
	return names
}

// Missing возвращает объявленные команды без обработчика.
func (r *Registry) Missing() []Kind {
	var missing []Kind
	for _, k := range Kinds() {
		if _, ok := r.handlers[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}
