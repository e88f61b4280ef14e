package models

import "encoding/json"

// Set — множество строковых идентификаторов с сохранением порядка вставки.
// Используется для бейджей, миссий и символических объектов: повторное
// добавление элемента ничего не меняет.
type Set struct {
	items []string
	index map[string]struct{}
}

// NewSet создает множество из перечисленных элементов, дубликаты отбрасываются.
func NewSet(items ...string) Set {
	var s Set
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add добавляет элемент. Возвращает true, если элемента раньше не было.
func (s *Set) Add(item string) bool {
	if item == "" {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[item]; ok {
		return false
	}
	s.index[item] = struct{}{}
	s.items = append(s.items, item)
	return true
}

// Remove удаляет элемент. Возвращает true, если элемент был в множестве.
func (s *Set) Remove(item string) bool {
	if _, ok := s.index[item]; !ok {
		return false
	}
	delete(s.index, item)
	for i, existing := range s.items {
		if existing == item {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

// Has проверяет наличие элемента.
func (s Set) Has(item string) bool {
	_, ok := s.index[item]
	return ok
}

// Len возвращает количество элементов.
func (s Set) Len() int {
	return len(s.items)
}

// List возвращает копию элементов в порядке добавления.
func (s Set) List() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Clone возвращает независимую копию множества.
func (s Set) Clone() Set {
	return NewSet(s.items...)
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}

// UnmarshalJSON принимает массив строк, одиночную строку или null.
// Дубликаты, пустые строки и нестроковые элементы из старых документов
// молча отбрасываются.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Set{}
	switch v := raw.(type) {
	case string:
		s.Add(v)
	case []any:
		for _, item := range v {
			if str, ok := item.(string); ok {
				s.Add(str)
			}
		}
	}
	return nil
}
