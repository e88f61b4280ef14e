package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"hack-adventure/internal/models"
)

//go:embed defaults
var defaults embed.FS

var (
	ErrInvalidMission = errors.New("invalid mission definition")
	ErrDuplicateID    = errors.New("duplicate mission id")
)

// Catalog хранит статический контент игры: миссии и ASCII-арт.
// После создания не изменяется и безопасен для конкурентного чтения.
type Catalog struct {
	missions map[string]models.Mission
	order    []string
	art      map[string]string
}

// Default загружает встроенный контент.
func Default(logger *zap.Logger) *Catalog {
	sub, err := fs.Sub(defaults, "defaults")
	if err != nil {
		logger.Error("Failed to open embedded content", zap.Error(err))
		return Empty()
	}
	return Load(sub, logger)
}

// FromDir загружает контент из каталога на диске. Пустой dir означает
// встроенный контент.
func FromDir(dir string, logger *zap.Logger) *Catalog {
	if dir == "" {
		return Default(logger)
	}
	if _, err := os.Stat(dir); err != nil {
		logger.Error("Content directory is not accessible", zap.String("dir", dir), zap.Error(err))
		return Empty()
	}
	return Load(os.DirFS(dir), logger)
}

// Load читает missions/*.yaml и ascii/*.txt. Ошибки загрузки логируются,
// соответствующая часть каталога остается пустой.
func Load(fsys fs.FS, logger *zap.Logger) *Catalog {
	c := Empty()

	missions, err := LoadMissions(fsys)
	if err != nil {
		logger.Error("Failed to load missions, catalog will be empty", zap.Error(err))
	} else {
		for _, m := range missions {
			c.missions[m.ID] = m
			c.order = append(c.order, m.ID)
		}
	}

	art, err := LoadAsciiArt(fsys)
	if err != nil {
		logger.Error("Failed to load ascii art", zap.Error(err))
	} else {
		c.art = art
	}

	logger.Info("Content loaded", zap.Int("missions", len(c.order)), zap.Int("ascii", len(c.art)))
	return c
}

// Empty возвращает пустой каталог.
func Empty() *Catalog {
	return &Catalog{
		missions: make(map[string]models.Mission),
		art:      make(map[string]string),
	}
}

// NewCatalog собирает каталог из готовых значений (используется в тестах).
func NewCatalog(missions []models.Mission, art map[string]string) *Catalog {
	c := Empty()
	for _, m := range missions {
		if _, exists := c.missions[m.ID]; exists {
			continue
		}
		c.missions[m.ID] = m
		c.order = append(c.order, m.ID)
	}
	for name, a := range art {
		c.art[name] = a
	}
	return c
}

func (c *Catalog) Mission(id string) (models.Mission, bool) {
	m, ok := c.missions[id]
	return m, ok
}

// Missions возвращает миссии в порядке загрузки.
func (c *Catalog) Missions() []models.Mission {
	out := make([]models.Mission, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.missions[id])
	}
	return out
}

// MissionMap возвращает копию индекса миссий.
func (c *Catalog) MissionMap() map[string]models.Mission {
	out := make(map[string]models.Mission, len(c.missions))
	for id, m := range c.missions {
		out[id] = m
	}
	return out
}

func (c *Catalog) AsciiArt(name string) (string, bool) {
	a, ok := c.art[name]
	return a, ok
}

// AsciiNames возвращает отсортированный список имен ASCII-арта.
func (c *Catalog) AsciiNames() []string {
	names := make([]string, 0, len(c.art))
	for name := range c.art {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadMissions читает все missions/*.yaml в лексикографическом порядке имен файлов.
func LoadMissions(fsys fs.FS) ([]models.Mission, error) {
	files, err := fs.Glob(fsys, "missions/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob missions: %w", err)
	}
	sort.Strings(files)

	seen := make(map[string]struct{}, len(files))
	missions := make([]models.Mission, 0, len(files))
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		var m models.Mission
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		if err := Validate(m); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("%s: %w: %s", file, ErrDuplicateID, m.ID)
		}
		seen[m.ID] = struct{}{}
		missions = append(missions, m)
	}
	return missions, nil
}

// missionValidator проверяет теги validate у models.Mission и models.MissionStep.
var missionValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate проверяет структурную корректность миссии.
func Validate(m models.Mission) error {
	m.ID = strings.TrimSpace(m.ID)
	if err := missionValidator.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: mission %q: %s failed on %q", ErrInvalidMission, m.ID, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %w", ErrInvalidMission, err)
	}
	for _, req := range m.Requires {
		if req == m.ID {
			return fmt.Errorf("%w: mission %s requires itself", ErrInvalidMission, m.ID)
		}
	}
	return nil
}

// LoadAsciiArt читает ascii/*.txt; имя арта — имя файла без расширения.
func LoadAsciiArt(fsys fs.FS) (map[string]string, error) {
	files, err := fs.Glob(fsys, "ascii/*.txt")
	if err != nil {
		return nil, fmt.Errorf("glob ascii: %w", err)
	}
	art := make(map[string]string, len(files))
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		name := strings.TrimSuffix(path.Base(file), path.Ext(file))
		art[name] = strings.TrimRight(string(data), "\n")
	}
	return art, nil
}
