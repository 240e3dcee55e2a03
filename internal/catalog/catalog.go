// Package catalog loads the read-only lesson, badge and glossary data the
// ledger and views reference. Embedded copies ship with the binary and can
// be overridden from a directory of JSON or YAML files.
package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/naturepower/internal/logging"
	"github.com/abhisek/naturepower/internal/progress"
	"github.com/abhisek/naturepower/internal/schema"
)

//go:embed data/*.json
var embedded embed.FS

// Catalog holds validated reference data.
type Catalog struct {
	lessons  []Lesson
	lessonBy map[string]int
	badges   []Badge
	badgeBy  map[string]int
	glossary map[string]string
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := load(embeddedSource{}, nil)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads overrides from dir, falling back per file to the embedded
// data, or to FallbackBadges for badges, when a file is missing or
// invalid. Problems are logged, never returned.
func Load(dir string, log *logging.Logger) *Catalog {
	log = logging.OrNop(log).With("component", "catalog")
	if dir == "" {
		return Default()
	}
	c, err := load(dirSource{dir: dir}, log)
	if err != nil {
		log.Warn("catalog override unusable, using embedded data", "dir", dir, "error", err)
		return Default()
	}
	return c
}

type source interface {
	// read returns the JSON form of the named file, or fs.ErrNotExist.
	read(name string) ([]byte, error)
}

type embeddedSource struct{}

func (embeddedSource) read(name string) ([]byte, error) {
	return embedded.ReadFile("data/" + name + ".json")
}

type dirSource struct{ dir string }

func (d dirSource) read(name string) ([]byte, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		data, err := os.ReadFile(filepath.Join(d.dir, name+ext))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if ext == ".json" {
			return data, nil
		}
		return yamlToJSON(data)
	}
	return nil, fs.ErrNotExist
}

// yamlToJSON re-encodes a YAML document as JSON so one schema covers both.
func yamlToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("convert yaml: %w", err)
	}
	return out, nil
}

func load(src source, log *logging.Logger) (*Catalog, error) {
	log = logging.OrNop(log)
	c := &Catalog{}

	lessons, err := loadLessons(src)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("lesson catalog unusable, using embedded lessons", "error", err)
		}
		if lessons, err = loadLessons(embeddedSource{}); err != nil {
			return nil, err
		}
	}
	c.setLessons(lessons)

	badges, err := loadBadges(src)
	if errors.Is(err, fs.ErrNotExist) {
		badges, err = loadBadges(embeddedSource{})
	}
	if err != nil {
		log.Warn("badge catalog unusable, using fallback", "error", err)
		badges = FallbackBadges
	}
	c.setBadges(badges)

	if missing := danglingBadges(c.lessons, c.badges); len(missing) > 0 {
		log.Warn("lessons reference unknown badges", "refs", strings.Join(missing, ", "))
	}

	var glossary struct {
		Terms map[string]string `json:"terms"`
	}
	if err := decode(src, "glossary", glossarySchema, &glossary); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("glossary unusable, using embedded glossary", "error", err)
		}
		if err := decode(embeddedSource{}, "glossary", glossarySchema, &glossary); err != nil {
			return nil, err
		}
	}
	c.glossary = make(map[string]string, len(glossary.Terms))
	for term, def := range glossary.Terms {
		c.glossary[strings.ToLower(strings.TrimSpace(term))] = def
	}
	return c, nil
}

func loadLessons(src source) ([]Lesson, error) {
	var lessons []Lesson
	if err := decode(src, "lessons", lessonsSchema, &lessons); err != nil {
		return nil, err
	}
	if err := validateLessons(lessons, progress.LessonCount); err != nil {
		return nil, err
	}
	return lessons, nil
}

func loadBadges(src source) ([]Badge, error) {
	var badges []Badge
	if err := decode(src, "badges", badgesSchema, &badges); err != nil {
		return nil, err
	}
	if err := validateBadges(badges); err != nil {
		return nil, err
	}
	return badges, nil
}

func decode(src source, name string, s schema.Schema, v any) error {
	data, err := src.read(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := s.ValidateJSON(data); err != nil {
		return fmt.Errorf("validate %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (c *Catalog) setLessons(lessons []Lesson) {
	c.lessons = lessons
	c.lessonBy = make(map[string]int, len(lessons))
	for i, l := range lessons {
		c.lessonBy[l.ID] = i
	}
}

func (c *Catalog) setBadges(badges []Badge) {
	c.badges = badges
	c.badgeBy = make(map[string]int, len(badges))
	for i, b := range badges {
		c.badgeBy[b.ID] = i
	}
}

// Lessons returns the curriculum in order.
func (c *Catalog) Lessons() []Lesson {
	return append([]Lesson(nil), c.lessons...)
}

// Lesson looks up a lesson by id.
func (c *Catalog) Lesson(id string) (Lesson, bool) {
	i, ok := c.lessonBy[id]
	if !ok {
		return Lesson{}, false
	}
	return c.lessons[i], true
}

// Badges returns badge definitions in catalog order.
func (c *Catalog) Badges() []Badge {
	return append([]Badge(nil), c.badges...)
}

// Badge looks up a badge by id.
func (c *Catalog) Badge(id string) (Badge, bool) {
	i, ok := c.badgeBy[id]
	if !ok {
		return Badge{}, false
	}
	return c.badges[i], true
}

// Define returns the glossary definition of term, ignoring case.
func (c *Catalog) Define(term string) (string, bool) {
	def, ok := c.glossary[strings.ToLower(strings.TrimSpace(term))]
	return def, ok
}

// Terms returns the glossary terms sorted alphabetically.
func (c *Catalog) Terms() []string {
	terms := make([]string, 0, len(c.glossary))
	for t := range c.glossary {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}
