package persona

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Registry is a read-mostly lookup of characters keyed by id. Lookups
// never fail: unknown ids resolve to the default character.
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]Character
	order []string
}

// NewRegistry returns a registry seeded with the compiled-in characters.
func NewRegistry() *Registry {
	r := &Registry{}
	r.replace(defaultCharacters())
	return r
}

// LoadFile replaces the registry contents with characters parsed from a
// YAML file. The previous snapshot is kept on any error.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading character file: %w", err)
	}

	var doc struct {
		Characters []Character `yaml:"characters"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing character file: %w", err)
	}
	if len(doc.Characters) == 0 {
		return fmt.Errorf("character file %s defines no characters", path)
	}
	for _, c := range doc.Characters {
		if c.ID == "" || c.SystemPrompt == "" {
			return fmt.Errorf("character %q missing id or system prompt", c.Name)
		}
	}

	r.replace(doc.Characters)
	log.Info("character registry loaded", "path", path, "characters", len(doc.Characters))
	return nil
}

func (r *Registry) replace(chars []Character) {
	byID := make(map[string]Character, len(chars))
	order := make([]string, 0, len(chars))
	for _, c := range chars {
		if _, dup := byID[c.ID]; dup {
			continue
		}
		byID[c.ID] = c
		order = append(order, c.ID)
	}

	r.mu.Lock()
	r.byID = byID
	r.order = order
	r.mu.Unlock()
}

// Get resolves a character id, falling back to the default character for
// unknown or empty ids.
func (r *Registry) Get(id string) Character {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.byID[id]; ok {
		return c
	}
	if c, ok := r.byID[DefaultCharacterID]; ok {
		return c
	}
	// Custom character files may not define the stock default; fall back
	// to the first declared character.
	return r.byID[r.order[0]]
}

// List returns all characters in declaration order.
func (r *Registry) List() []Character {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Character, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
