// Package roster is the registry of playable characters. Built-in move
// tables are embedded and registered in init(); more can be added from
// files at runtime, allowing the platform to list and load characters
// without hardcoded dependencies.
package roster

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/vovakirdan/tui-fighter/internal/movedata"
)

//go:embed characters/*.yaml
var builtin embed.FS

// Info contains metadata about a registered character.
type Info struct {
	ID   string
	Name string
}

// Source produces a character's validated move table.
type Source func() (*movedata.Character, error)

var (
	sources = make(map[string]Source)
	names   = make(map[string]string)
	mu      sync.RWMutex
)

func init() {
	entries, err := builtin.ReadDir("characters")
	if err != nil {
		panic(fmt.Sprintf("roster: cannot read embedded characters: %v", err))
	}
	for _, e := range entries {
		data, err := builtin.ReadFile(path.Join("characters", e.Name()))
		if err != nil {
			panic(fmt.Sprintf("roster: cannot read %s: %v", e.Name(), err))
		}
		c, err := movedata.Parse(data)
		if err != nil {
			panic(fmt.Sprintf("roster: invalid built-in move table %s: %v", e.Name(), err))
		}
		Register(c.ID, c.Name, func() (*movedata.Character, error) {
			return movedata.Parse(data)
		})
	}
}

// Register adds a character source to the roster.
// Panics if a character with the same ID is already registered.
func Register(id, name string, src Source) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := sources[id]; exists {
		panic(fmt.Sprintf("roster: character %q already registered", id))
	}
	sources[id] = src
	names[id] = name
}

// RegisterFile validates a move table file and adds it to the roster.
func RegisterFile(filePath string) (Info, error) {
	c, err := movedata.LoadFile(filePath)
	if err != nil {
		return Info{}, err
	}
	if Exists(c.ID) {
		return Info{}, fmt.Errorf("roster: character %q already registered", c.ID)
	}
	Register(c.ID, c.Name, func() (*movedata.Character, error) {
		return movedata.LoadFile(filePath)
	})
	return Info{ID: c.ID, Name: c.Name}, nil
}

// List returns information about all registered characters, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(sources))
	for id := range sources {
		result = append(result, Info{ID: id, Name: names[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Load builds a fresh move table for the character.
// Returns an error if the ID is not registered or the table is invalid.
func Load(id string) (*movedata.Character, error) {
	mu.RLock()
	src, ok := sources[strings.ToLower(id)]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("roster: unknown character %q", id)
	}
	c, err := src()
	if err != nil {
		return nil, fmt.Errorf("roster: loading %q: %w", id, err)
	}
	return c, nil
}

// Exists checks if a character with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := sources[strings.ToLower(id)]
	return ok
}
