// Package catalog defines the import rulesets for every entity that supports
// bulk upload: centers, departments, professional families, and objectives.
// Each entity contributes a Definition (columns, sample row for the template
// download) and a typed pipeline built from the shared validator set, so the
// parse/validate/report scaffolding exists exactly once.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownKey marks a lookup for an import type nobody registered.
var ErrUnknownKey = errors.New("unknown import type")

// Definition describes one importable entity for listings and template
// generation.
type Definition struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Columns []string `json:"columns"`
	Sample  []string `json:"-"`
}

var (
	registry   = make(map[string]Definition)
	registryMu sync.RWMutex
)

// Register adds a definition to the registry.
// Panics if the key is already registered.
func Register(def Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Key]; exists {
		panic(fmt.Sprintf("import definition already registered: %s", def.Key))
	}
	registry[def.Key] = def
}

// Get returns a definition by key.
func Get(key string) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns every registered definition sorted by key.
func All() []Definition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Definition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}
