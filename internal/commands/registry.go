package commands

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps command names and aliases to commands.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Command
	aliases map[string]string // alias -> primary name
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Command),
		aliases: make(map[string]string),
	}
}

func (r *Registry) taken(word string) bool {
	if _, ok := r.byName[word]; ok {
		return true
	}
	_, ok := r.aliases[word]
	return ok
}

// Register adds c under its name and aliases. A word may belong to
// one command only.
func (r *Registry) Register(c Command) error {
	name := c.Name()
	if name == "" {
		return fmt.Errorf("command has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.taken(name) {
		return fmt.Errorf("command already registered: %s", name)
	}
	for _, alias := range c.Aliases() {
		if alias == name || r.taken(alias) {
			return fmt.Errorf("command alias already registered: %s", alias)
		}
	}

	r.byName[name] = c
	for _, alias := range c.Aliases() {
		r.aliases[alias] = name
	}
	return nil
}

// Find resolves a name or alias.
func (r *Registry) Find(word string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if primary, ok := r.aliases[word]; ok {
		word = primary
	}
	c, ok := r.byName[word]
	return c, ok
}

// All returns every command once, sorted by primary name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Command, len(names))
	for i, name := range names {
		out[i] = r.byName[name]
	}
	return out
}

// Partition splits All into the commands that operate on the local
// replica and the ones that do not.
func (r *Registry) Partition() (replica, other []Command) {
	for _, c := range r.All() {
		if c.NeedsStore() {
			replica = append(replica, c)
		} else {
			other = append(other, c)
		}
	}
	return replica, other
}

// DefaultRegistry holds the commands the binary dispatches to.
var DefaultRegistry = NewRegistry()

// Register adds c to DefaultRegistry and panics on a clash.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
