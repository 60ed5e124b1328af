// Package commands is the named-command surface the GUI shell invokes.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Command is one invocable operation. Args is the JSON object of camelCase
// arguments sent by the shell.
type Command interface {
	Name() string
	Invoke(ctx context.Context, args json.RawMessage) (any, error)
}

// Registry stores commands by unique name.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{
		commands: map[string]Command{},
	}
}

func (r *Registry) Register(c Command) error {
	if c == nil {
		return fmt.Errorf("command is nil")
	}
	name := strings.TrimSpace(c.Name())
	if name == "" {
		return fmt.Errorf("command name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("command already registered: %s", name)
	}
	r.commands[name] = c
	return nil
}

func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.commands[name]
	return c, ok
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named command.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	c, ok := r.Get(name)
	if !ok {
		return nil, &UnknownCommandError{Name: name}
	}
	return c.Invoke(ctx, args)
}
