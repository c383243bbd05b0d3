package registry

import (
	"sync"
)

// Registry owns the root commands and an alias index spanning every depth
// of every tree. Root names and aliases share one namespace.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
	order    []*Command
	mu       sync.RWMutex
}

func New() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
}

// Add builds each declaration and registers the results as one batch.
func (r *Registry) Add(decls ...Declaration) error {
	cmds := make([]*Command, 0, len(decls))
	for _, decl := range decls {
		cmd, err := Build(decl)
		if err != nil {
			return err
		}
		cmds = append(cmds, cmd)
	}
	return r.Register(cmds...)
}

// Register adds root commands. The batch is checked as a whole before
// anything is inserted: on a collision nothing from the batch is kept.
func (r *Registry) Register(cmds ...*Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make(map[string]struct{}, len(cmds))
	aliases := make(map[string]*Command)

	taken := func(id string) bool {
		if _, ok := r.commands[id]; ok {
			return true
		}
		if _, ok := r.aliases[id]; ok {
			return true
		}
		if _, ok := names[id]; ok {
			return true
		}
		_, ok := aliases[id]
		return ok
	}

	for _, cmd := range cmds {
		if taken(cmd.name) {
			return &DuplicateCommandError{Identifier: cmd.name}
		}
		names[cmd.name] = struct{}{}

		var dup string
		cmd.Walk(func(c *Command) bool {
			if c.alias == "" {
				return true
			}
			if taken(c.alias) {
				dup = c.alias
				return false
			}
			aliases[c.alias] = c
			return true
		})
		if dup != "" {
			return &DuplicateCommandError{Identifier: dup}
		}
	}

	for _, cmd := range cmds {
		r.commands[cmd.name] = cmd
		r.order = append(r.order, cmd)
	}
	for alias, cmd := range aliases {
		r.aliases[alias] = cmd
	}

	return nil
}

// Resolve finds the command named by the leading tokens and reports how many
// tokens it consumed. An alias matches only as the first token and ends the
// search. Otherwise the first token selects a root and each following token
// descends into an exactly matching subcommand until one does not match.
func (r *Registry) Resolve(tokens []string) (*Command, int, bool) {
	if len(tokens) == 0 {
		return nil, 0, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if cmd, ok := r.aliases[tokens[0]]; ok {
		return cmd, 1, true
	}

	cmd, ok := r.commands[tokens[0]]
	if !ok {
		return nil, 0, false
	}

	consumed := 1
	for _, token := range tokens[1:] {
		child, ok := cmd.subcommands[token]
		if !ok {
			break
		}
		cmd = child
		consumed++
	}

	return cmd, consumed, true
}

// Lookup resolves tokens and succeeds only if every token was consumed.
func (r *Registry) Lookup(tokens []string) (*Command, bool) {
	cmd, consumed, ok := r.Resolve(tokens)
	if !ok || consumed != len(tokens) {
		return nil, false
	}
	return cmd, true
}

// Commands returns the root commands in registration order.
func (r *Registry) Commands() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Command(nil), r.order...)
}

// Walk visits every command of every tree.
func (r *Registry) Walk(fn func(*Command) bool) {
	for _, cmd := range r.Commands() {
		if !cmd.Walk(fn) {
			return
		}
	}
}
