package registry

import (
	"errors"
	"strings"
	"unicode"

	"github.com/goland-express/obey/arguments"
	"github.com/goland-express/obey/types"
)

type ExecuteFunc func(ctx *Context) error

var ErrNoHandler = errors.New("command has no handler")

// Declaration describes a command and its subcommands. GuildOnly and
// Permission are inherited from the parent when nil. Group may only be set
// on a root command and applies to the whole tree.
type Declaration struct {
	Name        string
	// Alias is a registry-wide shortcut that resolves straight to this
	// command. The empty string means no alias; whitespace is rejected.
	Alias       string
	Description string
	Group       string
	GuildOnly   *bool
	Permission  *types.Permission
	Dummy       bool
	Args        []arguments.Slot
	Subcommands []Declaration
	Execute     ExecuteFunc
}

// Command is a built, immutable node of the command tree.
type Command struct {
	name        string
	shortName   string
	alias       string
	description string
	group       string
	guildOnly   bool
	permission  types.Permission
	dummy       bool
	args        []arguments.Slot
	execute     ExecuteFunc

	parent      *Command
	subcommands map[string]*Command
	children    []*Command
}

type policy struct {
	guildOnly  bool
	permission types.Permission
	group      string
}

// Build constructs a root command and its whole subtree.
func Build(decl Declaration) (*Command, error) {
	return build(decl, nil, policy{permission: types.PermissionUser, group: decl.Group})
}

func build(decl Declaration, parent *Command, inherited policy) (*Command, error) {
	fullName := decl.Name
	if parent != nil {
		fullName = parent.name + " " + decl.Name
	}

	if decl.Name == "" {
		return nil, &ConfigurationError{Command: fullName, Reason: "empty name"}
	}
	if hasSpace(decl.Name) {
		return nil, &ConfigurationError{Command: fullName, Reason: "name contains whitespace"}
	}
	if hasSpace(decl.Alias) {
		return nil, &ConfigurationError{Command: fullName, Reason: "alias contains whitespace"}
	}
	if parent != nil && decl.Group != "" {
		return nil, &ConfigurationError{Command: fullName, Reason: "group can only be set on a root command"}
	}
	if err := arguments.ValidateSlots(decl.Args); err != nil {
		return nil, &ConfigurationError{Command: fullName, Reason: "invalid arguments", Err: err}
	}
	if !decl.Dummy && decl.Execute == nil {
		return nil, &ConfigurationError{Command: fullName, Reason: "no handler for a non-dummy command"}
	}

	own := inherited
	if decl.GuildOnly != nil {
		own.guildOnly = *decl.GuildOnly
	}
	if decl.Permission != nil {
		own.permission = *decl.Permission
	}

	cmd := &Command{
		name:        fullName,
		shortName:   decl.Name,
		alias:       decl.Alias,
		description: decl.Description,
		group:       own.group,
		guildOnly:   own.guildOnly,
		permission:  own.permission,
		dummy:       decl.Dummy,
		args:        append([]arguments.Slot(nil), decl.Args...),
		execute:     decl.Execute,
		parent:      parent,
		subcommands: make(map[string]*Command, len(decl.Subcommands)),
	}

	for _, sub := range decl.Subcommands {
		child, err := build(sub, cmd, own)
		if err != nil {
			return nil, err
		}
		if _, ok := cmd.subcommands[child.shortName]; ok {
			return nil, &ConfigurationError{Command: child.name, Reason: "duplicate subcommand"}
		}
		cmd.subcommands[child.shortName] = child
		cmd.children = append(cmd.children, child)
	}

	return cmd, nil
}

func hasSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}

// Name is the fully qualified name, e.g. "prefix set".
func (c *Command) Name() string                 { return c.name }
func (c *Command) ShortName() string            { return c.shortName }
func (c *Command) Alias() string                { return c.alias }
func (c *Command) Description() string          { return c.description }
func (c *Command) Group() string                { return c.group }
func (c *Command) GuildOnly() bool              { return c.guildOnly }
func (c *Command) Permission() types.Permission { return c.permission }
func (c *Command) Dummy() bool                  { return c.dummy }
func (c *Command) Args() []arguments.Slot       { return c.args }
func (c *Command) Parent() *Command             { return c.parent }
func (c *Command) Subcommands() []*Command      { return c.children }
func (c *Command) Usage() string                { return arguments.Usage(c.args) }

// Subcommand returns the direct child with the given short name.
func (c *Command) Subcommand(name string) *Command {
	return c.subcommands[name]
}

// Depth is 0 for a root command.
func (c *Command) Depth() int {
	depth := 0
	for p := c.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Run invokes the handler.
func (c *Command) Run(ctx *Context) error {
	if c.execute == nil {
		return ErrNoHandler
	}
	return c.execute(ctx)
}

// Walk visits c and its descendants depth first, stopping when fn returns false.
func (c *Command) Walk(fn func(*Command) bool) bool {
	if !fn(c) {
		return false
	}
	for _, child := range c.children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}
