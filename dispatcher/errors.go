package dispatcher

import (
	"fmt"

	"github.com/goland-express/obey/arguments"
	"github.com/goland-express/obey/registry"
	"github.com/goland-express/obey/types"
)

type Kind string

const (
	KindUnknownCommand     Kind = "unknown-command"
	KindDummyCommand       Kind = "dummy-command"
	KindGuildOnly          Kind = "guild-only-command"
	KindMissingPermissions Kind = "missing-permissions"
	KindInvalidArguments   Kind = "invalid-arguments"
	KindRunError           Kind = "run-error"
	KindInternalError      Kind = "internal-error"
)

// CommandError is the closed set of failures a dispatch can end in. Sinks
// match on the concrete type or on Kind.
type CommandError interface {
	error
	Kind() Kind
	commandError()
}

// UnknownCommandError means no command matched. Name is the first token, or
// empty when the message was only the prefix.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	if e.Name == "" {
		return "no command given"
	}
	return fmt.Sprintf("unknown command %q", e.Name)
}

func (e *UnknownCommandError) Kind() Kind  { return KindUnknownCommand }
func (*UnknownCommandError) commandError() {}

type DummyCommandError struct {
	Command *registry.Command
}

func (e *DummyCommandError) Error() string {
	return fmt.Sprintf("command %q cannot be run by itself", e.Command.Name())
}

func (e *DummyCommandError) Kind() Kind  { return KindDummyCommand }
func (*DummyCommandError) commandError() {}

type GuildOnlyError struct {
	Command *registry.Command
}

func (e *GuildOnlyError) Error() string {
	return fmt.Sprintf("command %q can only be used in a server", e.Command.Name())
}

func (e *GuildOnlyError) Kind() Kind  { return KindGuildOnly }
func (*GuildOnlyError) commandError() {}

type MissingPermissionsError struct {
	Command  *registry.Command
	Required types.Permission
	Actual   types.Permission
}

func (e *MissingPermissionsError) Error() string {
	return fmt.Sprintf("command %q requires %s, caller is %s", e.Command.Name(), e.Required, e.Actual)
}

func (e *MissingPermissionsError) Kind() Kind  { return KindMissingPermissions }
func (*MissingPermissionsError) commandError() {}

type InvalidArgumentsError struct {
	Command *registry.Command
	Err     arguments.Error
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("command %q: %v", e.Command.Name(), e.Err)
}

func (e *InvalidArgumentsError) Unwrap() error { return e.Err }
func (e *InvalidArgumentsError) Kind() Kind    { return KindInvalidArguments }
func (*InvalidArgumentsError) commandError()   {}

// RunError wraps a failure returned or raised by a command handler.
type RunError struct {
	Command *registry.Command
	Cause   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.Command.Name(), e.Cause)
}

func (e *RunError) Unwrap() error { return e.Cause }
func (e *RunError) Kind() Kind    { return KindRunError }
func (*RunError) commandError()   {}

// InternalError means a collaborator failed or an expected invariant did
// not hold.
type InternalError struct {
	Command *registry.Command
	Cause   error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %v", e.Cause)
}

func (e *InternalError) Unwrap() error { return e.Cause }
func (e *InternalError) Kind() Kind    { return KindInternalError }
func (*InternalError) commandError()   {}

// commandOf returns the matched command carried by err, if any.
func commandOf(err CommandError) *registry.Command {
	switch e := err.(type) {
	case *DummyCommandError:
		return e.Command
	case *GuildOnlyError:
		return e.Command
	case *MissingPermissionsError:
		return e.Command
	case *InvalidArgumentsError:
		return e.Command
	case *RunError:
		return e.Command
	case *InternalError:
		return e.Command
	}
	return nil
}
