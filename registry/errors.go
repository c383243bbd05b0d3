package registry

import "fmt"

// ConfigurationError reports an invalid command declaration. It is fatal:
// a bot with a half-built command tree must not start.
type ConfigurationError struct {
	Command string
	Reason  string
	Err     error
}

func (e *ConfigurationError) Error() string {
	name := e.Command
	if name == "" {
		name = "<unnamed>"
	}
	if e.Err != nil {
		return fmt.Sprintf("command %q: %s: %v", name, e.Reason, e.Err)
	}
	return fmt.Sprintf("command %q: %s", name, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// DuplicateCommandError reports a name or alias that is already taken.
type DuplicateCommandError struct {
	Identifier string
}

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("duplicate command name or alias %q", e.Identifier)
}
