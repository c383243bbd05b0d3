package arguments

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
)

// Error is the closed set of argument failures. The dispatcher wraps it in
// an invalid-arguments command error.
type Error interface {
	error
	Kind() string
	argumentError()
}

type ExtraArgumentsError struct {
	MaxArgs int `json:"max_args"`
}

func (e *ExtraArgumentsError) Error() string {
	return fmt.Sprintf("too many arguments, expected at most %d", e.MaxArgs)
}

func (e *ExtraArgumentsError) Kind() string { return "extra-arguments" }
func (*ExtraArgumentsError) argumentError() {}

type MissingArgumentsError struct {
	Keys []string `json:"keys"`
}

func (e *MissingArgumentsError) Error() string {
	return "missing arguments: " + strings.Join(e.Keys, ", ")
}

func (e *MissingArgumentsError) Kind() string { return "missing-arguments" }
func (*MissingArgumentsError) argumentError() {}

type WrongArgumentTypeError struct {
	Key          string `json:"key"`
	Value        string `json:"value"`
	ExpectedType string `json:"expected_type"`
}

func (e *WrongArgumentTypeError) Error() string {
	return fmt.Sprintf("argument %s: %q is not a valid %s", e.Key, e.Value, e.ExpectedType)
}

func (e *WrongArgumentTypeError) Kind() string { return "wrong-argument-type" }
func (*WrongArgumentTypeError) argumentError() {}

// UnknownTypeError means a slot names a type no parser is registered for.
type UnknownTypeError struct {
	Key  string `json:"key"`
	Type string `json:"type"`
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("argument %s: unknown type %q", e.Key, e.Type)
}

func (e *UnknownTypeError) Kind() string { return "unknown-type" }
func (*UnknownTypeError) argumentError() {}

type TextChannelNotFoundError struct {
	Key    string `json:"key"`
	Search string `json:"search"`
}

func (e *TextChannelNotFoundError) Error() string {
	return fmt.Sprintf("argument %s: no text channel matches %q", e.Key, e.Search)
}

func (e *TextChannelNotFoundError) Kind() string { return "text-channel-not-found" }
func (*TextChannelNotFoundError) argumentError() {}

type TextChannelMultipleFoundError struct {
	Key      string                 `json:"key"`
	Search   string                 `json:"search"`
	Channels []discord.GuildChannel `json:"-"`
}

func (e *TextChannelMultipleFoundError) Error() string {
	return fmt.Sprintf("argument %s: %d text channels match %q", e.Key, len(e.Channels), e.Search)
}

func (e *TextChannelMultipleFoundError) Kind() string { return "text-channel-multiple-found" }
func (*TextChannelMultipleFoundError) argumentError() {}

func wrongType(raw, key, expected string) *WrongArgumentTypeError {
	return &WrongArgumentTypeError{Key: key, Value: raw, ExpectedType: expected}
}
