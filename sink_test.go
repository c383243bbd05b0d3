package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goland-express/obey/arguments"
	"github.com/goland-express/obey/dispatcher"
	"github.com/goland-express/obey/message/messagetest"
	"github.com/goland-express/obey/prefix"
	"github.com/goland-express/obey/registry"
	"github.com/goland-express/obey/types"
	"github.com/goland-express/obey/utils"
)

func buildCommand(t *testing.T) *registry.Command {
	t.Helper()
	cmd, err := registry.Build(registry.Declaration{
		Name: "say",
		Args: []arguments.Slot{
			{Key: "channel", Type: arguments.TypeTextChannel},
			{Key: "text", Type: arguments.TypeString, CatchAll: true},
		},
		Execute: func(*registry.Context) error { return nil },
	})
	require.NoError(t, err)
	return cmd
}

func TestErrorReply(t *testing.T) {
	cmd := buildCommand(t)
	bare, err := registry.Build(registry.Declaration{Name: "ping", Execute: func(*registry.Context) error { return nil }})
	require.NoError(t, err)

	tests := []struct {
		name string
		err  dispatcher.CommandError
		want string
	}{
		{"unknown", &dispatcher.UnknownCommandError{Name: "x"}, ""},
		{"dummy", &dispatcher.DummyCommandError{Command: cmd}, "Use a subcommand. See `!help say`."},
		{"guild only", &dispatcher.GuildOnlyError{Command: cmd}, "This command can only be used in a server."},
		{
			"permissions",
			&dispatcher.MissingPermissionsError{Command: cmd, Required: types.PermissionOwner},
			"You need the Owner permission to use this command.",
		},
		{
			"missing args",
			&dispatcher.InvalidArgumentsError{Command: cmd, Err: &arguments.MissingArgumentsError{Keys: []string{"text"}}},
			"Missing text. Usage: `!say <channel> <text...>`",
		},
		{
			"extra args without slots",
			&dispatcher.InvalidArgumentsError{Command: bare, Err: &arguments.ExtraArgumentsError{MaxArgs: 0}},
			"Too many arguments. Usage: `!ping`",
		},
		{
			"user error",
			&dispatcher.RunError{Command: cmd, Cause: utils.UserErrorf("Nope.")},
			"Nope.",
		},
		{
			"handler failure",
			&dispatcher.RunError{Command: cmd, Cause: errors.New("db down")},
			"An unexpected error occurred while running this command.",
		},
		{
			"internal",
			&dispatcher.InternalError{Command: cmd, Cause: errors.New("boom")},
			"Something went wrong on my side.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorReply(tt.err, "!"))
		})
	}
}

func TestErrorSinkRepliesWithGuildPrefix(t *testing.T) {
	table, err := prefix.New("$")
	require.NoError(t, err)
	require.NoError(t, table.Set(5, "?"))

	sink := newErrorSink(table)
	msg := messagetest.New("?say", 1).InGuild(5)

	cmdErr := &dispatcher.DummyCommandError{Command: buildCommand(t)}
	require.NoError(t, sink(context.Background(), cmdErr, msg))
	assert.Equal(t, []string{"Use a subcommand. See `?help say`."}, msg.Replies())

	require.NoError(t, sink(context.Background(), &dispatcher.UnknownCommandError{}, msg))
	assert.Len(t, msg.Replies(), 1)
}
