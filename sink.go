package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goland-express/obey/arguments"
	"github.com/goland-express/obey/dispatcher"
	"github.com/goland-express/obey/message"
	"github.com/goland-express/obey/prefix"
	"github.com/goland-express/obey/utils"
)

func newErrorSink(prefixes *prefix.Table) dispatcher.ErrorFunc {
	return func(ctx context.Context, err dispatcher.CommandError, msg message.Message) error {
		reply := errorReply(err, prefixes.For(msg.GuildID()))
		if reply == "" {
			return nil
		}
		return msg.Reply(ctx, reply)
	}
}

// errorReply renders what the caller sees for err. Unknown commands get no
// reply so that other bots sharing the prefix are not answered.
func errorReply(err dispatcher.CommandError, p string) string {
	switch e := err.(type) {
	case *dispatcher.UnknownCommandError:
		return ""
	case *dispatcher.DummyCommandError:
		return fmt.Sprintf("Use a subcommand. See `%shelp %s`.", p, e.Command.Name())
	case *dispatcher.GuildOnlyError:
		return "This command can only be used in a server."
	case *dispatcher.MissingPermissionsError:
		return fmt.Sprintf("You need the %s permission to use this command.", e.Required)
	case *dispatcher.InvalidArgumentsError:
		return argumentReply(e, p)
	case *dispatcher.RunError:
		var userErr *utils.UserError
		if errors.As(e, &userErr) {
			return userErr.Error()
		}
		return "An unexpected error occurred while running this command."
	default:
		return "Something went wrong on my side."
	}
}

func argumentReply(e *dispatcher.InvalidArgumentsError, p string) string {
	invocation := p + e.Command.Name()
	if slots := e.Command.Usage(); slots != "" {
		invocation += " " + slots
	}
	usage := fmt.Sprintf("Usage: `%s`", invocation)

	switch a := e.Err.(type) {
	case *arguments.ExtraArgumentsError:
		return "Too many arguments. " + usage
	case *arguments.MissingArgumentsError:
		return fmt.Sprintf("Missing %s. %s", strings.Join(a.Keys, ", "), usage)
	case *arguments.WrongArgumentTypeError:
		return fmt.Sprintf("`%s` is not a valid %s for %s. %s", a.Value, a.ExpectedType, a.Key, usage)
	case *arguments.TextChannelNotFoundError:
		return fmt.Sprintf("No text channel matches `%s`.", a.Search)
	case *arguments.TextChannelMultipleFoundError:
		return fmt.Sprintf("Several text channels match `%s`, mention the one you mean.", a.Search)
	default:
		return e.Err.Error()
	}
}
