// Package dispatcher turns inbound messages into command invocations.
//
// A dispatch moves through a fixed sequence of stages: the prefix is
// stripped, the rest is split into tokens, the tokens are resolved against
// the registry, the matched command's guards are checked (dummy, guild-only,
// permission, in that order), the remaining tokens are parsed as arguments,
// and the handler runs. Every failure after the prefix check ends the
// dispatch with one CommandError handed to the error sink.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/goland-express/obey/arguments"
	"github.com/goland-express/obey/message"
	"github.com/goland-express/obey/prefix"
	"github.com/goland-express/obey/registry"
	"github.com/goland-express/obey/types"
)

// PermissionsFunc resolves the caller's level. guildID is nil outside guilds.
type PermissionsFunc func(ctx context.Context, authorID snowflake.ID, guildID *snowflake.ID) (types.Permission, error)

// ErrorFunc receives every dispatch failure. A returned error or a panic is
// logged and otherwise ignored.
type ErrorFunc func(ctx context.Context, err CommandError, msg message.Message) error

type Options struct {
	Registry    *registry.Registry
	Prefixes    *prefix.Table
	Parser      *arguments.Parser
	Permissions PermissionsFunc
	OnError     ErrorFunc
	Data        registry.Data
	Logger      *slog.Logger
}

type Dispatcher struct {
	registry    *registry.Registry
	prefixes    *prefix.Table
	parser      *arguments.Parser
	permissions PermissionsFunc
	onError     ErrorFunc
	data        registry.Data
	logger      *slog.Logger
}

var (
	ErrNoRegistry    = errors.New("dispatcher: registry is required")
	ErrNoPrefixes    = errors.New("dispatcher: prefix table is required")
	ErrNoPermissions = errors.New("dispatcher: permissions getter is required")
)

// New validates the options and checks that every argument slot of every
// registered command names a known type. Commands must be registered before
// New is called.
func New(opts Options) (*Dispatcher, error) {
	if opts.Registry == nil {
		return nil, ErrNoRegistry
	}
	if opts.Prefixes == nil {
		return nil, ErrNoPrefixes
	}
	if opts.Permissions == nil {
		return nil, ErrNoPermissions
	}
	if opts.Parser == nil {
		opts.Parser = arguments.NewParser()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var checkErr error
	opts.Registry.Walk(func(cmd *registry.Command) bool {
		if err := opts.Parser.Check(cmd.Args()); err != nil {
			checkErr = &registry.ConfigurationError{Command: cmd.Name(), Reason: "invalid arguments", Err: err}
			return false
		}
		return true
	})
	if checkErr != nil {
		return nil, checkErr
	}

	return &Dispatcher{
		registry:    opts.Registry,
		prefixes:    opts.Prefixes,
		parser:      opts.Parser,
		permissions: opts.Permissions,
		onError:     opts.OnError,
		data:        opts.Data,
		logger:      opts.Logger,
	}, nil
}

// OnMessage is a disgo listener. Each message is dispatched on its own
// goroutine so a slow handler never holds up the gateway.
func (d *Dispatcher) OnMessage(event *events.MessageCreate) {
	go d.Dispatch(context.Background(), message.FromEvent(event))
}

// Dispatch runs one message through the pipeline. It returns the error that
// was handed to the sink, or nil when a command ran or the message was not
// a command at all.
func (d *Dispatcher) Dispatch(ctx context.Context, msg message.Message) CommandError {
	r := &run{msg: msg, guildID: msg.GuildID()}

	err := d.execute(ctx, r)
	if err == nil {
		return nil
	}

	d.report(ctx, r, err)
	return err
}

func (d *Dispatcher) execute(ctx context.Context, r *run) (cmdErr CommandError) {
	defer func() {
		if p := recover(); p != nil {
			cmdErr = &InternalError{Command: r.command, Cause: fmt.Errorf("panic after %s: %v", r.stage, p)}
		}
	}()

	if r.msg.AuthorIsBot() {
		return nil
	}
	if !d.stripPrefix(r) {
		return nil
	}
	r.tokenize()

	if err := d.resolve(r); err != nil {
		return err
	}
	if err := d.guard(ctx, r); err != nil {
		return err
	}
	if err := d.parseArgs(ctx, r); err != nil {
		return err
	}
	if err := d.invoke(ctx, r); err != nil {
		return err
	}

	r.stage = StageDone
	return nil
}

func (d *Dispatcher) stripPrefix(r *run) bool {
	p := d.prefixes.For(r.guildID)
	content := r.msg.Content()
	if !strings.HasPrefix(content, p) {
		d.logger.Debug("Ignoring message without prefix", slog.String("author_id", r.msg.AuthorID().String()))
		return false
	}

	r.prefix = p
	r.text = content[len(p):]
	r.stage = StagePrefixChecked
	return true
}

func (d *Dispatcher) resolve(r *run) CommandError {
	cmd, consumed, ok := d.registry.Resolve(r.tokens)
	if !ok {
		name := ""
		if len(r.tokens) > 0 {
			name = r.tokens[0]
		}
		return &UnknownCommandError{Name: name}
	}

	r.command = cmd
	r.consumed = consumed
	r.stage = StageResolved
	return nil
}

func (d *Dispatcher) guard(ctx context.Context, r *run) CommandError {
	cmd := r.command

	if cmd.Dummy() {
		return &DummyCommandError{Command: cmd}
	}
	if cmd.GuildOnly() && r.guildID == nil {
		return &GuildOnlyError{Command: cmd}
	}

	actual, err := d.permissions(ctx, r.msg.AuthorID(), r.guildID)
	if err != nil {
		return &InternalError{Command: cmd, Cause: fmt.Errorf("resolve permissions: %w", err)}
	}
	if !actual.Satisfies(cmd.Permission()) {
		return &MissingPermissionsError{Command: cmd, Required: cmd.Permission(), Actual: actual}
	}

	r.stage = StageGuarded
	return nil
}

func (d *Dispatcher) parseArgs(ctx context.Context, r *run) CommandError {
	args, err := d.parser.Parse(ctx, r.command.Args(), r.tokens[r.consumed:], r.msg)
	if err != nil {
		var argErr arguments.Error
		if errors.As(err, &argErr) {
			return &InvalidArgumentsError{Command: r.command, Err: argErr}
		}
		return &InternalError{Command: r.command, Cause: fmt.Errorf("parse arguments: %w", err)}
	}

	r.args = args
	r.stage = StageArgsParsed
	return nil
}

func (d *Dispatcher) invoke(ctx context.Context, r *run) (cmdErr CommandError) {
	defer func() {
		if p := recover(); p != nil {
			cmdErr = &RunError{Command: r.command, Cause: fmt.Errorf("handler panic: %v", p)}
		}
	}()

	hctx := registry.NewContext(ctx, registry.Invocation{
		Message:  r.msg,
		Command:  r.command,
		Args:     r.args,
		Prefix:   r.prefix,
		Registry: d.registry,
		Data:     d.data,
	})

	r.stage = StageInvoked
	err := r.command.Run(hctx)
	switch {
	case errors.Is(err, registry.ErrNoHandler):
		return &InternalError{Command: r.command, Cause: err}
	case err != nil:
		return &RunError{Command: r.command, Cause: err}
	}
	return nil
}
