package dispatcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goland-express/obey/arguments"
	"github.com/goland-express/obey/message"
	"github.com/goland-express/obey/message/messagetest"
	"github.com/goland-express/obey/prefix"
	"github.com/goland-express/obey/registry"
	"github.com/goland-express/obey/types"
	"github.com/goland-express/obey/utils"
)

const (
	userID  snowflake.ID = 100
	ownerID snowflake.ID = 200
	guildID snowflake.ID = 300
)

type harness struct {
	reg      *registry.Registry
	prefixes *prefix.Table
	disp     *Dispatcher

	mu     sync.Mutex
	sunk   []CommandError
	called map[string]arguments.Args
}

func newHarness() *harness {
	return &harness{reg: registry.New(), called: make(map[string]arguments.Args)}
}

// start registers decls and builds the dispatcher.
func (h *harness) start(t *testing.T, decls ...registry.Declaration) *harness {
	t.Helper()
	require.NoError(t, h.reg.Add(decls...))

	table, err := prefix.New("$")
	require.NoError(t, err)
	h.prefixes = table

	h.disp, err = New(Options{
		Registry: h.reg,
		Prefixes: table,
		Permissions: func(_ context.Context, author snowflake.ID, _ *snowflake.ID) (types.Permission, error) {
			if author == ownerID {
				return types.PermissionOwner, nil
			}
			return types.PermissionUser, nil
		},
		OnError: func(_ context.Context, err CommandError, _ message.Message) error {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.sunk = append(h.sunk, err)
			return nil
		},
	})
	require.NoError(t, err)
	return h
}

func (h *harness) record(ctx *registry.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.called[ctx.Command().Name()] = ctx.Args()
	return nil
}

func (h *harness) dispatch(msg message.Message) CommandError {
	return h.disp.Dispatch(context.Background(), msg)
}

func (h *harness) testTree() registry.Declaration {
	return registry.Declaration{
		Name:    "test",
		Execute: h.record,
		Subcommands: []registry.Declaration{
			{
				Name:       "sub",
				Permission: types.PermissionOwner.Ptr(),
				Execute:    h.record,
			},
		},
	}
}

func TestDispatch_SubcommandPermissions(t *testing.T) {
	h := newHarness()
	h.start(t, h.testTree())

	err := h.dispatch(messagetest.New("$test sub", userID))
	var missing *MissingPermissionsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, types.PermissionOwner, missing.Required)
	assert.Equal(t, types.PermissionUser, missing.Actual)
	assert.Equal(t, "test sub", missing.Command.Name())
	assert.Empty(t, h.called)

	require.Len(t, h.sunk, 1)
	assert.Same(t, err, h.sunk[0])

	err = h.dispatch(messagetest.New("$test sub", ownerID))
	require.Nil(t, err)
	require.Contains(t, h.called, "test sub")
	assert.Empty(t, h.called["test sub"])
	assert.Len(t, h.sunk, 1)
}

func TestDispatch_RootRunsForUser(t *testing.T) {
	h := newHarness()
	h.start(t, h.testTree())

	require.Nil(t, h.dispatch(messagetest.New("$test", userID)))
	assert.Contains(t, h.called, "test")
}

func TestDispatch_GuardOrder(t *testing.T) {
	h := newHarness()
	h.start(t, registry.Declaration{
		Name:       "locked",
		Dummy:      true,
		GuildOnly:  utils.Ptr(true),
		Permission: types.PermissionOwner.Ptr(),
		Subcommands: []registry.Declaration{
			{Name: "inner", Execute: h.record},
		},
	})

	err := h.dispatch(messagetest.New("$locked", userID))
	assert.IsType(t, &DummyCommandError{}, err)

	err = h.dispatch(messagetest.New("$locked inner", userID))
	assert.IsType(t, &GuildOnlyError{}, err)

	err = h.dispatch(messagetest.New("$locked inner", userID).InGuild(guildID))
	assert.IsType(t, &MissingPermissionsError{}, err)

	err = h.dispatch(messagetest.New("$locked inner", ownerID).InGuild(guildID))
	assert.Nil(t, err)
}

func TestDispatch_PermissionGetterNotCalledForEarlierGuards(t *testing.T) {
	calls := 0
	reg := registry.New()
	require.NoError(t, reg.Add(registry.Declaration{Name: "box", Dummy: true}))
	table, _ := prefix.New("$")

	d, err := New(Options{
		Registry: reg,
		Prefixes: table,
		Permissions: func(context.Context, snowflake.ID, *snowflake.ID) (types.Permission, error) {
			calls++
			return types.PermissionOwner, nil
		},
	})
	require.NoError(t, err)

	assert.IsType(t, &DummyCommandError{}, d.Dispatch(context.Background(), messagetest.New("$box", userID)))
	assert.Zero(t, calls)
}

func TestDispatch_SilentWithoutPrefix(t *testing.T) {
	h := newHarness()
	h.start(t, h.testTree())

	assert.Nil(t, h.dispatch(messagetest.New("test", userID)))
	assert.Nil(t, h.dispatch(messagetest.New(" $test", userID)))
	assert.Empty(t, h.sunk)
	assert.Empty(t, h.called)
}

func TestDispatch_IgnoresBots(t *testing.T) {
	h := newHarness()
	h.start(t, h.testTree())

	msg := messagetest.New("$test", userID)
	msg.Bot = true
	assert.Nil(t, h.dispatch(msg))
	assert.Empty(t, h.called)
}

func TestDispatch_UnknownCommand(t *testing.T) {
	h := newHarness()
	h.start(t, h.testTree())

	err := h.dispatch(messagetest.New("$nope sub", userID))
	var unknown *UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Name)

	err = h.dispatch(messagetest.New("$   ", userID))
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "", unknown.Name)
	assert.Len(t, h.sunk, 2)
}

func TestDispatch_GuildPrefix(t *testing.T) {
	h := newHarness()
	h.start(t, h.testTree())
	require.NoError(t, h.prefixes.Set(guildID, "!"))

	assert.Nil(t, h.dispatch(messagetest.New("$test", userID).InGuild(guildID)))
	assert.Empty(t, h.called)

	assert.Nil(t, h.dispatch(messagetest.New("!test", userID).InGuild(guildID)))
	assert.Contains(t, h.called, "test")

	assert.Nil(t, h.dispatch(messagetest.New("$test", userID)))
}

func TestDispatch_Arguments(t *testing.T) {
	h := newHarness()
	h.start(t, registry.Declaration{
		Name:  "add",
		Alias: "plus",
		Args: []arguments.Slot{
			{Key: "a", Type: arguments.TypeNumber},
			{Key: "rest", Type: arguments.TypeNumber, CatchAll: true},
		},
		Execute: h.record,
	})

	require.Nil(t, h.dispatch(messagetest.New("$add  1\t2   3", userID)))
	assert.Equal(t, arguments.Args{"a": float64(1), "rest": []any{float64(2), float64(3)}}, h.called["add"])

	require.Nil(t, h.dispatch(messagetest.New("$plus 4", userID)))
	assert.Equal(t, arguments.Args{"a": float64(4), "rest": []any{}}, h.called["add"])

	err := h.dispatch(messagetest.New("$add one", userID))
	var invalid *InvalidArgumentsError
	require.ErrorAs(t, err, &invalid)
	var wrong *arguments.WrongArgumentTypeError
	require.ErrorAs(t, err, &wrong)
	assert.Equal(t, "a", wrong.Key)

	err = h.dispatch(messagetest.New("$add", userID))
	var missing *arguments.MissingArgumentsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"a"}, missing.Keys)
}

func TestDispatch_LeftoverTokensAreArguments(t *testing.T) {
	h := newHarness()
	h.start(t, h.testTree())

	err := h.dispatch(messagetest.New("$test other", ownerID))
	var extra *arguments.ExtraArgumentsError
	require.ErrorAs(t, err, &extra)
	assert.Equal(t, 0, extra.MaxArgs)
}

func TestDispatch_HandlerFailures(t *testing.T) {
	boom := errors.New("boom")
	h := newHarness()
	h.start(t,
		registry.Declaration{Name: "fail", Execute: func(*registry.Context) error { return boom }},
		registry.Declaration{Name: "panic", Execute: func(*registry.Context) error { panic("kaboom") }},
		registry.Declaration{Name: "user", Execute: func(*registry.Context) error { return utils.UserErrorf("nope") }},
	)

	err := h.dispatch(messagetest.New("$fail", userID))
	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.ErrorIs(t, err, boom)

	err = h.dispatch(messagetest.New("$panic", userID))
	require.ErrorAs(t, err, &runErr)
	assert.Contains(t, runErr.Cause.Error(), "kaboom")

	err = h.dispatch(messagetest.New("$user", userID))
	var userErr *utils.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "nope", userErr.Message)
}

func TestDispatch_CollaboratorFailuresAreInternal(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Add(
		registry.Declaration{Name: "ping", Execute: func(*registry.Context) error { return nil }},
		registry.Declaration{
			Name:    "lookup",
			Args:    []arguments.Slot{{Key: "x", Type: "remote"}},
			Execute: func(*registry.Context) error { return nil },
		},
	))
	table, _ := prefix.New("$")
	parser := arguments.NewParser()
	parser.Register("remote", func(context.Context, string, string, message.Message) (any, error) {
		return nil, errors.New("network down")
	})

	denied := errors.New("permission service unavailable")
	fail := true
	d, err := New(Options{
		Registry: reg,
		Prefixes: table,
		Parser:   parser,
		Permissions: func(context.Context, snowflake.ID, *snowflake.ID) (types.Permission, error) {
			if fail {
				return 0, denied
			}
			return types.PermissionUser, nil
		},
	})
	require.NoError(t, err)

	got := d.Dispatch(context.Background(), messagetest.New("$ping", userID))
	var internal *InternalError
	require.ErrorAs(t, got, &internal)
	assert.ErrorIs(t, got, denied)

	fail = false
	got = d.Dispatch(context.Background(), messagetest.New("$lookup a", userID))
	require.ErrorAs(t, got, &internal)
	assert.Equal(t, KindInternalError, got.Kind())
}

func TestDispatch_SinkPanicIsContained(t *testing.T) {
	reg := registry.New()
	table, _ := prefix.New("$")
	d, err := New(Options{
		Registry: reg,
		Prefixes: table,
		Permissions: func(context.Context, snowflake.ID, *snowflake.ID) (types.Permission, error) {
			return types.PermissionUser, nil
		},
		OnError: func(context.Context, CommandError, message.Message) error {
			panic("sink exploded")
		},
	})
	require.NoError(t, err)

	var got CommandError
	assert.NotPanics(t, func() {
		got = d.Dispatch(context.Background(), messagetest.New("$anything", userID))
	})
	assert.IsType(t, &UnknownCommandError{}, got)
}

func TestDispatch_SinkErrorIsLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))

	table, _ := prefix.New("$")
	sinkErr := errors.New("reply failed")
	calls := 0
	d, err := New(Options{
		Registry: registry.New(),
		Prefixes: table,
		Logger:   logger,
		Permissions: func(context.Context, snowflake.ID, *snowflake.ID) (types.Permission, error) {
			return types.PermissionUser, nil
		},
		OnError: func(context.Context, CommandError, message.Message) error {
			calls++
			return sinkErr
		},
	})
	require.NoError(t, err)

	got := d.Dispatch(context.Background(), messagetest.New("$missing", userID))

	var unknown *UnknownCommandError
	require.ErrorAs(t, got, &unknown)
	assert.Equal(t, "missing", unknown.Name)
	assert.NotErrorIs(t, got, sinkErr)
	assert.Equal(t, 1, calls)
	assert.Contains(t, logs.String(), "Error handler failed")
	assert.Contains(t, logs.String(), "reply failed")
}

func TestNew_Validation(t *testing.T) {
	table, _ := prefix.New("$")
	perms := func(context.Context, snowflake.ID, *snowflake.ID) (types.Permission, error) {
		return types.PermissionUser, nil
	}

	_, err := New(Options{Prefixes: table, Permissions: perms})
	assert.ErrorIs(t, err, ErrNoRegistry)
	_, err = New(Options{Registry: registry.New(), Permissions: perms})
	assert.ErrorIs(t, err, ErrNoPrefixes)
	_, err = New(Options{Registry: registry.New(), Prefixes: table})
	assert.ErrorIs(t, err, ErrNoPermissions)

	reg := registry.New()
	require.NoError(t, reg.Add(registry.Declaration{
		Name:        "outer",
		Dummy:       true,
		Subcommands: []registry.Declaration{{Name: "inner", Args: []arguments.Slot{{Key: "c", Type: "colour"}}, Execute: func(*registry.Context) error { return nil }}},
	}))
	_, err = New(Options{Registry: reg, Prefixes: table, Permissions: perms})
	var cfgErr *registry.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "outer inner", cfgErr.Command)
	var unknown *arguments.UnknownTypeError
	assert.ErrorAs(t, err, &unknown)
}

func TestDispatch_Concurrent(t *testing.T) {
	h := newHarness()
	h.start(t, registry.Declaration{
		Name:    "echo",
		Args:    []arguments.Slot{{Key: "n", Type: arguments.TypeInteger}},
		Execute: func(ctx *registry.Context) error { return ctx.Reply(fmt.Sprint(ctx.Args()["n"])) },
	})

	var wg sync.WaitGroup
	msgs := make([]*messagetest.Message, 32)
	for i := range msgs {
		msgs[i] = messagetest.New(fmt.Sprintf("$echo %d", i), userID)
		wg.Add(1)
		go func(m *messagetest.Message) {
			defer wg.Done()
			assert.Nil(t, h.dispatch(m))
		}(msgs[i])
	}
	wg.Wait()

	for i, m := range msgs {
		assert.Equal(t, []string{fmt.Sprint(i)}, m.Replies())
	}
}

func TestErrorDetail(t *testing.T) {
	cmd, err := registry.Build(registry.Declaration{Name: "x", Execute: func(*registry.Context) error { return nil }})
	require.NoError(t, err)

	detail := errorDetail(&MissingPermissionsError{Command: cmd, Required: types.PermissionAdmin, Actual: types.PermissionUser})
	assert.JSONEq(t, `{"kind":"missing-permissions","command":"x","required":"Admin","actual":"User"}`, detail)

	detail = errorDetail(&InvalidArgumentsError{Command: cmd, Err: &arguments.MissingArgumentsError{Keys: []string{"a"}}})
	assert.JSONEq(t, `{"kind":"invalid-arguments","command":"x","argument_error":"missing-arguments","argument":{"keys":["a"]}}`, detail)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "args-parsed", StageArgsParsed.String())
	assert.Equal(t, "unknown", Stage(42).String())
}
