package registry

import (
	"context"
	"errors"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/goland-express/obey/arguments"
	"github.com/goland-express/obey/message"
)

type Data any

// Invocation is everything the dispatcher knows once a command is ready to run.
type Invocation struct {
	Message  message.Message
	Command  *Command
	Args     arguments.Args
	Prefix   string
	Registry *Registry
	Data     Data
}

// Context is handed to command handlers.
type Context struct {
	ctx context.Context
	inv Invocation
}

var (
	ErrCannotSend  = errors.New("message source cannot send to other channels")
	ErrCannotEmbed = errors.New("message source cannot send embeds")
)

func NewContext(ctx context.Context, inv Invocation) *Context {
	if inv.Args == nil {
		inv.Args = arguments.Args{}
	}
	return &Context{ctx: ctx, inv: inv}
}

func (c *Context) Context() context.Context {
	return c.ctx
}

func (c *Context) Message() message.Message {
	return c.inv.Message
}

func (c *Context) Command() *Command {
	return c.inv.Command
}

func (c *Context) Args() arguments.Args {
	return c.inv.Args
}

// Prefix is the prefix the invoking message used.
func (c *Context) Prefix() string {
	return c.inv.Prefix
}

func (c *Context) Registry() *Registry {
	return c.inv.Registry
}

func (c *Context) Data() Data {
	return c.inv.Data
}

func (c *Context) GuildID() *snowflake.ID {
	return c.inv.Message.GuildID()
}

func (c *Context) AuthorID() snowflake.ID {
	return c.inv.Message.AuthorID()
}

func (c *Context) ChannelID() snowflake.ID {
	return c.inv.Message.ChannelID()
}

func (c *Context) Say(content string) error {
	return c.inv.Message.Say(c.ctx, content)
}

func (c *Context) Reply(content string) error {
	return c.inv.Message.Reply(c.ctx, content)
}

func (c *Context) SendTo(channelID snowflake.ID, content string) error {
	source, ok := c.inv.Message.(message.ChannelSource)
	if !ok {
		return ErrCannotSend
	}
	return source.SendTo(c.ctx, channelID, content)
}

func (c *Context) SendEmbed(embed discord.Embed) error {
	embedder, ok := c.inv.Message.(message.Embedder)
	if !ok {
		return ErrCannotEmbed
	}
	return embedder.SendEmbed(c.ctx, embed)
}
