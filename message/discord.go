package message

import (
	"context"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

var (
	_ Message       = (*Event)(nil)
	_ ChannelSource = (*Event)(nil)
	_ Embedder      = (*Event)(nil)
)

// Event adapts a disgo message create event.
type Event struct {
	event *events.MessageCreate
}

func FromEvent(event *events.MessageCreate) *Event {
	return &Event{event: event}
}

func (e *Event) Client() bot.Client {
	return e.event.Client()
}

func (e *Event) Content() string {
	return e.event.Message.Content
}

func (e *Event) AuthorID() snowflake.ID {
	return e.event.Message.Author.ID
}

func (e *Event) AuthorIsBot() bool {
	return e.event.Message.Author.Bot
}

func (e *Event) GuildID() *snowflake.ID {
	if e.event.Message.GuildID != nil {
		return e.event.Message.GuildID
	}
	return nil
}

func (e *Event) ChannelID() snowflake.ID {
	return e.event.ChannelID
}

func (e *Event) Say(ctx context.Context, content string) error {
	return e.SendTo(ctx, e.event.ChannelID, content)
}

func (e *Event) Reply(ctx context.Context, content string) error {
	builder := discord.NewMessageCreateBuilder().SetContent(content)

	builder.SetMessageReference(&discord.MessageReference{
		MessageID: &e.event.Message.ID,
	})

	_, err := e.event.Client().Rest().CreateMessage(
		e.event.ChannelID,
		builder.Build(),
		rest.WithCtx(ctx),
	)
	return err
}

func (e *Event) SendTo(ctx context.Context, channelID snowflake.ID, content string) error {
	builder := discord.NewMessageCreateBuilder().SetContent(content)

	_, err := e.event.Client().Rest().CreateMessage(
		channelID,
		builder.Build(),
		rest.WithCtx(ctx),
	)
	return err
}

// SendEmbed posts embed into the message's channel as a reply.
func (e *Event) SendEmbed(ctx context.Context, embed discord.Embed) error {
	builder := discord.NewMessageCreateBuilder().
		SetEmbeds(embed).
		SetMessageReference(&discord.MessageReference{MessageID: &e.event.Message.ID})

	_, err := e.event.Client().Rest().CreateMessage(
		e.event.ChannelID,
		builder.Build(),
		rest.WithCtx(ctx),
	)
	return err
}

func (e *Event) Channel(ctx context.Context, channelID snowflake.ID) (discord.Channel, error) {
	return e.event.Client().Rest().GetChannel(channelID, rest.WithCtx(ctx))
}

func (e *Event) GuildChannels(ctx context.Context, guildID snowflake.ID) ([]discord.GuildChannel, error) {
	return e.event.Client().Rest().GetGuildChannels(guildID, rest.WithCtx(ctx))
}
