// Package message describes the inbound chat message the dispatcher works on.
// The core only needs the text, who sent it, where, and a way to answer.
package message

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

type Message interface {
	Content() string
	AuthorID() snowflake.ID
	AuthorIsBot() bool
	// GuildID is nil for direct messages.
	GuildID() *snowflake.ID
	ChannelID() snowflake.ID
	// Reply answers the message, referencing it.
	Reply(ctx context.Context, content string) error
	// Say posts into the message's channel without a reference.
	Say(ctx context.Context, content string) error
}

// ChannelSource is implemented by messages backed by a platform client able
// to look up channels. Type parsers that resolve channels require it.
type ChannelSource interface {
	Channel(ctx context.Context, channelID snowflake.ID) (discord.Channel, error)
	GuildChannels(ctx context.Context, guildID snowflake.ID) ([]discord.GuildChannel, error)
	SendTo(ctx context.Context, channelID snowflake.ID, content string) error
}

// Embedder is implemented by messages whose platform renders rich embeds.
type Embedder interface {
	SendEmbed(ctx context.Context, embed discord.Embed) error
}
