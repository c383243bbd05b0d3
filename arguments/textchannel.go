package arguments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/goland-express/obey/message"
)

var channelMentionPattern = regexp.MustCompile(`^<#(\d+)>$`)

var ErrNoChannelSource = errors.New("message cannot look up channels")

// parseTextChannel resolves a channel mention, or otherwise a case-insensitive
// name among the guild's text channels. It yields a discord.GuildChannel.
func parseTextChannel(ctx context.Context, raw, key string, msg message.Message) (any, error) {
	guildID := msg.GuildID()
	if guildID == nil {
		return nil, &TextChannelNotFoundError{Key: key, Search: raw}
	}

	source, ok := msg.(message.ChannelSource)
	if !ok {
		return nil, ErrNoChannelSource
	}

	if m := channelMentionPattern.FindStringSubmatch(raw); m != nil {
		return channelByMention(ctx, source, *guildID, m[1], raw, key)
	}

	channels, err := source.GuildChannels(ctx, *guildID)
	if err != nil {
		return nil, fmt.Errorf("list channels of guild %s: %w", guildID, err)
	}

	var matches []discord.GuildChannel
	for _, ch := range channels {
		if ch.Type() != discord.ChannelTypeGuildText {
			continue
		}
		if strings.EqualFold(ch.Name(), raw) {
			matches = append(matches, ch)
		}
	}

	switch len(matches) {
	case 0:
		return nil, &TextChannelNotFoundError{Key: key, Search: raw}
	case 1:
		return matches[0], nil
	default:
		return nil, &TextChannelMultipleFoundError{Key: key, Search: raw, Channels: matches}
	}
}

func channelByMention(ctx context.Context, source message.ChannelSource, guildID snowflake.ID, rawID, raw, key string) (any, error) {
	id, err := snowflake.Parse(rawID)
	if err != nil {
		return nil, &TextChannelNotFoundError{Key: key, Search: raw}
	}

	ch, err := source.Channel(ctx, id)
	if isInaccessible(err) {
		return nil, &TextChannelNotFoundError{Key: key, Search: raw}
	}
	if err != nil {
		return nil, fmt.Errorf("fetch channel %s: %w", id, err)
	}

	guildChannel, ok := ch.(discord.GuildChannel)
	if !ok || guildChannel.Type() != discord.ChannelTypeGuildText || guildChannel.GuildID() != guildID {
		return nil, &TextChannelNotFoundError{Key: key, Search: raw}
	}
	return guildChannel, nil
}

// isInaccessible reports whether err is Discord refusing the channel as
// missing or hidden from the bot.
func isInaccessible(err error) bool {
	if err == nil {
		return false
	}

	var resp *http.Response
	var restErr rest.Error
	var restErrPtr *rest.Error
	switch {
	case errors.As(err, &restErr):
		resp = restErr.Response
	case errors.As(err, &restErrPtr) && restErrPtr != nil:
		resp = restErrPtr.Response
	}
	if resp == nil {
		return false
	}
	return resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden
}
