// Package messagetest provides an in-memory message.Message for tests.
package messagetest

import (
	"context"
	"net/http"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"

	"github.com/goland-express/obey/message"
)

var (
	_ message.Message       = (*Message)(nil)
	_ message.ChannelSource = (*Message)(nil)
	_ message.Embedder      = (*Message)(nil)
)

type Message struct {
	Text      string
	Author    snowflake.ID
	Bot       bool
	Guild     *snowflake.ID
	InChannel snowflake.ID
	Channels  []discord.GuildChannel

	// ChannelErr, when set, is returned by every channel lookup.
	ChannelErr error

	mu      sync.Mutex
	replies []string
	embeds  []discord.Embed
	sent    map[snowflake.ID][]string
}

// New returns a direct message from author.
func New(text string, author snowflake.ID) *Message {
	return &Message{Text: text, Author: author, InChannel: 1}
}

// InGuild places the message in guildID.
func (m *Message) InGuild(guildID snowflake.ID) *Message {
	m.Guild = &guildID
	return m
}

func (m *Message) Content() string         { return m.Text }
func (m *Message) AuthorID() snowflake.ID  { return m.Author }
func (m *Message) AuthorIsBot() bool       { return m.Bot }
func (m *Message) GuildID() *snowflake.ID  { return m.Guild }
func (m *Message) ChannelID() snowflake.ID { return m.InChannel }

func (m *Message) Reply(_ context.Context, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, content)
	return nil
}

func (m *Message) Say(ctx context.Context, content string) error {
	return m.SendTo(ctx, m.InChannel, content)
}

func (m *Message) SendTo(_ context.Context, channelID snowflake.ID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sent == nil {
		m.sent = make(map[snowflake.ID][]string)
	}
	m.sent[channelID] = append(m.sent[channelID], content)
	return nil
}

func (m *Message) SendEmbed(_ context.Context, embed discord.Embed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embeds = append(m.embeds, embed)
	return nil
}

func (m *Message) Embeds() []discord.Embed {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]discord.Embed(nil), m.embeds...)
}

func (m *Message) Replies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.replies...)
}

func (m *Message) Sent(channelID snowflake.ID) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent[channelID]...)
}

func (m *Message) Channel(_ context.Context, channelID snowflake.ID) (discord.Channel, error) {
	if m.ChannelErr != nil {
		return nil, m.ChannelErr
	}
	for _, ch := range m.Channels {
		if ch.ID() == channelID {
			return ch, nil
		}
	}
	return nil, NotFound()
}

// NotFound is the REST error Discord answers with for an unknown resource.
func NotFound() error {
	return rest.Error{
		Response: &http.Response{StatusCode: http.StatusNotFound, Status: "404 Not Found"},
		Code:     10003,
		Message:  "Unknown Channel",
	}
}

func (m *Message) GuildChannels(_ context.Context, guildID snowflake.ID) ([]discord.GuildChannel, error) {
	if m.ChannelErr != nil {
		return nil, m.ChannelErr
	}
	var out []discord.GuildChannel
	for _, ch := range m.Channels {
		if ch.GuildID() == guildID {
			out = append(out, ch)
		}
	}
	return out, nil
}

// NewTextChannel builds a guild text channel the way the gateway would decode it.
func NewTextChannel(id, guildID snowflake.ID, name string) discord.GuildChannel {
	return decodeChannel(discord.ChannelTypeGuildText, id, guildID, name)
}

func NewVoiceChannel(id, guildID snowflake.ID, name string) discord.GuildChannel {
	return decodeChannel(discord.ChannelTypeGuildVoice, id, guildID, name)
}

func decodeChannel(kind discord.ChannelType, id, guildID snowflake.ID, name string) discord.GuildChannel {
	data, err := json.Marshal(map[string]any{
		"id":       id,
		"type":     kind,
		"guild_id": guildID,
		"name":     name,
	})
	if err != nil {
		panic(err)
	}
	var unmarshaled discord.UnmarshalChannel
	if err = json.Unmarshal(data, &unmarshaled); err != nil {
		panic(err)
	}
	return unmarshaled.Channel.(discord.GuildChannel)
}
