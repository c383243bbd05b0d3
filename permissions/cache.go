package permissions

import (
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

var _ GuildInfo = (*CacheGuilds)(nil)

// CacheGuilds reads guild ownership and member permissions from the disgo
// cache. Client must be set before the gateway is opened.
type CacheGuilds struct {
	Client bot.Client
}

func (c *CacheGuilds) GuildOwner(guildID snowflake.ID) (snowflake.ID, bool) {
	if c.Client == nil {
		return 0, false
	}
	guild, ok := c.Client.Caches().Guild(guildID)
	if !ok {
		return 0, false
	}
	return guild.OwnerID, true
}

func (c *CacheGuilds) IsAdministrator(guildID, userID snowflake.ID) bool {
	if c.Client == nil {
		return false
	}
	member, ok := c.Client.Caches().Member(guildID, userID)
	if !ok {
		return false
	}
	return c.Client.Caches().MemberPermissions(member).Has(discord.PermissionAdministrator)
}
