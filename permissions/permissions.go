// Package permissions resolves a caller's permission level.
package permissions

import (
	"context"

	"github.com/disgoorg/snowflake/v2"

	"github.com/goland-express/obey/types"
)

// GuildInfo answers guild-scoped questions about a user.
type GuildInfo interface {
	GuildOwner(guildID snowflake.ID) (snowflake.ID, bool)
	IsAdministrator(guildID, userID snowflake.ID) bool
}

// Resolver ranks bot owners and bot admins from configuration, then the
// guild owner and guild administrators, and everyone else as User.
type Resolver struct {
	owners map[snowflake.ID]struct{}
	admins map[snowflake.ID]struct{}
	guilds GuildInfo
}

func NewResolver(owners, admins []snowflake.ID, guilds GuildInfo) *Resolver {
	return &Resolver{
		owners: toSet(owners),
		admins: toSet(admins),
		guilds: guilds,
	}
}

func toSet(ids []snowflake.ID) map[snowflake.ID]struct{} {
	set := make(map[snowflake.ID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (r *Resolver) Permission(_ context.Context, userID snowflake.ID, guildID *snowflake.ID) (types.Permission, error) {
	if _, ok := r.owners[userID]; ok {
		return types.PermissionOwner, nil
	}
	if _, ok := r.admins[userID]; ok {
		return types.PermissionAdmin, nil
	}
	if guildID == nil || r.guilds == nil {
		return types.PermissionUser, nil
	}
	if owner, ok := r.guilds.GuildOwner(*guildID); ok && owner == userID {
		return types.PermissionServerOwner, nil
	}
	if r.guilds.IsAdministrator(*guildID, userID) {
		return types.PermissionServerAdmin, nil
	}
	return types.PermissionUser, nil
}
