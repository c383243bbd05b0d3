package modules

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"

	"github.com/goland-express/obey/arguments"
	"github.com/goland-express/obey/registry"
	"github.com/goland-express/obey/types"
	"github.com/goland-express/obey/utils"
)

type AdminModule struct{}

func (m *AdminModule) Name() string {
	return "Admin"
}

func (m *AdminModule) Commands() []registry.Declaration {
	return []registry.Declaration{
		{
			Name:        "say",
			Description: "Posts a message in another channel",
			GuildOnly:   utils.Ptr(true),
			Permission:  types.PermissionServerAdmin.Ptr(),
			Args: []arguments.Slot{
				{Key: "channel", Type: arguments.TypeTextChannel},
				{Key: "text", Type: arguments.TypeString, CatchAll: true},
			},
			Execute: m.executeSay,
		},
	}
}

func (m *AdminModule) executeSay(ctx *registry.Context) error {
	channel, ok := ctx.Args()["channel"].(discord.GuildChannel)
	if !ok {
		return fmt.Errorf("channel argument has type %T", ctx.Args()["channel"])
	}

	text := strings.Join(ctx.Args().Strings("text"), " ")
	if text == "" {
		return utils.UserErrorf("Tell me what to say.")
	}

	if err := ctx.SendTo(channel.ID(), text); err != nil {
		return fmt.Errorf("send to channel %s: %w", channel.ID(), err)
	}
	return ctx.Reply(fmt.Sprintf("Sent to <#%s>", channel.ID()))
}
