package modules

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"

	"github.com/goland-express/obey/arguments"
	"github.com/goland-express/obey/message"
	"github.com/goland-express/obey/prefix"
	"github.com/goland-express/obey/registry"
	"github.com/goland-express/obey/types"
	"github.com/goland-express/obey/utils"
)

type CoreModule struct {
	Prefixes         *prefix.Table
	// PrefixPermission is required to change a server's prefix.
	PrefixPermission types.Permission
}

func (m *CoreModule) Name() string {
	return "Core"
}

func (m *CoreModule) Commands() []registry.Declaration {
	return []registry.Declaration{
		{
			Name:        "help",
			Alias:       "h",
			Description: "Lists commands, or describes one command",
			Args: []arguments.Slot{
				{Key: "command", Type: arguments.TypeString, CatchAll: true},
			},
			Execute: m.executeHelp,
		},
		{
			Name:        "ping",
			Description: "Checks that the bot is responding",
			Execute:     m.executePing,
		},
		{
			Name:        "prefix",
			Description: "Shows the command prefix used here",
			Execute:     m.executePrefix,
			Subcommands: []registry.Declaration{
				{
					Name:        "set",
					Description: "Sets the command prefix for this server",
					GuildOnly:   utils.Ptr(true),
					Permission:  m.PrefixPermission.Ptr(),
					Args: []arguments.Slot{
						{Key: "prefix", Type: arguments.TypeString},
					},
					Execute: m.executePrefixSet,
				},
				{
					Name:        "reset",
					Description: "Restores the default command prefix for this server",
					GuildOnly:   utils.Ptr(true),
					Permission:  m.PrefixPermission.Ptr(),
					Execute:     m.executePrefixReset,
				},
			},
		},
	}
}

func (m *CoreModule) executeHelp(ctx *registry.Context) error {
	name := ctx.Args().Strings("command")
	if len(name) == 0 {
		return ctx.Say(renderCommandList(ctx.Prefix(), ctx.Registry().Commands()))
	}

	cmd, ok := ctx.Registry().Lookup(name)
	if !ok {
		return utils.UserErrorf("Command %s%s not found", ctx.Prefix(), strings.Join(name, " "))
	}
	return ctx.Say(renderCommand(ctx.Prefix(), cmd))
}

func renderCommand(p string, cmd *registry.Command) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "**%s%s**", p, cmd.Name())
	if usage := cmd.Usage(); usage != "" {
		fmt.Fprintf(&sb, " `%s`", usage)
	}
	if cmd.Description() != "" {
		sb.WriteString("\n" + cmd.Description())
	}
	if cmd.Alias() != "" {
		fmt.Fprintf(&sb, "\nAlias: %s%s", p, cmd.Alias())
	}
	if subs := cmd.Subcommands(); len(subs) > 0 {
		names := make([]string, 0, len(subs))
		for _, sub := range subs {
			names = append(names, sub.ShortName())
		}
		fmt.Fprintf(&sb, "\nSubcommands: %s", strings.Join(names, ", "))
	}
	if cmd.Group() != "" {
		fmt.Fprintf(&sb, "\nGroup: %s", cmd.Group())
	}
	if cmd.Permission() != types.PermissionUser {
		fmt.Fprintf(&sb, "\nRequires: %s", cmd.Permission())
	}

	return sb.String()
}

func renderCommandList(p string, cmds []*registry.Command) string {
	var (
		groups []string
		byName = make(map[string][]*registry.Command)
	)
	for _, cmd := range cmds {
		if _, ok := byName[cmd.Group()]; !ok {
			groups = append(groups, cmd.Group())
		}
		byName[cmd.Group()] = append(byName[cmd.Group()], cmd)
	}

	var sb strings.Builder
	for i, group := range groups {
		if i > 0 {
			sb.WriteString("\n")
		}
		title := group
		if title == "" {
			title = "No group"
		}
		fmt.Fprintf(&sb, "__**%s**__\n", title)
		for _, cmd := range byName[group] {
			fmt.Fprintf(&sb, "**%s%s**", p, cmd.Name())
			if cmd.Description() != "" {
				sb.WriteString(": " + cmd.Description())
			}
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m *CoreModule) executePing(ctx *registry.Context) error {
	var lines []string

	if data, ok := ctx.Data().(*types.BotData); ok && !data.StartTime.IsZero() {
		lines = append(lines, fmt.Sprintf("Uptime: **%s**", utils.FormatDuration(time.Since(data.StartTime))))
	}

	if ev, ok := ctx.Message().(*message.Event); ok && ev.Client().HasGateway() {
		gw := ev.Client().Gateway()
		lines = append(lines,
			fmt.Sprintf("Latency: **%dms**", gw.Latency().Milliseconds()),
			fmt.Sprintf("Shard: **%d**", gw.ShardID()),
		)
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("Pong").
		SetDescription(strings.Join(lines, "\n")).
		SetColor(0x00FF00).
		SetTimestamp(time.Now()).
		Build()

	err := ctx.SendEmbed(embed)
	if errors.Is(err, registry.ErrCannotEmbed) {
		return ctx.Reply("Pong!\n" + embed.Description)
	}
	return err
}

func (m *CoreModule) executePrefix(ctx *registry.Context) error {
	return ctx.Reply(fmt.Sprintf("The prefix here is `%s`", m.Prefixes.For(ctx.GuildID())))
}

func (m *CoreModule) executePrefixSet(ctx *registry.Context) error {
	p, _ := ctx.Args().String("prefix")
	if err := m.Prefixes.Set(*ctx.GuildID(), p); err != nil {
		return utils.UserErrorf("Invalid prefix: %v", err)
	}
	return ctx.Reply(fmt.Sprintf("Prefix set to `%s`", p))
}

func (m *CoreModule) executePrefixReset(ctx *registry.Context) error {
	m.Prefixes.Reset(*ctx.GuildID())
	return ctx.Reply(fmt.Sprintf("Prefix reset to `%s`", m.Prefixes.Global()))
}
