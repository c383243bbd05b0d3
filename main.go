package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"

	"github.com/goland-express/obey/config"
	"github.com/goland-express/obey/dispatcher"
	"github.com/goland-express/obey/logging"
	"github.com/goland-express/obey/modules"
	"github.com/goland-express/obey/permissions"
	"github.com/goland-express/obey/prefix"
	"github.com/goland-express/obey/registry"
	"github.com/goland-express/obey/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger, closeLog, err := logging.Setup(logging.Config{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	if err != nil {
		slog.Error("Failed to set up logging", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeLog()

	owners, err := cfg.OwnerIDs()
	if err != nil {
		logger.Error("Invalid owner list", slog.Any("error", err))
		os.Exit(1)
	}
	admins, err := cfg.AdminIDs()
	if err != nil {
		logger.Error("Invalid admin list", slog.Any("error", err))
		os.Exit(1)
	}

	prefixes, err := prefix.New(cfg.Prefix)
	if err != nil {
		logger.Error("Invalid prefix", slog.Any("error", err))
		os.Exit(1)
	}

	reg := registry.New()
	err = modules.Register(reg,
		&modules.CoreModule{Prefixes: prefixes, PrefixPermission: cfg.PrefixPermission},
		&modules.FunModule{},
		&modules.AdminModule{},
	)
	if err != nil {
		logger.Error("Failed to register commands", slog.Any("error", err))
		os.Exit(1)
	}

	guilds := &permissions.CacheGuilds{}
	resolver := permissions.NewResolver(owners, admins, guilds)

	disp, err := dispatcher.New(dispatcher.Options{
		Registry:    reg,
		Prefixes:    prefixes,
		Permissions: resolver.Permission,
		OnError:     newErrorSink(prefixes),
		Data:        &types.BotData{StartTime: time.Now()},
		Logger:      logger,
	})
	if err != nil {
		logger.Error("Failed to create dispatcher", slog.Any("error", err))
		os.Exit(1)
	}

	client, err := disgo.New(cfg.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentDirectMessages,
				gateway.IntentMessageContent,
				gateway.IntentGuildMembers,
			),
		),
		bot.WithCacheConfigOpts(
			cache.WithCaches(cache.FlagGuilds, cache.FlagMembers, cache.FlagRoles),
		),
		bot.WithEventListenerFunc(disp.OnMessage),
		bot.WithEventListenerFunc(func(event *events.Ready) {
			logger.Info("Bot is ready",
				slog.String("username", event.User.Username),
				slog.String("user_id", event.User.ID.String()),
				slog.Int("guilds", len(event.Guilds)),
				slog.String("prefix", prefixes.Global()),
				slog.Int("commands", len(reg.Commands())),
				slog.String("go_version", runtime.Version()),
				slog.String("disgo_version", disgo.Version),
			)
		}),
	)
	if err != nil {
		logger.Error("Failed to create Disgo client", slog.Any("err", err))
		return
	}
	guilds.Client = client

	defer client.Close(context.TODO())

	if err = client.OpenGateway(context.TODO()); err != nil {
		logger.Error("Failed to connect to gateway", slog.Any("err", err))
		return
	}

	logger.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-s
}
