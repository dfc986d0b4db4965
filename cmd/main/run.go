package main

import (
	"birthdayy-bot/pkg"
	"birthdayy-bot/pkg/api"
	"birthdayy-bot/pkg/embeds"
	"birthdayy-bot/pkg/handlers"
	"birthdayy-bot/pkg/overview"
	"birthdayy-bot/pkg/tasks"
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot, the scheduler and the api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer flush()
		return run(cmd.Context(), cfg)
	},
}

func run(ctx context.Context, cfg *pkg.Config) error {
	slog.Info("birthdayy: starting the bot...",
		slog.String("birthdayy.version", version),
		slog.String("disgo.version", disgo.Version),
		slog.String("app.env", string(cfg.Environment)))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := database.Migrate(ctx); err != nil {
		return err
	}

	embeds.UseEnvironment(string(cfg.Environment))
	b := &pkg.Bot{
		DB:      database,
		Version: version,
	}
	h := handlers.NewHandler(b, cfg)

	client, err := disgo.New(cfg.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds),
			gateway.WithPresenceOpts(gateway.WithWatchingActivity("/birthday register 🎂"))),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds, cache.FlagChannels, cache.FlagRoles, cache.FlagMembers),
			cache.WithMemberCachePolicy(func(entity discord.Member) bool {
				return entity.User.ID == cfg.ClientID
			})),
		bot.WithEventListeners(h, h.Events()))
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		client.Close(closeCtx)
	}()

	b.Client = client
	b.Overview = overview.NewUpdater(database, client.Rest, b.GuildName)

	scheduler, err := tasks.New(database, client.Rest, b.Overview, b.GuildName, cfg).Schedule()
	if err != nil {
		return err
	}

	if err := client.OpenGateway(ctx); err != nil {
		return err
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	eg, ctx := errgroup.WithContext(ctx)
	if cfg.API.Enabled {
		if cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}
		server := api.New(cfg.API, database, client.Rest, b.Overview)
		eg.Go(func() error {
			return server.Serve(ctx, cfg.ShutdownTimeout)
		})
	}
	eg.Go(func() error {
		<-ctx.Done()
		slog.Info("birthdayy: shutting down...")
		return nil
	})

	slog.Info("birthdayy: bot is now running.")
	return eg.Wait()
}
