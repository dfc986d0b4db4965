package main

import (
	"birthdayy-bot/pkg/handlers"
	"context"
	"log/slog"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync-commands",
	Short: "Register the application commands with Discord",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer flush()
		client, err := disgo.New(cfg.Token)
		if err != nil {
			return err
		}
		defer client.Close(context.TODO())

		if err := handler.SyncCommands(client, handlers.Commands, nil); err != nil {
			return err
		}
		slog.Info("birthdayy: synced global commands", slog.Int("commands.count", len(handlers.Commands)))

		if cfg.CustomBot || cfg.MainGuildID == 0 {
			return nil
		}
		if err := handler.SyncCommands(client, handlers.OwnerCommands, []snowflake.ID{cfg.MainGuildID}); err != nil {
			return err
		}
		slog.Info("birthdayy: synced owner commands", slog.Any("guild.id", cfg.MainGuildID), slog.Int("commands.count", len(handlers.OwnerCommands)))
		return nil
	},
}
