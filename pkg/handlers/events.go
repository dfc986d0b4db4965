package handlers

import (
	"birthdayy-bot/pkg/embeds"
	"context"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/lmittmann/tint"
)

// Events returns the gateway listeners keeping the guild table in sync.
func (h *Handler) Events() *events.ListenerAdapter {
	return &events.ListenerAdapter{
		OnGuildJoin:  h.onGuildJoin,
		OnGuildLeave: h.onGuildLeave,
	}
}

func (h *Handler) onGuildJoin(e *events.GuildJoin) {
	ctx, cancel := h.ctx()
	defer cancel()
	guildID := e.Guild.ID
	slog.Info("birthdayy: joined guild", slog.Any("guild.id", guildID), slog.String("guild.name", e.Guild.Name))
	if err := h.Bot.DB.UpsertGuild(ctx, guildID); err != nil {
		slog.Error("birthdayy: error while storing joined guild", slog.Any("guild.id", guildID), tint.Err(err))
		return
	}
	if h.Config.CustomBot || h.Config.ServerLogChannel == 0 {
		return
	}
	count, err := h.Bot.DB.CountGuilds(ctx)
	if err != nil {
		slog.Error("birthdayy: error while counting guilds", tint.Err(err))
		return
	}
	h.postServerLog(ctx, e.Client().Rest, embeds.GuildJoin(summarize(e.Guild.Guild), count))
}

func (h *Handler) onGuildLeave(e *events.GuildLeave) {
	ctx, cancel := h.ctx()
	defer cancel()
	slog.Info("birthdayy: left guild", slog.Any("guild.id", e.GuildID))
	if err := h.Bot.DB.SetGuildDisabled(ctx, e.GuildID, true); err != nil {
		slog.Error("birthdayy: error while disabling left guild", slog.Any("guild.id", e.GuildID), tint.Err(err))
	}
}

func (h *Handler) postServerLog(ctx context.Context, client rest.Rest, embed discord.Embed) {
	if _, err := client.CreateMessage(h.Config.ServerLogChannel, discord.NewMessageCreate().WithEmbeds(embed), rest.WithCtx(ctx)); err != nil {
		slog.Warn("birthdayy: error while posting to the server log channel", slog.Any("channel.id", h.Config.ServerLogChannel), tint.Err(err))
	}
}
