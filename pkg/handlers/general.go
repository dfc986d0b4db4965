package handlers

import (
	"birthdayy-bot/pkg/db"
	"birthdayy-bot/pkg/embeds"
	"errors"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/sync/errgroup"
)

const ownerOnly = "This command can only be used by the owners of Birthdayy."

func (h *Handler) HandleGuide(e *handler.CommandEvent) error {
	embed, buttons := embeds.Guide()
	return e.CreateMessage(discord.NewMessageCreate().
		WithEmbeds(embed).
		AddActionRow(buttons...).
		WithEphemeral(true))
}

func (h *Handler) HandleCount(e *handler.CommandEvent) error {
	if !h.isOwner(e) {
		return problem(e, ownerOnly)
	}
	ctx, cancel := h.ctx()
	defer cancel()

	var guilds, users, birthdays int
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		guilds, err = h.Bot.DB.CountGuilds(ctx)
		return
	})
	eg.Go(func() (err error) {
		users, err = h.Bot.DB.CountUsers(ctx)
		return
	})
	eg.Go(func() (err error) {
		birthdays, err = h.Bot.DB.CountBirthdays(ctx)
		return
	})
	if err := eg.Wait(); err != nil {
		return err
	}
	return reply(e, embeds.Count(guilds, users, birthdays, h.Bot.Version))
}

func (h *Handler) HandleGuildInfo(data discord.SlashCommandInteractionData, e *handler.CommandEvent) error {
	if !h.isOwner(e) {
		return problem(e, ownerOnly)
	}
	guildID, err := snowflake.Parse(data.String("guild-id"))
	if err != nil {
		return problem(e, "**%s** is not a valid guild id.", data.String("guild-id"))
	}
	guild, ok := e.Client().Caches.Guild(guildID)
	if !ok {
		return problem(e, "Birthdayy is not in the guild **%s**.", guildID)
	}
	ctx, cancel := h.ctx()
	defer cancel()
	cfg, err := h.Bot.DB.GetGuildConfig(ctx, guildID)
	if err != nil {
		return err
	}
	birthdays, err := h.Bot.DB.CountGuildBirthdays(ctx, guildID)
	if err != nil {
		return err
	}
	return e.CreateMessage(discord.NewMessageCreate().
		WithContent("GuildInfos for "+guild.Name).
		WithEmbeds(embeds.GuildInfo(summarize(guild), cfg, birthdays)...).
		WithEphemeral(true))
}

func summarize(guild discord.Guild) embeds.GuildSummary {
	summary := embeds.GuildSummary{
		ID:          guild.ID,
		Name:        guild.Name,
		MemberCount: guild.MemberCount,
		OwnerID:     guild.OwnerID,
		JoinedAt:    guild.JoinedAt,
	}
	if guild.Description != nil {
		summary.Description = *guild.Description
	}
	if icon := guild.IconURL(); icon != nil {
		summary.IconURL = *icon
	}
	return summary
}

func (h *Handler) HandleBlacklistAdd(data discord.SlashCommandInteractionData, e *handler.CommandEvent) error {
	if !h.isOwner(e) {
		return problem(e, ownerOnly)
	}
	guildID, err := snowflake.Parse(data.String("guild-id"))
	if err != nil {
		return problem(e, "**%s** is not a valid guild id.", data.String("guild-id"))
	}
	reason, _ := data.OptString("reason")
	ctx, cancel := h.ctx()
	defer cancel()
	if err := h.Bot.DB.AddBlacklist(ctx, guildID, reason); err != nil {
		return err
	}
	return success(e, "The guild **%s** has been blacklisted.", guildID)
}

func (h *Handler) HandleBlacklistRemove(data discord.SlashCommandInteractionData, e *handler.CommandEvent) error {
	if !h.isOwner(e) {
		return problem(e, ownerOnly)
	}
	guildID, err := snowflake.Parse(data.String("guild-id"))
	if err != nil {
		return problem(e, "**%s** is not a valid guild id.", data.String("guild-id"))
	}
	ctx, cancel := h.ctx()
	defer cancel()
	if err := h.Bot.DB.RemoveBlacklist(ctx, guildID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return problem(e, "The guild **%s** is not blacklisted.", guildID)
		}
		return err
	}
	return success(e, "The guild **%s** has been removed from the blacklist.", guildID)
}
