package handlers

import (
	"birthdayy-bot/pkg/birthday"
	"birthdayy-bot/pkg/config"
	"birthdayy-bot/pkg/db"
	"birthdayy-bot/pkg/embeds"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

const guildOnly = "This command can only be used in a server."

func (h *Handler) HandleBirthdayRegister(data discord.SlashCommandInteractionData, e *handler.CommandEvent) error {
	return h.saveBirthday(data, e, false)
}

func (h *Handler) HandleBirthdayUpdate(data discord.SlashCommandInteractionData, e *handler.CommandEvent) error {
	return h.saveBirthday(data, e, true)
}

func (h *Handler) saveBirthday(data discord.SlashCommandInteractionData, e *handler.CommandEvent, update bool) error {
	guildID := e.GuildID()
	if guildID == nil {
		return problem(e, guildOnly)
	}
	target, allowed := h.resolveTarget(data, e)
	if !allowed {
		return problem(e, "You need the **Manage Roles** permission to manage the birthdays of other members.")
	}
	if target.Bot {
		return problem(e, "Bots don't have birthdays.")
	}
	year, _ := data.OptInt("year")
	date, err := birthday.NewDate(data.Int("day"), time.Month(data.Int("month")), year, time.Now())
	if err != nil {
		return problem(e, "%s", capitalize(err.Error()))
	}

	ctx, cancel := h.ctx()
	defer cancel()
	if err := h.Bot.DB.UpsertUser(ctx, target.ID, target.Username); err != nil {
		return err
	}
	if update {
		err = h.Bot.DB.UpdateBirthday(ctx, *guildID, target.ID, date)
	} else {
		err = h.Bot.DB.CreateBirthday(ctx, *guildID, target.ID, date)
	}
	switch {
	case errors.Is(err, db.ErrDuplicate):
		return problem(e, "%s already has a registered birthday. Use `/birthday update` to change it.", discord.UserMention(target.ID))
	case errors.Is(err, db.ErrNotFound):
		return problem(e, "%s has no registered birthday yet. Use `/birthday register` to add it.", discord.UserMention(target.ID))
	case err != nil:
		return err
	}

	action := "registered"
	if update {
		action = "updated"
	}
	if err := success(e, "The birthday of %s has been %s: **%s**", discord.UserMention(target.ID), action, date.Pretty()); err != nil {
		return err
	}
	h.refreshOverview(*guildID)
	return nil
}

func (h *Handler) HandleBirthdayRemove(data discord.SlashCommandInteractionData, e *handler.CommandEvent) error {
	guildID := e.GuildID()
	if guildID == nil {
		return problem(e, guildOnly)
	}
	target, allowed := h.resolveTarget(data, e)
	if !allowed {
		return problem(e, "You need the **Manage Roles** permission to manage the birthdays of other members.")
	}
	ctx, cancel := h.ctx()
	defer cancel()
	if err := h.Bot.DB.DeleteBirthday(ctx, *guildID, target.ID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return problem(e, "%s has no registered birthday.", discord.UserMention(target.ID))
		}
		return err
	}
	if err := success(e, "The birthday of %s has been removed.", discord.UserMention(target.ID)); err != nil {
		return err
	}
	h.refreshOverview(*guildID)
	return nil
}

func (h *Handler) HandleBirthdayShow(data discord.SlashCommandInteractionData, e *handler.CommandEvent) error {
	guildID := e.GuildID()
	if guildID == nil {
		return problem(e, guildOnly)
	}
	target := e.User()
	if user, ok := data.OptUser("user"); ok {
		target = user
	}
	ctx, cancel := h.ctx()
	defer cancel()
	entry, err := h.Bot.DB.GetBirthday(ctx, *guildID, target.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return problem(e, "%s has no registered birthday.", discord.UserMention(target.ID))
		}
		return err
	}
	cfg, err := h.Bot.DB.GetGuildConfig(ctx, *guildID)
	if err != nil {
		return err
	}
	next := entry.Date.Next(time.Now().In(config.Location(cfg.Timezone)))
	return reply(e, embeds.Default().
		SetTitle(embeds.EmojiGift+" Birthday").
		SetDescriptionf("The birthday of %s is on **%s**.\nNext birthday <t:%d:R>.", discord.UserMention(target.ID), entry.Date.Pretty(), next.Unix()).
		Build())
}

func (h *Handler) HandleBirthdayList(e *handler.CommandEvent) error {
	guildID := e.GuildID()
	if guildID == nil {
		return problem(e, guildOnly)
	}
	ctx, cancel := h.ctx()
	defer cancel()
	embed, buttons, err := h.Bot.Overview.Page(ctx, *guildID, 1)
	if err != nil {
		return err
	}
	return e.CreateMessage(discord.NewMessageCreate().
		WithEmbeds(embed).
		AddActionRow(buttons...))
}

func (h *Handler) HandleBirthdayListPage(_ discord.ButtonInteractionData, e *handler.ComponentEvent) error {
	guildID := e.GuildID()
	if guildID == nil {
		return nil
	}
	page, err := strconv.Atoi(e.Vars["page"])
	if err != nil {
		return fmt.Errorf("invalid birthday list page %q: %w", e.Vars["page"], err)
	}
	ctx, cancel := h.ctx()
	defer cancel()
	embed, buttons, err := h.Bot.Overview.Page(ctx, *guildID, page)
	if err != nil {
		return err
	}
	return e.UpdateMessage(discord.NewMessageUpdate().
		WithEmbeds(embed).
		AddActionRow(buttons...))
}

// HandleBirthdayTest posts an announcement for the invoking member to the announcement channel.
func (h *Handler) HandleBirthdayTest(e *handler.CommandEvent) error {
	guildID := e.GuildID()
	if guildID == nil {
		return problem(e, guildOnly)
	}
	if !h.isAdmin(e) {
		return problem(e, adminOnly)
	}
	ctx, cancel := h.ctx()
	defer cancel()
	cfg, err := h.Bot.DB.GetGuildConfig(ctx, *guildID)
	if err != nil {
		return err
	}
	if cfg.AnnouncementChannel == nil {
		return problem(e, "There is no announcement channel set. Use `/config announcement-channel` first.")
	}
	user := e.User()
	data := embeds.AnnouncementData{
		UserID:    user.ID,
		Username:  user.Username,
		GuildName: h.Bot.GuildName(*guildID),
		AvatarURL: user.EffectiveAvatarURL(),
	}
	if _, err := e.Client().Rest.CreateMessage(*cfg.AnnouncementChannel, embeds.AnnouncementMessage(cfg, data), rest.WithCtx(ctx)); err != nil {
		slog.Warn("birthdayy: error while sending test announcement",
			slog.Any("guild.id", *guildID),
			slog.Any("channel.id", *cfg.AnnouncementChannel),
			tint.Err(err))
		return problem(e, "The test announcement couldn't be sent to %s. Check the permissions of Birthdayy in that channel.", discord.ChannelMention(*cfg.AnnouncementChannel))
	}
	return success(e, "A test announcement has been sent to %s.", discord.ChannelMention(*cfg.AnnouncementChannel))
}

// resolveTarget returns the member a birthday command is about. Acting for others requires Manage Roles.
func (h *Handler) resolveTarget(data discord.SlashCommandInteractionData, e *handler.CommandEvent) (discord.User, bool) {
	user, ok := data.OptUser("user")
	if !ok || user.ID == e.User().ID {
		return e.User(), true
	}
	return user, h.isOwner(e) || hasPermissions(e, discord.PermissionManageRoles)
}

func (h *Handler) refreshOverview(guildID snowflake.ID) {
	ctx, cancel := h.ctx()
	defer cancel()
	if err := h.Bot.Overview.Update(ctx, guildID); err != nil {
		slog.Error("birthdayy: error while refreshing overview", slog.Any("guild.id", guildID), tint.Err(err))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
