package handlers

import (
	"birthdayy-bot/pkg/config"
	"birthdayy-bot/pkg/db"
	"birthdayy-bot/pkg/embeds"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
)

const adminOnly = "You need the **Manage Server** permission to use this command."

var channelPermissions = []discord.Permissions{discord.PermissionViewChannel, discord.PermissionSendMessages}

func (h *Handler) HandleConfigAnnouncementChannel(data discord.SlashCommandInteractionData, e *handler.CommandEvent) error {
	return h.setChannel(data, e, config.NameAnnouncementChannel)
}

func (h *Handler) HandleConfigLogChannel(data discord.SlashCommandInteractionData, e *handler.CommandEvent) error {
	return h.setChannel(data, e, config.NameLogChannel)
}

func (h *Handler) setChannel(data discord.SlashCommandInteractionData, e *handler.CommandEvent, name config.Name) error {
	guildID, ok := h.adminGuild(e)
	if !ok {
		return nil
	}
	channel := data.Channel("channel")
	if h.Bot.MissingChannelPermissions(guildID, channel.ID, channelPermissions...) {
		return problem(e, "Birthdayy can't view or send messages in %s.", discord.ChannelMention(channel.ID))
	}
	ctx, cancel := h.ctx()
	defer cancel()
	if err := h.Bot.DB.UpdateGuildSetting(ctx, guildID, name, channel.ID); err != nil {
		return err
	}
	return success(e, "The **%s** has been set to %s.", name, discord.ChannelMention(channel.ID))
}

func (h *Handler) HandleConfigOverviewChannel(data discord.SlashCommandInteractionData, e *handler.CommandEvent) error {
	guildID, ok := h.adminGuild(e)
	if !ok {
		return nil
	}
	channel := data.Channel("channel")
	if h.Bot.MissingChannelPermissions(guildID, channel.ID, channelPermissions...) {
		return problem(e, "Birthdayy can't view or send messages in %s.", discord.ChannelMention(channel.ID))
	}
	ctx, cancel := h.ctx()
	defer cancel()
	message, err := h.Bot.Overview.Create(ctx, guildID, channel.ID)
	if err != nil {
		return err
	}
	return success(e, "The **%s** has been set to %s. [Overview](%s)", config.NameOverviewChannel, discord.ChannelMention(channel.ID), message.JumpURL())
}

func (h *Handler) HandleConfigBirthdayRole(data discord.SlashCommandInteractionData, e *handler.CommandEvent) error {
	guildID, ok := h.adminGuild(e)
	if !ok {
		return nil
	}
	role := data.Role("role")
	if msg := validateBirthdayRole(role, guildID, h.Bot.HighestRolePosition(guildID)); msg != "" {
		return problem(e, "%s", msg)
	}
	return h.setRole(e, guildID, config.NameBirthdayRole, role.ID)
}

func (h *Handler) HandleConfigPingRole(data discord.SlashCommandInteractionData, e *handler.CommandEvent) error {
	guildID, ok := h.adminGuild(e)
	if !ok {
		return nil
	}
	return h.setRole(e, guildID, config.NameBirthdayPingRole, data.Role("role").ID)
}

func (h *Handler) setRole(e *handler.CommandEvent, guildID snowflake.ID, name config.Name, roleID snowflake.ID) error {
	ctx, cancel := h.ctx()
	defer cancel()
	if err := h.Bot.DB.UpdateGuildSetting(ctx, guildID, name, roleID); err != nil {
		return err
	}
	return success(e, "The **%s** has been set to %s.", name, discord.RoleMention(roleID))
}

func (h *Handler) HandleConfigAnnouncementMessage(data discord.SlashCommandInteractionData, e *handler.CommandEvent) error {
	guildID, ok := h.adminGuild(e)
	if !ok {
		return nil
	}
	message := data.String("message")
	ctx, cancel := h.ctx()
	defer cancel()
	cfg, err := h.Bot.DB.GetGuildConfig(ctx, guildID)
	if err != nil {
		return err
	}
	if msg := validateAnnouncementMessage(message, cfg.Premium); msg != "" {
		return problem(e, "%s", msg)
	}
	if err := h.Bot.DB.UpdateGuildSetting(ctx, guildID, config.NameAnnouncementMessage, message); err != nil {
		return err
	}
	return success(e, "The **%s** has been set to:\n%s", config.NameAnnouncementMessage, message)
}

func (h *Handler) HandleConfigTimezone(data discord.SlashCommandInteractionData, e *handler.CommandEvent) error {
	guildID, ok := h.adminGuild(e)
	if !ok {
		return nil
	}
	timezone := data.Int("timezone")
	if !config.ValidTimezone(timezone) {
		return problem(e, "The timezone has to be between UTC%d and UTC+%d.", config.MinTimezone, config.MaxTimezone)
	}
	ctx, cancel := h.ctx()
	defer cancel()
	if err := h.Bot.DB.UpdateGuildSetting(ctx, guildID, config.NameTimezone, timezone); err != nil {
		return err
	}
	if err := success(e, "The **%s** has been set to **%s**.", config.NameTimezone, config.TimezoneLabel(timezone)); err != nil {
		return err
	}
	h.refreshOverview(guildID)
	return nil
}

func (h *Handler) HandleConfigReset(data discord.SlashCommandInteractionData, e *handler.CommandEvent) error {
	guildID, ok := h.adminGuild(e)
	if !ok {
		return nil
	}
	name, err := config.ParseName(data.String("config"))
	if err != nil {
		return problem(e, "Unknown setting **%s**.", data.String("config"))
	}
	ctx, cancel := h.ctx()
	defer cancel()
	if err := h.Bot.DB.ResetGuildConfig(ctx, guildID, name); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return problem(e, "The **%s** couldn't be reset as nothing has been configured yet.", name)
		}
		return err
	}
	return success(e, "The **%s** has been reset.", name)
}

func (h *Handler) HandleConfigList(e *handler.CommandEvent) error {
	guildID, ok := h.adminGuild(e)
	if !ok {
		return nil
	}
	ctx, cancel := h.ctx()
	defer cancel()
	cfg, err := h.Bot.DB.GetGuildConfig(ctx, guildID)
	if err != nil {
		return err
	}
	return reply(e, embeds.ConfigList(h.Bot.GuildName(guildID), cfg))
}

// adminGuild replies with a problem and returns false unless the command was used in a guild by an admin.
func (h *Handler) adminGuild(e *handler.CommandEvent) (snowflake.ID, bool) {
	guildID := e.GuildID()
	if guildID == nil {
		_ = problem(e, guildOnly)
		return 0, false
	}
	if !h.isAdmin(e) {
		_ = problem(e, adminOnly)
		return 0, false
	}
	return *guildID, true
}

func (h *Handler) isOwner(e *handler.CommandEvent) bool {
	return h.Config.IsOwner(e.User().ID)
}

func (h *Handler) isAdmin(e *handler.CommandEvent) bool {
	return h.isOwner(e) || hasPermissions(e, discord.PermissionManageGuild) || hasPermissions(e, discord.PermissionAdministrator)
}

func hasPermissions(e *handler.CommandEvent, permissions ...discord.Permissions) bool {
	member := e.Member()
	return member != nil && member.Permissions.Has(permissions...)
}

func validateAnnouncementMessage(message string, premium bool) string {
	if !premium {
		return "Custom announcement messages are a premium feature."
	}
	length := utf8.RuneCountInString(message)
	if length == 0 || length > config.AnnouncementMessageMaxLen {
		return fmt.Sprintf("The announcement message has to be between 1 and %d characters long.", config.AnnouncementMessageMaxLen)
	}
	return ""
}

func validateBirthdayRole(role discord.Role, guildID snowflake.ID, highestPosition int) string {
	switch {
	case role.ID == guildID:
		return "The @everyone role can't be used as birthday role."
	case role.Managed:
		return fmt.Sprintf("%s is managed by an integration and can't be assigned.", discord.RoleMention(role.ID))
	case role.Position >= highestPosition:
		return fmt.Sprintf("%s has to be below the highest role of Birthdayy.", discord.RoleMention(role.ID))
	}
	return ""
}
