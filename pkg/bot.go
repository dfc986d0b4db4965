package pkg

import (
	"birthdayy-bot/pkg/db"
	"birthdayy-bot/pkg/overview"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

type Bot struct {
	DB       *db.DB
	Client   *bot.Client
	Overview *overview.Updater
	Version  string
}

// GuildName returns the cached name of a guild or its id if the guild isn't cached.
func (b *Bot) GuildName(guildID snowflake.ID) string {
	if b.Client != nil {
		if guild, ok := b.Client.Caches.Guild(guildID); ok {
			return guild.Name
		}
	}
	return guildID.String()
}

// MissingChannelPermissions reports whether the bot lacks any of the permissions in a channel.
// Channels or members missing in cache count as missing permissions.
func (b *Bot) MissingChannelPermissions(guildID snowflake.ID, channelID snowflake.ID, permissions ...discord.Permissions) bool {
	caches := b.Client.Caches
	channel, ok := caches.Channel(channelID)
	if !ok {
		return true
	}
	selfMember, ok := caches.SelfMember(guildID)
	if !ok {
		return true
	}
	return caches.MemberPermissionsInChannel(channel, selfMember).Missing(permissions...)
}

// HighestRolePosition is the position of the bot's highest role in a guild.
func (b *Bot) HighestRolePosition(guildID snowflake.ID) int {
	caches := b.Client.Caches
	selfMember, ok := caches.SelfMember(guildID)
	if !ok {
		return 0
	}
	highest := 0
	for _, roleID := range selfMember.RoleIDs {
		if role, ok := caches.Role(guildID, roleID); ok && role.Position > highest {
			highest = role.Position
		}
	}
	return highest
}
