package embeds

import (
	"birthdayy-bot/pkg/config"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

type GuildSummary struct {
	ID          snowflake.ID
	Name        string
	Description string
	MemberCount int
	OwnerID     snowflake.ID
	JoinedAt    time.Time
	IconURL     string
}

// GuildJoin is posted to the server log channel whenever the bot is added to a guild.
func GuildJoin(guild GuildSummary, guildCount int) discord.Embed {
	builder := Default().
		SetTitle(EmojiSuccess+" Birthdayy got added to a Guild").
		SetDescriptionf("I am now in `%d` guilds", guildCount).
		AddField("GuildName", guild.Name, false).
		AddField("GuildID", guild.ID.String(), false)
	if guild.Description != "" {
		builder.AddField("GuildDescription", guild.Description, false)
	}
	if guild.MemberCount > 0 {
		builder.AddField("GuildMemberCount", fmt.Sprint(guild.MemberCount), false)
	}
	if guild.OwnerID != 0 {
		builder.AddField("GuildOwnerID", guild.OwnerID.String(), false)
	}
	if !guild.JoinedAt.IsZero() {
		builder.AddField("GuildJoinedTimestamp", timestamp(guild.JoinedAt, "f"), false)
	}
	return builder.Build()
}

func GuildInfo(guild GuildSummary, cfg config.Guild, birthdays int) []discord.Embed {
	description := guild.Description
	if description == "" {
		description = "No Description"
	}
	builder := Default().
		SetTitle("GuildInfos").
		AddField("GuildId", guild.ID.String(), true).
		AddField("GuildName", guild.Name, true).
		AddField("Description", description, true).
		AddField("MemberCount", fmt.Sprint(guild.MemberCount), true).
		AddField("BirthdayCount", fmt.Sprint(birthdays), true).
		AddField("GuildOwner", guild.OwnerID.String(), true).
		AddField("GuildCreated", timestamp(guild.ID.Time(), "f"), true).
		AddField("Disabled", fmt.Sprint(cfg.Disabled), true)
	if !guild.JoinedAt.IsZero() {
		builder.AddField("GuildJoined", timestamp(guild.JoinedAt, "f"), true)
		builder.AddField("GuildServed", timestamp(guild.JoinedAt, "R"), true)
	}
	if guild.IconURL != "" {
		builder.SetThumbnail(guild.IconURL)
	}
	return []discord.Embed{builder.Build(), ConfigList(guild.Name, cfg)}
}

// ReminderSummary is posted to a guild's log channel after the daily announcements went out.
func ReminderSummary(announced int, failed int, roleAssigned bool) discord.Embed {
	builder := Default().
		SetTitle(EmojiAlarm+" Birthday Reminder").
		SetDescriptionf("Announced `%d` birthdays today.", announced)
	if failed > 0 {
		builder.AddField("Failed", fmt.Sprintf("%s `%d` announcements could not be sent.", EmojiExclamation, failed), false)
	}
	if roleAssigned {
		builder.AddField("Birthday Role", "The birthday role has been assigned.", false)
	}
	return builder.Build()
}

func timestamp(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}
