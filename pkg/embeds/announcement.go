package embeds

import (
	"birthdayy-bot/pkg/config"
	"strconv"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

type AnnouncementData struct {
	UserID    snowflake.ID
	Username  string
	GuildName string
	AvatarURL string
	// Age is 0 when the birth year is unknown.
	Age int
}

// Announcement replaces the placeholders of an announcement message template.
func Announcement(template string, data AnnouncementData) string {
	age := ""
	if data.Age > 0 {
		age = strconv.Itoa(data.Age)
	}
	return strings.NewReplacer(
		"{MENTION}", discord.UserMention(data.UserID),
		"{USERNAME}", data.Username,
		"{SERVERNAME}", data.GuildName,
		"{AGE}", age,
		"{NEW_LINE}", "\n",
	).Replace(template)
}

func AnnouncementEmbed(template string, data AnnouncementData) discord.Embed {
	builder := Default().
		SetTitle(EmojiNews + " Birthday Announcement!").
		SetDescription(Announcement(template, data))
	if data.AvatarURL != "" {
		builder.SetThumbnail(data.AvatarURL)
	}
	return builder.Build()
}

// AnnouncementContent mentions the ping role and the birthday children outside of the embed so they get notified.
func AnnouncementContent(pingRole *snowflake.ID, userID snowflake.ID) string {
	if pingRole == nil {
		return discord.UserMention(userID)
	}
	return discord.RoleMention(*pingRole) + " " + discord.UserMention(userID)
}

// AnnouncementMessage is the message posted to the announcement channel of a guild for one birthday.
func AnnouncementMessage(cfg config.Guild, data AnnouncementData) discord.MessageCreate {
	return discord.NewMessageCreate().
		WithContent(AnnouncementContent(cfg.BirthdayPingRole, data.UserID)).
		WithEmbeds(AnnouncementEmbed(cfg.Message(), data))
}
