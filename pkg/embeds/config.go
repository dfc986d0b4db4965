package embeds

import (
	"birthdayy-bot/pkg/config"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

const notSet = "not set"

// ConfigList shows every setting of a guild.
func ConfigList(guildName string, cfg config.Guild) discord.Embed {
	message := cfg.Message()
	if !cfg.Premium {
		message += "\n*Custom messages require premium.*"
	}
	premium := "No"
	if cfg.Premium {
		premium = "Yes " + EmojiCrown
	}
	return Default().
		SetTitle(fmt.Sprintf("%s Config - %s", EmojiTools, guildName)).
		AddField(config.NameAnnouncementChannel.String(), channel(cfg.AnnouncementChannel), true).
		AddField(config.NameOverviewChannel.String(), channel(cfg.OverviewChannel), true).
		AddField(config.NameLogChannel.String(), channel(cfg.LogChannel), true).
		AddField(config.NameBirthdayRole.String(), role(cfg.BirthdayRole), true).
		AddField(config.NameBirthdayPingRole.String(), role(cfg.BirthdayPingRole), true).
		AddField(config.NameTimezone.String(), config.TimezoneLabel(cfg.Timezone), true).
		AddField(config.NameAnnouncementMessage.String(), message, false).
		AddField("Premium", premium, true).
		Build()
}

func channel(id *snowflake.ID) string {
	if id == nil {
		return notSet
	}
	return discord.ChannelMention(*id)
}

func role(id *snowflake.ID) string {
	if id == nil {
		return notSet
	}
	return discord.RoleMention(*id)
}
