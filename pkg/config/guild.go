package config

import (
	"fmt"

	"github.com/disgoorg/snowflake/v2"
)

const (
	DefaultAnnouncementMessage = "<:cake_birthdayy:1102221988380020766> Happy Birthday {MENTION}!{NEW_LINE}The whole {SERVERNAME} wishes you a wonderful day."
	DefaultLanguage            = "en-US"
	AnnouncementMessageMaxLen  = 512
)

type Guild struct {
	GuildID             snowflake.ID  `db:"guild_id"`
	AnnouncementChannel *snowflake.ID `db:"announcement_channel"`
	AnnouncementMessage *string       `db:"announcement_message"`
	OverviewChannel     *snowflake.ID `db:"overview_channel"`
	OverviewMessage     *snowflake.ID `db:"overview_message"`
	BirthdayRole        *snowflake.ID `db:"birthday_role"`
	BirthdayPingRole    *snowflake.ID `db:"birthday_ping_role"`
	LogChannel          *snowflake.ID `db:"log_channel"`
	Timezone            int           `db:"timezone"`
	Premium             bool          `db:"premium"`
	Language            string        `db:"language"`
	Disabled            bool          `db:"disabled"`
}

// DefaultGuild is what a guild looks like before anything was configured.
func DefaultGuild(guildID snowflake.ID) Guild {
	return Guild{
		GuildID:  guildID,
		Language: DefaultLanguage,
	}
}

func (g Guild) Message() string {
	if g.AnnouncementMessage == nil || *g.AnnouncementMessage == "" {
		return DefaultAnnouncementMessage
	}
	return *g.AnnouncementMessage
}

func (g Guild) Location() string {
	return Zone(g.Timezone)
}

// Name identifies a single resettable guild setting.
type Name string

const (
	NameBirthdayRole        Name = "birthdayRole"
	NameBirthdayPingRole    Name = "birthdayPingRole"
	NameAnnouncementChannel Name = "announcementChannel"
	NameAnnouncementMessage Name = "announcementMessage"
	NameOverviewChannel     Name = "overviewChannel"
	NameTimezone            Name = "timezone"
	NameLogChannel          Name = "logChannel"
)

var Names = []Name{
	NameBirthdayRole,
	NameBirthdayPingRole,
	NameAnnouncementChannel,
	NameAnnouncementMessage,
	NameOverviewChannel,
	NameTimezone,
	NameLogChannel,
}

func ParseName(s string) (Name, error) {
	for _, name := range Names {
		if string(name) == s {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown config name %q", s)
}

func (n Name) String() string {
	switch n {
	case NameBirthdayRole:
		return "Birthday Role"
	case NameBirthdayPingRole:
		return "Birthday Ping Role"
	case NameAnnouncementChannel:
		return "Announcement Channel"
	case NameAnnouncementMessage:
		return "Announcement Message"
	case NameOverviewChannel:
		return "Overview Channel"
	case NameTimezone:
		return "Timezone"
	case NameLogChannel:
		return "Log Channel"
	}
	return "Unknown"
}

// Columns returns the guild table columns reset together with the setting.
func (n Name) Columns() []string {
	switch n {
	case NameBirthdayRole:
		return []string{"birthday_role"}
	case NameBirthdayPingRole:
		return []string{"birthday_ping_role"}
	case NameAnnouncementChannel:
		return []string{"announcement_channel"}
	case NameAnnouncementMessage:
		return []string{"announcement_message"}
	case NameOverviewChannel:
		return []string{"overview_channel", "overview_message"}
	case NameTimezone:
		return []string{"timezone"}
	case NameLogChannel:
		return []string{"log_channel"}
	}
	return nil
}
