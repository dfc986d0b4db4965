package handlers

import (
	"birthdayy-bot/pkg/config"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/json"
)

// Commands are registered globally.
var Commands = []discord.ApplicationCommandCreate{
	discord.SlashCommandCreate{
		Name:        "birthday",
		Description: "Manage the birthdays of this server",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "register",
				Description: "Register a birthday",
				Options:     dateOptions(),
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "update",
				Description: "Update a registered birthday",
				Options:     dateOptions(),
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "remove",
				Description: "Remove a registered birthday",
				Options:     []discord.ApplicationCommandOption{userOption("The member whose birthday should be removed")},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "show",
				Description: "Show a registered birthday",
				Options:     []discord.ApplicationCommandOption{userOption("The member whose birthday should be shown")},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "list",
				Description: "List the upcoming birthdays of this server",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "test",
				Description: "Send a test announcement for yourself",
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "config",
		Description: "Configure Birthdayy for this server",
		Options: []discord.ApplicationCommandOption{
			channelSubCommand("announcement-channel", "Set the channel birthdays are announced in"),
			channelSubCommand("overview-channel", "Set the channel the birthday overview is posted in"),
			channelSubCommand("log-channel", "Set the channel Birthdayy logs its daily reminder to"),
			roleSubCommand("birthday-role", "Set the role birthday children get for the day"),
			roleSubCommand("ping-role", "Set the role pinged with each announcement"),
			discord.ApplicationCommandOptionSubCommand{
				Name:        "announcement-message",
				Description: "Set a custom announcement message (premium)",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "message",
						Description: "Placeholders: {MENTION} {USERNAME} {SERVERNAME} {AGE} {NEW_LINE}",
						Required:    true,
						MinLength:   json.Ptr(1),
						MaxLength:   json.Ptr(config.AnnouncementMessageMaxLen),
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "timezone",
				Description: "Set the timezone birthdays are announced in",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionInt{
						Name:        "timezone",
						Description: "The UTC offset of this server",
						Required:    true,
						Choices:     timezoneChoices(),
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "reset",
				Description: "Reset a setting to its default",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "config",
						Description: "The setting to reset",
						Required:    true,
						Choices:     resetChoices(),
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "list",
				Description: "Show the current settings",
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "guide",
		Description: "Learn how to set up Birthdayy",
	},
}

// OwnerCommands are only registered in the main guild.
var OwnerCommands = []discord.ApplicationCommandCreate{
	discord.SlashCommandCreate{
		Name:        "count",
		Description: "Count the guilds, users and birthdays of Birthdayy",
	},
	discord.SlashCommandCreate{
		Name:        "guild-info",
		Description: "Show information about a guild",
		Options:     []discord.ApplicationCommandOption{guildIDOption()},
	},
	discord.SlashCommandCreate{
		Name:        "blacklist",
		Description: "Manage blacklisted guilds",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "add",
				Description: "Blacklist a guild",
				Options: []discord.ApplicationCommandOption{
					guildIDOption(),
					discord.ApplicationCommandOptionString{
						Name:        "reason",
						Description: "Why the guild is blacklisted",
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "remove",
				Description: "Remove a guild from the blacklist",
				Options:     []discord.ApplicationCommandOption{guildIDOption()},
			},
		},
	},
}

func guildIDOption() discord.ApplicationCommandOptionString {
	return discord.ApplicationCommandOptionString{
		Name:        "guild-id",
		Description: "The id of the guild",
		Required:    true,
	}
}

func dateOptions() []discord.ApplicationCommandOption {
	return []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "day",
			Description: "The day of the birthday",
			Required:    true,
			MinValue:    json.Ptr(1),
			MaxValue:    json.Ptr(31),
		},
		discord.ApplicationCommandOptionInt{
			Name:        "month",
			Description: "The month of the birthday",
			Required:    true,
			Choices:     monthChoices(),
		},
		discord.ApplicationCommandOptionInt{
			Name:        "year",
			Description: "The year of the birthday",
			MinValue:    json.Ptr(1900),
			MaxValue:    json.Ptr(time.Now().Year()),
		},
		userOption("The member the birthday belongs to"),
	}
}

func userOption(description string) discord.ApplicationCommandOptionUser {
	return discord.ApplicationCommandOptionUser{
		Name:        "user",
		Description: description,
	}
}

func channelSubCommand(name string, description string) discord.ApplicationCommandOptionSubCommand {
	return discord.ApplicationCommandOptionSubCommand{
		Name:        name,
		Description: description,
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionChannel{
				Name:         "channel",
				Description:  "The text channel",
				Required:     true,
				ChannelTypes: []discord.ChannelType{discord.ChannelTypeGuildText, discord.ChannelTypeGuildNews},
			},
		},
	}
}

func roleSubCommand(name string, description string) discord.ApplicationCommandOptionSubCommand {
	return discord.ApplicationCommandOptionSubCommand{
		Name:        name,
		Description: description,
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionRole{
				Name:        "role",
				Description: "The role",
				Required:    true,
			},
		},
	}
}

func monthChoices() []discord.ApplicationCommandOptionChoiceInt {
	choices := make([]discord.ApplicationCommandOptionChoiceInt, 0, 12)
	for month := time.January; month <= time.December; month++ {
		choices = append(choices, discord.ApplicationCommandOptionChoiceInt{
			Name:  month.String(),
			Value: int(month),
		})
	}
	return choices
}

func timezoneChoices() []discord.ApplicationCommandOptionChoiceInt {
	var choices []discord.ApplicationCommandOptionChoiceInt
	for offset := config.MinTimezone; offset <= config.MaxTimezone; offset++ {
		choices = append(choices, discord.ApplicationCommandOptionChoiceInt{
			Name:  config.TimezoneLabel(offset),
			Value: offset,
		})
	}
	return choices
}

func resetChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := make([]discord.ApplicationCommandOptionChoiceString, 0, len(config.Names))
	for _, name := range config.Names {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{
			Name:  name.String(),
			Value: string(name),
		})
	}
	return choices
}
