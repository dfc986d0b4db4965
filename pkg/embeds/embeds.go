package embeds

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
)

const (
	ColorBirthdayy = 0x78c2ad
	ColorDev       = 0xf3969a
	ColorTest      = 0xb34bd1
)

const (
	EmojiSuccess     = "<:checkmark_square_birthdayy:1102222019476586526>"
	EmojiFail        = "<:cross_square_birthdayy:1102222032155988068>"
	EmojiArrowRight  = "<:arrow_right_birthdayy:1102221944016875650>"
	EmojiArrowLeft   = "<:arrow_left_birthdayy:1102221941223477268>"
	EmojiCake        = "<:cake_birthdayy:1102221988380020766>"
	EmojiCrown       = "<:crown_birthdayy:1102222034458660915>"
	EmojiNews        = "<:news_birthdayy:1102222080029761618>"
	EmojiGift        = "<:gift_birthdayy:1102222060845015050>"
	EmojiBook        = "<:book_birthdayy:1102221958592086137>"
	EmojiAlarm       = "<:bell_birthdayy:1102221947003219968>"
	EmojiPeople      = "<:people_birthdayy:1102222095573844108>"
	EmojiExclamation = "<:exclamation_mark_birthdayy:1102222058777223209>"
	EmojiWarning     = "<:warning_birthdayy:1102222123809906778>"
	EmojiTools       = "<:tools_birthdayy:1102222421651623936>"
)

const (
	DocsURL   = "https://birthdayy.xyz/docs"
	InviteURL = "https://join.birthdayy.xyz"
)

var color = ColorBirthdayy

// UseEnvironment picks the branding color for the given APP_ENV value.
func UseEnvironment(environment string) {
	switch environment {
	case "dev":
		color = ColorDev
	case "tst":
		color = ColorTest
	default:
		color = ColorBirthdayy
	}
}

func Default() *discord.EmbedBuilder {
	return discord.NewEmbedBuilder().SetColor(color)
}

func Success(description string) discord.Embed {
	return Default().
		SetDescription(EmojiSuccess + " " + description).
		Build()
}

func Problem(description string) discord.Embed {
	return Default().
		SetDescription(EmojiFail + " " + description).
		Build()
}

// Error is shown to users when a command failed unexpectedly. The error itself is only shown outside of production.
func Error(command string, err error, development bool) discord.Embed {
	builder := Default().
		SetTitle(EmojiWarning+" Something went wrong").
		SetDescriptionf("There was an error while running `/%s`. The developers have been notified.", command)
	if development && err != nil {
		builder.AddField("Error", fmt.Sprintf("```%s```", truncate(err.Error(), 1000)), false)
	}
	return builder.Build()
}

func Count(guilds int, users int, birthdays int, version string) discord.Embed {
	return Default().
		SetTitle("Database Information").
		AddField("Guilds", fmt.Sprint(guilds), true).
		AddField("Birthdays", fmt.Sprint(birthdays), true).
		AddField("Users", fmt.Sprint(users), true).
		SetFooterText("Birthdayy " + version).
		Build()
}

func Guide() (discord.Embed, []discord.InteractiveComponent) {
	embed := Default().
		SetTitle(EmojiBook+" Birthdayy Guide").
		SetDescription("Birthdayy keeps track of the birthdays on your server and congratulates everyone on their day.").
		AddField("Getting started", "Register your birthday with `/birthday register`. Admins can register birthdays for other members too.", false).
		AddField("Configuration", "Use `/config list` to see the current settings and the other `/config` commands to change them. Set an announcement channel so Birthdayy can post the announcements.", false).
		AddField("Important", "Birthdayy needs the View Channel and Send Messages permissions in the announcement and overview channels. The birthday role has to be below Birthdayy's highest role.", false).
		Build()
	buttons := []discord.InteractiveComponent{
		discord.NewLinkButton("Docs", DocsURL),
		discord.NewLinkButton("Invite", InviteURL),
	}
	return embed, buttons
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
