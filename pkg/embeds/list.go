package embeds

import (
	"birthdayy-bot/pkg/birthday"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
)

const (
	ListPageSize     = 25
	ListButtonPrefix = "/birthday-list/"
)

// BirthdayList renders one page of the upcoming birthdays of a guild together with its page buttons.
func BirthdayList(guildName string, entries []birthday.Entry, page int, now time.Time) (discord.Embed, []discord.InteractiveComponent) {
	upcoming := birthday.Upcoming(entries, now)
	items, page, pages := birthday.Page(upcoming, page, ListPageSize)

	footer := fmt.Sprintf("Page %d/%d • %d birthdays", page, pages, len(entries))
	if today := birthday.Today(entries, now); len(today) > 0 {
		footer += fmt.Sprintf(" • %d today", len(today))
	}
	builder := Default().
		SetTitle(fmt.Sprintf("%s Upcoming Birthdays - %s", EmojiCake, guildName)).
		SetFooterText(footer)

	if len(items) == 0 {
		builder.SetDescription("No birthdays registered yet. Use `/birthday register` to add yours!")
	} else {
		var sb strings.Builder
		var month time.Month
		for _, entry := range items {
			next := entry.Date.Next(now)
			if next.Month() != month {
				month = next.Month()
				if sb.Len() > 0 {
					sb.WriteString("\n")
				}
				fmt.Fprintf(&sb, "**%s**\n", month)
			}
			fmt.Fprintf(&sb, "`%s` <@%s>", entry.Date.Pretty(), entry.UserID)
			if entry.Date.OccursOn(now) {
				sb.WriteString(" " + EmojiCake)
			}
			sb.WriteString("\n")
		}
		builder.SetDescription(sb.String())
	}

	buttons := []discord.InteractiveComponent{
		discord.NewSecondaryButton("Previous", ListButtonPrefix+fmt.Sprint(page-1)).WithDisabled(page <= 1),
		discord.NewSecondaryButton("Next", ListButtonPrefix+fmt.Sprint(page+1)).WithDisabled(page >= pages),
	}
	return builder.Build(), buttons
}
