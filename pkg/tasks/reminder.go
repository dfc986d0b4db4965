package tasks

import (
	"birthdayy-bot/pkg/config"
	"birthdayy-bot/pkg/embeds"
	"birthdayy-bot/pkg/report"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"
)

const (
	codeUnknownMember = 10007
	reminderWindow    = 2
)

// Reminder announces today's birthdays of every guild where a new local day started.
// Each guild is reminded at most once per local date, within the first hours of that day.
func (t *Tasks) Reminder(ctx context.Context) error {
	guilds, err := t.store.ListActiveGuilds(ctx)
	if err != nil {
		return err
	}
	now := t.now()
	var eg errgroup.Group
	eg.SetLimit(guildConcurrency)
	for _, cfg := range guilds {
		local := now.In(config.Location(cfg.Timezone))
		if !t.markReminded(cfg.GuildID, local) {
			continue
		}
		eg.Go(func() error {
			if err := t.remind(ctx, cfg, local); err != nil {
				slog.Error("birthdayy: error while reminding guild", slog.Any("guild.id", cfg.GuildID), tint.Err(err))
				report.CaptureTaskError(taskReminder, err)
			}
			return nil
		})
	}
	return eg.Wait()
}

// markReminded reports whether the guild is due for its reminder on the local date and records it.
// Days starting with a DST gap have no hour 0, so the window spans reminderWindow hours.
func (t *Tasks) markReminded(guildID snowflake.ID, local time.Time) bool {
	if local.Hour() >= reminderWindow {
		return false
	}
	date := local.Format(time.DateOnly)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.reminded[guildID] == date {
		return false
	}
	t.reminded[guildID] = date
	return true
}

func (t *Tasks) remind(ctx context.Context, cfg config.Guild, local time.Time) error {
	guildID := cfg.GuildID
	if cfg.BirthdayRole != nil {
		yesterday, err := t.store.ListBirthdaysOn(ctx, guildID, local.AddDate(0, 0, -1))
		if err != nil {
			return err
		}
		for _, entry := range yesterday {
			if err := t.discord.RemoveMemberRole(guildID, entry.UserID, *cfg.BirthdayRole, rest.WithCtx(ctx)); err != nil && !isUnknownMember(err) {
				slog.Warn("birthdayy: error while removing birthday role",
					slog.Any("guild.id", guildID),
					slog.Any("user.id", entry.UserID),
					tint.Err(err))
			}
		}
	}

	today, err := t.store.ListBirthdaysOn(ctx, guildID, local)
	if err != nil {
		return err
	}

	var announced, failed int
	var roleAssigned bool
	for _, entry := range today {
		member, err := t.discord.GetMember(guildID, entry.UserID, rest.WithCtx(ctx))
		if err != nil {
			if isUnknownMember(err) {
				slog.Debug("birthdayy: disabling birthday of member who left", slog.Any("guild.id", guildID), slog.Any("user.id", entry.UserID))
				if err := t.store.DisableBirthday(ctx, guildID, entry.UserID); err != nil {
					return err
				}
				continue
			}
			slog.Warn("birthdayy: error while fetching birthday member", slog.Any("guild.id", guildID), slog.Any("user.id", entry.UserID), tint.Err(err))
			failed++
			continue
		}

		if cfg.AnnouncementChannel != nil {
			data := embeds.AnnouncementData{
				UserID:    member.User.ID,
				Username:  member.User.Username,
				GuildName: t.guildName(guildID),
				AvatarURL: member.User.EffectiveAvatarURL(),
				Age:       entry.Date.AgeOn(local),
			}
			if _, err := t.discord.CreateMessage(*cfg.AnnouncementChannel, embeds.AnnouncementMessage(cfg, data), rest.WithCtx(ctx)); err != nil {
				slog.Warn("birthdayy: error while announcing birthday",
					slog.Any("guild.id", guildID),
					slog.Any("channel.id", *cfg.AnnouncementChannel),
					tint.Err(err))
				failed++
			} else {
				announced++
			}
		}

		if cfg.BirthdayRole != nil {
			if err := t.discord.AddMemberRole(guildID, entry.UserID, *cfg.BirthdayRole, rest.WithCtx(ctx)); err != nil {
				slog.Warn("birthdayy: error while adding birthday role", slog.Any("guild.id", guildID), slog.Any("user.id", entry.UserID), tint.Err(err))
			} else {
				roleAssigned = true
			}
		}
	}

	if err := t.overview.Update(ctx, guildID); err != nil {
		slog.Warn("birthdayy: error while refreshing overview", slog.Any("guild.id", guildID), tint.Err(err))
	}
	if len(today) == 0 {
		return nil
	}
	if cfg.LogChannel != nil {
		summary := discord.NewMessageCreate().WithEmbeds(embeds.ReminderSummary(announced, failed, roleAssigned))
		if _, err := t.discord.CreateMessage(*cfg.LogChannel, summary, rest.WithCtx(ctx)); err != nil {
			slog.Warn("birthdayy: error while posting reminder summary", slog.Any("guild.id", guildID), tint.Err(err))
		}
	}
	slog.Info("birthdayy: reminded guild",
		slog.Any("guild.id", guildID),
		slog.Int("birthdays.announced", announced),
		slog.Int("birthdays.failed", failed))
	return nil
}

func isUnknownMember(err error) bool {
	var restErr *rest.Error
	if !errors.As(err, &restErr) {
		return false
	}
	return restErr.Code == codeUnknownMember || (restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound)
}
