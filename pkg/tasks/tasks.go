package tasks

import (
	"birthdayy-bot/pkg"
	"birthdayy-bot/pkg/birthday"
	"birthdayy-bot/pkg/config"
	"birthdayy-bot/pkg/report"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
	"github.com/go-co-op/gocron"
	"github.com/lmittmann/tint"
)

const (
	taskTimeout      = 10 * time.Minute
	guildConcurrency = 10

	taskReminder = "birthday-reminder"
	taskStats    = "display-stats"
	taskClean    = "clean-database"

	reminderCron = "0 * * * *"
	statsCron    = "30 * * * *"
	cleanCron    = "0 3 * * *"
)

type Store interface {
	ListActiveGuilds(ctx context.Context) ([]config.Guild, error)
	ListBirthdaysOn(ctx context.Context, guildID snowflake.ID, t time.Time) ([]birthday.Entry, error)
	DisableBirthday(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) error
	CountGuilds(ctx context.Context) (int, error)
	CountUsers(ctx context.Context) (int, error)
	DeleteDisabled(ctx context.Context) (int64, int64, error)
}

// Discord is the part of rest.Rest the tasks use.
type Discord interface {
	GetMember(guildID snowflake.ID, userID snowflake.ID, opts ...rest.RequestOpt) (*discord.Member, error)
	AddMemberRole(guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error
	RemoveMemberRole(guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
	UpdateChannel(channelID snowflake.ID, channelUpdate discord.ChannelUpdate, opts ...rest.RequestOpt) (discord.Channel, error)
}

type Overview interface {
	Update(ctx context.Context, guildID snowflake.ID) error
}

type Tasks struct {
	store     Store
	discord   Discord
	overview  Overview
	guildName func(guildID snowflake.ID) string
	config    *pkg.Config
	now       func() time.Time

	mu       sync.Mutex
	reminded map[snowflake.ID]string
}

func New(store Store, discord Discord, overview Overview, guildName func(guildID snowflake.ID) string, cfg *pkg.Config) *Tasks {
	return &Tasks{
		store:     store,
		discord:   discord,
		overview:  overview,
		guildName: guildName,
		config:    cfg,
		now:       time.Now,
		reminded:  make(map[snowflake.ID]string),
	}
}

// Schedule registers every task on a new UTC scheduler. The scheduler is not started.
func (t *Tasks) Schedule() (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	jobs := []struct {
		name string
		cron string
		fn   func(ctx context.Context) error
	}{
		{name: taskReminder, cron: reminderCron, fn: t.Reminder},
		{name: taskStats, cron: statsCron, fn: t.DisplayStats},
		{name: taskClean, cron: cleanCron, fn: t.CleanDatabase},
	}
	for _, job := range jobs {
		if _, err := s.Cron(job.cron).Tag(job.name).Do(t.run, job.name, job.fn); err != nil {
			return nil, fmt.Errorf("error while scheduling %s: %w", job.name, err)
		}
	}
	return s, nil
}

func (t *Tasks) run(name string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()
	start := time.Now()
	slog.Debug("birthdayy: running task", slog.String("task.name", name))
	if err := fn(ctx); err != nil {
		slog.Error("birthdayy: error while running task", slog.String("task.name", name), tint.Err(err))
		report.CaptureTaskError(name, err)
		return
	}
	slog.Debug("birthdayy: finished task", slog.String("task.name", name), slog.Duration("task.duration", time.Since(start)))
}

// DisplayStats renames the stats channels of the main guild to the current guild and user counts.
func (t *Tasks) DisplayStats(ctx context.Context) error {
	if !t.config.IsProduction() || t.config.CustomBot {
		return nil
	}
	guilds, err := t.store.CountGuilds(ctx)
	if err != nil {
		return err
	}
	users, err := t.store.CountUsers(ctx)
	if err != nil {
		return err
	}
	if err := t.renameChannel(ctx, t.config.GuildStatsChannel, fmt.Sprintf("Servers: %d 🍰", guilds)); err != nil {
		return err
	}
	return t.renameChannel(ctx, t.config.UserStatsChannel, fmt.Sprintf("Users: %d 👥", users))
}

func (t *Tasks) renameChannel(ctx context.Context, channelID snowflake.ID, name string) error {
	if channelID == 0 {
		return nil
	}
	if _, err := t.discord.UpdateChannel(channelID, discord.GuildVoiceChannelUpdate{Name: json.Ptr(name)}, rest.WithCtx(ctx)); err != nil {
		return fmt.Errorf("error while renaming stats channel %s: %w", channelID, err)
	}
	return nil
}

// CleanDatabase deletes left guilds and birthdays of members who left.
func (t *Tasks) CleanDatabase(ctx context.Context) error {
	guilds, birthdays, err := t.store.DeleteDisabled(ctx)
	if err != nil {
		return err
	}
	slog.Info("birthdayy: cleaned database", slog.Int64("guilds.deleted", guilds), slog.Int64("birthdays.deleted", birthdays))
	return nil
}
