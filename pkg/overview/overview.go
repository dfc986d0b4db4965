package overview

import (
	"birthdayy-bot/pkg/birthday"
	"birthdayy-bot/pkg/config"
	"birthdayy-bot/pkg/embeds"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

const (
	codeUnknownMessage       = 10008
	codeMessageAuthoredOther = 50005
)

type Store interface {
	GetGuildConfig(ctx context.Context, guildID snowflake.ID) (config.Guild, error)
	ListBirthdays(ctx context.Context, guildID snowflake.ID) ([]birthday.Entry, error)
	SetOverview(ctx context.Context, guildID snowflake.ID, channelID snowflake.ID, messageID snowflake.ID) error
	SetOverviewMessage(ctx context.Context, guildID snowflake.ID, messageID snowflake.ID) error
}

// Messenger is satisfied by rest.Rest.
type Messenger interface {
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
	UpdateMessage(channelID snowflake.ID, messageID snowflake.ID, messageUpdate discord.MessageUpdate, opts ...rest.RequestOpt) (*discord.Message, error)
}

// Updater keeps the overview message of a guild in sync with its birthdays.
type Updater struct {
	store     Store
	messenger Messenger
	guildName func(guildID snowflake.ID) string
	now       func() time.Time
}

func NewUpdater(store Store, messenger Messenger, guildName func(guildID snowflake.ID) string) *Updater {
	return &Updater{
		store:     store,
		messenger: messenger,
		guildName: guildName,
		now:       time.Now,
	}
}

// Update edits the stored overview message of a guild. A new message is posted if there is none yet
// or the stored one is gone. Guilds without an overview channel are skipped.
func (u *Updater) Update(ctx context.Context, guildID snowflake.ID) error {
	cfg, err := u.store.GetGuildConfig(ctx, guildID)
	if err != nil {
		return err
	}
	if cfg.OverviewChannel == nil {
		return nil
	}
	embed, buttons, err := u.render(ctx, cfg, 1)
	if err != nil {
		return err
	}
	channelID := *cfg.OverviewChannel
	if cfg.OverviewMessage != nil {
		messageID := *cfg.OverviewMessage
		_, err := u.messenger.UpdateMessage(channelID, messageID, discord.NewMessageUpdate().
			WithEmbeds(embed).
			AddActionRow(buttons...), rest.WithCtx(ctx))
		if err == nil {
			slog.Debug("birthdayy: updated overview message", slog.Any("guild.id", guildID), slog.Any("message.id", messageID))
			return nil
		}
		if !IsUnknownMessage(err) {
			slog.Error("birthdayy: error while updating overview message",
				slog.Any("guild.id", guildID),
				slog.Any("channel.id", channelID),
				slog.Any("message.id", messageID),
				tint.Err(err))
			return err
		}
		slog.Warn("birthdayy: overview message not found, creating a new one",
			slog.Any("guild.id", guildID),
			slog.Any("message.id", messageID))
	}
	message, err := u.send(ctx, channelID, embed, buttons)
	if err != nil {
		return err
	}
	return u.store.SetOverviewMessage(ctx, guildID, message.ID)
}

// Create posts a fresh overview message to the channel and stores both as the guild's overview.
func (u *Updater) Create(ctx context.Context, guildID snowflake.ID, channelID snowflake.ID) (*discord.Message, error) {
	cfg, err := u.store.GetGuildConfig(ctx, guildID)
	if err != nil {
		return nil, err
	}
	embed, buttons, err := u.render(ctx, cfg, 1)
	if err != nil {
		return nil, err
	}
	message, err := u.send(ctx, channelID, embed, buttons)
	if err != nil {
		return nil, err
	}
	if err := u.store.SetOverview(ctx, guildID, channelID, message.ID); err != nil {
		return nil, err
	}
	return message, nil
}

// Page renders the given page of the birthday list of a guild.
func (u *Updater) Page(ctx context.Context, guildID snowflake.ID, page int) (discord.Embed, []discord.InteractiveComponent, error) {
	cfg, err := u.store.GetGuildConfig(ctx, guildID)
	if err != nil {
		return discord.Embed{}, nil, err
	}
	return u.render(ctx, cfg, page)
}

func (u *Updater) render(ctx context.Context, cfg config.Guild, page int) (discord.Embed, []discord.InteractiveComponent, error) {
	entries, err := u.store.ListBirthdays(ctx, cfg.GuildID)
	if err != nil {
		return discord.Embed{}, nil, err
	}
	embed, buttons := embeds.BirthdayList(u.guildName(cfg.GuildID), entries, page, u.now().In(config.Location(cfg.Timezone)))
	return embed, buttons, nil
}

func (u *Updater) send(ctx context.Context, channelID snowflake.ID, embed discord.Embed, buttons []discord.InteractiveComponent) (*discord.Message, error) {
	return u.messenger.CreateMessage(channelID, discord.NewMessageCreate().
		WithEmbeds(embed).
		AddActionRow(buttons...), rest.WithCtx(ctx))
}

// IsUnknownMessage reports whether a REST error means the message can't be edited anymore.
func IsUnknownMessage(err error) bool {
	var restErr *rest.Error
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Code == codeUnknownMessage || restErr.Code == codeMessageAuthoredOther {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
