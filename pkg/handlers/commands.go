package handlers

import (
	"birthdayy-bot/pkg"
	"birthdayy-bot/pkg/embeds"
	"birthdayy-bot/pkg/report"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/lmittmann/tint"
)

const commandTimeout = 10 * time.Second

func NewHandler(b *pkg.Bot, c *pkg.Config) *Handler {
	mux := handler.New()
	handlers := &Handler{
		Bot:    b,
		Config: c,
		Router: mux,
	}
	mux.Error(handlers.handleError)
	handlers.Use(handlers.blacklistMiddleware)
	handlers.Route("/birthday", func(r handler.Router) {
		r.SlashCommand("/register", handlers.HandleBirthdayRegister)
		r.SlashCommand("/update", handlers.HandleBirthdayUpdate)
		r.SlashCommand("/remove", handlers.HandleBirthdayRemove)
		r.SlashCommand("/show", handlers.HandleBirthdayShow)
		r.Command("/list", handlers.HandleBirthdayList)
		r.Command("/test", handlers.HandleBirthdayTest)
	})
	handlers.ButtonComponent("/birthday-list/{page}", handlers.HandleBirthdayListPage)
	handlers.Route("/config", func(r handler.Router) {
		r.Group(func(r handler.Router) {
			r.SlashCommand("/announcement-channel", handlers.HandleConfigAnnouncementChannel)
			r.SlashCommand("/overview-channel", handlers.HandleConfigOverviewChannel)
			r.SlashCommand("/log-channel", handlers.HandleConfigLogChannel)
		})
		r.Group(func(r handler.Router) {
			r.SlashCommand("/birthday-role", handlers.HandleConfigBirthdayRole)
			r.SlashCommand("/ping-role", handlers.HandleConfigPingRole)
		})
		r.SlashCommand("/announcement-message", handlers.HandleConfigAnnouncementMessage)
		r.SlashCommand("/timezone", handlers.HandleConfigTimezone)
		r.SlashCommand("/reset", handlers.HandleConfigReset)
		r.Command("/list", handlers.HandleConfigList)
	})
	handlers.Group(func(r handler.Router) {
		r.Command("/guide", handlers.HandleGuide)
		r.Command("/count", handlers.HandleCount)
		r.SlashCommand("/guild-info", handlers.HandleGuildInfo)
	})
	handlers.Route("/blacklist", func(r handler.Router) {
		r.SlashCommand("/add", handlers.HandleBlacklistAdd)
		r.SlashCommand("/remove", handlers.HandleBlacklistRemove)
	})
	return handlers
}

type Handler struct {
	Bot    *pkg.Bot
	Config *pkg.Config
	handler.Router
}

func (h *Handler) handleError(e *handler.InteractionEvent, err error) {
	command := "unknown"
	tags := map[string]string{"user.id": e.User().ID.String()}
	if guildID := e.GuildID(); guildID != nil {
		tags["guild.id"] = guildID.String()
	}
	if i, ok := e.Interaction.(discord.ApplicationCommandInteraction); ok {
		command = commandName(i.Data)
		tags["channel.id"] = i.Channel().ID().String()
	} else if i, ok := e.Interaction.(discord.ComponentInteraction); ok {
		command = i.Data.CustomID()
	}
	slog.Error("birthdayy: error while handling a command",
		slog.String("command.name", command),
		slog.String("user.id", tags["user.id"]),
		slog.String("guild.id", tags["guild.id"]),
		tint.Err(err))
	report.CaptureCommandError(command, tags, err)

	embed := embeds.Error(command, err, !h.Config.IsProduction())
	_ = e.Respond(discord.InteractionResponseTypeCreateMessage, discord.NewMessageCreate().
		WithEmbeds(embed).
		WithEphemeral(true))

	if h.Config.AdminLogChannel != 0 {
		if _, err := e.Client().Rest.CreateMessage(h.Config.AdminLogChannel, discord.NewMessageCreate().WithEmbeds(embed)); err != nil {
			slog.Warn("birthdayy: error while posting to the admin log channel", tint.Err(err))
		}
	}
}

// blacklistMiddleware stops every interaction coming from a blacklisted guild.
func (h *Handler) blacklistMiddleware(next handler.Handler) handler.Handler {
	return func(e *handler.InteractionEvent) error {
		guildID := e.GuildID()
		if guildID == nil {
			return next(e)
		}
		ctx, cancel := h.ctx()
		defer cancel()
		blacklisted, err := h.Bot.DB.IsBlacklisted(ctx, *guildID)
		if err != nil {
			return err
		}
		if blacklisted {
			slog.Debug("birthdayy: ignoring interaction from blacklisted guild", slog.Any("guild.id", *guildID))
			return e.Respond(discord.InteractionResponseTypeCreateMessage, discord.NewMessageCreate().
				WithEmbeds(embeds.Problem("This server has been blacklisted from using Birthdayy.")).
				WithEphemeral(true))
		}
		return next(e)
	}
}

func (h *Handler) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

func commandName(data discord.ApplicationCommandInteractionData) string {
	name := data.CommandName()
	if slash, ok := data.(discord.SlashCommandInteractionData); ok {
		if slash.SubCommandGroupName != nil {
			name += " " + *slash.SubCommandGroupName
		}
		if slash.SubCommandName != nil {
			name += " " + *slash.SubCommandName
		}
	}
	return name
}

func reply(e *handler.CommandEvent, embed discord.Embed) error {
	return e.CreateMessage(discord.NewMessageCreate().WithEmbeds(embed).WithEphemeral(true))
}

func success(e *handler.CommandEvent, format string, a ...any) error {
	return reply(e, embeds.Success(fmt.Sprintf(format, a...)))
}

func problem(e *handler.CommandEvent, format string, a ...any) error {
	return reply(e, embeds.Problem(fmt.Sprintf(format, a...)))
}
