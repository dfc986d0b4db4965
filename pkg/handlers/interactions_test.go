package handlers

import (
	"birthdayy-bot/pkg"
	"birthdayy-bot/pkg/db"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/getsentry/sentry-go"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testGuildID   = snowflake.ID(1)
	testChannelID = snowflake.ID(10)
	testUserID    = snowflake.ID(100)
	otherUserID   = snowflake.ID(200)
)

type fakeRest struct {
	rest.Rest
	mu       sync.Mutex
	messages map[snowflake.ID][]discord.MessageCreate
}

func (r *fakeRest) CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, _ ...rest.RequestOpt) (*discord.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[channelID] = append(r.messages[channelID], messageCreate)
	return &discord.Message{ID: 1, ChannelID: channelID}, nil
}

type responseRecorder struct {
	responseType discord.InteractionResponseType
	data         discord.InteractionResponseData
}

func (r *responseRecorder) respond(responseType discord.InteractionResponseType, data discord.InteractionResponseData, _ ...rest.RequestOpt) error {
	r.responseType = responseType
	r.data = data
	return nil
}

func (r *responseRecorder) message(t *testing.T) discord.MessageCreate {
	t.Helper()
	require.Equal(t, discord.InteractionResponseTypeCreateMessage, r.responseType)
	message, ok := r.data.(discord.MessageCreate)
	require.True(t, ok, "response is %T", r.data)
	return message
}

type testHandler struct {
	*Handler
	mock   pgxmock.PgxPoolIface
	rest   *fakeRest
	client *bot.Client
}

func newTestHandler(t *testing.T, cfg *pkg.Config) *testHandler {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	r := &fakeRest{messages: make(map[snowflake.ID][]discord.MessageCreate)}
	return &testHandler{
		Handler: NewHandler(&pkg.Bot{DB: db.NewDB(mock)}, cfg),
		mock:    mock,
		rest:    r,
		client:  &bot.Client{Rest: r},
	}
}

// dispatch runs the interaction through the router like the gateway does.
func (h *testHandler) dispatch(interaction discord.Interaction) *responseRecorder {
	recorder := &responseRecorder{}
	h.OnEvent(&events.InteractionCreate{
		GenericEvent: events.NewGenericEvent(h.client, 0, 0),
		Interaction:  interaction,
		Respond:      recorder.respond,
	})
	return recorder
}

func (h *testHandler) commandEvent(interaction discord.ApplicationCommandInteraction) *handler.CommandEvent {
	recorder := &responseRecorder{}
	return &handler.CommandEvent{
		ApplicationCommandInteractionCreate: &events.ApplicationCommandInteractionCreate{
			GenericEvent:                  events.NewGenericEvent(h.client, 0, 0),
			ApplicationCommandInteraction: interaction,
			Respond:                       recorder.respond,
		},
		Vars: make(map[string]string),
		Ctx:  context.Background(),
	}
}

func (h *testHandler) expectBlacklisted(blacklisted bool) {
	h.mock.ExpectQuery("FROM blacklist").
		WithArgs(testGuildID).
		WillReturnRows(h.mock.NewRows([]string{"exists"}).AddRow(blacklisted))
}

func slashCommand(t *testing.T, permissions discord.Permissions, data string) discord.ApplicationCommandInteraction {
	t.Helper()
	raw := fmt.Sprintf(`{
		"id": "900",
		"application_id": "800",
		"type": 2,
		"token": "token",
		"version": 1,
		"guild_id": "%[1]d",
		"channel": {"id": "%[2]d", "type": 0, "guild_id": "%[1]d", "name": "general"},
		"member": {
			"user": {"id": "%[3]d", "username": "invoker"},
			"roles": [],
			"permissions": "%[4]d"
		},
		"locale": "en-US",
		"data": %[5]s
	}`, testGuildID, testChannelID, testUserID, permissions, data)
	interaction, err := discord.UnmarshalInteraction([]byte(raw))
	require.NoError(t, err)
	command, ok := interaction.(discord.ApplicationCommandInteraction)
	require.True(t, ok)
	return command
}

func registerForOther() string {
	return fmt.Sprintf(`{
		"id": "700",
		"type": 1,
		"name": "birthday",
		"options": [{
			"name": "register",
			"type": 1,
			"options": [
				{"name": "day", "type": 4, "value": 5},
				{"name": "month", "type": 4, "value": 3},
				{"name": "user", "type": 6, "value": "%[1]d"}
			]
		}],
		"resolved": {"users": {"%[1]d": {"id": "%[1]d", "username": "friend"}}}
	}`, otherUserID)
}

const guideCommand = `{"id": "701", "type": 1, "name": "guide"}`

const configResetTimezone = `{
	"id": "702",
	"type": 1,
	"name": "config",
	"options": [{
		"name": "reset",
		"type": 1,
		"options": [{"name": "config", "type": 3, "value": "timezone"}]
	}]
}`

func captureEvents(t *testing.T) *[]*sentry.Event {
	t.Helper()
	var captured []*sentry.Event
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn: "https://public@sentry.example.com/1",
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			captured = append(captured, event)
			return nil
		},
	})
	require.NoError(t, err)
	sentry.CurrentHub().BindClient(client)
	t.Cleanup(func() { sentry.CurrentHub().BindClient(nil) })
	return &captured
}

func TestRegisterForOtherMemberNeedsManageRoles(t *testing.T) {
	h := newTestHandler(t, &pkg.Config{})
	h.expectBlacklisted(false)

	recorder := h.dispatch(slashCommand(t, discord.PermissionSendMessages, registerForOther()))

	message := recorder.message(t)
	assert.True(t, message.Flags.Has(discord.MessageFlagEphemeral))
	require.Len(t, message.Embeds, 1)
	assert.Contains(t, message.Embeds[0].Description, "Manage Roles")
	assert.NoError(t, h.mock.ExpectationsWereMet())
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name        string
		permissions discord.Permissions
		owners      []snowflake.ID
		data        string
		target      snowflake.ID
		allowed     bool
	}{
		{
			name:        "own birthday",
			permissions: discord.PermissionSendMessages,
			data:        `{"id": "700", "type": 1, "name": "birthday", "options": [{"name": "register", "type": 1, "options": []}]}`,
			target:      testUserID,
			allowed:     true,
		},
		{
			name:        "other member without permission",
			permissions: discord.PermissionSendMessages,
			data:        registerForOther(),
			target:      otherUserID,
		},
		{
			name:        "other member with manage roles",
			permissions: discord.PermissionManageRoles,
			data:        registerForOther(),
			target:      otherUserID,
			allowed:     true,
		},
		{
			name:        "other member as bot owner",
			permissions: discord.PermissionSendMessages,
			owners:      []snowflake.ID{testUserID},
			data:        registerForOther(),
			target:      otherUserID,
			allowed:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &pkg.Config{Owners: tt.owners})
			interaction := slashCommand(t, tt.permissions, tt.data)

			target, allowed := h.resolveTarget(interaction.SlashCommandInteractionData(), h.commandEvent(interaction))
			assert.Equal(t, tt.target, target.ID)
			assert.Equal(t, tt.allowed, allowed)
		})
	}
}

func TestBlacklistMiddleware(t *testing.T) {
	t.Run("blacklisted guild", func(t *testing.T) {
		h := newTestHandler(t, &pkg.Config{})
		h.expectBlacklisted(true)

		message := h.dispatch(slashCommand(t, 0, guideCommand)).message(t)
		assert.True(t, message.Flags.Has(discord.MessageFlagEphemeral))
		require.Len(t, message.Embeds, 1)
		assert.Contains(t, message.Embeds[0].Description, "blacklisted")
		assert.Empty(t, message.Components)
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})

	t.Run("other guild", func(t *testing.T) {
		h := newTestHandler(t, &pkg.Config{})
		h.expectBlacklisted(false)

		message := h.dispatch(slashCommand(t, 0, guideCommand)).message(t)
		require.Len(t, message.Embeds, 1)
		assert.Contains(t, message.Embeds[0].Title, "Guide")
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})
}

func TestHandleError(t *testing.T) {
	captured := captureEvents(t)
	h := newTestHandler(t, &pkg.Config{Environment: pkg.EnvironmentDevelopment, AdminLogChannel: 70})
	h.mock.ExpectQuery("FROM blacklist").
		WithArgs(testGuildID).
		WillReturnError(errors.New("connection refused"))

	message := h.dispatch(slashCommand(t, 0, guideCommand)).message(t)

	assert.True(t, message.Flags.Has(discord.MessageFlagEphemeral))
	require.Len(t, message.Embeds, 1)
	assert.Contains(t, message.Embeds[0].Title, "Something went wrong")
	assert.Contains(t, message.Embeds[0].Description, "`/guide`")
	require.Len(t, message.Embeds[0].Fields, 1)
	assert.Contains(t, message.Embeds[0].Fields[0].Value, "connection refused")

	require.Len(t, *captured, 1)
	event := (*captured)[0]
	assert.Equal(t, "guide", event.Tags["command.name"])
	assert.Equal(t, testGuildID.String(), event.Tags["guild.id"])
	assert.Equal(t, testUserID.String(), event.Tags["user.id"])
	assert.Equal(t, testChannelID.String(), event.Tags["channel.id"])

	require.Len(t, h.rest.messages[70], 1)
	assert.Equal(t, message.Embeds, h.rest.messages[70][0].Embeds)
}

func TestHandleErrorHidesDetailsInProduction(t *testing.T) {
	captureEvents(t)
	h := newTestHandler(t, &pkg.Config{Environment: pkg.EnvironmentProduction})
	h.mock.ExpectQuery("FROM blacklist").
		WithArgs(testGuildID).
		WillReturnError(errors.New("connection refused"))

	message := h.dispatch(slashCommand(t, 0, guideCommand)).message(t)
	require.Len(t, message.Embeds, 1)
	assert.Empty(t, message.Embeds[0].Fields)
	assert.Empty(t, h.rest.messages)
}

func TestConfigResetWithoutGuild(t *testing.T) {
	h := newTestHandler(t, &pkg.Config{})
	h.expectBlacklisted(false)
	h.mock.ExpectExec("UPDATE guild SET timezone = DEFAULT").
		WithArgs(testGuildID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	message := h.dispatch(slashCommand(t, discord.PermissionManageGuild, configResetTimezone)).message(t)

	assert.True(t, message.Flags.Has(discord.MessageFlagEphemeral))
	require.Len(t, message.Embeds, 1)
	assert.Contains(t, message.Embeds[0].Description, "couldn't be reset")
	assert.NoError(t, h.mock.ExpectationsWereMet())
}

func TestConfigResetNeedsManageServer(t *testing.T) {
	h := newTestHandler(t, &pkg.Config{})
	h.expectBlacklisted(false)

	message := h.dispatch(slashCommand(t, discord.PermissionManageRoles, configResetTimezone)).message(t)

	require.Len(t, message.Embeds, 1)
	assert.Contains(t, message.Embeds[0].Description, "Manage Server")
	assert.NoError(t, h.mock.ExpectationsWereMet())
}

func guildEvent(h *testHandler, guildID snowflake.ID) *events.GenericGuild {
	return &events.GenericGuild{
		GenericEvent: events.NewGenericEvent(h.client, 0, 0),
		GuildID:      guildID,
	}
}

func TestOnGuildJoin(t *testing.T) {
	h := newTestHandler(t, &pkg.Config{ServerLogChannel: 60})
	h.mock.ExpectExec("INSERT INTO guild").
		WithArgs(snowflake.ID(5)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	h.mock.ExpectQuery("SELECT count").
		WillReturnRows(h.mock.NewRows([]string{"count"}).AddRow(int64(7)))

	h.onGuildJoin(&events.GuildJoin{
		GenericGuild: guildEvent(h, 5),
		Guild:        discord.GatewayGuild{Guild: discord.Guild{ID: 5, Name: "HQ", MemberCount: 12}},
	})

	require.NoError(t, h.mock.ExpectationsWereMet())
	require.Len(t, h.rest.messages[60], 1)
	embed := h.rest.messages[60][0].Embeds[0]
	assert.Contains(t, embed.Description, "`7`")
	assert.Equal(t, "HQ", embed.Fields[0].Value)
}

func TestOnGuildJoinCustomBot(t *testing.T) {
	h := newTestHandler(t, &pkg.Config{ServerLogChannel: 60, CustomBot: true})
	h.mock.ExpectExec("INSERT INTO guild").
		WithArgs(snowflake.ID(5)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	h.onGuildJoin(&events.GuildJoin{
		GenericGuild: guildEvent(h, 5),
		Guild:        discord.GatewayGuild{Guild: discord.Guild{ID: 5, Name: "HQ"}},
	})

	require.NoError(t, h.mock.ExpectationsWereMet())
	assert.Empty(t, h.rest.messages)
}

func TestOnGuildLeave(t *testing.T) {
	h := newTestHandler(t, &pkg.Config{ServerLogChannel: 60})
	h.mock.ExpectExec("UPDATE guild SET disabled").
		WithArgs(snowflake.ID(5), true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	h.onGuildLeave(&events.GuildLeave{GenericGuild: guildEvent(h, 5)})

	require.NoError(t, h.mock.ExpectationsWereMet())
	assert.Empty(t, h.rest.messages)
}
