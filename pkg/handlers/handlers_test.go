package handlers

import (
	"birthdayy-bot/pkg/config"
	"strings"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAnnouncementMessage(t *testing.T) {
	assert.Contains(t, validateAnnouncementMessage("Happy Birthday!", false), "premium")
	assert.Empty(t, validateAnnouncementMessage("Happy Birthday {MENTION}!", true))
	assert.NotEmpty(t, validateAnnouncementMessage("", true))
	assert.Empty(t, validateAnnouncementMessage(strings.Repeat("🎂", config.AnnouncementMessageMaxLen), true))
	assert.NotEmpty(t, validateAnnouncementMessage(strings.Repeat("a", config.AnnouncementMessageMaxLen+1), true))
}

func TestValidateBirthdayRole(t *testing.T) {
	guildID := snowflake.ID(100)
	tests := []struct {
		name  string
		role  discord.Role
		valid bool
	}{
		{name: "everyone", role: discord.Role{ID: guildID, Position: 0}},
		{name: "managed", role: discord.Role{ID: 1, Position: 1, Managed: true}},
		{name: "same position", role: discord.Role{ID: 2, Position: 5}},
		{name: "above", role: discord.Role{ID: 3, Position: 7}},
		{name: "below", role: discord.Role{ID: 4, Position: 4}, valid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateBirthdayRole(tt.role, guildID, 5)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "Invalid date", capitalize("invalid date"))
	assert.Equal(t, "A", capitalize("a"))
}

func TestCommandName(t *testing.T) {
	sub := "register"
	data := discord.SlashCommandInteractionData{SubCommandName: &sub}
	assert.Equal(t, " register", commandName(data))
}

func TestResetChoices(t *testing.T) {
	choices := resetChoices()
	require.Len(t, choices, len(config.Names))
	for i, choice := range choices {
		name, err := config.ParseName(choice.Value)
		require.NoError(t, err)
		assert.Equal(t, config.Names[i], name)
		assert.Equal(t, name.String(), choice.Name)
	}
}

func TestTimezoneChoices(t *testing.T) {
	choices := timezoneChoices()
	require.Len(t, choices, config.MaxTimezone-config.MinTimezone+1)
	assert.LessOrEqual(t, len(choices), 25)
	for _, choice := range choices {
		assert.True(t, config.ValidTimezone(choice.Value), choice.Name)
	}
}

func TestMonthChoices(t *testing.T) {
	choices := monthChoices()
	require.Len(t, choices, 12)
	assert.Equal(t, "January", choices[0].Name)
	assert.Equal(t, 12, choices[11].Value)
}

func TestCommandDefinitions(t *testing.T) {
	names := make(map[string]bool)
	for _, command := range append(Commands, OwnerCommands...) {
		assert.False(t, names[command.CommandName()], command.CommandName())
		names[command.CommandName()] = true
	}
	assert.True(t, names["birthday"])
	assert.True(t, names["config"])
	assert.True(t, names["guild-info"])
}
