package db

import (
	"birthdayy-bot/pkg/birthday"
	"birthdayy-bot/pkg/config"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	guildID = snowflake.ID(916434908728164372)
	userID  = snowflake.ID(267614892821970945)
)

var guildRowColumns = []string{"guild_id", "announcement_channel", "announcement_message", "overview_channel", "overview_message", "birthday_role", "birthday_ping_role", "log_channel", "timezone", "premium", "language", "disabled"}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *DB) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock, NewDB(mock)
}

func TestMigrate(t *testing.T) {
	mock, db := newMock(t)
	mock.ExpectExec(schema).WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, db.Migrate(context.Background()))
}

func TestGetGuildConfig(t *testing.T) {
	mock, db := newMock(t)
	channelID := snowflake.ID(1)
	message := "Happy birthday {MENTION}"
	mock.ExpectQuery(selectGuildQuery).
		WithArgs(guildID).
		WillReturnRows(mock.NewRows(guildRowColumns).
			AddRow(guildID, &channelID, &message, nil, nil, nil, nil, nil, 2, true, "en-US", false))

	cfg, err := db.GetGuildConfig(context.Background(), guildID)
	require.NoError(t, err)
	assert.Equal(t, guildID, cfg.GuildID)
	require.NotNil(t, cfg.AnnouncementChannel)
	assert.Equal(t, channelID, *cfg.AnnouncementChannel)
	assert.Equal(t, message, cfg.Message())
	assert.Nil(t, cfg.OverviewChannel)
	assert.Equal(t, 2, cfg.Timezone)
	assert.True(t, cfg.Premium)
}

func TestGetGuildConfigDefaults(t *testing.T) {
	mock, db := newMock(t)
	mock.ExpectQuery(selectGuildQuery).
		WithArgs(guildID).
		WillReturnRows(mock.NewRows(guildRowColumns))

	cfg, err := db.GetGuildConfig(context.Background(), guildID)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultGuild(guildID), cfg)
}

func TestGetGuildConfigError(t *testing.T) {
	mock, db := newMock(t)
	mock.ExpectQuery(selectGuildQuery).
		WithArgs(guildID).
		WillReturnError(errors.New("connection reset"))

	_, err := db.GetGuildConfig(context.Background(), guildID)
	assert.Error(t, err)
}

func TestListActiveGuilds(t *testing.T) {
	mock, db := newMock(t)
	mock.ExpectQuery(selectActiveGuildQuery).
		WillReturnRows(mock.NewRows(guildRowColumns).
			AddRow(guildID, nil, nil, nil, nil, nil, nil, nil, 0, false, "en-US", false).
			AddRow(snowflake.ID(2), nil, nil, nil, nil, nil, nil, nil, -5, false, "en-US", false))

	guilds, err := db.ListActiveGuilds(context.Background())
	require.NoError(t, err)
	require.Len(t, guilds, 2)
	assert.Equal(t, -5, guilds[1].Timezone)
}

func TestUpdateGuildSetting(t *testing.T) {
	mock, db := newMock(t)
	roleID := snowflake.ID(42)
	mock.ExpectExec("INSERT INTO guild (guild_id, birthday_role) VALUES ($1, $2) ON CONFLICT (guild_id) DO UPDATE SET birthday_role = excluded.birthday_role, last_updated = now();").
		WithArgs(guildID, roleID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, db.UpdateGuildSetting(context.Background(), guildID, config.NameBirthdayRole, roleID))
	assert.Error(t, db.UpdateGuildSetting(context.Background(), guildID, config.NameOverviewChannel, roleID))
}

func TestResetGuildConfig(t *testing.T) {
	mock, db := newMock(t)
	mock.ExpectExec("UPDATE guild SET overview_channel = DEFAULT, overview_message = DEFAULT, last_updated = now() WHERE guild_id = $1;").
		WithArgs(guildID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE guild SET timezone = DEFAULT, last_updated = now() WHERE guild_id = $1;").
		WithArgs(guildID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, db.ResetGuildConfig(context.Background(), guildID, config.NameOverviewChannel))
	assert.ErrorIs(t, db.ResetGuildConfig(context.Background(), guildID, config.NameTimezone), ErrNotFound)
	assert.Error(t, db.ResetGuildConfig(context.Background(), guildID, config.Name("premium")))
}

func TestSetOverview(t *testing.T) {
	mock, db := newMock(t)
	channelID, messageID := snowflake.ID(10), snowflake.ID(11)
	mock.ExpectExec(upsertOverviewQuery).
		WithArgs(guildID, channelID, messageID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(updateOverviewMsgQuery).
		WithArgs(guildID, messageID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, db.SetOverview(context.Background(), guildID, channelID, messageID))
	require.NoError(t, db.SetOverviewMessage(context.Background(), guildID, messageID))
}

func TestCreateBirthday(t *testing.T) {
	mock, db := newMock(t)
	date := birthday.Date{Year: 1998, Month: time.March, Day: 5}
	mock.ExpectExec(insertBirthdayQuery).
		WithArgs(guildID, userID, 1998, 3, 5).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(insertBirthdayQuery).
		WithArgs(guildID, userID, 1998, 3, 5).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	require.NoError(t, db.CreateBirthday(context.Background(), guildID, userID, date))
	assert.ErrorIs(t, db.CreateBirthday(context.Background(), guildID, userID, date), ErrDuplicate)
}

func TestUpdateAndDeleteBirthdayNotFound(t *testing.T) {
	mock, db := newMock(t)
	date := birthday.Date{Month: time.December, Day: 24}
	mock.ExpectExec(updateBirthdayQuery).
		WithArgs(guildID, userID, 0, 12, 24).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(deleteBirthdayQuery).
		WithArgs(guildID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(deleteBirthdayQuery).
		WithArgs(guildID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.ErrorIs(t, db.UpdateBirthday(context.Background(), guildID, userID, date), ErrNotFound)
	assert.ErrorIs(t, db.DeleteBirthday(context.Background(), guildID, userID), ErrNotFound)
	assert.NoError(t, db.DeleteBirthday(context.Background(), guildID, userID))
}

func TestGetBirthday(t *testing.T) {
	mock, db := newMock(t)
	columns := []string{"guild_id", "user_id", "year", "month", "day"}
	mock.ExpectQuery(selectBirthdayQuery).
		WithArgs(guildID, userID).
		WillReturnRows(mock.NewRows(columns).AddRow(guildID, userID, 0, 2, 29))
	mock.ExpectQuery(selectBirthdayQuery).
		WithArgs(guildID, userID).
		WillReturnRows(mock.NewRows(columns))

	entry, err := db.GetBirthday(context.Background(), guildID, userID)
	require.NoError(t, err)
	assert.Equal(t, birthday.Date{Month: time.February, Day: 29}, entry.Date)
	assert.Equal(t, userID, entry.UserID)

	_, err = db.GetBirthday(context.Background(), guildID, userID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListBirthdaysOnIncludesLeapDay(t *testing.T) {
	mock, db := newMock(t)
	columns := []string{"guild_id", "user_id", "year", "month", "day"}
	mock.ExpectQuery(listBirthdaysOnQuery).
		WithArgs(guildID, 2, []int{28, 29}).
		WillReturnRows(mock.NewRows(columns).
			AddRow(guildID, userID, 2000, 2, 29).
			AddRow(guildID, snowflake.ID(5), 0, 2, 28))
	mock.ExpectQuery(listBirthdaysOnQuery).
		WithArgs(guildID, 2, []int{28}).
		WillReturnRows(mock.NewRows(columns))

	entries, err := db.ListBirthdaysOn(context.Background(), guildID, time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = db.ListBirthdaysOn(context.Background(), guildID, time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCounts(t *testing.T) {
	mock, db := newMock(t)
	mock.ExpectQuery(countGuildsQuery).WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(12)))
	mock.ExpectQuery(countUsersQuery).WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(34)))
	mock.ExpectQuery(countGuildBirthdaysQuery).WithArgs(guildID).WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(5)))

	guilds, err := db.CountGuilds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, guilds)

	users, err := db.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 34, users)

	birthdays, err := db.CountGuildBirthdays(context.Background(), guildID)
	require.NoError(t, err)
	assert.Equal(t, 5, birthdays)
}

func TestBlacklist(t *testing.T) {
	mock, db := newMock(t)
	mock.ExpectExec(insertBlacklistQuery).WithArgs(guildID, "spam").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(selectBlacklistedQuery).WithArgs(guildID).WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(deleteBlacklistQuery).WithArgs(guildID).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, db.AddBlacklist(context.Background(), guildID, "spam"))
	blacklisted, err := db.IsBlacklisted(context.Background(), guildID)
	require.NoError(t, err)
	assert.True(t, blacklisted)
	assert.ErrorIs(t, db.RemoveBlacklist(context.Background(), guildID), ErrNotFound)
}

func TestDeleteDisabled(t *testing.T) {
	mock, db := newMock(t)
	mock.ExpectExec(deleteDisabledGuilds).WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(deleteDisabledBirthdays).WillReturnResult(pgxmock.NewResult("DELETE", 7))

	guilds, birthdays, err := db.DeleteDisabled(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), guilds)
	assert.Equal(t, int64(7), birthdays)
}
