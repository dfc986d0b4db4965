package db

import (
	"birthdayy-bot/pkg/config"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jackc/pgx/v5"
)

const (
	guildColumns = "guild_id, announcement_channel, announcement_message, overview_channel, overview_message, birthday_role, birthday_ping_role, log_channel, timezone, premium, language, disabled"

	selectGuildQuery       = "SELECT " + guildColumns + " FROM guild WHERE guild_id = $1;"
	selectActiveGuildQuery = "SELECT " + guildColumns + " FROM guild WHERE NOT disabled;"
	upsertGuildQuery       = "INSERT INTO guild (guild_id) VALUES ($1) ON CONFLICT (guild_id) DO UPDATE SET disabled = FALSE, last_updated = now();"
	upsertSettingQuery     = "INSERT INTO guild (guild_id, %[1]s) VALUES ($1, $2) ON CONFLICT (guild_id) DO UPDATE SET %[1]s = excluded.%[1]s, last_updated = now();"
	upsertOverviewQuery    = "INSERT INTO guild (guild_id, overview_channel, overview_message) VALUES ($1, $2, $3) ON CONFLICT (guild_id) DO UPDATE SET overview_channel = excluded.overview_channel, overview_message = excluded.overview_message, last_updated = now();"
	updateOverviewMsgQuery = "UPDATE guild SET overview_message = $2, last_updated = now() WHERE guild_id = $1;"
	resetSettingQuery      = "UPDATE guild SET %s, last_updated = now() WHERE guild_id = $1;"
	updateDisabledQuery    = "UPDATE guild SET disabled = $2, last_updated = now() WHERE guild_id = $1;"
	countGuildsQuery       = "SELECT count(*) FROM guild WHERE NOT disabled;"
)

// GetGuildConfig returns the stored settings of a guild or the defaults if nothing was stored yet.
func (db *DB) GetGuildConfig(ctx context.Context, guildID snowflake.ID) (config.Guild, error) {
	rows, err := db.pool.Query(ctx, selectGuildQuery, guildID)
	if err != nil {
		return config.Guild{}, err
	}
	cfg, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[config.Guild])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return config.DefaultGuild(guildID), nil
		}
		return config.Guild{}, err
	}
	return cfg, nil
}

func (db *DB) ListActiveGuilds(ctx context.Context) ([]config.Guild, error) {
	rows, err := db.pool.Query(ctx, selectActiveGuildQuery)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[config.Guild])
}

// UpsertGuild makes sure the guild exists and is enabled.
func (db *DB) UpsertGuild(ctx context.Context, guildID snowflake.ID) error {
	_, err := db.pool.Exec(ctx, upsertGuildQuery, guildID)
	return err
}

// UpdateGuildSetting stores a single setting. The overview channel has to be set with SetOverview.
func (db *DB) UpdateGuildSetting(ctx context.Context, guildID snowflake.ID, name config.Name, value any) error {
	columns := name.Columns()
	if len(columns) != 1 {
		return fmt.Errorf("setting %q can't be updated on its own", name)
	}
	_, err := db.pool.Exec(ctx, fmt.Sprintf(upsertSettingQuery, columns[0]), guildID, value)
	return err
}

func (db *DB) SetOverview(ctx context.Context, guildID snowflake.ID, channelID snowflake.ID, messageID snowflake.ID) error {
	_, err := db.pool.Exec(ctx, upsertOverviewQuery, guildID, channelID, messageID)
	return err
}

func (db *DB) SetOverviewMessage(ctx context.Context, guildID snowflake.ID, messageID snowflake.ID) error {
	_, err := db.pool.Exec(ctx, updateOverviewMsgQuery, guildID, messageID)
	return err
}

// ResetGuildConfig restores the default of a setting. ErrNotFound is returned for unknown guilds.
func (db *DB) ResetGuildConfig(ctx context.Context, guildID snowflake.ID, name config.Name) error {
	columns := name.Columns()
	if len(columns) == 0 {
		return fmt.Errorf("unknown setting %q", name)
	}
	assignments := make([]string, len(columns))
	for i, column := range columns {
		assignments[i] = column + " = DEFAULT"
	}
	return affected(db.pool.Exec(ctx, fmt.Sprintf(resetSettingQuery, strings.Join(assignments, ", ")), guildID))
}

func (db *DB) SetGuildDisabled(ctx context.Context, guildID snowflake.ID, disabled bool) error {
	_, err := db.pool.Exec(ctx, updateDisabledQuery, guildID, disabled)
	return err
}

func (db *DB) CountGuilds(ctx context.Context) (int, error) {
	return db.count(ctx, countGuildsQuery)
}
