package db

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

const (
	upsertUserQuery        = `INSERT INTO "user" (user_id, username) VALUES ($1, $2) ON CONFLICT (user_id) DO UPDATE SET username = excluded.username, last_updated = now();`
	countUsersQuery        = `SELECT count(*) FROM "user";`
	selectBlacklistedQuery = "SELECT EXISTS (SELECT 1 FROM blacklist WHERE guild_id = $1);"
	insertBlacklistQuery   = "INSERT INTO blacklist (guild_id, reason) VALUES ($1, $2) ON CONFLICT (guild_id) DO UPDATE SET reason = excluded.reason;"
	deleteBlacklistQuery   = "DELETE FROM blacklist WHERE guild_id = $1;"
)

func (db *DB) UpsertUser(ctx context.Context, userID snowflake.ID, username string) error {
	_, err := db.pool.Exec(ctx, upsertUserQuery, userID, username)
	return err
}

func (db *DB) CountUsers(ctx context.Context) (int, error) {
	return db.count(ctx, countUsersQuery)
}

func (db *DB) IsBlacklisted(ctx context.Context, guildID snowflake.ID) (bool, error) {
	var blacklisted bool
	err := db.pool.QueryRow(ctx, selectBlacklistedQuery, guildID).Scan(&blacklisted)
	return blacklisted, err
}

func (db *DB) AddBlacklist(ctx context.Context, guildID snowflake.ID, reason string) error {
	_, err := db.pool.Exec(ctx, insertBlacklistQuery, guildID, reason)
	return err
}

func (db *DB) RemoveBlacklist(ctx context.Context, guildID snowflake.ID) error {
	return affected(db.pool.Exec(ctx, deleteBlacklistQuery, guildID))
}
