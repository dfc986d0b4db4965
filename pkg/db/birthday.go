package db

import (
	"birthdayy-bot/pkg/birthday"
	"context"
	"errors"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jackc/pgx/v5"
)

const (
	birthdayColumns = "guild_id, user_id, year, month, day"

	insertBirthdayQuery = "WITH g AS (INSERT INTO guild (guild_id) VALUES ($1) ON CONFLICT (guild_id) DO NOTHING) " +
		"INSERT INTO birthday (guild_id, user_id, year, month, day) VALUES ($1, $2, $3, $4, $5) " +
		"ON CONFLICT (guild_id, user_id) DO UPDATE SET year = excluded.year, month = excluded.month, day = excluded.day, disabled = FALSE, last_updated = now() WHERE birthday.disabled;"
	updateBirthdayQuery      = "UPDATE birthday SET year = $3, month = $4, day = $5, disabled = FALSE, last_updated = now() WHERE guild_id = $1 AND user_id = $2;"
	deleteBirthdayQuery      = "DELETE FROM birthday WHERE guild_id = $1 AND user_id = $2;"
	disableBirthdayQuery     = "UPDATE birthday SET disabled = TRUE, last_updated = now() WHERE guild_id = $1 AND user_id = $2;"
	selectBirthdayQuery      = "SELECT " + birthdayColumns + " FROM birthday WHERE guild_id = $1 AND user_id = $2 AND NOT disabled;"
	listBirthdaysQuery       = "SELECT " + birthdayColumns + " FROM birthday WHERE guild_id = $1 AND NOT disabled;"
	listBirthdaysOnQuery     = "SELECT " + birthdayColumns + " FROM birthday WHERE guild_id = $1 AND month = $2 AND day = ANY($3) AND NOT disabled;"
	countBirthdaysQuery      = "SELECT count(*) FROM birthday WHERE NOT disabled;"
	countGuildBirthdaysQuery = "SELECT count(*) FROM birthday WHERE guild_id = $1 AND NOT disabled;"
	deleteDisabledGuilds     = "DELETE FROM guild WHERE disabled;"
	deleteDisabledBirthdays  = "DELETE FROM birthday WHERE disabled;"
)

type birthdayRow struct {
	GuildID snowflake.ID `db:"guild_id"`
	UserID  snowflake.ID `db:"user_id"`
	Year    int          `db:"year"`
	Month   int          `db:"month"`
	Day     int          `db:"day"`
}

func (r birthdayRow) entry() birthday.Entry {
	return birthday.Entry{
		GuildID: r.GuildID,
		UserID:  r.UserID,
		Date: birthday.Date{
			Year:  r.Year,
			Month: time.Month(r.Month),
			Day:   r.Day,
		},
	}
}

// CreateBirthday stores a new birthday. ErrDuplicate is returned if the member already has one.
func (db *DB) CreateBirthday(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, date birthday.Date) error {
	tag, err := db.pool.Exec(ctx, insertBirthdayQuery, guildID, userID, date.Year, int(date.Month), date.Day)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicate
	}
	return nil
}

func (db *DB) UpdateBirthday(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, date birthday.Date) error {
	return affected(db.pool.Exec(ctx, updateBirthdayQuery, guildID, userID, date.Year, int(date.Month), date.Day))
}

func (db *DB) DeleteBirthday(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) error {
	return affected(db.pool.Exec(ctx, deleteBirthdayQuery, guildID, userID))
}

// DisableBirthday hides a birthday until it is registered again. Disabled birthdays are removed by DeleteDisabled.
func (db *DB) DisableBirthday(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) error {
	_, err := db.pool.Exec(ctx, disableBirthdayQuery, guildID, userID)
	return err
}

func (db *DB) GetBirthday(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (birthday.Entry, error) {
	rows, err := db.pool.Query(ctx, selectBirthdayQuery, guildID, userID)
	if err != nil {
		return birthday.Entry{}, err
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[birthdayRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return birthday.Entry{}, ErrNotFound
		}
		return birthday.Entry{}, err
	}
	return row.entry(), nil
}

func (db *DB) ListBirthdays(ctx context.Context, guildID snowflake.ID) ([]birthday.Entry, error) {
	rows, err := db.pool.Query(ctx, listBirthdaysQuery, guildID)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

// ListBirthdaysOn returns the birthdays celebrated on the calendar day of t,
// which includes February 29th on February 28th of common years.
func (db *DB) ListBirthdaysOn(ctx context.Context, guildID snowflake.ID, t time.Time) ([]birthday.Entry, error) {
	days := []int{t.Day()}
	leapDay := birthday.Date{Month: time.February, Day: 29}
	if t.Day() != 29 && leapDay.OccursOn(t) {
		days = append(days, 29)
	}
	rows, err := db.pool.Query(ctx, listBirthdaysOnQuery, guildID, int(t.Month()), days)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

func (db *DB) CountBirthdays(ctx context.Context) (int, error) {
	return db.count(ctx, countBirthdaysQuery)
}

func (db *DB) CountGuildBirthdays(ctx context.Context, guildID snowflake.ID) (int, error) {
	return db.count(ctx, countGuildBirthdaysQuery, guildID)
}

// DeleteDisabled removes disabled guilds together with their birthdays and all disabled birthdays.
func (db *DB) DeleteDisabled(ctx context.Context) (guilds int64, birthdays int64, err error) {
	tag, err := db.pool.Exec(ctx, deleteDisabledGuilds)
	if err != nil {
		return 0, 0, err
	}
	guilds = tag.RowsAffected()
	tag, err = db.pool.Exec(ctx, deleteDisabledBirthdays)
	if err != nil {
		return guilds, 0, err
	}
	return guilds, tag.RowsAffected(), nil
}

func collectEntries(rows pgx.Rows) ([]birthday.Entry, error) {
	collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[birthdayRow])
	if err != nil {
		return nil, err
	}
	entries := make([]birthday.Entry, len(collected))
	for i, row := range collected {
		entries[i] = row.entry()
	}
	return entries, nil
}
