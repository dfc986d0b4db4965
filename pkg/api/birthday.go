package api

import (
	"birthdayy-bot/pkg/birthday"
	"birthdayy-bot/pkg/db"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
)

const (
	codeUnknownGuild  = 10004
	codeUnknownMember = 10007
	codeUnknownUser   = 10013
)

// createBirthday registers a birthday for a member of a guild.
// Query: guild_id, user_id, date (YYYY-MM-DD or XXXX-MM-DD).
func (a *API) createBirthday(c *gin.Context) error {
	params := make(map[string]string, 3)
	for _, key := range []string{"guild_id", "user_id", "date"} {
		value := c.Query(key)
		if value == "" {
			fail(c, http.StatusBadRequest, ErrorCodeMissingParameter, "Missing parameter: "+key)
			return nil
		}
		params[key] = value
	}
	guildID, err := snowflake.Parse(params["guild_id"])
	if err != nil {
		fail(c, http.StatusBadRequest, ErrorCodeInvalidParameter, "Invalid parameter: guild_id")
		return nil
	}
	userID, err := snowflake.Parse(params["user_id"])
	if err != nil {
		fail(c, http.StatusBadRequest, ErrorCodeInvalidParameter, "Invalid parameter: user_id")
		return nil
	}
	date, err := birthday.ParseDate(params["date"], a.now())
	if err != nil {
		fail(c, http.StatusBadRequest, ErrorCodeInvalidDateFormat, "Wrong Date Format use YYYY-MM-DD or XXXX-MM-DD")
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()
	member, err := a.members.GetMember(guildID, userID, rest.WithCtx(ctx))
	if err != nil {
		switch restCode(err) {
		case codeUnknownGuild:
			fail(c, http.StatusBadRequest, "", "Guild not found")
			return nil
		case codeUnknownMember, codeUnknownUser, http.StatusNotFound:
			fail(c, http.StatusBadRequest, "", "User not found")
			return nil
		}
		return err
	}
	if err := a.store.UpsertUser(ctx, member.User.ID, member.User.Username); err != nil {
		return err
	}
	if err := a.store.CreateBirthday(ctx, guildID, userID, date); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			fail(c, http.StatusConflict, ErrorCodeDuplicateEntry, "Birthday already registered")
			return nil
		}
		return err
	}
	if err := a.overview.Update(ctx, guildID); err != nil {
		slog.Warn("birthdayy: error while refreshing overview", slog.Any("guild.id", guildID), tint.Err(err))
	}
	c.JSON(http.StatusCreated, Response{Success: true})
	return nil
}

// restCode returns the Discord error code of a REST error, the HTTP status if the code is unset
// or 0 for any other error.
func restCode(err error) int {
	var restErr *rest.Error
	if !errors.As(err, &restErr) {
		return 0
	}
	if restErr.Code != 0 {
		return int(restErr.Code)
	}
	if restErr.Response != nil {
		return restErr.Response.StatusCode
	}
	return 0
}
